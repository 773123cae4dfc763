package dispatcher

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	cmed "github.com/next-trace/scg-mediator/contract/mediator"
)

// PublishStrategy decides how Publish drives the handlers of one notification.
type PublishStrategy uint8

const (
	// Sequential runs handlers one after another in registration order.
	Sequential PublishStrategy = iota
	// Concurrent runs every handler in its own goroutine and waits for all of them.
	Concurrent
)

func (s PublishStrategy) String() string {
	switch s {
	case Sequential:
		return "sequential"
	case Concurrent:
		return "concurrent"
	default:
		return fmt.Sprintf("PublishStrategy(%d)", uint8(s))
	}
}

// ParsePublishStrategy parses "sequential" or "concurrent". An empty string yields Sequential.
func ParsePublishStrategy(s string) (PublishStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sequential":
		return Sequential, nil
	case "concurrent":
		return Concurrent, nil
	default:
		return 0, fmt.Errorf("publish strategy %q: want sequential or concurrent", s)
	}
}

// RequestMiddleware wraps request handling. Middlewares run in registration order.
type RequestMiddleware func(next cmed.RequestFunc) cmed.RequestFunc

// RequestObserver is told about a Send that failed before any handler ran: cancellation,
// a missing or ambiguous handler, or a resolve failure.
type RequestObserver func(ctx context.Context, req any, err error)

// NotificationMiddleware wraps the invocation of each notification handler.
type NotificationMiddleware func(next cmed.NotificationFunc) cmed.NotificationFunc

// Option configures a Mediator.
type Option func(*Mediator)

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(l *slog.Logger) Option {
	return func(m *Mediator) { m.logger = l }
}

// WithPublishStrategy selects how Publish runs handlers.
func WithPublishStrategy(s PublishStrategy) Option {
	return func(m *Mediator) { m.strategy = s }
}

// WithRequestMiddleware appends request middleware.
func WithRequestMiddleware(mw ...RequestMiddleware) Option {
	return func(m *Mediator) { m.reqMW = append(m.reqMW, mw...) }
}

// WithRequestObserver appends observers for Sends rejected before dispatch.
func WithRequestObserver(obs ...RequestObserver) Option {
	return func(m *Mediator) { m.reqObs = append(m.reqObs, obs...) }
}

// WithNotificationMiddleware appends notification middleware.
func WithNotificationMiddleware(mw ...NotificationMiddleware) Option {
	return func(m *Mediator) { m.notMW = append(m.notMW, mw...) }
}

// WithIDGenerator replaces the dispatch ID generator.
func WithIDGenerator(gen func() string) Option {
	return func(m *Mediator) { m.newID = gen }
}
