package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/google/uuid"

	merr "github.com/next-trace/scg-mediator/contract/errors"
	cmed "github.com/next-trace/scg-mediator/contract/mediator"
	"github.com/next-trace/scg-mediator/registry"
)

// Mediator resolves handlers from a Locator and invokes them.
// It holds no mutable state after New and is safe for concurrent use.
type Mediator struct {
	loc      cmed.Locator
	logger   *slog.Logger
	strategy PublishStrategy
	reqMW    []RequestMiddleware
	reqObs   []RequestObserver
	notMW    []NotificationMiddleware
	newID    func() string
}

var _ cmed.Mediator = (*Mediator)(nil)

// New constructs a Mediator over loc. A nil loc resolves nothing.
func New(loc cmed.Locator, opts ...Option) *Mediator {
	m := &Mediator{loc: loc}
	for _, opt := range opts {
		opt(m)
	}

	if m.loc == nil {
		m.loc = registry.New()
	}

	if m.logger == nil {
		m.logger = slog.New(slog.DiscardHandler)
	}

	if m.newID == nil {
		m.newID = uuid.NewString
	}

	return m
}

// Locator returns the locator handlers are resolved from.
func (m *Mediator) Locator() cmed.Locator { return m.loc }

// Strategy returns the publish strategy in effect.
func (m *Mediator) Strategy() PublishStrategy { return m.strategy }

func (m *Mediator) dispatchContext(ctx context.Context) (context.Context, string) {
	if id, ok := cmed.DispatchID(ctx); ok {
		return ctx, id
	}

	id := m.newID()

	return cmed.WithDispatchID(ctx, id), id
}

func isNil(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}

func canceled(op string, t reflect.Type, cause error) error {
	return fmt.Errorf("%s %s: %w", op, t, errors.Join(merr.ErrCanceled, cause))
}

func implName(h any) string {
	if i, ok := h.(cmed.Implementer); ok && i.Implementation() != nil {
		return i.Implementation().String()
	}

	return fmt.Sprintf("%T", h)
}
