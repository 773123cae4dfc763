// Package metrics records mediator traffic as Prometheus metrics through dispatcher middleware.
package metrics

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	merr "github.com/next-trace/scg-mediator/contract/errors"
	cmed "github.com/next-trace/scg-mediator/contract/mediator"
	"github.com/next-trace/scg-mediator/dispatcher"
)

const namespace = "mediator"

// Outcome label values.
const (
	OutcomeOK        = "ok"
	OutcomeError     = "error"
	OutcomeCanceled  = "canceled"
	OutcomeNotFound  = "not_found"
	OutcomeAmbiguous = "ambiguous"
)

// Collector holds the mediator metrics.
type Collector struct {
	requestsTotal        *prometheus.CounterVec
	requestDuration      *prometheus.HistogramVec
	notificationsTotal   *prometheus.CounterVec
	notificationDuration *prometheus.HistogramVec
}

// New creates the collector and registers it with reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &Collector{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "Total number of requests sent through the mediator by request type and outcome.",
			},
			[]string{"request", "outcome"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_duration_seconds",
				Help:      "Request handling duration distribution.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"request"},
		),
		notificationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "notifications_total",
				Help:      "Total number of notification handler invocations by notification type and outcome.",
			},
			[]string{"notification", "outcome"},
		),
		notificationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "notification_duration_seconds",
				Help:      "Notification handler duration distribution.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"notification"},
		),
	}

	for _, m := range []prometheus.Collector{c.requestsTotal, c.requestDuration, c.notificationsTotal, c.notificationDuration} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// RequestMiddleware records the outcome and duration of every Send that reaches its
// handler. Sends rejected earlier are counted by RequestObserver.
func (c *Collector) RequestMiddleware() dispatcher.RequestMiddleware {
	return func(next cmed.RequestFunc) cmed.RequestFunc {
		return func(ctx context.Context, req any) (any, error) {
			name := MessageName(req)
			start := time.Now()

			res, err := next(ctx, req)

			c.requestDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
			c.requestsTotal.WithLabelValues(name, outcome(err)).Inc()

			return res, err
		}
	}
}

// RequestObserver counts Sends that failed before a handler ran (not found, ambiguous,
// canceled, unresolvable). No duration is observed for them.
func (c *Collector) RequestObserver() dispatcher.RequestObserver {
	return func(_ context.Context, req any, err error) {
		c.requestsTotal.WithLabelValues(MessageName(req), outcome(err)).Inc()
	}
}

// NotificationMiddleware records the outcome and duration of every handler invocation.
func (c *Collector) NotificationMiddleware() dispatcher.NotificationMiddleware {
	return func(next cmed.NotificationFunc) cmed.NotificationFunc {
		return func(ctx context.Context, n any) error {
			name := MessageName(n)
			start := time.Now()

			err := next(ctx, n)

			c.notificationDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
			c.notificationsTotal.WithLabelValues(name, outcome(err)).Inc()

			return err
		}
	}
}

// Options returns dispatcher options installing the middlewares and the request observer.
func (c *Collector) Options() []dispatcher.Option {
	return []dispatcher.Option{
		dispatcher.WithRequestMiddleware(c.RequestMiddleware()),
		dispatcher.WithRequestObserver(c.RequestObserver()),
		dispatcher.WithNotificationMiddleware(c.NotificationMiddleware()),
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded), errors.Is(err, merr.ErrCanceled):
		return OutcomeCanceled
	case errors.Is(err, merr.ErrHandlerNotFound):
		return OutcomeNotFound
	case errors.Is(err, merr.ErrAmbiguousHandler):
		return OutcomeAmbiguous
	default:
		return OutcomeError
	}
}

// MessageName returns the label used for a message: its type name without package or pointer.
//   - "*orders.PlaceOrder" becomes "PlaceOrder"
func MessageName(v any) string {
	if v == nil {
		return "unknown"
	}

	name := strings.TrimPrefix(reflect.TypeOf(v).String(), "*")
	if i := strings.Index(name, "["); i >= 0 {
		name = name[:i]
	}

	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}

	return name
}
