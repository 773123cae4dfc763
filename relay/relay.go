/*
Package relay forwards notifications out of the process.

A relay listener is an ordinary notification handler: Publish hands it the notification,
it encodes the value as JSON into a mediator.Envelope and passes it to a Sink such as
the NATS, RabbitMQ or Kafka adapters. The mediator itself stays in-process.
*/
package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"reflect"

	merr "github.com/next-trace/scg-mediator/contract/errors"
	cmed "github.com/next-trace/scg-mediator/contract/mediator"
	"github.com/next-trace/scg-mediator/registry"
)

// Header names set on every envelope.
const (
	HeaderDispatchID  = "x-dispatch-id"
	HeaderMessageType = "x-message-type"
	HeaderContentType = "content-type"

	subjectPrefix = "notifications."
	contentType   = "application/json"
)

// Option configures a Forwarder.
type Option func(*settings)

type settings struct {
	subject    string
	propagator cmed.HeaderPropagator
	headers    map[string]string
	logger     *slog.Logger
}

// WithSubject overrides the default subject "notifications.<TypeName>".
func WithSubject(subject string) Option {
	return func(s *settings) { s.subject = subject }
}

// WithPropagator injects tracing context into envelope headers.
func WithPropagator(p cmed.HeaderPropagator) Option {
	return func(s *settings) { s.propagator = p }
}

// WithHeaders adds static headers to every envelope.
func WithHeaders(h map[string]string) Option {
	return func(s *settings) {
		for k, v := range h {
			s.headers[k] = v
		}
	}
}

// WithLogger sets the logger used for forwarding diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// Forwarder relays notifications of type N to a Sink.
type Forwarder[N cmed.Notification] struct {
	sink cmed.Sink
	cfg  settings
}

// NewForwarder returns a Forwarder for N over sink.
func NewForwarder[N cmed.Notification](sink cmed.Sink, opts ...Option) *Forwarder[N] {
	cfg := settings{headers: map[string]string{}}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.subject == "" {
		cfg.subject = subjectPrefix + typeName(reflect.TypeFor[N]())
	}

	if cfg.propagator == nil {
		cfg.propagator = cmed.NopHeaderPropagator{}
	}

	if cfg.logger == nil {
		cfg.logger = slog.New(slog.DiscardHandler)
	}

	return &Forwarder[N]{sink: sink, cfg: cfg}
}

// Listener declares a relay component for N that can be added to a module.
func Listener[N cmed.Notification](sink cmed.Sink, opts ...Option) registry.Component {
	f := NewForwarder[N](sink, opts...)
	return registry.Listener[N](func() *Forwarder[N] { return f })
}

// Subject returns the subject envelopes are sent to.
func (f *Forwarder[N]) Subject() string { return f.cfg.subject }

// Envelope encodes n without forwarding it.
func (f *Forwarder[N]) Envelope(ctx context.Context, n N) (cmed.Envelope, error) {
	body, err := json.Marshal(n)
	if err != nil {
		return cmed.Envelope{}, fmt.Errorf("relay %s encode: %w", f.cfg.subject, errors.Join(merr.ErrSerializationFailed, err))
	}

	headers := make(map[string]string, len(f.cfg.headers)+3)
	for k, v := range f.cfg.headers {
		headers[k] = v
	}

	headers[HeaderMessageType] = reflect.TypeFor[N]().String()
	headers[HeaderContentType] = contentType

	if id, ok := cmed.DispatchID(ctx); ok {
		headers[HeaderDispatchID] = id
	}

	f.cfg.propagator.Inject(ctx, headers)

	return cmed.Envelope{Subject: f.cfg.subject, Body: body, Headers: headers}, nil
}

// Handle encodes n and forwards it to the sink.
func (f *Forwarder[N]) Handle(ctx context.Context, n N) error {
	if f.sink == nil {
		return fmt.Errorf("relay %s: %w", f.cfg.subject, merr.ErrTransportNotConfigured)
	}

	env, err := f.Envelope(ctx, n)
	if err != nil {
		return err
	}

	if err := f.sink.Forward(ctx, env); err != nil {
		f.cfg.logger.WarnContext(ctx, "relay forward failed",
			slog.String("subject", env.Subject), slog.String("error", err.Error()))

		return err
	}

	f.cfg.logger.DebugContext(ctx, "relay forwarded",
		slog.String("subject", env.Subject), slog.Int("bytes", len(env.Body)))

	return nil
}

func typeName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t.Name() == "" {
		return t.String()
	}

	return t.Name()
}
