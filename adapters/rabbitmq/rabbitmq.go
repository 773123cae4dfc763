package rabbitmq

import (
	"context"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	merr "github.com/next-trace/scg-mediator/contract/errors"
	cmed "github.com/next-trace/scg-mediator/contract/mediator"
)

// DefaultExchange is the topic exchange envelopes are published to.
const DefaultExchange = "notifications"

type PubMsg struct {
	Exchange   string
	RoutingKey string
	Body       []byte
	Headers    map[string]string
}

type Publisher interface {
	Publish(ctx context.Context, m PubMsg) error
}

type Adapter struct {
	Publisher  Publisher
	Propagator cmed.HeaderPropagator // optional, for context propagation into headers
	// Exchange overrides DefaultExchange.
	Exchange string
	// Prefix is prepended to every routing key when set, e.g. "app.".
	Prefix string
}

var _ cmed.Sink = (*Adapter)(nil)

func New(p Publisher) *Adapter { return &Adapter{Publisher: p} }

// NewWithPropagator allows configuring a HeaderPropagator for context propagation.
func NewWithPropagator(p Publisher, hp cmed.HeaderPropagator) *Adapter {
	return &Adapter{Publisher: p, Propagator: hp}
}

// Forward publishes env with Prefix plus its subject as routing key.
func (a *Adapter) Forward(ctx context.Context, env cmed.Envelope) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if a.Publisher == nil {
		return fmt.Errorf("rabbitmq forward: %w", merr.ErrTransportNotConfigured)
	}

	// copy headers to avoid mutating the envelope
	hdrs := make(map[string]string, len(env.Headers)+4)
	for k, v := range env.Headers {
		hdrs[k] = v
	}

	if a.Propagator != nil {
		a.Propagator.Inject(ctx, hdrs)
	}

	key := a.Prefix + env.Subject

	msg := PubMsg{
		Exchange:   a.exchange(),
		RoutingKey: key,
		Body:       env.Body,
		Headers:    hdrs,
	}
	if err := a.Publisher.Publish(ctx, msg); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}

		return fmt.Errorf("rabbitmq forward %s: %w", key, errors.Join(merr.ErrForwardFailed, err))
	}

	return nil
}

func (a *Adapter) exchange() string {
	if a.Exchange != "" {
		return a.Exchange
	}

	return DefaultExchange
}

func table(headers map[string]string) amqp.Table {
	if len(headers) == 0 {
		return nil
	}

	h := amqp.Table{}
	for k, v := range headers {
		h[k] = v
	}

	return h
}

func publishing(m PubMsg) amqp.Publishing {
	return amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		Headers:      table(m.Headers),
		ContentType:  "application/json",
		Body:         m.Body,
	}
}

type amqpChannelPublisher struct{ ch *amqp.Channel }

func (p amqpChannelPublisher) Publish(ctx context.Context, m PubMsg) error {
	return p.ch.PublishWithContext(ctx, m.Exchange, m.RoutingKey, false, false, publishing(m))
}

// NewWithAMQPChannel publishes over an already opened channel. The exchange must exist.
func NewWithAMQPChannel(ch *amqp.Channel) *Adapter {
	return &Adapter{Publisher: amqpChannelPublisher{ch: ch}}
}
