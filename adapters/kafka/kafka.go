package kafka

import (
	"context"
	"errors"
	"fmt"

	merr "github.com/next-trace/scg-mediator/contract/errors"
	cmed "github.com/next-trace/scg-mediator/contract/mediator"
)

// DefaultKeyHeader names the envelope header used as record key, so that notifications
// of one type land on one partition.
const DefaultKeyHeader = "x-message-type"

// Writer is a minimal Kafka-like writer interface.
// Users can adapt segmentio/kafka-go or any other client to this.
type Writer interface {
	Write(ctx context.Context, topic string, key, value []byte, headers map[string]string) error
}

// Adapter implements mediator.Sink using an injected Writer.
type Adapter struct {
	Writer Writer
	// TopicPrefix is prepended to every envelope subject.
	TopicPrefix string
	// KeyHeader overrides DefaultKeyHeader.
	KeyHeader string
}

var _ cmed.Sink = (*Adapter)(nil)

// New creates a new Kafka adapter instance with the provided writer.
func New(w Writer) *Adapter { return &Adapter{Writer: w} }

// Forward writes env to the topic named by its subject.
func (a *Adapter) Forward(ctx context.Context, env cmed.Envelope) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if a.Writer == nil {
		return fmt.Errorf("kafka forward: %w", merr.ErrTransportNotConfigured)
	}

	topic := a.TopicPrefix + env.Subject

	var key []byte
	if v := env.Headers[a.keyHeader()]; v != "" {
		key = []byte(v)
	}

	if err := a.Writer.Write(ctx, topic, key, env.Body, env.Headers); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}

		return fmt.Errorf("kafka forward %s: %w", topic, errors.Join(merr.ErrForwardFailed, err))
	}

	return nil
}

func (a *Adapter) keyHeader() string {
	if a.KeyHeader != "" {
		return a.KeyHeader
	}

	return DefaultKeyHeader
}
