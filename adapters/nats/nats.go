package nats

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	merr "github.com/next-trace/scg-mediator/contract/errors"
	cmed "github.com/next-trace/scg-mediator/contract/mediator"
)

// Client is a minimal NATS-like publisher interface decoupled from any concrete library.
// Users can provide a wrapper around their NATS connection to satisfy this.
type Client interface {
	// Publish publishes a message to a subject with optional headers.
	Publish(ctx context.Context, subject string, data []byte, headers map[string]string) error
}

// Adapter implements mediator.Sink using an injected NATS-like Client.
type Adapter struct {
	Client Client
	// Prefix is prepended to every envelope subject when set, e.g. "app.".
	Prefix string
}

// Ensure Adapter implements the contract.
var _ cmed.Sink = (*Adapter)(nil)

// New creates a new NATS adapter instance with the provided client.
func New(c Client) *Adapter { return &Adapter{Client: c} }

// Forward publishes env on its subject.
func (a *Adapter) Forward(ctx context.Context, env cmed.Envelope) error {
	if err := a.ready(ctx); err != nil {
		return err
	}

	subject := a.Prefix + env.Subject

	if err := a.Client.Publish(ctx, subject, env.Body, env.Headers); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}

		return fmt.Errorf("nats forward %s: %w", subject, errors.Join(merr.ErrForwardFailed, err))
	}

	return nil
}

func (a *Adapter) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if a.Client == nil || isNilClient(a.Client) {
		return fmt.Errorf("nats forward: %w", merr.ErrTransportNotConfigured)
	}

	return nil
}

func isNilClient(c Client) bool {
	v := reflect.ValueOf(c)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
