package nats

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	merr "github.com/next-trace/scg-mediator/contract/errors"
)

// Concrete NATS connection-backed Client and constructor.

type Config struct {
	URL           string
	Name          string
	ConnTimeout   time.Duration
	MaxReconnects int
	// Prefix is copied to Adapter.Prefix.
	Prefix string
}

type natsClient struct{ nc *nats.Conn }

func (c natsClient) Publish(ctx context.Context, subject string, data []byte, headers map[string]string) error {
	msg := nats.NewMsg(subject)
	msg.Data = data

	for k, v := range headers {
		msg.Header.Set(k, v)
	}

	if err := c.nc.PublishMsg(msg); err != nil {
		return err
	}

	return c.nc.FlushWithContext(ctx)
}

// options maps cfg onto nats.go connect options.
func options(cfg Config) []nats.Option {
	opts := []nats.Option{}
	if cfg.Name != "" {
		opts = append(opts, nats.Name(cfg.Name))
	}

	if cfg.ConnTimeout > 0 {
		opts = append(opts, nats.Timeout(cfg.ConnTimeout))
	}

	if cfg.MaxReconnects != 0 {
		opts = append(opts, nats.MaxReconnects(cfg.MaxReconnects))
	}

	return opts
}

// NewWithNATS creates a real NATS connection and returns an Adapter and a cleanup.
func NewWithNATS(cfg Config) (*Adapter, func(), error) {
	if cfg.URL == "" {
		return nil, nil, fmt.Errorf("%w: nats url required", merr.ErrTransportNotConfigured)
	}

	nc, err := nats.Connect(cfg.URL, options(cfg)...)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: nats connect: %w", merr.ErrForwardFailed, err)
	}

	ad := New(natsClient{nc: nc})
	ad.Prefix = cfg.Prefix

	cleanup := func() {
		if nc != nil && !nc.IsClosed() {
			_ = nc.Drain() //nolint:errcheck // best-effort shutdown; cannot return error here
			nc.Close()
		}
	}

	return ad, cleanup, nil
}
