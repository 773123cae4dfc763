package config

import (
	"fmt"
	"time"

	"github.com/next-trace/scg-mediator/adapters/inmemory"
	"github.com/next-trace/scg-mediator/adapters/kafka"
	"github.com/next-trace/scg-mediator/adapters/nats"
	"github.com/next-trace/scg-mediator/adapters/rabbitmq"
	merr "github.com/next-trace/scg-mediator/contract/errors"
	cmed "github.com/next-trace/scg-mediator/contract/mediator"
)

// Relay transports.
const (
	TransportNone     = "none"
	TransportInMemory = "inmemory"
	TransportNATS     = "nats"
	TransportRabbitMQ = "rabbitmq"
	TransportKafka    = "kafka"
)

// RelayConfig selects the transport notifications are forwarded to
type RelayConfig struct {
	// Transport: none, inmemory, nats, rabbitmq, kafka
	Transport string `mapstructure:"transport" toml:"transport" validate:"required,oneof=none inmemory nats rabbitmq kafka"`

	// Broker URL for nats and rabbitmq
	URL string `mapstructure:"url" toml:"url" validate:"required_if=Transport nats,required_if=Transport rabbitmq"`

	// Seed brokers for kafka (host:port)
	Brokers []string `mapstructure:"brokers" toml:"brokers" validate:"required_if=Transport kafka,dive,hostname_port"`

	// Client name reported to the broker
	ClientName string `mapstructure:"client_name" toml:"client_name"`

	// Connect and request timeout
	Timeout time.Duration `mapstructure:"timeout" toml:"timeout" validate:"gte=0"`

	// Prepended to every subject, topic or routing key
	SubjectPrefix string `mapstructure:"subject_prefix" toml:"subject_prefix"`

	// RabbitMQ exchange; empty uses rabbitmq.DefaultExchange
	Exchange string `mapstructure:"exchange" toml:"exchange"`
}

// Enabled reports whether a transport other than none is configured.
func (r RelayConfig) Enabled() bool {
	return r.Transport != "" && r.Transport != TransportNone
}

// OpenSink connects the configured transport. The returned cleanup is never nil.
func (r RelayConfig) OpenSink() (cmed.Sink, func(), error) {
	switch r.Transport {
	case TransportInMemory:
		return inmemory.New(), func() {}, nil
	case TransportNATS:
		a, cleanup, err := nats.NewWithNATS(nats.Config{
			URL:         r.URL,
			Name:        r.ClientName,
			ConnTimeout: r.Timeout,
			Prefix:      r.SubjectPrefix,
		})
		if err != nil {
			return nil, func() {}, err
		}

		return a, cleanup, nil
	case TransportRabbitMQ:
		a, cleanup, err := rabbitmq.NewWithAMQPConn(rabbitmq.Config{
			URL:         r.URL,
			ConnTimeout: r.Timeout,
			Exchange:    r.Exchange,
			Product:     r.ClientName,
			Prefix:      r.SubjectPrefix,
		})
		if err != nil {
			return nil, func() {}, err
		}

		return a, cleanup, nil
	case TransportKafka:
		a, cleanup, err := kafka.NewWithKgo(kafka.Config{
			Brokers:        r.Brokers,
			ClientID:       r.ClientName,
			RequestTimeout: r.Timeout,
			TopicPrefix:    r.SubjectPrefix,
		})
		if err != nil {
			return nil, func() {}, err
		}

		return a, cleanup, nil
	default:
		return nil, func() {}, fmt.Errorf("relay transport %q: %w", r.Transport, merr.ErrTransportNotConfigured)
	}
}
