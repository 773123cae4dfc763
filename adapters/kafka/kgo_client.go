package kafka

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/pkg/sasl/plain"
	"github.com/twmb/franz-go/pkg/sasl/scram"

	merr "github.com/next-trace/scg-mediator/contract/errors"
)

// Concrete franz-go based constructor and writer wrapper.

type SASLConfig struct {
	Mechanism string // PLAIN, SCRAM-SHA-256 or SCRAM-SHA-512
	Username  string
	Password  string
}

type Config struct {
	Brokers []string
	TLS     *tls.Config
	SASL    *SASLConfig
	// Acks is all (default), leader or none. Anything but all disables idempotent writes.
	Acks string
	// DisableIdempotent turns off idempotent writes even with all acks.
	DisableIdempotent bool
	ClientID          string
	// Compression is none, gzip, snappy, lz4 or zstd.
	Compression    string
	RequestTimeout time.Duration
	TopicPrefix    string
}

type kgoWriter struct{ cl *kgo.Client }

func (w kgoWriter) Write(ctx context.Context, topic string, key, value []byte, headers map[string]string) error {
	rec := &kgo.Record{Topic: topic, Key: key, Value: value}
	if len(headers) > 0 {
		rec.Headers = make([]kgo.RecordHeader, 0, len(headers))
		for k, v := range headers {
			rec.Headers = append(rec.Headers, kgo.RecordHeader{Key: k, Value: []byte(v)})
		}
	}

	return w.cl.ProduceSync(ctx, rec).FirstErr()
}

func acks(s string) (kgo.Acks, bool, error) {
	switch strings.ToLower(s) {
	case "", "all":
		return kgo.AllISRAcks(), true, nil
	case "leader":
		return kgo.LeaderAck(), false, nil
	case "none":
		return kgo.NoAck(), false, nil
	default:
		return kgo.Acks{}, false, fmt.Errorf("kafka acks %q: want all, leader or none", s)
	}
}

func compression(s string) (kgo.CompressionCodec, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return kgo.NoCompression(), nil
	case "gzip":
		return kgo.GzipCompression(), nil
	case "snappy":
		return kgo.SnappyCompression(), nil
	case "lz4":
		return kgo.Lz4Compression(), nil
	case "zstd":
		return kgo.ZstdCompression(), nil
	default:
		return kgo.CompressionCodec{}, fmt.Errorf("kafka compression %q: want none, gzip, snappy, lz4 or zstd", s)
	}
}

// options maps cfg onto franz-go client options.
func options(cfg Config) ([]kgo.Opt, error) {
	opts := []kgo.Opt{kgo.SeedBrokers(cfg.Brokers...)}
	if cfg.ClientID != "" {
		opts = append(opts, kgo.ClientID(cfg.ClientID))
	}

	if cfg.TLS != nil {
		opts = append(opts, kgo.DialTLSConfig(cfg.TLS))
	}

	a, idempotent, err := acks(cfg.Acks)
	if err != nil {
		return nil, err
	}

	opts = append(opts, kgo.RequiredAcks(a))
	if !idempotent || cfg.DisableIdempotent {
		opts = append(opts, kgo.DisableIdempotentWrite())
	}

	codec, err := compression(cfg.Compression)
	if err != nil {
		return nil, err
	}

	opts = append(opts, kgo.ProducerBatchCompression(codec))

	if cfg.RequestTimeout > 0 {
		opts = append(opts, kgo.ProduceRequestTimeout(cfg.RequestTimeout))
	}

	if cfg.SASL != nil && cfg.SASL.Mechanism != "" {
		switch strings.ToUpper(cfg.SASL.Mechanism) {
		case "PLAIN":
			opts = append(opts, kgo.SASL(plain.Auth{User: cfg.SASL.Username, Pass: cfg.SASL.Password}.AsMechanism()))
		case "SCRAM-SHA-256":
			opts = append(opts, kgo.SASL(scram.Auth{User: cfg.SASL.Username, Pass: cfg.SASL.Password}.AsSha256Mechanism()))
		case "SCRAM-SHA-512":
			opts = append(opts, kgo.SASL(scram.Auth{User: cfg.SASL.Username, Pass: cfg.SASL.Password}.AsSha512Mechanism()))
		default:
			return nil, fmt.Errorf("kafka sasl mechanism %q not supported", cfg.SASL.Mechanism)
		}
	}

	return opts, nil
}

// NewWithKgo builds a franz-go client based Adapter. The returned cleanup should be called to close the client.
func NewWithKgo(cfg Config) (*Adapter, func(), error) {
	if len(cfg.Brokers) == 0 {
		return nil, nil, fmt.Errorf("%w: kafka brokers required", merr.ErrTransportNotConfigured)
	}

	opts, err := options(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", merr.ErrTransportNotConfigured, err)
	}

	cl, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: kafka client init: %w", merr.ErrForwardFailed, err)
	}

	ad := New(kgoWriter{cl: cl})
	ad.TopicPrefix = cfg.TopicPrefix

	return ad, cl.Close, nil
}
