package rabbitmq

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	merr "github.com/next-trace/scg-mediator/contract/errors"
)

// Concrete AMQP connection-backed constructor and publisher wrapper with auto-reconnect.

const (
	exchangeKind = "topic"
	minBackoff   = time.Second
	maxBackoff   = 30 * time.Second
)

type Config struct {
	URL         string
	ConnTimeout time.Duration
	// Exchange defaults to DefaultExchange.
	Exchange string
	// Product is reported to the broker in the connection properties.
	Product string
	// Prefix is copied to Adapter.Prefix.
	Prefix string
}

func (c Config) exchange() string {
	if c.Exchange != "" {
		return c.Exchange
	}

	return DefaultExchange
}

type reconnectingPublisher struct {
	cfg    Config
	mu     sync.RWMutex
	conn   *amqp.Connection
	ch     *amqp.Channel
	ready  chan struct{} // closed while a channel is available
	closed chan struct{}
	once   sync.Once
}

func newReconnectingPublisher(cfg Config) *reconnectingPublisher {
	rp := &reconnectingPublisher{
		cfg:    cfg,
		ready:  make(chan struct{}),
		closed: make(chan struct{}),
	}
	go rp.run()

	return rp
}

func (rp *reconnectingPublisher) channel(ctx context.Context) (*amqp.Channel, error) {
	for {
		rp.mu.RLock()
		ch, ready := rp.ch, rp.ready
		rp.mu.RUnlock()

		if ch != nil {
			return ch, nil
		}

		select {
		case <-ready:
		case <-rp.closed:
			return nil, fmt.Errorf("%w: rabbitmq publisher closed", merr.ErrForwardFailed)
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func (rp *reconnectingPublisher) Publish(ctx context.Context, m PubMsg) error {
	ch, err := rp.channel(ctx)
	if err != nil {
		return err
	}

	return ch.PublishWithContext(ctx, m.Exchange, m.RoutingKey, false, false, publishing(m))
}

func (rp *reconnectingPublisher) dial() (*amqp.Connection, *amqp.Channel, error) {
	product := rp.cfg.Product
	if product == "" {
		product = "scg-mediator"
	}

	conn, err := amqp.DialConfig(rp.cfg.URL, amqp.Config{
		Locale:     "en_US",
		Properties: amqp.Table{"product": product},
		Dial:       amqp.DefaultDial(rp.cfg.ConnTimeout),
	})
	if err != nil {
		return nil, nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}

	if err := ch.ExchangeDeclare(rp.cfg.exchange(), exchangeKind, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()

		return nil, nil, err
	}

	return conn, ch, nil
}

// backoff returns the delay before the next dial attempt, with jitter.
func backoff(attempt int) time.Duration {
	d := minBackoff << min(attempt, 5)
	if d > maxBackoff {
		d = maxBackoff
	}

	return d/2 + rand.N(d/2+1) //nolint:gosec // non-crypto RNG is acceptable for backoff jitter
}

func (rp *reconnectingPublisher) run() {
	for attempt := 0; ; {
		select {
		case <-rp.closed:
			return
		default:
		}

		conn, ch, err := rp.dial()
		if err != nil {
			t := time.NewTimer(backoff(attempt))
			select {
			case <-rp.closed:
				t.Stop()
				return
			case <-t.C:
			}

			attempt++

			continue
		}

		attempt = 0
		notify := conn.NotifyClose(make(chan *amqp.Error, 1))

		rp.mu.Lock()
		rp.conn, rp.ch = conn, ch
		close(rp.ready)
		rp.mu.Unlock()

		select {
		case <-rp.closed:
			_ = ch.Close()
			_ = conn.Close()

			return
		case <-notify:
		}

		rp.mu.Lock()
		rp.conn, rp.ch = nil, nil
		rp.ready = make(chan struct{})
		rp.mu.Unlock()

		_ = ch.Close()
		_ = conn.Close()
	}
}

func (rp *reconnectingPublisher) close() {
	rp.once.Do(func() {
		close(rp.closed)

		rp.mu.Lock()
		defer rp.mu.Unlock()

		if rp.ch != nil {
			_ = rp.ch.Close()
			rp.ch = nil
		}

		if rp.conn != nil {
			_ = rp.conn.Close()
			rp.conn = nil
		}
	})
}

// NewWithAMQPConn dials RabbitMQ with auto-reconnect, declares the exchange, and returns Adapter and cleanup.
func NewWithAMQPConn(cfg Config) (*Adapter, func(), error) {
	if cfg.URL == "" {
		return nil, nil, fmt.Errorf("%w: rabbitmq url required", merr.ErrTransportNotConfigured)
	}

	pub := newReconnectingPublisher(cfg)
	ad := New(pub)
	ad.Exchange = cfg.exchange()
	ad.Prefix = cfg.Prefix

	return ad, pub.close, nil
}
