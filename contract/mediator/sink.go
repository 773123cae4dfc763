package mediator

import "context"

// Envelope is an encoded notification on its way out of the process.
type Envelope struct {
	Subject string
	Body    []byte
	Headers map[string]string
}

// Sink ships envelopes to a transport. Adapters (in-memory, NATS, RabbitMQ, Kafka)
// implement it; relay listeners call it.
type Sink interface {
	Forward(ctx context.Context, env Envelope) error
}
