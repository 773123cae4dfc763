package inmemory

import (
	"context"
	"sync"

	cmed "github.com/next-trace/scg-mediator/contract/mediator"
)

// Sink is a thread-safe in-memory implementation of mediator.Sink.
// It records forwarded envelopes for tests and examples.
type Sink struct {
	mu        sync.Mutex
	envelopes []cmed.Envelope
	err       error
}

// Ensure Sink implements the contract.
var _ cmed.Sink = (*Sink)(nil)

// New creates a new in-memory sink.
func New() *Sink { return &Sink{} }

// Forward records env. Context errors and any error set with FailWith are returned instead.
func (s *Sink) Forward(ctx context.Context, env cmed.Envelope) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return s.err
	}

	s.envelopes = append(s.envelopes, clone(env))

	return nil
}

// FailWith makes subsequent Forward calls return err. A nil err restores normal operation.
func (s *Sink) FailWith(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

// Envelopes returns a copy of the recorded envelopes in forwarding order.
func (s *Sink) Envelopes() []cmed.Envelope {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]cmed.Envelope, 0, len(s.envelopes))
	for _, env := range s.envelopes {
		out = append(out, clone(env))
	}

	return out
}

// Subjects returns the subjects of the recorded envelopes.
func (s *Sink) Subjects() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, 0, len(s.envelopes))
	for _, env := range s.envelopes {
		out = append(out, env.Subject)
	}

	return out
}

// Reset drops all recorded envelopes.
func (s *Sink) Reset() {
	s.mu.Lock()
	s.envelopes = nil
	s.mu.Unlock()
}

func clone(env cmed.Envelope) cmed.Envelope {
	out := cmed.Envelope{Subject: env.Subject, Body: append([]byte(nil), env.Body...)}
	if env.Headers != nil {
		out.Headers = make(map[string]string, len(env.Headers))
		for k, v := range env.Headers {
			out.Headers[k] = v
		}
	}

	return out
}
