package inmemory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/next-trace/scg-mediator/adapters/inmemory"
	cmed "github.com/next-trace/scg-mediator/contract/mediator"
)

func TestSink_RecordsCopies(t *testing.T) {
	s := inmemory.New()

	env := cmed.Envelope{Subject: "notifications.A", Body: []byte(`{}`), Headers: map[string]string{"k": "v"}}
	if err := s.Forward(t.Context(), env); err != nil {
		t.Fatalf("forward: %v", err)
	}

	env.Headers["k"] = "mutated"
	env.Body[0] = '['

	got := s.Envelopes()
	if len(got) != 1 || got[0].Headers["k"] != "v" || string(got[0].Body) != "{}" {
		t.Fatalf("sink must keep independent copies: %+v", got)
	}

	if subj := s.Subjects(); len(subj) != 1 || subj[0] != "notifications.A" {
		t.Fatalf("subjects=%v", subj)
	}

	s.Reset()
	if len(s.Envelopes()) != 0 {
		t.Fatalf("reset must drop envelopes")
	}
}

func TestSink_Errors(t *testing.T) {
	s := inmemory.New()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	if err := s.Forward(ctx, cmed.Envelope{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}

	boom := errors.New("boom")
	s.FailWith(boom)

	if err := s.Forward(t.Context(), cmed.Envelope{}); !errors.Is(err, boom) {
		t.Fatalf("want boom, got %v", err)
	}

	s.FailWith(nil)

	if err := s.Forward(t.Context(), cmed.Envelope{}); err != nil {
		t.Fatalf("forward: %v", err)
	}
}
