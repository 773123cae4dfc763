package rabbitmq

import (
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

func TestBackoff_Bounded(t *testing.T) {
	for attempt := range 10 {
		d := backoff(attempt)
		if d < minBackoff/2 || d > maxBackoff {
			t.Fatalf("attempt %d: backoff %s out of range", attempt, d)
		}
	}

	if backoff(0) > time.Second {
		t.Fatalf("first retry must not exceed a second: %s", backoff(0))
	}
}

func TestPublishing_MapsHeaders(t *testing.T) {
	p := publishing(PubMsg{Body: []byte("x"), Headers: map[string]string{"k": "v"}})
	if p.DeliveryMode != amqp.Persistent || p.ContentType != "application/json" {
		t.Fatalf("unexpected publishing: %+v", p)
	}

	if p.Headers["k"] != "v" {
		t.Fatalf("headers=%v", p.Headers)
	}

	if publishing(PubMsg{}).Headers != nil {
		t.Fatalf("empty headers must map to a nil table")
	}
}
