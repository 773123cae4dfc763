package mediator_test

import (
	"context"
	"reflect"
	"testing"

	cmed "github.com/next-trace/scg-mediator/contract/mediator"
)

type ping struct {
	cmed.Returns[int]
	N int
}

type pinged struct {
	cmed.Notice
}

var (
	_ cmed.Request[int]      = ping{}
	_ cmed.Notification      = pinged{}
	_ cmed.AnyRequestHandler = cmed.RequestFunc(nil)
)

func Test_Returns_ResponseType(t *testing.T) {
	if got := (ping{}).ResponseType(); got != reflect.TypeFor[int]() {
		t.Fatalf("response type=%v", got)
	}
}

func Test_Key_StringAndEquality(t *testing.T) {
	rk := cmed.RequestKey(reflect.TypeFor[ping](), reflect.TypeFor[int]())
	if rk.String() != "RequestHandler[mediator_test.ping, int]" {
		t.Fatalf("request key=%s", rk)
	}

	nk := cmed.NotificationKey(reflect.TypeFor[pinged]())
	if nk.String() != "NotificationHandler[mediator_test.pinged]" {
		t.Fatalf("notification key=%s", nk)
	}

	if rk != cmed.RequestKey(reflect.TypeOf(ping{N: 1}), reflect.TypeFor[int]()) {
		t.Fatalf("keys built from equal types must be equal")
	}

	if rk == cmed.RequestKey(reflect.TypeFor[ping](), reflect.TypeFor[string]()) {
		t.Fatalf("response type must be part of the key")
	}

	if (cmed.Key{}).String() != "Unknown" {
		t.Fatalf("zero key=%s", cmed.Key{})
	}
}

func Test_DispatchID(t *testing.T) {
	if _, ok := cmed.DispatchID(t.Context()); ok {
		t.Fatalf("fresh context must not carry an id")
	}

	ctx := cmed.WithDispatchID(context.Background(), "d-1")

	id, ok := cmed.DispatchID(ctx)
	if !ok || id != "d-1" {
		t.Fatalf("id=%q ok=%v", id, ok)
	}
}
