package dispatcher_test

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	merr "github.com/next-trace/scg-mediator/contract/errors"
	cmed "github.com/next-trace/scg-mediator/contract/mediator"
	"github.com/next-trace/scg-mediator/dispatcher"
	"github.com/next-trace/scg-mediator/locator"
	"github.com/next-trace/scg-mediator/modules"
	"github.com/next-trace/scg-mediator/registry"
)

func Test_Send_Echo(t *testing.T) {
	m, p := build(t, dispatcher.Registrar{}, echoModule)

	out, err := dispatcher.Send[string](t.Context(), m, Echo{Text: "hello"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	if out != "hello" {
		t.Fatalf("out=%q", out)
	}

	iface, err := locator.Get[cmed.Mediator](p)
	if err != nil {
		t.Fatalf("get interface: %v", err)
	}

	if iface != cmed.Mediator(m) {
		t.Fatalf("both service keys must resolve the same singleton")
	}

	raw, err := iface.Send(t.Context(), Echo{Text: "raw"})
	if err != nil || raw != "raw" {
		t.Fatalf("untyped send: %v %v", raw, err)
	}
}

func Test_Send_NotFound(t *testing.T) {
	m, _ := build(t, dispatcher.Registrar{}, echoModule)

	_, err := dispatcher.Send[int](t.Context(), m, Ping{})
	if !errors.Is(err, merr.ErrHandlerNotFound) {
		t.Fatalf("want ErrHandlerNotFound, got %v", err)
	}

	if !strings.Contains(err.Error(), "dispatcher_test.Ping") {
		t.Fatalf("error must name the request type: %s", err)
	}

	// Keys use the exact runtime type.
	if _, err := m.Send(t.Context(), &Echo{Text: "x"}); !errors.Is(err, merr.ErrHandlerNotFound) {
		t.Fatalf("pointer request must not match value handler, got %v", err)
	}
}

func Test_Send_Ambiguous(t *testing.T) {
	a := modules.New("acme/a", registry.Handler[Echo, string](newEchoHandler))
	b := modules.New("acme/b", registry.HandlerFunc(func(_ context.Context, e Echo) (string, error) { return "b", nil }))

	m, _ := build(t, dispatcher.Registrar{}, a, b)

	_, err := dispatcher.Send[string](t.Context(), m, Echo{})
	if !errors.Is(err, merr.ErrAmbiguousHandler) {
		t.Fatalf("want ErrAmbiguousHandler, got %v", err)
	}

	if !strings.Contains(err.Error(), "2 handlers") || !strings.Contains(err.Error(), "dispatcher_test.Echo") {
		t.Fatalf("error must name the type and count: %s", err)
	}
}

func Test_Send_HandlerErrorIsReturnedUnmodified(t *testing.T) {
	boom := errors.New("boom")
	m := over([]registry.Component{
		registry.HandlerFunc(func(context.Context, Ping) (int, error) { return 0, boom }),
	})

	_, err := dispatcher.Send[int](t.Context(), m, Ping{})
	if err != boom { //nolint:errorlint
		t.Fatalf("want the handler error itself, got %v", err)
	}
}

func Test_Send_Canceled(t *testing.T) {
	called := false
	m := over([]registry.Component{
		registry.HandlerFunc(func(context.Context, Ping) (int, error) {
			called = true
			return 1, nil
		}),
	})

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := dispatcher.Send[int](ctx, m, Ping{})
	if !errors.Is(err, merr.ErrCanceled) || !errors.Is(err, context.Canceled) {
		t.Fatalf("want cancellation, got %v", err)
	}

	if called {
		t.Fatalf("handler must not run on a done context")
	}
}

func Test_Send_InvalidMessages(t *testing.T) {
	m := over(nil)

	if _, err := m.Send(t.Context(), nil); !errors.Is(err, merr.ErrNilMessage) {
		t.Fatalf("nil: %v", err)
	}

	var nilEcho *Echo
	if _, err := m.Send(t.Context(), nilEcho); !errors.Is(err, merr.ErrNilMessage) {
		t.Fatalf("typed nil: %v", err)
	}

	if _, err := m.Send(t.Context(), "not a request"); !errors.Is(err, merr.ErrHandlerTypeMismatch) {
		t.Fatalf("non-request: %v", err)
	}
}

func Test_Send_ResolveFailed(t *testing.T) {
	dbDown := errors.New("db down")
	m := over([]registry.Component{
		registry.Type(func(cmed.Locator) (EchoHandler, error) { return EchoHandler{}, dbDown },
			registry.Handles[Echo, string](EchoHandler.Handle)),
	})

	_, err := dispatcher.Send[string](t.Context(), m, Echo{})
	if !errors.Is(err, merr.ErrResolveFailed) || !errors.Is(err, dbDown) {
		t.Fatalf("want ErrResolveFailed wrapping the cause, got %v", err)
	}
}

func Test_Send_TypedResultMismatch(t *testing.T) {
	key := cmed.RequestKey(reflect.TypeFor[Echo](), reflect.TypeFor[string]())
	loc := fakeLocator{key: {func(cmed.Locator) (any, error) {
		return cmed.RequestFunc(func(context.Context, any) (any, error) { return 42, nil }), nil
	}}}

	_, err := dispatcher.Send[string](t.Context(), dispatcher.New(loc), Echo{})
	if !errors.Is(err, merr.ErrHandlerTypeMismatch) {
		t.Fatalf("want ErrHandlerTypeMismatch, got %v", err)
	}

	loc[key] = []cmed.Factory{func(cmed.Locator) (any, error) { return "not a handler", nil }}
	if _, err := dispatcher.New(loc).Send(t.Context(), Echo{}); !errors.Is(err, merr.ErrHandlerTypeMismatch) {
		t.Fatalf("want ErrHandlerTypeMismatch for a bad instance, got %v", err)
	}
}

func Test_Send_MiddlewareOrder(t *testing.T) {
	var trace []string

	mw := func(name string) dispatcher.RequestMiddleware {
		return func(next cmed.RequestFunc) cmed.RequestFunc {
			return func(ctx context.Context, req any) (any, error) {
				trace = append(trace, name+">")
				res, err := next(ctx, req)
				trace = append(trace, "<"+name)

				return res, err
			}
		}
	}

	m := over([]registry.Component{
		registry.HandlerFunc(func(_ context.Context, e Echo) (string, error) {
			trace = append(trace, "handler")
			return e.Text, nil
		}),
	}, dispatcher.WithRequestMiddleware(mw("a"), mw("b")))

	if _, err := dispatcher.Send[string](t.Context(), m, Echo{Text: "x"}); err != nil {
		t.Fatalf("send: %v", err)
	}

	if got := strings.Join(trace, " "); got != "a> b> handler <b <a" {
		t.Fatalf("trace=%s", got)
	}
}

type Outer struct {
	cmed.Returns[string]
}

type Inner struct {
	cmed.Returns[string]
}

// OuterHandler forwards to Inner through the mediator it gets from the locator.
type OuterHandler struct{ m cmed.Mediator }

func (h OuterHandler) Handle(ctx context.Context, _ Outer) (string, error) {
	return dispatcher.Send[string](ctx, h.m, Inner{})
}

func Test_Send_DispatchIDIsReusedForNestedCalls(t *testing.T) {
	var ids []string

	mod := modules.New("acme/nested",
		registry.Type(func(l cmed.Locator) (OuterHandler, error) {
			m, err := locator.Get[cmed.Mediator](l)
			return OuterHandler{m: m}, err
		}, registry.Handles[Outer, string](OuterHandler.Handle)),
		registry.HandlerFunc(func(ctx context.Context, _ Inner) (string, error) {
			id, _ := cmed.DispatchID(ctx)
			ids = append(ids, id)

			return id, nil
		}),
	)

	n := 0
	reg := dispatcher.Registrar{Options: []dispatcher.Option{dispatcher.WithIDGenerator(func() string {
		n++
		return "id-" + strings.Repeat("x", n)
	})}}

	m, _ := build(t, reg, mod)

	out, err := dispatcher.Send[string](t.Context(), m, Outer{})
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	if out != "id-x" || len(ids) != 1 {
		t.Fatalf("nested call must reuse the outer id, got %q ids=%v", out, ids)
	}

	ctx := cmed.WithDispatchID(t.Context(), "caller")
	if out, _ := dispatcher.Send[string](ctx, m, Inner{}); out != "caller" {
		t.Fatalf("caller supplied id must be kept, got %q", out)
	}
}

func Test_Send_ObserversSeeRejectedRequests(t *testing.T) {
	var seen []error

	wrapped := 0
	m := over([]registry.Component{
		registry.HandlerFunc(func(_ context.Context, e Echo) (string, error) { return e.Text, nil }),
	},
		dispatcher.WithRequestObserver(func(_ context.Context, _ any, err error) { seen = append(seen, err) }),
		dispatcher.WithRequestMiddleware(func(next cmed.RequestFunc) cmed.RequestFunc {
			return func(ctx context.Context, req any) (any, error) {
				wrapped++
				return next(ctx, req)
			}
		}),
	)

	if _, err := dispatcher.Send[string](t.Context(), m, Echo{Text: "ok"}); err != nil {
		t.Fatalf("send: %v", err)
	}

	_, _ = dispatcher.Send[int](t.Context(), m, Ping{})

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	_, _ = dispatcher.Send[string](ctx, m, Echo{})

	if wrapped != 1 {
		t.Fatalf("middleware must only see the dispatched request, ran %d times", wrapped)
	}

	if len(seen) != 2 || !errors.Is(seen[0], merr.ErrHandlerNotFound) || !errors.Is(seen[1], merr.ErrCanceled) {
		t.Fatalf("observed=%v", seen)
	}
}
