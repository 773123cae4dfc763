package registry

import (
	"context"
	"fmt"
	"go/token"
	"reflect"

	merr "github.com/next-trace/scg-mediator/contract/errors"
	cmed "github.com/next-trace/scg-mediator/contract/mediator"
)

type contract struct {
	key   cmed.Key
	adapt func(instance any) (any, error)
}

// Component declares a type offered by a module together with the contracts it serves.
// The zero value declares nothing.
type Component struct {
	impl      reflect.Type
	ctor      func(l cmed.Locator) (any, error)
	contracts []contract
}

// Type returns the implementation type of the component.
func (c Component) Type() reflect.Type { return c.impl }

// Keys returns the contracts served by the component in declaration order.
func (c Component) Keys() []cmed.Key {
	keys := make([]cmed.Key, 0, len(c.contracts))
	for _, ct := range c.contracts {
		keys = append(keys, ct.key)
	}

	return keys
}

// Concrete reports whether the component has a constructor and a non-interface implementation type.
func (c Component) Concrete() bool {
	return c.impl != nil && c.impl.Kind() != reflect.Interface && c.ctor != nil
}

// Exported reports whether the implementation type is publicly visible.
// Pointer types are judged by their element; unnamed types are never visible.
func (c Component) Exported() bool {
	if c.impl == nil {
		return false
	}

	t := c.impl
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	return t.Name() != "" && token.IsExported(t.Name())
}

// Eligible reports whether Scan will emit bindings for the component.
func (c Component) Eligible() bool { return c.Concrete() && c.Exported() }

// Serves describes one contract fulfilled by implementation type H.
type Serves[H any] struct {
	key   cmed.Key
	adapt func(h H) any
}

// Key returns the contract key described by s.
func (s Serves[H]) Key() cmed.Key { return s.key }

// Type declares component H built by ctor and serving the given contracts.
// A nil ctor or an interface H declares an abstract component that Scan skips.
func Type[H any](ctor func(l cmed.Locator) (H, error), serves ...Serves[H]) Component {
	c := Component{impl: reflect.TypeFor[H]()}

	if ctor != nil {
		c.ctor = func(l cmed.Locator) (any, error) { return ctor(l) }
	}

	for _, s := range serves {
		if s.adapt == nil {
			continue
		}

		key, adapt := s.key, s.adapt
		c.contracts = append(c.contracts, contract{
			key: key,
			adapt: func(instance any) (any, error) {
				h, ok := instance.(H)
				if !ok {
					return nil, fmt.Errorf("adapt %T to %s: %w", instance, key, merr.ErrHandlerTypeMismatch)
				}

				return adapt(h), nil
			},
		})
	}

	return c
}

// Handles adapts a method of H to the request contract RequestHandler[Q, R].
// It is typically given a method expression such as (*UserService).GetUser.
func Handles[Q cmed.Request[R], R any, H any](method func(h H, ctx context.Context, q Q) (R, error)) Serves[H] {
	if method == nil {
		return Serves[H]{}
	}

	return Serves[H]{
		key: cmed.RequestKey(reflect.TypeFor[Q](), reflect.TypeFor[R]()),
		adapt: func(h H) any {
			return requestAdapter{impl: reflect.TypeFor[H](), fn: func(ctx context.Context, v any) (any, error) {
				q, ok := v.(Q)
				if !ok {
					return nil, fmt.Errorf("handle %T: %w", v, merr.ErrHandlerTypeMismatch)
				}

				return method(h, ctx, q)
			}}
		},
	}
}

// Observes adapts a method of H to the notification contract NotificationHandler[N].
func Observes[N cmed.Notification, H any](method func(h H, ctx context.Context, n N) error) Serves[H] {
	if method == nil {
		return Serves[H]{}
	}

	return Serves[H]{
		key: cmed.NotificationKey(reflect.TypeFor[N]()),
		adapt: func(h H) any {
			return notificationAdapter{impl: reflect.TypeFor[H](), fn: func(ctx context.Context, v any) error {
				n, ok := v.(N)
				if !ok {
					return fmt.Errorf("handle %T: %w", v, merr.ErrHandlerTypeMismatch)
				}

				return method(h, ctx, n)
			}}
		},
	}
}

type requestAdapter struct {
	impl reflect.Type
	fn   cmed.RequestFunc
}

func (a requestAdapter) HandleRequest(ctx context.Context, req any) (any, error) { return a.fn(ctx, req) }

func (a requestAdapter) Implementation() reflect.Type { return a.impl }

type notificationAdapter struct {
	impl reflect.Type
	fn   cmed.NotificationFunc
}

func (a notificationAdapter) HandleNotification(ctx context.Context, n any) error { return a.fn(ctx, n) }

func (a notificationAdapter) Implementation() reflect.Type { return a.impl }

// Handler declares a component whose Handle method serves RequestHandler[Q, R].
// H is inferred from ctor: registry.Handler[Echo, string](NewEchoHandler).
func Handler[Q cmed.Request[R], R any, H cmed.RequestHandler[Q, R]](ctor func() H) Component {
	return Type(lift(ctor), Handles[Q, R](func(h H, ctx context.Context, q Q) (R, error) {
		return h.Handle(ctx, q)
	}))
}

// Listener declares a component whose Handle method serves NotificationHandler[N].
func Listener[N cmed.Notification, H cmed.NotificationHandler[N]](ctor func() H) Component {
	return Type(lift(ctor), Observes[N](func(h H, ctx context.Context, n N) error {
		return h.Handle(ctx, n)
	}))
}

func lift[H any](ctor func() H) func(cmed.Locator) (H, error) {
	if ctor == nil {
		return nil
	}

	return func(cmed.Locator) (H, error) { return ctor(), nil }
}

// FuncHandler is the implementation type of components declared with HandlerFunc.
type FuncHandler[Q cmed.Request[R], R any] func(ctx context.Context, q Q) (R, error)

func (f FuncHandler[Q, R]) Handle(ctx context.Context, q Q) (R, error) { return f(ctx, q) }

// FuncListener is the implementation type of components declared with ListenerFunc.
type FuncListener[N cmed.Notification] func(ctx context.Context, n N) error

func (f FuncListener[N]) Handle(ctx context.Context, n N) error { return f(ctx, n) }

// HandlerFunc declares a request handler component backed by a plain function.
func HandlerFunc[Q cmed.Request[R], R any](fn func(ctx context.Context, q Q) (R, error)) Component {
	var ctor func() FuncHandler[Q, R]
	if fn != nil {
		ctor = func() FuncHandler[Q, R] { return fn }
	}

	return Handler[Q, R](ctor)
}

// ListenerFunc declares a notification handler component backed by a plain function.
func ListenerFunc[N cmed.Notification](fn func(ctx context.Context, n N) error) Component {
	var ctor func() FuncListener[N]
	if fn != nil {
		ctor = func() FuncListener[N] { return fn }
	}

	return Listener[N](ctor)
}
