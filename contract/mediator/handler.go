package mediator

import (
	"context"
	"reflect"
)

// RequestHandler handles requests of type Q and returns a result of type R.
// Implementations must be safe for concurrent use by multiple goroutines.
type RequestHandler[Q Request[R], R any] interface {
	Handle(ctx context.Context, q Q) (R, error)
}

// NotificationHandler handles notifications of type N.
type NotificationHandler[N Notification] interface {
	Handle(ctx context.Context, n N) error
}

// AnyRequestHandler is the type-erased request handler a Locator hands to the dispatcher.
type AnyRequestHandler interface {
	HandleRequest(ctx context.Context, req any) (any, error)
}

// AnyNotificationHandler is the type-erased notification handler a Locator hands to the dispatcher.
type AnyNotificationHandler interface {
	HandleNotification(ctx context.Context, n any) error
}

// RequestFunc adapts a function to AnyRequestHandler.
type RequestFunc func(ctx context.Context, req any) (any, error)

func (f RequestFunc) HandleRequest(ctx context.Context, req any) (any, error) { return f(ctx, req) }

// NotificationFunc adapts a function to AnyNotificationHandler.
type NotificationFunc func(ctx context.Context, n any) error

func (f NotificationFunc) HandleNotification(ctx context.Context, n any) error { return f(ctx, n) }

// Implementer is satisfied by type-erased handlers that can name the type they adapt.
type Implementer interface {
	Implementation() reflect.Type
}
