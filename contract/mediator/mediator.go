package mediator

import "context"

// Sender dispatches a request to its single handler. The untyped form returns the raw
// response; dispatcher.Send offers the typed helper.
type Sender interface {
	Send(ctx context.Context, req any) (any, error)
}

// Publisher delivers a notification to every handler bound to its concrete type.
type Publisher interface {
	Publish(ctx context.Context, n Notification) error
}

// Mediator is the minimal, non-generic contract of the dispatcher.
// Consumers that only need to send and publish should depend on this interface.
type Mediator interface {
	Sender
	Publisher
}
