package mediator

import "reflect"

// Returns is embedded by request types to declare the response type R.
// A request should have a single handler.
//
//	type Echo struct {
//		mediator.Returns[string]
//		Text string
//	}
type Returns[R any] struct{}

// ResponseType reports the response type declared by the embedding request.
func (Returns[R]) ResponseType() reflect.Type { return reflect.TypeFor[R]() }

func (Returns[R]) respondsWith(R) {}

// Responder is the untyped view of a request: anything that declares a response type.
type Responder interface {
	ResponseType() reflect.Type
}

// Request is a marker for messages that expect exactly one handler producing R.
// Satisfy it by embedding Returns[R].
type Request[R any] interface {
	Responder
	respondsWith(R)
}

// Notice is embedded by notification types.
type Notice struct{}

func (Notice) notification() {}

// Notification is a marker for messages delivered to zero or more handlers.
// Satisfy it by embedding Notice.
type Notification interface {
	notification()
}
