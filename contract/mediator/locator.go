package mediator

// Factory produces a service instance. Handler factories return an
// AnyRequestHandler or AnyNotificationHandler.
type Factory func(l Locator) (any, error)

// Locator exposes the factories bound to a key in registration order.
// The length of the result is the contract's cardinality; callers decide what to do with it.
type Locator interface {
	Factories(key Key) []Factory
}

// Container is the registration side of a service locator.
// Library users may supply their own; locator.Collection is the bundled implementation.
type Container interface {
	AddSingleton(key Key, f Factory) error
	AddTransient(key Key, f Factory) error
	Contains(key Key) bool
}
