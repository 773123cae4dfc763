/*
Package registry declares handler components and scans them into contract bindings.

Go offers no reflection over the types of loaded packages, so modules carry explicit
Component declarations. Scan filters them by contract shape and produces an ordered,
deterministic list of bindings; New freezes bindings into an immutable Registry that
doubles as a mediator.Locator.
*/
package registry
