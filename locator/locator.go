// Package locator is a minimal service container: a Collection gathers registrations and
// seals into a read-only Provider that the dispatcher resolves handlers from.
package locator

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	merr "github.com/next-trace/scg-mediator/contract/errors"
	cmed "github.com/next-trace/scg-mediator/contract/mediator"
)

// Lifetime controls how often a registration's factory runs.
type Lifetime uint8

const (
	// Transient registrations are built on every resolution.
	Transient Lifetime = iota
	// Singleton registrations are built once per Provider.
	Singleton
)

func (l Lifetime) String() string {
	if l == Singleton {
		return "singleton"
	}

	return "transient"
}

// Descriptor is a single registration.
type Descriptor struct {
	Key      cmed.Key
	Lifetime Lifetime
	Factory  cmed.Factory
}

// Collection is the registration phase of the container. It is safe for concurrent use.
type Collection struct {
	mu       sync.Mutex
	descs    []Descriptor
	provider *Provider
}

var _ cmed.Container = (*Collection)(nil)

// NewCollection returns an empty collection.
func NewCollection() *Collection { return &Collection{} }

// AddSingleton registers f under key with singleton lifetime.
func (c *Collection) AddSingleton(key cmed.Key, f cmed.Factory) error {
	return c.add(Descriptor{Key: key, Lifetime: Singleton, Factory: f})
}

// AddTransient registers f under key with transient lifetime.
func (c *Collection) AddTransient(key cmed.Key, f cmed.Factory) error {
	return c.add(Descriptor{Key: key, Lifetime: Transient, Factory: f})
}

func (c *Collection) add(d Descriptor) error {
	if d.Factory == nil {
		return fmt.Errorf("add %s %s: nil factory: %w", d.Lifetime, d.Key, merr.ErrResolveFailed)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.provider != nil {
		return fmt.Errorf("add %s %s: %w", d.Lifetime, d.Key, merr.ErrSealed)
	}

	c.descs = append(c.descs, d)

	return nil
}

// Contains reports whether anything is registered under key.
func (c *Collection) Contains(key cmed.Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, d := range c.descs {
		if d.Key == key {
			return true
		}
	}

	return false
}

// Descriptors returns the registrations in order.
func (c *Collection) Descriptors() []Descriptor {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]Descriptor(nil), c.descs...)
}

// Len returns the number of registrations.
func (c *Collection) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.descs)
}

// Sealed reports whether Build has been called.
func (c *Collection) Sealed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.provider != nil
}

// Build seals the collection and returns its Provider. Later calls return the same Provider.
func (c *Collection) Build() *Provider {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.provider == nil {
		c.provider = newProvider(c.descs)
	}

	return c.provider
}

type entry struct {
	desc Descriptor
	once sync.Once
	val  any
	err  error
}

// Provider resolves registrations. It never changes after Build and needs no locking
// beyond the per-singleton once.
type Provider struct {
	byKey map[cmed.Key][]*entry
	count int
}

var _ cmed.Locator = (*Provider)(nil)

func newProvider(descs []Descriptor) *Provider {
	p := &Provider{byKey: make(map[cmed.Key][]*entry), count: len(descs)}
	for _, d := range descs {
		p.byKey[d.Key] = append(p.byKey[d.Key], &entry{desc: d})
	}

	return p
}

// Factories returns the factories registered under key in registration order.
// Singleton factories memoise their first result, error included.
func (p *Provider) Factories(key cmed.Key) []cmed.Factory {
	if p == nil {
		return nil
	}

	entries := p.byKey[key]
	out := make([]cmed.Factory, 0, len(entries))

	for _, e := range entries {
		out = append(out, p.factory(e))
	}

	return out
}

func (p *Provider) factory(e *entry) cmed.Factory {
	if e.desc.Lifetime == Transient {
		return func(cmed.Locator) (any, error) { return e.desc.Factory(p) }
	}

	return func(cmed.Locator) (any, error) {
		e.once.Do(func() { e.val, e.err = e.desc.Factory(p) })
		return e.val, e.err
	}
}

// Len returns the number of registrations.
func (p *Provider) Len() int {
	if p == nil {
		return 0
	}

	return p.count
}

// Get resolves the single service registered for type T.
func Get[T any](l cmed.Locator) (T, error) {
	var zero T

	key := cmed.ServiceKey(reflect.TypeFor[T]())

	var fs []cmed.Factory
	if l != nil {
		fs = l.Factories(key)
	}

	if len(fs) == 0 {
		return zero, fmt.Errorf("get %s: %w", key, merr.ErrHandlerNotFound)
	}

	if len(fs) > 1 {
		return zero, fmt.Errorf("get %s: %d registrations: %w", key, len(fs), merr.ErrAmbiguousHandler)
	}

	v, err := fs[0](l)
	if err != nil {
		return zero, fmt.Errorf("get %s: %w", key, errors.Join(merr.ErrResolveFailed, err))
	}

	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("get %s: got %T: %w", key, v, merr.ErrHandlerTypeMismatch)
	}

	return t, nil
}

// MustGet is like Get but panics on error.
func MustGet[T any](l cmed.Locator) T {
	v, err := Get[T](l)
	if err != nil {
		panic(err)
	}

	return v
}
