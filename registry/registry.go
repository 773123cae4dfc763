package registry

import cmed "github.com/next-trace/scg-mediator/contract/mediator"

// Registry maps contract keys to bindings in registration order.
// It is immutable once built and safe for concurrent reads without locking.
type Registry struct {
	byKey map[cmed.Key][]Binding
	keys  []cmed.Key
	all   []Binding
}

var _ cmed.Locator = (*Registry)(nil)

// New builds a Registry from bindings, preserving their order per key.
func New(bindings ...Binding) *Registry {
	r := &Registry{
		byKey: make(map[cmed.Key][]Binding),
		all:   append([]Binding(nil), bindings...),
	}

	for _, b := range bindings {
		if _, seen := r.byKey[b.Key]; !seen {
			r.keys = append(r.keys, b.Key)
		}

		r.byKey[b.Key] = append(r.byKey[b.Key], b)
	}

	return r
}

// Factories returns the factories bound to key in registration order.
func (r *Registry) Factories(key cmed.Key) []cmed.Factory {
	if r == nil {
		return nil
	}

	bs := r.byKey[key]
	out := make([]cmed.Factory, 0, len(bs))

	for _, b := range bs {
		out = append(out, b.Factory)
	}

	return out
}

// Count returns the number of implementations bound to key.
func (r *Registry) Count(key cmed.Key) int {
	if r == nil {
		return 0
	}

	return len(r.byKey[key])
}

// Lookup returns the bindings for key in registration order.
func (r *Registry) Lookup(key cmed.Key) []Binding {
	if r == nil {
		return nil
	}

	return append([]Binding(nil), r.byKey[key]...)
}

// Bindings returns every binding in registration order.
func (r *Registry) Bindings() []Binding {
	if r == nil {
		return nil
	}

	return append([]Binding(nil), r.all...)
}

// Keys returns the distinct keys in first-registration order.
func (r *Registry) Keys() []cmed.Key {
	if r == nil {
		return nil
	}

	return append([]cmed.Key(nil), r.keys...)
}

// Len returns the total number of bindings.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}

	return len(r.all)
}
