package registry

import (
	"fmt"
	"reflect"

	cmed "github.com/next-trace/scg-mediator/contract/mediator"
)

// Source offers components for scanning. modules.Module implements it.
type Source interface {
	Name() string
	Components() []Component
}

// Binding associates a contract with a concrete implementation type.
type Binding struct {
	Key     cmed.Key
	Impl    reflect.Type
	Module  string
	Factory cmed.Factory
}

func (b Binding) String() string {
	return fmt.Sprintf("%s -> %s (%s)", b.Key, b.Impl, b.Module)
}

// Scan enumerates every eligible component of the sources, in order, and emits one
// binding per contract whose shape equals shape. Abstract components and components
// whose type is not exported are skipped. Cardinality is never checked here.
func Scan[S Source](sources []S, shape cmed.Shape) []Binding {
	var out []Binding

	for _, src := range sources {
		for _, c := range src.Components() {
			if !c.Eligible() {
				continue
			}

			for _, ct := range c.contracts {
				if ct.key.Shape != shape {
					continue
				}

				out = append(out, Binding{
					Key:     ct.key,
					Impl:    c.impl,
					Module:  src.Name(),
					Factory: factoryFor(c, ct),
				})
			}
		}
	}

	return out
}

func factoryFor(c Component, ct contract) cmed.Factory {
	return func(l cmed.Locator) (any, error) {
		instance, err := c.ctor(l)
		if err != nil {
			return nil, err
		}

		return ct.adapt(instance)
	}
}
