package modules

import "github.com/next-trace/scg-mediator/registry"

// Module is a named unit of code offering handler components.
type Module struct {
	name       string
	synthetic  bool
	components []registry.Component
}

var _ registry.Source = (*Module)(nil)

// New declares a module with the given name and components.
func New(name string, components ...registry.Component) *Module {
	return &Module{name: name, components: append([]registry.Component(nil), components...)}
}

// NewSynthetic declares a module generated at runtime. Synthetic modules are never
// picked up by the All or Prefixes selectors; they can still be selected explicitly.
func NewSynthetic(name string, components ...registry.Component) *Module {
	m := New(name, components...)
	m.synthetic = true

	return m
}

// Name returns the module name. A nil module has a blank name.
func (m *Module) Name() string {
	if m == nil {
		return ""
	}

	return m.name
}

// Synthetic reports whether the module was generated at runtime.
func (m *Module) Synthetic() bool { return m != nil && m.synthetic }

// Components returns a copy of the module's component declarations.
func (m *Module) Components() []registry.Component {
	if m == nil {
		return nil
	}

	return append([]registry.Component(nil), m.components...)
}

func (m *Module) String() string {
	if m.Name() == "" {
		return "<unnamed module>"
	}

	return m.name
}
