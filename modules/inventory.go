package modules

import (
	"fmt"
	"sync"

	merr "github.com/next-trace/scg-mediator/contract/errors"
)

// Inventory is an ordered set of loaded modules. It is safe for concurrent use.
type Inventory struct {
	mu    sync.RWMutex
	mods  []*Module
	names map[string]struct{}
}

// NewInventory returns an inventory holding mods in order.
func NewInventory(mods ...*Module) (*Inventory, error) {
	inv := &Inventory{}
	for _, m := range mods {
		if err := inv.Load(m); err != nil {
			return nil, err
		}
	}

	return inv, nil
}

// Load appends m to the inventory. Loading the same module twice is a no-op; loading
// a different module under an already used non-blank name fails.
func (inv *Inventory) Load(m *Module) error {
	if m == nil {
		return fmt.Errorf("load module: nil module: %w", merr.ErrInvalidSelector)
	}

	inv.mu.Lock()
	defer inv.mu.Unlock()

	for _, have := range inv.mods {
		if have == m {
			return nil
		}
	}

	if m.name != "" {
		if _, dup := inv.names[m.name]; dup {
			return fmt.Errorf("load module %q: %w", m.name, merr.ErrAlreadyRegistered)
		}

		if inv.names == nil {
			inv.names = make(map[string]struct{})
		}

		inv.names[m.name] = struct{}{}
	}

	inv.mods = append(inv.mods, m)

	return nil
}

// Modules returns a snapshot of the loaded modules in load order.
func (inv *Inventory) Modules() []*Module {
	if inv == nil {
		return nil
	}

	inv.mu.RLock()
	defer inv.mu.RUnlock()

	return append([]*Module(nil), inv.mods...)
}

var process Inventory

// Process returns the inventory of modules loaded into this process.
func Process() *Inventory { return &process }

// Load adds m to the process inventory.
func Load(m *Module) error { return process.Load(m) }

// MustLoad is like Load but panics on error. It is meant for init functions.
func MustLoad(m *Module) {
	if err := Load(m); err != nil {
		panic(err)
	}
}

// Loaded returns the modules loaded into the process, in load order.
func Loaded() []*Module { return process.Modules() }
