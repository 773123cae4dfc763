package modules

import (
	"fmt"
	"strings"

	merr "github.com/next-trace/scg-mediator/contract/errors"
)

// PrefixPolicy decides what a prefix selector does with modules whose name matches.
type PrefixPolicy uint8

const (
	// IncludeMatching keeps only modules whose name starts with one of the prefixes.
	IncludeMatching PrefixPolicy = iota
	// ExcludeMatching drops modules whose name starts with one of the prefixes.
	ExcludeMatching
)

func (p PrefixPolicy) String() string {
	switch p {
	case IncludeMatching:
		return "include"
	case ExcludeMatching:
		return "exclude"
	default:
		return fmt.Sprintf("PrefixPolicy(%d)", uint8(p))
	}
}

// ParsePrefixPolicy parses "include" or "exclude". An empty string yields IncludeMatching.
func ParsePrefixPolicy(s string) (PrefixPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "include":
		return IncludeMatching, nil
	case "exclude":
		return ExcludeMatching, nil
	default:
		return 0, fmt.Errorf("prefix policy %q: want include or exclude: %w", s, merr.ErrInvalidSelector)
	}
}

// Resolver maps selectors to modules. The zero value reads the process inventory and
// includes modules matching a prefix.
type Resolver struct {
	Inventory *Inventory
	Policy    PrefixPolicy
}

// Resolve returns the modules picked by sel in inventory order. Explicit selections keep
// argument order with duplicates removed. Resolve only reads the inventory.
func (r Resolver) Resolve(sel Selector) ([]*Module, error) {
	switch sel.Kind {
	case SelectAll:
		return r.base(), nil
	case SelectExplicit:
		return dedupe(sel.Modules), nil
	case SelectPrefixes:
		if r.Policy != IncludeMatching && r.Policy != ExcludeMatching {
			return nil, fmt.Errorf("resolve %s: unknown %s: %w", sel, r.Policy, merr.ErrInvalidSelector)
		}

		var out []*Module

		for _, m := range r.base() {
			if hasAnyPrefix(m.name, sel.Prefixes) == (r.Policy == IncludeMatching) {
				out = append(out, m)
			}
		}

		return out, nil
	default:
		return nil, fmt.Errorf("resolve %s: %w", sel, merr.ErrInvalidSelector)
	}
}

func (r Resolver) base() []*Module {
	inv := r.Inventory
	if inv == nil {
		inv = Process()
	}

	var out []*Module

	for _, m := range inv.Modules() {
		if m.synthetic || m.name == "" {
			continue
		}

		out = append(out, m)
	}

	return out
}

func dedupe(mods []*Module) []*Module {
	seen := make(map[*Module]struct{}, len(mods))
	out := make([]*Module, 0, len(mods))

	for _, m := range mods {
		if m == nil {
			continue
		}

		if _, ok := seen[m]; ok {
			continue
		}

		seen[m] = struct{}{}
		out = append(out, m)
	}

	return out
}

func hasAnyPrefix(name string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}

	return false
}
