package modules

import (
	"fmt"

	merr "github.com/next-trace/scg-mediator/contract/errors"
)

// SelectorKind tells which modules a Selector picks.
type SelectorKind uint8

const (
	// SelectAll picks every loaded, named, non-synthetic module.
	SelectAll SelectorKind = iota
	// SelectExplicit picks exactly the listed modules.
	SelectExplicit
	// SelectPrefixes picks loaded modules by name prefix, subject to a PrefixPolicy.
	SelectPrefixes
)

func (k SelectorKind) String() string {
	switch k {
	case SelectAll:
		return "all"
	case SelectExplicit:
		return "explicit"
	case SelectPrefixes:
		return "prefixes"
	default:
		return fmt.Sprintf("SelectorKind(%d)", uint8(k))
	}
}

// Selector describes which modules to scan. The zero value selects all modules.
type Selector struct {
	Kind     SelectorKind
	Modules  []*Module
	Prefixes []string
}

// All returns the selector for every loaded module.
func All() Selector { return Selector{Kind: SelectAll} }

// Explicit returns a selector for exactly mods.
func Explicit(mods ...*Module) Selector {
	return Selector{Kind: SelectExplicit, Modules: append([]*Module(nil), mods...)}
}

// Prefixes returns a selector filtering loaded modules by name prefix.
func Prefixes(prefixes ...string) Selector {
	return Selector{Kind: SelectPrefixes, Prefixes: append([]string(nil), prefixes...)}
}

func (s Selector) String() string {
	switch s.Kind {
	case SelectExplicit:
		return fmt.Sprintf("explicit%v", s.Modules)
	case SelectPrefixes:
		return fmt.Sprintf("prefixes%q", s.Prefixes)
	default:
		return s.Kind.String()
	}
}

const acceptedForms = "want no arguments, *modules.Module values, or string name prefixes"

// ParseSelector interprets registration arguments. No arguments select all modules.
// Arguments that are all modules (or module slices) select those modules; arguments
// that are all strings (or string slices) select by prefix. Any other shape fails
// with ErrInvalidSelector.
func ParseSelector(args ...any) (Selector, error) {
	if len(args) == 0 {
		return All(), nil
	}

	if len(args) == 1 {
		if sel, ok := args[0].(Selector); ok {
			return sel, nil
		}
	}

	var (
		mods     []*Module
		prefixes []string
		byModule bool
		byPrefix bool
	)

	for i, arg := range args {
		switch v := arg.(type) {
		case *Module:
			if v == nil {
				return Selector{}, fmt.Errorf("selector argument %d is a nil module; %s: %w", i, acceptedForms, merr.ErrInvalidSelector)
			}

			mods, byModule = append(mods, v), true
		case []*Module:
			for _, m := range v {
				if m == nil {
					return Selector{}, fmt.Errorf("selector argument %d holds a nil module; %s: %w", i, acceptedForms, merr.ErrInvalidSelector)
				}
			}

			mods, byModule = append(mods, v...), true
		case string:
			prefixes, byPrefix = append(prefixes, v), true
		case []string:
			prefixes, byPrefix = append(prefixes, v...), true
		default:
			return Selector{}, fmt.Errorf("selector argument %d has type %T; %s: %w", i, arg, acceptedForms, merr.ErrInvalidSelector)
		}

		if byModule && byPrefix {
			return Selector{}, fmt.Errorf("selector mixes modules and prefixes; %s: %w", acceptedForms, merr.ErrInvalidSelector)
		}
	}

	if byModule {
		return Selector{Kind: SelectExplicit, Modules: mods}, nil
	}

	return Selector{Kind: SelectPrefixes, Prefixes: prefixes}, nil
}
