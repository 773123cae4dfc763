package dispatcher

import (
	"fmt"
	"log/slog"
	"reflect"
	"sync"

	merr "github.com/next-trace/scg-mediator/contract/errors"
	cmed "github.com/next-trace/scg-mediator/contract/mediator"
	"github.com/next-trace/scg-mediator/modules"
	"github.com/next-trace/scg-mediator/registry"
)

var (
	mediatorKey  = cmed.ServiceKey(reflect.TypeFor[*Mediator]())
	interfaceKey = cmed.ServiceKey(reflect.TypeFor[cmed.Mediator]())
)

// Registrar registers a Mediator and the handlers of the selected modules into a container.
// The zero value scans the process inventory with the IncludeMatching prefix policy.
type Registrar struct {
	Resolver modules.Resolver
	Options  []Option
	Logger   *slog.Logger
}

// AddMediator registers with the zero Registrar. See Registrar.AddMediator.
func AddMediator(c cmed.Container, args ...any) error {
	return Registrar{}.AddMediator(c, args...)
}

// Bindings resolves the selector args and scans the modules: notification handlers
// first, then request handlers. Cardinality is not checked.
func (r Registrar) Bindings(args ...any) ([]registry.Binding, error) {
	_, bindings, err := r.scan(args...)
	return bindings, err
}

func (r Registrar) scan(args ...any) ([]*modules.Module, []registry.Binding, error) {
	sel, err := modules.ParseSelector(args...)
	if err != nil {
		return nil, nil, fmt.Errorf("add mediator: %w", err)
	}

	mods, err := r.Resolver.Resolve(sel)
	if err != nil {
		return nil, nil, fmt.Errorf("add mediator: %w", err)
	}

	bindings := registry.Scan(mods, cmed.ShapeNotificationHandler)
	bindings = append(bindings, registry.Scan(mods, cmed.ShapeRequestHandler)...)

	return mods, bindings, nil
}

// AddMediator parses args as a module selector (none, modules, or name prefixes),
// registers the Mediator as a singleton under *Mediator and mediator.Mediator, and
// registers every discovered handler binding as transient.
// A container that already holds a Mediator is rejected with ErrAlreadyRegistered.
func (r Registrar) AddMediator(c cmed.Container, args ...any) error {
	mods, bindings, err := r.scan(args...)
	if err != nil {
		return err
	}

	if c.Contains(mediatorKey) || c.Contains(interfaceKey) {
		return fmt.Errorf("add mediator: %w", merr.ErrAlreadyRegistered)
	}

	logger := r.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	for _, m := range mods {
		for _, comp := range m.Components() {
			if !comp.Eligible() {
				logger.Debug("mediator skipped component",
					slog.String("module", m.Name()), slog.Any("type", comp.Type()),
					slog.Bool("concrete", comp.Concrete()), slog.Bool("exported", comp.Exported()))
			}
		}
	}

	opts := append([]Option{WithLogger(logger)}, r.Options...)

	var (
		once     sync.Once
		instance *Mediator
	)

	factory := func(l cmed.Locator) (any, error) {
		once.Do(func() { instance = New(l, opts...) })
		return instance, nil
	}

	if err := c.AddSingleton(mediatorKey, factory); err != nil {
		return fmt.Errorf("add mediator: %w", err)
	}

	if err := c.AddSingleton(interfaceKey, factory); err != nil {
		return fmt.Errorf("add mediator: %w", err)
	}

	for _, b := range bindings {
		if err := c.AddTransient(b.Key, b.Factory); err != nil {
			return fmt.Errorf("add mediator: register %s: %w", b, err)
		}

		logger.Debug("mediator registered handler",
			slog.String("contract", b.Key.String()), slog.String("impl", b.Impl.String()), slog.String("module", b.Module))
	}

	logger.Info("mediator registered",
		slog.Int("modules", len(mods)), slog.Int("bindings", len(bindings)))

	return nil
}
