// Package fxmediator wires the mediator into a go.uber.org/fx application.
package fxmediator

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/next-trace/scg-mediator/config"
	cmed "github.com/next-trace/scg-mediator/contract/mediator"
	"github.com/next-trace/scg-mediator/dispatcher"
	"github.com/next-trace/scg-mediator/locator"
	"github.com/next-trace/scg-mediator/metrics"
	"github.com/next-trace/scg-mediator/modules"
)

// Value group names.
const (
	ModulesGroup = "mediator.modules"
	OptionsGroup = "mediator.options"
)

// Options is one contribution to the options group. Order is kept within a
// contribution; contributions themselves arrive in no particular order.
type Options []dispatcher.Option

// Contribute adds modules to the scan. They are visible to every selector
// without being loaded into the process inventory.
func Contribute(mods ...*modules.Module) fx.Option {
	opts := make([]fx.Option, 0, len(mods))
	for _, m := range mods {
		opts = append(opts, fx.Provide(fx.Annotate(
			func() *modules.Module { return m },
			fx.ResultTags(`group:"`+ModulesGroup+`"`),
		)))
	}

	return fx.Options(opts...)
}

// ProvideModule adds the module returned by ctor, an fx constructor whose
// parameters are resolved from the graph.
func ProvideModule(ctor any) fx.Option {
	return fx.Provide(fx.Annotate(ctor, fx.ResultTags(`group:"`+ModulesGroup+`"`)))
}

// WithOption adds dispatcher options.
func WithOption(opts ...dispatcher.Option) fx.Option {
	set := Options(slices.Clone(opts))

	return fx.Provide(fx.Annotate(
		func() Options { return set },
		fx.ResultTags(`group:"`+OptionsGroup+`"`),
	))
}

// WithMetrics registers a metrics.Collector on reg (nil means the default
// registerer) and adds its middleware to the mediator.
func WithMetrics(reg prometheus.Registerer) fx.Option {
	return fx.Provide(
		func() (*metrics.Collector, error) { return metrics.New(reg) },
		fx.Annotate(
			func(c *metrics.Collector) Options { return c.Options() },
			fx.ResultTags(`group:"`+OptionsGroup+`"`),
		),
	)
}

type params struct {
	fx.In

	Logger  *slog.Logger      `optional:"true"`
	Config  *config.Config    `optional:"true"`
	Modules []*modules.Module `group:"mediator.modules"`
	Options []Options         `group:"mediator.options"`
}

type result struct {
	fx.Out

	Provider  *locator.Provider
	Mediator  *dispatcher.Mediator
	Interface cmed.Mediator
}

// Module builds a sealed locator holding the mediator and every handler picked
// by args (see dispatcher.AddMediator) and provides it together with
// *dispatcher.Mediator and mediator.Mediator. With a *config.Config in the
// graph and no args, the configured prefixes select the modules.
func Module(args ...any) fx.Option {
	return fx.Module("mediator",
		fx.Provide(func(p params) (result, error) { return build(p, args) }),
		fx.Invoke(registerHooks),
	)
}

func build(p params, args []any) (result, error) {
	reg := dispatcher.Registrar{}
	if p.Config != nil {
		r, err := p.Config.Registrar()
		if err != nil {
			return result{}, fmt.Errorf("fx mediator: %w", err)
		}

		reg = r
		if len(args) == 0 {
			args = p.Config.SelectorArgs()
		}
	}

	reg.Logger = p.Logger
	for _, set := range p.Options {
		reg.Options = append(reg.Options, set...)
	}

	if len(p.Modules) > 0 {
		// Groups arrive unordered.
		contributed := slices.Clone(p.Modules)
		slices.SortStableFunc(contributed, func(a, b *modules.Module) int { return strings.Compare(a.Name(), b.Name()) })

		inv, err := inventory(reg.Resolver.Inventory, contributed)
		if err != nil {
			return result{}, fmt.Errorf("fx mediator: %w", err)
		}

		reg.Resolver.Inventory = inv
		args = withContributed(args, contributed)
	}

	c := locator.NewCollection()
	if err := reg.AddMediator(c, args...); err != nil {
		return result{}, err
	}

	prov := c.Build()

	m, err := locator.Get[*dispatcher.Mediator](prov)
	if err != nil {
		return result{}, fmt.Errorf("fx mediator: %w", err)
	}

	return result{Provider: prov, Mediator: m, Interface: m}, nil
}

// inventory layers contributed modules over base (the process inventory when nil).
func inventory(base *modules.Inventory, contributed []*modules.Module) (*modules.Inventory, error) {
	if base == nil {
		base = modules.Process()
	}

	inv, err := modules.NewInventory(base.Modules()...)
	if err != nil {
		return nil, err
	}

	for _, m := range contributed {
		if err := inv.Load(m); err != nil {
			return nil, err
		}
	}

	return inv, nil
}

// withContributed appends contributed modules to an explicit module list.
// Prefix and no-arg selections already see them through the layered inventory.
func withContributed(args []any, contributed []*modules.Module) []any {
	if len(args) == 0 {
		return args
	}

	for _, a := range args {
		switch a.(type) {
		case *modules.Module, []*modules.Module:
		default:
			return args
		}
	}

	out := slices.Clone(args)
	for _, m := range contributed {
		out = append(out, m)
	}

	return out
}

type hookDeps struct {
	fx.In

	Lifecycle fx.Lifecycle
	Provider  *locator.Provider
	Logger    *slog.Logger `optional:"true"`
}

func registerHooks(d hookDeps) {
	logger := d.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	d.Lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error {
			logger.Info("mediator started", slog.Int("registrations", d.Provider.Len()))
			return nil
		},
	})
}

// EventLogger routes fx's own events through the *slog.Logger in the graph.
func EventLogger() fx.Option {
	return fx.WithLogger(func(l *slog.Logger) fxevent.Logger {
		return &fxevent.SlogLogger{Logger: l}
	})
}
