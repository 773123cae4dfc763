package fxmediator

import (
	"io"
	"log/slog"
	"os"

	"go.uber.org/fx"

	"github.com/next-trace/scg-mediator/config"
	cmed "github.com/next-trace/scg-mediator/contract/mediator"
)

// FromConfig loads configuration from path (see config.Load) and provides
// *config.Config, a *slog.Logger writing to stderr, and the relay mediator.Sink.
// The sink is nil when no transport is configured.
func FromConfig(path string) fx.Option {
	return fx.Options(
		fx.Provide(func() (*config.Config, error) { return config.Load(path) }),
		configured(os.Stderr),
	)
}

// WithConfig is FromConfig for an already loaded configuration; logs go to console.
func WithConfig(cfg *config.Config, console io.Writer) fx.Option {
	return fx.Options(fx.Supply(cfg), configured(console))
}

func configured(console io.Writer) fx.Option {
	return fx.Provide(
		func(lc fx.Lifecycle, c *config.Config) (*slog.Logger, error) {
			return provideLogger(lc, c, console)
		},
		provideSink,
	)
}

func provideLogger(lc fx.Lifecycle, cfg *config.Config, console io.Writer) (*slog.Logger, error) {
	logger, closer, err := config.NewLogger(cfg.Logging, console)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.StopHook(closer))

	return logger, nil
}

func provideSink(lc fx.Lifecycle, cfg *config.Config, logger *slog.Logger) (cmed.Sink, error) {
	if !cfg.Relay.Enabled() {
		return nil, nil
	}

	sink, cleanup, err := cfg.Relay.OpenSink()
	if err != nil {
		return nil, err
	}

	logger.Info("relay transport connected", slog.String("transport", cfg.Relay.Transport))
	lc.Append(fx.StopHook(cleanup))

	return sink, nil
}
