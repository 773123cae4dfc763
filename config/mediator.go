package config

import (
	"github.com/next-trace/scg-mediator/dispatcher"
	"github.com/next-trace/scg-mediator/modules"
)

// MediatorConfig holds dispatcher and module selection settings
type MediatorConfig struct {
	// Publish strategy: sequential, concurrent
	PublishStrategy string `mapstructure:"publish_strategy" toml:"publish_strategy" validate:"required,oneof=sequential concurrent"`

	// What a prefix selector does with matching modules: include, exclude
	PrefixPolicy string `mapstructure:"prefix_policy" toml:"prefix_policy" validate:"required,oneof=include exclude"`

	// Module name prefixes to scan; empty scans every loaded module
	Prefixes []string `mapstructure:"prefixes" toml:"prefixes" validate:"dive,required"`
}

// MediatorOptions returns the dispatcher options described by the configuration.
func (c *Config) MediatorOptions() ([]dispatcher.Option, error) {
	s, err := dispatcher.ParsePublishStrategy(c.Mediator.PublishStrategy)
	if err != nil {
		return nil, err
	}

	return []dispatcher.Option{dispatcher.WithPublishStrategy(s)}, nil
}

// Resolver returns a module resolver over the process inventory using the configured policy.
func (c *Config) Resolver() (modules.Resolver, error) {
	p, err := modules.ParsePrefixPolicy(c.Mediator.PrefixPolicy)
	if err != nil {
		return modules.Resolver{}, err
	}

	return modules.Resolver{Policy: p}, nil
}

// SelectorArgs returns the AddMediator arguments for the configured prefixes.
func (c *Config) SelectorArgs() []any {
	if len(c.Mediator.Prefixes) == 0 {
		return nil
	}

	return []any{append([]string(nil), c.Mediator.Prefixes...)}
}

// Registrar returns a dispatcher.Registrar wired from the configuration.
func (c *Config) Registrar() (dispatcher.Registrar, error) {
	res, err := c.Resolver()
	if err != nil {
		return dispatcher.Registrar{}, err
	}

	opts, err := c.MediatorOptions()
	if err != nil {
		return dispatcher.Registrar{}, err
	}

	return dispatcher.Registrar{Resolver: res, Options: opts}, nil
}
