package config

import "time"

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// Mediator defaults
	if cfg.Mediator.PublishStrategy == "" {
		cfg.Mediator.PublishStrategy = "sequential"
	}
	if cfg.Mediator.PrefixPolicy == "" {
		cfg.Mediator.PrefixPolicy = "include"
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Logging.MaxSizeMB == 0 {
		cfg.Logging.MaxSizeMB = 100
	}
	if cfg.Logging.MaxBackups == 0 {
		cfg.Logging.MaxBackups = 3
	}
	if cfg.Logging.MaxAgeDays == 0 {
		cfg.Logging.MaxAgeDays = 28
	}

	// Relay defaults
	if cfg.Relay.Transport == "" {
		cfg.Relay.Transport = TransportNone
	}
	if cfg.Relay.ClientName == "" {
		cfg.Relay.ClientName = "scg-mediator"
	}
	if cfg.Relay.Timeout == 0 {
		cfg.Relay.Timeout = 5 * time.Second
	}
}
