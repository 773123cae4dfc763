// Package config loads mediator settings from an optional file, a .env file and
// MEDIATOR_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides, e.g. MEDIATOR_RELAY_TRANSPORT.
const EnvPrefix = "MEDIATOR"

// Config is the main configuration struct combining all sub-configs
type Config struct {
	Mediator MediatorConfig `mapstructure:"mediator" toml:"mediator"`
	Logging  LoggingConfig  `mapstructure:"logging" toml:"logging"`
	Relay    RelayConfig    `mapstructure:"relay" toml:"relay"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	SetDefaults(cfg)

	return cfg
}

// Load loads configuration from multiple sources with priority:
// 1. Environment variables (highest priority)
// 2. Config file (mediator.toml or mediator.yaml, or the given path)
// 3. Defaults (lowest priority)
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists (doesn't error if missing)
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("mediator")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Unmarshal only sees env overrides for keys viper already knows.
	bindDefaults(v, Default())

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	SetDefaults(&cfg)

	if err := ValidateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// MustLoad loads configuration and panics on error (for use in main.go)
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}

	return cfg
}

func bindDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("mediator.publish_strategy", d.Mediator.PublishStrategy)
	v.SetDefault("mediator.prefix_policy", d.Mediator.PrefixPolicy)
	v.SetDefault("mediator.prefixes", d.Mediator.Prefixes)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.file", d.Logging.File)
	v.SetDefault("logging.max_size_mb", d.Logging.MaxSizeMB)
	v.SetDefault("logging.max_backups", d.Logging.MaxBackups)
	v.SetDefault("logging.max_age_days", d.Logging.MaxAgeDays)
	v.SetDefault("logging.compress", d.Logging.Compress)

	v.SetDefault("relay.transport", d.Relay.Transport)
	v.SetDefault("relay.url", d.Relay.URL)
	v.SetDefault("relay.brokers", d.Relay.Brokers)
	v.SetDefault("relay.client_name", d.Relay.ClientName)
	v.SetDefault("relay.timeout", d.Relay.Timeout)
	v.SetDefault("relay.subject_prefix", d.Relay.SubjectPrefix)
	v.SetDefault("relay.exchange", d.Relay.Exchange)
}
