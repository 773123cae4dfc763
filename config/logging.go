package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	// Log level: debug, info, warn, error
	Level string `mapstructure:"level" toml:"level" validate:"required,oneof=debug info warn error"`

	// Log format: text, json
	Format string `mapstructure:"format" toml:"format" validate:"required,oneof=text json"`

	// Log file path; empty logs only to the console writer
	File string `mapstructure:"file" toml:"file"`

	// Rotation settings for File
	MaxSizeMB  int  `mapstructure:"max_size_mb" toml:"max_size_mb" validate:"gte=0"`
	MaxBackups int  `mapstructure:"max_backups" toml:"max_backups" validate:"gte=0"`
	MaxAgeDays int  `mapstructure:"max_age_days" toml:"max_age_days" validate:"gte=0"`
	Compress   bool `mapstructure:"compress" toml:"compress"`
}

// SlogLevel maps Level onto a slog.Level.
func (l LoggingConfig) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(l.Level))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level %q: %w", l.Level, err)
	}

	return lvl, nil
}

// NewLogger builds a logger that writes to console and, when File is set, to a
// rotated log file as well. The closer releases the file and is never nil.
func NewLogger(cfg LoggingConfig, console io.Writer) (*slog.Logger, func() error, error) {
	lvl, err := cfg.SlogLevel()
	if err != nil {
		return nil, func() error { return nil }, err
	}

	out := console
	if out == nil {
		out = io.Discard
	}

	closer := func() error { return nil }
	if cfg.File != "" {
		rot := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		}
		out = io.MultiWriter(out, rot)
		closer = rot.Close
	}

	opts := &slog.HandlerOptions{Level: lvl}

	var h slog.Handler
	switch cfg.Format {
	case "json":
		h = slog.NewJSONHandler(out, opts)
	default:
		h = slog.NewTextHandler(out, opts)
	}

	return slog.New(h), closer, nil
}
