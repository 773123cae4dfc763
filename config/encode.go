package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Encode renders cfg as a TOML document that Load reads back unchanged.
func Encode(cfg *Config) ([]byte, error) {
	b, err := toml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}

	return b, nil
}

// WriteFile writes cfg as TOML to path.
func WriteFile(path string, cfg *Config) error {
	b, err := Encode(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, b, 0o644)
}
