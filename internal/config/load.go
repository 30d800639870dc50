// internal/config/load.go
package config

import (
	"bytes"
	"errors"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tamzrod/thermo-cli/internal/thermo"
)

// Load reads a YAML config file.
// Unknown keys are rejected so typos do not silently select defaults.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, &thermo.ConfigError{Field: "file", Msg: err.Error()}
	}
	return Parse(b)
}

// Parse decodes YAML config bytes.
func Parse(b []byte) (*Config, error) {
	var cfg Config

	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)

	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &thermo.ConfigError{Field: "file", Msg: "empty config"}
		}
		return nil, &thermo.ConfigError{Field: "file", Msg: err.Error()}
	}

	return &cfg, nil
}
