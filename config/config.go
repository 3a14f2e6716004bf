// Package config loads this module's CLI configuration from an optional
// YAML file and merges it with command-line flag overrides, the way the
// corpus decodes loosely-typed maps into typed structs with mapstructure.
package config

import (
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Config holds every tunable the engine and CLI read at startup.
type Config struct {
	// MaxContentLength caps len(content) before planning begins, guarding
	// against the combinatorial path blowup a pathological Repeat can
	// trigger against long content.
	MaxContentLength int `yaml:"max_content_length" mapstructure:"max_content_length"`
	// DefaultParallel turns on parallel lowering in the CLI's match command
	// even when --parallel is not passed. The engine package does not read
	// it; engine.Options.Parallel is false unless the caller sets it.
	DefaultParallel bool `yaml:"default_parallel" mapstructure:"default_parallel"`
	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string `yaml:"log_level" mapstructure:"log_level"`
}

// Default returns the configuration used when no file and no overrides are
// supplied.
func Default() Config {
	return Config{
		MaxContentLength: 4096,
		DefaultParallel:  false,
		LogLevel:         "info",
	}
}

// Load reads path as YAML into a Config seeded with Default(), leaving
// fields the file omits at their default value. An empty path returns
// Default() unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}

// Merge decodes overrides — typically a map of flags the CLI actually saw
// set, collected from cobra/pflag — on top of base, returning the merged
// result. Keys absent from overrides leave base's value untouched.
func Merge(base Config, overrides map[string]any) (Config, error) {
	if len(overrides) == 0 {
		return base, nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "mapstructure",
		Result:           &base,
		ZeroFields:       false,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return Config{}, fmt.Errorf("config: building decoder: %w", err)
	}
	if err := dec.Decode(overrides); err != nil {
		return Config{}, fmt.Errorf("config: merging overrides: %w", err)
	}
	return base, nil
}

// Validate checks cfg for values the engine cannot operate under.
func (c Config) Validate() error {
	if c.MaxContentLength <= 0 {
		return fmt.Errorf("config: max_content_length must be positive, got %d", c.MaxContentLength)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log_level %q", c.LogLevel)
	}
	return nil
}
