// Package config holds the session service's tunable settings: debounce
// mode, per-kind debounce delays, and log level. Settings load from a TOML
// file and can be live-reloaded through the Watcher.
package config

import (
	"fmt"
	"os"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config is the session service configuration. Delay fields are
// milliseconds in the file.
type Config struct {
	// Debounce selects the provider session operating mode.
	Debounce bool `toml:"debounce"`

	// MoveDelayMs is the move debounce delay.
	MoveDelayMs int `toml:"move_delay_ms"`

	// TypedDelayMs is the typed debounce delay used before the source
	// scale is known.
	TypedDelayMs int `toml:"typed_delay_ms"`

	// PluginDelayMs is the autocmd debounce delay for plugin sessions.
	PluginDelayMs int `toml:"plugin_delay_ms"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Debounce:      true,
		MoveDelayMs:   50,
		TypedDelayMs:  200,
		PluginDelayMs: 50,
		LogLevel:      "info",
	}
}

// MoveDelay returns the move debounce delay as a duration.
func (c Config) MoveDelay() time.Duration {
	return time.Duration(c.MoveDelayMs) * time.Millisecond
}

// TypedDelay returns the typed debounce delay as a duration.
func (c Config) TypedDelay() time.Duration {
	return time.Duration(c.TypedDelayMs) * time.Millisecond
}

// PluginDelay returns the plugin debounce delay as a duration.
func (c Config) PluginDelay() time.Duration {
	return time.Duration(c.PluginDelayMs) * time.Millisecond
}

// Validate checks field values.
func (c Config) Validate() error {
	if c.MoveDelayMs < 0 {
		return fmt.Errorf("move_delay_ms must be non-negative, got %d", c.MoveDelayMs)
	}
	if c.TypedDelayMs < 0 {
		return fmt.Errorf("typed_delay_ms must be non-negative, got %d", c.TypedDelayMs)
	}
	if c.PluginDelayMs < 0 {
		return fmt.Errorf("plugin_delay_ms must be non-negative, got %d", c.PluginDelayMs)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	return nil
}

// Load reads configuration from a TOML file. A missing file is not an
// error; the defaults apply. Fields absent from the file keep their
// default values.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return cfg, nil
}
