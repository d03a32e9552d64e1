package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// ErrInvalidSettings indicates a setting outside its allowed values.
var ErrInvalidSettings = errors.New("invalid settings")

// Store drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Settings configures a template library.
type Settings struct {
	// Style names the default placeholder style: "brace" or "bracket".
	Style string `yaml:"style" json:"style"`

	// LogLevel is one of "debug", "info", "warn", "error" or "off".
	LogLevel string `yaml:"log_level" json:"log_level"`

	// Metrics enables OpenTelemetry metrics through the global provider.
	Metrics bool `yaml:"metrics" json:"metrics"`

	// Tracing enables OpenTelemetry spans through the global provider.
	Tracing bool `yaml:"tracing" json:"tracing"`

	Store StoreSettings `yaml:"store" json:"store"`
}

// StoreSettings selects where named templates are kept.
type StoreSettings struct {
	// Driver is "memory" or "sqlite".
	Driver string `yaml:"driver" json:"driver"`

	// Path is the SQLite database file. Required for the sqlite driver;
	// ":memory:" keeps the database in memory.
	Path string `yaml:"path" json:"path"`
}

// Default returns settings for an in-memory library that renders brace
// placeholders and does not log.
func Default() Settings {
	return Settings{
		Style:    "brace",
		LogLevel: "off",
		Store:    StoreSettings{Driver: DriverMemory},
	}
}

// Validate checks every field and returns the first problem found.
// Style is checked by the library when it parses the name.
func (s Settings) Validate() error {
	if _, _, err := s.Level(); err != nil {
		return err
	}
	switch strings.ToLower(s.Store.Driver) {
	case "", DriverMemory:
	case DriverSQLite:
		if s.Store.Path == "" {
			return fmt.Errorf("%w: store.path is required for the sqlite driver", ErrInvalidSettings)
		}
	default:
		return fmt.Errorf("%w: unknown store driver %q", ErrInvalidSettings, s.Store.Driver)
	}
	return nil
}

// Level maps LogLevel to a slog level. The boolean is false when logging is
// off, which is also the case for an empty LogLevel.
func (s Settings) Level() (slog.Level, bool, error) {
	switch strings.ToLower(strings.TrimSpace(s.LogLevel)) {
	case "", "off", "none":
		return 0, false, nil
	case "debug":
		return slog.LevelDebug, true, nil
	case "info":
		return slog.LevelInfo, true, nil
	case "warn", "warning":
		return slog.LevelWarn, true, nil
	case "error":
		return slog.LevelError, true, nil
	default:
		return 0, false, fmt.Errorf("%w: unknown log level %q", ErrInvalidSettings, s.LogLevel)
	}
}
