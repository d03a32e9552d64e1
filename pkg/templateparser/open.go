package templateparser

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/randalmurphal/templateparser/pkg/templateparser/config"
	"github.com/randalmurphal/templateparser/pkg/templateparser/observability"
	"github.com/randalmurphal/templateparser/pkg/templateparser/store"
)

// OpenLibrary builds a Library from settings. Options given here are
// applied after the ones derived from settings, so they take precedence.
//
// Example:
//
//	s, err := config.FromFile("templates.yaml")
//	if err != nil {
//	    return err
//	}
//	lib, err := templateparser.OpenLibrary(s)
//	if err != nil {
//	    return err
//	}
//	defer lib.Close()
func OpenLibrary(s config.Settings, opts ...Option) (*Library, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	style, err := ParseStyle(s.Style)
	if err != nil {
		return nil, err
	}

	derived := []Option{WithStyle(style)}
	if level, enabled, _ := s.Level(); enabled {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		derived = append(derived, WithLogger(logger))
	}
	if s.Metrics {
		derived = append(derived, WithMetrics(observability.NewMetricsRecorder()))
	}
	if s.Tracing {
		derived = append(derived, WithSpanManager(observability.NewSpanManager()))
	}

	st, err := openStore(s.Store)
	if err != nil {
		return nil, err
	}
	return NewLibrary(st, append(derived, opts...)...), nil
}

func openStore(s config.StoreSettings) (store.Store, error) {
	switch strings.ToLower(s.Driver) {
	case config.DriverSQLite:
		st, err := store.NewSQLiteStore(s.Path)
		if err != nil {
			return nil, fmt.Errorf("open template store: %w", err)
		}
		return st, nil
	default:
		return store.NewMemoryStore(), nil
	}
}
