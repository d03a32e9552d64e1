package templateparser

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/templateparser/pkg/templateparser/config"
	"github.com/randalmurphal/templateparser/pkg/templateparser/observability"
	"github.com/randalmurphal/templateparser/pkg/templateparser/store"
)

func TestOpenLibrary_Defaults(t *testing.T) {
	lib, err := OpenLibrary(config.Default())
	require.NoError(t, err)
	defer lib.Close()

	assert.IsType(t, &store.MemoryStore{}, lib.store)
	assert.Equal(t, Brace, lib.style)
	assert.Nil(t, lib.logger)
	assert.Equal(t, observability.NoopMetrics{}, lib.metrics)
	assert.Equal(t, observability.NoopSpanManager{}, lib.spans)

	_, err = lib.Add("greeting", "Hi {Name}")
	require.NoError(t, err)
	result, err := lib.Render("greeting", person())
	require.NoError(t, err)
	assert.Equal(t, "Hi Jon", result)
}

func TestOpenLibrary_FromSettings(t *testing.T) {
	s := config.Settings{
		Style:    "bracket",
		LogLevel: "error",
		Metrics:  true,
		Tracing:  true,
		Store: config.StoreSettings{
			Driver: config.DriverSQLite,
			Path:   filepath.Join(t.TempDir(), "templates.db"),
		},
	}

	lib, err := OpenLibrary(s)
	require.NoError(t, err)
	defer lib.Close()

	assert.IsType(t, &store.SQLiteStore{}, lib.store)
	assert.Equal(t, Bracket, lib.style)
	assert.NotNil(t, lib.logger)
	assert.NotEqual(t, observability.NoopMetrics{}, lib.metrics)
	assert.NotEqual(t, observability.NoopSpanManager{}, lib.spans)

	_, err = lib.Add("greeting", "Hi [Name]")
	require.NoError(t, err)
	result, err := lib.Render("greeting", person())
	require.NoError(t, err)
	assert.Equal(t, "Hi Jon", result)
}

func TestOpenLibrary_OptionsOverrideSettings(t *testing.T) {
	m := &recordingMetrics{}
	lib, err := OpenLibrary(config.Settings{Style: "bracket", Metrics: true}, WithStyle(Brace), WithMetrics(m))
	require.NoError(t, err)
	defer lib.Close()

	assert.Equal(t, Brace, lib.style)
	_, err = lib.Add("x", "{Name}")
	require.NoError(t, err)
	assert.Len(t, m.storeOps, 1)
}

func TestOpenLibrary_Errors(t *testing.T) {
	tests := []struct {
		name     string
		settings config.Settings
		wantErr  error
	}{
		{"invalid style", config.Settings{Style: "angle"}, ErrInvalidStyle},
		{"invalid driver", config.Settings{Store: config.StoreSettings{Driver: "redis"}}, config.ErrInvalidSettings},
		{"sqlite without path", config.Settings{Store: config.StoreSettings{Driver: "sqlite"}}, config.ErrInvalidSettings},
		{"invalid log level", config.Settings{LogLevel: "chatty"}, config.ErrInvalidSettings},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lib, err := OpenLibrary(tt.settings)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, lib)
		})
	}

	_, err := OpenLibrary(config.Settings{Store: config.StoreSettings{
		Driver: config.DriverSQLite,
		Path:   "/nonexistent/dir/templates.db",
	}})
	assert.ErrorContains(t, err, "open template store")
}
