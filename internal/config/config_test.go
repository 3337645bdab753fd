package config_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scenekit/scenekit/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, time.Second, cfg.UndoGroupWindow)
	assert.Equal(t, 80*time.Millisecond, cfg.HoverDebounce)
	assert.InDelta(t, 0.01, cfg.PointSizeFactor, 1e-12)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:3000"}, cfg.Origins())
	assert.Equal(t, []string{"localhost:5173", "localhost:3000"}, cfg.OriginHosts())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("UNDO_GROUP_WINDOW", "250ms")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example , ,https://b.example")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 250*time.Millisecond, cfg.UndoGroupWindow)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Origins())
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("HOVER_DEBOUNCE", "soon")
	_, err := config.Load()
	assert.Error(t, err)
}
