package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_EnvMode(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/newsroom_test")
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("FIRST_EDITOR_EMAIL", "chief@newsroom.test")
	t.Setenv("FIRST_EDITOR_PASSWORD", "seed-password")

	LoadConfig()
	cfg := AppConfig
	require.NotNil(t, cfg)

	assert.Equal(t, "postgres://localhost:5432/newsroom_test", cfg.Database.DSN)
	assert.Equal(t, "env-secret", cfg.JWT.Secret)

	// The bootstrap seed must work in env-configured deployments too.
	assert.Equal(t, "chief@newsroom.test", cfg.FirstEditorEmail)
	assert.Equal(t, "seed-password", cfg.FirstEditorPassword)

	// Defaults still apply in env mode.
	assert.Equal(t, "inline", cfg.Dispatcher.Mode)
	assert.Equal(t, 10, cfg.Tracking.PixelRateLimit)
	assert.Equal(t, 20, cfg.Tracking.MarkReadRateLimit)
}
