package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowOrigin)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes)
	assert.True(t, cfg.IncludeTextDefault)
}

func TestLoadFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "prod")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("RATE_LIMIT_BURST", "3")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowOrigin)
	assert.Equal(t, 3, cfg.RateLimitBurst)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LOG_DEBUG=true\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("LOG_DEBUG") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.LogDebug)
}

func TestLoadRejectsInvalidUploadLimit(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("MAX_UPLOAD_BYTES", "0")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestLoadOTLPEndpoint(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "collector:4317")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "collector:4317", cfg.OTLPEndpoint)

	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "not a host")
	_, err = Load()
	require.Error(t, err)
}
