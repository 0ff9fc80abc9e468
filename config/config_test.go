package config

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadConfig(t *testing.T) *AppConfig {
	t.Helper()
	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()
	return &cfg
}

func TestDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg := loadConfig(t)

	assert.False(t, cfg.IsDev)
	assert.Equal(t, ":8000", cfg.HTTP.Addr)
	assert.Equal(t, "http,sweeper", cfg.Services)
	assert.Equal(t, "http://localhost:5000", cfg.ML.BaseURL)
	assert.Equal(t, 5*time.Minute, cfg.ML.Timeout)
	assert.Equal(t, time.Hour, cfg.Sweeper.Interval)
	assert.Equal(t, time.Hour, cfg.Sweeper.Retention)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "inkwell", cfg.Postgres.Name)
	assert.Equal(t, "localhost:6379", cfg.Redis.URI)
	assert.False(t, cfg.Mail.DeliveryEnabled())
	assert.False(t, cfg.Observability.Metrics.IsEnabled())
}

func TestJWTSecretRequired(t *testing.T) {
	var cfg AppConfig
	err := env.Parse(&cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestParseServices(t *testing.T) {
	services, err := ParseServices("http,sweeper")
	require.NoError(t, err)
	assert.True(t, services[ServiceModeHTTP])
	assert.True(t, services[ServiceModeSweeper])

	services, err = ParseServices(" http , ")
	require.NoError(t, err)
	assert.True(t, services[ServiceModeHTTP])
	assert.False(t, services[ServiceModeSweeper])

	_, err = ParseServices("http,scheduler")
	require.Error(t, err)

	_, err = ParseServices("")
	require.Error(t, err)
}

func TestServiceToggles(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("SERVICES", "sweeper")

	cfg := loadConfig(t)
	assert.False(t, cfg.IsHTTPServerEnabled())
	assert.True(t, cfg.IsSweeperEnabled())
}

func TestSanitizeGuardrails(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ML_TIMEOUT", "10ms")
	t.Setenv("SWEEPER_INTERVAL", "5s")
	t.Setenv("SWEEPER_RETENTION", "1s")
	t.Setenv("JWT_TTL", "2s")
	t.Setenv("SMTP_PORT", "99999")

	cfg := loadConfig(t)

	assert.Equal(t, time.Second, cfg.ML.Timeout)
	assert.Equal(t, time.Minute, cfg.Sweeper.Interval)
	assert.Equal(t, time.Minute, cfg.Sweeper.Retention)
	assert.Equal(t, time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, 587, cfg.Mail.Port)
}

func TestDevModeFromNodeEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("NODE_ENV", "development")

	cfg := loadConfig(t)
	assert.True(t, cfg.IsDev)
}

func TestMetricsDisabledWithoutAddress(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("OBSERVABILITY_METRICS_ENABLED", "true")
	t.Setenv("OBSERVABILITY_METRICS_STATSD_ADDRESS", "  ")

	cfg := loadConfig(t)
	assert.False(t, cfg.Observability.Metrics.IsEnabled())
}
