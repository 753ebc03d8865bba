package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "service-desk", cfg.App.Name)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	assert.Equal(t, int32(10), cfg.Postgres.MaxConns)
	assert.True(t, cfg.Postgres.RunMigrations)
	assert.Equal(t, "127.0.0.1:6379", cfg.Redis.Addr)
	assert.Equal(t, 60, cfg.Auth.AccessTokenTTLMinutes)
	assert.Equal(t, 5*time.Second, cfg.Notification.Timeout())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("POSTGRES_RUN_MIGRATIONS", "false")
	t.Setenv("AUTH_ACCESS_TOKEN_TTL_MINUTES", "15")
	t.Setenv("NOTIFY_TIMEOUT_SECONDS", "2")
	t.Setenv("NOTIFY_WEBHOOK_URL", "https://hooks.example.com/it")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.False(t, cfg.Postgres.RunMigrations)
	assert.Equal(t, 15, cfg.Auth.AccessTokenTTLMinutes)
	assert.Equal(t, 2*time.Second, cfg.Notification.Timeout())
	assert.Equal(t, "https://hooks.example.com/it", cfg.Notification.WebhookURL)
}

func TestLoad_InvalidRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_MalformedIntFallsBack(t *testing.T) {
	t.Setenv("POSTGRES_MAX_CONNS", "lots")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, int32(10), cfg.Postgres.MaxConns)
}

func TestNotificationTimeout_NonPositiveUsesDefault(t *testing.T) {
	n := NotificationConfig{TimeoutSeconds: 0}
	assert.Equal(t, 5*time.Second, n.Timeout())
}
