package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadWithOptions(LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Postgres.Host)
	assert.Equal(t, 5432, cfg.Postgres.Port)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
	assert.Equal(t, "vinylvault", cfg.Mongo.DBName)
	assert.Equal(t, 10*time.Second, cfg.CallTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.IsDevelopment())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("CALL_TIMEOUT_SECONDS", "3")
	t.Setenv("ENVIRONMENT", "development")

	cfg, err := LoadWithOptions(LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Postgres.Host)
	assert.Equal(t, 3*time.Second, cfg.CallTimeout)
	assert.True(t, cfg.IsDevelopment())
	assert.Contains(t, cfg.Postgres.DSN(), "host=db.internal")
	assert.Contains(t, cfg.Postgres.DSN(), "password=secret")
}

func TestLoadRejectsNonPositiveTimeout(t *testing.T) {
	t.Setenv("CALL_TIMEOUT_SECONDS", "0")

	_, err := LoadWithOptions(LoadOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CALL_TIMEOUT_SECONDS")
}
