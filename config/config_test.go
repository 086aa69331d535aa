package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferreirogomes/artshare/config"
)

func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoadDefaults(t *testing.T) {
	unsetEnv(t, "HTTP_ADDR", "DB_PG_URL", "MIGRATIONS_DIR", "CHECKPOINT_INTERVAL_SECONDS",
		"SIGNATURE_MAX_SKEW_SECONDS", "ADMIN_PRINCIPALS", "SEED_SAMPLE_ASSET", "DEBUG_LOGS")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 30*time.Second, cfg.CheckpointInterval)
	assert.Equal(t, 5*time.Minute, cfg.SignatureMaxSkew)
	assert.True(t, cfg.SeedSampleAsset)
}

func TestLoadFromEnvironment(t *testing.T) {
	unsetEnv(t, "MIGRATIONS_DIR", "SIGNATURE_MAX_SKEW_SECONDS", "DEBUG_LOGS")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("DB_PG_URL", "postgres://localhost/artshare?sslmode=disable")
	t.Setenv("CHECKPOINT_INTERVAL_SECONDS", "5")
	t.Setenv("ADMIN_PRINCIPALS", "a,b")
	t.Setenv("SEED_SAMPLE_ASSET", "false")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, 5*time.Second, cfg.CheckpointInterval)
	assert.Equal(t, "a,b", cfg.AdminPrincipals)
	assert.False(t, cfg.SeedSampleAsset)
}

func TestValidateRejectsNonPositiveIntervals(t *testing.T) {
	cfg := config.Config{HTTPAddr: ":8080", SignatureMaxSkew: time.Second}
	assert.Error(t, cfg.Validate())

	cfg.CheckpointInterval = time.Second
	assert.NoError(t, cfg.Validate())

	cfg.DatabaseURL = "postgres://x"
	assert.Error(t, cfg.Validate())
}
