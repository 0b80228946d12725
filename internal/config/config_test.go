package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amithrb/jobfinder/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 1000, cfg.ChunkSize)
	assert.Equal(t, 100, cfg.ChunkOverlap)
	assert.Equal(t, 20, cfg.EmbedBatchSize)
	assert.Equal(t, 3, cfg.RetrieveTopK)
	assert.True(t, cfg.IsDev())
	assert.False(t, cfg.UseQdrant())
}

func TestLoad_InvalidOverlap(t *testing.T) {
	t.Setenv("CHUNK_SIZE", "100")
	t.Setenv("CHUNK_OVERLAP", "100")
	_, err := config.Load()
	require.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("VECTOR_BACKEND", "qdrant")
	t.Setenv("PORT", "9090")
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProd())
	assert.True(t, cfg.UseQdrant())
	assert.Equal(t, 9090, cfg.Port)
}

func TestGetAIBackoffConfig_TestEnvShortens(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	cfg, err := config.Load()
	require.NoError(t, err)
	maxElapsed, initial, maxInterval, mult := cfg.GetAIBackoffConfig()
	assert.Equal(t, 2*time.Second, maxElapsed)
	assert.Equal(t, 50*time.Millisecond, initial)
	assert.Equal(t, 500*time.Millisecond, maxInterval)
	assert.Equal(t, 2.0, mult)
}
