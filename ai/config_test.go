package ai

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "http://localhost:1234/v1", cfg.BaseURL)
	assert.Equal(t, "gpt-4o-mini", cfg.Model)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Empty(t, cfg.APIKey)
}

func TestNewConfigOptions(t *testing.T) {
	cfg := NewConfig(
		WithBaseURL("http://scoring.internal:9000/v1"),
		WithModel("exaone-3.5-7.8b-instruct"),
		WithAPIKey("secret"),
		WithTimeout(2*time.Second),
	)

	assert.Equal(t, "http://scoring.internal:9000/v1", cfg.BaseURL)
	assert.Equal(t, "exaone-3.5-7.8b-instruct", cfg.Model)
	assert.Equal(t, "secret", cfg.APIKey)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
}

func TestConfigNormalize(t *testing.T) {
	t.Run("adds v1 suffix", func(t *testing.T) {
		cfg := NewConfig(WithBaseURL("http://localhost:1234"))
		cfg.Normalize()
		assert.Equal(t, "http://localhost:1234/v1", cfg.BaseURL)
	})

	t.Run("strips trailing slash before suffix", func(t *testing.T) {
		cfg := NewConfig(WithBaseURL("http://localhost:1234/"))
		cfg.Normalize()
		assert.Equal(t, "http://localhost:1234/v1", cfg.BaseURL)
	})

	t.Run("leaves canonical url alone", func(t *testing.T) {
		cfg := NewConfig(WithBaseURL("http://localhost:1234/v1"))
		cfg.Normalize()
		assert.Equal(t, "http://localhost:1234/v1", cfg.BaseURL)
	})
}

func TestConfigValidate(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		assert.NoError(t, DefaultConfig().Validate())
	})

	t.Run("missing base url", func(t *testing.T) {
		cfg := NewConfig(WithBaseURL(""))
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing model", func(t *testing.T) {
		cfg := NewConfig(WithModel(""))
		assert.Error(t, cfg.Validate())
	})

	t.Run("non-positive timeout", func(t *testing.T) {
		cfg := NewConfig(WithTimeout(0))
		assert.Error(t, cfg.Validate())
	})

	t.Run("validate normalizes first", func(t *testing.T) {
		cfg := NewConfig(WithBaseURL("http://localhost:1234"))
		require.NoError(t, cfg.Validate())
		assert.Equal(t, "http://localhost:1234/v1", cfg.BaseURL)
	})
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "ok", StatusOK.String())
	assert.Equal(t, "cache", StatusCache.String())
	assert.Equal(t, "timeout", StatusTimeout.String())
	assert.Equal(t, "error", StatusError.String())
	assert.Equal(t, "unknown", Status(0).String())
}
