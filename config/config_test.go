package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, errs := Load("")
	require.Empty(t, errs)

	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultDBPath, cfg.DBPath)
	assert.Equal(t, DefaultLLMBaseURL, cfg.LLMBaseURL)
	assert.Equal(t, DefaultLLMModel, cfg.LLMModel)
	assert.InDelta(t, DefaultLLMTimeoutSeconds, cfg.LLMTimeoutSeconds, 1e-9)
	assert.InDelta(t, DefaultSigmaKm, cfg.SigmaKm, 1e-9)
	assert.InDelta(t, DefaultHalfLifeHours, cfg.HalfLifeHours, 1e-9)
	assert.Equal(t, DefaultTopKLimit, cfg.TopKLimit)
	assert.InDelta(t, DefaultRuleWeight, cfg.RuleWeight, 1e-9)
	assert.InDelta(t, DefaultSemanticWeight, cfg.SemanticWeight, 1e-9)
	assert.InDelta(t, DefaultSoftmaxTau, cfg.SoftmaxTau, 1e-9)
	assert.InDelta(t, DefaultCacheTTLSeconds, cfg.CacheTTLSeconds, 1e-9)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("port: 9100\nllm_model: exaone-3.5-7.8b-instruct\nsigma_km: 1.5\ntopk_limit: 20\n")
	require.NoError(t, os.WriteFile(path, content, 0644))

	cfg, errs := Load(path)
	require.Empty(t, errs)

	assert.Equal(t, 9100, cfg.Port)
	assert.Equal(t, "exaone-3.5-7.8b-instruct", cfg.LLMModel)
	assert.InDelta(t, 1.5, cfg.SigmaKm, 1e-9)
	assert.Equal(t, 20, cfg.TopKLimit)
	// Unset keys keep their defaults.
	assert.Equal(t, DefaultLLMBaseURL, cfg.LLMBaseURL)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: 9100\n"), 0644))

	t.Setenv("REFIND_PORT", "9200")
	t.Setenv("REFIND_LLM_API_KEY", "sk-test-12345")

	cfg, errs := Load(path)
	require.Empty(t, errs)
	assert.Equal(t, 9200, cfg.Port)
	assert.Equal(t, "sk-test-12345", cfg.LLMAPIKey)
}

func TestLoadMissingFile(t *testing.T) {
	_, errs := Load("/nonexistent/config.yaml")
	require.Len(t, errs, 1)
	assert.Error(t, errs[0])
}

func TestLoadBadEnvValue(t *testing.T) {
	t.Setenv("REFIND_PORT", "not-a-number")
	_, errs := Load("")
	assert.NotEmpty(t, errs)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg, errs := Load("")
		require.Empty(t, errs)
		return cfg
	}

	t.Run("bad port", func(t *testing.T) {
		cfg := valid()
		cfg.Port = -1
		assert.Contains(t, cfg.Validate(), ErrInvalidPort)
	})

	t.Run("missing db path", func(t *testing.T) {
		cfg := valid()
		cfg.DBPath = ""
		assert.Contains(t, cfg.Validate(), ErrMissingDBPath)
	})

	t.Run("zero weights", func(t *testing.T) {
		cfg := valid()
		cfg.RuleWeight = 0
		cfg.SemanticWeight = 0
		assert.Contains(t, cfg.Validate(), ErrInvalidWeights)
	})

	t.Run("bad tau", func(t *testing.T) {
		cfg := valid()
		cfg.SoftmaxTau = 0
		assert.Contains(t, cfg.Validate(), ErrInvalidTau)
	})

	t.Run("bad cache ttl", func(t *testing.T) {
		cfg := valid()
		cfg.CacheTTLSeconds = 0
		assert.Contains(t, cfg.Validate(), ErrInvalidCacheTTL)
	})
}

func TestLogSummaryMasksSecrets(t *testing.T) {
	cfg, errs := Load("")
	require.Empty(t, errs)
	cfg.LLMAPIKey = "sk-verysecretkey"

	summary := cfg.LogSummary()
	assert.Equal(t, "sk-v****", summary["llm_api_key"])
	assert.NotContains(t, summary["llm_api_key"], "verysecret")
}
