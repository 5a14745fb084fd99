// Package config provides configuration loading and validation for the
// refind server. It uses koanf to merge environment variables with
// optional file overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration values for the refind server.
type Config struct {
	// Server settings
	Port int `koanf:"port"`

	// Storage
	DBPath string `koanf:"db_path"`

	// Language model scoring
	LLMBaseURL        string  `koanf:"llm_base_url"`
	LLMModel          string  `koanf:"llm_model"`
	LLMAPIKey         string  `koanf:"llm_api_key"`
	LLMTimeoutSeconds float64 `koanf:"llm_timeout_seconds"`

	// Rule scoring
	SigmaKm       float64 `koanf:"sigma_km"`
	HalfLifeHours float64 `koanf:"half_life_hours"`

	// Reranking
	TopKLimit       int     `koanf:"topk_limit"`
	RuleWeight      float64 `koanf:"rule_weight"`
	SemanticWeight  float64 `koanf:"semantic_weight"`
	SoftmaxTau      float64 `koanf:"softmax_tau"`
	CacheTTLSeconds float64 `koanf:"cache_ttl_seconds"`
}

// Configuration validation errors.
var (
	ErrInvalidPort     = errors.New("port must be a valid integer in (0, 65535]")
	ErrInvalidTimeout  = errors.New("llm_timeout_seconds must be positive")
	ErrInvalidTopK     = errors.New("topk_limit must be positive")
	ErrInvalidWeights  = errors.New("rule_weight and semantic_weight must be non-negative and not both zero")
	ErrInvalidTau      = errors.New("softmax_tau must be positive")
	ErrInvalidCacheTTL = errors.New("cache_ttl_seconds must be positive")
	ErrMissingDBPath   = errors.New("db_path is required")
)

// Default values for non-secret configuration.
const (
	DefaultPort              = 8000
	DefaultDBPath            = "./refind-db"
	DefaultLLMBaseURL        = "http://localhost:1234/v1"
	DefaultLLMModel          = "gpt-4o-mini"
	DefaultLLMTimeoutSeconds = 5.0
	DefaultSigmaKm           = 2.0
	DefaultHalfLifeHours     = 72.0
	DefaultTopKLimit         = 50
	DefaultRuleWeight        = 0.3
	DefaultSemanticWeight    = 0.7
	DefaultSoftmaxTau        = 0.7
	DefaultCacheTTLSeconds   = 900.0
)

// Load reads configuration from environment variables and an optional config file.
// Environment variables take precedence over file values.
// Returns the loaded config and a slice of validation errors (empty if valid).
func Load(configFilePath string) (*Config, []error) {
	k := koanf.New(".")
	var loadErrs []error

	// Load from YAML file first if provided (lower precedence)
	if configFilePath != "" {
		if err := k.Load(file.Provider(configFilePath), yaml.Parser()); err != nil {
			return nil, []error{fmt.Errorf("failed to load config file %s: %w", configFilePath, err)}
		}
	}

	port, err := getEnvIntOrDefault("REFIND_PORT", k.Int("port"), DefaultPort)
	if err != nil {
		loadErrs = append(loadErrs, err)
	}
	timeout, err := getEnvFloatOrDefault("REFIND_LLM_TIMEOUT_SECONDS", k.Float64("llm_timeout_seconds"), DefaultLLMTimeoutSeconds)
	if err != nil {
		loadErrs = append(loadErrs, err)
	}
	sigma, err := getEnvFloatOrDefault("REFIND_SIGMA_KM", k.Float64("sigma_km"), DefaultSigmaKm)
	if err != nil {
		loadErrs = append(loadErrs, err)
	}
	halfLife, err := getEnvFloatOrDefault("REFIND_HALF_LIFE_HOURS", k.Float64("half_life_hours"), DefaultHalfLifeHours)
	if err != nil {
		loadErrs = append(loadErrs, err)
	}
	topK, err := getEnvIntOrDefault("REFIND_TOPK_LIMIT", k.Int("topk_limit"), DefaultTopKLimit)
	if err != nil {
		loadErrs = append(loadErrs, err)
	}
	ruleWeight, err := getEnvFloatOrDefault("REFIND_RULE_WEIGHT", k.Float64("rule_weight"), DefaultRuleWeight)
	if err != nil {
		loadErrs = append(loadErrs, err)
	}
	semanticWeight, err := getEnvFloatOrDefault("REFIND_SEMANTIC_WEIGHT", k.Float64("semantic_weight"), DefaultSemanticWeight)
	if err != nil {
		loadErrs = append(loadErrs, err)
	}
	tau, err := getEnvFloatOrDefault("REFIND_SOFTMAX_TAU", k.Float64("softmax_tau"), DefaultSoftmaxTau)
	if err != nil {
		loadErrs = append(loadErrs, err)
	}
	cacheTTL, err := getEnvFloatOrDefault("REFIND_CACHE_TTL_SECONDS", k.Float64("cache_ttl_seconds"), DefaultCacheTTLSeconds)
	if err != nil {
		loadErrs = append(loadErrs, err)
	}

	// Build config struct, with env vars taking precedence over file values
	cfg := &Config{
		Port:              port,
		DBPath:            getEnvOrDefault("REFIND_DB_PATH", k.String("db_path"), DefaultDBPath),
		LLMBaseURL:        getEnvOrDefault("REFIND_LLM_BASE_URL", k.String("llm_base_url"), DefaultLLMBaseURL),
		LLMModel:          getEnvOrDefault("REFIND_LLM_MODEL", k.String("llm_model"), DefaultLLMModel),
		LLMAPIKey:         getEnvOrKoanf("REFIND_LLM_API_KEY", k, "llm_api_key"),
		LLMTimeoutSeconds: timeout,
		SigmaKm:           sigma,
		HalfLifeHours:     halfLife,
		TopKLimit:         topK,
		RuleWeight:        ruleWeight,
		SemanticWeight:    semanticWeight,
		SoftmaxTau:        tau,
		CacheTTLSeconds:   cacheTTL,
	}

	errs := cfg.Validate()
	errs = append(loadErrs, errs...)

	return cfg, errs
}

// getEnvOrKoanf returns the environment variable value if set, otherwise the koanf value.
func getEnvOrKoanf(envKey string, k *koanf.Koanf, koanfKey string) string {
	if val := os.Getenv(envKey); val != "" {
		return val
	}
	return k.String(koanfKey)
}

// getEnvOrDefault returns the environment variable value if set, otherwise the koanf value, or default.
func getEnvOrDefault(envKey string, koanfVal string, defaultVal string) string {
	if val := os.Getenv(envKey); val != "" {
		return val
	}
	if koanfVal != "" {
		return koanfVal
	}
	return defaultVal
}

// getEnvIntOrDefault returns the environment variable as int if set, otherwise the koanf value, or default.
// Returns an error if the environment variable is set but cannot be parsed as an integer.
func getEnvIntOrDefault(envKey string, koanfVal int, defaultVal int) (int, error) {
	if val := os.Getenv(envKey); val != "" {
		i, err := strconv.Atoi(val)
		if err != nil {
			return 0, fmt.Errorf("%s must be a valid integer: %w", envKey, err)
		}
		return i, nil
	}
	if koanfVal != 0 {
		return koanfVal, nil
	}
	return defaultVal, nil
}

// getEnvFloatOrDefault returns the environment variable as float64 if set, otherwise the koanf value, or default.
// Returns an error if the environment variable is set but cannot be parsed as a float.
func getEnvFloatOrDefault(envKey string, koanfVal float64, defaultVal float64) (float64, error) {
	if val := os.Getenv(envKey); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return 0, fmt.Errorf("%s must be a valid float: %w", envKey, err)
		}
		return f, nil
	}
	if koanfVal != 0 {
		return koanfVal, nil
	}
	return defaultVal, nil
}

// Validate checks that all configuration values are usable.
// Returns a slice of validation errors (empty if valid).
func (c *Config) Validate() []error {
	var errs []error

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, ErrInvalidPort)
	}
	if c.DBPath == "" {
		errs = append(errs, ErrMissingDBPath)
	}
	if c.LLMTimeoutSeconds <= 0 {
		errs = append(errs, ErrInvalidTimeout)
	}
	if c.TopKLimit < 1 {
		errs = append(errs, ErrInvalidTopK)
	}
	if c.RuleWeight < 0 || c.SemanticWeight < 0 || c.RuleWeight+c.SemanticWeight == 0 {
		errs = append(errs, ErrInvalidWeights)
	}
	if c.SoftmaxTau <= 0 {
		errs = append(errs, ErrInvalidTau)
	}
	if c.CacheTTLSeconds <= 0 {
		errs = append(errs, ErrInvalidCacheTTL)
	}

	return errs
}

// LogSummary returns a summary of the configuration suitable for logging.
// Secrets are masked to prevent accidental exposure.
func (c *Config) LogSummary() map[string]string {
	return map[string]string{
		"port":                fmt.Sprintf("%d", c.Port),
		"db_path":             c.DBPath,
		"llm_base_url":        c.LLMBaseURL,
		"llm_model":           c.LLMModel,
		"llm_api_key":         maskSecret(c.LLMAPIKey),
		"llm_timeout_seconds": fmt.Sprintf("%g", c.LLMTimeoutSeconds),
		"sigma_km":            fmt.Sprintf("%g", c.SigmaKm),
		"half_life_hours":     fmt.Sprintf("%g", c.HalfLifeHours),
		"topk_limit":          fmt.Sprintf("%d", c.TopKLimit),
		"rule_weight":         fmt.Sprintf("%g", c.RuleWeight),
		"semantic_weight":     fmt.Sprintf("%g", c.SemanticWeight),
		"softmax_tau":         fmt.Sprintf("%g", c.SoftmaxTau),
		"cache_ttl_seconds":   fmt.Sprintf("%g", c.CacheTTLSeconds),
	}
}

// maskSecret masks a secret value, showing only the first 4 characters followed by ****
// If the secret is shorter than 8 characters, it's fully masked.
func maskSecret(s string) string {
	if s == "" {
		return "<not set>"
	}
	if len(s) < 8 {
		return "****"
	}
	return s[:4] + "****"
}
