// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ai

import (
	"errors"
	"strings"
	"time"
)

// Config holds configuration for the semantic scoring endpoint.
type Config struct {
	// BaseURL is the base URL of the OpenAI-compatible chat API.
	// Example: "http://localhost:1234/v1" for a local LM Studio server
	BaseURL string

	// Model is the model identifier used for scoring calls.
	// Example: "gpt-4o-mini", "exaone-3.5-7.8b-instruct"
	Model string

	// APIKey authenticates against the endpoint. May be empty for local
	// services that do not require authentication.
	APIKey string

	// Timeout bounds every outbound scoring call. A call that exceeds the
	// timeout is abandoned and reported as StatusTimeout.
	// Default: 5 seconds
	Timeout time.Duration
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithBaseURL sets the scoring endpoint base URL.
func WithBaseURL(url string) ConfigOption {
	return func(c *Config) {
		c.BaseURL = url
	}
}

// WithModel sets the model identifier.
func WithModel(model string) ConfigOption {
	return func(c *Config) {
		c.Model = model
	}
}

// WithAPIKey sets the API key sent with each request.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithTimeout sets the per-call timeout.
func WithTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// DefaultConfig returns a Config with sensible defaults for a local
// OpenAI-compatible service.
func DefaultConfig() *Config {
	return &Config{
		BaseURL: "http://localhost:1234/v1",
		Model:   "gpt-4o-mini",
		Timeout: 5 * time.Second,
	}
}

// NewConfig creates a Config with the default values and applies the
// provided options. This is the recommended way to create a Config with
// custom settings.
//
// Example:
//   cfg := NewConfig(
//       WithBaseURL("http://localhost:1234/v1"),
//       WithModel("exaone-3.5-7.8b-instruct"),
//   )
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// It automatically adds the /v1 suffix to the base URL if missing, which is
// required by most OpenAI-compatible APIs (LM Studio, Ollama, vLLM, etc).
func (c *Config) Normalize() {
	if c.BaseURL != "" && !strings.HasSuffix(c.BaseURL, "/v1") {
		c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")
		c.BaseURL = c.BaseURL + "/v1"
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.BaseURL == "" {
		return errors.New("ai config: BaseURL is required")
	}
	if c.Model == "" {
		return errors.New("ai config: Model is required")
	}
	if c.Timeout <= 0 {
		return errors.New("ai config: Timeout must be positive")
	}
	return nil
}
