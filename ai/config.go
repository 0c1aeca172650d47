// Copyright 2026 Poiesic Systems
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
)

// Config holds configuration for AI service providers.
type Config struct {
	// EmbeddingHost is the base URL for the embedding service API.
	// Example: "https://api.openai.com/v1", or "http://localhost:11434/v1"
	// for a local OpenAI-compatible server
	EmbeddingHost string

	// GenerationHost is the base URL for the text generation service API.
	// Example: "https://api.openai.com/v1" or a local OpenAI-compatible server
	GenerationHost string

	// EmbeddingModel is the model identifier to use for text embeddings.
	// Example: "text-embedding-3-small", "embeddinggemma"
	EmbeddingModel string

	// GenerationModel is the model identifier to use for answer generation.
	// Example: "gpt-4o-mini", "qwen2.5:3b"
	GenerationModel string

	// EmbeddingDimensions is the declared output dimension of the embedding
	// model. Vectors returned by the service are validated against it.
	// Default: 1536 (text-embedding-3-small)
	EmbeddingDimensions int

	// APIKey authenticates against the embedding and generation services.
	// Use "none" for local OpenAI-compatible servers without authentication.
	APIKey string
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithGenerationHost sets the generation service host URL.
func WithGenerationHost(host string) ConfigOption {
	return func(c *Config) {
		c.GenerationHost = host
	}
}

// WithHost sets both embedding and generation hosts to the same URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
		c.GenerationHost = host
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithGenerationModel sets the generation model identifier.
func WithGenerationModel(model string) ConfigOption {
	return func(c *Config) {
		c.GenerationModel = model
	}
}

// WithEmbeddingDimensions sets the declared embedding vector dimension.
func WithEmbeddingDimensions(dim int) ConfigOption {
	return func(c *Config) {
		c.EmbeddingDimensions = dim
	}
}

// WithAPIKey sets the API key used for both services.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// DefaultConfig returns a Config with sensible defaults for the OpenAI API.
// By default, embedding and generation use the same host.
func DefaultConfig() *Config {
	defaultHost := "https://api.openai.com/v1"
	return &Config{
		EmbeddingHost:       defaultHost,
		GenerationHost:      defaultHost,
		EmbeddingModel:      "text-embedding-3-small",
		GenerationModel:     "gpt-4o-mini",
		EmbeddingDimensions: 1536,
		APIKey:              "none",
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
// This is the recommended way to create a Config with custom settings.
//
// Example:
//   cfg := NewConfig(
//       WithHost("http://localhost:11434/v1"),
//       WithEmbeddingModel("embeddinggemma"),
//       WithEmbeddingDimensions(768),
//   )
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// It automatically adds the /v1 suffix to hosts if missing, which is required
// by most OpenAI-compatible APIs (OpenAI, Ollama, LocalAI, vLLM, etc).
func (c *Config) Normalize() {
	if c.EmbeddingHost != "" && !strings.HasSuffix(c.EmbeddingHost, "/v1") {
		c.EmbeddingHost = strings.TrimSuffix(c.EmbeddingHost, "/")
		c.EmbeddingHost = c.EmbeddingHost + "/v1"
	}
	if c.GenerationHost != "" && !strings.HasSuffix(c.GenerationHost, "/v1") {
		c.GenerationHost = strings.TrimSuffix(c.GenerationHost, "/")
		c.GenerationHost = c.GenerationHost + "/v1"
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.EmbeddingHost == "" {
		return errors.New("ai config: EmbeddingHost is required")
	}
	if c.GenerationHost == "" {
		return errors.New("ai config: GenerationHost is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if c.GenerationModel == "" {
		return errors.New("ai config: GenerationModel is required")
	}
	if c.EmbeddingDimensions <= 0 {
		return errors.New("ai config: EmbeddingDimensions must be positive")
	}
	if c.APIKey == "" {
		return errors.New("ai config: APIKey is required (use \"none\" for unauthenticated local services)")
	}
	return nil
}
