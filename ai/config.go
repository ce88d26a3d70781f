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
	"fmt"
	"strings"
)

// Supported backends.
const (
	BackendOpenAI = "openai"
	BackendGemini = "gemini"
)

// Default models per backend.
const (
	DefaultOpenAIEmbeddingModel = "embeddinggemma"
	DefaultOpenAIOracleModel    = "qwen2.5vl:7b"
	DefaultGeminiEmbeddingModel = "gemini-embedding-001"
	DefaultGeminiOracleModel    = "gemini-2.0-flash"
)

// Config holds configuration for AI service providers.
type Config struct {
	// Backend selects the implementation: "openai" (any OpenAI-compatible
	// server, including Ollama) or "gemini".
	Backend string

	// EmbeddingHost is the base URL for the embedding service API.
	// Example: "http://localhost:11434/v1" for local OpenAI-compatible server
	// Ignored by the gemini backend.
	EmbeddingHost string

	// OracleHost is the base URL for the extraction chat API.
	// Ignored by the gemini backend.
	OracleHost string

	// EmbeddingModel is the model identifier to use for text embeddings.
	EmbeddingModel string

	// OracleModel is the multimodal chat model used to extract property details.
	// Example: "qwen2.5vl:7b", "gpt-4o-mini", "gemini-2.0-flash"
	OracleModel string

	// APIKey authenticates against hosted services. Local OpenAI-compatible
	// servers accept any value; gemini requires a real key.
	APIKey string

	// RequestsPerSecond throttles oracle and embedding calls. 0 disables throttling.
	RequestsPerSecond float64
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithBackend selects the backend and switches the models to that backend's
// defaults. Apply model options after it to override them.
func WithBackend(backend string) ConfigOption {
	return func(c *Config) {
		c.Backend = strings.ToLower(strings.TrimSpace(backend))
		switch c.Backend {
		case BackendGemini:
			c.EmbeddingModel = DefaultGeminiEmbeddingModel
			c.OracleModel = DefaultGeminiOracleModel
		case BackendOpenAI:
			c.EmbeddingModel = DefaultOpenAIEmbeddingModel
			c.OracleModel = DefaultOpenAIOracleModel
		}
	}
}

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithOracleHost sets the extraction service host URL.
func WithOracleHost(host string) ConfigOption {
	return func(c *Config) {
		c.OracleHost = host
	}
}

// WithHost sets both embedding and oracle hosts to the same URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
		c.OracleHost = host
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithOracleModel sets the extraction model identifier.
func WithOracleModel(model string) ConfigOption {
	return func(c *Config) {
		c.OracleModel = model
	}
}

// WithAPIKey sets the API key.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithRequestsPerSecond throttles calls to the AI services.
func WithRequestsPerSecond(rps float64) ConfigOption {
	return func(c *Config) {
		c.RequestsPerSecond = rps
	}
}

// DefaultConfig returns a Config for a local OpenAI-compatible server.
func DefaultConfig() *Config {
	defaultHost := "http://localhost:11434/v1"
	return &Config{
		Backend:        BackendOpenAI,
		EmbeddingHost:  defaultHost,
		OracleHost:     defaultHost,
		EmbeddingModel: DefaultOpenAIEmbeddingModel,
		OracleModel:    DefaultOpenAIOracleModel,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithBackend(BackendGemini),
//	    WithAPIKey(os.Getenv("GEMINI_API_KEY")),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// For the openai backend it adds the /v1 suffix to hosts if missing, which
// is required by most OpenAI-compatible APIs (Ollama, LocalAI, vLLM, etc).
func (c *Config) Normalize() {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	if c.Backend == "" {
		c.Backend = BackendOpenAI
	}
	if c.Backend != BackendOpenAI {
		return
	}
	c.EmbeddingHost = withV1(c.EmbeddingHost)
	c.OracleHost = withV1(c.OracleHost)
}

func withV1(host string) string {
	if host == "" || strings.HasSuffix(host, "/v1") {
		return host
	}
	return strings.TrimSuffix(host, "/") + "/v1"
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	switch c.Backend {
	case BackendOpenAI:
		if c.EmbeddingHost == "" {
			return errors.New("ai config: EmbeddingHost is required")
		}
		if c.OracleHost == "" {
			return errors.New("ai config: OracleHost is required")
		}
	case BackendGemini:
		if c.APIKey == "" {
			return errors.New("ai config: APIKey is required for the gemini backend")
		}
	default:
		return fmt.Errorf("ai config: %w: %q", ErrUnknownBackend, c.Backend)
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if c.OracleModel == "" {
		return errors.New("ai config: OracleModel is required")
	}
	if c.RequestsPerSecond < 0 {
		return errors.New("ai config: RequestsPerSecond must not be negative")
	}
	return nil
}
