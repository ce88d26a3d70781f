// Package config loads propmatch settings from a YAML file, optional .env
// files and PROPMATCH_* environment variables, in that order of precedence
// from lowest to highest.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/poiesic/propmatch/ai"
	"github.com/poiesic/propmatch/resilience"
	"github.com/poiesic/propmatch/scoring"
)

// Store kinds.
const (
	StoreBadger = "badger"
	StoreSQLite = "sqlite"
)

// BackendMock selects the offline mock AI provider.
const BackendMock = "mock"

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// StoreConfig selects and locates the property store.
type StoreConfig struct {
	Kind     string `yaml:"kind"`
	Path     string `yaml:"path"`
	InMemory bool   `yaml:"in_memory"`

	// SyncWrites flushes after every registration.
	SyncWrites bool `yaml:"sync_writes"`
}

// AIConfig selects and configures the AI backend.
type AIConfig struct {
	Backend string `yaml:"backend"`

	// Hosts and models left empty use the backend's defaults.
	EmbeddingHost     string  `yaml:"embedding_host,omitempty"`
	OracleHost        string  `yaml:"oracle_host,omitempty"`
	EmbeddingModel    string  `yaml:"embedding_model,omitempty"`
	OracleModel       string  `yaml:"oracle_model,omitempty"`
	APIKey            string  `yaml:"api_key,omitempty"`
	APIKeyEnv         string  `yaml:"api_key_env"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
}

// RetryConfig is the retry policy for oracle, embedder and retrieval calls.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	BaseDelay   time.Duration `yaml:"base_delay"`
	Offset      time.Duration `yaml:"offset"`
}

// SearchConfig tunes the query pipeline.
type SearchConfig struct {
	Results             int     `yaml:"results"`
	CandidateMultiplier int     `yaml:"candidate_multiplier"`
	MinSimilarity       float32 `yaml:"min_similarity"`
	RecordHistory       bool    `yaml:"record_history"`
}

// RegistrationConfig tunes the registration pipeline.
type RegistrationConfig struct {
	PoolSize int `yaml:"pool_size"`
}

// Config is the root configuration.
type Config struct {
	LogLevel     string             `yaml:"log_level"`
	Store        StoreConfig        `yaml:"store"`
	AI           AIConfig           `yaml:"ai"`
	Retry        RetryConfig        `yaml:"retry"`
	Search       SearchConfig       `yaml:"search"`
	Registration RegistrationConfig `yaml:"registration"`
	Bonuses      scoring.Bonuses    `yaml:"bonuses"`
}

// Default returns the built-in configuration: a badger store in
// ./propmatch.db and a local OpenAI-compatible server.
func Default() *Config {
	policy := resilience.DefaultPolicy()
	return &Config{
		LogLevel: "info",
		Store: StoreConfig{
			Kind:       StoreBadger,
			Path:       "propmatch.db",
			SyncWrites: true,
		},
		AI: AIConfig{
			Backend:   ai.BackendOpenAI,
			APIKeyEnv: "PROPMATCH_API_KEY",
		},
		Retry: RetryConfig{
			MaxAttempts: policy.MaxAttempts,
			BaseDelay:   policy.BaseDelay,
			Offset:      policy.Offset,
		},
		Search: SearchConfig{
			Results:             5,
			CandidateMultiplier: 2,
			MinSimilarity:       -1,
			RecordHistory:       true,
		},
		Registration: RegistrationConfig{PoolSize: 4},
		Bonuses:      scoring.DefaultBonuses(),
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, err
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEnv loads .env files into the process environment without overriding
// variables that are already set. Missing files are skipped; with no
// arguments ./.env is tried.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Save writes cfg as YAML, creating directories as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// Validate checks the configuration for values no component would accept.
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
	}

	if _, err := ParseLevel(c.LogLevel); err != nil {
		return invalid("%v", err)
	}

	switch c.Store.Kind {
	case StoreBadger, StoreSQLite:
	default:
		return invalid("unknown store kind %q", c.Store.Kind)
	}
	if !c.Store.InMemory && strings.TrimSpace(c.Store.Path) == "" {
		return invalid("store path is required")
	}

	if c.AI.Backend != BackendMock {
		if err := c.AIConfig().Validate(); err != nil {
			return invalid("%v", err)
		}
	}

	if c.Retry.MaxAttempts <= 0 {
		return invalid("retry max_attempts must be positive")
	}
	if c.Retry.BaseDelay < 0 || c.Retry.Offset < 0 {
		return invalid("retry delays must not be negative")
	}
	if c.Search.Results <= 0 {
		return invalid("search results must be positive")
	}
	if c.Search.CandidateMultiplier < 1 {
		return invalid("search candidate_multiplier must be at least 1")
	}
	if c.Registration.PoolSize < 1 {
		return invalid("registration pool_size must be at least 1")
	}
	if _, err := scoring.NewScorer(scoring.WithBonuses(c.Bonuses)); err != nil {
		return invalid("%v", err)
	}
	return nil
}

// AIConfig converts the AI section into an ai.Config. Empty hosts and
// models keep the backend's defaults. The API key is taken from the api_key
// setting, else from the variable named by api_key_env.
func (c *Config) AIConfig() *ai.Config {
	key := c.AI.APIKey
	if key == "" && c.AI.APIKeyEnv != "" {
		key = os.Getenv(c.AI.APIKeyEnv)
	}

	opts := []ai.ConfigOption{ai.WithBackend(c.AI.Backend)}
	set := func(value string, opt func(string) ai.ConfigOption) {
		if value != "" {
			opts = append(opts, opt(value))
		}
	}
	set(c.AI.EmbeddingHost, ai.WithEmbeddingHost)
	set(c.AI.OracleHost, ai.WithOracleHost)
	set(c.AI.EmbeddingModel, ai.WithEmbeddingModel)
	set(c.AI.OracleModel, ai.WithOracleModel)
	set(key, ai.WithAPIKey)
	opts = append(opts, ai.WithRequestsPerSecond(c.AI.RequestsPerSecond))
	return ai.NewConfig(opts...)
}

// Policy builds the retry policy, throttled by the AI request rate.
func (c *Config) Policy() resilience.Policy {
	p := resilience.DefaultPolicy()
	p.MaxAttempts = c.Retry.MaxAttempts
	p.BaseDelay = c.Retry.BaseDelay
	p.Offset = c.Retry.Offset
	return p.WithRateLimit(c.AI.RequestsPerSecond, 1)
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return 0, fmt.Errorf("unknown log level %q", name)
	}
	return level, nil
}
