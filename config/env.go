package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// EnvPrefix starts every environment override.
const EnvPrefix = "PROPMATCH_"

// ApplyEnv overrides settings from environment variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			*dst = v
		}
	}
	parse := func(name string, set func(string) error) error {
		v, ok := lookup(EnvPrefix + name)
		if !ok || strings.TrimSpace(v) == "" {
			return nil
		}
		if err := set(strings.TrimSpace(v)); err != nil {
			return fmt.Errorf("%w: %s%s=%q: %v", ErrInvalidConfig, EnvPrefix, name, v, err)
		}
		return nil
	}

	str("LOG_LEVEL", &c.LogLevel)
	str("STORE_KIND", &c.Store.Kind)
	str("STORE_PATH", &c.Store.Path)
	str("AI_BACKEND", &c.AI.Backend)
	str("EMBEDDING_HOST", &c.AI.EmbeddingHost)
	str("ORACLE_HOST", &c.AI.OracleHost)
	str("EMBEDDING_MODEL", &c.AI.EmbeddingModel)
	str("ORACLE_MODEL", &c.AI.OracleModel)
	if v, ok := lookup(EnvPrefix + "AI_HOST"); ok && v != "" {
		c.AI.EmbeddingHost, c.AI.OracleHost = v, v
	}

	return firstErr(
		parse("STORE_IN_MEMORY", func(v string) (err error) {
			c.Store.InMemory, err = strconv.ParseBool(v)
			return
		}),
		parse("SYNC_WRITES", func(v string) (err error) {
			c.Store.SyncWrites, err = strconv.ParseBool(v)
			return
		}),
		parse("REQUESTS_PER_SECOND", func(v string) (err error) {
			c.AI.RequestsPerSecond, err = strconv.ParseFloat(v, 64)
			return
		}),
		parse("RETRY_MAX_ATTEMPTS", func(v string) (err error) {
			c.Retry.MaxAttempts, err = strconv.Atoi(v)
			return
		}),
		parse("RETRY_BASE_DELAY", func(v string) (err error) {
			c.Retry.BaseDelay, err = time.ParseDuration(v)
			return
		}),
		parse("SEARCH_RESULTS", func(v string) (err error) {
			c.Search.Results, err = strconv.Atoi(v)
			return
		}),
		parse("POOL_SIZE", func(v string) (err error) {
			c.Registration.PoolSize, err = strconv.Atoi(v)
			return
		}),
	)
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
