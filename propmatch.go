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


// Package propmatch matches natural-language rental queries against a
// catalogue of properties registered from text, image and video sources.
package propmatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/poiesic/propmatch/ai"
	"github.com/poiesic/propmatch/ai/gemini"
	"github.com/poiesic/propmatch/ai/mock"
	"github.com/poiesic/propmatch/ai/openai"
	"github.com/poiesic/propmatch/config"
	"github.com/poiesic/propmatch/registration"
	"github.com/poiesic/propmatch/reindex"
	"github.com/poiesic/propmatch/retrieval"
	"github.com/poiesic/propmatch/scoring"
	"github.com/poiesic/propmatch/search"
	"github.com/poiesic/propmatch/storage"
	"github.com/poiesic/propmatch/storage/badger"
	"github.com/poiesic/propmatch/storage/sqlite"
)

// ErrConfigRequired is returned by Open when no configuration is given.
var ErrConfigRequired = errors.New("config is required")

// Catalog wires a property store and an AI provider into the registration,
// search and reindex pipelines.
type Catalog struct {
	cfg        *config.Config
	properties storage.PropertyRepository
	history    storage.SearchLogRepository
	provider   ai.AIProvider
	closers    []io.Closer
	logger     *slog.Logger
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithProvider uses provider instead of the one named by the configuration.
// The catalog takes ownership and closes it.
func WithProvider(provider ai.AIProvider) Option {
	return func(c *Catalog) {
		c.provider = provider
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Catalog) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Open opens the store and AI provider described by cfg.
func Open(ctx context.Context, cfg *config.Config, opts ...Option) (*Catalog, error) {
	if cfg == nil {
		return nil, ErrConfigRequired
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Catalog{
		cfg:    cfg,
		logger: slog.Default().With("component", "catalog"),
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.openStore(); err != nil {
		c.Close()
		return nil, err
	}

	if c.provider == nil {
		provider, err := openProvider(ctx, cfg)
		if err != nil {
			c.Close()
			return nil, err
		}
		c.provider = provider
	}
	c.closers = append([]io.Closer{c.provider}, c.closers...)
	return c, nil
}

func (c *Catalog) openStore() error {
	switch c.cfg.Store.Kind {
	case config.StoreSQLite:
		path := c.cfg.Store.Path
		if c.cfg.Store.InMemory {
			path = sqlite.MemoryPath
		}
		store, err := sqlite.Open(path)
		if err != nil {
			return fmt.Errorf("open sqlite store: %w", err)
		}
		c.properties, c.history = store, store
		c.closers = append(c.closers, store)

	default:
		backend, err := badger.OpenBackend(c.cfg.Store.Path, c.cfg.Store.InMemory)
		if err != nil {
			return fmt.Errorf("open badger store: %w", err)
		}
		c.closers = append(c.closers, backend)

		properties, err := badger.NewPropertyRepository(backend)
		if err != nil {
			return err
		}
		history, err := badger.NewSearchLogRepository(backend)
		if err != nil {
			return err
		}
		c.properties, c.history = properties, history
		// repositories close before the backend they share
		c.closers = append([]io.Closer{history, properties}, c.closers...)
	}
	return nil
}

func openProvider(ctx context.Context, cfg *config.Config) (ai.AIProvider, error) {
	switch cfg.AI.Backend {
	case config.BackendMock:
		return mock.NewMockProvider(), nil
	case ai.BackendGemini:
		return gemini.NewProvider(ctx, cfg.AIConfig())
	default:
		return openai.NewProvider(cfg.AIConfig())
	}
}

// Close releases the provider and the store. Every resource is closed even
// when an earlier one fails; the failures are joined.
func (c *Catalog) Close() error {
	var errs []error
	for _, closer := range c.closers {
		if err := closer.Close(); err != nil {
			c.logger.Error("error closing catalog resource", "err", err)
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

// Properties returns the property repository.
func (c *Catalog) Properties() storage.PropertyRepository {
	return c.properties
}

// History returns the search log repository.
func (c *Catalog) History() storage.SearchLogRepository {
	return c.history
}

// Config returns the configuration the catalog was opened with.
func (c *Catalog) Config() *config.Config {
	return c.cfg
}

// NewRegistrar creates a registration pipeline. opts are applied after the
// configured defaults. The caller must Release it.
func (c *Catalog) NewRegistrar(opts ...registration.Option) (*registration.Registrar, error) {
	defaults := []registration.Option{
		registration.WithPoolSize(c.cfg.Registration.PoolSize),
		registration.WithPolicy(c.cfg.Policy()),
		registration.WithSyncWrites(c.cfg.Store.SyncWrites),
	}
	return registration.NewRegistrar(c.provider, c.properties, append(defaults, opts...)...)
}

// NewSearcher creates a query pipeline over the stored catalogue. opts are
// applied after the configured defaults.
func (c *Catalog) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	provider, err := retrieval.NewStoreProvider(c.provider.Embedder(), c.properties,
		retrieval.WithMinSimilarity(c.cfg.Search.MinSimilarity))
	if err != nil {
		return nil, err
	}
	retriever, err := retrieval.NewRetriever(provider, retrieval.WithPolicy(c.cfg.Policy()))
	if err != nil {
		return nil, err
	}
	scorer, err := scoring.NewScorer(scoring.WithBonuses(c.cfg.Bonuses))
	if err != nil {
		return nil, err
	}

	defaults := []search.Option{
		search.WithScorer(scorer),
		search.WithCandidateMultiplier(c.cfg.Search.CandidateMultiplier),
	}
	if c.cfg.Search.RecordHistory {
		defaults = append(defaults, search.WithHistory(c.history))
	}
	return search.NewSearcher(retriever, append(defaults, opts...)...)
}

// NewReindexer creates a reindexer that re-embeds every stored property.
func (c *Catalog) NewReindexer(opts ...reindex.Option) (*reindex.Reindexer, error) {
	defaults := []reindex.Option{reindex.WithPolicy(c.cfg.Policy())}
	return reindex.NewReindexer(c.properties, c.provider.Embedder(), append(defaults, opts...)...)
}
