package registration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/propmatch/ai"
	"github.com/poiesic/propmatch/core"
	"github.com/poiesic/propmatch/extraction"
	"github.com/poiesic/propmatch/merge"
	"github.com/poiesic/propmatch/resilience"
	"github.com/poiesic/propmatch/storage"
)

// Registrar extracts, merges, embeds and stores properties.
type Registrar struct {
	repository storage.PropertyRepository
	embedder   ai.Embedder
	oracle     ai.ExtractionOracle
	extractor  *extraction.Extractor
	pool       *ants.Pool
	policy     resilience.Policy
	syncWrites bool
	logger     *slog.Logger
}

// Option configures a Registrar.
type Option func(*Registrar) error

// WithPoolSize sets the worker pool size for concurrent extraction.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(r *Registrar) error {
		if size < 1 {
			size = 1
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		if r.pool != nil {
			r.pool.Release()
		}
		r.pool = pool
		return nil
	}
}

// WithPolicy sets the retry policy for oracle and embedder calls.
// Default is resilience.DefaultPolicy().
func WithPolicy(p resilience.Policy) Option {
	return func(r *Registrar) error {
		if p.MaxAttempts <= 0 {
			return resilience.ErrInvalidMaxAttempts
		}
		r.policy = p
		return nil
	}
}

// WithSyncWrites flushes the repository after every save so a registered
// property is durable and searchable as soon as Register returns.
func WithSyncWrites(enabled bool) Option {
	return func(r *Registrar) error {
		r.syncWrites = enabled
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registrar) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewRegistrar creates a registrar storing into repository.
func NewRegistrar(provider ai.AIProvider, repository storage.PropertyRepository, opts ...Option) (*Registrar, error) {
	if provider == nil {
		return nil, ErrAIProviderRequired
	}
	if repository == nil {
		return nil, ErrRepositoryRequired
	}

	// Default pool size
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	r := &Registrar{
		repository: repository,
		embedder:   provider.Embedder(),
		oracle:     provider.Oracle(),
		pool:       pool,
		policy:     resilience.DefaultPolicy(),
		logger:     slog.Default(),
	}

	// Apply options (may override defaults)
	for _, opt := range opts {
		if optErr := opt(r); optErr != nil {
			r.Release()
			return nil, optErr
		}
	}

	// Create the extractor after options are applied (so it gets final config)
	extractor, err := extraction.NewExtractor(r.oracle,
		extraction.WithPolicy(r.policy),
		extraction.WithLogger(r.logger.With("component", "extractor")))
	if err != nil {
		r.Release()
		return nil, err
	}
	r.extractor = extractor

	return r, nil
}

// Register extracts every source concurrently, merges the results in
// source order and saves the canonical profile. When reg.ID names a stored
// property whose merged content is unchanged, the stored profile is returned
// without re-embedding.
func (r *Registrar) Register(ctx context.Context, reg Registration) (*core.PropertyProfile, error) {
	if len(reg.Sources) == 0 {
		return nil, ErrNoSources
	}

	requests := make([]ai.ExtractionRequest, len(reg.Sources))
	for i, src := range reg.Sources {
		req, err := src.request()
		if err != nil {
			return nil, fmt.Errorf("source %d: %w", i+1, err)
		}
		requests[i] = req
	}

	results, err := r.extractAll(ctx, requests)
	if err != nil {
		return nil, err
	}

	profile := merge.Merge(results...)
	if profile.SourceCount == 0 {
		r.logger.Warn("no source could be parsed", "sources", len(results))
		return nil, ErrNothingExtracted
	}
	profile.ID = reg.ID

	if profile.ID != "" {
		existing, err := r.repository.GetProperty(ctx, profile.ID)
		switch {
		case err == nil && existing.Fingerprint == profile.Fingerprint:
			r.logger.Info("property unchanged, skipping save", "id", profile.ID)
			return existing, nil
		case err != nil && !errors.Is(err, storage.ErrNotFound):
			return nil, fmt.Errorf("load property %s: %w", profile.ID, err)
		}
	} else {
		profile.ID = core.NewPropertyID()
	}
	if err := core.ValidatePropertyProfile(profile); err != nil {
		return nil, err
	}

	var vector []float32
	err = r.policy.Do(ctx, func(ctx context.Context) error {
		var err error
		vector, err = r.embedder.EmbedText(ctx, profile.Document())
		return err
	})
	if err != nil {
		r.logger.Error("error generating embedding for property", "id", profile.ID, "err", err)
		return nil, fmt.Errorf("embed property %s: %w", profile.ID, err)
	}

	saved, err := r.repository.SaveProperty(ctx, profile, ai.NormalizeVector(vector))
	if err != nil {
		return nil, fmt.Errorf("save property %s: %w", profile.ID, err)
	}
	if r.syncWrites {
		if err := r.repository.Flush(ctx); err != nil {
			return nil, fmt.Errorf("flush property %s: %w", profile.ID, err)
		}
	}

	r.logger.Info("registered property", "id", saved.ID, "sources", len(results), "parsed", saved.SourceCount)
	return saved, nil
}

// extractAll runs one extraction per request on the pool. Results keep the
// request order. The first failure cancels the remaining extractions.
func (r *Registrar) extractAll(ctx context.Context, requests []ai.ExtractionRequest) ([]core.SourceResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]core.SourceResult, len(requests))
	errs := make([]error, len(requests))
	var wg sync.WaitGroup

	for i, req := range requests {
		wg.Add(1)
		err := r.pool.Submit(func() {
			defer wg.Done()
			result, err := r.extractor.Extract(ctx, req)
			if err != nil {
				errs[i] = fmt.Errorf("source %d: %w", i+1, err)
				cancel()
				return
			}
			results[i] = result
		})
		if err != nil {
			wg.Done()
			errs[i] = fmt.Errorf("source %d: %w", i+1, err)
			cancel()
			break
		}
	}
	wg.Wait()

	// Report the failure that caused cancellation, not the ones it caused.
	var first error
	for _, err := range errs {
		if err == nil {
			continue
		}
		if first == nil || (errors.Is(first, context.Canceled) && !errors.Is(err, context.Canceled)) {
			first = err
		}
	}
	if first != nil {
		return nil, first
	}
	return results, nil
}

// Release releases the worker pool.
// The registrar should not be used after calling Release.
func (r *Registrar) Release() {
	if r.pool != nil {
		r.pool.Release()
	}
}
