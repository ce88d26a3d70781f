package reindex

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/poiesic/propmatch/ai"
	"github.com/poiesic/propmatch/core"
	"github.com/poiesic/propmatch/resilience"
	"github.com/poiesic/propmatch/storage"
)

// Reindexer re-embeds every stored property.
type Reindexer struct {
	repository     storage.PropertyRepository
	embedder       ai.Embedder
	policy         resilience.Policy
	batchSize      int
	reportInterval int
	progress       io.Writer
	logger         *slog.Logger
}

// Option configures a Reindexer.
type Option func(*Reindexer) error

// WithBatchSize sets how many properties are embedded per call.
// Default is DefaultBatchSize.
func WithBatchSize(n int) Option {
	return func(r *Reindexer) error {
		if n > 0 {
			r.batchSize = n
		}
		return nil
	}
}

// WithPolicy sets the retry policy for embedder calls.
func WithPolicy(p resilience.Policy) Option {
	return func(r *Reindexer) error {
		if p.MaxAttempts <= 0 {
			return resilience.ErrInvalidMaxAttempts
		}
		r.policy = p
		return nil
	}
}

// WithProgress writes a progress line to w every interval properties.
func WithProgress(w io.Writer, interval int) Option {
	return func(r *Reindexer) error {
		r.progress = w
		r.reportInterval = interval
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reindexer) error {
		if logger != nil {
			r.logger = logger
		}
		return nil
	}
}

// NewReindexer creates a reindexer.
func NewReindexer(repository storage.PropertyRepository, embedder ai.Embedder, opts ...Option) (*Reindexer, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	r := &Reindexer{
		repository:     repository,
		embedder:       embedder,
		policy:         resilience.DefaultPolicy(),
		batchSize:      DefaultBatchSize,
		reportInterval: DefaultBatchSize,
		logger:         slog.Default().With("component", "reindexer"),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Run re-embeds the whole catalogue and returns the number of properties
// updated. A failed batch stops the run; batches before it stay updated.
func (r *Reindexer) Run(ctx context.Context) (int, error) {
	total, seq := batches(ctx, r.repository, r.batchSize)
	if total == 0 {
		// seq still reports a listing failure
		for _, err := range seq {
			if err != nil {
				return 0, fmt.Errorf("list properties: %w", err)
			}
		}
		r.logger.Info("no properties to reindex")
		return 0, nil
	}

	r.logger.Info("reindexing properties", "total", total, "batchSize", r.batchSize)
	tracker := newProgress(r.progress, total, r.reportInterval)

	done := 0
	for batch, err := range seq {
		if err != nil {
			return done, fmt.Errorf("list properties: %w", err)
		}
		if err := r.embedBatch(ctx, batch); err != nil {
			return done, err
		}
		done += len(batch)
		tracker.add(len(batch))
	}

	if err := r.repository.Flush(ctx); err != nil {
		return done, fmt.Errorf("flush: %w", err)
	}

	elapsed := tracker.finish()
	r.logger.Info("reindex complete", "properties", done, "elapsed", elapsed.Round(time.Millisecond))
	return done, nil
}

func (r *Reindexer) embedBatch(ctx context.Context, batch []*core.PropertyProfile) error {
	texts := make([]string, len(batch))
	for i, p := range batch {
		texts[i] = p.Document()
	}

	var vectors [][]float32
	err := r.policy.Do(ctx, func(ctx context.Context) error {
		var err error
		vectors, err = r.embedder.EmbedTexts(ctx, texts)
		return err
	})
	if err != nil {
		return fmt.Errorf("embed batch starting at %s: %w", batch[0].ID, err)
	}
	if len(vectors) != len(batch) {
		return fmt.Errorf("%w: expected %d, got %d", ErrEmbeddingMismatch, len(batch), len(vectors))
	}

	for i, p := range batch {
		if err := r.repository.UpdateVector(ctx, p.ID, ai.NormalizeVector(vectors[i])); err != nil {
			return fmt.Errorf("update vector for %s: %w", p.ID, err)
		}
	}
	return nil
}
