package extraction

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/propmatch/ai"
	"github.com/poiesic/propmatch/core"
	"github.com/poiesic/propmatch/resilience"
)

// Extractor calls an extraction oracle under a retry policy and normalizes
// its answer.
type Extractor struct {
	oracle     ai.ExtractionOracle
	policy     resilience.Policy
	normalizer *Normalizer
	logger     *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor) error

// WithPolicy sets the retry policy for oracle calls.
// Default is resilience.DefaultPolicy().
func WithPolicy(p resilience.Policy) Option {
	return func(e *Extractor) error {
		if p.MaxAttempts <= 0 {
			return resilience.ErrInvalidMaxAttempts
		}
		e.policy = p
		return nil
	}
}

// WithNormalizer replaces the default normalizer.
func WithNormalizer(n *Normalizer) Option {
	return func(e *Extractor) error {
		if n != nil {
			e.normalizer = n
		}
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) error {
		if logger != nil {
			e.logger = logger
		}
		return nil
	}
}

// NewExtractor creates an extractor over oracle.
func NewExtractor(oracle ai.ExtractionOracle, opts ...Option) (*Extractor, error) {
	if oracle == nil {
		return nil, ErrOracleRequired
	}
	e := &Extractor{
		oracle:     oracle,
		policy:     resilience.DefaultPolicy(),
		normalizer: NewNormalizer(),
		logger:     slog.Default().With("component", "extractor"),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Extract sends req to the oracle and normalizes the reply.
// Oracle failures that survive the retry policy are returned as errors;
// an unreadable reply is not an error and comes back as an Unparsed result.
func (e *Extractor) Extract(ctx context.Context, req ai.ExtractionRequest) (core.SourceResult, error) {
	if strings.TrimSpace(req.Text) == "" && len(req.Media) == 0 {
		return core.SourceResult{}, fmt.Errorf("%w: %s", ErrEmptySource, req.Kind)
	}

	var raw string
	err := e.policy.Do(ctx, func(ctx context.Context) error {
		var err error
		raw, err = e.oracle.Extract(ctx, req)
		return err
	})
	if err != nil {
		e.logger.Error("extraction failed", "kind", req.Kind, "err", err)
		return core.SourceResult{}, fmt.Errorf("extract %s source: %w", req.Kind, err)
	}

	result := e.normalizer.Normalize(req.Kind, raw)
	e.logger.Debug("extracted source", "kind", req.Kind, "parsed", result.IsParsed())
	return result, nil
}
