package retrieval

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/poiesic/propmatch/core"
	"github.com/poiesic/propmatch/resilience"
	"github.com/poiesic/propmatch/storage"
)

// ScoreConvention tells how a provider's scores order similarity.
type ScoreConvention int

const (
	// LowerIsBetter scores are distances.
	LowerIsBetter ScoreConvention = iota + 1
	// HigherIsBetter scores are similarities.
	HigherIsBetter
)

func (c ScoreConvention) String() string {
	switch c {
	case LowerIsBetter:
		return "lower-is-better"
	case HigherIsBetter:
		return "higher-is-better"
	default:
		return "unknown"
	}
}

// Hit is one provider result. Metadata carries the MUS-encoded canonical profile.
type Hit struct {
	ID       core.PropertyID
	Score    float64
	Metadata []byte
}

// Provider performs similarity search over the property catalogue.
// Implementations must be safe for concurrent use.
type Provider interface {
	// Search returns up to k hits for query.
	Search(ctx context.Context, query string, k int) ([]Hit, error)
	// Convention reports how Search scores are ordered.
	Convention() ScoreConvention
}

// Candidate is a decoded retrieval hit.
type Candidate struct {
	Profile  *core.PropertyProfile
	Distance float64 // lower is more similar
}

// Retriever decodes and de-duplicates provider hits under a retry policy.
type Retriever struct {
	provider Provider
	policy   resilience.Policy
	logger   *slog.Logger
}

// Option configures a Retriever.
type Option func(*Retriever) error

// WithPolicy sets the retry policy for provider calls.
// Default is resilience.DefaultPolicy().
func WithPolicy(p resilience.Policy) Option {
	return func(r *Retriever) error {
		if p.MaxAttempts <= 0 {
			return resilience.ErrInvalidMaxAttempts
		}
		r.policy = p
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Retriever) error {
		if logger != nil {
			r.logger = logger
		}
		return nil
	}
}

// NewRetriever creates a retriever over provider.
func NewRetriever(provider Provider, opts ...Option) (*Retriever, error) {
	if provider == nil {
		return nil, ErrProviderRequired
	}
	r := &Retriever{
		provider: provider,
		policy:   resilience.DefaultPolicy(),
		logger:   slog.Default().With("component", "retriever"),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Retrieve returns up to k candidates for query, most similar first.
// Hits whose metadata cannot be decoded are skipped. When the same
// property is returned more than once its best score is kept.
// Provider failures that survive the retry policy wrap ErrRetrievalUnavailable.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]Candidate, error) {
	if k <= 0 {
		return nil, nil
	}

	var hits []Hit
	err := r.policy.Do(ctx, func(ctx context.Context) error {
		var err error
		hits, err = r.provider.Search(ctx, query, k)
		return err
	})
	if err != nil {
		r.logger.Error("retrieval failed", "err", err)
		return nil, fmt.Errorf("%w: %w", ErrRetrievalUnavailable, err)
	}

	convention := r.provider.Convention()
	best := make(map[core.PropertyID]Candidate, len(hits))
	for _, hit := range hits {
		profile, err := storage.UnmarshalProperty(hit.Metadata)
		if err != nil {
			r.logger.Warn("skipping hit with unreadable metadata", "id", hit.ID, "err", err)
			continue
		}
		if profile.ID == "" {
			profile.ID = hit.ID
		}
		candidate := Candidate{Profile: profile, Distance: toDistance(hit.Score, convention)}
		if prev, ok := best[profile.ID]; !ok || candidate.Distance < prev.Distance {
			best[profile.ID] = candidate
		}
	}

	candidates := make([]Candidate, 0, len(best))
	for _, c := range best {
		candidates = append(candidates, c)
	}
	slices.SortFunc(candidates, func(a, b Candidate) int {
		if c := cmp.Compare(a.Distance, b.Distance); c != 0 {
			return c
		}
		return cmp.Compare(a.Profile.ID, b.Profile.ID)
	})
	if len(candidates) > k {
		candidates = candidates[:k]
	}

	r.logger.Debug("retrieved candidates", "hits", len(hits), "candidates", len(candidates))
	return candidates, nil
}

func toDistance(score float64, convention ScoreConvention) float64 {
	if convention == HigherIsBetter {
		return -score
	}
	return score
}
