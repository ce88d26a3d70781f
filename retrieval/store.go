package retrieval

import (
	"context"
	"fmt"

	"github.com/poiesic/propmatch/ai"
	"github.com/poiesic/propmatch/storage"
)

// StoreProvider embeds the query and scans the property store's vectors.
// Scores are cosine similarities.
type StoreProvider struct {
	embedder      ai.Embedder
	repo          storage.PropertyRepository
	minSimilarity float32
}

var _ Provider = (*StoreProvider)(nil)

// StoreProviderOption configures a StoreProvider.
type StoreProviderOption func(*StoreProvider)

// WithMinSimilarity drops hits below threshold. Default is -1, which keeps
// every property that has a vector.
func WithMinSimilarity(threshold float32) StoreProviderOption {
	return func(p *StoreProvider) {
		p.minSimilarity = threshold
	}
}

// NewStoreProvider creates a provider over repo using embedder for queries.
func NewStoreProvider(embedder ai.Embedder, repo storage.PropertyRepository, opts ...StoreProviderOption) (*StoreProvider, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	p := &StoreProvider{
		embedder:      embedder,
		repo:          repo,
		minSimilarity: -1,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Convention reports HigherIsBetter.
func (p *StoreProvider) Convention() ScoreConvention {
	return HigherIsBetter
}

// Search embeds query and returns the k most similar stored properties.
func (p *StoreProvider) Search(ctx context.Context, query string, k int) ([]Hit, error) {
	vector, err := p.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	similar, err := p.repo.FindSimilar(ctx, ai.NormalizeVector(vector), p.minSimilarity, k)
	if err != nil {
		return nil, fmt.Errorf("similarity scan: %w", err)
	}

	hits := make([]Hit, 0, len(similar))
	for _, s := range similar {
		hits = append(hits, Hit{
			ID:       s.Profile.ID,
			Score:    float64(s.Similarity),
			Metadata: storage.MarshalProperty(s.Profile),
		})
	}
	return hits, nil
}
