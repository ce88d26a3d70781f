package storage

import (
	"context"

	"github.com/poiesic/propmatch/core"
)

// SimilarityHit is one result of a vector similarity scan.
type SimilarityHit struct {
	Profile    *core.PropertyProfile
	Similarity float32 // cosine similarity, higher is more similar
}

// PropertyRepository stores canonical property profiles and their vectors.
// Implementations must be thread-safe and support concurrent access.
type PropertyRepository interface {
	// SaveProperty writes profile as a full replacement of any stored
	// record with the same ID. An empty ID is assigned a new one.
	// CreatedAt is preserved from the stored record when one exists,
	// UpdatedAt is set to now. A non-nil vector replaces the stored
	// vector; a nil vector leaves it untouched.
	// Returns the saved profile.
	SaveProperty(ctx context.Context, profile *core.PropertyProfile, vector []float32) (*core.PropertyProfile, error)

	// GetProperty retrieves a single profile by ID.
	// Returns ErrNotFound if the profile doesn't exist.
	GetProperty(ctx context.Context, id core.PropertyID) (*core.PropertyProfile, error)

	// GetProperties retrieves multiple profiles by ID.
	// Returns only the profiles that exist (no error for missing IDs).
	GetProperties(ctx context.Context, ids ...core.PropertyID) ([]*core.PropertyProfile, error)

	// ListProperties returns every stored profile ordered by ID.
	ListProperties(ctx context.Context) ([]*core.PropertyProfile, error)

	// DeleteProperty removes a profile and its vector.
	// Returns ErrNotFound if the profile doesn't exist.
	DeleteProperty(ctx context.Context, id core.PropertyID) error

	// UpdateVector replaces the vector of an existing profile.
	// Returns ErrNotFound if the profile doesn't exist.
	UpdateVector(ctx context.Context, id core.PropertyID, vector []float32) error

	// FindSimilar scans stored vectors and returns profiles whose similarity
	// to vector is at least minSimilarity, highest first, up to limit hits.
	FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*SimilarityHit, error)

	// Flush makes every completed write durable.
	Flush(ctx context.Context) error

	// Close releases resources held by the repository.
	Close() error
}

// SearchLogRepository records executed searches.
type SearchLogRepository interface {
	// RecordSearch appends an entry. A zero Timestamp is set to now.
	RecordSearch(ctx context.Context, entry core.SearchLogEntry) error

	// RecentSearches returns up to limit entries, most recent first.
	RecentSearches(ctx context.Context, limit int) ([]core.SearchLogEntry, error)

	// Close releases resources held by the repository.
	Close() error
}
