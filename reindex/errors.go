package reindex

import "errors"

var (
	// ErrRepositoryRequired is returned when a property repository is not provided.
	ErrRepositoryRequired = errors.New("property repository required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrEmbeddingMismatch is returned when the embedder returns a different
	// number of vectors than texts it was given.
	ErrEmbeddingMismatch = errors.New("embedding count mismatch")
)
