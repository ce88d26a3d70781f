package retrieval

import "errors"

var (
	// ErrRetrievalUnavailable indicates the similarity provider could not be
	// reached after the retry policy gave up, or failed permanently.
	ErrRetrievalUnavailable = errors.New("retrieval unavailable")

	// ErrProviderRequired indicates a Retriever was constructed without a provider.
	ErrProviderRequired = errors.New("retrieval provider is required")

	// ErrEmbedderRequired indicates a StoreProvider was constructed without an embedder.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrRepositoryRequired indicates a StoreProvider was constructed without a repository.
	ErrRepositoryRequired = errors.New("property repository is required")
)
