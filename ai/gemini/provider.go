package gemini

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	"github.com/poiesic/propmatch/ai"
)

// Provider implements ai.AIProvider on a single shared genai client.
type Provider struct {
	client   *genai.Client
	embedder *Embedder
	oracle   *Oracle
	logger   *slog.Logger
}

// NewProvider creates a Gemini-backed provider. The config must select the
// gemini backend and carry an API key.
//
// Returns ai.AIProvider interface to enforce abstraction.
func NewProvider(ctx context.Context, config *ai.Config) (ai.AIProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.Backend != ai.BackendGemini {
		return nil, fmt.Errorf("%w: gemini provider given backend %q", ai.ErrUnknownBackend, config.Backend)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: config.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &Provider{
		client:   client,
		embedder: &Embedder{client: client, model: config.EmbeddingModel, logger: slog.Default().With("component", "gemini-embedder")},
		oracle:   &Oracle{client: client, model: config.OracleModel, logger: slog.Default().With("component", "gemini-oracle")},
		logger:   slog.Default().With("component", "gemini-provider"),
	}, nil
}

// Embedder returns the text embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// Oracle returns the extraction oracle.
func (p *Provider) Oracle() ai.ExtractionOracle {
	return p.oracle
}

// Close releases resources held by the provider. The genai client holds no
// resources that need explicit release.
func (p *Provider) Close() error {
	p.logger.Debug("closing Gemini provider")
	return nil
}
