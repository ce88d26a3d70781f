package openai

import (
	"log/slog"
	"sync/atomic"

	"github.com/poiesic/propmatch/ai"
)

// Provider serves the embedder and the extraction oracle from
// OpenAI-compatible endpoints, such as a local Ollama or vLLM server.
type Provider struct {
	embedder *Embedder
	oracle   *Oracle
	closed   atomic.Bool
	logger   *slog.Logger
}

var _ ai.AIProvider = (*Provider)(nil)

// NewProvider validates config and creates both services.
// The embedder and oracle may live on different hosts.
func NewProvider(config *ai.Config) (ai.AIProvider, error) {
	if config == nil {
		config = ai.DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	embedder, err := newEmbedder(config)
	if err != nil {
		return nil, err
	}
	oracle, err := newOracle(config)
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("component", "openai-provider")
	logger.Debug("provider ready",
		"embedding_host", config.EmbeddingHost, "embedding_model", config.EmbeddingModel,
		"oracle_host", config.OracleHost, "oracle_model", config.OracleModel)

	return &Provider{
		embedder: embedder,
		oracle:   oracle,
		logger:   logger,
	}, nil
}

// Embedder returns the embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// Oracle returns the extraction oracle.
func (p *Provider) Oracle() ai.ExtractionOracle {
	return p.oracle
}

// Close marks the provider closed. The HTTP clients hold no resources of
// their own, so repeated calls are harmless.
func (p *Provider) Close() error {
	if p.closed.CompareAndSwap(false, true) {
		p.logger.Debug("closing OpenAI provider")
	}
	return nil
}
