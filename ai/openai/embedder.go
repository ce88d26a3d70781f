package openai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/poiesic/propmatch/ai"
)

// embedBatchSize caps the texts sent in one embeddings request.
const embedBatchSize = 64

// Embedder embeds property documents and queries through an
// OpenAI-compatible embeddings endpoint.
type Embedder struct {
	embedder embeddings.Embedder
	model    string
	guard    ai.DimensionGuard
	logger   *slog.Logger
}

// token returns the configured API key. Local servers accept any token.
func token(config *ai.Config) string {
	if config.APIKey == "" {
		return "none"
	}
	return config.APIKey
}

func newEmbedder(config *ai.Config) (*Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.EmbeddingHost),
		openai.WithToken(token(config)),
		openai.WithEmbeddingModel(config.EmbeddingModel),
	)
	if err != nil {
		return nil, fmt.Errorf("embedding client for %s: %w", config.EmbeddingHost, err)
	}

	embedder, err := embeddings.NewEmbedder(client,
		embeddings.WithStripNewLines(true),
		embeddings.WithBatchSize(embedBatchSize),
	)
	if err != nil {
		return nil, err
	}

	return &Embedder{
		embedder: embedder,
		model:    config.EmbeddingModel,
		logger:   slog.Default().With("component", "openai-embedder", "model", config.EmbeddingModel),
	}, nil
}

// NewEmbedder creates an embedder from config.
func NewEmbedder(config *ai.Config) (ai.Embedder, error) {
	return newEmbedder(config)
}

// EmbedText embeds one property document or query.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedTexts embeds texts in order, one vector per text. Every vector must
// have the length of the first one this embedder ever returned.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	e.logger.Debug("generating embeddings", "count", len(texts))

	vectors, err := e.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		e.logger.Error("failed to generate embeddings", "count", len(texts), "err", err)
		return nil, fmt.Errorf("embed with %s: %w", e.model, err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("%w: %d embeddings for %d texts", ai.ErrEmptyResponse, len(vectors), len(texts))
	}
	if err := e.guard.Check(vectors); err != nil {
		return nil, fmt.Errorf("embed with %s: %w", e.model, err)
	}
	return vectors, nil
}
