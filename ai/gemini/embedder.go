package gemini

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	"github.com/poiesic/propmatch/ai"
)

// Embedder implements ai.Embedder with the Gemini embedding models.
type Embedder struct {
	client *genai.Client
	model  string
	guard  ai.DimensionGuard
	logger *slog.Logger
}

// EmbedText generates an embedding for a single text.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, ai.ErrEmptyResponse
	}
	return vectors[0], nil
}

// EmbedTexts generates embeddings for multiple texts in one request.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	e.logger.Debug("generating embeddings for texts", "count", len(texts), "model", e.model)

	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = genai.NewContentFromText(text, genai.RoleUser)
	}

	result, err := e.client.Models.EmbedContent(ctx, e.model, contents, nil)
	if err != nil {
		e.logger.Error("failed to generate embeddings", "count", len(texts), "err", err)
		return nil, fmt.Errorf("GenAI embed failed: %w", err)
	}
	if len(result.Embeddings) != len(texts) {
		return nil, fmt.Errorf("%w: %d embeddings for %d texts", ai.ErrEmptyResponse, len(result.Embeddings), len(texts))
	}

	vectors := make([][]float32, len(result.Embeddings))
	for i, emb := range result.Embeddings {
		vectors[i] = emb.Values
	}
	if err := e.guard.Check(vectors); err != nil {
		return nil, fmt.Errorf("embed with %s: %w", e.model, err)
	}
	return vectors, nil
}
