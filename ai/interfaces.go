package ai

import (
	"context"

	"github.com/poiesic/propmatch/core"
)

// Embedder turns property documents and search queries into vectors.
// Every vector from one Embedder has the same length. Safe for concurrent use.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts returns one vector per text, in input order. Empty input
	// yields no vectors and no error.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Media is one inline attachment, such as a listing photo or walkthrough video.
type Media struct {
	MIMEType string // "image/jpeg", "video/mp4", ...
	Data     []byte
}

// ExtractionRequest carries one source of a property to an oracle. Text
// sources set Text; image and video sources set Media and may add a caption.
type ExtractionRequest struct {
	Kind  core.SourceKind
	Text  string
	Media []Media
}

// ExtractionOracle reads one source and answers with the property details
// it can see. The answer should be a JSON object but often is not, so
// callers normalize it rather than trust it.
type ExtractionOracle interface {
	// Extract returns ErrUnsupportedMedia when the backend cannot read
	// the request's media type.
	Extract(ctx context.Context, req ExtractionRequest) (string, error)
}

// AIProvider bundles the embedder and oracle of one backend.
type AIProvider interface {
	Embedder() Embedder
	Oracle() ExtractionOracle

	// Close releases backend clients. Neither service may be used after.
	Close() error
}
