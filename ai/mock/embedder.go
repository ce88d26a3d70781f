package mock

import (
	"context"
	"hash/fnv"
	"strings"
	"sync"
	"sync/atomic"
	"unicode"

	"github.com/poiesic/propmatch/ai"
)

// Dimensions of the vectors DeterministicVector produces by default.
const Dimensions = 384

// MockEmbedder is a test double for ai.Embedder. Texts sharing words get
// overlapping vectors, so similarity search over mock vectors behaves
// roughly like the real thing.
type MockEmbedder struct {
	// EmbedTextFunc replaces EmbedText when set.
	EmbedTextFunc func(ctx context.Context, text string) ([]float32, error)

	// EmbedTextsFunc replaces EmbedTexts when set.
	EmbedTextsFunc func(ctx context.Context, texts []string) ([][]float32, error)

	callCount atomic.Int64

	mu    sync.Mutex
	texts []string
}

// NewMockEmbedder creates a mock embedder producing DeterministicVector output.
func NewMockEmbedder() *MockEmbedder {
	return &MockEmbedder{}
}

// EmbedText embeds one text.
func (m *MockEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	m.record(text)
	if m.EmbedTextFunc != nil {
		return m.EmbedTextFunc(ctx, text)
	}
	return DeterministicVector(text, Dimensions), nil
}

// EmbedTexts embeds texts in order. One batch counts as one call.
func (m *MockEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	m.record(texts...)
	if m.EmbedTextsFunc != nil {
		return m.EmbedTextsFunc(ctx, texts)
	}
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = DeterministicVector(text, Dimensions)
	}
	return vectors, nil
}

func (m *MockEmbedder) record(texts ...string) {
	m.callCount.Add(1)
	m.mu.Lock()
	m.texts = append(m.texts, texts...)
	m.mu.Unlock()
}

// CallCount returns the number of EmbedText and EmbedTexts calls.
func (m *MockEmbedder) CallCount() int {
	return int(m.callCount.Load())
}

// Texts returns every text embedded so far, in call order.
func (m *MockEmbedder) Texts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.texts...)
}

// Reset clears recorded calls and custom functions.
func (m *MockEmbedder) Reset() {
	m.callCount.Store(0)
	m.mu.Lock()
	m.texts = nil
	m.mu.Unlock()
	m.EmbedTextFunc = nil
	m.EmbedTextsFunc = nil
}

// DeterministicVector builds a unit vector of length dim by hashing each
// lowercased word of text into a signed bucket. Equal texts give equal
// vectors and shared words raise the dot product. Text without words
// hashes as a whole so the result is never the zero vector.
func DeterministicVector(text string, dim int) []float32 {
	vector := make([]float32, dim)
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(words) == 0 {
		words = []string{text}
	}
	for _, w := range words {
		h := fnv.New64a()
		h.Write([]byte(w))
		sum := h.Sum64()
		weight := float32(1)
		if sum>>63 == 1 {
			weight = -1
		}
		vector[sum%uint64(dim)] += weight
	}
	return ai.NormalizeVector(vector)
}
