package mock

import (
	"sync/atomic"

	"github.com/poiesic/propmatch/ai"
)

// MockProvider is a test double for ai.AIProvider.
type MockProvider struct {
	embedder *MockEmbedder
	oracle   *MockOracle
	closes   atomic.Int32
}

var _ ai.AIProvider = (*MockProvider)(nil)

// NewMockProvider creates a provider with a default embedder and oracle.
func NewMockProvider() *MockProvider {
	return NewMockProviderWithServices(nil, nil)
}

// NewMockProviderWithServices creates a provider around the given services.
// A nil service is replaced with a default one.
func NewMockProviderWithServices(embedder *MockEmbedder, oracle *MockOracle) *MockProvider {
	if embedder == nil {
		embedder = NewMockEmbedder()
	}
	if oracle == nil {
		oracle = NewMockOracle()
	}
	return &MockProvider{embedder: embedder, oracle: oracle}
}

func (p *MockProvider) Embedder() ai.Embedder {
	return p.embedder
}

func (p *MockProvider) Oracle() ai.ExtractionOracle {
	return p.oracle
}

// Close records the call. It never fails.
func (p *MockProvider) Close() error {
	p.closes.Add(1)
	return nil
}

// Closed reports whether Close was called at least once.
func (p *MockProvider) Closed() bool {
	return p.closes.Load() > 0
}

// CloseCount returns how many times Close was called.
func (p *MockProvider) CloseCount() int {
	return int(p.closes.Load())
}

// GetMockEmbedder returns the embedder as its concrete type.
func (p *MockProvider) GetMockEmbedder() *MockEmbedder {
	return p.embedder
}

// GetMockOracle returns the oracle as its concrete type.
func (p *MockProvider) GetMockOracle() *MockOracle {
	return p.oracle
}
