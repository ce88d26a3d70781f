package mock

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/poiesic/propmatch/ai"
)

// MockOracle is a test double for ai.ExtractionOracle.
// It allows custom behavior injection via function fields and is safe for
// concurrent use, since registration fans sources out to a worker pool.
type MockOracle struct {
	// ExtractFunc is called by Extract if set.
	// If nil, a request whose text is a JSON object is echoed back unchanged
	// and any other request yields {"summary": <text>}.
	ExtractFunc func(ctx context.Context, req ai.ExtractionRequest) (string, error)

	callCount atomic.Int64

	mu       sync.Mutex
	requests []ai.ExtractionRequest
}

// NewMockOracle creates a mock oracle with default echo behavior.
// Note: Returns concrete type to allow test assertions via GetMockOracle().
func NewMockOracle() *MockOracle {
	return &MockOracle{}
}

// Extract records the request and returns the configured response.
func (m *MockOracle) Extract(ctx context.Context, req ai.ExtractionRequest) (string, error) {
	m.callCount.Add(1)
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.ExtractFunc != nil {
		return m.ExtractFunc(ctx, req)
	}

	text := strings.TrimSpace(req.Text)
	if strings.HasPrefix(text, "{") {
		return text, nil
	}
	out, err := json.Marshal(map[string]string{"summary": text})
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// CallCount returns the number of times Extract was called.
func (m *MockOracle) CallCount() int {
	return int(m.callCount.Load())
}

// Requests returns a copy of every request received, in arrival order.
func (m *MockOracle) Requests() []ai.ExtractionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ai.ExtractionRequest(nil), m.requests...)
}

// Reset clears the call count, recorded requests and custom functions.
func (m *MockOracle) Reset() {
	m.callCount.Store(0)
	m.mu.Lock()
	m.requests = nil
	m.mu.Unlock()
	m.ExtractFunc = nil
}
