// Package mock provides in-memory stand-ins for the ai service interfaces.
//
// The embedder hashes words into fixed buckets, so listings and queries that
// share vocabulary score as similar. The oracle echoes JSON listing text
// back unchanged and wraps anything else as a summary. Both record their
// calls and accept function overrides:
//
//	provider := mock.NewMockProvider()
//	provider.GetMockOracle().ExtractFunc = func(ctx context.Context, req ai.ExtractionRequest) (string, error) {
//		return `{"amenities": ["parking"]}`, nil
//	}
package mock
