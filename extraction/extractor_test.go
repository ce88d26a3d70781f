package extraction

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/propmatch/ai"
	"github.com/poiesic/propmatch/ai/mock"
	"github.com/poiesic/propmatch/core"
	"github.com/poiesic/propmatch/resilience"
)

func quickPolicy() resilience.Policy {
	return resilience.Policy{MaxAttempts: 3, BaseDelay: time.Millisecond, Retryable: resilience.IsTransient}
}

func TestNewExtractor_RequiresOracle(t *testing.T) {
	_, err := NewExtractor(nil)
	assert.ErrorIs(t, err, ErrOracleRequired)

	_, err = NewExtractor(mock.NewMockOracle(), WithPolicy(resilience.Policy{}))
	assert.ErrorIs(t, err, resilience.ErrInvalidMaxAttempts)
}

func TestExtractor_Parsed(t *testing.T) {
	oracle := mock.NewMockOracle()
	oracle.ExtractFunc = func(_ context.Context, req ai.ExtractionRequest) (string, error) {
		return "```json\n{\"rooms\": [\"kitchen\"], \"appliances\": {\"ac\": 2}}\n```", nil
	}
	e, err := NewExtractor(oracle, WithPolicy(quickPolicy()))
	require.NoError(t, err)

	result, err := e.Extract(context.Background(), ai.ExtractionRequest{
		Kind:  core.SourceKindImage,
		Media: []ai.Media{{MIMEType: "image/jpeg", Data: []byte{0xff}}},
	})
	require.NoError(t, err)
	require.True(t, result.IsParsed())
	assert.Equal(t, core.SourceKindImage, result.Profile.Kind)
	assert.Equal(t, []string{"kitchen"}, result.Profile.Rooms)
	assert.Equal(t, map[string]int{"ac": 2}, result.Profile.Appliances)
}

func TestExtractor_UnreadableReplyIsNotAnError(t *testing.T) {
	oracle := mock.NewMockOracle()
	oracle.ExtractFunc = func(context.Context, ai.ExtractionRequest) (string, error) {
		return "I could not see any rooms.", nil
	}
	e, err := NewExtractor(oracle, WithPolicy(quickPolicy()))
	require.NoError(t, err)

	result, err := e.Extract(context.Background(), ai.ExtractionRequest{Kind: core.SourceKindText, Text: "listing"})
	require.NoError(t, err)
	assert.False(t, result.IsParsed())
	assert.Equal(t, "I could not see any rooms.", result.RawText)
}

func TestExtractor_RetriesTransientFailures(t *testing.T) {
	oracle := mock.NewMockOracle()
	oracle.ExtractFunc = func(context.Context, ai.ExtractionRequest) (string, error) {
		if oracle.CallCount() < 3 {
			return "", errors.New("429 RESOURCE_EXHAUSTED")
		}
		return `{"amenities": ["gym"]}`, nil
	}
	e, err := NewExtractor(oracle, WithPolicy(quickPolicy()))
	require.NoError(t, err)

	result, err := e.Extract(context.Background(), ai.ExtractionRequest{Kind: core.SourceKindText, Text: "listing"})
	require.NoError(t, err)
	require.True(t, result.IsParsed())
	assert.Equal(t, []string{"gym"}, result.Profile.Amenities)
	assert.Equal(t, 3, oracle.CallCount())
}

func TestExtractor_ExhaustedRetriesAreTerminal(t *testing.T) {
	oracle := mock.NewMockOracle()
	oracle.ExtractFunc = func(context.Context, ai.ExtractionRequest) (string, error) {
		return "", errors.New("503 UNAVAILABLE")
	}
	e, err := NewExtractor(oracle, WithPolicy(quickPolicy()))
	require.NoError(t, err)

	_, err = e.Extract(context.Background(), ai.ExtractionRequest{Kind: core.SourceKindText, Text: "listing"})
	require.Error(t, err)
	assert.ErrorIs(t, err, resilience.ErrRetriesExhausted)
	assert.Equal(t, 3, oracle.CallCount())
}

func TestExtractor_NonTransientFailureIsNotRetried(t *testing.T) {
	oracle := mock.NewMockOracle()
	oracle.ExtractFunc = func(context.Context, ai.ExtractionRequest) (string, error) {
		return "", ai.ErrUnsupportedMedia
	}
	e, err := NewExtractor(oracle, WithPolicy(quickPolicy()))
	require.NoError(t, err)

	_, err = e.Extract(context.Background(), ai.ExtractionRequest{
		Kind:  core.SourceKindVideo,
		Media: []ai.Media{{MIMEType: "video/mp4"}},
	})
	assert.ErrorIs(t, err, ai.ErrUnsupportedMedia)
	assert.Equal(t, 1, oracle.CallCount())
}

func TestExtractor_EmptySource(t *testing.T) {
	oracle := mock.NewMockOracle()
	e, err := NewExtractor(oracle)
	require.NoError(t, err)

	_, err = e.Extract(context.Background(), ai.ExtractionRequest{Kind: core.SourceKindText, Text: "  "})
	assert.ErrorIs(t, err, ErrEmptySource)
	assert.Zero(t, oracle.CallCount())
}
