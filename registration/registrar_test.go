package registration

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/propmatch/ai"
	"github.com/poiesic/propmatch/ai/mock"
	"github.com/poiesic/propmatch/core"
	"github.com/poiesic/propmatch/resilience"
	"github.com/poiesic/propmatch/storage"
	"github.com/poiesic/propmatch/storage/badger"
)

type flushCounter struct {
	storage.PropertyRepository
	flushes atomic.Int32
}

func (f *flushCounter) Flush(ctx context.Context) error {
	f.flushes.Add(1)
	return f.PropertyRepository.Flush(ctx)
}

func quickPolicy() resilience.Policy {
	return resilience.Policy{MaxAttempts: 2, BaseDelay: time.Millisecond, Retryable: resilience.IsTransient}
}

func setup(t *testing.T, opts ...Option) (*Registrar, *badger.PropertyRepository, *mock.MockEmbedder, *mock.MockOracle) {
	t.Helper()
	mem, err := badger.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { mem.Close() })
	repo := mem.Properties

	embedder := mock.NewMockEmbedder()
	oracle := mock.NewMockOracle()
	provider := mock.NewMockProviderWithServices(embedder, oracle)

	r, err := NewRegistrar(provider, repo, append([]Option{WithPolicy(quickPolicy()), WithPoolSize(2)}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(r.Release)
	return r, repo, embedder, oracle
}

func text(s string) SourceInput {
	return SourceInput{Kind: core.SourceKindText, Text: s}
}

func TestNewRegistrar(t *testing.T) {
	mem, err := badger.NewMemoryStore()
	require.NoError(t, err)
	defer mem.Close()
	repo := mem.Properties
	provider := mock.NewMockProvider()

	t.Run("nil provider", func(t *testing.T) {
		_, err := NewRegistrar(nil, repo)
		assert.Equal(t, ErrAIProviderRequired, err)
	})

	t.Run("nil repository", func(t *testing.T) {
		_, err := NewRegistrar(provider, nil)
		assert.Equal(t, ErrRepositoryRequired, err)
	})

	t.Run("invalid policy", func(t *testing.T) {
		_, err := NewRegistrar(provider, repo, WithPolicy(resilience.Policy{}))
		assert.ErrorIs(t, err, resilience.ErrInvalidMaxAttempts)
	})

	t.Run("pool size floor", func(t *testing.T) {
		r, err := NewRegistrar(provider, repo, WithPoolSize(0))
		require.NoError(t, err)
		defer r.Release()
		assert.Equal(t, 1, r.pool.Cap())
	})
}

func TestRegister_MergesSourcesInOrder(t *testing.T) {
	r, repo, _, oracle := setup(t)
	ctx := context.Background()

	profile, err := r.Register(ctx, Registration{Sources: []SourceInput{
		text(`{"rooms": ["kitchen"], "appliances": {"ac": 2}, "layout": "open plan", "price": "20000"}`),
		text(`{"rooms": ["bedroom"], "appliances": {"ac": 1, "fridge": 1}, "layout": "closed", "price": "22000"}`),
	}})
	require.NoError(t, err)
	assert.Equal(t, 2, oracle.CallCount())

	assert.NotEmpty(t, profile.ID)
	assert.Equal(t, []string{"bedroom", "kitchen"}, profile.Rooms)
	assert.Equal(t, map[string]int{"ac": 1, "fridge": 1}, profile.Appliances)
	assert.Equal(t, "open plan", profile.Layout)
	assert.Equal(t, "22000", profile.Price)
	assert.Equal(t, 2, profile.SourceCount)
	assert.False(t, profile.CreatedAt.IsZero())

	stored, err := repo.GetProperty(ctx, profile.ID)
	require.NoError(t, err)
	assert.Equal(t, profile.Fingerprint, stored.Fingerprint)

	hits, err := repo.FindSimilar(ctx, mock.DeterministicVector(profile.Document(), mock.Dimensions), 0.99, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, profile.ID, hits[0].Profile.ID)
}

func TestRegister_UnparsedSourcesAreSkipped(t *testing.T) {
	r, _, _, oracle := setup(t)
	oracle.ExtractFunc = func(_ context.Context, req ai.ExtractionRequest) (string, error) {
		return req.Text, nil
	}

	profile, err := r.Register(context.Background(), Registration{Sources: []SourceInput{
		text("the oracle answered in prose"),
		text(`{"amenities": ["gym"]}`),
	}})
	require.NoError(t, err)
	assert.Equal(t, []string{"gym"}, profile.Amenities)
	assert.Equal(t, 1, profile.SourceCount)
}

func TestRegister_NothingExtracted(t *testing.T) {
	r, _, embedder, oracle := setup(t)
	oracle.ExtractFunc = func(context.Context, ai.ExtractionRequest) (string, error) {
		return "Sorry, I cannot describe this property.", nil
	}

	_, err := r.Register(context.Background(), Registration{Sources: []SourceInput{text("a"), text("b")}})
	assert.ErrorIs(t, err, ErrNothingExtracted)
	assert.Zero(t, embedder.CallCount())
}

func TestRegister_NoSources(t *testing.T) {
	r, _, _, _ := setup(t)
	_, err := r.Register(context.Background(), Registration{})
	assert.ErrorIs(t, err, ErrNoSources)
}

func TestRegister_OracleFailureIsTerminal(t *testing.T) {
	r, repo, _, oracle := setup(t)
	ctx := context.Background()
	oracle.ExtractFunc = func(_ context.Context, req ai.ExtractionRequest) (string, error) {
		if req.Kind == core.SourceKindVideo {
			return "", ai.ErrUnsupportedMedia
		}
		return `{"rooms": ["kitchen"]}`, nil
	}

	_, err := r.Register(ctx, Registration{Sources: []SourceInput{
		text("listing"),
		{Kind: core.SourceKindVideo, Media: []ai.Media{{MIMEType: "video/mp4", Data: []byte{0}}}},
	}})
	assert.ErrorIs(t, err, ai.ErrUnsupportedMedia)

	all, err := repo.ListProperties(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestRegister_ImageFiles(t *testing.T) {
	r, _, _, oracle := setup(t)
	dir := t.TempDir()
	kitchen := filepath.Join(dir, "kitchen.jpg")
	require.NoError(t, os.WriteFile(kitchen, []byte{0xff, 0xd8, 0xff}, 0o644))

	oracle.ExtractFunc = func(_ context.Context, req ai.ExtractionRequest) (string, error) {
		if len(req.Media) != 1 || req.Media[0].MIMEType != "image/jpeg" {
			return "unexpected request", nil
		}
		return `{"rooms": ["kitchen"], "appliances": {"chimney": 1}}`, nil
	}

	profile, err := r.Register(context.Background(), Registration{Sources: []SourceInput{
		{Kind: core.SourceKindImage, Paths: []string{kitchen}},
	}})
	require.NoError(t, err)
	assert.Equal(t, []string{"kitchen"}, profile.Rooms)
	assert.Equal(t, []byte{0xff, 0xd8, 0xff}, oracle.Requests()[0].Media[0].Data)
}

func TestRegister_TextFile(t *testing.T) {
	r, _, _, oracle := setup(t)
	path := filepath.Join(t.TempDir(), "listing.txt")
	require.NoError(t, os.WriteFile(path, []byte(`{"amenities": ["lift"]}`), 0o644))

	profile, err := r.Register(context.Background(), Registration{Sources: []SourceInput{
		{Kind: core.SourceKindText, Paths: []string{path}},
	}})
	require.NoError(t, err)
	assert.Equal(t, []string{"lift"}, profile.Amenities)
	assert.Empty(t, oracle.Requests()[0].Media)
}

func TestRegister_BadFiles(t *testing.T) {
	r, _, _, oracle := setup(t)
	dir := t.TempDir()
	notes := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(notes, []byte("hello"), 0o644))

	_, err := r.Register(context.Background(), Registration{Sources: []SourceInput{
		{Kind: core.SourceKindImage, Paths: []string{notes}},
	}})
	assert.ErrorIs(t, err, ErrUnsupportedFile)

	_, err = r.Register(context.Background(), Registration{Sources: []SourceInput{
		{Kind: core.SourceKindVideo, Paths: []string{filepath.Join(dir, "missing.mp4")}},
	}})
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = r.Register(context.Background(), Registration{Sources: []SourceInput{{Text: "no kind"}}})
	assert.ErrorIs(t, err, core.ErrInvalidSourceKind)
	assert.Zero(t, oracle.CallCount())
}

func TestRegister_ReRegistration(t *testing.T) {
	r, repo, embedder, _ := setup(t)
	ctx := context.Background()
	listing := `{"rooms": ["kitchen"], "contact": "Asha"}`

	first, err := r.Register(ctx, Registration{Sources: []SourceInput{text(listing)}})
	require.NoError(t, err)
	require.Equal(t, 1, embedder.CallCount())

	t.Run("unchanged content skips the save", func(t *testing.T) {
		again, err := r.Register(ctx, Registration{ID: first.ID, Sources: []SourceInput{text(listing)}})
		require.NoError(t, err)
		assert.Equal(t, 1, embedder.CallCount())
		assert.True(t, first.UpdatedAt.Equal(again.UpdatedAt))
	})

	t.Run("changed content replaces the profile", func(t *testing.T) {
		replaced, err := r.Register(ctx, Registration{ID: first.ID, Sources: []SourceInput{
			text(`{"rooms": ["bedroom"], "contact": "Ravi"}`),
		}})
		require.NoError(t, err)
		assert.Equal(t, 2, embedder.CallCount())
		assert.Equal(t, []string{"bedroom"}, replaced.Rooms, "full replace, not a union with the old sources")
		assert.Equal(t, "Ravi", replaced.Contact)
		assert.True(t, first.CreatedAt.Equal(replaced.CreatedAt))

		all, err := repo.ListProperties(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("unknown id registers under that id", func(t *testing.T) {
		p, err := r.Register(ctx, Registration{ID: "listing-42", Sources: []SourceInput{text(listing)}})
		require.NoError(t, err)
		assert.Equal(t, core.PropertyID("listing-42"), p.ID)
	})
}

func TestRegister_SyncWrites(t *testing.T) {
	mem, err := badger.NewMemoryStore()
	require.NoError(t, err)
	defer mem.Close()
	repo := mem.Properties

	counter := &flushCounter{PropertyRepository: repo}
	r, err := NewRegistrar(mock.NewMockProvider(), counter, WithSyncWrites(true), WithPolicy(quickPolicy()))
	require.NoError(t, err)
	defer r.Release()

	_, err = r.Register(context.Background(), Registration{Sources: []SourceInput{text(`{"rooms": ["kitchen"]}`)}})
	require.NoError(t, err)
	assert.Equal(t, int32(1), counter.flushes.Load())
}

func TestRegister_EmbedFailure(t *testing.T) {
	r, repo, embedder, _ := setup(t)
	ctx := context.Background()
	embedder.EmbedTextFunc = func(context.Context, string) ([]float32, error) {
		return nil, ai.ErrUnsupportedMedia
	}

	_, err := r.Register(ctx, Registration{Sources: []SourceInput{text(`{"rooms": ["kitchen"]}`)}})
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "embed property"))

	all, err := repo.ListProperties(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
