package propmatch

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/propmatch/ai/mock"
	"github.com/poiesic/propmatch/config"
	"github.com/poiesic/propmatch/core"
	"github.com/poiesic/propmatch/registration"
	"github.com/poiesic/propmatch/storage"
)

const lakeview = `{
  "property_name": "Lakeview Residency",
  "property_type": "2BHK apartment",
  "location": "Koramangala, Bengaluru",
  "rent": "25000",
  "appliances": {"ac": 2, "fridge": 1},
  "amenities": ["covered parking", "power backup"]
}`

const hillside = `{
  "property_name": "Hillside Studio",
  "property_type": "1RK studio",
  "location": "Whitefield, Bengaluru",
  "rent": "12000",
  "appliances": {"geyser": 1}
}`

func testConfig(kind string) *config.Config {
	cfg := config.Default()
	cfg.AI.Backend = config.BackendMock
	cfg.Store.Kind = kind
	cfg.Store.InMemory = true
	cfg.Registration.PoolSize = 2
	return cfg
}

func openCatalog(t *testing.T, cfg *config.Config, opts ...Option) *Catalog {
	t.Helper()
	c, err := Open(context.Background(), cfg, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func register(t *testing.T, c *Catalog, listings ...string) []*core.PropertyProfile {
	t.Helper()
	r, err := c.NewRegistrar()
	require.NoError(t, err)
	defer r.Release()

	var out []*core.PropertyProfile
	for _, listing := range listings {
		p, err := r.Register(context.Background(), registration.Registration{
			Sources: []registration.SourceInput{{Kind: core.SourceKindText, Text: listing}},
		})
		require.NoError(t, err)
		out = append(out, p)
	}
	return out
}

func TestOpen_Validation(t *testing.T) {
	_, err := Open(context.Background(), nil)
	assert.Equal(t, ErrConfigRequired, err)

	cfg := testConfig(config.StoreBadger)
	cfg.Search.Results = 0
	_, err = Open(context.Background(), cfg)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestOpen_BadPath(t *testing.T) {
	cfg := testConfig(config.StoreBadger)
	cfg.Store.InMemory = false
	cfg.Store.Path = filepath.Join(t.TempDir(), "catalog.db")
	require.NoError(t, config.Save(cfg.Store.Path, cfg))

	c, err := Open(context.Background(), cfg)
	assert.Error(t, err, "a regular file is not a badger directory")
	assert.Nil(t, c)
}

func TestCatalog_Pipelines(t *testing.T) {
	for _, kind := range []string{config.StoreBadger, config.StoreSQLite} {
		t.Run(kind, func(t *testing.T) {
			ctx := context.Background()
			c := openCatalog(t, testConfig(kind))
			profiles := register(t, c, lakeview, hillside)

			stored, err := c.Properties().ListProperties(ctx)
			require.NoError(t, err)
			assert.Len(t, stored, 2)

			s, err := c.NewSearcher()
			require.NoError(t, err)
			outcome, err := s.Search(ctx, "2BHK with AC and parking under 30k", 5)
			require.NoError(t, err)
			require.True(t, outcome.Matched())
			assert.Equal(t, profiles[0].ID, outcome.Results[0].PropertyID)
			assert.Contains(t, outcome.Results[0].MatchedFeatures, "AC")

			history, err := c.History().RecentSearches(ctx, 10)
			require.NoError(t, err)
			require.Len(t, history, 1)
			assert.Equal(t, "2BHK with AC and parking under 30k", history[0].Query)

			ri, err := c.NewReindexer()
			require.NoError(t, err)
			n, err := ri.Run(ctx)
			require.NoError(t, err)
			assert.Equal(t, 2, n)
		})
	}
}

func TestCatalog_HistoryDisabled(t *testing.T) {
	cfg := testConfig(config.StoreBadger)
	cfg.Search.RecordHistory = false
	c := openCatalog(t, cfg)
	register(t, c, lakeview)

	s, err := c.NewSearcher()
	require.NoError(t, err)
	_, err = s.Search(context.Background(), "flat with AC", 3)
	require.NoError(t, err)

	history, err := c.History().RecentSearches(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestCatalog_PersistsAcrossOpens(t *testing.T) {
	cfg := testConfig(config.StoreSQLite)
	cfg.Store.InMemory = false
	cfg.Store.Path = filepath.Join(t.TempDir(), "catalog.sqlite")

	c, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	profiles := register(t, c, lakeview)
	require.NoError(t, c.Close())

	reopened := openCatalog(t, cfg)
	got, err := reopened.Properties().GetProperty(context.Background(), profiles[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Lakeview Residency", got.Name)

	_, err = reopened.Properties().GetProperty(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCatalog_CloseReleasesProvider(t *testing.T) {
	provider := mock.NewMockProvider()
	c, err := Open(context.Background(), testConfig(config.StoreBadger), WithProvider(provider))
	require.NoError(t, err)

	assert.Equal(t, config.StoreBadger, c.Config().Store.Kind)
	require.NoError(t, c.Close())
	assert.True(t, provider.Closed())
	assert.NoError(t, c.Close(), "second close is a no-op")
}
