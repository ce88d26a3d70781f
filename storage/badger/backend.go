package badger

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"

	"github.com/poiesic/propmatch/ai"
	"github.com/poiesic/propmatch/storage"
)

// sequenceBandwidth is how many search log sequence numbers are leased at once.
const sequenceBandwidth = 100

// Backend owns the BadgerDB instance shared by the property and search log
// repositories. Profiles, vectors and log entries live in separate key spaces.
type Backend struct {
	db       *badger.DB
	inMemory bool
	logger   *slog.Logger
}

// BackendOption configures OpenBackend.
type BackendOption func(*Backend)

// WithBackendLogger sets the logger badger's own messages are routed to.
func WithBackendLogger(logger *slog.Logger) BackendOption {
	return func(b *Backend) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// slogAdapter routes badger's printf-style logging into slog.
type slogAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = slogAdapter{}

func (a slogAdapter) log(level slog.Level, format string, args ...any) {
	a.logger.Log(context.Background(), level, strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (a slogAdapter) Errorf(format string, args ...any) { a.log(slog.LevelError, format, args...) }
func (a slogAdapter) Warningf(format string, args ...any) { a.log(slog.LevelWarn, format, args...) }
func (a slogAdapter) Infof(format string, args ...any) { a.log(slog.LevelDebug, format, args...) }
func (a slogAdapter) Debugf(format string, args ...any) { a.log(slog.LevelDebug, format, args...) }

// OpenBackend opens the property store in directory dir, creating it when
// missing. With inMemory set dir is ignored and nothing touches the disk.
func OpenBackend(dir string, inMemory bool, opts ...BackendOption) (*Backend, error) {
	b := &Backend{
		inMemory: inMemory,
		logger:   slog.Default().With("component", "badger"),
	}
	for _, opt := range opts {
		opt(b)
	}

	badgerOpts := badger.DefaultOptions("").WithInMemory(true)
	if !inMemory {
		if strings.TrimSpace(dir) == "" {
			return nil, fmt.Errorf("%w: empty badger directory", storage.ErrInvalidPath)
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: %w", storage.ErrInvalidPath, err)
		}
		badgerOpts = badger.DefaultOptions(dir)
	}
	badgerOpts = badgerOpts.
		WithLogger(slogAdapter{logger: b.logger}).
		WithCompression(options.None)

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", dir, err)
	}
	b.db = db
	return b, nil
}

// Close closes the BadgerDB database.
func (b *Backend) Close() error {
	return b.db.Close()
}

// IsClosed returns true if the database is closed.
func (b *Backend) IsClosed() bool {
	return b.db.IsClosed()
}

// Sync flushes written data to disk. It is a no-op for in-memory databases.
func (b *Backend) Sync() error {
	if b.inMemory {
		return nil
	}
	if b.db.IsClosed() {
		return storage.ErrStorageClosed
	}
	return b.db.Sync()
}

// WithTx executes a function within a BadgerDB transaction.
// If isWrite is true, creates a read-write transaction.
// The transaction is automatically discarded if fn returns an error.
func (b *Backend) WithTx(fn func(tx *badger.Txn) error, isWrite bool) error {
	if b.db.IsClosed() {
		return storage.ErrStorageClosed
	}
	tx := b.db.NewTransaction(isWrite)
	defer tx.Discard()
	return fn(tx)
}

// GetSequence returns a BadgerDB sequence for generating sequential IDs.
func (b *Backend) GetSequence(name string) (*badger.Sequence, error) {
	return b.db.GetSequence([]byte(name), sequenceBandwidth)
}

// FindSimilar scans every stored property vector and returns the profiles
// whose dot product with vector is at least minSimilarity, highest first.
// Ties are broken by property ID. A limit of zero or less returns all hits.
func (b *Backend) FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*storage.SimilarityHit, error) {
	var results []*storage.SimilarityHit

	err := b.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = vectorSpace.prefix()
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := iter.Item()

			var stored []float32
			err := item.Value(func(val []byte) error {
				var err error
				stored, err = storage.UnmarshalVector(val)
				return err
			})
			if err != nil {
				return err
			}
			if len(stored) == 0 {
				continue
			}

			similarity := ai.Dot(vector, stored)
			if similarity < minSimilarity {
				continue
			}

			id := vectorSpace.id(item.Key())
			profile, err := readProperty(tx, propertySpace.key(id))
			if err != nil {
				return err
			}
			if profile == nil {
				b.logger.Warn("vector without property", "id", id)
				continue
			}
			results = append(results, &storage.SimilarityHit{Profile: profile, Similarity: similarity})
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(results, func(a, b *storage.SimilarityHit) int {
		if c := cmp.Compare(b.Similarity, a.Similarity); c != 0 {
			return c
		}
		return cmp.Compare(a.Profile.ID, b.Profile.ID)
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}
