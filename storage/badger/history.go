package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/poiesic/propmatch/core"
	"github.com/poiesic/propmatch/storage"
)

// SearchLogRepository implements storage.SearchLogRepository for BadgerDB.
type SearchLogRepository struct {
	backend *Backend
	seq     *badger.Sequence
}

var _ storage.SearchLogRepository = (*SearchLogRepository)(nil)

// NewSearchLogRepository creates a new SearchLogRepository.
func NewSearchLogRepository(backend *Backend) (*SearchLogRepository, error) {
	if backend == nil {
		return nil, storage.ErrBackendRequired
	}
	seq, err := backend.GetSequence(searchLogSequence)
	if err != nil {
		return nil, err
	}
	return &SearchLogRepository{
		backend: backend,
		seq:     seq,
	}, nil
}

// Close releases the sequence.
func (r *SearchLogRepository) Close() error {
	return r.seq.Release()
}

// RecordSearch appends entry to the history.
func (r *SearchLogRepository) RecordSearch(ctx context.Context, entry core.SearchLogEntry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	n, err := r.seq.Next()
	if err != nil {
		return err
	}
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(searchKey(entry.Timestamp, n), storage.MarshalSearchLog(entry)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// RecentSearches returns up to limit entries, most recent first.
// A limit of zero or less returns every entry.
func (r *SearchLogRepository) RecentSearches(ctx context.Context, limit int) ([]core.SearchLogEntry, error) {
	var results []core.SearchLogEntry
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = searchSpace.prefix()
		iter := tx.NewIterator(opts)
		defer iter.Close()

		// reverse iteration must seek past the last key with the prefix
		seekKey := searchSeekEnd()
		for iter.Seek(seekKey); iter.Valid(); iter.Next() {
			if limit > 0 && len(results) >= limit {
				break
			}
			var entry core.SearchLogEntry
			err := iter.Item().Value(func(val []byte) error {
				var err error
				entry, err = storage.UnmarshalSearchLog(val)
				return err
			})
			if err != nil {
				return err
			}
			results = append(results, entry)
		}
		return nil
	}, false)
	return results, err
}
