package badger

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/poiesic/propmatch/core"
	"github.com/poiesic/propmatch/storage"
)

// PropertyRepository implements storage.PropertyRepository for BadgerDB.
type PropertyRepository struct {
	backend *Backend
}

var _ storage.PropertyRepository = (*PropertyRepository)(nil)

// NewPropertyRepository creates a new PropertyRepository.
func NewPropertyRepository(backend *Backend) (*PropertyRepository, error) {
	if backend == nil {
		return nil, storage.ErrBackendRequired
	}
	return &PropertyRepository{
		backend: backend,
	}, nil
}

// Close releases resources. PropertyRepository has no resources to release.
func (r *PropertyRepository) Close() error {
	return nil
}

// FindSimilar delegates to the backend.
func (r *PropertyRepository) FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*storage.SimilarityHit, error) {
	return r.backend.FindSimilar(ctx, vector, minSimilarity, limit)
}

// Flush delegates to the backend.
func (r *PropertyRepository) Flush(ctx context.Context) error {
	return r.backend.Sync()
}

// SaveProperty writes profile, replacing any stored record with the same ID.
func (r *PropertyRepository) SaveProperty(ctx context.Context, profile *core.PropertyProfile, vector []float32) (*core.PropertyProfile, error) {
	saved := *profile
	if saved.ID == "" {
		saved.ID = core.NewPropertyID()
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := propertySpace.key(saved.ID)

		old, err := readProperty(tx, key)
		if err != nil {
			return err
		}
		now := time.Now().UTC().Truncate(time.Microsecond)
		switch {
		case old != nil && !old.CreatedAt.IsZero():
			saved.CreatedAt = old.CreatedAt
		case saved.CreatedAt.IsZero():
			saved.CreatedAt = now
		}
		saved.UpdatedAt = now

		if err := tx.Set(key, storage.MarshalProperty(&saved)); err != nil {
			return err
		}
		if vector != nil {
			if err := tx.Set(vectorSpace.key(saved.ID), storage.MarshalVector(vector)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// GetProperty retrieves a single profile by ID.
func (r *PropertyRepository) GetProperty(ctx context.Context, id core.PropertyID) (*core.PropertyProfile, error) {
	var result *core.PropertyProfile
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readProperty(tx, propertySpace.key(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetProperties retrieves multiple profiles by ID, skipping missing ones.
func (r *PropertyRepository) GetProperties(ctx context.Context, ids ...core.PropertyID) ([]*core.PropertyProfile, error) {
	var result []*core.PropertyProfile
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			profile, err := readProperty(tx, propertySpace.key(id))
			if err != nil {
				return err
			}
			if profile != nil {
				result = append(result, profile)
			}
		}
		return nil
	}, false)
	return result, err
}

// ListProperties returns every stored profile in key order.
func (r *PropertyRepository) ListProperties(ctx context.Context) ([]*core.PropertyProfile, error) {
	var results []*core.PropertyProfile
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = propertySpace.prefix()
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var profile *core.PropertyProfile
			err := iter.Item().Value(func(val []byte) error {
				var err error
				profile, err = storage.UnmarshalProperty(val)
				return err
			})
			if err != nil {
				return err
			}
			results = append(results, profile)
		}
		return nil
	}, false)
	return results, err
}

// DeleteProperty removes a profile and its vector.
func (r *PropertyRepository) DeleteProperty(ctx context.Context, id core.PropertyID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := propertySpace.key(id)
		if _, err := tx.Get(key); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		if err := tx.Delete(key); err != nil {
			return err
		}
		if err := tx.Delete(vectorSpace.key(id)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// UpdateVector replaces the vector of an existing profile.
func (r *PropertyRepository) UpdateVector(ctx context.Context, id core.PropertyID, vector []float32) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if _, err := tx.Get(propertySpace.key(id)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		if err := tx.Set(vectorSpace.key(id), storage.MarshalVector(vector)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// readProperty reads a profile from the transaction.
// Returns nil, nil if the key is absent.
func readProperty(tx *badger.Txn, key []byte) (*core.PropertyProfile, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var profile *core.PropertyProfile
	err = item.Value(func(val []byte) error {
		var err error
		profile, err = storage.UnmarshalProperty(val)
		return err
	})
	return profile, err
}
