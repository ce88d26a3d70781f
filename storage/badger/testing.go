package badger

import "errors"

// MemoryStore is an in-memory backend with both repositories opened on it.
// Tests use it in place of a directory-backed store.
type MemoryStore struct {
	Backend    *Backend
	Properties *PropertyRepository
	SearchLog  *SearchLogRepository
}

// NewMemoryStore opens an in-memory backend and its repositories.
func NewMemoryStore(opts ...BackendOption) (*MemoryStore, error) {
	backend, err := OpenBackend("", true, opts...)
	if err != nil {
		return nil, err
	}
	properties, err := NewPropertyRepository(backend)
	if err != nil {
		return nil, errors.Join(err, backend.Close())
	}
	searchLog, err := NewSearchLogRepository(backend)
	if err != nil {
		return nil, errors.Join(err, properties.Close(), backend.Close())
	}
	return &MemoryStore{Backend: backend, Properties: properties, SearchLog: searchLog}, nil
}

// Close releases the repositories, then the backend.
func (m *MemoryStore) Close() error {
	return errors.Join(m.SearchLog.Close(), m.Properties.Close(), m.Backend.Close())
}
