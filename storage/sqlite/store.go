package sqlite

import (
	"cmp"
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/poiesic/propmatch/ai"
	"github.com/poiesic/propmatch/core"
	"github.com/poiesic/propmatch/storage"
	"github.com/poiesic/propmatch/storage/sqlite/migrations"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Store is a SQLite-backed property and search history store.
type Store struct {
	db        *sql.DB
	path      string
	logger    *slog.Logger
	closeOnce sync.Once
	closeErr  error
}

var (
	_ storage.PropertyRepository  = (*Store)(nil)
	_ storage.SearchLogRepository = (*Store)(nil)
)

// Open opens or creates the database file at path and applies pending
// migrations. Parent directories are created as needed.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty database path", storage.ErrInvalidPath)
	}

	dsn := MemoryPath
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		// WAL mode for concurrent readers
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if path == MemoryPath {
		// every connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}

	s := &Store{
		db:     db,
		path:   path,
		logger: slog.Default().With("component", "sqlite", "path", path),
	}
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection. Further calls return the first result.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.db.Close()
	})
	return s.closeErr
}

// Path returns the database path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at INTEGER NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	slices.Sort(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)",
			version, time.Now().UTC().UnixMicro()); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
		s.logger.Debug("applied migration", "name", name)
	}
	return nil
}

// ==================== Property Repository ====================

// SaveProperty writes profile, replacing any stored record with the same ID.
func (s *Store) SaveProperty(ctx context.Context, profile *core.PropertyProfile, vector []float32) (*core.PropertyProfile, error) {
	saved := *profile
	if saved.ID == "" {
		saved.ID = core.NewPropertyID()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Truncate(time.Microsecond)
	var createdMicros int64
	err = tx.QueryRowContext(ctx, "SELECT created_at FROM properties WHERE property_id = ?", string(saved.ID)).Scan(&createdMicros)
	switch {
	case err == nil && createdMicros != 0:
		saved.CreatedAt = time.UnixMicro(createdMicros).UTC()
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("reading property: %w", err)
	case saved.CreatedAt.IsZero():
		saved.CreatedAt = now
	}
	saved.UpdatedAt = now

	var embedding any
	if vector != nil {
		embedding = storage.MarshalVector(vector)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO properties (property_id, profile, embedding, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(property_id) DO UPDATE SET
			profile = excluded.profile,
			embedding = COALESCE(excluded.embedding, properties.embedding),
			created_at = excluded.created_at,
			updated_at = excluded.updated_at
	`, string(saved.ID), storage.MarshalProperty(&saved), embedding,
		saved.CreatedAt.UnixMicro(), saved.UpdatedAt.UnixMicro())
	if err != nil {
		return nil, fmt.Errorf("saving property: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing property: %w", err)
	}
	return &saved, nil
}

// GetProperty retrieves a single profile by ID.
func (s *Store) GetProperty(ctx context.Context, id core.PropertyID) (*core.PropertyProfile, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx, "SELECT profile FROM properties WHERE property_id = ?", string(id)).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading property: %w", err)
	}
	return storage.UnmarshalProperty(blob)
}

// GetProperties retrieves multiple profiles by ID, skipping missing ones.
func (s *Store) GetProperties(ctx context.Context, ids ...core.PropertyID) ([]*core.PropertyProfile, error) {
	var result []*core.PropertyProfile
	for _, id := range ids {
		profile, err := s.GetProperty(ctx, id)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		result = append(result, profile)
	}
	return result, nil
}

// ListProperties returns every stored profile ordered by ID.
func (s *Store) ListProperties(ctx context.Context) ([]*core.PropertyProfile, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT profile FROM properties ORDER BY property_id")
	if err != nil {
		return nil, fmt.Errorf("listing properties: %w", err)
	}
	defer rows.Close()

	var result []*core.PropertyProfile
	for rows.Next() {
		var blob []byte
		if err := rows.Scan(&blob); err != nil {
			return nil, fmt.Errorf("scanning property: %w", err)
		}
		profile, err := storage.UnmarshalProperty(blob)
		if err != nil {
			return nil, err
		}
		result = append(result, profile)
	}
	return result, rows.Err()
}

// DeleteProperty removes a profile and its vector.
func (s *Store) DeleteProperty(ctx context.Context, id core.PropertyID) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM properties WHERE property_id = ?", string(id))
	if err != nil {
		return fmt.Errorf("deleting property: %w", err)
	}
	return requireAffected(res)
}

// UpdateVector replaces the vector of an existing profile.
func (s *Store) UpdateVector(ctx context.Context, id core.PropertyID, vector []float32) error {
	res, err := s.db.ExecContext(ctx, "UPDATE properties SET embedding = ? WHERE property_id = ?",
		storage.MarshalVector(vector), string(id))
	if err != nil {
		return fmt.Errorf("updating vector: %w", err)
	}
	return requireAffected(res)
}

// FindSimilar scans every stored vector and returns the profiles whose dot
// product with vector is at least minSimilarity, highest first. Ties are
// broken by property ID. A limit of zero or less returns all hits.
func (s *Store) FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*storage.SimilarityHit, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT profile, embedding FROM properties WHERE embedding IS NOT NULL")
	if err != nil {
		return nil, fmt.Errorf("scanning vectors: %w", err)
	}
	defer rows.Close()

	var results []*storage.SimilarityHit
	for rows.Next() {
		var profileBlob, vectorBlob []byte
		if err := rows.Scan(&profileBlob, &vectorBlob); err != nil {
			return nil, fmt.Errorf("scanning vector: %w", err)
		}
		stored, err := storage.UnmarshalVector(vectorBlob)
		if err != nil {
			return nil, err
		}
		if len(stored) == 0 {
			continue
		}
		similarity := ai.Dot(vector, stored)
		if similarity < minSimilarity {
			continue
		}
		profile, err := storage.UnmarshalProperty(profileBlob)
		if err != nil {
			return nil, err
		}
		results = append(results, &storage.SimilarityHit{Profile: profile, Similarity: similarity})
	}
	if err := rows.Err(); err != nil {
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

// Flush checkpoints the write-ahead log into the database file.
func (s *Store) Flush(ctx context.Context) error {
	if s.path == MemoryPath {
		return nil
	}
	if _, err := s.db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return fmt.Errorf("checkpointing: %w", err)
	}
	return nil
}

// ==================== Search Log Repository ====================

// RecordSearch appends entry to the history.
func (s *Store) RecordSearch(ctx context.Context, entry core.SearchLogEntry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO search_history (query, results_count, no_match, searched_at) VALUES (?, ?, ?, ?)",
		entry.Query, entry.Results, entry.NoMatch, entry.Timestamp.UnixMicro())
	if err != nil {
		return fmt.Errorf("recording search: %w", err)
	}
	return nil
}

// RecentSearches returns up to limit entries, most recent first.
// A limit of zero or less returns every entry.
func (s *Store) RecentSearches(ctx context.Context, limit int) ([]core.SearchLogEntry, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT query, results_count, no_match, searched_at
		FROM search_history
		ORDER BY searched_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("reading search history: %w", err)
	}
	defer rows.Close()

	var result []core.SearchLogEntry
	for rows.Next() {
		var entry core.SearchLogEntry
		var micros int64
		if err := rows.Scan(&entry.Query, &entry.Results, &entry.NoMatch, &micros); err != nil {
			return nil, fmt.Errorf("scanning search history: %w", err)
		}
		entry.Timestamp = time.UnixMicro(micros).UTC()
		result = append(result, entry)
	}
	return result, rows.Err()
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}
