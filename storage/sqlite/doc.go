// Package sqlite stores property profiles, vectors and search history in a
// single SQLite file.
//
// The store uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. One Store implements both storage.PropertyRepository and
// storage.SearchLogRepository over one connection pool.
//
// # Schema
//
// The schema is managed through versioned migrations in the migrations/
// directory. Profiles are stored as MUS-encoded blobs and vectors as
// little-endian float32 blobs, the same encodings the badger store uses.
//
// # Thread Safety
//
// All operations are thread-safe. File databases run in WAL mode; the
// special path ":memory:" opens a private in-memory database on a single
// connection.
package sqlite
