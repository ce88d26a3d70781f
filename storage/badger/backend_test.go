package badger

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/propmatch/storage"
)

func TestOpenBackend_InMemory(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
	assert.NoError(t, backend.Sync())
}

func TestOpenBackend_FileSystem(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "db")
	backend, err := OpenBackend(dir, false)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
	assert.DirExists(t, dir)
	assert.NoError(t, backend.Sync())
}

func TestOpenBackend_PathIsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	_, err := OpenBackend(file, false)
	assert.ErrorIs(t, err, storage.ErrInvalidPath)
	assert.Contains(t, err.Error(), "not a directory")

	_, err = OpenBackend(" ", false)
	assert.ErrorIs(t, err, storage.ErrInvalidPath)
}

func TestSlogAdapter(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	a := slogAdapter{logger: logger}

	a.Warningf("value log %d rotated\n", 3)
	a.Infof("chatty %s", "startup")
	a.Errorf("disk %s", "full")

	out := buf.String()
	assert.Contains(t, out, `level=WARN msg="value log 3 rotated"`)
	assert.Contains(t, out, `level=ERROR msg="disk full"`)
	assert.NotContains(t, out, "chatty", "badger info messages are demoted to debug")
}

func TestOpenBackend_WithLogger(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	backend, err := OpenBackend("", true, WithBackendLogger(logger), WithBackendLogger(nil))
	require.NoError(t, err)
	defer backend.Close()
	assert.Same(t, logger, backend.logger)
}

func TestBackendClose(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)

	require.NoError(t, backend.Close())
	assert.True(t, backend.IsClosed())

	err = backend.WithTx(func(*badger.Txn) error { return nil }, false)
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}

func TestFindSimilar_NoRecords(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	defer backend.Close()

	results, err := backend.FindSimilar(context.Background(), []float32{0.1, 0.2, 0.3}, 0.5, 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}
