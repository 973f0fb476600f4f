package sqlite

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pragma[T any](t *testing.T, db *sql.DB, name string) T {
	t.Helper()
	var v T
	require.NoError(t, db.QueryRow("PRAGMA "+name).Scan(&v))
	return v
}

func TestOpen_AppliesConnectionPragmas(t *testing.T) {
	path := filepath.Join(t.TempDir(), "focusquest.db")
	s, err := Open(path, 1500*time.Millisecond)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	assert.Equal(t, "wal", pragma[string](t, s.sqlDB, "journal_mode"))
	assert.Equal(t, int64(1500), pragma[int64](t, s.sqlDB, "busy_timeout"))
	// NORMAL is 1.
	assert.Equal(t, int64(1), pragma[int64](t, s.sqlDB, "synchronous"))
}

func TestOpen_WALPersistsOnDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "focusquest.db")
	s, err := Open(path, time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	raw, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = raw.Close() })
	assert.Equal(t, "wal", pragma[string](t, raw, "journal_mode"))
}
