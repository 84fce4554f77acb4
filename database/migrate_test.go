package database

import (
	"bytes"
	"database/sql"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func TestMigrate_LogsThroughSlog(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { SetLogger(slog.New(slog.DiscardHandler)) })

	db, err := sql.Open("sqlite", "file:"+filepath.Join(t.TempDir(), "migrate.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, Migrate(db, DialectSQLite))
	assert.Contains(t, buf.String(), "Migrations:")
	assert.Contains(t, buf.String(), "00001_onboarding.sql")

	version, err := Version(db, DialectSQLite)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)
}

func TestMigrate_UnknownDialect(t *testing.T) {
	err := Migrate(nil, Dialect("oracle"))
	assert.ErrorContains(t, err, "unsupported migration dialect")
}
