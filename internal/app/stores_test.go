package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/glowbook-server/database"
	"github.com/dtroode/glowbook-server/internal/config"
	"github.com/dtroode/glowbook-server/internal/model"
)

func TestOpenStores_SQLite(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{
		Database:     config.Database{Driver: config.DriverSQLite, Path: filepath.Join(t.TempDir(), "glowbook.db")},
		SessionStore: config.SessionStoreDatabase,
	}

	stores, err := OpenStores(ctx, cfg)
	require.NoError(t, err)
	defer stores.Close()

	assert.Equal(t, database.DialectSQLite, stores.Dialect)
	require.NoError(t, stores.Ping(ctx))

	version, err := database.Version(stores.DB, stores.Dialect)
	require.NoError(t, err)
	assert.Positive(t, version)

	_, err = stores.Accounts.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, model.ErrNotFound)
	_, err = stores.Sessions.GetByAccount(ctx, uuid.New())
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestOpenStores_UnknownDriver(t *testing.T) {
	_, err := OpenStores(context.Background(), &config.Config{Database: config.Database{Driver: "mysql"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown database driver")
}
