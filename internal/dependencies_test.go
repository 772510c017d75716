package internal

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
)

func TestNewDependencies(t *testing.T) {
	ctx := context.Background()

	t.Run("file backend", func(t *testing.T) {
		cfg := &config{}
		cfg.Storage.Backend = "file"
		cfg.Storage.DataDir = t.TempDir()
		d, err := NewDependencies(ctx, cfg)
		require.NoError(t, err)
		defer d.Close()

		require.NoError(t, d.Documents().Put(ctx, "players", []byte("[]")))
		assert.NotNil(t, d.Cron())
	})

	t.Run("sqlite backend", func(t *testing.T) {
		cfg := &config{}
		cfg.Storage.Backend = "sqlite"
		cfg.Storage.SQLitePath = filepath.Join(t.TempDir(), "test.db")
		d, err := NewDependencies(ctx, cfg)
		require.NoError(t, err)
		defer d.Close()

		require.NoError(t, d.Documents().Put(ctx, "players", []byte("[]")))
		b, err := d.Documents().Get(ctx, "players")
		require.NoError(t, err)
		assert.Equal(t, "[]", string(b))
	})

	t.Run("redis backend", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cfg := &config{}
		cfg.Storage.Backend = "redis"
		cfg.Storage.RedisAddr = mr.Addr()
		cfg.Storage.RedisKeyPrefix = "test:"
		d, err := NewDependencies(ctx, cfg)
		require.NoError(t, err)
		defer d.Close()

		require.NoError(t, d.Documents().Put(ctx, "players", []byte("[]")))
		assert.True(t, mr.Exists("test:players"))
	})

	t.Run("postgres without dsn", func(t *testing.T) {
		cfg := &config{}
		cfg.Storage.Backend = "postgres"
		_, err := NewDependencies(ctx, cfg)
		assert.Error(t, err)
	})

	t.Run("unknown backend", func(t *testing.T) {
		cfg := &config{}
		cfg.Storage.Backend = "s3"
		_, err := NewDependencies(ctx, cfg)
		assert.Error(t, err)
	})
}

func TestNewGormStoreClosesOnMigrationFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "readonly.db")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	sqlDB, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	require.NoError(t, err)

	_, _, err = newGormStore(&sqlite.Dialector{Conn: sqlDB})
	require.Error(t, err)
	assert.ErrorContains(t, sqlDB.Ping(), "database is closed")
}
