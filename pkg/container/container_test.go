package container

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weblibrary/internal/config"
	"weblibrary/internal/domains/book/model"
	"weblibrary/internal/infrastructure/database"
	"weblibrary/pkg/cache"
)

func sqliteConfig(t *testing.T) *config.Config {
	return &config.Config{
		App: config.AppConfig{Environment: "test", Port: "0"},
		Database: config.DatabaseConfig{
			Driver:     config.DriverSQLite,
			SQLitePath: filepath.Join(t.TempDir(), "container.db"),
		},
		Redis: config.RedisConfig{TTL: time.Minute},
	}
}

func TestNewContainerWithConfig_SQLite(t *testing.T) {
	c, err := NewContainerWithConfig(sqliteConfig(t))
	require.NoError(t, err)
	t.Cleanup(c.Cleanup)

	assert.Equal(t, database.DialectSQLite, c.Dialect)
	assert.Nil(t, c.Postgres)
	assert.IsType(t, cache.NoopCache{}, c.Cache)
	require.NotNil(t, c.BookHandler)

	ctx := context.Background()
	created, err := c.BookService.CreateBook(ctx, model.BookRequest{Title: "Dune", Author: "Herbert"})
	require.NoError(t, err)

	got, err := c.BookService.GetBook(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestHealth(t *testing.T) {
	c, err := NewContainerWithConfig(sqliteConfig(t))
	require.NoError(t, err)

	status, ok := c.Health(context.Background())
	assert.True(t, ok)
	assert.Equal(t, "up", status["database"])
	assert.Equal(t, "disabled", status["cache"])

	c.Cleanup()
	c.Cleanup()

	status, ok = c.Health(context.Background())
	assert.False(t, ok)
	assert.Equal(t, "degraded", status["status"])
}

func TestRedisUnreachableFallsBackToNoop(t *testing.T) {
	cfg := sqliteConfig(t)
	cfg.Redis.Enabled = true
	cfg.Redis.Host = "127.0.0.1:1"

	c, err := NewContainerWithConfig(cfg)
	require.NoError(t, err)
	t.Cleanup(c.Cleanup)

	assert.IsType(t, cache.NoopCache{}, c.Cache)
}

func TestNewContainerWithConfig_BadSQLitePath(t *testing.T) {
	cfg := sqliteConfig(t)
	cfg.Database.SQLitePath = filepath.Join(t.TempDir(), "missing", "dir", "x.db")

	_, err := NewContainerWithConfig(cfg)
	assert.Error(t, err)
}
