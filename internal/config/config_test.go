package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("REDIS_ENABLED", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 10*time.Minute, cfg.Redis.TTL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("DB_SQLITE_PATH", "/tmp/lib.db")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_TTL", "30s")
	t.Setenv("DB_PORT", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "/tmp/lib.db", cfg.Database.SQLitePath)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 30*time.Second, cfg.Redis.TTL)
	assert.Equal(t, 5432, cfg.Database.Port, "invalid ints fall back to the default")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "ok", mutate: func(c *Config) {}},
		{name: "unknown driver", mutate: func(c *Config) { c.Database.Driver = "mysql" }, wantErr: "unsupported DB_DRIVER"},
		{name: "empty port", mutate: func(c *Config) { c.App.Port = "" }, wantErr: "APP_PORT"},
		{name: "production without password", mutate: func(c *Config) { c.App.Environment = "production" }, wantErr: "DB_PASSWORD"},
		{name: "production sqlite", mutate: func(c *Config) {
			c.App.Environment = "production"
			c.Database.Driver = DriverSQLite
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{
				App:      AppConfig{Environment: "development", Port: "8080"},
				Database: DatabaseConfig{Driver: DriverPostgres},
			}
			tc.mutate(cfg)

			err := cfg.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoadDatabaseConfig(t *testing.T) {
	t.Setenv("DB_RETRY_DELAY", "250ms")

	dbCfg, err := LoadDatabaseConfig(DatabaseConfig{Host: "db", Port: 6543, User: "lib", Database: "books"})
	require.NoError(t, err)

	assert.Equal(t, "db", dbCfg.Host)
	assert.Equal(t, 6543, dbCfg.Port)
	assert.Equal(t, int32(25), dbCfg.MaxConns)
	assert.Equal(t, 250*time.Millisecond, dbCfg.RetryDelay)

	t.Setenv("DB_CONNECT_TIMEOUT", "soon")
	_, err = LoadDatabaseConfig(DatabaseConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_CONNECT_TIMEOUT")
}
