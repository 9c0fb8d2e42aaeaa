package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"BUTCE_APP_NAME":                os.Getenv("BUTCE_APP_NAME"),
		"BUTCE_APP_ENV":                 os.Getenv("BUTCE_APP_ENV"),
		"BUTCE_APP_PORT":                os.Getenv("BUTCE_APP_PORT"),
		"BUTCE_DATABASE_HOST":           os.Getenv("BUTCE_DATABASE_HOST"),
		"BUTCE_DATABASE_PASSWORD":       os.Getenv("BUTCE_DATABASE_PASSWORD"),
		"BUTCE_DATABASE_MAX_OPEN_CONNS": os.Getenv("BUTCE_DATABASE_MAX_OPEN_CONNS"),
		"BUTCE_DATABASE_MAX_IDLE_CONNS": os.Getenv("BUTCE_DATABASE_MAX_IDLE_CONNS"),
		"BUTCE_HTTP_BASE_PATH":          os.Getenv("BUTCE_HTTP_BASE_PATH"),
		"BUTCE_JWT_SECRET":              os.Getenv("BUTCE_JWT_SECRET"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "butce-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, "butce", cfg.Database.DBName)
		assert.Equal(t, "/api", cfg.HTTP.BasePath)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	})

	t.Run("loads values from environment variables with BUTCE prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("BUTCE_APP_PORT", "9000")
		os.Setenv("BUTCE_DATABASE_HOST", "testdb.local")
		os.Setenv("BUTCE_HTTP_BASE_PATH", "/butce/api")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, "/butce/api", cfg.HTTP.BasePath)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv()
		os.Setenv("BUTCE_DATABASE_MAX_OPEN_CONNS", "10")
		os.Setenv("BUTCE_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
	})

	t.Run("rejects base path without leading slash", func(t *testing.T) {
		clearEnv()
		os.Setenv("BUTCE_HTTP_BASE_PATH", "api")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "base_path")
	})

	t.Run("production requires a strong jwt secret", func(t *testing.T) {
		clearEnv()
		os.Setenv("BUTCE_APP_ENV", "production")
		os.Setenv("BUTCE_DATABASE_PASSWORD", "pass")
		os.Setenv("BUTCE_JWT_SECRET", "short")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret")
	})
}

func TestDatabaseDSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "db.local",
		Port:     5433,
		User:     "butce",
		Password: "p@ss/w:rd",
		DBName:   "butce",
		SSLMode:  "require",
	}
	dsn := d.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "db.local:5433")
	assert.Contains(t, dsn, "sslmode=require")
	// Special characters in the password survive URL escaping.
	assert.NotContains(t, dsn, "p@ss/w:rd@db.local")
}

func TestRedisAddr(t *testing.T) {
	r := RedisConfig{Host: "cache.local", Port: 6380}
	assert.Equal(t, "cache.local:6380", r.Addr())
}
