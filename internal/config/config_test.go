package config

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/stretchr/testify/require"
)

func restore() {
	loadDotEnv = godotenv.Load
	process = envconfig.Process
}

func setRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/db")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("JWT_SECRET", "s")
}

func TestLoadDefaults(t *testing.T) {
	t.Cleanup(restore)
	loadDotEnv = func(...string) error { return os.ErrNotExist }
	setRequired(t)

	c, err := Load()
	require.NoError(t, err)
	require.Equal(t, "postgres://localhost/db", c.DatabaseURL)
	require.Equal(t, "localhost:6379", c.RedisAddr)
	require.Equal(t, 0, c.RedisDB)
	require.Equal(t, ":8080", c.HTTPAddr)
	require.Equal(t, 1, c.WorkerCount)
	require.Equal(t, 5*time.Minute, c.CacheTTL)
	require.Equal(t, []string{"http://localhost:3001"}, c.CORSOrigins)
	require.Equal(t, "info", c.LogLevel)
	require.Equal(t, "store-rating", c.ServiceName)
	require.False(t, c.MigrateReset)
	require.False(t, c.BootstrapAdmin())
}

func TestLoadOverrides(t *testing.T) {
	t.Cleanup(restore)
	loadDotEnv = func(...string) error { return nil }
	setRequired(t)
	t.Setenv("REDIS_DB", "2")
	t.Setenv("WORKER_COUNT", "4")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("CORS_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("ADMIN_EMAIL", "root@x.com")
	t.Setenv("ADMIN_PASSWORD", "pw")
	t.Setenv("MIGRATE_RESET", "true")

	c, err := Load()
	require.NoError(t, err)
	require.True(t, c.MigrateReset)
	require.Equal(t, 2, c.RedisDB)
	require.Equal(t, 4, c.WorkerCount)
	require.Equal(t, 30*time.Second, c.CacheTTL)
	require.Equal(t, []string{"http://a.test", "http://b.test"}, c.CORSOrigins)
	require.True(t, c.BootstrapAdmin())
}

func TestLoadErrors(t *testing.T) {
	t.Cleanup(restore)
	loadDotEnv = func(...string) error { return errors.New("bad .env") }

	// missing required
	t.Setenv("DATABASE_URL", "")
	os.Unsetenv("DATABASE_URL")
	t.Setenv("REDIS_ADDR", "r")
	t.Setenv("JWT_SECRET", "s")
	_, err := Load()
	require.Error(t, err)

	setRequired(t)
	t.Setenv("REDIS_DB", "bad")
	_, err = Load()
	require.Error(t, err)

	t.Setenv("REDIS_DB", "0")
	t.Setenv("WORKER_COUNT", "0")
	_, err = Load()
	require.Error(t, err)

	t.Setenv("WORKER_COUNT", "1")
	process = func(string, interface{}) error { return errors.New("process") }
	_, err = Load()
	require.Error(t, err)
}
