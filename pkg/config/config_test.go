package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, StorageDriverMemory, cfg.App.StorageDriver)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, 24*time.Hour, cfg.Redis.IdempotencyTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.Receipt.TTL)
}

func TestLoad_LeeVariablesDeEntorno(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "Postgres")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("IDEMPOTENCY_TTL_MINUTES", "30")
	t.Setenv("DB_PASSWORD", "p@ss:word")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, StorageDriverPostgres, cfg.App.StorageDriver)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 30*time.Minute, cfg.Redis.IdempotencyTTL)
	assert.Contains(t, cfg.DB.DSN(), "p%40ss%3Aword")
}

func TestLoad_DriverInvalido(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "sqlite")

	_, err := Load()

	assert.Error(t, err)
}

func TestLoad_ProduccionExigeSecreto(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("STORAGE_DRIVER", "memory")

	_, err := Load()

	assert.Error(t, err)
}

func TestLoad_TiemposDeEsperaDeLaBase(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("DB_LOCK_TIMEOUT_MS", "1500")
	t.Setenv("DB_MAX_CONNS", "4")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, cfg.DB.LockTimeout)
	assert.Equal(t, 30*time.Second, cfg.DB.StatementTimeout)
	assert.Equal(t, int32(4), cfg.DB.MaxConns)
	assert.Equal(t, "cafe-ledger-api", cfg.DB.ApplicationName)
}

func TestLoad_RechazaPoolSinConexiones(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("DB_MAX_CONNS", "0")

	_, err := Load()

	assert.Error(t, err)
}
