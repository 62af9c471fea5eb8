package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBuildAPI(t *testing.T) {
	t.Log("defaults are used when nothing is set")
	{
		cfg, err := BuildAPI()
		require.NoError(t, err, "defaults must be valid")
		require.Equal(t, 3000, cfg.Port)
		require.Equal(t, DriverSqlite, cfg.StorageDriver)
		require.Equal(t, "customers.db", cfg.SqliteCfg.Path)
		require.Empty(t, cfg.RedisCfg.Addr, "cache must be disabled by default")
		require.Equal(t, 10*time.Minute, cfg.RedisCfg.TimeToLive)
		require.Equal(t, "info", cfg.LogCfg.Level)
	}

	t.Log("postgres driver requires credentials")
	{
		t.Setenv("STORAGE_DRIVER", DriverPostgres)
		_, err := BuildAPI()
		require.Error(t, err, "missing postgres credentials must be reported")

		t.Setenv("POSTGRES_USER", "customers")
		t.Setenv("POSTGRES_PASSWORD", "secret")
		t.Setenv("POSTGRES_DB", "customers")
		t.Setenv("POSTGRES_PORT", "5433")
		t.Setenv("REDIS_ADDR", "localhost:6379")
		t.Setenv("API_RATE_LIMIT_PER_MINUTE", "120")

		cfg, err := BuildAPI()
		require.NoError(t, err)
		require.Equal(t, 5433, cfg.PostgresCfg.Port)
		require.Equal(t, "localhost", cfg.PostgresCfg.Host)
		require.Equal(t, "localhost:6379", cfg.RedisCfg.Addr)
		require.Equal(t, 120, cfg.RateLimitPerMinute)
	}

	t.Log("unknown driver is rejected")
	{
		t.Setenv("STORAGE_DRIVER", "mongo")
		_, err := BuildAPI()
		require.Error(t, err)
	}
}

func TestBuildUI(t *testing.T) {
	t.Log("api base address is required")
	{
		_, err := BuildUI()
		require.Error(t, err)
	}

	t.Log("ui configuration is parsed")
	{
		t.Setenv("UI_API_BASE_ADDRESS", "http://localhost:3000")
		t.Setenv("UI_API_TIMEOUT", "2s")
		t.Setenv("LOG_FORMAT", "json")

		cfg, err := BuildUI()
		require.NoError(t, err)
		require.Equal(t, "http://localhost:3000", cfg.APIBaseAddress)
		require.Equal(t, 2*time.Second, cfg.APITimeout)
		require.Equal(t, 3001, cfg.Port)
		require.Equal(t, "json", cfg.LogCfg.Format)
	}
}
