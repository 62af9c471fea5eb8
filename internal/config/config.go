package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
)

// Supported storage drivers
const (
	DriverPostgres = "postgres"
	DriverSqlite   = "sqlite"
)

// LogCfg configures logger
type LogCfg struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"text"`
}

// SqliteCfg is configuration of sqlite storage
type SqliteCfg struct {
	Path string `env:"SQLITE_PATH" envDefault:"customers.db"`
}

// PostgresCfg is configuration of postgres storage
type PostgresCfg struct {
	User        string `env:"POSTGRES_USER"`
	Password    string `env:"POSTGRES_PASSWORD"`
	Host        string `env:"POSTGRES_HOST" envDefault:"localhost"`
	Database    string `env:"POSTGRES_DB"`
	SslMode     string `env:"POSTGRES_SLL_MODE" envDefault:"disable"`
	Port        int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PoolMaxConn int    `env:"POSTGRES_POOL_MAX_CONN" envDefault:"100"`
}

// RedisCfg is configuration of customers cache, empty address disables cache
type RedisCfg struct {
	Addr       string        `env:"REDIS_ADDR"`
	Password   string        `env:"REDIS_PASSWORD"`
	DB         int           `env:"REDIS_DB" envDefault:"0"`
	TimeToLive time.Duration `env:"REDIS_CUSTOMER_TIME_TO_LIVE" envDefault:"10m"`
}

// APIConfig is configuration of customers api
type APIConfig struct {
	Port               int           `env:"API_PORT" envDefault:"3000"`
	ShutdownTimeout    time.Duration `env:"API_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	StorageDriver      string        `env:"STORAGE_DRIVER" envDefault:"sqlite"`
	RateLimitPerMinute int           `env:"API_RATE_LIMIT_PER_MINUTE" envDefault:"0"`
	SqliteCfg          SqliteCfg
	PostgresCfg        PostgresCfg
	RedisCfg           RedisCfg
	LogCfg             LogCfg
}

// UIConfig is configuration of customers ui
type UIConfig struct {
	Port            int           `env:"UI_PORT" envDefault:"3001"`
	ShutdownTimeout time.Duration `env:"UI_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	APIBaseAddress  string        `env:"UI_API_BASE_ADDRESS,required"`
	APITimeout      time.Duration `env:"UI_API_TIMEOUT" envDefault:"5s"`
	DevMode         bool          `env:"UI_DEV_MODE" envDefault:"false"`
	LogCfg          LogCfg
}

// BuildAPI parses api configuration from environment
func BuildAPI() (APIConfig, error) {
	var cfg APIConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse environment variables - %w", err)
	}

	switch cfg.StorageDriver {
	case DriverPostgres:
		if cfg.PostgresCfg.User == "" || cfg.PostgresCfg.Database == "" {
			return cfg, fmt.Errorf("POSTGRES_USER and POSTGRES_DB must be set for %s driver", DriverPostgres)
		}
	case DriverSqlite:
	default:
		return cfg, fmt.Errorf("unsupported storage driver %s", cfg.StorageDriver)
	}

	return cfg, nil
}

// BuildUI parses ui configuration from environment
func BuildUI() (UIConfig, error) {
	var cfg UIConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse environment variables - %w", err)
	}
	return cfg, nil
}
