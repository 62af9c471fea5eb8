package infra

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/umalmyha/customers/internal/cache"
	"github.com/umalmyha/customers/internal/config"
	"github.com/umalmyha/customers/internal/repository"
)

// Storage connects to configured storage engine, returned func releases connections
func Storage(ctx context.Context, cfg config.APIConfig, logger logrus.FieldLogger) (APIStorage, func(), error) {
	rpsLogger := logger.WithField("component", "repository")

	if cfg.StorageDriver == config.DriverPostgres {
		pool, err := Postgresql(ctx, cfg.PostgresCfg)
		if err != nil {
			return APIStorage{}, nil, err
		}

		storage := APIStorage{
			Factory: repository.NewPostgresUnitOfWorkFactory(pool, rpsLogger),
			Ping:    pool.Ping,
		}
		return storage, pool.Close, nil
	}

	db, err := Sqlite(ctx, cfg.SqliteCfg)
	if err != nil {
		return APIStorage{}, nil, err
	}

	storage := APIStorage{
		Factory: repository.NewSqliteUnitOfWorkFactory(db, rpsLogger),
		Ping:    db.PingContext,
	}
	release := func() {
		if err := db.Close(); err != nil {
			logger.WithError(err).Error("failed to close sqlite database")
		}
	}
	return storage, release, nil
}

// CustomerCache connects to redis if it is configured, otherwise cache does nothing
func CustomerCache(ctx context.Context, cfg config.RedisCfg, logger logrus.FieldLogger) (cache.CustomerCache, func(), error) {
	if cfg.Addr == "" {
		logger.Info("redis address is not set, customers won't be cached")
		return cache.NewNopCustomerCache(), func() {}, nil
	}

	client, err := Redis(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	release := func() {
		if err := client.Close(); err != nil {
			logger.WithError(err).Error("failed to close connection to redis")
		}
	}
	return cache.NewRedisCustomerCache(client, cfg.TimeToLive), release, nil
}
