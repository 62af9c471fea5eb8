package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/umalmyha/customers/internal/config"
	"github.com/umalmyha/customers/internal/infra"
)

const defaultConnectTimeout = 5 * time.Second

func main() {
	cfg, err := config.BuildAPI()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := infra.Logger(cfg.LogCfg)
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultConnectTimeout)
	defer cancel()

	storage, releaseStorage, err := infra.Storage(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to storage")
	}
	defer releaseStorage()

	customerCache, releaseCache, err := infra.CustomerCache(ctx, cfg.RedisCfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to redis")
	}
	defer releaseCache()

	app, err := infra.APIRouter(storage, customerCache, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to build api")
	}

	logger.Infof("customers api is listening on port %d with %s storage", cfg.Port, cfg.StorageDriver)
	start(app, cfg.Port, cfg.ShutdownTimeout, logger)
}

func start(app *echo.Echo, port int, shutdownTimeout time.Duration, logger logrus.FieldLogger) {
	shutdownCh := make(chan os.Signal, 1)
	errorCh := make(chan error, 1)
	signal.Notify(shutdownCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		errorCh <- app.Start(fmt.Sprintf(":%d", port))
	}()

	select {
	case <-shutdownCh:
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		logger.Info("shutdown signal has been sent, stopping the server...")
		if err := app.Shutdown(ctx); err != nil {
			logger.WithError(err).Error("failed to stop server gracefully")
		}
	case err := <-errorCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("shutting down the server, unexpected error occurred")
		}
	}
}
