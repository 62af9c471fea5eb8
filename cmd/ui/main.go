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

	"github.com/umalmyha/customers/internal/config"
	"github.com/umalmyha/customers/internal/infra"
	"github.com/umalmyha/customers/internal/ui"
)

func main() {
	cfg, err := config.BuildUI()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := infra.Logger(cfg.LogCfg)
	if err != nil {
		log.Fatal(err)
	}

	client := ui.NewCustomerClient(cfg.APIBaseAddress, cfg.APITimeout)
	app, err := infra.UIRouter(client, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to build ui")
	}

	shutdownCh := make(chan os.Signal, 1)
	errorCh := make(chan error, 1)
	signal.Notify(shutdownCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		errorCh <- app.Start(fmt.Sprintf(":%d", cfg.Port))
	}()
	logger.Infof("customers ui is listening on port %d, api is %s", cfg.Port, cfg.APIBaseAddress)

	select {
	case <-shutdownCh:
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
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
