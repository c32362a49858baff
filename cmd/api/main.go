package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"network-subsite-menu/internal/app"
	"network-subsite-menu/internal/config"
	"network-subsite-menu/pkg/logger"
	"network-subsite-menu/pkg/validator"
)

func main() {
	logger.Init()

	if err := run(); err != nil {
		logger.Error(err, "Network menu service stopped with an error", nil)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file loaded", map[string]interface{}{"reason": err.Error()})
	}

	cfg := config.New()
	logger.SetLevel(cfg.LogLevel)
	validator.Init()

	menuApp, err := app.New(cfg, app.Options{TemplatesDir: cfg.TemplatesDir})
	if err != nil {
		return fmt.Errorf("build application: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	listenErr := make(chan error, 1)
	go func() {
		listenErr <- menuApp.Run()
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("Signal received, draining menu requests", map[string]interface{}{
			"timeout": cfg.ShutdownTimeout().String(),
		})
	case err := <-listenErr:
		if !errors.Is(err, http.ErrServerClosed) {
			runErr = fmt.Errorf("listen on :%s: %w", cfg.Port, err)
		}
	}

	drainCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()

	if err := menuApp.Shutdown(drainCtx); err != nil {
		return errors.Join(runErr, fmt.Errorf("drain requests: %w", err))
	}

	if runErr == nil {
		logger.Info("Network menu service stopped", nil)
	}
	return runErr
}
