package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fieldnotes-dev/fieldnotes/backend/internal/setup"
	"github.com/fieldnotes-dev/fieldnotes/shared/config"
	"github.com/fieldnotes-dev/fieldnotes/shared/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configFolder := flag.String("config", "config", "folder with public.yaml and private.yaml")
	flag.Parse()

	cfg := config.MustLoad(*configFolder)
	logger.Initialize(cfg.Public.LogLevel, cfg.Public.LogJSON)

	app, err := setup.NewApp(cfg)
	if err != nil {
		logger.Log.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer app.Storage.Cleanup()

	server := &http.Server{
		Addr:         cfg.Public.Addr,
		Handler:      app.Handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Info("server listening", "addr", cfg.Public.Addr)
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("server failed", "error", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logger.Log.Info("shutting down", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Log.Error("graceful shutdown failed", "error", err)
		}
	}
}
