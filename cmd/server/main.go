package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/nextgen-hub/studenthub/internal"
	"github.com/nextgen-hub/studenthub/internal/api"
	"github.com/nextgen-hub/studenthub/internal/auth"
	"github.com/nextgen-hub/studenthub/internal/config"
	"github.com/nextgen-hub/studenthub/internal/notify"
	"github.com/nextgen-hub/studenthub/internal/storage"
)

func main() {
	cfg := config.Load()

	logger, err := internal.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(ctx, cfg, logger)
	stop()
	if err != nil {
		logger.Errorf("%v", err)
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}

// run serves until ctx is cancelled. The store is closed on every return path.
func run(ctx context.Context, cfg *config.Config, logger *internal.ZapLogger) error {
	store, err := storage.NewStore(ctx, cfg, logger)
	if err != nil {
		return errors.Wrap(err, "failed to init storage")
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Errorf("failed to close storage: %v", err)
		}
	}()

	if err := storage.LoadSeed(ctx, store, cfg.SeedFile, logger); err != nil {
		return errors.Wrap(err, "failed to load seed data")
	}

	provider, err := auth.NewProvider(cfg, logger)
	if err != nil {
		return errors.Wrap(err, "failed to init auth")
	}

	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	app := api.NewServer(cfg, logger, store, notify.NewHub())
	r := api.NewRouter(app, provider, api.AccessLogMiddleware(logger.Zap()), gin.Recovery())

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r}
	serveErr := make(chan error, 1)
	go func() {
		logger.Infof("server running on %s (storage=%s, auth=%s)", cfg.HTTPAddr, cfg.DBType, cfg.AuthMode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return errors.Wrap(err, "server stopped")
		}
	case <-ctx.Done():
	}
	logger.Infof("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("graceful shutdown failed: %v", err)
	}
	return nil
}
