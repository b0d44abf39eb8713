// @title        Tic-Tac-Toe API
// @version      1.0
// @description  Placeholder statistics endpoints for the tic-tac-toe game page.
// @BasePath     /api
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/projecthelena/tictactoe/internal/api"
	"github.com/projecthelena/tictactoe/internal/config"
	"github.com/projecthelena/tictactoe/internal/logging"
	"github.com/projecthelena/tictactoe/internal/metrics"
	"github.com/projecthelena/tictactoe/internal/render"
	"github.com/projecthelena/tictactoe/internal/version"
	"github.com/projecthelena/tictactoe/web"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	logger.Info("starting tictactoe", "version", version.Get().Version, "debug", cfg.Debug)
	if cfg.Debug {
		logger.Warn("debug mode is enabled; do not use in production")
	}

	if err := cfg.PrepareDirs(); err != nil {
		return err
	}

	pages, err := render.New(web.Templates(cfg.TemplateDir), cfg.Debug)
	if err != nil {
		return fmt.Errorf("load page templates: %w", err)
	}

	store, err := api.NewSessionStore(cfg)
	if err != nil {
		return fmt.Errorf("session store: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := metrics.NewRegistry()
	router := api.NewRouter(ctx, cfg, pages, store, reg)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for interrupt signal or a listener failure
	select {
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server exiting")
	return nil
}
