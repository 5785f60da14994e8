// @title Exclusion Screening API
// @version 1.0
// @description Builds monthly OIG/SAM reference snapshots and screens staff, board members and vendors against them.

// @BasePath /
// @schemes http https

package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"exclusioncheck/internal/config"
	"exclusioncheck/server"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	srv, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("failed to create server: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	slog.Info("exclusion screening server started",
		"port", cfg.Port,
		"reference_cache_dir", cfg.ReferenceCacheDir,
		"runs_dir", cfg.RunsDir,
		"clients_dir", cfg.ClientsDir)

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("server stopped: %v", err)
		}
		return
	case <-ctx.Done():
	}

	slog.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("graceful shutdown failed: %v", err)
	}
	if err := <-errCh; err != nil {
		log.Fatalf("server stopped: %v", err)
	}
	slog.Info("server stopped")
}
