package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"exclusioncheck/database"
	"exclusioncheck/internal/config"
	"exclusioncheck/internal/monitoring"
	"exclusioncheck/matching"
	"exclusioncheck/screening"
	"exclusioncheck/server/handlers"
	"exclusioncheck/server/middleware"
)

// Server is the exclusion screening HTTP API.
type Server struct {
	config     *config.Config
	cache      *database.ReferenceCache
	registry   *prometheus.Registry
	metrics    *monitoring.Metrics
	router     *gin.Engine
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer wires the reference cache, runner, metrics and routes from cfg.
// It creates the data directories when missing.
func NewServer(cfg *config.Config) (*Server, error) {
	for _, dir := range []string{cfg.RunsDir, cfg.ClientsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	cache, err := database.NewReferenceCache(cfg.ReferenceCacheDir, database.WithBatchSize(cfg.SAMBatchSize))
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	s := &Server{
		config:   cfg,
		cache:    cache,
		registry: registry,
		metrics:  monitoring.New(registry),
		logger:   slog.Default().With("component", "server"),
	}
	s.router = s.buildRouter()
	s.httpServer = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           s.router,
		ReadHeaderTimeout: 15 * time.Second,
		// Snapshot builds over full extracts take minutes.
		WriteTimeout: 30 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}
	return s, nil
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) buildRouter() *gin.Engine {
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.GinRequestIDMiddleware())
	router.Use(middleware.GinLoggerMiddleware(s.logger))
	router.Use(middleware.GinRecoveryMiddleware())
	router.Use(middleware.GinGzipMiddleware())
	router.Use(middleware.GinErrorHandler())

	checker := monitoring.NewHealthChecker(matching.EngineVersion)
	checker.RegisterComponent("reference_cache", monitoring.DirectoryCheck("reference_cache", s.cache.Dir()))
	checker.RegisterComponent("runs", monitoring.DirectoryCheck("runs", s.config.RunsDir))
	checker.RegisterComponent("clients", monitoring.DirectoryCheck("clients", s.config.ClientsDir))

	runner := screening.NewRunner(s.cache, s.config.RunsDir,
		screening.WithMatchRecorder(s.metrics),
		screening.WithRunObserver(s.metrics))

	health := handlers.NewHealthHandler(checker)
	snapshots := handlers.NewSnapshotHandler(s.cache, s.metrics)
	screenings := handlers.NewScreeningHandler(runner, s.config.ClientsDir)
	match := handlers.NewMatchHandler(s.cache, s.metrics)

	router.GET("/health", health.HandleHealthGin)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))
	handlers.RegisterSwaggerRoutes(router)

	api := router.Group("/api")
	api.Use(middleware.GinRateLimitMiddleware(middleware.NewRateLimiter(s.config.RateLimitPerSec, s.config.RateLimitBurst)))
	{
		api.GET("/snapshots", snapshots.HandleListSnapshotsGin)
		api.GET("/snapshots/:month", snapshots.HandleSnapshotInfoGin)
		api.POST("/snapshots", snapshots.HandleBuildSnapshotGin)

		api.POST("/screenings", screenings.HandleRunScreeningGin)

		api.POST("/match/person", match.HandleMatchPersonGin)
		api.POST("/match/entity", match.HandleMatchEntityGin)
	}

	return router
}

// Start serves until Shutdown is called. It returns nil after a clean
// shutdown.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr, "data_dir", s.config.DataDir)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server on %s: %w", s.httpServer.Addr, err)
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones until ctx
// expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
