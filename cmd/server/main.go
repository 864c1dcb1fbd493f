package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/mlb-dfs-projections/internal/api"
	"github.com/jstittsworth/mlb-dfs-projections/internal/app"
	"github.com/jstittsworth/mlb-dfs-projections/internal/metrics"
	"github.com/jstittsworth/mlb-dfs-projections/internal/models"
	"github.com/jstittsworth/mlb-dfs-projections/internal/services"
	"github.com/jstittsworth/mlb-dfs-projections/pkg/config"
	"github.com/jstittsworth/mlb-dfs-projections/pkg/database"
	"github.com/jstittsworth/mlb-dfs-projections/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Setup logging
	log := logger.InitLogger(cfg.LogLevel, cfg.IsDevelopment())
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	registry := metrics.NewRegistry()
	log.AddHook(registry.FallbackHook())

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	repo := models.NewProjectionRepository(db.DB)
	if err := repo.Migrate(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Connect to Redis
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redisClient, err := services.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	cacheService := services.NewCacheService(redisClient)

	// Initialize services
	engine, err := app.NewEngine(cfg, cacheService, registry, log)
	if err != nil {
		log.Fatalf("Failed to build projection engine: %v", err)
	}

	webSocketHub := services.NewWebSocketHub(log, registry.WebSocketClients)
	go webSocketHub.Run(ctx)

	projectionService := services.NewProjectionService(
		engine.Orchestrator, repo, cacheService, webSocketHub, engine.Mapper, registry, log, cfg.CacheTTLGame,
	)

	var scheduler *services.SchedulerService
	if cfg.EnableScheduler {
		scheduler = services.NewSchedulerService(projectionService, cfg.Location(), 30*time.Minute, log)
		if err := scheduler.Start(cfg.ProjectionSchedule); err != nil {
			log.Fatalf("Failed to start scheduler: %v", err)
		}
		defer scheduler.Stop()
	}

	router := api.NewRouter(api.Dependencies{
		DB:          db,
		Projections: projectionService,
		Breakers:    engine.Breakers,
		Scheduler:   scheduler,
		Hub:         webSocketHub,
		Metrics:     registry,
		Location:    cfg.Location(),
		CorsOrigins: cfg.CorsOrigins,
		Logger:      log,
	})

	// Log all registered routes
	for _, route := range router.Routes() {
		log.Debugf("%s %s", route.Method, route.Path)
	}

	srv := newHTTPServer(cfg.Port, router)

	go func() {
		logger.WithService("mlb-dfs-api").WithField("port", cfg.Port).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
}

// newHTTPServer builds the API server. Slate runs are synchronous, so the write timeout covers a full run.
func newHTTPServer(port string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%s", port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}
}
