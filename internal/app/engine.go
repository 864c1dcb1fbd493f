// Package app assembles the projection engine from configuration.
package app

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/mlb-dfs-projections/internal/dfs"
	"github.com/jstittsworth/mlb-dfs-projections/internal/metrics"
	"github.com/jstittsworth/mlb-dfs-projections/internal/projection/batch"
	"github.com/jstittsworth/mlb-dfs-projections/internal/providers"
	"github.com/jstittsworth/mlb-dfs-projections/internal/providers/ballparks"
	"github.com/jstittsworth/mlb-dfs-projections/internal/providers/draftkings"
	"github.com/jstittsworth/mlb-dfs-projections/internal/providers/mlbstats"
	"github.com/jstittsworth/mlb-dfs-projections/internal/providers/openweather"
	"github.com/jstittsworth/mlb-dfs-projections/internal/reference"
	"github.com/jstittsworth/mlb-dfs-projections/internal/services"
	"github.com/jstittsworth/mlb-dfs-projections/pkg/config"
)

const breakerTimeout = 30 * time.Second

// Engine is a fully wired orchestrator plus the pieces callers need to reach afterwards
type Engine struct {
	Orchestrator *batch.Orchestrator
	Mapper       *draftkings.Mapper
	Breakers     *services.CircuitBreakerService
	Teams        *reference.Registry
}

// NewEngine wires the MLB Stats API, ballpark table and OpenWeatherMap into an orchestrator.
// cache and registry may be nil. When cfg.SalariesFile is set it is loaded into the mapper.
func NewEngine(cfg *config.Config, cache dfs.CacheProvider, registry *metrics.Registry, logger *logrus.Logger) (*Engine, error) {
	teams := reference.NewRegistry()
	parks := ballparks.NewProvider()
	breakers := services.NewCircuitBreakerService(uint32(cfg.CircuitBreakerThreshold), breakerTimeout, logger)

	client := func(name string) *providers.Client {
		opts := []providers.Option{providers.WithBreaker(breakers.Breaker(name))}
		if registry != nil {
			opts = append(opts, providers.WithObserver(registry.ProviderRequest))
		}
		return providers.NewClient(providers.Config{
			Name:              name,
			Timeout:           cfg.ExternalAPITimeout,
			RequestsPerSecond: cfg.ProviderRateLimit,
		}, cache, logger, opts...)
	}

	mlb := mlbstats.NewClient(client(services.BreakerMLBStats), mlbstats.Config{
		BaseURL:     cfg.MLBAPIBaseURL,
		LiveBaseURL: cfg.MLBLiveBaseURL,
		StatsTTL:    cfg.CacheTTLStats,
		GameTTL:     cfg.CacheTTLGame,
	}, teams, logger)

	weather := openweather.NewProvider(mlb, client(services.BreakerOpenWeather), parks, openweather.Config{
		APIKey: cfg.OpenWeatherAPIKey,
	}, logger)

	mapper := draftkings.NewMapper(nil, teams)
	if cfg.SalariesFile != "" {
		salaries, err := draftkings.LoadFile(cfg.SalariesFile)
		if err != nil {
			return nil, fmt.Errorf("salaries: %w", err)
		}
		mapper.Load(salaries)
		logger.WithFields(logrus.Fields{
			"file": cfg.SalariesFile,
			"rows": mapper.Len(),
		}).Info("Salary file loaded")
	}

	orchestrator := batch.NewOrchestrator(mlb, mlb, parks, weather, teams, logger,
		batch.WithWorkers(cfg.ProjectionWorkers),
		batch.WithSiteMapper(mapper),
		batch.WithSeason(cfg.Season),
	)

	return &Engine{
		Orchestrator: orchestrator,
		Mapper:       mapper,
		Breakers:     breakers,
		Teams:        teams,
	}, nil
}
