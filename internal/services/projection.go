package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/mlb-dfs-projections/internal/metrics"
	"github.com/jstittsworth/mlb-dfs-projections/internal/models"
	"github.com/jstittsworth/mlb-dfs-projections/internal/projection/batch"
	"github.com/jstittsworth/mlb-dfs-projections/internal/providers/draftkings"
)

// ErrRunInProgress is returned when a slate run is requested while another is executing
var ErrRunInProgress = errors.New("a projection run is already in progress")

// Run triggers
const (
	TriggerAPI       = "api"
	TriggerScheduler = "scheduler"
	TriggerCLI       = "cli"
)

// MessageRunCompleted and MessageRunFailed are pushed on TopicRuns
const (
	MessageRunCompleted = "projection_run_completed"
	MessageRunFailed    = "projection_run_failed"
)

// SlateRunner projects a whole slate
type SlateRunner interface {
	Run(ctx context.Context, date time.Time) (*batch.Result, error)
}

// Cache is the subset of CacheService the projection service needs
type Cache interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
}

// Broadcaster pushes run notifications to subscribers
type Broadcaster interface {
	BroadcastToTopic(topic string, messageType string, data interface{}) error
}

// ProjectionService runs slates, persists every analysis and serves the stored results
type ProjectionService struct {
	runner   SlateRunner
	repo     *models.ProjectionRepository
	cache    Cache
	hub      Broadcaster
	mapper   *draftkings.Mapper
	metrics  *metrics.Registry
	logger   *logrus.Logger
	cacheTTL time.Duration

	mu sync.Mutex
}

// NewProjectionService wires a runner to storage. cache, hub, mapper and registry may be nil.
func NewProjectionService(
	runner SlateRunner,
	repo *models.ProjectionRepository,
	cache Cache,
	hub Broadcaster,
	mapper *draftkings.Mapper,
	registry *metrics.Registry,
	logger *logrus.Logger,
	cacheTTL time.Duration,
) *ProjectionService {
	return &ProjectionService{
		runner:   runner,
		repo:     repo,
		cache:    cache,
		hub:      hub,
		mapper:   mapper,
		metrics:  registry,
		logger:   logger,
		cacheTTL: cacheTTL,
	}
}

// RunSlate projects the date's slate and stores the result. Only one run executes at a time.
// The returned run is failed, not nil, when the slate itself could not be projected.
func (s *ProjectionService) RunSlate(ctx context.Context, date time.Time, trigger string) (*models.ProjectionRun, error) {
	if !s.mu.TryLock() {
		return nil, ErrRunInProgress
	}
	defer s.mu.Unlock()

	slate := date.Format(models.SlateDateFormat)
	run := &models.ProjectionRun{SlateDate: slate, Trigger: trigger}
	if err := s.repo.StartRun(ctx, run); err != nil {
		return nil, err
	}
	log := s.logger.WithFields(logrus.Fields{
		"slate_date": slate,
		"run_id":     run.ID.String(),
		"trigger":    trigger,
	})
	log.Info("Projection run started")

	if s.metrics != nil {
		s.metrics.ActiveRuns.Inc()
		defer s.metrics.ActiveRuns.Dec()
	}

	result, err := s.runner.Run(ctx, date)
	if err != nil {
		return run, s.fail(ctx, run, err, log.WithError(err), "Projection run failed")
	}

	rows, err := s.rows(run.ID, result)
	if err != nil {
		return run, s.fail(ctx, run, err, log.WithError(err), "Failed to encode projections")
	}

	completed := result.CompletedAt.UTC()
	run.Season = result.Season
	run.Games = len(result.Games)
	run.Batters = len(result.Batters)
	run.Pitchers = len(result.Pitchers)
	run.DefaultedBatters, run.DefaultedPitchers = result.Defaulted()
	run.CompletedAt = &completed
	run.DurationMs = result.Duration().Milliseconds()

	if err := s.repo.CompleteRun(ctx, run, rows); err != nil {
		return run, s.fail(ctx, run, err, log.WithError(err), "Failed to store projections")
	}

	if s.metrics != nil {
		s.metrics.ObserveResult(result)
	}
	s.observeRun(models.RunStatusCompleted)

	if s.cache != nil {
		if err := s.cache.Set(ctx, LatestProjectionsKey(slate), run, s.cacheTTL); err != nil {
			log.WithError(err).Warn("Failed to cache latest run")
		}
	}
	s.notify(MessageRunCompleted, run, log)

	log.WithFields(logrus.Fields{
		"games":              run.Games,
		"batters":            run.Batters,
		"pitchers":           run.Pitchers,
		"defaulted_batters":  run.DefaultedBatters,
		"defaulted_pitchers": run.DefaultedPitchers,
		"duration_ms":        run.DurationMs,
	}).Info("Projection run completed")
	return run, nil
}

// fail records cause on the run, counts it and tells subscribers, then returns cause
func (s *ProjectionService) fail(ctx context.Context, run *models.ProjectionRun, cause error, log *logrus.Entry, msg string) error {
	log.Error(msg)
	if err := s.repo.FailRun(context.WithoutCancel(ctx), run, cause); err != nil {
		log.WithField("record_error", err.Error()).Error("Failed to record run failure")
	}
	s.observeRun(models.RunStatusFailed)
	s.notify(MessageRunFailed, run, log)
	return cause
}

func (s *ProjectionService) rows(runID uuid.UUID, result *batch.Result) ([]models.PlayerProjection, error) {
	rows := make([]models.PlayerProjection, 0, len(result.Batters)+len(result.Pitchers))
	for _, b := range result.Batters {
		row, err := models.NewBatterProjection(runID, b)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	for _, p := range result.Pitchers {
		row, err := models.NewPitcherProjection(runID, p)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *ProjectionService) observeRun(status string) {
	if s.metrics != nil {
		s.metrics.ObserveRun(status)
	}
}

func (s *ProjectionService) notify(messageType string, run *models.ProjectionRun, log *logrus.Entry) {
	if s.hub == nil {
		return
	}
	if err := s.hub.BroadcastToTopic(TopicRuns, messageType, run); err != nil {
		log.WithError(err).Warn("Failed to broadcast run")
	}
}

// LatestRun returns the newest completed run for a slate date, reading through the cache
func (s *ProjectionService) LatestRun(ctx context.Context, slateDate string) (*models.ProjectionRun, error) {
	key := LatestProjectionsKey(slateDate)
	if s.cache != nil {
		var cached models.ProjectionRun
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		} else if !errors.Is(err, ErrCacheMiss) {
			s.logger.WithError(err).WithField("key", key).Warn("Cache read failed")
		}
	}

	run, err := s.repo.LatestRun(ctx, slateDate)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, run, s.cacheTTL); err != nil {
			s.logger.WithError(err).WithField("key", key).Warn("Cache write failed")
		}
	}
	return run, nil
}

// GetRun loads a run by ID
func (s *ProjectionService) GetRun(ctx context.Context, id uuid.UUID) (*models.ProjectionRun, error) {
	return s.repo.GetRun(ctx, id)
}

// RecentRuns lists runs of any status, newest first
func (s *ProjectionService) RecentRuns(ctx context.Context, limit int) ([]models.ProjectionRun, error) {
	return s.repo.RecentRuns(ctx, limit)
}

// Projections lists the projections of the filter's run
func (s *ProjectionService) Projections(ctx context.Context, f models.ProjectionFilter) ([]models.PlayerProjection, error) {
	return s.repo.ListProjections(ctx, f)
}

// SetSalaries replaces the salary file future runs link players against
func (s *ProjectionService) SetSalaries(salaries []draftkings.Salary) (int, error) {
	if s.mapper == nil {
		return 0, fmt.Errorf("salary mapping is not configured")
	}
	s.mapper.Load(salaries)
	s.logger.WithField("rows", s.mapper.Len()).Info("Salary file loaded")
	return s.mapper.Len(), nil
}
