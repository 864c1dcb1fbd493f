package models

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrRunNotFound is returned when no run matches
var ErrRunNotFound = errors.New("projection run not found")

const (
	defaultListLimit = 100
	maxListLimit     = 1000
	insertBatchSize  = 200
)

// ProjectionFilter narrows ListProjections
type ProjectionFilter struct {
	RunID uuid.UUID
	Role  string
	Team  string
	Limit int
}

// ProjectionRepository persists runs and their player projections
type ProjectionRepository struct {
	db *gorm.DB
}

func NewProjectionRepository(db *gorm.DB) *ProjectionRepository {
	return &ProjectionRepository{db: db}
}

// Migrate creates or updates the projection tables
func (r *ProjectionRepository) Migrate() error {
	if err := r.db.AutoMigrate(All()...); err != nil {
		return fmt.Errorf("failed to migrate projection tables: %w", err)
	}
	return nil
}

// StartRun records a run in the running state
func (r *ProjectionRepository) StartRun(ctx context.Context, run *ProjectionRun) error {
	run.Status = RunStatusRunning
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}
	if err := r.db.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

// CompleteRun stores the projections and marks the run completed in one transaction
func (r *ProjectionRepository) CompleteRun(ctx context.Context, run *ProjectionRun, projections []PlayerProjection) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range projections {
			projections[i].RunID = run.ID
		}
		if len(projections) > 0 {
			if err := tx.CreateInBatches(projections, insertBatchSize).Error; err != nil {
				return fmt.Errorf("failed to save projections: %w", err)
			}
		}

		run.Status = RunStatusCompleted
		err := tx.Model(run).Updates(map[string]interface{}{
			"status":             run.Status,
			"season":             run.Season,
			"games":              run.Games,
			"batters":            run.Batters,
			"pitchers":           run.Pitchers,
			"defaulted_batters":  run.DefaultedBatters,
			"defaulted_pitchers": run.DefaultedPitchers,
			"completed_at":       run.CompletedAt,
			"duration_ms":        run.DurationMs,
		}).Error
		if err != nil {
			return fmt.Errorf("failed to complete run: %w", err)
		}
		return nil
	})
}

// FailRun marks the run failed with the error's message
func (r *ProjectionRepository) FailRun(ctx context.Context, run *ProjectionRun, cause error) error {
	now := time.Now().UTC()
	run.Status = RunStatusFailed
	run.CompletedAt = &now
	run.DurationMs = now.Sub(run.StartedAt).Milliseconds()
	if cause != nil {
		run.Error = cause.Error()
	}
	err := r.db.WithContext(ctx).Model(run).Updates(map[string]interface{}{
		"status":       run.Status,
		"completed_at": run.CompletedAt,
		"duration_ms":  run.DurationMs,
		"error":        run.Error,
	}).Error
	if err != nil {
		return fmt.Errorf("failed to mark run failed: %w", err)
	}
	return nil
}

// GetRun loads a run without its projections
func (r *ProjectionRepository) GetRun(ctx context.Context, id uuid.UUID) (*ProjectionRun, error) {
	var run ProjectionRun
	err := r.db.WithContext(ctx).First(&run, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load run %s: %w", id, err)
	}
	return &run, nil
}

// LatestRun returns the most recent completed run for a slate date, or for any date when
// slateDate is empty
func (r *ProjectionRepository) LatestRun(ctx context.Context, slateDate string) (*ProjectionRun, error) {
	q := r.db.WithContext(ctx).Where("status = ?", RunStatusCompleted)
	if slateDate != "" {
		q = q.Where("slate_date = ?", slateDate)
	}

	var run ProjectionRun
	err := q.Order("started_at DESC").First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("latest run for %q: %w", slateDate, ErrRunNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load latest run: %w", err)
	}
	return &run, nil
}

// ListProjections returns a run's projections, best expected points first
func (r *ProjectionRepository) ListProjections(ctx context.Context, f ProjectionFilter) ([]PlayerProjection, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	q := r.db.WithContext(ctx).Where("run_id = ?", f.RunID)
	if f.Role != "" {
		q = q.Where("role = ?", strings.ToLower(f.Role))
	}
	if f.Team != "" {
		q = q.Where("team = ?", strings.ToUpper(f.Team))
	}

	var out []PlayerProjection
	if err := q.Order("expected DESC").Order("player_id").Limit(limit).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list projections: %w", err)
	}
	return out, nil
}

// RecentRuns lists the latest runs of any status
func (r *ProjectionRepository) RecentRuns(ctx context.Context, limit int) ([]ProjectionRun, error) {
	if limit <= 0 {
		limit = 20
	}
	var runs []ProjectionRun
	if err := r.db.WithContext(ctx).Order("started_at DESC").Limit(limit).Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// DropTables removes the projection tables, children first
func (r *ProjectionRepository) DropTables() error {
	if err := r.db.Migrator().DropTable(&PlayerProjection{}, &ProjectionRun{}); err != nil {
		return fmt.Errorf("failed to drop projection tables: %w", err)
	}
	return nil
}

// PruneRuns deletes runs started before cutoff together with their projections and
// returns how many runs were removed
func (r *ProjectionRepository) PruneRuns(ctx context.Context, cutoff time.Time) (int64, error) {
	var removed int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		old := tx.Model(&ProjectionRun{}).Select("id").Where("started_at < ?", cutoff)
		if err := tx.Where("run_id IN (?)", old).Delete(&PlayerProjection{}).Error; err != nil {
			return fmt.Errorf("failed to prune projections: %w", err)
		}
		res := tx.Where("started_at < ?", cutoff).Delete(&ProjectionRun{})
		if res.Error != nil {
			return fmt.Errorf("failed to prune runs: %w", res.Error)
		}
		removed = res.RowsAffected
		return nil
	})
	return removed, err
}
