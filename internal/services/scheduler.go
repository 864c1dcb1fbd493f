package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/mlb-dfs-projections/internal/models"
)

const slateJobID = "slate_projection"

// SlateProjector is what the scheduler triggers
type SlateProjector interface {
	RunSlate(ctx context.Context, date time.Time, trigger string) (*models.ProjectionRun, error)
}

// JobInfo represents information about a scheduled job
type JobInfo struct {
	ID         string        `json:"id"`
	Schedule   string        `json:"schedule"`
	LastRun    time.Time     `json:"last_run"`
	NextRun    time.Time     `json:"next_run"`
	Status     string        `json:"status"`
	RunCount   int           `json:"run_count"`
	ErrorCount int           `json:"error_count"`
	LastError  string        `json:"last_error,omitempty"`
	LastRunID  string        `json:"last_run_id,omitempty"`
	Duration   time.Duration `json:"duration"`
}

// SchedulerService projects the current day's slate on a cron schedule
type SchedulerService struct {
	projector SlateProjector
	logger    *logrus.Logger
	cron      *cron.Cron
	location  *time.Location
	timeout   time.Duration
	now       func() time.Time

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.RWMutex
	job       JobInfo
	entryID   cron.EntryID
	isRunning bool
}

// NewSchedulerService creates a scheduler. Slate dates are taken in location, which is the
// league's home timezone in production.
func NewSchedulerService(projector SlateProjector, location *time.Location, timeout time.Duration, logger *logrus.Logger) *SchedulerService {
	if location == nil {
		location = time.UTC
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &SchedulerService{
		projector: projector,
		logger:    logger,
		cron:      cron.New(cron.WithLocation(location), cron.WithLogger(cron.VerbosePrintfLogger(logger))),
		location:  location,
		timeout:   timeout,
		now:       time.Now,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start schedules the slate job and starts the cron loop
func (s *SchedulerService) Start(schedule string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	entryID, err := s.cron.AddFunc(schedule, s.runSlate)
	if err != nil {
		return fmt.Errorf("failed to add job %s: %w", slateJobID, err)
	}
	s.entryID = entryID
	s.job = JobInfo{ID: slateJobID, Schedule: schedule, Status: "scheduled"}

	s.cron.Start()
	s.isRunning = true
	s.job.NextRun = s.cron.Entry(entryID).Next

	s.logger.WithFields(logrus.Fields{
		"component": "scheduler",
		"job_id":    slateJobID,
		"schedule":  schedule,
		"next_run":  s.job.NextRun,
	}).Info("Scheduled job added")
	return nil
}

// Stop cancels any in-flight run and waits for the cron loop to finish
func (s *SchedulerService) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	s.mu.Unlock()

	s.cancel()
	<-s.cron.Stop().Done()
	s.logger.WithField("component", "scheduler").Info("Scheduler stopped")
}

// Job returns a snapshot of the slate job
func (s *SchedulerService) Job() JobInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.job
}

func (s *SchedulerService) runSlate() {
	s.mu.Lock()
	s.job.Status = "running"
	s.job.LastRun = s.now()
	s.job.RunCount++
	runCount := s.job.RunCount
	s.mu.Unlock()

	date := s.now().In(s.location)
	log := s.logger.WithFields(logrus.Fields{
		"component":  "scheduler",
		"job_id":     slateJobID,
		"run_count":  runCount,
		"slate_date": date.Format(models.SlateDateFormat),
	})
	log.Info("Starting scheduled job")
	started := time.Now()

	var (
		run *models.ProjectionRun
		err error
	)
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		ctx := s.ctx
		if s.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.timeout)
			defer cancel()
		}
		run, err = s.projector.RunSlate(ctx, date, TriggerScheduler)
	}()

	duration := time.Since(started)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.job.Duration = duration
	if run != nil {
		s.job.LastRunID = run.ID.String()
	}
	if s.isRunning {
		s.job.NextRun = s.cron.Entry(s.entryID).Next
	}

	switch {
	case errors.Is(err, ErrRunInProgress):
		s.job.Status = "skipped"
		log.Info("Skipping scheduled run, another run is in progress")
	case err != nil:
		s.job.Status = "failed"
		s.job.ErrorCount++
		s.job.LastError = err.Error()
		log.WithError(err).WithField("duration", duration).Error("Scheduled job failed")
	default:
		s.job.Status = "completed"
		s.job.LastError = ""
		log.WithField("duration", duration).Info("Job completed successfully")
	}
}
