package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/mlb-dfs-projections/internal/dfs"
	"github.com/jstittsworth/mlb-dfs-projections/internal/models"
	"github.com/jstittsworth/mlb-dfs-projections/internal/services"
	"github.com/jstittsworth/mlb-dfs-projections/pkg/utils"
)

type ProjectionHandler struct {
	service  *services.ProjectionService
	location *time.Location
	now      func() time.Time
	logger   *logrus.Logger
}

func NewProjectionHandler(service *services.ProjectionService, location *time.Location, logger *logrus.Logger) *ProjectionHandler {
	if location == nil {
		location = time.UTC
	}
	return &ProjectionHandler{
		service:  service,
		location: location,
		now:      time.Now,
		logger:   logger,
	}
}

// RunRequest is the body of POST /projections/run. An empty date means today.
type RunRequest struct {
	Date string `json:"date"`
}

// RunProjections projects a slate and returns the finished run
func (h *ProjectionHandler) RunProjections(c *gin.Context) {
	var req RunRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.SendValidationError(c, "Invalid request body", err.Error())
			return
		}
	}

	date, err := h.slateDate(req.Date)
	if err != nil {
		utils.SendValidationError(c, "Invalid date, expected YYYY-MM-DD", err.Error())
		return
	}

	run, err := h.service.RunSlate(c.Request.Context(), date, services.TriggerAPI)
	switch {
	case errors.Is(err, services.ErrRunInProgress):
		utils.SendError(c, http.StatusConflict, utils.NewAppError(utils.ErrCodeRunInProgress, "A projection run is already in progress"))
	case errors.Is(err, dfs.ErrNoGames):
		utils.SendError(c, http.StatusNotFound, utils.NewAppError(utils.ErrCodeNoGames, "No games found for slate", err.Error()))
	case err != nil:
		_ = c.Error(err)
		utils.SendError(c, http.StatusInternalServerError, utils.NewAppError(utils.ErrCodeProjection, "Projection run failed", err.Error()))
	default:
		utils.SendSuccess(c, run)
	}
}

// GetProjections returns the projections of a run: run_id when given, otherwise the latest
// completed run for date (default today)
func (h *ProjectionHandler) GetProjections(c *gin.Context) {
	run, ok := h.resolveRun(c)
	if !ok {
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil || limit <= 0 {
		utils.SendValidationError(c, "Invalid limit", c.Query("limit"))
		return
	}

	role := strings.ToLower(c.Query("role"))
	if role != "" && role != string(dfs.RoleBatter) && role != string(dfs.RolePitcher) {
		utils.SendValidationError(c, "Invalid role, expected batter or pitcher", role)
		return
	}

	projections, err := h.service.Projections(c.Request.Context(), models.ProjectionFilter{
		RunID: run.ID,
		Role:  role,
		Team:  c.Query("team"),
		Limit: limit,
	})
	if err != nil {
		_ = c.Error(err)
		utils.SendInternalError(c, "Failed to load projections")
		return
	}

	utils.SendSuccessWithMeta(c, projections, &utils.Meta{
		Total: int64(len(projections)),
		Limit: limit,
		RunID: run.ID.String(),
	})
}

// GetRun returns a single run
func (h *ProjectionHandler) GetRun(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.SendValidationError(c, "Invalid run ID", err.Error())
		return
	}

	run, err := h.service.GetRun(c.Request.Context(), id)
	if errors.Is(err, models.ErrRunNotFound) {
		utils.SendNotFound(c, "Run not found")
		return
	}
	if err != nil {
		_ = c.Error(err)
		utils.SendInternalError(c, "Failed to load run")
		return
	}
	utils.SendSuccess(c, run)
}

// ListRuns returns recent runs of any status
func (h *ProjectionHandler) ListRuns(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 || limit > 200 {
		utils.SendValidationError(c, "Invalid limit", c.Query("limit"))
		return
	}

	runs, err := h.service.RecentRuns(c.Request.Context(), limit)
	if err != nil {
		_ = c.Error(err)
		utils.SendInternalError(c, "Failed to list runs")
		return
	}
	utils.SendSuccessWithMeta(c, runs, &utils.Meta{Total: int64(len(runs)), Limit: limit})
}

func (h *ProjectionHandler) resolveRun(c *gin.Context) (*models.ProjectionRun, bool) {
	ctx := c.Request.Context()

	if raw := c.Query("run_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			utils.SendValidationError(c, "Invalid run ID", err.Error())
			return nil, false
		}
		run, err := h.service.GetRun(ctx, id)
		if errors.Is(err, models.ErrRunNotFound) {
			utils.SendNotFound(c, "Run not found")
			return nil, false
		}
		if err != nil {
			_ = c.Error(err)
			utils.SendInternalError(c, "Failed to load run")
			return nil, false
		}
		return run, true
	}

	date, err := h.slateDate(c.Query("date"))
	if err != nil {
		utils.SendValidationError(c, "Invalid date, expected YYYY-MM-DD", err.Error())
		return nil, false
	}
	run, err := h.service.LatestRun(ctx, date.Format(models.SlateDateFormat))
	if errors.Is(err, models.ErrRunNotFound) {
		utils.SendNotFound(c, "No completed projections for "+date.Format(models.SlateDateFormat))
		return nil, false
	}
	if err != nil {
		_ = c.Error(err)
		utils.SendInternalError(c, "Failed to load projections")
		return nil, false
	}
	return run, true
}

func (h *ProjectionHandler) slateDate(raw string) (time.Time, error) {
	if raw == "" {
		now := h.now().In(h.location)
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Parse(models.SlateDateFormat, raw)
}
