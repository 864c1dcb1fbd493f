package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jstittsworth/mlb-dfs-projections/internal/services"
	"github.com/jstittsworth/mlb-dfs-projections/pkg/database"
)

type HealthHandler struct {
	db        *database.DB
	breakers  *services.CircuitBreakerService
	scheduler *services.SchedulerService
	hub       *services.WebSocketHub
}

// NewHealthHandler reports on the given components; any of them may be nil
func NewHealthHandler(db *database.DB, breakers *services.CircuitBreakerService, scheduler *services.SchedulerService, hub *services.WebSocketHub) *HealthHandler {
	return &HealthHandler{
		db:        db,
		breakers:  breakers,
		scheduler: scheduler,
		hub:       hub,
	}
}

// GetHealth returns 200 while the database answers. Any breaker that is not closed reports
// the service as degraded.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	body := gin.H{
		"status":  "ok",
		"time":    time.Now().UTC(),
		"service": "mlb-dfs-projections",
	}

	if h.db != nil {
		sqlDB, err := h.db.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			body["status"] = "unavailable"
			body["database"] = err.Error()
			c.JSON(http.StatusServiceUnavailable, body)
			return
		}
		body["database"] = "ok"
	}

	if h.breakers != nil {
		states := h.breakers.States()
		for _, state := range states {
			if state != "closed" {
				body["status"] = "degraded"
			}
		}
		body["providers"] = states
	}
	if h.scheduler != nil {
		body["scheduler"] = h.scheduler.Job()
	}
	if h.hub != nil {
		body["websocket_clients"] = h.hub.ClientCount()
	}

	c.JSON(http.StatusOK, body)
}
