package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/mlb-dfs-projections/internal/api/handlers"
	"github.com/jstittsworth/mlb-dfs-projections/internal/api/middleware"
	"github.com/jstittsworth/mlb-dfs-projections/internal/metrics"
	"github.com/jstittsworth/mlb-dfs-projections/internal/services"
	"github.com/jstittsworth/mlb-dfs-projections/pkg/database"
)

// Dependencies are the components the HTTP surface exposes. Only Projections is required.
type Dependencies struct {
	DB          *database.DB
	Projections *services.ProjectionService
	Breakers    *services.CircuitBreakerService
	Scheduler   *services.SchedulerService
	Hub         *services.WebSocketHub
	Metrics     *metrics.Registry
	Location    *time.Location
	CorsOrigins []string
	Logger      *logrus.Logger
}

// NewRouter builds the engine with middleware, health, metrics and websocket routes, and the
// versioned API under /api/v1
func NewRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(deps.Logger))
	router.Use(middleware.CORS(deps.CorsOrigins))

	health := handlers.NewHealthHandler(deps.DB, deps.Breakers, deps.Scheduler, deps.Hub)
	router.GET("/health", health.GetHealth)

	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}
	if deps.Hub != nil {
		router.GET("/ws", deps.Hub.ServeWS)
	}

	SetupRoutes(router.Group("/api/v1"), deps)
	return router
}

// SetupRoutes configures all API routes on the given router group
func SetupRoutes(group *gin.RouterGroup, deps Dependencies) {
	projectionHandler := handlers.NewProjectionHandler(deps.Projections, deps.Location, deps.Logger)
	salaryHandler := handlers.NewSalaryHandler(deps.Projections, deps.Logger)

	// Projection endpoints
	group.POST("/projections/run", projectionHandler.RunProjections)
	group.GET("/projections", projectionHandler.GetProjections)

	// Run history
	group.GET("/runs", projectionHandler.ListRuns)
	group.GET("/runs/:id", projectionHandler.GetRun)

	// Salary upload
	group.POST("/salaries", salaryHandler.UploadSalaries)
}
