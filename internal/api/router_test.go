package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jstittsworth/mlb-dfs-projections/internal/dfs"
	"github.com/jstittsworth/mlb-dfs-projections/internal/dfs/dfstest"
	"github.com/jstittsworth/mlb-dfs-projections/internal/metrics"
	"github.com/jstittsworth/mlb-dfs-projections/internal/models"
	"github.com/jstittsworth/mlb-dfs-projections/internal/projection/batch"
	"github.com/jstittsworth/mlb-dfs-projections/internal/providers/draftkings"
	"github.com/jstittsworth/mlb-dfs-projections/internal/reference"
	"github.com/jstittsworth/mlb-dfs-projections/internal/services"
	"github.com/jstittsworth/mlb-dfs-projections/pkg/database"
	"github.com/jstittsworth/mlb-dfs-projections/pkg/utils"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *utils.AppError `json:"error"`
	Meta    *utils.Meta     `json:"meta"`
}

func quietLogger() *logrus.Logger {
	logger, _ := test.NewNullLogger()
	return logger
}

func newTestRouter(t *testing.T, p *dfstest.Provider) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := database.NewConnection(dsn, false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := models.NewProjectionRepository(db.DB)
	require.NoError(t, repo.Migrate())

	logger := quietLogger()
	registry := metrics.NewRegistry()
	mapper := draftkings.NewMapper(nil, reference.NewRegistry())
	runner := batch.NewOrchestrator(p, p, p, p, p, logger, batch.WithSiteMapper(mapper))
	service := services.NewProjectionService(runner, repo, services.NewMemoryCache(), nil, mapper, registry, logger, time.Minute)

	return NewRouter(Dependencies{
		DB:          db,
		Projections: service,
		Breakers:    services.NewCircuitBreakerService(5, time.Minute, logger),
		Metrics:     registry,
		Location:    time.UTC,
		CorsOrigins: []string{"*"},
		Logger:      logger,
	})
}

func seededSlate() *dfstest.Provider {
	yankees := dfs.TeamRef{ID: 147, Abbreviation: "NYY", Name: "New York Yankees"}
	redSox := dfs.TeamRef{ID: 111, Abbreviation: "BOS", Name: "Boston Red Sox"}
	return dfstest.New().Seed(dfstest.Game(1001, yankees, redSox, 3313))
}

func do(t *testing.T, r http.Handler, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	}
	return w, body
}

func runSlate(t *testing.T, r http.Handler, date string) models.ProjectionRun {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/projections/run", strings.NewReader(`{"date":"`+date+`"}`))
	req.Header.Set("Content-Type", "application/json")
	w, body := do(t, r, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var run models.ProjectionRun
	require.NoError(t, json.Unmarshal(body.Data, &run))
	return run
}

func TestRunAndQueryProjections(t *testing.T) {
	r := newTestRouter(t, seededSlate())

	run := runSlate(t, r, "2024-07-04")
	assert.Equal(t, models.RunStatusCompleted, run.Status)
	assert.Equal(t, 6, run.Batters)
	assert.Equal(t, 2, run.Pitchers)

	w, body := do(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/projections?date=2024-07-04&role=Pitcher", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var pitchers []models.PlayerProjection
	require.NoError(t, json.Unmarshal(body.Data, &pitchers))
	assert.Len(t, pitchers, 2)
	require.NotNil(t, body.Meta)
	assert.Equal(t, run.ID.String(), body.Meta.RunID)

	w, body = do(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/projections?run_id="+run.ID.String()+"&team=nyy&limit=2", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var yankees []models.PlayerProjection
	require.NoError(t, json.Unmarshal(body.Data, &yankees))
	require.Len(t, yankees, 2)
	assert.GreaterOrEqual(t, yankees[0].Expected, yankees[1].Expected)
	for _, p := range yankees {
		assert.Equal(t, "NYY", p.Team)
	}

	w, _ = do(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/projections?date=2024-07-04&role=closer", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body = do(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/runs/"+run.ID.String(), nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, body.Success)

	w, body = do(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/runs", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, body.Meta.Total)
}

func TestProjectionErrors(t *testing.T) {
	r := newTestRouter(t, seededSlate())

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   string
	}{
		{"bad run date", http.MethodPost, "/api/v1/projections/run", `{"date":"07/04/2024"}`, http.StatusBadRequest, utils.ErrCodeValidation},
		{"bad body", http.MethodPost, "/api/v1/projections/run", `{"date":`, http.StatusBadRequest, utils.ErrCodeValidation},
		{"no completed run", http.MethodGet, "/api/v1/projections?date=2024-07-05", "", http.StatusNotFound, utils.ErrCodeNotFound},
		{"bad query date", http.MethodGet, "/api/v1/projections?date=tomorrow", "", http.StatusBadRequest, utils.ErrCodeValidation},
		{"bad limit", http.MethodGet, "/api/v1/runs?limit=-1", "", http.StatusBadRequest, utils.ErrCodeValidation},
		{"bad run id", http.MethodGet, "/api/v1/runs/not-a-uuid", "", http.StatusBadRequest, utils.ErrCodeValidation},
		{"unknown run", http.MethodGet, "/api/v1/runs/7d1b7c1e-4f0b-4c55-9d7a-2f1f5a6f8a10", "", http.StatusNotFound, utils.ErrCodeNotFound},
		{"unknown run filter", http.MethodGet, "/api/v1/projections?run_id=7d1b7c1e-4f0b-4c55-9d7a-2f1f5a6f8a10", "", http.StatusNotFound, utils.ErrCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w, body := do(t, r, req)

			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.code, body.Error.Code)
		})
	}
}

func TestRunWithoutGames(t *testing.T) {
	r := newTestRouter(t, dfstest.New())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/projections/run", strings.NewReader(`{"date":"2024-12-25"}`))
	w, body := do(t, r, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, utils.ErrCodeNoGames, body.Error.Code)

	w, body = do(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/runs", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var runs []models.ProjectionRun
	require.NoError(t, json.Unmarshal(body.Data, &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, models.RunStatusFailed, runs[0].Status)
}

func TestUploadSalaries(t *testing.T) {
	r := newTestRouter(t, seededSlate())

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "DKSalaries.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("Position,Name,ID,Roster Position,Salary,Game Info,TeamAbbrev,AvgPointsPerGame\n" +
		"CF,NYY Leadoff,40001,OF,5400,BOS@NYY,NYY,8.8\n" +
		"SP,NYY Starter,40002,P,9900,BOS@NYY,NYY,19.2\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/salaries", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w, body := do(t, r, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"rows":2,"file":"DKSalaries.csv"}`, string(body.Data))

	run := runSlate(t, r, "2024-07-04")
	w, body = do(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/projections?run_id="+run.ID.String()+"&role=pitcher", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var pitchers []models.PlayerProjection
	require.NoError(t, json.Unmarshal(body.Data, &pitchers))
	var linked int
	for _, p := range pitchers {
		if p.ExternalID == "40002" {
			linked++
			assert.Equal(t, 9900, p.Salary)
		}
	}
	assert.Equal(t, 1, linked)

	w, body = do(t, r, httptest.NewRequest(http.MethodPost, "/api/v1/salaries", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, utils.ErrCodeValidation, body.Error.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	r := newTestRouter(t, seededSlate())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var health map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "ok", health["status"])
	assert.Equal(t, "ok", health["database"])
	assert.Equal(t, map[string]interface{}{"mlbstats": "closed", "openweather": "closed"}, health["providers"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	runSlate(t, r, "2024-07-04")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `mlbdfs_runs_total{status="completed"} 1`)
}
