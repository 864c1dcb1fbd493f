package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jstittsworth/mlb-dfs-projections/internal/dfs"
	"github.com/jstittsworth/mlb-dfs-projections/internal/projection/batch"
	"github.com/jstittsworth/mlb-dfs-projections/internal/projection/calculators"
)

func TestProviderRequest(t *testing.T) {
	r := NewRegistry()
	r.ProviderRequest("mlbstats", "success")
	r.ProviderRequest("mlbstats", "success")
	r.ProviderRequest("mlbstats", "cache_hit")

	assert.Equal(t, 2.0, testutil.ToFloat64(r.ProviderRequests.WithLabelValues("mlbstats", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.ProviderRequests.WithLabelValues("mlbstats", "cache_hit")))
}

func TestFallbackHookCountsOnlyFallbacks(t *testing.T) {
	r := NewRegistry()
	logger, _ := test.NewNullLogger()
	logger.AddHook(r.FallbackHook())

	logger.WithFields(logrus.Fields{"category": dfs.CategoryHomeRuns, "reason": "missing_data"}).Warn(calculators.FallbackMessage)
	logger.WithFields(logrus.Fields{"category": dfs.CategoryHomeRuns, "reason": "missing_data"}).Warn(calculators.FallbackMessage)
	logger.WithField("category", dfs.CategoryWalks).Warn(calculators.FallbackMessage)
	logger.WithField("category", dfs.CategoryWalks).Warn("Provider call failed")
	logger.WithField("category", dfs.CategoryWalks).Error(calculators.FallbackMessage)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.CalculatorFallbacks.WithLabelValues("home_runs", "missing_data")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.CalculatorFallbacks.WithLabelValues("walks", "unknown")))
	assert.Equal(t, 2, testutil.CollectAndCount(r.CalculatorFallbacks))
}

func TestObserveResult(t *testing.T) {
	r := NewRegistry()
	start := time.Date(2024, 7, 4, 14, 0, 0, 0, time.UTC)
	r.ObserveResult(&batch.Result{
		Batters:     []dfs.BatterAnalysis{{}, {Defaulted: true}, {}},
		Pitchers:    []dfs.PitcherAnalysis{{Defaulted: true}},
		StartedAt:   start,
		CompletedAt: start.Add(4 * time.Second),
	})
	r.ObserveRun("completed")

	assert.Equal(t, 2.0, testutil.ToFloat64(r.Projections.WithLabelValues("batter", "projected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.Projections.WithLabelValues("batter", "defaulted")))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.Projections.WithLabelValues("pitcher", "projected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.Projections.WithLabelValues("pitcher", "defaulted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.Runs.WithLabelValues("completed")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	r := NewRegistry()
	r.ObserveRun("failed")

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `mlbdfs_runs_total{status="failed"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
