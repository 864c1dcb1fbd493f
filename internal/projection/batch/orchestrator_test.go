package batch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jstittsworth/mlb-dfs-projections/internal/dfs"
	"github.com/jstittsworth/mlb-dfs-projections/internal/dfs/dfstest"
)

var (
	yankees = dfs.TeamRef{ID: 147, Abbreviation: "NYY", Name: "New York Yankees"}
	redSox  = dfs.TeamRef{ID: 111, Abbreviation: "BOS", Name: "Boston Red Sox"}
	dodgers = dfs.TeamRef{ID: 119, Abbreviation: "LAD", Name: "Los Angeles Dodgers"}
	giants  = dfs.TeamRef{ID: 137, Abbreviation: "SF", Name: "San Francisco Giants"}

	slateDate = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	fixedNow  = time.Date(2024, 6, 1, 15, 0, 0, 0, time.UTC)
)

func twoGameSlate() (*dfstest.Provider, dfs.Game, dfs.Game) {
	first := dfstest.Game(1001, yankees, redSox, 3313)
	second := dfstest.Game(1002, dodgers, giants, 22)
	p := dfstest.New().Seed(first).Seed(second)
	return p, first, second
}

func newOrchestrator(p *dfstest.Provider, logger *logrus.Logger, opts ...Option) *Orchestrator {
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewOrchestrator(p, p, p, p, p, logger, opts...)
}

func quietLogger() *logrus.Logger {
	logger, _ := test.NewNullLogger()
	return logger
}

func TestRunProjectsWholeSlate(t *testing.T) {
	p, first, _ := twoGameSlate()
	p.AddLink(first.HomeLineup[0].Player.ID, dfs.SiteLink{ExternalID: "dk-1", Salary: 5200, Position: "OF"})

	result, err := newOrchestrator(p, quietLogger(), WithSiteMapper(p)).Run(context.Background(), slateDate)
	require.NoError(t, err)

	assert.Equal(t, 2024, result.Season)
	assert.Len(t, result.Games, 2)
	assert.Len(t, result.Batters, 12)
	assert.Len(t, result.Pitchers, 4)
	assert.Equal(t, fixedNow, result.StartedAt)
	assert.Equal(t, time.Duration(0), result.Duration())

	for i, b := range result.Batters {
		assert.False(t, b.Defaulted, b.Player.Name)
		assert.Equal(t, fixedNow, b.GeneratedAt)
		if i > 0 {
			assert.GreaterOrEqual(t, result.Batters[i-1].Projection.Expected, b.Projection.Expected)
		}
	}
	for i, sp := range result.Pitchers {
		assert.False(t, sp.Defaulted, sp.Player.Name)
		if i > 0 {
			assert.GreaterOrEqual(t, result.Pitchers[i-1].Projection.Expected, sp.Projection.Expected)
		}
	}

	linked := 0
	for _, b := range result.Batters {
		if b.FantasySite != nil {
			linked++
			assert.Equal(t, first.HomeLineup[0].Player.ID, b.Player.ID)
			assert.Equal(t, "dk-1", b.FantasySite.ExternalID)
		}
	}
	assert.Equal(t, 1, linked)

	// environment and park are fetched once per game, not once per player
	assert.Equal(t, 2, p.Calls("GetGameEnvironmentData"))
	assert.Equal(t, 2, p.Calls("GetBallparkFactors"))
}

func TestRunSlateFailures(t *testing.T) {
	t.Run("schedule error", func(t *testing.T) {
		p := dfstest.New()
		p.SlateErr = errors.New("connection refused")

		_, err := newOrchestrator(p, quietLogger()).Run(context.Background(), slateDate)
		require.Error(t, err)
		assert.ErrorIs(t, err, dfs.ErrNoGames)
		assert.ErrorContains(t, err, "connection refused")
	})

	t.Run("empty slate", func(t *testing.T) {
		_, err := newOrchestrator(dfstest.New(), quietLogger()).Run(context.Background(), slateDate)
		assert.ErrorIs(t, err, dfs.ErrNoGames)
	})
}

func TestRunIsolatesFailedGame(t *testing.T) {
	p, first, _ := twoGameSlate()
	p.RemoveEnvironment(first.GamePk)

	result, err := newOrchestrator(p, quietLogger()).Run(context.Background(), slateDate)
	require.NoError(t, err)
	require.Len(t, result.Batters, 12)

	for _, b := range result.Batters {
		if b.Game.GamePk == first.GamePk {
			assert.True(t, b.Defaulted)
			assert.Equal(t, dfs.ConfidenceFloor, b.Confidence)
		} else {
			assert.False(t, b.Defaulted)
		}
	}
	batters, pitchers := result.Defaulted()
	assert.Equal(t, 6, batters)
	assert.Equal(t, 2, pitchers)
}

func TestRunSurvivesPanickingProvider(t *testing.T) {
	p, _, _ := twoGameSlate()
	p.Panics["GetCatcherDefense"] = true
	p.Panics["GetMatchupData"] = true

	logger, hook := test.NewNullLogger()
	result, err := newOrchestrator(p, logger, WithWorkers(1)).Run(context.Background(), slateDate)
	require.NoError(t, err)
	assert.Len(t, result.Batters, 12)
	for _, b := range result.Batters {
		assert.False(t, b.Defaulted)
		assert.False(t, b.Categories[dfs.CategoryStolenBases].Defaulted)
	}

	var warned bool
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.WarnLevel && entry.Message == "Provider call panicked" {
			warned = true
		}
	}
	assert.True(t, warned)
}

func TestRunUsesSeasonOverride(t *testing.T) {
	g := dfstest.Game(2001, yankees, redSox, 3313)
	g.Season = 0
	p := dfstest.New().Seed(g)

	result, err := newOrchestrator(p, quietLogger(), WithSeason(dfstest.Season)).Run(context.Background(), time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, dfstest.Season, result.Season)
	for _, b := range result.Batters {
		assert.False(t, b.Defaulted)
	}
}

func TestRunAppliesMatchupHistory(t *testing.T) {
	p, first, _ := twoGameSlate()
	hitter := first.HomeLineup[0].Player.ID
	p.AddMatchup(dfs.MatchupRecord{BatterID: hitter, PitcherID: first.AwayPitcher.ID, AtBats: 30, Hits: 15, HomeRuns: 4})

	result, err := newOrchestrator(p, quietLogger()).Run(context.Background(), slateDate)
	require.NoError(t, err)
	assert.Equal(t, 12, p.Calls("GetMatchupData"))

	for _, b := range result.Batters {
		singles := b.Categories[dfs.CategorySingles]
		if b.Player.ID == hitter {
			assert.Greater(t, singles.Factors["matchup"], 1.0)
			continue
		}
		assert.Equal(t, 1.0, singles.Factors["matchup"], b.Player.Name)
	}
}

type panickingMapper struct{}

func (panickingMapper) MapPlayerToFantasySite(int64, string, string) *dfs.SiteLink {
	panic("site lookup exploded")
}

func TestRunSurvivesPanickingSiteMapper(t *testing.T) {
	p, _, _ := twoGameSlate()

	logger, hook := test.NewNullLogger()
	result, err := newOrchestrator(p, logger, WithSiteMapper(panickingMapper{})).Run(context.Background(), slateDate)
	require.NoError(t, err)
	require.Len(t, result.Batters, 12)
	require.Len(t, result.Pitchers, 4)

	for _, b := range result.Batters {
		assert.False(t, b.Defaulted)
		assert.Nil(t, b.FantasySite)
	}
	for _, pa := range result.Pitchers {
		assert.False(t, pa.Defaulted)
		assert.Nil(t, pa.FantasySite)
	}

	var logged int
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.ErrorLevel && entry.Message == "Fantasy site mapping panicked" {
			logged++
		}
	}
	assert.Equal(t, 16, logged)
}
