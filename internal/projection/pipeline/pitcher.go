package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/jstittsworth/mlb-dfs-projections/internal/dfs"
	"github.com/jstittsworth/mlb-dfs-projections/internal/projection/calculators"
	"github.com/jstittsworth/mlb-dfs-projections/internal/projection/scoring"
)

// HookSource reports how quickly a club pulls its starters
type HookSource interface {
	HookTendency(teamID int) float64
}

// PitcherAssignment is one probable starter in a game
type PitcherAssignment struct {
	Game    dfs.Game
	Home    bool
	Pitcher dfs.PlayerIdentity
	Season  int
	Context *GameContext
}

// PitcherPipeline projects a single starting pitcher
type PitcherPipeline struct {
	stats  dfs.StatProvider
	parks  dfs.BallparkProvider
	env    dfs.EnvironmentProvider
	hooks  HookSource
	logger *logrus.Logger
	opts   options
}

// NewPitcherPipeline creates a pitcher pipeline
func NewPitcherPipeline(stats dfs.StatProvider, parks dfs.BallparkProvider, env dfs.EnvironmentProvider, hooks HookSource, logger *logrus.Logger, opts ...Option) *PitcherPipeline {
	return &PitcherPipeline{
		stats:  stats,
		parks:  parks,
		env:    env,
		hooks:  hooks,
		logger: logger,
		opts:   buildOptions(opts),
	}
}

// Project never fails: any unrecoverable problem yields a fully defaulted analysis
func (p *PitcherPipeline) Project(ctx context.Context, a PitcherAssignment) (analysis dfs.PitcherAnalysis) {
	log := p.logger.WithFields(logrus.Fields{
		"game_pk":   a.Game.GamePk,
		"player_id": a.Pitcher.ID,
		"role":      dfs.RolePitcher,
	})

	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("Pitcher pipeline panicked")
			analysis = p.defaultAnalysis(a, fmt.Sprintf("pipeline: panic: %v", r))
		}
	}()

	gc := a.Context
	if gc == nil {
		fetched := FetchGameContext(ctx, p.env, p.parks, a.Game.GameRef, a.Season, log)
		gc = &fetched
	}
	if gc.Environment == nil {
		log.Warn("No environment for game, returning default pitcher analysis")
		return p.defaultAnalysis(a, append([]string{}, gc.Warnings...)...)
	}

	in, seasonUsed, fallback := p.fetchPlayerData(ctx, a, *gc, log)
	warnings := append([]string{}, gc.Warnings...)
	if in.Stats.IsMissing() {
		log.WithField("reason", in.Stats.Reason()).Warn("No usable pitcher stats, returning default pitcher analysis")
		return p.defaultAnalysis(a, append(warnings, "pitcher stats: "+in.Stats.Reason())...)
	}
	if fallback {
		log.WithField("season_used", seasonUsed).Info("Using prior season pitching stats")
		warnings = append(warnings, fmt.Sprintf("pitcher stats: season %d", seasonUsed))
	}
	warnings = append(warnings, missingWarning("team stats", in.Team)...)
	warnings = append(warnings, missingWarning("opponent team stats", in.Opponent)...)

	suite := calculators.PitcherSuite()
	slots := make([][]dfs.CategoryResult, len(suite))
	var wg sync.WaitGroup
	for i, calc := range suite {
		wg.Add(1)
		go func(i int, calc calculators.PitcherCalculator) {
			defer wg.Done()
			clog := log.WithField("calculator", calc.Name)
			slots[i] = calculators.Guard(clog, calc.Categories, func() ([]dfs.CategoryResult, error) {
				return calc.Run(in)
			})
		}(i, calc)
	}
	vulnerability := calculators.HomeRunVulnerability(in.Stats)
	wg.Wait()

	var results []dfs.CategoryResult
	for _, slot := range slots {
		results = append(results, slot...)
	}
	agg := scoring.Score(dfs.RolePitcher, results)

	categories := make(map[dfs.Category]dfs.CategoryResult, len(results))
	for _, r := range results {
		categories[r.Category] = r
		if r.Defaulted {
			warnings = append(warnings, string(r.Category)+": defaulted")
		}
	}

	return dfs.PitcherAnalysis{
		Player:             a.Pitcher,
		Game:               a.Game.GameRef,
		Opponent:           a.Game.Opponent(a.Home),
		Home:               a.Home,
		Stats:              snapshot(in.Stats),
		StatsSource:        in.Stats.Kind().String(),
		SeasonUsed:         seasonUsed,
		UsedFallbackSeason: fallback,
		HRVulnerability:    vulnerability.Rating,
		Categories:         categories,
		Projection:         agg.Projection,
		Confidence:         agg.Confidence,
		Warnings:           warnings,
		GeneratedAt:        p.opts.now(),
	}
}

func (p *PitcherPipeline) fetchPlayerData(ctx context.Context, a PitcherAssignment, gc GameContext, log *logrus.Entry) (calculators.PitcherInput, int, bool) {
	team := a.Game.Team(a.Home)
	opponent := a.Game.Opponent(a.Home)

	var (
		g                    errgroup.Group
		current, prior       dfs.Observation[dfs.PitcherStats]
		teamObs, opponentObs dfs.Observation[dfs.TeamStats]
	)
	g.Go(func() error {
		current = fetch(ctx, log, "pitcher stats", func(ctx context.Context) (dfs.PitcherStats, error) {
			return p.stats.GetPitcherStats(ctx, a.Pitcher.ID, a.Season)
		})
		return nil
	})
	g.Go(func() error {
		prior = fetch(ctx, log, "prior pitcher stats", func(ctx context.Context) (dfs.PitcherStats, error) {
			return p.stats.GetPitcherStats(ctx, a.Pitcher.ID, a.Season-1)
		})
		return nil
	})
	g.Go(func() error {
		teamObs = fetch(ctx, log, "team stats", func(ctx context.Context) (dfs.TeamStats, error) {
			return p.stats.GetTeamStats(ctx, team.ID, a.Season)
		})
		return nil
	})
	g.Go(func() error {
		opponentObs = fetch(ctx, log, "opponent team stats", func(ctx context.Context) (dfs.TeamStats, error) {
			return p.stats.GetTeamStats(ctx, opponent.ID, a.Season)
		})
		return nil
	})
	_ = g.Wait()

	stats, seasonUsed, fallback := ResolvePitcherSeason(current, prior, a.Season)

	hook := 1.0
	if p.hooks != nil {
		hook = p.hooks.HookTendency(team.ID)
	}

	return calculators.PitcherInput{
		Player:       a.Pitcher,
		Home:         a.Home,
		Stats:        stats,
		Team:         teamObs,
		Opponent:     opponentObs,
		HookTendency: hook,
		Park:         gc.Park,
		Environment:  *gc.Environment,
	}, seasonUsed, fallback
}

func (p *PitcherPipeline) defaultAnalysis(a PitcherAssignment, warnings ...string) dfs.PitcherAnalysis {
	return DefaultPitcherAnalysis(a, p.opts.now(), warnings...)
}

// DefaultPitcherAnalysis builds the record used whenever a pitcher cannot be projected
func DefaultPitcherAnalysis(a PitcherAssignment, generated time.Time, warnings ...string) dfs.PitcherAnalysis {
	results := calculators.Defaults(dfs.PitcherCategories)
	agg := scoring.Score(dfs.RolePitcher, results)
	categories := make(map[dfs.Category]dfs.CategoryResult, len(results))
	for _, r := range results {
		categories[r.Category] = r
	}

	return dfs.PitcherAnalysis{
		Player:          a.Pitcher,
		Game:            a.Game.GameRef,
		Opponent:        a.Game.Opponent(a.Home),
		Home:            a.Home,
		StatsSource:     dfs.KindMissing.String(),
		SeasonUsed:      a.Season,
		HRVulnerability: calculators.HomeRunVulnerability(dfs.Missing[dfs.PitcherStats]("")).Rating,
		Categories:      categories,
		Projection:      agg.Projection,
		Confidence:      dfs.ConfidenceFloor,
		Defaulted:       true,
		Warnings:        warnings,
		GeneratedAt:     generated,
	}
}
