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
	"github.com/jstittsworth/mlb-dfs-projections/internal/projection/quality"
	"github.com/jstittsworth/mlb-dfs-projections/internal/projection/scoring"
)

// BatterAssignment is one batter's place in a game
type BatterAssignment struct {
	Game   dfs.Game
	Home   bool
	Entry  dfs.LineupEntry
	Season int
	// Context is the game's prefetched environment; fetched on demand when nil
	Context *GameContext
}

// BatterPipeline projects a single batter
type BatterPipeline struct {
	stats  dfs.StatProvider
	parks  dfs.BallparkProvider
	env    dfs.EnvironmentProvider
	logger *logrus.Logger
	opts   options
}

// NewBatterPipeline creates a batter pipeline
func NewBatterPipeline(stats dfs.StatProvider, parks dfs.BallparkProvider, env dfs.EnvironmentProvider, logger *logrus.Logger, opts ...Option) *BatterPipeline {
	return &BatterPipeline{
		stats:  stats,
		parks:  parks,
		env:    env,
		logger: logger,
		opts:   buildOptions(opts),
	}
}

// Project never fails: any unrecoverable problem yields a fully defaulted analysis
func (p *BatterPipeline) Project(ctx context.Context, a BatterAssignment) (analysis dfs.BatterAnalysis) {
	log := p.logger.WithFields(logrus.Fields{
		"game_pk":   a.Game.GamePk,
		"player_id": a.Entry.Player.ID,
		"role":      dfs.RoleBatter,
	})

	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("Batter pipeline panicked")
			analysis = p.defaultAnalysis(a, fmt.Sprintf("pipeline: panic: %v", r))
		}
	}()

	// FetchEnvironment
	gc := a.Context
	if gc == nil {
		fetched := FetchGameContext(ctx, p.env, p.parks, a.Game.GameRef, a.Season, log)
		gc = &fetched
	}
	if gc.Environment == nil {
		log.Warn("No environment for game, returning default batter analysis")
		return p.defaultAnalysis(a, append([]string{}, gc.Warnings...)...)
	}

	// FetchPlayerData
	in, fetchWarnings := p.fetchPlayerData(ctx, a, *gc, log)
	warnings := append(append([]string{}, gc.Warnings...), fetchWarnings...)
	if in.Stats.IsMissing() {
		log.WithField("reason", in.Stats.Reason()).Warn("No usable batter stats, returning default batter analysis")
		return p.defaultAnalysis(a, append(warnings, "batter stats: "+in.Stats.Reason())...)
	}

	// FanOut
	suite := calculators.BatterSuite()
	slots := make([][]dfs.CategoryResult, len(suite))
	var wg sync.WaitGroup
	for i, calc := range suite {
		wg.Add(1)
		go func(i int, calc calculators.BatterCalculator) {
			defer wg.Done()
			clog := log.WithField("calculator", calc.Name)
			slots[i] = calculators.Guard(clog, calc.Categories, func() ([]dfs.CategoryResult, error) {
				return calc.Run(in)
			})
		}(i, calc)
	}
	wg.Wait()

	// Merge
	var results []dfs.CategoryResult
	for _, slot := range slots {
		results = append(results, slot...)
	}
	agg := scoring.Score(dfs.RoleBatter, results)

	categories := make(map[dfs.Category]dfs.CategoryResult, len(results))
	for _, r := range results {
		categories[r.Category] = r
		if r.Defaulted {
			warnings = append(warnings, string(r.Category)+": defaulted")
		}
	}

	return dfs.BatterAnalysis{
		Player:       a.Entry.Player,
		Game:         a.Game.GameRef,
		Opponent:     a.Game.Opponent(a.Home),
		Home:         a.Home,
		BattingOrder: a.Entry.Order,
		OpposingSP:   opposingPitcher(a.Game, a.Home),
		Stats:        snapshot(in.Stats),
		StatsSource:  in.Stats.Kind().String(),
		Quality:      in.Quality,
		Categories:   categories,
		Projection:   agg.Projection,
		Confidence:   agg.Confidence,
		Warnings:     warnings,
		GeneratedAt:  p.opts.now(),
	}
}

func opposingPitcher(g dfs.Game, home bool) *dfs.PlayerIdentity {
	if home {
		return g.AwayPitcher
	}
	return g.HomePitcher
}

// fetchPlayerData loads every per-player signal concurrently. A failed fetch becomes a Missing
// observation and never cancels its siblings.
func (p *BatterPipeline) fetchPlayerData(ctx context.Context, a BatterAssignment, gc GameContext, log *logrus.Entry) (calculators.BatterInput, []string) {
	player := a.Entry.Player
	pitcher := opposingPitcher(a.Game, a.Home)
	catcher := a.Game.Catcher(!a.Home)
	team := a.Game.Team(a.Home)
	opponent := a.Game.Opponent(a.Home)

	var (
		g                        errgroup.Group
		current, prior           dfs.Observation[dfs.BatterStats]
		pitcherNow, pitcherPrior dfs.Observation[dfs.PitcherStats]
		teamObs, opponentObs     dfs.Observation[dfs.TeamStats]
	)
	pitcherNow = dfs.Missing[dfs.PitcherStats]("no opposing pitcher")
	pitcherPrior = pitcherNow
	matchup := dfs.Missing[dfs.MatchupRecord]("no opposing pitcher")
	catcherObs := dfs.Missing[dfs.CatcherDefense]("no opposing catcher")

	g.Go(func() error {
		current = fetch(ctx, log, "batter stats", func(ctx context.Context) (dfs.BatterStats, error) {
			return p.stats.GetBatterStats(ctx, player.ID, a.Season)
		})
		return nil
	})
	g.Go(func() error {
		prior = fetch(ctx, log, "prior batter stats", func(ctx context.Context) (dfs.BatterStats, error) {
			return p.stats.GetBatterStats(ctx, player.ID, a.Season-1)
		})
		return nil
	})
	if pitcher != nil {
		g.Go(func() error {
			pitcherNow = fetch(ctx, log, "opposing pitcher stats", func(ctx context.Context) (dfs.PitcherStats, error) {
				return p.stats.GetPitcherStats(ctx, pitcher.ID, a.Season)
			})
			return nil
		})
		g.Go(func() error {
			pitcherPrior = fetch(ctx, log, "prior opposing pitcher stats", func(ctx context.Context) (dfs.PitcherStats, error) {
				return p.stats.GetPitcherStats(ctx, pitcher.ID, a.Season-1)
			})
			return nil
		})
		g.Go(func() error {
			matchup = fetch(ctx, log, "matchup", func(ctx context.Context) (dfs.MatchupRecord, error) {
				m, err := p.stats.GetMatchupData(ctx, player.ID, pitcher.ID)
				if err == nil && m == nil {
					return dfs.MatchupRecord{BatterID: player.ID, PitcherID: pitcher.ID}, nil
				}
				if err != nil {
					return dfs.MatchupRecord{}, err
				}
				return *m, nil
			})
			return nil
		})
	}
	if catcher != nil {
		g.Go(func() error {
			catcherObs = fetch(ctx, log, "catcher defense", func(ctx context.Context) (dfs.CatcherDefense, error) {
				return p.stats.GetCatcherDefense(ctx, catcher.ID, a.Season)
			})
			return nil
		})
	}
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

	stats := ResolveBatterSeason(current, prior)
	pitcherStats, _, _ := ResolvePitcherSeason(pitcherNow, pitcherPrior, a.Season)

	pitchHand := dfs.HandUnknown
	if pitcher != nil {
		pitchHand = pitcher.PitchHand
	}
	if ps, ok := pitcherStats.Get(); ok && pitchHand == dfs.HandUnknown {
		pitchHand = ps.Hand
	}

	var warnings []string
	if stats.Kind() == dfs.KindEstimated {
		warnings = append(warnings, "batter stats: prior season")
	}
	warnings = append(warnings, missingWarning("opposing pitcher stats", pitcherStats)...)
	warnings = append(warnings, missingWarning("team stats", teamObs)...)
	warnings = append(warnings, missingWarning("opponent team stats", opponentObs)...)

	return calculators.BatterInput{
		Player:          player,
		Home:            a.Home,
		BattingOrder:    a.Entry.Order,
		Stats:           stats,
		OpposingPitcher: pitcherStats,
		PitcherHand:     pitchHand,
		Matchup:         matchup,
		Catcher:         catcherObs,
		Team:            teamObs,
		Opponent:        opponentObs,
		Park:            gc.Park,
		Environment:     *gc.Environment,
		Quality:         quality.Calculate(stats),
	}, warnings
}

// defaultAnalysis is the fully defaulted record: league-average categories at the confidence floor
func (p *BatterPipeline) defaultAnalysis(a BatterAssignment, warnings ...string) dfs.BatterAnalysis {
	return DefaultBatterAnalysis(a, p.opts.now(), warnings...)
}

// DefaultBatterAnalysis builds the record used whenever a batter cannot be projected
func DefaultBatterAnalysis(a BatterAssignment, generated time.Time, warnings ...string) dfs.BatterAnalysis {
	results := calculators.Defaults(dfs.BatterCategories)
	agg := scoring.Score(dfs.RoleBatter, results)
	categories := make(map[dfs.Category]dfs.CategoryResult, len(results))
	for _, r := range results {
		categories[r.Category] = r
	}

	return dfs.BatterAnalysis{
		Player:       a.Entry.Player,
		Game:         a.Game.GameRef,
		Opponent:     a.Game.Opponent(a.Home),
		Home:         a.Home,
		BattingOrder: a.Entry.Order,
		OpposingSP:   opposingPitcher(a.Game, a.Home),
		StatsSource:  dfs.KindMissing.String(),
		Quality:      quality.Defaults(),
		Categories:   categories,
		Projection:   agg.Projection,
		Confidence:   dfs.ConfidenceFloor,
		Defaulted:    true,
		Warnings:     warnings,
		GeneratedAt:  generated,
	}
}
