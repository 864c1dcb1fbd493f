package batch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/jstittsworth/mlb-dfs-projections/internal/dfs"
	"github.com/jstittsworth/mlb-dfs-projections/internal/projection/pipeline"
)

const defaultWorkers = 8

// Result is every projection produced for one slate
type Result struct {
	Date        time.Time             `json:"date"`
	Season      int                   `json:"season"`
	Games       []dfs.GameRef         `json:"games"`
	Batters     []dfs.BatterAnalysis  `json:"batters"`
	Pitchers    []dfs.PitcherAnalysis `json:"pitchers"`
	StartedAt   time.Time             `json:"started_at"`
	CompletedAt time.Time             `json:"completed_at"`
}

// Duration is the wall time of the run
func (r *Result) Duration() time.Duration {
	return r.CompletedAt.Sub(r.StartedAt)
}

// Defaulted counts records that fell back to league-average defaults
func (r *Result) Defaulted() (batters, pitchers int) {
	for _, b := range r.Batters {
		if b.Defaulted {
			batters++
		}
	}
	for _, p := range r.Pitchers {
		if p.Defaulted {
			pitchers++
		}
	}
	return batters, pitchers
}

// Option configures an Orchestrator
type Option func(*Orchestrator)

// WithWorkers bounds how many players are projected at once
func WithWorkers(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithSiteMapper attaches fantasy-site links to every record
func WithSiteMapper(m dfs.FantasySiteMapper) Option {
	return func(o *Orchestrator) { o.mapper = m }
}

// WithSeason pins the season instead of deriving it from the slate date
func WithSeason(season int) Option {
	return func(o *Orchestrator) { o.season = season }
}

// WithClock overrides the timestamp source, for the run and for every analysis
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// Orchestrator runs the batter and pitcher pipelines over every player of a slate
type Orchestrator struct {
	schedule dfs.ScheduleProvider
	env      dfs.EnvironmentProvider
	parks    dfs.BallparkProvider
	batters  *pipeline.BatterPipeline
	pitchers *pipeline.PitcherPipeline
	mapper   dfs.FantasySiteMapper
	logger   *logrus.Logger
	workers  int
	season   int
	now      func() time.Time
}

// NewOrchestrator wires the pipelines to a shared set of providers
func NewOrchestrator(schedule dfs.ScheduleProvider, stats dfs.StatProvider, parks dfs.BallparkProvider, env dfs.EnvironmentProvider, hooks pipeline.HookSource, logger *logrus.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		schedule: schedule,
		env:      env,
		parks:    parks,
		logger:   logger,
		workers:  defaultWorkers,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}

	clock := pipeline.WithClock(o.now)
	o.batters = pipeline.NewBatterPipeline(stats, parks, env, logger, clock)
	o.pitchers = pipeline.NewPitcherPipeline(stats, parks, env, hooks, logger, clock)
	return o
}

// Run projects every listed batter and probable starter on the date's slate.
// The only error is a wrapped dfs.ErrNoGames; individual players that fail come back defaulted.
func (o *Orchestrator) Run(ctx context.Context, date time.Time) (*Result, error) {
	started := o.now()
	season := o.season
	if season == 0 {
		season = dfs.SeasonFor(date)
	}
	log := o.logger.WithFields(logrus.Fields{
		"slate_date": date.Format("2006-01-02"),
		"season":     season,
	})

	games, err := o.schedule.GetSlate(ctx, date)
	if err != nil {
		log.WithError(err).Error("Failed to fetch slate")
		return nil, fmt.Errorf("slate %s: %w: %w", date.Format("2006-01-02"), dfs.ErrNoGames, err)
	}
	if len(games) == 0 {
		return nil, fmt.Errorf("slate %s: %w", date.Format("2006-01-02"), dfs.ErrNoGames)
	}
	log.WithField("games", len(games)).Info("Starting slate projections")

	contexts := o.fetchContexts(ctx, games, season, log)

	var batterJobs []pipeline.BatterAssignment
	var pitcherJobs []pipeline.PitcherAssignment
	for i, g := range games {
		s := seasonOf(g, season)
		for _, home := range []bool{true, false} {
			if sp := startingPitcher(g, home); sp != nil {
				pitcherJobs = append(pitcherJobs, pipeline.PitcherAssignment{Game: g, Home: home, Pitcher: *sp, Season: s, Context: contexts[i]})
			}
			lineup := g.AwayLineup
			if home {
				lineup = g.HomeLineup
			}
			for _, entry := range lineup {
				batterJobs = append(batterJobs, pipeline.BatterAssignment{Game: g, Home: home, Entry: entry, Season: s, Context: contexts[i]})
			}
		}
	}

	result := &Result{
		Date:     date,
		Season:   season,
		Batters:  make([]dfs.BatterAnalysis, len(batterJobs)),
		Pitchers: make([]dfs.PitcherAnalysis, len(pitcherJobs)),
	}
	for _, g := range games {
		result.Games = append(result.Games, g.GameRef)
	}

	sem := make(chan struct{}, o.workers)
	var wg sync.WaitGroup
	for i, job := range batterJobs {
		wg.Add(1)
		go func(i int, job pipeline.BatterAssignment) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			result.Batters[i] = o.projectBatter(ctx, job, log)
		}(i, job)
	}
	for i, job := range pitcherJobs {
		wg.Add(1)
		go func(i int, job pipeline.PitcherAssignment) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			result.Pitchers[i] = o.projectPitcher(ctx, job, log)
		}(i, job)
	}
	wg.Wait()

	pipeline.SortBatters(result.Batters)
	pipeline.SortPitchers(result.Pitchers)

	result.StartedAt = started
	result.CompletedAt = o.now()
	defaultedBatters, defaultedPitchers := result.Defaulted()
	log.WithFields(logrus.Fields{
		"batters":            len(result.Batters),
		"pitchers":           len(result.Pitchers),
		"defaulted_batters":  defaultedBatters,
		"defaulted_pitchers": defaultedPitchers,
		"duration":           result.Duration().String(),
	}).Info("Completed slate projections")

	return result, nil
}

// fetchContexts loads each game's environment and park once for all of its players
func (o *Orchestrator) fetchContexts(ctx context.Context, games []dfs.Game, season int, log *logrus.Entry) []*pipeline.GameContext {
	contexts := make([]*pipeline.GameContext, len(games))
	var g errgroup.Group
	g.SetLimit(o.workers)
	for i, game := range games {
		g.Go(func() error {
			glog := log.WithField("game_pk", game.GamePk)
			gc := pipeline.FetchGameContext(ctx, o.env, o.parks, game.GameRef, seasonOf(game, season), glog)
			contexts[i] = &gc
			return nil
		})
	}
	_ = g.Wait()
	return contexts
}

func (o *Orchestrator) projectBatter(ctx context.Context, job pipeline.BatterAssignment, log *logrus.Entry) (analysis dfs.BatterAnalysis) {
	defer func() {
		if r := recover(); r != nil {
			log.WithFields(logrus.Fields{
				"player_id": job.Entry.Player.ID,
				"panic":     r,
			}).Error("Batter projection panicked")
			analysis = pipeline.DefaultBatterAnalysis(job, o.now(), fmt.Sprintf("batch: panic: %v", r))
		}
		analysis.FantasySite = o.link(analysis.Player, analysis.Game, analysis.Home, log)
	}()
	return o.batters.Project(ctx, job)
}

func (o *Orchestrator) projectPitcher(ctx context.Context, job pipeline.PitcherAssignment, log *logrus.Entry) (analysis dfs.PitcherAnalysis) {
	defer func() {
		if r := recover(); r != nil {
			log.WithFields(logrus.Fields{
				"player_id": job.Pitcher.ID,
				"panic":     r,
			}).Error("Pitcher projection panicked")
			analysis = pipeline.DefaultPitcherAnalysis(job, o.now(), fmt.Sprintf("batch: panic: %v", r))
		}
		analysis.FantasySite = o.link(analysis.Player, analysis.Game, analysis.Home, log)
	}()
	return o.pitchers.Project(ctx, job)
}

// link runs the site mapper; a panicking mapper leaves the player unlinked
func (o *Orchestrator) link(p dfs.PlayerIdentity, g dfs.GameRef, home bool, log *logrus.Entry) (site *dfs.SiteLink) {
	if o.mapper == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			log.WithFields(logrus.Fields{
				"player_id": p.ID,
				"panic":     r,
			}).Error("Fantasy site mapping panicked")
			site = nil
		}
	}()
	team := p.Team
	if team == "" {
		team = g.Away.Abbreviation
		if home {
			team = g.Home.Abbreviation
		}
	}
	return o.mapper.MapPlayerToFantasySite(p.ID, p.Name, team)
}

func startingPitcher(g dfs.Game, home bool) *dfs.PlayerIdentity {
	if home {
		return g.HomePitcher
	}
	return g.AwayPitcher
}

func seasonOf(g dfs.Game, fallback int) int {
	if g.Season > 0 {
		return g.Season
	}
	return fallback
}
