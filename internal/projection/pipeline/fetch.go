package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/jstittsworth/mlb-dfs-projections/internal/dfs"
)

// Confidence penalties for substituting the prior season
const (
	FallbackConfidencePenalty       = 20.0 // pitchers
	BatterFallbackConfidencePenalty = 15.0
)

// Option configures a pipeline
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides the timestamp source for generated analyses
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// fetch runs one provider call and folds any failure, including a panic, into a Missing observation
func fetch[T any](ctx context.Context, log *logrus.Entry, what string, call func(context.Context) (T, error)) (obs dfs.Observation[T]) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic: %v", r)
			log.WithError(err).WithField("signal", what).Warn("Provider call panicked")
			obs = dfs.Missing[T](dfs.FailureReason(err))
		}
	}()

	v, err := call(ctx)
	if err != nil {
		log.WithError(err).WithFields(logrus.Fields{
			"signal": what,
			"reason": dfs.FailureReason(err),
		}).Warn("Provider call failed")
		return dfs.Missing[T](dfs.FailureReason(err))
	}
	return dfs.Observed(v)
}

// GameContext is the per-game environment shared read-only by every player in the game
type GameContext struct {
	Environment *dfs.EnvironmentContext // nil when conditions could not be obtained
	Park        dfs.BallparkFactor
	Warnings    []string
}

// FetchGameContext loads the environment and ballpark factors concurrently.
// A failed ballpark lookup degrades to neutral factors; a failed environment lookup leaves
// Environment nil, which callers treat as fatal for the game's projections.
func FetchGameContext(ctx context.Context, env dfs.EnvironmentProvider, parks dfs.BallparkProvider, game dfs.GameRef, season int, log *logrus.Entry) GameContext {
	var (
		g       errgroup.Group
		envObs  dfs.Observation[*dfs.EnvironmentContext]
		parkObs dfs.Observation[dfs.BallparkFactor]
	)

	g.Go(func() error {
		envObs = fetch(ctx, log, "environment", func(ctx context.Context) (*dfs.EnvironmentContext, error) {
			e, err := env.GetGameEnvironmentData(ctx, game)
			if err == nil && e == nil {
				err = fmt.Errorf("game %d: %w", game.GamePk, dfs.ErrNoData)
			}
			return e, err
		})
		return nil
	})
	g.Go(func() error {
		parkObs = fetch(ctx, log, "ballpark", func(ctx context.Context) (dfs.BallparkFactor, error) {
			return parks.GetBallparkFactors(ctx, game.Venue.ID, season)
		})
		return nil
	})
	_ = g.Wait()

	gc := GameContext{Park: dfs.NeutralBallpark(game.Venue.ID)}
	if e, ok := envObs.Get(); ok {
		gc.Environment = e
	} else {
		gc.Warnings = append(gc.Warnings, "environment: "+envObs.Reason())
	}
	if p, ok := parkObs.Get(); ok {
		gc.Park = p
	} else {
		gc.Warnings = append(gc.Warnings, "ballpark: "+parkObs.Reason())
	}
	return gc
}

// ResolvePitcherSeason prefers the current season when it has at least one game, otherwise
// substitutes the prior season as estimated data
func ResolvePitcherSeason(current, prior dfs.Observation[dfs.PitcherStats], season int) (stats dfs.Observation[dfs.PitcherStats], seasonUsed int, fallback bool) {
	if s, ok := current.Get(); ok && s.GamesPlayed >= 1 {
		return current, season, false
	}
	if s, ok := prior.Get(); ok && s.GamesPlayed >= 1 {
		return dfs.Estimated(s, FallbackConfidencePenalty), season - 1, true
	}
	return dfs.Missing[dfs.PitcherStats]("no games in current or prior season"), season, false
}

// ResolveBatterSeason prefers a usable current-season sample, otherwise the prior season as
// estimated data
func ResolveBatterSeason(current, prior dfs.Observation[dfs.BatterStats]) dfs.Observation[dfs.BatterStats] {
	if s, ok := current.Get(); ok && s.AtBats >= dfs.MinAtBats {
		return current
	}
	if s, ok := prior.Get(); ok && s.AtBats >= dfs.MinAtBats {
		return dfs.Estimated(s, BatterFallbackConfidencePenalty)
	}
	if current.IsMissing() {
		return current
	}
	return dfs.Missing[dfs.BatterStats]("missing_data")
}

func snapshot[T any](obs dfs.Observation[T]) *T {
	if v, ok := obs.Get(); ok {
		return &v
	}
	return nil
}

func missingWarning[T any](what string, obs dfs.Observation[T]) []string {
	if obs.IsMissing() {
		return []string{what + ": " + obs.Reason()}
	}
	return nil
}
