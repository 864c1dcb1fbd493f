package dfs

import (
	"context"
	"time"
)

// StatProvider supplies player, team and head-to-head statistics.
// Any call may fail or return partial data.
type StatProvider interface {
	GetBatterStats(ctx context.Context, playerID int64, season int) (BatterStats, error)
	GetPitcherStats(ctx context.Context, playerID int64, season int) (PitcherStats, error)
	GetTeamStats(ctx context.Context, teamID int, season int) (TeamStats, error)
	GetCatcherDefense(ctx context.Context, catcherID int64, season int) (CatcherDefense, error)
	// GetMatchupData returns nil, nil when the two players have never faced each other
	GetMatchupData(ctx context.Context, batterID, pitcherID int64) (*MatchupRecord, error)
}

// BallparkProvider supplies long-lived venue factors
type BallparkProvider interface {
	GetBallparkFactors(ctx context.Context, venueID int, season int) (BallparkFactor, error)
}

// EnvironmentProvider supplies game-time conditions. A nil context with a nil error means
// the provider had nothing for the game.
type EnvironmentProvider interface {
	GetGameEnvironmentData(ctx context.Context, game GameRef) (*EnvironmentContext, error)
}

// ScheduleProvider supplies the games, probable pitchers and lineups of a slate
type ScheduleProvider interface {
	GetSlate(ctx context.Context, date time.Time) ([]Game, error)
}

// FantasySiteMapper links a player to the fantasy site's pool; nil when unmatched
type FantasySiteMapper interface {
	MapPlayerToFantasySite(playerID int64, name, team string) *SiteLink
}

// CacheProvider is the read-through cache shared by providers
type CacheProvider interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
}
