// Package dfstest provides an in-memory implementation of every provider interface for tests.
package dfstest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jstittsworth/mlb-dfs-projections/internal/dfs"
)

type seasonKey struct {
	id     int64
	season int
}

// Provider serves canned data. Lookups that were never seeded return dfs.ErrNotFound.
type Provider struct {
	mu       sync.Mutex
	batters  map[seasonKey]dfs.BatterStats
	pitchers map[seasonKey]dfs.PitcherStats
	teams    map[seasonKey]dfs.TeamStats
	catchers map[int64]dfs.CatcherDefense
	matchups map[[2]int64]dfs.MatchupRecord
	parks    map[int]dfs.BallparkFactor
	envs     map[int64]*dfs.EnvironmentContext
	games    []dfs.Game
	links    map[int64]*dfs.SiteLink

	// SlateErr, when set, is returned by GetSlate
	SlateErr error
	// Panics names provider methods that panic instead of answering
	Panics   map[string]bool

	calls map[string]int
}

// New returns an empty provider
func New() *Provider {
	return &Provider{
		batters:  make(map[seasonKey]dfs.BatterStats),
		pitchers: make(map[seasonKey]dfs.PitcherStats),
		teams:    make(map[seasonKey]dfs.TeamStats),
		catchers: make(map[int64]dfs.CatcherDefense),
		matchups: make(map[[2]int64]dfs.MatchupRecord),
		parks:    make(map[int]dfs.BallparkFactor),
		envs:     make(map[int64]*dfs.EnvironmentContext),
		links:    make(map[int64]*dfs.SiteLink),
		Panics:   make(map[string]bool),
		calls:    make(map[string]int),
	}
}

func (p *Provider) record(method string) {
	p.mu.Lock()
	p.calls[method]++
	panics := p.Panics[method]
	p.mu.Unlock()
	if panics {
		panic(method + " exploded")
	}
}

// Calls returns how many times a method was invoked
func (p *Provider) Calls(method string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[method]
}

func (p *Provider) AddBatter(id int64, season int, s dfs.BatterStats) *Provider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.batters[seasonKey{id, season}] = s
	return p
}

func (p *Provider) AddPitcher(id int64, season int, s dfs.PitcherStats) *Provider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pitchers[seasonKey{id, season}] = s
	return p
}

func (p *Provider) AddTeam(id int, season int, s dfs.TeamStats) *Provider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.teams[seasonKey{int64(id), season}] = s
	return p
}

func (p *Provider) AddCatcher(id int64, c dfs.CatcherDefense) *Provider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.catchers[id] = c
	return p
}

func (p *Provider) AddMatchup(m dfs.MatchupRecord) *Provider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.matchups[[2]int64{m.BatterID, m.PitcherID}] = m
	return p
}

func (p *Provider) AddPark(f dfs.BallparkFactor) *Provider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.parks[f.VenueID] = f
	return p
}

func (p *Provider) AddEnvironment(env dfs.EnvironmentContext) *Provider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.envs[env.GamePk] = &env
	return p
}

// AddGame appends a game to the slate and gives it a known outdoor environment
func (p *Provider) AddGame(g dfs.Game) *Provider {
	p.mu.Lock()
	p.games = append(p.games, g)
	p.mu.Unlock()
	return p.AddEnvironment(dfs.EnvironmentContext{
		GamePk:        g.GamePk,
		Venue:         g.Venue,
		Temperature:   dfs.NeutralTemperature,
		WindDirection: dfs.WindCalm,
		Outdoor:       true,
		Known:         true,
	})
}

func (p *Provider) AddLink(playerID int64, link dfs.SiteLink) *Provider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.links[playerID] = &link
	return p
}

func (p *Provider) GetBatterStats(_ context.Context, id int64, season int) (dfs.BatterStats, error) {
	p.record("GetBatterStats")
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.batters[seasonKey{id, season}]
	if !ok {
		return dfs.BatterStats{}, fmt.Errorf("batter %d season %d: %w", id, season, dfs.ErrNotFound)
	}
	return s, nil
}

func (p *Provider) GetPitcherStats(_ context.Context, id int64, season int) (dfs.PitcherStats, error) {
	p.record("GetPitcherStats")
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.pitchers[seasonKey{id, season}]
	if !ok {
		return dfs.PitcherStats{}, fmt.Errorf("pitcher %d season %d: %w", id, season, dfs.ErrNotFound)
	}
	return s, nil
}

func (p *Provider) GetTeamStats(_ context.Context, teamID int, season int) (dfs.TeamStats, error) {
	p.record("GetTeamStats")
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.teams[seasonKey{int64(teamID), season}]
	if !ok {
		return dfs.TeamStats{}, fmt.Errorf("team %d season %d: %w", teamID, season, dfs.ErrNotFound)
	}
	return s, nil
}

func (p *Provider) GetCatcherDefense(_ context.Context, catcherID int64, _ int) (dfs.CatcherDefense, error) {
	p.record("GetCatcherDefense")
	p.mu.Lock()
	defer p.mu.Unlock()
	c, ok := p.catchers[catcherID]
	if !ok {
		return dfs.CatcherDefense{}, fmt.Errorf("catcher %d: %w", catcherID, dfs.ErrNotFound)
	}
	return c, nil
}

func (p *Provider) GetMatchupData(_ context.Context, batterID, pitcherID int64) (*dfs.MatchupRecord, error) {
	p.record("GetMatchupData")
	p.mu.Lock()
	defer p.mu.Unlock()
	m, ok := p.matchups[[2]int64{batterID, pitcherID}]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (p *Provider) GetBallparkFactors(_ context.Context, venueID int, _ int) (dfs.BallparkFactor, error) {
	p.record("GetBallparkFactors")
	p.mu.Lock()
	defer p.mu.Unlock()
	f, ok := p.parks[venueID]
	if !ok {
		return dfs.BallparkFactor{}, fmt.Errorf("venue %d: %w", venueID, dfs.ErrNotFound)
	}
	return f, nil
}

func (p *Provider) GetGameEnvironmentData(_ context.Context, game dfs.GameRef) (*dfs.EnvironmentContext, error) {
	p.record("GetGameEnvironmentData")
	p.mu.Lock()
	defer p.mu.Unlock()
	env, ok := p.envs[game.GamePk]
	if !ok {
		return nil, fmt.Errorf("game %d: %w", game.GamePk, dfs.ErrProviderUnavailable)
	}
	copied := *env
	return &copied, nil
}

// RemoveEnvironment makes the game's environment lookup fail
func (p *Provider) RemoveEnvironment(gamePk int64) *Provider {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.envs, gamePk)
	return p
}

func (p *Provider) GetSlate(_ context.Context, _ time.Time) ([]dfs.Game, error) {
	p.record("GetSlate")
	if p.SlateErr != nil {
		return nil, p.SlateErr
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]dfs.Game(nil), p.games...), nil
}

func (p *Provider) MapPlayerToFantasySite(playerID int64, _, _ string) *dfs.SiteLink {
	p.mu.Lock()
	defer p.mu.Unlock()
	if l, ok := p.links[playerID]; ok {
		copied := *l
		return &copied
	}
	return nil
}

// HookTendency is neutral for every club
func (p *Provider) HookTendency(int) float64 { return 1.0 }
