// Package mlbstats reads player, team, schedule and weather data from the public MLB Stats API.
package mlbstats

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/mlb-dfs-projections/internal/dfs"
	"github.com/jstittsworth/mlb-dfs-projections/internal/providers"
	"github.com/jstittsworth/mlb-dfs-projections/internal/reference"
)

// Config holds the API locations and cache lifetimes
type Config struct {
	BaseURL     string
	LiveBaseURL string
	StatsTTL    time.Duration
	GameTTL     time.Duration
}

// Client implements dfs.StatProvider, dfs.ScheduleProvider and dfs.EnvironmentProvider
type Client struct {
	api    *providers.Client
	cfg    Config
	teams  *reference.Registry
	logger *logrus.Logger
}

// NewClient creates a Stats API client on top of a guarded HTTP client
func NewClient(api *providers.Client, cfg Config, teams *reference.Registry, logger *logrus.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://statsapi.mlb.com/api/v1"
	}
	if cfg.LiveBaseURL == "" {
		cfg.LiveBaseURL = "https://statsapi.mlb.com/api/v1.1"
	}
	if cfg.StatsTTL <= 0 {
		cfg.StatsTTL = 6 * time.Hour
	}
	if cfg.GameTTL <= 0 {
		cfg.GameTTL = 15 * time.Minute
	}
	return &Client{api: api, cfg: cfg, teams: teams, logger: logger}
}

// GetBatterStats returns the season hitting line with platoon splits
func (c *Client) GetBatterStats(ctx context.Context, playerID int64, season int) (dfs.BatterStats, error) {
	url := fmt.Sprintf("%s/people/%d?hydrate=stats(group=[hitting],type=[season,statSplits,yearByYear],sitCodes=[vl,vr],season=%d)", c.cfg.BaseURL, playerID, season)
	key := fmt.Sprintf("mlb:batter:%d:%d", playerID, season)

	var resp personResponse
	if err := c.api.GetJSON(ctx, url, key, c.cfg.StatsTTL, &resp); err != nil {
		return dfs.BatterStats{}, fmt.Errorf("batter %d: %w", playerID, err)
	}
	if len(resp.People) == 0 {
		return dfs.BatterStats{}, fmt.Errorf("batter %d: %w", playerID, dfs.ErrNotFound)
	}

	groups := resp.People[0].Stats
	split, ok := seasonSplit(groups, "season")
	if !ok {
		return dfs.BatterStats{}, fmt.Errorf("batter %d season %d: %w", playerID, season, dfs.ErrNoData)
	}
	var st hittingStat
	if err := decodeStat(split, &st); err != nil {
		return dfs.BatterStats{}, fmt.Errorf("batter %d: %w", playerID, err)
	}

	stats := battingLine(st)
	stats.Season = season
	stats.Seasons = careerSeasons(groups, season)
	for _, g := range groups {
		if g.Type.DisplayName != "statSplits" {
			continue
		}
		for _, s := range g.Splits {
			if s.Split == nil {
				continue
			}
			var line hittingStat
			if err := decodeStat(s, &line); err != nil {
				continue
			}
			switch s.Split.Code {
			case "vl":
				stats.VsLeft = splitLine(line)
			case "vr":
				stats.VsRight = splitLine(line)
			}
		}
	}
	return stats, nil
}

// GetPitcherStats returns the season pitching line and throwing hand
func (c *Client) GetPitcherStats(ctx context.Context, playerID int64, season int) (dfs.PitcherStats, error) {
	url := fmt.Sprintf("%s/people/%d?hydrate=stats(group=[pitching],type=[season,yearByYear],season=%d)", c.cfg.BaseURL, playerID, season)
	key := fmt.Sprintf("mlb:pitcher:%d:%d", playerID, season)

	var resp personResponse
	if err := c.api.GetJSON(ctx, url, key, c.cfg.StatsTTL, &resp); err != nil {
		return dfs.PitcherStats{}, fmt.Errorf("pitcher %d: %w", playerID, err)
	}
	if len(resp.People) == 0 {
		return dfs.PitcherStats{}, fmt.Errorf("pitcher %d: %w", playerID, dfs.ErrNotFound)
	}

	p := resp.People[0]
	split, ok := seasonSplit(p.Stats, "season")
	if !ok {
		// a pitcher with no appearances yet is a valid empty season, not a failure
		return dfs.PitcherStats{Season: season, Seasons: careerSeasons(p.Stats, season), Hand: dfs.ParseHandedness(p.PitchHand.Code)}, nil
	}
	var st pitchingStat
	if err := decodeStat(split, &st); err != nil {
		return dfs.PitcherStats{}, fmt.Errorf("pitcher %d: %w", playerID, err)
	}

	stats := pitchingLine(st)
	stats.Season = season
	stats.Seasons = careerSeasons(p.Stats, season)
	stats.Hand = dfs.ParseHandedness(p.PitchHand.Code)
	return stats, nil
}

// GetTeamStats combines the club's season hitting and pitching totals. Bullpen ERA comes from
// the relief-pitcher split, or from the team line less the starters when only that is reported.
func (c *Client) GetTeamStats(ctx context.Context, teamID int, season int) (dfs.TeamStats, error) {
	url := fmt.Sprintf("%s/teams/%d/stats?stats=season,statSplits&group=hitting,pitching&sitCodes=sp,rp&season=%d", c.cfg.BaseURL, teamID, season)
	key := fmt.Sprintf("mlb:team:%d:%d", teamID, season)

	var resp statsResponse
	if err := c.api.GetJSON(ctx, url, key, c.cfg.StatsTTL, &resp); err != nil {
		return dfs.TeamStats{}, fmt.Errorf("team %d: %w", teamID, err)
	}

	ts := dfs.TeamStats{TeamID: teamID, Season: season}
	var (
		found                      bool
		staff, starters, relievers *pitchingStat
	)
	for _, g := range resp.Stats {
		if len(g.Splits) == 0 {
			continue
		}
		if g.Type.DisplayName == "statSplits" {
			if g.Group.DisplayName == "pitching" {
				starters, relievers = roleSplits(g.Splits)
			}
			continue
		}
		switch g.Group.DisplayName {
		case "hitting":
			var h hittingStat
			if err := decodeStat(g.Splits[0], &h); err != nil {
				return dfs.TeamStats{}, fmt.Errorf("team %d: %w", teamID, err)
			}
			ts.GamesPlayed = h.GamesPlayed
			ts.OPS = float64(h.OPS)
			if h.GamesPlayed > 0 {
				ts.RunsPerGame = float64(h.Runs) / float64(h.GamesPlayed)
			}
			if h.PlateAppearances > 0 {
				ts.StrikeoutRate = float64(h.StrikeOuts) / float64(h.PlateAppearances)
			}
			found = true
		case "pitching":
			var p pitchingStat
			if err := decodeStat(g.Splits[0], &p); err != nil {
				return dfs.TeamStats{}, fmt.Errorf("team %d: %w", teamID, err)
			}
			ts.Wins = p.Wins
			ts.Losses = p.Losses
			staff = &p
			found = true
		}
	}
	if !found {
		return dfs.TeamStats{}, fmt.Errorf("team %d season %d: %w", teamID, season, dfs.ErrNoData)
	}
	ts.BullpenERA = bullpenERA(staff, starters, relievers)
	return ts, nil
}

func roleSplits(splits []statSplit) (starters, relievers *pitchingStat) {
	for _, s := range splits {
		if s.Split == nil {
			continue
		}
		var p pitchingStat
		if err := decodeStat(s, &p); err != nil {
			continue
		}
		switch s.Split.Code {
		case "sp":
			starters = &p
		case "rp":
			relievers = &p
		}
	}
	return starters, relievers
}

// bullpenERA is 0 when relief innings cannot be determined
func bullpenERA(staff, starters, relievers *pitchingStat) float64 {
	if relievers != nil {
		if relievers.InningsPitched > 0 {
			return 9 * float64(relievers.EarnedRuns) / float64(relievers.InningsPitched)
		}
		if relievers.ERA > 0 {
			return float64(relievers.ERA)
		}
	}
	if staff == nil || starters == nil {
		return 0
	}
	ip := float64(staff.InningsPitched - starters.InningsPitched)
	if ip <= 0 {
		return 0
	}
	return 9 * float64(staff.EarnedRuns-starters.EarnedRuns) / ip
}

// GetCatcherDefense sums the running-game record from the player's games at catcher
func (c *Client) GetCatcherDefense(ctx context.Context, catcherID int64, season int) (dfs.CatcherDefense, error) {
	url := fmt.Sprintf("%s/people/%d/stats?stats=season&group=fielding&season=%d", c.cfg.BaseURL, catcherID, season)
	key := fmt.Sprintf("mlb:catcher:%d:%d", catcherID, season)

	var resp statsResponse
	if err := c.api.GetJSON(ctx, url, key, c.cfg.StatsTTL, &resp); err != nil {
		return dfs.CatcherDefense{}, fmt.Errorf("catcher %d: %w", catcherID, err)
	}

	// a catcher who changed clubs has a combined split plus one per team
	var combined, perTeam []statSplit
	for _, g := range resp.Stats {
		for _, s := range g.Splits {
			if s.Position == nil || s.Position.Abbreviation != "C" {
				continue
			}
			if s.Team == nil {
				combined = append(combined, s)
			} else {
				perTeam = append(perTeam, s)
			}
		}
	}
	splits := combined
	if len(splits) == 0 {
		splits = perTeam
	}
	if len(splits) == 0 {
		return dfs.CatcherDefense{}, fmt.Errorf("catcher %d season %d: %w", catcherID, season, dfs.ErrNoData)
	}

	def := dfs.CatcherDefense{CatcherID: catcherID}
	for _, s := range splits {
		var f fieldingStat
		if err := decodeStat(s, &f); err != nil {
			return dfs.CatcherDefense{}, fmt.Errorf("catcher %d: %w", catcherID, err)
		}
		def.StolenBasesAllowed += f.StolenBases
		def.CaughtStealing += f.CaughtStealing
	}
	return def, nil
}

// GetMatchupData returns the career head-to-head line, nil when the two have never met
func (c *Client) GetMatchupData(ctx context.Context, batterID, pitcherID int64) (*dfs.MatchupRecord, error) {
	url := fmt.Sprintf("%s/people/%d/stats?stats=vsPlayer&group=hitting&opposingPlayerId=%d", c.cfg.BaseURL, batterID, pitcherID)
	key := fmt.Sprintf("mlb:matchup:%d:%d", batterID, pitcherID)

	var resp statsResponse
	if err := c.api.GetJSON(ctx, url, key, c.cfg.StatsTTL, &resp); err != nil {
		return nil, fmt.Errorf("matchup %d vs %d: %w", batterID, pitcherID, err)
	}

	split, ok := seasonSplit(resp.Stats, "vsPlayerTotal")
	if !ok {
		return nil, nil
	}
	var h hittingStat
	if err := decodeStat(split, &h); err != nil {
		return nil, fmt.Errorf("matchup %d vs %d: %w", batterID, pitcherID, err)
	}
	return &dfs.MatchupRecord{
		BatterID:   batterID,
		PitcherID:  pitcherID,
		AtBats:     h.AtBats,
		Hits:       h.Hits,
		HomeRuns:   h.HomeRuns,
		Walks:      h.BaseOnBalls,
		Strikeouts: h.StrikeOuts,
		OPS:        float64(h.OPS),
	}, nil
}

// seasonSplit finds the stat group of the given type and picks its combined split. Players who
// changed teams have one split per club plus a combined split without a team.
func seasonSplit(groups []statGroup, statType string) (statSplit, bool) {
	for _, g := range groups {
		if g.Type.DisplayName != statType || len(g.Splits) == 0 {
			continue
		}
		for _, s := range g.Splits {
			if s.Team == nil {
				return s, true
			}
		}
		return g.Splits[0], true
	}
	return statSplit{}, false
}

// careerSeasons counts the distinct years in the yearByYear group up to and including season.
// A traded player has one split per club in the same year.
func careerSeasons(groups []statGroup, season int) int {
	years := make(map[int]struct{})
	for _, g := range groups {
		if g.Type.DisplayName != "yearByYear" {
			continue
		}
		for _, s := range g.Splits {
			year, err := strconv.Atoi(s.Season)
			if err != nil || year > season {
				continue
			}
			years[year] = struct{}{}
		}
	}
	return len(years)
}

func decodeStat(s statSplit, dest interface{}) error {
	if len(s.Stat) == 0 {
		return fmt.Errorf("split without stat block: %w", dfs.ErrShapeMismatch)
	}
	if err := json.Unmarshal(s.Stat, dest); err != nil {
		return fmt.Errorf("%w: %v", dfs.ErrShapeMismatch, err)
	}
	return nil
}

func battingLine(st hittingStat) dfs.BatterStats {
	return dfs.BatterStats{
		GamesPlayed:      st.GamesPlayed,
		PlateAppearances: st.PlateAppearances,
		AtBats:           st.AtBats,
		Hits:             st.Hits,
		Doubles:          st.Doubles,
		Triples:          st.Triples,
		HomeRuns:         st.HomeRuns,
		Runs:             st.Runs,
		RBI:              st.RBI,
		Walks:            st.BaseOnBalls,
		Strikeouts:       st.StrikeOuts,
		StolenBases:      st.StolenBases,
		CaughtStealing:   st.CaughtStealing,
		HitByPitch:       st.HitByPitch,
		SacFlies:         st.SacFlies,
		AVG:              float64(st.AVG),
		OBP:              float64(st.OBP),
		SLG:              float64(st.SLG),
		OPS:              float64(st.OPS),
		BABIP:            float64(st.BABIP),
	}
}

func splitLine(st hittingStat) *dfs.SplitStats {
	return &dfs.SplitStats{
		PlateAppearances: st.PlateAppearances,
		AtBats:           st.AtBats,
		Hits:             st.Hits,
		HomeRuns:         st.HomeRuns,
		AVG:              float64(st.AVG),
		OBP:              float64(st.OBP),
		SLG:              float64(st.SLG),
		OPS:              float64(st.OPS),
	}
}

func pitchingLine(st pitchingStat) dfs.PitcherStats {
	return dfs.PitcherStats{
		GamesPlayed:     st.GamesPlayed,
		GamesStarted:    st.GamesStarted,
		InningsPitched:  float64(st.InningsPitched),
		Wins:            st.Wins,
		Losses:          st.Losses,
		EarnedRuns:      st.EarnedRuns,
		HitsAllowed:     st.Hits,
		HomeRunsAllowed: st.HomeRuns,
		Walks:           st.BaseOnBalls,
		Strikeouts:      st.StrikeOuts,
		HitBatsmen:      st.HitBatsmen,
		CompleteGames:   st.CompleteGames,
		Shutouts:        st.Shutouts,
		BattersFaced:    st.BattersFaced,
		ERA:             float64(st.ERA),
		WHIP:            float64(st.WHIP),
		KPer9:           float64(st.StrikeoutsPer9),
		BBPer9:          float64(st.WalksPer9),
		HRPer9:          float64(st.HomeRunsPer9),
		HPer9:           float64(st.HitsPer9),
	}
}
