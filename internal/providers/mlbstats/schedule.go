package mlbstats

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/mlb-dfs-projections/internal/dfs"
)

// game types that never count for fantasy contests
var skippedGameTypes = map[string]bool{
	"S": true, // spring training
	"E": true, // exhibition
	"A": true, // all-star
}

var skippedStates = map[string]bool{
	"Postponed": true,
	"Cancelled": true,
	"Suspended": true,
}

// GetSlate returns every playable game on date with probable pitchers and posted lineups
func (c *Client) GetSlate(ctx context.Context, date time.Time) ([]dfs.Game, error) {
	day := date.Format("2006-01-02")
	url := fmt.Sprintf("%s/schedule?sportId=1&date=%s&hydrate=probablePitcher,lineups,venue,weather,team", c.cfg.BaseURL, day)
	key := fmt.Sprintf("mlb:schedule:%s", day)

	var resp scheduleResponse
	if err := c.api.GetJSON(ctx, url, key, c.cfg.GameTTL, &resp); err != nil {
		return nil, fmt.Errorf("schedule %s: %w", day, err)
	}

	var games []dfs.Game
	for _, d := range resp.Dates {
		for _, g := range d.Games {
			if skippedGameTypes[g.GameType] || skippedStates[g.Status.DetailedState] {
				c.logger.WithFields(logrus.Fields{
					"game_pk": g.GamePk,
					"type":    g.GameType,
					"status":  g.Status.DetailedState,
				}).Debug("Skipping game")
				continue
			}
			games = append(games, c.toGame(g, date))
		}
	}
	return games, nil
}

func (c *Client) toGame(g scheduleGame, date time.Time) dfs.Game {
	gameTime, err := time.Parse(time.RFC3339, g.GameDate)
	if err != nil {
		gameTime = date
	}
	season, err := strconv.Atoi(g.Season)
	if err != nil {
		season = dfs.SeasonFor(date)
	}

	home := c.teamRef(g.Teams.Home)
	away := c.teamRef(g.Teams.Away)
	game := dfs.Game{
		GameRef: dfs.GameRef{
			GamePk:   g.GamePk,
			GameTime: gameTime,
			Venue:    dfs.VenueRef{ID: g.Venue.ID, Name: g.Venue.Name},
			Home:     home,
			Away:     away,
		},
		Season:      season,
		HomePitcher: probable(g.Teams.Home, home),
		AwayPitcher: probable(g.Teams.Away, away),
	}
	if g.Lineups != nil {
		game.HomeLineup = lineup(g.Lineups.HomePlayers, home)
		game.AwayLineup = lineup(g.Lineups.AwayPlayers, away)
	}
	return game
}

func (c *Client) teamRef(side scheduleSide) dfs.TeamRef {
	ref := dfs.TeamRef{
		ID:           side.Team.ID,
		Abbreviation: side.Team.Abbreviation,
		Name:         side.Team.Name,
	}
	if c.teams == nil {
		return ref
	}
	if t, ok := c.teams.Team(ref.ID); ok {
		ref.Abbreviation = t.Abbreviation
		if ref.Name == "" {
			ref.Name = t.Name
		}
		return ref
	}
	ref.Abbreviation = c.teams.Canonical(ref.Abbreviation)
	return ref
}

func probable(side scheduleSide, team dfs.TeamRef) *dfs.PlayerIdentity {
	p := side.ProbablePitcher
	if p == nil || p.ID == 0 {
		return nil
	}
	return &dfs.PlayerIdentity{
		ID:        p.ID,
		Name:      p.FullName,
		Team:      team.Abbreviation,
		TeamID:    team.ID,
		PitchHand: dfs.ParseHandedness(p.PitchHand.Code),
		Position:  "SP",
	}
}

func lineup(players []lineupPlayer, team dfs.TeamRef) []dfs.LineupEntry {
	out := make([]dfs.LineupEntry, 0, len(players))
	for i, p := range players {
		out = append(out, dfs.LineupEntry{
			Player: dfs.PlayerIdentity{
				ID:       p.ID,
				Name:     p.FullName,
				Team:     team.Abbreviation,
				TeamID:   team.ID,
				BatSide:  dfs.ParseHandedness(p.BatSide.Code),
				Position: p.PrimaryPosition.Abbreviation,
			},
			Order: i + 1,
		})
	}
	return out
}

// GetGameEnvironmentData reads game-time weather from the live feed. A feed without a
// weather report yields an unknown environment rather than an error.
func (c *Client) GetGameEnvironmentData(ctx context.Context, game dfs.GameRef) (*dfs.EnvironmentContext, error) {
	url := fmt.Sprintf("%s/game/%d/feed/live?fields=gameData,game,pk,venue,id,name,fieldInfo,roofType,weather,condition,temp,wind", c.cfg.LiveBaseURL, game.GamePk)
	key := fmt.Sprintf("mlb:weather:%d", game.GamePk)

	var feed liveFeed
	if err := c.api.GetJSON(ctx, url, key, c.cfg.GameTTL, &feed); err != nil {
		return nil, fmt.Errorf("game %d environment: %w", game.GamePk, err)
	}

	venue := game.Venue
	if venue.ID == 0 {
		venue = dfs.VenueRef{ID: feed.GameData.Venue.ID, Name: feed.GameData.Venue.Name}
	}
	env := ParseEnvironment(game.GamePk, venue, feed.GameData.Venue.FieldInfo.RoofType, feed.GameData.Weather.Condition, feed.GameData.Weather.Temp, feed.GameData.Weather.Wind)
	return &env, nil
}

// ParseEnvironment builds an environment from the feed's text fields, for example a temp
// of "72" and a wind of "8 mph, Out To CF".
func ParseEnvironment(gamePk int64, venue dfs.VenueRef, roofType, condition, temp, wind string) dfs.EnvironmentContext {
	if strings.EqualFold(roofType, "Dome") || strings.EqualFold(condition, "Dome") || strings.EqualFold(condition, "Roof Closed") {
		return dfs.IndoorEnvironment(gamePk, venue)
	}

	t, err := strconv.ParseFloat(strings.TrimSpace(temp), 64)
	if err != nil {
		return dfs.UnknownEnvironment(gamePk, venue)
	}
	speed, dir, err := ParseWind(wind)
	if err != nil {
		speed, dir = 0, dfs.WindUnknown
	}
	return dfs.EnvironmentContext{
		GamePk:        gamePk,
		Venue:         venue,
		Temperature:   t,
		WindSpeed:     speed,
		WindDirection: dir,
		Outdoor:       true,
		Condition:     condition,
		Known:         true,
	}
}

var errWindFormat = errors.New("unrecognised wind report")

// ParseWind splits "12 mph, In From LF" into a speed and a field-relative direction
func ParseWind(s string) (float64, dfs.WindDirection, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, dfs.WindUnknown, errWindFormat
	}
	speedPart, dirPart, _ := strings.Cut(s, ",")
	fields := strings.Fields(speedPart)
	if len(fields) == 0 {
		return 0, dfs.WindUnknown, errWindFormat
	}
	speed, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, dfs.WindUnknown, fmt.Errorf("%w: %q", errWindFormat, s)
	}

	dir := dfs.ParseWindDirection(dirPart)
	if speed == 0 {
		dir = dfs.WindCalm
	}
	return speed, dir, nil
}
