package dfs

import (
	"strings"
	"time"
)

// Handedness is a batting side or throwing hand
type Handedness string

const (
	HandLeft    Handedness = "L"
	HandRight   Handedness = "R"
	HandSwitch  Handedness = "S"
	HandUnknown Handedness = ""
)

// ParseHandedness accepts the codes and descriptions used by the stats API ("L", "Left", "Switch")
func ParseHandedness(s string) Handedness {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "L", "LEFT":
		return HandLeft
	case "R", "RIGHT":
		return HandRight
	case "S", "B", "SWITCH", "BOTH":
		return HandSwitch
	default:
		return HandUnknown
	}
}

// Role distinguishes the two projection variants
type Role string

const (
	RoleBatter  Role = "batter"
	RolePitcher Role = "pitcher"
)

// PlayerIdentity is resolved once per game and never mutated afterwards
type PlayerIdentity struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Team      string     `json:"team"`
	TeamID    int        `json:"team_id"`
	BatSide   Handedness `json:"bat_side,omitempty"`
	PitchHand Handedness `json:"pitch_hand,omitempty"`
	Position  string     `json:"position"`
}

// TeamRef identifies a club on one side of a game
type TeamRef struct {
	ID           int    `json:"id"`
	Abbreviation string `json:"abbreviation"`
	Name         string `json:"name"`
}

// VenueRef identifies a ballpark
type VenueRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// GameRef is the game-level context carried on every analysis record
type GameRef struct {
	GamePk   int64     `json:"game_pk"`
	GameTime time.Time `json:"game_time"`
	Venue    VenueRef  `json:"venue"`
	Home     TeamRef   `json:"home"`
	Away     TeamRef   `json:"away"`
}

// LineupEntry is one batter in a confirmed or projected batting order
type LineupEntry struct {
	Player PlayerIdentity `json:"player"`
	Order  int            `json:"order"` // 1-9, 0 when unknown
}

// Game is one game of a slate with whatever lineup information is available
type Game struct {
	GameRef
	Season      int             `json:"season"`
	HomePitcher *PlayerIdentity `json:"home_pitcher,omitempty"`
	AwayPitcher *PlayerIdentity `json:"away_pitcher,omitempty"`
	HomeLineup  []LineupEntry   `json:"home_lineup"`
	AwayLineup  []LineupEntry   `json:"away_lineup"`
}

// Catcher returns the starting catcher of the given side's lineup, if listed
func (g Game) Catcher(home bool) *PlayerIdentity {
	lineup := g.AwayLineup
	if home {
		lineup = g.HomeLineup
	}
	for i := range lineup {
		if lineup[i].Player.Position == "C" {
			return &lineup[i].Player
		}
	}
	return nil
}

// Opponent returns the team facing the given side
func (g Game) Opponent(home bool) TeamRef {
	if home {
		return g.Away
	}
	return g.Home
}

// Team returns the given side's team
func (g Game) Team(home bool) TeamRef {
	if home {
		return g.Home
	}
	return g.Away
}

// SeasonFor returns the MLB season a calendar date belongs to
func SeasonFor(date time.Time) int {
	return date.Year()
}
