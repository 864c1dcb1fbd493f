package dfs

import "strings"

// WindDirection is wind relative to the field
type WindDirection string

const (
	WindOut     WindDirection = "out"
	WindIn      WindDirection = "in"
	WindCross   WindDirection = "cross"
	WindCalm    WindDirection = "calm"
	WindUnknown WindDirection = "unknown"
)

// ParseWindDirection understands the stats API wind strings ("Out To CF", "In From LF", "L To R", "None")
func ParseWindDirection(s string) WindDirection {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == "":
		return WindUnknown
	case strings.HasPrefix(s, "out"):
		return WindOut
	case strings.HasPrefix(s, "in"):
		return WindIn
	case s == "none" || s == "calm":
		return WindCalm
	case strings.Contains(s, " to ") || s == "varies":
		return WindCross
	default:
		return WindUnknown
	}
}

// Neutral game-time conditions
const (
	NeutralTemperature = 72.0
)

// EnvironmentContext is derived once per game and shared read-only by all calculators
type EnvironmentContext struct {
	GamePk        int64         `json:"game_pk"`
	Venue         VenueRef      `json:"venue"`
	Temperature   float64       `json:"temperature"` // fahrenheit
	WindSpeed     float64       `json:"wind_speed"`  // mph
	WindDirection WindDirection `json:"wind_direction"`
	Outdoor       bool          `json:"outdoor"`
	Condition     string        `json:"condition,omitempty"`
	Known         bool          `json:"known"`
}

// UnknownEnvironment is the neutral sentinel used when conditions were not reported
func UnknownEnvironment(gamePk int64, venue VenueRef) EnvironmentContext {
	return EnvironmentContext{
		GamePk:        gamePk,
		Venue:         venue,
		Temperature:   NeutralTemperature,
		WindSpeed:     0,
		WindDirection: WindUnknown,
		Outdoor:       true,
		Known:         false,
	}
}

// IndoorEnvironment is a closed-roof game
func IndoorEnvironment(gamePk int64, venue VenueRef) EnvironmentContext {
	return EnvironmentContext{
		GamePk:        gamePk,
		Venue:         venue,
		Temperature:   NeutralTemperature,
		WindDirection: WindCalm,
		Outdoor:       false,
		Condition:     "Roof Closed",
		Known:         true,
	}
}

// BallparkFactor holds per-venue multipliers, 1.0 being neutral
type BallparkFactor struct {
	VenueID     int     `json:"venue_id"`
	Season      int     `json:"season"`
	Runs        float64 `json:"runs"`
	Singles     float64 `json:"singles"`
	Doubles     float64 `json:"doubles"`
	Triples     float64 `json:"triples"`
	HomeRuns    float64 `json:"home_runs"`
	HomeRunsLHB float64 `json:"home_runs_lhb"`
	HomeRunsRHB float64 `json:"home_runs_rhb"`
	Known       bool    `json:"known"`
}

// NeutralBallpark is the sentinel used when a venue has no factors on file
func NeutralBallpark(venueID int) BallparkFactor {
	return BallparkFactor{
		VenueID:     venueID,
		Runs:        1.0,
		Singles:     1.0,
		Doubles:     1.0,
		Triples:     1.0,
		HomeRuns:    1.0,
		HomeRunsLHB: 1.0,
		HomeRunsRHB: 1.0,
	}
}

// HomeRunFactor returns the handedness-specific HR factor when one is on file.
// Switch hitters take the average of both sides.
func (b BallparkFactor) HomeRunFactor(batSide Handedness) float64 {
	pick := func(v float64) float64 {
		if v > 0 {
			return v
		}
		return orNeutral(b.HomeRuns)
	}
	switch batSide {
	case HandLeft:
		return pick(b.HomeRunsLHB)
	case HandRight:
		return pick(b.HomeRunsRHB)
	case HandSwitch:
		return (pick(b.HomeRunsLHB) + pick(b.HomeRunsRHB)) / 2
	}
	return orNeutral(b.HomeRuns)
}

// HitFactor returns the factor for a hit category
func (b BallparkFactor) HitFactor(c Category) float64 {
	switch c {
	case CategorySingles:
		return orNeutral(b.Singles)
	case CategoryDoubles:
		return orNeutral(b.Doubles)
	case CategoryTriples:
		return orNeutral(b.Triples)
	case CategoryHomeRuns:
		return orNeutral(b.HomeRuns)
	}
	return 1.0
}

// RunFactor returns the run-scoring factor
func (b BallparkFactor) RunFactor() float64 {
	return orNeutral(b.Runs)
}

func orNeutral(v float64) float64 {
	if v <= 0 {
		return 1.0
	}
	return v
}
