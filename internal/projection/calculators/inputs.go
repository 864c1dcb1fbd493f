package calculators

import (
	"math"

	"github.com/jstittsworth/mlb-dfs-projections/internal/dfs"
)

// BatterInput is everything the batter calculators read, fetched once by the pipeline
type BatterInput struct {
	Player       dfs.PlayerIdentity
	Home         bool
	BattingOrder int // 1-9, 0 when unknown

	Stats           dfs.Observation[dfs.BatterStats]
	OpposingPitcher dfs.Observation[dfs.PitcherStats]
	PitcherHand     dfs.Handedness
	Matchup         dfs.Observation[dfs.MatchupRecord]
	Catcher         dfs.Observation[dfs.CatcherDefense]
	Team            dfs.Observation[dfs.TeamStats]
	Opponent        dfs.Observation[dfs.TeamStats]

	Park        dfs.BallparkFactor
	Environment dfs.EnvironmentContext
	Quality     dfs.QualityMetrics
}

// PitcherInput is everything the pitcher calculators read
type PitcherInput struct {
	Player dfs.PlayerIdentity
	Home   bool

	Stats    dfs.Observation[dfs.PitcherStats]
	Team     dfs.Observation[dfs.TeamStats]
	Opponent dfs.Observation[dfs.TeamStats]

	HookTendency float64 // 1.0 neutral
	Park         dfs.BallparkFactor
	Environment  dfs.EnvironmentContext
}

func (in BatterInput) stats() (dfs.BatterStats, error) {
	s, ok := in.Stats.Get()
	if !ok || s.AtBats < dfs.MinAtBats {
		return dfs.BatterStats{}, dfs.ErrNoData
	}
	return s.Derive(), nil
}

func (in PitcherInput) stats() (dfs.PitcherStats, error) {
	s, ok := in.Stats.Get()
	if !ok || s.InningsPitched <= 0 {
		return dfs.PitcherStats{}, dfs.ErrNoData
	}
	return s.Derive(), nil
}

func (in BatterInput) pitcher() (dfs.PitcherStats, bool) {
	s, ok := in.OpposingPitcher.Get()
	if !ok || s.InningsPitched <= 0 {
		return dfs.PitcherStats{}, false
	}
	return s.Derive(), true
}

func (in BatterInput) matchup() (dfs.MatchupRecord, bool) {
	m, ok := in.Matchup.Get()
	if !ok || m.AtBats <= 0 {
		return dfs.MatchupRecord{}, false
	}
	return m, true
}

// confidence applies the adjustments every batter calculator shares
func (in BatterInput) confidence(s dfs.BatterStats, extra float64) dfs.Confidence {
	c := float64(dfs.ConfidenceBase) + atBatSampleBoost(s.AtBats) + careerBoost(s.Seasons) + extra - in.Stats.Penalty()
	if in.BattingOrder < 1 || in.BattingOrder > 9 {
		c -= unknownOrderPenalty
	}
	return dfs.CapConfidence(dfs.Confidence(c))
}

// confidence applies the adjustments every pitcher calculator shares
func (in PitcherInput) confidence(s dfs.PitcherStats, extra float64) dfs.Confidence {
	c := float64(dfs.ConfidenceBase) + startSampleBoost(s) + careerBoost(s.Seasons) + extra - in.Stats.Penalty()
	return dfs.CapConfidence(dfs.Confidence(c))
}

const unknownOrderPenalty = 5

func atBatSampleBoost(ab int) float64 {
	switch {
	case ab >= 300:
		return 15
	case ab >= 150:
		return 10
	case ab < 50:
		return -15
	}
	return 0
}

// careerBoost rewards a longer track record; unknown history and rookies get nothing
func careerBoost(seasons int) float64 {
	if seasons <= 1 {
		return 0
	}
	return math.Min(float64(seasons-1)*careerSeasonBoost, maxCareerBoost)
}

const (
	careerSeasonBoost = 2
	maxCareerBoost    = 8
)

func startSampleBoost(s dfs.PitcherStats) float64 {
	switch {
	case s.GamesStarted >= 20 || s.InningsPitched >= 120:
		return 15
	case s.GamesStarted >= 8 || s.InningsPitched >= 45:
		return 10
	case s.InningsPitched < 15:
		return -15
	}
	return 0
}
