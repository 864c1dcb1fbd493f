package quality

import (
	"github.com/jstittsworth/mlb-dfs-projections/internal/dfs"
)

const (
	defaultScore       = 0.3
	defaultConsistency = 30.0
)

// Defaults are the metrics reported when a batter has no usable sample
func Defaults() dfs.QualityMetrics {
	return dfs.QualityMetrics{
		BattedBallQuality: defaultScore,
		Power:             defaultScore,
		ContactRate:       defaultScore,
		PlateApproach:     defaultScore,
		Speed:             defaultScore,
		Consistency:       defaultConsistency,
		Defaulted:         true,
	}
}

// scale maps v linearly from [lo, hi] onto [0, 1]
func scale(v, lo, hi float64) float64 {
	return dfs.Clamp((v-lo)/(hi-lo), 0, 1)
}

func ratio(num, den int) float64 {
	if den <= 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// Calculate derives the 0-1 quality scores (consistency 0-100) from a season line
func Calculate(stats dfs.Observation[dfs.BatterStats]) dfs.QualityMetrics {
	s, ok := stats.Get()
	if !ok || s.AtBats < dfs.MinAtBats {
		return Defaults()
	}
	s = s.Derive()

	hrRate := ratio(s.HomeRuns, s.AtBats)
	bbPerK := 1.0
	if s.Strikeouts > 0 {
		bbPerK = float64(s.Walks) / float64(s.Strikeouts)
	}

	speed := 0.5*scale(ratio(s.StolenBases+s.CaughtStealing, s.TimesOnFirst()), 0, 0.15) +
		0.5*scale(ratio(s.Triples, s.Doubles+s.Triples), 0, 0.15)
	if s.Advanced != nil && s.Advanced.SprintSpeed > 0 {
		speed = 0.5*scale(s.Advanced.SprintSpeed, 25, 30) +
			0.5*scale(ratio(s.Triples, s.Doubles+s.Triples), 0, 0.15)
	}

	return dfs.QualityMetrics{
		BattedBallQuality: 0.6*scale(s.BABIP, 0.250, 0.350) + 0.4*scale(s.ISO, 0.100, 0.300),
		Power:             0.5*scale(s.ISO, 0.100, 0.300) + 0.5*scale(hrRate, 0.010, 0.070),
		ContactRate:       0.7*(1-scale(s.KRate, 0.10, 0.35)) + 0.3*scale(s.AVG, 0.200, 0.320),
		PlateApproach:     0.6*scale(s.BBRate, 0.04, 0.15) + 0.4*scale(bbPerK, 0.20, 1.00),
		Speed:             speed,
		Consistency:       100 * (0.5*scale(float64(s.PlateAppearances), 100, 600) + 0.5*scale(s.OBP, 0.280, 0.400)),
	}
}
