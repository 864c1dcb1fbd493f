package calculators

import (
	"math"

	"github.com/jstittsworth/mlb-dfs-projections/internal/dfs"
)

// Weather holds the game-condition multipliers
type Weather struct {
	HomeRuns   float64
	Runs       float64
	ExtraBases float64
}

// WeatherFactors converts game-time conditions into multipliers. Indoor and unknown
// conditions are neutral.
func WeatherFactors(env dfs.EnvironmentContext) Weather {
	w := Weather{HomeRuns: 1, Runs: 1, ExtraBases: 1}
	if !env.Known || !env.Outdoor {
		return w
	}

	tempDelta := (env.Temperature - dfs.NeutralTemperature) / 10
	w.HomeRuns += 0.025 * tempDelta
	w.Runs += 0.015 * tempDelta
	w.ExtraBases += 0.008 * tempDelta

	wind := math.Min(env.WindSpeed, 20)
	switch env.WindDirection {
	case dfs.WindOut:
		w.HomeRuns *= 1 + 0.01*wind
		w.Runs *= 1 + 0.006*wind
		w.ExtraBases *= 1 + 0.003*wind
	case dfs.WindIn:
		w.HomeRuns *= 1 - 0.01*wind
		w.Runs *= 1 - 0.006*wind
		w.ExtraBases *= 1 - 0.003*wind
	}

	w.HomeRuns = dfs.Clamp(w.HomeRuns, 0.75, 1.30)
	w.Runs = dfs.Clamp(w.Runs, 0.85, 1.20)
	w.ExtraBases = dfs.Clamp(w.ExtraBases, 0.90, 1.10)
	return w
}

// PlatoonFactor is the batter's edge against a pitcher's hand. A handedness split with a
// real sample is trusted in proportion to its size, otherwise the generic platoon table applies.
func PlatoonFactor(batSide, pitchHand dfs.Handedness, stats dfs.Observation[dfs.BatterStats]) float64 {
	if s, ok := stats.Get(); ok {
		s = s.Derive()
		if split := s.Split(pitchHand); split != nil && split.PlateAppearances >= 30 && s.OPS > 0 && split.OPS > 0 {
			ratio := dfs.Clamp(split.OPS/s.OPS, 0.85, 1.15)
			w := float64(split.PlateAppearances) / float64(split.PlateAppearances+100)
			return 1 + w*(ratio-1)
		}
	}

	switch {
	case pitchHand == dfs.HandUnknown || batSide == dfs.HandUnknown:
		return 1.0
	case batSide == dfs.HandSwitch:
		return 1.02
	case batSide != pitchHand:
		return 1.04
	case batSide == dfs.HandLeft:
		return 0.94
	default:
		return 0.97
	}
}

// HomeFactor is the home-field edge
func HomeFactor(home bool) float64 {
	if home {
		return 1.02
	}
	return 1.0
}

var plateAppearancesBySlot = [9]float64{4.65, 4.55, 4.45, 4.35, 4.25, 4.12, 4.00, 3.90, 3.80}

// ExpectedPlateAppearances returns the plate appearances a lineup slot gets in a typical game.
// Unknown slots get 4.0 and ok=false.
func ExpectedPlateAppearances(order int) (float64, bool) {
	if order < 1 || order > 9 {
		return defaultPlateAppearances, false
	}
	return plateAppearancesBySlot[order-1], true
}

// ExpectedAtBats converts plate appearances using the batter's own AB/PA share
func ExpectedAtBats(order int, stats dfs.BatterStats) float64 {
	pa, _ := ExpectedPlateAppearances(order)
	share := defaultAtBatShare
	if stats.PlateAppearances > 0 && stats.AtBats > 0 {
		share = dfs.Clamp(float64(stats.AtBats)/float64(stats.PlateAppearances), 0.75, 1.0)
	}
	return pa * share
}

// regress shrinks count/opportunities toward league with stabilization pseudo-opportunities
func regress(count, opportunities, league, stabilization float64) float64 {
	if opportunities <= 0 {
		return league
	}
	return (count + league*stabilization) / (opportunities + stabilization)
}

// regressPer9 regresses a per-nine-innings rate by innings pitched
func regressPer9(count int, ip, leaguePer9, stabilizationIP float64) float64 {
	return regress(float64(count), ip, leaguePer9/9, stabilizationIP) * 9
}

type weighted struct {
	weight float64
	factor float64
}

// blend combines multipliers centred on 1.0 as 1 + sum of w(f-1)
func blend(factors ...weighted) float64 {
	total := 1.0
	for _, wf := range factors {
		total += wf.weight * (wf.factor - 1)
	}
	return total
}

// gameProbability is the chance of at least one event over n trials at per-trial rate p
func gameProbability(p, n float64) float64 {
	if p <= 0 || n <= 0 {
		return 0
	}
	return 1 - math.Pow(1-math.Min(p, 1), n)
}

// pitcherRunFactor rates an opposing pitcher's run prevention against league, >1 is hittable
func pitcherRunFactor(p dfs.PitcherStats) float64 {
	return dfs.Clamp(runValue(p)/dfs.LeagueERA, 0.75, 1.30)
}

// runValue is a regressed ERA/FIP blend
func runValue(p dfs.PitcherStats) float64 {
	era := regressPer9(p.EarnedRuns, p.InningsPitched, dfs.LeagueERA, 50)
	fip := p.FIP
	if fip <= 0 {
		fip = dfs.LeagueFIP
	}
	w := p.InningsPitched / (p.InningsPitched + 50)
	fip = w*fip + (1-w)*dfs.LeagueFIP
	return 0.6*era + 0.4*fip
}

func teamOffenseFactor(team dfs.Observation[dfs.TeamStats]) float64 {
	t, ok := team.Get()
	if !ok || t.RunsPerGame <= 0 {
		return 1.0
	}
	return dfs.Clamp(t.RunsPerGame/dfs.LeagueRunsPerGame, 0.80, 1.25)
}
