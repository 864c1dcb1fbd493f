package calculators

import (
	"github.com/jstittsworth/mlb-dfs-projections/internal/dfs"
)

// Clamp bands for batter rates
const (
	minSingleRate, maxSingleRate = 0.05, 0.30
	minDoubleRate, maxDoubleRate = 0.005, 0.10
	minTripleRate, maxTripleRate = 0.0, 0.03
	minHRProb, maxHRProb         = 0.001, 0.30
	minSBProb, maxSBProb         = 0.0, 0.60
	minWalkRate, maxWalkRate     = 0.02, 0.25
	minRunRate, maxRunRate       = 0.03, 0.25
)

// per-stat stabilization samples, in at-bats or plate appearances
const (
	singleStabilization = 300
	doubleStabilization = 600
	tripleStabilization = 800
	walkStabilization   = 120
	runStabilization    = 200
	hrStabilization     = 90
)

// HitTypes projects singles, doubles and triples
func HitTypes(in BatterInput) ([]dfs.CategoryResult, error) {
	s, err := in.stats()
	if err != nil {
		return nil, err
	}

	ab := ExpectedAtBats(in.BattingOrder, s)
	weather := WeatherFactors(in.Environment)
	platoon := PlatoonFactor(in.Player.BatSide, in.PitcherHand, in.Stats)
	home := HomeFactor(in.Home)

	pitcherHits := 1.0
	extra := 0.0
	if p, ok := in.pitcher(); ok {
		pitcherHits = dfs.Clamp(regressPer9(p.HitsAllowed, p.InningsPitched, dfs.LeagueHPer9, 50)/dfs.LeagueHPer9, 0.80, 1.20)
	} else {
		extra -= 5
	}

	matchup := 1.0
	if m, ok := in.matchup(); ok {
		avg := s.AVG
		if avg <= 0 {
			avg = dfs.LeagueAVG
		}
		matchup = dfs.Clamp(1+m.Weight()*(m.AVG()/avg-1), 0.80, 1.20)
		if m.Tier() == dfs.SampleLarge {
			extra += 5
		}
	}
	conf := in.confidence(s, extra)

	type hitType struct {
		category      dfs.Category
		count         int
		league        float64
		stabilization float64
		weather       float64
		lo, hi        float64
	}
	types := []hitType{
		{dfs.CategorySingles, s.Singles(), dfs.LeagueSingleRate, singleStabilization, 1.0, minSingleRate, maxSingleRate},
		{dfs.CategoryDoubles, s.Doubles, dfs.LeagueDoubleRate, doubleStabilization, weather.ExtraBases, minDoubleRate, maxDoubleRate},
		{dfs.CategoryTriples, s.Triples, dfs.LeagueTripleRate, tripleStabilization, weather.ExtraBases, minTripleRate, maxTripleRate},
	}

	results := make([]dfs.CategoryResult, 0, len(types))
	for _, ht := range types {
		base := regress(float64(ht.count), float64(s.AtBats), ht.league, ht.stabilization)
		park := in.Park.HitFactor(ht.category)
		rate := dfs.Clamp(base*pitcherHits*park*ht.weather*platoon*home*matchup, ht.lo, ht.hi)
		results = append(results, dfs.NewResult(ht.category, rate*ab, conf, map[string]float64{
			"base_rate": base,
			"rate":      rate,
			"at_bats":   ab,
			"pitcher":   pitcherHits,
			"park":      park,
			"weather":   ht.weather,
			"platoon":   platoon,
			"home":      home,
			"matchup":   matchup,
		}))
	}
	return results, nil
}

// HomeRunProbability projects the chance of at least one home run
func HomeRunProbability(in BatterInput) ([]dfs.CategoryResult, error) {
	s, err := in.stats()
	if err != nil {
		return nil, err
	}

	batter := batterPowerFactor(s)
	extra := 5.0
	if s.HasAdvanced() && s.Advanced.BarrelRate > 0 {
		barrel := dfs.Clamp(s.Advanced.BarrelRate/dfs.LeagueBarrelRate, 0.4, 2.5)
		batter = 0.6*batter + 0.4*barrel
		extra = 15
	}

	vulnerability := 1.0
	if v := HomeRunVulnerability(in.OpposingPitcher); !v.Defaulted {
		vulnerability = v.Factor
		extra -= in.OpposingPitcher.Penalty()
	}
	park := in.Park.HomeRunFactor(in.Player.BatSide)
	weather := WeatherFactors(in.Environment).HomeRuns
	platoon := PlatoonFactor(in.Player.BatSide, in.PitcherHand, in.Stats)

	matchup := 1.0
	if m, ok := in.matchup(); ok {
		rate := float64(s.HomeRuns) / float64(s.AtBats)
		if rate <= 0 {
			rate = dfs.LeagueHomeRunRate
		}
		matchup = dfs.Clamp(1+m.Weight()*(m.HomeRunRate()/rate-1), 0.70, 1.50)
		if m.Tier() == dfs.SampleLarge {
			extra += 5
		}
	}

	adjustment := blend(
		weighted{0.30, vulnerability},
		weighted{0.25, park},
		weighted{0.15, weather},
		weighted{0.15, platoon},
		weighted{0.15, matchup},
	)
	perAB := dfs.LeagueHomeRunRate * batter * adjustment
	ab := ExpectedAtBats(in.BattingOrder, s)
	prob := dfs.Clamp(gameProbability(perAB, ab), minHRProb, maxHRProb)

	return []dfs.CategoryResult{dfs.NewResult(dfs.CategoryHomeRuns, prob, in.confidence(s, extra), map[string]float64{
		"batter":        batter,
		"vulnerability": vulnerability,
		"park":          park,
		"weather":       weather,
		"platoon":       platoon,
		"matchup":       matchup,
		"per_ab":        perAB,
		"at_bats":       ab,
	})}, nil
}

// batterPowerFactor is HR/AB against league, regressed by sample: 30 HR in 500 AB gives about 1.85
func batterPowerFactor(s dfs.BatterStats) float64 {
	if s.AtBats <= 0 {
		return 1.0
	}
	ratio := float64(s.HomeRuns) / float64(s.AtBats) / dfs.LeagueHomeRunRate
	reliability := float64(s.AtBats) / float64(s.AtBats+hrStabilization)
	return 1 + (ratio-1)*reliability
}

const defaultStolenBaseProbability = 0.06

// StolenBaseProbability projects stolen bases from opportunities, attempt and success rates
// and the opposing battery
func StolenBaseProbability(in BatterInput) ([]dfs.CategoryResult, error) {
	s, err := in.stats()
	if err != nil {
		return nil, err
	}

	pa, _ := ExpectedPlateAppearances(in.BattingOrder)
	abShare := float64(s.AtBats) / float64(s.PlateAppearances)
	leagueOnFirst := dfs.LeagueSingleRate*abShare + dfs.LeagueWalkRate + dfs.LeagueHBPRate
	onFirst := regress(float64(s.TimesOnFirst()), float64(s.PlateAppearances), leagueOnFirst, 100) * pa

	attempts := s.StolenBases + s.CaughtStealing
	attemptRate := regress(float64(attempts), float64(s.TimesOnFirst()), dfs.LeagueSBAttemptRate, 40)
	successRate := regress(float64(s.StolenBases), float64(attempts), dfs.LeagueSBSuccessRate, 20)

	extra := 0.0
	catcher := 1.0
	if c, ok := in.Catcher.Get(); ok {
		if cs, ok := c.CaughtStealingRate(); ok {
			catcher = dfs.Clamp(1-(cs-dfs.LeagueCaughtStealing)*1.5, 0.70, 1.30)
		}
	} else {
		extra -= 5
	}

	hold := 1.0
	if in.PitcherHand == dfs.HandLeft {
		hold = 0.85
	}

	speed := 1.0
	switch {
	case s.Advanced != nil && s.Advanced.SprintSpeed > 0:
		speed = dfs.Clamp(1+(s.Advanced.SprintSpeed-dfs.LeagueSprintSpeed)*0.12, 0.50, 1.60)
		extra += 10
	case !in.Quality.Defaulted:
		speed = 0.5 + dfs.Clamp(in.Quality.Speed, 0, 1)
	}

	adjustment := blend(
		weighted{0.35, catcher},
		weighted{0.25, hold},
		weighted{0.40, speed},
	)
	base := onFirst * attemptRate * successRate
	prob := dfs.Clamp(base*adjustment, minSBProb, maxSBProb)

	return []dfs.CategoryResult{dfs.NewResult(dfs.CategoryStolenBases, prob, in.confidence(s, extra), map[string]float64{
		"times_on_first": onFirst,
		"attempt_rate":   attemptRate,
		"success_rate":   successRate,
		"catcher":        catcher,
		"pitcher_hold":   hold,
		"speed":          speed,
	})}, nil
}

var (
	runSlotFactor = [9]float64{1.10, 1.08, 1.05, 1.00, 0.97, 0.95, 0.93, 0.92, 0.95}
	rbiSlotFactor = [9]float64{0.85, 0.95, 1.08, 1.12, 1.08, 1.02, 0.97, 0.93, 0.90}
)

// RunProduction projects runs and RBIs, weighted by lineup position
func RunProduction(in BatterInput) ([]dfs.CategoryResult, error) {
	s, err := in.stats()
	if err != nil {
		return nil, err
	}

	pa, _ := ExpectedPlateAppearances(in.BattingOrder)
	runSlot, rbiSlot := 1.0, 1.0
	if in.BattingOrder >= 1 && in.BattingOrder <= 9 {
		runSlot = runSlotFactor[in.BattingOrder-1]
		rbiSlot = rbiSlotFactor[in.BattingOrder-1]
	}

	team := teamOffenseFactor(in.Team)
	park := in.Park.RunFactor()
	weather := WeatherFactors(in.Environment).Runs

	extra := 0.0
	pitcher := 1.0
	if p, ok := in.pitcher(); ok {
		pitcher = pitcherRunFactor(p)
	} else {
		extra -= 5
	}
	if in.Team.IsMissing() {
		extra -= 5
	}
	conf := in.confidence(s, extra)

	shared := team * park * weather * pitcher
	runBase := regress(float64(s.Runs), float64(s.PlateAppearances), dfs.LeagueRunRate, runStabilization)
	rbiBase := regress(float64(s.RBI), float64(s.PlateAppearances), dfs.LeagueRBIRate, runStabilization)
	runRate := dfs.Clamp(runBase*runSlot*shared, minRunRate, maxRunRate)
	rbiRate := dfs.Clamp(rbiBase*rbiSlot*shared, minRunRate, maxRunRate)

	factors := func(base, slot, rate float64) map[string]float64 {
		return map[string]float64{
			"base_rate":         base,
			"slot":              slot,
			"team_offense":      team,
			"park":              park,
			"weather":           weather,
			"pitcher":           pitcher,
			"rate":              rate,
			"plate_appearances": pa,
		}
	}
	return []dfs.CategoryResult{
		dfs.NewResult(dfs.CategoryRuns, runRate*pa, conf, factors(runBase, runSlot, runRate)),
		dfs.NewResult(dfs.CategoryRBIs, rbiRate*pa, conf, factors(rbiBase, rbiSlot, rbiRate)),
	}, nil
}

// PlateDiscipline projects walks plus hit-by-pitch
func PlateDiscipline(in BatterInput) ([]dfs.CategoryResult, error) {
	s, err := in.stats()
	if err != nil {
		return nil, err
	}

	pa, _ := ExpectedPlateAppearances(in.BattingOrder)
	base := regress(float64(s.Walks+s.HitByPitch), float64(s.PlateAppearances), dfs.LeagueWalkRate+dfs.LeagueHBPRate, walkStabilization)

	extra := 0.0
	control := 1.0
	if p, ok := in.pitcher(); ok {
		control = dfs.Clamp(regressPer9(p.Walks, p.InningsPitched, dfs.LeagueBBPer9, 60)/dfs.LeagueBBPer9, 0.70, 1.40)
	} else {
		extra -= 5
	}
	home := HomeFactor(in.Home)
	rate := dfs.Clamp(base*control*home, minWalkRate, maxWalkRate)

	return []dfs.CategoryResult{dfs.NewResult(dfs.CategoryWalks, rate*pa, in.confidence(s, extra), map[string]float64{
		"base_rate":         base,
		"pitcher_control":   control,
		"home":              home,
		"rate":              rate,
		"plate_appearances": pa,
	})}, nil
}
