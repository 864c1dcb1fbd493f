package calculators

import (
	"math"

	"github.com/jstittsworth/mlb-dfs-projections/internal/dfs"
)

// Clamp bands for pitcher outputs
const (
	minKRate, maxKRate               = 0.10, 0.40
	minInnings, maxInnings           = 3.0, 7.5
	minTeamWin, maxTeamWin           = 0.20, 0.80
	minRating, maxRating             = 1.0, 10.0
	minCompleteGame, maxCompleteGame = 0.001, 0.05
	minShutout, maxShutout           = 0.0002, 0.03
	minNoHitter, maxNoHitter         = 0.00005, 0.005
	minPerfectGame, maxPerfectGame   = 0.000001, 0.001
)

// Strikeouts projects strikeouts as K rate times expected batters faced
func Strikeouts(in PitcherInput) ([]dfs.CategoryResult, error) {
	s, err := in.stats()
	if err != nil {
		return nil, err
	}

	base := regress(float64(s.Strikeouts), float64(s.BattersFaced), dfs.LeagueStrikeoutRate, 70)
	opponent := 1.0
	extra := 0.0
	if o, ok := in.Opponent.Get(); ok && o.StrikeoutRate > 0 {
		opponent = dfs.Clamp(o.StrikeoutRate/dfs.LeagueStrikeoutRate, 0.80, 1.20)
	} else {
		extra -= 5
	}
	home := HomeFactor(in.Home)
	rate := dfs.Clamp(base*opponent*home, minKRate, maxKRate)

	ip := ProjectInnings(in)
	whip := regress(float64(s.HitsAllowed+s.Walks), s.InningsPitched, dfs.LeagueWHIP, 40)
	battersFaced := ip * (2.9 + whip)

	return []dfs.CategoryResult{dfs.NewResult(dfs.CategoryStrikeouts, rate*battersFaced, in.confidence(s, extra), map[string]float64{
		"base_rate":     base,
		"opponent":      opponent,
		"home":          home,
		"rate":          rate,
		"innings":       ip,
		"batters_faced": battersFaced,
	})}, nil
}

// ProjectInnings is the starter's expected innings from the per-start average, run prevention,
// the club's hook tendency and the opposing offense
func ProjectInnings(in PitcherInput) float64 {
	s, ok := in.Stats.Get()
	if !ok {
		return dfs.LeagueInningsPerStart
	}
	s = s.Derive()

	starts := float64(s.GamesStarted)
	if starts == 0 {
		starts = float64(s.GamesPlayed)
	}
	base := regress(s.InningsPitched, starts, dfs.LeagueInningsPerStart, 5)

	quality := 1.0
	if s.InningsPitched > 0 {
		quality = dfs.Clamp(1+0.05*(dfs.LeagueERA-runValue(s)), 0.90, 1.10)
	}

	hook := in.HookTendency
	if hook <= 0 {
		hook = 1.0
	}
	opponent := dfs.Clamp(1-0.5*(teamOffenseFactor(in.Opponent)-1), 0.90, 1.10)

	return dfs.Clamp(base*quality*hook*opponent, minInnings, maxInnings)
}

// InningsPitched projects innings and reports a quality-start probability among its factors
func InningsPitched(in PitcherInput) ([]dfs.CategoryResult, error) {
	s, err := in.stats()
	if err != nil {
		return nil, err
	}

	ip := ProjectInnings(in)
	era := runValue(s)
	pLength := dfs.Clamp((ip-4.5)/2.5, 0.05, 0.95)
	pRuns := dfs.Clamp(1.15-era/6.5, 0.20, 0.90)

	hook := in.HookTendency
	if hook <= 0 {
		hook = 1.0
	}
	return []dfs.CategoryResult{dfs.NewResult(dfs.CategoryInningsPitched, ip, in.confidence(s, 0), map[string]float64{
		"innings_per_start":         s.InningsPerStart(),
		"hook_tendency":             hook,
		"opponent_offense":          teamOffenseFactor(in.Opponent),
		"quality_start_probability": pLength * pRuns,
	})}, nil
}

// TeamWinProbability combines starter, team, bullpen and run support edges around a coin flip
func TeamWinProbability(in PitcherInput) float64 {
	pitcher := 0.0
	if s, ok := in.Stats.Get(); ok && s.InningsPitched > 0 {
		pitcher = dfs.Clamp((dfs.LeagueERA-runValue(s.Derive()))/dfs.LeagueERA, -0.5, 0.5)
	}

	team, bullpen, support := 0.0, 0.0, 0.0
	if t, ok := in.Team.Get(); ok {
		team = t.WinPct() - 0.5
		if t.BullpenERA > 0 {
			bullpen = dfs.Clamp((dfs.LeagueBullpenERA-t.BullpenERA)/dfs.LeagueBullpenERA, -0.5, 0.5)
		}
		if t.RunsPerGame > 0 {
			support = dfs.Clamp((t.RunsPerGame-dfs.LeagueRunsPerGame)/dfs.LeagueRunsPerGame, -0.5, 0.5)
		}
	}
	if o, ok := in.Opponent.Get(); ok {
		team -= o.WinPct() - 0.5
	}

	home := -0.02
	if in.Home {
		home = 0.02
	}
	p := 0.5 + 0.40*pitcher + 0.25*team + 0.15*bullpen + 0.20*support + home
	return dfs.Clamp(p, minTeamWin, maxTeamWin)
}

// decisionShare is the chance the starter is the pitcher of record when the team wins
func decisionShare(ip float64) float64 {
	if ip >= 5 {
		return math.Min(0.72+0.04*(ip-5), 0.85)
	}
	return 0.72 * (ip / 5) * (ip / 5)
}

// WinProbability projects the starter's win chance: team win probability times decision share
func WinProbability(in PitcherInput) ([]dfs.CategoryResult, error) {
	s, err := in.stats()
	if err != nil {
		return nil, err
	}

	teamWin := TeamWinProbability(in)
	ip := ProjectInnings(in)
	share := decisionShare(ip)

	extra := -5.0
	if in.Team.IsMissing() {
		extra -= 5
	}
	if in.Opponent.IsMissing() {
		extra -= 5
	}
	return []dfs.CategoryResult{dfs.NewResult(dfs.CategoryWins, teamWin*share, in.confidence(s, extra), map[string]float64{
		"team_win_probability": teamWin,
		"decision_share":       share,
		"innings":              ip,
	})}, nil
}

type rareEventOdds struct {
	CompleteGame float64
	Shutout      float64
	NoHitter     float64
	PerfectGame  float64
}

func rareEventResult(odds rareEventOdds, conf dfs.Confidence, factors map[string]float64) dfs.CategoryResult {
	if factors == nil {
		factors = make(map[string]float64, 4)
	}
	factors["complete_game"] = odds.CompleteGame
	factors["shutout"] = odds.Shutout
	factors["no_hitter"] = odds.NoHitter
	factors["perfect_game"] = odds.PerfectGame
	return dfs.CategoryResult{
		Category:      dfs.CategoryRareEvents,
		ExpectedValue: odds.CompleteGame,
		PointValue:    dfs.RareEventPoints(odds.CompleteGame, odds.Shutout, odds.NoHitter),
		Confidence:    dfs.ClampConfidence(conf),
		Factors:       factors,
	}
}

// RareEvents projects complete game, shutout, no-hitter and perfect game odds from durability
// and run prevention. Points stack the three bonuses; a perfect game earns nothing extra.
func RareEvents(in PitcherInput) ([]dfs.CategoryResult, error) {
	s, err := in.stats()
	if err != nil {
		return nil, err
	}

	ip := ProjectInnings(in)
	era := math.Max(runValue(s), 1.0)
	whip := math.Max(regress(float64(s.HitsAllowed+s.Walks), s.InningsPitched, dfs.LeagueWHIP, 40), 0.6)

	durability := math.Pow(ip/dfs.LeagueInningsPerStart, 4)
	prevention := math.Pow(dfs.LeagueERA/era, 1.5)
	cg := dfs.Clamp(dfs.LeagueCompleteGame*durability*prevention, minCompleteGame, maxCompleteGame)
	sho := dfs.Clamp(cg*0.35*(dfs.LeagueERA/era), minShutout, maxShutout)
	nh := dfs.Clamp(sho*0.05*math.Pow(dfs.LeagueWHIP/whip, 3), minNoHitter, maxNoHitter)
	pg := dfs.Clamp(nh*0.1*(dfs.LeagueWHIP/whip), minPerfectGame, maxPerfectGame)

	return []dfs.CategoryResult{rareEventResult(rareEventOdds{
		CompleteGame: cg,
		Shutout:      sho,
		NoHitter:     nh,
		PerfectGame:  pg,
	}, in.confidence(s, -15), map[string]float64{
		"durability": durability,
		"prevention": prevention,
	})}, nil
}

// RunPrevention projects the three negative categories: earned runs, hits and walks allowed
func RunPrevention(in PitcherInput) ([]dfs.CategoryResult, error) {
	s, err := in.stats()
	if err != nil {
		return nil, err
	}

	ip := ProjectInnings(in)
	park := in.Park.RunFactor()
	weather := WeatherFactors(in.Environment).Runs
	offense := teamOffenseFactor(in.Opponent)

	extra := 0.0
	contact := 1.0
	if o, ok := in.Opponent.Get(); ok && o.OPS > 0 {
		contact = dfs.Clamp(o.OPS/dfs.LeagueOPS, 0.85, 1.15)
	} else {
		extra -= 5
	}
	conf := in.confidence(s, extra)

	era := runValue(s) * park * offense * weather
	hits := regressPer9(s.HitsAllowed, s.InningsPitched, dfs.LeagueHPer9, 50) * contact * in.Park.HitFactor(dfs.CategorySingles)
	walks := regressPer9(s.Walks, s.InningsPitched, dfs.LeagueBBPer9, 60) +
		regressPer9(s.HitBatsmen, s.InningsPitched, dfs.LeagueHBPPer9, 60)

	return []dfs.CategoryResult{
		dfs.NewResult(dfs.CategoryEarnedRuns, era*ip/9, conf, map[string]float64{
			"adjusted_era": era,
			"park":         park,
			"offense":      offense,
			"weather":      weather,
			"innings":      ip,
		}),
		dfs.NewResult(dfs.CategoryHitsAllowed, hits*ip/9, conf, map[string]float64{
			"hits_per_9": hits,
			"contact":    contact,
			"innings":    ip,
		}),
		dfs.NewResult(dfs.CategoryWalksAllowed, walks*ip/9, conf, map[string]float64{
			"walks_per_9": walks,
			"innings":     ip,
		}),
	}, nil
}

// Vulnerability is a pitcher's home-run proneness
type Vulnerability struct {
	Rating     float64 // 1-10, 10 most vulnerable
	Factor     float64 // HR multiplier for opposing batters
	Confidence dfs.Confidence
	Defaulted  bool
}

// HomeRunVulnerability rates HR/9 regressed by innings onto 1-10. Confidence is rated on the
// same 1-10 scale and converted.
func HomeRunVulnerability(stats dfs.Observation[dfs.PitcherStats]) Vulnerability {
	s, ok := stats.Get()
	if !ok || s.InningsPitched <= 0 {
		return Vulnerability{Rating: 5.5, Factor: 1.0, Confidence: dfs.ConfidenceFloor, Defaulted: true}
	}

	hr9 := regressPer9(s.HomeRunsAllowed, s.InningsPitched, dfs.LeagueHRPer9, 60)
	rating := dfs.Clamp(5.5+(hr9-dfs.LeagueHRPer9)/0.6*4.5, minRating, maxRating)

	tenPoint := math.Min(3+s.InningsPitched/30, 9)
	conf := dfs.ConfidenceFromTenPoint(tenPoint) - dfs.Confidence(stats.Penalty())

	return Vulnerability{
		Rating:     rating,
		Factor:     dfs.Clamp(hr9/dfs.LeagueHRPer9, 0.6, 1.6),
		Confidence: dfs.CapConfidence(conf),
	}
}
