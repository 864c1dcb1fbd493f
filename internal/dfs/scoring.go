package dfs

// Category is one DFS scoring category
type Category string

const (
	CategorySingles     Category = "singles"
	CategoryDoubles     Category = "doubles"
	CategoryTriples     Category = "triples"
	CategoryHomeRuns    Category = "home_runs"
	CategoryRuns        Category = "runs"
	CategoryRBIs        Category = "rbis"
	CategoryWalks       Category = "walks"
	CategoryStolenBases Category = "stolen_bases"

	CategoryStrikeouts     Category = "strikeouts"
	CategoryInningsPitched Category = "innings_pitched"
	CategoryWins           Category = "wins"
	CategoryEarnedRuns     Category = "earned_runs"
	CategoryHitsAllowed    Category = "hits_allowed"
	CategoryWalksAllowed   Category = "walks_allowed"
	CategoryRareEvents     Category = "rare_events"
)

// BatterCategories lists every batter category in report order
var BatterCategories = []Category{
	CategorySingles,
	CategoryDoubles,
	CategoryTriples,
	CategoryHomeRuns,
	CategoryRuns,
	CategoryRBIs,
	CategoryWalks,
	CategoryStolenBases,
}

// PitcherCategories lists every pitcher category in report order
var PitcherCategories = []Category{
	CategoryStrikeouts,
	CategoryInningsPitched,
	CategoryWins,
	CategoryEarnedRuns,
	CategoryHitsAllowed,
	CategoryWalksAllowed,
	CategoryRareEvents,
}

// DraftKings MLB classic scoring
const (
	PointsSingle        = 3.0
	PointsDouble        = 5.0
	PointsTriple        = 8.0
	PointsHomeRun       = 10.0
	PointsRun           = 2.0
	PointsRBI           = 2.0
	PointsWalk          = 2.0 // walks and hit-by-pitch
	PointsStolenBase    = 5.0
	PointsStrikeout     = 2.0
	PointsInningPitched = 2.25
	PointsWin           = 4.0
	PointsEarnedRun     = -2.0
	PointsHitAllowed    = -0.6
	PointsWalkAllowed   = -0.6 // walks and hit batsmen
	PointsCompleteGame  = 2.5
	PointsShutout       = 2.5 // in addition to the complete game
	PointsNoHitter      = 5.0 // in addition to the complete game and any shutout
)

var pointWeights = map[Category]float64{
	CategorySingles:        PointsSingle,
	CategoryDoubles:        PointsDouble,
	CategoryTriples:        PointsTriple,
	CategoryHomeRuns:       PointsHomeRun,
	CategoryRuns:           PointsRun,
	CategoryRBIs:           PointsRBI,
	CategoryWalks:          PointsWalk,
	CategoryStolenBases:    PointsStolenBase,
	CategoryStrikeouts:     PointsStrikeout,
	CategoryInningsPitched: PointsInningPitched,
	CategoryWins:           PointsWin,
	CategoryEarnedRuns:     PointsEarnedRun,
	CategoryHitsAllowed:    PointsHitAllowed,
	CategoryWalksAllowed:   PointsWalkAllowed,
}

// PointWeight returns the per-event value of a linear category.
// Rare events have no single weight and return 0.
func PointWeight(c Category) float64 {
	return pointWeights[c]
}

// IsNegative reports whether the category subtracts points
func IsNegative(c Category) bool {
	return pointWeights[c] < 0
}

// RareEventPoints applies the stacked complete game / shutout / no-hitter bonuses
func RareEventPoints(pCompleteGame, pShutout, pNoHitter float64) float64 {
	return PointsCompleteGame*pCompleteGame + PointsShutout*pShutout + PointsNoHitter*pNoHitter
}
