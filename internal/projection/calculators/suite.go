package calculators

import (
	"github.com/jstittsworth/mlb-dfs-projections/internal/dfs"
)

// BatterCalculator names one batter calculator and the categories it owns
type BatterCalculator struct {
	Name       string
	Categories []dfs.Category
	Run        func(BatterInput) ([]dfs.CategoryResult, error)
}

// PitcherCalculator names one pitcher calculator and the categories it owns
type PitcherCalculator struct {
	Name       string
	Categories []dfs.Category
	Run        func(PitcherInput) ([]dfs.CategoryResult, error)
}

// BatterSuite is every batter calculator. Together they own each batter category exactly once.
func BatterSuite() []BatterCalculator {
	return []BatterCalculator{
		{Name: "hit_types", Categories: []dfs.Category{dfs.CategorySingles, dfs.CategoryDoubles, dfs.CategoryTriples}, Run: HitTypes},
		{Name: "home_runs", Categories: []dfs.Category{dfs.CategoryHomeRuns}, Run: HomeRunProbability},
		{Name: "run_production", Categories: []dfs.Category{dfs.CategoryRuns, dfs.CategoryRBIs}, Run: RunProduction},
		{Name: "plate_discipline", Categories: []dfs.Category{dfs.CategoryWalks}, Run: PlateDiscipline},
		{Name: "stolen_bases", Categories: []dfs.Category{dfs.CategoryStolenBases}, Run: StolenBaseProbability},
	}
}

// PitcherSuite is every pitcher calculator. Together they own each pitcher category exactly once.
func PitcherSuite() []PitcherCalculator {
	return []PitcherCalculator{
		{Name: "strikeouts", Categories: []dfs.Category{dfs.CategoryStrikeouts}, Run: Strikeouts},
		{Name: "innings", Categories: []dfs.Category{dfs.CategoryInningsPitched}, Run: InningsPitched},
		{Name: "wins", Categories: []dfs.Category{dfs.CategoryWins}, Run: WinProbability},
		{Name: "run_prevention", Categories: []dfs.Category{dfs.CategoryEarnedRuns, dfs.CategoryHitsAllowed, dfs.CategoryWalksAllowed}, Run: RunPrevention},
		{Name: "rare_events", Categories: []dfs.Category{dfs.CategoryRareEvents}, Run: RareEvents},
	}
}
