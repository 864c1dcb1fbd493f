package pipeline

import (
	"sort"

	"github.com/jstittsworth/mlb-dfs-projections/internal/dfs"
)

// SortBatters ranks by expected points, then batted-ball quality, then name
func SortBatters(batters []dfs.BatterAnalysis) {
	sort.SliceStable(batters, func(i, j int) bool {
		a, b := batters[i], batters[j]
		if a.Projection.Expected != b.Projection.Expected {
			return a.Projection.Expected > b.Projection.Expected
		}
		if a.Quality.BattedBallQuality != b.Quality.BattedBallQuality {
			return a.Quality.BattedBallQuality > b.Quality.BattedBallQuality
		}
		return a.Player.Name < b.Player.Name
	})
}

// SortPitchers ranks by expected points, then confidence, then name
func SortPitchers(pitchers []dfs.PitcherAnalysis) {
	sort.SliceStable(pitchers, func(i, j int) bool {
		a, b := pitchers[i], pitchers[j]
		if a.Projection.Expected != b.Projection.Expected {
			return a.Projection.Expected > b.Projection.Expected
		}
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		return a.Player.Name < b.Player.Name
	})
}
