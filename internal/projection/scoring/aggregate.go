package scoring

import (
	"math"
	"sort"

	"github.com/jstittsworth/mlb-dfs-projections/internal/dfs"
)

// Range multipliers applied to the expected total
const (
	BatterFloorRatio   = 0.6
	BatterUpsideRatio  = 1.5
	PitcherFloorRatio  = 0.75
	PitcherUpsideRatio = 1.3
)

// Aggregate is the scored projection for one player
type Aggregate struct {
	Projection dfs.Projection
	Confidence dfs.Confidence
}

// Ratios returns the floor and upside multipliers for a role
func Ratios(role dfs.Role) (floor, upside float64) {
	if role == dfs.RolePitcher {
		return PitcherFloorRatio, PitcherUpsideRatio
	}
	return BatterFloorRatio, BatterUpsideRatio
}

// Score sums category points into total, floor and upside and weights category confidence
// by each category's share of the points. The result does not depend on input order and
// is never negative.
func Score(role dfs.Role, results []dfs.CategoryResult) Aggregate {
	if len(results) == 0 {
		return Aggregate{
			Projection: dfs.Projection{Breakdown: map[dfs.Category]float64{}},
			Confidence: dfs.ConfidenceFloor,
		}
	}

	breakdown := make(map[dfs.Category]float64, len(results))
	for _, r := range results {
		breakdown[r.Category] += r.PointValue
	}

	// sum in a fixed category order so totals are bit-identical whatever order results arrive in
	var positive, negative, weightedConf, weight, plainConf float64
	order := categoryOrder(role, breakdown)
	conf := confidenceByCategory(results)
	for _, c := range order {
		points := breakdown[c]
		if points >= 0 {
			positive += points
		} else {
			negative += -points
		}
		weightedConf += math.Abs(points) * conf[c]
		weight += math.Abs(points)
		plainConf += conf[c]
	}

	total := math.Max(positive-negative, 0)
	floorRatio, upsideRatio := Ratios(role)

	confidence := plainConf / float64(len(order))
	if weight > 0 {
		confidence = weightedConf / weight
	}

	return Aggregate{
		Projection: dfs.Projection{
			Expected:  total,
			Floor:     total * floorRatio,
			Upside:    total * upsideRatio,
			Breakdown: breakdown,
		},
		Confidence: dfs.ClampConfidence(dfs.Confidence(confidence)),
	}
}

// confidenceByCategory averages confidence per category in case a category was reported twice
func confidenceByCategory(results []dfs.CategoryResult) map[dfs.Category]float64 {
	sums := make(map[dfs.Category]float64, len(results))
	counts := make(map[dfs.Category]int, len(results))
	for _, r := range results {
		sums[r.Category] += float64(r.Confidence)
		counts[r.Category]++
	}
	for c, n := range counts {
		sums[c] /= float64(n)
	}
	return sums
}

func categoryOrder(role dfs.Role, breakdown map[dfs.Category]float64) []dfs.Category {
	known := dfs.BatterCategories
	if role == dfs.RolePitcher {
		known = dfs.PitcherCategories
	}

	order := make([]dfs.Category, 0, len(breakdown))
	seen := make(map[dfs.Category]bool, len(breakdown))
	for _, c := range known {
		if _, ok := breakdown[c]; ok {
			order = append(order, c)
			seen[c] = true
		}
	}
	var extra []dfs.Category
	for c := range breakdown {
		if !seen[c] {
			extra = append(extra, c)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	return append(order, extra...)
}

// HitPoints is the point value of a batting line's hits
func HitPoints(singles, doubles, triples, homeRuns float64) float64 {
	return singles*dfs.PointsSingle + doubles*dfs.PointsDouble + triples*dfs.PointsTriple + homeRuns*dfs.PointsHomeRun
}
