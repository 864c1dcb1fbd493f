package dfs

import "time"

// SiteLink ties a player to the fantasy site's player pool
type SiteLink struct {
	ExternalID       string  `json:"external_id"`
	Salary           int     `json:"salary"`
	Position         string  `json:"position"`
	AvgPointsPerGame float64 `json:"avg_points_per_game"`
}

// QualityMetrics are normalised batter quality signals used as secondary factors and tie-breakers
type QualityMetrics struct {
	BattedBallQuality float64 `json:"batted_ball_quality"`
	Power             float64 `json:"power"`
	ContactRate       float64 `json:"contact_rate"`
	PlateApproach     float64 `json:"plate_approach"`
	Speed             float64 `json:"speed"`
	Consistency       float64 `json:"consistency"` // 0-100
	Defaulted         bool    `json:"defaulted,omitempty"`
}

// Projection is the aggregated point projection for one player
type Projection struct {
	Expected  float64              `json:"expected_points"`
	Floor     float64              `json:"floor"`
	Upside    float64              `json:"upside"`
	Breakdown map[Category]float64 `json:"breakdown"`
}

// BatterAnalysis is the stable output record for a batter
type BatterAnalysis struct {
	Player       PlayerIdentity              `json:"player"`
	Game         GameRef                     `json:"game"`
	Opponent     TeamRef                     `json:"opponent"`
	Home         bool                        `json:"home"`
	BattingOrder int                         `json:"batting_order"`
	OpposingSP   *PlayerIdentity             `json:"opposing_pitcher,omitempty"`
	Stats        *BatterStats                `json:"stats,omitempty"`
	StatsSource  string                      `json:"stats_source"`
	Quality      QualityMetrics              `json:"quality"`
	Categories   map[Category]CategoryResult `json:"categories"`
	Projection   Projection                  `json:"projection"`
	Confidence   Confidence                  `json:"confidence"`
	FantasySite  *SiteLink                   `json:"fantasy_site,omitempty"`
	Defaulted    bool                        `json:"defaulted"`
	Warnings     []string                    `json:"warnings,omitempty"`
	GeneratedAt  time.Time                   `json:"generated_at"`
}

// PitcherAnalysis is the stable output record for a starting pitcher
type PitcherAnalysis struct {
	Player             PlayerIdentity              `json:"player"`
	Game               GameRef                     `json:"game"`
	Opponent           TeamRef                     `json:"opponent"`
	Home               bool                        `json:"home"`
	Stats              *PitcherStats               `json:"stats,omitempty"`
	StatsSource        string                      `json:"stats_source"`
	SeasonUsed         int                         `json:"season_used"`
	UsedFallbackSeason bool                        `json:"used_fallback_season"`
	HRVulnerability    float64                     `json:"hr_vulnerability"` // 1-10
	Categories         map[Category]CategoryResult `json:"categories"`
	Projection         Projection                  `json:"projection"`
	Confidence         Confidence                  `json:"confidence"`
	FantasySite        *SiteLink                   `json:"fantasy_site,omitempty"`
	Defaulted          bool                        `json:"defaulted"`
	Warnings           []string                    `json:"warnings,omitempty"`
	GeneratedAt        time.Time                   `json:"generated_at"`
}

// ResultList returns the category results in report order
func (a BatterAnalysis) ResultList() []CategoryResult {
	return orderedResults(a.Categories, BatterCategories)
}

// ResultList returns the category results in report order
func (a PitcherAnalysis) ResultList() []CategoryResult {
	return orderedResults(a.Categories, PitcherCategories)
}

// Value returns projected points per $1,000 of salary, 0 without a salary
func (a BatterAnalysis) Value() float64 {
	return pointsPerThousand(a.Projection.Expected, a.FantasySite)
}

// Value returns projected points per $1,000 of salary, 0 without a salary
func (a PitcherAnalysis) Value() float64 {
	return pointsPerThousand(a.Projection.Expected, a.FantasySite)
}

func orderedResults(m map[Category]CategoryResult, order []Category) []CategoryResult {
	out := make([]CategoryResult, 0, len(m))
	for _, c := range order {
		if r, ok := m[c]; ok {
			out = append(out, r)
		}
	}
	return out
}

func pointsPerThousand(points float64, link *SiteLink) float64 {
	if link == nil || link.Salary <= 0 {
		return 0
	}
	return points / (float64(link.Salary) / 1000)
}
