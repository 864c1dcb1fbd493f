package dfs

// SampleTier buckets a batter-vs-pitcher history by size
type SampleTier string

const (
	SampleNone   SampleTier = "none"
	SampleSmall  SampleTier = "small"
	SampleMedium SampleTier = "medium"
	SampleLarge  SampleTier = "large"
)

// MatchupRecord is the career head-to-head line between one batter and one pitcher
type MatchupRecord struct {
	BatterID   int64   `json:"batter_id"`
	PitcherID  int64   `json:"pitcher_id"`
	AtBats     int     `json:"ab"`
	Hits       int     `json:"h"`
	HomeRuns   int     `json:"hr"`
	Walks      int     `json:"bb"`
	Strikeouts int     `json:"so"`
	OPS        float64 `json:"ops"`
}

// Tier classifies the sample size
func (m MatchupRecord) Tier() SampleTier {
	switch {
	case m.AtBats <= 0:
		return SampleNone
	case m.AtBats < 10:
		return SampleSmall
	case m.AtBats < 25:
		return SampleMedium
	default:
		return SampleLarge
	}
}

// Weight is how much the head-to-head history may move a projection
func (m MatchupRecord) Weight() float64 {
	switch m.Tier() {
	case SampleSmall:
		return 0.10
	case SampleMedium:
		return 0.25
	case SampleLarge:
		return 0.40
	default:
		return 0
	}
}

// AVG is the head-to-head batting average
func (m MatchupRecord) AVG() float64 {
	if m.AtBats == 0 {
		return 0
	}
	return float64(m.Hits) / float64(m.AtBats)
}

// HomeRunRate is head-to-head HR per AB
func (m MatchupRecord) HomeRunRate() float64 {
	if m.AtBats == 0 {
		return 0
	}
	return float64(m.HomeRuns) / float64(m.AtBats)
}
