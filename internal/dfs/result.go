package dfs

// CategoryResult is the atomic output of every category calculator
type CategoryResult struct {
	Category      Category           `json:"category"`
	ExpectedValue float64            `json:"expected_value"`
	PointValue    float64            `json:"point_value"`
	Confidence    Confidence         `json:"confidence"`
	Factors       map[string]float64 `json:"factors,omitempty"`
	Defaulted     bool               `json:"defaulted,omitempty"`
}

// NewResult builds a linear-category result: points = expected * weight
func NewResult(c Category, expected float64, confidence Confidence, factors map[string]float64) CategoryResult {
	return CategoryResult{
		Category:      c,
		ExpectedValue: expected,
		PointValue:    expected * PointWeight(c),
		Confidence:    ClampConfidence(confidence),
		Factors:       factors,
	}
}

// Factor reads one entry of the factor breakdown, 0 when absent
func (r CategoryResult) Factor(name string) float64 {
	return r.Factors[name]
}
