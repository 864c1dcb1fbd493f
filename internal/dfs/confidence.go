package dfs

import "math"

// Confidence is a calculator's self-reported reliability on a 0-100 scale
type Confidence float64

const (
	ConfidenceMin     Confidence = 0
	ConfidenceMax     Confidence = 100
	ConfidenceBase    Confidence = 50
	ConfidenceFloor   Confidence = 10
	ConfidenceCeiling Confidence = 95
)

// ConfidenceFromTenPoint converts a 1-10 rating confidence onto the 0-100 scale.
// 1 maps to 0 and 10 maps to 100.
func ConfidenceFromTenPoint(v float64) Confidence {
	v = Clamp(v, 1, 10)
	return Confidence((v - 1) / 9 * 100)
}

// ToTenPoint converts back to the 1-10 scale for display
func (c Confidence) ToTenPoint() float64 {
	return 1 + float64(ClampConfidence(c))/100*9
}

// ClampConfidence bounds c to [0, 100]
func ClampConfidence(c Confidence) Confidence {
	return Confidence(Clamp(float64(c), float64(ConfidenceMin), float64(ConfidenceMax)))
}

// CapConfidence bounds a calculator's additive confidence to [0, 95]
func CapConfidence(c Confidence) Confidence {
	return Confidence(Clamp(float64(c), float64(ConfidenceMin), float64(ConfidenceCeiling)))
}

// Clamp bounds v to [lo, hi]; NaN collapses to lo
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

// Round rounds to the given number of decimals
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
