package dfs

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfidenceFromTenPoint(t *testing.T) {
	assert.Equal(t, Confidence(0), ConfidenceFromTenPoint(1))
	assert.Equal(t, Confidence(100), ConfidenceFromTenPoint(10))
	assert.InDelta(t, 50, float64(ConfidenceFromTenPoint(5.5)), 1e-9)
	assert.Equal(t, Confidence(0), ConfidenceFromTenPoint(-4))
	assert.Equal(t, Confidence(100), ConfidenceFromTenPoint(42))

	for _, v := range []float64{1, 3.2, 7, 10} {
		assert.InDelta(t, v, ConfidenceFromTenPoint(v).ToTenPoint(), 1e-9)
	}
}

func TestConfidenceBounds(t *testing.T) {
	assert.Equal(t, Confidence(95), CapConfidence(130))
	assert.Equal(t, Confidence(0), CapConfidence(-5))
	assert.Equal(t, Confidence(100), ClampConfidence(130))
	assert.Equal(t, Confidence(70), CapConfidence(70))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.3, Clamp(4, 0.001, 0.3))
	assert.Equal(t, 0.001, Clamp(-1, 0.001, 0.3))
	assert.Equal(t, 0.001, Clamp(math.NaN(), 0.001, 0.3))
	assert.Equal(t, 0.3, Clamp(math.Inf(1), 0.001, 0.3))
	assert.Equal(t, 1.23, Round(1.2345, 2))
}

func TestPointWeights(t *testing.T) {
	hits := PointWeight(CategorySingles) + PointWeight(CategoryDoubles) +
		PointWeight(CategoryTriples) + PointWeight(CategoryHomeRuns)
	assert.Equal(t, 26.0, hits)

	assert.True(t, IsNegative(CategoryEarnedRuns))
	assert.True(t, IsNegative(CategoryHitsAllowed))
	assert.True(t, IsNegative(CategoryWalksAllowed))
	assert.False(t, IsNegative(CategoryStrikeouts))
	assert.Zero(t, PointWeight(CategoryRareEvents))

	// a no-hitter shutout complete game stacks all three bonuses
	assert.Equal(t, 10.0, RareEventPoints(1, 1, 1))
}
