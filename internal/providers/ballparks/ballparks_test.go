package ballparks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jstittsworth/mlb-dfs-projections/internal/dfs"
	"github.com/jstittsworth/mlb-dfs-projections/internal/reference"
)

func TestEveryClubHasAPark(t *testing.T) {
	p := NewProvider()
	registry := reference.NewRegistry()
	for _, team := range registry.All() {
		park, ok := p.Park(team.HomeVenueID)
		require.True(t, ok, team.Abbreviation)
		assert.Equal(t, team.Abbreviation, park.Team)
	}
}

func TestGetBallparkFactors(t *testing.T) {
	p := NewProvider()

	f, err := p.GetBallparkFactors(context.Background(), 3313, 2024)
	require.NoError(t, err)
	assert.True(t, f.Known)
	assert.Equal(t, 2024, f.Season)
	assert.InDelta(t, 1.24, f.HomeRunFactor(dfs.HandLeft), 1e-9)
	assert.InDelta(t, 1.10, f.HomeRunFactor(dfs.HandRight), 1e-9)
	assert.InDelta(t, 1.01, f.RunFactor(), 1e-9)

	_, err = p.GetBallparkFactors(context.Background(), 999999, 2024)
	assert.ErrorIs(t, err, dfs.ErrNotFound)
}

func TestIndoor(t *testing.T) {
	p := NewProvider()
	trop, _ := p.Park(12)
	assert.True(t, trop.Indoor())
	chase, _ := p.Park(15)
	assert.False(t, chase.Indoor())
}

func TestWindRelativeToField(t *testing.T) {
	// center field due north
	park := Park{Bearing: 0}

	tests := []struct {
		name string
		from int
		want dfs.WindDirection
	}{
		{"from the south blows out", 180, dfs.WindOut},
		{"from the north blows in", 0, dfs.WindIn},
		{"from the west is a crosswind", 270, dfs.WindCross},
		{"from south-southwest still out", 200, dfs.WindOut},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, park.WindRelativeToField(tt.from))
		})
	}
}
