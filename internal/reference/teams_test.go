package reference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryCoversEveryClub(t *testing.T) {
	r := NewRegistry()
	all := r.All()
	require.Len(t, all, 30)

	venues := make(map[int]bool)
	for i, team := range all {
		if i > 0 {
			assert.Less(t, all[i-1].ID, team.ID)
		}
		assert.NotEmpty(t, team.Abbreviation)
		assert.Contains(t, []string{"AL", "NL"}, team.League)
		assert.False(t, venues[team.HomeVenueID], "venue %d shared", team.HomeVenueID)
		venues[team.HomeVenueID] = true
	}
}

func TestRegistryAbbreviations(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		input string
		want  string
	}{
		{"NYY", "NYY"},
		{"nyy", "NYY"},
		{" OAK ", "ATH"},
		{"TBR", "TB"},
		{"WAS", "WSH"},
		{"CHW", "CWS"},
		{"AZ", "ARI"},
		{"XYZ", "XYZ"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Canonical(tt.input))
		})
	}

	_, ok := r.ByAbbreviation("XYZ")
	assert.False(t, ok)
}

func TestRegistryHookTendency(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, 0.92, r.HookTendency(139))
	assert.Equal(t, 1.05, r.HookTendency(143))
	assert.Equal(t, 1.0, r.HookTendency(9999))

	yankees, ok := r.Team(147)
	require.True(t, ok)
	assert.Equal(t, 3313, yankees.HomeVenueID)
}
