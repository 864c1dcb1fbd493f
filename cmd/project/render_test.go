package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jstittsworth/mlb-dfs-projections/internal/dfs"
	"github.com/jstittsworth/mlb-dfs-projections/internal/projection/batch"
)

func sampleResult() *batch.Result {
	return &batch.Result{
		Date:   time.Date(2024, 7, 4, 0, 0, 0, 0, time.UTC),
		Season: 2024,
		Games:  []dfs.GameRef{{GamePk: 745001}},
		Batters: []dfs.BatterAnalysis{
			{
				Player:       dfs.PlayerIdentity{Name: "Aaron Judge", Team: "NYY", Position: "RF"},
				Opponent:     dfs.TeamRef{Abbreviation: "BOS"},
				BattingOrder: 2,
				Projection:   dfs.Projection{Expected: 11.5, Floor: 3.1, Upside: 24.8},
				Confidence:   72,
				FantasySite:  &dfs.SiteLink{Salary: 6500},
			},
			{
				Player:     dfs.PlayerIdentity{Name: "Jarren Duran", Team: "BOS", Position: "CF"},
				Opponent:   dfs.TeamRef{Abbreviation: "NYY"},
				Projection: dfs.Projection{Expected: 6.2},
				Confidence: 25,
				Defaulted:  true,
			},
		},
		Pitchers: []dfs.PitcherAnalysis{
			{
				Player:     dfs.PlayerIdentity{Name: "Gerrit Cole", Team: "NYY"},
				Opponent:   dfs.TeamRef{Abbreviation: "BOS"},
				Projection: dfs.Projection{Expected: 17.9, Floor: 6, Upside: 33},
				Confidence: 80,
			},
		},
	}
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, render(&buf, sampleResult(), renderOptions{Format: "table"}))

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.True(t, strings.HasPrefix(lines[0], "ROLE"))
	assert.Contains(t, out, "Aaron Judge")
	assert.Contains(t, out, "6500")
	assert.Contains(t, out, "Jarren Duran*")
	assert.Contains(t, out, "Gerrit Cole")
	assert.Contains(t, out, "(1 batters, 0 pitchers)")
}

func TestRenderJSONFilters(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, render(&buf, sampleResult(), renderOptions{Format: "json", Role: "batter", Top: 1}))

	var got struct {
		Date    string `json:"date"`
		Games   int    `json:"games"`
		Players []row  `json:"players"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "2024-07-04", got.Date)
	assert.Equal(t, 1, got.Games)
	require.Len(t, got.Players, 1)
	assert.Equal(t, "Aaron Judge", got.Players[0].Name)
	assert.Equal(t, 6500, got.Players[0].Salary)
	assert.Equal(t, 2, got.Players[0].Order)
}

func TestRenderOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    renderOptions
		wantErr bool
	}{
		{"defaults", renderOptions{Format: "table"}, false},
		{"upper case", renderOptions{Format: "JSON", Role: "Pitcher"}, false},
		{"bad format", renderOptions{Format: "yaml"}, true},
		{"bad role", renderOptions{Format: "table", Role: "closer"}, true},
		{"negative top", renderOptions{Format: "table", Top: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseSlateDate(t *testing.T) {
	now := time.Date(2024, 7, 4, 22, 30, 0, 0, time.FixedZone("EDT", -4*60*60))

	got, err := parseSlateDate("", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 7, 4, 0, 0, 0, 0, time.UTC), got)

	got, err = parseSlateDate("2024-09-29", now)
	require.NoError(t, err)
	assert.Equal(t, 29, got.Day())

	_, err = parseSlateDate("9/29", now)
	assert.Error(t, err)
}
