package draftkings

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jstittsworth/mlb-dfs-projections/internal/reference"
)

const salaryCSV = "\ufeffPosition,Name + ID,Name,ID,Roster Position,Salary,Game Info,TeamAbbrev,AvgPointsPerGame\n" +
	"OF,Aaron Judge (30001),Aaron Judge,30001,OF,6500,BOS@NYY 07/04/2024 07:05PM ET,NYY,12.4\n" +
	"OF,Ronald Acuña Jr. (30002),Ronald Acuña Jr.,30002,OF,6100,ATL@WSH 07/04/2024 04:05PM ET,ATL,10.9\n" +
	"SP,Gerrit Cole (30003),Gerrit Cole,30003,P,10200,BOS@NYY 07/04/2024 07:05PM ET,NYY,21.7\n" +
	"2B/SS,CJ Abrams (30004),CJ Abrams,30004,2B/SS/UTIL,5000,ATL@WSH 07/04/2024 04:05PM ET,WAS,8.1\n" +
	"C,Will Smith (30005),Will Smith,30005,C,4700,LAD@SF 07/04/2024 09:45PM ET,LAD,8.3\n" +
	"RP,Will Smith (30006),Will Smith,30006,P,4000,ATL@WSH 07/04/2024 04:05PM ET,ATL,3.1\n"

func load(t *testing.T) []Salary {
	t.Helper()
	salaries, err := ParseSalaries(strings.NewReader(salaryCSV))
	require.NoError(t, err)
	return salaries
}

func TestParseSalaries(t *testing.T) {
	salaries := load(t)
	require.Len(t, salaries, 6)

	judge := salaries[0]
	assert.Equal(t, "30001", judge.ID)
	assert.Equal(t, "Aaron Judge", judge.Name)
	assert.Equal(t, 6500, judge.Salary)
	assert.Equal(t, "NYY", judge.Team)
	assert.Equal(t, 12.4, judge.AvgPointsPerGame)
	assert.False(t, judge.Pitcher())

	assert.True(t, salaries[2].Pitcher())
	assert.Equal(t, "2B/SS/UTIL", salaries[3].RosterPosition)
}

func TestParseSalariesSkipsPreamble(t *testing.T) {
	input := "Instructions,,\nUpload your entries below,,\n\n" + strings.TrimPrefix(salaryCSV, "\ufeff")
	salaries, err := ParseSalaries(strings.NewReader(input))
	require.NoError(t, err)
	assert.Len(t, salaries, 6)
}

func TestParseSalariesErrors(t *testing.T) {
	_, err := ParseSalaries(strings.NewReader("Player,Cost\nJudge,6500\n"))
	assert.ErrorIs(t, err, ErrNoHeader)

	_, err = ParseSalaries(strings.NewReader("Name,ID,Salary,TeamAbbrev\nAaron Judge,1,six grand,NYY\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "DKSalaries.csv")
	require.NoError(t, os.WriteFile(path, []byte(salaryCSV), 0o600))

	salaries, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, salaries, 6)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Ronald Acuña Jr.", "ronald acuna"},
		{"Vladimir Guerrero Jr.", "vladimir guerrero"},
		{"J.D. Martinez", "jd martinez"},
		{"Ke'Bryan Hayes", "kebryan hayes"},
		{"Isiah Kiner-Falefa", "isiah kiner falefa"},
		{"Cal Ripken III", "cal ripken"},
		{"  Yandy   Díaz ", "yandy diaz"},
		{"Jr", "jr"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeName(tt.in))
		})
	}
}

func TestMapPlayerToFantasySite(t *testing.T) {
	m := NewMapper(load(t), reference.NewRegistry())
	assert.Equal(t, 6, m.Len())

	tests := []struct {
		name   string
		player string
		team   string
		wantID string
	}{
		{"exact", "Aaron Judge", "NYY", "30001"},
		{"accent and suffix", "Ronald Acuna", "ATL", "30002"},
		{"site team alias", "CJ Abrams", "WSH", "30004"},
		{"traded player unique by name", "Aaron Judge", "LAD", "30001"},
		{"shared name resolved by team", "Will Smith", "ATL", "30006"},
		{"shared name other team", "Will Smith", "LAD", "30005"},
		{"shared name unknown team", "Will Smith", "NYM", ""},
		{"not on slate", "Shohei Ohtani", "LAD", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.MapPlayerToFantasySite(1, tt.player, tt.team)
			if tt.wantID == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantID, got.ExternalID)
		})
	}
}

func TestPinOverridesNameMatch(t *testing.T) {
	salaries := load(t)
	m := NewMapper(salaries, reference.NewRegistry())
	m.Pin(660271, salaries[2])

	got := m.MapPlayerToFantasySite(660271, "Somebody Else", "NYY")
	require.NotNil(t, got)
	assert.Equal(t, "30003", got.ExternalID)
	assert.Equal(t, 10200, got.Salary)
}
