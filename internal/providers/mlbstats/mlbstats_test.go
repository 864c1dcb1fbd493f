package mlbstats

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jstittsworth/mlb-dfs-projections/internal/dfs"
	"github.com/jstittsworth/mlb-dfs-projections/internal/providers"
	"github.com/jstittsworth/mlb-dfs-projections/internal/reference"
)

const batterBody = `{"people":[{"id":592450,"fullName":"Aaron Judge","batSide":{"code":"R"},"pitchHand":{"code":"R"},
"stats":[
 {"type":{"displayName":"season"},"group":{"displayName":"hitting"},"splits":[
  {"season":"2024","stat":{"gamesPlayed":158,"plateAppearances":704,"atBats":559,"hits":180,"doubles":36,"triples":1,"homeRuns":58,"runs":122,"rbi":144,"baseOnBalls":133,"strikeOuts":171,"stolenBases":10,"caughtStealing":0,"hitByPitch":9,"sacFlies":3,"avg":".322","obp":".458","slg":".701","ops":"1.159","babip":".367"}}]},
 {"type":{"displayName":"statSplits"},"group":{"displayName":"hitting"},"splits":[
  {"season":"2024","split":{"code":"vl"},"stat":{"plateAppearances":160,"atBats":124,"hits":41,"homeRuns":14,"avg":".331","obp":".463","slg":".750","ops":"1.213"}},
  {"season":"2024","split":{"code":"vr"},"stat":{"plateAppearances":544,"atBats":435,"hits":139,"homeRuns":44,"avg":".320","obp":".456","slg":".687","ops":"1.143"}}]},
 {"type":{"displayName":"yearByYear"},"group":{"displayName":"hitting"},"splits":[
  {"season":"2021","team":{"id":147},"stat":{"atBats":550,"homeRuns":39}},
  {"season":"2022","team":{"id":147},"stat":{"atBats":570,"homeRuns":62}},
  {"season":"2023","team":{"id":147},"stat":{"atBats":300,"homeRuns":20}},
  {"season":"2023","team":{"id":111},"stat":{"atBats":67,"homeRuns":17}},
  {"season":"2024","team":{"id":147},"stat":{"atBats":559,"homeRuns":58}},
  {"season":"2025","team":{"id":147},"stat":{"atBats":541,"homeRuns":53}}]}
]}]}`

const tradedBody = `{"people":[{"id":1,"stats":[
 {"type":{"displayName":"season"},"group":{"displayName":"hitting"},"splits":[
  {"season":"2024","team":{"id":133},"stat":{"atBats":300,"hits":75,"homeRuns":10,"avg":".250"}},
  {"season":"2024","team":{"id":135},"stat":{"atBats":200,"hits":60,"homeRuns":8,"avg":".300"}},
  {"season":"2024","stat":{"atBats":500,"hits":135,"homeRuns":18,"avg":".270"}}]}
]}]}`

const pitcherBody = `{"people":[{"id":669373,"fullName":"Tarik Skubal","pitchHand":{"code":"L"},
"stats":[{"type":{"displayName":"season"},"group":{"displayName":"pitching"},"splits":[
 {"season":"2024","stat":{"gamesPlayed":31,"gamesStarted":31,"inningsPitched":"192.0","wins":18,"losses":4,"earnedRuns":48,"hits":142,"homeRuns":15,"baseOnBalls":35,"strikeOuts":228,"hitBatsmen":6,"completeGames":0,"shutouts":0,"battersFaced":753,"era":"2.39","whip":"0.92","strikeoutsPer9Inn":"10.69","walksPer9Inn":"1.64","homeRunsPer9":"0.70","hitsPer9Inn":"6.66"}}]},
 {"type":{"displayName":"yearByYear"},"group":{"displayName":"pitching"},"splits":[
  {"season":"2022","stat":{"inningsPitched":"117.2"}},
  {"season":"2023","stat":{"inningsPitched":"80.1"}},
  {"season":"2024","stat":{"inningsPitched":"192.0"}}]}]}]}`

const teamBody = `{"stats":[
 {"type":{"displayName":"season"},"group":{"displayName":"hitting"},"splits":[
  {"season":"2024","stat":{"gamesPlayed":162,"runs":815,"ops":".781","strikeOuts":1400,"plateAppearances":6200}}]},
 {"type":{"displayName":"season"},"group":{"displayName":"pitching"},"splits":[
  {"season":"2024","stat":{"wins":94,"losses":68,"era":"3.74","inningsPitched":"1450.0","earnedRuns":603}}]},
 {"type":{"displayName":"statSplits"},"group":{"displayName":"pitching"},"splits":[
  {"season":"2024","split":{"code":"sp"},"stat":{"inningsPitched":"880.0","earnedRuns":381,"era":"3.90"}},
  {"season":"2024","split":{"code":"rp"},"stat":{"inningsPitched":"570.0","earnedRuns":222,"era":"3.51"}}]}
]}`

const teamWithoutRelieversBody = `{"stats":[
 {"type":{"displayName":"season"},"group":{"displayName":"pitching"},"splits":[
  {"season":"2024","stat":{"wins":80,"losses":82,"inningsPitched":"1440.0","earnedRuns":680}}]},
 {"type":{"displayName":"statSplits"},"group":{"displayName":"pitching"},"splits":[
  {"season":"2024","split":{"code":"sp"},"stat":{"inningsPitched":"900.0","earnedRuns":410}}]}
]}`

const catcherBody = `{"stats":[{"type":{"displayName":"season"},"group":{"displayName":"fielding"},"splits":[
 {"season":"2024","position":{"abbreviation":"C"},"stat":{"stolenBases":48,"caughtStealing":12}},
 {"season":"2024","position":{"abbreviation":"1B"},"stat":{"stolenBases":0,"caughtStealing":0}},
 {"season":"2024","position":{"abbreviation":"C"},"team":{"id":147},"stat":{"stolenBases":2,"caughtStealing":1}}]}]}`

const matchupBody = `{"stats":[
 {"type":{"displayName":"vsPlayer"},"group":{"displayName":"hitting"},"splits":[]},
 {"type":{"displayName":"vsPlayerTotal"},"group":{"displayName":"hitting"},"splits":[
  {"stat":{"atBats":14,"hits":5,"homeRuns":2,"baseOnBalls":3,"strikeOuts":4,"ops":"1.107"}}]}]}`

const scheduleBody = `{"dates":[{"date":"2024-07-04","games":[
 {"gamePk":745001,"gameDate":"2024-07-04T23:05:00Z","gameType":"R","season":"2024","status":{"detailedState":"Scheduled"},
  "teams":{"home":{"team":{"id":147,"name":"New York Yankees","abbreviation":"NYY"},"probablePitcher":{"id":10,"fullName":"Gerrit Cole","pitchHand":{"code":"R"}}},
           "away":{"team":{"id":109,"name":"Arizona Diamondbacks","abbreviation":"AZ"},"probablePitcher":{"id":20,"fullName":"Zac Gallen"}}},
  "venue":{"id":3313,"name":"Yankee Stadium"},
  "lineups":{"homePlayers":[{"id":100,"fullName":"Anthony Volpe","batSide":{"code":"R"},"primaryPosition":{"abbreviation":"SS"}},
                            {"id":101,"fullName":"Juan Soto","batSide":{"code":"L"},"primaryPosition":{"abbreviation":"RF"}}],
             "awayPlayers":[]}},
 {"gamePk":745002,"gameDate":"2024-07-04T20:10:00Z","gameType":"R","season":"2024","status":{"detailedState":"Postponed"},
  "teams":{"home":{"team":{"id":111}},"away":{"team":{"id":110}}},"venue":{"id":3}},
 {"gamePk":745003,"gameDate":"2024-07-04T17:05:00Z","gameType":"E","season":"2024","status":{"detailedState":"Scheduled"},
  "teams":{"home":{"team":{"id":119}},"away":{"team":{"id":137}}},"venue":{"id":22}}
]}]}`

func newTestServer(t *testing.T, routes map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newClient(srv *httptest.Server) *Client {
	logger, _ := test.NewNullLogger()
	api := providers.NewClient(providers.Config{Name: "mlbstats", RequestsPerSecond: 1000, BreakerTimeout: time.Minute}, nil, logger)
	return NewClient(api, Config{
		BaseURL:     srv.URL + "/api/v1",
		LiveBaseURL: srv.URL + "/api/v1.1",
	}, reference.NewRegistry(), logger)
}

func TestGetBatterStats(t *testing.T) {
	srv := newTestServer(t, map[string]string{"/api/v1/people/592450": batterBody})
	c := newClient(srv)

	stats, err := c.GetBatterStats(context.Background(), 592450, 2024)
	require.NoError(t, err)

	assert.Equal(t, 2024, stats.Season)
	assert.Equal(t, 58, stats.HomeRuns)
	assert.Equal(t, 133, stats.Walks)
	assert.InDelta(t, 0.322, stats.AVG, 1e-9)
	assert.InDelta(t, 1.159, stats.OPS, 1e-9)
	require.NotNil(t, stats.VsLeft)
	require.NotNil(t, stats.VsRight)
	assert.Equal(t, 14, stats.VsLeft.HomeRuns)
	assert.InDelta(t, 1.143, stats.VsRight.OPS, 1e-9)
	// one count per year through 2024, the traded 2023 counted once
	assert.Equal(t, 4, stats.Seasons)
}

func TestGetBatterStatsPrefersCombinedSplit(t *testing.T) {
	srv := newTestServer(t, map[string]string{"/api/v1/people/1": tradedBody})
	c := newClient(srv)

	stats, err := c.GetBatterStats(context.Background(), 1, 2024)
	require.NoError(t, err)
	assert.Equal(t, 500, stats.AtBats)
	assert.Equal(t, 18, stats.HomeRuns)
	assert.Nil(t, stats.VsLeft)
	assert.Zero(t, stats.Seasons)
}

func TestGetBatterStatsMissing(t *testing.T) {
	srv := newTestServer(t, map[string]string{
		"/api/v1/people/2": `{"people":[{"id":2,"stats":[]}]}`,
		"/api/v1/people/3": `{"people":[]}`,
	})
	c := newClient(srv)

	_, err := c.GetBatterStats(context.Background(), 2, 2024)
	assert.ErrorIs(t, err, dfs.ErrNoData)

	_, err = c.GetBatterStats(context.Background(), 3, 2024)
	assert.ErrorIs(t, err, dfs.ErrNotFound)

	_, err = c.GetBatterStats(context.Background(), 4, 2024)
	assert.ErrorIs(t, err, dfs.ErrNotFound)
	assert.Equal(t, "missing_data", dfs.FailureReason(err))
}

func TestGetPitcherStats(t *testing.T) {
	srv := newTestServer(t, map[string]string{
		"/api/v1/people/669373": pitcherBody,
		"/api/v1/people/5":      `{"people":[{"id":5,"pitchHand":{"code":"R"},"stats":[]}]}`,
	})
	c := newClient(srv)

	stats, err := c.GetPitcherStats(context.Background(), 669373, 2024)
	require.NoError(t, err)
	assert.Equal(t, dfs.HandLeft, stats.Hand)
	assert.Equal(t, 31, stats.GamesStarted)
	assert.InDelta(t, 192.0, stats.InningsPitched, 1e-9)
	assert.InDelta(t, 2.39, stats.ERA, 1e-9)
	assert.InDelta(t, 10.69, stats.KPer9, 1e-9)
	assert.Equal(t, 228, stats.Strikeouts)
	assert.Equal(t, 3, stats.Seasons)

	empty, err := c.GetPitcherStats(context.Background(), 5, 2024)
	require.NoError(t, err)
	assert.Zero(t, empty.GamesPlayed)
	assert.Equal(t, dfs.HandRight, empty.Hand)
}

func TestGetTeamStats(t *testing.T) {
	srv := newTestServer(t, map[string]string{
		"/api/v1/teams/147/stats": teamBody,
		"/api/v1/teams/148/stats": `{"stats":[]}`,
		"/api/v1/teams/149/stats": teamWithoutRelieversBody,
	})
	c := newClient(srv)

	ts, err := c.GetTeamStats(context.Background(), 147, 2024)
	require.NoError(t, err)
	assert.Equal(t, 147, ts.TeamID)
	assert.InDelta(t, 815.0/162, ts.RunsPerGame, 1e-9)
	assert.InDelta(t, 0.781, ts.OPS, 1e-9)
	assert.InDelta(t, 1400.0/6200, ts.StrikeoutRate, 1e-9)
	assert.Equal(t, 94, ts.Wins)
	assert.InDelta(t, 9*222.0/570, ts.BullpenERA, 1e-9)

	ts, err = c.GetTeamStats(context.Background(), 149, 2024)
	require.NoError(t, err)
	assert.InDelta(t, 9*270.0/540, ts.BullpenERA, 1e-9)

	_, err = c.GetTeamStats(context.Background(), 148, 2024)
	assert.ErrorIs(t, err, dfs.ErrNoData)
}

func TestGetCatcherDefense(t *testing.T) {
	srv := newTestServer(t, map[string]string{
		"/api/v1/people/7/stats": catcherBody,
		"/api/v1/people/8/stats": `{"stats":[{"splits":[{"position":{"abbreviation":"1B"},"stat":{}}]}]}`,
	})
	c := newClient(srv)

	def, err := c.GetCatcherDefense(context.Background(), 7, 2024)
	require.NoError(t, err)
	assert.Equal(t, 48, def.StolenBasesAllowed)
	assert.Equal(t, 12, def.CaughtStealing)

	_, err = c.GetCatcherDefense(context.Background(), 8, 2024)
	assert.ErrorIs(t, err, dfs.ErrNoData)
}

func TestGetMatchupData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "10", r.URL.Query().Get("opposingPlayerId"))
		assert.Equal(t, "vsPlayer", r.URL.Query().Get("stats"))
		if r.URL.Path == "/api/v1/people/100/stats" {
			_, _ = w.Write([]byte(matchupBody))
			return
		}
		_, _ = w.Write([]byte(`{"stats":[]}`))
	}))
	defer srv.Close()
	c := newClient(srv)

	rec, err := c.GetMatchupData(context.Background(), 100, 10)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 14, rec.AtBats)
	assert.Equal(t, 2, rec.HomeRuns)
	assert.Equal(t, dfs.SampleMedium, rec.Tier())

	rec, err = c.GetMatchupData(context.Background(), 101, 10)
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestGetSlate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hydrate := r.URL.Query().Get("hydrate")
		assert.Contains(t, hydrate, "probablePitcher")
		assert.Contains(t, hydrate, "lineups")
		assert.Equal(t, "2024-07-04", r.URL.Query().Get("date"))
		_, _ = w.Write([]byte(scheduleBody))
	}))
	defer srv.Close()
	c := newClient(srv)

	games, err := c.GetSlate(context.Background(), time.Date(2024, 7, 4, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	require.Len(t, games, 1)
	g := games[0]
	assert.Equal(t, int64(745001), g.GamePk)
	assert.Equal(t, 2024, g.Season)
	assert.Equal(t, 3313, g.Venue.ID)
	assert.Equal(t, "ARI", g.Away.Abbreviation)
	assert.Equal(t, time.Date(2024, 7, 4, 23, 5, 0, 0, time.UTC), g.GameTime.UTC())

	require.NotNil(t, g.HomePitcher)
	assert.Equal(t, dfs.HandRight, g.HomePitcher.PitchHand)
	require.NotNil(t, g.AwayPitcher)
	assert.Equal(t, dfs.HandUnknown, g.AwayPitcher.PitchHand)
	assert.Equal(t, "ARI", g.AwayPitcher.Team)

	require.Len(t, g.HomeLineup, 2)
	assert.Equal(t, 2, g.HomeLineup[1].Order)
	assert.Equal(t, dfs.HandLeft, g.HomeLineup[1].Player.BatSide)
	assert.Equal(t, "NYY", g.HomeLineup[1].Player.Team)
	assert.Empty(t, g.AwayLineup)
}

func TestGetGameEnvironmentData(t *testing.T) {
	feeds := map[string]string{
		"/api/v1.1/game/1/feed/live": `{"gameData":{"venue":{"id":3313,"fieldInfo":{"roofType":"Open"}},"weather":{"condition":"Clear","temp":"88","wind":"14 mph, Out To CF"}}}`,
		"/api/v1.1/game/2/feed/live": `{"gameData":{"venue":{"id":12,"fieldInfo":{"roofType":"Dome"}},"weather":{"condition":"Dome","temp":"72","wind":"0 mph, None"}}}`,
		"/api/v1.1/game/3/feed/live": `{"gameData":{"venue":{"id":3313}}}`,
	}
	srv := newTestServer(t, feeds)
	c := newClient(srv)
	ctx := context.Background()

	env, err := c.GetGameEnvironmentData(ctx, dfs.GameRef{GamePk: 1, Venue: dfs.VenueRef{ID: 3313, Name: "Yankee Stadium"}})
	require.NoError(t, err)
	assert.True(t, env.Known)
	assert.True(t, env.Outdoor)
	assert.Equal(t, 88.0, env.Temperature)
	assert.Equal(t, 14.0, env.WindSpeed)
	assert.Equal(t, dfs.WindOut, env.WindDirection)
	assert.Equal(t, "Yankee Stadium", env.Venue.Name)

	env, err = c.GetGameEnvironmentData(ctx, dfs.GameRef{GamePk: 2})
	require.NoError(t, err)
	assert.False(t, env.Outdoor)
	assert.Equal(t, 12, env.Venue.ID)

	env, err = c.GetGameEnvironmentData(ctx, dfs.GameRef{GamePk: 3})
	require.NoError(t, err)
	assert.False(t, env.Known)

	_, err = c.GetGameEnvironmentData(ctx, dfs.GameRef{GamePk: 4})
	assert.ErrorIs(t, err, dfs.ErrNotFound)
}

func TestParseWind(t *testing.T) {
	tests := []struct {
		in      string
		speed   float64
		dir     dfs.WindDirection
		wantErr bool
	}{
		{"8 mph, Out To CF", 8, dfs.WindOut, false},
		{"12 mph, In From LF", 12, dfs.WindIn, false},
		{"6 mph, L To R", 6, dfs.WindCross, false},
		{"4 mph, Varies", 4, dfs.WindCross, false},
		{"0 mph, None", 0, dfs.WindCalm, false},
		{"", 0, dfs.WindUnknown, true},
		{"breezy", 0, dfs.WindUnknown, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			speed, dir, err := ParseWind(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.speed, speed)
			assert.Equal(t, tt.dir, dir)
		})
	}
}

func TestParseEnvironmentRoofClosed(t *testing.T) {
	venue := dfs.VenueRef{ID: 680}
	env := ParseEnvironment(9, venue, "Retractable", "Roof Closed", "71", "0 mph, None")
	assert.False(t, env.Outdoor)
	assert.True(t, env.Known)

	env = ParseEnvironment(9, venue, "Retractable", "Sunny", "81", "5 mph, Out To RF")
	assert.True(t, env.Outdoor)
	assert.Equal(t, 81.0, env.Temperature)
}

func TestParseInnings(t *testing.T) {
	assert.InDelta(t, 123.0+1.0/3, ParseInnings("123.1"), 1e-9)
	assert.InDelta(t, 6.0+2.0/3, ParseInnings("6.2"), 1e-9)
	assert.Equal(t, 45.0, ParseInnings("45.0"))
	assert.Equal(t, 7.0, ParseInnings("7"))
	assert.Zero(t, ParseInnings(""))
	assert.Zero(t, ParseInnings("-.--"))
}

func TestStatValuesRoundTripThroughCache(t *testing.T) {
	var st pitchingStat
	require.NoError(t, json.Unmarshal([]byte(`{"inningsPitched":"123.1","era":"-.--","whip":1.05}`), &st))
	assert.InDelta(t, 123.333, float64(st.InningsPitched), 1e-3)
	assert.Zero(t, float64(st.ERA))
	assert.Equal(t, 1.05, float64(st.WHIP))

	b, err := json.Marshal(st)
	require.NoError(t, err)
	var again pitchingStat
	require.NoError(t, json.Unmarshal(b, &again))
	assert.Equal(t, st.InningsPitched, again.InningsPitched)
}
