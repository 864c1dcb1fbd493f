package dfstest

import "github.com/jstittsworth/mlb-dfs-projections/internal/dfs"

// Season is the season fixtures are seeded for
const Season = 2024

// Game builds a game with probable starters and a three-man lineup on each side, including a catcher.
// Player IDs are derived from gamePk so several games never collide.
func Game(gamePk int64, home, away dfs.TeamRef, venueID int) dfs.Game {
	base := gamePk * 100
	side := func(team dfs.TeamRef, offset int64) []dfs.LineupEntry {
		return []dfs.LineupEntry{
			{Player: dfs.PlayerIdentity{ID: base + offset + 1, Name: team.Abbreviation + " Leadoff", Team: team.Abbreviation, TeamID: team.ID, BatSide: dfs.HandLeft, Position: "CF"}, Order: 1},
			{Player: dfs.PlayerIdentity{ID: base + offset + 2, Name: team.Abbreviation + " Cleanup", Team: team.Abbreviation, TeamID: team.ID, BatSide: dfs.HandRight, Position: "1B"}, Order: 4},
			{Player: dfs.PlayerIdentity{ID: base + offset + 3, Name: team.Abbreviation + " Catcher", Team: team.Abbreviation, TeamID: team.ID, BatSide: dfs.HandRight, Position: "C"}, Order: 9},
		}
	}
	return dfs.Game{
		GameRef: dfs.GameRef{
			GamePk: gamePk,
			Venue:  dfs.VenueRef{ID: venueID, Name: home.Name},
			Home:   home,
			Away:   away,
		},
		Season:      Season,
		HomePitcher: &dfs.PlayerIdentity{ID: base + 10, Name: home.Abbreviation + " Starter", Team: home.Abbreviation, TeamID: home.ID, PitchHand: dfs.HandRight, Position: "P"},
		AwayPitcher: &dfs.PlayerIdentity{ID: base + 50, Name: away.Abbreviation + " Starter", Team: away.Abbreviation, TeamID: away.ID, PitchHand: dfs.HandLeft, Position: "P"},
		HomeLineup:  side(home, 10),
		AwayLineup:  side(away, 50),
	}
}

// BatterLine is an ordinary everyday hitter's season
func BatterLine() dfs.BatterStats {
	return dfs.BatterStats{
		Season: Season, GamesPlayed: 150, PlateAppearances: 620, AtBats: 550, Hits: 150, Doubles: 30,
		Triples: 3, HomeRuns: 22, Runs: 80, RBI: 78, Walks: 55, Strikeouts: 130, StolenBases: 10,
		CaughtStealing: 3, HitByPitch: 6, SacFlies: 5,
	}
}

// PitcherLine is a mid-rotation starter's season
func PitcherLine() dfs.PitcherStats {
	return dfs.PitcherStats{
		Season: Season, GamesPlayed: 30, GamesStarted: 30, InningsPitched: 175, Wins: 11, Losses: 9,
		EarnedRuns: 75, HitsAllowed: 165, HomeRunsAllowed: 21, Walks: 52, Strikeouts: 180, HitBatsmen: 7,
	}
}

// TeamLine is a roughly league-average club
func TeamLine(teamID int) dfs.TeamStats {
	return dfs.TeamStats{
		TeamID: teamID, Season: Season, GamesPlayed: 120, Wins: 62, Losses: 58, RunsPerGame: 4.5,
		OPS: 0.720, StrikeoutRate: 0.225, BullpenERA: 4.0,
	}
}

// Seed adds the game and gives every player in it a full current season
func (p *Provider) Seed(g dfs.Game) *Provider {
	p.AddGame(g)
	p.AddPark(dfs.NeutralBallpark(g.Venue.ID))
	p.AddTeam(g.Home.ID, Season, TeamLine(g.Home.ID))
	p.AddTeam(g.Away.ID, Season, TeamLine(g.Away.ID))
	for _, sp := range []*dfs.PlayerIdentity{g.HomePitcher, g.AwayPitcher} {
		if sp != nil {
			p.AddPitcher(sp.ID, Season, PitcherLine())
		}
	}
	for _, lineup := range [][]dfs.LineupEntry{g.HomeLineup, g.AwayLineup} {
		for _, e := range lineup {
			p.AddBatter(e.Player.ID, Season, BatterLine())
			if e.Player.Position == "C" {
				p.AddCatcher(e.Player.ID, dfs.CatcherDefense{CatcherID: e.Player.ID, StolenBasesAllowed: 45, CaughtStealing: 12})
			}
		}
	}
	return p
}
