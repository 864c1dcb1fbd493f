package dfs

// League-average baselines used whenever a player's own rate is missing
const (
	LeagueAVG   = 0.248
	LeagueOBP   = 0.312
	LeagueSLG   = 0.399
	LeagueOPS   = 0.711
	LeagueISO   = 0.151
	LeagueBABIP = 0.291

	// per at-bat
	LeagueSingleRate  = 0.167
	LeagueDoubleRate  = 0.047
	LeagueTripleRate  = 0.004
	LeagueHomeRunRate = 0.030

	// per plate appearance
	LeagueWalkRate      = 0.082
	LeagueHBPRate       = 0.011
	LeagueSacFlyRate    = 0.008
	LeagueStrikeoutRate = 0.225
	LeagueRunRate       = 0.115
	LeagueRBIRate       = 0.110

	// running game
	LeagueSBAttemptRate  = 0.065 // attempts per time on first
	LeagueSBSuccessRate  = 0.78
	LeagueCaughtStealing = 0.22
	LeagueSprintSpeed    = 27.0
	LeagueBarrelRate     = 0.075

	// pitching
	LeagueERA             = 4.10
	LeagueFIP             = 4.10
	LeagueWHIP            = 1.28
	LeagueKPer9           = 8.7
	LeagueBBPer9          = 3.2
	LeagueHBPPer9         = 0.4
	LeagueHRPer9          = 1.2
	LeagueHPer9           = 8.3
	LeagueInningsPerStart = 5.2
	LeagueCompleteGame    = 0.01

	// team
	LeagueRunsPerGame = 4.4
	LeagueBullpenERA  = 4.00
)

// MinAtBats is the smallest batting sample treated as usable data
const MinAtBats = 20
