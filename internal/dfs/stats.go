package dfs

// SplitStats is a handedness split for a batter
type SplitStats struct {
	PlateAppearances int     `json:"pa"`
	AtBats           int     `json:"ab"`
	Hits             int     `json:"h"`
	HomeRuns         int     `json:"hr"`
	AVG              float64 `json:"avg"`
	OBP              float64 `json:"obp"`
	SLG              float64 `json:"slg"`
	OPS              float64 `json:"ops"`
}

// AdvancedMetrics are the tracking-data signals some players carry.
// A zero field means the metric was not reported.
type AdvancedMetrics struct {
	BarrelRate  float64 `json:"barrel_rate"`
	HardHitRate float64 `json:"hard_hit_rate"`
	XWOBA       float64 `json:"xwoba"`
	SprintSpeed float64 `json:"sprint_speed"` // ft/s
}

// BatterStats is a season (or career) batting line
type BatterStats struct {
	Season           int `json:"season"`
	Seasons          int `json:"seasons,omitempty"` // career seasons through Season, 0 when unknown
	GamesPlayed      int `json:"games_played"`
	PlateAppearances int `json:"pa"`
	AtBats           int `json:"ab"`
	Hits             int `json:"h"`
	Doubles          int `json:"doubles"`
	Triples          int `json:"triples"`
	HomeRuns         int `json:"hr"`
	Runs             int `json:"r"`
	RBI              int `json:"rbi"`
	Walks            int `json:"bb"`
	Strikeouts       int `json:"so"`
	StolenBases      int `json:"sb"`
	CaughtStealing   int `json:"cs"`
	HitByPitch       int `json:"hbp"`
	SacFlies         int `json:"sf"`

	AVG    float64 `json:"avg"`
	OBP    float64 `json:"obp"`
	SLG    float64 `json:"slg"`
	OPS    float64 `json:"ops"`
	ISO    float64 `json:"iso"`
	BABIP  float64 `json:"babip"`
	KRate  float64 `json:"k_rate"`
	BBRate float64 `json:"bb_rate"`

	VsLeft   *SplitStats      `json:"vs_left,omitempty"`
	VsRight  *SplitStats      `json:"vs_right,omitempty"`
	Advanced *AdvancedMetrics `json:"advanced,omitempty"`
}

// Singles is hits that were not extra-base hits
func (s BatterStats) Singles() int {
	singles := s.Hits - s.Doubles - s.Triples - s.HomeRuns
	if singles < 0 {
		return 0
	}
	return singles
}

// TimesOnFirst approximates stolen-base opportunities
func (s BatterStats) TimesOnFirst() int {
	return s.Singles() + s.Walks + s.HitByPitch
}

// HasAdvanced reports whether any tracking metric is present
func (s BatterStats) HasAdvanced() bool {
	return s.Advanced != nil && (s.Advanced.BarrelRate > 0 || s.Advanced.SprintSpeed > 0 || s.Advanced.XWOBA > 0)
}

// Split returns the split against a pitcher of the given hand
func (s BatterStats) Split(pitchHand Handedness) *SplitStats {
	switch pitchHand {
	case HandLeft:
		return s.VsLeft
	case HandRight:
		return s.VsRight
	}
	return nil
}

// Derive fills rate stats the provider left empty from the counting stats
func (s BatterStats) Derive() BatterStats {
	if s.PlateAppearances == 0 {
		s.PlateAppearances = s.AtBats + s.Walks + s.HitByPitch + s.SacFlies
	}
	if s.AtBats > 0 {
		if s.AVG == 0 {
			s.AVG = float64(s.Hits) / float64(s.AtBats)
		}
		if s.SLG == 0 {
			totalBases := s.Singles() + 2*s.Doubles + 3*s.Triples + 4*s.HomeRuns
			s.SLG = float64(totalBases) / float64(s.AtBats)
		}
	}
	if s.OBP == 0 {
		denom := s.AtBats + s.Walks + s.HitByPitch + s.SacFlies
		if denom > 0 {
			s.OBP = float64(s.Hits+s.Walks+s.HitByPitch) / float64(denom)
		}
	}
	if s.OPS == 0 {
		s.OPS = s.OBP + s.SLG
	}
	if s.ISO == 0 && s.SLG > 0 {
		s.ISO = s.SLG - s.AVG
	}
	if s.BABIP == 0 {
		denom := s.AtBats - s.Strikeouts - s.HomeRuns + s.SacFlies
		if denom > 0 {
			s.BABIP = float64(s.Hits-s.HomeRuns) / float64(denom)
		}
	}
	if s.PlateAppearances > 0 {
		if s.KRate == 0 {
			s.KRate = float64(s.Strikeouts) / float64(s.PlateAppearances)
		}
		if s.BBRate == 0 {
			s.BBRate = float64(s.Walks) / float64(s.PlateAppearances)
		}
	}
	return s
}

// PitcherStats is a season pitching line. InningsPitched is in true innings (6.2 IP = 6.667).
type PitcherStats struct {
	Season          int        `json:"season"`
	Seasons         int        `json:"seasons,omitempty"` // career seasons through Season, 0 when unknown
	Hand            Handedness `json:"hand,omitempty"`
	GamesPlayed     int        `json:"games_played"`
	GamesStarted    int        `json:"games_started"`
	InningsPitched  float64    `json:"ip"`
	Wins            int        `json:"w"`
	Losses          int        `json:"l"`
	EarnedRuns      int        `json:"er"`
	HitsAllowed     int        `json:"h"`
	HomeRunsAllowed int        `json:"hr"`
	Walks           int        `json:"bb"`
	Strikeouts      int        `json:"so"`
	HitBatsmen      int        `json:"hbp"`
	CompleteGames   int        `json:"cg"`
	Shutouts        int        `json:"sho"`
	BattersFaced    int        `json:"bf"`

	ERA    float64 `json:"era"`
	WHIP   float64 `json:"whip"`
	KPer9  float64 `json:"k_per_9"`
	BBPer9 float64 `json:"bb_per_9"`
	HRPer9 float64 `json:"hr_per_9"`
	HPer9  float64 `json:"h_per_9"`
	FIP    float64 `json:"fip"`
	KRate  float64 `json:"k_rate"`
}

// fipConstant approximates the league FIP constant
const fipConstant = 3.15

// Derive fills rate stats the provider left empty from the counting stats
func (s PitcherStats) Derive() PitcherStats {
	ip := s.InningsPitched
	if ip > 0 {
		per9 := func(n int) float64 { return float64(n) * 9 / ip }
		if s.ERA == 0 {
			s.ERA = per9(s.EarnedRuns)
		}
		if s.WHIP == 0 {
			s.WHIP = float64(s.Walks+s.HitsAllowed) / ip
		}
		if s.KPer9 == 0 {
			s.KPer9 = per9(s.Strikeouts)
		}
		if s.BBPer9 == 0 {
			s.BBPer9 = per9(s.Walks)
		}
		if s.HRPer9 == 0 {
			s.HRPer9 = per9(s.HomeRunsAllowed)
		}
		if s.HPer9 == 0 {
			s.HPer9 = per9(s.HitsAllowed)
		}
		if s.FIP == 0 {
			s.FIP = (13*float64(s.HomeRunsAllowed)+3*float64(s.Walks+s.HitBatsmen)-2*float64(s.Strikeouts))/ip + fipConstant
		}
	}
	if s.BattersFaced == 0 && ip > 0 {
		// outs plus baserunners is close enough when the provider omits BF
		s.BattersFaced = int(ip*3) + s.HitsAllowed + s.Walks + s.HitBatsmen
	}
	if s.KRate == 0 && s.BattersFaced > 0 {
		s.KRate = float64(s.Strikeouts) / float64(s.BattersFaced)
	}
	return s
}

// InningsPerStart is average innings per start, falling back to per appearance
func (s PitcherStats) InningsPerStart() float64 {
	switch {
	case s.GamesStarted > 0:
		return s.InningsPitched / float64(s.GamesStarted)
	case s.GamesPlayed > 0:
		return s.InningsPitched / float64(s.GamesPlayed)
	}
	return 0
}

// TeamStats is the team-level context used by run production, innings and win probability
type TeamStats struct {
	TeamID        int     `json:"team_id"`
	Season        int     `json:"season"`
	GamesPlayed   int     `json:"games_played"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	RunsPerGame   float64 `json:"runs_per_game"`
	OPS           float64 `json:"ops"`
	StrikeoutRate float64 `json:"strikeout_rate"`
	BullpenERA    float64 `json:"bullpen_era"`
}

// WinPct returns the team's winning percentage, .500 with no decisions
func (t TeamStats) WinPct() float64 {
	if t.Wins+t.Losses == 0 {
		return 0.5
	}
	return float64(t.Wins) / float64(t.Wins+t.Losses)
}

// CatcherDefense is a catcher's running-game record
type CatcherDefense struct {
	CatcherID          int64 `json:"catcher_id"`
	StolenBasesAllowed int   `json:"sb_allowed"`
	CaughtStealing     int   `json:"caught_stealing"`
}

// CaughtStealingRate returns CS / attempts, or ok=false with no attempts
func (c CatcherDefense) CaughtStealingRate() (float64, bool) {
	attempts := c.StolenBasesAllowed + c.CaughtStealing
	if attempts == 0 {
		return 0, false
	}
	return float64(c.CaughtStealing) / float64(attempts), true
}
