package mlbstats

import (
	"encoding/json"
	"strconv"
	"strings"
)

// rate is a stat the API sends either as a number or as a string such as ".275" or "-.--"
type rate float64

func (r *rate) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" || strings.Contains(s, "-.-") || s == "*.**" {
		*r = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*r = 0
		return nil
	}
	*r = rate(v)
	return nil
}

// innings is "IP" in baseball notation when quoted ("123.1" is 123 and one third) and true
// innings when a bare number, which is how a cached copy round-trips
type innings float64

func (i *innings) UnmarshalJSON(b []byte) error {
	s := string(b)
	if strings.HasPrefix(s, `"`) {
		*i = innings(ParseInnings(strings.Trim(s, `"`)))
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*i = 0
		return nil
	}
	*i = innings(v)
	return nil
}

// ParseInnings converts baseball innings notation to true innings
func ParseInnings(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	whole, frac, _ := strings.Cut(s, ".")
	w, err := strconv.Atoi(whole)
	if err != nil {
		return 0
	}
	outs := 0
	if frac != "" {
		outs, _ = strconv.Atoi(frac[:1])
		if outs > 2 {
			outs = 2
		}
	}
	return float64(w) + float64(outs)/3
}

type codeDesc struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type personResponse struct {
	People []person `json:"people"`
}

type person struct {
	ID              int64    `json:"id"`
	FullName        string   `json:"fullName"`
	BatSide         codeDesc `json:"batSide"`
	PitchHand       codeDesc `json:"pitchHand"`
	PrimaryPosition struct {
		Abbreviation string `json:"abbreviation"`
	} `json:"primaryPosition"`
	CurrentTeam struct {
		ID int `json:"id"`
	} `json:"currentTeam"`
	Stats []statGroup `json:"stats"`
}

type statsResponse struct {
	Stats []statGroup `json:"stats"`
}

type statGroup struct {
	Type struct {
		DisplayName string `json:"displayName"`
	} `json:"type"`
	Group struct {
		DisplayName string `json:"displayName"`
	} `json:"group"`
	Splits []statSplit `json:"splits"`
}

type statSplit struct {
	Season string          `json:"season"`
	Stat   json.RawMessage `json:"stat"`
	Split  *struct {
		Code string `json:"code"`
	} `json:"split,omitempty"`
	Position *struct {
		Abbreviation string `json:"abbreviation"`
	} `json:"position,omitempty"`
	Team *struct {
		ID int `json:"id"`
	} `json:"team,omitempty"`
}

type hittingStat struct {
	GamesPlayed      int  `json:"gamesPlayed"`
	PlateAppearances int  `json:"plateAppearances"`
	AtBats           int  `json:"atBats"`
	Hits             int  `json:"hits"`
	Doubles          int  `json:"doubles"`
	Triples          int  `json:"triples"`
	HomeRuns         int  `json:"homeRuns"`
	Runs             int  `json:"runs"`
	RBI              int  `json:"rbi"`
	BaseOnBalls      int  `json:"baseOnBalls"`
	StrikeOuts       int  `json:"strikeOuts"`
	StolenBases      int  `json:"stolenBases"`
	CaughtStealing   int  `json:"caughtStealing"`
	HitByPitch       int  `json:"hitByPitch"`
	SacFlies         int  `json:"sacFlies"`
	AVG              rate `json:"avg"`
	OBP              rate `json:"obp"`
	SLG              rate `json:"slg"`
	OPS              rate `json:"ops"`
	BABIP            rate `json:"babip"`
}

type pitchingStat struct {
	GamesPlayed    int     `json:"gamesPlayed"`
	GamesStarted   int     `json:"gamesStarted"`
	InningsPitched innings `json:"inningsPitched"`
	Wins           int     `json:"wins"`
	Losses         int     `json:"losses"`
	EarnedRuns     int     `json:"earnedRuns"`
	Hits           int     `json:"hits"`
	HomeRuns       int     `json:"homeRuns"`
	BaseOnBalls    int     `json:"baseOnBalls"`
	StrikeOuts     int     `json:"strikeOuts"`
	HitBatsmen     int     `json:"hitBatsmen"`
	CompleteGames  int     `json:"completeGames"`
	Shutouts       int     `json:"shutouts"`
	BattersFaced   int     `json:"battersFaced"`
	ERA            rate    `json:"era"`
	WHIP           rate    `json:"whip"`
	StrikeoutsPer9 rate    `json:"strikeoutsPer9Inn"`
	WalksPer9      rate    `json:"walksPer9Inn"`
	HomeRunsPer9   rate    `json:"homeRunsPer9"`
	HitsPer9       rate    `json:"hitsPer9Inn"`
}

type fieldingStat struct {
	StolenBases    int `json:"stolenBases"`
	CaughtStealing int `json:"caughtStealing"`
}

type scheduleResponse struct {
	Dates []struct {
		Date  string         `json:"date"`
		Games []scheduleGame `json:"games"`
	} `json:"dates"`
}

type scheduleGame struct {
	GamePk   int64  `json:"gamePk"`
	GameDate string `json:"gameDate"`
	GameType string `json:"gameType"`
	Season   string `json:"season"`
	Status   struct {
		AbstractGameState string `json:"abstractGameState"`
		DetailedState     string `json:"detailedState"`
	} `json:"status"`
	Teams struct {
		Home scheduleSide `json:"home"`
		Away scheduleSide `json:"away"`
	} `json:"teams"`
	Venue struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"venue"`
	Lineups *struct {
		HomePlayers []lineupPlayer `json:"homePlayers"`
		AwayPlayers []lineupPlayer `json:"awayPlayers"`
	} `json:"lineups,omitempty"`
	Weather *weather `json:"weather,omitempty"`
}

type scheduleSide struct {
	Team struct {
		ID           int    `json:"id"`
		Name         string `json:"name"`
		Abbreviation string `json:"abbreviation"`
	} `json:"team"`
	ProbablePitcher *struct {
		ID        int64    `json:"id"`
		FullName  string   `json:"fullName"`
		PitchHand codeDesc `json:"pitchHand"`
	} `json:"probablePitcher,omitempty"`
}

type lineupPlayer struct {
	ID              int64    `json:"id"`
	FullName        string   `json:"fullName"`
	BatSide         codeDesc `json:"batSide"`
	PrimaryPosition struct {
		Abbreviation string `json:"abbreviation"`
	} `json:"primaryPosition"`
}

type weather struct {
	Condition string `json:"condition"`
	Temp      string `json:"temp"`
	Wind      string `json:"wind"`
}

type liveFeed struct {
	GameData struct {
		Game struct {
			Pk int64 `json:"pk"`
		} `json:"game"`
		Venue struct {
			ID        int    `json:"id"`
			Name      string `json:"name"`
			FieldInfo struct {
				RoofType string `json:"roofType"`
			} `json:"fieldInfo"`
		} `json:"venue"`
		Weather weather `json:"weather"`
	} `json:"gameData"`
}
