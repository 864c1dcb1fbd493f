package reference

import (
	"sort"
	"strings"
)

// Team is one club in the shared identity registry
type Team struct {
	ID           int     `json:"id"`
	Abbreviation string  `json:"abbreviation"`
	SiteAbbrev   string  `json:"site_abbreviation"` // DraftKings
	Name         string  `json:"name"`
	League       string  `json:"league"`
	HomeVenueID  int     `json:"home_venue_id"`
	HookTendency float64 `json:"hook_tendency"` // starter innings multiplier, <1 pulls starters early
}

var teams = []Team{
	{ID: 108, Abbreviation: "LAA", SiteAbbrev: "LAA", Name: "Los Angeles Angels", League: "AL", HomeVenueID: 1, HookTendency: 0.98},
	{ID: 109, Abbreviation: "ARI", SiteAbbrev: "ARI", Name: "Arizona Diamondbacks", League: "NL", HomeVenueID: 15, HookTendency: 1.00},
	{ID: 110, Abbreviation: "BAL", SiteAbbrev: "BAL", Name: "Baltimore Orioles", League: "AL", HomeVenueID: 2, HookTendency: 0.97},
	{ID: 111, Abbreviation: "BOS", SiteAbbrev: "BOS", Name: "Boston Red Sox", League: "AL", HomeVenueID: 3, HookTendency: 0.96},
	{ID: 112, Abbreviation: "CHC", SiteAbbrev: "CHC", Name: "Chicago Cubs", League: "NL", HomeVenueID: 17, HookTendency: 0.99},
	{ID: 113, Abbreviation: "CIN", SiteAbbrev: "CIN", Name: "Cincinnati Reds", League: "NL", HomeVenueID: 2602, HookTendency: 0.98},
	{ID: 114, Abbreviation: "CLE", SiteAbbrev: "CLE", Name: "Cleveland Guardians", League: "AL", HomeVenueID: 5, HookTendency: 1.02},
	{ID: 115, Abbreviation: "COL", SiteAbbrev: "COL", Name: "Colorado Rockies", League: "NL", HomeVenueID: 19, HookTendency: 1.03},
	{ID: 116, Abbreviation: "DET", SiteAbbrev: "DET", Name: "Detroit Tigers", League: "AL", HomeVenueID: 2394, HookTendency: 0.97},
	{ID: 117, Abbreviation: "HOU", SiteAbbrev: "HOU", Name: "Houston Astros", League: "AL", HomeVenueID: 2392, HookTendency: 1.01},
	{ID: 118, Abbreviation: "KC", SiteAbbrev: "KC", Name: "Kansas City Royals", League: "AL", HomeVenueID: 7, HookTendency: 1.04},
	{ID: 119, Abbreviation: "LAD", SiteAbbrev: "LAD", Name: "Los Angeles Dodgers", League: "NL", HomeVenueID: 22, HookTendency: 0.95},
	{ID: 120, Abbreviation: "WSH", SiteAbbrev: "WSH", Name: "Washington Nationals", League: "NL", HomeVenueID: 3309, HookTendency: 1.02},
	{ID: 121, Abbreviation: "NYM", SiteAbbrev: "NYM", Name: "New York Mets", League: "NL", HomeVenueID: 3289, HookTendency: 0.98},
	{ID: 133, Abbreviation: "ATH", SiteAbbrev: "ATH", Name: "Athletics", League: "AL", HomeVenueID: 2529, HookTendency: 0.99},
	{ID: 134, Abbreviation: "PIT", SiteAbbrev: "PIT", Name: "Pittsburgh Pirates", League: "NL", HomeVenueID: 31, HookTendency: 1.00},
	{ID: 135, Abbreviation: "SD", SiteAbbrev: "SD", Name: "San Diego Padres", League: "NL", HomeVenueID: 2680, HookTendency: 0.97},
	{ID: 136, Abbreviation: "SEA", SiteAbbrev: "SEA", Name: "Seattle Mariners", League: "AL", HomeVenueID: 680, HookTendency: 1.04},
	{ID: 137, Abbreviation: "SF", SiteAbbrev: "SF", Name: "San Francisco Giants", League: "NL", HomeVenueID: 2395, HookTendency: 0.99},
	{ID: 138, Abbreviation: "STL", SiteAbbrev: "STL", Name: "St. Louis Cardinals", League: "NL", HomeVenueID: 2889, HookTendency: 1.01},
	{ID: 139, Abbreviation: "TB", SiteAbbrev: "TB", Name: "Tampa Bay Rays", League: "AL", HomeVenueID: 12, HookTendency: 0.92},
	{ID: 140, Abbreviation: "TEX", SiteAbbrev: "TEX", Name: "Texas Rangers", League: "AL", HomeVenueID: 5325, HookTendency: 1.00},
	{ID: 141, Abbreviation: "TOR", SiteAbbrev: "TOR", Name: "Toronto Blue Jays", League: "AL", HomeVenueID: 14, HookTendency: 0.99},
	{ID: 142, Abbreviation: "MIN", SiteAbbrev: "MIN", Name: "Minnesota Twins", League: "AL", HomeVenueID: 3312, HookTendency: 0.96},
	{ID: 143, Abbreviation: "PHI", SiteAbbrev: "PHI", Name: "Philadelphia Phillies", League: "NL", HomeVenueID: 2681, HookTendency: 1.05},
	{ID: 144, Abbreviation: "ATL", SiteAbbrev: "ATL", Name: "Atlanta Braves", League: "NL", HomeVenueID: 4705, HookTendency: 1.01},
	{ID: 145, Abbreviation: "CWS", SiteAbbrev: "CWS", Name: "Chicago White Sox", League: "AL", HomeVenueID: 4, HookTendency: 0.98},
	{ID: 146, Abbreviation: "MIA", SiteAbbrev: "MIA", Name: "Miami Marlins", League: "NL", HomeVenueID: 4169, HookTendency: 0.97},
	{ID: 147, Abbreviation: "NYY", SiteAbbrev: "NYY", Name: "New York Yankees", League: "AL", HomeVenueID: 3313, HookTendency: 1.00},
	{ID: 158, Abbreviation: "MIL", SiteAbbrev: "MIL", Name: "Milwaukee Brewers", League: "NL", HomeVenueID: 32, HookTendency: 0.98},
}

// alternate abbreviations seen in salary files and older feeds
var aliases = map[string]string{
	"OAK": "ATH",
	"WAS": "WSH",
	"CHW": "CWS",
	"KCR": "KC",
	"SDP": "SD",
	"SFG": "SF",
	"TBR": "TB",
	"AZ":  "ARI",
}

// Registry is the single team lookup shared by providers and calculators
type Registry struct {
	byID     map[int]Team
	byAbbrev map[string]Team
}

// NewRegistry builds the registry from the built-in table
func NewRegistry() *Registry {
	r := &Registry{
		byID:     make(map[int]Team, len(teams)),
		byAbbrev: make(map[string]Team, len(teams)*2),
	}
	for _, t := range teams {
		r.byID[t.ID] = t
		r.byAbbrev[t.Abbreviation] = t
		r.byAbbrev[t.SiteAbbrev] = t
	}
	for alias, canonical := range aliases {
		if t, ok := r.byAbbrev[canonical]; ok {
			r.byAbbrev[alias] = t
		}
	}
	return r
}

// Team looks a club up by MLB team ID
func (r *Registry) Team(id int) (Team, bool) {
	t, ok := r.byID[id]
	return t, ok
}

// ByAbbreviation looks a club up by any known abbreviation, case-insensitively
func (r *Registry) ByAbbreviation(abbr string) (Team, bool) {
	t, ok := r.byAbbrev[strings.ToUpper(strings.TrimSpace(abbr))]
	return t, ok
}

// Canonical normalises an abbreviation to the registry's form, or returns it upper-cased
func (r *Registry) Canonical(abbr string) string {
	if t, ok := r.ByAbbreviation(abbr); ok {
		return t.Abbreviation
	}
	return strings.ToUpper(strings.TrimSpace(abbr))
}

// HookTendency returns a team's starter-innings multiplier, 1.0 when unknown
func (r *Registry) HookTendency(teamID int) float64 {
	if t, ok := r.byID[teamID]; ok && t.HookTendency > 0 {
		return t.HookTendency
	}
	return 1.0
}

// All returns every team ordered by ID
func (r *Registry) All() []Team {
	out := make([]Team, 0, len(r.byID))
	for _, t := range r.byID {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
