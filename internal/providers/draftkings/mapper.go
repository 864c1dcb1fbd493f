package draftkings

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jstittsworth/mlb-dfs-projections/internal/dfs"
	"github.com/jstittsworth/mlb-dfs-projections/internal/reference"
)

var suffixes = map[string]bool{
	"jr": true, "sr": true, "ii": true, "iii": true, "iv": true,
}

// NormalizeName folds accents, case, punctuation and generational suffixes so
// "Ronald Acuña Jr." and "Ronald Acuna" compare equal
func NormalizeName(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}
	folded = strings.ToLower(folded)

	folded = strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			return r
		case r == '-', unicode.IsSpace(r):
			return ' '
		}
		return -1
	}, folded)

	words := strings.Fields(folded)
	for len(words) > 1 && suffixes[words[len(words)-1]] {
		words = words[:len(words)-1]
	}
	return strings.Join(words, " ")
}

// Mapper implements dfs.FantasySiteMapper over a loaded salary file
type Mapper struct {
	mu     sync.RWMutex
	teams  *reference.Registry
	byKey  map[string]Salary
	byName map[string][]Salary
	byID   map[int64]Salary
}

// NewMapper indexes salaries by normalised name and team
func NewMapper(salaries []Salary, teams *reference.Registry) *Mapper {
	m := &Mapper{teams: teams}
	m.Load(salaries)
	return m
}

// Load replaces the indexed salaries
func (m *Mapper) Load(salaries []Salary) {
	byKey := make(map[string]Salary, len(salaries))
	byName := make(map[string][]Salary, len(salaries))
	for _, s := range salaries {
		name := NormalizeName(s.Name)
		key := name + "|" + m.team(s.Team)
		if _, dup := byKey[key]; !dup {
			byKey[key] = s
		}
		byName[name] = append(byName[name], s)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.byKey = byKey
	m.byName = byName
	m.byID = make(map[int64]Salary)
}

// Pin maps an MLB player ID to a salary row directly, for names that will not match
func (m *Mapper) Pin(playerID int64, s Salary) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[playerID] = s
}

// Len returns the number of indexed rows
func (m *Mapper) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byKey)
}

// MapPlayerToFantasySite finds the player's salary row by name and team, falling back to a
// unique name match when the team differs (recent trades)
func (m *Mapper) MapPlayerToFantasySite(playerID int64, name, team string) *dfs.SiteLink {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if s, ok := m.byID[playerID]; ok {
		return link(s)
	}

	normalized := NormalizeName(name)
	if normalized == "" {
		return nil
	}
	if s, ok := m.byKey[normalized+"|"+m.team(team)]; ok {
		return link(s)
	}
	if candidates := m.byName[normalized]; len(candidates) == 1 {
		return link(candidates[0])
	}
	return nil
}

func (m *Mapper) team(abbr string) string {
	if m.teams == nil {
		return strings.ToUpper(strings.TrimSpace(abbr))
	}
	return m.teams.Canonical(abbr)
}

func link(s Salary) *dfs.SiteLink {
	return &dfs.SiteLink{
		ExternalID:       s.ID,
		Salary:           s.Salary,
		Position:         s.Position,
		AvgPointsPerGame: s.AvgPointsPerGame,
	}
}
