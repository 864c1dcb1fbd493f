// Package draftkings reads DraftKings salary exports and maps MLB players onto them.
package draftkings

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrNoHeader is returned when a file has no recognisable salary header row
var ErrNoHeader = errors.New("salary header not found")

// Salary is one row of a DKSalaries.csv export
type Salary struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Position         string  `json:"position"`
	RosterPosition   string  `json:"roster_position"`
	Salary           int     `json:"salary"`
	GameInfo         string  `json:"game_info"`
	Team             string  `json:"team"`
	AvgPointsPerGame float64 `json:"avg_points_per_game"`
}

// Pitcher reports whether the row is a pitcher slot
func (s Salary) Pitcher() bool {
	switch s.Position {
	case "P", "SP", "RP":
		return true
	}
	return false
}

var required = []string{"name", "id", "salary", "teamabbrev"}

// ParseSalaries reads a salary export. Rows before the header are skipped so full contest
// exports with instructions at the top also parse.
func ParseSalaries(r io.Reader) ([]Salary, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var cols map[string]int
	line := 0
	var out []Salary
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		if cols == nil {
			cols = header(record)
			continue
		}
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}

		s, err := row(record, cols)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, s)
	}
	if cols == nil {
		return nil, ErrNoHeader
	}
	return out, nil
}

// LoadFile parses the salary export at path
func LoadFile(path string) ([]Salary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open salaries: %w", err)
	}
	defer f.Close()

	salaries, err := ParseSalaries(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return salaries, nil
}

// header indexes the record's columns, nil unless every required column is present
func header(record []string) map[string]int {
	cols := make(map[string]int, len(record))
	for i, name := range record {
		name = strings.TrimPrefix(name, "\ufeff")
		key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", ""))
		if _, dup := cols[key]; !dup {
			cols[key] = i
		}
	}
	for _, k := range required {
		if _, ok := cols[k]; !ok {
			return nil
		}
	}
	return cols
}

func row(record []string, cols map[string]int) (Salary, error) {
	get := func(key string) string {
		i, ok := cols[key]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	salary, err := strconv.Atoi(get("salary"))
	if err != nil {
		return Salary{}, fmt.Errorf("salary %q for %s: %w", get("salary"), get("name"), err)
	}
	var avg float64
	if v := get("avgpointspergame"); v != "" {
		avg, err = strconv.ParseFloat(v, 64)
		if err != nil {
			return Salary{}, fmt.Errorf("average points %q for %s: %w", v, get("name"), err)
		}
	}

	return Salary{
		ID:               get("id"),
		Name:             get("name"),
		Position:         get("position"),
		RosterPosition:   get("rosterposition"),
		Salary:           salary,
		GameInfo:         get("gameinfo"),
		Team:             get("teamabbrev"),
		AvgPointsPerGame: avg,
	}, nil
}
