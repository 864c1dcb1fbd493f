package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/jstittsworth/mlb-dfs-projections/internal/dfs"
	"github.com/jstittsworth/mlb-dfs-projections/internal/projection/batch"
)

type renderOptions struct {
	Format string
	Role   string
	Top    int
}

func (o *renderOptions) validate() error {
	o.Format = strings.ToLower(o.Format)
	o.Role = strings.ToLower(o.Role)
	switch o.Format {
	case "table", "json":
	default:
		return fmt.Errorf("invalid --format %q, expected table or json", o.Format)
	}
	switch dfs.Role(o.Role) {
	case "", dfs.RoleBatter, dfs.RolePitcher:
	default:
		return fmt.Errorf("invalid --role %q, expected batter or pitcher", o.Role)
	}
	if o.Top < 0 {
		return fmt.Errorf("--top must not be negative")
	}
	return nil
}

// row is one printed line, shared by batters and pitchers
type row struct {
	Role       dfs.Role `json:"role"`
	Name       string   `json:"name"`
	Team       string   `json:"team"`
	Opponent   string   `json:"opponent"`
	Position   string   `json:"position"`
	Order      int      `json:"batting_order,omitempty"`
	Expected   float64  `json:"expected_points"`
	Floor      float64  `json:"floor"`
	Upside     float64  `json:"upside"`
	Confidence float64  `json:"confidence"`
	Salary     int      `json:"salary,omitempty"`
	Value      float64  `json:"value,omitempty"`
	Defaulted  bool     `json:"defaulted"`
}

func rows(result *batch.Result, opts renderOptions) []row {
	var out []row
	if opts.Role != string(dfs.RolePitcher) {
		for i, b := range result.Batters {
			if opts.Top > 0 && i >= opts.Top {
				break
			}
			r := row{
				Role: dfs.RoleBatter, Name: b.Player.Name, Team: b.Player.Team, Opponent: b.Opponent.Abbreviation,
				Position: b.Player.Position, Order: b.BattingOrder, Expected: b.Projection.Expected,
				Floor: b.Projection.Floor, Upside: b.Projection.Upside, Confidence: float64(b.Confidence),
				Value: b.Value(), Defaulted: b.Defaulted,
			}
			if b.FantasySite != nil {
				r.Salary = b.FantasySite.Salary
			}
			out = append(out, r)
		}
	}
	if opts.Role != string(dfs.RoleBatter) {
		for i, p := range result.Pitchers {
			if opts.Top > 0 && i >= opts.Top {
				break
			}
			r := row{
				Role: dfs.RolePitcher, Name: p.Player.Name, Team: p.Player.Team, Opponent: p.Opponent.Abbreviation,
				Position: "SP", Expected: p.Projection.Expected, Floor: p.Projection.Floor,
				Upside: p.Projection.Upside, Confidence: float64(p.Confidence), Value: p.Value(), Defaulted: p.Defaulted,
			}
			if p.FantasySite != nil {
				r.Salary = p.FantasySite.Salary
			}
			out = append(out, r)
		}
	}
	return out
}

func render(w io.Writer, result *batch.Result, opts renderOptions) error {
	lines := rows(result, opts)
	if opts.Format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Date    string `json:"date"`
			Season  int    `json:"season"`
			Games   int    `json:"games"`
			Players []row  `json:"players"`
		}{result.Date.Format("2006-01-02"), result.Season, len(result.Games), lines})
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ROLE\tPLAYER\tTEAM\tOPP\tPOS\tORD\tEXP\tFLOOR\tUPSIDE\tCONF\tSALARY\tVALUE\t")
	for _, r := range lines {
		order, salary, value := "-", "-", "-"
		if r.Order > 0 {
			order = fmt.Sprint(r.Order)
		}
		if r.Salary > 0 {
			salary = fmt.Sprint(r.Salary)
			value = fmt.Sprintf("%.2f", r.Value)
		}
		name := r.Name
		if r.Defaulted {
			name += "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%.2f\t%.2f\t%.2f\t%.0f\t%s\t%s\t\n",
			r.Role, name, r.Team, r.Opponent, r.Position, order, r.Expected, r.Floor, r.Upside, r.Confidence, salary, value)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	batters, pitchers := result.Defaulted()
	if batters+pitchers > 0 {
		fmt.Fprintf(w, "\n* projected from league-average defaults (%d batters, %d pitchers)\n", batters, pitchers)
	}
	return nil
}
