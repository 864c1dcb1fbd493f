package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/jstittsworth/mlb-dfs-projections/internal/dfs"
)

// Run states
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// SlateDateFormat is how slate dates are stored and accepted by the API
const SlateDateFormat = "2006-01-02"

// ProjectionRun is one execution of the engine over a day's slate
type ProjectionRun struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	SlateDate         string     `gorm:"size:10;index;not null" json:"slate_date"`
	Season            int        `json:"season"`
	Trigger           string     `gorm:"size:16" json:"trigger"` // "api", "scheduler" or "cli"
	Status            string     `gorm:"size:16;index;not null" json:"status"`
	Games             int        `json:"games"`
	Batters           int        `json:"batters"`
	Pitchers          int        `json:"pitchers"`
	DefaultedBatters  int        `json:"defaulted_batters"`
	DefaultedPitchers int        `json:"defaulted_pitchers"`
	StartedAt         time.Time  `json:"started_at"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
	DurationMs        int64      `json:"duration_ms"`
	Error             string     `json:"error,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`

	Projections []PlayerProjection `gorm:"foreignKey:RunID;constraint:OnDelete:CASCADE" json:"projections,omitempty"`
}

// TableName specifies the table name for GORM
func (ProjectionRun) TableName() string {
	return "projection_runs"
}

// BeforeCreate assigns the run ID
func (r *ProjectionRun) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// PlayerProjection is one player's persisted analysis
type PlayerProjection struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	RunID        uuid.UUID `gorm:"type:uuid;index;not null" json:"run_id"`
	Role         string    `gorm:"size:8;index;not null" json:"role"`
	GamePk       int64     `gorm:"index" json:"game_pk"`
	PlayerID     int64     `gorm:"index;not null" json:"player_id"`
	Name         string    `json:"name"`
	Team         string    `gorm:"size:4;index" json:"team"`
	Opponent     string    `gorm:"size:4" json:"opponent"`
	Position     string    `gorm:"size:8" json:"position"`
	Hand         string    `gorm:"size:1" json:"hand"`
	Home         bool      `json:"home"`
	BattingOrder int       `json:"batting_order,omitempty"`
	Expected     float64   `gorm:"index" json:"expected_points"`
	Floor        float64   `json:"floor"`
	Upside       float64   `json:"upside"`
	Confidence   float64   `json:"confidence"`
	Defaulted    bool      `json:"defaulted"`
	StatsSource  string    `json:"stats_source"`
	ExternalID   string    `json:"external_id,omitempty"` // DraftKings player ID
	Salary       int       `json:"salary,omitempty"`
	Value        float64   `json:"value,omitempty"` // points per $1000

	Breakdown  datatypes.JSON `json:"breakdown"`
	Categories datatypes.JSON `json:"categories"`
	Warnings   datatypes.JSON `json:"warnings,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM
func (PlayerProjection) TableName() string {
	return "player_projections"
}

// All returns every model for migrations
func All() []interface{} {
	return []interface{}{&ProjectionRun{}, &PlayerProjection{}}
}

// NewBatterProjection flattens a batter analysis into a row
func NewBatterProjection(runID uuid.UUID, a dfs.BatterAnalysis) (PlayerProjection, error) {
	p := PlayerProjection{
		RunID:        runID,
		Role:         string(dfs.RoleBatter),
		GamePk:       a.Game.GamePk,
		PlayerID:     a.Player.ID,
		Name:         a.Player.Name,
		Team:         a.Player.Team,
		Opponent:     a.Opponent.Abbreviation,
		Position:     a.Player.Position,
		Hand:         string(a.Player.BatSide),
		Home:         a.Home,
		BattingOrder: a.BattingOrder,
		Expected:     a.Projection.Expected,
		Floor:        a.Projection.Floor,
		Upside:       a.Projection.Upside,
		Confidence:   float64(a.Confidence),
		Defaulted:    a.Defaulted,
		StatsSource:  a.StatsSource,
		Value:        a.Value(),
	}
	p.link(a.FantasySite)
	return p, p.encode(a.Projection.Breakdown, a.ResultList(), a.Warnings)
}

// NewPitcherProjection flattens a pitcher analysis into a row
func NewPitcherProjection(runID uuid.UUID, a dfs.PitcherAnalysis) (PlayerProjection, error) {
	p := PlayerProjection{
		RunID:       runID,
		Role:        string(dfs.RolePitcher),
		GamePk:      a.Game.GamePk,
		PlayerID:    a.Player.ID,
		Name:        a.Player.Name,
		Team:        a.Player.Team,
		Opponent:    a.Opponent.Abbreviation,
		Position:    a.Player.Position,
		Hand:        string(a.Player.PitchHand),
		Home:        a.Home,
		Expected:    a.Projection.Expected,
		Floor:       a.Projection.Floor,
		Upside:      a.Projection.Upside,
		Confidence:  float64(a.Confidence),
		Defaulted:   a.Defaulted,
		StatsSource: a.StatsSource,
		Value:       a.Value(),
	}
	p.link(a.FantasySite)
	return p, p.encode(a.Projection.Breakdown, a.ResultList(), a.Warnings)
}

func (p *PlayerProjection) link(site *dfs.SiteLink) {
	if site == nil {
		return
	}
	p.ExternalID = site.ExternalID
	p.Salary = site.Salary
}

func (p *PlayerProjection) encode(breakdown map[dfs.Category]float64, categories []dfs.CategoryResult, warnings []string) error {
	var err error
	if p.Breakdown, err = marshal(breakdown); err != nil {
		return fmt.Errorf("breakdown for player %d: %w", p.PlayerID, err)
	}
	if p.Categories, err = marshal(categories); err != nil {
		return fmt.Errorf("categories for player %d: %w", p.PlayerID, err)
	}
	if len(warnings) > 0 {
		if p.Warnings, err = marshal(warnings); err != nil {
			return fmt.Errorf("warnings for player %d: %w", p.PlayerID, err)
		}
	}
	return nil
}

func marshal(v interface{}) (datatypes.JSON, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}
