// Package plan defines the structured session-plan model extracted from
// coaching PDFs. The JSON shape of these types is the storage and API
// contract: serializing and deserializing a SessionPlan must reproduce an
// equal structure.
package plan

import (
	"time"

	"github.com/google/uuid"

	"github.com/drillbook/drillbook/internal/tactical"
)

// Clamp bounds a diagram coordinate to the [0,100] normalized space.
func Clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// PlayerPosition is one labeled player marker on a diagram.
type PlayerPosition struct {
	Label string  `json:"label"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Role  *string `json:"role,omitempty"`
	Color *string `json:"color,omitempty"`
}

// PitchView describes the pitch portion and dimensions a diagram shows.
type PitchView struct {
	ViewType     PitchViewType `json:"view_type"`
	LengthMeters *float64      `json:"length_meters,omitempty"`
	WidthMeters  *float64      `json:"width_meters,omitempty"`
	Orientation  string        `json:"orientation"`
}

// MovementArrow is a structured movement vector on a diagram.
type MovementArrow struct {
	StartX         float64   `json:"start_x"`
	StartY         float64   `json:"start_y"`
	EndX           float64   `json:"end_x"`
	EndY           float64   `json:"end_y"`
	ArrowType      ArrowType `json:"arrow_type"`
	FromLabel      *string   `json:"from_label,omitempty"`
	ToLabel        *string   `json:"to_label,omitempty"`
	SequenceNumber *int      `json:"sequence_number,omitempty"`
	Label          *string   `json:"label,omitempty"`
}

// EquipmentObject is a piece of equipment placed on a diagram. X2/Y2 are set
// for line-like equipment (gates).
type EquipmentObject struct {
	EquipmentType EquipmentType `json:"equipment_type"`
	X             float64       `json:"x"`
	Y             float64       `json:"y"`
	X2            *float64      `json:"x2,omitempty"`
	Y2            *float64      `json:"y2,omitempty"`
	Label         *string       `json:"label,omitempty"`
	Color         *string       `json:"color,omitempty"`
}

// GoalInfo is a goal on a diagram.
type GoalInfo struct {
	X           float64  `json:"x"`
	Y           float64  `json:"y"`
	GoalType    string   `json:"goal_type"`
	WidthMeters *float64 `json:"width_meters,omitempty"`
}

// BallPosition is a ball on a diagram.
type BallPosition struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Label *string `json:"label,omitempty"`
}

// PitchZone is a marked rectangular zone on a diagram.
type PitchZone struct {
	ZoneType string  `json:"zone_type"`
	X1       float64 `json:"x1"`
	Y1       float64 `json:"y1"`
	X2       float64 `json:"x2"`
	Y2       float64 `json:"y2"`
	Label    *string `json:"label,omitempty"`
	Color    *string `json:"color,omitempty"`
}

// DiagramInfo is the validated diagram attached to a drill. All coordinate
// fields are in [0,100]; list fields are never nil after Normalize.
type DiagramInfo struct {
	ImageRef        *string           `json:"image_ref,omitempty"`
	Description     string            `json:"description"`
	PlayerPositions []PlayerPosition  `json:"player_positions"`
	PitchView       *PitchView        `json:"pitch_view,omitempty"`
	Arrows          []MovementArrow   `json:"arrows"`
	Equipment       []EquipmentObject `json:"equipment"`
	Goals           []GoalInfo        `json:"goals"`
	Balls           []BallPosition    `json:"balls"`
	Zones           []PitchZone       `json:"zones"`
}

// Normalize replaces nil list fields with empty slices so the JSON contract
// always carries arrays, never null.
func (d *DiagramInfo) Normalize() {
	if d.PlayerPositions == nil {
		d.PlayerPositions = []PlayerPosition{}
	}
	if d.Arrows == nil {
		d.Arrows = []MovementArrow{}
	}
	if d.Equipment == nil {
		d.Equipment = []EquipmentObject{}
	}
	if d.Goals == nil {
		d.Goals = []GoalInfo{}
	}
	if d.Balls == nil {
		d.Balls = []BallPosition{}
	}
	if d.Zones == nil {
		d.Zones = []PitchZone{}
	}
}

// NewDiagramInfo returns an empty diagram with all lists initialized.
func NewDiagramInfo() DiagramInfo {
	var d DiagramInfo
	d.Normalize()
	return d
}

// DrillSetup holds the setup block of a drill.
type DrillSetup struct {
	Description    string   `json:"description"`
	PlayerCount    *string  `json:"player_count,omitempty"`
	Equipment      []string `json:"equipment"`
	AreaDimensions *string  `json:"area_dimensions,omitempty"`
}

// DrillBlock is a single drill/exercise within a session plan.
type DrillBlock struct {
	ID              uuid.UUID                 `json:"id"`
	Name            string                    `json:"name"`
	Setup           DrillSetup                `json:"setup"`
	Diagram         DiagramInfo               `json:"diagram"`
	Sequence        []string                  `json:"sequence"`
	Rules           []string                  `json:"rules"`
	Scoring         []string                  `json:"scoring"`
	CoachingPoints  []string                  `json:"coaching_points"`
	Progressions    []string                  `json:"progressions"`
	TacticalContext *tactical.Context         `json:"tactical_context,omitempty"`
}

// Normalize initializes nil list fields and the drill ID.
func (d *DrillBlock) Normalize() {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.Setup.Equipment == nil {
		d.Setup.Equipment = []string{}
	}
	d.Diagram.Normalize()
	if d.Sequence == nil {
		d.Sequence = []string{}
	}
	if d.Rules == nil {
		d.Rules = []string{}
	}
	if d.Scoring == nil {
		d.Scoring = []string{}
	}
	if d.CoachingPoints == nil {
		d.CoachingPoints = []string{}
	}
	if d.Progressions == nil {
		d.Progressions = []string{}
	}
}

// SessionMetadata carries document-level metadata for a session plan.
type SessionMetadata struct {
	Title           string  `json:"title"`
	Category        *string `json:"category,omitempty"`
	Difficulty      *string `json:"difficulty,omitempty"`
	Author          *string `json:"author,omitempty"`
	DesiredOutcome  *string `json:"desired_outcome,omitempty"`
	TargetAgeGroup  *string `json:"target_age_group,omitempty"`
	DurationMinutes *int    `json:"duration_minutes,omitempty"`
}

// Source records where a session plan came from.
type Source struct {
	Filename            string    `json:"filename"`
	PageCount           int       `json:"page_count"`
	ExtractionTimestamp time.Time `json:"extraction_timestamp"`
}

// SessionPlan is the complete extracted session plan, the unit handed to
// storage.
type SessionPlan struct {
	ID       uuid.UUID       `json:"id"`
	Metadata SessionMetadata `json:"metadata"`
	Drills   []DrillBlock    `json:"drills"`
	Source   Source          `json:"source"`
}

// Normalize initializes the plan ID and all nested list fields.
func (p *SessionPlan) Normalize() {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Drills == nil {
		p.Drills = []DrillBlock{}
	}
	for i := range p.Drills {
		p.Drills[i].Normalize()
	}
}

// StrPtr returns a pointer to s, or nil when s is empty. Convenience for the
// many optional string fields in this model.
func StrPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
