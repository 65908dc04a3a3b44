package plan

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{-5, 0},
		{0, 0},
		{42.5, 42.5},
		{100, 100},
		{150, 100},
	}
	for _, tt := range tests {
		if got := Clamp(tt.in); got != tt.want {
			t.Errorf("Clamp(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeAssignsIDs(t *testing.T) {
	p := SessionPlan{
		Metadata: SessionMetadata{Title: "Session"},
		Drills:   []DrillBlock{{Name: "Rondo"}, {Name: "Finishing"}},
	}
	p.Normalize()

	if p.ID == uuid.Nil {
		t.Error("plan ID not assigned")
	}
	seen := map[uuid.UUID]bool{}
	for _, d := range p.Drills {
		if d.ID == uuid.Nil {
			t.Error("drill ID not assigned")
		}
		if seen[d.ID] {
			t.Error("duplicate drill ID")
		}
		seen[d.ID] = true
	}
}

func TestNormalizePreservesExistingIDs(t *testing.T) {
	id := uuid.New()
	p := SessionPlan{ID: id, Drills: []DrillBlock{{ID: id}}}
	p.Normalize()
	if p.ID != id || p.Drills[0].ID != id {
		t.Error("Normalize must not overwrite existing IDs")
	}
}

func TestNormalizeInitializesLists(t *testing.T) {
	p := SessionPlan{Drills: []DrillBlock{{Name: "Drill"}}}
	p.Normalize()

	d := p.Drills[0]
	if d.Sequence == nil || d.Rules == nil || d.Scoring == nil ||
		d.CoachingPoints == nil || d.Progressions == nil || d.Setup.Equipment == nil {
		t.Errorf("drill lists not initialized: %+v", d)
	}
	dg := d.Diagram
	if dg.PlayerPositions == nil || dg.Arrows == nil || dg.Equipment == nil ||
		dg.Goals == nil || dg.Balls == nil || dg.Zones == nil {
		t.Errorf("diagram lists not initialized: %+v", dg)
	}
}

func TestSessionPlanJSONRoundTrip(t *testing.T) {
	role := "attacker"
	color := "red"
	seq := 1
	p := SessionPlan{
		Metadata: SessionMetadata{
			Title:    "Attacking Transitions",
			Category: StrPtr("Attacking"),
			Author:   StrPtr("J. Coach"),
		},
		Drills: []DrillBlock{{
			Name: "Rondo 4v2",
			Setup: DrillSetup{
				Description:    "20x20 grid, two teams",
				PlayerCount:    StrPtr("4 v 2"),
				AreaDimensions: StrPtr("20 x 20 meters"),
			},
			Diagram: DiagramInfo{
				Description:     "rondo diagram",
				PlayerPositions: []PlayerPosition{{Label: "A1", X: 30, Y: 40, Role: &role, Color: &color}},
				PitchView:       &PitchView{ViewType: CustomView, Orientation: "vertical"},
				Arrows: []MovementArrow{{
					StartX: 30, StartY: 40, EndX: 60, EndY: 70,
					ArrowType: ArrowPass, SequenceNumber: &seq,
				}},
			},
			Sequence:       []string{"Keep the ball moving"},
			CoachingPoints: []string{"Open body shape"},
		}},
		Source: Source{
			Filename:            "transitions.pdf",
			PageCount:           4,
			ExtractionTimestamp: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		},
	}
	p.Normalize()

	data, err := json.Marshal(&p)
	if err != nil {
		t.Fatal(err)
	}

	var back SessionPlan
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(p, back) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", back, p)
	}
}

func TestNormalizedPlanEmitsArraysNotNull(t *testing.T) {
	p := SessionPlan{Drills: []DrillBlock{{Name: "Drill"}}}
	p.Normalize()

	data, err := json.Marshal(&p)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "null") {
		t.Errorf("normalized plan serialized null: %s", data)
	}
}

func TestParsePitchViewType(t *testing.T) {
	tests := []struct {
		in   string
		want PitchViewType
	}{
		{"full_pitch", FullPitch},
		{" Half_Pitch ", HalfPitch},
		{"penalty_area", PenaltyArea},
		{"third", Third},
		{"custom", CustomView},
		{"stadium", HalfPitch},
		{"", HalfPitch},
	}
	for _, tt := range tests {
		if got := ParsePitchViewType(tt.in); got != tt.want {
			t.Errorf("ParsePitchViewType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseArrowType(t *testing.T) {
	tests := []struct {
		in   string
		want ArrowType
	}{
		{"pass", ArrowPass},
		{"THROUGH_BALL", ArrowThroughBall},
		{"teleport", ArrowMovement},
		{"", ArrowMovement},
	}
	for _, tt := range tests {
		if got := ParseArrowType(tt.in); got != tt.want {
			t.Errorf("ParseArrowType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseEquipmentType(t *testing.T) {
	tests := []struct {
		in   string
		want EquipmentType
	}{
		{"cone", EquipCone},
		{"dummy", EquipMannequin},
		{"full_goal", EquipFullGoal},
		{"trampoline", EquipCone},
	}
	for _, tt := range tests {
		if got := ParseEquipmentType(tt.in); got != tt.want {
			t.Errorf("ParseEquipmentType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStrPtr(t *testing.T) {
	if StrPtr("") != nil {
		t.Error("StrPtr(\"\") must be nil")
	}
	if p := StrPtr("x"); p == nil || *p != "x" {
		t.Errorf("StrPtr(\"x\") = %v", p)
	}
}
