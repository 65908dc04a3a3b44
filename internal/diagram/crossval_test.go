package diagram

import (
	"reflect"
	"testing"

	"github.com/drillbook/drillbook/internal/plan"
)

func TestReconcileColorBackfill(t *testing.T) {
	ext := &Extraction{
		Players: []plan.PlayerPosition{
			{Label: "A1", X: 50, Y: 50},
			{Label: "D1", X: 10, Y: 90},
		},
		CV: &CVAnalysis{
			TotalCircles: 2,
			Circles: []CVCircle{
				{X: 52, Y: 52, Color: "red"},
				{X: 80, Y: 20, Color: "blue"},
			},
		},
	}

	Reconcile(ext)

	if ext.Players[0].Color == nil || *ext.Players[0].Color != "red" {
		t.Errorf("expected nearby circle color backfilled, got %v", ext.Players[0].Color)
	}
	if ext.Players[1].Color != nil {
		t.Errorf("expected distant player left colorless, got %v", *ext.Players[1].Color)
	}
}

func TestReconcileKeepsExistingColor(t *testing.T) {
	ext := &Extraction{
		Players: []plan.PlayerPosition{
			{Label: "A1", X: 50, Y: 50, Color: plan.StrPtr("yellow")},
		},
		CV: &CVAnalysis{
			TotalCircles: 1,
			Circles:      []CVCircle{{X: 50, Y: 50, Color: "red"}},
		},
	}

	Reconcile(ext)

	if *ext.Players[0].Color != "yellow" {
		t.Errorf("expected model color preserved, got %q", *ext.Players[0].Color)
	}
}

func TestReconcilePitchViewFallback(t *testing.T) {
	ext := &Extraction{
		CV: &CVAnalysis{EstimatedPitchView: "penalty_area"},
	}

	Reconcile(ext)

	if ext.PitchView == nil {
		t.Fatal("expected pitch view backfilled from line analysis")
	}
	if ext.PitchView.ViewType != plan.PenaltyArea {
		t.Errorf("view type = %q, want penalty_area", ext.PitchView.ViewType)
	}
	if ext.PitchView.Orientation != "vertical" {
		t.Errorf("orientation = %q, want vertical", ext.PitchView.Orientation)
	}
}

func TestReconcileDoesNotOverridePitchView(t *testing.T) {
	ext := &Extraction{
		PitchView: &plan.PitchView{ViewType: plan.FullPitch, Orientation: "vertical"},
		CV:        &CVAnalysis{EstimatedPitchView: "half_pitch"},
	}

	Reconcile(ext)

	if ext.PitchView.ViewType != plan.FullPitch {
		t.Errorf("view type = %q, want full_pitch", ext.PitchView.ViewType)
	}
}

func TestReconcileMovesFullGoalToGoals(t *testing.T) {
	ext := &Extraction{
		Equipment: []plan.EquipmentObject{
			{EquipmentType: plan.EquipCone, X: 20, Y: 20},
			{EquipmentType: plan.EquipFullGoal, X: 50, Y: 100},
		},
		Goals: []plan.GoalInfo{},
		CV:    &CVAnalysis{},
	}

	Reconcile(ext)

	if len(ext.Equipment) != 1 || ext.Equipment[0].EquipmentType != plan.EquipCone {
		t.Errorf("equipment after reconcile = %v, want single cone", ext.Equipment)
	}
	if len(ext.Goals) != 1 {
		t.Fatalf("goals after reconcile = %d, want 1", len(ext.Goals))
	}
	g := ext.Goals[0]
	if g.X != 50 || g.Y != 100 || g.GoalType != plan.GoalTypeFull {
		t.Errorf("reclassified goal = %+v", g)
	}
}

func TestReconcileDropsDegenerateArrows(t *testing.T) {
	ext := &Extraction{
		Arrows: []plan.MovementArrow{
			{StartX: 30, StartY: 55, EndX: 45, EndY: 75, ArrowType: plan.ArrowRun},
			{StartX: 50, StartY: 50, EndX: 50, EndY: 51, ArrowType: plan.ArrowPass},
		},
		CV: &CVAnalysis{},
	}

	Reconcile(ext)

	if len(ext.Arrows) != 1 {
		t.Fatalf("arrows after reconcile = %d, want 1", len(ext.Arrows))
	}
	if ext.Arrows[0].ArrowType != plan.ArrowRun {
		t.Errorf("kept arrow = %+v, want the run arrow", ext.Arrows[0])
	}
}

func TestReconcileIdempotent(t *testing.T) {
	ext := &Extraction{
		Players: []plan.PlayerPosition{{Label: "A1", X: 50, Y: 50}},
		Arrows: []plan.MovementArrow{
			{StartX: 10, StartY: 10, EndX: 40, EndY: 40, ArrowType: plan.ArrowRun},
		},
		Equipment: []plan.EquipmentObject{{EquipmentType: plan.EquipFullGoal, X: 50, Y: 100}},
		CV: &CVAnalysis{
			TotalCircles: 1,
			Circles:      []CVCircle{{X: 50, Y: 50, Color: "red"}},
		},
	}

	Reconcile(ext)
	first := *ext.clone()
	Reconcile(ext)

	if !reflect.DeepEqual(first, *ext.clone()) {
		t.Errorf("second reconcile changed the extraction:\nfirst:  %+v\nsecond: %+v", first, *ext)
	}
}

func TestReconcileWithoutCVIsNoop(t *testing.T) {
	ext := &Extraction{
		Arrows: []plan.MovementArrow{
			{StartX: 50, StartY: 50, EndX: 50, EndY: 50},
		},
	}

	Reconcile(ext)

	if len(ext.Arrows) != 1 {
		t.Error("reconcile without detector data should leave the extraction untouched")
	}
	Reconcile(nil)
}
