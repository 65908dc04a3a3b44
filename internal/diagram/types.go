// Package diagram turns a diagram image into structured drill geometry.
// Extraction runs as a lightweight classification pass followed by four
// focused passes (players, arrows, equipment and goals, pitch view) that
// query the vision model concurrently, each seeded with marker-detection
// context. Reconcile then cross-checks the model output against the
// detector findings.
package diagram

import (
	"github.com/drillbook/drillbook/internal/plan"
	"github.com/drillbook/drillbook/internal/vision"
)

// Classification is the result of the lightweight first pass.
type Classification struct {
	IsDiagram   bool   `json:"is_diagram"`
	Description string `json:"description"`
}

// CVCircle is one detected marker carried into cross-validation.
type CVCircle struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Color string  `json:"color"`
}

// CVAnalysis is the subset of marker detection retained on an extraction
// for cross-validation. Reconcile consumes and clears it.
type CVAnalysis struct {
	CirclesByColor     map[string]int `json:"circles_by_color"`
	TotalCircles       int            `json:"total_circles"`
	EstimatedPitchView string         `json:"estimated_pitch_view,omitempty"`
	Circles            []CVCircle     `json:"circles"`
}

func newCVAnalysis(a vision.MarkerAnalysis) *CVAnalysis {
	cv := &CVAnalysis{
		CirclesByColor:     a.CirclesByColor,
		TotalCircles:       len(a.Circles),
		EstimatedPitchView: a.EstimatedPitchView,
		Circles:            make([]CVCircle, 0, len(a.Circles)),
	}
	for _, c := range a.Circles {
		cv.Circles = append(cv.Circles, CVCircle{X: c.X, Y: c.Y, Color: c.ColorName})
	}
	return cv
}

// Extraction is the merged output of all passes for one diagram, before
// and after reconciliation. CV is non-nil until Reconcile runs.
type Extraction struct {
	Description string                 `json:"description"`
	Players     []plan.PlayerPosition  `json:"player_positions"`
	Arrows      []plan.MovementArrow   `json:"arrows"`
	Equipment   []plan.EquipmentObject `json:"equipment"`
	Goals       []plan.GoalInfo        `json:"goals"`
	Balls       []plan.BallPosition    `json:"balls"`
	Zones       []plan.PitchZone       `json:"zones"`
	PitchView   *plan.PitchView        `json:"pitch_view,omitempty"`
	CV          *CVAnalysis            `json:"_cv_analysis,omitempty"`
}

// clone returns a copy with independent slice headers so callers can
// reconcile or mutate the result without corrupting a cached entry.
func (e *Extraction) clone() *Extraction {
	out := *e
	out.Players = append([]plan.PlayerPosition(nil), e.Players...)
	out.Arrows = append([]plan.MovementArrow(nil), e.Arrows...)
	out.Equipment = append([]plan.EquipmentObject(nil), e.Equipment...)
	out.Goals = append([]plan.GoalInfo(nil), e.Goals...)
	out.Balls = append([]plan.BallPosition(nil), e.Balls...)
	out.Zones = append([]plan.PitchZone(nil), e.Zones...)
	if e.PitchView != nil {
		pv := *e.PitchView
		out.PitchView = &pv
	}
	return &out
}

// DiagramInfo converts a reconciled extraction into the plan-level diagram
// attached to a drill. imageRef keys the source image within the document.
func (e *Extraction) DiagramInfo(imageRef string) plan.DiagramInfo {
	d := plan.DiagramInfo{
		ImageRef:        plan.StrPtr(imageRef),
		Description:     e.Description,
		PlayerPositions: e.Players,
		PitchView:       e.PitchView,
		Arrows:          e.Arrows,
		Equipment:       e.Equipment,
		Goals:           e.Goals,
		Balls:           e.Balls,
		Zones:           e.Zones,
	}
	d.Normalize()
	return d
}
