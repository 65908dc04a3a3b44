package diagram

import (
	"log/slog"
	"math"

	"github.com/drillbook/drillbook/internal/plan"
)

// colorBackfillMaxDist is the maximum distance, in normalized coordinate
// units, at which a detected circle's color is copied onto a colorless
// player.
const colorBackfillMaxDist = 15

// Reconcile cross-checks model output against marker detection and cleans
// up known extraction artifacts:
//
//  1. A player count differing from the circle count by more than 2 is
//     logged; the detector is usually more reliable for counting.
//  2. Players missing a color inherit the color of the nearest detected
//     circle when one is close enough.
//  3. A missing pitch view falls back to the line-analysis estimate.
//  4. Full-size goals misplaced in the equipment list move to goals.
//  5. Arrows with effectively zero length are dropped.
//
// It consumes the attached CVAnalysis; calling it again is a no-op, and it
// never fails.
func Reconcile(ext *Extraction) {
	if ext == nil || ext.CV == nil {
		return
	}
	cv := ext.CV
	ext.CV = nil

	if diff := cv.TotalCircles - len(ext.Players); diff > 2 || diff < -2 {
		slog.Warn("player count mismatch between detector and model",
			"detected", cv.TotalCircles,
			"extracted", len(ext.Players),
			"by_color", cv.CirclesByColor)
	}

	if len(cv.Circles) > 0 {
		for i := range ext.Players {
			p := &ext.Players[i]
			if p.Color != nil && *p.Color != "" {
				continue
			}
			nearest, dist := nearestCircle(cv.Circles, p.X, p.Y)
			if dist < colorBackfillMaxDist {
				p.Color = plan.StrPtr(nearest.Color)
			}
		}
	}

	if ext.PitchView == nil && cv.EstimatedPitchView != "" {
		ext.PitchView = &plan.PitchView{
			ViewType:    plan.ParsePitchViewType(cv.EstimatedPitchView),
			Orientation: "vertical",
		}
	}

	remaining := ext.Equipment[:0]
	for _, eq := range ext.Equipment {
		if string(eq.EquipmentType) == plan.GoalTypeFull {
			ext.Goals = append(ext.Goals, plan.GoalInfo{
				X:        eq.X,
				Y:        eq.Y,
				GoalType: plan.GoalTypeFull,
			})
			continue
		}
		remaining = append(remaining, eq)
	}
	ext.Equipment = remaining

	valid := ext.Arrows[:0]
	for _, a := range ext.Arrows {
		dx := math.Abs(a.StartX - a.EndX)
		dy := math.Abs(a.StartY - a.EndY)
		if dx+dy > 2 {
			valid = append(valid, a)
		}
	}
	ext.Arrows = valid
}

func nearestCircle(circles []CVCircle, x, y float64) (CVCircle, float64) {
	best := circles[0]
	bestSq := math.MaxFloat64
	for _, c := range circles {
		dx, dy := c.X-x, c.Y-y
		if sq := dx*dx + dy*dy; sq < bestSq {
			bestSq = sq
			best = c
		}
	}
	return best, math.Sqrt(bestSq)
}
