package pipeline

import (
	"log/slog"
	"strings"

	"github.com/drillbook/drillbook/internal/plan"
	"github.com/drillbook/drillbook/internal/tactical"
)

// Enrich classifies every drill against the tactical vocabulary and logs
// quality warnings for empty plans or thin drills. It mutates the plan in
// place.
func Enrich(p *plan.SessionPlan, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	for i := range p.Drills {
		d := &p.Drills[i]
		d.TacticalContext = tactical.Classify(drillText(d))
	}

	if p.Metadata.Title == "" {
		logger.Warn("session plan has no title")
	}
	if len(p.Drills) == 0 {
		logger.Warn("session plan has no drill blocks")
	}
	for i := range p.Drills {
		d := &p.Drills[i]
		if len(d.CoachingPoints) == 0 {
			logger.Warn("drill has no coaching points", "drill", d.Name)
		}
		if len(d.Sequence) == 0 {
			logger.Warn("drill has no sequence steps", "drill", d.Name)
		}
	}
}

func drillText(d *plan.DrillBlock) string {
	parts := []string{
		d.Name,
		d.Setup.Description,
		d.Diagram.Description,
		strings.Join(d.Sequence, " "),
		strings.Join(d.CoachingPoints, " "),
		strings.Join(d.Rules, " "),
		strings.Join(d.Progressions, " "),
	}
	return strings.Join(parts, " ")
}
