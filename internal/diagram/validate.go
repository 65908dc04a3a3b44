package diagram

import (
	"strconv"
	"strings"

	"github.com/drillbook/drillbook/internal/plan"
)

// roleAliases maps the shorthand roles vision models tend to emit onto the
// canonical role vocabulary.
var roleAliases = map[string]string{
	"gk":      "goalkeeper",
	"goalie":  "goalkeeper",
	"keeper":  "goalkeeper",
	"forward": "attacker",
	"fwd":     "attacker",
	"striker": "attacker",
	"att":     "attacker",
	"back":    "defender",
	"def":     "defender",
	"cb":      "defender",
	"fb":      "defender",
	"mid":     "midfielder",
	"mf":      "midfielder",
	"neutral": "neutral",
	"server":  "server",
	"srv":     "server",
	"coach":   "coach",
}

var canonicalRoles = map[string]bool{
	"goalkeeper": true,
	"attacker":   true,
	"defender":   true,
	"midfielder": true,
	"neutral":    true,
	"server":     true,
	"coach":      true,
}

// toFloat converts a loosely typed JSON value to a float64. Missing values
// (nil) fall back to def; present but unconvertible values fail.
func toFloat(v any, def float64) (float64, bool) {
	switch t := v.(type) {
	case nil:
		return def, true
	case float64:
		return t, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func toString(v any) string {
	s, _ := v.(string)
	return s
}

func toMapSlice(v any) []map[string]any {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// validatePositions cleans raw player objects: coordinates clamped to
// [0,100], empty labels rejected, duplicate labels dropped keeping the
// first occurrence, roles standardized through the alias map and nulled
// when unrecognized.
func validatePositions(raw []map[string]any) []plan.PlayerPosition {
	seen := make(map[string]bool)
	validated := make([]plan.PlayerPosition, 0, len(raw))

	for _, pos := range raw {
		x, ok := toFloat(pos["x"], 50)
		if !ok {
			continue
		}
		y, ok := toFloat(pos["y"], 50)
		if !ok {
			continue
		}

		label := strings.TrimSpace(toString(pos["label"]))
		if label == "" {
			continue
		}
		if seen[label] {
			continue
		}
		seen[label] = true

		var role *string
		if r := strings.ToLower(strings.TrimSpace(toString(pos["role"]))); r != "" {
			if alias, ok := roleAliases[r]; ok {
				r = alias
			}
			if canonicalRoles[r] {
				role = &r
			}
		}

		validated = append(validated, plan.PlayerPosition{
			Label: label,
			X:     plan.Clamp(x),
			Y:     plan.Clamp(y),
			Role:  role,
			Color: plan.StrPtr(toString(pos["color"])),
		})
	}
	return validated
}

func decodeArrows(raw []map[string]any) []plan.MovementArrow {
	arrows := make([]plan.MovementArrow, 0, len(raw))
	for _, m := range raw {
		sx, ok1 := toFloat(m["start_x"], 0)
		sy, ok2 := toFloat(m["start_y"], 0)
		ex, ok3 := toFloat(m["end_x"], 0)
		ey, ok4 := toFloat(m["end_y"], 0)
		if !ok1 || !ok2 || !ok3 || !ok4 {
			continue
		}
		a := plan.MovementArrow{
			StartX:    plan.Clamp(sx),
			StartY:    plan.Clamp(sy),
			EndX:      plan.Clamp(ex),
			EndY:      plan.Clamp(ey),
			ArrowType: plan.ParseArrowType(toString(m["arrow_type"])),
			FromLabel: plan.StrPtr(toString(m["from_label"])),
			ToLabel:   plan.StrPtr(toString(m["to_label"])),
			Label:     plan.StrPtr(toString(m["label"])),
		}
		if seq, ok := toFloat(m["sequence_number"], -1); ok && seq >= 0 {
			n := int(seq)
			a.SequenceNumber = &n
		}
		arrows = append(arrows, a)
	}
	return arrows
}

func decodeEquipment(raw []map[string]any) []plan.EquipmentObject {
	items := make([]plan.EquipmentObject, 0, len(raw))
	for _, m := range raw {
		x, ok1 := toFloat(m["x"], 50)
		y, ok2 := toFloat(m["y"], 50)
		if !ok1 || !ok2 {
			continue
		}
		eq := plan.EquipmentObject{
			EquipmentType: plan.ParseEquipmentType(toString(m["equipment_type"])),
			X:             plan.Clamp(x),
			Y:             plan.Clamp(y),
			Label:         plan.StrPtr(toString(m["label"])),
			Color:         plan.StrPtr(toString(m["color"])),
		}
		if x2, ok := toFloat(m["x2"], -1); ok && m["x2"] != nil {
			v := plan.Clamp(x2)
			eq.X2 = &v
		}
		if y2, ok := toFloat(m["y2"], -1); ok && m["y2"] != nil {
			v := plan.Clamp(y2)
			eq.Y2 = &v
		}
		items = append(items, eq)
	}
	return items
}

func decodeGoals(raw []map[string]any) []plan.GoalInfo {
	goals := make([]plan.GoalInfo, 0, len(raw))
	for _, m := range raw {
		x, ok1 := toFloat(m["x"], 50)
		y, ok2 := toFloat(m["y"], 100)
		if !ok1 || !ok2 {
			continue
		}
		g := plan.GoalInfo{
			X:        plan.Clamp(x),
			Y:        plan.Clamp(y),
			GoalType: toString(m["goal_type"]),
		}
		if g.GoalType == "" {
			g.GoalType = plan.GoalTypeFull
		}
		if w, ok := toFloat(m["width_meters"], -1); ok && m["width_meters"] != nil {
			g.WidthMeters = &w
		}
		goals = append(goals, g)
	}
	return goals
}

func decodePitchView(v any) *plan.PitchView {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	vt := toString(m["view_type"])
	if vt == "" {
		return nil
	}
	pv := &plan.PitchView{
		ViewType:    plan.ParsePitchViewType(vt),
		Orientation: toString(m["orientation"]),
	}
	if pv.Orientation == "" {
		pv.Orientation = "vertical"
	}
	if l, ok := toFloat(m["length_meters"], -1); ok && m["length_meters"] != nil {
		pv.LengthMeters = &l
	}
	if w, ok := toFloat(m["width_meters"], -1); ok && m["width_meters"] != nil {
		pv.WidthMeters = &w
	}
	return pv
}
