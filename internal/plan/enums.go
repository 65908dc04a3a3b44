package plan

import "strings"

// PitchViewType describes which portion of the pitch a diagram shows.
type PitchViewType string

const (
	FullPitch   PitchViewType = "full_pitch"
	HalfPitch   PitchViewType = "half_pitch"
	PenaltyArea PitchViewType = "penalty_area"
	Third       PitchViewType = "third"
	CustomView  PitchViewType = "custom"
)

// ParsePitchViewType maps a string to a PitchViewType, falling back to
// HalfPitch for unrecognized input.
func ParsePitchViewType(s string) PitchViewType {
	switch PitchViewType(strings.ToLower(strings.TrimSpace(s))) {
	case FullPitch:
		return FullPitch
	case HalfPitch:
		return HalfPitch
	case PenaltyArea:
		return PenaltyArea
	case Third:
		return Third
	case CustomView:
		return CustomView
	}
	return HalfPitch
}

// ArrowType classifies movement arrows in diagrams.
type ArrowType string

const (
	ArrowRun         ArrowType = "run"
	ArrowPass        ArrowType = "pass"
	ArrowShot        ArrowType = "shot"
	ArrowDribble     ArrowType = "dribble"
	ArrowCross       ArrowType = "cross"
	ArrowThroughBall ArrowType = "through_ball"
	ArrowMovement    ArrowType = "movement"
)

// ParseArrowType maps a string to an ArrowType, falling back to ArrowMovement.
func ParseArrowType(s string) ArrowType {
	switch ArrowType(strings.ToLower(strings.TrimSpace(s))) {
	case ArrowRun:
		return ArrowRun
	case ArrowPass:
		return ArrowPass
	case ArrowShot:
		return ArrowShot
	case ArrowDribble:
		return ArrowDribble
	case ArrowCross:
		return ArrowCross
	case ArrowThroughBall:
		return ArrowThroughBall
	case ArrowMovement:
		return ArrowMovement
	}
	return ArrowMovement
}

// EquipmentType classifies training equipment shown in diagrams.
type EquipmentType string

const (
	EquipCone      EquipmentType = "cone"
	EquipMannequin EquipmentType = "mannequin"
	EquipPole      EquipmentType = "pole"
	EquipGate      EquipmentType = "gate"
	EquipHurdle    EquipmentType = "hurdle"
	EquipMiniGoal  EquipmentType = "mini_goal"
	EquipFullGoal  EquipmentType = "full_goal"
	EquipFlag      EquipmentType = "flag"
)

// ParseEquipmentType maps a string to an EquipmentType, falling back to
// EquipCone. "dummy" is a common synonym for mannequin.
func ParseEquipmentType(s string) EquipmentType {
	normalized := strings.ToLower(strings.TrimSpace(s))
	if normalized == "dummy" {
		return EquipMannequin
	}
	switch EquipmentType(normalized) {
	case EquipCone:
		return EquipCone
	case EquipMannequin:
		return EquipMannequin
	case EquipPole:
		return EquipPole
	case EquipGate:
		return EquipGate
	case EquipHurdle:
		return EquipHurdle
	case EquipMiniGoal:
		return EquipMiniGoal
	case EquipFullGoal:
		return EquipFullGoal
	case EquipFlag:
		return EquipFlag
	}
	return EquipCone
}

// GoalTypeFull is the goal_type value for a full-size goal. Goal types are
// free strings ("full_goal", "mini_goal", "target_goal"); only full_goal has
// cross-validation semantics.
const GoalTypeFull = "full_goal"
