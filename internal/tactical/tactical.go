// Package tactical classifies drills against coaching-methodology
// vocabulary: game elements, 2v1 situation types, pitch lanes, and numerical
// advantage tokens.
package tactical

import (
	"regexp"
	"strings"
)

// SituationType is a basic 2v1 situation type.
type SituationType string

const (
	Frontal SituationType = "Frontal"
	Lateral SituationType = "Lateral"
	Behind  SituationType = "Behind"
	Before  SituationType = "Before"
)

// LaneName is one of the five vertical lanes of the pitch.
type LaneName string

const (
	LeftWing        LaneName = "left_wing"
	LeftHalfSpace   LaneName = "left_half_space"
	CentralCorridor LaneName = "central_corridor"
	RightHalfSpace  LaneName = "right_half_space"
	RightWing       LaneName = "right_wing"
)

// GameElement is a game element from the 2v1 methodology framework.
type GameElement string

const (
	CounterAttack     GameElement = "Counter Attack"
	FastBreak         GameElement = "Fast Break"
	PositionalAttack  GameElement = "Positional Attack"
	Pressing          GameElement = "Pressing"
	CounterPressing   GameElement = "Counter Pressing"
	OrganizedDefense  GameElement = "Organized Defense"
	BuildUpPlay       GameElement = "Build-Up Play"
	TransitionAttack  GameElement = "Transition to Attack"
	TransitionDefense GameElement = "Transition to Defense"
)

// Context links a drill to methodology frameworks. A nil *Context means the
// drill was not tactically classifiable.
type Context struct {
	Methodology        *string        `json:"methodology,omitempty"`
	GameElement        *GameElement   `json:"game_element,omitempty"`
	Lanes              []LaneName     `json:"lanes"`
	SituationType      *SituationType `json:"situation_type,omitempty"`
	PhaseOfPlay        *string        `json:"phase_of_play,omitempty"`
	NumericalAdvantage *string        `json:"numerical_advantage,omitempty"`
}

// Keyword tables are ordered slices rather than maps so matching is
// deterministic across runs.

type elementKeyword struct {
	keyword string
	element GameElement
}

var gameElementKeywords = []elementKeyword{
	{"counter attack", CounterAttack},
	{"counter-attack", CounterAttack},
	{"fast break", FastBreak},
	{"positional", PositionalAttack},
	{"counter press", CounterPressing},
	{"gegenpressing", CounterPressing},
	{"pressing", Pressing},
	{"organized defense", OrganizedDefense},
	{"organised defence", OrganizedDefense},
	{"defensive organization", OrganizedDefense},
	{"build up", BuildUpPlay},
	{"build-up", BuildUpPlay},
	{"transition to attack", TransitionAttack},
	{"transition to defense", TransitionDefense},
}

type situationKeyword struct {
	keyword   string
	situation SituationType
}

var situationKeywords = []situationKeyword{
	{"frontal", Frontal},
	{"face to face", Frontal},
	{"lateral", Lateral},
	{"side", Lateral},
	{"from behind", Behind},
	{"behind", Behind},
	{"in front", Before},
	{"before", Before},
}

type laneKeyword struct {
	keyword string
	lane    LaneName
}

var laneKeywords = []laneKeyword{
	{"left wing", LeftWing},
	{"left flank", LeftWing},
	{"left half-space", LeftHalfSpace},
	{"left half", LeftHalfSpace},
	{"central", CentralCorridor},
	{"center", CentralCorridor},
	{"centre", CentralCorridor},
	{"middle", CentralCorridor},
	{"right half-space", RightHalfSpace},
	{"right half", RightHalfSpace},
	{"right wing", RightWing},
	{"right flank", RightWing},
}

var numericalRe = regexp.MustCompile(`(?i)(\d+)\s*(?:v|vs|versus)\s*(\d+)`)

func detectGameElement(text string) *GameElement {
	for _, kw := range gameElementKeywords {
		if strings.Contains(text, kw.keyword) {
			e := kw.element
			return &e
		}
	}
	return nil
}

func detectSituation(text string) *SituationType {
	for _, kw := range situationKeywords {
		if strings.Contains(text, kw.keyword) {
			s := kw.situation
			return &s
		}
	}
	return nil
}

func detectLanes(text string) []LaneName {
	var lanes []LaneName
	for _, kw := range laneKeywords {
		if !strings.Contains(text, kw.keyword) {
			continue
		}
		seen := false
		for _, l := range lanes {
			if l == kw.lane {
				seen = true
				break
			}
		}
		if !seen {
			lanes = append(lanes, kw.lane)
		}
	}
	return lanes
}

func detectMethodology(text string) *string {
	for _, kw := range []string{"peters", "schumacher", "2v1", "2 v 1"} {
		if strings.Contains(text, kw) {
			m := "Peters/Schumacher 2v1"
			return &m
		}
	}
	if strings.Contains(text, "rondo") {
		m := "Rondo"
		return &m
	}
	if strings.Contains(text, "positional play") {
		m := "Positional Play"
		return &m
	}
	return nil
}

// Classify runs all keyword tables over the drill's combined text. It
// returns nil when nothing matched in any category, so downstream consumers
// can treat presence as "this drill was tactically classifiable".
func Classify(text string) *Context {
	lower := strings.ToLower(text)

	methodology := detectMethodology(lower)
	element := detectGameElement(lower)
	situation := detectSituation(lower)
	lanes := detectLanes(lower)

	var numerical *string
	if m := numericalRe.FindStringSubmatch(text); m != nil {
		n := m[1] + "v" + m[2]
		numerical = &n
	}

	if methodology == nil && element == nil && situation == nil &&
		len(lanes) == 0 && numerical == nil {
		return nil
	}

	if lanes == nil {
		lanes = []LaneName{}
	}
	return &Context{
		Methodology:        methodology,
		GameElement:        element,
		Lanes:              lanes,
		SituationType:      situation,
		NumericalAdvantage: numerical,
	}
}
