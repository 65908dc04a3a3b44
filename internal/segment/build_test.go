package segment

import (
	"strings"
	"testing"

	"github.com/drillbook/drillbook/internal/diagram"
	"github.com/drillbook/drillbook/internal/plan"
)

const sessionMarkdown = `# Attacking Transitions

Category: Attacking Difficulty: Advanced
Author: Jane Coach

## Attacking Transitions

<!-- image -->

## Rondo Warm-Up

Players keep possession in a tight area, 30 x 20 meters in size.
A 4 v 2 overload favors the team in possession.

### Sequence

- Play starts with the coach
- Rotate defenders every two minutes

### Coaching Points

- Body shape before receiving

## Counter-Press Game

### Setup

Two teams of 6 players in one half.

### Rules

- Five passes equal one point

## Finishing Circuit

### Setup

GK plus 4 attackers around the box.

### Scoring

- One point per goal scored first time
`

func testImages() (map[string]string, map[string]diagram.Classification, map[string]*diagram.Extraction) {
	images := map[string]string{
		"img_001": "/tmp/doc/img_001.png",
		"img_002": "/tmp/doc/img_002.png",
		"img_003": "/tmp/doc/img_003.png",
	}
	cls := map[string]diagram.Classification{
		"img_001": {IsDiagram: false, Description: "club logo"},
		"img_002": {IsDiagram: true, Description: "rondo diagram"},
		"img_003": {IsDiagram: true, Description: "counter-press diagram"},
	}
	exts := map[string]*diagram.Extraction{
		"img_002": {
			Description: "rondo diagram",
			Players:     []plan.PlayerPosition{{Label: "A1", X: 30, Y: 40}},
		},
		"img_003": {
			Description: "counter-press diagram",
		},
	}
	return images, cls, exts
}

func TestBuildPlanDrillCount(t *testing.T) {
	images, cls, exts := testImages()
	p := BuildPlan(sessionMarkdown, images, cls, exts, "attacking_transitions.pdf", 12, DefaultOptions())

	// Four ## headers, one of which is the title card.
	if len(p.Drills) != 3 {
		names := make([]string, 0, len(p.Drills))
		for _, d := range p.Drills {
			names = append(names, d.Name)
		}
		t.Fatalf("got %d drills %v, want 3", len(p.Drills), names)
	}
	want := []string{"Rondo Warm-Up", "Counter-Press Game", "Finishing Circuit"}
	for i, name := range want {
		if p.Drills[i].Name != name {
			t.Errorf("drill %d = %q, want %q", i, p.Drills[i].Name, name)
		}
	}
	if p.Source.Filename != "attacking_transitions.pdf" || p.Source.PageCount != 12 {
		t.Errorf("source = %+v", p.Source)
	}
	if p.Source.ExtractionTimestamp.IsZero() {
		t.Error("extraction timestamp not set")
	}
}

func TestBuildPlanMetadata(t *testing.T) {
	images, cls, exts := testImages()
	p := BuildPlan(sessionMarkdown, images, cls, exts, "x.pdf", 1, DefaultOptions())

	m := p.Metadata
	if m.Title != "Attacking Transitions" {
		t.Errorf("title = %q", m.Title)
	}
	if m.Category == nil || *m.Category != "Attacking" {
		t.Errorf("category = %v", m.Category)
	}
	if m.Difficulty == nil || *m.Difficulty != "Advanced" {
		t.Errorf("difficulty = %v", m.Difficulty)
	}
	if m.Author == nil || *m.Author != "Jane Coach" {
		t.Errorf("author = %v", m.Author)
	}
}

func TestBuildPlanSetupFields(t *testing.T) {
	images, cls, exts := testImages()
	p := BuildPlan(sessionMarkdown, images, cls, exts, "x.pdf", 1, DefaultOptions())

	rondo := p.Drills[0]
	if rondo.Setup.PlayerCount == nil || !strings.HasPrefix(*rondo.Setup.PlayerCount, "4 v 2") {
		t.Errorf("player count = %v", rondo.Setup.PlayerCount)
	}
	if rondo.Setup.AreaDimensions == nil || !strings.HasPrefix(*rondo.Setup.AreaDimensions, "30 x 20 meters") {
		t.Errorf("area dimensions = %v", rondo.Setup.AreaDimensions)
	}
	if len(rondo.Sequence) != 2 || len(rondo.CoachingPoints) != 1 {
		t.Errorf("sequence=%d coaching=%d", len(rondo.Sequence), len(rondo.CoachingPoints))
	}

	finishing := p.Drills[2]
	if finishing.Setup.PlayerCount == nil || !strings.HasPrefix(*finishing.Setup.PlayerCount, "GK plus 4") {
		t.Errorf("finishing player count = %v", finishing.Setup.PlayerCount)
	}
	if len(finishing.Scoring) != 1 {
		t.Errorf("scoring = %v", finishing.Scoring)
	}
}

func TestBuildPlanDiagramAssignment(t *testing.T) {
	images, cls, exts := testImages()
	p := BuildPlan(sessionMarkdown, images, cls, exts, "x.pdf", 1, DefaultOptions())

	// img_001 is a logo and must be skipped; the two diagrams go to the
	// first two drills in order.
	first := p.Drills[0].Diagram
	if first.ImageRef == nil || *first.ImageRef != "/tmp/doc/img_002.png" {
		t.Errorf("first drill image ref = %v", first.ImageRef)
	}
	if len(first.PlayerPositions) != 1 {
		t.Errorf("first drill players = %+v", first.PlayerPositions)
	}
	second := p.Drills[1].Diagram
	if second.ImageRef == nil || *second.ImageRef != "/tmp/doc/img_003.png" {
		t.Errorf("second drill image ref = %v", second.ImageRef)
	}
	third := p.Drills[2].Diagram
	if third.ImageRef != nil {
		t.Errorf("third drill should have no diagram, got %v", *third.ImageRef)
	}
	if third.PlayerPositions == nil || third.Arrows == nil {
		t.Error("empty diagram lists must be initialized")
	}
}

func TestBuildPlanNormalizesIDs(t *testing.T) {
	images, cls, exts := testImages()
	p := BuildPlan(sessionMarkdown, images, cls, exts, "x.pdf", 1, DefaultOptions())

	if p.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Error("plan ID not assigned")
	}
	seen := map[string]bool{}
	for _, d := range p.Drills {
		id := d.ID.String()
		if id == "00000000-0000-0000-0000-000000000000" {
			t.Error("drill ID not assigned")
		}
		if seen[id] {
			t.Errorf("duplicate drill ID %s", id)
		}
		seen[id] = true
	}
}

func TestBuildPlanSkipsNumericAndShortGroups(t *testing.T) {
	md := "# Title\n\n## 42\n\ncontent under a page-number header\n\n## Az\n\nshort header name\n\n## Tiny\n\nno\n\n## Real Drill\n\nThis drill has enough body text to count as substantive content."
	p := BuildPlan(md, nil, nil, nil, "x.pdf", 1, DefaultOptions())
	if len(p.Drills) != 1 || p.Drills[0].Name != "Real Drill" {
		names := make([]string, 0, len(p.Drills))
		for _, d := range p.Drills {
			names = append(names, d.Name)
		}
		t.Fatalf("drills = %v, want [Real Drill]", names)
	}
}
