package segment

import (
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/drillbook/drillbook/internal/diagram"
	"github.com/drillbook/drillbook/internal/plan"
)

var (
	playerCountRe = regexp.MustCompile(`(?i)(\d+\s*(?:v|vs)\s*\d+[^.\n]*|` +
		`\d+\s+(?:field\s+)?players?[^.\n]*|` +
		`(?:goalkeeper|GK)\s+plus\s+\d+[^.\n]*)`)
	areaRe = regexp.MustCompile(`(?i)(\d+\s*x\s*\d+\s*(?:meters?|yards?|m)[^.\n]*)`)
)

// BuildPlan assembles a SessionPlan from decomposed markdown and the
// per-image extraction results. Diagrams are assigned to drills in
// document order, skipping images classified as non-diagrams.
func BuildPlan(
	markdown string,
	images map[string]string,
	classifications map[string]diagram.Classification,
	extractions map[string]*diagram.Extraction,
	sourceFilename string,
	pageCount int,
	opts Options,
) plan.SessionPlan {
	metadata := ExtractMetadata(markdown, sourceFilename)
	drills := extractDrillBlocks(markdown, images, classifications, extractions, metadata.Title, opts)

	p := plan.SessionPlan{
		Metadata: metadata,
		Drills:   drills,
		Source: plan.Source{
			Filename:            sourceFilename,
			PageCount:           pageCount,
			ExtractionTimestamp: time.Now().UTC(),
		},
	}
	p.Normalize()
	slog.Info("assembled session plan", "title", metadata.Title, "drills", len(drills))
	return p
}

func extractDrillBlocks(
	markdown string,
	images map[string]string,
	classifications map[string]diagram.Classification,
	extractions map[string]*diagram.Extraction,
	sessionTitle string,
	opts Options,
) []plan.DrillBlock {
	groups := groupDrillSections(splitSections(markdown), opts)

	// A leading group with no sub-sections that repeats the session title
	// is the title card, not a drill.
	if len(groups) > 0 && sessionTitle != "" &&
		len(groups[0].subsections) == 0 &&
		isTitleCard(groups[0].name, sessionTitle) {
		groups = groups[1:]
	}

	imageKeys := make([]string, 0, len(images))
	for k := range images {
		imageKeys = append(imageKeys, k)
	}
	sort.Strings(imageKeys)
	imageIdx := 0

	drills := []plan.DrillBlock{}
	for _, g := range groups {
		if len(g.name) < 3 || isAllDigits(g.name) {
			continue
		}

		allText := g.body
		for _, v := range g.subsections {
			allText += "\n" + v
		}
		if len(strings.TrimSpace(allText)) < 30 && len(g.subsections) == 0 {
			continue
		}

		setupText, hasSetup := g.subsections["setup"]
		if !hasSetup {
			setupText = g.body
		}

		setup := plan.DrillSetup{
			Description: bodyText(setupText),
			Equipment:   []string{},
		}
		if eq := g.subsections["equipment"]; eq != "" {
			setup.Equipment = listItems(eq)
		}
		if m := playerCountRe.FindString(setupText); m != "" {
			setup.PlayerCount = plan.StrPtr(strings.TrimSpace(m))
		}
		if m := areaRe.FindString(setupText); m != "" {
			setup.AreaDimensions = plan.StrPtr(strings.TrimSpace(m))
		}

		// Advance past non-diagram images, then take the next diagram.
		info := plan.NewDiagramInfo()
		for imageIdx < len(imageKeys) {
			key := imageKeys[imageIdx]
			c, ok := classifications[key]
			if !ok || !c.IsDiagram {
				imageIdx++
				continue
			}
			if ext := extractions[key]; ext != nil {
				info = ext.DiagramInfo(images[key])
			} else {
				info.ImageRef = plan.StrPtr(images[key])
				info.Description = c.Description
			}
			imageIdx++
			break
		}

		drill := plan.DrillBlock{
			Name:           g.name,
			Setup:          setup,
			Diagram:        info,
			Sequence:       listItems(g.subsections["sequence"]),
			Rules:          listItems(g.subsections["rules"]),
			Scoring:        listItems(g.subsections["scoring"]),
			CoachingPoints: listItems(g.subsections["coaching_points"]),
			Progressions:   listItems(g.subsections["progressions"]),
		}
		drill.Normalize()
		drills = append(drills, drill)
	}
	return drills
}
