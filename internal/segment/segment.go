// Package segment parses docling-style markdown into drill blocks. Headers
// at the ## and ### level drive the split: headers naming a drill open a
// new block, known sub-section headers (Setup, Sequence, Coaching Points)
// attach to the current block, and book-structure headers (AUTHORS, PART
// ONE) are skipped.
package segment

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
)

// Options tunes segmentation.
type Options struct {
	// SplitOnRepeatedSetup starts a new drill block when a second Setup
	// sub-section appears under one header. Session-format PDFs often
	// describe several exercises under a single title this way.
	SplitOnRepeatedSetup bool
}

// DefaultOptions returns the standard segmentation behavior.
func DefaultOptions() Options {
	return Options{SplitOnRepeatedSetup: true}
}

// Sub-section headers that belong within a drill rather than naming one.
var subsectionRe = regexp.MustCompile(`(?i)^(?:` + strings.Join([]string{
	`setup(?:\s+and\s+organi[sz]ation)?[:\s]*$`,
	`organi[sz]ation[:\s]*$`,
	`sequence[:\s]*$`,
	`process(?:\s+and\s+objectives)?[:\s]*$`,
	`objectives?[:\s]*$`,
	`execution[:\s]*$`,
	`procedure[:\s]*$`,
	`progression(?:s|\(s\))?[:\s]*$`,
	`regression(?:s|\(s\))?[:\s]*$`,
	`variations?[:\s]*$`,
	`coaching\s+(?:points?|tips?|notes?|tasks?)[:\s]*$`,
	`key\s+points?[:\s]*$`,
	`rules?[:\s]*$`,
	`constraints?[:\s]*$`,
	`scoring[:\s]*$`,
	`points?[:\s]*$`,
	`equipment[:\s]*$`,
	`materials?[:\s]*$`,
}, "|") + `)`)

// Book-structure headers that never name a drill.
var nonDrillRe = regexp.MustCompile(`(?i)^(?:` + strings.Join([]string{
	`part\s+(?:one|two|three|four|five|six|\d+)$`,
	`authors?$`,
	`acknowledgments?$`,
	`contents?$`,
	`table\s+of\s+contents?$`,
	`introduction$`,
	`foreword$`,
	`preface$`,
	`bibliography$`,
	`references$`,
	`index$`,
	`appendix$`,
	`glossary$`,
}, "|") + `)`)

var (
	headerLineRe  = regexp.MustCompile(`^#{2,3}\s+(.+)$`)
	headerLeadRe  = regexp.MustCompile(`^#+\s*`)
	subsectionCls = []struct {
		re    *regexp.Regexp
		field string
	}{
		{regexp.MustCompile(`(?i)^(?:setup|organi[sz]ation)`), "setup"},
		{regexp.MustCompile(`(?i)^(?:sequence|execution|procedure|process)`), "sequence"},
		{regexp.MustCompile(`(?i)^(?:progression|regression|variation|advance)`), "progressions"},
		{regexp.MustCompile(`(?i)^(?:coaching|key\s+point)`), "coaching_points"},
		{regexp.MustCompile(`(?i)^(?:rule|constraint)`), "rules"},
		{regexp.MustCompile(`(?i)^(?:scoring|points?$)`), "scoring"},
		{regexp.MustCompile(`(?i)^(?:equipment|material)`), "equipment"},
		{regexp.MustCompile(`(?i)^objective`), "sequence"},
	}
)

func isSubsectionHeader(h string) bool { return subsectionRe.MatchString(strings.TrimSpace(h)) }
func isNonDrillHeader(h string) bool   { return nonDrillRe.MatchString(strings.TrimSpace(h)) }

// classifySubsection maps a sub-section header onto its canonical drill
// field. Objectives fold into the sequence field; anything unrecognized
// lands in setup.
func classifySubsection(h string) string {
	h = strings.TrimRight(strings.ToLower(strings.TrimSpace(h)), ":")
	for _, c := range subsectionCls {
		if c.re.MatchString(h) {
			return c.field
		}
	}
	return "setup"
}

// section is one (header, body) pair; the body runs until the next ## or
// ### header. The first section may have an empty header.
type section struct {
	header string
	body   string
}

func splitSections(markdown string) []section {
	var (
		sections  []section
		header    string
		bodyLines []string
	)
	flush := func() {
		if header != "" || len(bodyLines) > 0 {
			sections = append(sections, section{header: header, body: strings.Join(bodyLines, "\n")})
		}
	}
	for _, line := range strings.Split(markdown, "\n") {
		if m := headerLineRe.FindStringSubmatch(line); m != nil {
			flush()
			header = strings.TrimSpace(m[1])
			bodyLines = nil
			continue
		}
		bodyLines = append(bodyLines, line)
	}
	flush()
	return sections
}

// drillGroup is an intermediate drill: its header, the body directly under
// it, and sub-section bodies keyed by canonical field.
type drillGroup struct {
	name        string
	body        string
	subsections map[string]string
}

func groupDrillSections(sections []section, opts Options) []drillGroup {
	var (
		groups  []drillGroup
		current *drillGroup
	)

	for _, s := range sections {
		if s.header == "" {
			// Pre-header content, the metadata area.
			continue
		}

		clean := strings.Trim(headerLeadRe.ReplaceAllString(s.header, ""), "*# ")

		if isNonDrillHeader(clean) {
			if current != nil && strings.TrimSpace(s.body) != "" {
				current.body += "\n" + s.body
			}
			continue
		}

		if isSubsectionHeader(clean) {
			if current == nil {
				slog.Warn("orphaned sub-section before any drill", "header", clean)
				continue
			}
			field := classifySubsection(clean)
			existing := current.subsections[field]
			switch {
			case existing != "" && field == "setup" && opts.SplitOnRepeatedSetup:
				// A second Setup means a new exercise started without
				// its own title header.
				groups = append(groups, *current)
				name := firstLineName(s.body, 60)
				if name == "" {
					name = fmt.Sprintf("Section %d", len(groups)+1)
				}
				current = &drillGroup{
					name:        name,
					subsections: map[string]string{field: s.body},
				}
			case existing != "":
				current.subsections[field] = existing + "\n" + s.body
			default:
				current.subsections[field] = s.body
			}
			continue
		}

		if current != nil {
			groups = append(groups, *current)
		}
		current = &drillGroup{
			name:        clean,
			body:        s.body,
			subsections: map[string]string{},
		}
	}

	if current != nil {
		groups = append(groups, *current)
	}
	return groups
}
