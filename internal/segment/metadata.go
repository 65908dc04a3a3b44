package segment

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/drillbook/drillbook/internal/plan"
)

var (
	h1TitleRe   = regexp.MustCompile(`(?m)^#\s+(.+)$`)
	h2TitleRe   = regexp.MustCompile(`(?m)^##\s+(.+)$`)
	inlineCatRe = regexp.MustCompile(`(?i)Category\s*:\s*(.+?)\s+Difficulty\s*:\s*(\w+)`)
	categoryRe  = regexp.MustCompile(`(?im)^(?:Category|Topic|Theme)\s*:\s*(.+)$`)
	difficultyRe = regexp.MustCompile(`(?im)^(?:Difficulty|Level)\s*:\s*(\w+)`)
	authorRe     = regexp.MustCompile(`(?im)^(?:Author|Coach|Created\s+by)\s*:\s*(.+)$`)
	outcomeRe    = regexp.MustCompile(`(?im)^(?:Desired\s+Outcome|Learning\s+Objective|Session\s+Objective|Aim)\s*:\s*(.+)$`)
	authorsSecRe = regexp.MustCompile(`(?i)##\s+AUTHORS?\s*\n+`)
	boldNameRe   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	plainNameRe  = regexp.MustCompile(`^[A-Z][a-z]+\s+[A-Z][a-z]+`)
)

// metadataField applies a strict single-line Key: Value pattern and caps
// the value, truncating at a sentence or line boundary to keep paragraph
// text from leaking in.
func metadataField(text string, re *regexp.Regexp, maxLen int) *string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	value := strings.TrimSpace(m[1])
	if len(value) > maxLen {
		truncated := false
		for _, sep := range []string{". ", "\n", ",  "} {
			if idx := strings.Index(value, sep); idx > 0 && idx <= maxLen {
				value = value[:idx]
				truncated = true
				break
			}
		}
		if !truncated {
			value = value[:maxLen]
		}
	}
	return plan.StrPtr(value)
}

func titleFromFilename(filename string) string {
	stem := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	stem = strings.NewReplacer("_", " ", "-", " ").Replace(stem)
	words := strings.Fields(stem)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// ExtractMetadata pulls session-level metadata out of the markdown. The
// title comes from the first # header, falling back to the first ## header
// and finally to a cleaned-up filename.
func ExtractMetadata(markdown, sourceFilename string) plan.SessionMetadata {
	var title string
	if m := h1TitleRe.FindStringSubmatch(markdown); m != nil {
		title = strings.TrimSpace(m[1])
	} else if m := h2TitleRe.FindStringSubmatch(markdown); m != nil {
		title = strings.TrimSpace(m[1])
	} else {
		title = titleFromFilename(sourceFilename)
	}

	var category, difficulty *string
	if m := inlineCatRe.FindStringSubmatch(markdown); m != nil {
		c := strings.TrimSpace(m[1])
		if len(c) > 60 {
			c = c[:60]
		}
		category = plan.StrPtr(c)
		difficulty = plan.StrPtr(strings.TrimSpace(m[2]))
	}
	if category == nil {
		category = metadataField(markdown, categoryRe, 60)
	}
	if difficulty == nil {
		difficulty = metadataField(markdown, difficultyRe, 30)
	}

	author := metadataField(markdown, authorRe, 100)
	if author == nil {
		author = authorFromSection(markdown)
	}

	return plan.SessionMetadata{
		Title:          title,
		Category:       category,
		Difficulty:     difficulty,
		Author:         author,
		DesiredOutcome: metadataField(markdown, outcomeRe, 200),
	}
}

// authorFromSection handles book-format PDFs where authorship lives under
// an ## AUTHORS header instead of a Key: Value line.
func authorFromSection(markdown string) *string {
	loc := authorsSecRe.FindStringIndex(markdown)
	if loc == nil {
		return nil
	}
	body := markdown[loc[1]:]
	if end := strings.Index(body, "\n##"); end >= 0 {
		body = body[:end]
	}
	body = strings.TrimSpace(body)

	if m := boldNameRe.FindStringSubmatch(body); m != nil {
		return plan.StrPtr(strings.TrimSpace(m[1]))
	}
	if m := plainNameRe.FindString(body); m != "" {
		return plan.StrPtr(m)
	}
	first, _, _ := strings.Cut(body, ".")
	if first = strings.TrimSpace(first); first != "" && len(first) < 100 {
		return plan.StrPtr(first)
	}
	return nil
}
