package segment

import (
	"regexp"
	"strings"
)

var listPrefixRe = regexp.MustCompile(`^[-*\d.()]+\s+`)

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// firstLineName picks the first meaningful line of a block as an
// auto-generated drill name.
func firstLineName(text string, maxLen int) string {
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		s := strings.TrimSpace(line)
		if s == "" || strings.HasPrefix(s, "!") || strings.HasPrefix(s, "[") || strings.HasPrefix(s, "<!--") {
			continue
		}
		if len(s) > maxLen {
			return s[:maxLen-3] + "..."
		}
		return s
	}
	return ""
}

// isTitleCard reports whether a drill name is just the session title
// repeated, as on the cover section of session-format PDFs.
func isTitleCard(drillName, title string) bool {
	a := strings.TrimRight(strings.ToLower(strings.TrimSpace(drillName)), ":;., ")
	b := strings.TrimRight(strings.ToLower(strings.TrimSpace(title)), ":;., ")
	if a == "" || b == "" {
		return false
	}
	if a == b || strings.Contains(b, a) || strings.Contains(a, b) {
		return true
	}
	// Truncated titles still match on their first 30 characters.
	if len(a) > 20 && len(b) > 20 && prefix30(a) == prefix30(b) {
		return true
	}
	return false
}

func prefix30(s string) string {
	if len(s) > 30 {
		return s[:30]
	}
	return s
}

// listItems pulls bulleted or numbered items out of a text block, dropping
// image markers and bare page numbers.
func listItems(text string) []string {
	items := []string{}
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "<!--") {
			continue
		}
		cleaned := strings.TrimSpace(listPrefixRe.ReplaceAllString(line, ""))
		if len(cleaned) <= 2 {
			continue
		}
		if isAllDigits(cleaned) {
			continue
		}
		if strings.Contains(cleaned, "<!-- image -->") {
			cleaned = strings.TrimSpace(strings.ReplaceAll(cleaned, "<!-- image -->", ""))
			if cleaned == "" {
				continue
			}
		}
		items = append(items, cleaned)
	}
	return items
}

// bodyText flattens a block into prose, removing list markers, image
// comments and page numbers.
func bodyText(text string) string {
	var lines []string
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "<!--") || isAllDigits(line) {
			continue
		}
		cleaned := strings.TrimSpace(listPrefixRe.ReplaceAllString(line, ""))
		cleaned = strings.TrimSpace(strings.ReplaceAll(cleaned, "<!-- image -->", ""))
		if cleaned != "" {
			lines = append(lines, cleaned)
		}
	}
	return strings.Join(lines, "\n")
}
