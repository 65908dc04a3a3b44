// Package jsontext recovers JSON objects from possibly-malformed model
// output. Vision models wrap JSON in code fences, prepend commentary, or
// emit reasoning blocks that may be cut off mid-thought when the token
// budget runs out; extraction callers need a parse that survives all of
// that and reports failure instead of crashing.
package jsontext

import (
	"encoding/json"
	"regexp"
	"strings"
)

const (
	thinkOpen  = "<think>"
	thinkClose = "</think>"
)

var (
	closedThinkRe   = regexp.MustCompile(`(?s)<think>.*?</think>`)
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
)

// ExtractObject extracts a JSON object from text that may contain
// surrounding content. Strategies are tried in order, first success wins:
//
//  1. Strip reasoning blocks, then direct parse.
//  2. Strip markdown code fences and parse the interior.
//  3. Brace-match the outermost { } pair, with a trailing-comma repair
//     retry.
//
// The second return value is false only when every strategy failed.
func ExtractObject(raw string) (map[string]any, bool) {
	cleaned := stripThinkBlocks(raw)

	// Strategy 1: direct parse.
	if obj, ok := tryParse(cleaned); ok {
		return obj, true
	}

	// Strategy 2: markdown fence stripping.
	if inner := stripFences(cleaned); inner != "" {
		if obj, ok := tryParse(inner); ok {
			return obj, true
		}
	}

	// Strategy 3: outermost brace matching.
	if candidate := braceMatch(cleaned); candidate != "" {
		if obj, ok := tryParse(candidate); ok {
			return obj, true
		}
		// Minimal repair: trailing commas before } or ].
		repaired := trailingCommaRe.ReplaceAllString(candidate, "$1")
		if obj, ok := tryParse(repaired); ok {
			return obj, true
		}
	}

	return nil, false
}

func tryParse(s string) (map[string]any, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err != nil {
		return nil, false
	}
	if obj == nil {
		return nil, false
	}
	return obj, true
}

// stripThinkBlocks removes well-formed <think>...</think> blocks. An
// unterminated <think> (token budget exhausted mid-thought) is truncated
// from the open tag onward, unless a { appears after it, in which case the
// text from that { is kept.
func stripThinkBlocks(text string) string {
	cleaned := closedThinkRe.ReplaceAllString(text, "")
	if idx := strings.Index(cleaned, thinkOpen); idx != -1 {
		if brace := strings.Index(cleaned[idx:], "{"); brace != -1 {
			cleaned = cleaned[:idx] + cleaned[idx+brace:]
		} else {
			cleaned = cleaned[:idx]
		}
	}
	return strings.TrimSpace(cleaned)
}

// stripFences returns the interior of a leading markdown code fence, or ""
// when the text does not start with one.
func stripFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return ""
	}
	lines := strings.Split(trimmed, "\n")
	var inner []string
	started := false
	for _, line := range lines {
		if !started && strings.HasPrefix(line, "```") {
			started = true
			continue
		}
		if started && strings.TrimSpace(line) == "```" {
			break
		}
		if started {
			inner = append(inner, line)
		}
	}
	if len(inner) == 0 {
		return ""
	}
	return strings.Join(inner, "\n")
}

// braceMatch finds the first { and walks forward tracking brace depth,
// ignoring braces inside quoted strings and honoring backslash escapes.
// Returns the substring for the outermost balanced object, or "" if none.
func braceMatch(text string) string {
	start := strings.Index(text, "{")
	if start == -1 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			escaped = true
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return text[start : i+1]
				}
			}
		}
	}
	return ""
}
