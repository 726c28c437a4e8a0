package extract

import (
	"encoding/json"
	"strings"
)

// Extract scans raw model output for the most likely JSON value and parses
// it. The boolean reports whether a syntactically valid candidate was found;
// when it is false the returned value is nil.
//
// Candidate selection, in order:
//
//  1. Fenced code blocks labelled "json" (case-insensitive) or unlabelled,
//     in order of appearance.
//  2. Only when no such fenced block exists: balanced top-level {...} or
//     [...] regions found anywhere in the text by a quote-aware depth scan.
//
// Candidates are then parsed LAST to FIRST and the first successful parse
// wins. Models frequently restate a corrected answer after a draft, so when
// several valid JSON values appear the last one is the one the caller wants.
//
// Extract never fails: per-candidate syntax errors are swallowed and the
// scan continues. Empty or whitespace-only input yields no value. When
// fenced blocks exist but none of them parses, Extract reports no value
// rather than falling back to bare-text candidates.
func Extract(text string) (any, bool) {
	if strings.TrimSpace(text) == "" {
		return nil, false
	}

	candidates := fencedBlocks(text)
	if len(candidates) == 0 {
		candidates = balancedRegions(text)
	}

	for i := len(candidates) - 1; i >= 0; i-- {
		var value any
		if err := json.Unmarshal([]byte(candidates[i]), &value); err == nil {
			return value, true
		}
	}

	return nil, false
}

// fencedBlocks returns the inner contents of every closed ``` fence whose
// language tag is "json" (case-insensitive) or empty, in order of appearance.
// Blocks with other language tags are skipped; an unclosed trailing fence is
// ignored.
func fencedBlocks(text string) []string {
	var blocks []string

	lines := strings.Split(text, "\n")
	inFence := false
	keep := false
	var content []string

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if !inFence {
			if tag, ok := strings.CutPrefix(trimmed, "```"); ok {
				inFence = true
				keep = isJSONTag(tag)
				content = content[:0]
			}
			continue
		}

		if trimmed == "```" {
			inFence = false
			if keep {
				blocks = append(blocks, strings.Join(content, "\n"))
			}
			continue
		}

		content = append(content, line)
	}

	return blocks
}

func isJSONTag(tag string) bool {
	tag = strings.TrimSpace(tag)
	return tag == "" || strings.EqualFold(tag, "json")
}

// balancedRegions scans the whole text for balanced top-level {...} or [...]
// regions using bracket-depth counting. Inside a region the scanner tracks
// string-literal and escape state, so brackets embedded in string values do
// not corrupt the depth count. Regions are returned in order of appearance.
func balancedRegions(text string) []string {
	var regions []string

	depth := 0
	start := -1
	inString := false
	escaped := false

	for i := 0; i < len(text); i++ {
		c := text[i]

		if depth == 0 {
			if c == '{' || c == '[' {
				depth = 1
				start = i
				inString = false
				escaped = false
			}
			continue
		}

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				regions = append(regions, text[start:i+1])
			}
		}
	}

	return regions
}
