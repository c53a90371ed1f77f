// Package sanitize cleans generated replies before they reach the user.
// Generation services sometimes leak instructional scaffolding verbatim
// (stage directions, tone annotations, phase markers); this is a
// defense-in-depth text filter, not a semantic check.
package sanitize

import (
	"regexp"
	"strings"
)

// metaPatterns match the scaffolding shapes observed leaking from
// generated replies.
var metaPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\*\*[^*]*\*\*`),            // bold markdown annotations
	regexp.MustCompile(`\*[^*]*\*`),                // *warm tone*, *Note: ...*
	regexp.MustCompile(`\[[^\]]*\]`),               // bracketed instructions
	regexp.MustCompile(`(?mi)^note:.*$`),           // Note: lines
	regexp.MustCompile(`(?mi)^focus:.*$`),          // FOCUS: instructions
	regexp.MustCompile(`(?mi)^current[^:\n]*:.*$`), // CURRENT PHASE: markers
}

var whitespaceRuns = regexp.MustCompile(`\s+`)

// Sanitizer bounds and cleans display text.
type Sanitizer struct {
	// MaxChars is the display cap; BoundaryFloor is the minimum offset a
	// sentence boundary must sit past for boundary truncation to apply.
	MaxChars      int
	BoundaryFloor int
}

func New(maxChars, boundaryFloor int) *Sanitizer {
	if maxChars <= 10 {
		maxChars = 300
	}
	if boundaryFloor <= 0 || boundaryFloor >= maxChars {
		boundaryFloor = maxChars * 2 / 3
	}
	return &Sanitizer{MaxChars: maxChars, BoundaryFloor: boundaryFloor}
}

// Clean strips meta-commentary, collapses whitespace and enforces the
// display cap with sentence-boundary truncation. The caps count runes,
// not bytes, so Devanagari or emoji replies are never split mid-rune.
func (s *Sanitizer) Clean(text string) string {
	cleaned := text
	for _, re := range metaPatterns {
		cleaned = re.ReplaceAllString(cleaned, "")
	}
	cleaned = strings.TrimSpace(whitespaceRuns.ReplaceAllString(cleaned, " "))

	runes := []rune(cleaned)
	if len(runes) <= s.MaxChars {
		return cleaned
	}

	truncated := runes[:s.MaxChars]
	if cut := lastSentenceEnd(truncated); cut > s.BoundaryFloor {
		return string(truncated[:cut+1])
	}
	// No usable boundary: hard-truncate, ellipsis included in the cap.
	return string(truncated[:s.MaxChars-3]) + "..."
}

func lastSentenceEnd(text []rune) int {
	last := -1
	for i, r := range text {
		switch r {
		case '.', '?', '!':
			last = i
		}
	}
	return last
}
