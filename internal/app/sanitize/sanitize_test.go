package sanitize

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestCleanStripsMetaCommentary(t *testing.T) {
	s := New(300, 200)

	cases := map[string]string{
		"*warm tone* Which city works for you?":             "Which city works for you?",
		"Which city works for you? *Note: stay friendly*":   "Which city works for you?",
		"[internal: ask about budget] What's your budget?":  "What's your budget?",
		"**bold aside** What's your budget?":                "What's your budget?",
		"Note: keep it short\nWhat's your budget?":          "What's your budget?",
		"FOCUS: budget discussion\nWhat's your budget?":     "What's your budget?",
		"CURRENT PHASE: discovery\nWhat's your budget?":     "What's your budget?",
		"So   much\n\n whitespace   here":                   "So much whitespace here",
		"*friendly* *conversational* Sounds great, when?\n": "Sounds great, when?",
	}

	for in, want := range cases {
		assert.Equal(t, want, s.Clean(in), "input=%q", in)
	}
}

func TestCleanTruncatesAtSentenceBoundary(t *testing.T) {
	s := New(300, 200)

	// ~240 chars of sentences, then filler past the cap.
	text := strings.Repeat("This is a complete sentence of some length here. ", 5) +
		strings.Repeat("x", 200)

	got := s.Clean(text)
	assert.LessOrEqual(t, len(got), 300)
	assert.True(t, strings.HasSuffix(got, "."), "expected sentence boundary, got %q", got)
}

func TestCleanHardTruncatesWithoutBoundary(t *testing.T) {
	s := New(300, 200)

	got := s.Clean(strings.Repeat("a", 500))
	assert.LessOrEqual(t, len(got), 300)
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestCleanTruncatesMultibyteTextOnRuneBoundaries(t *testing.T) {
	s := New(300, 200)

	// An ASCII lead-in followed by Devanagari well past the cap. Byte
	// slicing here would cut a rune in half.
	text := strings.Repeat("a", 149) + strings.Repeat("नमस्ते ", 60)

	got := s.Clean(text)
	assert.True(t, utf8.ValidString(got), "truncated output is not valid UTF-8: %q", got)
	assert.LessOrEqual(t, utf8.RuneCountInString(got), 300)
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestCleanCapCountsRunesNotBytes(t *testing.T) {
	s := New(300, 200)

	// 250 Devanagari runes are ~750 bytes; a byte cap would truncate, a
	// rune cap must not.
	text := strings.Repeat("न", 250)
	assert.Equal(t, text, s.Clean(text))
}

func TestCleanLeavesShortTextAlone(t *testing.T) {
	s := New(300, 200)
	assert.Equal(t, "Which city?", s.Clean("Which city?"))
}

func TestCleanOutputNeverContainsRemovedPatterns(t *testing.T) {
	s := New(300, 200)
	got := s.Clean("*aside* Hello [hint] there **loud** friend")

	assert.NotContains(t, got, "*")
	assert.NotContains(t, got, "[")
	assert.NotContains(t, got, "]")
	assert.Equal(t, "Hello there friend", got)
}
