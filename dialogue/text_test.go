package dialogue

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsExitPhraseExactMatch(t *testing.T) {
	assert.True(t, isExitPhrase("goodbye"))
	assert.True(t, isExitPhrase("hang up"))
	assert.True(t, isExitPhrase("stop"))

	// Containment is not enough; "stop" inside a sentence keeps the call
	assert.False(t, isExitPhrase("please stop asking"))
	assert.False(t, isExitPhrase("the traffic was nonstop"))
	assert.False(t, isExitPhrase("goodbye everyone"))
}

func TestParseYesNo(t *testing.T) {
	tests := []struct {
		text string
		val  bool
		ok   bool
	}{
		{"yes", true, true},
		{"Yeah, sure", true, true},
		{"correct", true, true},
		{"no", false, true},
		{"nope", false, true},
		{"not really", false, true},
		{"np", false, true},
		{"maybe", false, false},
		{"the car is blue", false, false},
	}
	for _, tt := range tests {
		val, ok := parseYesNo(tt.text)
		assert.Equal(t, tt.ok, ok, "text %q", tt.text)
		if ok {
			assert.Equal(t, tt.val, val, "text %q", tt.text)
		}
	}
}

func TestParseDate(t *testing.T) {
	now := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, "2026-08-30", parseDate("it happened today", now))
	assert.Equal(t, "2026-08-29", parseDate("yesterday evening", now))
	assert.Equal(t, "2025-12-22", parseDate("on 2025-12-22", now))
	assert.Equal(t, "", parseDate("last week", now))
}

func TestFirstSentence(t *testing.T) {
	assert.Equal(t, "First sentence.", firstSentence("First sentence. Second one.", 140))
	assert.Equal(t, "No terminator here", firstSentence("No terminator here", 140))

	long := strings.Repeat("word ", 60)
	got := firstSentence(long, 50)
	assert.LessOrEqual(t, len([]rune(got)), 50)
	assert.True(t, strings.HasSuffix(got, "…"))
}

func TestIsBadSentence(t *testing.T) {
	assert.True(t, isBadSentence("."))
	assert.True(t, isBadSentence("…"))
	assert.True(t, isBadSentence("short"))
	assert.False(t, isBadSentence("Premium coverage includes theft and fire."))
}

func TestCoverageDifferenceAnswer(t *testing.T) {
	got := coverageDifferenceAnswer()
	assert.Contains(t, got, "Basic")
	assert.Contains(t, got, "Standard")
	assert.Contains(t, got, "Premium")
	assert.Contains(t, got, "cheapest option or the most coverage")
}
