package dialogue

import (
	"regexp"
	"strings"
	"time"
)

// exitWords end the call on an exact (case-insensitive) match of the whole
// utterance. Exact matching keeps "nonstop traffic" from hanging up.
var exitWords = map[string]bool{
	"hang up": true, "goodbye": true, "bye": true, "exit": true,
	"quit": true, "stop": true, "end": true, "terminate": true,
	"close": true, "disconnect": true,
}

// cancelWords abort an in-progress claim intake on containment.
var cancelWords = []string{"cancel", "stop", "nevermind", "never mind"}

const humanFallback = "I don't have enough information for more. " +
	"You can say 'human agent' to be connected to our service center or check our website."

func isExitPhrase(t string) bool { return exitWords[t] }

func containsAny(t string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(t, p) {
			return true
		}
	}
	return false
}

var (
	yesRe     = regexp.MustCompile(`\b(yes|yeah|yep|y|sure|correct|ok)\b`)
	noRe      = regexp.MustCompile(`\b(no|nope|nah|not)\b`)
	isoDateRe = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	// The captured reference must contain a digit, so "report a claim"
	// does not yield a bogus reference of "a".
	reportRe = regexp.MustCompile(`(?i)\b(?:report|ref|reference|case)\s*#?\s*([A-Za-z\-]*\d[A-Za-z0-9\-]*)\b`)
)

// shortNegatives are mumbled "no"s that the word-boundary regex misses.
var shortNegatives = map[string]bool{"np": true, "nop": true, "noo": true, "nahh": true}

// parseYesNo reads an affirmation or denial out of free text. ok is false
// when the utterance commits to neither — the caller re-prompts rather
// than guessing.
func parseYesNo(text string) (val, ok bool) {
	t := strings.ToLower(strings.TrimSpace(text))
	if shortNegatives[t] {
		return false, true
	}
	if noRe.MatchString(t) {
		return false, true
	}
	if yesRe.MatchString(t) {
		return true, true
	}
	return false, false
}

// parseDate understands "today", "yesterday", and ISO dates. Returns the
// ISO form or "" when nothing parses.
func parseDate(text string, now time.Time) string {
	t := strings.ToLower(strings.TrimSpace(text))
	if strings.Contains(t, "today") {
		return now.Format("2006-01-02")
	}
	if strings.Contains(t, "yesterday") {
		return now.AddDate(0, 0, -1).Format("2006-01-02")
	}
	if m := isoDateRe.FindStringSubmatch(t); m != nil {
		return m[1] + "-" + m[2] + "-" + m[3]
	}
	return ""
}

var sentenceEndRe = regexp.MustCompile(`[.!?]\s`)

// firstSentence collapses whitespace, keeps the first sentence, and
// ellipsizes past maxLen runes.
func firstSentence(text string, maxLen int) string {
	t := strings.Join(strings.Fields(text), " ")
	if t == "" {
		return ""
	}
	if loc := sentenceEndRe.FindStringIndex(t); loc != nil {
		t = t[:loc[0]+1]
	}
	runes := []rune(t)
	if len(runes) > maxLen {
		t = strings.TrimRight(string(runes[:maxLen-1]), " ") + "…"
	}
	return t
}

var nonWordRe = regexp.MustCompile(`^\W+$`)

// isBadSentence rejects retrieval fragments too mangled to speak aloud.
func isBadSentence(s string) bool {
	s = strings.TrimSpace(s)
	return len([]rune(s)) < 12 || s == "." || s == "…" || nonWordRe.MatchString(s)
}

func looksLikeInsuranceRequest(t string) bool {
	return containsAny(t, []string{
		"need insurance", "want insurance", "looking for insurance",
		"get insurance", "buy insurance", "insurance for my car",
	})
}

func looksLikePricing(t string) bool {
	return containsAny(t, []string{"pricing", "prcing", "price", "cost", "quote", "premium", "how much"})
}

// looksLikeClaimInfoOnly spots callers asking *about* claims rather than
// reporting an incident.
func looksLikeClaimInfoOnly(t string) bool {
	positives := []string{"claim", "claims", "claiming", "report", "reporting"}
	negatives := []string{
		"don't want to submit", "do not want to submit", "not submit", "not to submit",
		"just info", "information", "explain", "tell me",
	}
	return containsAny(t, positives) && containsAny(t, negatives)
}

func isDissatisfied(t string) bool {
	return containsAny(t, []string{
		"not precise", "irrelevant", "wrong", "useless", "stupid", "idiot",
		"you are not helping", "what are you talking about",
		"why you don't provide", "why dont you provide",
		"why don't answer", "why dont answer",
	})
}

var coverageSummary = map[string]string{
	"basic":    "Basic: third-party liability only (covers damage/injury you cause to others).",
	"standard": "Standard: liability + collision/own-damage (deductible applies).",
	"premium":  "Premium: broadest cover (liability + collision + theft/fire/weather) and optional add-ons like roadside assistance.",
}

func coverageDifferenceAnswer() string {
	return "Differences: " +
		coverageSummary["basic"] + " " +
		coverageSummary["standard"] + " " +
		coverageSummary["premium"] + " " +
		"Do you want the cheapest option or the most coverage?"
}
