package nlu

import (
	"regexp"
	"strings"
)

// digitWords maps English digit words to digits, including the homophones
// transcription tends to produce ("for" → 4, "ate" → 8, "oh"/"o" → 0).
var digitWords = map[string]string{
	"zero": "0", "oh": "0", "o": "0",
	"one": "1", "two": "2", "three": "3",
	"four": "4", "for": "4",
	"five": "5", "six": "6", "seven": "7",
	"eight": "8", "ate": "8",
	"nine": "9",
}

var digitTokenRe = regexp.MustCompile(`[a-zA-Z]+|\d+`)

// SpokenDigitsToString reconstructs a digit string from an utterance that
// mixes spoken digit words ("double five", "triple nine") with literal
// digits. The spoken-word reconstruction wins over the raw digit
// characters whenever it yields at least as many digits.
func SpokenDigitsToString(text string) string {
	t := strings.ToLower(text)

	var rawDigits strings.Builder
	for _, ch := range t {
		if ch >= '0' && ch <= '9' {
			rawDigits.WriteRune(ch)
		}
	}

	tokens := digitTokenRe.FindAllString(t, -1)
	var spoken strings.Builder
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if tok[0] >= '0' && tok[0] <= '9' {
			spoken.WriteString(tok)
			continue
		}
		if (tok == "double" || tok == "triple") && i+1 < len(tokens) {
			if d, ok := digitWords[tokens[i+1]]; ok {
				repeat := 2
				if tok == "triple" {
					repeat = 3
				}
				spoken.WriteString(strings.Repeat(d, repeat))
				i++
				continue
			}
		}
		if d, ok := digitWords[tok]; ok {
			spoken.WriteString(d)
		}
	}

	if spoken.Len() >= rawDigits.Len() {
		return spoken.String()
	}
	return rawDigits.String()
}

// ExtractPolicyNumber recovers a policy number from an utterance. Anything
// shorter than six digits is rejected — partial readings get re-prompted
// rather than stored.
func ExtractPolicyNumber(text string) string {
	s := SpokenDigitsToString(text)
	var digits strings.Builder
	for _, ch := range s {
		if ch >= '0' && ch <= '9' {
			digits.WriteRune(ch)
		}
	}
	if digits.Len() >= 6 {
		return digits.String()
	}
	return ""
}
