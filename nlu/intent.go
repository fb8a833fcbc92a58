// Package nlu resolves caller intents and extracts entities from raw
// utterances. Everything in here is deterministic rule matching over
// normalized text — there is no statistical model behind it.
package nlu

import "strings"

// Intent is the classified purpose of an utterance, from a closed set.
type Intent string

const (
	IntentDocQA           Intent = "doc_qa"
	IntentReportClaim     Intent = "report_claim"
	IntentPremiumEstimate Intent = "premium_estimate"
	IntentCompareCoverage Intent = "compare_coverage"
	IntentHandoffHuman    Intent = "handoff_human"
	IntentClarification   Intent = "clarification"
)

// IntentResult pairs an intent with an advisory confidence in [0,1].
// Confidence is only used for later max/threshold comparisons; it is
// never shown to the caller.
type IntentResult struct {
	Intent     Intent
	Confidence float64
}

var intentKeywords = map[Intent][]string{
	IntentDocQA: {
		"what is", "tell me about", "information on", "details about", "explain", "how to",
	},
	IntentReportClaim: {
		"report a claim", "file a claim", "accident", "crash", "stolen", "theft", "claim",
	},
	IntentPremiumEstimate: {
		"premium", "quote", "cost", "price", "how much", "estimate",
		" need insurance", "want insurance", "need a quote", "get a quote",
		"cheapest insurance", "insurance cost", "insurance premium", "insurance quote", "insurance price",
		"option", "options", "cheap option", "cheap options", "cheapest option", "lowest price",
	},
	IntentHandoffHuman: {
		"agent", "representative", "call me back", "human", "talk to someone", "speak to someone",
		"customer service", "real person", "live person", "operator",
	},
	IntentCompareCoverage: {
		"compare", "comparison", "compare them", "show options", "show differences",
		"yes compare", "compare plans", "options",
	},
}

func containsAnyKeyword(t string, intent Intent) bool {
	for _, k := range intentKeywords[intent] {
		if strings.Contains(t, k) {
			return true
		}
	}
	return false
}

// DetectIntent classifies an utterance. Rules are evaluated in a fixed
// order and the first match wins. The previous turn's intent biases the
// result toward continuing a premium estimate (stickiness).
func DetectIntent(userText string, lastIntent Intent) IntentResult {
	t := strings.ToLower(strings.TrimSpace(userText))

	if lastIntent == IntentPremiumEstimate && containsAnyKeyword(t, IntentPremiumEstimate) {
		return IntentResult{Intent: IntentPremiumEstimate, Confidence: 0.85}
	}
	if containsAnyKeyword(t, IntentCompareCoverage) {
		return IntentResult{Intent: IntentCompareCoverage, Confidence: 0.9}
	}
	if containsAnyKeyword(t, IntentPremiumEstimate) {
		return IntentResult{Intent: IntentPremiumEstimate, Confidence: 0.8}
	}
	if containsAnyKeyword(t, IntentReportClaim) {
		return IntentResult{Intent: IntentReportClaim, Confidence: 0.8}
	}
	if containsAnyKeyword(t, IntentHandoffHuman) {
		return IntentResult{Intent: IntentHandoffHuman, Confidence: 0.7}
	}
	return IntentResult{Intent: IntentDocQA, Confidence: 0.6}
}
