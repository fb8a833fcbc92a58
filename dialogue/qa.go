package dialogue

import (
	"strings"

	"github.com/room4-2/InsureConverse/nlu"
	"github.com/room4-2/InsureConverse/rag"
)

// qaAnswer turns a retrieval result plus conversational heuristics into a
// follow-up-bearing answer. The topical short-circuits run in fixed order
// before the retrieval fallback; two of them hand the next turn to the
// quote flow by planting a forced intent.
func (m *Manager) qaAnswer(userText string, docs []rag.DocChunk, state *SessionState) string {
	t := strings.ToLower(strings.TrimSpace(userText))

	state.Slots.Set(slotQATurns, IntValue(state.Slots.intOr(slotQATurns, 0)+1))
	if isDissatisfied(t) {
		state.Slots.Set(slotQAFrustration, IntValue(state.Slots.intOr(slotQAFrustration, 0)+1))
	} else if fr := state.Slots.intOr(slotQAFrustration, 0); fr > 0 {
		state.Slots.Set(slotQAFrustration, IntValue(fr-1))
	} else {
		state.Slots.Set(slotQAFrustration, IntValue(0))
	}

	qaTurns := state.Slots.intOr(slotQATurns, 0)
	frustration := state.Slots.intOr(slotQAFrustration, 0)

	website := ""
	if qaTurns == 1 {
		website = " You can also review details on our website for the full wording."
	}
	human := ""
	if qaTurns >= 5 && frustration >= 2 {
		human = " If you'd rather speak to a person, type human."
	}

	if looksLikeInsuranceRequest(t) {
		state.Slots.Set(slotForceIntent, StringValue(string(nlu.IntentPremiumEstimate)))
		return "Sure — I can help you get car insurance. Let's start with the vehicle year."
	}

	if looksLikeClaimInfoOnly(t) {
		base := "Claims info: you can report online/phone, then provide incident details and evidence."
		if len(docs) > 0 && docs[0].Text != "" {
			if candidate := firstSentence(docs[0].Text, 140); !isBadSentence(candidate) {
				base = candidate
			}
		}
		return base + website + " What part of claims do you want (steps, documents, timelines, or coverage)?" + human
	}

	if looksLikePricing(t) {
		state.Slots.Set(slotForceIntent, StringValue(string(nlu.IntentPremiumEstimate)))
		if !state.Slots.Has(slotVehicleAge) && !state.Slots.Has(slotVehicleYear) {
			return "Sure — I can estimate pricing. What's the vehicle year (e.g., 2010)?" + human
		}
		missing := missingQuoteSlots(state.Slots)
		if len(missing) > 0 {
			state.Slots.Set(slotQuoteExpected, StringValue(missing[0]))
		}
		return "Sure — I can estimate pricing. " + askOneMissing(missing, state.Slots) + human
	}

	if containsAny(t, []string{"plans", "plan", "options", "offer", "coverage levels", "coverage level", "levels you offer"}) {
		return "We offer 3 coverage levels: Basic, Standard, and Premium." + website + " Want the differences between them?" + human
	}

	if containsAny(t, []string{"difference", "differences", "compare", "comparison", "what are the differences", "what is their differences"}) {
		return coverageDifferenceAnswer() + human
	}

	if containsAny(t, []string{"how many", "number of", "how many models", "how many plans", "how many options"}) {
		return "We offer 3 options (Basic, Standard, Premium). Do you want the cheapest or the most coverage?" + human
	}

	if containsAny(t, []string{"what are you talking about", "huh", "doesn't make sense", "irrelevant"}) {
		return "Got it — are you asking about coverage levels, pricing, or claim reporting?" + human
	}

	if len(docs) == 0 || docs[0].Text == "" {
		return humanFallback
	}

	base := "I can answer that, but I need one detail first."
	if candidate := firstSentence(docs[0].Text, 140); !isBadSentence(candidate) {
		base = candidate
	}

	var follow string
	switch {
	case strings.Contains(t, "deductible"):
		follow = "Which coverage level (basic, standard, premium)?"
	case strings.Contains(t, "exclusion") || strings.Contains(t, "excluded") || strings.Contains(t, "not covered"):
		follow = "Which situation (theft, drunk driving, intentional damage, etc.)?"
	case strings.Contains(t, "roadside") || strings.Contains(t, "replacement"):
		follow = "Do you want roadside assistance and a replacement vehicle included?"
	default:
		follow = "What specific part do you want to know (coverage, deductible, exclusions, or claims)?"
	}

	return base + website + " " + follow + human
}
