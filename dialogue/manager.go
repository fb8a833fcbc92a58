// Package dialogue is the per-call conversation core: session state, the
// turn orchestrator, and the claim, quote, comparison, and doc-Q&A
// sub-flows. One turn in, one response out; all state lives in the
// SessionState the caller owns, and nothing here blocks or retries.
package dialogue

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/room4-2/InsureConverse/nlu"
	"github.com/room4-2/InsureConverse/premium"
	"github.com/room4-2/InsureConverse/rag"
)

// Retriever is the passage-ranking collaborator behind the doc-Q&A
// responder. Retrieval failures propagate to the caller untouched.
type Retriever interface {
	Retrieve(query string, topK int) ([]rag.DocChunk, error)
}

// PriceFunc is the pricing collaborator: deterministic, pure, and only
// invoked once every quote input is confirmed present.
type PriceFunc func(vehicleAge, horsepower int, city string, level premium.CoverageLevel) (premium.Result, error)

// Manager runs the per-turn dialogue state machine. One Manager can serve
// many sessions; everything mutable lives in the SessionState.
type Manager struct {
	retriever Retriever
	price     PriceFunc
	now       func() time.Time
}

// NewManager wires the orchestrator to its collaborators.
func NewManager(retriever Retriever) *Manager {
	return &Manager{
		retriever: retriever,
		price:     premium.Calculate,
		now:       time.Now,
	}
}

// Greeting opens every call, regardless of front end.
const Greeting = "Hi, you've reached the auto insurance assistant. " +
	"You can report a claim, get a premium estimate, or ask about coverage. How can I help?"

var (
	ageIsRe   = regexp.MustCompile(`\bage\s*(?:is)?\s*(\d{1,2})\b`)
	bareAgeRe = regexp.MustCompile(`^\d{1,2}$`)
)

var handoffPhrases = []string{"human", "human agent", "call me back", "call back"}

var shoppingSignals = []string{"cheapest", "lowest", "option", "basic coverage", "liability", "minimum coverage"}

var bareAffirmations = map[string]bool{
	"yes": true, "yes please": true, "ok": true, "okay": true,
	"sure": true, "da": true, "ya": true,
}

// overrideRule is one step of the post-resolution intent pipeline. The
// rules run in slice order, each may rewrite the pending result, and the
// order is load-bearing: it is how conflicting reclassifications resolve.
type overrideRule struct {
	name  string
	apply func(m *Manager, t string, state *SessionState, res *nlu.IntentResult)
}

var overrideRules = []overrideRule{
	{
		// A prior turn (the Q&A responder) may have parked an intent for
		// this turn. It wins outright and is consumed here.
		name: "forced_intent",
		apply: func(m *Manager, t string, state *SessionState, res *nlu.IntentResult) {
			forced, present, _ := state.Slots.String(slotForceIntent)
			if !present {
				return
			}
			state.Slots.Delete(slotForceIntent)
			if forced != "" {
				res.Intent = nlu.Intent(forced)
				res.Confidence = 0.99
			}
		},
	},
	{
		// Mid-intake every utterance is a claim answer, unless the caller
		// cancels.
		name: "claim_intake_stickiness",
		apply: func(m *Manager, t string, state *SessionState, res *nlu.IntentResult) {
			if !state.Slots.boolIs(slotInClaimIntake) {
				return
			}
			if containsAny(t, cancelWords) {
				state.Slots.Set(slotInClaimIntake, BoolValue(false))
				state.Slots.Delete(slotClaimExpected)
				res.Intent = nlu.IntentDocQA
				res.Confidence = 0.6
				return
			}
			res.Intent = nlu.IntentReportClaim
			res.Confidence = 0.95
		},
	},
	{
		name: "shopping_signals",
		apply: func(m *Manager, t string, state *SessionState, res *nlu.IntentResult) {
			if res.Intent == nlu.IntentDocQA && containsAny(t, shoppingSignals) {
				res.Intent = nlu.IntentPremiumEstimate
				if res.Confidence < 0.8 {
					res.Confidence = 0.8
				}
			}
		},
	},
	{
		// "Explain claims, I don't want to submit one" is a question, not
		// an incident report.
		name: "claim_info_disambiguation",
		apply: func(m *Manager, t string, state *SessionState, res *nlu.IntentResult) {
			if res.Intent == nlu.IntentReportClaim && looksLikeClaimInfoOnly(t) {
				res.Intent = nlu.IntentDocQA
				res.Confidence = 0.85
			}
		},
	},
	{
		// A bare "yes" after a quote either accepts the comparison offer
		// or keeps the quote flow moving.
		name: "affirmation_continuation",
		apply: func(m *Manager, t string, state *SessionState, res *nlu.IntentResult) {
			if res.Intent != nlu.IntentDocQA || !bareAffirmations[t] {
				return
			}
			if state.LastIntent != nlu.IntentPremiumEstimate {
				return
			}
			if len(missingQuoteSlots(state.Slots)) == 0 {
				res.Intent = nlu.IntentCompareCoverage
			} else {
				res.Intent = nlu.IntentPremiumEstimate
			}
			res.Confidence = 0.9
		},
	},
	{
		// Ambiguous short replies must not derail an in-progress quote.
		name: "quote_stickiness",
		apply: func(m *Manager, t string, state *SessionState, res *nlu.IntentResult) {
			if state.LastIntent == nlu.IntentPremiumEstimate && res.Intent == nlu.IntentDocQA {
				res.Intent = nlu.IntentPremiumEstimate
				if res.Confidence < 0.75 {
					res.Confidence = 0.75
				}
			}
		},
	},
}

// HandleTurn processes one utterance against the session. Exactly one
// sub-flow runs; the result carries the reply and the end-of-call flag.
// Only collaborator failures produce an error.
func (m *Manager) HandleTurn(userText string, state *SessionState) (TurnResult, error) {
	state.Turns++
	t := strings.ToLower(strings.TrimSpace(userText))

	// The caller can always end the call; this outranks everything,
	// including an in-progress claim.
	if isExitPhrase(t) {
		state.Slots.Set(slotInClaimIntake, BoolValue(false))
		state.Slots.Delete(slotClaimExpected)
		return TurnResult{ResponseText: "Okay — ending the call. Goodbye!", EndCall: true}, nil
	}

	m.mergeEntities(userText, t, state)

	res := nlu.DetectIntent(userText, state.LastIntent)
	for _, rule := range overrideRules {
		rule.apply(m, t, state, &res)
	}

	if res.Intent != nlu.IntentDocQA {
		state.Slots.Set(slotQATurns, IntValue(0))
	}

	prevIntent := state.LastIntent
	state.LastIntent = res.Intent

	return m.dispatch(userText, t, prevIntent, res, state)
}

// mergeEntities runs the slot extractor and folds the findings into the
// session. Extractor output force-merges: a caller restating a detail is
// the freshest signal we have. Derivations (age from year, opportunistic
// bare ages) follow.
func (m *Manager) mergeEntities(userText, t string, state *SessionState) {
	ents := nlu.ExtractEntities(userText)

	if ents.CoverageLevel != "" {
		state.Slots.Set(slotCoverageLevel, StringValue(ents.CoverageLevel))
	}
	if ents.Horsepower != nil {
		state.Slots.Set(slotHorsepower, IntValue(*ents.Horsepower))
	}
	if ents.EngineSizeL != nil {
		state.Slots.Set(slotEngineSizeL, FloatValue(*ents.EngineSizeL))
	}
	if ents.City != "" {
		state.Slots.Set(slotCity, StringValue(ents.City))
	}
	if ents.VehicleYear != nil {
		state.Slots.Set(slotVehicleYear, IntValue(*ents.VehicleYear))
	}
	if ents.VehicleAge != nil {
		state.Slots.Set(slotVehicleAge, IntValue(*ents.VehicleAge))
	}

	if city, present, err := state.Slots.String(slotCity); present && err == nil {
		state.Slots.Set(slotCity, StringValue(nlu.NormalizeCity(city)))
	}

	currentYear := m.now().Year()
	if y, present, err := state.Slots.Int(slotVehicleYear); present && err == nil {
		if y >= 1950 && y <= currentYear {
			state.Slots.Set(slotVehicleAge, IntValue(currentYear-y))
		}
	}

	if !state.Slots.Has(slotVehicleAge) {
		if mAge := ageIsRe.FindStringSubmatch(t); mAge != nil {
			if age, err := strconv.Atoi(mAge[1]); err == nil {
				state.Slots.Set(slotVehicleAge, IntValue(age))
			}
		} else if bareAgeRe.MatchString(t) && state.LastIntent == nlu.IntentPremiumEstimate {
			if age, err := strconv.Atoi(t); err == nil && age > 0 && age < 100 {
				state.Slots.Set(slotVehicleAge, IntValue(age))
			}
		}
	}
}

// dispatch routes the resolved intent into exactly one sub-flow.
func (m *Manager) dispatch(userText, t string, prevIntent nlu.Intent, res nlu.IntentResult, state *SessionState) (TurnResult, error) {
	if res.Intent == nlu.IntentHandoffHuman || containsAny(t, handoffPhrases) {
		return TurnResult{
			ResponseText: "Okay — I'm transferring you to a human agent now. (Prototype: transfer simulated.)",
			EndCall:      true,
		}, nil
	}

	if res.Intent == nlu.IntentReportClaim {
		return m.handleClaim(userText, state), nil
	}

	if res.Intent == nlu.IntentPremiumEstimate {
		return m.handleQuote(userText, t, state)
	}

	// A caller mid-quote asking about differences gets the qualitative
	// answer straight away, before picking a level.
	if prevIntent == nlu.IntentPremiumEstimate && !state.Slots.Has(slotCoverageLevel) {
		if containsAny(t, []string{"difference", "compare", "comparison", "what is the difference"}) {
			return TurnResult{ResponseText: coverageDifferenceAnswer()}, nil
		}
	}

	if (prevIntent == nlu.IntentPremiumEstimate || prevIntent == nlu.IntentCompareCoverage) && res.Intent == nlu.IntentDocQA {
		return TurnResult{
			ResponseText: "Do you want to pick a coverage level (basic/standard/premium), or get a new quote with different details?",
		}, nil
	}

	if res.Intent == nlu.IntentCompareCoverage {
		return m.handleCompare(state)
	}

	// Doc-Q&A fallback. Broad topical questions get a canned retrieval
	// query; specific wording (deductibles, exclusions) goes verbatim.
	ragQuery := userText
	if containsAny(t, []string{"plans", "options", "coverage", "levels"}) {
		ragQuery = "auto insurance coverage levels basic standard premium differences"
	} else if strings.Contains(t, "claim") {
		ragQuery = "auto claim process steps required information evidence timeline"
	}

	docs, err := m.retriever.Retrieve(ragQuery, 3)
	if err != nil {
		return TurnResult{}, err
	}
	return TurnResult{ResponseText: m.qaAnswer(userText, docs, state)}, nil
}
