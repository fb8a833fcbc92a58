package dialogue

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/room4-2/InsureConverse/nlu"
)

// claimRequiredFields is the intake checklist, asked in exactly this order.
var claimRequiredFields = []string{
	slotInsuranceNumber,
	slotInjuries,
	slotAccidentCity,
	slotAccidentDate,
	slotAccidentDescription,
	slotPoliceReport,
	slotVehicleDrivable,
	slotThirdPartyInvolved,
}

func missingClaimSlots(slots Slots) []string {
	var missing []string
	for _, k := range claimRequiredFields {
		if !slots.Has(k) {
			missing = append(missing, k)
		}
	}
	return missing
}

var claimQuestions = map[string]string{
	slotInsuranceNumber:     "What is your insurance/policy number? (You can read it as it appears on your policy card.)",
	slotInjuries:            "Were there any injuries? Please say yes or no.",
	slotAccidentCity:        "Which city did the accident happen in?",
	slotAccidentDate:        "What date did it happen? You can say 'today', 'yesterday', or a date like 2025-12-22.",
	slotAccidentDescription: "Briefly, what happened? One sentence is enough.",
	slotPoliceReport:        "Was the police notified? Please say yes or no. If yes, do you have a report/reference number?",
	slotVehicleDrivable:     "Is your car drivable right now? Please say yes or no.",
	slotThirdPartyInvolved:  "Were other vehicles involved? Please say yes or no.",
}

func claimQuestion(missingKey string) string {
	if q, ok := claimQuestions[missingKey]; ok {
		return q
	}
	return "Can you tell me a bit more?"
}

var accidentVerbs = []string{"accident", "crash", "collision", "rear-ended", "hit", "bumped"}

// claimUpdateFromText harvests whatever claim details a free-form
// utterance happens to carry, regardless of which question was asked.
// Everything here fills gaps only; the expected-answer pass afterwards is
// what interprets short replies.
func claimUpdateFromText(userText string, slots Slots, now time.Time) {
	tl := strings.ToLower(strings.TrimSpace(userText))

	area, city := nlu.ExtractLocation(userText)
	if city != "" {
		slots.SetIfAbsent(slotAccidentCity, StringValue(city))
	}
	if area != "" {
		slots.SetIfAbsent(slotAccidentArea, StringValue(area))
	}

	if d := parseDate(userText, now); d != "" {
		slots.SetIfAbsent(slotAccidentDate, StringValue(d))
	}

	// A longer utterance that mentions the crash and is not a bare yes/no
	// doubles as the incident description.
	trimmed := strings.TrimSpace(userText)
	if _, ok := parseYesNo(userText); !ok && len([]rune(trimmed)) > 8 && !slots.Has(slotAccidentDescription) {
		if containsAny(tl, accidentVerbs) {
			slots.Set(slotAccidentDescription, StringValue(trimmed))
		}
	}

	if ref := reportRe.FindStringSubmatch(userText); ref != nil {
		slots.Set(slotPoliceReportRef, StringValue(ref[1]))
	}
}

var alnumIDRe = regexp.MustCompile(`\b([A-Za-z0-9][A-Za-z0-9\-]{4,})\b`)

// claimApplyExpectedAnswer interprets the utterance as the answer to the
// question asked last turn. This takes precedence for short or ambiguous
// replies — a bare "yes" only lands on the field it was asked about. An
// answer that does not parse leaves the expectation in place so the same
// question is asked again.
func claimApplyExpectedAnswer(userText string, slots Slots, now time.Time) {
	expected, present, err := slots.String(slotClaimExpected)
	if !present || err != nil {
		return
	}

	yn, ynOK := parseYesNo(userText)

	switch expected {
	case slotInjuries, slotVehicleDrivable, slotThirdPartyInvolved:
		if ynOK {
			slots.Set(expected, BoolValue(yn))
			slots.Delete(slotClaimExpected)
		}

	case slotPoliceReport:
		if ynOK {
			slots.Set(slotPoliceReport, BoolValue(yn))
			if yn {
				if ref := reportRe.FindStringSubmatch(userText); ref != nil {
					slots.Set(slotPoliceReportRef, StringValue(ref[1]))
				}
			}
			slots.Delete(slotClaimExpected)
		}

	case slotAccidentDate:
		if d := parseDate(userText, now); d != "" {
			slots.Set(slotAccidentDate, StringValue(d))
			slots.Delete(slotClaimExpected)
		}

	case slotAccidentCity:
		area, city := nlu.ExtractLocation(userText)
		if city == "" {
			// The answer may be just the city name with no "in".
			candidate := strings.TrimSpace(clauseSplit(userText))
			if n := len([]rune(candidate)); n >= 2 && n <= 40 && !strings.ContainsAny(candidate, "0123456789") {
				city = nlu.NormalizeCity(candidate)
			}
		}
		if city != "" {
			slots.Set(slotAccidentCity, StringValue(city))
			if area != "" {
				slots.Set(slotAccidentArea, StringValue(area))
			}
			slots.Delete(slotClaimExpected)
		}

	case slotInsuranceNumber:
		txt := strings.TrimSpace(userText)
		if pn := nlu.ExtractPolicyNumber(txt); pn != "" {
			slots.Set(slotInsuranceNumber, StringValue(pn))
			slots.Delete(slotClaimExpected)
			return
		}
		if m := alnumIDRe.FindStringSubmatch(txt); m != nil {
			slots.Set(slotInsuranceNumber, StringValue(m[1]))
			slots.Delete(slotClaimExpected)
		}

	case slotAccidentDescription:
		txt := strings.TrimSpace(userText)
		if len([]rune(txt)) > 5 {
			slots.Set(slotAccidentDescription, StringValue(txt))
			slots.Delete(slotClaimExpected)
		}
	}
}

var clauseSplitRe = regexp.MustCompile(`[,.!?;]`)

func clauseSplit(text string) string {
	return clauseSplitRe.Split(strings.TrimSpace(text), 2)[0]
}

// nextClaimNumber mints YYYYMM + a zero-padded sequence from the
// session's monthly counter map. The counter is per session, so numbers
// are not unique across concurrent calls; a shared sequence generator
// would replace this.
func nextClaimNumber(state *SessionState, now time.Time) string {
	yyyymm := now.Format("200601")

	counters, _, err := state.Slots.Counters(slotClaimCounters)
	if counters == nil || err != nil {
		counters = make(map[string]int)
	}
	counters[yyyymm]++
	state.Slots.Set(slotClaimCounters, CountersValue(counters))

	return fmt.Sprintf("%s%05d", yyyymm, counters[yyyymm])
}

// handleClaim runs one turn of the claim-intake checklist: absorb
// whatever the utterance answered, then ask the first field still missing,
// or close the claim once the checklist is complete.
func (m *Manager) handleClaim(userText string, state *SessionState) TurnResult {
	state.Slots.Set(slotInClaimIntake, BoolValue(true))

	now := m.now()
	claimUpdateFromText(userText, state.Slots, now)
	claimApplyExpectedAnswer(userText, state.Slots, now)

	if missing := missingClaimSlots(state.Slots); len(missing) > 0 {
		next := missing[0]
		state.Slots.Set(slotClaimExpected, StringValue(next))
		return TurnResult{ResponseText: claimQuestion(next)}
	}

	claimNo := nextClaimNumber(state, now)
	state.Slots.Set(slotClaimNumber, StringValue(claimNo))
	state.Slots.Set(slotInClaimIntake, BoolValue(false))
	state.Slots.Delete(slotClaimExpected)

	area := state.Slots.stringOr(slotAccidentArea, "")
	city := state.Slots.stringOr(slotAccidentCity, "")
	loc := city
	if area != "" && city != "" {
		loc = area + ", " + city
	}
	if loc == "" {
		loc = "the provided location"
	}

	injuries := "no"
	if state.Slots.boolIs(slotInjuries) {
		injuries = "yes"
	}

	return TurnResult{
		ResponseText: "Thanks — I've recorded your claim details.\n" +
			"Next steps:\n" +
			"1) If anyone is injured or there is danger, contact emergency services.\n" +
			"2) Take photos of the scene, vehicle damage, plates, and road signs.\n" +
			"3) Collect third-party and witness contacts if available.\n" +
			"4) Keep receipts for towing/urgent costs.\n\n" +
			fmt.Sprintf("Summary: Accident in %s on %s. Injuries: %s.\n",
				loc, state.Slots.stringOr(slotAccidentDate, "unknown date"), injuries) +
			fmt.Sprintf("Your claim number is %s.", claimNo),
	}
}
