package dialogue

import (
	"fmt"
	"strings"

	"github.com/room4-2/InsureConverse/nlu"
	"github.com/room4-2/InsureConverse/premium"
)

// quoteRequiredSlots is the quote checklist; missing fields are prompted
// one per turn in exactly this order.
var quoteRequiredSlots = []string{slotVehicleAge, slotHorsepower, slotCity, slotCoverageLevel}

func missingQuoteSlots(slots Slots) []string {
	var missing []string
	for _, k := range quoteRequiredSlots {
		if !slots.Has(k) {
			missing = append(missing, k)
		}
	}
	return missing
}

func askOneMissing(missing []string, slots Slots) string {
	if len(missing) == 0 {
		return "What detail should we adjust?"
	}
	switch missing[0] {
	case slotVehicleAge:
		return "What's the vehicle year (e.g., 2010) or age in years?"
	case slotHorsepower:
		if slots.Has(slotEngineSizeL) {
			return "I can estimate horsepower from engine size — do you want that, or do you know the exact HP?"
		}
		return "About how many horsepower is the vehicle? If you don't know, tell me engine size (e.g., 1.4 / 1.6)."
	case slotCity:
		return "Which city is the vehicle primarily used in?"
	case slotCoverageLevel:
		return "Do you want basic, standard, or premium coverage?"
	}
	return fmt.Sprintf("Could you tell me %s?", missing[0])
}

// quoteInputs reads the four confirmed slots. Only called after the
// missing-slot check, so a failure here is a slot typed wrong, which is a
// programming error worth surfacing.
func quoteInputs(slots Slots) (age, hp int, city string, level premium.CoverageLevel, err error) {
	age, _, err = slots.Int(slotVehicleAge)
	if err != nil {
		return 0, 0, "", "", err
	}
	hp, _, err = slots.Int(slotHorsepower)
	if err != nil {
		return 0, 0, "", "", err
	}
	city, _, err = slots.String(slotCity)
	if err != nil {
		return 0, 0, "", "", err
	}
	levelStr, _, err := slots.String(slotCoverageLevel)
	if err != nil {
		return 0, 0, "", "", err
	}
	return age, hp, city, premium.CoverageLevel(strings.ToLower(levelStr)), nil
}

// handleQuote runs one turn of premium-quote slot filling and, once all
// four inputs are present, delegates the price to the pricing
// collaborator. The response reports the collaborator's number verbatim.
func (m *Manager) handleQuote(userText, t string, state *SessionState) (TurnResult, error) {
	// Which slot was prompted last turn; consumed here, re-armed below
	// whenever another prompt goes out.
	askedLast := state.Slots.stringOr(slotQuoteExpected, "")
	state.Slots.Delete(slotQuoteExpected)

	// Asking about the levels before picking one gets the qualitative
	// answer, not another slot prompt.
	if !state.Slots.Has(slotCoverageLevel) && containsAny(t, []string{"difference", "compare", "comparison"}) {
		return TurnResult{ResponseText: coverageDifferenceAnswer()}, nil
	}

	if !state.Slots.Has(slotCoverageLevel) && strings.Contains(t, "cheapest") {
		state.Slots.Set(slotCoverageLevel, StringValue("basic"))
	}

	hpNote := ""
	if !state.Slots.Has(slotHorsepower) {
		if es, present, err := state.Slots.Float(slotEngineSizeL); present && err == nil {
			hpEst, note := premium.EstimateHorsepower(es)
			state.Slots.Set(slotHorsepower, IntValue(hpEst))
			hpNote = fmt.Sprintf("(Using ~%d HP %s.) ", hpEst, note)
		}
	}

	// The answer to last turn's city question may be just the city name
	// with no "in". Only the asked-for slot gets this reading, same as the
	// claim intake's expected-answer pass; trigger utterances like "quote
	// please" never reach here because nothing was asked yet.
	if askedLast == slotCity && !state.Slots.Has(slotCity) {
		if _, yn := parseYesNo(t); !yn {
			candidate := strings.TrimSpace(clauseSplit(userText))
			words := strings.Fields(candidate)
			if n := len([]rune(candidate)); n >= 2 && n <= 40 && len(words) <= 3 && !strings.ContainsAny(candidate, "0123456789") {
				state.Slots.Set(slotCity, StringValue(nlu.NormalizeCity(candidate)))
			}
		}
	}

	missing := missingQuoteSlots(state.Slots)
	if len(missing) > 0 {
		state.Slots.Set(slotQuoteExpected, StringValue(missing[0]))
		return TurnResult{ResponseText: hpNote + askOneMissing(missing, state.Slots)}, nil
	}

	age, hp, city, level, err := quoteInputs(state.Slots)
	if err != nil {
		return TurnResult{}, err
	}
	res, err := m.price(age, hp, city, level)
	if err != nil {
		return TurnResult{}, err
	}

	return TurnResult{
		ResponseText: hpNote + fmt.Sprintf(
			"Based on a %d-year-old vehicle with %d HP in %s with %s coverage, your estimate is about €%v per month. "+
				"Want to compare basic vs standard vs premium pricing?",
			age, hp, city, level, res.MonthlyEUR),
	}, nil
}

// handleCompare prices all three coverage levels from one consistent
// (age, horsepower, city) tuple. With quote slots still missing it falls
// back to the qualitative coverage differences.
func (m *Manager) handleCompare(state *SessionState) (TurnResult, error) {
	if len(missingQuoteSlots(state.Slots)) > 0 {
		return TurnResult{ResponseText: coverageDifferenceAnswer()}, nil
	}

	age, hp, city, _, err := quoteInputs(state.Slots)
	if err != nil {
		return TurnResult{}, err
	}

	prices := make(map[premium.CoverageLevel]float64, len(premium.Levels))
	for _, level := range premium.Levels {
		res, err := m.price(age, hp, city, level)
		if err != nil {
			return TurnResult{}, err
		}
		prices[level] = res.MonthlyEUR
	}

	return TurnResult{
		ResponseText: "Here's a quick comparison:\n" +
			fmt.Sprintf("- Basic (liability only): €%v per month\n", prices[premium.CoverageBasic]) +
			fmt.Sprintf("- Standard: €%v per month\n", prices[premium.CoverageStandard]) +
			fmt.Sprintf("- Premium (most coverage): €%v per month\n\n", prices[premium.CoveragePremium]) +
			"Which one do you prefer?",
	}, nil
}
