package dialogue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

func TestMissingClaimSlotsOrder(t *testing.T) {
	s := Slots{}
	missing := missingClaimSlots(s)
	assert.Equal(t, claimRequiredFields, missing)

	s.Set(slotInsuranceNumber, StringValue("123456"))
	s.Set(slotAccidentCity, StringValue("Celje"))
	missing = missingClaimSlots(s)
	require.NotEmpty(t, missing)
	assert.Equal(t, slotInjuries, missing[0])
}

func TestNextClaimNumberFormat(t *testing.T) {
	state := NewSessionState()

	first := nextClaimNumber(state, testNow)
	assert.Equal(t, "20260800001", first)

	second := nextClaimNumber(state, testNow)
	assert.Equal(t, "20260800002", second)

	// A different month starts its own sequence
	other := nextClaimNumber(state, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "20260900001", other)

	counters, present, err := state.Slots.Counters(slotClaimCounters)
	require.NoError(t, err)
	assert.True(t, present)
	assert.Equal(t, 2, counters["202608"])
	assert.Equal(t, 1, counters["202609"])
}

func TestClaimUpdateFromText(t *testing.T) {
	s := Slots{}
	claimUpdateFromText("I was rear-ended in Maribor yesterday", s, testNow)

	city, _, err := s.String(slotAccidentCity)
	require.NoError(t, err)
	assert.Equal(t, "Maribor", city)

	date, _, err := s.String(slotAccidentDate)
	require.NoError(t, err)
	assert.Equal(t, "2026-08-29", date)

	desc, _, err := s.String(slotAccidentDescription)
	require.NoError(t, err)
	assert.Equal(t, "I was rear-ended in Maribor yesterday", desc)
}

func TestClaimUpdateFromTextNoDescriptionForShortOrYesNo(t *testing.T) {
	s := Slots{}
	claimUpdateFromText("no", s, testNow)
	assert.False(t, s.Has(slotAccidentDescription))

	// Long but without any accident wording
	claimUpdateFromText("the weather was lovely that afternoon", s, testNow)
	assert.False(t, s.Has(slotAccidentDescription))
}

func TestClaimApplyExpectedAnswerYesNo(t *testing.T) {
	s := Slots{}
	s.Set(slotClaimExpected, StringValue(slotInjuries))

	claimApplyExpectedAnswer("yes", s, testNow)

	injured, _, err := s.Bool(slotInjuries)
	require.NoError(t, err)
	assert.True(t, injured)
	assert.False(t, s.Has(slotClaimExpected), "answered expectation should clear")
}

func TestClaimApplyExpectedAnswerUnparseableKeepsExpectation(t *testing.T) {
	s := Slots{}
	s.Set(slotClaimExpected, StringValue(slotInjuries))

	claimApplyExpectedAnswer("well it depends", s, testNow)

	assert.False(t, s.Has(slotInjuries))
	assert.True(t, s.Has(slotClaimExpected), "unanswered expectation should persist")
}

func TestClaimApplyExpectedAnswerPoliceReportWithRef(t *testing.T) {
	s := Slots{}
	s.Set(slotClaimExpected, StringValue(slotPoliceReport))

	claimApplyExpectedAnswer("yes, report #PR-2231", s, testNow)

	notified, _, err := s.Bool(slotPoliceReport)
	require.NoError(t, err)
	assert.True(t, notified)

	ref, _, err := s.String(slotPoliceReportRef)
	require.NoError(t, err)
	assert.Equal(t, "PR-2231", ref)
}

func TestClaimApplyExpectedAnswerBareCityName(t *testing.T) {
	s := Slots{}
	s.Set(slotClaimExpected, StringValue(slotAccidentCity))

	claimApplyExpectedAnswer("Lubljana", s, testNow)

	city, _, err := s.String(slotAccidentCity)
	require.NoError(t, err)
	assert.Equal(t, "Ljubljana", city)
}

func TestClaimApplyExpectedAnswerInsuranceNumber(t *testing.T) {
	s := Slots{}
	s.Set(slotClaimExpected, StringValue(slotInsuranceNumber))

	claimApplyExpectedAnswer("it's one two three four five six", s, testNow)

	num, _, err := s.String(slotInsuranceNumber)
	require.NoError(t, err)
	assert.Equal(t, "123456", num)
}

func TestHandleClaimAsksInOrder(t *testing.T) {
	m := newTestManager(&fakeRetriever{})
	state := NewSessionState()

	res := m.handleClaim("I want to report a claim", state)
	assert.Contains(t, res.ResponseText, "policy number")
	assert.True(t, state.Slots.boolIs(slotInClaimIntake))

	expected, _, err := state.Slots.String(slotClaimExpected)
	require.NoError(t, err)
	assert.Equal(t, slotInsuranceNumber, expected)
}

func TestHandleClaimCompletion(t *testing.T) {
	m := newTestManager(&fakeRetriever{})
	state := NewSessionState()

	state.Slots.Set(slotInsuranceNumber, StringValue("123456789"))
	state.Slots.Set(slotInjuries, BoolValue(false))
	state.Slots.Set(slotAccidentCity, StringValue("Maribor"))
	state.Slots.Set(slotAccidentDate, StringValue("2026-08-29"))
	state.Slots.Set(slotAccidentDescription, StringValue("rear-ended at a crossing"))
	state.Slots.Set(slotPoliceReport, BoolValue(false))
	state.Slots.Set(slotVehicleDrivable, BoolValue(true))
	state.Slots.Set(slotClaimExpected, StringValue(slotThirdPartyInvolved))

	res := m.handleClaim("no", state)

	assert.Contains(t, res.ResponseText, "Your claim number is 20260800001.")
	assert.Contains(t, res.ResponseText, "Accident in Maribor on 2026-08-29. Injuries: no.")
	assert.Contains(t, res.ResponseText, "Next steps:")
	assert.False(t, res.EndCall)

	assert.False(t, state.Slots.boolIs(slotInClaimIntake))
	assert.False(t, state.Slots.Has(slotClaimExpected))

	claimNo, _, err := state.Slots.String(slotClaimNumber)
	require.NoError(t, err)
	assert.Equal(t, "20260800001", claimNo)
}
