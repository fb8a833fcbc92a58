package dialogue

import (
	"errors"
	"testing"
	"time"

	"github.com/room4-2/InsureConverse/nlu"
	"github.com/room4-2/InsureConverse/rag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRetriever struct {
	docs      []rag.DocChunk
	err       error
	lastQuery string
}

func (f *fakeRetriever) Retrieve(query string, topK int) ([]rag.DocChunk, error) {
	f.lastQuery = query
	if f.err != nil {
		return nil, f.err
	}
	return f.docs, nil
}

func newTestManager(r Retriever) *Manager {
	m := NewManager(r)
	m.now = func() time.Time { return testNow }
	return m
}

func turn(t *testing.T, m *Manager, state *SessionState, text string) TurnResult {
	t.Helper()
	res, err := m.HandleTurn(text, state)
	require.NoError(t, err)
	return res
}

func TestHandleTurnExit(t *testing.T) {
	m := newTestManager(&fakeRetriever{})
	state := NewSessionState()

	res := turn(t, m, state, "goodbye")
	assert.True(t, res.EndCall)
	assert.Equal(t, "Okay — ending the call. Goodbye!", res.ResponseText)
	assert.Equal(t, 1, state.Turns)
}

func TestHandleTurnExitAbortsClaimIntake(t *testing.T) {
	m := newTestManager(&fakeRetriever{})
	state := NewSessionState()

	turn(t, m, state, "I had a crash")
	assert.True(t, state.Slots.boolIs(slotInClaimIntake))

	res := turn(t, m, state, "hang up")
	assert.True(t, res.EndCall)
	assert.False(t, state.Slots.boolIs(slotInClaimIntake))
	assert.False(t, state.Slots.Has(slotClaimExpected))
}

func TestHandleTurnHandoff(t *testing.T) {
	m := newTestManager(&fakeRetriever{})
	state := NewSessionState()

	res := turn(t, m, state, "let me talk to a human agent")
	assert.True(t, res.EndCall)
	assert.Contains(t, res.ResponseText, "transferring you to a human agent")
}

func TestClaimScenario(t *testing.T) {
	m := newTestManager(&fakeRetriever{})
	state := NewSessionState()

	res := turn(t, m, state, "I had an accident in Maribor today")
	assert.Contains(t, res.ResponseText, "policy number")

	city, _, err := state.Slots.String(slotAccidentCity)
	require.NoError(t, err)
	assert.Equal(t, "Maribor", city)

	date, _, err := state.Slots.String(slotAccidentDate)
	require.NoError(t, err)
	assert.Equal(t, "2026-08-30", date)

	res = turn(t, m, state, "it's 123 456 789")
	assert.Contains(t, res.ResponseText, "injuries")

	res = turn(t, m, state, "no")
	assert.Contains(t, res.ResponseText, "police")

	res = turn(t, m, state, "no")
	assert.Contains(t, res.ResponseText, "drivable")

	res = turn(t, m, state, "yes")
	assert.Contains(t, res.ResponseText, "other vehicles")

	res = turn(t, m, state, "no")
	assert.Contains(t, res.ResponseText, "Your claim number is 20260800001.")
	assert.Contains(t, res.ResponseText, "Accident in Maribor on 2026-08-30. Injuries: no.")
	assert.False(t, res.EndCall)
	assert.False(t, state.Slots.boolIs(slotInClaimIntake))
}

func TestClaimIntakeCancel(t *testing.T) {
	m := newTestManager(&fakeRetriever{docs: []rag.DocChunk{
		{DocID: "faq.md", Text: "Policies renew yearly and can be cancelled with one month's notice."},
	}})
	state := NewSessionState()

	turn(t, m, state, "I want to report a claim")
	assert.True(t, state.Slots.boolIs(slotInClaimIntake))

	turn(t, m, state, "actually nevermind, cancel that")
	assert.False(t, state.Slots.boolIs(slotInClaimIntake))
	assert.False(t, state.Slots.Has(slotClaimExpected))
}

func TestQuoteScenarioOneShot(t *testing.T) {
	m := newTestManager(&fakeRetriever{})
	state := NewSessionState()

	res := turn(t, m, state, "I need insurance for my 2010 Golf, 1.4 engine, living in Ljubljana, want the cheapest option")
	assert.Contains(t, res.ResponseText, "Using ~120 HP")
	assert.Contains(t, res.ResponseText, "€55.44 per month")
	assert.Equal(t, nlu.IntentPremiumEstimate, state.LastIntent)

	// A bare "yes" after a complete quote accepts the comparison offer
	res = turn(t, m, state, "yes")
	assert.Contains(t, res.ResponseText, "Basic (liability only)")
	assert.Contains(t, res.ResponseText, "Premium (most coverage)")
}

func TestQuoteSlotFillingAcrossTurns(t *testing.T) {
	m := newTestManager(&fakeRetriever{})
	state := NewSessionState()

	res := turn(t, m, state, "how much would insurance cost me")
	assert.Contains(t, res.ResponseText, "vehicle year")

	res = turn(t, m, state, "2012")
	assert.Contains(t, res.ResponseText, "horsepower")

	res = turn(t, m, state, "150 hp")
	assert.Contains(t, res.ResponseText, "city")

	res = turn(t, m, state, "Maribor")
	assert.Contains(t, res.ResponseText, "basic, standard, or premium")

	res = turn(t, m, state, "standard")
	assert.Contains(t, res.ResponseText, "per month")

	age, _, err := state.Slots.Int(slotVehicleAge)
	require.NoError(t, err)
	assert.Equal(t, 14, age)
}

func TestQuoteOpenerDoesNotSkipCityQuestion(t *testing.T) {
	m := newTestManager(&fakeRetriever{})
	state := NewSessionState()
	state.Slots.Set(slotVehicleAge, IntValue(5))
	state.Slots.Set(slotHorsepower, IntValue(100))

	res := turn(t, m, state, "quote please")
	assert.False(t, state.Slots.Has(slotCity))
	assert.Contains(t, res.ResponseText, "Which city")

	res = turn(t, m, state, "Koper")
	city, _, err := state.Slots.String(slotCity)
	require.NoError(t, err)
	assert.Equal(t, "Koper", city)
	assert.Contains(t, res.ResponseText, "basic, standard, or premium")
}

func TestCoverageQuestionMidQuote(t *testing.T) {
	m := newTestManager(&fakeRetriever{})
	state := NewSessionState()
	state.Slots.Set(slotVehicleAge, IntValue(5))
	state.Slots.Set(slotHorsepower, IntValue(100))
	state.Slots.Set(slotCity, StringValue("Celje"))
	state.LastIntent = nlu.IntentPremiumEstimate

	res := turn(t, m, state, "what is the difference between them")
	assert.Contains(t, res.ResponseText, "Differences:")
}

func TestRedirectAfterComparison(t *testing.T) {
	m := newTestManager(&fakeRetriever{})
	state := NewSessionState()
	state.LastIntent = nlu.IntentCompareCoverage

	res := turn(t, m, state, "hmm interesting")
	assert.Contains(t, res.ResponseText, "pick a coverage level")
}

func TestClaimInfoDisambiguation(t *testing.T) {
	f := &fakeRetriever{docs: []rag.DocChunk{
		{DocID: "claims.md", Text: "You can report a claim by phone or online at any time."},
	}}
	m := newTestManager(f)
	state := NewSessionState()

	res := turn(t, m, state, "explain claims to me, I don't want to submit one")
	assert.False(t, state.Slots.boolIs(slotInClaimIntake))
	assert.Contains(t, res.ResponseText, "What part of claims do you want")
	assert.Contains(t, f.lastQuery, "claim process")
}

func TestDocQAFrustrationEscalation(t *testing.T) {
	m := newTestManager(&fakeRetriever{docs: []rag.DocChunk{
		{DocID: "faq.md", Text: "Deductibles are the portion of an own-damage claim you pay yourself."},
	}})
	state := NewSessionState()

	turn(t, m, state, "tell me about deductibles please")
	turn(t, m, state, "what is the deductible for glass damage")
	turn(t, m, state, "what is excluded exactly")
	turn(t, m, state, "that is wrong and useless")

	res := turn(t, m, state, "this is irrelevant")
	assert.Contains(t, res.ResponseText, "type human")
}

func TestDocQANoDocsFallsBackToHuman(t *testing.T) {
	m := newTestManager(&fakeRetriever{})
	state := NewSessionState()

	// Second turn so the website suffix from turn one doesn't apply
	turn(t, m, state, "tell me about something obscure")
	res := turn(t, m, state, "and another obscure thing")
	assert.Contains(t, res.ResponseText, "human agent")
}

func TestRetrieverErrorPropagates(t *testing.T) {
	m := newTestManager(&fakeRetriever{err: errors.New("index offline")})
	state := NewSessionState()

	_, err := m.HandleTurn("tell me about exclusions", state)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "index offline")
}

func TestPricingQuestionForcesQuoteFlow(t *testing.T) {
	f := &fakeRetriever{docs: []rag.DocChunk{
		{DocID: "faq.md", Text: "Your premium is calculated from the vehicle age and engine power."},
	}}
	m := newTestManager(f)
	state := NewSessionState()

	res := turn(t, m, state, "explain your prcing")
	assert.Contains(t, res.ResponseText, "Sure — I can estimate pricing.")
	assert.Contains(t, res.ResponseText, "vehicle year")

	// The parked intent routes the next turn straight into the quote flow
	res = turn(t, m, state, "2012")
	assert.Contains(t, res.ResponseText, "horsepower")
	assert.False(t, state.Slots.Has(slotForceIntent))
}
