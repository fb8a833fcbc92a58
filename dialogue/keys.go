package dialogue

// Slot keys. Presence of a key means the slot is filled; most writers are
// set-if-absent, the exceptions (extractor merge, intake flags, counters)
// force-set deliberately.
const (
	slotCoverageLevel = "coverage_level"
	slotHorsepower    = "horsepower"
	slotEngineSizeL   = "engine_size_l"
	slotCity          = "city"
	slotVehicleYear   = "vehicle_year"
	slotVehicleAge    = "vehicle_age"
	slotQuoteExpected = "quote_expected"

	slotInClaimIntake = "in_claim_intake"
	slotClaimExpected = "claim_expected"
	slotForceIntent   = "force_intent"
	slotClaimCounters = "claim_counters"
	slotClaimNumber   = "claim_number"

	slotInsuranceNumber     = "insurance_number"
	slotInjuries            = "injuries"
	slotAccidentCity        = "accident_city"
	slotAccidentArea        = "accident_area"
	slotAccidentDate        = "accident_date"
	slotAccidentDescription = "accident_description"
	slotPoliceReport        = "police_report"
	slotPoliceReportRef     = "police_report_ref"
	slotVehicleDrivable     = "vehicle_drivable"
	slotThirdPartyInvolved  = "third_party_involved"

	slotQATurns       = "qa_turns"
	slotQAFrustration = "qa_frustration"
)
