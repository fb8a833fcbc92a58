// Package premium is the pricing collaborator: a deterministic, pure
// premium formula. The dialogue core never calls it until every required
// input is confirmed present.
package premium

import (
	"fmt"
	"math"
	"strings"
)

// CoverageLevel is one of the three products on offer.
type CoverageLevel string

const (
	CoverageBasic    CoverageLevel = "basic"
	CoverageStandard CoverageLevel = "standard"
	CoveragePremium  CoverageLevel = "premium"
)

// Levels lists the coverage levels in ascending price order.
var Levels = []CoverageLevel{CoverageBasic, CoverageStandard, CoveragePremium}

// Result is a monthly quote plus the factor breakdown behind it.
type Result struct {
	MonthlyEUR float64
	Breakdown  map[string]float64
}

var cityFactors = map[string]float64{
	"ljubljana": 1.20,
	"maribor":   1.15,
	"celje":     1.10,
	"koper":     1.05,
}

var coverageFactors = map[CoverageLevel]float64{
	CoverageBasic:    0.80,
	CoverageStandard: 0.90,
	CoveragePremium:  1.0,
}

// Calculate prices one month of coverage. Deterministic and side-effect
// free; the same inputs always produce the same quote.
func Calculate(vehicleAge, horsepower int, city string, level CoverageLevel) (Result, error) {
	if vehicleAge < 0 {
		return Result{}, fmt.Errorf("vehicle age must be non-negative, got %d", vehicleAge)
	}
	if horsepower < 0 {
		return Result{}, fmt.Errorf("horsepower must be non-negative, got %d", horsepower)
	}
	coverageFactor, ok := coverageFactors[level]
	if !ok {
		return Result{}, fmt.Errorf("unknown coverage level %q", level)
	}

	base := 25.0
	ageFactor := 1.0 + math.Max(0, float64(vehicleAge-3))*0.05  // +5% per year after 3
	powerFactor := 1.0 + math.Max(0, float64(horsepower-80))*0.01 // +1% per HP after 80

	cityFactor, ok := cityFactors[strings.ToLower(strings.TrimSpace(city))]
	if !ok {
		cityFactor = 1.04
	}

	monthly := base * ageFactor * powerFactor * cityFactor * coverageFactor

	return Result{
		MonthlyEUR: math.Round(monthly*100) / 100,
		Breakdown: map[string]float64{
			"base":            base,
			"age_factor":      ageFactor,
			"power_factor":    powerFactor,
			"city_factor":     cityFactor,
			"coverage_factor": coverageFactor,
		},
	}, nil
}

// EstimateHorsepower maps an engine size in liters to a horsepower
// estimate via a fixed step table.
func EstimateHorsepower(engineSizeL float64) (int, string) {
	const note = "estimated from engine size"
	switch {
	case engineSizeL <= 1.0:
		return 95, note
	case engineSizeL <= 1.2:
		return 105, note
	case engineSizeL <= 1.4:
		return 120, note
	case engineSizeL <= 1.6:
		return 135, note
	case engineSizeL <= 1.8:
		return 155, note
	case engineSizeL <= 2.0:
		return 180, note
	default:
		return 200, note
	}
}
