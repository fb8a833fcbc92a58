package premium

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateKnownTuple(t *testing.T) {
	// base 25 * age 1.65 * power 1.40 * ljubljana 1.20 * basic 0.80
	res, err := Calculate(16, 120, "Ljubljana", CoverageBasic)
	require.NoError(t, err)
	assert.Equal(t, 55.44, res.MonthlyEUR)

	assert.Equal(t, 25.0, res.Breakdown["base"])
	assert.InDelta(t, 1.65, res.Breakdown["age_factor"], 1e-9)
	assert.InDelta(t, 1.4, res.Breakdown["power_factor"], 1e-9)
	assert.InDelta(t, 1.2, res.Breakdown["city_factor"], 1e-9)
	assert.InDelta(t, 0.8, res.Breakdown["coverage_factor"], 1e-9)
}

func TestCalculateFloors(t *testing.T) {
	// Vehicles newer than 3 years and weaker than 80 HP pay no surcharge
	young, err := Calculate(0, 60, "Koper", CoverageStandard)
	require.NoError(t, err)
	three, err := Calculate(3, 80, "Koper", CoverageStandard)
	require.NoError(t, err)
	assert.Equal(t, young.MonthlyEUR, three.MonthlyEUR)
}

func TestCalculateCityFactors(t *testing.T) {
	lj, err := Calculate(5, 100, "ljubljana", CoveragePremium)
	require.NoError(t, err)
	mb, err := Calculate(5, 100, "Maribor", CoveragePremium)
	require.NoError(t, err)
	other, err := Calculate(5, 100, "Kranj", CoveragePremium)
	require.NoError(t, err)

	assert.Greater(t, lj.MonthlyEUR, mb.MonthlyEUR)
	assert.Greater(t, mb.MonthlyEUR, other.MonthlyEUR)
}

func TestCalculateCoverageOrdering(t *testing.T) {
	var prev float64
	for i, level := range Levels {
		res, err := Calculate(10, 150, "Celje", level)
		require.NoError(t, err)
		if i > 0 {
			assert.Greater(t, res.MonthlyEUR, prev, "level %s should cost more than the previous one", level)
		}
		prev = res.MonthlyEUR
	}
}

func TestCalculateInvalidInput(t *testing.T) {
	_, err := Calculate(-1, 100, "Celje", CoverageBasic)
	assert.Error(t, err)

	_, err = Calculate(5, -10, "Celje", CoverageBasic)
	assert.Error(t, err)

	_, err = Calculate(5, 100, "Celje", CoverageLevel("platinum"))
	assert.Error(t, err)
}

func TestEstimateHorsepower(t *testing.T) {
	tests := []struct {
		engine float64
		want   int
	}{
		{1.0, 95},
		{1.2, 105},
		{1.4, 120},
		{1.6, 135},
		{1.8, 155},
		{2.0, 180},
		{3.0, 200},
	}
	for _, tt := range tests {
		hp, note := EstimateHorsepower(tt.engine)
		assert.Equal(t, tt.want, hp, "engine %.1f", tt.engine)
		assert.NotEmpty(t, note)
	}
}
