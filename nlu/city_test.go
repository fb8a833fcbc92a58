package nlu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCityLjubljanaVariants(t *testing.T) {
	for _, variant := range []string{
		"ljubljana", "Ljubljana", "Ljublijana", "lubljana", "liubljana", "leobliana",
	} {
		assert.Equal(t, "Ljubljana", NormalizeCity(variant), "variant %q", variant)
	}

	// Substring rule
	assert.Equal(t, "Ljubljana", NormalizeCity("ljubljanaa"))
	// Fuzzy rule: close misspellings without the "ljubl" stem still match
	assert.Equal(t, "Ljubljana", NormalizeCity("lublana"))
}

func TestNormalizeCityKnownAndUnknown(t *testing.T) {
	assert.Equal(t, "Maribor", NormalizeCity("maribor"))
	assert.Equal(t, "Celje", NormalizeCity("  celje "))
	assert.Equal(t, "Koper", NormalizeCity("KOPER"))

	// Unknown cities pass through trimmed, not canonicalized
	assert.Equal(t, "Kranj", NormalizeCity(" Kranj "))
	assert.Equal(t, "", NormalizeCity("   "))
}

func TestExtractCity(t *testing.T) {
	assert.Equal(t, "Maribor", ExtractCity("I had an accident in Maribor today"))
	assert.Equal(t, "Celje", ExtractCity("it happened in Celje, near the station"))
	assert.Equal(t, "", ExtractCity("it happened in the morning"))
}

func TestExtractLocation(t *testing.T) {
	area, city := ExtractLocation("the crash was in Center, Ljubljana")
	assert.Equal(t, "Center", area)
	assert.Equal(t, "Ljubljana", city)

	area, city = ExtractLocation("I crashed in Maribor yesterday")
	assert.Equal(t, "", area)
	assert.Equal(t, "Maribor", city)

	area, city = ExtractLocation("nothing useful was said")
	assert.Equal(t, "", area)
	assert.Equal(t, "", city)
}
