package nlu

import (
	"regexp"
	"strconv"
	"strings"
)

// Entities holds everything one utterance yielded. Pointer fields are nil
// when the corresponding rule did not fire; the orchestrator decides how
// discovered values merge into session slots.
type Entities struct {
	CoverageLevel string
	Horsepower    *int
	EngineSizeL   *float64
	City          string
	VehicleYear   *int
	VehicleAge    *int
}

// coverageAliases maps each coverage level to the words callers use for it.
// Scan order is fixed: basic, then standard, then premium — first match wins.
var coverageAliases = []struct {
	level   string
	aliases []string
}{
	{"basic", []string{"basic", "minimum", "liability", "low", "budget", "economy", "starter", "cheapest"}},
	{"standard", []string{"standard", "normal", "regular", "medium", "typical", "mid-tier", "moderate"}},
	{"premium", []string{"premium", "full", "comprehensive", "high", "best", "top-tier", "ultimate"}},
}

var (
	horsepowerRe = regexp.MustCompile(`(?i)(\d+)\s*(?:hp|horsepower)`)
	engineSizeRe = regexp.MustCompile(`\b(?:engine\s*size\s*(?:is|=)\s*)?(\d\.\d)\s*(?:l|litre|liter)?\b`)
	clauseEndRe  = regexp.MustCompile(`[,.!?;]`)
	yearRe       = regexp.MustCompile(`\b(19[5-9]\d|20[0-2]\d)\b`)
	bareNumberRe = regexp.MustCompile(`^\s*(\d{1,4})\s*$`)
	vehicleAgeRe = regexp.MustCompile(`(?i)(\d+)\s*(?:year|yr)s?\s*(?:old)?`)
)

func matchInt(re *regexp.Regexp, text string) *int {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	return &n
}

// ExtractEntities pulls structured values out of a raw utterance. The
// rules are independent; several may fire for a single utterance. It never
// touches existing slots — merging is the orchestrator's call.
func ExtractEntities(userText string) Entities {
	t := strings.TrimSpace(userText)
	tl := strings.ToLower(t)

	var out Entities

	for _, c := range coverageAliases {
		for _, alias := range c.aliases {
			if strings.Contains(tl, alias) {
				out.CoverageLevel = c.level
				break
			}
		}
		if out.CoverageLevel != "" {
			break
		}
	}

	out.Horsepower = matchInt(horsepowerRe, t)

	if m := engineSizeRe.FindStringSubmatch(tl); m != nil {
		if es, err := strconv.ParseFloat(m[1], 64); err == nil && es >= 0.8 && es <= 8.0 {
			out.EngineSizeL = &es
		}
	}

	out.City = ExtractCity(t)

	out.VehicleYear = matchInt(yearRe, tl)

	// A bare number is ambiguous: a plausible model year reads as a year,
	// a small one as a vehicle age.
	if n := matchInt(bareNumberRe, t); n != nil {
		switch {
		case *n >= 1950 && *n <= 2025:
			out.VehicleYear = n
		case *n > 0 && *n <= 60:
			out.VehicleAge = n
		}
	}

	if age := matchInt(vehicleAgeRe, t); age != nil {
		out.VehicleAge = age
	}

	return out
}
