package query

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/poiesic/propmatch/core"
)

var (
	amountPattern = regexp.MustCompile(`(?:rs\.?|inr|₹)?\s*(\d{1,3}(?:,\d{2,3})+|\d+(?:\.\d+)?)\s*(k|thousand|lakhs?|lacs?|crores?|cr)?\b`)

	// a number directly followed by one of these measures size, not money
	sizeUnitPattern = regexp.MustCompile(`^\s*-?\s*(?:bhk|rk|bed|beds|bedroom|bedrooms|bath|baths|bathroom|bathrooms|sq|sqft|sft|ft|feet|floor|floors|km|kms|min|mins|minutes|yrs|years|months|people|persons)\b`)

	upperCue  = regexp.MustCompile(`(?:^|\W)(?:under|below|less than|within|upto|up to|max|maximum|not more than|no more than|not exceeding|<)\s*$`)
	lowerCue  = regexp.MustCompile(`(?:^|\W)(?:above|over|more than|min|minimum|at least|starting|starting from|>)\s*$`)
	budgetCue = regexp.MustCompile(`(?:^|\W)(?:budget|rent|price|cost|around|about|approx|approximately)\s*(?:of|is|:)?\s*$`)
	rangeJoin = regexp.MustCompile(`^\s*(?:-|–|to|and)\s*$`)

	// a bare year after one of these, or before "built", dates the property
	yearBefore = regexp.MustCompile(`(?:^|\W)(?:in|since|built|after)\s*$`)
	yearAfter  = regexp.MustCompile(`^\s*built\b`)
)

var unitMultipliers = map[string]float64{
	"k":        1e3,
	"thousand": 1e3,
	"lakh":     1e5,
	"lakhs":    1e5,
	"lac":      1e5,
	"lacs":     1e5,
	"cr":       1e7,
	"crore":    1e7,
	"crores":   1e7,
}

// amount is one monetary figure found in a query.
type amount struct {
	start, end int
	number     float64
	unit       float64 // 1 when no unit was written
	hasUnit    bool
}

func (a amount) value() float64 {
	return roundCents(a.number * a.unit)
}

// findAmounts returns every monetary figure in text, skipping numbers that
// measure size ("2 bhk", "1200 sqft"). text must be lowercase.
func findAmounts(text string) []amount {
	var out []amount
	for _, m := range amountPattern.FindAllStringSubmatchIndex(text, -1) {
		if sizeUnitPattern.MatchString(text[m[1]:]) {
			continue
		}
		number, err := strconv.ParseFloat(strings.ReplaceAll(text[m[2]:m[3]], ",", ""), 64)
		if err != nil {
			continue
		}
		a := amount{start: m[0], end: m[1], number: number, unit: 1}
		if m[4] >= 0 {
			a.unit = unitMultipliers[text[m[4]:m[5]]]
			a.hasUnit = true
		}
		currency := strings.TrimSpace(text[m[0]:m[2]]) != ""
		if !a.hasUnit && !currency && isYear(text[m[2]:m[3]]) &&
			(yearBefore.MatchString(text[:m[0]]) || yearAfter.MatchString(text[m[1]:])) {
			continue
		}
		out = append(out, a)
	}
	return out
}

func isYear(digits string) bool {
	if len(digits) != 4 {
		return false
	}
	n, err := strconv.Atoi(digits)
	return err == nil && n >= 1900 && n <= 2100
}

// rangeOf pairs two figures joined by "-", "to" or "and". A unit written on
// one side carries to the other only when it is trailing, as in "15-25k",
// and keeps the range ordered. "1 lakh and 2 parking" is not a range.
func rangeOf(a, b amount) (lo, hi float64, ok bool) {
	switch {
	case !a.hasUnit && b.hasUnit:
		if a.number > b.number {
			return 0, 0, false
		}
		a.unit = b.unit
	case a.hasUnit && !b.hasUnit:
		if b.value() < a.value() {
			return 0, 0, false
		}
	}
	lo, hi = a.value(), b.value()
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo, hi, true
}

// ParseAmount reads the first monetary figure in text, honouring k, lakh and
// crore units. It is used for both query text and stored price strings such
// as "₹20,000 per month".
func ParseAmount(text string) (float64, bool) {
	amounts := findAmounts(strings.ToLower(text))
	if len(amounts) == 0 {
		return 0, false
	}
	return amounts[0].value(), true
}

// ParsePriceBound extracts a budget from query text, or nil when the query
// states none.
//
//   - "between A and B", "A-B", "A to B", "A and B": range, min is the lesser
//   - "under X", "below X", "upto X": max X, strict
//   - "above X", "over X", "at least X": min X
//   - a lone figure with a unit, or >= 1000, or after "budget"/"rent": max X
//
// A year such as "built in 2020" is not a figure.
func ParsePriceBound(text string) *core.PriceBound {
	lower := strings.ToLower(text)
	amounts := findAmounts(lower)
	if len(amounts) == 0 {
		return nil
	}

	var bound core.PriceBound
	set := false
	setMin := func(v float64) {
		if bound.Min == nil {
			bound.Min = core.Float64(v)
			set = true
		}
	}
	setMax := func(v float64) {
		if bound.Max == nil {
			bound.Max = core.Float64(v)
			set = true
		}
	}

	for i := 0; i < len(amounts); i++ {
		a := amounts[i]
		before := lower[:a.start]

		if i+1 < len(amounts) && rangeJoin.MatchString(lower[a.end:amounts[i+1].start]) {
			if lo, hi, ok := rangeOf(a, amounts[i+1]); ok {
				setMin(lo)
				setMax(hi)
				i++
				continue
			}
		}

		switch {
		case upperCue.MatchString(before):
			setMax(a.value())
			bound.Strict = true
		case lowerCue.MatchString(before):
			setMin(a.value())
		case budgetCue.MatchString(before) || a.hasUnit || a.value() >= 1000:
			setMax(a.value())
		}
	}

	if !set {
		return nil
	}
	if bound.Min != nil && bound.Max != nil && *bound.Min > *bound.Max {
		bound.Min, bound.Max = bound.Max, bound.Min
	}
	return &bound
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
