package query

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	roomCountPattern = regexp.MustCompile(`\b(\d+|one|two|three|four|five|six)\s*-?\s*(bhk|rk|bedrooms?|beds?|br)\b`)
	studioPattern    = regexp.MustCompile(`\bstudio\b`)
	apartmentPattern = regexp.MustCompile(`\bapartments?\b`)
	flatPattern      = regexp.MustCompile(`\bflats?\b`)
	housePattern     = regexp.MustCompile(`\b(?:houses?|villas?|bungalows?)\b`)
)

var numberWords = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5, "six": 6,
}

// ParsePropertyType extracts a normalized property type from text:
// "<n>bhk", "<n>rk", "studio", "apartment", "flat" or "house".
// It returns "" when the text names no type.
func ParsePropertyType(text string) string {
	lower := strings.ToLower(text)

	if m := roomCountPattern.FindStringSubmatch(lower); m != nil {
		n, ok := numberWords[m[1]]
		if !ok {
			n, _ = strconv.Atoi(m[1])
		}
		if n > 0 {
			if m[2] == "rk" {
				return strconv.Itoa(n) + "rk"
			}
			return strconv.Itoa(n) + "bhk"
		}
	}

	switch {
	case studioPattern.MatchString(lower):
		return "studio"
	case apartmentPattern.MatchString(lower):
		return "apartment"
	case flatPattern.MatchString(lower):
		return "flat"
	case housePattern.MatchString(lower):
		return "house"
	}
	return ""
}

// BedroomCount returns n for a "<n>bhk" or "<n>rk" type, or false for other types.
func BedroomCount(propertyType string) (int, bool) {
	t := strings.TrimSpace(strings.ToLower(propertyType))
	for _, suffix := range []string{"bhk", "rk"} {
		if strings.HasSuffix(t, suffix) {
			n, err := strconv.Atoi(strings.TrimSpace(strings.TrimSuffix(t, suffix)))
			if err == nil && n > 0 {
				return n, true
			}
		}
	}
	return 0, false
}
