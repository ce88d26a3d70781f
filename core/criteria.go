package core

import "strconv"

// Polarity says whether a requirement is wanted or explicitly unwanted.
type Polarity int

const (
	// Required marks a feature the user wants.
	Required Polarity = iota + 1
	// Excluded marks a feature the user explicitly does not want.
	Excluded
)

func (p Polarity) String() string {
	switch p {
	case Required:
		return "required"
	case Excluded:
		return "excluded"
	default:
		return "unknown(" + strconv.Itoa(int(p)) + ")"
	}
}

// Requirement weights.
const (
	WeightImplied    = 1.0
	WeightStated     = 2.0
	WeightEmphasized = 3.0
)

// Requirement is one feature the query asks for (or against).
type Requirement struct {
	Name     string
	Weight   float64
	Polarity Polarity
}

// PriceBound is an optional budget. A nil Min or Max means unbounded on that side.
type PriceBound struct {
	Min    *float64
	Max    *float64
	Strict bool
}

// Contains reports whether price lies within [Min, Max].
func (b *PriceBound) Contains(price float64) bool {
	if b == nil {
		return true
	}
	if b.Min != nil && price < *b.Min {
		return false
	}
	if b.Max != nil && price > *b.Max {
		return false
	}
	return true
}

// SearchCriteria is the structured interpretation of a free-text query.
type SearchCriteria struct {
	Query         string
	LocationTerms []string
	PropertyType  string // "" when the query names no type
	PriceBound    *PriceBound
	Requirements  []Requirement
}

// RequirementCount returns the number of requirements with the given polarity.
func (c *SearchCriteria) RequirementCount(polarity Polarity) int {
	n := 0
	for _, r := range c.Requirements {
		if r.Polarity == polarity {
			n++
		}
	}
	return n
}

// IsLoadBearing reports whether excluding req is the only thing the query asks
// for, in which case candidates that have the feature are dropped outright.
// Any other clause (location, type, budget or another requirement) leaves
// the exclusion as a penalty.
func (c *SearchCriteria) IsLoadBearing(req Requirement) bool {
	return req.Polarity == Excluded &&
		len(c.Requirements) == 1 &&
		len(c.LocationTerms) == 0 &&
		c.PropertyType == "" &&
		c.PriceBound == nil
}

// Float64 returns a pointer to v, for building price bounds.
func Float64(v float64) *float64 {
	return &v
}
