package search

import (
	"fmt"
	"strings"

	"github.com/poiesic/propmatch/core"
)

// exampleQueries are offered when the query asked for nothing recognizable.
var exampleQueries = []string{
	"apartment with balcony",
	"house with parking",
	"no AC no elevator",
	"furnished flat",
}

// noMatch builds the payload for an empty outcome. Each suggestion targets a
// part of the criteria that could be relaxed.
func noMatch(criteria *core.SearchCriteria) *core.NoMatch {
	nm := &core.NoMatch{Message: core.NoMatchMessage}

	required := criteria.RequirementCount(core.Required)
	if required > 1 {
		nm.Suggestions = append(nm.Suggestions, "Consider reducing the number of required features")
		nm.Alternatives = append(nm.Alternatives,
			fmt.Sprintf("Properties with %d out of %d requested features", required-1, required))
	}
	if len(criteria.LocationTerms) > 0 {
		nm.Suggestions = append(nm.Suggestions, "Expand location search radius")
		nm.Alternatives = append(nm.Alternatives,
			"Similar properties near "+strings.Join(criteria.LocationTerms, ", "))
	}
	if criteria.PriceBound != nil {
		nm.Suggestions = append(nm.Suggestions, "Adjust budget range")
	}
	if criteria.PropertyType != "" {
		nm.Suggestions = append(nm.Suggestions, "Try a different property type or size")
	}
	if criteria.RequirementCount(core.Excluded) > 0 {
		nm.Suggestions = append(nm.Suggestions, "Allow some of the features you excluded")
	}
	if len(criteria.Requirements) > 0 {
		nm.Suggestions = append(nm.Suggestions, "Try alternative feature combinations")
	}

	if len(nm.Suggestions) == 0 {
		nm.Suggestions = []string{"Describe the location, size, budget or features you need"}
		nm.Alternatives = append(nm.Alternatives, exampleQueries...)
	}
	return nm
}
