package core

import "time"

// MatchResult is one ranked property in a search outcome.
type MatchResult struct {
	PropertyID             PropertyID
	Profile                *PropertyProfile
	RawScore               float64
	NormalizedScore        float64
	MatchedFeatures        []string
	MissingFeatures        []string
	FeatureMatchPercentage int
	Distance               float64 // retrieval distance, lower is more similar
}

// NoMatchMessage is shown when nothing qualifies.
const NoMatchMessage = "No properties found matching your requirements."

// NoMatch explains an empty outcome and suggests how to relax the query.
type NoMatch struct {
	Message     string
	Suggestions []string

	// Alternatives are broader searches worth trying instead.
	Alternatives []string
}

// SearchOutcome is either a non-empty ranked list or a NoMatch payload.
type SearchOutcome struct {
	Query    string
	Criteria SearchCriteria
	Results  []MatchResult
	NoMatch  *NoMatch
}

// Matched reports whether the outcome carries results.
func (o *SearchOutcome) Matched() bool {
	return o.NoMatch == nil && len(o.Results) > 0
}

// SearchLogEntry records one executed search.
type SearchLogEntry struct {
	Query     string
	Results   int
	NoMatch   bool
	Timestamp time.Time
}
