// Package scoring computes a raw relevance score for one candidate property
// against parsed search criteria, with an explanation of which requested
// features matched.
//
// Each requirement contributes weight × availability, where availability is
// the best vocabulary match over the profile's terms. Location, property
// type and budget add fixed bonuses. A strict budget violation, or an
// unwanted feature that is the whole point of the query, excludes the
// candidate instead of scoring it.
package scoring

import (
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/poiesic/propmatch/core"
	"github.com/poiesic/propmatch/query"
	"github.com/poiesic/propmatch/vocab"
)

// Exclusion says why a candidate was removed from consideration.
type Exclusion int

const (
	// ExclusionNone means the candidate is scored normally.
	ExclusionNone Exclusion = iota
	// ExclusionBudget means the price falls outside a strict budget.
	ExclusionBudget
	// ExclusionUnwantedFeature means the candidate has the feature whose
	// exclusion is the query's only clause.
	ExclusionUnwantedFeature
)

func (e Exclusion) String() string {
	switch e {
	case ExclusionNone:
		return "none"
	case ExclusionBudget:
		return "budget"
	case ExclusionUnwantedFeature:
		return "unwanted-feature"
	default:
		return "unknown(" + strconv.Itoa(int(e)) + ")"
	}
}

// Score is the outcome of scoring one candidate.
type Score struct {
	Raw       float64
	Excluded  Exclusion
	Matched   []string
	Missing   []string
	// MatchedWeight is Σ weight × availability over explicit requirements.
	MatchedWeight float64
	// TotalWeight is Σ weight over explicit requirements.
	TotalWeight float64
}

// IsExcluded reports whether the candidate was removed.
func (s Score) IsExcluded() bool {
	return s.Excluded != ExclusionNone
}

// Percentage is round(100 × MatchedWeight / TotalWeight), or 0 without requirements.
func (s Score) Percentage() int {
	if s.TotalWeight <= 0 {
		return 0
	}
	return int(math.Round(100 * s.MatchedWeight / s.TotalWeight))
}

// Scorer scores profiles against criteria. It holds no per-call state and
// is safe for concurrent use.
type Scorer struct {
	vocabulary *vocab.Vocabulary
	bonuses    Bonuses
	logger     *slog.Logger
}

// Option configures a Scorer.
type Option func(*Scorer) error

// WithVocabulary sets the vocabulary used to match requirements.
func WithVocabulary(v *vocab.Vocabulary) Option {
	return func(s *Scorer) error {
		if v != nil {
			s.vocabulary = v
		}
		return nil
	}
}

// WithBonuses replaces the default bonus table.
func WithBonuses(b Bonuses) Option {
	return func(s *Scorer) error {
		for _, v := range []float64{b.ExactLocation, b.NearbyLocation, b.ExactType,
			b.AdjacentSize, b.WithinBudget, b.NearBudget, b.NearBudgetTolerance} {
			if v < 0 {
				return ErrInvalidBonuses
			}
		}
		s.bonuses = b
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scorer) error {
		if logger != nil {
			s.logger = logger
		}
		return nil
	}
}

// NewScorer creates a scorer with the built-in vocabulary and default bonuses.
func NewScorer(opts ...Option) (*Scorer, error) {
	s := &Scorer{
		vocabulary: vocab.Default(),
		bonuses:    DefaultBonuses(),
		logger:     slog.Default().With("component", "scorer"),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Score evaluates profile against criteria. The profile is not modified.
func (s *Scorer) Score(profile *core.PropertyProfile, criteria *core.SearchCriteria) Score {
	var out Score

	price, hasPrice := query.ParseAmount(profile.Price)
	if bound := criteria.PriceBound; bound != nil && bound.Strict && hasPrice && !bound.Contains(price) {
		s.logger.Debug("excluded by budget", "id", profile.ID, "price", price)
		return Score{Excluded: ExclusionBudget}
	}

	terms := profile.Terms()
	for _, req := range criteria.Requirements {
		avail := s.availability(req.Name, terms)
		out.TotalWeight += req.Weight

		if req.Polarity == core.Excluded {
			if avail >= vocab.ScorePartial {
				if criteria.IsLoadBearing(req) {
					s.logger.Debug("excluded by unwanted feature", "id", profile.ID, "feature", req.Name)
					return Score{Excluded: ExclusionUnwantedFeature, Missing: []string{"no " + req.Name}, TotalWeight: req.Weight}
				}
				out.Raw -= req.Weight
				out.Missing = append(out.Missing, "no "+req.Name)
				continue
			}
			out.Raw += req.Weight
			out.MatchedWeight += req.Weight
			out.Matched = append(out.Matched, "no "+req.Name)
			continue
		}

		out.Raw += req.Weight * avail
		out.MatchedWeight += req.Weight * avail
		if avail > vocab.ScoreAbsent {
			out.Matched = append(out.Matched, req.Name)
		} else {
			out.Missing = append(out.Missing, req.Name)
		}
	}

	out.Raw += s.locationBonus(profile, criteria.LocationTerms)
	out.Raw += s.typeBonus(profile, criteria.PropertyType)
	if hasPrice {
		out.Raw += s.budgetBonus(price, criteria.PriceBound)
	}

	if out.Raw < 0 {
		out.Raw = 0
	}
	return out
}

// availability is the best match of the named feature over terms. Names
// unknown to the vocabulary only match a term containing them verbatim.
func (s *Scorer) availability(name string, terms []string) float64 {
	if f, ok := s.vocabulary.LookupByName(name); ok {
		return f.BestAvailability(terms)
	}
	n := vocab.Normalize(name)
	for _, t := range terms {
		if vocab.ContainsPhrase(vocab.Normalize(t), n) {
			return vocab.ScoreExact
		}
	}
	return vocab.ScoreAbsent
}

// locationBonus awards ExactLocation when a requested location phrase
// occurs in the profile's location, and NearbyLocation when only part of it
// does or it is mentioned elsewhere in the description.
func (s *Scorer) locationBonus(profile *core.PropertyProfile, locations []string) float64 {
	if len(locations) == 0 {
		return 0
	}
	location := vocab.Normalize(profile.Location)
	elsewhere := vocab.Normalize(profile.Summary + " " + profile.AdditionalInfo + " " + profile.Name)

	best := 0.0
	for _, loc := range locations {
		l := vocab.Normalize(loc)
		if l == "" {
			continue
		}
		switch {
		case vocab.ContainsPhrase(location, l):
			return s.bonuses.ExactLocation
		case vocab.ContainsPhrase(elsewhere, l) || sharesWord(location, l):
			best = s.bonuses.NearbyLocation
		}
	}
	return best
}

// sharesWord reports whether a significant word of phrase occurs in text.
func sharesWord(text, phrase string) bool {
	for _, w := range strings.Fields(phrase) {
		if len(w) >= 4 && vocab.ContainsPhrase(text, w) {
			return true
		}
	}
	return false
}

func (s *Scorer) typeBonus(profile *core.PropertyProfile, wanted string) float64 {
	if wanted == "" {
		return 0
	}
	have := CandidateType(profile)
	if have == "" {
		return 0
	}
	if sameType(have, wanted) {
		return s.bonuses.ExactType
	}
	hn, hok := query.BedroomCount(have)
	wn, wok := query.BedroomCount(wanted)
	if hok && wok && (hn-wn == 1 || wn-hn == 1) {
		return s.bonuses.AdjacentSize
	}
	return 0
}

func sameType(a, b string) bool {
	canon := func(t string) string {
		if t == "flat" {
			return "apartment"
		}
		return t
	}
	return canon(a) == canon(b)
}

// CandidateType derives a normalized property type for profile: its
// PropertyType, else a type named in its summary, layout or name, else
// "<n>bhk" from the number of bedrooms among its rooms.
func CandidateType(profile *core.PropertyProfile) string {
	if t := query.ParsePropertyType(profile.PropertyType); t != "" {
		return t
	}
	if t := query.ParsePropertyType(profile.Summary + " " + profile.Layout + " " + profile.Name); t != "" {
		return t
	}
	bedrooms := 0
	for _, room := range profile.Rooms {
		if strings.Contains(vocab.Normalize(room), "bedroom") {
			bedrooms++
		}
	}
	if bedrooms > 0 {
		return strconv.Itoa(bedrooms) + "bhk"
	}
	return ""
}

// budgetBonus awards WithinBudget inside the bound and NearBudget within
// the tolerance outside a non-strict one.
func (s *Scorer) budgetBonus(price float64, bound *core.PriceBound) float64 {
	if bound == nil || (bound.Min == nil && bound.Max == nil) {
		return 0
	}
	if bound.Contains(price) {
		return s.bonuses.WithinBudget
	}
	if bound.Strict {
		return 0
	}
	tol := s.bonuses.NearBudgetTolerance
	if bound.Max != nil && price > *bound.Max && price <= *bound.Max*(1+tol) {
		return s.bonuses.NearBudget
	}
	if bound.Min != nil && price < *bound.Min && price >= *bound.Min*(1-tol) {
		return s.bonuses.NearBudget
	}
	return 0
}
