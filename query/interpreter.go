// Package query turns free-text property searches into structured criteria.
//
// Interpretation is a set of independent heuristics: a budget parser that
// understands k/lakh/crore units and range phrasing, a property type parser,
// a location phrase extractor and a requirement scanner backed by the
// amenity vocabulary. Clauses none of them recognize are dropped, so
// interpretation never fails.
package query

import (
	"log/slog"
	"strings"

	"github.com/poiesic/propmatch/core"
	"github.com/poiesic/propmatch/vocab"
)

// Interpreter parses query text into SearchCriteria.
type Interpreter struct {
	vocabulary *vocab.Vocabulary
	logger     *slog.Logger
}

// Option configures an Interpreter.
type Option func(*Interpreter) error

// WithVocabulary replaces the built-in amenity vocabulary.
func WithVocabulary(v *vocab.Vocabulary) Option {
	return func(in *Interpreter) error {
		if v != nil {
			in.vocabulary = v
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(in *Interpreter) error {
		if logger == nil {
			logger = slog.Default()
		}
		in.logger = logger
		return nil
	}
}

// NewInterpreter creates an interpreter.
func NewInterpreter(opts ...Option) (*Interpreter, error) {
	in := &Interpreter{
		vocabulary: vocab.Default(),
		logger:     slog.Default().With("component", "query-interpreter"),
	}
	for _, opt := range opts {
		if err := opt(in); err != nil {
			return nil, err
		}
	}
	return in, nil
}

// Interpret parses text. It never fails: unrecognized clauses are omitted.
func (in *Interpreter) Interpret(text string) core.SearchCriteria {
	criteria := core.SearchCriteria{
		Query:         strings.TrimSpace(text),
		LocationTerms: ParseLocationTerms(text),
		PropertyType:  ParsePropertyType(text),
		PriceBound:    ParsePriceBound(text),
		Requirements:  ParseRequirements(text, in.vocabulary),
	}

	in.logger.Debug("interpreted query",
		"query", criteria.Query,
		"locations", criteria.LocationTerms,
		"type", criteria.PropertyType,
		"hasBudget", criteria.PriceBound != nil,
		"requirements", len(criteria.Requirements))

	if criteria.PropertyType == "" && criteria.PriceBound == nil &&
		len(criteria.LocationTerms) == 0 && len(criteria.Requirements) == 0 {
		in.logger.Debug("query yielded no structured criteria", "query", criteria.Query)
	}
	return criteria
}

var defaultInterpreter = &Interpreter{vocabulary: vocab.Default(), logger: slog.Default()}

// Interpret parses text with the built-in vocabulary.
func Interpret(text string) core.SearchCriteria {
	return defaultInterpreter.Interpret(text)
}
