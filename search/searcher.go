package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/propmatch/core"
	"github.com/poiesic/propmatch/query"
	"github.com/poiesic/propmatch/ranking"
	"github.com/poiesic/propmatch/retrieval"
	"github.com/poiesic/propmatch/scoring"
	"github.com/poiesic/propmatch/storage"
)

const (
	// DefaultResults is the number of results returned when the caller asks for none.
	DefaultResults = 5
	// DefaultCandidateMultiplier is how many candidates are retrieved per requested result.
	DefaultCandidateMultiplier = 2
)

// Searcher runs free-text queries against the property catalogue.
type Searcher struct {
	retriever   *retrieval.Retriever
	interpreter *query.Interpreter
	scorer      *scoring.Scorer
	history     storage.SearchLogRepository
	multiplier  int
	logger      *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithInterpreter replaces the default query interpreter.
func WithInterpreter(in *query.Interpreter) Option {
	return func(s *Searcher) error {
		if in != nil {
			s.interpreter = in
		}
		return nil
	}
}

// WithScorer replaces the default feature scorer.
func WithScorer(sc *scoring.Scorer) Option {
	return func(s *Searcher) error {
		if sc != nil {
			s.scorer = sc
		}
		return nil
	}
}

// WithHistory records every completed search in repo.
func WithHistory(repo storage.SearchLogRepository) Option {
	return func(s *Searcher) error {
		s.history = repo
		return nil
	}
}

// WithCandidateMultiplier sets how many candidates are retrieved per requested result.
// Default is DefaultCandidateMultiplier.
func WithCandidateMultiplier(m int) Option {
	return func(s *Searcher) error {
		if m < 1 {
			return ErrInvalidMultiplier
		}
		s.multiplier = m
		return nil
	}
}

// NewSearcher creates a new searcher over retriever.
func NewSearcher(retriever *retrieval.Retriever, opts ...Option) (*Searcher, error) {
	if retriever == nil {
		return nil, ErrRetrieverRequired
	}

	interpreter, err := query.NewInterpreter()
	if err != nil {
		return nil, err
	}
	scorer, err := scoring.NewScorer()
	if err != nil {
		return nil, err
	}

	s := &Searcher{
		retriever:   retriever,
		interpreter: interpreter,
		scorer:      scorer,
		multiplier:  DefaultCandidateMultiplier,
		logger:      slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Search finds the n best properties for text. n <= 0 means DefaultResults.
// An outcome with a NoMatch payload is not an error; errors are returned
// only when retrieval fails for good.
func (s *Searcher) Search(ctx context.Context, text string, n int) (*core.SearchOutcome, error) {
	return s.SearchWithMonitor(ctx, text, n, nil)
}

// SearchWithMonitor is Search with a monitor that receives callbacks at each
// stage of the pipeline.
func (s *Searcher) SearchWithMonitor(ctx context.Context, text string, n int, monitor SearchMonitor) (*core.SearchOutcome, error) {
	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	monitor.Start(text)

	// 1. Interpret the query
	criteria := s.interpreter.Interpret(text)
	monitor.AfterInterpretation(criteria)

	return s.run(ctx, criteria, n, monitor)
}

// SearchCriteria runs the pipeline for criteria built by the caller instead
// of interpreted from text. criteria.Query is the retrieval text.
func (s *Searcher) SearchCriteria(ctx context.Context, criteria core.SearchCriteria, n int) (*core.SearchOutcome, error) {
	if err := core.ValidateCriteria(&criteria); err != nil {
		return nil, err
	}
	return s.run(ctx, criteria, n, &noopMonitor{})
}

func (s *Searcher) run(ctx context.Context, criteria core.SearchCriteria, n int, monitor SearchMonitor) (*core.SearchOutcome, error) {
	if n <= 0 {
		n = DefaultResults
	}
	text := criteria.Query

	outcome := &core.SearchOutcome{Query: text, Criteria: criteria}
	if strings.TrimSpace(text) == "" {
		outcome.NoMatch = noMatch(&criteria)
		s.finish(ctx, outcome, monitor)
		return outcome, nil
	}

	// 2. Retrieve candidates
	candidates, err := s.retriever.Retrieve(ctx, text, n*s.multiplier)
	if err != nil {
		s.logger.Error("error retrieving candidates", "query", text, "err", err)
		return nil, fmt.Errorf("search %q: %w", text, err)
	}
	monitor.AfterRetrieval(candidates)

	// 3. Score each candidate
	entries := make([]ranking.Entry, 0, len(candidates))
	for _, c := range candidates {
		score := s.scorer.Score(c.Profile, &criteria)
		if score.IsExcluded() {
			monitor.Excluded(c.Profile, score.Excluded)
			continue
		}
		monitor.Scored(c.Profile, score)
		entries = append(entries, ranking.Entry{Profile: c.Profile, Score: score, Distance: c.Distance})
	}

	// 4. Normalize and rank
	results, err := ranking.Rank(entries, n)
	switch {
	case errors.Is(err, ranking.ErrNoMatch):
		s.logger.Debug("no candidate qualified", "query", text, "candidates", len(candidates))
		outcome.NoMatch = noMatch(&criteria)
	case err != nil:
		return nil, fmt.Errorf("search %q: %w", text, err)
	default:
		outcome.Results = results
	}

	s.finish(ctx, outcome, monitor)
	return outcome, nil
}

func (s *Searcher) finish(ctx context.Context, outcome *core.SearchOutcome, monitor SearchMonitor) {
	monitor.Finish(outcome)
	if s.history == nil {
		return
	}
	entry := core.SearchLogEntry{
		Query:     outcome.Query,
		Results:   len(outcome.Results),
		NoMatch:   outcome.NoMatch != nil,
		Timestamp: time.Now().UTC(),
	}
	if err := s.history.RecordSearch(ctx, entry); err != nil {
		s.logger.Warn("failed to record search", "query", outcome.Query, "err", err)
	}
}
