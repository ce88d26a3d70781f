// Package ranking turns raw candidate scores into a ranked, normalized
// result list.
//
// Only candidates that earned something are ranked: Rank drops excluded
// candidates and those with a raw score of 0, even when fewer than n
// results remain. A zero-score candidate is never returned; when every
// candidate scores 0 the outcome is ErrNoMatch.
package ranking

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/poiesic/propmatch/core"
	"github.com/poiesic/propmatch/scoring"
)

// Epsilon is the smallest score sum treated as a match. Sums below it are
// floating-point residue and yield ErrNoMatch.
const Epsilon = 1e-9

// Normalize rescales raw so the values sum to 1. Empty input, all zeros or
// a sum below Epsilon return ErrNoMatch.
func Normalize(raw []float64) ([]float64, error) {
	var sum float64
	for i, r := range raw {
		if r < 0 || math.IsNaN(r) || math.IsInf(r, 0) {
			return nil, fmt.Errorf("%w: %v at %d", ErrInvalidScore, r, i)
		}
		sum += r
	}
	if len(raw) == 0 || sum < Epsilon {
		return nil, ErrNoMatch
	}

	out := make([]float64, len(raw))
	for i, r := range raw {
		out[i] = r / sum
	}
	return out, nil
}

// Entry is one scored candidate awaiting ranking.
type Entry struct {
	Profile  *core.PropertyProfile
	Score    scoring.Score
	Distance float64
}

// Rank orders entries by normalized score descending, then distance
// ascending, then property id, and keeps the first n (all when n <= 0).
// Excluded and zero-score entries are dropped. The kept results are
// normalized among themselves so their scores sum to 1.
func Rank(entries []Entry, n int) ([]core.MatchResult, error) {
	kept := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Profile == nil || e.Score.IsExcluded() || e.Score.Raw <= 0 {
			continue
		}
		kept = append(kept, e)
	}
	if len(kept) == 0 {
		return nil, ErrNoMatch
	}

	// Dividing by a shared positive sum preserves raw order, so sorting on
	// raw is sorting on normalized score.
	slices.SortStableFunc(kept, func(a, b Entry) int {
		if c := cmp.Compare(b.Score.Raw, a.Score.Raw); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Distance, b.Distance); c != 0 {
			return c
		}
		return cmp.Compare(a.Profile.ID, b.Profile.ID)
	})
	if n > 0 && len(kept) > n {
		kept = kept[:n]
	}

	raw := make([]float64, len(kept))
	for i, e := range kept {
		raw[i] = e.Score.Raw
	}
	normalized, err := Normalize(raw)
	if err != nil {
		return nil, err
	}

	results := make([]core.MatchResult, len(kept))
	for i, e := range kept {
		results[i] = core.MatchResult{
			PropertyID:             e.Profile.ID,
			Profile:                e.Profile,
			RawScore:               e.Score.Raw,
			NormalizedScore:        normalized[i],
			MatchedFeatures:        slices.Clone(e.Score.Matched),
			MissingFeatures:        slices.Clone(e.Score.Missing),
			FeatureMatchPercentage: e.Score.Percentage(),
			Distance:               e.Distance,
		}
	}
	return results, nil
}
