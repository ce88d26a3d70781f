// Package merge reconciles the per-source extractions of one property into
// its canonical profile.
//
// Set-valued fields (rooms, features, amenities) are unioned. Appliance
// counts follow a consensus rule: when every parsed source reported an
// appliance the smallest count wins, otherwise the counts are added.
// Scalar fields split into two groups. Physical descriptions (layout,
// condition, name, summary, property type) keep the first non-empty value
// in source order. Administrative fields (rules, contact, location, price,
// additional info) keep the last non-empty value.
package merge

import (
	"maps"
	"slices"

	"github.com/poiesic/propmatch/core"
)

// Merge combines source results, in order, into a canonical profile.
// Unparsed results are skipped. The returned profile has no ID or
// timestamps; SourceCount and Fingerprint are set. Inputs are not modified.
func Merge(results ...core.SourceResult) *core.PropertyProfile {
	merged := &core.PropertyProfile{}

	var sources []*core.SourceProfile
	for _, r := range results {
		if r.IsParsed() {
			sources = append(sources, r.Profile)
		}
	}

	for _, src := range sources {
		merged.Rooms = append(merged.Rooms, src.Rooms...)
		merged.Features = append(merged.Features, src.Features...)
		merged.Amenities = append(merged.Amenities, src.Amenities...)

		firstWins(&merged.Layout, src.Layout)
		firstWins(&merged.Condition, src.Condition)
		firstWins(&merged.Name, src.Name)
		firstWins(&merged.Summary, src.Summary)
		firstWins(&merged.PropertyType, src.PropertyType)

		lastWins(&merged.Rules, src.Rules)
		lastWins(&merged.Contact, src.Contact)
		lastWins(&merged.Location, src.Location)
		lastWins(&merged.Price, src.Price)
		lastWins(&merged.AdditionalInfo, src.AdditionalInfo)
	}

	merged.Rooms = union(merged.Rooms)
	merged.Features = union(merged.Features)
	merged.Amenities = union(merged.Amenities)
	merged.Appliances = ReconcileAppliances(sources)
	merged.SourceCount = len(sources)
	merged.Fingerprint = merged.ComputeFingerprint()
	return merged
}

// ReconcileAppliances merges appliance counts across parsed sources.
// For each appliance, if the number of sources reporting it equals the
// number of sources, the minimum count is used; otherwise the counts are
// summed. A single source therefore keeps its own counts unchanged.
func ReconcileAppliances(sources []*core.SourceProfile) map[string]int {
	observed := make(map[string][]int)
	for _, src := range sources {
		for name, count := range src.Appliances {
			observed[name] = append(observed[name], count)
		}
	}
	if len(observed) == 0 {
		return nil
	}

	out := make(map[string]int, len(observed))
	for name, counts := range observed {
		if len(counts) == len(sources) {
			out[name] = slices.Min(counts)
			continue
		}
		sum := 0
		for _, c := range counts {
			sum += c
		}
		out[name] = sum
	}
	return out
}

func firstWins(dst *string, v string) {
	if *dst == "" && v != "" {
		*dst = v
	}
}

func lastWins(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// union returns the sorted distinct members of terms.
func union(terms []string) []string {
	if len(terms) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		if t != "" {
			set[t] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(set))
}
