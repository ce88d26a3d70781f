package main

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/poiesic/propmatch/core"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// title is the one-line label of a property.
func title(p *core.PropertyProfile) string {
	name := p.Name
	if name == "" {
		name = p.PropertyType
	}
	if name == "" {
		name = "Unnamed property"
	}
	if p.Location != "" {
		name += ", " + p.Location
	}
	return name
}

func printOutcome(w io.Writer, outcome *core.SearchOutcome) {
	if !outcome.Matched() {
		nm := outcome.NoMatch
		if nm == nil {
			fmt.Fprintln(w, core.NoMatchMessage)
			return
		}
		fmt.Fprintln(w, nm.Message)
		if len(nm.Suggestions) > 0 {
			fmt.Fprintln(w, "\nSuggestions:")
			for _, s := range nm.Suggestions {
				fmt.Fprintf(w, "  - %s\n", s)
			}
		}
		if len(nm.Alternatives) > 0 {
			fmt.Fprintln(w, "\nTry instead:")
			for _, s := range nm.Alternatives {
				fmt.Fprintf(w, "  - %s\n", s)
			}
		}
		return
	}

	fmt.Fprintf(w, "Top %d matches for %q\n", len(outcome.Results), outcome.Query)
	for i, r := range outcome.Results {
		fmt.Fprintf(w, "\n%d. %s [%s]\n", i+1, title(r.Profile), r.PropertyID)
		if r.Profile.Price != "" {
			fmt.Fprintf(w, "   Price: %s\n", r.Profile.Price)
		}
		fmt.Fprintf(w, "   Score: %.2f (%.1f%% of this result set), features matched: %d%%\n",
			r.RawScore, r.NormalizedScore*100, r.FeatureMatchPercentage)
		if len(r.MatchedFeatures) > 0 {
			fmt.Fprintf(w, "   Has: %s\n", strings.Join(r.MatchedFeatures, ", "))
		}
		if len(r.MissingFeatures) > 0 {
			fmt.Fprintf(w, "   Missing: %s\n", strings.Join(r.MissingFeatures, ", "))
		}
	}
}

func printProfile(w io.Writer, p *core.PropertyProfile) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	row := func(label, value string) {
		if value != "" {
			fmt.Fprintf(tw, "%s:\t%s\n", label, value)
		}
	}
	row("ID", string(p.ID))
	row("Name", p.Name)
	row("Type", p.PropertyType)
	row("Location", p.Location)
	row("Price", p.Price)
	row("Summary", p.Summary)
	row("Rooms", strings.Join(p.Rooms, ", "))
	row("Appliances", appliances(p.Appliances))
	row("Features", strings.Join(p.Features, ", "))
	row("Amenities", strings.Join(p.Amenities, ", "))
	row("Layout", p.Layout)
	row("Condition", p.Condition)
	row("Rules", p.Rules)
	row("Contact", p.Contact)
	row("Notes", p.AdditionalInfo)
	row("Sources", fmt.Sprint(p.SourceCount))
	if !p.UpdatedAt.IsZero() {
		row("Updated", p.UpdatedAt.Local().Format(time.DateTime))
	}
	tw.Flush()
}

func appliances(counts map[string]int) string {
	parts := make([]string, 0, len(counts))
	for _, name := range slices.Sorted(maps.Keys(counts)) {
		if counts[name] == 1 {
			parts = append(parts, name)
		} else {
			parts = append(parts, fmt.Sprintf("%s x%d", name, counts[name]))
		}
	}
	return strings.Join(parts, ", ")
}

func printList(w io.Writer, profiles []*core.PropertyProfile) {
	if len(profiles) == 0 {
		fmt.Fprintln(w, "No properties registered.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPROPERTY\tPRICE")
	for _, p := range profiles {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", p.ID, title(p), p.Price)
	}
	tw.Flush()
}

func printHistory(w io.Writer, entries []core.SearchLogEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No searches recorded.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "WHEN\tRESULTS\tQUERY")
	for _, e := range entries {
		results := fmt.Sprint(e.Results)
		if e.NoMatch {
			results = "none"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Timestamp.Local().Format(time.DateTime), results, e.Query)
	}
	tw.Flush()
}
