package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/propmatch/core"
)

func parsed(p core.SourceProfile) core.SourceResult {
	if p.Kind == 0 {
		p.Kind = core.SourceKindImage
	}
	return core.Parsed(p.Kind, &p)
}

func TestMerge_ApplianceConsensusTakesMinimum(t *testing.T) {
	merged := Merge(
		parsed(core.SourceProfile{Appliances: map[string]int{"ac": 2}}),
		parsed(core.SourceProfile{Appliances: map[string]int{"ac": 3}}),
		parsed(core.SourceProfile{Appliances: map[string]int{"ac": 2}}),
	)
	assert.Equal(t, map[string]int{"ac": 2}, merged.Appliances)
	assert.Equal(t, 3, merged.SourceCount)
}

func TestMerge_PartialApplianceObservationsAreSummed(t *testing.T) {
	merged := Merge(
		parsed(core.SourceProfile{Appliances: map[string]int{"ac": 1, "tv": 1}}),
		parsed(core.SourceProfile{Appliances: map[string]int{"ac": 2, "tv": 1}}),
		parsed(core.SourceProfile{Appliances: map[string]int{"tv": 2}}),
	)
	assert.Equal(t, map[string]int{"ac": 3, "tv": 1}, merged.Appliances)
}

func TestMerge_SingleSourceKeepsCounts(t *testing.T) {
	merged := Merge(parsed(core.SourceProfile{Appliances: map[string]int{"ac": 2, "fridge": 1}}))
	assert.Equal(t, map[string]int{"ac": 2, "fridge": 1}, merged.Appliances)
	assert.Equal(t, 1, merged.SourceCount)
}

func TestMerge_SkipsUnparsed(t *testing.T) {
	merged := Merge(
		parsed(core.SourceProfile{Appliances: map[string]int{"ac": 2}}),
		core.Unparsed(core.SourceKindVideo, "could not read"),
		parsed(core.SourceProfile{Appliances: map[string]int{"ac": 3}}),
	)
	assert.Equal(t, 2, merged.SourceCount)
	assert.Equal(t, map[string]int{"ac": 2}, merged.Appliances, "both parsed sources saw an ac")
}

func TestMerge_NothingParsed(t *testing.T) {
	merged := Merge(core.Unparsed(core.SourceKindText, "???"))
	require.NotNil(t, merged)
	assert.Zero(t, merged.SourceCount)
	assert.Empty(t, merged.Rooms)
	assert.Nil(t, merged.Appliances)
}

func TestMerge_SetsAreSortedUnions(t *testing.T) {
	merged := Merge(
		parsed(core.SourceProfile{Rooms: []string{"kitchen", "bedroom"}, Features: []string{"balcony"}}),
		parsed(core.SourceProfile{Rooms: []string{"bathroom", "kitchen"}, Amenities: []string{"gym", "lift"}}),
	)
	assert.Equal(t, []string{"bathroom", "bedroom", "kitchen"}, merged.Rooms)
	assert.Equal(t, []string{"balcony"}, merged.Features)
	assert.Equal(t, []string{"gym", "lift"}, merged.Amenities)
}

func TestMerge_UnionIsIdempotent(t *testing.T) {
	src := core.SourceProfile{
		Rooms:      []string{"kitchen", "bedroom"},
		Features:   []string{"balcony", "parking"},
		Amenities:  []string{"gym"},
		Appliances: map[string]int{"ac": 2},
	}
	once := Merge(parsed(src))
	twice := Merge(parsed(src), parsed(src))

	assert.Equal(t, once.Rooms, twice.Rooms)
	assert.Equal(t, once.Features, twice.Features)
	assert.Equal(t, once.Amenities, twice.Amenities)
	assert.Equal(t, once.Appliances, twice.Appliances)
}

func TestMerge_ScalarPolicy(t *testing.T) {
	merged := Merge(
		parsed(core.SourceProfile{
			Name:     "Lakeview",
			Layout:   "open plan",
			Rules:    "no pets",
			Price:    "20000",
			Location: "Indiranagar",
		}),
		parsed(core.SourceProfile{
			Name:      "Lakeview Residency",
			Layout:    "l-shaped",
			Condition: "freshly painted",
			Rules:     "no smoking",
			Contact:   "Ravi",
		}),
		parsed(core.SourceProfile{
			Summary:  "bright flat",
			Price:    "22000",
			Location: "",
		}),
	)

	// first non-empty value wins
	assert.Equal(t, "Lakeview", merged.Name)
	assert.Equal(t, "open plan", merged.Layout)
	assert.Equal(t, "freshly painted", merged.Condition)
	assert.Equal(t, "bright flat", merged.Summary)

	// last non-empty value wins
	assert.Equal(t, "no smoking", merged.Rules)
	assert.Equal(t, "22000", merged.Price)
	assert.Equal(t, "Indiranagar", merged.Location)
	assert.Equal(t, "Ravi", merged.Contact)
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	a := parsed(core.SourceProfile{Rooms: []string{"kitchen"}, Appliances: map[string]int{"ac": 1}})
	b := parsed(core.SourceProfile{Rooms: []string{"bedroom"}, Appliances: map[string]int{"ac": 4}})

	merged := Merge(a, b)
	merged.Rooms[0] = "changed"
	merged.Appliances["ac"] = 99

	assert.Equal(t, []string{"kitchen"}, a.Profile.Rooms)
	assert.Equal(t, []string{"bedroom"}, b.Profile.Rooms)
	assert.Equal(t, map[string]int{"ac": 1}, a.Profile.Appliances)
	assert.Equal(t, map[string]int{"ac": 4}, b.Profile.Appliances)
}

func TestMerge_Fingerprint(t *testing.T) {
	src := core.SourceProfile{Rooms: []string{"kitchen"}, Contact: "Ravi"}
	a := Merge(parsed(src))
	b := Merge(parsed(src))
	assert.Equal(t, a.Fingerprint, b.Fingerprint)
	assert.Equal(t, a.ComputeFingerprint(), a.Fingerprint)

	src.Contact = "Meera"
	c := Merge(parsed(src))
	assert.NotEqual(t, a.Fingerprint, c.Fingerprint)
}

func TestReconcileAppliances(t *testing.T) {
	tests := []struct {
		name    string
		sources []map[string]int
		want    map[string]int
	}{
		{"no sources", nil, nil},
		{"no appliances", []map[string]int{nil, {}}, nil},
		{"all agree on minimum", []map[string]int{{"ac": 2}, {"ac": 3}, {"ac": 2}}, map[string]int{"ac": 2}},
		{"partial sums", []map[string]int{{"ac": 1}, {"ac": 2}, {}}, map[string]int{"ac": 3}},
		{"mixed", []map[string]int{{"ac": 1, "tv": 1}, {"tv": 3}}, map[string]int{"ac": 1, "tv": 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sources := make([]*core.SourceProfile, 0, len(tt.sources))
			for _, a := range tt.sources {
				sources = append(sources, &core.SourceProfile{Appliances: a})
			}
			assert.Equal(t, tt.want, ReconcileAppliances(sources))
		})
	}
}
