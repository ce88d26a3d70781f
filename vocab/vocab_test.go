package vocab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"A/C", "a c"},
		{"  Wi-Fi  ", "wi fi"},
		{"Air_Conditioner", "air conditioner"},
		{"24x7 Security!", "24x7 security"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), "Normalize(%q)", tt.in)
	}
}

func TestContainsPhrase(t *testing.T) {
	assert.True(t, ContainsPhrase("split ac unit", "ac"))
	assert.True(t, ContainsPhrase("ac", "ac"))
	assert.False(t, ContainsPhrase("vacuum cleaner", "ac"))
	assert.False(t, ContainsPhrase("parking", "park"))
	assert.False(t, ContainsPhrase("anything", ""))
}

func TestLookup(t *testing.T) {
	v := Default()

	tests := []struct {
		phrase string
		want   string
	}{
		{"AC", "AC"},
		{"air conditioner", "AC"},
		{"A/C", "AC"},
		{"window AC", "AC"},
		{"inverter", "power backup"},
		{"Wi-Fi", "internet"},
		{"CCTV", "security"},
		{"refrigerator", "fridge"},
		{"elevator", "lift"},
	}
	for _, tt := range tests {
		f, ok := v.Lookup(tt.phrase)
		require.True(t, ok, "Lookup(%q)", tt.phrase)
		assert.Equal(t, tt.want, f.Name, "Lookup(%q)", tt.phrase)
	}

	_, ok := v.Lookup("helipad")
	assert.False(t, ok)
}

func TestLookupByName(t *testing.T) {
	v := Default()
	f, ok := v.LookupByName("Power Backup")
	require.True(t, ok)
	assert.Equal(t, "power backup", f.Key)

	f, ok = v.LookupByName("television")
	require.True(t, ok)
	assert.Equal(t, "TV", f.Name)
}

func TestImplied(t *testing.T) {
	v := Default()
	f, ok := v.Implied("gated community")
	require.True(t, ok)
	assert.Equal(t, "security", f.Name)

	_, ok = v.Implied("parking")
	assert.False(t, ok)
}

func TestCanonical(t *testing.T) {
	v := Default()
	assert.Equal(t, "ac", v.Canonical("Air Conditioner"))
	assert.Equal(t, "tv", v.Canonical("television"))
	assert.Equal(t, "fridge", v.Canonical("Refrigerator"))
	// partial variants keep their own identity
	assert.Equal(t, "window ac", v.Canonical("window AC"))
	// unknown terms are normalized but otherwise untouched
	assert.Equal(t, "sofa set", v.Canonical("Sofa_Set"))
}

func TestAvailability(t *testing.T) {
	v := Default()
	ac, _ := v.LookupByName("AC")
	backup, _ := v.LookupByName("power backup")
	furnished, _ := v.LookupByName("furnished")

	tests := []struct {
		name    string
		feature *Feature
		term    string
		want    float64
	}{
		{"exact key", ac, "ac", ScoreExact},
		{"synonym", ac, "air conditioner", ScoreExact},
		{"synonym inside longer term", ac, "split ac in master bedroom", ScoreExact},
		{"partial variant wins over contained synonym", ac, "window ac", ScorePartial},
		{"alternative", ac, "air cooler", ScoreAlternative},
		{"absent", ac, "ceiling fan", ScoreAbsent},
		{"grouped equivalent", backup, "inverter", ScoreEquivalent},
		{"semi furnished is partial", furnished, "semi-furnished", ScorePartial},
		{"unfurnished is not furnished", furnished, "unfurnished", ScoreAbsent},
		{"empty term", ac, "", ScoreAbsent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.feature.Availability(tt.term))
		})
	}
}

func TestBestAvailability(t *testing.T) {
	ac, _ := Default().LookupByName("AC")
	assert.Equal(t, ScoreExact, ac.BestAvailability([]string{"air cooler", "window ac", "split ac"}))
	assert.Equal(t, ScorePartial, ac.BestAvailability([]string{"air cooler", "window ac"}))
	assert.Equal(t, ScoreAbsent, ac.BestAvailability(nil))
}

func TestNew_FirstClaimWins(t *testing.T) {
	v := New([]Feature{
		{Name: "one", Key: "one", Synonyms: []string{"shared"}},
		{Name: "two", Key: "two", Synonyms: []string{"shared"}},
	})
	f, ok := v.Lookup("shared")
	require.True(t, ok)
	assert.Equal(t, "one", f.Name)
	assert.Equal(t, 1, v.MaxPhraseWords())
}
