package query

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/poiesic/propmatch/core"
	"github.com/poiesic/propmatch/vocab"
)

func TestParseRequirements(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []core.Requirement
	}{
		{
			name: "stated once",
			text: "2BHK with AC and parking under 25k",
			want: []core.Requirement{
				{Name: "AC", Weight: core.WeightStated, Polarity: core.Required},
				{Name: "parking", Weight: core.WeightStated, Polarity: core.Required},
			},
		},
		{
			name: "synonym maps to canonical name",
			text: "flat with air conditioning and wifi",
			want: []core.Requirement{
				{Name: "AC", Weight: core.WeightStated, Polarity: core.Required},
				{Name: "internet", Weight: core.WeightStated, Polarity: core.Required},
			},
		},
		{
			name: "repeated mention",
			text: "AC flat, AC is important",
			want: []core.Requirement{
				{Name: "AC", Weight: core.WeightEmphasized, Polarity: core.Required},
			},
		},
		{
			name: "intensifier before",
			text: "must have power backup, lift optional",
			want: []core.Requirement{
				{Name: "power backup", Weight: core.WeightEmphasized, Polarity: core.Required},
				{Name: "lift", Weight: core.WeightStated, Polarity: core.Required},
			},
		},
		{
			name: "intensifier after",
			text: "parking mandatory",
			want: []core.Requirement{
				{Name: "parking", Weight: core.WeightEmphasized, Polarity: core.Required},
			},
		},
		{
			name: "implied category",
			text: "2bhk in a gated community",
			want: []core.Requirement{
				{Name: "security", Weight: core.WeightImplied, Polarity: core.Required},
			},
		},
		{
			name: "adjective on property noun",
			text: "furnished flat near the station",
			want: []core.Requirement{
				{Name: "furnished", Weight: core.WeightImplied, Polarity: core.Required},
			},
		},
		{
			name: "negation",
			text: "studio without AC but with a balcony",
			want: []core.Requirement{
				{Name: "AC", Weight: core.WeightStated, Polarity: core.Excluded},
				{Name: "balcony", Weight: core.WeightStated, Polarity: core.Required},
			},
		},
		{
			name: "negation skips fillers",
			text: "no any pets and not having a gym",
			want: []core.Requirement{
				{Name: "gym", Weight: core.WeightStated, Polarity: core.Excluded},
			},
		},
		{
			name: "longest phrase wins",
			text: "window ac is fine",
			want: []core.Requirement{
				{Name: "AC", Weight: core.WeightStated, Polarity: core.Required},
			},
		},
		{
			name: "nothing recognized",
			text: "somewhere quiet",
			want: []core.Requirement{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseRequirements(tt.text, vocab.Default())
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseRequirements(%q) mismatch (-want +got):\n%s", tt.text, diff)
			}
		})
	}
}

func TestParseRequirements_NilVocabularyUsesDefault(t *testing.T) {
	got := ParseRequirements("gym", nil)
	if len(got) != 1 || got[0].Name != "gym" {
		t.Fatalf("ParseRequirements with nil vocabulary = %v, want gym", got)
	}
}
