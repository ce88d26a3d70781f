package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/propmatch/core"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"json tag", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"no tag", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"unterminated", "```json\n{\"a\": 1}", `{"a": 1}`},
		{"preamble", "Here you go:\n```json\n{\"a\": 1}\n```\nThanks", `{"a": 1}`},
		{"plain", "  {\"a\": 1}  ", `{"a": 1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripFences(tt.in))
		})
	}
}

func TestCleanJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"chatter around object", `Sure! {"a": 1} Hope this helps.`, `{"a": 1}`},
		{"truncated list", `{"rooms": ["kitchen", "bedroom"`, `{"rooms": ["kitchen", "bedroom"]}`},
		{"truncated nested", `{"appliances": {"ac": 2}, "rooms": ["k"`, `{"appliances": {"ac": 2}, "rooms": ["k"]}`},
		{"trailing comma", `{"a": [1, 2,], "b": 3,}`, `{"a": [1, 2], "b": 3}`},
		{"missing opening quote", `{rooms": ["kitchen"], type": "2bhk"}`, `{"rooms": ["kitchen"], "type": "2bhk"}`},
		{"brace inside string", `{"rules": "no {pets}"}`, `{"rules": "no {pets}"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanJSON(tt.in))
		})
	}
}

func TestNormalize_Parsed(t *testing.T) {
	raw := "```json\n" + `{
  "property_name": "Lakeview Residency",
  "property_location": "Koramangala, Bengaluru",
  "rent": "₹23,000 per month",
  "rooms": ["Living_Room", "kitchen", "bedroom_1", "kitchen"],
  "appliances": {"air_conditioner": 2, "ac": 1, "fridge": 1, "fan": 0, "tv": "2"},
  "key_features": ["modular_kitchen", "balcony"],
  "amenities": "covered parking, power backup",
  "layout_and_condition": "Open plan",
  "rules_and_restrictions": "Not specified",
  "contact_info": "Ravi, 98450 00000",
  "location_insights": "Near the metro",
  "unknown_key": 42
}` + "\n```"

	result := Normalize(core.SourceKindText, raw)
	require.True(t, result.IsParsed())
	p := result.Profile

	assert.Equal(t, core.SourceKindText, p.Kind)
	assert.Equal(t, "Lakeview Residency", p.Name)
	assert.Equal(t, "Koramangala, Bengaluru", p.Location)
	assert.Equal(t, "₹23,000 per month", p.Price)
	assert.Equal(t, []string{"bedroom 1", "kitchen", "living room"}, p.Rooms)
	assert.Equal(t, map[string]int{"ac": 2, "fridge": 1, "tv": 2}, p.Appliances)
	assert.Equal(t, []string{"balcony", "modular kitchen"}, p.Features)
	assert.Equal(t, []string{"covered parking", "power backup"}, p.Amenities)
	assert.Equal(t, "Open plan", p.Layout)
	assert.Empty(t, p.Rules, "placeholder values become empty")
	assert.Equal(t, "Ravi, 98450 00000", p.Contact)
	assert.Equal(t, "Location: Near the metro", p.AdditionalInfo)
}

func TestNormalize_NumericPrice(t *testing.T) {
	result := Normalize(core.SourceKindImage, `{"price": 25000, "rooms": []}`)
	require.True(t, result.IsParsed())
	assert.Equal(t, "25000", result.Profile.Price)
	assert.Empty(t, result.Profile.Rooms)
}

func TestNormalize_ApplianceList(t *testing.T) {
	result := Normalize(core.SourceKindVideo, `{"appliances": ["Refrigerator", "geyser"]}`)
	require.True(t, result.IsParsed())
	assert.Equal(t, map[string]int{"fridge": 1, "geyser": 1}, result.Profile.Appliances)
}

func TestNormalize_Unparsed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"prose", "The flat has two bedrooms and a balcony.", "The flat has two bedrooms and a balcony."},
		{"fenced prose", "```\nnot json at all\n```", "not json at all"},
		{"array", `["kitchen"]`, `["kitchen"]`},
		{"wrong appliance type", `{"appliances": "many"}`, `{"appliances": "many"}`},
		{"bad count", `{"appliances": {"ac": [1]}}`, `{"appliances": {"ac": [1]}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Normalize(core.SourceKindText, tt.raw)
			require.False(t, result.IsParsed())
			assert.Equal(t, core.SourceKindText, result.Kind)
			assert.Equal(t, tt.want, result.RawText)
			assert.Equal(t, map[string]string{"raw_output": tt.want, "description": tt.want}, result.Fallback())
		})
	}
}

func TestNormalize_InvalidKindIsUnparsed(t *testing.T) {
	result := Normalize(core.SourceKind(0), `{"rooms": ["kitchen"]}`)
	assert.False(t, result.IsParsed())
}
