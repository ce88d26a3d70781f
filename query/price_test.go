package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		text string
		want float64
		ok   bool
	}{
		{"25k", 25000, true},
		{"25K", 25000, true},
		{"1.2 lakh", 120000, true},
		{"2 lakhs", 200000, true},
		{"1.5 cr", 15000000, true},
		{"₹20,000 per month", 20000, true},
		{"Rs. 1,20,000", 120000, true},
		{"INR 18000", 18000, true},
		{"15 thousand", 15000, true},
		{"2 bhk", 0, false},
		{"1200 sqft", 0, false},
		{"negotiable", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := ParseAmount(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.InDelta(t, tt.want, got, 0.001)
		})
	}
}

func TestParsePriceBound_UpperBound(t *testing.T) {
	b := ParsePriceBound("2BHK with AC and parking under 25k")
	require.NotNil(t, b)
	assert.Nil(t, b.Min)
	require.NotNil(t, b.Max)
	assert.Equal(t, 25000.0, *b.Max)
	assert.True(t, b.Strict)
}

func TestParsePriceBound_Range(t *testing.T) {
	for _, text := range []string{
		"flat between 15k and 25k",
		"flat 15k - 25k",
		"flat 15-25k",
		"flat 25k to 15k",
	} {
		t.Run(text, func(t *testing.T) {
			b := ParsePriceBound(text)
			require.NotNil(t, b)
			require.NotNil(t, b.Min)
			require.NotNil(t, b.Max)
			assert.Equal(t, 15000.0, *b.Min)
			assert.Equal(t, 25000.0, *b.Max)
			assert.False(t, b.Strict)
		})
	}
}

func TestParsePriceBound_LowerBound(t *testing.T) {
	b := ParsePriceBound("house above 1.2 lakh")
	require.NotNil(t, b)
	require.NotNil(t, b.Min)
	assert.Equal(t, 120000.0, *b.Min)
	assert.Nil(t, b.Max)
	assert.False(t, b.Strict)
}

func TestParsePriceBound_BareBudget(t *testing.T) {
	b := ParsePriceBound("studio budget 18000")
	require.NotNil(t, b)
	require.NotNil(t, b.Max)
	assert.Equal(t, 18000.0, *b.Max)
	assert.False(t, b.Strict)
}

func TestParsePriceBound_None(t *testing.T) {
	assert.Nil(t, ParsePriceBound("3 bhk near the park"))
	assert.Nil(t, ParsePriceBound("flat with 2 balconies"))
	assert.Nil(t, ParsePriceBound(""))
}

func TestParsePriceBound_YearsAreNotBudgets(t *testing.T) {
	for _, text := range []string{
		"2bhk flat built in 2020 near metro",
		"villa renovated since 1998",
		"house 2015 built with garden",
		"flat constructed after 2010",
	} {
		t.Run(text, func(t *testing.T) {
			assert.Nil(t, ParsePriceBound(text))
		})
	}

	b := ParsePriceBound("flat built in 2018 under 30k")
	require.NotNil(t, b)
	require.NotNil(t, b.Max)
	assert.Equal(t, 30000.0, *b.Max)
	assert.Nil(t, b.Min)

	b = ParsePriceBound("studio budget 2000")
	require.NotNil(t, b)
	assert.Equal(t, 2000.0, *b.Max, "a year-like figure without a dating cue is still money")

	amount, ok := ParseAmount("₹2020")
	assert.True(t, ok)
	assert.Equal(t, 2020.0, amount)
}

func TestParsePriceBound_UnitOnlyCarriesBackwards(t *testing.T) {
	b := ParsePriceBound("1 lakh and 2 parking")
	require.NotNil(t, b)
	require.NotNil(t, b.Max)
	assert.Equal(t, 100000.0, *b.Max)
	assert.Nil(t, b.Min)

	b = ParsePriceBound("flat 50k to 60000")
	require.NotNil(t, b)
	require.NotNil(t, b.Min)
	assert.Equal(t, 50000.0, *b.Min)
	assert.Equal(t, 60000.0, *b.Max)

	b = ParsePriceBound("flat 30 - 2 lakh")
	require.NotNil(t, b)
	assert.Nil(t, b.Min, "30 lakh exceeds 2 lakh, so the figures are not a range")
	assert.Equal(t, 200000.0, *b.Max)
}
