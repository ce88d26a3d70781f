package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/propmatch/core"
	"github.com/poiesic/propmatch/vocab"
)

func TestInterpret_FullQuery(t *testing.T) {
	c := Interpret("2BHK with AC and parking under 25k")

	assert.Equal(t, "2BHK with AC and parking under 25k", c.Query)
	assert.Equal(t, "2bhk", c.PropertyType)
	assert.Empty(t, c.LocationTerms)

	require.NotNil(t, c.PriceBound)
	require.NotNil(t, c.PriceBound.Max)
	assert.Equal(t, 25000.0, *c.PriceBound.Max)
	assert.True(t, c.PriceBound.Strict)

	require.Len(t, c.Requirements, 2)
	assert.Equal(t, core.Requirement{Name: "AC", Weight: 2, Polarity: core.Required}, c.Requirements[0])
	assert.Equal(t, core.Requirement{Name: "parking", Weight: 2, Polarity: core.Required}, c.Requirements[1])

	require.NoError(t, core.ValidateCriteria(&c))
}

func TestInterpret_LocationAndRange(t *testing.T) {
	c := Interpret("3 bhk in Whitefield between 30k and 40k, must have lift")

	assert.Equal(t, "3bhk", c.PropertyType)
	assert.Equal(t, []string{"whitefield"}, c.LocationTerms)
	require.NotNil(t, c.PriceBound)
	assert.Equal(t, 30000.0, *c.PriceBound.Min)
	assert.Equal(t, 40000.0, *c.PriceBound.Max)
	require.Len(t, c.Requirements, 1)
	assert.Equal(t, "lift", c.Requirements[0].Name)
	assert.Equal(t, core.WeightEmphasized, c.Requirements[0].Weight)
}

func TestInterpret_NothingRecognized(t *testing.T) {
	c := Interpret("   something nice   ")

	assert.Equal(t, "something nice", c.Query)
	assert.Empty(t, c.PropertyType)
	assert.Nil(t, c.PriceBound)
	assert.Empty(t, c.LocationTerms)
	assert.Empty(t, c.Requirements)
}

func TestNewInterpreter_CustomVocabulary(t *testing.T) {
	v := vocab.New([]vocab.Feature{
		{Name: "pet friendly", Key: "pet friendly", Synonyms: []string{"pets allowed"}},
	})
	in, err := NewInterpreter(WithVocabulary(v), WithLogger(nil))
	require.NoError(t, err)

	c := in.Interpret("flat where pets allowed, with AC")
	require.Len(t, c.Requirements, 1)
	assert.Equal(t, "pet friendly", c.Requirements[0].Name)
}
