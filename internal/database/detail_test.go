package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupEmptyNotesIsNA(t *testing.T) {
	records := []*Provider{
		{Name: "Acme", Contact: "Jane", Notes: ""},
	}

	detail, ok := Lookup("Acme", records)
	require.True(t, ok)
	assert.Equal(t, "NA", detail.Map()["Notes"])
	assert.Equal(t, "NA", detail.Get(FieldNotes))
	assert.Equal(t, "Jane", detail.Get(FieldContact))
}

func TestLookupBlankValuesAreNA(t *testing.T) {
	records := []*Provider{{Name: "Acme", Gaps: "   "}}

	detail, ok := Lookup("Acme", records)
	require.True(t, ok)
	assert.Equal(t, "NA", detail.Get(FieldGaps))
}

func TestLookupFieldOrder(t *testing.T) {
	detail, ok := Lookup("Acme", []*Provider{{Name: "Acme"}})
	require.True(t, ok)

	var fields []Field
	for _, df := range detail {
		fields = append(fields, df.Field)
	}
	assert.Equal(t, DetailFields(), fields)
	assert.NotContains(t, fields, FieldIntercept)
	assert.Equal(t, "Acme", detail.Get(FieldProvider))
}

func TestLookupNotFound(t *testing.T) {
	records := []*Provider{{Name: "Acme"}}

	tests := []string{"acme", "Acme ", "", "Beta"}
	for _, name := range tests {
		t.Run(name, func(t *testing.T) {
			detail, ok := Lookup(name, records)
			assert.False(t, ok)
			assert.Nil(t, detail)
		})
	}
}
