package pipeline

import (
	"strings"
	"testing"

	"github.com/siherrmann/provenance/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGrouper() *Grouper {
	return NewGrouper(model.DefaultTuning().Grouper)
}

func TestGrouperGroup(t *testing.T) {
	g := newTestGrouper()

	t.Run("Empty input returns no groups", func(t *testing.T) {
		groups := g.Group(nil)
		assert.NotNil(t, groups)
		assert.Empty(t, groups)
	})

	t.Run("Whitespace fragments are dropped", func(t *testing.T) {
		groups := g.Group([]model.Fragment{
			{X0: 10, Y0: 10, X1: 100, Y1: 20, Text: "   "},
			{X0: 10, Y0: 30, X1: 100, Y1: 40, Text: ""},
		})
		assert.Empty(t, groups)
	})

	t.Run("Close lines are merged in reading order", func(t *testing.T) {
		groups := g.Group([]model.Fragment{
			{X0: 72, Y0: 114, X1: 500, Y1: 126, Text: "second line of the clause"},
			{X0: 72, Y0: 100, X1: 520, Y1: 112, Text: " first line of the clause "},
		})
		require.Len(t, groups, 1)
		assert.Equal(t, "first line of the clause\nsecond line of the clause", groups[0].Text)
		assert.Equal(t, Group{X0: 72, Y0: 100, X1: 520, Y1: 126, Text: groups[0].Text}, groups[0])
	})

	t.Run("Same top edge is ordered left to right", func(t *testing.T) {
		groups := g.Group([]model.Fragment{
			{X0: 300, Y0: 100, X1: 400, Y1: 110, Text: "right"},
			{X0: 72, Y0: 100, X1: 200, Y1: 110, Text: "left"},
		})
		require.Len(t, groups, 1)
		assert.Equal(t, "left\nright", groups[0].Text)
	})

	t.Run("Large gap splits groups", func(t *testing.T) {
		groups := g.Group([]model.Fragment{
			{X0: 72, Y0: 100, X1: 500, Y1: 112, Text: "a clause about water damage"},
			{X0: 72, Y0: 131, X1: 500, Y1: 143, Text: "a clause about theft"},
		})
		require.Len(t, groups, 2)
		assert.Equal(t, "a clause about water damage", groups[0].Text)
		assert.Equal(t, "a clause about theft", groups[1].Text)
	})

	t.Run("Gap equal to threshold does not split", func(t *testing.T) {
		groups := g.Group([]model.Fragment{
			{X0: 72, Y0: 100, X1: 500, Y1: 112, Text: "a clause about water damage"},
			{X0: 72, Y0: 130, X1: 500, Y1: 142, Text: "continues here"},
		})
		assert.Len(t, groups, 1)
	})

	t.Run("Header forms its own group followed by body group", func(t *testing.T) {
		groups := g.Group([]model.Fragment{
			{X0: 72, Y0: 100, X1: 300, Y1: 112, Text: "WATER DAMAGE"},
			{X0: 72, Y0: 114, X1: 540, Y1: 126, Text: "Sudden and accidental discharge of water from plumbing is covered up to the stated limit."},
			{X0: 72, Y0: 128, X1: 540, Y1: 140, Text: "Gradual seepage is excluded."},
		})
		require.Len(t, groups, 2)
		assert.Equal(t, "WATER DAMAGE", groups[0].Text)
		assert.Equal(t, "Sudden and accidental discharge of water from plumbing is covered up to the stated limit.\nGradual seepage is excluded.", groups[1].Text)
	})

	t.Run("Consecutive headers are emitted once each", func(t *testing.T) {
		groups := g.Group([]model.Fragment{
			{X0: 72, Y0: 100, X1: 300, Y1: 112, Text: "GENERAL CONDITIONS"},
			{X0: 72, Y0: 114, X1: 300, Y1: 126, Text: "POLICY DEFINITIONS"},
			{X0: 72, Y0: 128, X1: 300, Y1: 140, Text: "body text"},
		})
		require.Len(t, groups, 3)
		assert.Equal(t, "GENERAL CONDITIONS", groups[0].Text)
		assert.Equal(t, "POLICY DEFINITIONS", groups[1].Text)
		assert.Equal(t, "body text", groups[2].Text)
	})

	t.Run("Section marker opens a group that body merges into", func(t *testing.T) {
		groups := g.Group([]model.Fragment{
			{X0: 72, Y0: 100, X1: 300, Y1: 112, Text: "intro text"},
			{X0: 72, Y0: 114, X1: 300, Y1: 126, Text: "S2 Liability"},
			{X0: 72, Y0: 128, X1: 300, Y1: 140, Text: "we pay for damages"},
		})
		require.Len(t, groups, 2)
		assert.Equal(t, "intro text", groups[0].Text)
		assert.Equal(t, "S2 Liability\nwe pay for damages", groups[1].Text)
	})

	t.Run("Gap property holds for every adjacent pair", func(t *testing.T) {
		fragments := []model.Fragment{
			{X0: 72, Y0: 100, X1: 500, Y1: 110, Text: "alpha line"},
			{X0: 72, Y0: 115, X1: 500, Y1: 125, Text: "beta line"},
			{X0: 72, Y0: 160, X1: 500, Y1: 170, Text: "gamma line"},
			{X0: 72, Y0: 172, X1: 500, Y1: 182, Text: "delta line"},
			{X0: 72, Y0: 300, X1: 500, Y1: 310, Text: "epsilon line"},
		}
		groups := g.Group(fragments)
		require.Len(t, groups, 3)
		assert.Equal(t, "alpha line\nbeta line", groups[0].Text)
		assert.Equal(t, "gamma line\ndelta line", groups[1].Text)
		assert.Equal(t, "epsilon line", groups[2].Text)
	})
}

func TestGrouperIsHeader(t *testing.T) {
	g := newTestGrouper()

	tests := []struct {
		name     string
		text     string
		expected bool
	}{
		{"Twelve capital letters", "WATER DAMAGE", true},
		{"Digits and punctuation are ignored", "S1 - GENERAL PROVISIONS (2024)", true},
		{"Too few letters", "S1 COVER", false},
		{"Mixed case", "Water Damage Clause", false},
		{"Too long", strings.Repeat("ABCDEFGHIJ ", 11), false},
		{"Empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, g.IsHeader(tt.text))
		})
	}
}

func TestGrouperIsSectionStart(t *testing.T) {
	g := newTestGrouper()

	assert.True(t, g.IsSectionStart("SECTION 4 Exclusions"))
	assert.True(t, g.IsSectionStart("  ENDORSEMENTS"))
	assert.True(t, g.IsSectionStart("E9.1 Flood endorsement"))
	assert.True(t, g.IsSectionStart("S3 Claims"))
	assert.False(t, g.IsSectionStart("E9 without dot"))
	assert.False(t, g.IsSectionStart("The SECTION below"))
}
