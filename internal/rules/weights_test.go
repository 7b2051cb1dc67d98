package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeightTable_Weight(t *testing.T) {
	table := NewWeightTable(map[string]WeightEntry{
		"Ext Ryzeal":    {First: 9, Second: 8},
		"Custom Card":   {First: 0.75, Second: 1.25},
		"Effect Veiler": {First: 0, Second: 0},
	})

	tests := []struct {
		name string
		card string
		turn Turn
		want float64
	}{
		{"override going first", "Ext Ryzeal", GoingFirst, 9},
		{"override going second", "Ext Ryzeal", GoingSecond, 8},
		{"override for unlisted card", "Custom Card", GoingSecond, 1.25},
		{"zero override shadows builtin", "Effect Veiler", GoingFirst, 0},
		{"builtin going first", "Mulcharmy Fuwalos", GoingFirst, 1.5},
		{"patched going second", "Mulcharmy Fuwalos", GoingSecond, 3.0},
		{"copied going second", "Droll & Lock Bird", GoingSecond, 2.0},
		{"unlisted defaults to zero", "Pot of Greed", GoingFirst, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, table.Weight(tt.card, tt.turn))
		})
	}
}

func TestBuiltinWeights_SecondDerivedFromFirst(t *testing.T) {
	weights := BuiltinWeights()

	require.Contains(t, weights, "Called by the Grave")
	entry := weights["Called by the Grave"]
	assert.Equal(t, entry.First, entry.Second, "unpatched cards keep their going-first weight")

	assert.Equal(t, WeightEntry{First: 0.5, Second: 0.0}, weights["Ryzeal Cross"])
}

func TestTurn(t *testing.T) {
	assert.Equal(t, 5, GoingFirst.HandSize())
	assert.Equal(t, 6, GoingSecond.HandSize())

	for in, want := range map[string]Turn{
		"first":        GoingFirst,
		"Second":       GoingSecond,
		"going second": GoingSecond,
		"2":            GoingSecond,
	} {
		got, err := ParseTurn(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseTurn("third")
	assert.Error(t, err)

	var turn Turn
	require.NoError(t, turn.UnmarshalText([]byte("second")))
	assert.Equal(t, GoingSecond, turn)
	text, err := turn.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "second", string(text))
}
