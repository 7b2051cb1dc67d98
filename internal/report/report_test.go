package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/handsim/internal/rules"
	"github.com/ramonehamilton/handsim/internal/simulator"
)

func sampleResult() *simulator.Result {
	pattern := rules.NewHandPattern([]string{"Bonfire"}, map[rules.Role]int{rules.RoleExtender: 1})
	return &simulator.Result{
		Trials:   123456,
		Turn:     rules.GoingSecond,
		HandSize: 6,
		DeckSize: 40,
		Seed:     42,
		Mean:     3.14159,
		Median:   3,
		Variance: 1.5,
		StdDev:   1.2247,
		P5:       1,
		P95:      5.5,
		Best: simulator.Hand{
			Trial: 1233,
			Score: 9.5,
			Cards: []string{"Bonfire", "Ice Ryzeal", "Node Ryzeal"},
			Roles: []simulator.RoleCards{
				{Role: rules.RoleStarter, Cards: []string{"Bonfire", "Ice Ryzeal"}},
				{Role: rules.RoleExtender, Cards: []string{"Node Ryzeal"}},
				{Role: rules.RoleHandtrap, Cards: []string{}},
			},
		},
		Worst: simulator.Hand{Trial: 0, Score: -2, Cards: []string{"Brick"}},
		RoleAverages: []simulator.RoleAverage{
			{Role: rules.RoleStarter, Average: 1.2345},
			{Role: rules.RoleExtender, Average: 0.5},
		},
		Patterns: []simulator.PatternCount{
			{Pattern: pattern, Count: 98765, Rate: 80.0004},
		},
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, sampleResult()))
	out := buf.String()

	for _, want := range []string{
		"Trials:        123,456 (going second, 6-card hands, 40-card deck, seed 42)",
		"Mean Score:    3.142",
		"Median Score:  3.000",
		"Variance:      1.500",
		"Std Deviation: 1.225",
		"Best Hand (score 9.500, trial 1,234)",
		"├─ starter: Bonfire, Ice Ryzeal",
		"└─ handtrap: (none)",
		"Worst Hand (score -2.000, trial 1)",
		"└─ Cards: Brick",
		"├─ starter: 1.23",
		"└─ extender: 0.50",
		"└─ cards [Bonfire], roles [extender:1], value 1: 98,765 hands (80.00%)",
	} {
		assert.Contains(t, out, want)
	}
}

func TestWriteText_NoPatterns(t *testing.T) {
	r := sampleResult()
	r.Patterns = nil

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, r))
	assert.True(t, strings.HasSuffix(buf.String(), "Hand Patterns\n└─ (none)\n"))
}
