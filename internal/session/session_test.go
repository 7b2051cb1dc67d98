package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/handsim/internal/rules"
)

const sample = `# role overrides
Ash Blossom & Joyous Spring=handtrap,true
Nibiru, the Primal Being=HANDTRAP,False
Bonfire = starter , TRUE

# weights
Ash Blossom & Joyous Spring=0.5,1.5
Bonfire=2,2.25

# patterns
Bonfire,Ice Ryzeal|extender:1,handtrap:1|2.5
Bonfire|
|handtrap:2
`

func TestParse(t *testing.T) {
	s := Parse(sample)

	assert.Equal(t, map[string]rules.CardInfo{
		"Ash Blossom & Joyous Spring": {Role: rules.RoleHandtrap, OPT: true},
		"Nibiru, the Primal Being":    {Role: rules.RoleHandtrap, OPT: false},
		"Bonfire":                     {Role: rules.RoleStarter, OPT: true},
	}, s.Roles)

	assert.Equal(t, map[string]rules.WeightEntry{
		"Ash Blossom & Joyous Spring": {First: 0.5, Second: 1.5},
		"Bonfire":                     {First: 2, Second: 2.25},
	}, s.Weights)

	require.Len(t, s.Patterns, 3)
	assert.Equal(t, []string{"Bonfire", "Ice Ryzeal"}, s.Patterns[0].RequiredCards)
	assert.Equal(t, map[rules.Role]int{rules.RoleExtender: 1, rules.RoleHandtrap: 1}, s.Patterns[0].RequiredRoles)
	assert.Equal(t, 2.5, s.Patterns[0].Value)

	assert.Equal(t, []string{"Bonfire"}, s.Patterns[1].RequiredCards)
	assert.Empty(t, s.Patterns[1].RequiredRoles)
	assert.Equal(t, 1.0, s.Patterns[1].Value, "value defaults to 1")

	assert.Empty(t, s.Patterns[2].RequiredCards)
	assert.Equal(t, map[rules.Role]int{rules.RoleHandtrap: 2}, s.Patterns[2].RequiredRoles)

	assert.Zero(t, s.Skipped)
}

func TestParse_SkipsMalformedLines(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"no separator", "just some words"},
		{"missing name", "=starter,true"},
		{"one value", "Bonfire=starter"},
		{"non-numeric weight", "Bonfire=high,low"},
		{"unknown role is not a weight", "Bonfire=combo piece,true"},
		{"infinite weight", "Bonfire=Inf,1"},
		{"too many pipes", "a|starter:1|1|2"},
		{"role pair without count", "a|starter|1"},
		{"non-numeric count", "a|starter:x|1"},
		{"non-numeric value", "a|starter:1|lots"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Parse("Ice Ryzeal=starter,true\n" + tt.line + "\nIce Ryzeal=3,4\n")
			assert.Equal(t, 1, s.Skipped)
			assert.Empty(t, s.Patterns)
			assert.Equal(t, rules.CardInfo{Role: rules.RoleStarter, OPT: true}, s.Roles["Ice Ryzeal"])
			assert.Equal(t, rules.WeightEntry{First: 3, Second: 4}, s.Weights["Ice Ryzeal"])
		})
	}
}

func TestParse_ExtraValuesIgnored(t *testing.T) {
	s := Parse("Bonfire=handtrap,true,extra\nBonfire=1,2,3\n")
	assert.Zero(t, s.Skipped)
	assert.Equal(t, rules.CardInfo{Role: rules.RoleHandtrap, OPT: true}, s.Roles["Bonfire"])
	assert.Equal(t, rules.WeightEntry{First: 1, Second: 2}, s.Weights["Bonfire"])
}

func TestParse_LaterLinesWin(t *testing.T) {
	s := Parse("X=starter,true\nX=extender,false\nX=1,1\nX=2,3\n")
	assert.Equal(t, rules.CardInfo{Role: rules.RoleExtender}, s.Roles["X"])
	assert.Equal(t, rules.WeightEntry{First: 2, Second: 3}, s.Weights["X"])
}

func TestParse_WindowsLineEndings(t *testing.T) {
	s := Parse("X=starter,true\r\nX=1,2\r\n")
	assert.Equal(t, rules.CardInfo{Role: rules.RoleStarter, OPT: true}, s.Roles["X"])
	assert.Equal(t, rules.WeightEntry{First: 1, Second: 2}, s.Weights["X"])
	assert.Zero(t, s.Skipped)
}

func TestEncode_RoundTrip(t *testing.T) {
	s := Parse(sample)
	encoded := Encode(s)

	again := Parse(encoded)
	assert.Equal(t, s, again)
	assert.Equal(t, encoded, Encode(again))
}

func TestEncode_Layout(t *testing.T) {
	s := New()
	s.Roles["B"] = rules.CardInfo{Role: rules.RoleExtender, OPT: false}
	s.Roles["A"] = rules.CardInfo{Role: rules.RoleStarter, OPT: true}
	s.Weights["A"] = rules.WeightEntry{First: 1, Second: 1.5}
	s.Patterns = []*rules.HandPattern{
		rules.NewHandPattern([]string{"A", "B"}, map[rules.Role]int{rules.RoleStarter: 1, rules.RoleExtender: 2}),
	}

	want := "A=starter,true\n" +
		"B=extender,false\n" +
		"A=1,1.5\n" +
		"A,B|extender:2,starter:1|1\n"
	assert.Equal(t, want, Encode(s))
}

func TestEncode_SkipsRolesParseCannotRead(t *testing.T) {
	s := New()
	s.Roles["A"] = rules.CardInfo{Role: rules.RoleStarter, OPT: true}
	s.Roles["B"] = rules.CardInfo{Role: rules.Role("engine"), OPT: false}
	s.Weights["B"] = rules.WeightEntry{First: 1, Second: 2}

	encoded := Encode(s)
	assert.Equal(t, "A=starter,true\nB=1,2\n", encoded)

	again := Parse(encoded)
	assert.Zero(t, again.Skipped)
	assert.Equal(t, map[string]rules.CardInfo{"A": {Role: rules.RoleStarter, OPT: true}}, again.Roles)
	assert.Equal(t, s.Weights, again.Weights)
}

func TestSession_Ruleset(t *testing.T) {
	s := Parse("Mystery=handtrap,false\nMystery=4,5\nMystery|handtrap:1|2\n")
	rs := s.Ruleset()

	assert.Equal(t, rules.CardInfo{Role: rules.RoleHandtrap}, rs.Roles.Info("Mystery"))
	assert.Equal(t, 5.0, rs.Weights.Weight("Mystery", rules.GoingSecond))
	assert.Equal(t, rules.DefaultComboRules(), rs.Combos)
	require.Len(t, rs.Patterns, 1)

	rs.Patterns[0].Value = 10
	assert.Equal(t, 2.0, s.Patterns[0].Value, "ruleset patterns are copies")
}
