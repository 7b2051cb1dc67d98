package rules

import (
	"fmt"
	"strings"
)

// Turn selects whether the hand is evaluated going first or going second.
type Turn int

const (
	GoingFirst Turn = iota
	GoingSecond
)

// HandSize returns the opening hand size for the turn.
func (t Turn) HandSize() int {
	if t == GoingSecond {
		return 6
	}
	return 5
}

func (t Turn) String() string {
	if t == GoingSecond {
		return "second"
	}
	return "first"
}

// MarshalText encodes the turn as "first" or "second".
func (t Turn) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText accepts anything ParseTurn accepts.
func (t *Turn) UnmarshalText(text []byte) error {
	parsed, err := ParseTurn(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseTurn parses "first"/"second" (also "going first", "1", "2").
func ParseTurn(s string) (Turn, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "first", "going first", "1", "":
		return GoingFirst, nil
	case "second", "going second", "2":
		return GoingSecond, nil
	default:
		return GoingFirst, fmt.Errorf("unknown turn %q (want first or second)", s)
	}
}

// WeightEntry is the additive value one physical copy of a card contributes.
type WeightEntry struct {
	First  float64 `json:"first"`
	Second float64 `json:"second"`
}

// For returns the weight for the given turn.
func (w WeightEntry) For(t Turn) float64 {
	if t == GoingSecond {
		return w.Second
	}
	return w.First
}

var builtinFirst, builtinSecond = buildWeightTables()

func buildWeightTables() (map[string]float64, map[string]float64) {
	first := map[string]float64{
		"Ash Blossom & Joyous Spring":     1.0,
		"Effect Veiler":                   1.0,
		"Infinite Impermanence":           1.0,
		"Droll & Lock Bird":               2.0,
		"Called by the Grave":             1.0,
		"Pot of Prosperity":               1.5,
		"Ghost Belle and Haunted Mansion": 1.0,
		"Nibiru, the Primal Being":        1.5,
		"Mulcharmy Fuwalos":               1.5,
		"Crossout Designator":             1.0,
		"Triple Tactics Talent":           3.0,
		"Triple Tactics Trust":            1.0,
		"Mulcharmy Meowls":                0.5,
		"Mulcharmy Purulia":               0.5,
		"D.D Crow":                        1.0,
		"Bystial magnamut":                4.0,
		"Bystial druiswurm":               2.5,

		"Ext Ryzeal":      2.0,
		"Bonfire":         1.0,
		"Ice Ryzeal":      1.5,
		"Node Ryzeal":     0.5,
		"Ryzeal Cross":    0.5,
		"Sword Ryzeal":    1.5,
		"Seventh Tachyon": 1.0,

		"Mitsurugi Ritual":              0.25,
		"Mitsurugi Prayers":             1.5,
		"Ame no Habakiri no Mitsurugi":  1.0,
		"Ame no Murakumo no Mitsurugi":  0.5,
		"Futsu no Mitama no Mitsurugi":  1.5,
		"Mitsurugi no Mikoto, Kusanagi": 0.0,
		"Mitsurugi no Mikoto, Saji":     1.0,
		"Mitsurugi no Mikoto, Aramasa":  0.0,
	}

	// Going second starts as a copy of going first and is then patched.
	second := make(map[string]float64, len(first))
	for name, w := range first {
		second[name] = w
	}
	for name, w := range map[string]float64{
		"Mulcharmy Fuwalos":     3.0,
		"Triple Tactics Talent": 1.0,
		"Mulcharmy Meowls":      2.0,
		"Mulcharmy Purulia":     2.0,
		"Ext Ryzeal":            2.5,

		"Bonfire":                       1.0,
		"Seventh Tachyon":               0.9,
		"Ice Ryzeal":                    1.0,
		"Node Ryzeal":                   0.5,
		"Ryzeal Cross":                  0.0,
		"Sword Ryzeal":                  1.0,
		"Mitsurugi Ritual":              0.0,
		"Ame no Habakiri no Mitsurugi":  1.0,
		"Ame no Murakumo no Mitsurugi":  1.0,
		"Futsu no Mitama no Mitsurugi":  2.0,
		"Mitsurugi no Mikoto, Kusanagi": 0.0,
		"Mitsurugi no Mikoto, Saji":     1.0,
		"Mitsurugi no Mikoto, Aramasa":  0.0,
	} {
		second[name] = w
	}

	return first, second
}

// BuiltinWeights returns a copy of the built-in weight tables as entries.
func BuiltinWeights() map[string]WeightEntry {
	out := make(map[string]WeightEntry, len(builtinFirst))
	for name, w := range builtinFirst {
		out[name] = WeightEntry{First: w, Second: builtinSecond[name]}
	}
	return out
}

// WeightTable resolves per-copy card weights. Like RoleCatalog it is an
// immutable snapshot of the session overrides.
type WeightTable struct {
	overrides map[string]WeightEntry
}

// NewWeightTable snapshots overrides into a new table. A nil map is allowed.
func NewWeightTable(overrides map[string]WeightEntry) *WeightTable {
	snapshot := make(map[string]WeightEntry, len(overrides))
	for name, entry := range overrides {
		snapshot[name] = entry
	}
	return &WeightTable{overrides: snapshot}
}

// Weight returns the override for the turn if present, else the built-in
// weight, else 0.
func (t *WeightTable) Weight(name string, turn Turn) float64 {
	if t != nil {
		if entry, ok := t.overrides[name]; ok {
			return entry.For(turn)
		}
	}
	if turn == GoingSecond {
		return builtinSecond[name]
	}
	return builtinFirst[name]
}

// Overrides returns a copy of the session overrides.
func (t *WeightTable) Overrides() map[string]WeightEntry {
	if t == nil {
		return map[string]WeightEntry{}
	}
	out := make(map[string]WeightEntry, len(t.overrides))
	for name, entry := range t.overrides {
		out[name] = entry
	}
	return out
}
