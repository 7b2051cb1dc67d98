package rules

// Ruleset is the complete scoring configuration for one evaluation or run.
// It is passed explicitly to every call; nothing in this package keeps
// process-wide mutable state.
//
// Callers must not mutate a Ruleset (or its patterns) while a simulation using
// it is in flight.
type Ruleset struct {
	Roles    *RoleCatalog
	Weights  *WeightTable
	Combos   []ComboRule
	Patterns []*HandPattern
}

// DefaultRuleset returns the built-in tables, the default combo rules and no
// patterns.
func DefaultRuleset() *Ruleset {
	return &Ruleset{
		Roles:   NewRoleCatalog(nil),
		Weights: NewWeightTable(nil),
		Combos:  DefaultComboRules(),
	}
}

// RealizedRoles returns, for each tracked role, the distinct card names in hand
// that resolve to it, in order of first appearance.
func RealizedRoles(hand []string, catalog *RoleCatalog, tracked []Role) [][]string {
	out := make([][]string, len(tracked))
	index := make(map[Role]int, len(tracked))
	for i, role := range tracked {
		index[role] = i
	}

	seen := make(map[string]struct{}, len(hand))
	for _, card := range hand {
		if _, dup := seen[card]; dup {
			continue
		}
		seen[card] = struct{}{}
		if i, ok := index[catalog.Info(card).Role]; ok {
			out[i] = append(out[i], card)
		}
	}
	return out
}
