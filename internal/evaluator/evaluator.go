// Package evaluator scores a single opening hand against a rules.Ruleset.
package evaluator

import (
	"github.com/ramonehamilton/handsim/internal/rules"
)

// Evaluation is the scored breakdown of one hand.
type Evaluation struct {
	Score        float64 `json:"score"`
	CardPoints   float64 `json:"card_points"`
	ComboBonus   float64 `json:"combo_bonus"`
	PatternBonus float64 `json:"pattern_bonus"`

	// Roles holds the distinct roles that contributed, in order of first appearance.
	Roles []rules.Role `json:"roles"`

	// Matched[i] reports whether Ruleset.Patterns[i] matched.
	Matched []bool `json:"matched"`
}

// Evaluator scores hands for one turn. It holds no per-hand state and is safe
// for concurrent use as long as the Ruleset is not mutated.
type Evaluator struct {
	rules *rules.Ruleset
	turn  rules.Turn
}

// New creates an Evaluator. A nil ruleset means rules.DefaultRuleset().
func New(rs *rules.Ruleset, turn rules.Turn) *Evaluator {
	if rs == nil {
		rs = rules.DefaultRuleset()
	}
	return &Evaluator{rules: rs, turn: turn}
}

// Turn returns the turn the evaluator scores for.
func (e *Evaluator) Turn() rules.Turn {
	return e.turn
}

// Score returns the total score of hand.
func (e *Evaluator) Score(hand []string) float64 {
	return e.Evaluate(hand).Score
}

// Evaluate scores hand and returns the breakdown.
//
// A card contributes its weight (and its role) on its first occurrence, and on
// every later occurrence only if it is not OPT. Each combo rule is checked
// against both the contributed roles and the distinct card names, and adds its
// bonus once per passing check. Finally every matching pattern adds its value.
func (e *Evaluator) Evaluate(hand []string) Evaluation {
	var ev Evaluation

	uniqueCards := make(map[string]struct{}, len(hand))
	rolesInHand := make(map[rules.Role]struct{}, len(hand))

	for _, card := range hand {
		_, dup := uniqueCards[card]
		uniqueCards[card] = struct{}{}

		info := e.rules.Roles.Info(card)
		if dup && info.OPT {
			continue
		}

		w := e.rules.Weights.Weight(card, e.turn)
		ev.CardPoints += w
		ev.Score += w
		if info.Role != "" {
			if _, ok := rolesInHand[info.Role]; !ok {
				rolesInHand[info.Role] = struct{}{}
				ev.Roles = append(ev.Roles, info.Role)
			}
		}
	}

	for _, rule := range e.rules.Combos {
		if rule.SatisfiedByRoles(rolesInHand) {
			ev.ComboBonus += rule.Bonus
			ev.Score += rule.Bonus
		}
		if rule.SatisfiedByNames(uniqueCards) {
			ev.ComboBonus += rule.Bonus
			ev.Score += rule.Bonus
		}
	}

	if len(e.rules.Patterns) > 0 {
		ev.Matched = make([]bool, len(e.rules.Patterns))
		for i, pattern := range e.rules.Patterns {
			if pattern.Matches(hand, e.rules.Roles) {
				ev.Matched[i] = true
				ev.PatternBonus += pattern.Value
				ev.Score += pattern.Value
			}
		}
	}

	return ev
}
