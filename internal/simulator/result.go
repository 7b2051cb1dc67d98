package simulator

import (
	"github.com/ramonehamilton/handsim/internal/rules"
	"github.com/ramonehamilton/handsim/internal/stats"
)

// RoleCards lists the distinct cards of one role realized in a hand.
type RoleCards struct {
	Role  rules.Role `json:"role"`
	Cards []string   `json:"cards"`
}

// Hand is a snapshot of one sampled hand.
type Hand struct {
	Trial int         `json:"trial"` // zero-based global trial index
	Score float64     `json:"score"`
	Cards []string    `json:"cards"`
	Roles []RoleCards `json:"roles"`
}

// RoleAverage is the mean number of distinct cards of a role per hand.
type RoleAverage struct {
	Role    rules.Role `json:"role"`
	Average float64    `json:"average"`
}

// PatternCount is the number of trials whose hand matched a pattern.
type PatternCount struct {
	Pattern *rules.HandPattern `json:"pattern"`
	Count   int                `json:"count"`
	Rate    float64            `json:"rate"` // Count / Trials * 100
}

// Result is the immutable outcome of one simulation run. It is built once
// when the run finishes and never modified afterwards; patterns are copied so
// later edits to the request's patterns do not show through.
type Result struct {
	Trials   int        `json:"trials"`
	Turn     rules.Turn `json:"turn"`
	HandSize int        `json:"hand_size"`
	DeckSize int        `json:"deck_size"`
	Seed     uint64     `json:"seed"`

	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
	Variance float64 `json:"variance"`
	StdDev   float64 `json:"std_dev"`
	P5       float64 `json:"p5"`
	P95      float64 `json:"p95"`

	Best  Hand `json:"best"`
	Worst Hand `json:"worst"`

	RoleAverages []RoleAverage  `json:"role_averages"`
	Patterns     []PatternCount `json:"patterns"`
	Distribution []stats.Bin    `json:"distribution"`
}

func roleCards(tracked []rules.Role, sets [][]string) []RoleCards {
	out := make([]RoleCards, len(tracked))
	for i, role := range tracked {
		cards := make([]string, len(sets[i]))
		copy(cards, sets[i])
		out[i] = RoleCards{Role: role, Cards: cards}
	}
	return out
}
