package rules

import (
	"fmt"
	"sort"
	"strings"
)

// HandPattern is a reusable condition over a hand: a multiset of card names
// that must all be present plus a minimum count per role. A matching hand
// earns Value.
//
// Patterns are tracked by position in the slice that holds them, so two
// structurally identical patterns are counted separately.
type HandPattern struct {
	Name          string       `json:"name,omitempty"`
	RequiredCards []string     `json:"required_cards"`
	RequiredRoles map[Role]int `json:"required_roles"`
	Value         float64      `json:"value"`
}

// NewHandPattern builds a pattern with the default value of 1.
func NewHandPattern(cards []string, roles map[Role]int) *HandPattern {
	return &HandPattern{
		RequiredCards: cards,
		RequiredRoles: roles,
		Value:         1.0,
	}
}

// Matches reports whether hand satisfies the pattern. The hand is not modified
// and its order does not matter.
//
// Role counts are taken over the whole hand, so a card consumed by
// RequiredCards can also count toward RequiredRoles.
func (p *HandPattern) Matches(hand []string, catalog *RoleCatalog) bool {
	if len(p.RequiredCards) > 0 {
		remaining := make(map[string]int, len(hand))
		for _, card := range hand {
			remaining[card]++
		}
		for _, name := range p.RequiredCards {
			if remaining[name] == 0 {
				return false
			}
			remaining[name]--
		}
	}

	if len(p.RequiredRoles) == 0 {
		return true
	}

	counts := CountRoles(hand, catalog)
	for role, required := range p.RequiredRoles {
		if counts[role] < required {
			return false
		}
	}
	return true
}

// CountRoles counts cards per role. A repeated copy of an OPT card is counted
// once; every copy of a non-OPT card counts.
func CountRoles(hand []string, catalog *RoleCatalog) map[Role]int {
	counts := make(map[Role]int)
	seen := make(map[string]struct{}, len(hand))
	for _, card := range hand {
		info := catalog.Info(card)
		if _, dup := seen[card]; dup && info.OPT {
			continue
		}
		counts[info.Role]++
		seen[card] = struct{}{}
	}
	return counts
}

// SortedRoles returns the required roles ordered by name.
func (p *HandPattern) SortedRoles() []Role {
	roles := make([]Role, 0, len(p.RequiredRoles))
	for role := range p.RequiredRoles {
		roles = append(roles, role)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i] < roles[j] })
	return roles
}

// Clone returns a deep copy.
func (p *HandPattern) Clone() *HandPattern {
	c := &HandPattern{
		Name:          p.Name,
		RequiredCards: append([]string(nil), p.RequiredCards...),
		RequiredRoles: make(map[Role]int, len(p.RequiredRoles)),
		Value:         p.Value,
	}
	for role, n := range p.RequiredRoles {
		c.RequiredRoles[role] = n
	}
	return c
}

func (p *HandPattern) String() string {
	var b strings.Builder
	if p.Name != "" {
		b.WriteString(p.Name)
		b.WriteString(": ")
	}
	fmt.Fprintf(&b, "cards [%s]", strings.Join(p.RequiredCards, ", "))

	roles := p.SortedRoles()
	parts := make([]string, len(roles))
	for i, role := range roles {
		parts[i] = fmt.Sprintf("%s:%d", role, p.RequiredRoles[role])
	}
	fmt.Fprintf(&b, ", roles [%s]", strings.Join(parts, ", "))
	return b.String()
}
