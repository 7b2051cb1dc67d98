// Package rules holds the scoring model for opening hands: card roles, per-card
// weights, combo bonuses and hand patterns.
package rules

import "strings"

// Role classifies a card's strategic function. Roles are open: any string is a
// valid role, the constants below are the ones the built-in tables use.
type Role string

// Built-in roles.
const (
	RoleStarter    Role = "starter"
	RoleExtender   Role = "extender"
	RoleHandtrap   Role = "handtrap"
	RoleSoftGarnet Role = "soft garnet"
	RoleDefensive  Role = "defensive"
	RoleBreaker    Role = "breaker"
	RoleUnknown    Role = "unknown"
)

// KnownRoles is the fixed role vocabulary, in display order.
var KnownRoles = []Role{
	RoleStarter,
	RoleExtender,
	RoleHandtrap,
	RoleSoftGarnet,
	RoleDefensive,
	RoleBreaker,
	RoleUnknown,
}

// DefaultTrackedRoles are the roles whose realized card sets are reported per hand.
var DefaultTrackedRoles = []Role{RoleStarter, RoleExtender, RoleHandtrap, RoleSoftGarnet}

// IsKnownRole reports whether r belongs to the built-in vocabulary.
func IsKnownRole(r Role) bool {
	for _, known := range KnownRoles {
		if r == known {
			return true
		}
	}
	return false
}

// ParseRole normalizes a role token. The second return value is false when the
// token is not part of the built-in vocabulary.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	return r, IsKnownRole(r)
}

// String returns the role tag.
func (r Role) String() string {
	return string(r)
}

// CardInfo describes the role of a card and whether its contribution is limited
// to once per hand (OPT).
type CardInfo struct {
	Role Role `json:"role"`
	OPT  bool `json:"opt"`
}

// unknownCard is returned for any card absent from both the overrides and the
// built-in table.
var unknownCard = CardInfo{Role: RoleUnknown, OPT: true}

var builtinRoles = map[string]CardInfo{
	// Starters
	"Ice Ryzeal":                {RoleStarter, true},
	"Bonfire":                   {RoleStarter, true},
	"Seventh Tachyon":           {RoleStarter, true},
	"Mitsurugi no Mikoto, Saji": {RoleStarter, true},

	// Extenders
	"Node Ryzeal":       {RoleExtender, true},
	"Ext Ryzeal":        {RoleExtender, true},
	"Ryzeal Plugin":     {RoleExtender, true},
	"Sword Ryzeal":      {RoleExtender, true},
	"Mitsurugi Prayers": {RoleExtender, true},
	"Pot of Prosperity": {RoleExtender, true},

	// Handtraps
	"Ash Blossom & Joyous Spring": {RoleHandtrap, true},
	"Ghost Ogre & Snow Rabbit":    {RoleHandtrap, true},
	"Effect Veiler":               {RoleHandtrap, false},
	"Infinite Impermanence":       {RoleHandtrap, false},
	"Nibiru, the Primal Being":    {RoleHandtrap, true},
	"Droll & Lock Bird":           {RoleHandtrap, true},
	"Mulcharmy Purulia":           {RoleHandtrap, false},
	"Mulcharmy Fuwalos":           {RoleHandtrap, false},

	// Defensive
	"Called by the Grave": {RoleDefensive, true},
	"Solemn Strike":       {RoleDefensive, true},
	"Solemn Judgment":     {RoleDefensive, true},
	"Crossout Designator": {RoleDefensive, true},

	// Breakers
	"Evenly Matched":          {RoleBreaker, true},
	"Lava Golem":              {RoleBreaker, true},
	"Dark Ruler No More":      {RoleBreaker, true},
	"Santa Claws":             {RoleBreaker, true},
	"Cosmic Cyclone":          {RoleBreaker, true},
	"Lightning Storm":         {RoleBreaker, true},
	"Harpie's Feather Duster": {RoleBreaker, true},
	"Forbidden Droplet":       {RoleBreaker, true},
	"Triple Tactics Talent":   {RoleBreaker, true},
	"Triple Tactics Thrust":   {RoleBreaker, true},

	// Soft garnets (Mitsurugi pieces)
	"Mitsurugi Ritual":              {RoleSoftGarnet, true},
	"Ame no Habakiri no Mitsurugi":  {RoleSoftGarnet, true},
	"Ame no Murakumo no Mitsurugi":  {RoleSoftGarnet, true},
	"Futsu no Mitama no Mitsurugi":  {RoleSoftGarnet, true},
	"Mitsurugi no Mikoto, Kusanagi": {RoleSoftGarnet, true},
	"Mitsurugi no Mikoto, Aramasa":  {RoleSoftGarnet, true},
	"Ryzeal Cross":                  {RoleSoftGarnet, true},
}

// BuiltinRoles returns a copy of the built-in role table.
func BuiltinRoles() map[string]CardInfo {
	out := make(map[string]CardInfo, len(builtinRoles))
	for name, info := range builtinRoles {
		out[name] = info
	}
	return out
}

// RoleCatalog resolves card names to CardInfo. Session overrides shadow the
// built-in table entry by entry; they are never merged field by field.
//
// A RoleCatalog is immutable once built and safe for concurrent use.
type RoleCatalog struct {
	overrides map[string]CardInfo
}

// NewRoleCatalog snapshots overrides into a new catalog. A nil map is allowed.
func NewRoleCatalog(overrides map[string]CardInfo) *RoleCatalog {
	snapshot := make(map[string]CardInfo, len(overrides))
	for name, info := range overrides {
		snapshot[name] = info
	}
	return &RoleCatalog{overrides: snapshot}
}

// Info returns the effective CardInfo for a card: the override if present, else
// the built-in entry, else role "unknown" with OPT set.
func (c *RoleCatalog) Info(name string) CardInfo {
	if c != nil {
		if info, ok := c.overrides[name]; ok {
			return info
		}
	}
	if info, ok := builtinRoles[name]; ok {
		return info
	}
	return unknownCard
}

// Overrides returns a copy of the session overrides.
func (c *RoleCatalog) Overrides() map[string]CardInfo {
	if c == nil {
		return map[string]CardInfo{}
	}
	out := make(map[string]CardInfo, len(c.overrides))
	for name, info := range c.overrides {
		out[name] = info
	}
	return out
}
