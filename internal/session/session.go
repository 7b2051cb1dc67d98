// Package session reads and writes the line-oriented rule configuration:
// role overrides, weight overrides and hand patterns.
//
// Format, one entry per line:
//
//	Ash Blossom & Joyous Spring=handtrap,true      role override
//	Ash Blossom & Joyous Spring=0.5,1.5            weight override
//	Bonfire,Ice Ryzeal|extender:1,handtrap:1|2.5   hand pattern (value optional)
//
// Blank lines and lines starting with '#' are ignored. Malformed lines are
// skipped and the rest of the text still applies.
package session

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/ramonehamilton/handsim/internal/rules"
)

// Session is the user-editable part of a ruleset.
type Session struct {
	Roles    map[string]rules.CardInfo    `json:"roles"`
	Weights  map[string]rules.WeightEntry `json:"weights"`
	Patterns []*rules.HandPattern         `json:"patterns"`

	// Skipped is the number of malformed lines Parse ignored.
	Skipped int `json:"skipped"`
}

// New returns an empty session.
func New() *Session {
	return &Session{
		Roles:   make(map[string]rules.CardInfo),
		Weights: make(map[string]rules.WeightEntry),
	}
}

// Parse reads rule configuration text. It never fails: lines it cannot
// interpret are counted in Skipped. Later lines for the same card win.
func Parse(text string) *Session {
	s := New()
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var ok bool
		switch {
		case strings.Contains(line, "="):
			ok = s.parseOverride(line)
		case strings.Contains(line, "|"):
			ok = s.parsePattern(line)
		}
		if !ok {
			s.Skipped++
		}
	}
	return s
}

// parseOverride handles "name=role,opt" and "name=first,second". The line is
// a role line when its first value is a known role. Values after the second
// are ignored.
func (s *Session) parseOverride(line string) bool {
	key, val, _ := strings.Cut(line, "=")
	name := strings.TrimSpace(key)
	if name == "" {
		return false
	}

	fields := strings.Split(val, ",")
	if len(fields) < 2 {
		return false
	}

	if role, known := rules.ParseRole(fields[0]); known {
		s.Roles[name] = rules.CardInfo{
			Role: role,
			OPT:  strings.EqualFold(strings.TrimSpace(fields[1]), "true"),
		}
		return true
	}

	first, err := parseFloat(fields[0])
	if err != nil {
		return false
	}
	second, err := parseFloat(fields[1])
	if err != nil {
		return false
	}
	s.Weights[name] = rules.WeightEntry{First: first, Second: second}
	return true
}

// parsePattern handles "cards|role:count,...|value".
func (s *Session) parsePattern(line string) bool {
	parts := strings.Split(line, "|")
	if len(parts) < 2 || len(parts) > 3 {
		return false
	}

	var cards []string
	for _, c := range strings.Split(parts[0], ",") {
		if c = strings.TrimSpace(c); c != "" {
			cards = append(cards, c)
		}
	}

	roles := make(map[rules.Role]int)
	for _, pair := range strings.Split(parts[1], ",") {
		if strings.TrimSpace(pair) == "" {
			continue
		}
		roleText, countText, found := strings.Cut(pair, ":")
		if !found {
			return false
		}
		role, _ := rules.ParseRole(roleText)
		if role == "" {
			return false
		}
		count, err := strconv.Atoi(strings.TrimSpace(countText))
		if err != nil {
			return false
		}
		roles[role] = count
	}

	pattern := rules.NewHandPattern(cards, roles)
	if len(parts) == 3 && strings.TrimSpace(parts[2]) != "" {
		value, err := parseFloat(parts[2])
		if err != nil {
			return false
		}
		pattern.Value = value
	}

	s.Patterns = append(s.Patterns, pattern)
	return true
}

func parseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, strconv.ErrRange
	}
	return v, nil
}

// Encode renders the session in the format Parse reads: role overrides and
// weight overrides sorted by card name, then patterns in order. Role
// overrides outside rules.KnownRoles are left out since Parse cannot read
// them back.
func Encode(s *Session) string {
	var b strings.Builder

	for _, name := range sortedKeys(s.Roles) {
		info := s.Roles[name]
		if !rules.IsKnownRole(info.Role) {
			continue
		}
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(string(info.Role))
		b.WriteByte(',')
		b.WriteString(strconv.FormatBool(info.OPT))
		b.WriteByte('\n')
	}

	for _, name := range sortedKeys(s.Weights) {
		w := s.Weights[name]
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(formatFloat(w.First))
		b.WriteByte(',')
		b.WriteString(formatFloat(w.Second))
		b.WriteByte('\n')
	}

	for _, p := range s.Patterns {
		b.WriteString(strings.Join(p.RequiredCards, ","))
		b.WriteByte('|')
		for i, role := range p.SortedRoles() {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(string(role))
			b.WriteByte(':')
			b.WriteString(strconv.Itoa(p.RequiredRoles[role]))
		}
		b.WriteByte('|')
		b.WriteString(formatFloat(p.Value))
		b.WriteByte('\n')
	}

	return b.String()
}

// Ruleset builds a ruleset from the session's overrides, the default combo
// rules and copies of the session's patterns.
func (s *Session) Ruleset() *rules.Ruleset {
	patterns := make([]*rules.HandPattern, len(s.Patterns))
	for i, p := range s.Patterns {
		patterns[i] = p.Clone()
	}
	return &rules.Ruleset{
		Roles:    rules.NewRoleCatalog(s.Roles),
		Weights:  rules.NewWeightTable(s.Weights),
		Combos:   rules.DefaultComboRules(),
		Patterns: patterns,
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
