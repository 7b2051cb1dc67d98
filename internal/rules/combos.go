package rules

// ComboRule grants Bonus when a hand covers every tag. Tags are checked twice,
// once against the roles realized in the hand and once against the distinct
// card names, and each check that passes adds the bonus.
type ComboRule struct {
	Tags  []string `json:"tags"`
	Bonus float64  `json:"bonus"`
}

// DefaultComboRules is the built-in combo list.
func DefaultComboRules() []ComboRule {
	return []ComboRule{
		{Tags: []string{"Mitsurugi Ritual", "Ame no Murakumo no Mitsurugi"}, Bonus: 2.0},
		{Tags: []string{"Ext Ryzeal", "Ice Ryzeal", "Sword Ryzeal"}, Bonus: -1.0},
		{Tags: []string{"Ext Ryzeal", "Node Ryzeal", "Sword Ryzeal"}, Bonus: -1.0},
	}
}

// SatisfiedByRoles reports whether roles contains every tag.
func (r ComboRule) SatisfiedByRoles(roles map[Role]struct{}) bool {
	for _, tag := range r.Tags {
		if _, ok := roles[Role(tag)]; !ok {
			return false
		}
	}
	return true
}

// SatisfiedByNames reports whether names contains every tag.
func (r ComboRule) SatisfiedByNames(names map[string]struct{}) bool {
	for _, tag := range r.Tags {
		if _, ok := names[tag]; !ok {
			return false
		}
	}
	return true
}
