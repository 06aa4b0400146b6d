package rules

import (
	"fmt"

	"github.com/dshills/vigil/internal/finding"
)

// RuleSet is an ordered, validated and immutable list of rules.
type RuleSet struct {
	rules []PatternRule
	byID  map[string]int
}

// NewRuleSet validates rules and returns them as a set. The input order is
// kept, since it decides the order findings are produced in.
func NewRuleSet(rules []PatternRule) (*RuleSet, error) {
	s := &RuleSet{
		rules: make([]PatternRule, 0, len(rules)),
		byID:  make(map[string]int, len(rules)),
	}
	for _, r := range rules {
		if err := r.Validate(); err != nil {
			return nil, err
		}
		if _, dup := s.byID[r.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRule, r.ID)
		}
		s.byID[r.ID] = len(s.rules)
		r.Languages = append([]string(nil), r.Languages...)
		r.Chains = append([]string(nil), r.Chains...)
		s.rules = append(s.rules, r)
	}
	return s, nil
}

// MustRuleSet is NewRuleSet for static tables; it panics on an invalid rule.
func MustRuleSet(rules []PatternRule) *RuleSet {
	s, err := NewRuleSet(rules)
	if err != nil {
		panic(err)
	}
	return s
}

// Len returns the number of rules.
func (s *RuleSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.rules)
}

// Rules returns a copy of the rules in order.
func (s *RuleSet) Rules() []PatternRule {
	if s == nil {
		return nil
	}
	out := make([]PatternRule, len(s.rules))
	copy(out, s.rules)
	return out
}

// Get looks a rule up by ID.
func (s *RuleSet) Get(id string) (PatternRule, bool) {
	if s == nil {
		return PatternRule{}, false
	}
	i, ok := s.byID[id]
	if !ok {
		return PatternRule{}, false
	}
	return s.rules[i], true
}

// ForFile returns the rules applicable to path, in set order.
func (s *RuleSet) ForFile(path string) []PatternRule {
	if s == nil {
		return nil
	}
	var out []PatternRule
	for _, r := range s.rules {
		if r.AppliesTo(path) {
			out = append(out, r)
		}
	}
	return out
}

// HasCategory reports whether any rule has the category.
func (s *RuleSet) HasCategory(c finding.Category) bool {
	if s == nil {
		return false
	}
	for _, r := range s.rules {
		if r.Category == c {
			return true
		}
	}
	return false
}

// Filter returns a new set holding the rules keep accepts.
func (s *RuleSet) Filter(keep func(PatternRule) bool) *RuleSet {
	out := &RuleSet{byID: map[string]int{}}
	if s == nil {
		return out
	}
	for _, r := range s.rules {
		if keep(r) {
			out.byID[r.ID] = len(out.rules)
			out.rules = append(out.rules, r)
		}
	}
	return out
}

// Without returns a new set minus the given IDs. Unknown IDs are ignored.
func (s *RuleSet) Without(ids ...string) *RuleSet {
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	return s.Filter(func(r PatternRule) bool { return !drop[r.ID] })
}

// With returns a new set with extra rules appended after the existing ones.
func (s *RuleSet) With(extra ...PatternRule) (*RuleSet, error) {
	return NewRuleSet(append(s.Rules(), extra...))
}
