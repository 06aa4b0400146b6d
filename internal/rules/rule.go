package rules

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/dshills/vigil/internal/classify"
	"github.com/dshills/vigil/internal/finding"
)

var (
	// ErrInvalidRule is returned for a rule that cannot be evaluated.
	ErrInvalidRule = errors.New("invalid rule")
	// ErrDuplicateRule is returned when two rules share an ID.
	ErrDuplicateRule = errors.New("duplicate rule id")
)

// AllLanguages makes a rule applicable to every file.
const AllLanguages = "*"

// Class groups rules that share false-positive handling.
type Class string

const (
	ClassGeneral          Class = ""
	ClassURL              Class = "url"
	ClassIP               Class = "ip"
	ClassSecret           Class = "secret"
	ClassHardcodedSecret  Class = "hardcoded-secret"
	ClassCommandInjection Class = "command-injection"
	ClassNesting          Class = "nesting"
	ClassCallbackNesting  Class = "callback-nesting"
	ClassComment          Class = "comment"
)

// IsSecret reports whether the class covers credential material.
func (c Class) IsSecret() bool {
	return c == ClassSecret || c == ClassHardcodedSecret
}

// FixFunc rewrites one matched line. It returns false when no fix applies.
type FixFunc func(line string) (string, bool)

// MultilineFixFunc rewrites the text matched by a multiline pattern.
type MultilineFixFunc func(match string) (string, bool)

// PatternRule is one entry of a rule set.
type PatternRule struct {
	ID          string
	Title       string
	Description string
	Suggestion  string

	Pattern   *regexp.Regexp
	Multiline *regexp.Regexp

	Severity   finding.Severity
	Category   finding.Category
	Confidence finding.Confidence

	// Languages holds extensions without the dot, or AllLanguages.
	Languages []string
	// Chains restricts the rule to files of these classification chains.
	Chains []string
	Class  Class

	// FixTemplate is a Pattern replacement, expanded per matched line.
	FixTemplate  string
	Fix          FixFunc
	MultilineFix MultilineFixFunc
}

// Validate checks that the rule can be evaluated.
func (r PatternRule) Validate() error {
	switch {
	case strings.TrimSpace(r.ID) == "":
		return fmt.Errorf("%w: empty id", ErrInvalidRule)
	case len(r.Languages) == 0:
		return fmt.Errorf("%w: %s: no languages", ErrInvalidRule, r.ID)
	case r.Pattern == nil && r.Multiline == nil && r.Category != finding.CategoryCodeCleaning:
		return fmt.Errorf("%w: %s: no pattern", ErrInvalidRule, r.ID)
	case finding.SeverityRank(r.Severity) == 0:
		return fmt.Errorf("%w: %s: unknown severity %q", ErrInvalidRule, r.ID, r.Severity)
	case r.FixTemplate != "" && r.Pattern == nil:
		return fmt.Errorf("%w: %s: fix template without line pattern", ErrInvalidRule, r.ID)
	}
	for _, l := range r.Languages {
		if strings.TrimSpace(l) == "" {
			return fmt.Errorf("%w: %s: blank language", ErrInvalidRule, r.ID)
		}
	}
	return nil
}

// AppliesTo reports whether the rule should run against path.
func (r PatternRule) AppliesTo(path string) bool {
	c := classify.Classify(path)
	if len(r.Chains) > 0 && !contains(r.Chains, c.Chain) {
		return false
	}
	ext := classify.Ext(path)
	for _, l := range r.Languages {
		if l == AllLanguages || strings.EqualFold(strings.TrimPrefix(l, "."), ext) {
			return true
		}
	}
	return false
}

// HasFix reports whether any fix mechanism is attached.
func (r PatternRule) HasFix() bool {
	return r.FixTemplate != "" || r.Fix != nil || r.MultilineFix != nil
}

func contains(list []string, s string) bool {
	if s == "" {
		return false
	}
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
