package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dshills/vigil/internal/config"
	"github.com/dshills/vigil/internal/finding"
)

var knownClasses = map[string]Class{
	"":                  ClassGeneral,
	"general":           ClassGeneral,
	"url":               ClassURL,
	"ip":                ClassIP,
	"secret":            ClassSecret,
	"hardcoded-secret":  ClassHardcodedSecret,
	"command-injection": ClassCommandInjection,
	"nesting":           ClassNesting,
	"callback-nesting":  ClassCallbackNesting,
	"comment":           ClassComment,
}

// FromCustom compiles a rule defined in the project file. Missing fields
// get conservative defaults: medium severity and confidence, the
// best-practice category, and every language.
func FromCustom(c config.CustomRule) (PatternRule, error) {
	r := PatternRule{
		ID:          strings.TrimSpace(c.ID),
		Title:       c.Title,
		Description: c.Description,
		Suggestion:  c.Suggestion,
		Severity:    finding.SeverityMedium,
		Category:    finding.CategoryBestPractice,
		Confidence:  finding.ConfidenceMedium,
		Languages:   c.Languages,
		FixTemplate: c.FixTemplate,
	}
	if r.Title == "" {
		r.Title = r.ID
	}
	if len(r.Languages) == 0 {
		r.Languages = []string{AllLanguages}
	}
	if c.Severity != "" {
		sev, ok := finding.ParseSeverity(c.Severity)
		if !ok {
			return PatternRule{}, fmt.Errorf("%w: %s: unknown severity %q", ErrInvalidRule, r.ID, c.Severity)
		}
		r.Severity = sev
	}
	if c.Category != "" {
		r.Category = finding.Category(strings.ToLower(c.Category))
	}
	if c.Confidence != "" {
		conf := finding.Confidence(strings.ToLower(c.Confidence))
		if finding.ConfidenceRank(conf) == 0 {
			return PatternRule{}, fmt.Errorf("%w: %s: unknown confidence %q", ErrInvalidRule, r.ID, c.Confidence)
		}
		r.Confidence = conf
	}
	class, ok := knownClasses[strings.ToLower(c.Class)]
	if !ok {
		return PatternRule{}, fmt.Errorf("%w: %s: unknown class %q", ErrInvalidRule, r.ID, c.Class)
	}
	r.Class = class

	var err error
	if c.Pattern != "" {
		if r.Pattern, err = regexp.Compile(c.Pattern); err != nil {
			return PatternRule{}, fmt.Errorf("%w: %s: pattern: %v", ErrInvalidRule, r.ID, err)
		}
	}
	if c.MultilinePattern != "" {
		if r.Multiline, err = regexp.Compile(c.MultilinePattern); err != nil {
			return PatternRule{}, fmt.Errorf("%w: %s: multiline_pattern: %v", ErrInvalidRule, r.ID, err)
		}
	}
	// Custom rules always need a matcher; cleaning heuristics are built in.
	if r.Pattern == nil && r.Multiline == nil {
		return PatternRule{}, fmt.Errorf("%w: %s: no pattern", ErrInvalidRule, r.ID)
	}
	if err := r.Validate(); err != nil {
		return PatternRule{}, err
	}
	return r, nil
}

// ForProject builds the rule set for a repository: the built-in rules minus
// the project's disabled IDs, followed by its custom rules. Custom rules
// that fail to compile or reuse an existing ID are skipped and reported in
// the returned error slice.
func ForProject(p config.Project, cleaning bool) (*RuleSet, []error) {
	set := Builtin(cleaning).Without(p.DisabledRules...)
	var errs []error
	for _, c := range p.Rules {
		r, err := FromCustom(c)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		next, err := set.With(r)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		set = next
	}
	return set, errs
}
