package analyzer

import (
	"fmt"
	"strings"
)

// ExternalTools maps the configurable tool names to their constructors.
var ExternalTools = map[string]func() *External{
	"gosec":   Gosec,
	"bandit":  Bandit,
	"eslint":  ESLint,
	"semgrep": Semgrep,
}

// Build returns analyzers for names in the given order. The rule engine is
// registered as RulesName and must be supplied by the caller since it needs
// a rule set.
func Build(names []string, ruleEngine Analyzer) ([]Analyzer, error) {
	var out []Analyzer
	seen := map[string]bool{}
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		if name == RulesName {
			if ruleEngine != nil {
				out = append(out, ruleEngine)
			}
			continue
		}
		ctor, ok := ExternalTools[name]
		if !ok {
			return nil, fmt.Errorf("unknown tool %q", raw)
		}
		out = append(out, ctor())
	}
	return out, nil
}
