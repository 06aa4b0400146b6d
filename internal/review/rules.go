package review

import (
	"fmt"

	"github.com/dshills/vigil/internal/finding"
)

// SeverityOverrides rewrites the severity of every finding in a category.
type SeverityOverrides map[finding.Category]finding.Severity

// ParseOverrides validates the category -> severity table from the project
// file.
func ParseOverrides(raw map[string]string) (SeverityOverrides, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(SeverityOverrides, len(raw))
	for cat, sev := range raw {
		s, ok := finding.ParseSeverity(sev)
		if !ok {
			return nil, fmt.Errorf("severity override for %q: unknown severity %q", cat, sev)
		}
		out[finding.Category(cat)] = s
	}
	return out, nil
}

// ApplySeverityOverrides post-processes findings to enforce the overrides.
// Findings are modified in place and returned.
func ApplySeverityOverrides(findings []finding.StaticFinding, overrides SeverityOverrides) []finding.StaticFinding {
	if len(overrides) == 0 {
		return findings
	}
	for i := range findings {
		if sev, ok := overrides[findings[i].Category]; ok {
			findings[i].Severity = sev
		}
	}
	return findings
}
