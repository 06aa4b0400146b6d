package rules

import (
	"sync"

	"github.com/dshills/vigil/internal/finding"
)

// Code-cleaning rule IDs. The scan engine implements these as file-level
// heuristics.
const (
	RuleFileTooLong     = "file-too-long"
	RuleFunctionTooLong = "function-too-long"
	RuleComplexity      = "high-cyclomatic-complexity"
	RuleDuplicateCode   = "duplicate-code"
	RuleMixedQuoteStyle = "mixed-quote-style"
)

var cleaningRules = []PatternRule{
	{
		ID:          RuleFileTooLong,
		Title:       "File too long",
		Description: "The file exceeds the line limit and likely mixes responsibilities.",
		Suggestion:  "Split the file by responsibility.",
		Severity:    finding.SeverityLow,
		Category:    finding.CategoryCodeCleaning,
		Confidence:  finding.ConfidenceHigh,
		Languages:   anyLang,
	},
	{
		ID:          RuleFunctionTooLong,
		Title:       "Function too long",
		Description: "The function body exceeds the line limit.",
		Suggestion:  "Extract helpers for the distinct steps.",
		Severity:    finding.SeverityMedium,
		Category:    finding.CategoryCodeCleaning,
		Confidence:  finding.ConfidenceMedium,
		Languages:   anyLang,
	},
	{
		ID:          RuleComplexity,
		Title:       "High cyclomatic complexity",
		Description: "The function has many independent branches.",
		Suggestion:  "Reduce branching with early returns or lookup tables.",
		Severity:    finding.SeverityMedium,
		Category:    finding.CategoryCodeCleaning,
		Confidence:  finding.ConfidenceMedium,
		Languages:   anyLang,
	},
	{
		ID:          RuleDuplicateCode,
		Title:       "Duplicated code block",
		Description: "The same block of lines appears more than once in the file.",
		Suggestion:  "Extract the block into a shared function.",
		Severity:    finding.SeverityLow,
		Category:    finding.CategoryCodeCleaning,
		Confidence:  finding.ConfidenceMedium,
		Languages:   anyLang,
	},
	{
		ID:          RuleMixedQuoteStyle,
		Title:       "Mixed quote style",
		Description: "String literals use both single and double quotes.",
		Suggestion:  "Pick one quote style and enforce it with a formatter.",
		Severity:    finding.SeverityInfo,
		Category:    finding.CategoryCodeCleaning,
		Confidence:  finding.ConfidenceHigh,
		Languages:   []string{"js", "jsx", "mjs", "cjs", "ts", "tsx", "mts", "cts", "py", "rb", "php"},
	},
}

// Security returns the built-in security rules.
func Security() []PatternRule { return clone(securityRules) }

// Quality returns the built-in bug, style and maintainability rules.
func Quality() []PatternRule { return clone(qualityRules) }

// Contracts returns the rules for the evm chain.
func Contracts() []PatternRule { return clone(contractRules) }

// Cleaning returns the code-cleaning rules.
func Cleaning() []PatternRule { return clone(cleaningRules) }

func clone(rs []PatternRule) []PatternRule {
	out := make([]PatternRule, len(rs))
	copy(out, rs)
	return out
}

var (
	builtinOnce sync.Once
	builtin     *RuleSet
	withClean   *RuleSet
)

func loadBuiltin() {
	base := append(append(Security(), Quality()...), Contracts()...)
	builtin = MustRuleSet(base)
	withClean = MustRuleSet(append(base, Cleaning()...))
}

// Builtin returns the default rule set. With cleaning set, the code-cleaning
// heuristics are included.
func Builtin(cleaning bool) *RuleSet {
	builtinOnce.Do(loadBuiltin)
	if cleaning {
		return withClean
	}
	return builtin
}
