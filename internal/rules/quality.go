package rules

import (
	"regexp"

	"github.com/dshills/vigil/internal/finding"
)

var (
	braceLangs = []string{"js", "jsx", "mjs", "cjs", "ts", "tsx", "mts", "cts", "java", "kt", "cs", "php", "swift", "scala"}
	callbackFn = `(?:function\s*\w*\s*\([^()]*\)|\([^()]*\)\s*=>|\w+\s*=>)\s*\{`
)

var qualityRules = []PatternRule{
	{
		ID:          "console-log",
		Title:       "Leftover console logging",
		Description: "console.log and friends are usually debugging leftovers.",
		Suggestion:  "Remove the call or route it through the application logger.",
		Pattern:     regexp.MustCompile(`\bconsole\.(?:log|debug|trace)\s*\(`),
		Severity:    finding.SeverityLow,
		Category:    finding.CategoryStyle,
		Confidence:  finding.ConfidenceHigh,
		Languages:   jsLike,
	},
	{
		ID:          "debugger-statement",
		Title:       "debugger statement",
		Description: "A debugger statement halts execution when dev tools are open.",
		Suggestion:  "Remove the statement.",
		Pattern:     regexp.MustCompile(`^\s*debugger\s*;?\s*$`),
		Severity:    finding.SeverityMedium,
		Category:    finding.CategoryBug,
		Confidence:  finding.ConfidenceHigh,
		Languages:   jsLike,
	},
	{
		ID:          "todo-comment",
		Title:       "Unresolved TODO",
		Description: "The comment marks work that was left unfinished.",
		Suggestion:  "Resolve it or link it to a tracked issue.",
		Pattern:     regexp.MustCompile(`\b(?:TODO|FIXME|HACK|XXX)\b`),
		Severity:    finding.SeverityInfo,
		Category:    finding.CategoryMaintainability,
		Confidence:  finding.ConfidenceHigh,
		Languages:   anyLang,
		Class:       ClassComment,
	},
	{
		ID:          "empty-catch",
		Title:       "Empty catch block",
		Description: "The exception is caught and silently discarded.",
		Suggestion:  "Handle, log or rethrow the error.",
		Pattern:     regexp.MustCompile(`\bcatch\s*(?:\([^)]*\))?\s*\{\s*\}`),
		Severity:    finding.SeverityMedium,
		Category:    finding.CategoryBug,
		Confidence:  finding.ConfidenceHigh,
		Languages:   braceLangs,
	},
	{
		ID:          "python-bare-except",
		Title:       "Bare except clause",
		Description: "A bare except also catches SystemExit and KeyboardInterrupt.",
		Suggestion:  "Catch Exception or a narrower type.",
		Pattern:     regexp.MustCompile(`^(\s*)except\s*:`),
		FixTemplate: "${1}except Exception:",
		Severity:    finding.SeverityMedium,
		Category:    finding.CategoryBug,
		Confidence:  finding.ConfidenceHigh,
		Languages:   []string{"py"},
	},
	{
		ID:          "python-mutable-default",
		Title:       "Mutable default argument",
		Description: "The default value is created once and shared between calls.",
		Suggestion:  "Default to None and create the value inside the function.",
		Pattern:     regexp.MustCompile(`\bdef\s+\w+\s*\([^)]*=\s*(?:\[\]|\{\}|list\(\)|dict\(\))`),
		Severity:    finding.SeverityMedium,
		Category:    finding.CategoryBug,
		Confidence:  finding.ConfidenceHigh,
		Languages:   []string{"py"},
	},
	{
		ID:          "loose-equality",
		Title:       "Loose equality comparison",
		Description: "== and != coerce operand types before comparing.",
		Suggestion:  "Use === or !==.",
		Pattern:     regexp.MustCompile(`([^=!<>]\s)(==|!=)(\s)`),
		FixTemplate: "${1}${2}=${3}",
		Severity:    finding.SeverityLow,
		Category:    finding.CategoryStyle,
		Confidence:  finding.ConfidenceMedium,
		Languages:   jsLike,
	},
	{
		ID:          "var-declaration",
		Title:       "var declaration",
		Description: "var is function scoped and hoisted, which hides bugs.",
		Suggestion:  "Use let or const.",
		Pattern:     regexp.MustCompile(`^(\s*)var\s+`),
		FixTemplate: "${1}let ",
		Severity:    finding.SeverityLow,
		Category:    finding.CategoryStyle,
		Confidence:  finding.ConfidenceHigh,
		Languages:   jsLike,
	},
	{
		ID:          "deep-nesting",
		Title:       "Deeply nested code",
		Description: "The line is indented six or more levels deep.",
		Suggestion:  "Extract a function or return early.",
		Pattern:     regexp.MustCompile(`^(?:\t{6,}|[ ]{24,})\S`),
		Severity:    finding.SeverityLow,
		Category:    finding.CategoryMaintainability,
		Confidence:  finding.ConfidenceLow,
		Languages:   anyLang,
		Class:       ClassNesting,
	},
	{
		ID:          "callback-nesting",
		Title:       "Nested callbacks",
		Description: "Three or more levels of nested callbacks make control flow hard to follow.",
		Suggestion:  "Flatten with async/await or named functions.",
		Multiline:   regexp.MustCompile(callbackFn + `[^{}]*` + callbackFn + `[^{}]*` + callbackFn),
		Severity:    finding.SeverityMedium,
		Category:    finding.CategoryMaintainability,
		Confidence:  finding.ConfidenceMedium,
		Languages:   jsLike,
		Class:       ClassCallbackNesting,
	},
	{
		ID:          "await-in-loop",
		Title:       "await inside a loop",
		Description: "Awaiting inside a for loop serializes work that could run concurrently.",
		Suggestion:  "Collect the promises and await Promise.all.",
		Multiline:   regexp.MustCompile(`\bfor\s*\([^)]*\)\s*\{[^{}]*\bawait\b`),
		Severity:    finding.SeverityMedium,
		Category:    finding.CategoryPerformance,
		Confidence:  finding.ConfidenceMedium,
		Languages:   jsLike,
	},
	{
		ID:          "go-ignored-error",
		Title:       "Discarded return value",
		Description: "The result of a call, usually an error, is assigned to the blank identifier.",
		Suggestion:  "Handle the error or document why it is safe to ignore.",
		Pattern:     regexp.MustCompile(`^\s*_\s*=\s*[\w.]+\(`),
		Severity:    finding.SeverityLow,
		Category:    finding.CategoryBug,
		Confidence:  finding.ConfidenceLow,
		Languages:   []string{"go"},
	},
	{
		ID:          "go-defer-in-loop",
		Title:       "defer inside a loop",
		Description: "Deferred calls run at function exit, so resources pile up until the loop finishes.",
		Suggestion:  "Move the loop body into a function or release the resource explicitly.",
		Multiline:   regexp.MustCompile(`\bfor\b[^{\n]*\{[^{}]*\bdefer\b`),
		Severity:    finding.SeverityMedium,
		Category:    finding.CategoryPerformance,
		Confidence:  finding.ConfidenceMedium,
		Languages:   []string{"go"},
	},
	{
		ID:          "typescript-any",
		Title:       "Explicit any type",
		Description: "any disables type checking for the value.",
		Suggestion:  "Use a concrete type or unknown.",
		Pattern:     regexp.MustCompile(`:\s*any\b`),
		Severity:    finding.SeverityLow,
		Category:    finding.CategoryStyle,
		Confidence:  finding.ConfidenceMedium,
		Languages:   []string{"ts", "tsx", "mts", "cts"},
	},
}
