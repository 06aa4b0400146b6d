package output

import (
	"io"
	"path"
	"strings"

	"github.com/dshills/vigil/internal/classify"
	"github.com/dshills/vigil/internal/finding"
	"github.com/dshills/vigil/internal/review"
)

// MarkdownWriter outputs a PR-comment-friendly markdown report.
type MarkdownWriter struct{}

func (m *MarkdownWriter) Write(w io.Writer, report *review.Report) error {
	ew := &errWriter{w: w}
	total := report.Summary.Total

	ew.printf("## Vigil Static Analysis\n\n")
	ew.printf("**Score: %d/100 (%s)** | mode: `%s`", report.Score.Score, report.Score.Grade, report.Inputs.Mode)
	if report.Inputs.Range != "" {
		ew.printf(" | range: `%s`", report.Inputs.Range)
	}
	ew.printf("\n\n")

	ew.printf("| Severity | Count | Deduction |\n")
	ew.printf("|----------|-------|-----------|\n")
	for _, sev := range finding.Severities {
		b := report.Score.Breakdown[sev]
		ew.printf("| %s | %d | %d |\n", titleCase(string(sev)), report.Summary.Counts.Get(sev), b.Deduction)
	}
	ew.printf("| **Total** | **%d** | |\n\n", total)

	if len(report.Tools.Errors) > 0 {
		ew.printf("> [!WARNING]\n")
		for _, te := range report.Tools.Errors {
			ew.printf("> `%s` failed: %s\n", te.Tool, te.Message)
		}
		ew.printf("\n")
	}

	if total == 0 {
		ew.println("No issues found. :white_check_mark:")
		return ew.err
	}

	grouped := groupBySeverity(report.Findings)
	for _, sev := range finding.Severities {
		findings := grouped[sev]
		if len(findings) == 0 {
			continue
		}

		ew.printf("<details>\n<summary>%s %s (%d)</summary>\n\n", mdSeverityIcon(sev), strings.ToUpper(string(sev)), len(findings))
		for _, f := range findings {
			ew.printf("### %s\n\n", f.Title)
			ew.printf("**`%s:%d-%d`** | `%s` | %s", f.FilePath, f.StartLine, f.EndLine, f.RuleID, f.Category)
			if len(f.References) > 0 {
				ew.printf(" | %s", strings.Join(f.References, ", "))
			}
			ew.printf("\n\n")
			if f.Description != "" {
				ew.printf("%s\n\n", f.Description)
			}
			lang := inferLang(f.FilePath)
			if f.CodeSnippet != "" {
				ew.printf("```%s\n%s\n```\n\n", lang, f.CodeSnippet)
			}
			if f.Suggestion != "" {
				ew.printf("**Suggestion:** %s\n\n", f.Suggestion)
			}
			if f.FixDiff != "" {
				ew.printf("```diff\n%s\n```\n\n", strings.TrimRight(f.FixDiff, "\n"))
			}
			ew.printf("---\n\n")
		}
		ew.printf("</details>\n\n")
	}

	if report.Summary.Omitted > 0 {
		ew.printf("*%d more findings omitted.*\n\n", report.Summary.Omitted)
	}
	ew.printf("*Scanned in %dms with %s*\n", report.Timing.TotalMs, strings.Join(report.Tools.Ran, ", "))
	return ew.err
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func mdSeverityIcon(s finding.Severity) string {
	switch s {
	case finding.SeverityCritical:
		return ":no_entry:"
	case finding.SeverityHigh:
		return ":red_circle:"
	case finding.SeverityMedium:
		return ":orange_circle:"
	case finding.SeverityLow:
		return ":yellow_circle:"
	default:
		return ":white_circle:"
	}
}

// fenceLangs overrides code fence names that differ from the classifier's
// language tag.
var fenceLangs = map[string]string{
	"tsx":  "tsx",
	"jsx":  "jsx",
	"sh":   "bash",
	"bash": "bash",
	"zsh":  "bash",
	"yaml": "yaml",
	"yml":  "yaml",
	"json": "json",
	"tf":   "hcl",
}

func inferLang(p string) string {
	ext := classify.Ext(path.Base(p))
	if lang, ok := fenceLangs[ext]; ok {
		return lang
	}
	if lang := classify.Classify(p).Language; lang != classify.Unknown {
		return string(lang)
	}
	return ""
}
