package output

import (
	"github.com/dshills/vigil/internal/analyzer"
	"github.com/dshills/vigil/internal/finding"
	"github.com/dshills/vigil/internal/review"
	"github.com/dshills/vigil/internal/score"
)

func sampleFindings() []review.Finding {
	return []review.Finding{
		{
			ID:          "1a2b3c4d5e6f7081",
			RuleID:      "sql-injection",
			Severity:    finding.SeverityHigh,
			Category:    finding.CategorySecurity,
			Title:       "SQL injection",
			Description: "User input is interpolated into a SQL string",
			FilePath:    "db/query.ts",
			StartLine:   42,
			EndLine:     45,
			CodeSnippet: "db.query(`SELECT * FROM users WHERE id = ${id}`)",
			Suggestion:  "Use parameterized queries",
			References:  []string{"CWE-89", "OWASP-A03:2021"},
		},
		{
			ID:          "0f0e0d0c0b0a0908",
			RuleID:      "var-declaration",
			Severity:    finding.SeverityLow,
			Category:    finding.CategoryStyle,
			Title:       "var declaration",
			Description: "Prefer let or const",
			FilePath:    "util.js",
			StartLine:   5,
			EndLine:     5,
			FixDiff:     "--- a/util.js\n+++ b/util.js\n@@ -5 +5 @@\n-var x = 1;\n+let x = 1;\n",
		},
	}
}

func sampleReport() *review.Report {
	findings := sampleFindings()
	statics := make([]finding.StaticFinding, 0, len(findings))
	for _, f := range findings {
		statics = append(statics, finding.StaticFinding{Severity: f.Severity})
	}
	return &review.Report{
		Tool:     review.ToolName,
		Version:  "1.0",
		RunID:    "test-run",
		Repo:     review.RepoInfo{Root: "/tmp/repo", Head: "abc123", Branch: "main"},
		Inputs:   review.InputInfo{Mode: "staged", FilesChanged: 2, FilesScanned: 2},
		Summary:  review.ComputeSummary(findings),
		Score:    score.Compute(statics),
		Findings: findings,
		Tools: review.ToolsInfo{
			Ran:     []string{"rules", "eslint"},
			Skipped: []string{"gosec"},
			Errors:  []analyzer.ToolError{},
		},
		Timing: review.Timing{GitMs: 5, AnalysisMs: 40, TotalMs: 50},
	}
}

func emptyReport() *review.Report {
	return &review.Report{
		Tool:     review.ToolName,
		Version:  "1.0",
		Inputs:   review.InputInfo{Mode: "unstaged"},
		Repo:     review.RepoInfo{Root: "/tmp/repo", Branch: "main"},
		Summary:  review.ComputeSummary(nil),
		Score:    score.Compute(nil),
		Findings: []review.Finding{},
	}
}
