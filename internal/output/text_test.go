package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dshills/vigil/internal/analyzer"
)

func TestTextWriter_NoFindings(t *testing.T) {
	var buf bytes.Buffer
	w := &TextWriter{}
	if err := w.Write(&buf, emptyReport()); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"unstaged", "Findings: 0 total", "No issues found", "Score: 100/100 (A)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTextWriter_WithFindings(t *testing.T) {
	report := sampleReport()
	report.Tools.Errors = []analyzer.ToolError{{Tool: "eslint", Message: "timed out after 1m0s", Timeout: true}}

	var buf bytes.Buffer
	w := &TextWriter{}
	if err := w.Write(&buf, report); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"Findings: 2 total (1 high, 1 low)",
		"Score: 91/100 (A)",
		"db/query.ts:42-45",
		"SQL injection [sql-injection]",
		"CWE-89, OWASP-A03:2021",
		"> db.query(",
		"Suggestion:",
		"HIGH (1)",
		"LOW (1)",
		"Skipped: gosec",
		"Tool error: eslint: timed out",
		"analysis: 40ms",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "HIGH") > strings.Index(out, "LOW") {
		t.Error("HIGH section should come before LOW")
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("non-terminal output should not contain ANSI escapes")
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText(strings.Repeat("word ", 40), 20)
	if len(lines) < 2 {
		t.Fatalf("expected wrapping, got %d lines", len(lines))
	}
	for _, l := range lines {
		if len(l) > 20 {
			t.Errorf("line too long: %q", l)
		}
	}
	if got := wrapText("short", 20); len(got) != 1 || got[0] != "short" {
		t.Errorf("wrapText(short) = %v", got)
	}
}
