package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dshills/vigil/internal/finding"
	"github.com/dshills/vigil/internal/review"
)

// TextWriter outputs a human-readable text report. Colors are used only when
// the destination is a terminal.
type TextWriter struct{}

type textStyles struct {
	title    lipgloss.Style
	muted    lipgloss.Style
	location lipgloss.Style
	severity map[finding.Severity]lipgloss.Style
}

func newTextStyles(w io.Writer) textStyles {
	r := lipgloss.NewRenderer(w)
	return textStyles{
		title:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("#3B82F6")),
		muted:    r.NewStyle().Foreground(lipgloss.Color("#64748B")),
		location: r.NewStyle().Bold(true),
		severity: map[finding.Severity]lipgloss.Style{
			finding.SeverityCritical: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#DC2626")),
			finding.SeverityHigh:     r.NewStyle().Bold(true).Foreground(lipgloss.Color("#F87171")),
			finding.SeverityMedium:   r.NewStyle().Foreground(lipgloss.Color("#FBBF24")),
			finding.SeverityLow:      r.NewStyle().Foreground(lipgloss.Color("#10B981")),
			finding.SeverityInfo:     r.NewStyle().Foreground(lipgloss.Color("#64748B")),
		},
	}
}

func (t *TextWriter) Write(w io.Writer, report *review.Report) error {
	ew := &errWriter{w: w}
	st := newTextStyles(w)
	counts := report.Summary.Counts
	total := report.Summary.Total

	ew.println(st.title.Render(fmt.Sprintf("Vigil Static Analysis (%s mode)", report.Inputs.Mode)))
	if report.Inputs.Range != "" {
		ew.printf("Range: %s\n", report.Inputs.Range)
	}
	if report.Inputs.Target != "" {
		ew.printf("Target: %s\n", report.Inputs.Target)
	}
	if report.Repo.Branch != "" {
		ew.printf("Repository: %s (branch: %s)\n", report.Repo.Root, report.Repo.Branch)
	} else if report.Repo.Root != "" {
		ew.printf("Repository: %s\n", report.Repo.Root)
	}
	ew.println(strings.Repeat("─", 60))
	ew.printf("Score: %d/100 (%s)\n", report.Score.Score, report.Score.Grade)
	ew.printf("Findings: %d total", total)
	if total > 0 {
		var parts []string
		for _, sev := range finding.Severities {
			if n := counts.Get(sev); n > 0 {
				parts = append(parts, fmt.Sprintf("%d %s", n, sev))
			}
		}
		ew.printf(" (%s)", strings.Join(parts, ", "))
	}
	ew.println("")
	if report.Summary.Omitted > 0 {
		ew.printf("Showing the first %d; %d omitted by maxFindings\n", len(report.Findings), report.Summary.Omitted)
	}
	ew.printf("Files: %d changed, %d scanned\n", report.Inputs.FilesChanged, report.Inputs.FilesScanned)
	if len(report.Tools.Ran) > 0 {
		ew.printf("Tools: %s\n", strings.Join(report.Tools.Ran, ", "))
	}
	if len(report.Tools.Skipped) > 0 {
		ew.println(st.muted.Render("Skipped: " + strings.Join(report.Tools.Skipped, ", ")))
	}
	for _, te := range report.Tools.Errors {
		ew.printf("Tool error: %s: %s\n", te.Tool, te.Message)
	}
	ew.println(strings.Repeat("─", 60))

	if total == 0 {
		ew.println("\nNo issues found. Looks good!")
		return ew.err
	}

	grouped := groupBySeverity(report.Findings)
	for _, sev := range finding.Severities {
		findings := grouped[sev]
		if len(findings) == 0 {
			continue
		}
		style := st.severity[sev]
		ew.printf("\n%s\n", style.Render(fmt.Sprintf("%s %s (%d)", severityIcon(sev), strings.ToUpper(string(sev)), len(findings))))
		ew.println(strings.Repeat("─", 40))

		for _, f := range findings {
			ew.printf("\n  %s  %s [%s]\n",
				st.location.Render(fmt.Sprintf("%s:%d-%d", f.FilePath, f.StartLine, f.EndLine)), f.Title, f.RuleID)
			meta := "Category: " + string(f.Category)
			if len(f.References) > 0 {
				meta += " | " + strings.Join(f.References, ", ")
			}
			ew.printf("  %s\n", st.muted.Render(meta))

			if f.Description != "" {
				for _, line := range wrapText(f.Description, 70) {
					ew.printf("    %s\n", line)
				}
			}
			if f.CodeSnippet != "" {
				for _, line := range strings.Split(f.CodeSnippet, "\n") {
					ew.printf("    > %s\n", line)
				}
			}
			if f.Suggestion != "" {
				ew.println("  Suggestion:")
				for _, line := range wrapText(f.Suggestion, 70) {
					ew.printf("    %s\n", line)
				}
			}
		}
	}

	ew.printf("\n%s\n", strings.Repeat("─", 60))
	ew.printf("Completed in %dms (git: %dms, analysis: %dms)\n",
		report.Timing.TotalMs, report.Timing.GitMs, report.Timing.AnalysisMs)

	return ew.err
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}

// groupBySeverity buckets findings, preserving their order within a bucket.
func groupBySeverity(findings []review.Finding) map[finding.Severity][]review.Finding {
	m := make(map[finding.Severity][]review.Finding)
	for _, f := range findings {
		m[f.Severity] = append(m[f.Severity], f)
	}
	return m
}

func severityIcon(s finding.Severity) string {
	switch s {
	case finding.SeverityCritical:
		return "[!!!]"
	case finding.SeverityHigh:
		return "[!!]"
	case finding.SeverityMedium:
		return "[!]"
	case finding.SeverityLow:
		return "[-]"
	default:
		return "[i]"
	}
}

func wrapText(text string, width int) []string {
	if len(text) <= width {
		return []string{text}
	}
	var lines []string
	words := strings.Fields(text)
	var current strings.Builder
	for _, word := range words {
		if current.Len()+len(word)+1 > width && current.Len() > 0 {
			lines = append(lines, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return lines
}
