package scan

import (
	"github.com/dshills/vigil/internal/finding"
	"github.com/dshills/vigil/internal/rules"
)

// Tool is the analyzer name stamped on rule-engine findings.
const Tool = "vigil-rules"

// FileResult is the outcome of scanning one file.
type FileResult struct {
	Findings []finding.StaticFinding
	// Suppressed counts matches dropped per false-positive filter.
	Suppressed map[string]int
}

// ScanFile scans content as the file at path. A nil or empty ranges map
// disables line filtering.
func ScanFile(path, content string, set *rules.RuleSet, ranges finding.LineRanges) []finding.StaticFinding {
	return scanFile(path, content, set, ranges).Findings
}

func scanFile(path, content string, set *rules.RuleSet, ranges finding.LineRanges) FileResult {
	res := FileResult{Suppressed: map[string]int{}}
	if set.Len() == 0 || content == "" {
		return res
	}
	if spans, ok := ranges.For(path); ok && len(spans) == 0 {
		return res
	}

	fc := newFileContext(path)
	lines := splitLines(content)
	applicable := set.ForFile(path)

	res.Findings = append(res.Findings, scanLines(fc, lines, applicable, ranges, res.Suppressed)...)
	res.Findings = append(res.Findings, scanMultiline(fc, content, lines, applicable, ranges, res.Suppressed)...)
	if set.HasCategory(finding.CategoryCodeCleaning) && !fc.isDoc && !fc.isConfig {
		res.Findings = append(res.Findings, clean(fc, lines, applicable, ranges)...)
	}

	if fc.isTest {
		for i := range res.Findings {
			res.Findings[i].Severity = finding.SeverityInfo
		}
	}
	return res
}

func newFinding(r rules.PatternRule, path string, lines []string, start, end int) finding.StaticFinding {
	return finding.StaticFinding{
		Tool:        Tool,
		RuleID:      r.ID,
		Severity:    r.Severity,
		Category:    r.Category,
		Title:       r.Title,
		Description: r.Description,
		FilePath:    path,
		StartLine:   start,
		EndLine:     end,
		CodeSnippet: snippet(lines, start, end),
		Suggestion:  r.Suggestion,
		Confidence:  r.Confidence,
	}
}

func scanLines(fc fileContext, lines []string, applicable []rules.PatternRule, ranges finding.LineRanges, suppressedBy map[string]int) []finding.StaticFinding {
	var out []finding.StaticFinding
	for _, r := range applicable {
		if r.Pattern == nil {
			continue
		}
		for i, line := range lines {
			n := i + 1
			if !ranges.AllowsLine(fc.path, n) || !r.Pattern.MatchString(line) {
				continue
			}
			if name := suppressed(r, fc, line); name != "" {
				suppressedBy[name]++
				continue
			}
			f := newFinding(r, fc.path, lines, n, n)
			if fixed, ok := r.LineFix(line); ok {
				if patch, err := rules.FixDiff(fc.path, lines, n, n, []string{fixed}); err == nil {
					f.FixDiff = patch
				}
			}
			out = append(out, f)
		}
	}
	return out
}

func scanMultiline(fc fileContext, content string, lines []string, applicable []rules.PatternRule, ranges finding.LineRanges, suppressedBy map[string]int) []finding.StaticFinding {
	var out []finding.StaticFinding
	var index lineIndex
	for _, r := range applicable {
		if r.Multiline == nil {
			continue
		}
		if index.starts == nil {
			index = buildLineIndex(content)
		}
		for _, loc := range r.Multiline.FindAllStringIndex(content, -1) {
			start, end := index.span(loc[0], loc[1])
			end = min(end, len(lines))
			if start > end || !ranges.Allows(fc.path, start, end) {
				continue
			}
			if name := suppressed(r, fc, lines[start-1]); name != "" {
				suppressedBy[name]++
				continue
			}
			f := newFinding(r, fc.path, lines, start, end)
			if repl, ok := r.MultilineFixFor(lines, start, end, content[loc[0]:loc[1]]); ok {
				if patch, err := rules.FixDiff(fc.path, lines, start, end, repl); err == nil {
					f.FixDiff = patch
				}
			}
			out = append(out, f)
		}
	}
	return out
}
