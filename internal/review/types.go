package review

import (
	"github.com/dshills/vigil/internal/analyzer"
	"github.com/dshills/vigil/internal/finding"
	"github.com/dshills/vigil/internal/score"
)

// Finding is a reported issue. It carries the analyzer's location and rule
// metadata but not which tool produced it or how confident it was.
type Finding struct {
	ID          string           `json:"id"`
	RuleID      string           `json:"ruleId"`
	Severity    finding.Severity `json:"severity"`
	Category    finding.Category `json:"category"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	FilePath    string           `json:"filePath"`
	StartLine   int              `json:"startLine"`
	EndLine     int              `json:"endLine"`
	CodeSnippet string           `json:"codeSnippet,omitempty"`
	Suggestion  string           `json:"suggestion,omitempty"`
	FixDiff     string           `json:"fixDiff,omitempty"`
	References  []string         `json:"references,omitempty"`
}

// FromStatic converts an analyzer finding for the report.
func FromStatic(f finding.StaticFinding) Finding {
	return Finding{
		ID:          f.Fingerprint(),
		RuleID:      f.RuleID,
		Severity:    f.Severity,
		Category:    f.Category,
		Title:       f.Title,
		Description: f.Description,
		FilePath:    f.FilePath,
		StartLine:   f.StartLine,
		EndLine:     f.EndLine,
		CodeSnippet: f.CodeSnippet,
		Suggestion:  f.Suggestion,
		FixDiff:     f.FixDiff,
		References:  References(f.RuleID),
	}
}

// RepoInfo contains repository metadata.
type RepoInfo struct {
	Root   string `json:"root"`
	Head   string `json:"head,omitempty"`
	Branch string `json:"branch,omitempty"`
}

// InputInfo describes what was scanned.
type InputInfo struct {
	Mode          string   `json:"mode"`
	Range         string   `json:"range,omitempty"`
	Target        string   `json:"target,omitempty"`
	FilesChanged  int      `json:"filesChanged"`
	FilesScanned  int      `json:"filesScanned"`
	FilesSkipped  int      `json:"filesSkipped"`
	PathsExcluded []string `json:"pathsExcluded,omitempty"`
	Discovery     string   `json:"discovery,omitempty"`
	Truncated     bool     `json:"truncated,omitempty"`
}

// SeverityCounts holds counts by severity level.
type SeverityCounts struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
	Info     int `json:"info"`
}

func (c *SeverityCounts) add(s finding.Severity) {
	switch s {
	case finding.SeverityCritical:
		c.Critical++
	case finding.SeverityHigh:
		c.High++
	case finding.SeverityMedium:
		c.Medium++
	case finding.SeverityLow:
		c.Low++
	case finding.SeverityInfo:
		c.Info++
	}
}

// Get returns the count for s.
func (c SeverityCounts) Get(s finding.Severity) int {
	switch s {
	case finding.SeverityCritical:
		return c.Critical
	case finding.SeverityHigh:
		return c.High
	case finding.SeverityMedium:
		return c.Medium
	case finding.SeverityLow:
		return c.Low
	case finding.SeverityInfo:
		return c.Info
	}
	return 0
}

// Summary provides an overview of findings.
type Summary struct {
	Total           int              `json:"total"`
	Counts          SeverityCounts   `json:"counts"`
	HighestSeverity finding.Severity `json:"highestSeverity,omitempty"`
	// Omitted is how many findings were cut by the maxFindings limit.
	Omitted    int            `json:"omitted,omitempty"`
	Suppressed map[string]int `json:"suppressed,omitempty"`
}

// ToolsInfo records which analyzers took part.
type ToolsInfo struct {
	Ran     []string             `json:"ran"`
	Skipped []string             `json:"skipped"`
	Errors  []analyzer.ToolError `json:"errors"`
}

// Timing contains performance metrics.
type Timing struct {
	GitMs      int64 `json:"gitMs"`
	AnalysisMs int64 `json:"analysisMs"`
	TotalMs    int64 `json:"totalMs"`
}

// Report is the top-level output structure.
type Report struct {
	Tool     string       `json:"tool"`
	Version  string       `json:"version"`
	RunID    string       `json:"runId"`
	Repo     RepoInfo     `json:"repo"`
	Inputs   InputInfo    `json:"inputs"`
	Summary  Summary      `json:"summary"`
	Score    score.Result `json:"score"`
	Findings []Finding    `json:"findings"`
	Tools    ToolsInfo    `json:"tools"`
	Timing   Timing       `json:"timing"`
}

// ComputeSummary calculates the summary from findings.
func ComputeSummary(findings []Finding) Summary {
	s := Summary{Total: len(findings)}
	for _, f := range findings {
		s.Counts.add(f.Severity)
		if finding.SeverityRank(f.Severity) > finding.SeverityRank(s.HighestSeverity) {
			s.HighestSeverity = f.Severity
		}
	}
	return s
}

// MeetsThreshold reports whether any finding in the report is at or above
// failOn. "none" and "" never match.
func (r *Report) MeetsThreshold(failOn string) bool {
	if r == nil {
		return false
	}
	if r.Summary.HighestSeverity != "" {
		return finding.MeetsThreshold(r.Summary.HighestSeverity, failOn)
	}
	for _, f := range r.Findings {
		if finding.MeetsThreshold(f.Severity, failOn) {
			return true
		}
	}
	return false
}
