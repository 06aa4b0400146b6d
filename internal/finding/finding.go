package finding

import (
	"fmt"
	"strings"

	"github.com/zeebo/xxh3"
)

// Severity represents the severity level of a finding.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Severities lists every severity from most to least severe.
var Severities = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow, SeverityInfo}

// SeverityRank returns a numeric rank for sorting (higher = more severe).
func SeverityRank(s Severity) int {
	switch s {
	case SeverityCritical:
		return 5
	case SeverityHigh:
		return 4
	case SeverityMedium:
		return 3
	case SeverityLow:
		return 2
	case SeverityInfo:
		return 1
	default:
		return 0
	}
}

// ParseSeverity maps a case-insensitive name to a Severity.
func ParseSeverity(s string) (Severity, bool) {
	sev := Severity(strings.ToLower(strings.TrimSpace(s)))
	if SeverityRank(sev) == 0 {
		return "", false
	}
	return sev, true
}

// MeetsThreshold returns true if severity is at or above the threshold.
func MeetsThreshold(s Severity, threshold string) bool {
	if threshold == "none" || threshold == "" {
		return false
	}
	return SeverityRank(s) >= SeverityRank(Severity(threshold))
}

// Confidence is how likely a match is a true positive.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// ConfidenceRank returns a numeric rank for sorting (higher = more confident).
func ConfidenceRank(c Confidence) int {
	switch c {
	case ConfidenceHigh:
		return 3
	case ConfidenceMedium:
		return 2
	case ConfidenceLow:
		return 1
	default:
		return 0
	}
}

// Category represents the type of finding.
type Category string

const (
	CategorySecurity        Category = "security"
	CategoryBug             Category = "bug"
	CategoryPerformance     Category = "performance"
	CategoryMaintainability Category = "maintainability"
	CategoryStyle           Category = "style"
	CategoryBestPractice    Category = "best-practice"
	CategoryCodeCleaning    Category = "code-cleaning"
)

// StaticFinding is one match reported by an analyzer.
type StaticFinding struct {
	Tool        string     `json:"tool"`
	RuleID      string     `json:"ruleId"`
	Severity    Severity   `json:"severity"`
	Category    Category   `json:"category"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	FilePath    string     `json:"filePath"`
	StartLine   int        `json:"startLine"`
	EndLine     int        `json:"endLine"`
	CodeSnippet string     `json:"codeSnippet,omitempty"`
	Suggestion  string     `json:"suggestion,omitempty"`
	FixDiff     string     `json:"fixDiff,omitempty"`
	Confidence  Confidence `json:"confidence"`
}

// Lines returns the finding's line span.
func (f StaticFinding) Lines() LineRange {
	return LineRange{Start: f.StartLine, End: f.EndLine}
}

// Fingerprint is a stable identifier derived from tool, rule, path and span.
func (f StaticFinding) Fingerprint() string {
	data := fmt.Sprintf("%s:%s:%s:%d:%d", f.Tool, f.RuleID, f.FilePath, f.StartLine, f.EndLine)
	return fmt.Sprintf("%016x", xxh3.HashString(data))
}

// Normalize clamps line numbers so that 1 <= StartLine <= EndLine.
func (f *StaticFinding) Normalize() {
	if f.StartLine < 1 {
		f.StartLine = 1
	}
	if f.EndLine < f.StartLine {
		f.EndLine = f.StartLine
	}
}
