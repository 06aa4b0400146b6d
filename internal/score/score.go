package score

import "github.com/dshills/vigil/internal/finding"

// Grade is a letter grade from A to F.
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

// Points deducted per finding of each severity.
var Weights = map[finding.Severity]int{
	finding.SeverityCritical: 15,
	finding.SeverityHigh:     8,
	finding.SeverityMedium:   3,
	finding.SeverityLow:      1,
	finding.SeverityInfo:     0,
}

// SeverityBreakdown is the count and total deduction for one severity.
type SeverityBreakdown struct {
	Count     int `json:"count"`
	Deduction int `json:"deduction"`
}

// Result is the outcome of Compute.
type Result struct {
	Score     int                                    `json:"score"`
	Grade     Grade                                  `json:"grade"`
	Breakdown map[finding.Severity]SeverityBreakdown `json:"breakdown"`
}

// Compute scores findings. Each finding deducts Weights[severity] from 100;
// the result is clamped to [0,100]. Unknown severities deduct nothing.
func Compute(findings []finding.StaticFinding) Result {
	breakdown := make(map[finding.Severity]SeverityBreakdown, len(finding.Severities))
	for _, s := range finding.Severities {
		breakdown[s] = SeverityBreakdown{}
	}

	total := 0
	for _, f := range findings {
		w, ok := Weights[f.Severity]
		if !ok {
			continue
		}
		b := breakdown[f.Severity]
		b.Count++
		b.Deduction += w
		breakdown[f.Severity] = b
		total += w
	}

	score := max(0, min(100, 100-total))
	return Result{Score: score, Grade: GradeFor(score), Breakdown: breakdown}
}

// GradeFor maps a score to its letter grade.
func GradeFor(score int) Grade {
	switch {
	case score >= 90:
		return GradeA
	case score >= 80:
		return GradeB
	case score >= 70:
		return GradeC
	case score >= 55:
		return GradeD
	default:
		return GradeF
	}
}
