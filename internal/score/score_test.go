package score

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dshills/vigil/internal/finding"
)

func sev(ss ...finding.Severity) []finding.StaticFinding {
	out := make([]finding.StaticFinding, len(ss))
	for i, s := range ss {
		out[i] = finding.StaticFinding{Severity: s}
	}
	return out
}

func TestCompute_Example(t *testing.T) {
	r := Compute(sev(finding.SeverityCritical, finding.SeverityMedium))
	assert.Equal(t, 82, r.Score)
	assert.Equal(t, GradeB, r.Grade)
	assert.Equal(t, SeverityBreakdown{Count: 1, Deduction: 15}, r.Breakdown[finding.SeverityCritical])
	assert.Equal(t, SeverityBreakdown{Count: 1, Deduction: 3}, r.Breakdown[finding.SeverityMedium])
	assert.Equal(t, SeverityBreakdown{}, r.Breakdown[finding.SeverityHigh])
}

func TestCompute_Edges(t *testing.T) {
	r := Compute(nil)
	assert.Equal(t, 100, r.Score)
	assert.Equal(t, GradeA, r.Grade)
	assert.Len(t, r.Breakdown, 5)

	r = Compute(sev(finding.SeverityInfo, finding.SeverityInfo, "bogus"))
	assert.Equal(t, 100, r.Score)
	assert.Equal(t, 2, r.Breakdown[finding.SeverityInfo].Count)

	many := make([]finding.Severity, 10)
	for i := range many {
		many[i] = finding.SeverityCritical
	}
	r = Compute(sev(many...))
	assert.Equal(t, 0, r.Score)
	assert.Equal(t, GradeF, r.Grade)
}

func TestGradeFor(t *testing.T) {
	tests := []struct {
		score int
		want  Grade
	}{
		{100, GradeA}, {90, GradeA}, {89, GradeB}, {80, GradeB}, {79, GradeC},
		{70, GradeC}, {69, GradeD}, {55, GradeD}, {54, GradeF}, {0, GradeF},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GradeFor(tt.score), "score %d", tt.score)
	}
}

func TestCompute_Monotonic(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 200; trial++ {
		var fs []finding.StaticFinding
		for n := rng.Intn(12); n > 0; n-- {
			fs = append(fs, finding.StaticFinding{Severity: finding.Severities[rng.Intn(len(finding.Severities))]})
		}
		before := Compute(fs).Score
		extra := finding.StaticFinding{Severity: finding.Severities[rng.Intn(len(finding.Severities))]}
		after := Compute(append(fs, extra)).Score
		assert.LessOrEqual(t, after, before)
	}
}
