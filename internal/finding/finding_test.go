package finding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverityRank_Order(t *testing.T) {
	for i := 0; i < len(Severities)-1; i++ {
		assert.Greater(t, SeverityRank(Severities[i]), SeverityRank(Severities[i+1]),
			"%s should outrank %s", Severities[i], Severities[i+1])
	}
	assert.Equal(t, 0, SeverityRank("bogus"))
}

func TestParseSeverity(t *testing.T) {
	sev, ok := ParseSeverity(" HIGH ")
	require.True(t, ok)
	assert.Equal(t, SeverityHigh, sev)

	_, ok = ParseSeverity("urgent")
	assert.False(t, ok)
}

func TestMeetsThreshold(t *testing.T) {
	tests := []struct {
		sev       Severity
		threshold string
		want      bool
	}{
		{SeverityCritical, "high", true},
		{SeverityHigh, "high", true},
		{SeverityMedium, "high", false},
		{SeverityInfo, "low", false},
		{SeverityCritical, "none", false},
		{SeverityCritical, "", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MeetsThreshold(tt.sev, tt.threshold), "%s vs %s", tt.sev, tt.threshold)
	}
}

func TestNormalize(t *testing.T) {
	f := StaticFinding{StartLine: 0, EndLine: -3}
	f.Normalize()
	assert.Equal(t, 1, f.StartLine)
	assert.Equal(t, 1, f.EndLine)

	f = StaticFinding{StartLine: 10, EndLine: 4}
	f.Normalize()
	assert.Equal(t, 10, f.EndLine)
}

func TestFingerprint_Stable(t *testing.T) {
	a := StaticFinding{Tool: "vigil", RuleID: "sql-injection", FilePath: "a.ts", StartLine: 3, EndLine: 3}
	b := a
	b.Description = "different text"
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.Len(t, a.Fingerprint(), 16)

	b.StartLine = 4
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
}
