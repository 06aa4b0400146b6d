package review

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/vigil/internal/config"
	"github.com/dshills/vigil/internal/finding"
	"github.com/dshills/vigil/internal/gitctx"
	"github.com/dshills/vigil/internal/metrics"
	"github.com/dshills/vigil/internal/score"
)

const sqlDiff = "diff --git a/src/db.ts b/src/db.ts\n" +
	"--- a/src/db.ts\n" +
	"+++ b/src/db.ts\n" +
	"@@ -1,2 +1,3 @@\n" +
	" const x = 1;\n" +
	"+db.query(`SELECT * FROM users WHERE id = ${id}`)\n" +
	" const z = 3;\n"

func rulesOnly() config.Config {
	cfg := config.Default()
	cfg.Tools = []string{"rules"}
	return cfg
}

func newEngine(t *testing.T, cfg config.Config, p config.Project) *Engine {
	t.Helper()
	e, err := New(cfg, p, "test", metrics.New())
	require.NoError(t, err)
	return e
}

func diffInput(raw string) gitctx.DiffResult {
	return gitctx.DiffResult{Diff: raw, Mode: ModeDiff, Repo: gitctx.RepoMeta{Root: "/nonexistent-vigil-root"}}
}

func TestRunDiff_SQLInjection(t *testing.T) {
	e := newEngine(t, rulesOnly(), config.Project{})
	r, err := e.RunDiff(context.Background(), diffInput(sqlDiff))
	require.NoError(t, err)

	require.Len(t, r.Findings, 1)
	f := r.Findings[0]
	assert.Equal(t, "sql-injection", f.RuleID)
	assert.Equal(t, finding.SeverityHigh, f.Severity)
	assert.Equal(t, "src/db.ts", f.FilePath)
	assert.Equal(t, 2, f.StartLine)
	assert.Contains(t, f.References, "CWE-89")

	assert.Equal(t, ToolName, r.Tool)
	assert.Equal(t, "test", r.Version)
	assert.NotEmpty(t, r.RunID)
	assert.Equal(t, ModeDiff, r.Inputs.Mode)
	assert.Equal(t, 1, r.Inputs.FilesChanged)
	assert.Equal(t, 1, r.Inputs.FilesScanned)
	assert.Equal(t, 1, r.Summary.Counts.High)
	assert.Equal(t, 92, r.Score.Score)
	assert.Equal(t, score.GradeA, r.Score.Grade)
	assert.Equal(t, []string{"rules"}, r.Tools.Ran)
	assert.Empty(t, r.Tools.Errors)
	assert.True(t, r.MeetsThreshold("high"))
	assert.False(t, r.MeetsThreshold("critical"))
}

func TestRunDiff_OnlyAddedLines(t *testing.T) {
	raw := "diff --git a/src/a.js b/src/a.js\n" +
		"--- a/src/a.js\n" +
		"+++ b/src/a.js\n" +
		"@@ -1,3 +1,3 @@\n" +
		" eval(one);\n" +
		"-const a = 1;\n" +
		"+const a = 2;\n" +
		" eval(two);\n"
	e := newEngine(t, rulesOnly(), config.Project{})
	r, err := e.RunDiff(context.Background(), diffInput(raw))
	require.NoError(t, err)
	assert.Empty(t, r.Findings, "eval calls sit on context lines")
	assert.Equal(t, 100, r.Score.Score)
}

func TestRunDiff_TestFileDowngrade(t *testing.T) {
	raw := strings.ReplaceAll(sqlDiff, "src/db.ts", "src/__tests__/x.test.ts")
	e := newEngine(t, rulesOnly(), config.Project{})
	r, err := e.RunDiff(context.Background(), diffInput(raw))
	require.NoError(t, err)
	require.Len(t, r.Findings, 1)
	assert.Equal(t, finding.SeverityInfo, r.Findings[0].Severity)
	assert.Equal(t, 100, r.Score.Score)
}

func TestRunDiff_ExcludedPaths(t *testing.T) {
	raw := sqlDiff + strings.ReplaceAll(sqlDiff, "src/db.ts", "vendor/lib/db.ts")
	p := config.Project{Ignore: []string{"generated/"}}
	e := newEngine(t, rulesOnly(), p)
	r, err := e.RunDiff(context.Background(), diffInput(raw))
	require.NoError(t, err)
	assert.Equal(t, []string{"vendor/lib/db.ts"}, r.Inputs.PathsExcluded)
	require.Len(t, r.Findings, 1)
	assert.Equal(t, "src/db.ts", r.Findings[0].FilePath)
}

func TestRunDiff_SeverityOverride(t *testing.T) {
	p := config.Project{SeverityOverrides: map[string]string{"security": "critical"}}
	e := newEngine(t, rulesOnly(), p)
	r, err := e.RunDiff(context.Background(), diffInput(sqlDiff))
	require.NoError(t, err)
	require.Len(t, r.Findings, 1)
	assert.Equal(t, finding.SeverityCritical, r.Findings[0].Severity)
	assert.Equal(t, 85, r.Score.Score)
}

func TestRunDiff_MasksSecrets(t *testing.T) {
	raw := "diff --git a/src/config.ts b/src/config.ts\n" +
		"new file mode 100644\n" +
		"--- /dev/null\n" +
		"+++ b/src/config.ts\n" +
		"@@ -0,0 +1 @@\n" +
		"+const password = \"hunter2hunter2\";\n"

	e := newEngine(t, rulesOnly(), config.Project{})
	r, err := e.RunDiff(context.Background(), diffInput(raw))
	require.NoError(t, err)
	require.NotEmpty(t, r.Findings)
	for _, f := range r.Findings {
		assert.NotContains(t, f.CodeSnippet, "hunter2hunter2")
	}

	cfg := rulesOnly()
	cfg.Privacy.RedactSecrets = false
	e = newEngine(t, cfg, config.Project{})
	r, err = e.RunDiff(context.Background(), diffInput(raw))
	require.NoError(t, err)
	require.NotEmpty(t, r.Findings)
	assert.Contains(t, r.Findings[0].CodeSnippet, "hunter2hunter2")
}

func TestRunDiff_MaxFindings(t *testing.T) {
	var b strings.Builder
	b.WriteString("diff --git a/src/a.js b/src/a.js\n--- /dev/null\n+++ b/src/a.js\n@@ -0,0 +1,5 @@\n")
	for i := 0; i < 5; i++ {
		b.WriteString("+eval(input);\n")
	}
	cfg := rulesOnly()
	cfg.MaxFindings = 2
	e := newEngine(t, cfg, config.Project{})
	r, err := e.RunDiff(context.Background(), diffInput(b.String()))
	require.NoError(t, err)
	assert.Len(t, r.Findings, 2)
	assert.Equal(t, 5, r.Summary.Total)
	assert.Equal(t, 3, r.Summary.Omitted)
}

func TestRunDiff_Empty(t *testing.T) {
	e := newEngine(t, rulesOnly(), config.Project{})
	r, err := e.RunDiff(context.Background(), diffInput(""))
	require.NoError(t, err)
	assert.Empty(t, r.Findings)
	assert.NotNil(t, r.Findings)
	assert.Equal(t, 100, r.Score.Score)
	assert.Equal(t, []string{"rules"}, r.Tools.Skipped)
}

func TestRunDiff_Cancelled(t *testing.T) {
	e := newEngine(t, rulesOnly(), config.Project{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := e.RunDiff(ctx, diffInput(sqlDiff))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunRepo(t *testing.T) {
	dir := t.TempDir()
	write := func(rel, content string) {
		p := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	write("src/db.ts", "const a = 1;\ndb.query(`SELECT * FROM users WHERE id = ${id}`)\n")
	write("src/ok.go", "package src\n")
	write("node_modules/dep/index.js", "eval(x)\n")
	write("src/skip/gen.js", "eval(x)\n")

	p := config.Project{Ignore: []string{"src/skip/"}}
	e := newEngine(t, rulesOnly(), p)
	r, err := e.RunRepo(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, ModeRepo, r.Inputs.Mode)
	assert.Equal(t, 2, r.Inputs.FilesChanged)
	require.Len(t, r.Findings, 1)
	assert.Equal(t, "src/db.ts", r.Findings[0].FilePath)
	assert.Equal(t, 2, r.Findings[0].StartLine)
}

func TestRunRepo_MissingDir(t *testing.T) {
	e := newEngine(t, rulesOnly(), config.Project{})
	_, err := e.RunRepo(context.Background(), filepath.Join(t.TempDir(), "missing"))
	assert.ErrorContains(t, err, "discovering files")
}

func TestNew_Errors(t *testing.T) {
	_, err := New(rulesOnly(), config.Project{SeverityOverrides: map[string]string{"style": "loud"}}, "x", nil)
	assert.Error(t, err)

	cfg := rulesOnly()
	cfg.Tools = []string{"rules", "pylint"}
	_, err = New(cfg, config.Project{}, "x", nil)
	assert.ErrorContains(t, err, "unknown tool")

	cfg = rulesOnly()
	cfg.Exclude = []string{"src/[bad"}
	_, err = New(cfg, config.Project{}, "x", nil)
	assert.Error(t, err)
}

func TestNew_CustomRules(t *testing.T) {
	p := config.Project{
		DisabledRules: []string{"sql-injection"},
		Rules: []config.CustomRule{
			{ID: "no-internal-host", Title: "Internal host", Pattern: `internal\.corp`, Severity: "medium", Category: "security", Languages: []string{"ts"}},
			{ID: "broken", Pattern: `(`, Severity: "low", Category: "style", Languages: []string{"ts"}},
		},
	}
	e := newEngine(t, rulesOnly(), p)
	_, ok := e.RuleSet().Get("no-internal-host")
	assert.True(t, ok)
	_, ok = e.RuleSet().Get("broken")
	assert.False(t, ok)
	_, ok = e.RuleSet().Get("sql-injection")
	assert.False(t, ok)
}
