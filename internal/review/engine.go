package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/vigil/internal/analyzer"
	"github.com/dshills/vigil/internal/config"
	"github.com/dshills/vigil/internal/diff"
	"github.com/dshills/vigil/internal/discover"
	"github.com/dshills/vigil/internal/finding"
	"github.com/dshills/vigil/internal/gitctx"
	"github.com/dshills/vigil/internal/metrics"
	"github.com/dshills/vigil/internal/redact"
	"github.com/dshills/vigil/internal/rules"
	"github.com/dshills/vigil/internal/scan"
	"github.com/dshills/vigil/internal/score"
)

// ToolName is reported as Report.Tool.
const ToolName = "vigil"

// Input modes that read file content from the working tree first.
const (
	ModeUnstaged = "unstaged"
	ModeDiff     = "diff"
	ModeRepo     = "repo"
)

// Engine runs the configured analyzers over one input and builds a Report.
type Engine struct {
	Config    config.Config
	Version   string
	Analyzers []analyzer.Analyzer
	Metrics   *metrics.Recorder

	rules     *analyzer.Rules
	ignore    *discover.Matcher
	masker    *redact.Masker
	overrides SeverityOverrides
	patterns  []string
}

// New builds an engine from the user configuration and the project file.
// Invalid custom rules are logged and skipped; an invalid severity override,
// ignore pattern or tool name is an error.
func New(cfg config.Config, project config.Project, version string, rec *metrics.Recorder) (*Engine, error) {
	set, errs := rules.ForProject(project, cfg.Cleaning)
	for _, err := range errs {
		slog.Warn("skipping custom rule", "error", err)
	}

	overrides, err := ParseOverrides(project.SeverityOverrides)
	if err != nil {
		return nil, err
	}

	patterns := append(append([]string(nil), cfg.Exclude...), project.Ignore...)
	ignore, err := discover.NewMatcher(patterns)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		Config:    cfg,
		Version:   version,
		Metrics:   rec,
		rules:     analyzer.NewRules(set, cfg.Workers, rec),
		ignore:    ignore,
		overrides: overrides,
		patterns:  patterns,
	}
	if cfg.Privacy.RedactSecrets {
		if e.masker, err = redact.NewMasker(cfg.Privacy.RedactPaths); err != nil {
			return nil, fmt.Errorf("redact paths: %w", err)
		}
	}
	if e.Analyzers, err = analyzer.Build(cfg.Tools, e.rules); err != nil {
		return nil, err
	}
	return e, nil
}

// RuleSet returns the rules the engine scans with.
func (e *Engine) RuleSet() *rules.RuleSet {
	return e.rules.Scanner.Rules
}

// RunDiff analyzes the files a unified diff touches, reporting only findings
// that overlap added lines.
func (e *Engine) RunDiff(ctx context.Context, in gitctx.DiffResult) (*Report, error) {
	start := time.Now()

	parsed := diff.Parse(in.Diff)
	var kept []diff.DiffFile
	var excluded []string
	for _, f := range parsed.Files {
		if e.ignore.Match(f.Path) {
			excluded = append(excluded, f.Path)
			continue
		}
		kept = append(kept, f)
	}

	root := in.Repo.Root
	if root == "" {
		root = "."
	}
	sparse := make(map[string]string, len(kept))
	for _, f := range kept {
		sparse[f.Path] = f.NewContent()
	}
	src := sparseSource(sparse)
	if in.Mode == ModeUnstaged || in.Mode == ModeDiff {
		src = scan.FallbackSource(scan.DiskSource(root), src)
	}

	changed := diff.ChangedPaths(kept)
	opts := analyzer.Options{
		RepoPath:          root,
		ChangedFiles:      changed,
		ChangedLineRanges: diff.ChangedLineRanges(kept),
		Timeout:           e.timeout(),
		Source:            src,
	}
	res, err := e.analyze(ctx, opts)
	if err != nil {
		return nil, err
	}

	r := e.newReport(res, start)
	r.Repo = RepoInfo{Root: in.Repo.Root, Head: in.Repo.Head, Branch: in.Repo.Branch}
	r.Inputs.Mode = in.Mode
	r.Inputs.Range = in.Range
	r.Inputs.FilesChanged = len(changed)
	r.Inputs.PathsExcluded = excluded
	return r, nil
}

// RunRepo analyzes every discovered source file under target with no line
// filtering.
func (e *Engine) RunRepo(ctx context.Context, target string) (*Report, error) {
	start := time.Now()

	disc, err := discover.Discover(ctx, target, discover.Options{
		MaxFiles:      e.Config.MaxFiles,
		MaxFileSizeKB: e.Config.MaxFileSizeKB,
		Ignore:        e.patterns,
	})
	if err != nil {
		return nil, fmt.Errorf("discovering files: %w", err)
	}
	root, err := filepath.Abs(target)
	if err != nil {
		return nil, err
	}

	repo := RepoInfo{Root: root}
	gitStart := time.Now()
	if gitctx.Probe(ctx, root) {
		if meta, err := gitctx.GetRepoMeta(ctx, root); err == nil {
			repo = RepoInfo{Root: meta.Root, Head: meta.Head, Branch: meta.Branch}
		}
	}
	gitMs := time.Since(gitStart).Milliseconds()

	paths := discover.Paths(disc.Files)
	res, err := e.analyze(ctx, analyzer.Options{
		RepoPath:     root,
		ChangedFiles: paths,
		Timeout:      e.timeout(),
	})
	if err != nil {
		return nil, err
	}

	r := e.newReport(res, start)
	r.Repo = repo
	r.Inputs.Mode = ModeRepo
	r.Inputs.Target = target
	r.Inputs.FilesChanged = len(paths)
	r.Inputs.Discovery = string(disc.Strategy)
	r.Inputs.Truncated = disc.Truncated
	r.Timing.GitMs = gitMs
	return r, nil
}

func (e *Engine) timeout() time.Duration {
	if e.Config.ToolTimeoutSeconds <= 0 {
		return analyzer.DefaultTimeout
	}
	return time.Duration(e.Config.ToolTimeoutSeconds) * time.Second
}

// analyze runs the orchestrator. Only a cancelled context is an error; tool
// failures are recorded in the result.
func (e *Engine) analyze(ctx context.Context, opts analyzer.Options) (analyzer.Result, error) {
	o := &analyzer.Orchestrator{Analyzers: e.Analyzers, Metrics: e.Metrics}
	res := o.Run(ctx, opts)
	if err := ctx.Err(); err != nil {
		return analyzer.Result{}, fmt.Errorf("scan interrupted: %w", err)
	}
	return res, nil
}

func (e *Engine) newReport(res analyzer.Result, start time.Time) *Report {
	all := ApplySeverityOverrides(res.Findings, e.overrides)
	finding.SortBySeverity(all)
	e.Metrics.Findings(all)

	sc := score.Compute(all)
	e.Metrics.SetScore(sc.Score)

	findings := toReport(all, e.masker)
	summary := ComputeSummary(findings)
	if limit := e.Config.MaxFindings; limit > 0 && len(findings) > limit {
		summary.Omitted = len(findings) - limit
		findings = findings[:limit]
	}

	r := &Report{
		Tool:     ToolName,
		Version:  e.Version,
		RunID:    uuid.NewString(),
		Summary:  summary,
		Score:    sc,
		Findings: findings,
		Tools: ToolsInfo{
			Ran:     res.ToolsRan,
			Skipped: res.ToolsSkipped,
			Errors:  res.Errors,
		},
	}
	if e.rules != nil && ran(analyzer.RulesName, res) {
		stats := e.rules.Stats()
		r.Inputs.FilesScanned = stats.Files
		r.Inputs.FilesSkipped = stats.Skipped
		if len(stats.Suppressed) > 0 {
			r.Summary.Suppressed = stats.Suppressed
		}
	}
	r.Timing.AnalysisMs = analysisMs(res)
	r.Timing.TotalMs = time.Since(start).Milliseconds()
	return r
}

func ran(name string, res analyzer.Result) bool {
	for _, n := range res.ToolsRan {
		if n == name {
			return true
		}
	}
	return false
}

// analysisMs is the longest analyzer run, which bounds the concurrent phase.
func analysisMs(res analyzer.Result) int64 {
	var longest time.Duration
	for _, d := range res.Durations {
		longest = max(longest, d)
	}
	return longest.Milliseconds()
}

func toReport(fs []finding.StaticFinding, m *redact.Masker) []Finding {
	out := make([]Finding, 0, len(fs))
	for _, f := range fs {
		rf := FromStatic(f)
		if m != nil {
			rf.CodeSnippet = m.Content(rf.FilePath, rf.CodeSnippet)
			rf.FixDiff = m.Content(rf.FilePath, rf.FixDiff)
		}
		out = append(out, rf)
	}
	return out
}

var errNotInDiff = errors.New("file not in diff")

func sparseSource(files map[string]string) scan.Source {
	return func(path string) (string, error) {
		content, ok := files[path]
		if !ok {
			return "", fmt.Errorf("%s: %w", path, errNotInDiff)
		}
		return content, nil
	}
}
