package analyzer

import (
	"context"
	"slices"
	"sync"

	"github.com/dshills/vigil/internal/classify"
	"github.com/dshills/vigil/internal/finding"
	"github.com/dshills/vigil/internal/metrics"
	"github.com/dshills/vigil/internal/rules"
	"github.com/dshills/vigil/internal/scan"
)

// RulesName is the name the rule engine is registered under.
const RulesName = "rules"

// Rules adapts the built-in pattern engine to the Analyzer interface.
type Rules struct {
	Scanner *scan.Scanner
	Metrics *metrics.Recorder

	mu    sync.Mutex
	stats scan.Stats
}

// NewRules returns a rule-engine analyzer over set.
func NewRules(set *rules.RuleSet, workers int, rec *metrics.Recorder) *Rules {
	return &Rules{Scanner: &scan.Scanner{Rules: set, Workers: workers}, Metrics: rec}
}

func (r *Rules) Name() string { return RulesName }

// IsAvailable is always true; the engine is compiled in.
func (r *Rules) IsAvailable() bool { return true }

// IsRelevant reports whether any changed file has at least one applicable
// rule. Rules scoped to every language only count for recognized source files,
// so a change touching nothing but assets is skipped.
func (r *Rules) IsRelevant(changedFiles []string) bool {
	for _, p := range changedFiles {
		source := classify.IsSource(p)
		for _, rule := range r.Scanner.Rules.ForFile(p) {
			if source || !slices.Equal(rule.Languages, []string{rules.AllLanguages}) {
				return true
			}
		}
	}
	return false
}

func (r *Rules) Run(ctx context.Context, opts Options) ([]finding.StaticFinding, error) {
	src := opts.Source
	if src == nil {
		src = scan.DiskSource(opts.RepoPath)
	}
	fs, stats, err := r.Scanner.ScanFiles(ctx, opts.ChangedFiles, src, opts.ChangedLineRanges)
	r.mu.Lock()
	r.stats = stats
	r.mu.Unlock()
	r.Metrics.ScanStats(stats.Files, stats.Skipped, stats.Suppressed)
	if err != nil {
		return nil, err
	}
	return fs, nil
}

// Stats returns the counters of the most recent Run.
func (r *Rules) Stats() scan.Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}
