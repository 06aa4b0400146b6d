package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dshills/vigil/internal/finding"
	"github.com/dshills/vigil/internal/metrics"
	"github.com/dshills/vigil/internal/scan"
)

// DefaultTimeout bounds one analyzer run when Options.Timeout is zero.
const DefaultTimeout = 60 * time.Second

// Options is the input shared by every analyzer in a run.
type Options struct {
	RepoPath          string
	ChangedFiles      []string
	ChangedLineRanges finding.LineRanges
	Timeout           time.Duration
	// Source overrides how file content is read. Nil reads from RepoPath.
	Source scan.Source
}

// Analyzer is one source of findings.
type Analyzer interface {
	Name() string
	// IsAvailable is a cheap probe with no side effects.
	IsAvailable() bool
	IsRelevant(changedFiles []string) bool
	Run(ctx context.Context, opts Options) ([]finding.StaticFinding, error)
}

// ToolError records an analyzer that failed.
type ToolError struct {
	Tool    string `json:"tool"`
	Message string `json:"message"`
	Timeout bool   `json:"timeout,omitempty"`
}

func (e ToolError) Error() string {
	return e.Tool + ": " + e.Message
}

// Result is the merged output of a run.
type Result struct {
	Findings     []finding.StaticFinding  `json:"findings"`
	RawFindings  []finding.StaticFinding  `json:"rawFindings"`
	ToolsRan     []string                 `json:"toolsRan"`
	ToolsSkipped []string                 `json:"toolsSkipped"`
	Errors       []ToolError              `json:"errors"`
	Durations    map[string]time.Duration `json:"-"`
}

// Orchestrator runs a fixed, ordered list of analyzers.
type Orchestrator struct {
	Analyzers []Analyzer
	Metrics   *metrics.Recorder
}

type outcome struct {
	findings []finding.StaticFinding
	err      error
	timeout  bool
	ran      bool
	elapsed  time.Duration
}

// Run executes every available and relevant analyzer concurrently and waits
// for all of them before merging. Tool order in the result follows the
// registration order, not completion order.
func (o *Orchestrator) Run(ctx context.Context, opts Options) Result {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	res := Result{
		ToolsRan:     []string{},
		ToolsSkipped: []string{},
		Errors:       []ToolError{},
		Durations:    map[string]time.Duration{},
	}
	outcomes := make([]outcome, len(o.Analyzers))
	var wg sync.WaitGroup

	for i, a := range o.Analyzers {
		if !a.IsAvailable() {
			slog.Debug("analyzer unavailable", "tool", a.Name())
			continue
		}
		if !a.IsRelevant(opts.ChangedFiles) {
			slog.Debug("analyzer not relevant to change set", "tool", a.Name())
			continue
		}
		wg.Add(1)
		go func(i int, a Analyzer) {
			defer wg.Done()
			outcomes[i] = runOne(ctx, a, opts, timeout)
		}(i, a)
	}
	wg.Wait()

	for i, a := range o.Analyzers {
		out := outcomes[i]
		if !out.ran {
			res.ToolsSkipped = append(res.ToolsSkipped, a.Name())
			o.Metrics.ToolSkipped(a.Name())
			continue
		}
		res.ToolsRan = append(res.ToolsRan, a.Name())
		res.Durations[a.Name()] = out.elapsed
		o.Metrics.ObserveAnalyzer(a.Name(), out.elapsed)
		if out.err != nil {
			slog.Warn("analyzer failed", "tool", a.Name(), "error", out.err)
			res.Errors = append(res.Errors, ToolError{Tool: a.Name(), Message: out.err.Error(), Timeout: out.timeout})
			o.Metrics.ToolFailed(a.Name())
			continue
		}
		res.RawFindings = append(res.RawFindings, out.findings...)
	}

	if res.RawFindings == nil {
		res.RawFindings = []finding.StaticFinding{}
	}
	res.Findings = finding.Dedupe(res.RawFindings)
	return res
}

// runOne runs a under its own deadline and turns a panic into an error. An
// analyzer that ignores its context is abandoned at the deadline and its late
// result is discarded.
func runOne(ctx context.Context, a Analyzer, opts Options, timeout time.Duration) outcome {
	tctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		findings []finding.StaticFinding
		err      error
	}
	done := make(chan result, 1)
	start := time.Now()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("panic: %v", r)}
			}
		}()
		fs, err := a.Run(tctx, opts)
		done <- result{findings: fs, err: err}
	}()

	out := outcome{ran: true}
	var r result
	select {
	case r = <-done:
		if r.err == nil && tctx.Err() != nil {
			r.err = tctx.Err()
		}
	case <-tctx.Done():
		r.err = tctx.Err()
	}
	out.elapsed = time.Since(start)

	if r.err != nil {
		out.err = r.err
		out.timeout = errors.Is(r.err, context.DeadlineExceeded) || errors.Is(tctx.Err(), context.DeadlineExceeded)
		if out.timeout {
			out.err = fmt.Errorf("timed out after %s", timeout)
		}
		return out
	}
	for i := range r.findings {
		r.findings[i].Normalize()
	}
	out.findings = r.findings
	return out
}
