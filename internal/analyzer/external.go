package analyzer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/dshills/vigil/internal/classify"
	"github.com/dshills/vigil/internal/finding"
)

// runFunc executes binary with args in dir and returns stdout.
type runFunc func(ctx context.Context, dir, binary string, args ...string) ([]byte, error)

// External wraps a command-line analyzer that emits JSON.
type External struct {
	name   string
	binary string
	exts   map[string]bool // nil means every source file
	args   func(files []string) []string
	parse  func(out []byte) ([]finding.StaticFinding, error)

	lookPath func(string) (string, error)
	run      runFunc
}

func (e *External) Name() string { return e.name }

// IsAvailable reports whether the tool's binary is on PATH.
func (e *External) IsAvailable() bool {
	lookPath := e.lookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	_, err := lookPath(e.binary)
	return err == nil
}

func (e *External) IsRelevant(changedFiles []string) bool {
	return len(e.relevant(changedFiles)) > 0
}

func (e *External) relevant(files []string) []string {
	var out []string
	for _, f := range files {
		if (e.exts == nil && classify.IsSource(f)) || e.exts[classify.Ext(f)] {
			out = append(out, f)
		}
	}
	return out
}

func (e *External) Run(ctx context.Context, opts Options) ([]finding.StaticFinding, error) {
	files := e.relevant(opts.ChangedFiles)
	if len(files) == 0 {
		return nil, nil
	}
	run := e.run
	if run == nil {
		run = execTool
	}
	out, err := run(ctx, opts.RepoPath, e.binary, e.args(files)...)
	if err != nil {
		return nil, err
	}
	fs, err := e.parse(out)
	if err != nil {
		return nil, fmt.Errorf("parsing %s output: %w", e.name, err)
	}
	for i := range fs {
		fs[i].Tool = e.name
	}
	return restrict(fs, opts), nil
}

// execTool runs a linter. Linters exit non-zero when they report issues, so
// a non-zero exit with output on stdout is treated as success.
func execTool(ctx context.Context, dir, binary string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	var exitErr *exec.ExitError
	if err != nil && !(errors.As(err, &exitErr) && stdout.Len() > 0) {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return nil, fmt.Errorf("running %s: %w", binary, err)
		}
		return nil, fmt.Errorf("running %s: %w: %s", binary, err, firstLine(msg))
	}
	return stdout.Bytes(), nil
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

// restrict keeps findings in changed files whose span overlaps the changed
// line ranges. Tool paths are made relative to the repository first.
func restrict(fs []finding.StaticFinding, opts Options) []finding.StaticFinding {
	changed := make(map[string]bool, len(opts.ChangedFiles))
	for _, f := range opts.ChangedFiles {
		changed[filepath.ToSlash(f)] = true
	}
	out := make([]finding.StaticFinding, 0, len(fs))
	for _, f := range fs {
		f.FilePath = relPath(opts.RepoPath, f.FilePath)
		f.Normalize()
		if len(changed) > 0 && !changed[f.FilePath] {
			continue
		}
		if !opts.ChangedLineRanges.Allows(f.FilePath, f.StartLine, f.EndLine) {
			continue
		}
		out = append(out, f)
	}
	return out
}

func relPath(root, p string) string {
	if filepath.IsAbs(p) && root != "" {
		if absRoot, err := filepath.Abs(root); err == nil {
			if rel, err := filepath.Rel(absRoot, p); err == nil && !strings.HasPrefix(rel, "..") {
				p = rel
			}
		}
	}
	return strings.TrimPrefix(filepath.ToSlash(p), "./")
}

func extSet(exts ...string) map[string]bool {
	m := make(map[string]bool, len(exts))
	for _, e := range exts {
		m[e] = true
	}
	return m
}
