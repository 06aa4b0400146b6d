package gitctx

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sort"
	"strings"
)

// ErrNotRepository is returned when a directory is not inside a git work tree.
var ErrNotRepository = errors.New("not a git repository")

// DiffOptions controls how diffs are gathered.
type DiffOptions struct {
	ContextLines int
	// Paths limits the diff to the given pathspecs.
	Paths []string
}

// DiffResult holds the collected diff and metadata.
type DiffResult struct {
	Diff  string
	Mode  string
	Range string
	Repo  RepoMeta
}

// RepoMeta contains git repository metadata.
type RepoMeta struct {
	Root   string
	Head   string
	Branch string
}

// Available reports whether a git binary is on PATH.
func Available() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// Probe reports whether dir is inside a git work tree.
func Probe(ctx context.Context, dir string) bool {
	if !Available() {
		return false
	}
	out, err := gitOutput(ctx, dir, "rev-parse", "--is-inside-work-tree")
	return err == nil && strings.TrimSpace(out) == "true"
}

// GetRepoMeta collects repository metadata from git.
func GetRepoMeta(ctx context.Context, dir string) (RepoMeta, error) {
	root, err := gitOutput(ctx, dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return RepoMeta{}, fmt.Errorf("%w: %w", ErrNotRepository, err)
	}
	head, err := gitOutput(ctx, dir, "rev-parse", "HEAD")
	if err != nil {
		head = "" // new repo with no commits
	}
	branch, err := gitOutput(ctx, dir, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		branch = ""
	}
	return RepoMeta{
		Root:   strings.TrimSpace(root),
		Head:   strings.TrimSpace(head),
		Branch: strings.TrimSpace(branch),
	}, nil
}

// Unstaged returns the diff of working tree vs index.
func Unstaged(ctx context.Context, dir string, opts DiffOptions) (DiffResult, error) {
	diff, err := gitOutput(ctx, dir, append([]string{"diff"}, buildDiffArgs(opts)...)...)
	if err != nil {
		return DiffResult{}, fmt.Errorf("git diff: %w", err)
	}
	return buildResult(ctx, dir, diff, "unstaged", ""), nil
}

// Staged returns the diff of index vs HEAD.
func Staged(ctx context.Context, dir string, opts DiffOptions) (DiffResult, error) {
	diff, err := gitOutput(ctx, dir, append([]string{"diff", "--cached"}, buildDiffArgs(opts)...)...)
	if err != nil {
		return DiffResult{}, fmt.Errorf("git diff --cached: %w", err)
	}
	return buildResult(ctx, dir, diff, "staged", ""), nil
}

// Commit returns the diff a commit introduced relative to its first parent.
// A root commit is diffed against the empty tree via git show.
func Commit(ctx context.Context, dir, sha string, opts DiffOptions) (DiffResult, error) {
	args := buildDiffArgs(opts)
	diff, err := gitOutput(ctx, dir, append([]string{"diff", sha + "~1", sha}, args...)...)
	if err != nil {
		showArgs := append([]string{"show", "--format=", sha}, args...)
		diff, err = gitOutput(ctx, dir, showArgs...)
		if err != nil {
			return DiffResult{}, fmt.Errorf("git show %s: %w", sha, err)
		}
	}
	return buildResult(ctx, dir, diff, "commit", sha), nil
}

// Range returns the combined diff for a revision range. With mergeBase set,
// "a..b" is compared from the merge base as "a...b".
func Range(ctx context.Context, dir, revRange string, mergeBase bool, opts DiffOptions) (DiffResult, error) {
	diffRange := revRange
	if mergeBase && strings.Contains(revRange, "..") && !strings.Contains(revRange, "...") {
		diffRange = strings.Replace(revRange, "..", "...", 1)
	}
	diff, err := gitOutput(ctx, dir, append([]string{"diff", diffRange}, buildDiffArgs(opts)...)...)
	if err != nil {
		return DiffResult{}, fmt.Errorf("git diff %s: %w", revRange, err)
	}
	return buildResult(ctx, dir, diff, "range", revRange), nil
}

// SyntheticDiff renders content as a diff that adds the whole file, so a
// file that is not part of any change can go through the diff pipeline.
func SyntheticDiff(path, content string) string {
	lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")
	var b strings.Builder
	fmt.Fprintf(&b, "diff --git a/%s b/%s\n", path, path)
	b.WriteString("new file mode 100644\n")
	b.WriteString("--- /dev/null\n")
	fmt.Fprintf(&b, "+++ b/%s\n", path)
	fmt.Fprintf(&b, "@@ -0,0 +1,%d @@\n", len(lines))
	for _, line := range lines {
		fmt.Fprintf(&b, "+%s\n", line)
	}
	return b.String()
}

// ListFiles returns tracked files plus untracked files that are not ignored,
// relative to dir and sorted.
func ListFiles(ctx context.Context, dir string) ([]string, error) {
	out, err := gitOutput(ctx, dir, "ls-files", "--cached", "--others", "--exclude-standard", "-z")
	if err != nil {
		return nil, fmt.Errorf("git ls-files: %w", err)
	}
	seen := make(map[string]bool)
	var files []string
	for _, f := range strings.Split(out, "\x00") {
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		files = append(files, f)
	}
	sort.Strings(files)
	return files, nil
}

// GitDir returns the repository's git directory as reported by git.
func GitDir(ctx context.Context, dir string) (string, error) {
	out, err := gitOutput(ctx, dir, "rev-parse", "--git-dir")
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNotRepository, err)
	}
	return strings.TrimSpace(out), nil
}

func buildDiffArgs(opts DiffOptions) []string {
	var args []string
	if opts.ContextLines > 0 {
		args = append(args, fmt.Sprintf("-U%d", opts.ContextLines))
	}
	args = append(args, "--")
	for _, p := range opts.Paths {
		if p != "**/*" {
			args = append(args, p)
		}
	}
	return args
}

func buildResult(ctx context.Context, dir, diff, mode, rangeStr string) DiffResult {
	meta, err := GetRepoMeta(ctx, dir)
	if err != nil {
		meta = RepoMeta{}
	}
	return DiffResult{
		Diff:  diff,
		Mode:  mode,
		Range: rangeStr,
		Repo:  meta,
	}
}

func gitOutput(ctx context.Context, dir string, args ...string) (string, error) {
	if dir != "" {
		args = append([]string{"-C", dir}, args...)
	}
	cmd := exec.CommandContext(ctx, "git", args...)
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return string(out), fmt.Errorf("%w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", err
	}
	return string(out), nil
}
