package gitctx

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/vigil/internal/diff"
)

func TestBuildDiffArgs(t *testing.T) {
	args := buildDiffArgs(DiffOptions{ContextLines: 5, Paths: []string{"*.go"}})
	if args[0] != "-U5" {
		t.Errorf("args[0] = %q, want %q", args[0], "-U5")
	}
	if args[1] != "--" {
		t.Errorf("args[1] = %q, want --", args[1])
	}
	if args[len(args)-1] != "*.go" {
		t.Errorf("last arg = %q, want %q", args[len(args)-1], "*.go")
	}
}

func TestBuildDiffArgs_DefaultInclude(t *testing.T) {
	args := buildDiffArgs(DiffOptions{ContextLines: 3, Paths: []string{"**/*"}})
	for _, a := range args {
		if a == "**/*" {
			t.Error("**/* should not be passed as a git path filter")
		}
	}
}

func TestBuildDiffArgs_NoContextLines(t *testing.T) {
	for _, a := range buildDiffArgs(DiffOptions{}) {
		if strings.HasPrefix(a, "-U") {
			t.Error("should not have -U flag with ContextLines=0")
		}
	}
}

func TestSyntheticDiff(t *testing.T) {
	raw := SyntheticDiff("main.go", "package main\n\nfunc main() {}\n")
	parsed := diff.Parse(raw)
	if len(parsed.Files) != 1 {
		t.Fatalf("got %d files, want 1", len(parsed.Files))
	}
	f := parsed.Files[0]
	if f.Path != "main.go" || f.Status != diff.StatusAdded {
		t.Errorf("file = %s/%s, want main.go/added", f.Path, f.Status)
	}
	if got := f.AddedLines(); len(got) != 3 || got[2] != 3 {
		t.Errorf("added lines = %v, want [1 2 3]", got)
	}
}

func requireGit(t *testing.T) {
	t.Helper()
	if !Available() {
		t.Skip("git not available")
	}
}

// setupTestRepo creates a temp git repo with one commit and returns its path.
func setupTestRepo(t *testing.T) (string, func(args ...string) string) {
	t.Helper()
	requireGit(t)
	dir := t.TempDir()

	run := func(args ...string) string {
		t.Helper()
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=test",
			"GIT_AUTHOR_EMAIL=test@test.com",
			"GIT_COMMITTER_NAME=test",
			"GIT_COMMITTER_EMAIL=test@test.com",
			"GIT_CONFIG_NOSYSTEM=1",
		)
		out, err := cmd.CombinedOutput()
		if err != nil {
			t.Fatalf("git %v failed: %v\n%s", args, err, out)
		}
		return string(out)
	}
	write := func(rel, content string) {
		t.Helper()
		p := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	run("init", "-q")
	run("checkout", "-q", "-b", "main")
	write("main.go", "package main\n\nfunc main() {}\n")
	write("util.go", "package main\n\nfunc helper() {}\n")
	write(".gitignore", "build/\n")
	run("add", "-A")
	run("commit", "-q", "-m", "init")

	write("main.go", "package main\n\nfunc main() {\n\tprintln(1)\n}\n")
	write("new.go", "package main\n")
	write("build/out.go", "package build\n")
	return dir, run
}

func TestProbe(t *testing.T) {
	requireGit(t)
	ctx := context.Background()
	dir, _ := setupTestRepo(t)
	if !Probe(ctx, dir) {
		t.Error("Probe(repo) = false, want true")
	}
	if Probe(ctx, t.TempDir()) {
		t.Error("Probe(plain dir) = true, want false")
	}
}

func TestGetRepoMeta(t *testing.T) {
	dir, _ := setupTestRepo(t)
	meta, err := GetRepoMeta(context.Background(), dir)
	if err != nil {
		t.Fatalf("GetRepoMeta: %v", err)
	}
	if meta.Branch != "main" {
		t.Errorf("Branch = %q, want main", meta.Branch)
	}
	if len(meta.Head) != 40 {
		t.Errorf("Head = %q, want a full sha", meta.Head)
	}

	_, err = GetRepoMeta(context.Background(), t.TempDir())
	if !errors.Is(err, ErrNotRepository) {
		t.Errorf("err = %v, want ErrNotRepository", err)
	}
}

func TestListFiles(t *testing.T) {
	dir, _ := setupTestRepo(t)
	files, err := ListFiles(context.Background(), dir)
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	want := []string{".gitignore", "main.go", "new.go", "util.go"}
	if strings.Join(files, ",") != strings.Join(want, ",") {
		t.Errorf("files = %v, want %v", files, want)
	}
}

func TestUnstagedAndStaged(t *testing.T) {
	dir, run := setupTestRepo(t)
	ctx := context.Background()

	res, err := Unstaged(ctx, dir, DiffOptions{})
	if err != nil {
		t.Fatalf("Unstaged: %v", err)
	}
	if res.Mode != "unstaged" || !strings.Contains(res.Diff, "+\tprintln(1)") {
		t.Errorf("unexpected unstaged result: mode=%q diff=%q", res.Mode, res.Diff)
	}
	if strings.Contains(res.Diff, "new.go") {
		t.Error("untracked file should not appear in unstaged diff")
	}

	run("add", "new.go")
	res, err = Staged(ctx, dir, DiffOptions{})
	if err != nil {
		t.Fatalf("Staged: %v", err)
	}
	parsed := diff.Parse(res.Diff)
	if len(parsed.Files) != 1 || parsed.Files[0].Path != "new.go" || parsed.Files[0].Status != diff.StatusAdded {
		t.Errorf("staged files = %+v, want new.go added", parsed.Files)
	}
}

func TestCommitAndRange(t *testing.T) {
	dir, run := setupTestRepo(t)
	ctx := context.Background()

	root := strings.TrimSpace(run("rev-parse", "HEAD"))
	res, err := Commit(ctx, dir, root, DiffOptions{})
	if err != nil {
		t.Fatalf("Commit(root): %v", err)
	}
	if !strings.Contains(res.Diff, "+++ b/util.go") {
		t.Errorf("root commit diff missing util.go: %q", res.Diff)
	}

	run("add", "main.go")
	run("commit", "-q", "-m", "second")
	res, err = Range(ctx, dir, root+"..HEAD", false, DiffOptions{})
	if err != nil {
		t.Fatalf("Range: %v", err)
	}
	if res.Range != root+"..HEAD" {
		t.Errorf("Range = %q", res.Range)
	}
	files := diff.ChangedPaths(diff.Parse(res.Diff).Files)
	if len(files) != 1 || files[0] != "main.go" {
		t.Errorf("range files = %v, want [main.go]", files)
	}

	if _, err := Commit(ctx, dir, "deadbeef", DiffOptions{}); err == nil {
		t.Error("expected error for unknown commit")
	}
}

func TestGitDir(t *testing.T) {
	dir, _ := setupTestRepo(t)
	got, err := GitDir(context.Background(), dir)
	if err != nil {
		t.Fatalf("GitDir: %v", err)
	}
	if filepath.Base(got) != ".git" {
		t.Errorf("GitDir = %q", got)
	}
}
