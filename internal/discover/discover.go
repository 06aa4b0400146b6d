package discover

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dshills/vigil/internal/classify"
	"github.com/dshills/vigil/internal/gitctx"
)

// Defaults applied when Options fields are zero.
const (
	DefaultMaxFiles      = 2000
	DefaultMaxFileSizeKB = 512
	binarySniffBytes     = 512
)

// PriorityDirs are top-level directories whose files are kept first when the
// file budget truncates the result.
var PriorityDirs = []string{"src", "lib", "app", "pkg", "internal", "cmd", "contracts"}

// prunedDirs are never descended into by the directory walker.
var prunedDirs = map[string]bool{
	"node_modules": true, "vendor": true, "dist": true, "build": true, "out": true,
	"target": true, "coverage": true, "__pycache__": true, "venv": true, "bower_components": true,
	"bin": true, "obj": true, "tmp": true,
}

// DiscoveredFile is one scannable file.
type DiscoveredFile struct {
	RelativePath string            `json:"relativePath"`
	AbsolutePath string            `json:"absolutePath"`
	SizeBytes    int64             `json:"sizeBytes"`
	Language     classify.Language `json:"language"`
}

// Options bounds discovery.
type Options struct {
	MaxFiles      int
	MaxFileSizeKB int
	Ignore        []string
}

// Strategy names how the candidate list was produced.
type Strategy string

const (
	StrategyGit  Strategy = "git"
	StrategyWalk Strategy = "walk"
)

// Result is the outcome of Discover.
type Result struct {
	Files     []DiscoveredFile
	Strategy  Strategy
	Total     int // files that passed every filter before truncation
	Truncated bool
}

// Discover lists the scannable files under target.
func Discover(ctx context.Context, target string, opts Options) (Result, error) {
	root, err := filepath.Abs(target)
	if err != nil {
		return Result{}, fmt.Errorf("resolving %s: %w", target, err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return Result{}, fmt.Errorf("stat %s: %w", target, err)
	}
	if !info.IsDir() {
		return Result{}, fmt.Errorf("%s is not a directory", target)
	}

	matcher, err := NewMatcher(opts.Ignore)
	if err != nil {
		return Result{}, err
	}

	res := Result{Strategy: StrategyWalk}
	var candidates []string
	if gitctx.Probe(ctx, root) {
		candidates, err = gitctx.ListFiles(ctx, root)
		if err != nil {
			slog.Warn("git file listing failed, walking directory", "path", root, "error", err)
			candidates, err = walk(ctx, root)
		} else {
			res.Strategy = StrategyGit
		}
	} else {
		candidates, err = walk(ctx, root)
	}
	if err != nil {
		return Result{}, err
	}

	maxBytes := int64(opts.MaxFileSizeKB) * 1024
	if maxBytes <= 0 {
		maxBytes = DefaultMaxFileSizeKB * 1024
	}

	var files []DiscoveredFile
	for _, rel := range candidates {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		rel = filepath.ToSlash(rel)
		if f, ok := accept(root, rel, maxBytes); ok && !matcher.Match(rel) {
			files = append(files, f)
		}
	}
	sort.Slice(files, func(i, j int) bool { return files[i].RelativePath < files[j].RelativePath })

	res.Total = len(files)
	res.Files, res.Truncated = prioritize(files, opts.MaxFiles)
	slog.Debug("discovered files", "root", root, "strategy", res.Strategy, "kept", len(res.Files), "total", res.Total)
	return res, nil
}

// accept applies the extension, size and binary filters.
func accept(root, rel string, maxBytes int64) (DiscoveredFile, bool) {
	if !classify.IsSource(rel) {
		return DiscoveredFile{}, false
	}
	abs := filepath.Join(root, filepath.FromSlash(rel))
	info, err := os.Lstat(abs)
	if err != nil || !info.Mode().IsRegular() {
		return DiscoveredFile{}, false
	}
	if info.Size() == 0 || info.Size() > maxBytes {
		return DiscoveredFile{}, false
	}
	binary, err := isBinary(abs)
	if err != nil || binary {
		return DiscoveredFile{}, false
	}
	return DiscoveredFile{
		RelativePath: rel,
		AbsolutePath: abs,
		SizeBytes:    info.Size(),
		Language:     classify.Classify(rel).Language,
	}, true
}

// isBinary reports whether the first bytes of the file contain a NUL.
func isBinary(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()
	buf := make([]byte, binarySniffBytes)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return false, err
	}
	return bytes.IndexByte(buf[:n], 0) >= 0, nil
}

func walk(ctx context.Context, root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			slog.Debug("skipping unreadable path", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path == root {
			return nil
		}
		name := d.Name()
		if d.IsDir() {
			if prunedDirs[name] || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	return files, nil
}

// prioritize keeps files under PriorityDirs ahead of the rest, preserving
// the existing order within each group, and truncates to maxFiles.
func prioritize(files []DiscoveredFile, maxFiles int) ([]DiscoveredFile, bool) {
	if maxFiles <= 0 {
		maxFiles = DefaultMaxFiles
	}
	if len(files) <= maxFiles {
		return files, false
	}
	priority := make(map[string]bool, len(PriorityDirs))
	for _, d := range PriorityDirs {
		priority[d] = true
	}
	ordered := make([]DiscoveredFile, 0, len(files))
	var rest []DiscoveredFile
	for _, f := range files {
		top, _, nested := strings.Cut(f.RelativePath, "/")
		if nested && priority[top] {
			ordered = append(ordered, f)
		} else {
			rest = append(rest, f)
		}
	}
	ordered = append(ordered, rest...)
	return ordered[:maxFiles], true
}

// Paths returns the relative paths of files.
func Paths(files []DiscoveredFile) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.RelativePath
	}
	return out
}
