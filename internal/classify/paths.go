package classify

import (
	"path"
	"strings"
)

func segments(p string) []string {
	p = strings.ReplaceAll(p, "\\", "/")
	return strings.Split(strings.Trim(p, "/"), "/")
}

func hasDir(p string, dirs map[string]bool) bool {
	segs := segments(p)
	for _, s := range segs[:len(segs)-1] {
		if dirs[strings.ToLower(s)] {
			return true
		}
	}
	return false
}

var testDirs = map[string]bool{
	"__tests__": true, "__mocks__": true, "test": true, "tests": true,
	"spec": true, "specs": true, "testdata": true, "e2e": true,
}

// IsTestFile reports whether p looks like test code.
func IsTestFile(p string) bool {
	if hasDir(p, testDirs) {
		return true
	}
	base := strings.ToLower(path.Base(strings.ReplaceAll(p, "\\", "/")))
	switch {
	case strings.Contains(base, ".test."), strings.Contains(base, ".spec."):
		return true
	case strings.HasSuffix(base, "_test.go"), strings.HasSuffix(base, "_test.py"),
		strings.HasSuffix(base, "_spec.rb"), strings.HasSuffix(base, "test.java"):
		return true
	case strings.HasPrefix(base, "test_") && strings.HasSuffix(base, ".py"):
		return true
	}
	return false
}

var docExts = map[string]bool{
	"md": true, "mdx": true, "markdown": true, "rst": true, "txt": true, "adoc": true,
}

var docDirs = map[string]bool{
	"docs": true, "doc": true, "documentation": true, "examples": true, "example": true,
}

// IsDocFile reports whether p is documentation or example code.
func IsDocFile(p string) bool {
	return docExts[Ext(p)] || hasDir(p, docDirs)
}

var configExts = map[string]bool{
	"json": true, "yaml": true, "yml": true, "toml": true, "ini": true,
	"cfg": true, "conf": true, "env": true, "properties": true,
}

// IsConfigFile reports whether p is a configuration file.
func IsConfigFile(p string) bool {
	base := strings.ToLower(path.Base(strings.ReplaceAll(p, "\\", "/")))
	if configExts[Ext(p)] || strings.HasPrefix(base, ".env") {
		return true
	}
	return strings.Contains(base, ".config.") || strings.HasPrefix(base, ".eslintrc") ||
		strings.HasPrefix(base, ".babelrc") || strings.HasPrefix(base, ".prettierrc")
}

var markupExts = map[string]bool{
	"html": true, "htm": true, "xml": true, "vue": true, "svelte": true,
	"jsx": true, "tsx": true,
}

// IsMarkupFile reports whether p mixes code with deeply nested markup.
func IsMarkupFile(p string) bool {
	return markupExts[Ext(p)]
}

var toolingDirs = map[string]bool{
	"scripts": true, "script": true, "build": true, "tools": true, "tooling": true,
	".github": true, "ci": true, ".circleci": true, "bin": true, "hack": true,
}

var toolingFiles = []string{
	"makefile", "gulpfile.", "gruntfile.", "webpack.", "rollup.", "vite.", "esbuild.", "jakefile.",
}

// IsBuildTooling reports whether p belongs to build or developer tooling,
// where shelling out with interpolated arguments is expected.
func IsBuildTooling(p string) bool {
	if hasDir(p, toolingDirs) {
		return true
	}
	base := strings.ToLower(path.Base(strings.ReplaceAll(p, "\\", "/")))
	for _, prefix := range toolingFiles {
		if strings.HasPrefix(base, prefix) {
			return true
		}
	}
	return false
}
