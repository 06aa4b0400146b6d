package scan

import (
	"regexp"
	"strings"

	"github.com/dshills/vigil/internal/classify"
	"github.com/dshills/vigil/internal/finding"
	"github.com/dshills/vigil/internal/rules"
)

// fileContext holds the per-file facts the filters consult.
type fileContext struct {
	path         string
	isTest       bool
	isDoc        bool
	isConfig     bool
	isMarkup     bool
	isTooling    bool
	hashComments bool
	dashComments bool
}

var hashCommentExts = map[string]bool{
	"py": true, "rb": true, "sh": true, "bash": true, "zsh": true,
	"yaml": true, "yml": true, "toml": true, "conf": true, "env": true,
}

var dashCommentExts = map[string]bool{"sql": true, "lua": true, "hs": true}

func newFileContext(path string) fileContext {
	return fileContext{
		path:         path,
		isTest:       classify.IsTestFile(path),
		isDoc:        classify.IsDocFile(path),
		isConfig:     classify.IsConfigFile(path),
		isMarkup:     classify.IsMarkupFile(path),
		isTooling:    classify.IsBuildTooling(path),
		hashComments: hashCommentExts[classify.Ext(path)],
		dashComments: dashCommentExts[classify.Ext(path)],
	}
}

// Filter is one false-positive predicate. Suppress returns true when a
// match of rule on line should be dropped.
type Filter struct {
	Name     string
	Suppress func(r rules.PatternRule, fc fileContext, line string) bool
}

// Filters is the false-positive pipeline, evaluated in order. The first
// predicate that fires suppresses the match.
var Filters = []Filter{
	{Name: "doc-file", Suppress: suppressDocFile},
	{Name: "comment-line", Suppress: suppressCommentLine},
	{Name: "import-line", Suppress: suppressImportLine},
	{Name: "config-file", Suppress: suppressConfigFile},
	{Name: "commented-out-code", Suppress: suppressCommentedOutCode},
	{Name: "markup-nesting", Suppress: suppressMarkupNesting},
	{Name: "test-callback-nesting", Suppress: suppressTestCallbackNesting},
	{Name: "tooling-command", Suppress: suppressToolingCommand},
	{Name: "secret-context", Suppress: suppressSecretContext},
}

// suppressed runs the pipeline and returns the name of the filter that
// fired, or "".
func suppressed(r rules.PatternRule, fc fileContext, line string) string {
	for _, f := range Filters {
		if f.Suppress(r, fc, line) {
			return f.Name
		}
	}
	return ""
}

func suppressDocFile(r rules.PatternRule, fc fileContext, _ string) bool {
	return fc.isDoc && r.Class != rules.ClassComment
}

func suppressCommentLine(r rules.PatternRule, fc fileContext, line string) bool {
	return r.Class != rules.ClassComment && isCommentLine(line, fc)
}

func isCommentLine(line string, fc fileContext) bool {
	t := strings.TrimSpace(line)
	switch {
	case t == "":
		return false
	case strings.HasPrefix(t, "//"), strings.HasPrefix(t, "/*"), strings.HasPrefix(t, "<!--"):
		return true
	case strings.HasPrefix(t, "*") && !strings.HasPrefix(t, "**") && !strings.HasPrefix(t, "*="):
		// block comment continuation
		return true
	case fc.dashComments && strings.HasPrefix(t, "--"):
		return true
	case fc.hashComments && strings.HasPrefix(t, "#") && !strings.HasPrefix(t, "#!"):
		return true
	}
	return false
}

var importLineRe = regexp.MustCompile(`^\s*(?:import\b|from\s+\S+\s+import\b|export\s+.*\bfrom\b|@import\b|#include\b|use\s+[\w\\:]+|using\s+[\w.]+\s*;)|\brequire\s*\(`)

func suppressImportLine(r rules.PatternRule, _ fileContext, line string) bool {
	switch r.Class {
	case rules.ClassURL, rules.ClassIP, rules.ClassSecret, rules.ClassHardcodedSecret:
		return importLineRe.MatchString(line)
	}
	return false
}

func suppressConfigFile(r rules.PatternRule, fc fileContext, _ string) bool {
	return fc.isConfig && r.Category == finding.CategorySecurity
}

var statementShapeRe = regexp.MustCompile(`[\w\]\)]\s*\(.*\)|\w\s*[:=]=?\s*\S|;\s*$|\breturn\b`)

// suppressCommentedOutCode drops a match that only occurs inside a trailing
// comment holding what looks like a disabled statement.
func suppressCommentedOutCode(r rules.PatternRule, fc fileContext, line string) bool {
	if r.Class == rules.ClassComment || r.Pattern == nil {
		return false
	}
	idx := trailingCommentStart(line, fc.hashComments)
	if idx < 0 {
		return false
	}
	code, comment := line[:idx], line[idx:]
	return statementShapeRe.MatchString(comment) && !r.Pattern.MatchString(code)
}

// trailingCommentStart returns the index of a // or # comment that follows
// code on the same line, ignoring markers inside string literals.
func trailingCommentStart(line string, hashComments bool) int {
	var quote byte
	for i := 0; i < len(line); i++ {
		c := line[i]
		if quote != 0 {
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'', '`':
			quote = c
		case '/':
			if i+1 < len(line) && line[i+1] == '/' && i > 0 && (line[i-1] == ' ' || line[i-1] == '\t') {
				return i
			}
		case '#':
			if hashComments && i > 0 && (line[i-1] == ' ' || line[i-1] == '\t') {
				return i
			}
		}
	}
	return -1
}

func suppressMarkupNesting(r rules.PatternRule, fc fileContext, _ string) bool {
	return fc.isMarkup && r.Class == rules.ClassNesting
}

func suppressTestCallbackNesting(r rules.PatternRule, fc fileContext, _ string) bool {
	return fc.isTest && r.Class == rules.ClassCallbackNesting
}

func suppressToolingCommand(r rules.PatternRule, fc fileContext, _ string) bool {
	return fc.isTooling && r.Class == rules.ClassCommandInjection
}

var (
	mockDataRe    = regexp.MustCompile(`(?i)mock|fake|dummy|fixture|sample|stub|example`)
	redactionRe   = regexp.MustCompile(`(?i)redacted|\*{4,}|x{8,}|<[a-z_-]*(?:secret|token|key|password)[a-z_-]*>`)
	placeholderRe = regexp.MustCompile(`(?i:process\.env|os\.environ|os\.getenv|getenv\(|your[_-]?(?:api[_-]?)?(?:key|secret|token|password)|placeholder|changeme|\b(?:type|schema|format|label|pattern|field)\s*[:=])|\$\{[A-Z0-9_]+\}|\{\{[^}]*\}\}`)
)

func suppressSecretContext(r rules.PatternRule, _ fileContext, line string) bool {
	if !r.Class.IsSecret() {
		return false
	}
	if mockDataRe.MatchString(line) || redactionRe.MatchString(line) {
		return true
	}
	return r.Class == rules.ClassHardcodedSecret && placeholderRe.MatchString(line)
}
