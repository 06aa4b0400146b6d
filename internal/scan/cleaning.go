package scan

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dshills/vigil/internal/classify"
	"github.com/dshills/vigil/internal/finding"
	"github.com/dshills/vigil/internal/rules"
)

// Cleaning thresholds.
const (
	MaxFileLines          = 500
	MaxFunctionLines      = 50
	MaxComplexity         = 10
	DuplicateWindow       = 6
	MinDuplicateChars     = 60
	QuoteMinorityFraction = 0.2
	QuoteMinSample        = 10
)

func clean(fc fileContext, lines []string, applicable []rules.PatternRule, ranges finding.LineRanges) []finding.StaticFinding {
	enabled := map[string]rules.PatternRule{}
	for _, r := range applicable {
		if r.Category == finding.CategoryCodeCleaning {
			enabled[r.ID] = r
		}
	}
	if len(enabled) == 0 || len(lines) == 0 {
		return nil
	}

	var out []finding.StaticFinding
	emit := func(id string, start, end int, detail string) {
		r, ok := enabled[id]
		if !ok || !ranges.Allows(fc.path, start, end) {
			return
		}
		f := newFinding(r, fc.path, lines, start, end)
		if detail != "" {
			f.Description = r.Description + " " + detail
		}
		if id == rules.RuleFileTooLong {
			f.CodeSnippet = ""
		}
		out = append(out, f)
	}

	if len(lines) > MaxFileLines {
		emit(rules.RuleFileTooLong, 1, len(lines), fmt.Sprintf("(%d lines, limit %d)", len(lines), MaxFileLines))
	}

	for _, fn := range findFunctions(lines, classify.Ext(fc.path) == "py") {
		if n := fn.end - fn.start + 1; n > MaxFunctionLines {
			emit(rules.RuleFunctionTooLong, fn.start, fn.end, fmt.Sprintf("(%d lines, limit %d)", n, MaxFunctionLines))
		}
		if c := complexity(lines[fn.start-1 : fn.end]); c > MaxComplexity {
			emit(rules.RuleComplexity, fn.start, fn.end, fmt.Sprintf("(complexity %d, limit %d)", c, MaxComplexity))
		}
	}

	for _, d := range findDuplicates(lines) {
		emit(rules.RuleDuplicateCode, d.start, d.start+DuplicateWindow-1, fmt.Sprintf("(first seen at line %d)", d.first))
	}

	if _, ok := enabled[rules.RuleMixedQuoteStyle]; ok {
		if line, single, double := mixedQuotes(lines, fc, ranges); line > 0 {
			emit(rules.RuleMixedQuoteStyle, line, line, fmt.Sprintf("(%d single-quoted, %d double-quoted)", single, double))
		}
	}

	return out
}

type funcSpan struct {
	start, end int
}

var (
	funcStartRe = regexp.MustCompile(`\bfunc\b|\bfunction\b|=>\s*\{?\s*$|\bfn\s+\w+|\bfun\s+\w+|^\s*(?:(?:public|private|protected|internal|static|final|async|override|virtual|abstract)\s+)*[\w<>\[\],]+\s+\w+\s*\([^;]*\)\s*(?:throws\s+[\w, ]+)?\s*\{?\s*$`)
	pyDefRe     = regexp.MustCompile(`^(\s*)(?:async\s+)?def\s+\w+`)
	controlRe   = regexp.MustCompile(`^\s*(?:if|for|while|switch|catch|else|do|try)\b`)
)

// findFunctions locates function bodies. Brace languages are tracked by
// brace depth; Python by indentation. Nested functions are counted as part
// of their enclosing function.
func findFunctions(lines []string, indentBased bool) []funcSpan {
	if indentBased {
		return findPythonFunctions(lines)
	}
	var spans []funcSpan
	depth := 0
	start, startDepth := 0, 0
	pending := 0 // line of a signature still waiting for its opening brace

	for i, line := range lines {
		n := i + 1
		code := stripStringsAndComments(line)
		if start == 0 && pending == 0 && funcStartRe.MatchString(code) && !controlRe.MatchString(code) {
			pending = n
		}
		for _, c := range code {
			switch c {
			case '{':
				if start == 0 && pending > 0 {
					start, startDepth = pending, depth
					pending = 0
				}
				depth++
			case '}':
				depth--
				if start > 0 && depth == startDepth {
					spans = append(spans, funcSpan{start: start, end: n})
					start = 0
				}
			}
		}
		if pending > 0 && n-pending >= 2 {
			pending = 0
		}
	}
	return spans
}

func findPythonFunctions(lines []string) []funcSpan {
	var spans []funcSpan
	for i := 0; i < len(lines); i++ {
		m := pyDefRe.FindStringSubmatch(lines[i])
		if m == nil {
			continue
		}
		indent := len(m[1])
		end := i + 1
		for j := i + 1; j < len(lines); j++ {
			t := strings.TrimSpace(lines[j])
			if t == "" {
				continue
			}
			if leadingWidth(lines[j]) <= indent {
				break
			}
			end = j + 1
		}
		spans = append(spans, funcSpan{start: i + 1, end: end})
		i = end - 1
	}
	return spans
}

func leadingWidth(s string) int {
	return len(s) - len(strings.TrimLeft(s, " \t"))
}

// stripStringsAndComments blanks string literal contents and drops a
// trailing // comment so braces inside them are not counted.
func stripStringsAndComments(line string) string {
	var b strings.Builder
	var quote byte
	for i := 0; i < len(line); i++ {
		c := line[i]
		if quote != 0 {
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
				b.WriteByte(c)
			}
			continue
		}
		if c == '/' && i+1 < len(line) && line[i+1] == '/' {
			break
		}
		if c == '"' || c == '\'' || c == '`' {
			quote = c
		}
		b.WriteByte(c)
	}
	return b.String()
}

var branchRe = regexp.MustCompile(`\b(?:if|elif|for|while|case|catch|except)\b|&&|\|\||\s\?\s|\band\b|\bor\b`)

// complexity is 1 plus the number of branch points in body.
func complexity(body []string) int {
	c := 1
	for _, line := range body {
		c += len(branchRe.FindAllString(stripStringsAndComments(line), -1))
	}
	return c
}

type duplicate struct {
	first, start int
}

var spaceRe = regexp.MustCompile(`\s+`)

func normalizeLine(s string) string {
	return spaceRe.ReplaceAllString(strings.TrimSpace(s), " ")
}

func trivialLine(s string) bool {
	switch s {
	case "", "{", "}", "};", ")", ");", "]", "})", "});", "end", "else", "} else {", "return", "break;":
		return true
	}
	return false
}

// findDuplicates reports windows of DuplicateWindow normalized lines that
// recur at least one window later in the file.
func findDuplicates(lines []string) []duplicate {
	if len(lines) < DuplicateWindow*2 {
		return nil
	}
	norm := make([]string, len(lines))
	for i, l := range lines {
		norm[i] = normalizeLine(l)
	}

	seen := map[string]int{}
	var dups []duplicate
	for i := 0; i+DuplicateWindow <= len(norm); i++ {
		window := norm[i : i+DuplicateWindow]
		trivial := 0
		for _, l := range window {
			if trivialLine(l) {
				trivial++
			}
		}
		key := strings.Join(window, "\n")
		if trivial > 2 || len(key) < MinDuplicateChars {
			continue
		}
		first, ok := seen[key]
		if !ok {
			seen[key] = i + 1
			continue
		}
		if i+1-first < DuplicateWindow {
			continue
		}
		dups = append(dups, duplicate{first: first, start: i + 1})
		i += DuplicateWindow - 1
	}
	return dups
}

var (
	singleQuotedRe = regexp.MustCompile(`'(?:[^'\\]|\\.)*'`)
	doubleQuotedRe = regexp.MustCompile(`"(?:[^"\\]|\\.)*"`)
)

// mixedQuotes counts string literals by quote style. When the minority
// style exceeds QuoteMinorityFraction of at least QuoteMinSample literals it
// returns the first allowed line using the minority style.
func mixedQuotes(lines []string, fc fileContext, ranges finding.LineRanges) (line, single, double int) {
	singleLines := []int{}
	doubleLines := []int{}
	for i, l := range lines {
		if isCommentLine(l, fc) {
			continue
		}
		s := len(singleQuotedRe.FindAllString(l, -1))
		d := len(doubleQuotedRe.FindAllString(l, -1))
		single += s
		double += d
		if s > 0 {
			singleLines = append(singleLines, i+1)
		}
		if d > 0 {
			doubleLines = append(doubleLines, i+1)
		}
	}
	total := single + double
	if total < QuoteMinSample {
		return 0, single, double
	}
	minority, minorityLines := single, singleLines
	if double < single {
		minority, minorityLines = double, doubleLines
	}
	if float64(minority)/float64(total) <= QuoteMinorityFraction {
		return 0, single, double
	}
	for _, n := range minorityLines {
		if ranges.AllowsLine(fc.path, n) {
			return n, single, double
		}
	}
	return 0, single, double
}
