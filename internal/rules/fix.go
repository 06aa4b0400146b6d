package rules

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// fixContext is the number of unchanged lines shown around a fix.
const fixContext = 2

var hunkRangeRe = regexp.MustCompile(`^@@ -(\d+)((?:,\d+)?) \+(\d+)((?:,\d+)?) @@`)

// LineFix applies the rule's line-level fix to line. It returns false when
// the rule has no line fix or the fix leaves the line unchanged.
func (r PatternRule) LineFix(line string) (string, bool) {
	if r.Fix != nil {
		out, ok := r.Fix(line)
		return out, ok && out != line
	}
	if r.FixTemplate != "" && r.Pattern != nil {
		out := r.Pattern.ReplaceAllString(line, r.FixTemplate)
		return out, out != line
	}
	return "", false
}

// MultilineFixFor rewrites the matched text of a multiline match spanning
// lines start..end (1-based). It returns the replacement lines.
func (r PatternRule) MultilineFixFor(lines []string, start, end int, match string) ([]string, bool) {
	if r.MultilineFix == nil {
		return nil, false
	}
	replaced, ok := r.MultilineFix(match)
	if !ok || replaced == match {
		return nil, false
	}
	span := strings.Join(lines[start-1:end], "\n")
	idx := strings.Index(span, match)
	if idx < 0 {
		return nil, false
	}
	out := span[:idx] + replaced + span[idx+len(match):]
	return strings.Split(out, "\n"), true
}

// FixDiff renders a unified patch replacing lines start..end (1-based,
// inclusive) of the file with replacement. Hunk headers refer to real file
// line numbers.
func FixDiff(path string, lines []string, start, end int, replacement []string) (string, error) {
	if start < 1 || end < start || end > len(lines) {
		return "", fmt.Errorf("fix span %d-%d outside file of %d lines", start, end, len(lines))
	}
	lo := max(0, start-1-fixContext)
	hi := min(len(lines), end+fixContext)

	before := lines[lo:hi]
	after := make([]string, 0, len(before)-(end-start+1)+len(replacement))
	after = append(after, lines[lo:start-1]...)
	after = append(after, replacement...)
	after = append(after, lines[end:hi]...)

	ud := difflib.UnifiedDiff{
		A:        withNewlines(before),
		B:        withNewlines(after),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  fixContext,
	}
	s, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		return "", fmt.Errorf("rendering fix for %s: %w", path, err)
	}
	return shiftHunks(s, lo), nil
}

func withNewlines(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l + "\n"
	}
	return out
}

// shiftHunks moves hunk headers from window-relative to file line numbers.
func shiftHunks(patch string, offset int) string {
	if offset == 0 {
		return patch
	}
	lines := strings.SplitAfter(patch, "\n")
	for i, l := range lines {
		m := hunkRangeRe.FindStringSubmatch(l)
		if m == nil {
			continue
		}
		oldStart, _ := strconv.Atoi(m[1])
		newStart, _ := strconv.Atoi(m[3])
		header := fmt.Sprintf("@@ -%d%s +%d%s @@", oldStart+offset, m[2], newStart+offset, m[4])
		lines[i] = header + l[len(m[0]):]
	}
	return strings.Join(lines, "")
}
