package scan

import (
	"sort"
	"strings"
)

// splitLines splits content into lines without the trailing empty element
// a final newline would produce.
func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.Split(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// lineIndex maps byte offsets to 1-based line numbers.
type lineIndex struct {
	starts []int
}

func buildLineIndex(content string) lineIndex {
	starts := []int{0}
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return lineIndex{starts: starts}
}

func (i lineIndex) line(offset int) int {
	if offset < 0 {
		return 1
	}
	n := sort.Search(len(i.starts), func(idx int) bool { return i.starts[idx] > offset }) - 1
	if n < 0 {
		n = 0
	}
	return n + 1
}

// span returns the lines covered by content[start:end]. A newline belongs
// to the line it terminates, so a match ending in one stays on that line.
func (i lineIndex) span(start, end int) (int, int) {
	first := i.line(start)
	if end <= start {
		return first, first
	}
	return first, i.line(end - 1)
}

const maxSnippet = 240

func snippet(lines []string, start, end int) string {
	if start < 1 || start > len(lines) {
		return ""
	}
	end = min(end, len(lines), start+4)
	s := strings.TrimSpace(strings.Join(lines[start-1:end], "\n"))
	if len(s) > maxSnippet {
		s = s[:maxSnippet] + "..."
	}
	return s
}
