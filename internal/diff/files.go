package diff

import (
	"fmt"
	"strings"

	"github.com/dshills/vigil/internal/finding"
)

// AddedLines returns the new-file line numbers of every added line, in order.
func (f DiffFile) AddedLines() []int {
	var lines []int
	for _, h := range f.Hunks {
		for _, c := range h.Changes {
			if c.Type == ChangeAdd {
				lines = append(lines, c.LineNumber)
			}
		}
	}
	return lines
}

// AddedRanges collapses AddedLines into contiguous inclusive spans.
func (f DiffFile) AddedRanges() []finding.LineRange {
	var ranges []finding.LineRange
	for _, n := range f.AddedLines() {
		if len(ranges) > 0 && ranges[len(ranges)-1].End+1 == n {
			ranges[len(ranges)-1].End = n
			continue
		}
		ranges = append(ranges, finding.LineRange{Start: n, End: n})
	}
	return ranges
}

// NewContent rebuilds the new side of the file from its hunks. Lines the
// diff does not show are left blank so that line numbers stay aligned with
// the real file.
func (f DiffFile) NewContent() string {
	last := 0
	for _, h := range f.Hunks {
		for _, c := range h.Changes {
			if c.Type != ChangeDelete && c.LineNumber > last {
				last = c.LineNumber
			}
		}
	}
	if last == 0 {
		return ""
	}
	lines := make([]string, last)
	for _, h := range f.Hunks {
		for _, c := range h.Changes {
			if c.Type != ChangeDelete && c.LineNumber >= 1 {
				lines[c.LineNumber-1] = c.Content
			}
		}
	}
	return strings.Join(lines, "\n") + "\n"
}

// Render formats a single hunk back into unified diff text.
func (h DiffHunk) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "@@ -%d,%d +%d,%d @@", h.OldStart, h.OldLines, h.NewStart, h.NewLines)
	if h.Section != "" {
		b.WriteString(" ")
		b.WriteString(h.Section)
	}
	b.WriteString("\n")
	for _, c := range h.Changes {
		switch c.Type {
		case ChangeAdd:
			b.WriteString("+")
		case ChangeDelete:
			b.WriteString("-")
		default:
			b.WriteString(" ")
		}
		b.WriteString(c.Content)
		b.WriteString("\n")
	}
	return b.String()
}

// Render formats every hunk of the file, without file headers.
func (f DiffFile) Render() string {
	var b strings.Builder
	for _, h := range f.Hunks {
		b.WriteString(h.Render())
	}
	return b.String()
}

// ChangedPaths returns the paths of files that still exist after the diff.
func ChangedPaths(files []DiffFile) []string {
	var paths []string
	for _, f := range files {
		if f.Status == StatusDeleted || f.Binary {
			continue
		}
		paths = append(paths, f.Path)
	}
	return paths
}

// ChangedLineRanges maps each surviving file to the spans of lines it adds.
// Files that only delete lines map to an empty slice, so nothing in them is
// reported.
func ChangedLineRanges(files []DiffFile) finding.LineRanges {
	lr := make(finding.LineRanges, len(files))
	for _, f := range files {
		if f.Status == StatusDeleted || f.Binary {
			continue
		}
		ranges := finding.MergeRanges(f.AddedRanges())
		if ranges == nil {
			ranges = []finding.LineRange{}
		}
		lr[f.Path] = ranges
	}
	return lr
}
