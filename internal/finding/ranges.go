package finding

import "sort"

// LineRange is a 1-based inclusive line span.
type LineRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Overlaps reports whether two spans share at least one line.
func (r LineRange) Overlaps(o LineRange) bool {
	return r.Start <= o.End && o.Start <= r.End
}

// Contains reports whether line falls inside the span.
func (r LineRange) Contains(line int) bool {
	return line >= r.Start && line <= r.End
}

// LineRanges maps a file path to the spans that findings in that file must
// overlap. A nil or empty map disables filtering. A path missing from a
// non-empty map is unfiltered; a path present with no spans admits nothing.
type LineRanges map[string][]LineRange

// Active reports whether the filter restricts anything at all.
func (lr LineRanges) Active() bool {
	return len(lr) > 0
}

// Allows reports whether a finding spanning start..end in path passes the filter.
func (lr LineRanges) Allows(path string, start, end int) bool {
	if len(lr) == 0 {
		return true
	}
	spans, ok := lr[path]
	if !ok {
		return true
	}
	target := LineRange{Start: start, End: end}
	for _, s := range spans {
		if s.Overlaps(target) {
			return true
		}
	}
	return false
}

// AllowsLine is Allows for a single line.
func (lr LineRanges) AllowsLine(path string, line int) bool {
	return lr.Allows(path, line, line)
}

// For returns the ranges registered for path and whether path is filtered.
func (lr LineRanges) For(path string) ([]LineRange, bool) {
	if len(lr) == 0 {
		return nil, false
	}
	spans, ok := lr[path]
	return spans, ok
}

// MergeRanges sorts spans and coalesces overlapping or adjacent ones.
func MergeRanges(spans []LineRange) []LineRange {
	if len(spans) == 0 {
		return nil
	}
	sorted := make([]LineRange, len(spans))
	copy(sorted, spans)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End < sorted[j].End
	})
	merged := []LineRange{sorted[0]}
	for _, s := range sorted[1:] {
		last := &merged[len(merged)-1]
		if s.Start <= last.End+1 {
			if s.End > last.End {
				last.End = s.End
			}
			continue
		}
		merged = append(merged, s)
	}
	return merged
}
