package finding

import "sort"

// Dedupe removes findings that describe the same issue. Two findings are
// duplicates when they share file path, category and severity, their line
// spans overlap, and they either come from different tools or carry the same
// rule ID. Distinct rules of one tool are never merged. The input is first put into a deterministic order (path,
// span, then the most severe and most confident first) and the first finding
// of each duplicate group is kept, so Dedupe(Dedupe(x)) == Dedupe(x).
func Dedupe(findings []StaticFinding) []StaticFinding {
	if len(findings) == 0 {
		return []StaticFinding{}
	}
	sorted := make([]StaticFinding, len(findings))
	copy(sorted, findings)
	SortForMerge(sorted)

	// kept findings are bucketed by path so each comparison stays local to a file.
	byPath := make(map[string][]int)
	result := make([]StaticFinding, 0, len(sorted))
	for _, f := range sorted {
		dup := false
		for _, idx := range byPath[f.FilePath] {
			if isDuplicate(result[idx], f) {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		byPath[f.FilePath] = append(byPath[f.FilePath], len(result))
		result = append(result, f)
	}
	return result
}

func isDuplicate(a, b StaticFinding) bool {
	return a.FilePath == b.FilePath &&
		a.Category == b.Category &&
		a.Severity == b.Severity &&
		a.Lines().Overlaps(b.Lines()) &&
		(a.Tool != b.Tool || a.RuleID == b.RuleID)
}

// SortForMerge orders findings by path, start line, end line, then severity
// and confidence descending, then tool, rule and title for a total order.
func SortForMerge(findings []StaticFinding) {
	sort.SliceStable(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if a.FilePath != b.FilePath {
			return a.FilePath < b.FilePath
		}
		if a.StartLine != b.StartLine {
			return a.StartLine < b.StartLine
		}
		if a.EndLine != b.EndLine {
			return a.EndLine < b.EndLine
		}
		if ra, rb := SeverityRank(a.Severity), SeverityRank(b.Severity); ra != rb {
			return ra > rb
		}
		if ca, cb := ConfidenceRank(a.Confidence), ConfidenceRank(b.Confidence); ca != cb {
			return ca > cb
		}
		if a.Tool != b.Tool {
			return a.Tool < b.Tool
		}
		if a.RuleID != b.RuleID {
			return a.RuleID < b.RuleID
		}
		return a.Title < b.Title
	})
}

// SortBySeverity sorts findings by severity (most severe first), then path, then line.
func SortBySeverity(findings []StaticFinding) {
	sort.SliceStable(findings, func(i, j int) bool {
		ri := SeverityRank(findings[i].Severity)
		rj := SeverityRank(findings[j].Severity)
		if ri != rj {
			return ri > rj
		}
		if findings[i].FilePath != findings[j].FilePath {
			return findings[i].FilePath < findings[j].FilePath
		}
		return findings[i].StartLine < findings[j].StartLine
	})
}
