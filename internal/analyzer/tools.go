package analyzer

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/dshills/vigil/internal/finding"
)

// Gosec runs gosec over the Go packages of the repository.
func Gosec() *External {
	return &External{
		name:   "gosec",
		binary: "gosec",
		exts:   extSet("go"),
		args: func([]string) []string {
			return []string{"-fmt=json", "-quiet", "-no-fail", "./..."}
		},
		parse: parseGosec,
	}
}

// Bandit runs bandit over the changed Python files.
func Bandit() *External {
	return &External{
		name:   "bandit",
		binary: "bandit",
		exts:   extSet("py"),
		args: func(files []string) []string {
			return append([]string{"-f", "json", "-q"}, files...)
		},
		parse: parseBandit,
	}
}

// ESLint runs eslint over the changed JavaScript and TypeScript files.
func ESLint() *External {
	return &External{
		name:   "eslint",
		binary: "eslint",
		exts:   extSet("js", "jsx", "mjs", "cjs", "ts", "tsx", "mts", "cts", "vue"),
		args: func(files []string) []string {
			return append([]string{"-f", "json", "--no-error-on-unmatched-pattern"}, files...)
		},
		parse: parseESLint,
	}
}

// Semgrep runs semgrep with the registry's auto config over changed files.
func Semgrep() *External {
	return &External{
		name:   "semgrep",
		binary: "semgrep",
		args: func(files []string) []string {
			return append([]string{"scan", "--json", "--quiet", "--config", "auto"}, files...)
		},
		parse: parseSemgrep,
	}
}

func toolSeverity(s string) finding.Severity {
	switch strings.ToUpper(s) {
	case "CRITICAL":
		return finding.SeverityCritical
	case "HIGH", "ERROR":
		return finding.SeverityHigh
	case "MEDIUM", "WARNING":
		return finding.SeverityMedium
	case "LOW":
		return finding.SeverityLow
	default:
		return finding.SeverityInfo
	}
}

func toolConfidence(s string) finding.Confidence {
	switch strings.ToUpper(s) {
	case "HIGH":
		return finding.ConfidenceHigh
	case "LOW":
		return finding.ConfidenceLow
	default:
		return finding.ConfidenceMedium
	}
}

type gosecReport struct {
	Issues []struct {
		Severity   string `json:"severity"`
		Confidence string `json:"confidence"`
		RuleID     string `json:"rule_id"`
		Details    string `json:"details"`
		File       string `json:"file"`
		Code       string `json:"code"`
		Line       string `json:"line"`
		CWE        struct {
			ID string `json:"id"`
		} `json:"cwe"`
	} `json:"Issues"`
}

func parseGosec(out []byte) ([]finding.StaticFinding, error) {
	var r gosecReport
	if err := json.Unmarshal(out, &r); err != nil {
		return nil, err
	}
	fs := make([]finding.StaticFinding, 0, len(r.Issues))
	for _, is := range r.Issues {
		start, end := parseLineSpan(is.Line)
		desc := is.Details
		if is.CWE.ID != "" {
			desc = fmt.Sprintf("%s (CWE-%s)", desc, is.CWE.ID)
		}
		fs = append(fs, finding.StaticFinding{
			RuleID:      is.RuleID,
			Severity:    toolSeverity(is.Severity),
			Category:    finding.CategorySecurity,
			Title:       is.Details,
			Description: desc,
			FilePath:    is.File,
			StartLine:   start,
			EndLine:     end,
			CodeSnippet: strings.TrimSpace(is.Code),
			Confidence:  toolConfidence(is.Confidence),
		})
	}
	return fs, nil
}

// parseLineSpan reads gosec's "12" or "12-14" line field.
func parseLineSpan(s string) (int, int) {
	a, b, found := strings.Cut(s, "-")
	start, _ := strconv.Atoi(strings.TrimSpace(a))
	end := start
	if found {
		if n, err := strconv.Atoi(strings.TrimSpace(b)); err == nil {
			end = n
		}
	}
	return start, end
}

type banditReport struct {
	Results []struct {
		Filename        string `json:"filename"`
		IssueSeverity   string `json:"issue_severity"`
		IssueConfidence string `json:"issue_confidence"`
		IssueText       string `json:"issue_text"`
		TestID          string `json:"test_id"`
		TestName        string `json:"test_name"`
		LineNumber      int    `json:"line_number"`
		LineRange       []int  `json:"line_range"`
		Code            string `json:"code"`
		MoreInfo        string `json:"more_info"`
	} `json:"results"`
}

func parseBandit(out []byte) ([]finding.StaticFinding, error) {
	var r banditReport
	if err := json.Unmarshal(out, &r); err != nil {
		return nil, err
	}
	fs := make([]finding.StaticFinding, 0, len(r.Results))
	for _, res := range r.Results {
		start, end := res.LineNumber, res.LineNumber
		if n := len(res.LineRange); n > 0 {
			start, end = res.LineRange[0], res.LineRange[n-1]
		}
		fs = append(fs, finding.StaticFinding{
			RuleID:      res.TestID,
			Severity:    toolSeverity(res.IssueSeverity),
			Category:    finding.CategorySecurity,
			Title:       res.TestName,
			Description: res.IssueText,
			FilePath:    res.Filename,
			StartLine:   start,
			EndLine:     end,
			Suggestion:  res.MoreInfo,
			Confidence:  toolConfidence(res.IssueConfidence),
		})
	}
	return fs, nil
}

type eslintFile struct {
	FilePath string `json:"filePath"`
	Messages []struct {
		RuleID   string `json:"ruleId"`
		Severity int    `json:"severity"`
		Message  string `json:"message"`
		Line     int    `json:"line"`
		EndLine  int    `json:"endLine"`
		Fatal    bool   `json:"fatal"`
	} `json:"messages"`
}

func parseESLint(out []byte) ([]finding.StaticFinding, error) {
	var files []eslintFile
	if err := json.Unmarshal(out, &files); err != nil {
		return nil, err
	}
	var fs []finding.StaticFinding
	for _, f := range files {
		for _, m := range f.Messages {
			if m.Fatal || m.RuleID == "" {
				// parse errors, not lint results
				continue
			}
			sev, cat := finding.SeverityLow, finding.CategoryStyle
			if m.Severity >= 2 {
				sev, cat = finding.SeverityMedium, finding.CategoryBug
			}
			if strings.Contains(m.RuleID, "security") || strings.HasPrefix(m.RuleID, "no-eval") || strings.HasPrefix(m.RuleID, "no-implied-eval") {
				cat = finding.CategorySecurity
			}
			fs = append(fs, finding.StaticFinding{
				RuleID:      m.RuleID,
				Severity:    sev,
				Category:    cat,
				Title:       m.Message,
				Description: m.Message,
				FilePath:    f.FilePath,
				StartLine:   m.Line,
				EndLine:     max(m.EndLine, m.Line),
				Confidence:  finding.ConfidenceHigh,
			})
		}
	}
	return fs, nil
}

type semgrepReport struct {
	Results []struct {
		CheckID string `json:"check_id"`
		Path    string `json:"path"`
		Start   struct {
			Line int `json:"line"`
		} `json:"start"`
		End struct {
			Line int `json:"line"`
		} `json:"end"`
		Extra struct {
			Message  string `json:"message"`
			Severity string `json:"severity"`
			Lines    string `json:"lines"`
			Fix      string `json:"fix"`
			Metadata struct {
				Category   string `json:"category"`
				Confidence string `json:"confidence"`
			} `json:"metadata"`
		} `json:"extra"`
	} `json:"results"`
}

func parseSemgrep(out []byte) ([]finding.StaticFinding, error) {
	var r semgrepReport
	if err := json.Unmarshal(out, &r); err != nil {
		return nil, err
	}
	fs := make([]finding.StaticFinding, 0, len(r.Results))
	for _, res := range r.Results {
		cat := finding.CategoryBestPractice
		switch strings.ToLower(res.Extra.Metadata.Category) {
		case "security":
			cat = finding.CategorySecurity
		case "correctness":
			cat = finding.CategoryBug
		case "performance":
			cat = finding.CategoryPerformance
		case "maintainability":
			cat = finding.CategoryMaintainability
		}
		title := res.CheckID
		if i := strings.LastIndex(title, "."); i >= 0 {
			title = title[i+1:]
		}
		fs = append(fs, finding.StaticFinding{
			RuleID:      res.CheckID,
			Severity:    toolSeverity(res.Extra.Severity),
			Category:    cat,
			Title:       title,
			Description: res.Extra.Message,
			FilePath:    res.Path,
			StartLine:   res.Start.Line,
			EndLine:     res.End.Line,
			CodeSnippet: strings.TrimSpace(res.Extra.Lines),
			Suggestion:  res.Extra.Fix,
			Confidence:  toolConfidence(res.Extra.Metadata.Confidence),
		})
	}
	return fs, nil
}
