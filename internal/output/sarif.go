package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dshills/vigil/internal/finding"
	"github.com/dshills/vigil/internal/review"
)

// SARIFWriter outputs findings in SARIF v2.1.0 format.
type SARIFWriter struct{}

func (s *SARIFWriter) Write(w io.Writer, report *review.Report) error {
	sarif := buildSARIF(report)
	data, err := json.MarshalIndent(sarif, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling SARIF: %w", err)
	}
	_, err = w.Write(data)
	if err != nil {
		return fmt.Errorf("writing SARIF: %w", err)
	}
	_, err = fmt.Fprintln(w)
	return err
}

// SARIF schema types (v2.1.0)

type sarifLog struct {
	Version string     `json:"version"`
	Schema  string     `json:"$schema"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool        sarifTool         `json:"tool"`
	Results     []sarifResult     `json:"results"`
	Invocations []sarifInvocation `json:"invocations,omitempty"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string              `json:"id"`
	Name             string              `json:"name"`
	ShortDescription sarifMessage        `json:"shortDescription"`
	DefaultConfig    sarifDefaultConfig  `json:"defaultConfiguration"`
	Properties       sarifRuleProperties `json:"properties,omitempty"`
}

type sarifDefaultConfig struct {
	Level string `json:"level"`
}

type sarifRuleProperties struct {
	Tags []string `json:"tags,omitempty"`
}

type sarifResult struct {
	RuleID              string            `json:"ruleId"`
	Level               string            `json:"level"`
	Message             sarifMessage      `json:"message"`
	Locations           []sarifLocation   `json:"locations,omitempty"`
	PartialFingerprints map[string]string `json:"partialFingerprints,omitempty"`
	Fixes               []sarifFix        `json:"fixes,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           sarifRegion           `json:"region"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine int           `json:"startLine"`
	EndLine   int           `json:"endLine"`
	Snippet   *sarifMessage `json:"snippet,omitempty"`
}

type sarifFix struct {
	Description sarifMessage `json:"description"`
}

type sarifInvocation struct {
	ExecutionSuccessful        bool                `json:"executionSuccessful"`
	ToolExecutionNotifications []sarifNotification `json:"toolExecutionNotifications,omitempty"`
}

type sarifNotification struct {
	Level   string       `json:"level"`
	Message sarifMessage `json:"message"`
}

func buildSARIF(report *review.Report) sarifLog {
	var rules []sarifRule
	seen := make(map[string]bool)
	results := make([]sarifResult, 0, len(report.Findings))

	for _, f := range report.Findings {
		if !seen[f.RuleID] {
			seen[f.RuleID] = true
			rules = append(rules, sarifRule{
				ID:               f.RuleID,
				Name:             f.Title,
				ShortDescription: sarifMessage{Text: f.Title},
				DefaultConfig:    sarifDefaultConfig{Level: severityToLevel(f.Severity)},
				Properties:       sarifRuleProperties{Tags: append([]string{string(f.Category)}, f.References...)},
			})
		}

		msg := f.Description
		if msg == "" {
			msg = f.Title
		}
		region := sarifRegion{StartLine: f.StartLine, EndLine: f.EndLine}
		if f.CodeSnippet != "" {
			region.Snippet = &sarifMessage{Text: f.CodeSnippet}
		}
		result := sarifResult{
			RuleID:  f.RuleID,
			Level:   severityToLevel(f.Severity),
			Message: sarifMessage{Text: msg},
			Locations: []sarifLocation{{
				PhysicalLocation: sarifPhysicalLocation{
					ArtifactLocation: sarifArtifactLocation{URI: f.FilePath},
					Region:           region,
				},
			}},
			PartialFingerprints: map[string]string{"vigil/v1": f.ID},
		}
		if f.Suggestion != "" {
			result.Fixes = append(result.Fixes, sarifFix{
				Description: sarifMessage{Text: f.Suggestion},
			})
		}
		results = append(results, result)
	}

	inv := sarifInvocation{ExecutionSuccessful: len(report.Tools.Errors) == 0}
	for _, te := range report.Tools.Errors {
		inv.ToolExecutionNotifications = append(inv.ToolExecutionNotifications, sarifNotification{
			Level:   "error",
			Message: sarifMessage{Text: te.Error()},
		})
	}

	return sarifLog{
		Version: "2.1.0",
		Schema:  "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/main/sarif-2.1/schema/sarif-schema-2.1.0.json",
		Runs: []sarifRun{
			{
				Tool: sarifTool{
					Driver: sarifDriver{
						Name:           review.ToolName,
						Version:        report.Version,
						InformationURI: "https://github.com/dshills/vigil",
						Rules:          rules,
					},
				},
				Results:     results,
				Invocations: []sarifInvocation{inv},
			},
		},
	}
}

// severityToLevel maps a severity to a SARIF level.
func severityToLevel(s finding.Severity) string {
	switch s {
	case finding.SeverityCritical, finding.SeverityHigh:
		return "error"
	case finding.SeverityMedium:
		return "warning"
	default:
		return "note"
	}
}
