package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dshills/vigil/internal/config"
	"github.com/dshills/vigil/internal/finding"
	"github.com/dshills/vigil/internal/rules"
	"github.com/spf13/cobra"
)

var (
	flagRulesDir      string
	flagRulesFormat   string
	flagRulesCleaning bool
)

// ruleInfo is the listing shape of one rule.
type ruleInfo struct {
	ID         string             `json:"id"`
	Title      string             `json:"title"`
	Severity   finding.Severity   `json:"severity"`
	Category   finding.Category   `json:"category"`
	Confidence finding.Confidence `json:"confidence"`
	Languages  []string           `json:"languages"`
	Fixable    bool               `json:"fixable"`
}

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect the pattern rules",
}

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the rules active for a project",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(nil)
		if err != nil {
			return err
		}
		project, err := config.LoadProject(flagRulesDir)
		if err != nil {
			return err
		}
		set, errs := rules.ForProject(project, cfg.Cleaning || flagRulesCleaning)
		for _, err := range errs {
			slog.Warn("skipping custom rule", "error", err)
		}

		infos := make([]ruleInfo, 0, set.Len())
		for _, r := range set.Rules() {
			infos = append(infos, ruleInfo{
				ID:         r.ID,
				Title:      r.Title,
				Severity:   r.Severity,
				Category:   r.Category,
				Confidence: r.Confidence,
				Languages:  r.Languages,
				Fixable:    r.HasFix(),
			})
		}

		switch flagRulesFormat {
		case "json":
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(infos)
		case "", "text":
			return writeRuleTable(cmd.OutOrStdout(), infos)
		default:
			return fmt.Errorf("unknown format: %s (valid: text, json)", flagRulesFormat)
		}
	},
}

func writeRuleTable(w io.Writer, infos []ruleInfo) error {
	r := lipgloss.NewRenderer(w)
	header := r.NewStyle().Bold(true).Padding(0, 1)
	cell := r.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(r.NewStyle().Foreground(lipgloss.Color("#64748B"))).
		Headers("ID", "SEVERITY", "CATEGORY", "LANGUAGES", "FIX", "TITLE").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
	for _, info := range infos {
		fix := ""
		if info.Fixable {
			fix = "yes"
		}
		t.Row(info.ID, string(info.Severity), string(info.Category), strings.Join(info.Languages, ","), fix, info.Title)
	}
	_, err := fmt.Fprintln(w, t.String())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%d rules\n", len(infos))
	return err
}

func init() {
	rulesCmd.AddCommand(rulesListCmd)
	rulesListCmd.Flags().StringVar(&flagRulesDir, "dir", ".", "Project directory holding "+config.ProjectFileName)
	rulesListCmd.Flags().StringVar(&flagRulesFormat, "format", "text", "Output format (text, json)")
	rulesListCmd.Flags().BoolVar(&flagRulesCleaning, "cleaning", false, "Include code-cleaning rules")
}
