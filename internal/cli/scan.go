package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dshills/vigil/internal/config"
	"github.com/dshills/vigil/internal/finding"
	"github.com/dshills/vigil/internal/gitctx"
	"github.com/dshills/vigil/internal/metrics"
	"github.com/dshills/vigil/internal/output"
	"github.com/dshills/vigil/internal/review"
	"github.com/spf13/cobra"
)

// Shared scan flags
var (
	flagPaths        string
	flagExclude      string
	flagContextLines int
	flagFormat       string
	flagOut          string
	flagFailOn       string
	flagMaxFindings  int
	flagTools        string
	flagTimeout      time.Duration
	flagWorkers      int
	flagCleaning     bool
	flagMetricsFile  string
	flagNoRedact     bool
)

func addScanFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagPaths, "paths", "", "Limit the git diff to these pathspecs (comma-separated)")
	cmd.Flags().StringVar(&flagExclude, "exclude", "", "Exclude file path globs (comma-separated)")
	cmd.Flags().IntVar(&flagContextLines, "context-lines", 0, "Number of context lines in diff")
	cmd.Flags().StringVar(&flagFormat, "format", "", "Output format (text, json, markdown, sarif)")
	cmd.Flags().StringVar(&flagOut, "out", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&flagFailOn, "fail-on", "", "Fail on severity threshold (none, info, low, medium, high, critical)")
	cmd.Flags().IntVar(&flagMaxFindings, "max-findings", 0, "Maximum number of findings listed in the report")
	cmd.Flags().StringVar(&flagTools, "tools", "", "Analyzers to run (comma-separated: rules, gosec, bandit, eslint, semgrep)")
	cmd.Flags().DurationVar(&flagTimeout, "timeout", 0, "Per-analyzer timeout (e.g. 90s)")
	cmd.Flags().IntVar(&flagWorkers, "workers", 0, "Files scanned in parallel by the rule engine")
	cmd.Flags().BoolVar(&flagCleaning, "cleaning", false, "Enable code-cleaning rules")
	cmd.Flags().StringVar(&flagMetricsFile, "metrics-file", "", "Write Prometheus metrics in text format to this path")
	cmd.Flags().BoolVar(&flagNoRedact, "no-redact", false, "Disable secret redaction (use with caution)")
}

func buildOverrides() map[string]string {
	m := make(map[string]string)
	if flagFormat != "" {
		m["format"] = flagFormat
	}
	if flagFailOn != "" {
		m["failOn"] = flagFailOn
	}
	if flagMaxFindings > 0 {
		m["maxFindings"] = strconv.Itoa(flagMaxFindings)
	}
	if flagContextLines > 0 {
		m["contextLines"] = strconv.Itoa(flagContextLines)
	}
	if flagTools != "" {
		m["tools"] = flagTools
	}
	if flagTimeout > 0 {
		m["toolTimeoutSeconds"] = strconv.Itoa(max(1, int(flagTimeout.Seconds())))
	}
	if flagWorkers > 0 {
		m["workers"] = strconv.Itoa(flagWorkers)
	}
	if flagCleaning {
		m["cleaning"] = "true"
	}
	return m
}

// loadConfig merges flags into the effective config and validates the
// values the scan depends on.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(buildOverrides())
	if err != nil {
		return config.Config{}, err
	}
	if flagExclude != "" {
		cfg.Exclude = append(cfg.Exclude, splitComma(flagExclude)...)
	}
	if flagNoRedact {
		cfg.Privacy.RedactSecrets = false
		fmt.Fprintln(os.Stderr, "WARNING: secret redaction is disabled")
	}
	if _, err := output.GetWriter(cfg.Format); err != nil {
		return config.Config{}, err
	}
	if cfg.FailOn != "none" && cfg.FailOn != "" {
		if _, ok := finding.ParseSeverity(cfg.FailOn); !ok {
			return config.Config{}, fmt.Errorf("invalid fail-on threshold %q", cfg.FailOn)
		}
	}
	return cfg, nil
}

func buildDiffOpts(cfg config.Config) gitctx.DiffOptions {
	return gitctx.DiffOptions{
		ContextLines: cfg.ContextLines,
		Paths:        splitComma(flagPaths),
	}
}

func splitComma(s string) []string {
	parts := strings.Split(s, ",")
	var result []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// newEngine loads the project file under root and builds the scan engine.
func newEngine(cfg config.Config, root string) (*review.Engine, *metrics.Recorder, error) {
	project, err := config.LoadProject(root)
	if err != nil {
		return nil, nil, err
	}
	rec := metrics.New()
	engine, err := review.New(cfg, project, version, rec)
	if err != nil {
		return nil, nil, err
	}
	return engine, rec, nil
}

type diffCollector func(ctx context.Context, opts gitctx.DiffOptions) (gitctx.DiffResult, error)

// runDiffScan collects a diff, scans it and writes the report. Config
// problems are returned to cobra as usage errors; everything after that is
// a runtime failure.
func runDiffScan(cmd *cobra.Command, collect diffCollector) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	gitStart := time.Now()
	diff, err := collect(ctx, buildDiffOpts(cfg))
	if err != nil {
		fail("%v", err)
		return nil
	}
	gitMs := time.Since(gitStart).Milliseconds()

	root := diff.Repo.Root
	if root == "" {
		root = "."
	}
	engine, rec, err := newEngine(cfg, root)
	if err != nil {
		return err
	}

	report, err := engine.RunDiff(ctx, diff)
	if err != nil {
		fail("%v", err)
		return nil
	}
	report.Timing.GitMs = gitMs
	report.Timing.TotalMs += gitMs
	finish(report, cfg, rec)
	return nil
}

func finish(report *review.Report, cfg config.Config, rec *metrics.Recorder) {
	if err := output.WriteReport(report, cfg.Format, flagOut); err != nil {
		fail("writing output: %v", err)
		return
	}
	if err := rec.WriteTextfile(flagMetricsFile); err != nil {
		fail("%v", err)
		return
	}
	if report.MeetsThreshold(cfg.FailOn) {
		exitCode = ExitFindings
	}
}

// readInput returns the named file, or stdin when path is empty or "-".
func readInput(cmd *cobra.Command, path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan code changes",
	Long:  "Scan code changes with the configured analyzers. Use subcommands to choose what to scan.",
}

var scanUnstagedCmd = &cobra.Command{
	Use:   "unstaged",
	Short: "Scan unstaged changes (working tree vs index)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDiffScan(cmd, func(ctx context.Context, opts gitctx.DiffOptions) (gitctx.DiffResult, error) {
			return gitctx.Unstaged(ctx, ".", opts)
		})
	},
}

var scanStagedCmd = &cobra.Command{
	Use:   "staged",
	Short: "Scan staged changes (index vs HEAD)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDiffScan(cmd, func(ctx context.Context, opts gitctx.DiffOptions) (gitctx.DiffResult, error) {
			return gitctx.Staged(ctx, ".", opts)
		})
	},
}

var scanCommitCmd = &cobra.Command{
	Use:   "commit <sha>",
	Short: "Scan the changes a commit introduced",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDiffScan(cmd, func(ctx context.Context, opts gitctx.DiffOptions) (gitctx.DiffResult, error) {
			return gitctx.Commit(ctx, ".", args[0], opts)
		})
	},
}

var (
	flagMergeBase bool
)

var scanRangeCmd = &cobra.Command{
	Use:   "range <revRange>",
	Short: "Scan a revision range (e.g., origin/main..HEAD)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDiffScan(cmd, func(ctx context.Context, opts gitctx.DiffOptions) (gitctx.DiffResult, error) {
			return gitctx.Range(ctx, ".", args[0], flagMergeBase, opts)
		})
	},
}

var scanDiffCmd = &cobra.Command{
	Use:   "diff [file]",
	Short: "Scan a unified diff from a file or stdin",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var path string
		if len(args) == 1 {
			path = args[0]
		}
		return runDiffScan(cmd, func(ctx context.Context, _ gitctx.DiffOptions) (gitctx.DiffResult, error) {
			text, err := readInput(cmd, path)
			if err != nil {
				return gitctx.DiffResult{}, err
			}
			res := gitctx.DiffResult{Diff: text, Mode: review.ModeDiff, Range: path}
			if gitctx.Probe(ctx, ".") {
				if meta, err := gitctx.GetRepoMeta(ctx, "."); err == nil {
					res.Repo = meta
				}
			}
			return res, nil
		})
	},
}

var scanRepoCmd = &cobra.Command{
	Use:   "repo [path]",
	Short: "Scan every source file under a directory",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := "."
		if len(args) == 1 {
			target = args[0]
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		engine, rec, err := newEngine(cfg, target)
		if err != nil {
			return err
		}
		report, err := engine.RunRepo(cmd.Context(), target)
		if err != nil {
			fail("%v", err)
			return nil
		}
		finish(report, cfg, rec)
		return nil
	},
}

func init() {
	scanCmd.AddCommand(scanUnstagedCmd)
	scanCmd.AddCommand(scanStagedCmd)
	scanCmd.AddCommand(scanCommitCmd)
	scanCmd.AddCommand(scanRangeCmd)
	scanCmd.AddCommand(scanDiffCmd)
	scanCmd.AddCommand(scanRepoCmd)

	addScanFlags(scanUnstagedCmd)
	addScanFlags(scanStagedCmd)
	addScanFlags(scanCommitCmd)
	addScanFlags(scanRangeCmd)
	addScanFlags(scanDiffCmd)
	addScanFlags(scanRepoCmd)

	scanRangeCmd.Flags().BoolVar(&flagMergeBase, "merge-base", false, "Diff from the merge base (a...b)")
}
