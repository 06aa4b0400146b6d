package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dshills/vigil/internal/analyzer"
	"github.com/dshills/vigil/internal/finding"
	"github.com/dshills/vigil/internal/gitctx"
	"github.com/spf13/cobra"
)

const (
	hookMarkerStart = "# >>> vigil pre-commit hook >>>"
	hookMarkerEnd   = "# <<< vigil pre-commit hook <<<"
)

// hookOptions are the scan settings baked into the installed hook.
type hookOptions struct {
	FailOn      string
	Format      string
	MaxFindings int
	Tools       string
	Cleaning    bool
}

var hookOpts hookOptions

func (o hookOptions) validate() error {
	if o.FailOn != "none" {
		if _, ok := finding.ParseSeverity(o.FailOn); !ok {
			return fmt.Errorf("invalid fail-on threshold %q", o.FailOn)
		}
	}
	if o.Tools != "" {
		if _, err := analyzer.Build(splitComma(o.Tools), nil); err != nil {
			return err
		}
	}
	return nil
}

// scanArgs is the vigil command line the hook runs.
func (o hookOptions) scanArgs() []string {
	args := []string{"vigil", "scan", "staged",
		"--fail-on", o.FailOn,
		"--format", o.Format,
		"--max-findings", strconv.Itoa(o.MaxFindings),
	}
	if tools := splitComma(o.Tools); len(tools) > 0 {
		args = append(args, "--tools", strings.Join(tools, ","))
	}
	if o.Cleaning {
		args = append(args, "--cleaning")
	}
	return args
}

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Manage git pre-commit hook",
}

var hookInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install vigil as a git pre-commit hook",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := hookOpts.validate(); err != nil {
			return err
		}
		hookPath, err := getHookPath(cmd.Context())
		if err != nil {
			fail("%v", err)
			return nil
		}
		if err := installHook(hookPath, generateHookScript(hookOpts)); err != nil {
			fail("%v", err)
			return nil
		}
		fmt.Fprintf(os.Stdout, "Installed vigil pre-commit hook at %s\n", hookPath)
		return nil
	},
}

var hookUninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove vigil pre-commit hook",
	RunE: func(cmd *cobra.Command, args []string) error {
		hookPath, err := getHookPath(cmd.Context())
		if err != nil {
			fail("%v", err)
			return nil
		}
		msg, err := uninstallHook(hookPath)
		if err != nil {
			fail("%v", err)
			return nil
		}
		fmt.Fprintln(os.Stdout, msg)
		return nil
	},
}

func getHookPath(ctx context.Context) (string, error) {
	gitDir, err := gitctx.GitDir(ctx, "")
	if err != nil {
		return "", err
	}
	return filepath.Join(gitDir, "hooks", "pre-commit"), nil
}

// installHook writes section into the hook at path, creating the file with
// a shebang when needed and replacing any earlier vigil section.
func installHook(path, section string) error {
	existing, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("reading hook file: %w", err)
	}
	content := "#!/bin/sh\n" + section
	if len(existing) > 0 {
		content = spliceVigilSection(string(existing), section)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating hooks directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o755); err != nil {
		return fmt.Errorf("writing hook file: %w", err)
	}
	return nil
}

// uninstallHook strips the vigil section from the hook at path. A hook left
// with nothing but a shebang is deleted.
func uninstallHook(path string) (string, error) {
	existing, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "No pre-commit hook found.", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading hook file: %w", err)
	}
	content := spliceVigilSection(string(existing), "")
	if content == string(existing) {
		return "No vigil section in " + path, nil
	}
	switch strings.TrimSpace(content) {
	case "", "#!/bin/sh", "#!/bin/bash":
		if err := os.Remove(path); err != nil {
			return "", fmt.Errorf("removing hook file: %w", err)
		}
		return "Removed vigil pre-commit hook at " + path, nil
	}
	if err := os.WriteFile(path, []byte(content), 0o755); err != nil {
		return "", fmt.Errorf("writing hook file: %w", err)
	}
	return "Removed vigil section from " + path, nil
}

// generateHookScript renders the marked hook section. Only exit code 1
// blocks the commit; usage and runtime failures are reported and let
// through, and a missing binary skips the scan.
func generateHookScript(o hookOptions) string {
	var b strings.Builder
	b.WriteString(hookMarkerStart + "\n")
	b.WriteString("if command -v vigil >/dev/null 2>&1; then\n")
	fmt.Fprintf(&b, "  %s\n", strings.Join(o.scanArgs(), " "))
	b.WriteString("  vigil_status=$?\n")
	b.WriteString("  case $vigil_status in\n")
	b.WriteString("  0) ;;\n")
	fmt.Fprintf(&b, "  %d)\n", ExitFindings)
	fmt.Fprintf(&b, "    echo \"vigil: findings at or above %s, commit blocked\" >&2\n", o.FailOn)
	b.WriteString("    exit 1\n")
	b.WriteString("    ;;\n")
	b.WriteString("  *)\n")
	b.WriteString("    echo \"vigil: scan failed (exit $vigil_status), allowing commit\" >&2\n")
	b.WriteString("    ;;\n")
	b.WriteString("  esac\n")
	b.WriteString("else\n")
	b.WriteString("  echo \"vigil: not on PATH, skipping pre-commit scan\" >&2\n")
	b.WriteString("fi\n")
	b.WriteString(hookMarkerEnd + "\n")
	return b.String()
}

// spliceVigilSection swaps the marked section of existing for section. An
// empty section removes it; a hook without markers gets section appended.
func spliceVigilSection(existing, section string) string {
	startIdx := strings.Index(existing, hookMarkerStart)
	endIdx := strings.Index(existing, hookMarkerEnd)
	if startIdx == -1 || endIdx < startIdx {
		if section == "" {
			return existing
		}
		if !strings.HasSuffix(existing, "\n") {
			existing += "\n"
		}
		return existing + section
	}
	after := strings.TrimPrefix(existing[endIdx+len(hookMarkerEnd):], "\n")
	return existing[:startIdx] + section + after
}

func init() {
	hookCmd.AddCommand(hookInstallCmd)
	hookCmd.AddCommand(hookUninstallCmd)
	f := hookInstallCmd.Flags()
	f.StringVar(&hookOpts.FailOn, "fail-on", "high", "Fail on severity threshold (none, info, low, medium, high, critical)")
	f.StringVar(&hookOpts.Format, "format", "text", "Output format (text, json, markdown, sarif)")
	f.IntVar(&hookOpts.MaxFindings, "max-findings", 10, "Maximum number of findings")
	f.StringVar(&hookOpts.Tools, "tools", "", "Analyzers the hook runs (comma-separated; default from config)")
	f.BoolVar(&hookOpts.Cleaning, "cleaning", false, "Enable code-cleaning rules in the hook")
}
