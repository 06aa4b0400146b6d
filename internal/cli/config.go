package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/dshills/vigil/internal/config"
	"github.com/dshills/vigil/internal/review"
	"github.com/dshills/vigil/internal/rules"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage vigil configuration",
}

var flagInitProject bool

// projectTemplate seeds a new .vigil.toml.
const projectTemplate = `# vigil project settings
ignore = ["testdata/**"]
disabled_rules = []

[severity_overrides]
# quality = "low"

# [[rules]]
# id = "no-fmt-println"
# title = "fmt.Println left in code"
# pattern = 'fmt\.Println\('
# severity = "low"
# category = "quality"
# languages = ["go"]
`

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagInitProject {
			return initProjectFile()
		}
		path, err := config.ConfigPath()
		if err != nil {
			return err
		}

		if _, err := os.Stat(path); err == nil {
			fmt.Fprintf(os.Stderr, "Config file already exists at %s\n", path)
			return nil
		}

		cfg := config.Default()
		if err := config.Save(cfg); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Fprintf(os.Stdout, "Config file created at %s\n", path)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadFile()
		if err != nil {
			// If no config file, start from defaults
			cfg = config.Default()
		}

		if err := config.SetField(&cfg, args[0], args[1]); err != nil {
			return err
		}

		if err := config.Save(cfg); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}

		fmt.Fprintf(os.Stdout, "Set %s = %s\n", args[0], args[1])
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(nil)
		if err != nil {
			return err
		}

		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return err
		}

		fmt.Fprintln(os.Stdout, string(data))
		return nil
	},
}

var configProjectCmd = &cobra.Command{
	Use:   "project [dir]",
	Short: "Validate and show the project file (" + config.ProjectFileName + ")",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		project, err := config.LoadProject(dir)
		if err != nil {
			return err
		}
		if _, errs := rules.ForProject(project, false); len(errs) > 0 {
			for _, err := range errs {
				fmt.Fprintf(os.Stderr, "invalid rule: %v\n", err)
			}
			return fmt.Errorf("%d custom rules are invalid", len(errs))
		}
		if _, err := review.ParseOverrides(project.SeverityOverrides); err != nil {
			return err
		}

		return toml.NewEncoder(cmd.OutOrStdout()).Encode(project)
	},
}

func initProjectFile() error {
	if _, err := os.Stat(config.ProjectFileName); err == nil {
		fmt.Fprintf(os.Stderr, "%s already exists\n", config.ProjectFileName)
		return nil
	}
	if err := os.WriteFile(config.ProjectFileName, []byte(projectTemplate), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", config.ProjectFileName, err)
	}
	fmt.Fprintf(os.Stdout, "Project file created at %s\n", config.ProjectFileName)
	return nil
}

func init() {
	configInitCmd.Flags().BoolVar(&flagInitProject, "project", false, "Create "+config.ProjectFileName+" in the current directory instead")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configProjectCmd)
}
