package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ProjectFileName is the per-repository configuration file.
const ProjectFileName = ".vigil.toml"

// Project holds per-repository settings read from .vigil.toml.
type Project struct {
	Ignore            []string          `toml:"ignore"`
	DisabledRules     []string          `toml:"disabled_rules"`
	SeverityOverrides map[string]string `toml:"severity_overrides"`
	Rules             []CustomRule      `toml:"rules"`
}

// CustomRule is a pattern rule defined in the project file.
type CustomRule struct {
	ID               string   `toml:"id"`
	Title            string   `toml:"title"`
	Description      string   `toml:"description"`
	Suggestion       string   `toml:"suggestion"`
	Pattern          string   `toml:"pattern"`
	MultilinePattern string   `toml:"multiline_pattern"`
	Severity         string   `toml:"severity"`
	Category         string   `toml:"category"`
	Confidence       string   `toml:"confidence"`
	Languages        []string `toml:"languages"`
	Class            string   `toml:"class"`
	FixTemplate      string   `toml:"fix_template"`
}

// LoadProject reads .vigil.toml from root. A missing file yields an empty
// Project.
func LoadProject(root string) (Project, error) {
	path := filepath.Join(root, ProjectFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Project{}, nil
		}
		return Project{}, fmt.Errorf("reading %s: %w", ProjectFileName, err)
	}
	return ParseProject(string(data))
}

// ParseProject decodes project TOML.
func ParseProject(data string) (Project, error) {
	var p Project
	md, err := toml.Decode(data, &p)
	if err != nil {
		return Project{}, fmt.Errorf("parsing %s: %w", ProjectFileName, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Project{}, fmt.Errorf("parsing %s: unknown key %q", ProjectFileName, undecoded[0].String())
	}
	return p, nil
}
