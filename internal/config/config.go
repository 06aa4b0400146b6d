package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

// Config represents the vigil configuration.
type Config struct {
	Format             string        `json:"format"`
	FailOn             string        `json:"failOn"`
	MaxFindings        int           `json:"maxFindings"`
	ContextLines       int           `json:"contextLines"`
	MaxFiles           int           `json:"maxFiles"`
	MaxFileSizeKB      int           `json:"maxFileSizeKB"`
	ChunkTokens        int           `json:"chunkTokens"`
	ToolTimeoutSeconds int           `json:"toolTimeoutSeconds"`
	Workers            int           `json:"workers"`
	Tools              []string      `json:"tools"`
	Cleaning           bool          `json:"cleaning"`
	Exclude            []string      `json:"exclude"`
	Privacy            PrivacyConfig `json:"privacy"`
}

// PrivacyConfig controls masking of secrets in reported snippets.
type PrivacyConfig struct {
	RedactSecrets bool     `json:"redactSecrets"`
	RedactPaths   []string `json:"redactPaths,omitempty"`
}

// DefaultTools lists every analyzer vigil knows about.
var DefaultTools = []string{"rules", "gosec", "bandit", "eslint", "semgrep"}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		Format:             "text",
		FailOn:             "none",
		MaxFindings:        200,
		ContextLines:       3,
		MaxFiles:           2000,
		MaxFileSizeKB:      512,
		ChunkTokens:        8000,
		ToolTimeoutSeconds: 60,
		Workers:            8,
		Tools:              append([]string(nil), DefaultTools...),
		Exclude:            []string{"vendor/**", "**/*.min.js", "**/dist/**"},
		Privacy: PrivacyConfig{
			RedactSecrets: true,
			RedactPaths:   []string{"**/.env", "**/*secrets*"},
		},
	}
}

// ConfigDir returns the platform-appropriate config directory for vigil.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "vigil"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "vigil"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "vigil"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "vigil"), nil
	default:
		return filepath.Join(home, ".config", "vigil"), nil
	}
}

// ConfigPath returns the full path to the config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadFile loads config from the config file. Returns zero Config and nil error if file doesn't exist.
func LoadFile() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Save writes the config to the config file.
func Save(cfg Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Load builds the effective config by merging: defaults <- file <- env <- overrides.
// The overrides map comes from CLI flags (only non-zero values should be set).
func Load(overrides map[string]string) (Config, error) {
	cfg := Default()

	fileCfg, err := LoadFile()
	if err != nil {
		return Config{}, err
	}
	mergeFile(&cfg, fileCfg)
	if err := mergeEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := mergeOverrides(&cfg, overrides); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func mergeFile(dst *Config, src Config) {
	if src.Format != "" {
		dst.Format = src.Format
	}
	if src.FailOn != "" {
		dst.FailOn = src.FailOn
	}
	if src.MaxFindings > 0 {
		dst.MaxFindings = src.MaxFindings
	}
	if src.ContextLines > 0 {
		dst.ContextLines = src.ContextLines
	}
	if src.MaxFiles > 0 {
		dst.MaxFiles = src.MaxFiles
	}
	if src.MaxFileSizeKB > 0 {
		dst.MaxFileSizeKB = src.MaxFileSizeKB
	}
	if src.ChunkTokens > 0 {
		dst.ChunkTokens = src.ChunkTokens
	}
	if src.ToolTimeoutSeconds > 0 {
		dst.ToolTimeoutSeconds = src.ToolTimeoutSeconds
	}
	if src.Workers > 0 {
		dst.Workers = src.Workers
	}
	if len(src.Tools) > 0 {
		dst.Tools = src.Tools
	}
	if len(src.Exclude) > 0 {
		dst.Exclude = src.Exclude
	}
	// JSON cannot tell an absent bool from false, so the file can only
	// switch cleaning on.
	dst.Cleaning = src.Cleaning || dst.Cleaning
	if len(src.Privacy.RedactPaths) > 0 {
		dst.Privacy.RedactPaths = src.Privacy.RedactPaths
	}
}

// envInts maps integer environment variables to their config fields.
func envInts(cfg *Config) map[string]*int {
	return map[string]*int{
		"VIGIL_MAX_FINDINGS": &cfg.MaxFindings,
		"VIGIL_MAX_FILES":    &cfg.MaxFiles,
		"VIGIL_MAX_FILE_KB":  &cfg.MaxFileSizeKB,
		"VIGIL_TOOL_TIMEOUT": &cfg.ToolTimeoutSeconds,
		"VIGIL_WORKERS":      &cfg.Workers,
	}
}

func mergeEnv(cfg *Config) error {
	if v := os.Getenv("VIGIL_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("VIGIL_FAIL_ON"); v != "" {
		cfg.FailOn = v
	}
	if v := os.Getenv("VIGIL_TOOLS"); v != "" {
		cfg.Tools = splitList(v)
	}
	if v := os.Getenv("VIGIL_CLEANING"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("VIGIL_CLEANING: %w", err)
		}
		cfg.Cleaning = b
	}
	for key, field := range envInts(cfg) {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s must be an integer: %w", key, err)
		}
		*field = n
	}
	return nil
}

func mergeOverrides(cfg *Config, overrides map[string]string) error {
	for key, v := range overrides {
		if v == "" {
			continue
		}
		if err := SetField(cfg, key, v); err != nil {
			return err
		}
	}
	return nil
}

// SetField sets a single config field by key name. Returns error if key is unknown.
func SetField(cfg *Config, key, value string) error {
	intField := func(dst *int) error {
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s must be an integer: %w", key, err)
		}
		*dst = n
		return nil
	}

	switch key {
	case "format":
		cfg.Format = value
	case "failOn":
		cfg.FailOn = value
	case "maxFindings":
		return intField(&cfg.MaxFindings)
	case "contextLines":
		return intField(&cfg.ContextLines)
	case "maxFiles":
		return intField(&cfg.MaxFiles)
	case "maxFileSizeKB":
		return intField(&cfg.MaxFileSizeKB)
	case "chunkTokens":
		return intField(&cfg.ChunkTokens)
	case "toolTimeoutSeconds":
		return intField(&cfg.ToolTimeoutSeconds)
	case "workers":
		return intField(&cfg.Workers)
	case "tools":
		cfg.Tools = splitList(value)
	case "exclude":
		cfg.Exclude = splitList(value)
	case "cleaning":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("cleaning must be true or false: %w", err)
		}
		cfg.Cleaning = b
	case "redactSecrets":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("redactSecrets must be true or false: %w", err)
		}
		cfg.Privacy.RedactSecrets = b
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
