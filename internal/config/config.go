package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains storage locations.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
}

// Experiment holds the labels attached to every analysis and saved record.
type Experiment struct {
	Name    string `toml:"name"`
	Number  string `toml:"number"`
	Student string `toml:"student"`
	XLabel  string `toml:"x_label"`
	YLabel  string `toml:"y_label"`
}

// Chart holds axis limits and colors handed to chart renderers. They are
// stored alongside saved experiments so a reloaded run plots the same way.
type Chart struct {
	XMax        float64 `toml:"x_max" json:"xMax" yaml:"x_max"`
	YMaxPH      float64 `toml:"y_max_ph" json:"yMaxPH" yaml:"y_max_ph"`
	YMaxDV      float64 `toml:"y_max_dv" json:"yMaxDV" yaml:"y_max_dv"`
	XStep       float64 `toml:"x_step" json:"xStep" yaml:"x_step"`
	YStepPH     float64 `toml:"y_step_ph" json:"yStepPH" yaml:"y_step_ph"`
	YStepDV     float64 `toml:"y_step_dv" json:"yStepDV" yaml:"y_step_dv"`
	LineColor   string  `toml:"line_color" json:"lineColor" yaml:"line_color"`
	MarkerColor string  `toml:"marker_color" json:"markerColor" yaml:"marker_color"`
}

// Report controls numeric formatting in tables and reports.
type Report struct {
	Locale   string `toml:"locale"`
	Decimals int    `toml:"decimals"`
}

// History controls the saved experiment list.
type History struct {
	Limit int `toml:"limit"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for titrate.
//
// Configuration sections by subsystem:
//   - Paths: experiment database, worksheet, and log locations
//   - Experiment: default run labels and axis titles
//   - Chart: axis limits and colors stored with saved runs
//   - Report: locale and decimal places for rendered numbers
//   - History: how many saved runs list by default
//   - Logging: log format and level
type Config struct {
	Paths      Paths      `toml:"paths"`
	Experiment Experiment `toml:"experiment"`
	Chart      Chart      `toml:"chart"`
	Report     Report     `toml:"report"`
	History    History    `toml:"history"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("titrate.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the data and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// DatabasePath returns the experiment history database location.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.DataDir, "experiments.db")
}

// WorksheetPath returns the location of the open interactive worksheet.
func (c *Config) WorksheetPath() string {
	return filepath.Join(c.Paths.DataDir, "worksheet.json")
}

// LogPath returns the CLI log file location.
func (c *Config) LogPath() string {
	return filepath.Join(c.Paths.LogDir, "titrate.log")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func defaultDataDir() string {
	if base, ok := os.LookupEnv("XDG_DATA_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "titrate")
	}
	return defaultDataDirFallback
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
