package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	configFileBase = "allocator_config"

	DefaultAssignmentsFile = "assignments.csv"
	DefaultObjectiveFile   = "objective_value.txt"
	DefaultLogsDir         = "logs"
)

// SheetsConfig locates the input ranges and the results tab in a Google spreadsheet
type SheetsConfig struct {
	SpreadsheetID    string `yaml:"spreadsheetID" validate:"required"`
	CapacityRange    string `yaml:"capacityRange" validate:"required"`
	PreferenceRange  string `yaml:"preferenceRange" validate:"required"`
	ResultsTabPrefix string `yaml:"resultsTabPrefix" validate:"required"`
}

// Config represents the application configuration
type Config struct {
	OutputDir       string `yaml:"outputDir" validate:"required"`
	AssignmentsFile string `yaml:"assignmentsFile,omitempty"`
	ObjectiveFile   string `yaml:"objectiveFile,omitempty"`

	// Tolerance bounds the rounding of solver values to 0/1 (defaults to assignment.IntegralityTolerance)
	Tolerance float64 `yaml:"tolerance,omitempty" validate:"omitempty,gt=0,lt=0.5"`

	LogsDir string `yaml:"logsDir,omitempty"`

	// DatabaseURL enables run history in PostgreSQL when set
	DatabaseURL string `yaml:"databaseURL,omitempty" validate:"omitempty,url"`

	Sheets *SheetsConfig `yaml:"sheets,omitempty"`
}

// ErrConfigNotFound is returned by LoadWithEnv when no config file exists for the environment
var ErrConfigNotFound = errors.New("config file not found")

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Default returns the configuration used when no config file exists: outputs in the working directory
func Default() *Config {
	cfg := &Config{OutputDir: "."}
	applyDefaults(cfg)
	return cfg
}

// AssignmentsPath returns the full path of the assignment matrix output
func (c *Config) AssignmentsPath() string {
	return filepath.Join(c.OutputDir, c.AssignmentsFile)
}

// ObjectivePath returns the full path of the objective value output
func (c *Config) ObjectivePath() string {
	return filepath.Join(c.OutputDir, c.ObjectiveFile)
}

// LoadWithEnv loads allocator_config.<env>.yaml (or allocator_config.yaml when env is empty)
// from the current directory or the user's home directory
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findFile(envFileName(configFileBase, env, "yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if filepath.Base(cfg.AssignmentsFile) != cfg.AssignmentsFile || filepath.Base(cfg.ObjectiveFile) != cfg.ObjectiveFile {
		return fmt.Errorf("config validation failed: output file names must not contain directories")
	}
	if cfg.AssignmentsFile == cfg.ObjectiveFile {
		return fmt.Errorf("config validation failed: assignmentsFile and objectiveFile must differ")
	}

	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.AssignmentsFile == "" {
		cfg.AssignmentsFile = DefaultAssignmentsFile
	}
	if cfg.ObjectiveFile == "" {
		cfg.ObjectiveFile = DefaultObjectiveFile
	}
	if cfg.LogsDir == "" {
		cfg.LogsDir = DefaultLogsDir
	}
}

// envFileName builds base.env.ext, or base.ext when env is empty
func envFileName(base, env, ext string) string {
	if env == "" {
		return base + "." + ext
	}
	return base + "." + env + "." + ext
}

// findFile searches for name in the current directory, then the home directory
func findFile(name string) (string, error) {
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homePath := filepath.Join(homeDir, name)
	if _, err := os.Stat(homePath); err == nil {
		return homePath, nil
	}

	return "", fmt.Errorf("%w: %s not found in current directory or home directory", ErrConfigNotFound, name)
}
