// Package config handles configuration loading for warden. It supports XDG
// config paths, project-level overrides, and WARDEN_ environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ProjectConfigName is the project-level config file searched for upward
// from the working directory.
const ProjectConfigName = ".warden.yaml"

// Config holds all configuration for warden.
type Config struct {
	Paths    PathsConfig    `mapstructure:"paths"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	VCS      VCSConfig      `mapstructure:"vcs"`
	Audit    AuditConfig    `mapstructure:"audit"`
	Test     TestConfig     `mapstructure:"test"`
	History  HistoryConfig  `mapstructure:"history"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// PathsConfig locates the governed directories relative to the repo root.
type PathsConfig struct {
	// ArtifactsDir is the artifact store directory.
	ArtifactsDir string `mapstructure:"artifacts_dir"`
	// AuditDir is the audit trail directory.
	AuditDir string `mapstructure:"audit_dir"`
	// TestsDir is the directory covered by test immutability.
	TestsDir string `mapstructure:"tests_dir"`
}

// PipelineConfig controls stage selection and failure behavior.
type PipelineConfig struct {
	// StopOnFailure halts the pipeline at the first failing stage.
	StopOnFailure bool `mapstructure:"stop_on_failure"`
	// Skip names stages to skip.
	Skip []string `mapstructure:"skip"`
	// Only restricts the run to the named stages.
	Only []string `mapstructure:"only"`
}

// VCSConfig controls change detection.
type VCSConfig struct {
	// BaseRef is the revision changed files are computed against.
	BaseRef string `mapstructure:"base_ref"`
	// Timeout bounds each VCS invocation.
	Timeout time.Duration `mapstructure:"timeout"`
}

// AuditConfig holds audit verification toggles.
type AuditConfig struct {
	// OrphanDetection enables flagging changes no audit entry covers.
	OrphanDetection bool `mapstructure:"orphan_detection"`
}

// TestConfig holds the delegated test runner settings.
type TestConfig struct {
	// Command is the shell command that runs the test suite. Empty
	// disables the test execution stage.
	Command string `mapstructure:"command"`
}

// HistoryConfig holds run-history persistence settings.
type HistoryConfig struct {
	// Enabled toggles recording runs to the history database.
	Enabled bool `mapstructure:"enabled"`
	// Path is the SQLite database location relative to the repo root.
	Path string `mapstructure:"path"`
}

// LoggingConfig holds debug logging settings.
type LoggingConfig struct {
	// Debug enables the per-run debug log.
	Debug bool `mapstructure:"debug"`
	// Path is the debug log location relative to the repo root.
	Path string `mapstructure:"path"`
}

// Load loads configuration with the following precedence (highest first):
// 1. WARDEN_ environment variables
// 2. Project config (.warden.yaml in the current directory or a parent)
// 3. User config (~/.config/warden/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(getUserConfigDir())
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	if projectConfig := findProjectConfig(); projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	v.SetEnvPrefix("WARDEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific file on top of the
// built-in defaults.
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetProjectConfigPath returns the project config file path if one exists.
func GetProjectConfigPath() string {
	return findProjectConfig()
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("paths.artifacts_dir", "artifacts")
	v.SetDefault("paths.audit_dir", "audit")
	v.SetDefault("paths.tests_dir", "tests")

	v.SetDefault("pipeline.stop_on_failure", true)
	v.SetDefault("pipeline.skip", []string{})
	v.SetDefault("pipeline.only", []string{})

	v.SetDefault("vcs.base_ref", "main")
	v.SetDefault("vcs.timeout", "30s")

	v.SetDefault("audit.orphan_detection", false)

	v.SetDefault("test.command", "")

	v.SetDefault("history.enabled", true)
	v.SetDefault("history.path", ".warden/history.db")

	v.SetDefault("logging.debug", false)
	v.SetDefault("logging.path", ".warden/logs/verify.log")
}

// getUserConfigDir returns the XDG config directory for warden.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "warden")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "warden")
	}
	return filepath.Join(home, ".config", "warden")
}

// findProjectConfig searches for .warden.yaml in the current directory and
// parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ProjectConfigName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			ArtifactsDir: "artifacts",
			AuditDir:     "audit",
			TestsDir:     "tests",
		},
		Pipeline: PipelineConfig{
			StopOnFailure: true,
		},
		VCS: VCSConfig{
			BaseRef: "main",
			Timeout: 30 * time.Second,
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    ".warden/history.db",
		},
		Logging: LoggingConfig{
			Path: ".warden/logs/verify.log",
		},
	}
}
