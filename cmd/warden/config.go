package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verityci/warden/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config [key]",
	Short: "Show resolved configuration",
	Long: `Display the resolved configuration and where it comes from.

Without arguments, displays every setting. With a key argument, displays
that value only.

User configuration lives at ~/.config/warden/config.yaml; project
overrides go in ` + config.ProjectConfigName + `; environment variables use
the WARDEN_ prefix (e.g. WARDEN_VCS_BASE_REF).`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		if len(args) == 1 {
			displayConfigKey(cfg, args[0])
			return
		}
		displayAllConfig(cfg)
	},
}

// displayAllConfig prints all configuration values and their sources.
func displayAllConfig(cfg *config.Config) {
	for _, kv := range configEntries(cfg) {
		fmt.Printf("%s: %s\n", kv[0], kv[1])
	}

	fmt.Println()
	fmt.Printf("user config: %s\n", config.GetUserConfigPath())
	if project := config.GetProjectConfigPath(); project != "" {
		fmt.Printf("project config: %s\n", project)
	} else {
		fmt.Println("project config: (none)")
	}
}

// displayConfigKey prints a single configuration value.
func displayConfigKey(cfg *config.Config, key string) {
	for _, kv := range configEntries(cfg) {
		if kv[0] == strings.ToLower(key) {
			fmt.Println(kv[1])
			return
		}
	}
	fmt.Fprintf(os.Stderr, "Error: unknown configuration key: %s\n", key)
	os.Exit(1)
}

// configEntries flattens the config into ordered dot-notation pairs.
func configEntries(cfg *config.Config) [][2]string {
	return [][2]string{
		{"paths.artifacts_dir", cfg.Paths.ArtifactsDir},
		{"paths.audit_dir", cfg.Paths.AuditDir},
		{"paths.tests_dir", cfg.Paths.TestsDir},
		{"pipeline.stop_on_failure", fmt.Sprintf("%t", cfg.Pipeline.StopOnFailure)},
		{"pipeline.skip", joinOrNone(cfg.Pipeline.Skip)},
		{"pipeline.only", joinOrNone(cfg.Pipeline.Only)},
		{"vcs.base_ref", cfg.VCS.BaseRef},
		{"vcs.timeout", cfg.VCS.Timeout.String()},
		{"audit.orphan_detection", fmt.Sprintf("%t", cfg.Audit.OrphanDetection)},
		{"test.command", orNone(cfg.Test.Command)},
		{"history.enabled", fmt.Sprintf("%t", cfg.History.Enabled)},
		{"history.path", cfg.History.Path},
		{"logging.debug", fmt.Sprintf("%t", cfg.Logging.Debug)},
		{"logging.path", cfg.Logging.Path},
	}
}

func joinOrNone(values []string) string {
	if len(values) == 0 {
		return "(none)"
	}
	return strings.Join(values, ", ")
}

func orNone(value string) string {
	if value == "" {
		return "(none)"
	}
	return value
}
