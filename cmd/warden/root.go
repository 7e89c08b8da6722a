package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "warden",
	Short: "Artifact governance and verification pipeline",
	Long: `Warden verifies that a repository's changes are governed by its
planning artifacts.

It validates the artifact store against schemas and lifecycle rules,
cross-references approvals, enforces architecture and traceability
invariants over the current diff, delegates test execution, and checks
the integrity of the audit trail. Stages run in a fixed order and the
pipeline stops at the first failing stage unless told otherwise.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
