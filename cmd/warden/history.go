package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/verityci/warden/internal/config"
	"github.com/verityci/warden/internal/state"
)

var (
	historyRepo  string
	historyLimit int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent verification runs",
	Run: func(cmd *cobra.Command, args []string) {
		db := openHistory()
		defer db.Close()

		records, err := db.ListRuns(historyLimit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if len(records) == 0 {
			fmt.Println("No recorded runs.")
			return
		}

		for _, rec := range records {
			verdict := color.GreenString("pass")
			if !rec.Passed {
				verdict = color.RedString("fail")
			}
			context := rec.Branch
			if rec.Commit != "" {
				context += "@" + shortSHA(rec.Commit)
			}
			fmt.Printf("%s  %s  %s  %d failure(s)  %dms  %s\n",
				rec.StartedAt.Local().Format(time.DateTime),
				rec.ID, verdict, rec.FailureCount, rec.DurationMs, context)
		}
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Print the stored report document for a run",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		db := openHistory()
		defer db.Close()

		rec, err := db.GetRun(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(rec.ReportJSON)
	},
}

func init() {
	historyCmd.PersistentFlags().StringVar(&historyRepo, "repo", ".", "Repository root")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum runs to list")
	historyCmd.AddCommand(historyShowCmd)
}

// openHistory opens the history database for the configured repo, exiting
// on any setup problem.
func openHistory() *state.DB {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	repoRoot, err := filepath.Abs(historyRepo)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving repo path: %v\n", err)
		os.Exit(1)
	}

	db, err := state.Open(filepath.Join(repoRoot, cfg.History.Path))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening history: %v\n", err)
		os.Exit(1)
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		fmt.Fprintf(os.Stderr, "Error migrating history: %v\n", err)
		os.Exit(1)
	}
	return db
}

func shortSHA(sha string) string {
	if len(sha) > 8 {
		return sha[:8]
	}
	return sha
}
