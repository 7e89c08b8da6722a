package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/verityci/warden/internal/config"
	"github.com/verityci/warden/internal/report"
	"github.com/verityci/warden/internal/watch"
)

var (
	watchRepo     string
	watchDebounce time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run verification when the artifact store or audit trail changes",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		repoRoot, err := filepath.Abs(watchRepo)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error resolving repo path: %v\n", err)
			os.Exit(1)
		}

		roots := []string{
			filepath.Join(repoRoot, cfg.Paths.ArtifactsDir),
			filepath.Join(repoRoot, cfg.Paths.AuditDir),
		}

		w, err := watch.New(roots, watchDebounce, func(ctx context.Context) error {
			result, err := runVerification(cmd, cfg, repoRoot)
			if err != nil {
				return err
			}
			fmt.Printf("[%s] %s\n", time.Now().Format(time.TimeOnly), report.Oneline(result))
			return nil
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Printf("Watching %s (Ctrl-C to stop)\n", repoRoot)
		if err := w.Run(ctx); err != nil && err != context.Canceled {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	watchCmd.Flags().StringVar(&watchRepo, "repo", ".", "Repository root to watch")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce, "Quiet period before re-running")
}
