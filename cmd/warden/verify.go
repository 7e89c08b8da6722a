package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/verityci/warden/internal/approval"
	"github.com/verityci/warden/internal/artifact"
	"github.com/verityci/warden/internal/artifactcheck"
	"github.com/verityci/warden/internal/audit"
	"github.com/verityci/warden/internal/config"
	"github.com/verityci/warden/internal/exec"
	"github.com/verityci/warden/internal/git"
	"github.com/verityci/warden/internal/invariant"
	"github.com/verityci/warden/internal/pipeline"
	"github.com/verityci/warden/internal/report"
	"github.com/verityci/warden/internal/schema"
	"github.com/verityci/warden/internal/state"
	"github.com/verityci/warden/internal/testrun"
	"github.com/verityci/warden/pkg/models"
)

var (
	verifyJSON    bool
	verifyRepo    string
	verifyBaseRef string
	verifyBranch  string
	verifyCommit  string
	verifyOnly    []string
	verifySkip    []string
	verifyNoStop  bool
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Run the verification pipeline",
	Long: `Run every verification stage against the repository and report
the verdict.

Exit codes: 0 when verification passes, 1 when any stage fails,
2 when the pipeline could not be constructed.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(2)
		}
		applyVerifyFlags(cfg)

		repoRoot, err := filepath.Abs(verifyRepo)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error resolving repo path: %v\n", err)
			os.Exit(2)
		}

		result, err := runVerification(cmd, cfg, repoRoot)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}

		if verifyJSON {
			data, err := report.MarshalJSON(result)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(2)
			}
			fmt.Println(string(data))
		} else {
			report.WriteHuman(os.Stdout, result)
		}

		if !result.Passed {
			os.Exit(1)
		}
	},
}

func init() {
	verifyCmd.Flags().BoolVar(&verifyJSON, "json", false, "Emit the report as JSON")
	verifyCmd.Flags().StringVar(&verifyRepo, "repo", ".", "Repository root to verify")
	verifyCmd.Flags().StringVar(&verifyBaseRef, "base-ref", "", "Revision to diff against (default from config)")
	verifyCmd.Flags().StringVar(&verifyBranch, "branch", "", "Branch context recorded with the run")
	verifyCmd.Flags().StringVar(&verifyCommit, "commit", "", "Commit context recorded with the run")
	verifyCmd.Flags().StringSliceVar(&verifyOnly, "only", nil, "Run only the named stages")
	verifyCmd.Flags().StringSliceVar(&verifySkip, "skip", nil, "Skip the named stages")
	verifyCmd.Flags().BoolVar(&verifyNoStop, "no-stop-on-failure", false, "Run every stage even after a failure")
}

// applyVerifyFlags overlays command-line flags onto the loaded config.
func applyVerifyFlags(cfg *config.Config) {
	if verifyBaseRef != "" {
		cfg.VCS.BaseRef = verifyBaseRef
	}
	if len(verifyOnly) > 0 {
		cfg.Pipeline.Only = verifyOnly
	}
	if len(verifySkip) > 0 {
		cfg.Pipeline.Skip = verifySkip
	}
	if verifyNoStop {
		cfg.Pipeline.StopOnFailure = false
	}
}

// buildStages assembles every pipeline stage from the configuration.
func buildStages(cfg *config.Config, repoRoot string) []pipeline.Stage {
	store := artifact.NewStore(repoRoot, cfg.Paths.ArtifactsDir)
	detector := git.NewDetector(repoRoot, cfg.VCS.Timeout)

	return []pipeline.Stage{
		artifactcheck.New(store, schema.NewOracle(), detector),
		approval.New(store),
		invariant.New(store, detector, cfg.Paths.TestsDir),
		testrun.New(exec.NewRunner(), cfg.Test.Command),
		audit.New(store, detector, audit.Options{
			AuditDir:        cfg.Paths.AuditDir,
			OrphanDetection: cfg.Audit.OrphanDetection,
		}),
	}
}

// runVerification executes one pipeline run and records it to history when
// enabled. History problems are reported but never change the verdict.
func runVerification(cmd *cobra.Command, cfg *config.Config, repoRoot string) (*models.PipelineResult, error) {
	logger := pipeline.NopLogger()
	if cfg.Logging.Debug {
		var err error
		logger, err = pipeline.NewDebugLogger(filepath.Join(repoRoot, cfg.Logging.Path))
		if err != nil {
			return nil, fmt.Errorf("open debug log: %w", err)
		}
		defer logger.Close()
	}

	orch := pipeline.New(buildStages(cfg, repoRoot), pipeline.Options{
		StopOnFailure: cfg.Pipeline.StopOnFailure,
		Skip:          cfg.Pipeline.Skip,
		Only:          cfg.Pipeline.Only,
	}, logger)

	result := orch.Run(cmd.Context(), pipeline.RunContext{
		RepoRoot: repoRoot,
		Branch:   verifyBranch,
		Commit:   verifyCommit,
		BaseRef:  cfg.VCS.BaseRef,
	})

	if cfg.History.Enabled {
		if err := recordRun(cfg, repoRoot, result); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: run not recorded: %v\n", err)
		}
	}
	return result, nil
}

// recordRun persists the run document to the history database.
func recordRun(cfg *config.Config, repoRoot string, result *models.PipelineResult) error {
	doc, err := report.MarshalJSON(result)
	if err != nil {
		return err
	}

	db, err := state.Open(filepath.Join(repoRoot, cfg.History.Path))
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		return err
	}
	return db.SaveRun(result, doc)
}
