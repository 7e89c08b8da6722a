package approval

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/verityci/warden/internal/artifact"
	"github.com/verityci/warden/internal/pipeline"
	"github.com/verityci/warden/pkg/models"
)

// Stage cross-references the artifact store against the approval ledger.
type Stage struct {
	store *artifact.Store
}

// New creates the approval verification stage.
func New(store *artifact.Store) *Stage {
	return &Stage{store: store}
}

// Name returns the stage's canonical name.
func (s *Stage) Name() string { return pipeline.StageApprovalVerification }

// Validate checks that every APPROVED or LOCKED artifact has a ledger
// record. Drafts are always exempt. A missing ledger is not itself a
// failure; a malformed one is reported once, then checks continue against
// the empty approved set.
func (s *Stage) Validate(ctx context.Context, run pipeline.RunContext) models.StageResult {
	result := models.StageResult{Stage: s.Name(), Passed: true}

	ledger, err := LoadLedger(s.store.Root())
	if err != nil {
		result.Failures = append(result.Failures, models.Failure{
			Code:     models.CodeApprovalMetadataMissing,
			Message:  fmt.Sprintf("approval ledger unreadable: %v", err),
			FilePath: artifactRelLedgerPath(run.RepoRoot, s.store),
		})
	}

	artifacts, _, derr := s.store.Discover()
	if derr != nil {
		result.Failures = append(result.Failures, models.Failure{
			Code:    models.CodeApprovalMetadataMissing,
			Message: fmt.Sprintf("artifact store unreadable: %v", derr),
		})
		result.Passed = false
		return result
	}

	for _, a := range artifacts {
		if !a.Status.RequiresApproval() {
			continue
		}
		if !ledger.Approved(a.ID) {
			result.Failures = append(result.Failures, models.Failure{
				Code:     models.CodeArtifactNotApproved,
				Message:  fmt.Sprintf("%s %s has status %s but no approval record", a.Type, a.ID, a.Status),
				FilePath: a.Path,
			})
		}
	}

	result.Passed = len(result.Failures) == 0
	return result
}

// artifactRelLedgerPath renders the ledger path relative to the repo root
// for failure reporting.
func artifactRelLedgerPath(repoRoot string, store *artifact.Store) string {
	full := LedgerPath(store.Root())
	if repoRoot == "" {
		return full
	}
	rel, err := filepath.Rel(repoRoot, full)
	if err != nil {
		return full
	}
	return filepath.ToSlash(rel)
}
