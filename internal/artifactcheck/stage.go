// Package artifactcheck implements the artifact validation stage: schema
// and lifecycle checks over everything in the artifact store.
package artifactcheck

import (
	"context"
	"fmt"

	"github.com/verityci/warden/internal/artifact"
	"github.com/verityci/warden/internal/git"
	"github.com/verityci/warden/internal/pipeline"
	"github.com/verityci/warden/internal/schema"
	"github.com/verityci/warden/pkg/models"
)

// Stage validates every discovered artifact. Parse failures and schema
// violations are collected per file; one bad artifact never hides another.
type Stage struct {
	store    *artifact.Store
	oracle   *schema.Oracle
	detector git.ChangeDetector
}

// New creates the artifact validation stage.
func New(store *artifact.Store, oracle *schema.Oracle, detector git.ChangeDetector) *Stage {
	return &Stage{store: store, oracle: oracle, detector: detector}
}

// Name returns the stage's canonical name.
func (s *Stage) Name() string { return pipeline.StageArtifactValidation }

// Validate checks schema validity, draft presence, and locked-artifact
// immutability. An absent artifact store passes.
func (s *Stage) Validate(ctx context.Context, run pipeline.RunContext) models.StageResult {
	result := models.StageResult{Stage: s.Name(), Passed: true}

	artifacts, parseErrs, err := s.store.Discover()
	if err != nil {
		result.Passed = false
		result.Failures = append(result.Failures, models.Failure{
			Code:    models.CodeSchemaValidationFailed,
			Message: fmt.Sprintf("artifact store unreadable: %v", err),
		})
		return result
	}

	for _, pe := range parseErrs {
		result.Failures = append(result.Failures, models.Failure{
			Code:     models.CodeSchemaValidationFailed,
			Message:  fmt.Sprintf("artifact failed to parse: %v", pe.Err),
			FilePath: pe.Path,
		})
	}

	// Locked artifacts are checked against the changed-file set. A VCS
	// error fails open: no diff evidence, no modification finding.
	changed := s.changedSet(ctx, run)

	for _, a := range artifacts {
		for _, v := range s.oracle.Validate(a) {
			result.Failures = append(result.Failures, models.Failure{
				Code:     models.CodeSchemaValidationFailed,
				Message:  fmt.Sprintf("artifact %s: %s", a.ID, v),
				FilePath: a.Path,
				Details:  map[string]string{"field": v.FieldPath},
			})
		}

		if a.Status == models.StatusDraft {
			result.Failures = append(result.Failures, models.Failure{
				Code:     models.CodeDraftArtifactPresent,
				Message:  fmt.Sprintf("artifact %s (%s) is still a draft", a.ID, a.Type),
				FilePath: a.Path,
			})
		}

		if a.Status == models.StatusLocked && a.Type.Lockable() && changed[a.Path] {
			result.Failures = append(result.Failures, models.Failure{
				Code:     models.CodeLockedArtifactModified,
				Message:  fmt.Sprintf("locked artifact %s (%s) differs from its committed state", a.ID, a.Type),
				FilePath: a.Path,
			})
		}
	}

	result.Passed = len(result.Failures) == 0
	return result
}

func (s *Stage) changedSet(ctx context.Context, run pipeline.RunContext) map[string]bool {
	if s.detector == nil {
		return nil
	}
	files, err := s.detector.ChangedFiles(ctx, run.BaseRef)
	if err != nil {
		return nil
	}
	set := make(map[string]bool, len(files))
	for _, f := range files {
		set[f] = true
	}
	return set
}
