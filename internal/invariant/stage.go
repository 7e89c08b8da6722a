// Package invariant implements the invariant enforcement stage: test
// immutability after lock, artifact-to-code traceability, and layer
// dependency rules via the architecture rule engine.
package invariant

import (
	"context"
	"fmt"
	"strings"

	"github.com/verityci/warden/internal/arch"
	"github.com/verityci/warden/internal/artifact"
	"github.com/verityci/warden/internal/git"
	"github.com/verityci/warden/internal/pipeline"
	"github.com/verityci/warden/pkg/models"
)

// DefaultTestsDir is the tests directory relative to the repo root.
const DefaultTestsDir = "tests"

// Stage enforces cross-cutting invariants over one changed-file set.
type Stage struct {
	store    *artifact.Store
	detector git.ChangeDetector
	testsDir string
}

// New creates the invariant enforcement stage. An empty testsDir falls
// back to DefaultTestsDir.
func New(store *artifact.Store, detector git.ChangeDetector, testsDir string) *Stage {
	if testsDir == "" {
		testsDir = DefaultTestsDir
	}
	return &Stage{store: store, detector: detector, testsDir: testsDir}
}

// Name returns the stage's canonical name.
func (s *Stage) Name() string { return pipeline.StageInvariantEnforcement }

// Validate runs all three invariant checks over the same changed-file set.
// Total VCS failure is treated as an empty set: no diff evidence means no
// invariant findings (fail open).
func (s *Stage) Validate(ctx context.Context, run pipeline.RunContext) models.StageResult {
	result := models.StageResult{Stage: s.Name(), Passed: true}

	changed := s.changedFiles(ctx, run)
	if len(changed) == 0 {
		return result
	}

	artifacts, _, err := s.store.Discover()
	if err != nil {
		// Without a readable store there are no binding plans.
		return result
	}
	enforceable := artifact.FilterEnforceable(artifacts)

	result.Failures = append(result.Failures, s.checkTestImmutability(enforceable, changed)...)
	result.Failures = append(result.Failures, s.checkTraceability(enforceable, changed)...)

	rules := arch.RulesFromPlans(enforceable)
	result.Failures = append(result.Failures, arch.Check(run.RepoRoot, changed, rules)...)

	result.Passed = len(result.Failures) == 0
	return result
}

// checkTestImmutability flags every changed test file while any test plan
// is locked. With no locked test plan, tests may change freely.
func (s *Stage) checkTestImmutability(enforceable []*models.Artifact, changed []string) []models.Failure {
	locked := false
	for _, a := range artifact.FilterByType(enforceable, models.TypeTestPlan) {
		if a.Status == models.StatusLocked {
			locked = true
			break
		}
	}
	if !locked {
		return nil
	}

	var failures []models.Failure
	for _, file := range changed {
		if !s.underTestsDir(file) {
			continue
		}
		failures = append(failures, models.Failure{
			Code:     models.CodeTestModificationAfterLock,
			Message:  fmt.Sprintf("test file %s changed while a test plan is locked", file),
			FilePath: file,
		})
	}
	return failures
}

// checkTraceability requires every changed source file to be covered by an
// approved implementation or refactor plan. An empty allowed set skips the
// check entirely: with no binding plans there is nothing to trace against.
func (s *Stage) checkTraceability(enforceable []*models.Artifact, changed []string) []models.Failure {
	allowed := allowedPaths(enforceable)
	if len(allowed) == 0 {
		return nil
	}

	var failures []models.Failure
	for _, file := range changed {
		if s.underTestsDir(file) || !arch.IsSourceFile(file) {
			continue
		}
		if coveredBy(file, allowed) {
			continue
		}
		failures = append(failures, models.Failure{
			Code:     models.CodeUnplannedCodeChange,
			Message:  fmt.Sprintf("%s changed but no approved plan targets it", file),
			FilePath: file,
		})
	}
	return failures
}

// allowedPaths is the union of implementation plan targets and refactor
// move endpoints across all binding plans.
func allowedPaths(enforceable []*models.Artifact) []string {
	var allowed []string
	for _, a := range artifact.FilterByType(enforceable, models.TypeImplementationPlan) {
		allowed = append(allowed, artifact.PlanTargets(a)...)
	}
	for _, a := range artifact.FilterByType(enforceable, models.TypeRefactorPlan) {
		for _, op := range artifact.RefactorOps(a) {
			if op.Kind != "move" && op.Kind != "rename" {
				continue
			}
			if op.From != "" {
				allowed = append(allowed, op.From)
			}
			if op.To != "" {
				allowed = append(allowed, op.To)
			}
		}
	}
	return allowed
}

// coveredBy reports whether a changed file is exactly an allowed path or
// nested under an allowed directory entry.
func coveredBy(file string, allowed []string) bool {
	for _, entry := range allowed {
		entry = strings.TrimSuffix(entry, "/")
		if file == entry || strings.HasPrefix(file, entry+"/") {
			return true
		}
	}
	return false
}

func (s *Stage) underTestsDir(file string) bool {
	prefix := strings.TrimSuffix(s.testsDir, "/") + "/"
	return strings.HasPrefix(file, prefix)
}

func (s *Stage) changedFiles(ctx context.Context, run pipeline.RunContext) []string {
	if s.detector == nil {
		return nil
	}
	files, err := s.detector.ChangedFiles(ctx, run.BaseRef)
	if err != nil {
		return nil
	}
	return files
}
