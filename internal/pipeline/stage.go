// Package pipeline sequences verification stages and aggregates their
// results. Stages are registered explicitly; the orchestrator never
// discovers implementations at runtime.
package pipeline

import (
	"context"

	"github.com/verityci/warden/pkg/models"
)

// Canonical stage names, in fixed pipeline order.
const (
	StageArtifactValidation   = "artifact-validation"
	StageApprovalVerification = "approval-verification"
	StageInvariantEnforcement = "invariant-enforcement"
	StageTestExecution        = "test-execution"
	StageAuditVerification    = "audit-verification"
)

// StageOrder is the fixed order stages run in.
var StageOrder = []string{
	StageArtifactValidation,
	StageApprovalVerification,
	StageInvariantEnforcement,
	StageTestExecution,
	StageAuditVerification,
}

// RunContext is the read-only context shared with every stage. Stages own
// their collaborators; nothing here is mutated during a run.
type RunContext struct {
	// RepoRoot is the repository being verified.
	RepoRoot string
	// Branch is the branch under verification, if known.
	Branch string
	// Commit is the commit under verification, if known.
	Commit string
	// BaseRef is the revision changed-file sets are computed against.
	BaseRef string
}

// Stage is one independently pass/fail unit of the verification pipeline.
type Stage interface {
	// Name returns the stage's canonical name.
	Name() string
	// Validate runs the stage's checks and reports collected failures.
	// Implementations must collect failures rather than abort on the
	// first bad file.
	Validate(ctx context.Context, run RunContext) models.StageResult
}
