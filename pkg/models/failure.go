package models

// FailureCategory groups failure codes by the governance concern they
// belong to.
type FailureCategory string

const (
	// CategoryArtifact covers schema and lifecycle problems in the store.
	CategoryArtifact FailureCategory = "ARTIFACT"
	// CategoryApproval covers missing or malformed approval records.
	CategoryApproval FailureCategory = "APPROVAL"
	// CategoryInvariant covers violated structural or process invariants.
	CategoryInvariant FailureCategory = "INVARIANT"
	// CategoryAudit covers tampering or gaps in the execution audit trail.
	CategoryAudit FailureCategory = "AUDIT"
)

// FailureCode identifies one kind of verification failure. The set is
// closed: every code maps to exactly one category and one remediation.
type FailureCode string

const (
	// CodeSchemaValidationFailed indicates an artifact failed envelope or
	// payload validation.
	CodeSchemaValidationFailed FailureCode = "SCHEMA_VALIDATION_FAILED"
	// CodeDraftArtifactPresent indicates a draft artifact remains in the store.
	CodeDraftArtifactPresent FailureCode = "DRAFT_ARTIFACT_PRESENT"
	// CodeLockedArtifactModified indicates a locked artifact differs from
	// its committed state.
	CodeLockedArtifactModified FailureCode = "LOCKED_ARTIFACT_MODIFIED"
	// CodeArtifactNotApproved indicates a non-draft artifact has no ledger record.
	CodeArtifactNotApproved FailureCode = "ARTIFACT_NOT_APPROVED"
	// CodeApprovalMetadataMissing indicates the approval ledger is unreadable.
	CodeApprovalMetadataMissing FailureCode = "APPROVAL_METADATA_MISSING"
	// CodeArchitectureViolation indicates a forbidden layer dependency.
	CodeArchitectureViolation FailureCode = "ARCHITECTURE_VIOLATION"
	// CodeTestModificationAfterLock indicates a test file changed while a
	// test plan is locked.
	CodeTestModificationAfterLock FailureCode = "TEST_MODIFICATION_AFTER_LOCK"
	// CodeUnplannedCodeChange indicates a source change with no approved plan.
	CodeUnplannedCodeChange FailureCode = "UNPLANNED_CODE_CHANGE"
	// CodeTestSuiteFailed indicates the delegated test runner reported failure.
	CodeTestSuiteFailed FailureCode = "TEST_SUITE_FAILED"
	// CodeStageExecutionError is the synthetic failure emitted when a stage
	// panics; the pipeline itself never crashes.
	CodeStageExecutionError FailureCode = "STAGE_EXECUTION_ERROR"
	// CodeAuditIntegrityViolation indicates malformed audit log lines.
	CodeAuditIntegrityViolation FailureCode = "AUDIT_INTEGRITY_VIOLATION"
	// CodeAuditMissingEntry indicates an audit entry references a missing diff.
	CodeAuditMissingEntry FailureCode = "AUDIT_MISSING_ENTRY"
	// CodeAuditHashChainBroken indicates a recorded diff no longer matches
	// its stored digest.
	CodeAuditHashChainBroken FailureCode = "AUDIT_HASH_CHAIN_BROKEN"
	// CodeOrphanedCodeChange indicates a changed file no audit entry accounts for.
	CodeOrphanedCodeChange FailureCode = "ORPHANED_CODE_CHANGE"
)

// AllFailureCodes lists every known failure code.
var AllFailureCodes = []FailureCode{
	CodeSchemaValidationFailed,
	CodeDraftArtifactPresent,
	CodeLockedArtifactModified,
	CodeArtifactNotApproved,
	CodeApprovalMetadataMissing,
	CodeArchitectureViolation,
	CodeTestModificationAfterLock,
	CodeUnplannedCodeChange,
	CodeTestSuiteFailed,
	CodeStageExecutionError,
	CodeAuditIntegrityViolation,
	CodeAuditMissingEntry,
	CodeAuditHashChainBroken,
	CodeOrphanedCodeChange,
}

// failureCategories maps every failure code to its category.
var failureCategories = map[FailureCode]FailureCategory{
	CodeSchemaValidationFailed:    CategoryArtifact,
	CodeDraftArtifactPresent:      CategoryArtifact,
	CodeLockedArtifactModified:    CategoryArtifact,
	CodeArtifactNotApproved:       CategoryApproval,
	CodeApprovalMetadataMissing:   CategoryApproval,
	CodeArchitectureViolation:     CategoryInvariant,
	CodeTestModificationAfterLock: CategoryInvariant,
	CodeUnplannedCodeChange:       CategoryInvariant,
	CodeTestSuiteFailed:           CategoryInvariant,
	CodeStageExecutionError:       CategoryInvariant,
	CodeAuditIntegrityViolation:   CategoryAudit,
	CodeAuditMissingEntry:         CategoryAudit,
	CodeAuditHashChainBroken:      CategoryAudit,
	CodeOrphanedCodeChange:        CategoryAudit,
}

// failureRemediations maps every failure code to a static remediation hint.
var failureRemediations = map[FailureCode]string{
	CodeSchemaValidationFailed:    "Fix the artifact so it conforms to the schema for its declared type, then re-run verification.",
	CodeDraftArtifactPresent:      "Finish the draft and move it through approval, or remove it from the artifact store.",
	CodeLockedArtifactModified:    "Revert the locked artifact to its committed state; locked artifacts are immutable.",
	CodeArtifactNotApproved:       "Record an approval for the artifact in the approval ledger, or return it to draft.",
	CodeApprovalMetadataMissing:   "Restore or repair the approval ledger under the artifact metadata directory.",
	CodeArchitectureViolation:     "Remove the forbidden import or update the approved architecture plan to permit it.",
	CodeTestModificationAfterLock: "Revert the test change, or unlock the test plan through the approval process first.",
	CodeUnplannedCodeChange:       "Add the file to an approved implementation or refactor plan before changing it.",
	CodeTestSuiteFailed:           "Fix the failing tests reported by the test runner and re-run verification.",
	CodeStageExecutionError:       "Re-run the pipeline; if the error persists, report it against the failing stage.",
	CodeAuditIntegrityViolation:   "Repair the malformed audit log lines; the execution log must stay append-only and parseable.",
	CodeAuditMissingEntry:         "Restore the missing diff file referenced by the audit log.",
	CodeAuditHashChainBroken:      "Investigate the modified diff; recorded diffs must match their ledger digests.",
	CodeOrphanedCodeChange:        "Ensure every changed file is covered by an audit entry or its recorded diffs.",
}

// Valid returns true if the code is a known value.
func (c FailureCode) Valid() bool {
	_, ok := failureCategories[c]
	return ok
}

// Category returns the failure category for this code. Unknown codes map
// to CategoryInvariant so the function stays total.
func (c FailureCode) Category() FailureCategory {
	if cat, ok := failureCategories[c]; ok {
		return cat
	}
	return CategoryInvariant
}

// Remediation returns the static remediation hint for this code.
func (c FailureCode) Remediation() string {
	if r, ok := failureRemediations[c]; ok {
		return r
	}
	return "Re-run verification; consult the pipeline documentation for this failure."
}

// Failure is one verification finding. Failures are collected, never thrown.
type Failure struct {
	// Code identifies the kind of failure.
	Code FailureCode `json:"code"`
	// Message is a human-readable description of this specific finding.
	Message string `json:"message"`
	// FilePath is the repo-relative file the failure refers to, if file-scoped.
	FilePath string `json:"file_path,omitempty"`
	// LineNumber is the 1-based line the failure refers to, if line-scoped.
	LineNumber int `json:"line_number,omitempty"`
	// Details carries optional structured context (layer names, counts).
	Details map[string]string `json:"details,omitempty"`
}
