package models

import "testing"

func sampleResult() *PipelineResult {
	return &PipelineResult{
		RunID:  "run-1",
		Passed: false,
		StageResults: []StageResult{
			{
				Stage:  "artifact-validation",
				Passed: false,
				Failures: []Failure{
					{Code: CodeDraftArtifactPresent, Message: "draft artifact plan-1"},
					{Code: CodeSchemaValidationFailed, Message: "bad payload", FilePath: "artifacts/x.yaml"},
				},
			},
			{Stage: "approval-verification", Passed: true},
			{Stage: "invariant-enforcement", Skipped: true, SkipReason: "earlier failure"},
			{
				Stage:    "audit-verification",
				Passed:   false,
				Failures: []Failure{{Code: CodeAuditMissingEntry, Message: "missing diff"}},
			},
		},
	}
}

func TestPipelineResult_FailureCount(t *testing.T) {
	r := sampleResult()
	if got := r.FailureCount(); got != 3 {
		t.Errorf("FailureCount() = %d, want 3", got)
	}
}

func TestPipelineResult_AllFailures(t *testing.T) {
	r := sampleResult()
	all := r.AllFailures()
	if len(all) != 3 {
		t.Fatalf("AllFailures() returned %d failures, want 3", len(all))
	}
	// Pipeline order is preserved.
	if all[0].Code != CodeDraftArtifactPresent {
		t.Errorf("first failure = %q, want %q", all[0].Code, CodeDraftArtifactPresent)
	}
	if all[2].Code != CodeAuditMissingEntry {
		t.Errorf("last failure = %q, want %q", all[2].Code, CodeAuditMissingEntry)
	}
}

func TestPipelineResult_StageCounts(t *testing.T) {
	r := sampleResult()
	if got := r.StagesPassed(); got != 1 {
		t.Errorf("StagesPassed() = %d, want 1", got)
	}
	if got := r.StagesFailed(); got != 2 {
		t.Errorf("StagesFailed() = %d, want 2", got)
	}
	if got := r.StagesSkipped(); got != 1 {
		t.Errorf("StagesSkipped() = %d, want 1", got)
	}
}

func TestPipelineResult_EmptyDerivations(t *testing.T) {
	r := &PipelineResult{RunID: "run-2", Passed: true}
	if got := r.FailureCount(); got != 0 {
		t.Errorf("FailureCount() on empty result = %d, want 0", got)
	}
	if got := r.AllFailures(); got != nil {
		t.Errorf("AllFailures() on empty result = %v, want nil", got)
	}
}
