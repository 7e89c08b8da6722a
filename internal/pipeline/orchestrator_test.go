package pipeline

import (
	"context"
	"testing"

	"github.com/verityci/warden/pkg/models"
)

// stubStage counts invocations and returns a canned result.
type stubStage struct {
	name   string
	passed bool
	calls  int
	panics bool
}

func (s *stubStage) Name() string { return s.name }

func (s *stubStage) Validate(ctx context.Context, run RunContext) models.StageResult {
	s.calls++
	if s.panics {
		panic("stage blew up")
	}
	sr := models.StageResult{Stage: s.name, Passed: s.passed}
	if !s.passed {
		sr.Failures = []models.Failure{{
			Code:    models.CodeDraftArtifactPresent,
			Message: "stub failure",
		}}
	}
	return sr
}

func allPassing() []Stage {
	return []Stage{
		&stubStage{name: StageArtifactValidation, passed: true},
		&stubStage{name: StageApprovalVerification, passed: true},
		&stubStage{name: StageInvariantEnforcement, passed: true},
		&stubStage{name: StageTestExecution, passed: true},
		&stubStage{name: StageAuditVerification, passed: true},
	}
}

func TestOrchestrator_AllStagesPass(t *testing.T) {
	o := New(allPassing(), DefaultOptions(), nil)
	result := o.Run(context.Background(), RunContext{RepoRoot: t.TempDir()})

	if !result.Passed {
		t.Error("Run() passed = false, want true")
	}
	if len(result.StageResults) != len(StageOrder) {
		t.Fatalf("Run() produced %d stage results, want %d", len(result.StageResults), len(StageOrder))
	}
	for i, name := range StageOrder {
		if result.StageResults[i].Stage != name {
			t.Errorf("stage %d = %q, want %q", i, result.StageResults[i].Stage, name)
		}
	}
	if result.RunID == "" {
		t.Error("Run() produced empty run id")
	}
}

func TestOrchestrator_StopOnFailureSkipsRemaining(t *testing.T) {
	failing := &stubStage{name: StageApprovalVerification, passed: false}
	later := &stubStage{name: StageAuditVerification, passed: true}
	stages := []Stage{
		&stubStage{name: StageArtifactValidation, passed: true},
		failing,
		&stubStage{name: StageInvariantEnforcement, passed: true},
		&stubStage{name: StageTestExecution, passed: true},
		later,
	}

	o := New(stages, DefaultOptions(), nil)
	result := o.Run(context.Background(), RunContext{})

	if result.Passed {
		t.Error("Run() passed = true, want false")
	}
	for _, sr := range result.StageResults[2:] {
		if !sr.Skipped || sr.SkipReason != "earlier failure" {
			t.Errorf("stage %s: skipped=%v reason=%q, want skipped with earlier-failure reason",
				sr.Stage, sr.Skipped, sr.SkipReason)
		}
	}
	// Later stages must never be invoked.
	if later.calls != 0 {
		t.Errorf("audit stage invoked %d times after earlier failure, want 0", later.calls)
	}
}

func TestOrchestrator_ContinueOnFailure(t *testing.T) {
	audit := &stubStage{name: StageAuditVerification, passed: true}
	stages := []Stage{
		&stubStage{name: StageArtifactValidation, passed: false},
		&stubStage{name: StageApprovalVerification, passed: true},
		&stubStage{name: StageInvariantEnforcement, passed: true},
		&stubStage{name: StageTestExecution, passed: true},
		audit,
	}

	o := New(stages, Options{StopOnFailure: false}, nil)
	result := o.Run(context.Background(), RunContext{})

	if result.Passed {
		t.Error("Run() passed = true, want false")
	}
	if audit.calls != 1 {
		t.Errorf("audit stage calls = %d, want 1", audit.calls)
	}
	if result.FailureCount() != 1 {
		t.Errorf("FailureCount() = %d, want 1", result.FailureCount())
	}
}

func TestOrchestrator_UnregisteredStageSkipped(t *testing.T) {
	stages := []Stage{
		&stubStage{name: StageArtifactValidation, passed: true},
		// test-execution deliberately unregistered.
		&stubStage{name: StageApprovalVerification, passed: true},
		&stubStage{name: StageInvariantEnforcement, passed: true},
		&stubStage{name: StageAuditVerification, passed: true},
	}

	o := New(stages, DefaultOptions(), nil)
	result := o.Run(context.Background(), RunContext{})

	if !result.Passed {
		t.Error("Run() passed = false, want true")
	}
	var testSR *models.StageResult
	for i := range result.StageResults {
		if result.StageResults[i].Stage == StageTestExecution {
			testSR = &result.StageResults[i]
		}
	}
	if testSR == nil {
		t.Fatal("no result for unregistered test-execution stage")
	}
	if !testSR.Skipped || testSR.SkipReason != "stage not registered" {
		t.Errorf("unregistered stage result = %+v", testSR)
	}
}

func TestOrchestrator_ConfiguredSkip(t *testing.T) {
	o := New(allPassing(), Options{StopOnFailure: true, Skip: []string{StageTestExecution}}, nil)
	result := o.Run(context.Background(), RunContext{})

	for _, sr := range result.StageResults {
		if sr.Stage == StageTestExecution {
			if !sr.Skipped || sr.SkipReason != "skipped by configuration" {
				t.Errorf("skip-listed stage result = %+v", sr)
			}
		}
	}
}

func TestOrchestrator_AllowListSuppressesResults(t *testing.T) {
	o := New(allPassing(), Options{StopOnFailure: true, Only: []string{StageAuditVerification}}, nil)
	result := o.Run(context.Background(), RunContext{})

	if len(result.StageResults) != 1 {
		t.Fatalf("Run() produced %d results, want 1", len(result.StageResults))
	}
	if result.StageResults[0].Stage != StageAuditVerification {
		t.Errorf("allow-listed stage = %q", result.StageResults[0].Stage)
	}
}

func TestOrchestrator_PanickingStageBecomesSyntheticFailure(t *testing.T) {
	stages := allPassing()
	stages[2] = &stubStage{name: StageInvariantEnforcement, panics: true}

	o := New(stages, DefaultOptions(), nil)
	result := o.Run(context.Background(), RunContext{})

	if result.Passed {
		t.Error("Run() passed = true, want false")
	}
	var sr models.StageResult
	for _, s := range result.StageResults {
		if s.Stage == StageInvariantEnforcement {
			sr = s
		}
	}
	if len(sr.Failures) != 1 {
		t.Fatalf("panicking stage failures = %d, want exactly 1", len(sr.Failures))
	}
	if sr.Failures[0].Code != models.CodeStageExecutionError {
		t.Errorf("synthetic failure code = %q, want %q", sr.Failures[0].Code, models.CodeStageExecutionError)
	}
}

func TestOrchestrator_IdempotentAcrossRuns(t *testing.T) {
	o := New([]Stage{
		&stubStage{name: StageArtifactValidation, passed: false},
	}, Options{StopOnFailure: false}, nil)

	first := o.Run(context.Background(), RunContext{})
	second := o.Run(context.Background(), RunContext{})

	if first.Passed != second.Passed {
		t.Errorf("passed differs across runs: %v vs %v", first.Passed, second.Passed)
	}
	f1, f2 := first.AllFailures(), second.AllFailures()
	if len(f1) != len(f2) {
		t.Fatalf("failure counts differ: %d vs %d", len(f1), len(f2))
	}
	for i := range f1 {
		if f1[i].Code != f2[i].Code || f1[i].Message != f2[i].Message || f1[i].FilePath != f2[i].FilePath {
			t.Errorf("failure %d differs across runs: %+v vs %+v", i, f1[i], f2[i])
		}
	}
}
