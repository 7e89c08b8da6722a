package models

import "time"

// StageResult is the outcome of one pipeline stage.
type StageResult struct {
	// Stage is the stage name (e.g. "artifact-validation").
	Stage string `json:"stage"`
	// Passed is true iff the stage ran and found zero failures.
	Passed bool `json:"passed"`
	// Failures lists every finding the stage collected.
	Failures []Failure `json:"failures,omitempty"`
	// DurationMs is how long the stage ran, in milliseconds.
	DurationMs int64 `json:"duration_ms"`
	// Skipped is true if the stage was not executed.
	Skipped bool `json:"skipped,omitempty"`
	// SkipReason explains why the stage was skipped.
	SkipReason string `json:"skip_reason,omitempty"`
}

// PipelineResult aggregates the results of one verification run.
// It is built fresh per run and never persisted by the pipeline itself.
type PipelineResult struct {
	// RunID uniquely identifies this verification run.
	RunID string `json:"run_id"`
	// Passed is true iff every executed stage passed.
	Passed bool `json:"passed"`
	// StageResults holds one entry per stage, in pipeline order.
	StageResults []StageResult `json:"stage_results"`
	// TotalDurationMs is the wall-clock duration of the whole run.
	TotalDurationMs int64 `json:"total_duration_ms"`
	// Branch is the branch context the run was invoked with, if any.
	Branch string `json:"branch,omitempty"`
	// Commit is the commit context the run was invoked with, if any.
	Commit string `json:"commit,omitempty"`
	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`
}

// FailureCount returns the total number of failures across all stages.
// It is derived, never stored.
func (r *PipelineResult) FailureCount() int {
	count := 0
	for _, sr := range r.StageResults {
		count += len(sr.Failures)
	}
	return count
}

// AllFailures returns every failure across all stages, in pipeline order.
func (r *PipelineResult) AllFailures() []Failure {
	var all []Failure
	for _, sr := range r.StageResults {
		all = append(all, sr.Failures...)
	}
	return all
}

// StagesPassed returns the number of stages that ran and passed.
func (r *PipelineResult) StagesPassed() int {
	count := 0
	for _, sr := range r.StageResults {
		if !sr.Skipped && sr.Passed {
			count++
		}
	}
	return count
}

// StagesFailed returns the number of stages that ran and failed.
func (r *PipelineResult) StagesFailed() int {
	count := 0
	for _, sr := range r.StageResults {
		if !sr.Skipped && !sr.Passed {
			count++
		}
	}
	return count
}

// StagesSkipped returns the number of stages that were skipped.
func (r *PipelineResult) StagesSkipped() int {
	count := 0
	for _, sr := range r.StageResults {
		if sr.Skipped {
			count++
		}
	}
	return count
}
