package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/verityci/warden/pkg/models"
)

// Options configures a pipeline run.
type Options struct {
	// StopOnFailure stops the pipeline at the first failing stage and
	// marks the remainder skipped. Defaults to true via DefaultOptions.
	StopOnFailure bool
	// Skip lists stage names to skip; each produces a skipped result.
	Skip []string
	// Only, when non-empty, is a stage allow-list. Stages outside it
	// produce no result at all.
	Only []string
}

// DefaultOptions returns the default run options.
func DefaultOptions() Options {
	return Options{StopOnFailure: true}
}

// Orchestrator runs registered stages in fixed order and aggregates their
// results. A misbehaving stage can fail the run but never crash it.
type Orchestrator struct {
	stages map[string]Stage
	opts   Options
	logger *DebugLogger
}

// New creates an orchestrator over the given stages. Stages whose names are
// not in StageOrder are ignored; order positions without a registered stage
// produce skipped results at run time.
func New(stages []Stage, opts Options, logger *DebugLogger) *Orchestrator {
	registry := make(map[string]Stage, len(stages))
	for _, s := range stages {
		registry[s.Name()] = s
	}
	if logger == nil {
		logger = NopLogger()
	}
	return &Orchestrator{stages: registry, opts: opts, logger: logger}
}

// Run executes the pipeline against the repository. It never returns an
// error: every problem is expressed as a failure inside the result.
func (o *Orchestrator) Run(ctx context.Context, run RunContext) *models.PipelineResult {
	start := time.Now()
	result := &models.PipelineResult{
		RunID:     uuid.NewString(),
		Passed:    true,
		Branch:    run.Branch,
		Commit:    run.Commit,
		StartedAt: start,
	}

	skip := toSet(o.opts.Skip)
	only := toSet(o.opts.Only)
	stopped := false

	o.logger.Log("run %s started (repo=%s base=%s)", result.RunID, run.RepoRoot, run.BaseRef)

	for _, name := range StageOrder {
		// An allow-list suppresses results for everything outside it.
		if len(only) > 0 && !only[name] {
			continue
		}

		if stopped {
			result.StageResults = append(result.StageResults, skippedResult(name, "earlier failure"))
			continue
		}
		if skip[name] {
			result.StageResults = append(result.StageResults, skippedResult(name, "skipped by configuration"))
			continue
		}

		stage, registered := o.stages[name]
		if !registered {
			result.StageResults = append(result.StageResults, skippedResult(name, "stage not registered"))
			continue
		}

		sr := o.runStage(ctx, stage, run)
		result.StageResults = append(result.StageResults, sr)
		o.logger.Log("stage %s: passed=%v failures=%d duration=%dms",
			name, sr.Passed, len(sr.Failures), sr.DurationMs)

		if !sr.Passed {
			result.Passed = false
			if o.opts.StopOnFailure {
				stopped = true
			}
		}
	}

	result.TotalDurationMs = time.Since(start).Milliseconds()
	o.logger.Log("run %s finished: passed=%v failures=%d", result.RunID, result.Passed, result.FailureCount())
	return result
}

// runStage invokes a stage with timing and converts a panic into a single
// synthetic failure so the pipeline survives any stage.
func (o *Orchestrator) runStage(ctx context.Context, stage Stage, run RunContext) (sr models.StageResult) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			o.logger.Log("stage %s panicked: %v", stage.Name(), r)
			sr = models.StageResult{
				Stage:  stage.Name(),
				Passed: false,
				Failures: []models.Failure{{
					Code:    models.CodeStageExecutionError,
					Message: fmt.Sprintf("stage %s aborted: %v", stage.Name(), r),
				}},
				DurationMs: time.Since(start).Milliseconds(),
			}
		}
	}()

	sr = stage.Validate(ctx, run)
	sr.Stage = stage.Name()
	sr.DurationMs = time.Since(start).Milliseconds()
	return sr
}

// skippedResult builds the uniform result for a stage that did not run.
func skippedResult(name, reason string) models.StageResult {
	return models.StageResult{
		Stage:      name,
		Passed:     true,
		Skipped:    true,
		SkipReason: reason,
	}
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}
