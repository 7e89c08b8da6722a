// Package testrun implements the test execution stage. The pipeline does
// not run tests itself; it delegates to a configured command and folds the
// exit status into the verification verdict.
package testrun

import (
	"context"
	"fmt"
	"strings"

	"github.com/verityci/warden/internal/exec"
	"github.com/verityci/warden/internal/pipeline"
	"github.com/verityci/warden/pkg/models"
)

// maxOutputDetail caps how much runner output is carried into failure
// details. Full output belongs in the runner's own logs.
const maxOutputDetail = 2000

// Stage runs the configured test command and reports its verdict.
type Stage struct {
	runner  exec.CommandRunner
	command string
}

// New creates the test execution stage. An empty command means no test
// runner is configured and the stage skips.
func New(runner exec.CommandRunner, command string) *Stage {
	return &Stage{runner: runner, command: command}
}

// Name returns the stage's canonical name.
func (s *Stage) Name() string { return pipeline.StageTestExecution }

// Validate shells out to the configured command in the repo root. A
// non-zero exit is one TEST_SUITE_FAILED failure carrying the tail of the
// command output.
func (s *Stage) Validate(ctx context.Context, run pipeline.RunContext) models.StageResult {
	result := models.StageResult{Stage: s.Name(), Passed: true}

	if s.command == "" || s.runner == nil {
		result.Skipped = true
		result.SkipReason = "no test command configured"
		return result
	}

	output, err := s.runner.RunShell(ctx, run.RepoRoot, s.command)
	if err != nil {
		result.Passed = false
		result.Failures = append(result.Failures, models.Failure{
			Code:    models.CodeTestSuiteFailed,
			Message: fmt.Sprintf("test command %q failed: %v", s.command, err),
			Details: map[string]string{
				"command": s.command,
				"output":  tail(string(output), maxOutputDetail),
			},
		})
	}
	return result
}

// tail keeps the last n bytes of output, where the failure summary usually
// lives.
func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
