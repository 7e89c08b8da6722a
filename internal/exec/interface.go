// Package exec provides an injected command-runner capability so stages
// that shell out (the delegated test runner) stay testable.
package exec

import "context"

// CommandRunner executes external commands on behalf of the pipeline.
type CommandRunner interface {
	// Run executes a command and returns combined stdout/stderr output.
	Run(ctx context.Context, workDir string, name string, args ...string) ([]byte, error)
	// RunShell executes a shell command through "sh -c".
	RunShell(ctx context.Context, workDir string, command string) ([]byte, error)
}
