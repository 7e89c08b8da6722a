package git

import (
	"context"
	"fmt"
	"os/exec"
	"sort"
	"strings"
	"time"
)

// DefaultTimeout bounds a single git invocation. Verification must never
// hang on a slow or wedged repository.
const DefaultTimeout = 30 * time.Second

// DefaultBaseRef is the revision diffs are taken against when the caller
// does not supply one.
const DefaultBaseRef = "main"

// ExecDetector implements ChangeDetector by shelling out to git.
type ExecDetector struct {
	repoPath string
	timeout  time.Duration
}

// NewDetector creates a detector for the repository at the given path.
// A non-positive timeout falls back to DefaultTimeout.
func NewDetector(repoPath string, timeout time.Duration) *ExecDetector {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &ExecDetector{repoPath: repoPath, timeout: timeout}
}

// ChangedFiles returns the files that differ from baseRef, including
// uncommitted working-tree changes. If the base diff fails (unknown ref,
// shallow clone), it falls back to diffing against the prior revision.
func (d *ExecDetector) ChangedFiles(ctx context.Context, baseRef string) ([]string, error) {
	if baseRef == "" {
		baseRef = DefaultBaseRef
	}

	out, err := d.run(ctx, "diff", "--name-only", baseRef)
	if err != nil {
		// Fallback: the base ref may not exist locally.
		out, err = d.run(ctx, "diff", "--name-only", "HEAD~1")
		if err != nil {
			return nil, fmt.Errorf("changed files against %s: %w", baseRef, err)
		}
	}

	return splitFiles(out), nil
}

// run executes a git command with the detector's timeout applied.
func (d *ExecDetector) run(ctx context.Context, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = d.repoPath
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, string(out))
	}
	return strings.TrimSpace(string(out)), nil
}

// splitFiles normalizes diff --name-only output into a sorted, deduplicated
// path list.
func splitFiles(out string) []string {
	if out == "" {
		return nil
	}

	seen := make(map[string]bool)
	var files []string
	for _, line := range strings.Split(out, "\n") {
		path := strings.TrimSpace(line)
		if path == "" || seen[path] {
			continue
		}
		seen[path] = true
		files = append(files, path)
	}
	sort.Strings(files)
	return files
}

// Verify ExecDetector implements ChangeDetector at compile time.
var _ ChangeDetector = (*ExecDetector)(nil)
