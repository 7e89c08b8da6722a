// Package git provides the VCS collaborator for the verification pipeline.
// The pipeline only ever asks one question of version control: which files
// changed relative to a base revision.
package git

import "context"

// ChangeDetector answers which files changed since a base revision.
// Implementations return an explicit error; callers decide whether an
// inconclusive answer fails open (empty set) or closed.
type ChangeDetector interface {
	// ChangedFiles returns repo-relative paths of files that differ from
	// baseRef. An empty baseRef lets the implementation pick its default.
	ChangedFiles(ctx context.Context, baseRef string) ([]string, error)
}

// DetectorFunc adapts a function to the ChangeDetector interface.
type DetectorFunc func(ctx context.Context, baseRef string) ([]string, error)

// ChangedFiles calls the wrapped function.
func (f DetectorFunc) ChangedFiles(ctx context.Context, baseRef string) ([]string, error) {
	return f(ctx, baseRef)
}
