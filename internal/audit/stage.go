package audit

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/verityci/warden/internal/artifact"
	"github.com/verityci/warden/internal/git"
	"github.com/verityci/warden/internal/pipeline"
	"github.com/verityci/warden/pkg/models"
)

// Options configures the audit verification stage.
type Options struct {
	// AuditDir is the audit trail directory relative to the repo root.
	// Empty means DefaultAuditDir.
	AuditDir string
	// OrphanDetection enables flagging changed files no audit entry covers.
	OrphanDetection bool
}

// Stage verifies the audit trail against the repository state.
type Stage struct {
	store    *artifact.Store
	detector git.ChangeDetector
	opts     Options
}

// New creates the audit verification stage.
func New(store *artifact.Store, detector git.ChangeDetector, opts Options) *Stage {
	if opts.AuditDir == "" {
		opts.AuditDir = DefaultAuditDir
	}
	return &Stage{store: store, detector: detector, opts: opts}
}

// Name returns the stage's canonical name.
func (s *Stage) Name() string { return pipeline.StageAuditVerification }

// Validate runs the audit checks in order: log well-formedness, referenced
// diff existence, hash-chain integrity, then optional orphan detection. An
// absent audit directory short-circuits to a skipped pass.
func (s *Stage) Validate(ctx context.Context, run pipeline.RunContext) models.StageResult {
	result := models.StageResult{Stage: s.Name(), Passed: true}

	auditDir := filepath.Join(run.RepoRoot, s.opts.AuditDir)
	if info, err := os.Stat(auditDir); err != nil || !info.IsDir() {
		result.Skipped = true
		result.SkipReason = "audit trail not present"
		return result
	}

	entries, failures := s.checkLog(auditDir)
	result.Failures = append(result.Failures, failures...)
	result.Failures = append(result.Failures, s.checkDiffRefs(auditDir, entries)...)
	result.Failures = append(result.Failures, s.checkHashChain(auditDir)...)
	if s.opts.OrphanDetection {
		result.Failures = append(result.Failures, s.checkOrphans(ctx, run, auditDir, entries)...)
	}

	result.Passed = len(result.Failures) == 0
	return result
}

// checkLog parses the execution log. Malformed lines are counted into one
// failure rather than reported individually.
func (s *Stage) checkLog(auditDir string) ([]Entry, []models.Failure) {
	logPath := filepath.Join(auditDir, LogFileName)
	data, err := os.ReadFile(logPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, []models.Failure{{
			Code:     models.CodeAuditIntegrityViolation,
			Message:  fmt.Sprintf("execution log unreadable: %v", err),
			FilePath: s.relPath(logPath, auditDir),
		}}
	}

	entries, malformed := ParseLog(data)
	if malformed == 0 {
		return entries, nil
	}
	return entries, []models.Failure{{
		Code:     models.CodeAuditIntegrityViolation,
		Message:  fmt.Sprintf("execution log has %d malformed line(s)", malformed),
		FilePath: s.relPath(logPath, auditDir),
		Details:  map[string]string{"malformed_lines": strconv.Itoa(malformed)},
	}}
}

// checkDiffRefs verifies every referenced diff file exists.
func (s *Stage) checkDiffRefs(auditDir string, entries []Entry) []models.Failure {
	var failures []models.Failure
	for _, entry := range entries {
		if entry.DiffRef == "" {
			continue
		}
		path := filepath.Join(auditDir, filepath.FromSlash(entry.DiffRef))
		if _, err := os.Stat(path); err == nil {
			continue
		}
		failures = append(failures, models.Failure{
			Code:     models.CodeAuditMissingEntry,
			Message:  fmt.Sprintf("entry by %s references missing diff %s", entry.Executor, entry.DiffRef),
			FilePath: entry.DiffRef,
		})
	}
	return failures
}

// checkHashChain recomputes digests for every ledgered file that exists. An
// absent ledger disables the check.
func (s *Stage) checkHashChain(auditDir string) []models.Failure {
	ledgerPath := filepath.Join(auditDir, ChecksumFileName)
	sums, err := LoadChecksums(ledgerPath)
	if err != nil {
		return []models.Failure{{
			Code:     models.CodeAuditHashChainBroken,
			Message:  fmt.Sprintf("checksum ledger unreadable: %v", err),
			FilePath: s.relPath(ledgerPath, auditDir),
		}}
	}
	if sums == nil {
		return nil
	}

	var failures []models.Failure
	for _, rel := range sortedKeys(sums) {
		path := filepath.Join(auditDir, filepath.FromSlash(rel))
		if _, err := os.Stat(path); err != nil {
			continue
		}
		actual, err := HashFile(path)
		if err != nil {
			failures = append(failures, models.Failure{
				Code:     models.CodeAuditHashChainBroken,
				Message:  fmt.Sprintf("cannot hash %s: %v", rel, err),
				FilePath: rel,
			})
			continue
		}
		if actual != sums[rel] {
			failures = append(failures, models.Failure{
				Code:     models.CodeAuditHashChainBroken,
				Message:  fmt.Sprintf("digest mismatch for %s", rel),
				FilePath: rel,
				Details: map[string]string{
					"expected": sums[rel],
					"actual":   actual,
				},
			})
		}
	}
	return failures
}

// checkOrphans flags changed files outside the audited union: entry
// targets, paths named by diff headers, and payload paths of any artifact
// an entry target resolves to.
func (s *Stage) checkOrphans(ctx context.Context, run pipeline.RunContext, auditDir string, entries []Entry) []models.Failure {
	changed := s.changedFiles(ctx, run)
	if len(changed) == 0 {
		return nil
	}

	audited := make(map[string]bool)
	byID := s.artifactsByID()
	for _, entry := range entries {
		if entry.Target != "" {
			audited[entry.Target] = true
			if a, ok := byID[entry.Target]; ok {
				for _, p := range artifact.PayloadPaths(a) {
					audited[p] = true
				}
			}
		}
		if entry.DiffRef == "" {
			continue
		}
		diffPath := filepath.Join(auditDir, filepath.FromSlash(entry.DiffRef))
		data, err := os.ReadFile(diffPath)
		if err != nil {
			continue
		}
		for _, p := range diffHeaderPaths(data) {
			audited[p] = true
		}
	}

	var failures []models.Failure
	sort.Strings(changed)
	for _, file := range changed {
		if audited[file] {
			continue
		}
		failures = append(failures, models.Failure{
			Code:     models.CodeOrphanedCodeChange,
			Message:  fmt.Sprintf("%s changed with no covering audit entry", file),
			FilePath: file,
		})
	}
	return failures
}

// diffHeaderPaths extracts file paths from unified-diff `--- a/x` and
// `+++ b/y` headers. /dev/null markers are not paths.
func diffHeaderPaths(data []byte) []string {
	var paths []string
	for _, line := range strings.Split(string(data), "\n") {
		var rest string
		switch {
		case strings.HasPrefix(line, "--- "):
			rest = line[4:]
		case strings.HasPrefix(line, "+++ "):
			rest = line[4:]
		default:
			continue
		}
		rest = strings.TrimSpace(rest)
		if tab := strings.IndexByte(rest, '\t'); tab >= 0 {
			rest = rest[:tab]
		}
		if rest == "/dev/null" || rest == "" {
			continue
		}
		rest = strings.TrimPrefix(rest, "a/")
		rest = strings.TrimPrefix(rest, "b/")
		paths = append(paths, rest)
	}
	return paths
}

func (s *Stage) artifactsByID() map[string]*models.Artifact {
	byID := make(map[string]*models.Artifact)
	artifacts, _, err := s.store.Discover()
	if err != nil {
		return byID
	}
	for _, a := range artifacts {
		if a.ID != "" {
			byID[a.ID] = a
		}
	}
	return byID
}

func (s *Stage) changedFiles(ctx context.Context, run pipeline.RunContext) []string {
	if s.detector == nil {
		return nil
	}
	files, err := s.detector.ChangedFiles(ctx, run.BaseRef)
	if err != nil {
		return nil
	}
	return files
}

// relPath renders an audit-internal path relative to the audit dir for
// failure reporting.
func (s *Stage) relPath(path, auditDir string) string {
	rel, err := filepath.Rel(auditDir, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
