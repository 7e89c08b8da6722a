// Package artifact reads the type-partitioned artifact store. The store is
// produced upstream; this package only discovers and parses documents.
package artifact

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/verityci/warden/pkg/models"
)

const (
	// DefaultStoreDir is the store root relative to the repository root.
	DefaultStoreDir = "artifacts"
	// MetadataDir is the store subtree holding ledgers and indexes,
	// excluded from artifact discovery.
	MetadataDir = "metadata"
	// IndexFileName is the fixed per-directory index file name.
	IndexFileName = "index.yaml"
	// ApprovalSidecarSuffix marks approval sidecar files.
	ApprovalSidecarSuffix = ".approval.yaml"
)

// ParseError describes one artifact file that could not be parsed.
type ParseError struct {
	// Path is the repo-relative path of the file.
	Path string
	// Err is the underlying parse failure.
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse artifact %s: %v", e.Path, e.Err)
}

// Store reads artifacts from a repository's artifact directory.
type Store struct {
	repoRoot string
	storeDir string
}

// NewStore creates a store reader rooted at repoRoot. storeDir is relative
// to repoRoot; empty means DefaultStoreDir.
func NewStore(repoRoot, storeDir string) *Store {
	if storeDir == "" {
		storeDir = DefaultStoreDir
	}
	return &Store{repoRoot: repoRoot, storeDir: storeDir}
}

// Root returns the absolute path of the store directory.
func (s *Store) Root() string {
	return filepath.Join(s.repoRoot, s.storeDir)
}

// Exists returns true if the store directory is present.
func (s *Store) Exists() bool {
	info, err := os.Stat(s.Root())
	return err == nil && info.IsDir()
}

// Discover walks the store and parses every artifact document. Files that
// fail to parse are reported as ParseErrors; discovery continues past them.
// An absent store yields no artifacts and no error.
func (s *Store) Discover() ([]*models.Artifact, []*ParseError, error) {
	root := s.Root()
	if !s.Exists() {
		return nil, nil, nil
	}

	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == MetadataDir && filepath.Dir(path) == root {
				return filepath.SkipDir
			}
			return nil
		}
		if !isArtifactFile(d.Name()) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("walk artifact store: %w", err)
	}

	// Deterministic order keeps repeated runs byte-identical.
	sort.Strings(paths)

	var artifacts []*models.Artifact
	var parseErrs []*ParseError
	for _, path := range paths {
		rel := s.relPath(path)
		a, err := s.load(path)
		if err != nil {
			parseErrs = append(parseErrs, &ParseError{Path: rel, Err: err})
			continue
		}
		a.Path = rel
		artifacts = append(artifacts, a)
	}

	return artifacts, parseErrs, nil
}

// Load parses a single artifact document at a repo-relative path.
func (s *Store) Load(relPath string) (*models.Artifact, error) {
	a, err := s.load(filepath.Join(s.repoRoot, relPath))
	if err != nil {
		return nil, err
	}
	a.Path = relPath
	return a, nil
}

func (s *Store) load(path string) (*models.Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read artifact file: %w", err)
	}

	var a models.Artifact
	if err := yaml.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("unmarshal artifact: %w", err)
	}
	return &a, nil
}

// relPath converts an absolute store path to a repo-relative one with
// forward slashes.
func (s *Store) relPath(path string) string {
	rel, err := filepath.Rel(s.repoRoot, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

// isArtifactFile reports whether a file name is an artifact document rather
// than an index or approval sidecar.
func isArtifactFile(name string) bool {
	if name == IndexFileName {
		return false
	}
	if strings.HasSuffix(name, ApprovalSidecarSuffix) {
		return false
	}
	ext := filepath.Ext(name)
	return ext == ".yaml" || ext == ".yml"
}

// FilterByType returns the artifacts with the given type.
func FilterByType(artifacts []*models.Artifact, typ models.ArtifactType) []*models.Artifact {
	var out []*models.Artifact
	for _, a := range artifacts {
		if a.Type == typ {
			out = append(out, a)
		}
	}
	return out
}

// FilterEnforceable returns the artifacts whose plans are binding, i.e.
// status APPROVED or LOCKED.
func FilterEnforceable(artifacts []*models.Artifact) []*models.Artifact {
	var out []*models.Artifact
	for _, a := range artifacts {
		if a.Status == models.StatusApproved || a.Status == models.StatusLocked {
			out = append(out, a)
		}
	}
	return out
}
