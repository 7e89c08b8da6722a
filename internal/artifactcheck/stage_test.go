package artifactcheck

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/verityci/warden/internal/artifact"
	"github.com/verityci/warden/internal/git"
	"github.com/verityci/warden/internal/pipeline"
	"github.com/verityci/warden/internal/schema"
	"github.com/verityci/warden/pkg/models"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func staticDetector(files ...string) git.ChangeDetector {
	return git.DetectorFunc(func(ctx context.Context, baseRef string) ([]string, error) {
		return files, nil
	})
}

func newStage(root string, detector git.ChangeDetector) *Stage {
	return New(artifact.NewStore(root, ""), schema.NewOracle(), detector)
}

func codes(failures []models.Failure) map[models.FailureCode]int {
	counts := make(map[models.FailureCode]int)
	for _, f := range failures {
		counts[f.Code]++
	}
	return counts
}

func TestStage_EmptyStorePasses(t *testing.T) {
	s := newStage(t.TempDir(), staticDetector())
	result := s.Validate(context.Background(), pipeline.RunContext{})
	if !result.Passed || len(result.Failures) != 0 {
		t.Errorf("Validate() on empty store = %+v, want clean pass", result)
	}
}

func TestStage_CleanApprovedArtifactPasses(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "artifacts/implementation_plan/plan-1.yaml", `
id: plan-1
type: implementation_plan
status: approved
version: 1
payload:
  targets:
    - path: src/main.py
`)

	s := newStage(root, staticDetector())
	result := s.Validate(context.Background(), pipeline.RunContext{})
	if !result.Passed {
		t.Errorf("Validate() = %+v, want pass", result)
	}
}

func TestStage_ParseFailureDoesNotHideOtherFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "artifacts/a/broken.yaml", "id: [unclosed\n")
	writeFile(t, root, "artifacts/b/draft.yaml", `
id: d-1
type: project_plan
status: draft
version: 1
payload:
  objectives: ["ship it"]
`)

	s := newStage(root, staticDetector())
	result := s.Validate(context.Background(), pipeline.RunContext{})
	if result.Passed {
		t.Fatal("Validate() passed, want failure")
	}

	got := codes(result.Failures)
	if got[models.CodeSchemaValidationFailed] != 1 {
		t.Errorf("schema failures = %d, want 1", got[models.CodeSchemaValidationFailed])
	}
	if got[models.CodeDraftArtifactPresent] != 1 {
		t.Errorf("draft failures = %d, want 1", got[models.CodeDraftArtifactPresent])
	}
}

func TestStage_SchemaViolationCarriesFieldPath(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "artifacts/implementation_plan/plan-1.yaml", `
id: plan-1
type: implementation_plan
status: approved
version: 1
payload: {}
`)

	s := newStage(root, staticDetector())
	result := s.Validate(context.Background(), pipeline.RunContext{})
	if result.Passed {
		t.Fatal("Validate() passed, want schema failure")
	}
	f := result.Failures[0]
	if f.Code != models.CodeSchemaValidationFailed {
		t.Errorf("code = %q", f.Code)
	}
	if f.Details["field"] != "payload.targets" {
		t.Errorf("field path = %q, want payload.targets", f.Details["field"])
	}
}

func TestStage_LockedArtifactModified(t *testing.T) {
	root := t.TempDir()
	rel := "artifacts/test_plan/tp-1.yaml"
	writeFile(t, root, rel, `
id: tp-1
type: test_plan
status: locked
version: 1
payload:
  cases:
    - name: smoke
`)

	tests := []struct {
		name     string
		detector git.ChangeDetector
		want     int
	}{
		{"unchanged", staticDetector(), 0},
		{"modified", staticDetector(rel), 1},
		{"vcs failure fails open", git.DetectorFunc(func(ctx context.Context, baseRef string) ([]string, error) {
			return nil, errors.New("no repository")
		}), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStage(root, tt.detector)
			result := s.Validate(context.Background(), pipeline.RunContext{BaseRef: "main"})
			got := codes(result.Failures)[models.CodeLockedArtifactModified]
			if got != tt.want {
				t.Errorf("locked-modified failures = %d, want %d", got, tt.want)
			}
		})
	}
}
