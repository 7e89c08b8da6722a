package schema

import (
	"strings"
	"testing"

	"github.com/verityci/warden/pkg/models"
)

func validArtifact() *models.Artifact {
	return &models.Artifact{
		ID:      "plan-1",
		Type:    models.TypeImplementationPlan,
		Status:  models.StatusApproved,
		Version: 1,
		Payload: map[string]interface{}{
			"targets": []interface{}{
				map[string]interface{}{"path": "src/main.py"},
			},
		},
	}
}

func TestOracle_ValidArtifact(t *testing.T) {
	oracle := NewOracle()
	if violations := oracle.Validate(validArtifact()); len(violations) != 0 {
		t.Errorf("Validate() = %v, want no violations", violations)
	}
}

func TestOracle_EnvelopeViolations(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(a *models.Artifact)
		wantField string
	}{
		{"missing id", func(a *models.Artifact) { a.ID = "" }, "id"},
		{"missing type", func(a *models.Artifact) { a.Type = "" }, "type"},
		{"unknown type", func(a *models.Artifact) { a.Type = "deployment_plan" }, "type"},
		{"unknown status", func(a *models.Artifact) { a.Status = "pending" }, "status"},
		{"zero version", func(a *models.Artifact) { a.Version = 0 }, "version"},
		{"locked non-lockable type", func(a *models.Artifact) {
			a.Type = models.TypeValidationResult
			a.Status = models.StatusLocked
			a.Payload = nil
		}, "status"},
	}

	oracle := NewOracle()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := validArtifact()
			tt.mutate(a)
			violations := oracle.Validate(a)
			if len(violations) == 0 {
				t.Fatal("Validate() found no violations")
			}
			found := false
			for _, v := range violations {
				if v.FieldPath == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("Validate() = %v, want violation at %q", violations, tt.wantField)
			}
		})
	}
}

func TestOracle_UnregisteredTypeSkipsPayload(t *testing.T) {
	oracle := NewOracle()
	a := &models.Artifact{
		ID:      "vr-1",
		Type:    models.TypeValidationResult,
		Status:  models.StatusDraft,
		Version: 1,
		// Arbitrary payload: no schema is registered for this type.
		Payload: map[string]interface{}{"anything": 42},
	}

	if oracle.HasSchema(a.Type) {
		t.Fatalf("HasSchema(%q) = true, want false", a.Type)
	}
	if violations := oracle.Validate(a); len(violations) != 0 {
		t.Errorf("Validate() = %v, want no violations for unregistered type", violations)
	}
}

func TestOracle_PayloadFieldPaths(t *testing.T) {
	tests := []struct {
		name      string
		typ       models.ArtifactType
		payload   map[string]interface{}
		wantField string
	}{
		{
			"implementation plan without targets",
			models.TypeImplementationPlan,
			map[string]interface{}{},
			"payload.targets",
		},
		{
			"implementation plan target without path",
			models.TypeImplementationPlan,
			map[string]interface{}{"targets": []interface{}{
				map[string]interface{}{"action": "modify"},
			}},
			"payload.targets[0].path",
		},
		{
			"refactor plan move without destination",
			models.TypeRefactorPlan,
			map[string]interface{}{"operations": []interface{}{
				map[string]interface{}{"kind": "move", "from": "a.py"},
			}},
			"payload.operations[0].to",
		},
		{
			"refactor plan unknown kind",
			models.TypeRefactorPlan,
			map[string]interface{}{"operations": []interface{}{
				map[string]interface{}{"kind": "copy", "from": "a.py", "to": "b.py"},
			}},
			"payload.operations[0].kind",
		},
		{
			"test plan case without name",
			models.TypeTestPlan,
			map[string]interface{}{"cases": []interface{}{
				map[string]interface{}{},
			}},
			"payload.cases[0].name",
		},
		{
			"project plan without objectives",
			models.TypeProjectPlan,
			map[string]interface{}{},
			"payload.objectives",
		},
		{
			"architecture plan layer without patterns",
			models.TypeArchitecturePlan,
			map[string]interface{}{"layers": []interface{}{
				map[string]interface{}{"name": "domain"},
			}},
			"payload.layers[0].patterns",
		},
	}

	oracle := NewOracle()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &models.Artifact{
				ID: "a-1", Type: tt.typ, Status: models.StatusDraft, Version: 1,
				Payload: tt.payload,
			}
			violations := oracle.Validate(a)
			found := false
			for _, v := range violations {
				if v.FieldPath == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("Validate() = %v, want violation at %q", violations, tt.wantField)
			}
		})
	}
}

func TestViolation_String(t *testing.T) {
	v := Violation{FieldPath: "payload.targets", Message: "must be a non-empty list"}
	if !strings.Contains(v.String(), "payload.targets") {
		t.Errorf("String() = %q, want field path included", v.String())
	}
}
