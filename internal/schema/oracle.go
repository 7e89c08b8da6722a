// Package schema is the validation oracle for artifact documents. It checks
// the common envelope on every artifact and dispatches the typed payload to
// a per-type validator through a closed registry. Types without a registered
// validator skip payload checks.
package schema

import (
	"fmt"

	"github.com/verityci/warden/pkg/models"
)

// Violation is one structured schema finding with a field path.
type Violation struct {
	// FieldPath locates the offending field (e.g. "payload.targets[0].path").
	FieldPath string
	// Message describes the violation.
	Message string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.FieldPath, v.Message)
}

// payloadValidator checks one artifact type's payload.
type payloadValidator func(payload map[string]interface{}) []Violation

// Oracle validates artifacts against their type's schema. The validator
// registry is built once at construction and shared by reference; there is
// no implicit package-level state.
type Oracle struct {
	validators map[models.ArtifactType]payloadValidator
}

// NewOracle creates an oracle with the built-in validator registry.
// Adding a type is a registry edit here, not a runtime lookup.
func NewOracle() *Oracle {
	return &Oracle{
		validators: map[models.ArtifactType]payloadValidator{
			models.TypeProjectPlan:        validateProjectPlan,
			models.TypeArchitecturePlan:   validateArchitecturePlan,
			models.TypeTestPlan:           validateTestPlan,
			models.TypeImplementationPlan: validateImplementationPlan,
			models.TypeRefactorPlan:       validateRefactorPlan,
			// validation_result payloads are produced by an external runner
			// and carry no schema here.
		},
	}
}

// HasSchema returns true if a payload validator is registered for the type.
func (o *Oracle) HasSchema(typ models.ArtifactType) bool {
	_, ok := o.validators[typ]
	return ok
}

// Validate checks the artifact envelope and, when a schema is registered,
// its typed payload. It returns all violations found.
func (o *Oracle) Validate(a *models.Artifact) []Violation {
	var violations []Violation

	if a.ID == "" {
		violations = append(violations, Violation{FieldPath: "id", Message: "must be non-empty"})
	}
	if a.Type == "" {
		violations = append(violations, Violation{FieldPath: "type", Message: "must be declared"})
	} else if !a.Type.Valid() {
		violations = append(violations, Violation{
			FieldPath: "type",
			Message:   fmt.Sprintf("unknown artifact type %q", a.Type),
		})
	}
	if !a.Status.Valid() {
		violations = append(violations, Violation{
			FieldPath: "status",
			Message:   fmt.Sprintf("unknown status %q", a.Status),
		})
	}
	if a.Status == models.StatusLocked && !a.Type.Lockable() {
		violations = append(violations, Violation{
			FieldPath: "status",
			Message:   fmt.Sprintf("type %q cannot be locked", a.Type),
		})
	}
	if a.Version < 1 {
		violations = append(violations, Violation{FieldPath: "version", Message: "must be at least 1"})
	}

	// Envelope problems make payload interpretation unreliable.
	if len(violations) > 0 {
		return violations
	}

	if validate, ok := o.validators[a.Type]; ok {
		violations = append(violations, validate(a.Payload)...)
	}

	return violations
}
