package models

import "time"

// ArtifactStatus represents the lifecycle state of an artifact.
type ArtifactStatus string

const (
	// StatusDraft indicates the artifact is still being authored upstream.
	StatusDraft ArtifactStatus = "draft"
	// StatusApproved indicates the artifact has a recorded approval.
	StatusApproved ArtifactStatus = "approved"
	// StatusLocked indicates the artifact is approved and immutable.
	StatusLocked ArtifactStatus = "locked"
)

// Valid returns true if the status is a known value.
func (s ArtifactStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusApproved, StatusLocked:
		return true
	default:
		return false
	}
}

// RequiresApproval returns true if artifacts in this status must have a
// record in the approval ledger. Drafts are always exempt.
func (s ArtifactStatus) RequiresApproval() bool {
	return s == StatusApproved || s == StatusLocked
}

// ArtifactType identifies the kind of document an artifact carries.
type ArtifactType string

const (
	// TypeProjectPlan is the top-level planning document.
	TypeProjectPlan ArtifactType = "project_plan"
	// TypeArchitecturePlan declares layers and dependency rules.
	TypeArchitecturePlan ArtifactType = "architecture_plan"
	// TypeTestPlan enumerates the test cases for a change.
	TypeTestPlan ArtifactType = "test_plan"
	// TypeImplementationPlan names the files a change is allowed to touch.
	TypeImplementationPlan ArtifactType = "implementation_plan"
	// TypeRefactorPlan describes structural moves, renames and deletions.
	TypeRefactorPlan ArtifactType = "refactor_plan"
	// TypeValidationResult records the outcome of an upstream validation.
	TypeValidationResult ArtifactType = "validation_result"
)

// AllArtifactTypes lists every known artifact type.
var AllArtifactTypes = []ArtifactType{
	TypeProjectPlan,
	TypeArchitecturePlan,
	TypeTestPlan,
	TypeImplementationPlan,
	TypeRefactorPlan,
	TypeValidationResult,
}

// Valid returns true if the type is a known value.
func (t ArtifactType) Valid() bool {
	for _, known := range AllArtifactTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Lockable returns true if artifacts of this type may reach LOCKED status
// and must then remain byte-identical to their committed state.
func (t ArtifactType) Lockable() bool {
	switch t {
	case TypeArchitecturePlan, TypeTestPlan, TypeImplementationPlan, TypeRefactorPlan:
		return true
	default:
		return false
	}
}

// Artifact is one structured document produced upstream. The verification
// pipeline only ever reads artifacts; it never creates or mutates them.
type Artifact struct {
	// ID uniquely identifies the artifact within the store.
	ID string `yaml:"id" json:"id"`
	// Type is the declared artifact type.
	Type ArtifactType `yaml:"type" json:"type"`
	// Status is the lifecycle status.
	Status ArtifactStatus `yaml:"status" json:"status"`
	// Version is the artifact revision, starting at 1.
	Version int `yaml:"version" json:"version"`
	// Payload is the typed document body, validated by the schema oracle.
	Payload map[string]interface{} `yaml:"payload" json:"payload,omitempty"`
	// Path is the store-relative file the artifact was read from.
	// It is populated during discovery and never serialized back.
	Path string `yaml:"-" json:"path,omitempty"`
}

// ApprovalRecord is one entry in the approval ledger. Only the presence of
// a record under an artifact id matters to verification.
type ApprovalRecord struct {
	// ArtifactID is the id of the approved artifact.
	ArtifactID string `yaml:"artifact_id" json:"artifact_id"`
	// ApprovedBy identifies who recorded the approval.
	ApprovedBy string `yaml:"approved_by" json:"approved_by"`
	// ApprovedAt is when the approval was recorded.
	ApprovedAt time.Time `yaml:"approved_at" json:"approved_at"`
}
