package models

import "testing"

func TestArtifactStatus_Valid(t *testing.T) {
	tests := []struct {
		name   string
		status ArtifactStatus
		want   bool
	}{
		{"draft is valid", StatusDraft, true},
		{"approved is valid", StatusApproved, true},
		{"locked is valid", StatusLocked, true},
		{"empty string is invalid", ArtifactStatus(""), false},
		{"unknown status is invalid", ArtifactStatus("pending"), false},
		{"uppercase is invalid", ArtifactStatus("DRAFT"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.status.Valid(); got != tt.want {
				t.Errorf("ArtifactStatus(%q).Valid() = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

func TestArtifactStatus_RequiresApproval(t *testing.T) {
	tests := []struct {
		status ArtifactStatus
		want   bool
	}{
		{StatusDraft, false},
		{StatusApproved, true},
		{StatusLocked, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.RequiresApproval(); got != tt.want {
				t.Errorf("ArtifactStatus(%q).RequiresApproval() = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

func TestArtifactType_Valid(t *testing.T) {
	for _, typ := range AllArtifactTypes {
		t.Run(string(typ), func(t *testing.T) {
			if !typ.Valid() {
				t.Errorf("ArtifactType(%q).Valid() = false, want true", typ)
			}
		})
	}

	if ArtifactType("deployment_plan").Valid() {
		t.Error("unknown type reported valid")
	}
	if ArtifactType("").Valid() {
		t.Error("empty type reported valid")
	}
}

func TestArtifactType_Lockable(t *testing.T) {
	tests := []struct {
		typ  ArtifactType
		want bool
	}{
		{TypeProjectPlan, false},
		{TypeArchitecturePlan, true},
		{TypeTestPlan, true},
		{TypeImplementationPlan, true},
		{TypeRefactorPlan, true},
		{TypeValidationResult, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			if got := tt.typ.Lockable(); got != tt.want {
				t.Errorf("ArtifactType(%q).Lockable() = %v, want %v", tt.typ, got, tt.want)
			}
		})
	}
}
