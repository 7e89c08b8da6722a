package arch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/verityci/warden/pkg/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"src/domain/user.py", "domain"},
		{"src/core/order.go", "domain"},
		{"src/adapters/db/repo.py", "infrastructure"},
		{"src/api/handler.ts", "interface"},
		{"src/usecases/checkout.py", "application"},
		{"docs/readme.md", ""},
		{"src\\domain\\user.py", "domain"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := Classify(tt.path, DefaultLayers); got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestClassifyImport_NormalizesSeparators(t *testing.T) {
	tests := []struct {
		module string
		want   string
	}{
		{"adapters.db", "infrastructure"},
		{"core.entities.user", "domain"},
		{"crate::adapters::store", "infrastructure"},
		{"left_pad", ""},
	}

	for _, tt := range tests {
		t.Run(tt.module, func(t *testing.T) {
			if got := ClassifyImport(tt.module, DefaultLayers); got != tt.want {
				t.Errorf("ClassifyImport(%q) = %q, want %q", tt.module, got, tt.want)
			}
		})
	}
}

func TestExtractImports(t *testing.T) {
	tests := []struct {
		name string
		path string
		src  string
		want []ImportRef
	}{
		{
			"python import and from",
			"a.py",
			"import os\n\nfrom adapters.db import repo\n",
			[]ImportRef{{Module: "os", Line: 1}, {Module: "adapters.db", Line: 3}},
		},
		{
			"go import block",
			"a.go",
			"package a\n\nimport (\n\t\"fmt\"\n\n\tdb \"example.com/adapters/db\"\n)\n",
			[]ImportRef{{Module: "fmt", Line: 4}, {Module: "example.com/adapters/db", Line: 6}},
		},
		{
			"typescript variants",
			"a.ts",
			"import { x } from './adapters/db'\nimport 'polyfill'\nconst y = require('core/user')\n",
			[]ImportRef{{Module: "./adapters/db", Line: 1}, {Module: "polyfill", Line: 2}, {Module: "core/user", Line: 3}},
		},
		{
			"rust use statements",
			"a.rs",
			"use std::fmt;\npub use crate::adapters::store;\n",
			[]ImportRef{{Module: "std::fmt", Line: 1}, {Module: "crate::adapters::store", Line: 2}},
		},
		{
			"comments skipped",
			"a.py",
			"# import secrets\nimport json\n",
			[]ImportRef{{Module: "json", Line: 2}},
		},
		{
			"unsupported extension",
			"a.md",
			"import nothing\n",
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractImports(tt.path, []byte(tt.src))
			if len(got) != len(tt.want) {
				t.Fatalf("ExtractImports() = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("ExtractImports()[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestRulesFromPlans(t *testing.T) {
	plans := []*models.Artifact{
		{
			Type:   models.TypeArchitecturePlan,
			Status: models.StatusApproved,
			Payload: map[string]interface{}{
				"layers": []interface{}{
					map[string]interface{}{
						"name":     "domain",
						"patterns": []interface{}{"businesslogic/"},
					},
				},
				"rules": []interface{}{"no_domain_to_infrastructure", "not_a_rule"},
			},
		},
		{
			// Draft plans carry no authority.
			Type:   models.TypeArchitecturePlan,
			Status: models.StatusDraft,
			Payload: map[string]interface{}{
				"rules": []interface{}{"no_domain_to_interface"},
			},
		},
		{
			// Other artifact types are ignored.
			Type:    models.TypeImplementationPlan,
			Status:  models.StatusApproved,
			Payload: map[string]interface{}{"rules": []interface{}{"no_application_to_interface"}},
		},
	}

	rs := RulesFromPlans(plans)
	if len(rs.Rules) != 1 || rs.Rules[0] != models.RuleNoDomainToInfrastructure {
		t.Errorf("RulesFromPlans() rules = %v, want only no_domain_to_infrastructure", rs.Rules)
	}

	// Declared layers win over defaults.
	if got := Classify("src/businesslogic/user.py", rs.Layers); got != "domain" {
		t.Errorf("declared layer pattern not consulted: Classify() = %q", got)
	}
	// Defaults still apply after declared layers.
	if got := Classify("src/adapters/db.py", rs.Layers); got != "infrastructure" {
		t.Errorf("default layers dropped: Classify() = %q", got)
	}
}

func TestCheck_FlagsForbiddenEdge(t *testing.T) {
	root := t.TempDir()
	src := "import os\nimport adapters.db\n"
	path := filepath.Join(root, "src", "domain")
	if err := os.MkdirAll(path, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(path, "user.py"), []byte(src), 0644); err != nil {
		t.Fatal(err)
	}

	rs := RuleSet{
		Layers: DefaultLayers,
		Rules:  []models.DependencyRule{models.RuleNoDomainToInfrastructure},
	}

	failures := Check(root, []string{"src/domain/user.py"}, rs)
	if len(failures) != 1 {
		t.Fatalf("Check() = %v, want exactly 1 failure", failures)
	}

	f := failures[0]
	if f.Code != models.CodeArchitectureViolation {
		t.Errorf("failure code = %q", f.Code)
	}
	if f.FilePath != "src/domain/user.py" {
		t.Errorf("failure path = %q", f.FilePath)
	}
	if f.LineNumber != 2 {
		t.Errorf("failure line = %d, want 2", f.LineNumber)
	}
	if f.Details["source_layer"] != "domain" || f.Details["import_layer"] != "infrastructure" {
		t.Errorf("failure details = %v", f.Details)
	}
}

func TestCheck_SkipsWhenNoRules(t *testing.T) {
	if got := Check(t.TempDir(), []string{"src/domain/user.py"}, RuleSet{Layers: DefaultLayers}); got != nil {
		t.Errorf("Check() with empty rule set = %v, want nil", got)
	}
}

func TestCheck_UnclassifiedAndMissingFilesSkipped(t *testing.T) {
	root := t.TempDir()
	rs := RuleSet{
		Layers: DefaultLayers,
		Rules:  []models.DependencyRule{models.RuleNoDomainToInfrastructure},
	}

	// Neither an unclassified path nor a deleted domain file produces failures.
	failures := Check(root, []string{"scripts/tool.py", "src/domain/gone.py"}, rs)
	if len(failures) != 0 {
		t.Errorf("Check() = %v, want none", failures)
	}
}

func TestCheck_SameLayerImportAllowed(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "src", "domain"), 0755); err != nil {
		t.Fatal(err)
	}
	src := "from core.entities import user\n"
	if err := os.WriteFile(filepath.Join(root, "src", "domain", "order.py"), []byte(src), 0644); err != nil {
		t.Fatal(err)
	}

	rs := RuleSet{
		Layers: DefaultLayers,
		Rules:  []models.DependencyRule{models.RuleNoDomainToInfrastructure},
	}
	if failures := Check(root, []string{"src/domain/order.py"}, rs); len(failures) != 0 {
		t.Errorf("Check() = %v, want none for same-layer import", failures)
	}
}
