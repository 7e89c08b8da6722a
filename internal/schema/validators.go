package schema

import (
	"fmt"

	"github.com/verityci/warden/pkg/models"
)

// knownRefactorKinds is the closed set of refactor operation kinds.
var knownRefactorKinds = map[string]bool{
	"move":   true,
	"rename": true,
	"delete": true,
}

// validateProjectPlan requires a non-empty objectives list.
func validateProjectPlan(payload map[string]interface{}) []Violation {
	objectives, ok := payload["objectives"].([]interface{})
	if !ok || len(objectives) == 0 {
		return []Violation{{FieldPath: "payload.objectives", Message: "must be a non-empty list"}}
	}

	var violations []Violation
	for i, obj := range objectives {
		if s, ok := obj.(string); !ok || s == "" {
			violations = append(violations, Violation{
				FieldPath: fmt.Sprintf("payload.objectives[%d]", i),
				Message:   "must be a non-empty string",
			})
		}
	}
	return violations
}

// validateArchitecturePlan checks declared layers and dependency rules.
// Both sections are optional, but what is declared must be well-formed.
func validateArchitecturePlan(payload map[string]interface{}) []Violation {
	var violations []Violation

	if raw, present := payload["layers"]; present {
		layers, ok := raw.([]interface{})
		if !ok {
			violations = append(violations, Violation{FieldPath: "payload.layers", Message: "must be a list"})
		} else {
			for i, item := range layers {
				layer, ok := item.(map[string]interface{})
				if !ok {
					violations = append(violations, Violation{
						FieldPath: fmt.Sprintf("payload.layers[%d]", i),
						Message:   "must be a mapping",
					})
					continue
				}
				if name, ok := layer["name"].(string); !ok || name == "" {
					violations = append(violations, Violation{
						FieldPath: fmt.Sprintf("payload.layers[%d].name", i),
						Message:   "must be a non-empty string",
					})
				}
				patterns, ok := layer["patterns"].([]interface{})
				if !ok || len(patterns) == 0 {
					violations = append(violations, Violation{
						FieldPath: fmt.Sprintf("payload.layers[%d].patterns", i),
						Message:   "must be a non-empty list",
					})
				}
			}
		}
	}

	if raw, present := payload["rules"]; present {
		rules, ok := raw.([]interface{})
		if !ok {
			violations = append(violations, Violation{FieldPath: "payload.rules", Message: "must be a list"})
		} else {
			for i, item := range rules {
				s, ok := item.(string)
				if !ok || !models.DependencyRule(s).Valid() {
					violations = append(violations, Violation{
						FieldPath: fmt.Sprintf("payload.rules[%d]", i),
						Message:   fmt.Sprintf("unknown dependency rule %v", item),
					})
				}
			}
		}
	}

	return violations
}

// validateTestPlan requires named cases.
func validateTestPlan(payload map[string]interface{}) []Violation {
	cases, ok := payload["cases"].([]interface{})
	if !ok || len(cases) == 0 {
		return []Violation{{FieldPath: "payload.cases", Message: "must be a non-empty list"}}
	}

	var violations []Violation
	for i, item := range cases {
		c, ok := item.(map[string]interface{})
		if !ok {
			violations = append(violations, Violation{
				FieldPath: fmt.Sprintf("payload.cases[%d]", i),
				Message:   "must be a mapping",
			})
			continue
		}
		if name, ok := c["name"].(string); !ok || name == "" {
			violations = append(violations, Violation{
				FieldPath: fmt.Sprintf("payload.cases[%d].name", i),
				Message:   "must be a non-empty string",
			})
		}
	}
	return violations
}

// validateImplementationPlan requires targets with paths.
func validateImplementationPlan(payload map[string]interface{}) []Violation {
	targets, ok := payload["targets"].([]interface{})
	if !ok || len(targets) == 0 {
		return []Violation{{FieldPath: "payload.targets", Message: "must be a non-empty list"}}
	}

	var violations []Violation
	for i, item := range targets {
		target, ok := item.(map[string]interface{})
		if !ok {
			violations = append(violations, Violation{
				FieldPath: fmt.Sprintf("payload.targets[%d]", i),
				Message:   "must be a mapping",
			})
			continue
		}
		if path, ok := target["path"].(string); !ok || path == "" {
			violations = append(violations, Violation{
				FieldPath: fmt.Sprintf("payload.targets[%d].path", i),
				Message:   "must be a non-empty string",
			})
		}
	}
	return violations
}

// validateRefactorPlan requires well-formed operations; move and rename
// need both endpoints, delete needs a path.
func validateRefactorPlan(payload map[string]interface{}) []Violation {
	ops, ok := payload["operations"].([]interface{})
	if !ok || len(ops) == 0 {
		return []Violation{{FieldPath: "payload.operations", Message: "must be a non-empty list"}}
	}

	var violations []Violation
	for i, item := range ops {
		op, ok := item.(map[string]interface{})
		if !ok {
			violations = append(violations, Violation{
				FieldPath: fmt.Sprintf("payload.operations[%d]", i),
				Message:   "must be a mapping",
			})
			continue
		}

		kind, _ := op["kind"].(string)
		if !knownRefactorKinds[kind] {
			violations = append(violations, Violation{
				FieldPath: fmt.Sprintf("payload.operations[%d].kind", i),
				Message:   fmt.Sprintf("unknown operation kind %q", kind),
			})
			continue
		}

		switch kind {
		case "move", "rename":
			if from, ok := op["from"].(string); !ok || from == "" {
				violations = append(violations, Violation{
					FieldPath: fmt.Sprintf("payload.operations[%d].from", i),
					Message:   "must be a non-empty string",
				})
			}
			if to, ok := op["to"].(string); !ok || to == "" {
				violations = append(violations, Violation{
					FieldPath: fmt.Sprintf("payload.operations[%d].to", i),
					Message:   "must be a non-empty string",
				})
			}
		case "delete":
			if path, ok := op["path"].(string); !ok || path == "" {
				violations = append(violations, Violation{
					FieldPath: fmt.Sprintf("payload.operations[%d].path", i),
					Message:   "must be a non-empty string",
				})
			}
		}
	}
	return violations
}
