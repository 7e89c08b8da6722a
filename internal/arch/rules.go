package arch

import (
	"github.com/verityci/warden/pkg/models"
)

// RuleSet is the layer vocabulary and forbidden edges loaded from
// architecture plans.
type RuleSet struct {
	// Layers is the ordered layer vocabulary used for classification.
	Layers []Layer
	// Rules are the dependency rules in force.
	Rules []models.DependencyRule
}

// Empty returns true if no rules are in force.
func (rs RuleSet) Empty() bool {
	return len(rs.Rules) == 0
}

// Forbids returns the rule forbidding the given edge, if any.
func (rs RuleSet) Forbids(sourceLayer, importLayer string) (models.DependencyRule, bool) {
	for _, rule := range rs.Rules {
		from, to := rule.ForbiddenEdge()
		if from == sourceLayer && to == importLayer {
			return rule, true
		}
	}
	return "", false
}

// RulesFromPlans builds the rule set declared by APPROVED or LOCKED
// architecture plans. Draft plans carry no authority. Declared layers are
// consulted before the built-in defaults; unknown rule names are dropped
// (the schema stage reports them separately).
func RulesFromPlans(artifacts []*models.Artifact) RuleSet {
	rs := RuleSet{}

	var declared []Layer
	for _, a := range artifacts {
		if a.Type != models.TypeArchitecturePlan || !a.Status.RequiresApproval() {
			continue
		}
		declared = append(declared, payloadLayers(a.Payload)...)
		rs.Rules = append(rs.Rules, payloadRules(a.Payload)...)
	}

	rs.Layers = append(declared, DefaultLayers...)
	return rs
}

// payloadLayers extracts declared layers from an architecture plan payload.
func payloadLayers(payload map[string]interface{}) []Layer {
	raw, ok := payload["layers"].([]interface{})
	if !ok {
		return nil
	}

	var layers []Layer
	for _, item := range raw {
		entry, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		name, _ := entry["name"].(string)
		if name == "" {
			continue
		}
		layer := Layer{Name: name}
		if patterns, ok := entry["patterns"].([]interface{}); ok {
			for _, p := range patterns {
				if s, ok := p.(string); ok && s != "" {
					layer.Patterns = append(layer.Patterns, s)
				}
			}
		}
		if len(layer.Patterns) > 0 {
			layers = append(layers, layer)
		}
	}
	return layers
}

// payloadRules extracts known dependency rules from a plan payload.
func payloadRules(payload map[string]interface{}) []models.DependencyRule {
	raw, ok := payload["rules"].([]interface{})
	if !ok {
		return nil
	}

	var rules []models.DependencyRule
	for _, item := range raw {
		s, ok := item.(string)
		if !ok {
			continue
		}
		rule := models.DependencyRule(s)
		if rule.Valid() {
			rules = append(rules, rule)
		}
	}
	return rules
}
