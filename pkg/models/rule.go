package models

// DependencyRule is one directional layer constraint declared by an
// architecture plan. The set is fixed; plans pick from it by name.
type DependencyRule string

const (
	// RuleNoDomainToInfrastructure forbids domain code from importing
	// infrastructure code.
	RuleNoDomainToInfrastructure DependencyRule = "no_domain_to_infrastructure"
	// RuleNoDomainToInterface forbids domain code from importing
	// interface-layer code.
	RuleNoDomainToInterface DependencyRule = "no_domain_to_interface"
	// RuleNoApplicationToInterface forbids application code from importing
	// interface-layer code.
	RuleNoApplicationToInterface DependencyRule = "no_application_to_interface"
	// RuleNoInfrastructureToInterface forbids infrastructure code from
	// importing interface-layer code.
	RuleNoInfrastructureToInterface DependencyRule = "no_infrastructure_to_interface"
)

// AllDependencyRules lists every known dependency rule.
var AllDependencyRules = []DependencyRule{
	RuleNoDomainToInfrastructure,
	RuleNoDomainToInterface,
	RuleNoApplicationToInterface,
	RuleNoInfrastructureToInterface,
}

// ruleEdges maps each rule to the directed layer edge it forbids.
var ruleEdges = map[DependencyRule][2]string{
	RuleNoDomainToInfrastructure:    {"domain", "infrastructure"},
	RuleNoDomainToInterface:         {"domain", "interface"},
	RuleNoApplicationToInterface:    {"application", "interface"},
	RuleNoInfrastructureToInterface: {"infrastructure", "interface"},
}

// Valid returns true if the rule is a known value.
func (r DependencyRule) Valid() bool {
	_, ok := ruleEdges[r]
	return ok
}

// ForbiddenEdge returns the (source layer, import layer) edge this rule
// forbids. Unknown rules return empty layer names.
func (r DependencyRule) ForbiddenEdge() (from, to string) {
	edge, ok := ruleEdges[r]
	if !ok {
		return "", ""
	}
	return edge[0], edge[1]
}
