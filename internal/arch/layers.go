// Package arch is the architecture rule engine: a pure function over
// changed files and plan-declared dependency rules. It classifies source
// paths and import targets into named layers and flags forbidden edges.
package arch

import "strings"

// Layer is a named partition of the source tree, defined by ordered
// path-substring patterns.
type Layer struct {
	// Name is the layer name referenced by dependency rules.
	Name string
	// Patterns are ordered path substrings; a path belongs to the layer
	// if any pattern occurs in it.
	Patterns []string
}

// DefaultLayers is the built-in layer set used when no architecture plan
// declares its own. Order matters: the first matching layer wins.
var DefaultLayers = []Layer{
	{Name: "domain", Patterns: []string{"domain/", "core/", "entities/", "model/"}},
	{Name: "application", Patterns: []string{"application/", "usecases/", "services/"}},
	{Name: "infrastructure", Patterns: []string{"infrastructure/", "infra/", "adapters/", "db/", "repositories/", "persistence/"}},
	{Name: "interface", Patterns: []string{"interface/", "api/", "cli/", "handlers/", "web/"}},
}

// Classify maps a path to the first matching layer name, or "" if the path
// is unclassified.
func Classify(path string, layers []Layer) string {
	normalized := normalizePath(path)
	for _, layer := range layers {
		for _, pattern := range layer.Patterns {
			if strings.Contains(normalized, pattern) {
				return layer.Name
			}
		}
	}
	return ""
}

// ClassifyImport maps an import target to a layer. Module separators
// (".", "::") are normalized to path separators first, so "adapters.db"
// classifies like "adapters/db".
func ClassifyImport(module string, layers []Layer) string {
	return Classify(normalizeImport(module), layers)
}

// normalizePath converts separators to forward slashes and appends a
// trailing slash so directory patterns match path tails.
func normalizePath(path string) string {
	p := strings.ReplaceAll(path, "\\", "/")
	if !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return p
}

// normalizeImport rewrites module separators as path separators.
func normalizeImport(module string) string {
	m := strings.ReplaceAll(module, "::", "/")
	m = strings.ReplaceAll(m, ".", "/")
	return m
}
