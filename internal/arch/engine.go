package arch

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/verityci/warden/pkg/models"
)

// Check inspects each changed source file for imports that cross a
// forbidden layer edge. It is a pure function of the changed-file set and
// the rule set: files that no longer exist, files in no layer, and imports
// in no layer are all skipped.
func Check(repoRoot string, changedFiles []string, rs RuleSet) []models.Failure {
	if rs.Empty() {
		return nil
	}

	var failures []models.Failure
	for _, file := range changedFiles {
		if !IsSourceFile(file) {
			continue
		}
		sourceLayer := Classify(file, rs.Layers)
		if sourceLayer == "" {
			continue
		}

		src, err := os.ReadFile(filepath.Join(repoRoot, file))
		if err != nil {
			// Deleted or unreadable files have no imports to inspect.
			continue
		}

		for _, imp := range ExtractImports(file, src) {
			importLayer := ClassifyImport(imp.Module, rs.Layers)
			if importLayer == "" || importLayer == sourceLayer {
				continue
			}
			rule, forbidden := rs.Forbids(sourceLayer, importLayer)
			if !forbidden {
				continue
			}
			failures = append(failures, models.Failure{
				Code: models.CodeArchitectureViolation,
				Message: fmt.Sprintf("%s layer file imports %s layer module %q (rule %s)",
					sourceLayer, importLayer, imp.Module, rule),
				FilePath:   file,
				LineNumber: imp.Line,
				Details: map[string]string{
					"source_layer": sourceLayer,
					"import_layer": importLayer,
					"rule":         string(rule),
				},
			})
		}
	}

	return failures
}
