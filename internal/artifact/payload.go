package artifact

import "github.com/verityci/warden/pkg/models"

// RefactorOp is one structural operation declared by a refactor plan.
type RefactorOp struct {
	// Kind is the operation kind: move, rename or delete.
	Kind string
	// From is the source path for move/rename operations.
	From string
	// To is the destination path for move/rename operations.
	To string
	// Path is the target path for delete operations.
	Path string
}

// PlanTargets extracts the target paths declared by an implementation plan
// payload. Entries without a path are ignored.
func PlanTargets(a *models.Artifact) []string {
	raw, ok := a.Payload["targets"].([]interface{})
	if !ok {
		return nil
	}

	var targets []string
	for _, item := range raw {
		entry, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		if path, ok := entry["path"].(string); ok && path != "" {
			targets = append(targets, path)
		}
	}
	return targets
}

// RefactorOps extracts the operations declared by a refactor plan payload.
func RefactorOps(a *models.Artifact) []RefactorOp {
	raw, ok := a.Payload["operations"].([]interface{})
	if !ok {
		return nil
	}

	var ops []RefactorOp
	for _, item := range raw {
		entry, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		op := RefactorOp{}
		if v, ok := entry["kind"].(string); ok {
			op.Kind = v
		}
		if v, ok := entry["from"].(string); ok {
			op.From = v
		}
		if v, ok := entry["to"].(string); ok {
			op.To = v
		}
		if v, ok := entry["path"].(string); ok {
			op.Path = v
		}
		ops = append(ops, op)
	}
	return ops
}

// PayloadPaths returns every file path a payload accounts for: plan targets
// plus all paths named by refactor operations.
func PayloadPaths(a *models.Artifact) []string {
	var paths []string
	paths = append(paths, PlanTargets(a)...)
	for _, op := range RefactorOps(a) {
		if op.From != "" {
			paths = append(paths, op.From)
		}
		if op.To != "" {
			paths = append(paths, op.To)
		}
		if op.Path != "" {
			paths = append(paths, op.Path)
		}
	}
	return paths
}
