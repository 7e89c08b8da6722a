// Package approval implements the approval verification stage: every
// non-draft artifact must have a record in the approval ledger.
package approval

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/verityci/warden/internal/artifact"
	"github.com/verityci/warden/pkg/models"
)

// LedgerFileName is the fixed ledger file inside the store metadata subtree.
const LedgerFileName = "approvals.yaml"

// ledgerDocument is the on-disk shape of the approval ledger.
type ledgerDocument struct {
	Approvals []models.ApprovalRecord `yaml:"approvals"`
}

// Ledger is the set of approved artifact ids.
type Ledger struct {
	records map[string][]models.ApprovalRecord
}

// Approved returns true if the artifact id has at least one approval record.
func (l *Ledger) Approved(artifactID string) bool {
	return len(l.records[artifactID]) > 0
}

// Len returns the number of distinct approved artifact ids.
func (l *Ledger) Len() int {
	return len(l.records)
}

// LedgerPath returns the ledger location for a given store root.
func LedgerPath(storeRoot string) string {
	return filepath.Join(storeRoot, artifact.MetadataDir, LedgerFileName)
}

// LoadLedger reads the approval ledger. A missing ledger yields an empty
// set and no error; a malformed ledger yields an empty set and the parse
// error so the caller can report it once and continue.
func LoadLedger(storeRoot string) (*Ledger, error) {
	empty := &Ledger{records: map[string][]models.ApprovalRecord{}}

	data, err := os.ReadFile(LedgerPath(storeRoot))
	if err != nil {
		if os.IsNotExist(err) {
			return empty, nil
		}
		return empty, fmt.Errorf("read approval ledger: %w", err)
	}

	var doc ledgerDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return empty, fmt.Errorf("unmarshal approval ledger: %w", err)
	}

	records := make(map[string][]models.ApprovalRecord, len(doc.Approvals))
	for _, rec := range doc.Approvals {
		if rec.ArtifactID == "" {
			continue
		}
		records[rec.ArtifactID] = append(records[rec.ArtifactID], rec)
	}
	return &Ledger{records: records}, nil
}
