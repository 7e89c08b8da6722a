// Package audit implements the audit verification stage: execution-log
// well-formedness, referenced-diff existence, hash-chain integrity, and
// optional orphaned-change detection.
package audit

import (
	"strings"
	"time"
)

// Layout of the audit trail relative to the repo root.
const (
	// DefaultAuditDir is the audit trail directory.
	DefaultAuditDir = "audit"
	// LogFileName is the append-only execution log inside the audit dir.
	LogFileName = "executions.log"
	// ChecksumFileName is the optional digest ledger inside the audit dir.
	ChecksumFileName = "checksums.sha256"
)

// Entry is one parsed execution-log record.
type Entry struct {
	// Timestamp is when the execution was recorded.
	Timestamp time.Time
	// Executor identifies who or what performed the change.
	Executor string
	// Target is the artifact id or path the execution acted on.
	Target string
	// Status is the recorded outcome.
	Status string
	// DiffRef is a diff file path relative to the audit dir, if any.
	DiffRef string
}

// ParseLog parses the pipe-delimited execution log. Blank lines are
// ignored. Lines missing a parseable timestamp or an executor are counted
// as malformed, never returned.
func ParseLog(data []byte) (entries []Entry, malformed int) {
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		entry, ok := parseLine(line)
		if !ok {
			malformed++
			continue
		}
		entries = append(entries, entry)
	}
	return entries, malformed
}

// parseLine parses `timestamp | executor | target | status | diff-ref`.
// Only the first two fields are mandatory.
func parseLine(line string) (Entry, bool) {
	fields := strings.Split(line, "|")
	if len(fields) < 2 {
		return Entry{}, false
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	ts, err := time.Parse(time.RFC3339, fields[0])
	if err != nil {
		return Entry{}, false
	}
	if fields[1] == "" {
		return Entry{}, false
	}

	entry := Entry{Timestamp: ts, Executor: fields[1]}
	if len(fields) > 2 {
		entry.Target = fields[2]
	}
	if len(fields) > 3 {
		entry.Status = fields[3]
	}
	if len(fields) > 4 {
		entry.DiffRef = fields[4]
	}
	return entry, true
}
