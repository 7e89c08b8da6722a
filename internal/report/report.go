// Package report renders a PipelineResult as a human-readable report or a
// JSON document.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/verityci/warden/pkg/models"
)

// Status glyphs, one per stage outcome.
const (
	glyphPass = "✓"
	glyphFail = "✗"
	glyphSkip = "⊘"
)

// WriteHuman renders the run as a colored, human-readable report: one
// status line per stage, indented failures with code, message, path and
// remediation, then a summary block.
func WriteHuman(w io.Writer, result *models.PipelineResult) {
	for _, sr := range result.StageResults {
		writeStage(w, sr)
	}

	fmt.Fprintln(w)
	if result.Passed {
		fmt.Fprintf(w, "%s verification passed\n", color.GreenString(glyphPass))
	} else {
		fmt.Fprintf(w, "%s verification failed: %d failure(s)\n",
			color.RedString(glyphFail), result.FailureCount())
	}
	fmt.Fprintf(w, "  stages: %d passed, %d failed, %d skipped\n",
		result.StagesPassed(), result.StagesFailed(), result.StagesSkipped())
	fmt.Fprintf(w, "  total: %dms\n", result.TotalDurationMs)
}

func writeStage(w io.Writer, sr models.StageResult) {
	switch {
	case sr.Skipped:
		fmt.Fprintf(w, "%s %s (%s)\n", color.YellowString(glyphSkip), sr.Stage, sr.SkipReason)
	case sr.Passed:
		fmt.Fprintf(w, "%s %s (%dms)\n", color.GreenString(glyphPass), sr.Stage, sr.DurationMs)
	default:
		fmt.Fprintf(w, "%s %s (%dms)\n", color.RedString(glyphFail), sr.Stage, sr.DurationMs)
	}

	for _, f := range sr.Failures {
		fmt.Fprintf(w, "    [%s] %s\n", color.RedString(string(f.Code)), f.Message)
		if loc := location(f); loc != "" {
			fmt.Fprintf(w, "      at %s\n", loc)
		}
		fmt.Fprintf(w, "      remediation: %s\n", f.Code.Remediation())
	}
}

// location renders the file position of a failure, if it has one.
func location(f models.Failure) string {
	if f.FilePath == "" {
		return ""
	}
	if f.LineNumber > 0 {
		return fmt.Sprintf("%s:%d", f.FilePath, f.LineNumber)
	}
	return f.FilePath
}

// MarshalJSON renders the run as an indented JSON document with the
// derived summary folded in.
func MarshalJSON(result *models.PipelineResult) ([]byte, error) {
	doc := struct {
		*models.PipelineResult
		Summary summary `json:"summary"`
	}{
		PipelineResult: result,
		Summary: summary{
			FailureCount:  result.FailureCount(),
			StagesPassed:  result.StagesPassed(),
			StagesFailed:  result.StagesFailed(),
			StagesSkipped: result.StagesSkipped(),
		},
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal pipeline result: %w", err)
	}
	return data, nil
}

// summary is the derived counts block in the JSON document.
type summary struct {
	FailureCount  int `json:"failure_count"`
	StagesPassed  int `json:"stages_passed"`
	StagesFailed  int `json:"stages_failed"`
	StagesSkipped int `json:"stages_skipped"`
}

// Oneline renders a compact single-line verdict, used by the watcher.
func Oneline(result *models.PipelineResult) string {
	var b strings.Builder
	if result.Passed {
		b.WriteString(glyphPass + " pass")
	} else {
		fmt.Fprintf(&b, "%s fail (%d failure(s))", glyphFail, result.FailureCount())
	}
	fmt.Fprintf(&b, " in %dms", result.TotalDurationMs)
	return b.String()
}
