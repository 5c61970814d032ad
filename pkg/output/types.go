// Package output provides formatting for fix and check reports.
package output

import (
	"time"

	"github.com/ccollicutt/srtfix/pkg/fixer"
)

// Report is the complete output for one input file.
type Report struct {
	// Summary provides aggregate counts.
	Summary Summary `json:"summary"`

	// Issues lists every timestamp line that was or could not be repaired.
	Issues []fixer.Issue `json:"issues"`

	// Metadata provides context about the run.
	Metadata Metadata `json:"metadata"`
}

// Summary provides aggregate counts.
type Summary struct {
	TotalLines     int `json:"total_lines"`
	TimestampLines int `json:"timestamp_lines"`

	// IssuesCount is FixedLines plus UnparseableLines.
	IssuesCount      int `json:"issues_count"`
	FixedLines       int `json:"fixed_lines"`
	UnparseableLines int `json:"unparseable_lines"`

	// Tags counts issues per tag.
	Tags map[fixer.Tag]int `json:"tags"`
}

// Metadata provides context about the run.
type Metadata struct {
	// Input is the file that was read.
	Input string `json:"input"`

	// Output is where the corrected file was written, if anywhere.
	Output string `json:"output,omitempty"`

	// Backup is the copy of the original input, if one was made.
	Backup string `json:"backup,omitempty"`

	// DryRun is true if nothing was written.
	DryRun bool `json:"dry_run"`

	ProcessedAt time.Time     `json:"processed_at"`
	Duration    time.Duration `json:"duration"`
}

// NewReport creates a Report from a fixer result. Output and Backup are
// left for the caller to fill in once files are written.
func NewReport(result *fixer.Result) *Report {
	issues := result.Issues
	if issues == nil {
		issues = []fixer.Issue{}
	}

	return &Report{
		Issues: issues,
		Summary: Summary{
			TotalLines:       result.Metadata.TotalLines,
			TimestampLines:   result.Metadata.TimestampLines,
			IssuesCount:      len(result.Issues),
			FixedLines:       result.FixedLines(),
			UnparseableLines: result.UnparseableLines(),
			Tags:             result.TagCounts(),
		},
		Metadata: Metadata{
			Input:       result.Metadata.Source,
			DryRun:      result.Metadata.DryRun,
			ProcessedAt: result.Metadata.EndTime,
			Duration:    result.Metadata.EndTime.Sub(result.Metadata.StartTime),
		},
	}
}

// HasIssues returns true if any timestamp line needed attention.
func (r *Report) HasIssues() bool {
	return r.Summary.IssuesCount > 0
}

// HasErrors returns true if any timestamp line could not be repaired.
func (r *Report) HasErrors() bool {
	return r.Summary.UnparseableLines > 0
}

// Preview returns at most limit issues. A limit of zero or less returns all.
func (r *Report) Preview(limit int) []fixer.Issue {
	if limit <= 0 || limit >= len(r.Issues) {
		return r.Issues
	}
	return r.Issues[:limit]
}
