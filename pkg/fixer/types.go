// Package fixer detects SRT timestamp lines and rewrites them into the
// canonical "HH:MM:SS,mmm --> HH:MM:SS,mmm" form.
package fixer

import (
	"time"

	"github.com/ccollicutt/srtfix/pkg/timestamp"
)

// Tag names one kind of problem found on a timestamp line.
type Tag string

const (
	// TagMissingHoursLeft indicates the start token had no hour field.
	TagMissingHoursLeft Tag = "missing_hours_left"

	// TagMissingHoursRight indicates the end token had no hour field.
	TagMissingHoursRight Tag = "missing_hours_right"

	// TagMissingArrow indicates the two tokens were separated by whitespace only.
	TagMissingArrow Tag = "missing_arrow"

	// TagMalformedArrow indicates a separator other than exactly " --> ".
	TagMalformedArrow Tag = "malformed_arrow"

	// TagDigitPadding indicates at least one field was narrower than canonical.
	TagDigitPadding Tag = "digit_padding"

	// TagUnparseable indicates a timestamp line that could not be repaired.
	TagUnparseable Tag = "unparseable"
)

// AllTags lists every tag in reporting order.
var AllTags = []Tag{
	TagMissingHoursLeft,
	TagMissingHoursRight,
	TagMissingArrow,
	TagMalformedArrow,
	TagDigitPadding,
	TagUnparseable,
}

// Line is a classified and parsed timestamp line.
type Line struct {
	// Raw is the line text without its terminator.
	Raw string

	// Left and Right are the start and end tokens.
	Left  timestamp.Token
	Right timestamp.Token

	// HasArrow is false when the tokens were separated by whitespace only.
	HasArrow bool

	// Separator is the text between the two tokens, whitespace included.
	Separator string

	// Settings is any cue settings text following the end token.
	Settings string
}

// Issue describes one timestamp line that was, or could not be, repaired.
type Issue struct {
	Line     int    `json:"line"`
	Original string `json:"original"`
	Fixed    string `json:"fixed"`
	Tags     []Tag  `json:"tags"`

	// Error is set when the line was left unchanged because it could not be parsed.
	Error string `json:"error,omitempty"`
}

// IsError returns true if the line could not be repaired.
func (i *Issue) IsError() bool {
	return i.Error != ""
}

// HasTag returns true if the issue carries the given tag.
func (i *Issue) HasTag(tag Tag) bool {
	for _, t := range i.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Result is the output of one pass over a file.
type Result struct {
	// Lines holds the output text of every line, in order.
	Lines []string

	// Issues lists repaired and unrepairable timestamp lines in line order.
	Issues []Issue

	// Metadata provides context about the pass.
	Metadata Metadata
}

// Metadata provides context about a pass.
type Metadata struct {
	// Source names the input, usually a file path.
	Source string

	// TotalLines is the number of lines examined.
	TotalLines int

	// TimestampLines is the number of lines classified as timestamp lines.
	TimestampLines int

	// DryRun is true if Lines was left identical to the input.
	DryRun bool

	StartTime time.Time
	EndTime   time.Time
}

// FixedLines returns the number of lines that were rewritten
// (or would be, in a dry run).
func (r *Result) FixedLines() int {
	n := 0
	for i := range r.Issues {
		if !r.Issues[i].IsError() {
			n++
		}
	}
	return n
}

// UnparseableLines returns the number of timestamp lines left unchanged
// because they could not be parsed.
func (r *Result) UnparseableLines() int {
	return len(r.Issues) - r.FixedLines()
}

// TagCounts returns how many issues carry each tag.
func (r *Result) TagCounts() map[Tag]int {
	counts := make(map[Tag]int)
	for _, issue := range r.Issues {
		for _, tag := range issue.Tags {
			counts[tag]++
		}
	}
	return counts
}
