// Package detector surveys which timestamp layouts and separators occur in
// a subtitle file.
package detector

import (
	"context"
	"sort"

	"github.com/ccollicutt/srtfix/pkg/fixer"
	"github.com/ccollicutt/srtfix/pkg/srtfile"
	"github.com/ccollicutt/srtfix/pkg/timestamp"
)

// DefaultSampleSize is the number of timestamp lines examined by default.
const DefaultSampleSize = 500

// CanonicalLayout is the layout of a canonical timestamp line.
const CanonicalLayout = timestamp.CanonicalLayout + " " + fixer.Arrow + " " + timestamp.CanonicalLayout

// DetectionResult holds the result of surveying a file.
type DetectionResult struct {
	Matches    []LayoutMatch    `json:"layouts"`    // Layouts seen, most frequent first
	Separators []SeparatorCount `json:"separators"` // Separators seen, most frequent first

	SampledLines   int `json:"sampled_lines"`   // Lines examined
	TimestampLines int `json:"timestamp_lines"` // Lines classified as timestamp lines
	Unparseable    int `json:"unparseable"`     // Timestamp lines whose tokens did not parse
	Canonical      int `json:"canonical"`       // Timestamp lines needing no change
}

// LayoutMatch counts timestamp lines sharing one token layout.
type LayoutMatch struct {
	Layout     string  `json:"layout"`      // e.g. "MM:SS,mmm --> MM:SS,mmm"
	Share      float64 `json:"share"`       // 0.0 to 1.0 of parsed timestamp lines
	Count      int     `json:"count"`       // Number of lines with this layout
	SampleLine string  `json:"sample_line"` // First line with this layout
	LineNum    int     `json:"line_num"`    // 1-based number of SampleLine
}

// SeparatorCount counts one separator variant between the two tokens.
type SeparatorCount struct {
	Separator string `json:"separator"`
	Count     int    `json:"count"`
}

// Detector surveys timestamp lines.
type Detector struct {
	sampleSize int
}

// Option configures the Detector.
type Option func(*Detector)

// WithSampleSize sets the number of timestamp lines to examine.
func WithSampleSize(n int) Option {
	return func(d *Detector) {
		if n > 0 {
			d.sampleSize = n
		}
	}
}

// New creates a new Detector.
func New(opts ...Option) *Detector {
	d := &Detector{
		sampleSize: DefaultSampleSize,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DetectFromFile reads a subtitle file and surveys its timestamp lines.
func (d *Detector) DetectFromFile(ctx context.Context, path string) (*DetectionResult, error) {
	doc, err := srtfile.Read(path)
	if err != nil {
		return nil, err
	}
	return d.DetectFromLines(ctx, doc.Texts())
}

// DetectFromLines surveys lines until sampleSize timestamp lines were seen.
func (d *Detector) DetectFromLines(ctx context.Context, lines []string) (*DetectionResult, error) {
	result := &DetectionResult{}

	layouts := make(map[string]*LayoutMatch)
	separators := make(map[string]int)
	parsed := 0

	for i, text := range lines {
		if result.TimestampLines >= d.sampleSize {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result.SampledLines++

		line, ok, err := fixer.Inspect(text)
		if !ok {
			continue
		}
		result.TimestampLines++
		separators[line.Separator]++

		if err != nil {
			result.Unparseable++
			continue
		}
		parsed++

		if len(line.Tags()) == 0 {
			result.Canonical++
		}

		layout := line.Left.Layout() + " " + fixer.Arrow + " " + line.Right.Layout()
		m := layouts[layout]
		if m == nil {
			m = &LayoutMatch{Layout: layout, SampleLine: text, LineNum: i + 1}
			layouts[layout] = m
		}
		m.Count++
	}

	for _, m := range layouts {
		m.Share = float64(m.Count) / float64(parsed)
		result.Matches = append(result.Matches, *m)
	}
	sort.Slice(result.Matches, func(i, j int) bool {
		a, b := result.Matches[i], result.Matches[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.LineNum < b.LineNum
	})

	for sep, n := range separators {
		result.Separators = append(result.Separators, SeparatorCount{Separator: sep, Count: n})
	}
	sort.Slice(result.Separators, func(i, j int) bool {
		a, b := result.Separators[i], result.Separators[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Separator < b.Separator
	})

	return result, nil
}

// BestMatch returns the most frequent layout, or nil if none was found.
func (r *DetectionResult) BestMatch() *LayoutMatch {
	if len(r.Matches) == 0 {
		return nil
	}
	return &r.Matches[0]
}

// HasMatch returns true if at least one timestamp line parsed.
func (r *DetectionResult) HasMatch() bool {
	return len(r.Matches) > 0
}

// NeedsFix returns true if any surveyed timestamp line is not canonical.
func (r *DetectionResult) NeedsFix() bool {
	return r.Canonical < r.TimestampLines
}
