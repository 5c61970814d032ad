package output

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ccollicutt/srtfix/pkg/fixer"
)

// TextFormatter formats reports as human-readable text. Colors are used
// only when the writer is a terminal.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

type textStyles struct {
	title   lipgloss.Style
	removed lipgloss.Style
	added   lipgloss.Style
	failed  lipgloss.Style
	muted   lipgloss.Style
}

func newTextStyles(w io.Writer) textStyles {
	r := lipgloss.NewRenderer(w)
	return textStyles{
		title:   r.NewStyle().Bold(true),
		removed: r.NewStyle().Foreground(lipgloss.Color("203")),
		added:   r.NewStyle().Foreground(lipgloss.Color("78")),
		failed:  r.NewStyle().Foreground(lipgloss.Color("214")),
		muted:   r.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatQuiet(report, w)
	}
	return f.formatFull(report, w, newTextStyles(w))
}

func (f *TextFormatter) formatQuiet(report *Report, w io.Writer) error {
	_, err := fmt.Fprintf(w, "srtfix: %s: %d timestamp lines, %d %s, %d unparseable\n",
		report.Metadata.Input,
		report.Summary.TimestampLines,
		report.Summary.FixedLines,
		fixedWord(report),
		report.Summary.UnparseableLines)
	return err
}

func (f *TextFormatter) formatFull(report *Report, w io.Writer, st textStyles) error {
	header := fmt.Sprintf("=== srtfix: %s ===", report.Metadata.Input)
	if report.Metadata.DryRun {
		header += " (dry run)"
	}
	fmt.Fprintln(w, st.title.Render(header))
	fmt.Fprintln(w)

	if !report.HasIssues() {
		fmt.Fprintln(w, "  All timestamp lines are canonical")
		fmt.Fprintln(w)
	}

	shown := report.Preview(f.opts.Limit)
	for i := range shown {
		f.formatIssue(&shown[i], w, st)
	}
	if hidden := len(report.Issues) - len(shown); hidden > 0 {
		fmt.Fprintln(w, st.muted.Render(fmt.Sprintf("  ... and %d more", hidden)))
	}
	if len(shown) > 0 {
		fmt.Fprintln(w)
	}

	// Summary
	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %d timestamp lines, %d %s, %d unparseable\n",
		report.Summary.TimestampLines,
		report.Summary.FixedLines,
		fixedWord(report),
		report.Summary.UnparseableLines)

	if report.Metadata.Output != "" {
		fmt.Fprintf(w, "Output: %s\n", report.Metadata.Output)
	}
	if report.Metadata.Backup != "" {
		fmt.Fprintf(w, "Backup: %s\n", report.Metadata.Backup)
	}

	if f.opts.Verbose {
		for _, tag := range fixer.AllTags {
			if n := report.Summary.Tags[tag]; n > 0 {
				fmt.Fprintf(w, "  %s: %d\n", tag, n)
			}
		}
		fmt.Fprintf(w, "Lines processed: %d\n", report.Summary.TotalLines)
		fmt.Fprintf(w, "Duration: %s\n", report.Metadata.Duration.Round(1e6))
	}

	return nil
}

func (f *TextFormatter) formatIssue(issue *fixer.Issue, w io.Writer, st textStyles) {
	tags := make([]string, len(issue.Tags))
	for i, tag := range issue.Tags {
		tags[i] = string(tag)
	}
	fmt.Fprintf(w, "Line %d [%s]\n", issue.Line, strings.Join(tags, ", "))

	if issue.IsError() {
		fmt.Fprintln(w, st.failed.Render("  ! "+issue.Original))
		if f.opts.Verbose {
			fmt.Fprintln(w, st.muted.Render("    "+issue.Error))
		}
		return
	}

	fmt.Fprintln(w, st.removed.Render("  - "+issue.Original))
	fmt.Fprintln(w, st.added.Render("  + "+issue.Fixed))
}

func fixedWord(report *Report) string {
	if report.Metadata.DryRun {
		return "to fix"
	}
	return "fixed"
}
