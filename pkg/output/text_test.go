package output

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/ccollicutt/srtfix/pkg/fixer"
)

func TestNewTextFormatter(t *testing.T) {
	f := NewTextFormatter(FormatOptions{})
	if f == nil {
		t.Fatal("NewTextFormatter() returned nil")
	}
	if f.Name() != "text" {
		t.Errorf("Name() = %q, want %q", f.Name(), "text")
	}
}

func TestTextFormatter_Format_Clean(t *testing.T) {
	f := NewTextFormatter(FormatOptions{})
	report := NewReport(&fixer.Result{Metadata: fixer.Metadata{Source: "clean.srt", TimestampLines: 4}})

	var buf bytes.Buffer
	if err := f.Format(context.Background(), report, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "=== srtfix: clean.srt ===") {
		t.Error("Output missing header")
	}
	if !strings.Contains(output, "All timestamp lines are canonical") {
		t.Error("Output missing clean message")
	}
	if !strings.Contains(output, "4 timestamp lines, 0 fixed, 0 unparseable") {
		t.Errorf("Output missing summary:\n%s", output)
	}
}

func TestTextFormatter_Format_WithIssues(t *testing.T) {
	f := NewTextFormatter(FormatOptions{})
	report := createTestReport()

	var buf bytes.Buffer
	if err := f.Format(context.Background(), report, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	output := buf.String()
	wants := []string{
		"Line 2 [missing_hours_left, missing_hours_right]",
		"  - 01:00,900 --> 01:01,800",
		"  + 00:01:00,900 --> 00:01:01,800",
		"Line 6 [unparseable]",
		"  ! 1:3x,500 --> 2:00,500",
		"Line 10 [missing_hours_left, missing_hours_right, missing_arrow, digit_padding]",
		"Summary: 3 timestamp lines, 2 fixed, 1 unparseable",
		"Output: movie_fixed.srt",
		"Backup: movie.srt.bak",
	}
	for _, want := range wants {
		if !strings.Contains(output, want) {
			t.Errorf("Output missing %q\n%s", want, output)
		}
	}

	// Error detail is verbose-only
	if strings.Contains(output, "non-numeric group") {
		t.Error("Non-verbose output should not include error detail")
	}
}

func TestTextFormatter_Format_Quiet(t *testing.T) {
	f := NewTextFormatter(FormatOptions{Quiet: true})
	report := createTestReport()

	var buf bytes.Buffer
	if err := f.Format(context.Background(), report, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	output := buf.String()

	// Quiet mode should be a single line
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) != 1 {
		t.Errorf("Quiet output has %d lines, want 1", len(lines))
	}
	if !strings.HasPrefix(output, "srtfix: movie.srt:") {
		t.Errorf("Quiet output = %q, missing prefix", output)
	}
}

func TestTextFormatter_Format_Verbose(t *testing.T) {
	f := NewTextFormatter(FormatOptions{Verbose: true})
	report := createTestReport()

	var buf bytes.Buffer
	if err := f.Format(context.Background(), report, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	output := buf.String()
	wants := []string{
		`non-numeric group "3x"`,
		"missing_hours_left: 2",
		"unparseable: 1",
		"Lines processed: 12",
		"Duration:",
	}
	for _, want := range wants {
		if !strings.Contains(output, want) {
			t.Errorf("Verbose output missing %q", want)
		}
	}
}

func TestTextFormatter_Format_Limit(t *testing.T) {
	f := NewTextFormatter(FormatOptions{Limit: 1})
	report := createTestReport()

	var buf bytes.Buffer
	if err := f.Format(context.Background(), report, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	output := buf.String()
	if strings.Contains(output, "Line 6") {
		t.Error("Limited output should not list the second issue")
	}
	if !strings.Contains(output, "... and 2 more") {
		t.Errorf("Limited output missing remainder note:\n%s", output)
	}
}

func TestTextFormatter_Format_DryRun(t *testing.T) {
	f := NewTextFormatter(FormatOptions{})
	report := createTestReport()
	report.Metadata.DryRun = true
	report.Metadata.Output = ""
	report.Metadata.Backup = ""

	var buf bytes.Buffer
	if err := f.Format(context.Background(), report, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "(dry run)") {
		t.Error("Dry run output missing marker")
	}
	if !strings.Contains(output, "2 to fix") {
		t.Errorf("Dry run summary should say 'to fix':\n%s", output)
	}
	if strings.Contains(output, "Output:") {
		t.Error("Dry run output should not name an output file")
	}
}
