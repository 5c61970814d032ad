package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ccollicutt/srtfix/pkg/config"
	"github.com/ccollicutt/srtfix/pkg/detector"
)

func sampleDetection() *detector.DetectionResult {
	return &detector.DetectionResult{
		Matches: []detector.LayoutMatch{
			{Layout: "MM:SS,mmm --> MM:SS,mmm", Share: 0.5, Count: 2, SampleLine: "01:00,900 --> 01:01,800", LineNum: 2},
			{Layout: "M:SS,mmm --> M:SS,mmm", Share: 0.25, Count: 1, SampleLine: "1:03,200  1:05,000", LineNum: 6},
			{Layout: "HH:MM:SS,mmm --> HH:MM:SS,mmm", Share: 0.25, Count: 1, SampleLine: "00:01:06,500->00:01:09,250", LineNum: 10},
		},
		Separators: []detector.SeparatorCount{
			{Separator: " --> ", Count: 2},
			{Separator: "  ", Count: 1},
			{Separator: "->", Count: 1},
		},
		SampledLines:   16,
		TimestampLines: 4,
	}
}

func TestOutputDetectText_NoTimestampLines(t *testing.T) {
	result := &detector.DetectionResult{SampledLines: 12}

	var buf bytes.Buffer
	if err := outputDetectText(&buf, result, "/test/notes.txt", &DetectOptions{}); err != nil {
		t.Fatalf("outputDetectText failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "No timestamp lines found") {
		t.Errorf("Expected no-match message:\n%s", out)
	}
}

func TestOutputDetectText_WithMatch(t *testing.T) {
	var buf bytes.Buffer
	if err := outputDetectText(&buf, sampleDetection(), "movie.srt", &DetectOptions{}); err != nil {
		t.Fatalf("outputDetectText failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"File: movie.srt",
		"Most common layout: MM:SS,mmm --> MM:SS,mmm",
		"Share: 50.0% (2 lines)",
		"Sample (line 2):",
		"4 of 4 timestamp lines",
		"srtfix check movie.srt",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Other layouts") {
		t.Error("Alternatives shown without --all")
	}
}

func TestOutputDetectText_ShowAll(t *testing.T) {
	var buf bytes.Buffer
	if err := outputDetectText(&buf, sampleDetection(), "movie.srt", &DetectOptions{ShowAll: true}); err != nil {
		t.Fatalf("outputDetectText failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"--- Other layouts ---", "2. M:SS,mmm --> M:SS,mmm", "--- Separators ---", `"->"`} {
		if !strings.Contains(out, want) {
			t.Errorf("Output missing %q:\n%s", want, out)
		}
	}
}

func TestOutputDetectText_Canonical(t *testing.T) {
	result := &detector.DetectionResult{
		Matches:        []detector.LayoutMatch{{Layout: detector.CanonicalLayout, Share: 1, Count: 3, LineNum: 2}},
		SampledLines:   12,
		TimestampLines: 3,
		Canonical:      3,
	}

	var buf bytes.Buffer
	if err := outputDetectText(&buf, result, "movie.srt", &DetectOptions{}); err != nil {
		t.Fatalf("outputDetectText failed: %v", err)
	}
	if !strings.Contains(buf.String(), "All timestamp lines are canonical.") {
		t.Errorf("Unexpected output:\n%s", buf.String())
	}
}

func TestOutputDetectJSON(t *testing.T) {
	tests := []struct {
		name           string
		showAll        bool
		wantLayouts    int
		wantSeparators int
	}{
		{"best only", false, 1, 0},
		{"all", true, 3, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := outputDetectJSON(&buf, sampleDetection(), "movie.srt", &DetectOptions{ShowAll: tt.showAll}); err != nil {
				t.Fatalf("outputDetectJSON failed: %v", err)
			}

			var out JSONOutput
			if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
				t.Fatalf("Invalid JSON: %v", err)
			}
			if out.File != "movie.srt" || !out.NeedsFix {
				t.Errorf("Unexpected output: %+v", out)
			}
			if len(out.Layouts) != tt.wantLayouts {
				t.Errorf("got %d layouts, want %d", len(out.Layouts), tt.wantLayouts)
			}
			if len(out.Separators) != tt.wantSeparators {
				t.Errorf("got %d separators, want %d", len(out.Separators), tt.wantSeparators)
			}
		})
	}
}

func TestRunDetect_MissingFile(t *testing.T) {
	_, err := execute(t, NewDetectCommand(), "/nonexistent/movie.srt")
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("Expected not found error, got: %v", err)
	}
}

func TestRunDetect_Success(t *testing.T) {
	input := copyFixture(t, "malformed.srt")

	out, err := execute(t, NewDetectCommand(), input)
	if err != nil {
		t.Fatalf("detect failed: %v", err)
	}
	if !strings.Contains(out, "Most common layout: MM:SS,mmm --> MM:SS,mmm") {
		t.Errorf("Unexpected output:\n%s", out)
	}
}

func TestRunDetect_JSONOutput(t *testing.T) {
	input := copyFixture(t, "canonical.srt")

	out, err := execute(t, NewDetectCommand(), "-o", "json", input)
	if err != nil {
		t.Fatalf("detect failed: %v", err)
	}

	var got JSONOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("Invalid JSON: %v\n%s", err, out)
	}
	if got.NeedsFix || got.TimestampLines != 3 || got.Canonical != 3 {
		t.Errorf("Unexpected result: %+v", got)
	}
}

func TestRunDetect_InvalidSample(t *testing.T) {
	input := copyFixture(t, "malformed.srt")

	if _, err := execute(t, NewDetectCommand(), "--sample", "0", input); err == nil {
		t.Error("Expected error for --sample 0")
	}
}

func TestRunDetect_UnknownOutput(t *testing.T) {
	input := copyFixture(t, "malformed.srt")

	if _, err := execute(t, NewDetectCommand(), "-o", "yaml", input); err == nil {
		t.Error("Expected error for unknown output format")
	}
}

func TestRunDetect_WriteConfig(t *testing.T) {
	input := copyFixture(t, "malformed.srt")
	configPath := filepath.Join(t.TempDir(), ".srtfix.yaml")

	out, err := execute(t, NewDetectCommand(), "-w", configPath, input)
	if err != nil {
		t.Fatalf("detect failed: %v", err)
	}
	if !strings.Contains(out, "Wrote starter config to: "+configPath) {
		t.Errorf("Missing confirmation:\n%s", out)
	}

	// The generated file must load as a valid configuration.
	cfg, err := config.Load(context.Background(), configPath)
	if err != nil {
		t.Fatalf("Generated config does not load: %v", err)
	}
	if cfg.Output.Suffix != config.DefaultOutputSuffix {
		t.Errorf("Suffix = %q", cfg.Output.Suffix)
	}
}

func TestGenerateStarterConfig(t *testing.T) {
	cfg := generateStarterConfig("/subs/movie.srt", sampleDetection())

	checks := []string{
		"# Source: /subs/movie.srt",
		"MM:SS,mmm --> MM:SS,mmm (50%)",
		"needing a fix: 4 of 4",
		"output:",
		"suffix: _fixed",
		"line_ending: preserve",
		"backup:",
		"server:",
		"# webhooks:",
	}

	for _, check := range checks {
		if !strings.Contains(cfg, check) {
			t.Errorf("Config missing %q", check)
		}
	}
}

func TestWriteStarterConfig_NoOverwrite(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "existing.yaml")
	if err := os.WriteFile(configPath, []byte("existing: content"), 0644); err != nil {
		t.Fatal(err)
	}

	err := writeStarterConfig(sampleDetection(), "movie.srt", configPath)
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("Expected 'already exists' error, got: %v", err)
	}

	content, _ := os.ReadFile(configPath)
	if string(content) != "existing: content" {
		t.Error("Existing file was modified")
	}
}

func TestWriteStarterConfig_NoTimestampLines(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	err := writeStarterConfig(&detector.DetectionResult{SampledLines: 3}, "notes.txt", configPath)
	if err == nil {
		t.Error("Expected error when nothing was detected")
	}
	if _, statErr := os.Stat(configPath); !os.IsNotExist(statErr) {
		t.Error("Config file should not be created")
	}
}

func TestDetectOptions_Defaults(t *testing.T) {
	cmd := NewDetectCommand()

	if got, _ := cmd.Flags().GetInt("sample"); got != detector.DefaultSampleSize {
		t.Errorf("sample default = %d, want %d", got, detector.DefaultSampleSize)
	}
	if got, _ := cmd.Flags().GetString("output"); got != "text" {
		t.Errorf("output default = %q, want text", got)
	}
}
