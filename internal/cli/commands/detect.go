package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/srtfix/pkg/config"
	"github.com/ccollicutt/srtfix/pkg/detector"
	"github.com/ccollicutt/srtfix/pkg/srtfile"
)

// DetectOptions holds command-line options for the detect command.
type DetectOptions struct {
	Output      string
	SampleSize  int
	ShowAll     bool
	WriteConfig string
}

// NewDetectCommand creates the detect command.
func NewDetectCommand() *cobra.Command {
	opts := &DetectOptions{}

	cmd := &cobra.Command{
		Use:   "detect <input>",
		Short: "Survey the timestamp layouts used in a subtitle file",
		Long: `Survey the timestamp lines of a subtitle file and report which layouts and
separators it uses, and how many lines are already canonical.

Optionally generates a starter config file with --write-config.

Example:
  srtfix detect movie.srt
  srtfix detect --all -o json movie.srt
  srtfix detect -w .srtfix.yaml movie.srt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().IntVarP(&opts.SampleSize, "sample", "n", detector.DefaultSampleSize, "Number of timestamp lines to sample")
	cmd.Flags().BoolVar(&opts.ShowAll, "all", false, "Show every layout and separator, not just the most common")
	cmd.Flags().StringVarP(&opts.WriteConfig, "write-config", "w", "", "Write starter config to file (will not overwrite)")

	return cmd
}

func runDetect(cmd *cobra.Command, args []string, opts *DetectOptions) error {
	input := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if opts.SampleSize <= 0 {
		return fmt.Errorf("--sample must be positive, got %d", opts.SampleSize)
	}

	d := detector.New(detector.WithSampleSize(opts.SampleSize))

	result, err := d.DetectFromFile(ctx, input)
	if err != nil {
		if errors.Is(err, srtfile.ErrNotFound) {
			return fmt.Errorf("input file not found: %s", input)
		}
		return fmt.Errorf("detection failed: %w", err)
	}

	w := cmd.OutOrStdout()

	if opts.WriteConfig != "" {
		if err := writeStarterConfig(result, input, opts.WriteConfig); err != nil {
			return err
		}
		if opts.Output != "json" {
			_, _ = fmt.Fprintf(w, "Wrote starter config to: %s\n\n", opts.WriteConfig)
		}
	}

	switch opts.Output {
	case "json":
		return outputDetectJSON(w, result, input, opts)
	case "text":
		return outputDetectText(w, result, input, opts)
	default:
		return fmt.Errorf("unknown output format %q (use text or json)", opts.Output)
	}
}

func outputDetectText(w io.Writer, result *detector.DetectionResult, input string, opts *DetectOptions) error {
	p := func(format string, a ...any) {
		_, _ = fmt.Fprintf(w, format, a...)
	}

	p("=== Timestamp Layout Detection ===\n\n")
	p("File: %s\n", input)
	p("Lines sampled: %d\n", result.SampledLines)
	p("Timestamp lines: %d\n", result.TimestampLines)
	p("  Canonical:   %d\n", result.Canonical)
	p("  Unparseable: %d\n\n", result.Unparseable)

	if result.TimestampLines == 0 {
		p("No timestamp lines found.\n\n")
		p("Tip: timestamp lines look like \"00:01:02,500 --> 00:01:04,000\".\n")
		p("Check that the file is a subtitle file in SRT format.\n")
		return nil
	}

	if best := result.BestMatch(); best != nil {
		p("Most common layout: %s\n", best.Layout)
		p("Share: %.1f%% (%d lines)\n\n", best.Share*100, best.Count)
		p("Sample (line %d):\n  %s\n\n", best.LineNum, best.SampleLine)
	}

	if result.NeedsFix() {
		p("%d of %d timestamp lines are not in the canonical %s layout.\n",
			result.TimestampLines-result.Canonical, result.TimestampLines, detector.CanonicalLayout)
		p("Run 'srtfix check %s' to preview the changes.\n", input)
	} else {
		p("All timestamp lines are canonical.\n")
	}

	if opts.ShowAll {
		if len(result.Matches) > 1 {
			p("\n--- Other layouts ---\n")
			for i, m := range result.Matches[1:] {
				p("%d. %s (%.1f%%, %d lines)\n", i+2, m.Layout, m.Share*100, m.Count)
				p("   line %d: %s\n", m.LineNum, m.SampleLine)
			}
		}
		if len(result.Separators) > 0 {
			p("\n--- Separators ---\n")
			for _, s := range result.Separators {
				p("  %-12q %d\n", s.Separator, s.Count)
			}
		}
	}

	return nil
}

// JSONOutput represents the full JSON output.
type JSONOutput struct {
	File           string                    `json:"file"`
	Layouts        []detector.LayoutMatch    `json:"layouts"`
	Separators     []detector.SeparatorCount `json:"separators,omitempty"`
	SampledLines   int                       `json:"sampled_lines"`
	TimestampLines int                       `json:"timestamp_lines"`
	Canonical      int                       `json:"canonical"`
	Unparseable    int                       `json:"unparseable"`
	NeedsFix       bool                      `json:"needs_fix"`
}

func outputDetectJSON(w io.Writer, result *detector.DetectionResult, input string, opts *DetectOptions) error {
	out := JSONOutput{
		File:           input,
		Layouts:        make([]detector.LayoutMatch, 0, len(result.Matches)),
		SampledLines:   result.SampledLines,
		TimestampLines: result.TimestampLines,
		Canonical:      result.Canonical,
		Unparseable:    result.Unparseable,
		NeedsFix:       result.NeedsFix(),
	}

	matches := result.Matches
	if !opts.ShowAll && len(matches) > 1 {
		matches = matches[:1]
	}
	out.Layouts = append(out.Layouts, matches...)

	if opts.ShowAll {
		out.Separators = result.Separators
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// writeStarterConfig writes a configuration file seeded with the defaults
// and a summary of what was detected in input.
func writeStarterConfig(result *detector.DetectionResult, input, configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists: %s (will not overwrite)", configPath)
	}

	if result.TimestampLines == 0 {
		return errors.New("cannot generate config: no timestamp lines found")
	}

	// #nosec G306 - config file doesn't need restrictive permissions
	if err := os.WriteFile(configPath, []byte(generateStarterConfig(input, result)), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// generateStarterConfig creates a YAML config template.
func generateStarterConfig(input string, result *detector.DetectionResult) string {
	absInput := input
	if abs, err := filepath.Abs(input); err == nil {
		absInput = abs
	}

	layout := "none parsed"
	if best := result.BestMatch(); best != nil {
		layout = fmt.Sprintf("%s (%.0f%%)", best.Layout, best.Share*100)
	}

	d := config.DefaultConfig()

	return fmt.Sprintf(`# srtfix configuration
# Generated by: srtfix detect
# Source: %s
# Most common layout: %s
# Timestamp lines needing a fix: %d of %d

output:
  # Inserted before the extension: movie.srt -> movie%s.srt
  suffix: %s
  format: %s
  # preserve, lf or crlf
  line_ending: %s

backup:
  enabled: %t
  suffix: %s

# Issues listed by 'srtfix check' and the preview API, 0 for all
preview_limit: %d
log_level: %s

server:
  listen: %q
  max_upload_size: %s
  allowed_extensions: [.srt, .txt]
  shutdown_timeout: %s

# webhooks:
#   - name: subtitles-team
#     url: https://hooks.example.com/srtfix
#     token: ${SRTFIX_WEBHOOK_TOKEN}
#     trigger: on_issues
`,
		absInput,
		layout,
		result.TimestampLines-result.Canonical, result.TimestampLines,
		d.Output.Suffix,
		d.Output.Suffix,
		d.Output.Format,
		d.Output.LineEnding,
		d.Backup.Enabled,
		d.Backup.Suffix,
		d.PreviewLimit,
		d.LogLevel,
		d.Server.Listen,
		d.Server.MaxUploadSize,
		d.Server.ShutdownTimeout,
	)
}
