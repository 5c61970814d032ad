package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/srtfix/pkg/config"
	"github.com/ccollicutt/srtfix/pkg/fixer"
	"github.com/ccollicutt/srtfix/pkg/output"
	"github.com/ccollicutt/srtfix/pkg/srtfile"
	"github.com/ccollicutt/srtfix/pkg/webhook"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// FixOptions holds command-line options for the fix command.
type FixOptions struct {
	OutFile    string
	InPlace    bool
	NoBackup   bool
	DryRun     bool
	Output     string
	Verbose    bool
	Quiet      bool
	LineEnding string

	Webhook WebhookOptions
}

// NewFixCommand creates the fix command.
func NewFixCommand(g *GlobalOptions) *cobra.Command {
	opts := &FixOptions{}

	cmd := &cobra.Command{
		Use:   "fix <input>...",
		Short: "Rewrite timestamp lines into canonical form",
		Long: `Rewrite every timestamp line of one or more SRT files into the canonical
"HH:MM:SS,mmm --> HH:MM:SS,mmm" form.

Repairs:
  - Missing hour fields ("01:00,900" becomes "00:01:00,900")
  - Missing or garbled arrows ("1:03,200  1:05,000", "->", "=>")
  - Short fields ("1:3,5" becomes "00:01:03,005")

All other lines are copied unchanged. The corrected file is written next to
the input as <stem>_fixed<ext>, and the original is kept as <input>.bak.

Exit codes:
  0 - Every timestamp line is canonical
  1 - Some timestamp lines could not be parsed and were left unchanged
  2 - Configuration or file error

Example:
  srtfix fix movie.srt
  srtfix fix --in-place 'season1/*.srt'
  srtfix fix -O clean.srt --line-ending lf movie.srt`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFix(cmd, args, g, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.OutFile, "out", "O", "", "Write the corrected file here (single input only)")
	cmd.Flags().BoolVar(&opts.InPlace, "in-place", false, "Rewrite the input file itself")
	cmd.Flags().BoolVar(&opts.NoBackup, "no-backup", false, "Do not keep a copy of the original")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Report what would change without writing")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Output format (text|json), default from config")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show error details and tag counts")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no details")
	cmd.Flags().StringVar(&opts.LineEnding, "line-ending", "", "Line terminators in output (preserve|lf|crlf)")
	cmd.MarkFlagsMutuallyExclusive("out", "in-place")
	addWebhookFlags(cmd, &opts.Webhook)

	return cmd
}

func runFix(cmd *cobra.Command, args []string, g *GlobalOptions, opts *FixOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := g.loadConfig(ctx)
	if err != nil {
		return err
	}

	format := opts.Output
	if format == "" {
		format = cfg.Output.Format
	}
	formatter, err := createFormatter(format, output.FormatOptions{
		Verbose: opts.Verbose,
		Quiet:   opts.Quiet,
	})
	if err != nil {
		return err
	}

	leName := cfg.Output.LineEnding
	if opts.LineEnding != "" {
		leName = opts.LineEnding
	}
	le, err := srtfile.ParseLineEnding(leName)
	if err != nil {
		return err
	}

	files, err := srtfile.ExpandGlobs(args)
	if err != nil {
		return fmt.Errorf("expanding inputs: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no input files matched: %v", args)
	}
	if opts.OutFile != "" && len(files) > 1 {
		return fmt.Errorf("--out takes a single input, got %d files", len(files))
	}

	hooks := collectWebhooks(cfg, opts.Webhook)
	client := webhook.NewClient()

	// A file-level error stops that file only; the rest are still processed.
	var errs []error
	for _, file := range files {
		report, err := fixFile(ctx, file, cfg, opts, le)
		if err != nil {
			slog.Debug("fix failed", "file", file, "err", err)
			errs = append(errs, fmt.Errorf("%s: %w", file, err))
			continue
		}

		if err := formatter.Format(ctx, report, cmd.OutOrStdout()); err != nil {
			return fmt.Errorf("formatting output: %w", err)
		}

		if len(hooks) > 0 {
			client.Notify(ctx, hooks, webhook.EventFix, report)
		}

		if report.HasErrors() {
			ExitCode = 1
		}
	}

	return errors.Join(errs...)
}

// fixFile runs one pass over path and writes the result unless this is a
// dry run. The returned report names the files that were written.
func fixFile(ctx context.Context, path string, cfg *config.Config, opts *FixOptions, le srtfile.LineEnding) (*output.Report, error) {
	doc, err := srtfile.Read(path)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}

	f := fixer.New(fixer.WithDryRun(opts.DryRun), fixer.WithSource(path))
	result, err := f.Fix(ctx, doc.Texts())
	if err != nil {
		return nil, err
	}

	report := output.NewReport(result)
	if opts.DryRun {
		return report, nil
	}

	if err := doc.SetTexts(result.Lines); err != nil {
		return nil, err
	}

	dest := opts.OutFile
	switch {
	case opts.InPlace:
		dest = path
	case dest == "":
		dest = srtfile.OutputPath(path, cfg.Output.Suffix)
	}

	if cfg.Backup.Enabled && !opts.NoBackup {
		backup, err := srtfile.Backup(path, cfg.Backup.Suffix)
		if err != nil {
			return nil, err
		}
		report.Metadata.Backup = backup
	}

	if err := doc.Write(dest, le); err != nil {
		return nil, fmt.Errorf("writing output: %w", err)
	}
	report.Metadata.Output = dest

	slog.Debug("wrote output", "input", path, "output", dest, "fixed", report.Summary.FixedLines)
	return report, nil
}
