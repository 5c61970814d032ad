package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/srtfix/pkg/fixer"
	"github.com/ccollicutt/srtfix/pkg/output"
	"github.com/ccollicutt/srtfix/pkg/srtfile"
	"github.com/ccollicutt/srtfix/pkg/webhook"
)

// CheckOptions holds command-line options for the check command.
type CheckOptions struct {
	Output  string
	Limit   int
	Verbose bool
	Quiet   bool

	Webhook WebhookOptions
}

// NewCheckCommand creates the check command.
func NewCheckCommand(g *GlobalOptions) *cobra.Command {
	opts := &CheckOptions{}

	cmd := &cobra.Command{
		Use:   "check <input>...",
		Short: "Preview timestamp fixes without writing",
		Long: `Report which timestamp lines would be rewritten, and how, without
writing any file.

Exit codes:
  0 - Every timestamp line is already canonical
  1 - At least one timestamp line needs fixing or cannot be parsed
  2 - Configuration or file error

Example:
  srtfix check movie.srt
  srtfix check --limit 0 -o json 'season1/*.srt'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, g, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Output format (text|json), default from config")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 0, "Maximum issues listed per file, 0 for all (default from config)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show error details and tag counts")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no details")
	addWebhookFlags(cmd, &opts.Webhook)

	return cmd
}

func runCheck(cmd *cobra.Command, args []string, g *GlobalOptions, opts *CheckOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := g.loadConfig(ctx)
	if err != nil {
		return err
	}

	limit := cfg.PreviewLimit
	if cmd.Flags().Changed("limit") {
		if opts.Limit < 0 {
			return fmt.Errorf("--limit must be >= 0, got %d", opts.Limit)
		}
		limit = opts.Limit
	}

	format := opts.Output
	if format == "" {
		format = cfg.Output.Format
	}
	formatter, err := createFormatter(format, output.FormatOptions{
		Verbose: opts.Verbose,
		Quiet:   opts.Quiet,
		Limit:   limit,
	})
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

	hooks := collectWebhooks(cfg, opts.Webhook)
	client := webhook.NewClient()

	var errs []error
	for _, file := range files {
		report, err := checkFile(ctx, file)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", file, err))
			continue
		}

		if err := formatter.Format(ctx, report, cmd.OutOrStdout()); err != nil {
			return fmt.Errorf("formatting output: %w", err)
		}

		if len(hooks) > 0 {
			client.Notify(ctx, hooks, webhook.EventCheck, report)
		}

		if report.HasIssues() {
			ExitCode = 1
		}
	}

	return errors.Join(errs...)
}

func checkFile(ctx context.Context, path string) (*output.Report, error) {
	doc, err := srtfile.Read(path)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}

	result, err := fixer.New(fixer.WithDryRun(true), fixer.WithSource(path)).Fix(ctx, doc.Texts())
	if err != nil {
		return nil, err
	}
	return output.NewReport(result), nil
}
