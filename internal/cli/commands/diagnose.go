package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/srtfix/pkg/config"
	"github.com/ccollicutt/srtfix/pkg/detector"
	"github.com/ccollicutt/srtfix/pkg/srtfile"
)

// DiagnoseOptions holds options for the diagnose command
type DiagnoseOptions struct {
	Verbose bool
}

// Diagnostic statuses.
const (
	StatusOK      = "ok"
	StatusWarning = "warning"
	StatusError   = "error"
)

// DiagnosticResult represents the result of a single diagnostic check
type DiagnosticResult struct {
	Check    string
	Status   string
	Message  string
	Details  []string
	Suggests []string
}

// NewDiagnoseCommand creates the diagnose command
func NewDiagnoseCommand(g *GlobalOptions) *cobra.Command {
	opts := &DiagnoseOptions{}

	cmd := &cobra.Command{
		Use:   "diagnose [input]...",
		Short: "Diagnose configuration and input problems",
		Long: `Diagnose common problems before running fix or serve.

This command checks:
- The configuration file (--config, else .srtfix.yaml) and its settings
- Each input file: existence, UTF-8 encoding, and timestamp lines
- Server settings: listen address and work directory
- Webhooks (with -v, also whether each endpoint is reachable)

Example:
  srtfix diagnose
  srtfix diagnose --config team.yaml movie.srt
  srtfix diagnose -v  # verbose output`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runDiagnose(ctx, cmd.OutOrStdout(), configPathOf(g), args, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show detailed diagnostic output")

	return cmd
}

func configPathOf(g *GlobalOptions) string {
	if g == nil {
		return ""
	}
	return g.ConfigPath
}

func runDiagnose(ctx context.Context, w io.Writer, configPath string, inputs []string, opts *DiagnoseOptions) error {
	results := []DiagnosticResult{}

	if configPath == "" {
		if _, err := os.Stat(config.DefaultFileName); err == nil {
			configPath = config.DefaultFileName
		}
	}

	var cfg *config.Config
	if configPath == "" {
		results = append(results, DiagnosticResult{
			Check:   "Config File",
			Status:  StatusOK,
			Message: fmt.Sprintf("No config file given and no %s found, using defaults", config.DefaultFileName),
			Suggests: []string{
				"Use 'srtfix detect <input> --write-config .srtfix.yaml' to generate a starter config",
			},
		})
		cfg = config.DefaultConfig()
	} else {
		result := checkConfigExists(configPath)
		results = append(results, result)
		if result.Status == StatusError {
			return printDiagnostics(w, results, opts)
		}

		cfg, result = checkConfigParseable(ctx, configPath)
		results = append(results, result)
		if result.Status == StatusError {
			return printDiagnostics(w, results, opts)
		}
	}

	results = append(results, checkInputs(ctx, inputs)...)
	results = append(results, checkServer(cfg)...)
	results = append(results, checkWebhooks(cfg, opts)...)

	return printDiagnostics(w, results, opts)
}

func checkConfigExists(path string) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Config File",
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		result.Status = StatusError
		result.Message = fmt.Sprintf("Config file not found: %s", path)
		result.Suggests = []string{
			"Check the file path is correct",
			"Use 'srtfix detect <input> --write-config .srtfix.yaml' to generate a starter config",
		}
		return result
	}
	if err != nil {
		result.Status = StatusError
		result.Message = fmt.Sprintf("Cannot access config file: %v", err)
		result.Suggests = []string{"Check file permissions"}
		return result
	}
	if info.IsDir() {
		result.Status = StatusError
		result.Message = "Path is a directory, not a file"
		return result
	}
	if info.Size() == 0 {
		result.Status = StatusWarning
		result.Message = "Config file is empty, defaults apply"
		return result
	}

	result.Status = StatusOK
	result.Message = fmt.Sprintf("Found: %s (%d bytes)", path, info.Size())
	return result
}

func checkConfigParseable(ctx context.Context, path string) (*config.Config, DiagnosticResult) {
	result := DiagnosticResult{
		Check: "Config Syntax",
	}

	cfg, err := config.Load(ctx, path)
	if err != nil {
		result.Status = StatusError
		result.Message = fmt.Sprintf("Failed to load config: %v", err)
		if strings.Contains(err.Error(), "yaml") {
			result.Suggests = []string{
				"Check YAML syntax - ensure proper indentation (use spaces, not tabs)",
			}
		}
		return nil, result
	}

	result.Status = StatusOK
	result.Message = "Config file parsed successfully"
	result.Details = []string{
		fmt.Sprintf("Output: %s, %s, line ending %s", cfg.Output.Suffix, cfg.Output.Format, cfg.Output.LineEnding),
		fmt.Sprintf("Backup: %t (%s)", cfg.Backup.Enabled, cfg.Backup.Suffix),
		fmt.Sprintf("Webhooks: %d", len(cfg.Webhooks)),
	}
	return cfg, result
}

// checkInputs reads each input the way fix would and surveys its
// timestamp lines.
func checkInputs(ctx context.Context, inputs []string) []DiagnosticResult {
	results := []DiagnosticResult{}
	if len(inputs) == 0 {
		return results
	}

	files, err := srtfile.ExpandGlobs(inputs)
	if err != nil {
		return append(results, DiagnosticResult{
			Check:   "Inputs",
			Status:  StatusError,
			Message: fmt.Sprintf("Invalid pattern: %v", err),
		})
	}
	if len(files) == 0 {
		return append(results, DiagnosticResult{
			Check:   "Inputs",
			Status:  StatusError,
			Message: "No input files matched",
			Suggests: []string{
				"Check the paths and glob patterns",
			},
		})
	}

	d := detector.New()
	for _, file := range files {
		result := DiagnosticResult{
			Check: fmt.Sprintf("Input: %s", file),
		}

		det, err := d.DetectFromFile(ctx, file)
		var decodeErr *srtfile.DecodeError
		switch {
		case errors.As(err, &decodeErr):
			result.Status = StatusError
			result.Message = fmt.Sprintf("Not valid UTF-8 (line %d)", decodeErr.Line)
			result.Suggests = []string{
				"Convert the file to UTF-8, e.g. iconv -f WINDOWS-1252 -t UTF-8",
			}
		case err != nil:
			result.Status = StatusError
			result.Message = fmt.Sprintf("Cannot read file: %v", err)
		case det.TimestampLines == 0:
			result.Status = StatusWarning
			result.Message = "No timestamp lines found"
			result.Suggests = []string{"Check that this is an SRT subtitle file"}
		case det.Unparseable > 0:
			result.Status = StatusWarning
			result.Message = fmt.Sprintf("%d of %d timestamp lines cannot be parsed and will be left unchanged",
				det.Unparseable, det.TimestampLines)
			result.Suggests = []string{
				fmt.Sprintf("Run 'srtfix check %s' to list them", file),
			}
		case det.NeedsFix():
			result.Status = StatusOK
			result.Message = fmt.Sprintf("%d of %d timestamp lines need fixing",
				det.TimestampLines-det.Canonical, det.TimestampLines)
		default:
			result.Status = StatusOK
			result.Message = fmt.Sprintf("%d timestamp lines, all canonical", det.TimestampLines)
		}

		if det != nil {
			for _, m := range det.Matches {
				result.Details = append(result.Details,
					fmt.Sprintf("%s: %d line(s), e.g. line %d: %s", m.Layout, m.Count, m.LineNum, truncate(m.SampleLine, 60)))
			}
		}

		results = append(results, result)
	}

	return results
}

func checkServer(cfg *config.Config) []DiagnosticResult {
	results := []DiagnosticResult{}

	result := DiagnosticResult{
		Check:  "Server",
		Status: StatusOK,
	}
	if _, _, err := net.SplitHostPort(cfg.Server.Listen); err != nil {
		result.Status = StatusError
		result.Message = fmt.Sprintf("Invalid listen address %q: %v", cfg.Server.Listen, err)
		result.Suggests = []string{`Use host:port or :port, e.g. ":8080"`}
	} else {
		result.Message = fmt.Sprintf("Listen: %s, max upload %s", cfg.Server.Listen, cfg.Server.MaxUploadSize)
		result.Details = []string{
			fmt.Sprintf("Allowed extensions: %s", strings.Join(cfg.Server.AllowedExtensions, ", ")),
			fmt.Sprintf("Shutdown timeout: %s", cfg.Server.ShutdownTimeout),
		}
	}
	results = append(results, result)

	if cfg.Server.WorkDir != "" {
		results = append(results, checkWorkDir(cfg.Server.WorkDir))
	}

	return results
}

func checkWorkDir(dir string) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Work Directory",
	}

	info, err := os.Stat(dir)
	switch {
	case os.IsNotExist(err):
		result.Status = StatusOK
		result.Message = fmt.Sprintf("%s does not exist yet and will be created", dir)
		return result
	case err != nil:
		result.Status = StatusError
		result.Message = fmt.Sprintf("Cannot access %s: %v", dir, err)
		return result
	case !info.IsDir():
		result.Status = StatusError
		result.Message = fmt.Sprintf("%s is not a directory", dir)
		return result
	}

	f, err := os.CreateTemp(dir, ".srtfix-probe-")
	if err != nil {
		result.Status = StatusError
		result.Message = fmt.Sprintf("%s is not writable: %v", dir, err)
		result.Suggests = []string{"Check directory permissions"}
		return result
	}
	_ = f.Close()
	_ = os.Remove(f.Name())

	result.Status = StatusOK
	result.Message = fmt.Sprintf("%s is writable", dir)
	return result
}

func printDiagnostics(w io.Writer, results []DiagnosticResult, opts *DiagnoseOptions) error {
	p := func(format string, a ...any) {
		_, _ = fmt.Fprintf(w, format, a...)
	}

	p("=== srtfix Diagnostics ===\n\n")

	okCount := 0
	warnCount := 0
	errCount := 0

	for _, r := range results {
		var icon string
		switch r.Status {
		case StatusOK:
			icon = "PASS"
			okCount++
		case StatusWarning:
			icon = "WARN"
			warnCount++
		case StatusError:
			icon = "FAIL"
			errCount++
		}

		p("[%s] %s\n", icon, r.Check)
		p("    %s\n", r.Message)

		if opts.Verbose || r.Status != StatusOK {
			for _, d := range r.Details {
				p("      - %s\n", d)
			}
		}

		for _, s := range r.Suggests {
			p("      Hint: %s\n", s)
		}

		p("\n")
	}

	p("---\n")
	p("Summary: %d passed, %d warnings, %d errors\n", okCount, warnCount, errCount)

	switch {
	case errCount > 0:
		p("\nFix the errors above before running srtfix.\n")
		ExitCode = 1
	case warnCount > 0:
		p("\nUsable, but see the warnings above.\n")
	default:
		p("\nEverything looks good!\n")
	}

	return nil
}

func checkWebhooks(cfg *config.Config, opts *DiagnoseOptions) []DiagnosticResult {
	results := []DiagnosticResult{}

	if len(cfg.Webhooks) == 0 {
		if opts.Verbose {
			results = append(results, DiagnosticResult{
				Check:   "Webhooks",
				Status:  StatusOK,
				Message: "No webhooks configured (optional)",
			})
		}
		return results
	}

	for _, wh := range cfg.Webhooks {
		name := wh.Name
		if name == "" {
			name = wh.URL
		}

		result := DiagnosticResult{
			Check:   fmt.Sprintf("Webhook: %s", name),
			Status:  StatusOK,
			Message: fmt.Sprintf("Trigger: %s", wh.Trigger),
		}
		if opts.Verbose {
			result.Details = []string{
				fmt.Sprintf("URL: %s", wh.URL),
				fmt.Sprintf("Timeout: %s", wh.Timeout),
			}
			if wh.Token != "" {
				result.Details = append(result.Details, "Token: configured")
			}
		}
		if wh.Trigger == config.WebhookTriggerNever {
			result.Status = StatusWarning
			result.Message = "Trigger is never, this webhook will not fire"
		}

		results = append(results, result)
	}

	if opts.Verbose {
		for _, wh := range cfg.Webhooks {
			name := wh.Name
			if name == "" {
				name = wh.URL
			}

			result := checkWebhookConnectivity(wh)
			result.Check = fmt.Sprintf("Webhook Connectivity: %s", name)
			results = append(results, result)
		}
	}

	return results
}

func checkWebhookConnectivity(wh config.WebhookConfig) DiagnosticResult {
	result := DiagnosticResult{}

	// A HEAD request is enough to tell whether the endpoint is reachable.
	client := &http.Client{
		Timeout: 5 * time.Second,
	}

	req, err := http.NewRequest(http.MethodHead, wh.URL, nil)
	if err != nil {
		result.Status = StatusWarning
		result.Message = fmt.Sprintf("Cannot create request: %v", err)
		return result
	}

	if wh.Token != "" {
		req.Header.Set("Authorization", "Bearer "+wh.Token)
	}

	resp, err := client.Do(req)
	if err != nil {
		result.Status = StatusWarning
		result.Message = fmt.Sprintf("Cannot connect: %v", err)
		result.Suggests = []string{
			"Check if the webhook URL is correct",
			"Verify network connectivity",
		}
		return result
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 400 {
		result.Status = StatusOK
		result.Message = fmt.Sprintf("Reachable (status %d)", resp.StatusCode)
	} else {
		result.Status = StatusWarning
		result.Message = fmt.Sprintf("Reachable but returned status %d", resp.StatusCode)
		result.Suggests = []string{
			"The endpoint may only accept POST, which is what srtfix sends",
			"Check authentication if using a token",
		}
	}

	return result
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
