package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/srtfix/pkg/config"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate an srtfix configuration file without processing any input.

Checks:
  - YAML syntax
  - Output format, suffix, and line ending
  - Backup settings
  - Server listen address, upload limit, and extensions
  - Webhook URLs and triggers`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	w := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(w, "Validating %s...\n", configPath)

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	backup := "disabled"
	if cfg.Backup.Enabled {
		backup = "<input>" + cfg.Backup.Suffix
	}

	_, _ = fmt.Fprintf(w, "\nConfiguration valid!\n")
	_, _ = fmt.Fprintf(w, "  Output suffix: %s\n", cfg.Output.Suffix)
	_, _ = fmt.Fprintf(w, "  Format:        %s\n", cfg.Output.Format)
	_, _ = fmt.Fprintf(w, "  Line ending:   %s\n", cfg.Output.LineEnding)
	_, _ = fmt.Fprintf(w, "  Backup:        %s\n", backup)
	_, _ = fmt.Fprintf(w, "  Preview limit: %d\n", cfg.PreviewLimit)
	_, _ = fmt.Fprintf(w, "  Server:        %s (max upload %s)\n", cfg.Server.Listen, cfg.Server.MaxUploadSize)

	if len(cfg.Webhooks) > 0 {
		_, _ = fmt.Fprintf(w, "\nWebhooks:\n")
		for i, wh := range cfg.Webhooks {
			name := wh.Name
			if name == "" {
				name = wh.URL
			}
			_, _ = fmt.Fprintf(w, "  %d. [%s] %s\n", i+1, wh.Trigger, name)
		}
	}

	return nil
}
