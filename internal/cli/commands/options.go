package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/srtfix/pkg/config"
	"github.com/ccollicutt/srtfix/pkg/output"
)

// GlobalOptions holds the persistent flags shared by every command.
type GlobalOptions struct {
	ConfigPath string
	LogLevel   string

	// Level is the live level of the default logger. When --log-level was
	// not given, the configuration's log_level is applied to it on load.
	Level *slog.LevelVar
}

// loadConfig loads --config, or .srtfix.yaml, or the defaults.
func (g *GlobalOptions) loadConfig(ctx context.Context) (*config.Config, error) {
	path := ""
	if g != nil {
		path = g.ConfigPath
	}

	cfg, loaded, err := config.LoadOrDefault(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if g != nil && g.Level != nil && g.LogLevel == "" {
		if lvl, err := config.ParseLogLevel(cfg.LogLevel); err == nil {
			g.Level.Set(lvl)
		}
	}
	if loaded != "" {
		slog.Debug("loaded config", "path", loaded)
	}

	return cfg, nil
}

// WebhookOptions holds the ad-hoc webhook given on the command line.
type WebhookOptions struct {
	URL     string
	Token   string
	Trigger string
}

func addWebhookFlags(cmd *cobra.Command, opts *WebhookOptions) {
	cmd.Flags().StringVar(&opts.URL, "webhook-url", "", "Webhook endpoint URL")
	cmd.Flags().StringVar(&opts.Token, "webhook-token", "", "Bearer token for webhook auth")
	cmd.Flags().StringVar(&opts.Trigger, "webhook-trigger", "on_issues", "When to fire webhook (on_issues|always|never)")
}

// collectWebhooks merges config file webhooks with the CLI webhook.
func collectWebhooks(cfg *config.Config, opts WebhookOptions) []config.WebhookConfig {
	webhooks := make([]config.WebhookConfig, 0, len(cfg.Webhooks)+1)

	webhooks = append(webhooks, cfg.Webhooks...)

	if opts.URL != "" {
		trigger := config.WebhookTrigger(opts.Trigger)
		if trigger == "" {
			trigger = config.WebhookTriggerOnIssues
		}

		webhooks = append(webhooks, config.WebhookConfig{
			Name:    "cli",
			URL:     opts.URL,
			Token:   opts.Token,
			Trigger: trigger,
			Timeout: config.DefaultWebhookTimeout,
		})
	}

	return webhooks
}

func createFormatter(format string, opts output.FormatOptions) (output.Formatter, error) {
	switch format {
	case "text":
		return output.NewTextFormatter(opts), nil
	case "json":
		return output.NewJSONFormatter(opts), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (use text or json)", format)
	}
}
