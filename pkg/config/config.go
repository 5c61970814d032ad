package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// sizePattern matches the byte sizes understood by the server body limit.
var sizePattern = regexp.MustCompile(`^\d+[KMGTP]?$`)

// Load reads and validates a configuration file.
func Load(_ context.Context, path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyEnvironmentOverrides()

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault loads path if given, otherwise DefaultFileName if it exists
// in the working directory, otherwise the defaults. It returns the file that
// was loaded, or "" when only defaults and environment overrides apply.
func LoadOrDefault(ctx context.Context, path string) (*Config, string, error) {
	if path == "" {
		if _, err := os.Stat(DefaultFileName); err == nil {
			path = DefaultFileName
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, "", fmt.Errorf("checking %s: %w", DefaultFileName, err)
		}
	}

	if path != "" {
		cfg, err := Load(ctx, path)
		return cfg, path, err
	}

	cfg := DefaultConfig()
	cfg.applyEnvironmentOverrides()
	if err := Validate(cfg); err != nil {
		return nil, "", fmt.Errorf("validating config: %w", err)
	}
	return cfg, "", nil
}

// Validate checks a configuration for errors and fills in defaults for
// optional fields.
func Validate(cfg *Config) error {
	if err := validateOutput(&cfg.Output); err != nil {
		return fmt.Errorf("output: %w", err)
	}

	if cfg.Backup.Enabled && cfg.Backup.Suffix == "" {
		return errors.New("backup: suffix is required when backups are enabled")
	}

	if cfg.PreviewLimit < 0 {
		return fmt.Errorf("preview_limit: must be >= 0, got %d", cfg.PreviewLimit)
	}

	if _, err := ParseLogLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}

	if err := validateServer(&cfg.Server); err != nil {
		return fmt.Errorf("server: %w", err)
	}

	// Webhooks are optional, but validate if present
	for i := range cfg.Webhooks {
		if err := validateWebhook(&cfg.Webhooks[i]); err != nil {
			name := cfg.Webhooks[i].Name
			if name == "" {
				name = cfg.Webhooks[i].URL
			}
			return fmt.Errorf("webhooks[%d] (%s): %w", i, name, err)
		}
	}

	return nil
}

// ParseLogLevel converts a level name into a slog.Level.
func ParseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid level %q (must be debug, info, warn, or error)", s)
	}
	return level, nil
}

func validateOutput(out *OutputConfig) error {
	if out.Suffix == "" {
		return errors.New("suffix is required")
	}
	if strings.ContainsAny(out.Suffix, `/\`) {
		return fmt.Errorf("suffix %q must not contain path separators", out.Suffix)
	}

	switch out.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid format %q (must be text or json)", out.Format)
	}

	switch strings.ToLower(out.LineEnding) {
	case "", "preserve", "lf", "crlf":
	default:
		return fmt.Errorf("invalid line_ending %q (must be preserve, lf, or crlf)", out.LineEnding)
	}

	return nil
}

func validateServer(srv *ServerConfig) error {
	if srv.Listen == "" {
		return errors.New("listen is required")
	}

	if !sizePattern.MatchString(srv.MaxUploadSize) {
		return fmt.Errorf("invalid max_upload_size %q (e.g. 512K, 16M)", srv.MaxUploadSize)
	}

	if len(srv.AllowedExtensions) == 0 {
		return errors.New("allowed_extensions: at least one extension is required")
	}
	for i, ext := range srv.AllowedExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" || ext == "." {
			return fmt.Errorf("allowed_extensions[%d]: extension is empty", i)
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		srv.AllowedExtensions[i] = ext
	}

	if srv.ShutdownTimeout <= 0 {
		srv.ShutdownTimeout = DefaultShutdownTimeout
	}

	return nil
}

func validateWebhook(wh *WebhookConfig) error {
	if wh.URL == "" {
		return errors.New("url is required")
	}

	u, err := url.Parse(wh.URL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got %q", u.Scheme)
	}

	if u.Host == "" {
		return errors.New("url must have a host")
	}

	wh.Token = expandEnvVar(wh.Token)

	switch wh.Trigger {
	case "":
		wh.Trigger = WebhookTriggerOnIssues
	case WebhookTriggerOnIssues, WebhookTriggerAlways, WebhookTriggerNever:
	default:
		return fmt.Errorf("invalid trigger %q (must be on_issues, always, or never)", wh.Trigger)
	}

	if wh.Timeout <= 0 {
		wh.Timeout = DefaultWebhookTimeout
	}

	return nil
}

// expandEnvVar resolves a value written as ${VAR} or $VAR. Other values
// are returned unchanged.
func expandEnvVar(s string) string {
	if name, ok := strings.CutPrefix(s, "${"); ok {
		if name, ok := strings.CutSuffix(name, "}"); ok {
			return os.Getenv(name)
		}
		return s
	}
	if name, ok := strings.CutPrefix(s, "$"); ok && name != "" {
		return os.Getenv(name)
	}
	return s
}
