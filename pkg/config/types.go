// Package config provides configuration loading and validation for srtfix.
package config

import "time"

// Config is the root configuration structure loaded from YAML.
type Config struct {
	Output   OutputConfig    `yaml:"output"`
	Backup   BackupConfig    `yaml:"backup"`
	Server   ServerConfig    `yaml:"server"`
	Webhooks []WebhookConfig `yaml:"webhooks,omitempty"`

	// PreviewLimit caps the number of issues listed by check and preview.
	// Zero lists all of them.
	PreviewLimit int `yaml:"preview_limit"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// OutputConfig controls how corrected files are named and encoded.
type OutputConfig struct {
	// Suffix is inserted before the input's extension to name the output file.
	Suffix string `yaml:"suffix"`

	// Format is the report format: text or json.
	Format string `yaml:"format"`

	// LineEnding is preserve, lf, or crlf.
	LineEnding string `yaml:"line_ending"`
}

// BackupConfig controls the copy of the original input made before writing.
type BackupConfig struct {
	Enabled bool   `yaml:"enabled"`
	Suffix  string `yaml:"suffix"`
}

// ServerConfig configures the HTTP front end.
type ServerConfig struct {
	// Listen is the address to bind, e.g. ":8080".
	Listen string `yaml:"listen"`

	// WorkDir holds corrected files until they are downloaded.
	// Empty means a directory under the system temp dir.
	WorkDir string `yaml:"work_dir"`

	// MaxUploadSize limits request bodies, e.g. "16M".
	MaxUploadSize string `yaml:"max_upload_size"`

	// AllowedExtensions lists accepted upload extensions.
	AllowedExtensions []string `yaml:"allowed_extensions"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// WebhookTrigger determines when a webhook fires.
type WebhookTrigger string

const (
	// WebhookTriggerOnIssues fires only when a file needed changes (default).
	WebhookTriggerOnIssues WebhookTrigger = "on_issues"
	// WebhookTriggerAlways fires after every file.
	WebhookTriggerAlways WebhookTrigger = "always"
	// WebhookTriggerNever disables the webhook.
	WebhookTriggerNever WebhookTrigger = "never"
)

// WebhookConfig defines a webhook endpoint for sending fix reports.
type WebhookConfig struct {
	// Name is an optional identifier for the webhook.
	Name string `yaml:"name,omitempty"`

	// URL is the webhook endpoint (required).
	URL string `yaml:"url"`

	// Token is an optional bearer token for authentication.
	// "${VAR}" and "$VAR" are read from the environment.
	Token string `yaml:"token,omitempty"`

	// Trigger determines when the webhook fires.
	// Defaults to "on_issues" if not specified.
	Trigger WebhookTrigger `yaml:"trigger,omitempty"`

	// Timeout is the HTTP request timeout.
	// Defaults to 10s if not specified.
	Timeout time.Duration `yaml:"timeout,omitempty"`
}
