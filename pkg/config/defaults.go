package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

// DefaultFileName is looked up in the working directory when no
// configuration file is given.
const DefaultFileName = ".srtfix.yaml"

// Default values for configuration.
const (
	DefaultOutputSuffix    = "_fixed"
	DefaultBackupSuffix    = ".bak"
	DefaultFormat          = "text"
	DefaultLineEnding      = "preserve"
	DefaultPreviewLimit    = 20
	DefaultLogLevel        = "info"
	DefaultListen          = ":8080"
	DefaultMaxUploadSize   = "16M"
	DefaultShutdownTimeout = 10 * time.Second
	DefaultWebhookTimeout  = 10 * time.Second
)

// Environment variable names.
const (
	EnvOutputFormat = "SRTFIX_OUTPUT_FORMAT"
	EnvLineEnding   = "SRTFIX_LINE_ENDING"
	EnvBackup       = "SRTFIX_BACKUP"
	EnvListen       = "SRTFIX_LISTEN"
	EnvWorkDir      = "SRTFIX_WORK_DIR"
	EnvLogLevel     = "SRTFIX_LOG_LEVEL"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{
			Suffix:     DefaultOutputSuffix,
			Format:     DefaultFormat,
			LineEnding: DefaultLineEnding,
		},
		Backup: BackupConfig{
			Enabled: true,
			Suffix:  DefaultBackupSuffix,
		},
		Server: ServerConfig{
			Listen:            DefaultListen,
			MaxUploadSize:     DefaultMaxUploadSize,
			AllowedExtensions: []string{".srt", ".txt"},
			ShutdownTimeout:   DefaultShutdownTimeout,
		},
		PreviewLimit: DefaultPreviewLimit,
		LogLevel:     DefaultLogLevel,
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() {
	if v := os.Getenv(EnvOutputFormat); v != "" {
		c.Output.Format = v
	}
	if v := os.Getenv(EnvLineEnding); v != "" {
		c.Output.LineEnding = v
	}
	if v := os.Getenv(EnvListen); v != "" {
		c.Server.Listen = v
	}
	if v := os.Getenv(EnvWorkDir); v != "" {
		c.Server.WorkDir = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvBackup); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.Backup.Enabled = enabled
		} else {
			slog.Warn("ignoring invalid environment value", "var", EnvBackup, "value", v)
		}
	}
}
