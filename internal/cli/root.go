// Package cli provides the command-line interface for srtfix.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ccollicutt/srtfix/internal/cli/commands"
	"github.com/ccollicutt/srtfix/internal/cli/plugins"
	"github.com/ccollicutt/srtfix/pkg/config"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	return run(context.Background(), os.Args[1:], os.Stderr)
}

func run(ctx context.Context, args []string, stderr io.Writer) int {
	commands.ExitCode = 0
	rootCmd := NewRootCommand()
	rootCmd.SetArgs(args)
	rootCmd.SetErr(stderr)

	// Check if the first argument might be a plugin command
	potentialCommand := ""
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' && !isBuiltinCommand(rootCmd, args[0]) {
		potentialCommand = args[0]
		if pluginPath, err := plugins.FindPlugin(potentialCommand); err == nil {
			return plugins.Execute(ctx, pluginPath, args[1:])
		}
		// Plugin not found - will fall through to Cobra which will show error
	}

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if potentialCommand != "" {
			_, _ = fmt.Fprintln(stderr, plugins.FormatNotFoundError(potentialCommand, builtinNames(rootCmd)...))
			return 2
		}
		// Print error to stderr (SilenceErrors prevents Cobra from doing this)
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2 // Configuration, input, or runtime error
	}
	return commands.ExitCode
}

// isBuiltinCommand checks if a command name is a built-in cobra command.
func isBuiltinCommand(rootCmd *cobra.Command, name string) bool {
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == name || cmd.HasAlias(name) {
			return true
		}
	}
	// Also check for special commands like help and completion
	return name == "help" || name == "completion"
}

func builtinNames(rootCmd *cobra.Command) []string {
	var names []string
	for _, cmd := range rootCmd.Commands() {
		if cmd.IsAvailableCommand() {
			names = append(names, cmd.Name())
		}
	}
	return names
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	g := &commands.GlobalOptions{Level: new(slog.LevelVar)}

	rootCmd := &cobra.Command{
		Use:   "srtfix",
		Short: "Repair timestamp lines in SRT subtitle files",
		Long: `srtfix rewrites the timestamp lines of SRT subtitle files into the canonical
"HH:MM:SS,mmm --> HH:MM:SS,mmm" form.

It repairs:
  - Missing hour fields       01:00,900 --> 01:01,800
  - Missing or garbled arrows 1:03,200  1:05,000
  - Short fields              00:1:3,5 --> 00:01:04,000

Every other line, including subtitle text and cue numbers, is left as is.

CONFIGURATION:
  Settings are read from --config, else .srtfix.yaml in the working
  directory. SRTFIX_* environment variables override the file, and a .env
  file in the working directory is loaded first.

PLUGINS:
  srtfix supports plugins for extended functionality. Plugins are standalone
  binaries named srtfix-<command> that are automatically discovered and invoked.

  Plugin locations (searched in order):
    1. Same directory as the srtfix binary
    2. ~/.srtfix/plugins/ (or $SRTFIX_PLUGIN_DIR)
    3. Anywhere in PATH`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(cmd, g)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&g.ConfigPath, "config", "c", "", "Config file (default: .srtfix.yaml if present)")
	rootCmd.PersistentFlags().StringVar(&g.LogLevel, "log-level", "", "Log level (debug|info|warn|error)")

	// Add subcommands
	rootCmd.AddCommand(commands.NewFixCommand(g))
	rootCmd.AddCommand(commands.NewCheckCommand(g))
	rootCmd.AddCommand(commands.NewDetectCommand())
	rootCmd.AddCommand(commands.NewDiagnoseCommand(g))
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewServeCommand(g))
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}

// setup loads .env and installs the default logger.
func setup(cmd *cobra.Command, g *commands.GlobalOptions) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	level := g.LogLevel
	if level == "" {
		level = os.Getenv(config.EnvLogLevel)
	}
	lvl, err := config.ParseLogLevel(level)
	if err != nil {
		return fmt.Errorf("--log-level: %w", err)
	}
	g.Level.Set(lvl)

	slog.SetDefault(newLogger(cmd.ErrOrStderr(), g.Level))
	return nil
}

func newLogger(w io.Writer, level slog.Leveler) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
