// Package plugins provides exec-based plugin support for srtfix.
// Plugins are separate binaries named srtfix-<command> that are discovered
// and executed when an unknown command is invoked, the way kubectl and git
// handle plugins.
package plugins

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	"github.com/antzucaro/matchr"
)

// Prefix is prepended to a command name to form the plugin binary name.
const Prefix = "srtfix-"

// EnvPluginDir overrides the per-user plugin directory.
const EnvPluginDir = "SRTFIX_PLUGIN_DIR"

// EnvBinary is set for plugins to the path of the srtfix binary that
// launched them.
const EnvBinary = "SRTFIX_BIN"

// ErrPluginNotFound is returned when no plugin binary can be located.
var ErrPluginNotFound = errors.New("plugin not found")

// UserDir returns the per-user plugin directory, ~/.srtfix/plugins unless
// SRTFIX_PLUGIN_DIR is set.
func UserDir() (string, error) {
	if dir := os.Getenv(EnvPluginDir); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".srtfix", "plugins"), nil
}

// searchDirs lists the directories checked before PATH, in order.
func searchDirs() []string {
	var dirs []string
	if execPath, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(execPath))
	}
	if dir, err := UserDir(); err == nil {
		dirs = append(dirs, dir)
	}
	return dirs
}

// FindPlugin searches for a plugin binary named srtfix-<command>.
// It searches in the following locations in order:
//  1. Same directory as the srtfix binary
//  2. The user plugin directory (see UserDir)
//  3. Anywhere in PATH
func FindPlugin(command string) (string, error) {
	name := Prefix + command

	for _, dir := range searchDirs() {
		candidate := filepath.Join(dir, name)
		if isExecutable(candidate) {
			return candidate, nil
		}
	}

	if path, err := exec.LookPath(name); err == nil {
		return path, nil
	}

	return "", ErrPluginNotFound
}

// List returns the command names of plugins installed next to the srtfix
// binary or in the user plugin directory, sorted and deduplicated.
func List() []string {
	var names []string
	for _, dir := range searchDirs() {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			command, ok := strings.CutPrefix(entry.Name(), Prefix)
			if !ok || command == "" {
				continue
			}
			if isExecutable(filepath.Join(dir, entry.Name())) {
				names = append(names, command)
			}
		}
	}
	slices.Sort(names)
	return slices.Compact(names)
}

// Execute runs a plugin with the given arguments, connected to the current
// stdin, stdout and stderr, and returns the plugin's exit code.
func Execute(ctx context.Context, pluginPath string, args []string) int {
	cmd := exec.CommandContext(ctx, pluginPath, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = os.Environ()
	if self, err := os.Executable(); err == nil {
		cmd.Env = append(cmd.Env, EnvBinary+"="+self)
	}

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "Error executing plugin: %v\n", err)
		return 1
	}

	return 0
}

// suggestThreshold is the minimum Jaro-Winkler similarity for a name to be
// offered as a suggestion.
const suggestThreshold = 0.85

// Suggest returns the names in candidates that look like a misspelling of
// command, most similar first.
func Suggest(command string, candidates []string) []string {
	type scored struct {
		name  string
		score float64
	}
	var matches []scored
	for _, name := range candidates {
		if name == command {
			continue
		}
		if s := matchr.JaroWinkler(command, name, false); s >= suggestThreshold {
			matches = append(matches, scored{name, s})
		}
	}
	slices.SortStableFunc(matches, func(a, b scored) int {
		switch {
		case a.score > b.score:
			return -1
		case a.score < b.score:
			return 1
		}
		return strings.Compare(a.name, b.name)
	})

	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m.name)
	}
	return slices.Compact(names)
}

// FormatNotFoundError returns the message shown for an unknown command.
// builtins are the names of the built-in commands, used together with the
// installed plugins for "did you mean" suggestions.
func FormatNotFoundError(command string, builtins ...string) string {
	var sb strings.Builder
	installed := List()

	fmt.Fprintf(&sb, "unknown command %q for \"srtfix\"\n", command)

	if suggestions := Suggest(command, append(slices.Clone(builtins), installed...)); len(suggestions) > 0 {
		sb.WriteString("\nDid you mean this?\n")
		for _, s := range suggestions {
			fmt.Fprintf(&sb, "  %s\n", s)
		}
	}
	sb.WriteString("\nIf this is a plugin, install the binary as one of:\n")
	fmt.Fprintf(&sb, "  - %s%s in the same directory as srtfix\n", Prefix, command)
	fmt.Fprintf(&sb, "  - ~/.srtfix/plugins/%s%s\n", Prefix, command)
	fmt.Fprintf(&sb, "  - %s%s anywhere in your PATH\n", Prefix, command)

	if len(installed) > 0 {
		fmt.Fprintf(&sb, "\nInstalled plugins: %s\n", strings.Join(installed, ", "))
	}

	sb.WriteString("\nRun 'srtfix --help' for usage.")

	return sb.String()
}

// isExecutable checks if a regular file exists with an execute bit set.
func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Mode()&0111 != 0
}
