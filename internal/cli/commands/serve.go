package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/srtfix/internal/server"
)

// ServeOptions holds command-line options for the serve command.
type ServeOptions struct {
	Listen  string
	WorkDir string
}

// NewServeCommand creates the serve command.
func NewServeCommand(g *GlobalOptions) *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP upload front end",
		Long: `Serve an HTTP API for fixing subtitle files.

Endpoints:
  GET  /health              Liveness and version
  POST /api/preview         Upload a file (form field "file") and list its issues
  POST /api/fix             Upload a file and get a report plus a download id
  GET  /api/download/:id    Download the corrected file

The server stops gracefully on SIGINT or SIGTERM.

Example:
  srtfix serve --listen 127.0.0.1:8080`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, g, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Listen, "listen", "", "Address to listen on (default from config, \":8080\")")
	cmd.Flags().StringVar(&opts.WorkDir, "work-dir", "", "Directory for corrected files (default: a temporary directory)")

	return cmd
}

func runServe(cmd *cobra.Command, g *GlobalOptions, opts *ServeOptions) error {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}

	cfg, err := g.loadConfig(parent)
	if err != nil {
		return err
	}
	if opts.Listen != "" {
		cfg.Server.Listen = opts.Listen
	}
	if opts.WorkDir != "" {
		cfg.Server.WorkDir = opts.WorkDir
	}

	srv, err := server.New(cfg, server.WithVersion(Version))
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(cfg.Server.Listen)
	}()

	select {
	case err := <-errCh:
		// Listening failed; still release the work directory.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return errors.Join(err, srv.Shutdown(shutdownCtx))
	case <-ctx.Done():
	}

	slog.Info("shutting down server", "timeout", cfg.Server.ShutdownTimeout)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return <-errCh
}
