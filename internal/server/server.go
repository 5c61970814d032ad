// Package server is the HTTP front end: upload a subtitle file, preview or
// fix its timestamp lines, and download the corrected file.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/ccollicutt/srtfix/pkg/config"
	"github.com/ccollicutt/srtfix/pkg/srtfile"
	"github.com/ccollicutt/srtfix/pkg/webhook"
)

// Server serves the upload API.
type Server struct {
	cfg        *config.Config
	lineEnding srtfile.LineEnding
	version    string

	echo     *echo.Echo
	notifier *webhook.Client

	workDir string
	ownsDir bool
}

// Option configures the Server.
type Option func(*Server)

// WithVersion sets the version reported by /health.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

// WithWebhookClient replaces the client used to notify configured webhooks.
func WithWebhookClient(c *webhook.Client) Option {
	return func(s *Server) {
		s.notifier = c
	}
}

// New creates a Server from a validated configuration. The work directory
// is created if needed; when none is configured a temporary one is used
// and removed on Shutdown.
func New(cfg *config.Config, opts ...Option) (*Server, error) {
	le, err := srtfile.ParseLineEnding(cfg.Output.LineEnding)
	if err != nil {
		return nil, fmt.Errorf("output: %w", err)
	}

	s := &Server{
		cfg:        cfg,
		lineEnding: le,
		version:    "dev",
		notifier:   webhook.NewClient(),
		workDir:    cfg.Server.WorkDir,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.workDir == "" {
		dir, err := os.MkdirTemp("", "srtfix-")
		if err != nil {
			return nil, fmt.Errorf("creating work dir: %w", err)
		}
		s.workDir = dir
		s.ownsDir = true
	} else if err := os.MkdirAll(s.workDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating work dir: %w", err)
	}

	s.echo = s.routes()
	return s, nil
}

func (s *Server) routes() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(s.cfg.Server.MaxUploadSize))

	e.GET("/health", s.health)

	api := e.Group("/api")
	api.POST("/preview", s.preview)
	api.POST("/fix", s.fix)
	api.GET("/download/:id", s.download)

	return e
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// WorkDir returns the directory holding corrected files.
func (s *Server) WorkDir() string {
	return s.workDir
}

// Start listens on addr and blocks until the server stops. It returns nil
// after a graceful Shutdown.
func (s *Server) Start(addr string) error {
	slog.Info("starting server", "addr", addr, "version", s.version, "work_dir", s.workDir)
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests, waits for active ones, and removes a
// temporary work directory.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.echo.Shutdown(ctx)
	if s.ownsDir {
		if rmErr := os.RemoveAll(s.workDir); rmErr != nil {
			err = errors.Join(err, fmt.Errorf("removing work dir: %w", rmErr))
		}
	}
	return err
}
