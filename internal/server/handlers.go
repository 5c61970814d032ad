package server

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/ccollicutt/srtfix/pkg/fixer"
	"github.com/ccollicutt/srtfix/pkg/output"
	"github.com/ccollicutt/srtfix/pkg/srtfile"
	"github.com/ccollicutt/srtfix/pkg/webhook"
)

// PreviewResponse is returned by POST /api/preview.
type PreviewResponse struct {
	IssuesCount int            `json:"issues_count"`
	Issues      []fixer.Issue  `json:"issues"`
	Summary     output.Summary `json:"summary"`
}

// FixResponse is returned by POST /api/fix.
type FixResponse struct {
	DownloadID string         `json:"download_id"`
	Filename   string         `json:"filename"`
	Report     *output.Report `json:"report"`
}

// GET /health
func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"version": s.version,
	})
}

// POST /api/preview
func (s *Server) preview(c echo.Context) error {
	doc, name, err := s.upload(c)
	if err != nil {
		return err
	}

	f := fixer.New(fixer.WithDryRun(true), fixer.WithSource(name))
	result, err := f.Fix(c.Request().Context(), doc.Texts())
	if err != nil {
		return err
	}

	report := output.NewReport(result)
	return c.JSON(http.StatusOK, PreviewResponse{
		IssuesCount: report.Summary.IssuesCount,
		Issues:      report.Preview(s.cfg.PreviewLimit),
		Summary:     report.Summary,
	})
}

// POST /api/fix
func (s *Server) fix(c echo.Context) error {
	ctx := c.Request().Context()

	doc, name, err := s.upload(c)
	if err != nil {
		return err
	}

	result, err := fixer.New(fixer.WithSource(name)).Fix(ctx, doc.Texts())
	if err != nil {
		return err
	}
	if err := doc.SetTexts(result.Lines); err != nil {
		return err
	}

	id := uuid.NewString()
	filename := srtfile.OutputPath(name, s.cfg.Output.Suffix)
	path := filepath.Join(s.workDir, id+"_"+filename)
	if err := srtfile.WriteFile(path, doc.Bytes(s.lineEnding)); err != nil {
		slog.Error("storing fixed file", "err", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to store fixed file")
	}

	report := output.NewReport(result)
	report.Metadata.Output = filename

	s.notifier.Notify(ctx, s.cfg.Webhooks, webhook.EventFix, report)

	return c.JSON(http.StatusOK, FixResponse{
		DownloadID: id,
		Filename:   filename,
		Report:     report,
	})
}

// GET /api/download/:id
// A fixed file can be downloaded once; it is removed after it was sent.
func (s *Server) download(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid download id")
	}

	prefix := id.String() + "_"
	entries, err := os.ReadDir(s.workDir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if name, ok := strings.CutPrefix(entry.Name(), prefix); ok && !entry.IsDir() {
			path := filepath.Join(s.workDir, entry.Name())
			if err := c.Attachment(path, name); err != nil {
				return err
			}
			if err := os.Remove(path); err != nil {
				slog.Warn("removing downloaded file", "path", path, "err", err)
			}
			return nil
		}
	}

	return echo.NewHTTPError(http.StatusNotFound, "file not found")
}

// upload reads and decodes the multipart "file" field. Client mistakes
// come back as 400 *echo.HTTPError values.
func (s *Server) upload(c echo.Context) (*srtfile.Document, string, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, "", echo.NewHTTPError(http.StatusBadRequest, "no file uploaded")
	}

	name := filepath.Base(fh.Filename)
	if ext := strings.ToLower(filepath.Ext(name)); !slices.Contains(s.cfg.Server.AllowedExtensions, ext) {
		return nil, "", echo.NewHTTPError(http.StatusBadRequest,
			fmt.Sprintf("unsupported file type %q (allowed: %s)", ext, strings.Join(s.cfg.Server.AllowedExtensions, ", ")))
	}

	f, err := fh.Open()
	if err != nil {
		return nil, "", fmt.Errorf("opening upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, "", fmt.Errorf("reading upload: %w", err)
	}

	doc, err := srtfile.Parse(data, name)
	if err != nil {
		var decodeErr *srtfile.DecodeError
		if errors.As(err, &decodeErr) {
			return nil, "", echo.NewHTTPError(http.StatusBadRequest, decodeErr.Error())
		}
		return nil, "", err
	}

	return doc, name, nil
}
