package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"portfoliodash/internal/aggregate"
	"portfoliodash/internal/csvimport"
	"portfoliodash/internal/domain"
)

type uploadResponse struct {
	Records  int      `json:"records"`
	Warnings []string `json:"warnings"`
	Source   string   `json:"source"`
}

// handleUpload accepts a multipart "file" field or the raw CSV as body.
func (s *Server) handleUpload(c echo.Context) error {
	text, source, err := readUpload(c)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, err, "could not read uploaded file")
	}
	res, err := s.LoadCSV(text, source)
	if err != nil {
		if errors.Is(err, csvimport.ErrParse) {
			return jsonError(c, http.StatusUnprocessableEntity, err, "the file is not a valid project export")
		}
		return jsonError(c, http.StatusInternalServerError, err, "failed to import CSV")
	}
	warnings := res.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	return c.JSON(http.StatusOK, uploadResponse{Records: len(res.Records), Warnings: warnings, Source: source})
}

func readUpload(c echo.Context) (string, string, error) {
	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		fh, err := c.FormFile("file")
		if err != nil {
			return "", "", err
		}
		f, err := fh.Open()
		if err != nil {
			return "", "", err
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			return "", "", err
		}
		return string(data), fh.Filename, nil
	}
	data, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return "", "", err
	}
	if len(data) == 0 {
		return "", "", fmt.Errorf("empty request body")
	}
	return string(data), "upload", nil
}

type projectsResponse struct {
	Records  []domain.ProjectRecord `json:"records"`
	Warnings []string               `json:"warnings"`
	Source   string                 `json:"source"`
	LoadedAt *time.Time             `json:"loaded_at,omitempty"`
}

func (s *Server) handleProjects(c echo.Context) error {
	s.mu.RLock()
	resp := projectsResponse{Records: s.records, Warnings: s.warnings, Source: s.source}
	if !s.loadedAt.IsZero() {
		loaded := s.loadedAt
		resp.LoadedAt = &loaded
	}
	s.mu.RUnlock()
	if resp.Warnings == nil {
		resp.Warnings = []string{}
	}
	return c.JSON(http.StatusOK, resp)
}

func bindFilter(c echo.Context) (aggregate.Filter, error) {
	var f aggregate.Filter
	err := (&echo.DefaultBinder{}).BindQueryParams(c, &f)
	return f, err
}

func (s *Server) handleDashboard(c echo.Context) error {
	f, err := bindFilter(c)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, err, "invalid filter")
	}
	return c.JSON(http.StatusOK, aggregate.Build(s.Records(), f))
}
