package server

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/labstack/echo/v4"

	"portfoliodash/internal/aggregate"
	"portfoliodash/internal/export"
	slackbot "portfoliodash/internal/integrations/slack"
	"portfoliodash/internal/report"
)

func (s *Server) buildDeck(f aggregate.Filter) (report.Deck, error) {
	dash := aggregate.Build(s.Records(), f)
	return report.Compose(s.db, s.cfg.ReportTitle, s.today(), dash)
}

func (s *Server) handleReport(c echo.Context) error {
	f, err := bindFilter(c)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, err, "invalid filter")
	}
	deck, err := s.buildDeck(f)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, err, "failed to build report")
	}
	switch strings.ToLower(c.QueryParam("format")) {
	case "", "md", "markdown":
		return c.Blob(http.StatusOK, "text/markdown; charset=utf-8", []byte(report.RenderMarkdown(deck)))
	case "html":
		out, err := report.RenderHTML(deck)
		if err != nil {
			return jsonError(c, http.StatusInternalServerError, err, "failed to render report")
		}
		return c.HTML(http.StatusOK, out)
	default:
		return jsonError(c, http.StatusBadRequest, fmt.Errorf("unknown format %q", c.QueryParam("format")), "format must be md or html")
	}
}

type publishResponse struct {
	Path      string `json:"path"`
	Published bool   `json:"published"`
}

func (s *Server) handlePublishReport(c echo.Context) error {
	path, published, err := s.publish(c.Request().Context())
	if err != nil {
		return jsonError(c, http.StatusBadGateway, err, "failed to publish report")
	}
	return c.JSON(http.StatusOK, publishResponse{Path: path, Published: published})
}

// PublishReport writes the unfiltered deck to the report directory and, when
// Slack is configured, posts it to the report channel.
func (s *Server) PublishReport(ctx context.Context) error {
	_, _, err := s.publish(ctx)
	return err
}

func (s *Server) publish(ctx context.Context) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	deck, err := s.buildDeck(aggregate.Filter{})
	if err != nil {
		return "", false, err
	}
	md := report.RenderMarkdown(deck)
	if err := os.MkdirAll(s.cfg.ReportOutputDir, 0o755); err != nil {
		return "", false, fmt.Errorf("create report dir: %w", err)
	}
	path, err := report.WriteReportFile(md, s.cfg.ReportOutputDir, deck.Date, deck.Title, "md")
	if err != nil {
		return "", false, err
	}
	log.Printf("report written path=%s slides=%d", path, len(deck.Slides))

	if s.slack == nil || !s.cfg.SlackConfigured() {
		return path, false, nil
	}
	if err := slackbot.PublishReport(s.slack, s.cfg.ReportChannelID, deck.Title, md, path); err != nil {
		return path, false, err
	}
	log.Printf("report published channel=%s", s.cfg.ReportChannelID)
	return path, true, nil
}

func (s *Server) handleExport(c echo.Context) error {
	f, err := bindFilter(c)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, err, "invalid filter")
	}
	dash := aggregate.Build(s.Records(), f)
	views, err := report.LoadProjectViews(s.db, s.today())
	if err != nil {
		return storageError(c, err)
	}
	var buf bytes.Buffer
	if err := export.Write(&buf, dash, views); err != nil {
		return jsonError(c, http.StatusInternalServerError, err, "failed to build workbook")
	}
	name := fmt.Sprintf("portfolio_%s.xlsx", strings.ReplaceAll(s.today().String(), "-", ""))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
