package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"portfoliodash/internal/domain"
	"portfoliodash/internal/integrations/llm"
	"portfoliodash/internal/storage/sqlite"
	"portfoliodash/internal/timeline"
)

var (
	analyzeProjectRiskFn  = llm.AnalyzeProjectRisk
	analyzeDetailedRiskFn = llm.AnalyzeDetailedRisk
)

type riskRequest struct {
	Client            string `json:"client"`
	DetailedProjectID string `json:"detailed_project_id"`
}

type riskResponse struct {
	Target   string `json:"target"`
	Analysis string `json:"analysis"`
}

// handleRiskAnalysis answers 200 whenever a target is found; provider
// failures surface as the fallback text.
func (s *Server) handleRiskAnalysis(c echo.Context) error {
	var req riskRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, err, "invalid request body")
	}
	req.Client = strings.TrimSpace(req.Client)
	req.DetailedProjectID = strings.TrimSpace(req.DetailedProjectID)
	ctx := c.Request().Context()

	switch {
	case req.DetailedProjectID != "":
		p, err := sqlite.GetDetailedProject(s.db, req.DetailedProjectID)
		if err != nil {
			return storageError(c, err)
		}
		return c.JSON(http.StatusOK, riskResponse{Target: p.Name, Analysis: s.analyzeDetailed(ctx, p)})
	case req.Client != "":
		rec, ok := s.findRecord(req.Client)
		if !ok {
			return jsonError(c, http.StatusNotFound, fmt.Errorf("client %q not loaded", req.Client), "no project for this client in the current file")
		}
		return c.JSON(http.StatusOK, riskResponse{Target: rec.Client, Analysis: analyzeProjectRiskFn(ctx, s.cfg, rec)})
	default:
		return jsonError(c, http.StatusBadRequest, fmt.Errorf("missing target"), "client or detailed_project_id is required")
	}
}

func (s *Server) analyzeDetailed(ctx context.Context, p domain.DetailedProject) string {
	return analyzeDetailedRiskFn(ctx, s.cfg, p, timeline.Analyze(p, s.today()))
}

// findRecord prefers an exact client match and falls back to a
// case-insensitive one.
func (s *Server) findRecord(client string) (domain.ProjectRecord, bool) {
	records := s.Records()
	for _, r := range records {
		if r.Client == client {
			return r, true
		}
	}
	for _, r := range records {
		if strings.EqualFold(r.Client, client) {
			return r, true
		}
	}
	return domain.ProjectRecord{}, false
}
