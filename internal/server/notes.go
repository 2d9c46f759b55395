package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"portfoliodash/internal/domain"
	"portfoliodash/internal/storage/sqlite"
)

func (s *Server) handleListKeyFacts(c echo.Context) error {
	facts, err := sqlite.ListKeyFacts(s.db)
	if err != nil {
		return storageError(c, err)
	}
	return c.JSON(http.StatusOK, facts)
}

type keyFactRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleAddKeyFact(c echo.Context) error {
	var req keyFactRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, err, "invalid request body")
	}
	fact, err := sqlite.AddKeyFact(s.db, req.Text)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, err, "could not add key fact")
	}
	return c.JSON(http.StatusCreated, fact)
}

func (s *Server) handleDeleteKeyFact(c echo.Context) error {
	if err := sqlite.DeleteKeyFact(s.db, c.Param("id")); err != nil {
		return storageError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleListNextSteps(c echo.Context) error {
	steps, err := sqlite.ListNextSteps(s.db)
	if err != nil {
		return storageError(c, err)
	}
	return c.JSON(http.StatusOK, steps)
}

type nextStepRequest struct {
	Text    string       `json:"text"`
	Owner   string       `json:"owner"`
	DueDate *domain.Date `json:"due_date"`
}

func (s *Server) handleAddNextStep(c echo.Context) error {
	var req nextStepRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, err, "invalid request body")
	}
	step, err := sqlite.AddNextStep(s.db, req.Text, req.Owner, req.DueDate)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, err, "could not add next step")
	}
	return c.JSON(http.StatusCreated, step)
}

func (s *Server) handleDeleteNextStep(c echo.Context) error {
	if err := sqlite.DeleteNextStep(s.db, c.Param("id")); err != nil {
		return storageError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
