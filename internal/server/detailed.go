package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"portfoliodash/internal/domain"
	"portfoliodash/internal/storage/sqlite"
	"portfoliodash/internal/timeline"
)

func storageError(c echo.Context, err error) error {
	if errors.Is(err, sqlite.ErrNotFound) {
		return jsonError(c, http.StatusNotFound, err, "not found")
	}
	return jsonError(c, http.StatusInternalServerError, err, "storage error")
}

func (s *Server) handleListDetailed(c echo.Context) error {
	projects, err := sqlite.ListDetailedProjects(s.db)
	if err != nil {
		return storageError(c, err)
	}
	return c.JSON(http.StatusOK, projects)
}

type createDetailedRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleCreateDetailed(c echo.Context) error {
	var req createDetailedRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, err, "invalid request body")
	}
	p, err := sqlite.CreateDetailedProject(s.db, req.Name)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, err, "could not create project")
	}
	return c.JSON(http.StatusCreated, p)
}

func (s *Server) handleGetDetailed(c echo.Context) error {
	p, err := sqlite.GetDetailedProject(s.db, c.Param("id"))
	if err != nil {
		return storageError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// handleUpdateDetailed replaces the whole project; the ID comes from the path.
func (s *Server) handleUpdateDetailed(c echo.Context) error {
	var p domain.DetailedProject
	if err := c.Bind(&p); err != nil {
		return jsonError(c, http.StatusBadRequest, err, "invalid request body")
	}
	p.ID = c.Param("id")
	saved, err := sqlite.SaveDetailedProject(s.db, p)
	if err != nil {
		if errors.Is(err, sqlite.ErrNotFound) {
			return storageError(c, err)
		}
		return jsonError(c, http.StatusBadRequest, err, "could not save project")
	}
	return c.JSON(http.StatusOK, saved)
}

func (s *Server) handleDeleteDetailed(c echo.Context) error {
	if err := sqlite.DeleteDetailedProject(s.db, c.Param("id")); err != nil {
		return storageError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleDetailedHealth(c echo.Context) error {
	p, err := sqlite.GetDetailedProject(s.db, c.Param("id"))
	if err != nil {
		return storageError(c, err)
	}
	return c.JSON(http.StatusOK, timeline.Analyze(p, s.today()))
}
