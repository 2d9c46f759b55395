// Package server exposes the portfolio dashboard as a JSON API and serves the
// optional browser UI.
package server

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"portfoliodash/internal/config"
	"portfoliodash/internal/csvimport"
	"portfoliodash/internal/domain"
	slackbot "portfoliodash/internal/integrations/slack"
)

type Config = config.Config

// maxUploadSize bounds CSV uploads.
const maxUploadSize = "10M"

// Server owns the in-memory project collection. Uploads replace it
// wholesale; readers take a snapshot under the lock.
type Server struct {
	cfg   Config
	db    *sql.DB
	slack slackbot.Client
	e     *echo.Echo
	now   func() time.Time

	mu       sync.RWMutex
	records  []domain.ProjectRecord
	warnings []string
	source   string
	loadedAt time.Time
}

type Option func(*Server)

// WithSlack enables publishing reports to the configured channel.
func WithSlack(api slackbot.Client) Option {
	return func(s *Server) { s.slack = api }
}

// WithClock overrides the clock used for "today".
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

func New(cfg Config, db *sql.DB, opts ...Option) *Server {
	s := &Server{
		cfg:     cfg,
		db:      db,
		now:     time.Now,
		records: []domain.ProjectRecord{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.e = s.routes()
	return s
}

func (s *Server) Handler() http.Handler { return s.e }

func (s *Server) Start() error {
	log.Printf("HTTP server listening on %s", s.cfg.ListenAddr)
	return s.e.Start(s.cfg.ListenAddr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}

func (s *Server) today() domain.Date {
	loc := s.cfg.Location
	if loc == nil {
		loc = time.Local
	}
	return domain.DateOf(s.now().In(loc))
}

// LoadCSV parses text and, on success, replaces the current collection.
// A fatal parse error leaves the previous collection in place.
func (s *Server) LoadCSV(text, source string) (csvimport.Result, error) {
	res, err := csvimport.Parse(text)
	if err != nil {
		log.Printf("csv import source=%s error: %v", source, err)
		return res, err
	}
	records := res.Records
	if records == nil {
		records = []domain.ProjectRecord{}
	}
	s.mu.Lock()
	s.records = records
	s.warnings = res.Warnings
	s.source = source
	s.loadedAt = s.now()
	s.mu.Unlock()
	log.Printf("csv import source=%s records=%d warnings=%d", source, len(res.Records), len(res.Warnings))
	return res, nil
}

// Records returns the current collection. Callers must not modify it.
func (s *Server) Records() []domain.ProjectRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records
}

func (s *Server) routes() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Printf("http method=%s uri=%s status=%d latency=%s", v.Method, v.URI, v.Status, v.Latency.Round(time.Millisecond))
			return nil
		},
	}))

	api := e.Group("/api")
	api.POST("/projects/upload", s.handleUpload, middleware.BodyLimit(maxUploadSize))
	api.GET("/projects", s.handleProjects)
	api.GET("/dashboard", s.handleDashboard)

	api.GET("/detailed-projects", s.handleListDetailed)
	api.POST("/detailed-projects", s.handleCreateDetailed)
	api.GET("/detailed-projects/:id", s.handleGetDetailed)
	api.PUT("/detailed-projects/:id", s.handleUpdateDetailed)
	api.DELETE("/detailed-projects/:id", s.handleDeleteDetailed)
	api.GET("/detailed-projects/:id/health", s.handleDetailedHealth)

	api.GET("/key-facts", s.handleListKeyFacts)
	api.POST("/key-facts", s.handleAddKeyFact)
	api.DELETE("/key-facts/:id", s.handleDeleteKeyFact)
	api.GET("/next-steps", s.handleListNextSteps)
	api.POST("/next-steps", s.handleAddNextStep)
	api.DELETE("/next-steps/:id", s.handleDeleteNextStep)

	api.POST("/risk-analysis", s.handleRiskAnalysis)
	api.GET("/report", s.handleReport)
	api.POST("/report/publish", s.handlePublishReport)
	api.GET("/export.xlsx", s.handleExport)

	s.serveUI(e)
	return e
}

// serveUI serves a built SPA from ui_dir when present. Unknown non-API
// paths fall back to index.html for client-side routing.
func (s *Server) serveUI(e *echo.Echo) {
	uiDir := s.cfg.UIDir
	if uiDir == "" {
		return
	}
	indexPath := filepath.Join(uiDir, "index.html")
	fi, err := os.Stat(indexPath)
	if err != nil || fi.IsDir() {
		log.Printf("UI disabled: %s not found", indexPath)
		return
	}
	e.Static("/", uiDir)
	e.GET("/", func(c echo.Context) error { return c.File(indexPath) })

	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if he, ok := err.(*echo.HTTPError); ok && he.Code == http.StatusNotFound {
			if !strings.HasPrefix(c.Request().URL.Path, "/api") {
				_ = c.File(indexPath)
				return
			}
		}
		e.DefaultHTTPErrorHandler(err, c)
	}
}

func jsonError(c echo.Context, code int, err error, message string) error {
	return c.JSON(code, map[string]any{
		"error":   err.Error(),
		"path":    c.Request().URL.Path,
		"message": message,
	})
}
