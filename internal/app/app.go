package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/slack-go/slack"

	"portfoliodash/internal/config"
	"portfoliodash/internal/httpx"
	"portfoliodash/internal/schedule"
	"portfoliodash/internal/server"
	"portfoliodash/internal/storage/sqlite"
)

const shutdownTimeout = 10 * time.Second

// Serve runs the dashboard until ctx is cancelled or the listener fails.
func Serve(ctx context.Context, cfg config.Config) error {
	appliedHTTPTimeout := httpx.ConfigureExternalHTTPClient(cfg.ExternalHTTPTimeoutSeconds)
	log.Printf(
		"Config loaded. Listen=%s DB=%s UIDir=%s LLMProvider=%s Timezone=%s ReportSchedule=%q Slack=%t ExternalHTTPTimeout=%s",
		cfg.ListenAddr,
		cfg.DBPath,
		cfg.UIDir,
		cfg.LLMProvider,
		cfg.Timezone,
		cfg.ReportSchedule,
		cfg.SlackConfigured(),
		appliedHTTPTimeout,
	)

	db, err := sqlite.InitDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	log.Printf("Database initialized at %s", cfg.DBPath)
	defer db.Close()

	if err := os.MkdirAll(cfg.ReportOutputDir, 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	log.Printf("Report output dir: %s", cfg.ReportOutputDir)

	var opts []server.Option
	if cfg.SlackConfigured() {
		opts = append(opts, server.WithSlack(slack.New(cfg.SlackBotToken, slack.OptionHTTPClient(httpx.ExternalHTTPClient()))))
	}
	srv := server.New(cfg, db, opts...)

	if cfg.CSVPath != "" {
		data, err := os.ReadFile(cfg.CSVPath)
		if err != nil {
			log.Printf("csv preload path=%s error: %v", cfg.CSVPath, err)
		} else if _, err := srv.LoadCSV(string(data), cfg.CSVPath); err != nil {
			log.Printf("csv preload path=%s skipped", cfg.CSVPath)
		}
	}

	schedule.StartReportScheduler(ctx, cfg, srv.PublishReport)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Println("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
