package schedule

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"portfoliodash/internal/config"
)

type Config = config.Config

// Job is one scheduled report run.
type Job func(ctx context.Context) error

// StartReportScheduler runs job on the report_schedule cron until ctx is done.
// It returns false when scheduling is disabled.
// Examples: "0 9 * * 1" (Mondays 9am), "0 18 * * 1-5" (weekdays 6pm).
func StartReportScheduler(ctx context.Context, cfg Config, job Job) bool {
	spec := strings.TrimSpace(cfg.ReportSchedule)
	if spec == "" {
		log.Println("Report scheduler disabled (report_schedule not set)")
		return false
	}
	sched, err := config.ParseSchedule(spec)
	if err != nil {
		log.Printf("Invalid report_schedule '%s': %v. Report scheduler disabled", spec, err)
		return false
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	log.Printf("Report scheduled (cron: %s)", spec)

	go run(ctx, sched, loc, job)
	return true
}

func run(ctx context.Context, sched cron.Schedule, loc *time.Location, job Job) {
	for {
		now := time.Now().In(loc)
		next := sched.Next(now)
		wait := next.Sub(now)
		log.Printf("Next scheduled report at %s (in %s)", next.Format("Mon Jan 2 15:04"), wait.Round(time.Minute))

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			log.Println("Report scheduler stopped")
			return
		case <-timer.C:
		}

		started := time.Now()
		if err := job(ctx); err != nil {
			log.Printf("Scheduled report error: %v", err)
			continue
		}
		log.Printf("Scheduled report complete in %s", time.Since(started).Round(time.Millisecond))
	}
}
