// Package timeline derives schedule progress and hours risk for detailed projects.
package timeline

import (
	"fmt"
	"math"
	"time"

	"github.com/samber/lo"

	"portfoliodash/internal/domain"
)

const day = 24 * time.Hour

const StatusDatesUndefined = "Dates undefined"

// Compute places today on the [start, end] interval. Dates are compared as
// UTC midnights so every day is exactly 24h long.
func Compute(start, end *domain.Date, today domain.Date) domain.TimelineInfo {
	if start == nil || end == nil || start.After(*end) {
		return domain.TimelineInfo{State: domain.TimelineUndefined, Status: StatusDatesUndefined}
	}

	s, e, now := start.Time(), end.Time(), today.Time()
	total := e.Sub(s)

	var percent float64
	if total <= 0 {
		if !now.Before(e) {
			percent = 100
		}
	} else {
		percent = clamp(float64(now.Sub(s))/float64(total)*100, 0, 100)
	}

	remaining := ceilDays(e.Sub(now))
	info := domain.TimelineInfo{Percent: percent, RemainingDays: remaining}

	switch {
	case now.After(e):
		info.State = domain.TimelineFinished
		n := abs(remaining)
		if n == 0 {
			info.Status = "Finishes today"
		} else {
			info.Status = fmt.Sprintf("Finished %s ago", pluralDays(n))
		}
	case now.Before(s):
		info.State = domain.TimelineUpcoming
		info.Status = fmt.Sprintf("Starts in %s", pluralDays(ceilDays(s.Sub(now))))
	default:
		info.State = domain.TimelineRunning
		if remaining == 0 {
			info.Status = "Finishes today"
		} else {
			info.Status = fmt.Sprintf("%s remaining", pluralDays(remaining))
		}
	}
	return info
}

func ceilDays(d time.Duration) int {
	return int(math.Ceil(float64(d) / float64(day)))
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

func clamp(v, low, high float64) float64 {
	return math.Max(low, math.Min(high, v))
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// OverallProgress is the mean step percentage, 0 with no steps.
func OverallProgress(steps []domain.Step) float64 {
	if len(steps) == 0 {
		return 0
	}
	return lo.SumBy(steps, func(s domain.Step) float64 { return s.Percentage }) / float64(len(steps))
}

func TotalHours(h domain.BuHours) float64 {
	return lo.SumBy(domain.BUs, func(b domain.BU) float64 { return h.Get(b) })
}

type RiskLevel string

const (
	RiskNormal   RiskLevel = "normal"
	RiskAtRisk   RiskLevel = "at-risk"
	RiskExceeded RiskLevel = "exceeded"
)

// AtRiskRatio is the used/sold ratio from which a bucket is flagged.
const AtRiskRatio = 0.8

func (r RiskLevel) Color() string {
	switch r {
	case RiskExceeded:
		return "#dc3545"
	case RiskAtRisk:
		return "#ffc107"
	default:
		return "#28a745"
	}
}

// HoursRisk classifies one bucket. Buckets with nothing sold are never flagged.
func HoursRisk(sold, used float64) RiskLevel {
	if sold <= 0 {
		return RiskNormal
	}
	if used > sold {
		return RiskExceeded
	}
	if used/sold >= AtRiskRatio {
		return RiskAtRisk
	}
	return RiskNormal
}

type BURisk struct {
	BU    domain.BU `json:"bu"`
	Label string    `json:"label"`
	Sold  float64   `json:"sold"`
	Used  float64   `json:"used"`
	Level RiskLevel `json:"level"`
	Color string    `json:"color"`
}

// ProjectHealth is the derived, non-persisted view of one detailed project.
type ProjectHealth struct {
	Timeline        domain.TimelineInfo `json:"timeline"`
	OverallProgress float64             `json:"overall_progress"`
	SoldTotal       float64             `json:"sold_total"`
	UsedTotal       float64             `json:"used_total"`
	Hours           []BURisk            `json:"hours"`
}

func Analyze(p domain.DetailedProject, today domain.Date) ProjectHealth {
	return ProjectHealth{
		Timeline:        Compute(p.StartDate, p.EndDate, today),
		OverallProgress: OverallProgress(p.Steps),
		SoldTotal:       TotalHours(p.SoldHours),
		UsedTotal:       TotalHours(p.UsedHours),
		Hours: lo.Map(domain.BUs, func(b domain.BU, _ int) BURisk {
			sold, used := p.SoldHours.Get(b), p.UsedHours.Get(b)
			level := HoursRisk(sold, used)
			return BURisk{BU: b, Label: b.Label(), Sold: sold, Used: used, Level: level, Color: level.Color()}
		}),
	}
}

// WorstRisk returns the most severe level across buckets.
func (h ProjectHealth) WorstRisk() RiskLevel {
	worst := RiskNormal
	for _, r := range h.Hours {
		switch {
		case r.Level == RiskExceeded:
			return RiskExceeded
		case r.Level == RiskAtRisk:
			worst = RiskAtRisk
		}
	}
	return worst
}
