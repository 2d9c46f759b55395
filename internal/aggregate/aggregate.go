package aggregate

import (
	"sort"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"portfoliodash/internal/classify"
	"portfoliodash/internal/domain"
)

const notAvailable = "N/A"

// Filter selects records by exact equality. Empty fields match everything.
type Filter struct {
	Status string `json:"status" query:"status"`
	BU     string `json:"bu" query:"bu"`
	Client string `json:"client" query:"client"`
}

func (f Filter) Match(r domain.ProjectRecord) bool {
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	if f.BU != "" && r.BU != f.BU {
		return false
	}
	if f.Client != "" && r.Client != f.Client {
		return false
	}
	return true
}

func Apply(records []domain.ProjectRecord, f Filter) []domain.ProjectRecord {
	return lo.Filter(records, func(r domain.ProjectRecord, _ int) bool { return f.Match(r) })
}

// Options holds the filter choices, always computed over the full dataset.
type Options struct {
	Statuses []string `json:"statuses"`
	BUs      []string `json:"bus"`
	Clients  []string `json:"clients"`
}

type Dashboard struct {
	Filter      Filter                 `json:"filter"`
	Summary     domain.Summary         `json:"summary"`
	StatusChart []domain.ChartDatum    `json:"status_chart"`
	BUChart     []domain.ChartDatum    `json:"bu_chart"`
	Options     Options                `json:"options"`
	Records     []domain.ProjectRecord `json:"records"`
}

// Build computes the dashboard view model for the filtered subset of all.
func Build(all []domain.ProjectRecord, f Filter) Dashboard {
	filtered := Apply(all, f)
	return Dashboard{
		Filter:      f,
		Summary:     Summarize(filtered),
		StatusChart: StatusChart(filtered),
		BUChart:     BUChart(filtered),
		Options:     FilterOptions(all),
		Records:     filtered,
	}
}

func Summarize(records []domain.ProjectRecord) domain.Summary {
	s := domain.Summary{Total: len(records)}

	// Nil percentages are left out of the average, not counted as zero.
	percentages := lo.FilterMap(records, func(r domain.ProjectRecord, _ int) (float64, bool) {
		if r.Percentage == nil {
			return 0, false
		}
		return *r.Percentage, true
	})
	if len(percentages) > 0 {
		s.AveragePercentage = lo.Sum(percentages) / float64(len(percentages))
	}
	s.AverageLabel = FormatPercent(s.AveragePercentage)

	for _, r := range records {
		switch classify.Status(r.Status) {
		case classify.StatusFinished:
			s.Finished++
		case classify.StatusInProgress:
			s.InProgress++
		case classify.StatusPaused:
			s.Paused++
		case classify.StatusNotStarted:
			s.NotStarted++
		}
	}
	return s
}

// FormatPercent renders v with one decimal place, e.g. "75.0%". Rounding
// works on the exact binary value, so 0.35 (stored just below) gives "0.3%".
func FormatPercent(v float64) string {
	return decimal.NewFromFloatWithExponent(v, -30).StringFixed(1) + "%"
}

func StatusChart(records []domain.ProjectRecord) []domain.ChartDatum {
	return tally(records, func(r domain.ProjectRecord) string { return r.Status }, classify.StatusColor)
}

func BUChart(records []domain.ProjectRecord) []domain.ChartDatum {
	return tally(records, func(r domain.ProjectRecord) string { return r.BU }, classify.BUColor)
}

// tally counts literal values in first-seen order.
func tally(records []domain.ProjectRecord, key func(domain.ProjectRecord) string, color func(string) string) []domain.ChartDatum {
	labels := lo.Map(records, func(r domain.ProjectRecord, _ int) string {
		if v := key(r); v != "" {
			return v
		}
		return notAvailable
	})
	counts := lo.CountValues(labels)
	return lo.Map(lo.Uniq(labels), func(label string, _ int) domain.ChartDatum {
		return domain.ChartDatum{Label: label, Count: counts[label], Color: color(label)}
	})
}

func FilterOptions(all []domain.ProjectRecord) Options {
	return Options{
		Statuses: distinctSorted(all, func(r domain.ProjectRecord) string { return r.Status }),
		BUs:      distinctSorted(all, func(r domain.ProjectRecord) string { return r.BU }),
		Clients:  distinctSorted(all, func(r domain.ProjectRecord) string { return r.Client }),
	}
}

func distinctSorted(records []domain.ProjectRecord, key func(domain.ProjectRecord) string) []string {
	values := lo.Uniq(lo.FilterMap(records, func(r domain.ProjectRecord, _ int) (string, bool) {
		v := key(r)
		return v, v != ""
	}))
	sort.Strings(values)
	return values
}
