// Package report assembles the portfolio status deck and renders it as
// Markdown or HTML.
package report

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"portfoliodash/internal/aggregate"
	"portfoliodash/internal/domain"
	"portfoliodash/internal/timeline"
)

type Slide struct {
	Title string `json:"title"`
	Body  string `json:"body"` // Markdown
}

type Deck struct {
	Title  string      `json:"title"`
	Date   domain.Date `json:"date"`
	Slides []Slide     `json:"slides"`
}

// ProjectView pairs a detailed project with its derived health.
type ProjectView struct {
	Project domain.DetailedProject
	Health  timeline.ProjectHealth
}

// BuildDeck lays out the slides in presentation order: overview, one slide
// per monitored project, key facts, next steps.
func BuildDeck(title string, date domain.Date, dash aggregate.Dashboard, projects []ProjectView, facts []domain.KeyFact, steps []domain.NextStep) Deck {
	deck := Deck{Title: title, Date: date}
	deck.Slides = append(deck.Slides, overviewSlide(dash))
	for _, pv := range projects {
		deck.Slides = append(deck.Slides, projectSlide(pv))
	}
	deck.Slides = append(deck.Slides, keyFactsSlide(facts), nextStepsSlide(steps))
	return deck
}

func overviewSlide(dash aggregate.Dashboard) Slide {
	s := dash.Summary
	var b strings.Builder

	if filter := describeFilter(dash.Filter); filter != "" {
		fmt.Fprintf(&b, "_Filtered by %s._\n\n", filter)
	}
	b.WriteString("| Metric | Value |\n| --- | ---: |\n")
	fmt.Fprintf(&b, "| Projects | %d |\n", s.Total)
	fmt.Fprintf(&b, "| Average completion | %s |\n", s.AverageLabel)
	fmt.Fprintf(&b, "| Finished | %d |\n", s.Finished)
	fmt.Fprintf(&b, "| In progress | %d |\n", s.InProgress)
	fmt.Fprintf(&b, "| Paused | %d |\n", s.Paused)
	fmt.Fprintf(&b, "| Not started | %d |\n", s.NotStarted)

	writeChart(&b, "By status", "Status", dash.StatusChart)
	writeChart(&b, "By business unit", "BU", dash.BUChart)

	return Slide{Title: "Portfolio overview", Body: b.String()}
}

func describeFilter(f aggregate.Filter) string {
	var parts []string
	if f.Status != "" {
		parts = append(parts, "status "+f.Status)
	}
	if f.BU != "" {
		parts = append(parts, "BU "+f.BU)
	}
	if f.Client != "" {
		parts = append(parts, "client "+f.Client)
	}
	return strings.Join(parts, ", ")
}

func writeChart(b *strings.Builder, heading, column string, data []domain.ChartDatum) {
	fmt.Fprintf(b, "\n### %s\n\n", heading)
	if len(data) == 0 {
		b.WriteString("_No projects._\n")
		return
	}
	fmt.Fprintf(b, "| %s | Projects | Color |\n| --- | ---: | --- |\n", column)
	for _, d := range data {
		fmt.Fprintf(b, "| %s | %d | `%s` |\n", cell(d.Label), d.Count, d.Color)
	}
}

func projectSlide(pv ProjectView) Slide {
	p, h := pv.Project, pv.Health
	var b strings.Builder

	fmt.Fprintf(&b, "**Schedule:** %s to %s  \n", dateOrDash(p.StartDate), dateOrDash(p.EndDate))
	fmt.Fprintf(&b, "**Timeline:** %s (%s elapsed)  \n", h.Timeline.Status, aggregate.FormatPercent(h.Timeline.Percent))
	fmt.Fprintf(&b, "**Overall progress:** %s  \n", aggregate.FormatPercent(h.OverallProgress))
	fmt.Fprintf(&b, "**Hours:** %s used of %s sold\n", FormatHours(h.UsedTotal), FormatHours(h.SoldTotal))

	b.WriteString("\n### Steps\n\n")
	if len(p.Steps) == 0 {
		b.WriteString("_No steps defined._\n")
	} else {
		b.WriteString("| Step | Progress |\n| --- | ---: |\n")
		for _, s := range p.Steps {
			fmt.Fprintf(&b, "| %s | %s |\n", cell(s.Name), aggregate.FormatPercent(s.Percentage))
		}
	}

	b.WriteString("\n### Hours by business unit\n\n")
	b.WriteString("| BU | Sold | Used | Risk |\n| --- | ---: | ---: | --- |\n")
	for _, r := range h.Hours {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", r.Label, FormatHours(r.Sold), FormatHours(r.Used), r.Level)
	}

	return Slide{Title: p.Name, Body: b.String()}
}

func keyFactsSlide(facts []domain.KeyFact) Slide {
	if len(facts) == 0 {
		return Slide{Title: "Key facts", Body: "_No key facts recorded._\n"}
	}
	var b strings.Builder
	for _, f := range facts {
		fmt.Fprintf(&b, "- %s\n", oneLine(f.Text))
	}
	return Slide{Title: "Key facts", Body: b.String()}
}

func nextStepsSlide(steps []domain.NextStep) Slide {
	if len(steps) == 0 {
		return Slide{Title: "Next steps", Body: "_No next steps recorded._\n"}
	}
	var b strings.Builder
	b.WriteString("| Action | Owner | Due |\n| --- | --- | --- |\n")
	for _, s := range steps {
		owner := s.Owner
		if owner == "" {
			owner = "-"
		}
		fmt.Fprintf(&b, "| %s | %s | %s |\n", cell(s.Text), cell(owner), dateOrDash(s.DueDate))
	}
	return Slide{Title: "Next steps", Body: b.String()}
}

// FormatHours renders an hour count with one decimal place, e.g. "12.5h".
func FormatHours(h float64) string {
	return decimal.NewFromFloatWithExponent(h, -30).StringFixed(1) + "h"
}

func dateOrDash(d *domain.Date) string {
	if d == nil {
		return "-"
	}
	return d.String()
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// cell makes s safe inside a Markdown table cell.
func cell(s string) string {
	return strings.ReplaceAll(oneLine(s), "|", `\|`)
}
