package llm

import (
	"context"
	"fmt"
	"strings"

	"portfoliodash/internal/aggregate"
	"portfoliodash/internal/domain"
	"portfoliodash/internal/timeline"
)

const riskSystemPrompt = `You are a senior delivery manager reviewing an IT services project portfolio.
Write a short risk analysis (one paragraph, at most 120 words) for the project described by the user.
Point out schedule, scope and budget risks you can infer from the data and suggest one concrete mitigation.
Do not invent facts that are not in the data. Answer in plain text without headings or bullet lists.`

// AnalyzeProjectRisk asks the configured provider for a risk paragraph about
// one imported project record.
func AnalyzeProjectRisk(ctx context.Context, cfg Config, rec domain.ProjectRecord) string {
	return analyze(ctx, cfg, "project", riskSystemPrompt, buildProjectRiskPrompt(rec))
}

// AnalyzeDetailedRisk does the same for a monitored project, including its
// timeline and hours consumption.
func AnalyzeDetailedRisk(ctx context.Context, cfg Config, p domain.DetailedProject, health timeline.ProjectHealth) string {
	return analyze(ctx, cfg, "detailed", riskSystemPrompt, buildDetailedRiskPrompt(p, health))
}

func buildProjectRiskPrompt(rec domain.ProjectRecord) string {
	var b strings.Builder
	b.WriteString("Project record:\n")
	writeField(&b, "Client", rec.Client)
	writeField(&b, "Project type", rec.ProjectType)
	writeField(&b, "Product type", rec.ProductType)
	writeField(&b, "Business unit", rec.BU)
	writeField(&b, "Cost center", rec.CostCenter)
	writeField(&b, "Status", rec.Status)
	if rec.Percentage != nil {
		writeField(&b, "Completion", aggregate.FormatPercent(*rec.Percentage))
	} else {
		writeField(&b, "Completion", "")
	}
	return b.String()
}

func buildDetailedRiskPrompt(p domain.DetailedProject, h timeline.ProjectHealth) string {
	var b strings.Builder
	b.WriteString("Monitored project:\n")
	writeField(&b, "Name", p.Name)
	if p.StartDate != nil {
		writeField(&b, "Start date", p.StartDate.String())
	}
	if p.EndDate != nil {
		writeField(&b, "End date", p.EndDate.String())
	}
	writeField(&b, "Timeline", fmt.Sprintf("%s (%s of the planned period elapsed)", h.Timeline.Status, aggregate.FormatPercent(h.Timeline.Percent)))
	writeField(&b, "Overall progress", aggregate.FormatPercent(h.OverallProgress))

	if len(p.Steps) > 0 {
		b.WriteString("\nSteps:\n")
		for _, s := range p.Steps {
			fmt.Fprintf(&b, "- %s: %s\n", s.Name, aggregate.FormatPercent(s.Percentage))
		}
	}

	b.WriteString("\nHours by business unit (used / sold):\n")
	for _, r := range h.Hours {
		fmt.Fprintf(&b, "- %s: %s / %s (%s)\n", r.Label, formatHours(r.Used), formatHours(r.Sold), r.Level)
	}
	fmt.Fprintf(&b, "- Total: %s / %s\n", formatHours(h.UsedTotal), formatHours(h.SoldTotal))
	return b.String()
}

func writeField(b *strings.Builder, label, value string) {
	if strings.TrimSpace(value) == "" {
		value = "N/A"
	}
	fmt.Fprintf(b, "%s: %s\n", label, value)
}

func formatHours(h float64) string {
	return fmt.Sprintf("%.1fh", h)
}
