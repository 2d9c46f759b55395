package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"portfoliodash/internal/aggregate"
	"portfoliodash/internal/domain"
	"portfoliodash/internal/timeline"
)

func pct(v float64) *float64 { return &v }

func sampleDeck() Deck {
	records := []domain.ProjectRecord{
		{Client: "Acme", BU: "Infraestrutura", Status: "FINALIZADO", Percentage: pct(100)},
		{Client: "Globex", BU: "Segurança", Status: "EM ANDAMENTO", Percentage: pct(50)},
	}
	dash := aggregate.Build(records, aggregate.Filter{BU: "Segurança"})

	start := domain.NewDate(2024, time.January, 1)
	end := domain.NewDate(2024, time.January, 11)
	today := domain.NewDate(2024, time.January, 6)
	p := domain.DetailedProject{
		ID:        "p1",
		Name:      "Firewall | rollout",
		StartDate: &start,
		EndDate:   &end,
		Steps:     []domain.Step{{Name: "Design", Percentage: 100}, {Name: "Deploy", Percentage: 40}},
		SoldHours: domain.BuHours{Infra: 100, Security: 20},
		UsedHours: domain.BuHours{Infra: 85, Security: 25},
	}
	due := domain.NewDate(2024, time.January, 15)
	facts := []domain.KeyFact{{ID: "f1", Text: "Contract\nrenewed"}}
	steps := []domain.NextStep{{ID: "s1", Text: "Schedule cutover", Owner: "Ana", DueDate: &due}, {ID: "s2", Text: "Send summary"}}

	return BuildDeck("Portfolio Status Report", today, dash,
		[]ProjectView{{Project: p, Health: timeline.Analyze(p, today)}}, facts, steps)
}

func TestBuildDeckSlideOrder(t *testing.T) {
	deck := sampleDeck()
	var titles []string
	for _, s := range deck.Slides {
		titles = append(titles, s.Title)
	}
	want := []string{"Portfolio overview", "Firewall | rollout", "Key facts", "Next steps"}
	if strings.Join(titles, ",") != strings.Join(want, ",") {
		t.Fatalf("slides = %v, want %v", titles, want)
	}
}

func TestRenderMarkdown(t *testing.T) {
	md := RenderMarkdown(sampleDeck())
	for _, want := range []string{
		"# Portfolio Status Report\n\n_2024-01-06_",
		"_Filtered by BU Segurança._",
		"| Projects | 1 |",
		"| Average completion | 50.0% |",
		"| EM ANDAMENTO | 1 | `#007bff` |",
		"**Timeline:** 5 days remaining (50.0% elapsed)",
		"**Overall progress:** 70.0%",
		"**Hours:** 110.0h used of 120.0h sold",
		"| Infraestrutura | 100.0h | 85.0h | at-risk |",
		"| Segurança | 20.0h | 25.0h | exceeded |",
		"- Contract renewed",
		"| Schedule cutover | Ana | 2024-01-15 |",
		"| Send summary | - | - |",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("markdown missing %q:\n%s", want, md)
		}
	}
	if strings.Count(md, "\n---\n") != 4 {
		t.Fatalf("expected one separator per slide:\n%s", md)
	}
}

func TestRenderHTML(t *testing.T) {
	out, err := RenderHTML(sampleDeck())
	if err != nil {
		t.Fatalf("RenderHTML failed: %v", err)
	}
	if got := strings.Count(out, `<section class="slide`); got != 5 {
		t.Fatalf("expected title + 4 slides, got %d sections", got)
	}
	for _, want := range []string{
		"<h2>Firewall | rollout</h2>",
		"<table>",
		"<td>Design</td>",
		"<strong>Timeline:</strong>",
		"page-break-after: always",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("html missing %q", want)
		}
	}
}

func TestEmptyNotesSlides(t *testing.T) {
	deck := BuildDeck("T", domain.NewDate(2024, 1, 1), aggregate.Build(nil, aggregate.Filter{}), nil, nil, nil)
	if len(deck.Slides) != 3 {
		t.Fatalf("expected overview, key facts and next steps, got %d", len(deck.Slides))
	}
	md := RenderMarkdown(deck)
	for _, want := range []string{"_No key facts recorded._", "_No next steps recorded._", "_No projects._", "| Average completion | 0.0% |"} {
		if !strings.Contains(md, want) {
			t.Fatalf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestWriteReportFile(t *testing.T) {
	outDir := t.TempDir()
	date := domain.NewDate(2026, time.February, 20)

	path, err := WriteReportFile("hello report\n", outDir, date, "Portfolio Report", "")
	if err != nil {
		t.Fatalf("WriteReportFile failed: %v", err)
	}
	if !strings.HasSuffix(path, "Portfolio Report_20260220.md") {
		t.Fatalf("unexpected report file path: %s", path)
	}
	if data, err := os.ReadFile(path); err != nil || string(data) != "hello report\n" {
		t.Fatalf("unexpected report file content err=%v content=%q", err, string(data))
	}

	htmlPath, err := WriteReportFile("<html></html>", outDir, date, "Portfolio Report", ".html")
	if err != nil {
		t.Fatalf("WriteReportFile html failed: %v", err)
	}
	if filepath.Ext(htmlPath) != ".html" {
		t.Fatalf("unexpected html path: %s", htmlPath)
	}
}

func TestWriteReportFileSanitizesTitle(t *testing.T) {
	outDir := t.TempDir()
	date := domain.NewDate(2026, time.February, 20)

	path, err := WriteReportFile("x", outDir, date, "../Ops\\Team", "md")
	if err != nil {
		t.Fatalf("WriteReportFile failed: %v", err)
	}
	if filepath.Dir(path) != outDir {
		t.Fatalf("report escaped output dir: %s", path)
	}
	if base := filepath.Base(path); strings.ContainsAny(base, `/\`) || !strings.HasSuffix(base, "_20260220.md") {
		t.Fatalf("unexpected sanitized report file name: %s", base)
	}

	path, err = WriteReportFile("x", outDir, date, " .. ", "md")
	if err != nil {
		t.Fatalf("WriteReportFile failed: %v", err)
	}
	if filepath.Base(path) != "report_20260220.md" {
		t.Fatalf("expected fallback name, got %s", filepath.Base(path))
	}
}

func TestFormatHoursRoundsExactValue(t *testing.T) {
	tests := map[float64]string{
		0:    "0.0h",
		12.5: "12.5h",
		0.35: "0.3h",
		8.25: "8.3h",
	}
	for in, want := range tests {
		if got := FormatHours(in); got != want {
			t.Fatalf("FormatHours(%v) = %q, want %q", in, got, want)
		}
	}
}
