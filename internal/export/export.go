// Package export writes the portfolio dashboard to an XLSX workbook.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"portfoliodash/internal/aggregate"
	"portfoliodash/internal/classify"
	"portfoliodash/internal/domain"
	"portfoliodash/internal/report"
)

const (
	SheetProjects  = "Projects"
	SheetSummary   = "Summary"
	SheetMonitored = "Monitored"
)

// Exporter fills one workbook. Styles are created once per color.
type Exporter struct {
	wb     *excelize.File
	header int
	fills  map[string]int
}

func NewExporter() (*Exporter, error) {
	wb := excelize.NewFile()
	header, err := wb.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#343A40"}},
	})
	if err != nil {
		wb.Close()
		return nil, err
	}
	return &Exporter{wb: wb, header: header, fills: map[string]int{}}, nil
}

// Build writes the filtered records, the summary and the monitored projects.
func Build(dash aggregate.Dashboard, projects []report.ProjectView) (*excelize.File, error) {
	e, err := NewExporter()
	if err != nil {
		return nil, err
	}
	if err := e.writeProjects(dash); err != nil {
		e.wb.Close()
		return nil, err
	}
	if err := e.writeSummary(dash); err != nil {
		e.wb.Close()
		return nil, err
	}
	if err := e.writeMonitored(projects); err != nil {
		e.wb.Close()
		return nil, err
	}
	return e.wb, nil
}

// Write streams the workbook to w.
func Write(w io.Writer, dash aggregate.Dashboard, projects []report.ProjectView) error {
	wb, err := Build(dash, projects)
	if err != nil {
		return err
	}
	defer wb.Close()
	return wb.Write(w)
}

func SaveFile(path string, dash aggregate.Dashboard, projects []report.ProjectView) error {
	wb, err := Build(dash, projects)
	if err != nil {
		return err
	}
	defer wb.Close()
	if err := wb.SaveAs(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

func (e *Exporter) writeProjects(dash aggregate.Dashboard) error {
	if err := e.wb.SetSheetName("Sheet1", SheetProjects); err != nil {
		return err
	}
	headers := []any{"Client", "Project type", "Product type", "BU", "Cost center", "Status", "%"}
	if err := e.writeHeader(SheetProjects, headers); err != nil {
		return err
	}
	for i, r := range dash.Records {
		row := i + 2
		var percentage any
		if r.Percentage != nil {
			percentage = *r.Percentage
		}
		values := []any{r.Client, r.ProjectType, r.ProductType, r.BU, r.CostCenter, r.Status, percentage}
		if err := e.setRow(SheetProjects, row, values); err != nil {
			return err
		}
		if err := e.fillCell(SheetProjects, 6, row, classify.StatusColor(r.Status)); err != nil {
			return err
		}
		if err := e.fillCell(SheetProjects, 4, row, classify.BUColor(r.BU)); err != nil {
			return err
		}
	}
	return e.wb.SetColWidth(SheetProjects, "A", "G", 20)
}

func (e *Exporter) writeSummary(dash aggregate.Dashboard) error {
	if _, err := e.wb.NewSheet(SheetSummary); err != nil {
		return err
	}
	s := dash.Summary
	rows := [][]any{
		{"Projects", s.Total},
		{"Average completion", s.AverageLabel},
		{"Finished", s.Finished},
		{"In progress", s.InProgress},
		{"Paused", s.Paused},
		{"Not started", s.NotStarted},
	}
	if err := e.writeHeader(SheetSummary, []any{"Metric", "Value"}); err != nil {
		return err
	}
	row := 2
	for _, r := range rows {
		if err := e.setRow(SheetSummary, row, r); err != nil {
			return err
		}
		row++
	}

	for _, chart := range []struct {
		title string
		data  []domain.ChartDatum
	}{
		{title: "Status", data: dash.StatusChart},
		{title: "BU", data: dash.BUChart},
	} {
		row++
		if err := e.setRow(SheetSummary, row, []any{chart.title, "Projects"}); err != nil {
			return err
		}
		if err := e.styleRow(SheetSummary, row, 2); err != nil {
			return err
		}
		row++
		for _, d := range chart.data {
			if err := e.setRow(SheetSummary, row, []any{d.Label, d.Count}); err != nil {
				return err
			}
			if err := e.fillCell(SheetSummary, 1, row, d.Color); err != nil {
				return err
			}
			row++
		}
	}
	return e.wb.SetColWidth(SheetSummary, "A", "B", 24)
}

func (e *Exporter) writeMonitored(projects []report.ProjectView) error {
	if len(projects) == 0 {
		return nil
	}
	if _, err := e.wb.NewSheet(SheetMonitored); err != nil {
		return err
	}
	headers := []any{"Project", "Start", "End", "Timeline", "Elapsed %", "Progress %", "Sold h", "Used h", "Worst risk"}
	if err := e.writeHeader(SheetMonitored, headers); err != nil {
		return err
	}
	for i, pv := range projects {
		p, h := pv.Project, pv.Health
		row := i + 2
		var start, end string
		if p.StartDate != nil {
			start = p.StartDate.String()
		}
		if p.EndDate != nil {
			end = p.EndDate.String()
		}
		worst := h.WorstRisk()
		values := []any{p.Name, start, end, h.Timeline.Status, h.Timeline.Percent, h.OverallProgress, h.SoldTotal, h.UsedTotal, string(worst)}
		if err := e.setRow(SheetMonitored, row, values); err != nil {
			return err
		}
		if err := e.fillCell(SheetMonitored, 9, row, worst.Color()); err != nil {
			return err
		}
	}
	return e.wb.SetColWidth(SheetMonitored, "A", "I", 18)
}

func (e *Exporter) writeHeader(sheet string, headers []any) error {
	if err := e.setRow(sheet, 1, headers); err != nil {
		return err
	}
	return e.styleRow(sheet, 1, len(headers))
}

func (e *Exporter) styleRow(sheet string, row, cols int) error {
	first, _ := excelize.CoordinatesToCellName(1, row)
	last, _ := excelize.CoordinatesToCellName(cols, row)
	return e.wb.SetCellStyle(sheet, first, last, e.header)
}

func (e *Exporter) setRow(sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return e.wb.SetSheetRow(sheet, cell, &values)
}

func (e *Exporter) fillCell(sheet string, col, row int, color string) error {
	style, ok := e.fills[color]
	if !ok {
		var err error
		style, err = e.wb.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}},
		})
		if err != nil {
			return err
		}
		e.fills[color] = style
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return e.wb.SetCellStyle(sheet, cell, cell, style)
}
