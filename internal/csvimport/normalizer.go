// Package csvimport turns the semicolon-separated portfolio export into
// ProjectRecords.
package csvimport

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"portfoliodash/internal/domain"
)

const (
	ColClient      = "CLIENTE"
	ColProjectType = "TIPO DE PROJETO"
	ColProductType = "TIPO DE PRODUTO"
	ColBU          = "BUs"
	ColCostCenter  = "C.Custo"
	ColStatus      = "STATUS"
	ColPercentage  = "%"
)

const (
	separator   = ";"
	headerToken = "CLIENTE"
	bom         = "\uFEFF"
)

var (
	// ErrParse is wrapped by every fatal parse condition.
	ErrParse                  = errors.New("csv parse failed")
	ErrHeaderNotFound         = fmt.Errorf("%w: no header line containing %q", ErrParse, headerToken)
	ErrTooFewLines            = fmt.Errorf("%w: file has no data lines after the header", ErrParse)
	ErrMissingIdentityColumns = fmt.Errorf("%w: neither %q nor %q column found", ErrParse, ColClient, ColCostCenter)
)

// WarningNoRows is reported when a header was found but every data line was blank.
const WarningNoRows = "no valid project rows found in file"

type Result struct {
	Records  []domain.ProjectRecord
	Warnings []string
}

var lineSplitRe = regexp.MustCompile(`\r?\n`)

// Parse normalizes raw CSV text. Fatal conditions return an error wrapping
// ErrParse and no records.
func Parse(text string) (Result, error) {
	text = strings.TrimPrefix(text, bom)
	lines := lineSplitRe.Split(text, -1)

	headerIdx := -1
	for i, line := range lines {
		if strings.Contains(strings.ToUpper(line), headerToken) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return Result{}, ErrHeaderNotFound
	}

	var usable []string
	for _, line := range lines[headerIdx:] {
		if strings.TrimSpace(strings.ReplaceAll(line, separator, "")) == "" {
			continue
		}
		usable = append(usable, line)
	}
	if len(usable) < 2 {
		return Result{}, ErrTooFewLines
	}

	cols := resolveColumns(splitCells(usable[0]))
	if cols.client < 0 && cols.costCenter < 0 {
		return Result{}, ErrMissingIdentityColumns
	}

	var res Result
	for _, line := range usable[1:] {
		cells := splitCells(line)
		client := cell(cells, cols.client)
		costCenter := cell(cells, cols.costCenter)
		if client == "" && costCenter == "" {
			continue
		}
		rec := domain.ProjectRecord{
			Client:      client,
			ProjectType: cell(cells, cols.projectType),
			ProductType: cell(cells, cols.productType),
			BU:          cell(cells, cols.bu),
			CostCenter:  costCenter,
			Status:      strings.ToUpper(strings.TrimSpace(cell(cells, cols.status))),
		}
		if cols.percentage >= 0 {
			raw := cell(cells, cols.percentage)
			rec.Percentage = NormalizePercentage(&raw)
		}
		res.Records = append(res.Records, rec)
	}
	if len(res.Records) == 0 {
		res.Warnings = append(res.Warnings, WarningNoRows)
	}
	return res, nil
}

type columns struct {
	client, projectType, productType, bu, costCenter, status, percentage int
}

func resolveColumns(header []string) columns {
	find := func(name string) int {
		for i, h := range header {
			if strings.EqualFold(h, name) {
				return i
			}
		}
		return -1
	}
	return columns{
		client:      find(ColClient),
		projectType: find(ColProjectType),
		productType: find(ColProductType),
		bu:          find(ColBU),
		costCenter:  find(ColCostCenter),
		status:      find(ColStatus),
		percentage:  find(ColPercentage),
	}
}

func splitCells(line string) []string {
	cells := strings.Split(line, separator)
	for i := range cells {
		cells[i] = strings.TrimSpace(cells[i])
	}
	return cells
}

func cell(cells []string, idx int) string {
	if idx < 0 || idx >= len(cells) {
		return ""
	}
	return cells[idx]
}

var leadingFloatRe = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// NormalizePercentage converts a raw cell like "45%", "45,5" or " 45 " to a
// number. Values outside 0-100 are kept as is.
func NormalizePercentage(raw *string) *float64 {
	if raw == nil {
		return nil
	}
	s := strings.TrimSpace(*raw)
	s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	if s == "" {
		return nil
	}
	s = strings.Replace(s, ",", ".", 1)
	m := leadingFloatRe.FindString(s)
	if m == "" {
		return nil
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return nil
	}
	return &v
}
