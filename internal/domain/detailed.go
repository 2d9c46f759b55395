package domain

import (
	"strings"
	"time"
)

type Step struct {
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
}

// BU identifies one of the four business-unit hour buckets.
type BU string

const (
	BUInfra      BU = "infra"
	BUSecurity   BU = "security"
	BUIT         BU = "it"
	BUAutomation BU = "automation"
)

// BUs lists the buckets in display order.
var BUs = []BU{BUInfra, BUSecurity, BUIT, BUAutomation}

func (b BU) Label() string {
	switch b {
	case BUInfra:
		return "Infraestrutura"
	case BUSecurity:
		return "Segurança"
	case BUIT:
		return "TI"
	case BUAutomation:
		return "Automação"
	default:
		return string(b)
	}
}

type BuHours struct {
	Infra      float64 `json:"infra"`
	Security   float64 `json:"security"`
	IT         float64 `json:"it"`
	Automation float64 `json:"automation"`
}

func (h BuHours) Get(b BU) float64 {
	switch b {
	case BUInfra:
		return h.Infra
	case BUSecurity:
		return h.Security
	case BUIT:
		return h.IT
	case BUAutomation:
		return h.Automation
	}
	return 0
}

func (h *BuHours) Set(b BU, v float64) {
	switch b {
	case BUInfra:
		h.Infra = v
	case BUSecurity:
		h.Security = v
	case BUIT:
		h.IT = v
	case BUAutomation:
		h.Automation = v
	}
}

// DetailedProject is the user-maintained record with steps and hours per BU.
type DetailedProject struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	StartDate *Date   `json:"start_date"`
	EndDate   *Date   `json:"end_date"`
	Steps     []Step  `json:"steps"`
	SoldHours BuHours `json:"sold_hours"`
	UsedHours BuHours `json:"used_hours"`
}

// Normalize applies the edit-path rules: trimmed names, step percentages
// clamped to [0, 100] and hours floored at zero.
func (p *DetailedProject) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	for i := range p.Steps {
		p.Steps[i].Name = strings.TrimSpace(p.Steps[i].Name)
		p.Steps[i].Percentage = clamp(p.Steps[i].Percentage, 0, 100)
	}
	for _, b := range BUs {
		if p.SoldHours.Get(b) < 0 {
			p.SoldHours.Set(b, 0)
		}
		if p.UsedHours.Get(b) < 0 {
			p.UsedHours.Set(b, 0)
		}
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

type KeyFact struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type NextStep struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Owner     string    `json:"owner,omitempty"`
	DueDate   *Date     `json:"due_date,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TimelineState classifies where today falls relative to a project's dates.
type TimelineState string

const (
	TimelineUndefined TimelineState = "undefined"
	TimelineUpcoming  TimelineState = "upcoming"
	TimelineRunning   TimelineState = "running"
	TimelineFinished  TimelineState = "finished"
)

type TimelineInfo struct {
	State         TimelineState `json:"state"`
	Percent       float64       `json:"percent"` // elapsed, 0-100
	RemainingDays int           `json:"remaining_days"`
	Status        string        `json:"status"`
}
