package domain

// ProjectRecord is one row of the imported portfolio CSV.
type ProjectRecord struct {
	Client      string   `json:"client"`
	ProjectType string   `json:"project_type"`
	ProductType string   `json:"product_type"`
	BU          string   `json:"bu"`
	CostCenter  string   `json:"cost_center"`
	Status      string   `json:"status"`     // trimmed, upper-cased
	Percentage  *float64 `json:"percentage"` // nil when absent or unparseable
}

type Summary struct {
	Total             int     `json:"total"`
	AveragePercentage float64 `json:"average_percentage"`
	AverageLabel      string  `json:"average_label"` // e.g. "75.0%"
	Finished          int     `json:"finished"`
	InProgress        int     `json:"in_progress"`
	Paused            int     `json:"paused"`
	NotStarted        int     `json:"not_started"`
}

type ChartDatum struct {
	Label string `json:"label"`
	Count int    `json:"count"`
	Color string `json:"color"`
}
