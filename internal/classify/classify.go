// Package classify maps free-text status and business-unit strings to
// canonical buckets and display colors.
package classify

import "strings"

type StatusBucket string

const (
	StatusFinished   StatusBucket = "FINALIZADO"
	StatusInProgress StatusBucket = "EM ANDAMENTO"
	StatusPaused     StatusBucket = "PARALIZADO"
	StatusNotStarted StatusBucket = "NÃO INICIADO"
	StatusDefault    StatusBucket = "DEFAULT"
)

type statusRule struct {
	bucket StatusBucket
	color  string
	badge  string
}

// Rules are tried in order; the first whose label prefixes the status wins.
// Exports often append qualifiers ("PARALIZADO - AGUARDANDO CLIENTE").
var statusRules = []statusRule{
	{bucket: StatusFinished, color: "#28a745", badge: "badge-success"},
	{bucket: StatusInProgress, color: "#007bff", badge: "badge-primary"},
	{bucket: StatusPaused, color: "#dc3545", badge: "badge-danger"},
	{bucket: StatusNotStarted, color: "#ffc107", badge: "badge-warning"},
}

var defaultStatus = statusRule{bucket: StatusDefault, color: "#6c757d", badge: "badge-secondary"}

// CanonicalStatuses lists the four recognized buckets in display order.
func CanonicalStatuses() []StatusBucket {
	out := make([]StatusBucket, 0, len(statusRules))
	for _, r := range statusRules {
		out = append(out, r.bucket)
	}
	return out
}

func NormalizeStatus(status string) string {
	return strings.ToUpper(strings.TrimSpace(status))
}

func statusRuleFor(status string) statusRule {
	s := NormalizeStatus(status)
	for _, r := range statusRules {
		if strings.HasPrefix(s, string(r.bucket)) {
			return r
		}
	}
	return defaultStatus
}

func Status(status string) StatusBucket { return statusRuleFor(status).bucket }
func StatusColor(status string) string  { return statusRuleFor(status).color }
func StatusBadge(status string) string  { return statusRuleFor(status).badge }

type buRule struct {
	token string
	color string
}

// Order matters: "TI" is a substring of longer unit names, so it is checked
// only after INFRAESTRUTURA and SEGURANÇA.
var buRules = []buRule{
	{token: "INFRAESTRUTURA", color: "#0d6efd"},
	{token: "SEGURANÇA", color: "#dc3545"},
	{token: "TI", color: "#198754"},
	{token: "AUTOMAÇÃO", color: "#fd7e14"},
}

const neutralBUColor = "#6c757d"

func BUColor(bu string) string {
	s := strings.ToUpper(strings.TrimSpace(bu))
	for _, r := range buRules {
		if strings.Contains(s, r.token) {
			return r.color
		}
	}
	return neutralBUColor
}
