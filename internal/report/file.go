package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"portfoliodash/internal/domain"
)

// WriteReportFile writes content to <dir>/<title>_<yyyymmdd>.<ext> and
// returns the path.
func WriteReportFile(content, outputDir string, reportDate domain.Date, title, ext string) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", err
	}
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		ext = "md"
	}
	filename := fmt.Sprintf("%s_%s.%s", sanitizeFilename(title), reportDate.Time().Format("20060102"), ext)
	path := filepath.Join(outputDir, filename)
	return path, os.WriteFile(path, []byte(content), 0644)
}

func sanitizeFilename(s string) string {
	replacer := strings.NewReplacer("/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = strings.TrimSpace(replacer.Replace(s))
	if s == "" || strings.Trim(s, ".") == "" {
		return "report"
	}
	return s
}
