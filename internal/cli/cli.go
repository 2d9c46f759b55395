// Package cli holds the portfoliodash subcommands.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	"portfoliodash/internal/config"
	"portfoliodash/internal/csvimport"
	"portfoliodash/internal/domain"
)

// Register the subcommands.
func Register(c *subcommands.Commander) {
	c.Register(&serveCmd{}, "server")

	c.Register(&summaryCmd{}, "reports")
	c.Register(&reportCmd{}, "reports")
	c.Register(&exportCmd{}, "reports")
	c.Register(&riskCmd{}, "reports")
}

var (
	loadConfig           = config.LoadConfig
	stdout     io.Writer = os.Stdout
	stderr     io.Writer = os.Stderr
	// plain disables glamour rendering.
	plain = false
)

// loadRecords reads and parses a CSV export. Warnings go to stderr.
func loadRecords(path string) ([]domain.ProjectRecord, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("-csv is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	res, err := csvimport.Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for _, w := range res.Warnings {
		fmt.Fprintf(stderr, "Warning: %s\n", w)
	}
	return res.Records, nil
}

func printMarkdown(md string) {
	if plain {
		fmt.Fprint(stdout, md)
		return
	}
	out, err := glamour.Render(md, "dark")
	if err != nil {
		fmt.Fprint(stdout, md)
		return
	}
	fmt.Fprint(stdout, out)
}

func fail(err error) subcommands.ExitStatus {
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return subcommands.ExitFailure
}
