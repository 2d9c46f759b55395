package cli

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"

	"portfoliodash/internal/aggregate"
)

type summaryCmd struct {
	csv    string
	filter aggregate.Filter
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "print the dashboard summary of a CSV export" }
func (*summaryCmd) Usage() string {
	return `portfoliodash summary -csv <file> [-status S] [-bu B] [-client C]

  Prints totals, average completion and the status and BU tallies.
  Filters use exact equality; filter choices always cover the whole file.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.csv, "csv", "", "CSV export to read")
	f.StringVar(&c.filter.Status, "status", "", "only records with this status")
	f.StringVar(&c.filter.BU, "bu", "", "only records of this business unit")
	f.StringVar(&c.filter.Client, "client", "", "only records of this client")
}

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	records, err := loadRecords(c.csv)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	printMarkdown(summaryMarkdown(aggregate.Build(records, c.filter)))
	return subcommands.ExitSuccess
}

func summaryMarkdown(d aggregate.Dashboard) string {
	var b strings.Builder
	b.WriteString("# Portfolio summary\n\n")
	if d.Filter != (aggregate.Filter{}) {
		var parts []string
		for _, kv := range [][2]string{{"status", d.Filter.Status}, {"bu", d.Filter.BU}, {"client", d.Filter.Client}} {
			if kv[1] != "" {
				parts = append(parts, fmt.Sprintf("%s=%s", kv[0], kv[1]))
			}
		}
		fmt.Fprintf(&b, "_Filter: %s_\n\n", strings.Join(parts, ", "))
	}
	s := d.Summary
	b.WriteString("| Metric | Value |\n|---|---:|\n")
	fmt.Fprintf(&b, "| Projects | %d |\n", s.Total)
	fmt.Fprintf(&b, "| Average completion | %s |\n", s.AverageLabel)
	fmt.Fprintf(&b, "| Finished | %d |\n", s.Finished)
	fmt.Fprintf(&b, "| In progress | %d |\n", s.InProgress)
	fmt.Fprintf(&b, "| Paused | %d |\n", s.Paused)
	fmt.Fprintf(&b, "| Not started | %d |\n", s.NotStarted)

	b.WriteString("\n## By status\n\n| Status | Count |\n|---|---:|\n")
	for _, c := range d.StatusChart {
		fmt.Fprintf(&b, "| %s | %d |\n", c.Label, c.Count)
	}
	b.WriteString("\n## By BU\n\n| BU | Count |\n|---|---:|\n")
	for _, c := range d.BUChart {
		fmt.Fprintf(&b, "| %s | %d |\n", c.Label, c.Count)
	}
	return b.String()
}
