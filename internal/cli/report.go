package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"portfoliodash/internal/aggregate"
	"portfoliodash/internal/domain"
	"portfoliodash/internal/report"
	"portfoliodash/internal/storage/sqlite"
)

type reportCmd struct {
	csv    string
	out    string
	html   bool
	print  bool
	filter aggregate.Filter
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "write the status-report deck for a CSV export" }
func (*reportCmd) Usage() string {
	return `portfoliodash report -csv <file> [-out dir] [-html] [-print] [-bu B]

  Builds the deck from the CSV plus the monitored projects, key facts and
  next steps stored in db_path, and writes it to the report directory.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.csv, "csv", "", "CSV export to read")
	f.StringVar(&c.out, "out", "", "output directory (defaults to report_output_dir)")
	f.BoolVar(&c.html, "html", false, "write HTML slides instead of Markdown")
	f.BoolVar(&c.print, "print", false, "also print the Markdown deck")
	f.StringVar(&c.filter.Status, "status", "", "only records with this status")
	f.StringVar(&c.filter.BU, "bu", "", "only records of this business unit")
	f.StringVar(&c.filter.Client, "client", "", "only records of this client")
}

func (c *reportCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	records, err := loadRecords(c.csv)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	cfg := loadConfig()
	outDir := cfg.ReportOutputDir
	if c.out != "" {
		outDir = c.out
	}

	db, err := sqlite.InitDB(cfg.DBPath)
	if err != nil {
		return fail(err)
	}
	defer db.Close()

	today := domain.Today(cfg.Location)
	deck, err := report.Compose(db, cfg.ReportTitle, today, aggregate.Build(records, c.filter))
	if err != nil {
		return fail(err)
	}
	md := report.RenderMarkdown(deck)
	content, ext := md, "md"
	if c.html {
		if content, err = report.RenderHTML(deck); err != nil {
			return fail(err)
		}
		ext = "html"
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fail(err)
	}
	path, err := report.WriteReportFile(content, outDir, today, deck.Title, ext)
	if err != nil {
		return fail(err)
	}
	if c.print {
		printMarkdown(md)
	}
	fmt.Fprintf(stdout, "Report written to %s\n", path)
	return subcommands.ExitSuccess
}
