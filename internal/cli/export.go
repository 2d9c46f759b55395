package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"portfoliodash/internal/aggregate"
	"portfoliodash/internal/domain"
	"portfoliodash/internal/export"
	"portfoliodash/internal/report"
	"portfoliodash/internal/storage/sqlite"
)

type exportCmd struct {
	csv    string
	out    string
	filter aggregate.Filter
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export the dashboard to an XLSX workbook" }
func (*exportCmd) Usage() string {
	return `portfoliodash export -csv <file> -out <file.xlsx> [-status S] [-bu B] [-client C]
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.csv, "csv", "", "CSV export to read")
	f.StringVar(&c.out, "out", "portfolio.xlsx", "workbook to write")
	f.StringVar(&c.filter.Status, "status", "", "only records with this status")
	f.StringVar(&c.filter.BU, "bu", "", "only records of this business unit")
	f.StringVar(&c.filter.Client, "client", "", "only records of this client")
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	records, err := loadRecords(c.csv)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	cfg := loadConfig()
	db, err := sqlite.InitDB(cfg.DBPath)
	if err != nil {
		return fail(err)
	}
	defer db.Close()

	views, err := report.LoadProjectViews(db, domain.Today(cfg.Location))
	if err != nil {
		return fail(err)
	}
	if err := export.SaveFile(c.out, aggregate.Build(records, c.filter), views); err != nil {
		return fail(err)
	}
	fmt.Fprintf(stdout, "Workbook written to %s\n", c.out)
	return subcommands.ExitSuccess
}
