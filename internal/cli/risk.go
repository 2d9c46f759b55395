package cli

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"

	"portfoliodash/internal/domain"
	"portfoliodash/internal/httpx"
	"portfoliodash/internal/integrations/llm"
	"portfoliodash/internal/storage/sqlite"
	"portfoliodash/internal/timeline"
)

var (
	analyzeProjectRiskFn  = llm.AnalyzeProjectRisk
	analyzeDetailedRiskFn = llm.AnalyzeDetailedRisk
)

type riskCmd struct {
	csv     string
	client  string
	project string
}

func (*riskCmd) Name() string     { return "risk" }
func (*riskCmd) Synopsis() string { return "ask the configured LLM for a project risk analysis" }
func (*riskCmd) Usage() string {
	return `portfoliodash risk -csv <file> -client <name>
portfoliodash risk -project <id>

  Prints a short risk analysis for one CSV project or one monitored project.
`
}

func (c *riskCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.csv, "csv", "", "CSV export to read")
	f.StringVar(&c.client, "client", "", "client of the CSV project to analyze")
	f.StringVar(&c.project, "project", "", "ID of a monitored project to analyze")
}

func (c *riskCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	if (c.client == "") == (c.project == "") {
		fmt.Fprintln(stderr, "Error: exactly one of -client or -project is required")
		return subcommands.ExitUsageError
	}
	cfg := loadConfig()
	httpx.ConfigureExternalHTTPClient(cfg.ExternalHTTPTimeoutSeconds)

	if c.project != "" {
		db, err := sqlite.InitDB(cfg.DBPath)
		if err != nil {
			return fail(err)
		}
		defer db.Close()
		p, err := sqlite.GetDetailedProject(db, c.project)
		if err != nil {
			return fail(err)
		}
		health := timeline.Analyze(p, domain.Today(cfg.Location))
		printMarkdown(fmt.Sprintf("# %s\n\n%s\n", p.Name, analyzeDetailedRiskFn(ctx, cfg, p, health)))
		return subcommands.ExitSuccess
	}

	records, err := loadRecords(c.csv)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	rec, ok := findClient(records, c.client)
	if !ok {
		return fail(fmt.Errorf("no project for client %q", c.client))
	}
	printMarkdown(fmt.Sprintf("# %s\n\n%s\n", rec.Client, analyzeProjectRiskFn(ctx, cfg, rec)))
	return subcommands.ExitSuccess
}

func findClient(records []domain.ProjectRecord, client string) (domain.ProjectRecord, bool) {
	client = strings.TrimSpace(client)
	for _, r := range records {
		if r.Client == client {
			return r, true
		}
	}
	for _, r := range records {
		if strings.EqualFold(r.Client, client) {
			return r, true
		}
	}
	return domain.ProjectRecord{}, false
}
