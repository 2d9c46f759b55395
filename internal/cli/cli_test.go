package cli

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/subcommands"
	"github.com/xuri/excelize/v2"

	"portfoliodash/internal/config"
	"portfoliodash/internal/domain"
	"portfoliodash/internal/export"
	"portfoliodash/internal/storage/sqlite"
	"portfoliodash/internal/timeline"
)

const sampleCSV = "CLIENTE;BUs;STATUS;%\n" +
	"Acme;Infraestrutura;Finalizado;100%\n" +
	"Globex;Segurança;Em andamento;40\n"

type harness struct {
	cfg    config.Config
	csv    string
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func setup(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	h := &harness{
		cfg: config.Config{
			DBPath:          filepath.Join(dir, "cli.db"),
			ReportOutputDir: filepath.Join(dir, "reports"),
			ReportTitle:     "CLI Report",
			Location:        time.UTC,
			LLMProvider:     config.ProviderNone,
		},
		csv:    filepath.Join(dir, "portfolio.csv"),
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
	}
	if err := os.WriteFile(h.csv, []byte(sampleCSV), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	origLoad, origOut, origErr, origPlain := loadConfig, stdout, stderr, plain
	loadConfig = func() config.Config { return h.cfg }
	stdout, stderr, plain = h.stdout, h.stderr, true
	t.Cleanup(func() { loadConfig, stdout, stderr, plain = origLoad, origOut, origErr, origPlain })
	return h
}

func run(t *testing.T, cmd subcommands.Command, args ...string) subcommands.ExitStatus {
	t.Helper()
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	cmd.SetFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return cmd.Execute(context.Background(), fs)
}

func TestSummary(t *testing.T) {
	h := setup(t)
	if got := run(t, &summaryCmd{}, "-csv", h.csv); got != subcommands.ExitSuccess {
		t.Fatalf("summary exit %v: %s", got, h.stderr)
	}
	out := h.stdout.String()
	for _, want := range []string{"| Projects | 2 |", "| Average completion | 70.0% |", "| FINALIZADO | 1 |", "| Segurança | 1 |"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}

	h.stdout.Reset()
	if got := run(t, &summaryCmd{}, "-csv", h.csv, "-client", "Acme"); got != subcommands.ExitSuccess {
		t.Fatalf("filtered summary exit %v", got)
	}
	if out := h.stdout.String(); !strings.Contains(out, "_Filter: client=Acme_") || !strings.Contains(out, "| Projects | 1 |") {
		t.Fatalf("unexpected filtered summary:\n%s", out)
	}
}

func TestSummaryErrors(t *testing.T) {
	h := setup(t)
	if got := run(t, &summaryCmd{}); got != subcommands.ExitUsageError {
		t.Fatalf("expected usage error without -csv, got %v", got)
	}
	bad := filepath.Join(t.TempDir(), "bad.csv")
	_ = os.WriteFile(bad, []byte("nothing useful\n"), 0o644)
	if got := run(t, &summaryCmd{}, "-csv", bad); got != subcommands.ExitUsageError {
		t.Fatalf("expected usage error for unparseable file, got %v", got)
	}
	if !strings.Contains(h.stderr.String(), "csv parse failed") {
		t.Fatalf("expected parse error on stderr, got %q", h.stderr)
	}
}

func TestReportWritesDeck(t *testing.T) {
	h := setup(t)
	db, err := sqlite.InitDB(h.cfg.DBPath)
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	if _, err := sqlite.AddKeyFact(db, "Kickoff done"); err != nil {
		t.Fatalf("AddKeyFact: %v", err)
	}
	_ = db.Close()

	if got := run(t, &reportCmd{}, "-csv", h.csv); got != subcommands.ExitSuccess {
		t.Fatalf("report exit %v: %s", got, h.stderr)
	}
	entries, err := os.ReadDir(h.cfg.ReportOutputDir)
	if err != nil || len(entries) != 1 || !strings.HasSuffix(entries[0].Name(), ".md") {
		t.Fatalf("expected one markdown report, got %v err=%v", entries, err)
	}
	data, _ := os.ReadFile(filepath.Join(h.cfg.ReportOutputDir, entries[0].Name()))
	if !strings.Contains(string(data), "# CLI Report") || !strings.Contains(string(data), "- Kickoff done") {
		t.Fatalf("unexpected report:\n%s", data)
	}

	out := t.TempDir()
	if got := run(t, &reportCmd{}, "-csv", h.csv, "-html", "-out", out); got != subcommands.ExitSuccess {
		t.Fatalf("html report exit %v: %s", got, h.stderr)
	}
	matches, _ := filepath.Glob(filepath.Join(out, "*.html"))
	if len(matches) != 1 {
		t.Fatalf("expected one html report, got %v", matches)
	}
}

func TestExportWritesWorkbook(t *testing.T) {
	h := setup(t)
	out := filepath.Join(t.TempDir(), "out.xlsx")
	if got := run(t, &exportCmd{}, "-csv", h.csv, "-out", out); got != subcommands.ExitSuccess {
		t.Fatalf("export exit %v: %s", got, h.stderr)
	}
	wb, err := excelize.OpenFile(out)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer wb.Close()
	rows, err := wb.GetRows(export.SheetProjects)
	if err != nil || len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d err=%v", len(rows), err)
	}
}

func TestRisk(t *testing.T) {
	h := setup(t)
	origProject, origDetailed := analyzeProjectRiskFn, analyzeDetailedRiskFn
	t.Cleanup(func() { analyzeProjectRiskFn, analyzeDetailedRiskFn = origProject, origDetailed })
	analyzeProjectRiskFn = func(_ context.Context, _ config.Config, rec domain.ProjectRecord) string {
		return "Risk for " + rec.Client
	}
	analyzeDetailedRiskFn = func(_ context.Context, _ config.Config, p domain.DetailedProject, _ timeline.ProjectHealth) string {
		return "Detailed risk for " + p.Name
	}

	if got := run(t, &riskCmd{}, "-csv", h.csv, "-client", "globex"); got != subcommands.ExitSuccess {
		t.Fatalf("risk exit %v: %s", got, h.stderr)
	}
	if out := h.stdout.String(); !strings.Contains(out, "# Globex") || !strings.Contains(out, "Risk for Globex") {
		t.Fatalf("unexpected risk output:\n%s", out)
	}

	db, err := sqlite.InitDB(h.cfg.DBPath)
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	p, err := sqlite.CreateDetailedProject(db, "Migration")
	_ = db.Close()
	if err != nil {
		t.Fatalf("CreateDetailedProject: %v", err)
	}
	h.stdout.Reset()
	if got := run(t, &riskCmd{}, "-project", p.ID); got != subcommands.ExitSuccess {
		t.Fatalf("detailed risk exit %v: %s", got, h.stderr)
	}
	if !strings.Contains(h.stdout.String(), "Detailed risk for Migration") {
		t.Fatalf("unexpected detailed risk output:\n%s", h.stdout)
	}

	if got := run(t, &riskCmd{}, "-csv", h.csv, "-client", "Umbrella"); got != subcommands.ExitFailure {
		t.Fatalf("expected failure for unknown client, got %v", got)
	}
	if got := run(t, &riskCmd{}); got != subcommands.ExitUsageError {
		t.Fatalf("expected usage error without target, got %v", got)
	}
}

func TestCompletionCoversRegisteredCommands(t *testing.T) {
	commander := subcommands.NewCommander(flag.NewFlagSet("portfoliodash", flag.ContinueOnError), "portfoliodash")
	Register(commander)

	comp := Completion()
	commander.VisitCommands(func(_ *subcommands.CommandGroup, cmd subcommands.Command) {
		sub, ok := comp.Sub[cmd.Name()]
		if !ok {
			t.Fatalf("no completion for %q", cmd.Name())
		}
		fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
		cmd.SetFlags(fs)
		fs.VisitAll(func(f *flag.Flag) {
			if _, ok := sub.Flags[f.Name]; !ok {
				t.Fatalf("no completion for %s -%s", cmd.Name(), f.Name)
			}
		})
	})
}
