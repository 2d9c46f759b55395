package cli

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/subcommands"

	"portfoliodash/internal/app"
)

type serveCmd struct {
	addr string
	csv  string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "run the dashboard HTTP server and report scheduler" }
func (*serveCmd) Usage() string {
	return `portfoliodash serve [-addr :8080] [-csv <file>]

  Starts the JSON API (and the UI when ui_dir is built). When -csv is
  given the file is loaded before the first request.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "", "listen address (overrides listen_addr)")
	f.StringVar(&c.csv, "csv", "", "CSV export to preload (overrides csv_path)")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	cfg := loadConfig()
	if c.addr != "" {
		cfg.ListenAddr = c.addr
	}
	if c.csv != "" {
		cfg.CSVPath = c.csv
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := app.Serve(ctx, cfg); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}
