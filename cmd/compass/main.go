package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/PabloGalante/compass-agent/internal/cli"
)

var (
	version = ""
	commit  = ""
	date    = ""
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.Execute(ctx, cli.BuildInfo{Version: version, Commit: commit, Date: date}); err != nil {
		stop()
		os.Exit(1)
	}
}
