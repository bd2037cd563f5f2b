package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
)

var cli ScanCmd

type runContext struct {
	ctx context.Context
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("hlaipf"),
		kong.Description("Find the most recent commit where you added PHP, across many git repositories."),
		kong.ShortUsageOnError(),
	)

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := cli.Run(&runContext{
		ctx: runCtx,
	})
	ctx.FatalIfErrorf(err)
}
