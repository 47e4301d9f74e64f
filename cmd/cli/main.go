package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/stockroom-dev/stockroom/internal/cli"
)

var version = "dev" // Will be set during build with -ldflags

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx, version); err != nil {
		stop()
		os.Exit(1)
	}
}
