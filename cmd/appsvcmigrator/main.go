package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/nais/appsvcmigrator/pkg/command"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := command.NewRootCommand().ExecuteContext(ctx)
	stop()

	if err != nil {
		os.Exit(1)
	}
}
