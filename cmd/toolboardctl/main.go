package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/ytget/toolboard/internal/commands"
)

// Set during build via -ldflags "-X main.version=X.Y.Z"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := commands.New(commands.Options{Version: version, Commit: commit, Date: date})
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
