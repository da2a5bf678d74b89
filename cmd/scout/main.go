// cmd/scout/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Snehakarkoli12/Ai-Powered-e-commerce-scraper/internal/cli"
)

func main() {
	// An interrupt cancels the root context; in-flight site scrapes fold
	// into timeout statuses and the partial result still renders.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Execute CLI (app initialization happens inside)
	cli.ExecuteContext(ctx)
}
