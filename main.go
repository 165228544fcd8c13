// ./main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/berea-app/berea/cmd"
	"github.com/berea-app/berea/internal/observability"
)

// main is the entry point for the berea CLI application.
func main() {
	// Interrupt signals cancel the context so the server drains cleanly and
	// in-flight generation calls are abandoned rather than orphaned.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := cmd.Execute(ctx)
	observability.Sync()
	if err != nil {
		os.Exit(1)
	}
}
