// ./main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sgrimault/webharvest/cmd"
)

// main is the entry point for the webharvest application.
func main() {
	// Subcommands receive a signal-aware context so an interrupt unwinds
	// browser and protocol loops cleanly.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Execute(ctx)
}
