// Package main is quilc, a command line front-end for the Quil instruction
// language: it parses Quil source text and prints the canonical form.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/jselig-rigetti/quil-rs/quilc/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	cli.Execute(ctx)
}
