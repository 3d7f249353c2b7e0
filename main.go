package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/aocl/cli"
	"github.com/ardnew/aocl/log"
)

func main() {
	if err := cli.Run(context.Background(), os.Exit, os.Args[1:]...); err != nil {
		// Errors implement slog.LogValuer, so their attributes are logged too.
		log.Error("aocl failed", slog.Any("error", err))
		os.Exit(1)
	}
}
