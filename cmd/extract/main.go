// Package main provides the extract CLI, which pulls gauge listings, gauge
// models and forecasts for one country from the Google Flood Forecasting API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/floodhub-etl/internal/cli"
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env is fine; the environment and defaults still apply.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd := getRootCmd()
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), cli.Describe(err))
		stop()
		os.Exit(1)
	}
}
