// Package main provides the analyze CLI, which subsets, summarises and plots
// forecast tables previously written by extract.
package main

import (
	"fmt"
	"os"

	"github.com/couchcryptid/floodhub-etl/internal/cli"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cmd := getRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), cli.Describe(err))
		os.Exit(1)
	}
}
