// Package main is the entry point for the Trails API.
// Its sole responsibility is wiring dependencies together and starting the
// server or running a maintenance command. No business logic belongs here.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "trails",
	Short: "Trails is a REST API for hiking trail records",
	Long: `Trails serves a CRUD REST API over a Postgres table of hiking trails.
Running it without a subcommand starts the HTTP server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(migrateCmd)
}
