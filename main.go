package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "site-backend",
	Short: "Portfolio site backend: query API server and migration tooling",
	Long: `site-backend hosts the portfolio site's REST API (generic query endpoint,
auth, storage, comments) and the one-shot Supabase-to-Mongo migration job.

Running with no subcommand starts the API server.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Load environment variables from .env file
		if err := godotenv.Load(); err != nil {
			fmt.Printf("Warning: Error loading .env file: %v\n", err)
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		runServe()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
