package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/obrastudio/site-backend/config"
	"github.com/obrastudio/site-backend/migration"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run the one-shot Supabase-to-target migration",
	Long: `Transfers all rows from the Supabase source into the target system through
its HTTP API, remapping the projects/gallery relationship. Any error aborts
the run; restart against a reset target (RESET_TARGET=true) to avoid
duplicates.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate(cmd.Context())
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(ctx context.Context) error {
	c := config.New()

	source, err := migration.NewPostgresSource(migration.SourceConfig{
		Host:     config.GetString(c, "SUPABASE_DB_HOST", ""),
		User:     config.GetString(c, "SUPABASE_DB_USER", ""),
		Password: config.GetString(c, "SUPABASE_DB_PASSWORD", ""),
		DBName:   config.GetString(c, "SUPABASE_DB_NAME", ""),
		Port:     config.GetString(c, "SUPABASE_DB_PORT", "5432"),
	})
	if err != nil {
		return err
	}

	targetURL := config.GetString(c, "TARGET_API_URL", "")
	if targetURL == "" {
		return fmt.Errorf("TARGET_API_URL is required")
	}

	batchSize := config.GetInt(c, "BATCH_SIZE", 50)
	if batchSize <= 0 {
		return fmt.Errorf("BATCH_SIZE must be a positive integer")
	}

	job := migration.NewJob(source, migration.NewClient(targetURL), migration.Config{
		TargetEmail:    config.GetString(c, "TARGET_ADMIN_EMAIL", ""),
		TargetPassword: config.GetString(c, "TARGET_ADMIN_PASSWORD", ""),
		Reset:          config.GetBool(c, "RESET_TARGET", false),
		BatchSize:      batchSize,
	})

	return job.Run(ctx)
}
