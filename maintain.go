package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/obrastudio/site-backend/config"
	"github.com/obrastudio/site-backend/database"
)

var (
	maintainEnsureIndexes bool
	maintainFixDates      bool
	maintainOldPrefix     string
	maintainNewPrefix     string
)

var maintainCmd = &cobra.Command{
	Use:   "maintain",
	Short: "Run store maintenance tasks",
	Long: `One-off maintenance against the document store: index creation,
publication-date normalization and image link rewrites.

Examples:
  site-backend maintain --ensure-indexes
  site-backend maintain --fix-dates
  site-backend maintain --old-prefix https://old.host/storage --new-prefix /api/storage/public`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMaintain(cmd.Context())
	},
	SilenceUsage: true,
}

func init() {
	maintainCmd.Flags().BoolVar(&maintainEnsureIndexes, "ensure-indexes", false, "Create the indexes the application depends on")
	maintainCmd.Flags().BoolVar(&maintainFixDates, "fix-dates", false, "Normalize post publication dates to YYYY-MM-DD")
	maintainCmd.Flags().StringVar(&maintainOldPrefix, "old-prefix", "", "Image URL prefix to rewrite")
	maintainCmd.Flags().StringVar(&maintainNewPrefix, "new-prefix", "", "Replacement image URL prefix")
	rootCmd.AddCommand(maintainCmd)
}

func runMaintain(ctx context.Context) error {
	c := config.New()
	uri := config.GetString(c, "MONGODB_URI", "")
	if uri == "" {
		return fmt.Errorf("MONGODB_URI is required")
	}

	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	store, err := database.Connect(connectCtx, uri, config.GetString(c, "MONGODB_DB", "site"))
	if err != nil {
		return fmt.Errorf("connecting to store: %w", err)
	}
	defer store.Close(ctx)

	ran := false

	if maintainEnsureIndexes {
		ran = true
		if err := store.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("ensuring indexes: %w", err)
		}
		fmt.Println("Indexes ensured")
	}

	if maintainFixDates {
		ran = true
		fixed, err := store.FixPublicationDates(ctx)
		if err != nil {
			return fmt.Errorf("fixing publication dates: %w", err)
		}
		fmt.Printf("Normalized %d publication dates\n", fixed)
	}

	if maintainOldPrefix != "" {
		ran = true
		if maintainNewPrefix == "" {
			return fmt.Errorf("--new-prefix is required with --old-prefix")
		}
		fixed, err := store.FixImageLinks(ctx, maintainOldPrefix, maintainNewPrefix)
		if err != nil {
			return fmt.Errorf("fixing image links: %w", err)
		}
		fmt.Printf("Rewrote %d image links\n", fixed)
	}

	if !ran {
		return fmt.Errorf("nothing to do: pass --ensure-indexes, --fix-dates or --old-prefix/--new-prefix")
	}
	return nil
}
