package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lexcore-hq/lexcore/pkg/holder"
)

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete stale secondary cache entries",
	Long: `Prune removes secondary-tier cache rows older than the configured
retention age (cache.retention.max_age). Simulations are request-scoped, so
rows that old belong to abandoned or crashed runs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		setupLogging(cfg)

		if cfg.Cache.SQLite.Path == "" {
			return fmt.Errorf("no secondary cache configured: set cache.sqlite.path")
		}

		storage, err := holder.NewSQLiteStorage(&holder.SQLiteConfig{
			Path:        cfg.Cache.SQLite.Path,
			WALMode:     cfg.Cache.SQLite.WALMode,
			BusyTimeout: cfg.Cache.SQLite.BusyTimeout,
		})
		if err != nil {
			return err
		}
		defer storage.Close()

		pruner := holder.NewPruner(storage, holder.RetentionConfig{MaxAge: cfg.Cache.Retention.MaxAge})
		deleted, err := pruner.Prune(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "deleted %d stale cache entries\n", deleted)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pruneCmd)
}
