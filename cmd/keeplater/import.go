package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/keeplater/internal/app"
	"github.com/MrSnakeDoc/keeplater/internal/intake"
	"github.com/MrSnakeDoc/keeplater/internal/scheduler"
	"github.com/MrSnakeDoc/keeplater/internal/sources/homepage"
	"github.com/MrSnakeDoc/keeplater/internal/utils"
)

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file|->",
		Short: "Import a homepage bookmarks.yaml file",
		Long: `Shares every href of a homepage-style bookmarks.yaml through the same
intake path as /share. Already saved URLs are skipped. Use "-" to read stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				bookmarks homepage.BookmarksConfig
				err       error
			)
			if args[0] == "-" {
				bookmarks, err = homepage.Decode(cmd.InOrStdin())
			} else {
				bookmarks, err = homepage.NewLoader(args[0]).Load()
			}
			if err != nil {
				return err
			}
			seeds, err := homepage.Seeds(bookmarks)
			if err != nil {
				return err
			}

			cfg, log := setup()
			defer func() { _ = log.Sync() }()

			s, _, err := app.OpenStore(cmd.Context(), cfg, log, cfg.DBAutoMigrate)
			if err != nil {
				return err
			}
			defer utils.Close(s, log, "database")

			rs, opts, err := app.ConnectGuard(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			if rs != nil {
				defer utils.Close(rs, log, "redis")
			}

			stats := scheduler.Ingest(cmd.Context(), intake.NewIngestor(s, log, opts...), seeds, log)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(stats); err != nil {
				return fmt.Errorf("failed to write stats: %w", err)
			}
			if stats.Failed > 0 {
				return fmt.Errorf("%d of %d seeds failed", stats.Failed, stats.Total)
			}
			return nil
		},
	}
}
