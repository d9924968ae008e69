package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/keeplater/internal/app"
	"github.com/MrSnakeDoc/keeplater/internal/logger"
	"github.com/MrSnakeDoc/keeplater/internal/utils"
)

var errNotConfirmed = errors.New("refusing to run without --yes")

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the entries table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log := setup()
			defer func() { _ = log.Sync() }()

			s, driver, err := app.OpenStore(cmd.Context(), cfg, log, true)
			if err != nil {
				return err
			}
			defer utils.Close(s, log, "database")

			fmt.Fprintf(cmd.OutOrStdout(), "migrated %s store\n", driver)
			return nil
		},
	}
}

func newTruncateCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "truncate",
		Short: "Delete every saved entry, keeping the schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return errNotConfirmed
			}
			cfg, log := setup()
			defer func() { _ = log.Sync() }()

			s, _, err := app.OpenStore(cmd.Context(), cfg, log, false)
			if err != nil {
				return err
			}
			defer utils.Close(s, log, "database")

			deleted, err := s.Truncate(cmd.Context())
			if err != nil {
				return err
			}
			log.Warn("entries truncated", logger.Int64("deleted", deleted))
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d entries\n", deleted)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm deleting every entry")
	return cmd
}

func newCleanCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Drop the entries table",
		Long:  "Drops the entries table. Run migrate (or start the server with auto-migrate) to recreate it.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return errNotConfirmed
			}
			cfg, log := setup()
			defer func() { _ = log.Sync() }()

			s, _, err := app.OpenStore(cmd.Context(), cfg, log, false)
			if err != nil {
				return err
			}
			defer utils.Close(s, log, "database")

			if err := s.Drop(cmd.Context()); err != nil {
				return err
			}
			log.Warn("entries table dropped")
			fmt.Fprintln(cmd.OutOrStdout(), "dropped entries table")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm dropping the table")
	return cmd
}
