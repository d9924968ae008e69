package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/keeplater/internal/app"
	"github.com/MrSnakeDoc/keeplater/internal/config"
	"github.com/MrSnakeDoc/keeplater/internal/logger"
	"github.com/MrSnakeDoc/keeplater/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "❌ keeplater: %v\n", err)
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Running without a subcommand serves.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "keeplater",
		Short: "KeepLater - save links now, read them later",
		Long: `KeepLater stores URLs shared from a browser or phone share sheet
and lists them for authenticated clients.

Configuration is read from the environment (DATABASE_URL is required).
Run without arguments to start the HTTP server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start the HTTP server",
			Args:  cobra.NoArgs,
			RunE:  runServe,
		},
		newMigrateCmd(),
		newTruncateCmd(),
		newCleanCmd(),
		newImportCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Print build information",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintln(cmd.OutOrStdout(), version.String())
			},
		},
	)
	return root
}

// setup loads the environment config and its logger.
func setup() (*config.Config, logger.Logger) {
	cfg := config.Load()
	return cfg, logger.New(cfg.LogLevel, cfg.PrettyLog)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log := setup()
	defer func() { _ = log.Sync() }()

	a, err := app.New(cmd.Context(), cfg, log)
	if err != nil {
		return fmt.Errorf("failed to start: %w", err)
	}
	return a.Run(cmd.Context())
}
