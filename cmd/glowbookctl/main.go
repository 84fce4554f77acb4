// Command glowbookctl runs maintenance tasks against the onboarding database.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dtroode/glowbook-server/database"
	"github.com/dtroode/glowbook-server/internal/app"
	"github.com/dtroode/glowbook-server/internal/config"
	"github.com/dtroode/glowbook-server/internal/logger"
	"github.com/dtroode/glowbook-server/internal/service"
)

func main() {
	if err := newRootCmd(os.Stdout).ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:          "glowbookctl",
		Short:        "Maintenance tasks for the glowbook onboarding service",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			database.SetLogger(logger.NewWithWriter(cmd.ErrOrStderr(), 0, "text").Logger)
		},
	}
	root.SetOut(out)
	root.SetErr(out)
	root.AddCommand(newMigrateCmd(), newSweepTokensCmd())
	return root
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations and print the schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stores, err := openStores(cmd.Context())
			if err != nil {
				return err
			}
			defer stores.Close()

			version, err := database.Version(stores.DB, stores.Dialect)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema version %d (%s)\n", version, stores.Dialect)
			return nil
		},
	}
}

func newSweepTokensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep-tokens",
		Short: "Delete verification tokens past the retention window once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.NewConfig()
			if err != nil {
				return err
			}
			stores, err := app.OpenStores(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer stores.Close()

			log := logger.NewWithWriter(cmd.ErrOrStderr(), 0, "text")
			sweeper := service.NewTokenSweeper(stores.Verifications, 0, cfg.Verification.SweepRetention, log)
			deleted, err := sweeper.Sweep(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d expired verification tokens\n", deleted)
			return nil
		},
	}
}

// openStores migrates as a side effect of connecting.
func openStores(ctx context.Context) (*app.Stores, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, err
	}
	return app.OpenStores(ctx, cfg)
}
