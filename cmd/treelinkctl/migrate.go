package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"treelink/internal/app"
	"treelink/internal/migrations"
)

// migrateTarget bundles what a migrate subcommand acts on
type migrateTarget struct {
	cmd *cobra.Command
	app *app.App
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

func migrateAction(use, short string, destructive bool, run func(a migrateTarget) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if destructive && a.Config.IsProduction() {
				return fmt.Errorf("refusing to run %q in production", "migrate "+use)
			}

			migrations.SetLogger(slog.New(slog.NewTextHandler(cmd.OutOrStdout(), nil)))
			defer migrations.SetLogger(nil)

			if err := run(migrateTarget{cmd: cmd, app: a}); err != nil {
				return err
			}

			version, err := migrations.Version(cmd.Context(), a.DB(), a.Driver())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema version: %d\n", version)
			return nil
		},
	}
}

func init() {
	migrateCmd.AddCommand(
		migrateAction("up", "Apply all pending migrations", false, func(t migrateTarget) error {
			return migrations.Up(t.cmd.Context(), t.app.DB(), t.app.Driver())
		}),
		migrateAction("down", "Roll back the latest migration", true, func(t migrateTarget) error {
			return migrations.Down(t.cmd.Context(), t.app.DB(), t.app.Driver())
		}),
		migrateAction("status", "Show the state of every migration", false, func(t migrateTarget) error {
			return migrations.Status(t.cmd.Context(), t.app.DB(), t.app.Driver())
		}),
		migrateAction("reset", "Roll back every migration", true, func(t migrateTarget) error {
			return migrations.Reset(t.cmd.Context(), t.app.DB(), t.app.Driver())
		}),
	)
	rootCmd.AddCommand(migrateCmd)
}
