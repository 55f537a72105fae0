package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var dropConfirm bool

var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Drop every table (refused in production)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		if a.Config.IsProduction() {
			return fmt.Errorf("refusing to drop tables in production")
		}
		if !dropConfirm {
			return fmt.Errorf("pass --yes to drop all tables of the %s database", a.Config.DatabaseDriver)
		}

		if err := a.DropAll(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "all tables dropped")
		return nil
	},
}

var logsLimit int

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show the latest import log entries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		entries, err := a.Repos.Logs.Recent(cmd.Context(), logsLimit)
		if err != nil {
			return err
		}

		return printResult(cmd, entries, func(w io.Writer) {
			tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TIME\tOPERATION\tFILE\tITEMS\tMESSAGE")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
					e.PerformedAt.Format("2006-01-02 15:04:05"), e.Operation, e.Filename, e.ItemsProcessed, e.Message)
			}
			tw.Flush()
		})
	},
}

func init() {
	dropCmd.Flags().BoolVar(&dropConfirm, "yes", false, "Confirm dropping all tables")
	logsCmd.Flags().IntVarP(&logsLimit, "limit", "n", 20, "Number of entries to show")

	rootCmd.AddCommand(dropCmd, logsCmd)
}
