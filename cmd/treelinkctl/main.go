// Command treelinkctl runs maintenance and import tasks against the
// configured backend.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"treelink/internal/app"
	"treelink/internal/config"
)

var (
	verbose    bool
	actorID    string
	jsonOutput bool
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")
	rootCmd.PersistentFlags().StringVar(&actorID, "user", "", "User ID recorded in the import log")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print results as JSON")
}

var rootCmd = &cobra.Command{
	Use:           "treelinkctl",
	Short:         "Import XML structures and documents, run migrations and checks",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// openApp loads configuration and opens the backend. The caller closes it.
func openApp(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	return app.Open(ctx, cfg, logger)
}

// actor returns the --user flag as an audit actor
func actor() *string {
	if actorID == "" {
		return nil
	}
	return &actorID
}

// printResult writes v as indented JSON when --json is set, otherwise calls
// the plain printer
func printResult(cmd *cobra.Command, v interface{}, plain func(w io.Writer)) error {
	w := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	plain(w)
	return nil
}
