package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	models "treelink/internal/domain/models/catalog"
)

var checkCmd = &cobra.Command{
	Use:   "check [structure-id]",
	Short: "Run the consistency check over a structure",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		report, err := a.Services.Consistency.Check(cmd.Context(), args[0], actor())
		if err != nil {
			return err
		}

		if err := printResult(cmd, report, func(w io.Writer) {
			fmt.Fprintf(w, "%s: %d folders, %d issues\n", report.Structure, report.TotalFolders, report.IssuesFound)
			for _, issue := range report.Issues {
				fmt.Fprintf(w, "  - %s\n", issue)
			}
		}); err != nil {
			return err
		}

		if !report.IsConsistent {
			return fmt.Errorf("structure %s is inconsistent", args[0])
		}
		return nil
	},
}

var treeCmd = &cobra.Command{
	Use:   "tree [structure-id]",
	Short: "Print the folder tree of a structure",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		tree, err := a.Services.Trees.GetFolderTree(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		return printResult(cmd, tree, func(w io.Writer) {
			fmt.Fprintln(w, tree.Structure.Name)
			printNodes(w, tree.Tree, 1)
		})
	},
}

func printNodes(w io.Writer, nodes []*models.FolderTreeNode, depth int) {
	for _, n := range nodes {
		fmt.Fprintf(w, "%s%s [%s]\n", strings.Repeat("  ", depth), n.Name, n.Code)
		printNodes(w, n.Children, depth+1)
	}
}

func init() {
	rootCmd.AddCommand(checkCmd, treeCmd)
}
