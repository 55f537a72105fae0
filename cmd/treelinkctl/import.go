package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	catalogSvc "treelink/internal/domain/services/catalog"
)

var importCmd = &cobra.Command{
	Use:   "import [structure.xml]",
	Short: "Import a structure XML file with its folder tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read structure file: %w", err)
		}

		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := a.Services.Import.ImportStructure(cmd.Context(), &catalogSvc.ImportStructureRequest{
			Filename: filepath.Base(args[0]),
			Content:  content,
			UserID:   actor(),
		})
		if err != nil {
			return err
		}

		return printResult(cmd, result, func(w io.Writer) {
			if result.Duplicate {
				fmt.Fprintf(w, "already imported as %s (%s)\n", result.StructureName, result.StructureID)
				return
			}
			fmt.Fprintf(w, "imported %s (%s): %d folders\n", result.StructureName, result.StructureID, result.FoldersCount)
		})
	},
}

var (
	uploadStructureID string
	uploadForce       bool
	uploadCode        string
)

var uploadDocumentCmd = &cobra.Command{
	Use:   "upload-document [document.xml]",
	Short: "Store a document XML file and attach it to its folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read document file: %w", err)
		}

		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := a.Services.Documents.Upload(cmd.Context(), &catalogSvc.UploadDocumentRequest{
			StructureID:  uploadStructureID,
			Filename:     filepath.Base(args[0]),
			Content:      content,
			Force:        uploadForce,
			CodeOverride: uploadCode,
			UserID:       actor(),
		})
		if err != nil {
			return err
		}

		return printResult(cmd, result, func(w io.Writer) {
			fmt.Fprintf(w, "%s %s (%s) in folder %s of %s\n",
				result.Action, result.Document.Code, result.Document.ID, result.Folder.Code, result.Folder.Structure)
		})
	},
}

func init() {
	uploadDocumentCmd.Flags().StringVar(&uploadStructureID, "structure", "", "Target structure ID")
	uploadDocumentCmd.Flags().BoolVar(&uploadForce, "force", false, "Overwrite a document with the same code")
	uploadDocumentCmd.Flags().StringVar(&uploadCode, "code", "", "Store under this code instead of header/doc_number")
	_ = uploadDocumentCmd.MarkFlagRequired("structure")

	rootCmd.AddCommand(importCmd, uploadDocumentCmd)
}
