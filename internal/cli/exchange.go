package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tally/internal/exchange"
)

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export the filtered collection to a CSV or XLSX file",
	Long:  "Export the filtered collection to a file. The format follows the extension (.csv or .xlsx).",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import expenses from a CSV or XLSX file",
	Long:  "Import expenses from a file as new records. A file with any invalid row is rejected whole.",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func init() {
	addFilterFlags(exportCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	f, err := filterFromFlags()
	if err != nil {
		return err
	}
	format, err := exchange.DetectFormat(args[0])
	if err != nil {
		return err
	}

	file, err := os.Create(args[0])
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}

	count, err := service.Export(cmd.Context(), f, format, file)
	if err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close export file: %w", err)
	}

	fmt.Printf("Exported %d expense(s) to %s\n", count, args[0])
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	format, err := exchange.DetectFormat(args[0])
	if err != nil {
		return err
	}

	file, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open import file: %w", err)
	}
	defer file.Close()

	count, err := service.Import(cmd.Context(), file, format)
	if err != nil {
		if ie, ok := exchange.AsImportError(err); ok {
			fmt.Fprintf(os.Stderr, "Import rejected, nothing was saved:\n")
			for _, re := range ie.Rows {
				fmt.Fprintf(os.Stderr, "  row %d: %v\n", re.Row, re.Err)
			}
			return fmt.Errorf("%d invalid row(s)", len(ie.Rows))
		}
		return err
	}

	fmt.Printf("Imported %d expense(s) from %s\n", count, args[0])
	return nil
}
