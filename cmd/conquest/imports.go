package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"conquest"
	"conquest/internal/history"
)

func newImportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import commands",
		Long:  `Upload files into Conquest and track import batches`,
	}

	cmd.AddCommand(newImportSubmitCommand())
	cmd.AddCommand(newImportStateCommand())
	cmd.AddCommand(newImportReportCommand())
	cmd.AddCommand(newImportTypesCommand())

	return cmd
}

func newImportSubmitCommand() *cobra.Command {
	var importType string

	cmd := &cobra.Command{
		Use:   "submit <file>",
		Short: "Upload a file and wait for the import to finish",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getAppContext(cmd)
			file := args[0]

			started := time.Now().UTC()
			result, err := app.Importer.Submit(cmd.Context(), file, importType)
			if err != nil {
				return err
			}
			finished := time.Now().UTC()

			entry := &history.Entry{
				BatchID:         result.BatchID,
				ImportType:      importType,
				File:            file,
				Success:         result.Success,
				ErrorMessage:    result.ErrorMessage,
				ErrorReportPath: result.ErrorReportPath,
				StartedAt:       started,
				FinishedAt:      finished,
			}
			if err := app.History.RecordImport(cmd.Context(), entry); err != nil {
				app.Logger.Warn("failed to record import history", "error", err)
			}

			if result.Success {
				fmt.Printf("✓ Import completed (batch %s)\n", result.BatchID)
				return nil
			}

			if result.ErrorReportPath != "" {
				fmt.Printf("Error report written to %s\n", result.ErrorReportPath)
			}
			return fmt.Errorf("import failed: %s", result.ErrorMessage)
		},
	}

	cmd.Flags().StringVar(&importType, "type", "", "Import type (see 'conquest import types')")
	cmd.MarkFlagRequired("type")

	return cmd
}

func newImportStateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "state <batch-id>",
		Short: "Show the state of an import batch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getAppContext(cmd)

			state, err := app.Importer.State(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Printf("Status: %s\n", state.Status)
			if state.Error != "" {
				fmt.Printf("Error: %s\n", state.Error)
			}
			return nil
		},
	}
}

func newImportReportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "report <batch-id> <import-file>",
		Short: "Download the error report for a failed batch",
		Long: `Download the error CSV for a failed batch. The report is named after the
import file and written to the configured output directory.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getAppContext(cmd)

			path, err := app.Importer.WriteErrorReport(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			fmt.Println(path)
			return nil
		},
	}
}

func newImportTypesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the valid import types",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, t := range conquest.ImportTypes() {
				fmt.Println(t)
			}
			return nil
		},
	}
}
