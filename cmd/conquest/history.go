package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Import history commands",
		Long:  `Inspect the local record of past import runs`,
	}

	cmd.AddCommand(newHistoryListCommand())
	cmd.AddCommand(newHistoryShowCommand())

	return cmd
}

func newHistoryListCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List past imports, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getAppContext(cmd)

			entries, err := app.History.ListImports(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if len(entries) == 0 {
				fmt.Println("No imports recorded")
				return nil
			}

			for _, e := range entries {
				status := "ok"
				if !e.Success {
					status = "failed"
				}
				fmt.Printf("%s  %-19s  %-15s  %-6s  %s\n",
					e.ID,
					e.StartedAt.Local().Format("2006-01-02 15:04:05"),
					e.ImportType,
					status,
					e.File)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum entries to show (0 for all)")

	return cmd
}

func newHistoryShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <entry-id>",
		Short: "Show one import history entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getAppContext(cmd)

			entry, err := app.History.GetImport(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Printf("ID: %s\n", entry.ID)
			fmt.Printf("Import type: %s\n", entry.ImportType)
			fmt.Printf("File: %s\n", entry.File)
			if entry.BatchID != "" {
				fmt.Printf("Batch: %s\n", entry.BatchID)
			}
			fmt.Printf("Started: %s\n", entry.StartedAt.Local().Format("2006-01-02 15:04:05"))
			fmt.Printf("Duration: %s\n", entry.Duration())
			if entry.Success {
				fmt.Println("Result: completed")
			} else {
				fmt.Printf("Result: failed (%s)\n", entry.ErrorMessage)
			}
			if entry.ErrorReportPath != "" {
				fmt.Printf("Error report: %s\n", entry.ErrorReportPath)
			}
			return nil
		},
	}
}
