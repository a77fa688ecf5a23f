package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSystemCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "system",
		Short: "System information commands",
	}

	cmd.AddCommand(newSystemConnectionsCommand())
	cmd.AddCommand(newSystemVersionCommand())
	cmd.AddCommand(newSystemWhoAmICommand())

	return cmd
}

func newSystemConnectionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "connections",
		Short: "List the connections the site exposes",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getAppContext(cmd)

			connections, err := app.Client.Connections(cmd.Context())
			if err != nil {
				return err
			}

			for _, name := range connections {
				fmt.Println(name)
			}
			return nil
		},
	}
}

func newSystemVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the API version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getAppContext(cmd)

			version, err := app.Client.Version(cmd.Context())
			if err != nil {
				return err
			}

			return printRecord(version)
		},
	}
}

func newSystemWhoAmICommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the user the current token belongs to",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getAppContext(cmd)

			user, err := app.Client.WhoAmI(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Println(user)
			return nil
		},
	}
}
