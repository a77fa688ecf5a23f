package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTokenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "token",
		Short: "Print a bearer token for the configured connection",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getAppContext(cmd)

			token, err := app.Client.Token(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Println(token)
			return nil
		},
	}
}
