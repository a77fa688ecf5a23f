package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"conquest"
)

func newAssetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "asset",
		Short: "Asset commands",
	}

	cmd.AddCommand(newAssetGetCommand())
	cmd.AddCommand(newAssetFindCommand())

	return cmd
}

func newAssetGetCommand() *cobra.Command {
	var basic bool

	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Fetch an asset by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getAppContext(cmd)

			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid asset id: %s", args[0])
			}

			var asset conquest.Record
			if basic {
				asset, err = app.Client.AssetBasic(cmd.Context(), id)
			} else {
				asset, err = app.Client.Asset(cmd.Context(), id)
			}
			if err != nil {
				return err
			}

			return printRecord(asset)
		},
	}

	cmd.Flags().BoolVar(&basic, "basic", false, "Fetch the basic record only")

	return cmd
}

func newAssetFindCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "find <field> <value>",
		Short: "Find the asset uniquely matching a field value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getAppContext(cmd)

			asset, err := app.Client.FindAssetByField(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			return printRecord(asset)
		},
	}
}
