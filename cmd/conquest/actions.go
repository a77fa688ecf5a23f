package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newActionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "action",
		Short: "Action commands",
	}

	cmd.AddCommand(newActionGetCommand())
	cmd.AddCommand(newActionFindCommand())
	cmd.AddCommand(newActionDeleteCommand())

	return cmd
}

func newActionGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Fetch an action by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getAppContext(cmd)

			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid action id: %s", args[0])
			}

			action, err := app.Client.Action(cmd.Context(), id)
			if err != nil {
				return err
			}

			return printRecord(action)
		},
	}
}

func newActionFindCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "find <field> <value>",
		Short: "Find the action uniquely matching a field value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getAppContext(cmd)

			action, err := app.Client.FindActionByField(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			return printRecord(action)
		},
	}
}

func newActionDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete one or more actions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getAppContext(cmd)

			ids := make([]int, 0, len(args))
			for _, arg := range args {
				id, err := strconv.Atoi(arg)
				if err != nil {
					return fmt.Errorf("invalid action id: %s", arg)
				}
				ids = append(ids, id)
			}

			outcomes := app.Client.DeleteActions(cmd.Context(), ids...)

			failed := 0
			for _, id := range ids {
				if err := outcomes[id]; err != nil {
					failed++
					fmt.Printf("✗ %d: %v\n", id, err)
				} else {
					fmt.Printf("✓ %d deleted\n", id)
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d deletes failed", failed, len(ids))
			}
			return nil
		},
	}
}
