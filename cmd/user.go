package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage children",
}

var userSetAgeCmd = &cobra.Command{
	Use:   "set-age <user> <age>",
	Short: "Set a child's age tier",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		age, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid age %q: %w", args[1], err)
		}

		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		if err := rt.engine.SetAge(cmd.Context(), args[0], age); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is now in the age %d tier.\n", args[0], age)
		return nil
	},
}

func init() {
	userCmd.AddCommand(userSetAgeCmd)
}
