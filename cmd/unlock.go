package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/countup/internal/progression"
	"github.com/abhisek/countup/internal/ui/theme"
)

var unlockCmd = &cobra.Command{
	Use:   "unlock <user> [mode-id]",
	Short: "Check whether a mode is unlocked, or list every unlocked mode",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		ctx := cmd.Context()
		userID := args[0]
		age, err := rt.engine.Age(ctx, userID)
		if err != nil {
			return err
		}
		recs, err := rt.engine.LoadProgress(ctx, userID)
		if err != nil {
			return err
		}
		progress := progression.ToProgress(recs)
		out := cmd.OutOrStdout()

		if len(args) == 1 {
			for _, m := range rt.engine.UnlockedModes(age, progress) {
				fmt.Fprintf(out, "%s %-20s %s\n", theme.Unlocked.Render("●"), m.ID, m.Name)
			}
			return nil
		}

		res, err := rt.engine.CheckUnlock(args[1], age, progress)
		if err != nil {
			return err
		}
		if res.Unlocked {
			fmt.Fprintln(out, theme.Unlocked.Render("unlocked"))
			return nil
		}
		fmt.Fprintf(out, "%s  %s\n", theme.Locked.Render("locked"), res.Reason)
		return nil
	},
}
