package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/countup/internal/mastery"
	"github.com/abhisek/countup/internal/progression"
	"github.com/abhisek/countup/internal/ui/components"
	"github.com/abhisek/countup/internal/ui/theme"
)

var masteryCmd = &cobra.Command{
	Use:   "mastery <user>",
	Short: "Show how close a child is to graduating a tier",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		ctx := cmd.Context()
		userID := args[0]
		tier, _ := cmd.Flags().GetInt("tier")
		if tier == 0 {
			if tier, err = rt.engine.Age(ctx, userID); err != nil {
				return err
			}
		}
		recs, err := rt.engine.LoadProgress(ctx, userID)
		if err != nil {
			return err
		}
		res, err := rt.engine.CheckEligibility(tier, progression.ToProgress(recs))
		if err != nil {
			return err
		}
		st, err := rt.engine.Workflow().State(ctx, userID, tier)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%s  age %d tier  %s\n\n",
			theme.Title.Render(userID), tier, components.StatusBadge(mastery.TierStatus(st.Status)))
		fmt.Fprintln(w, components.NewProgressBar("Progress", res.OverallProgress, true, 60).View())
		fmt.Fprintln(w)
		if t, ok := rt.engine.Catalog().Tier(tier); ok && len(t.FocusAreas) > 0 {
			fmt.Fprintln(w, theme.Subtitle.Render("Focus: "+strings.Join(t.FocusAreas, ", ")))
			fmt.Fprintln(w)
		}
		for _, r := range res.Met {
			fmt.Fprintln(w, components.RequirementLine(r))
		}
		for _, r := range res.Unmet {
			fmt.Fprintln(w, components.RequirementLine(r))
		}
		if res.IsEligible && st.Status == string(mastery.StatusInProgress) {
			fmt.Fprintln(w)
			fmt.Fprintln(w, theme.Hint.Render(fmt.Sprintf("Eligible. Run `countup graduate request %s` to ask a parent.", userID)))
		}
		return nil
	},
}

func init() {
	masteryCmd.Flags().Int("tier", 0, "Age tier to evaluate (defaults to the child's age)")
}
