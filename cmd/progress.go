package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/countup/internal/progression"
	"github.com/abhisek/countup/internal/transfer"
	"github.com/abhisek/countup/internal/ui/components"
	"github.com/abhisek/countup/internal/ui/theme"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Record, inspect and move a child's progress",
}

var progressRecordCmd = &cobra.Command{
	Use:   "record <user> <mode-id>",
	Short: "Record the result of a completed level",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetInt("level")
		correct, _ := cmd.Flags().GetInt("correct")
		total, _ := cmd.Flags().GetInt("total")

		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		out, err := rt.engine.CompleteLevel(cmd.Context(), args[0], progression.LevelResult{
			ModeID: args[1], Level: level, Correct: correct, Total: total,
		})
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		verdict := theme.Unmet.Render("not passed")
		if out.Passed {
			verdict = theme.Met.Render("passed")
		}
		fmt.Fprintf(w, "Level %d of %s: %s %s  (%d/%d)\n",
			level, args[1], verdict, components.StarString(out.Stars), correct, total)
		fmt.Fprintf(w, "Now at level %d, accuracy %.1f%%, %d problems solved\n",
			out.Record.CurrentLevel, out.Record.Accuracy, out.Record.ProblemsSolved)
		for _, m := range out.NewlyUnlocked {
			fmt.Fprintf(w, "%s %s %s\n", theme.Unlocked.Render("Unlocked:"), m.Emoji, m.Name)
		}
		if out.Mastery.IsEligible {
			fmt.Fprintln(w, theme.PendingApproval.Render(fmt.Sprintf("Ready to graduate from age %d!", out.Mastery.Tier)))
		}
		return nil
	},
}

var progressShowCmd = &cobra.Command{
	Use:   "show <user>",
	Short: "Show a child's mode progress",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		ctx := cmd.Context()
		age, err := rt.engine.Age(ctx, args[0])
		if err != nil {
			return err
		}
		recs, err := rt.engine.LoadProgress(ctx, args[0])
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%s  age %d\n\n", theme.Title.Render(args[0]), age)
		if len(recs) == 0 {
			fmt.Fprintln(w, "No levels played yet.")
			return nil
		}

		fmt.Fprintf(w, "%-20s  %5s  %7s  %8s  %8s  %5s  %s\n",
			"Mode", "Level", "Highest", "Accuracy", "Problems", "Stars", "Last played")
		fmt.Fprintln(w, strings.Repeat("─", 80))
		for _, r := range recs {
			fmt.Fprintf(w, "%-20s  %5d  %7d  %7.1f%%  %8d  %5d  %s\n",
				r.ModeID, r.CurrentLevel, r.HighestLevelReached, r.Accuracy,
				r.ProblemsSolved, r.StarsEarned, r.LastPlayedAt.Local().Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var progressExportCmd = &cobra.Command{
	Use:   "export <user>",
	Short: "Export a child's progress as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")

		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		doc, err := transfer.Export(cmd.Context(), rt.store, args[0], time.Now())
		if err != nil {
			return err
		}

		if output == "" || output == "-" {
			return transfer.Encode(cmd.OutOrStdout(), doc)
		}
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("create %s: %w", output, err)
		}
		if err := transfer.Encode(f, doc); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	},
}

var progressImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a progress export",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		as, _ := cmd.Flags().GetString("as")
		replace, _ := cmd.Flags().GetBool("replace")

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open %s: %w", args[0], err)
		}
		defer f.Close()

		doc, err := transfer.Decode(f)
		if err != nil {
			return err
		}

		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		if err := transfer.Import(cmd.Context(), rt.store, doc, transfer.ImportOptions{UserID: as, Replace: replace}); err != nil {
			return err
		}
		userID := doc.UserID
		if as != "" {
			userID = as
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d mode(s), %d tier(s) and %d graduation(s) for %s\n",
			len(doc.Modes), len(doc.Mastery), len(doc.History), userID)
		return nil
	},
}

var progressResetCmd = &cobra.Command{
	Use:   "reset <user>",
	Short: "Delete a child's mode progress and mastery (age and history are kept)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			return fmt.Errorf("refusing to reset %s without --yes", args[0])
		}

		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		if err := rt.engine.Reset(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Progress for %s reset.\n", args[0])
		return nil
	},
}

func init() {
	progressRecordCmd.Flags().Int("level", 1, "Level played")
	progressRecordCmd.Flags().Int("correct", 0, "Problems answered correctly")
	progressRecordCmd.Flags().Int("total", 0, "Problems answered")
	_ = progressRecordCmd.MarkFlagRequired("total")

	progressExportCmd.Flags().StringP("output", "o", "", "Write to file instead of stdout")

	progressImportCmd.Flags().String("as", "", "Import under a different user ID")
	progressImportCmd.Flags().Bool("replace", false, "Clear the child's existing progress first")

	progressResetCmd.Flags().Bool("yes", false, "Confirm the reset")

	progressCmd.AddCommand(progressRecordCmd, progressShowCmd, progressExportCmd, progressImportCmd, progressResetCmd)
}
