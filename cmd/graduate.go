package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/abhisek/countup/internal/graduation"
	"github.com/abhisek/countup/internal/review"
	"github.com/abhisek/countup/internal/ui/theme"
)

var graduateCmd = &cobra.Command{
	Use:   "graduate",
	Short: "Request, review and approve age tier graduations",
}

var graduateRequestCmd = &cobra.Command{
	Use:   "request <user>",
	Short: "Ask a parent to approve moving to the next age tier",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		req, err := rt.engine.RequestGraduation(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Graduation request %s: age %d → %d is waiting for a parent.\n",
			req.ID, req.CurrentAge, req.TargetAge)
		return nil
	},
}

var graduateApproveCmd = &cobra.Command{
	Use:   "approve <user>",
	Short: "Approve the pending graduation request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")

		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		if rt.cfg.Review && !yes {
			return runReview(cmd, rt, args[0])
		}
		return approve(cmd, rt, args[0])
	},
}

var graduateDenyCmd = &cobra.Command{
	Use:   "deny <user>",
	Short: "Deny the pending graduation request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()
		return deny(cmd, rt, args[0])
	},
}

var graduateReviewCmd = &cobra.Command{
	Use:   "review <user>",
	Short: "Review the pending graduation request interactively",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()
		return runReview(cmd, rt, args[0])
	},
}

var graduateHistoryCmd = &cobra.Command{
	Use:   "history <user>",
	Short: "List approved graduations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		hist, err := rt.engine.Workflow().History(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if len(hist) == 0 {
			fmt.Fprintln(w, "No graduations yet.")
			return nil
		}

		fmt.Fprintf(w, "%-36s  %-7s  %-16s  %-16s  %s\n", "Request", "Ages", "Requested", "Approved", "Progress")
		fmt.Fprintln(w, strings.Repeat("─", 96))
		for _, h := range hist {
			fmt.Fprintf(w, "%-36s  %d → %d    %-16s  %-16s  %.0f%%\n",
				h.ID, h.FromAge, h.ToAge,
				h.RequestedAt.Local().Format("2006-01-02 15:04"),
				h.ApprovedAt.Local().Format("2006-01-02 15:04"),
				h.Summary.OverallProgress)
		}
		return nil
	},
}

// errNoTerminal is returned when the review prompt cannot be shown.
var errNoTerminal = errors.New("the review prompt needs a terminal; pass --yes to approve without it or use `countup graduate deny`")

// stdinIsTerminal is replaced in tests.
var stdinIsTerminal = func() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func runReview(cmd *cobra.Command, rt *runtime, userID string) error {
	ctx := cmd.Context()
	pending, err := rt.engine.PendingGraduation(ctx, userID)
	if err != nil {
		return err
	}
	if pending == nil {
		fmt.Fprintf(cmd.OutOrStdout(), "No graduation request is waiting for %s.\n", userID)
		return nil
	}
	if !stdinIsTerminal() {
		return errNoTerminal
	}
	res, err := rt.engine.Eligibility(ctx, userID)
	if err != nil {
		return err
	}

	decision, err := review.Run(ctx, *pending, res)
	if err != nil {
		return err
	}
	switch decision {
	case review.Approve:
		return approve(cmd, rt, userID)
	case review.Deny:
		return deny(cmd, rt, userID)
	default:
		fmt.Fprintln(cmd.OutOrStdout(), "No decision made; the request is still pending.")
		return nil
	}
}

func approve(cmd *cobra.Command, rt *runtime, userID string) error {
	entry, err := rt.engine.ApproveGraduation(cmd.Context(), userID)
	if err != nil {
		var partial *graduation.PartialApprovalError
		if errors.As(err, &partial) {
			rt.logger.Error("graduation partially applied",
				slog.String("user_id", userID),
				slog.String("completed", strings.Join(partial.Completed, ",")),
				slog.String("failed_step", partial.Step))
		}
		return err
	}
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s %s moved from age %d to age %d.\n",
		theme.Graduated.Render("Graduated!"), userID, entry.FromAge, entry.ToAge)
	if tier, ok := rt.engine.Catalog().Tier(entry.FromAge); ok && tier.Certificate.Title != "" {
		fmt.Fprintf(w, "Certificate: %s (%s)\n",
			theme.Stars.Render(tier.Certificate.Title), tier.Certificate.Description)
	}
	return nil
}

func deny(cmd *cobra.Command, rt *runtime, userID string) error {
	req, err := rt.engine.DenyGraduation(cmd.Context(), userID)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Request %s denied; %s stays at age %d and can ask again later.\n",
		req.ID, userID, req.CurrentAge)
	return nil
}

func init() {
	graduateApproveCmd.Flags().BoolP("yes", "y", false, "Approve without the interactive review")
	graduateCmd.AddCommand(graduateRequestCmd, graduateApproveCmd, graduateDenyCmd, graduateReviewCmd, graduateHistoryCmd)
}
