package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/countup/internal/mastery"
	"github.com/abhisek/countup/internal/ui/theme"
)

// StatusBadge renders a tier status with its color.
func StatusBadge(s mastery.TierStatus) string {
	label := mastery.StatusLabel(s)
	switch s {
	case mastery.StatusPendingApproval:
		return theme.PendingApproval.Render(label)
	case mastery.StatusGraduated:
		return theme.Graduated.Render(label)
	default:
		return theme.InProgress.Render(label)
	}
}

// StarString renders n filled stars out of three.
func StarString(n int) string {
	n = min(max(n, 0), 3)
	return theme.Stars.Render(strings.Repeat("★", n)) + theme.Locked.Render(strings.Repeat("☆", 3-n))
}

// RequirementLine renders one tier requirement with a met/unmet mark.
func RequirementLine(r mastery.Requirement) string {
	mark, style := "✗", theme.Unmet
	if r.Met() {
		mark, style = "✓", theme.Met
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		style.Render(mark+" "),
		theme.Body.Render(r.ModeName),
		theme.Hint.Render("  "+mastery.GapDescription(r)),
	)
}
