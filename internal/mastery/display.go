package mastery

import "fmt"

// StatusLabel maps a tier status to the label shown to parents.
func StatusLabel(s TierStatus) string {
	switch s {
	case StatusInProgress:
		return "Learning"
	case StatusPendingApproval:
		return "Waiting for parent"
	case StatusGraduated:
		return "Graduated"
	default:
		return "Unknown"
	}
}

// GapDescription explains what an unmet requirement still needs.
func GapDescription(r Requirement) string {
	levels, acc := r.LevelsToGo(), r.AccuracyGap()
	switch {
	case levels > 0 && acc > 0:
		return fmt.Sprintf("%d more level(s) and %.0f%% more accuracy", levels, acc)
	case levels > 0:
		return fmt.Sprintf("%d more level(s)", levels)
	case acc > 0:
		return fmt.Sprintf("%.0f%% more accuracy", acc)
	default:
		return "done"
	}
}
