package mastery

// TierStatus is a child's position in an age tier's graduation lifecycle.
type TierStatus string

const (
	StatusInProgress      TierStatus = "in_progress"
	StatusPendingApproval TierStatus = "pending_approval"
	StatusGraduated       TierStatus = "graduated"
)

// Valid reports whether s is a known status.
func (s TierStatus) Valid() bool {
	switch s {
	case StatusInProgress, StatusPendingApproval, StatusGraduated:
		return true
	}
	return false
}

// StateTransition records a tier status change for display and logging.
type StateTransition struct {
	UserID  string
	Tier    int
	From    TierStatus
	To      TierStatus
	Trigger string // "request", "approve", "deny"
}
