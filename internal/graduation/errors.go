package graduation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/countup/internal/store"
)

// ErrInvalidTransition is the parent of every rejected state change.
// A rejected transition never modifies stored state.
var ErrInvalidTransition = errors.New("invalid graduation transition")

var (
	ErrNotEligible      = fmt.Errorf("%w: mastery requirements not met", ErrInvalidTransition)
	ErrAlreadyPending   = fmt.Errorf("%w: a request is already pending", ErrInvalidTransition)
	ErrNoPendingRequest = fmt.Errorf("%w: no pending request", ErrInvalidTransition)
	ErrAlreadyGraduated = fmt.Errorf("%w: tier already graduated", ErrInvalidTransition)
	ErrFinalTier        = fmt.Errorf("%w: no tier after the final tier", ErrInvalidTransition)
)

// PartialApprovalError reports an approval that advanced the child's age
// but failed a later step. It is only returned by stores without
// transaction support.
type PartialApprovalError struct {
	Request   store.GraduationRequest
	Completed []string
	Step      string
	Err       error
}

func (e *PartialApprovalError) Error() string {
	return fmt.Sprintf("graduation %s partially approved (done: %s): %s failed: %v",
		e.Request.ID, strings.Join(e.Completed, ", "), e.Step, e.Err)
}

func (e *PartialApprovalError) Unwrap() error {
	return e.Err
}
