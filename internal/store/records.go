package store

import (
	"context"
	"time"
)

// ModeProgress is a child's persisted progress in one mode, keyed by
// (UserID, ModeID).
type ModeProgress struct {
	UserID              string    `json:"user_id" validate:"required"`
	ModeID              string    `json:"mode_id" validate:"required"`
	CurrentLevel        int       `json:"current_level" validate:"gte=0"`
	HighestLevelReached int       `json:"highest_level_reached" validate:"gte=0,gtefield=CurrentLevel"`
	ProblemsSolved      int       `json:"problems_solved" validate:"gte=0"`
	Accuracy            float64   `json:"accuracy" validate:"gte=0,lte=100"`
	StarsEarned         int       `json:"stars_earned" validate:"gte=0"`
	LastPlayedAt        time.Time `json:"last_played_at"`
}

// ProgressSummary is the snapshot of tier progress captured when a
// graduation is requested.
type ProgressSummary struct {
	MetRequirements []string `json:"met_requirements"`
	OverallProgress float64  `json:"overall_progress"`
	ModesMastered   int      `json:"modes_mastered"`
}

// GraduationRequest is a pending request to advance a child to the next
// age tier.
type GraduationRequest struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	CurrentAge  int             `json:"current_age"`
	TargetAge   int             `json:"target_age"`
	RequestedAt time.Time       `json:"requested_at"`
	Summary     ProgressSummary `json:"summary"`
}

// MasteryState is the persisted status of one age tier for a child,
// keyed by (UserID, AgeTier).
type MasteryState struct {
	UserID         string             `json:"user_id" validate:"required"`
	AgeTier        int                `json:"age_tier" validate:"gte=3,lte=8"`
	ModesMastered  []string           `json:"modes_mastered"`
	OverallPct     float64            `json:"overall_pct" validate:"gte=0,lte=100"`
	Status         string             `json:"status" validate:"oneof=in_progress pending_approval graduated"`
	PendingRequest *GraduationRequest `json:"pending_request,omitempty"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// GraduationHistoryEntry is an immutable record of an approved
// graduation. ID is the originating request ID.
type GraduationHistoryEntry struct {
	ID          string          `json:"id" validate:"required"`
	UserID      string          `json:"user_id" validate:"required"`
	FromAge     int             `json:"from_age" validate:"gte=3,lte=8"`
	ToAge       int             `json:"to_age" validate:"gte=3,lte=8,gtfield=FromAge"`
	RequestedAt time.Time       `json:"requested_at"`
	ApprovedAt  time.Time       `json:"approved_at"`
	Summary     ProgressSummary `json:"summary"`
}

// ProgressStore persists the engine's state. Every write is a keyed
// upsert, so repeating a write leaves the same stored state.
type ProgressStore interface {
	// GetModeProgress returns ErrNotFound when the child never played the mode.
	GetModeProgress(ctx context.Context, userID, modeID string) (ModeProgress, error)
	PutModeProgress(ctx context.Context, rec ModeProgress) error
	ListModeProgress(ctx context.Context, userID string) ([]ModeProgress, error)

	// GetMasteryState returns ErrNotFound when the tier has no record yet.
	GetMasteryState(ctx context.Context, userID string, ageTier int) (MasteryState, error)
	PutMasteryState(ctx context.Context, st MasteryState) error
	ListMasteryStates(ctx context.Context, userID string) ([]MasteryState, error)

	// AppendGraduationHistory ignores an entry whose ID already exists
	// for the same user.
	AppendGraduationHistory(ctx context.Context, e GraduationHistoryEntry) error
	ListGraduationHistory(ctx context.Context, userID string) ([]GraduationHistoryEntry, error)

	SetUserAge(ctx context.Context, userID string, age int) error
	// GetUserAge returns ErrNotFound for an unknown user.
	GetUserAge(ctx context.Context, userID string) (int, error)

	// ResetUser deletes mode progress and mastery state. Age and
	// graduation history are kept.
	ResetUser(ctx context.Context, userID string) error
}

// Transactor is implemented by stores that can run several writes
// atomically. fn receives a store bound to the transaction; returning an
// error rolls everything back.
type Transactor interface {
	WithTx(ctx context.Context, fn func(ProgressStore) error) error
}
