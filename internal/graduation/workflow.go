// Package graduation runs the request, approve and deny state machine that
// moves a child from one age tier to the next.
package graduation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/countup/internal/catalog"
	"github.com/abhisek/countup/internal/mastery"
	"github.com/abhisek/countup/internal/store"
)

// Approval step names, in execution order.
const (
	StepSetAge        = "set age"
	StepMarkGraduated = "mark tier graduated"
	StepAppendHistory = "append history"
	StepInitNextTier  = "init next tier"
)

// Workflow applies graduation transitions against a ProgressStore.
type Workflow struct {
	store     store.ProgressStore
	evaluator *mastery.Evaluator
	logger    *slog.Logger
	now       func() time.Time
	newID     func() string
}

// Option configures a Workflow.
type Option func(*Workflow)

// WithLogger sets the logger for transitions.
func WithLogger(l *slog.Logger) Option {
	return func(w *Workflow) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithClock sets the clock used to stamp requests and approvals.
func WithClock(now func() time.Time) Option {
	return func(w *Workflow) { w.now = now }
}

// WithIDGenerator replaces the request ID generator.
func WithIDGenerator(newID func() string) Option {
	return func(w *Workflow) { w.newID = newID }
}

// New creates a workflow.
func New(s store.ProgressStore, e *mastery.Evaluator, opts ...Option) *Workflow {
	w := &Workflow{
		store:     s,
		evaluator: e,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// State returns the stored mastery state for a tier, or a fresh
// in-progress state when none exists.
func (w *Workflow) State(ctx context.Context, userID string, tier int) (store.MasteryState, error) {
	st, err := w.store.GetMasteryState(ctx, userID, tier)
	if errors.Is(err, store.ErrNotFound) {
		return store.MasteryState{
			UserID:  userID,
			AgeTier: tier,
			Status:  string(mastery.StatusInProgress),
		}, nil
	}
	if err != nil {
		return store.MasteryState{}, fmt.Errorf("load mastery state: %w", err)
	}
	return st, nil
}

// Refresh re-evaluates a tier and stores the mastered modes and overall
// progress without changing the tier's status.
func (w *Workflow) Refresh(ctx context.Context, userID string, tier int, progress catalog.Progress) (mastery.Result, error) {
	res, err := w.evaluator.Evaluate(tier, progress)
	if err != nil {
		return mastery.Result{}, err
	}
	st, err := w.State(ctx, userID, tier)
	if err != nil {
		return res, err
	}
	st.ModesMastered = res.MetModeIDs()
	st.OverallPct = res.OverallProgress
	st.UpdatedAt = w.now()
	if err := w.store.PutMasteryState(ctx, st); err != nil {
		return res, fmt.Errorf("save mastery state: %w", err)
	}
	return res, nil
}

// Request moves an eligible tier to pending approval and stores a
// snapshot of the child's progress. The target is always tier+1.
func (w *Workflow) Request(ctx context.Context, userID string, tier int, progress catalog.Progress) (store.GraduationRequest, error) {
	if tier >= catalog.MaxAge {
		return store.GraduationRequest{}, ErrFinalTier
	}
	res, err := w.evaluator.Evaluate(tier, progress)
	if err != nil {
		return store.GraduationRequest{}, err
	}

	st, err := w.State(ctx, userID, tier)
	if err != nil {
		return store.GraduationRequest{}, err
	}
	switch mastery.TierStatus(st.Status) {
	case mastery.StatusPendingApproval:
		return store.GraduationRequest{}, ErrAlreadyPending
	case mastery.StatusGraduated:
		return store.GraduationRequest{}, ErrAlreadyGraduated
	}
	if !res.IsEligible {
		return store.GraduationRequest{}, fmt.Errorf("%w (%.0f%% complete)", ErrNotEligible, res.OverallProgress)
	}

	now := w.now()
	met := res.MetModeIDs()
	req := store.GraduationRequest{
		ID:          w.newID(),
		UserID:      userID,
		CurrentAge:  tier,
		TargetAge:   tier + 1,
		RequestedAt: now,
		Summary: store.ProgressSummary{
			MetRequirements: met,
			OverallProgress: res.OverallProgress,
			ModesMastered:   len(met),
		},
	}

	from := st.Status
	st.Status = string(mastery.StatusPendingApproval)
	st.PendingRequest = &req
	st.ModesMastered = met
	st.OverallPct = res.OverallProgress
	st.UpdatedAt = now
	if err := w.store.PutMasteryState(ctx, st); err != nil {
		return store.GraduationRequest{}, fmt.Errorf("save graduation request: %w", err)
	}

	w.logTransition(mastery.StateTransition{
		UserID: userID, Tier: tier,
		From: mastery.TierStatus(from), To: mastery.StatusPendingApproval,
		Trigger: "request",
	}, slog.String("request_id", req.ID))
	return req, nil
}

// Pending returns the pending request for a tier, or nil.
func (w *Workflow) Pending(ctx context.Context, userID string, tier int) (*store.GraduationRequest, error) {
	st, err := w.State(ctx, userID, tier)
	if err != nil {
		return nil, err
	}
	if mastery.TierStatus(st.Status) != mastery.StatusPendingApproval {
		return nil, nil
	}
	return st.PendingRequest, nil
}

// Approve completes a pending request: the child's age becomes the
// target age, the tier is marked graduated, the request snapshot is added
// to history and the next tier starts at 0%.
//
// With a transactional store the steps commit together. Otherwise they run
// in order; a failure to set the age aborts with nothing changed, and a
// later failure returns *PartialApprovalError.
func (w *Workflow) Approve(ctx context.Context, userID string, tier int) (store.GraduationHistoryEntry, error) {
	st, err := w.State(ctx, userID, tier)
	if err != nil {
		return store.GraduationHistoryEntry{}, err
	}
	if mastery.TierStatus(st.Status) != mastery.StatusPendingApproval || st.PendingRequest == nil {
		return store.GraduationHistoryEntry{}, ErrNoPendingRequest
	}
	req := *st.PendingRequest
	if req.TargetAge != req.CurrentAge+1 || req.CurrentAge != tier {
		return store.GraduationHistoryEntry{}, fmt.Errorf("%w: request %s targets age %d from %d",
			ErrInvalidTransition, req.ID, req.TargetAge, req.CurrentAge)
	}

	now := w.now()
	entry := store.GraduationHistoryEntry{
		ID:          req.ID,
		UserID:      userID,
		FromAge:     req.CurrentAge,
		ToAge:       req.TargetAge,
		RequestedAt: req.RequestedAt,
		ApprovedAt:  now,
		Summary:     req.Summary,
	}

	if tx, ok := w.store.(store.Transactor); ok {
		err = tx.WithTx(ctx, func(ps store.ProgressStore) error {
			_, err := w.applyApproval(ctx, ps, st, entry)
			return err
		})
		if err != nil {
			w.logger.Error("graduation approval rolled back",
				slog.String("user_id", userID),
				slog.String("request_id", req.ID),
				slog.String("error", err.Error()))
			return store.GraduationHistoryEntry{}, fmt.Errorf("approve graduation: %w", err)
		}
	} else {
		done, err := w.applyApproval(ctx, w.store, st, entry)
		if err != nil {
			if len(done) == 0 {
				return store.GraduationHistoryEntry{}, fmt.Errorf("approve graduation: %w", err)
			}
			perr := &PartialApprovalError{
				Request:   req,
				Completed: done,
				Step:      stepAfter(done),
				Err:       err,
			}
			w.logger.Error("graduation partially approved",
				slog.String("user_id", userID),
				slog.String("request_id", req.ID),
				slog.Any("completed", done),
				slog.String("failed_step", perr.Step),
				slog.String("error", err.Error()))
			return store.GraduationHistoryEntry{}, perr
		}
	}

	w.logTransition(mastery.StateTransition{
		UserID: userID, Tier: tier,
		From: mastery.StatusPendingApproval, To: mastery.StatusGraduated,
		Trigger: "approve",
	}, slog.String("request_id", req.ID), slog.Int("new_age", entry.ToAge))
	return entry, nil
}

var approvalSteps = []string{StepSetAge, StepMarkGraduated, StepAppendHistory, StepInitNextTier}

func stepAfter(done []string) string {
	if len(done) < len(approvalSteps) {
		return approvalSteps[len(done)]
	}
	return ""
}

// applyApproval runs the approval steps in order and returns the names of
// the steps that succeeded.
func (w *Workflow) applyApproval(ctx context.Context, ps store.ProgressStore, st store.MasteryState, entry store.GraduationHistoryEntry) ([]string, error) {
	var done []string

	if err := ps.SetUserAge(ctx, entry.UserID, entry.ToAge); err != nil {
		return done, err
	}
	done = append(done, StepSetAge)

	st.Status = string(mastery.StatusGraduated)
	st.PendingRequest = nil
	st.UpdatedAt = entry.ApprovedAt
	if err := ps.PutMasteryState(ctx, st); err != nil {
		return done, err
	}
	done = append(done, StepMarkGraduated)

	if err := ps.AppendGraduationHistory(ctx, entry); err != nil {
		return done, err
	}
	done = append(done, StepAppendHistory)

	next := store.MasteryState{
		UserID:        entry.UserID,
		AgeTier:       entry.ToAge,
		ModesMastered: []string{},
		OverallPct:    0,
		Status:        string(mastery.StatusInProgress),
		UpdatedAt:     entry.ApprovedAt,
	}
	if err := ps.PutMasteryState(ctx, next); err != nil {
		return done, err
	}
	done = append(done, StepInitNextTier)
	return done, nil
}

// Deny returns a pending tier to in progress and discards the request.
func (w *Workflow) Deny(ctx context.Context, userID string, tier int) (store.GraduationRequest, error) {
	st, err := w.State(ctx, userID, tier)
	if err != nil {
		return store.GraduationRequest{}, err
	}
	if mastery.TierStatus(st.Status) != mastery.StatusPendingApproval || st.PendingRequest == nil {
		return store.GraduationRequest{}, ErrNoPendingRequest
	}
	req := *st.PendingRequest

	st.Status = string(mastery.StatusInProgress)
	st.PendingRequest = nil
	st.UpdatedAt = w.now()
	if err := w.store.PutMasteryState(ctx, st); err != nil {
		return store.GraduationRequest{}, fmt.Errorf("deny graduation: %w", err)
	}

	w.logTransition(mastery.StateTransition{
		UserID: userID, Tier: tier,
		From: mastery.StatusPendingApproval, To: mastery.StatusInProgress,
		Trigger: "deny",
	}, slog.String("request_id", req.ID))
	return req, nil
}

// History lists a child's approved graduations, oldest first.
func (w *Workflow) History(ctx context.Context, userID string) ([]store.GraduationHistoryEntry, error) {
	h, err := w.store.ListGraduationHistory(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load graduation history: %w", err)
	}
	return h, nil
}

func (w *Workflow) logTransition(t mastery.StateTransition, attrs ...slog.Attr) {
	args := []any{
		slog.String("user_id", t.UserID),
		slog.Int("tier", t.Tier),
		slog.String("from", string(t.From)),
		slog.String("to", string(t.To)),
		slog.String("trigger", t.Trigger),
	}
	for _, a := range attrs {
		args = append(args, a)
	}
	w.logger.Info("graduation transition", args...)
}
