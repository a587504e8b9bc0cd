// Package progression is the entry point the app talks to. It combines
// unlock checks, difficulty sizing, mastery evaluation and graduation over
// a ProgressStore.
package progression

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/abhisek/countup/internal/catalog"
	"github.com/abhisek/countup/internal/difficulty"
	"github.com/abhisek/countup/internal/graduation"
	"github.com/abhisek/countup/internal/mastery"
	"github.com/abhisek/countup/internal/performance"
	"github.com/abhisek/countup/internal/store"
	"github.com/abhisek/countup/internal/unlock"
)

var (
	// ErrLocked is returned when playing a mode the child cannot open.
	ErrLocked = errors.New("mode is locked")

	// ErrInvalidResult is returned for impossible level results.
	ErrInvalidResult = errors.New("invalid level result")

	// ErrInvalidAge is returned for ages outside the supported tiers.
	ErrInvalidAge = errors.New("invalid age")
)

// Engine is the app-facing progression API. Its computing methods are pure
// over the data passed in; the persisting methods go through the store.
type Engine struct {
	catalog   *catalog.Catalog
	resolver  *unlock.Resolver
	evaluator *mastery.Evaluator
	workflow  *graduation.Workflow
	store     store.ProgressStore
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures an Engine.
type Option func(*engineOptions)

type engineOptions struct {
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

// WithLogger sets the logger for the engine and its workflow.
func WithLogger(l *slog.Logger) Option {
	return func(o *engineOptions) { o.logger = l }
}

// WithClock sets the clock used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *engineOptions) { o.now = now }
}

// WithIDGenerator sets the graduation request ID generator.
func WithIDGenerator(newID func() string) Option {
	return func(o *engineOptions) { o.newID = newID }
}

// New creates an engine over a validated catalog and a store.
func New(c *catalog.Catalog, s store.ProgressStore, opts ...Option) *Engine {
	o := engineOptions{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}

	evaluator := mastery.NewEvaluator(c)
	wfOpts := []graduation.Option{graduation.WithLogger(o.logger), graduation.WithClock(o.now)}
	if o.newID != nil {
		wfOpts = append(wfOpts, graduation.WithIDGenerator(o.newID))
	}

	return &Engine{
		catalog:   c,
		resolver:  unlock.NewResolver(c),
		evaluator: evaluator,
		workflow:  graduation.New(s, evaluator, wfOpts...),
		store:     s,
		logger:    o.logger,
		now:       o.now,
	}
}

// Catalog returns the mode catalog.
func (e *Engine) Catalog() *catalog.Catalog { return e.catalog }

// Workflow returns the graduation workflow.
func (e *Engine) Workflow() *graduation.Workflow { return e.workflow }

// CheckUnlock reports whether a mode is open for the given age and progress.
func (e *Engine) CheckUnlock(modeID string, age int, progress catalog.Progress) (unlock.Result, error) {
	return e.resolver.Resolve(modeID, progress, age)
}

// UnlockedModes lists every open mode in catalog order.
func (e *Engine) UnlockedModes(age int, progress catalog.Progress) []catalog.Mode {
	return e.resolver.UnlockedModes(progress, age)
}

// DifficultyConfig is what a problem generator needs for the next batch.
// Adjustment is nil when no metrics were supplied.
type DifficultyConfig struct {
	difficulty.Params
	Adjustment *difficulty.Adjustment `json:"adjustment,omitempty"`
}

// DifficultyConfig sizes problems for a mode level. Without metrics the
// initial tables are used as is; with metrics the adjustment is applied.
func (e *Engine) DifficultyConfig(modeID string, level, age int, m *performance.Metrics) (DifficultyConfig, error) {
	mode, err := e.catalog.Mode(modeID)
	if err != nil {
		return DifficultyConfig{}, fmt.Errorf("%w: %q", unlock.ErrUnknownMode, modeID)
	}
	level = min(max(level, 1), mode.TotalLevels)

	base, err := difficulty.Initial(mode.Domain, level, age)
	if err != nil {
		return DifficultyConfig{}, err
	}
	if m == nil {
		return DifficultyConfig{Params: base}, nil
	}

	adj := difficulty.Adjust(*m, age)
	e.logger.Debug("difficulty adjusted",
		slog.String("mode_id", modeID),
		slog.String("action", string(adj.Action)),
		slog.String("magnitude", string(adj.Magnitude)))
	return DifficultyConfig{Params: difficulty.Apply(base, adj), Adjustment: &adj}, nil
}

// CheckEligibility evaluates a tier against progress without touching the store.
func (e *Engine) CheckEligibility(tier int, progress catalog.Progress) (mastery.Result, error) {
	return e.evaluator.Evaluate(tier, progress)
}

// Age returns the child's stored age.
func (e *Engine) Age(ctx context.Context, userID string) (int, error) {
	age, err := e.store.GetUserAge(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("load age for %s: %w", userID, err)
	}
	return age, nil
}

// SetAge stores the child's age tier.
func (e *Engine) SetAge(ctx context.Context, userID string, age int) error {
	if age < catalog.MinAge || age > catalog.MaxAge {
		return fmt.Errorf("%w: %d (supported %d-%d)", ErrInvalidAge, age, catalog.MinAge, catalog.MaxAge)
	}
	return e.store.SetUserAge(ctx, userID, age)
}

// LoadProgress returns the child's stored mode records.
func (e *Engine) LoadProgress(ctx context.Context, userID string) ([]store.ModeProgress, error) {
	recs, err := e.store.ListModeProgress(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load progress for %s: %w", userID, err)
	}
	return recs, nil
}

// LevelOutcome describes what changed after a level attempt.
type LevelOutcome struct {
	Result        LevelResult
	Record        store.ModeProgress
	Passed        bool
	Stars         int
	NewlyUnlocked []catalog.Mode
	Mastery       mastery.Result
}

// CompleteLevel records a level attempt: the mode record is merged and
// stored, newly opened modes are reported and the current tier's mastery
// is refreshed.
func (e *Engine) CompleteLevel(ctx context.Context, userID string, r LevelResult) (LevelOutcome, error) {
	mode, err := e.catalog.Mode(r.ModeID)
	if err != nil {
		return LevelOutcome{}, fmt.Errorf("%w: %q", unlock.ErrUnknownMode, r.ModeID)
	}
	if err := r.validate(mode); err != nil {
		return LevelOutcome{}, err
	}

	age, err := e.Age(ctx, userID)
	if err != nil {
		return LevelOutcome{}, err
	}
	recs, err := e.LoadProgress(ctx, userID)
	if err != nil {
		return LevelOutcome{}, err
	}
	return e.completeLevel(ctx, userID, age, recs, r)
}

func (e *Engine) completeLevel(ctx context.Context, userID string, age int, recs []store.ModeProgress, r LevelResult) (LevelOutcome, error) {
	before := ToProgress(recs)
	res, err := e.resolver.Resolve(r.ModeID, before, age)
	if err != nil {
		return LevelOutcome{}, err
	}
	if !res.Unlocked {
		return LevelOutcome{}, fmt.Errorf("%w: %s", ErrLocked, res.Reason)
	}

	prev := store.ModeProgress{UserID: userID, ModeID: r.ModeID}
	for _, rec := range recs {
		if rec.ModeID == r.ModeID {
			prev = rec
		}
	}
	next := Merge(prev, r, e.now())
	if err := e.store.PutModeProgress(ctx, next); err != nil {
		return LevelOutcome{}, fmt.Errorf("save level result: %w", err)
	}

	after := before.Clone()
	after[r.ModeID] = catalog.Standing{Level: next.CurrentLevel, Accuracy: next.Accuracy}

	out := LevelOutcome{
		Result:        r,
		Record:        next,
		Passed:        r.Passed(),
		Stars:         r.Stars(),
		NewlyUnlocked: newlyUnlocked(e.resolver.UnlockedModes(before, age), e.resolver.UnlockedModes(after, age)),
	}

	out.Mastery, err = e.workflow.Refresh(ctx, userID, age, after)
	if err != nil {
		// The level itself is saved; mastery is recomputed on the next read.
		e.logger.Warn("mastery refresh failed",
			slog.String("user_id", userID),
			slog.Int("tier", age),
			slog.String("error", err.Error()))
	}

	e.logger.Info("level completed",
		slog.String("user_id", userID),
		slog.String("mode_id", r.ModeID),
		slog.Int("level", r.Level),
		slog.Bool("passed", out.Passed),
		slog.Int("stars", out.Stars))
	return out, nil
}

func newlyUnlocked(before, after []catalog.Mode) []catalog.Mode {
	seen := make(map[string]bool, len(before))
	for _, m := range before {
		seen[m.ID] = true
	}
	var out []catalog.Mode
	for _, m := range after {
		if !seen[m.ID] {
			out = append(out, m)
		}
	}
	return out
}

// Eligibility evaluates the child's current tier from stored data.
func (e *Engine) Eligibility(ctx context.Context, userID string) (mastery.Result, error) {
	age, err := e.Age(ctx, userID)
	if err != nil {
		return mastery.Result{}, err
	}
	recs, err := e.LoadProgress(ctx, userID)
	if err != nil {
		return mastery.Result{}, err
	}
	return e.evaluator.Evaluate(age, ToProgress(recs))
}

// RequestGraduation asks to advance the child from their stored age.
func (e *Engine) RequestGraduation(ctx context.Context, userID string) (store.GraduationRequest, error) {
	age, err := e.Age(ctx, userID)
	if err != nil {
		return store.GraduationRequest{}, err
	}
	recs, err := e.LoadProgress(ctx, userID)
	if err != nil {
		return store.GraduationRequest{}, err
	}
	return e.workflow.Request(ctx, userID, age, ToProgress(recs))
}

// PendingGraduation returns the request awaiting a parent, or nil.
func (e *Engine) PendingGraduation(ctx context.Context, userID string) (*store.GraduationRequest, error) {
	age, err := e.Age(ctx, userID)
	if err != nil {
		return nil, err
	}
	return e.workflow.Pending(ctx, userID, age)
}

// ApproveGraduation approves the pending request for the child's tier.
func (e *Engine) ApproveGraduation(ctx context.Context, userID string) (store.GraduationHistoryEntry, error) {
	age, err := e.Age(ctx, userID)
	if err != nil {
		return store.GraduationHistoryEntry{}, err
	}
	return e.workflow.Approve(ctx, userID, age)
}

// DenyGraduation denies the pending request for the child's tier.
func (e *Engine) DenyGraduation(ctx context.Context, userID string) (store.GraduationRequest, error) {
	age, err := e.Age(ctx, userID)
	if err != nil {
		return store.GraduationRequest{}, err
	}
	return e.workflow.Deny(ctx, userID, age)
}

// Reset deletes a child's mode progress and mastery state.
func (e *Engine) Reset(ctx context.Context, userID string) error {
	if err := e.store.ResetUser(ctx, userID); err != nil {
		return fmt.Errorf("reset %s: %w", userID, err)
	}
	e.logger.Info("progress reset", slog.String("user_id", userID))
	return nil
}
