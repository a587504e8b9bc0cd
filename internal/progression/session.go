package progression

import (
	"context"
	"fmt"
	"slices"

	"github.com/abhisek/countup/internal/catalog"
	"github.com/abhisek/countup/internal/difficulty"
	"github.com/abhisek/countup/internal/mastery"
	"github.com/abhisek/countup/internal/performance"
	"github.com/abhisek/countup/internal/store"
	"github.com/abhisek/countup/internal/unlock"
)

// Session is one child's play session. It owns the progress cache and the
// performance tracker, and writes through to the store on level
// completion. A session is used by a single goroutine and may be
// abandoned at any time.
type Session struct {
	engine  *Engine
	userID  string
	age     int
	records map[string]store.ModeProgress
	tracker *performance.Tracker

	mode    catalog.Mode
	level   int
	base    difficulty.Params
	params  difficulty.Params
	correct int
	total   int
}

// NewSession loads the child's age and progress.
func (e *Engine) NewSession(ctx context.Context, userID string, opts ...performance.Option) (*Session, error) {
	age, err := e.Age(ctx, userID)
	if err != nil {
		return nil, err
	}
	recs, err := e.LoadProgress(ctx, userID)
	if err != nil {
		return nil, err
	}
	s := &Session{
		engine:  e,
		userID:  userID,
		age:     age,
		records: make(map[string]store.ModeProgress, len(recs)),
		tracker: performance.NewTracker(opts...),
	}
	for _, r := range recs {
		s.records[r.ModeID] = r
	}
	return s, nil
}

// UserID returns the child the session belongs to.
func (s *Session) UserID() string { return s.userID }

// Age returns the child's age tier.
func (s *Session) Age() int { return s.age }

// Progress returns the cached standings.
func (s *Session) Progress() catalog.Progress {
	p := make(catalog.Progress, len(s.records))
	for id, r := range s.records {
		p[id] = catalog.Standing{Level: r.CurrentLevel, Accuracy: r.Accuracy}
	}
	return p
}

// Record returns the cached record for a mode.
func (s *Session) Record(modeID string) (store.ModeProgress, bool) {
	r, ok := s.records[modeID]
	return r, ok
}

// CheckUnlock resolves a mode against the cached progress.
func (s *Session) CheckUnlock(modeID string) (unlock.Result, error) {
	return s.engine.CheckUnlock(modeID, s.age, s.Progress())
}

// UnlockedModes lists the modes currently open to the child.
func (s *Session) UnlockedModes() []catalog.Mode {
	return s.engine.UnlockedModes(s.age, s.Progress())
}

// NextLevel is the level the child should play next in a mode.
func (s *Session) NextLevel(modeID string) int {
	mode, err := s.engine.catalog.Mode(modeID)
	if err != nil {
		return 1
	}
	return min(s.records[modeID].CurrentLevel+1, mode.TotalLevels)
}

// StartLevel begins a level and returns its initial difficulty. The
// performance history of any previous level is discarded.
func (s *Session) StartLevel(modeID string, level int) (difficulty.Params, error) {
	res, err := s.CheckUnlock(modeID)
	if err != nil {
		return difficulty.Params{}, err
	}
	if !res.Unlocked {
		return difficulty.Params{}, fmt.Errorf("%w: %s", ErrLocked, res.Reason)
	}
	mode, err := s.engine.catalog.Mode(modeID)
	if err != nil {
		return difficulty.Params{}, err
	}
	if level < 1 || level > mode.TotalLevels {
		return difficulty.Params{}, fmt.Errorf("%w: level %d outside 1-%d for %s", ErrInvalidResult, level, mode.TotalLevels, modeID)
	}

	cfg, err := s.engine.DifficultyConfig(modeID, level, s.age, nil)
	if err != nil {
		return difficulty.Params{}, err
	}
	s.mode, s.level, s.base, s.params = mode, level, cfg.Params, cfg.Params
	s.correct, s.total = 0, 0
	s.tracker.Reset()
	return s.Params(), nil
}

// Step is the engine's response to one answered problem.
type Step struct {
	Attempt    performance.Attempt
	Metrics    performance.Metrics
	Adjustment difficulty.Adjustment
}

// RecordAttempt adds an answer to the current level and recomputes the
// adjustment for the next batch.
func (s *Session) RecordAttempt(a performance.Attempt) (Step, error) {
	if s.level == 0 {
		return Step{}, fmt.Errorf("%w: no level started", ErrInvalidResult)
	}
	a = s.tracker.Record(a)
	s.total++
	if a.IsCorrect {
		s.correct++
	}
	m := s.tracker.Metrics()
	return Step{Attempt: a, Metrics: m, Adjustment: difficulty.Adjust(m, s.age)}, nil
}

// Metrics returns the current level's performance metrics.
func (s *Session) Metrics() performance.Metrics {
	return s.tracker.Metrics()
}

// NextBatch applies the current adjustment to the level's initial
// parameters and returns them for the next batch of problems. Adjustments
// never stack: the same metrics always give the same parameters.
func (s *Session) NextBatch() (difficulty.Params, difficulty.Adjustment) {
	adj := difficulty.Adjust(s.tracker.Metrics(), s.age)
	s.params = difficulty.Apply(s.base, adj)
	return s.Params(), adj
}

// Params returns a copy of the current level's parameters.
func (s *Session) Params() difficulty.Params {
	p := s.params
	p.ProblemTypes = slices.Clone(p.ProblemTypes)
	return p
}

// CompleteLevel finishes the current level with every answer recorded
// since StartLevel, stores the merged record and updates the cache.
func (s *Session) CompleteLevel(ctx context.Context) (LevelOutcome, error) {
	if s.level == 0 {
		return LevelOutcome{}, fmt.Errorf("%w: no level started", ErrInvalidResult)
	}
	r := LevelResult{ModeID: s.mode.ID, Level: s.level, Correct: s.correct, Total: s.total}
	if err := r.validate(s.mode); err != nil {
		return LevelOutcome{}, err
	}

	recs := make([]store.ModeProgress, 0, len(s.records))
	for _, rec := range s.records {
		recs = append(recs, rec)
	}
	out, err := s.engine.completeLevel(ctx, s.userID, s.age, recs, r)
	if err != nil {
		return LevelOutcome{}, err
	}

	s.records[r.ModeID] = out.Record
	s.level, s.correct, s.total = 0, 0, 0
	s.tracker.Reset()
	return out, nil
}

// CheckEligibility evaluates the child's tier from the cached progress.
func (s *Session) CheckEligibility() (mastery.Result, error) {
	return s.engine.CheckEligibility(s.age, s.Progress())
}

// RequestGraduation asks to advance the child using the cached progress.
func (s *Session) RequestGraduation(ctx context.Context) (store.GraduationRequest, error) {
	return s.engine.workflow.Request(ctx, s.userID, s.age, s.Progress())
}
