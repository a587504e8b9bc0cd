package graduation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/countup/internal/catalog"
	"github.com/abhisek/countup/internal/mastery"
	"github.com/abhisek/countup/internal/store"
)

// memStore is an in-memory ProgressStore without transaction support.
// failOn makes the named method return ErrUnavailable.
type memStore struct {
	ages    map[string]int
	modes   map[string]store.ModeProgress
	states  map[string]store.MasteryState
	history []store.GraduationHistoryEntry
	failOn  map[string]bool
	writes  int
}

func newMemStore() *memStore {
	return &memStore{
		ages:   map[string]int{},
		modes:  map[string]store.ModeProgress{},
		states: map[string]store.MasteryState{},
		failOn: map[string]bool{},
	}
}

func (m *memStore) fail(op string) error {
	if m.failOn[op] {
		return &store.OpError{Op: op, Err: errors.New("connection reset")}
	}
	return nil
}

func stateKey(userID string, tier int) string { return fmt.Sprintf("%s/%d", userID, tier) }

func (m *memStore) GetModeProgress(_ context.Context, userID, modeID string) (store.ModeProgress, error) {
	rec, ok := m.modes[userID+"/"+modeID]
	if !ok {
		return store.ModeProgress{}, store.ErrNotFound
	}
	return rec, nil
}

func (m *memStore) PutModeProgress(_ context.Context, rec store.ModeProgress) error {
	m.modes[rec.UserID+"/"+rec.ModeID] = rec
	return nil
}

func (m *memStore) ListModeProgress(_ context.Context, userID string) ([]store.ModeProgress, error) {
	var out []store.ModeProgress
	for k, v := range m.modes {
		if strings.HasPrefix(k, userID+"/") {
			out = append(out, v)
		}
	}
	return out, nil
}

func (m *memStore) GetMasteryState(_ context.Context, userID string, tier int) (store.MasteryState, error) {
	if err := m.fail("get mastery state"); err != nil {
		return store.MasteryState{}, err
	}
	st, ok := m.states[stateKey(userID, tier)]
	if !ok {
		return store.MasteryState{}, store.ErrNotFound
	}
	return st, nil
}

func (m *memStore) PutMasteryState(_ context.Context, st store.MasteryState) error {
	op := "put mastery state"
	if st.Status == string(mastery.StatusGraduated) {
		op = "mark graduated"
	}
	if err := m.fail(op); err != nil {
		return err
	}
	m.writes++
	m.states[stateKey(st.UserID, st.AgeTier)] = st
	return nil
}

func (m *memStore) ListMasteryStates(context.Context, string) ([]store.MasteryState, error) {
	return nil, nil
}

func (m *memStore) AppendGraduationHistory(_ context.Context, e store.GraduationHistoryEntry) error {
	if err := m.fail("append history"); err != nil {
		return err
	}
	for _, h := range m.history {
		if h.ID == e.ID {
			return nil
		}
	}
	m.history = append(m.history, e)
	return nil
}

func (m *memStore) ListGraduationHistory(_ context.Context, userID string) ([]store.GraduationHistoryEntry, error) {
	var out []store.GraduationHistoryEntry
	for _, h := range m.history {
		if h.UserID == userID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (m *memStore) SetUserAge(_ context.Context, userID string, age int) error {
	if err := m.fail("set user age"); err != nil {
		return err
	}
	m.ages[userID] = age
	return nil
}

func (m *memStore) GetUserAge(_ context.Context, userID string) (int, error) {
	age, ok := m.ages[userID]
	if !ok {
		return 0, store.ErrNotFound
	}
	return age, nil
}

func (m *memStore) ResetUser(context.Context, string) error { return nil }

var testNow = time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

func newTestWorkflow(s store.ProgressStore) *Workflow {
	n := 0
	return New(s, mastery.NewEvaluator(catalog.Default()),
		WithClock(func() time.Time { return testNow }),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("req-%d", n)
		}),
	)
}

func eligibleTier5() catalog.Progress {
	return catalog.Progress{
		"addition-basic":    {Level: 8, Accuracy: 75},
		"subtraction-basic": {Level: 5, Accuracy: 70},
		"skip-counting":     {Level: 5, Accuracy: 75},
		"more-or-less":      {Level: 8, Accuracy: 80},
	}
}

func TestRequest_Eligible(t *testing.T) {
	s := newMemStore()
	w := newTestWorkflow(s)

	req, err := w.Request(context.Background(), "ava", 5, eligibleTier5())
	require.NoError(t, err)
	assert.Equal(t, "req-1", req.ID)
	assert.Equal(t, 5, req.CurrentAge)
	assert.Equal(t, 6, req.TargetAge)
	assert.Equal(t, 100.0, req.Summary.OverallProgress)
	assert.Equal(t, 4, req.Summary.ModesMastered)

	st := s.states[stateKey("ava", 5)]
	assert.Equal(t, string(mastery.StatusPendingApproval), st.Status)
	require.NotNil(t, st.PendingRequest)
	assert.Equal(t, req, *st.PendingRequest)
}

func TestRequest_NotEligible(t *testing.T) {
	s := newMemStore()
	w := newTestWorkflow(s)

	progress := eligibleTier5()
	progress["skip-counting"] = catalog.Standing{Level: 4, Accuracy: 90}

	_, err := w.Request(context.Background(), "ava", 5, progress)
	assert.ErrorIs(t, err, ErrNotEligible)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Zero(t, s.writes)
}

func TestRequest_WhilePendingKeepsSnapshot(t *testing.T) {
	s := newMemStore()
	w := newTestWorkflow(s)
	ctx := context.Background()

	first, err := w.Request(ctx, "ava", 5, eligibleTier5())
	require.NoError(t, err)
	writes := s.writes

	better := eligibleTier5()
	better["addition-basic"] = catalog.Standing{Level: 12, Accuracy: 99}
	_, err = w.Request(ctx, "ava", 5, better)
	assert.ErrorIs(t, err, ErrAlreadyPending)

	assert.Equal(t, writes, s.writes, "no write on rejected request")
	pending, err := w.Pending(ctx, "ava", 5)
	require.NoError(t, err)
	require.NotNil(t, pending)
	assert.Equal(t, first, *pending)
}

func TestRequest_FinalTier(t *testing.T) {
	w := newTestWorkflow(newMemStore())
	_, err := w.Request(context.Background(), "ava", 8, nil)
	assert.ErrorIs(t, err, ErrFinalTier)
}

func TestRequest_UnknownTier(t *testing.T) {
	w := newTestWorkflow(newMemStore())
	_, err := w.Request(context.Background(), "ava", 2, nil)
	assert.ErrorIs(t, err, mastery.ErrUnknownTier)
}

func TestRequest_StoreUnavailable(t *testing.T) {
	s := newMemStore()
	s.failOn["put mastery state"] = true
	w := newTestWorkflow(s)

	_, err := w.Request(context.Background(), "ava", 5, eligibleTier5())
	assert.ErrorIs(t, err, store.ErrUnavailable)
}

func TestApprove_AdvancesExactlyOneTier(t *testing.T) {
	s := newMemStore()
	s.ages["ava"] = 5
	w := newTestWorkflow(s)
	ctx := context.Background()

	_, err := w.Request(ctx, "ava", 5, eligibleTier5())
	require.NoError(t, err)

	entry, err := w.Approve(ctx, "ava", 5)
	require.NoError(t, err)
	assert.Equal(t, 5, entry.FromAge)
	assert.Equal(t, 6, entry.ToAge)
	assert.Equal(t, "req-1", entry.ID)

	assert.Equal(t, 6, s.ages["ava"], "age 5 always graduates to 6")

	st5 := s.states[stateKey("ava", 5)]
	assert.Equal(t, string(mastery.StatusGraduated), st5.Status)
	assert.Nil(t, st5.PendingRequest)

	st6 := s.states[stateKey("ava", 6)]
	assert.Equal(t, string(mastery.StatusInProgress), st6.Status)
	assert.Zero(t, st6.OverallPct)
	assert.Empty(t, st6.ModesMastered)

	hist, err := w.History(ctx, "ava")
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, 4, hist[0].Summary.ModesMastered)
	assert.Equal(t, testNow, hist[0].ApprovedAt)
}

func TestApprove_WithoutPending(t *testing.T) {
	s := newMemStore()
	w := newTestWorkflow(s)

	_, err := w.Approve(context.Background(), "ava", 5)
	assert.ErrorIs(t, err, ErrNoPendingRequest)
	assert.Empty(t, s.ages)
	assert.Zero(t, s.writes)
}

func TestApprove_Twice(t *testing.T) {
	s := newMemStore()
	w := newTestWorkflow(s)
	ctx := context.Background()

	_, err := w.Request(ctx, "ava", 5, eligibleTier5())
	require.NoError(t, err)
	_, err = w.Approve(ctx, "ava", 5)
	require.NoError(t, err)

	_, err = w.Approve(ctx, "ava", 5)
	assert.ErrorIs(t, err, ErrNoPendingRequest)
	assert.Equal(t, 6, s.ages["ava"])

	_, err = w.Request(ctx, "ava", 5, eligibleTier5())
	assert.ErrorIs(t, err, ErrAlreadyGraduated)
}

func TestApprove_SetAgeFailureAborts(t *testing.T) {
	s := newMemStore()
	s.ages["ava"] = 5
	w := newTestWorkflow(s)
	ctx := context.Background()

	_, err := w.Request(ctx, "ava", 5, eligibleTier5())
	require.NoError(t, err)

	s.failOn["set user age"] = true
	_, err = w.Approve(ctx, "ava", 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrUnavailable)
	var perr *PartialApprovalError
	assert.False(t, errors.As(err, &perr), "step 1 failure is a total abort")

	assert.Equal(t, 5, s.ages["ava"])
	assert.Equal(t, string(mastery.StatusPendingApproval), s.states[stateKey("ava", 5)].Status)
	assert.Empty(t, s.history)
	_, ok := s.states[stateKey("ava", 6)]
	assert.False(t, ok)
}

func TestApprove_LaterFailureIsPartial(t *testing.T) {
	s := newMemStore()
	w := newTestWorkflow(s)
	ctx := context.Background()

	_, err := w.Request(ctx, "ava", 5, eligibleTier5())
	require.NoError(t, err)

	s.failOn["append history"] = true
	_, err = w.Approve(ctx, "ava", 5)

	var perr *PartialApprovalError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, []string{StepSetAge, StepMarkGraduated}, perr.Completed)
	assert.Equal(t, StepAppendHistory, perr.Step)
	assert.Equal(t, "req-1", perr.Request.ID)
	assert.ErrorIs(t, err, store.ErrUnavailable)
	assert.Equal(t, 6, s.ages["ava"])
}

func TestDeny(t *testing.T) {
	s := newMemStore()
	s.ages["ava"] = 5
	w := newTestWorkflow(s)
	ctx := context.Background()

	_, err := w.Request(ctx, "ava", 5, eligibleTier5())
	require.NoError(t, err)

	denied, err := w.Deny(ctx, "ava", 5)
	require.NoError(t, err)
	assert.Equal(t, "req-1", denied.ID)

	st := s.states[stateKey("ava", 5)]
	assert.Equal(t, string(mastery.StatusInProgress), st.Status)
	assert.Nil(t, st.PendingRequest)
	assert.Equal(t, 5, s.ages["ava"])

	_, err = w.Deny(ctx, "ava", 5)
	assert.ErrorIs(t, err, ErrNoPendingRequest)

	// The child may ask again once eligible.
	again, err := w.Request(ctx, "ava", 5, eligibleTier5())
	require.NoError(t, err)
	assert.Equal(t, "req-2", again.ID)
}

func TestRefresh_KeepsStatus(t *testing.T) {
	s := newMemStore()
	w := newTestWorkflow(s)
	ctx := context.Background()

	progress := eligibleTier5()
	delete(progress, "more-or-less")
	res, err := w.Refresh(ctx, "ava", 5, progress)
	require.NoError(t, err)
	assert.Equal(t, 75.0, res.OverallProgress)

	st := s.states[stateKey("ava", 5)]
	assert.Equal(t, string(mastery.StatusInProgress), st.Status)
	assert.Equal(t, 75.0, st.OverallPct)
	assert.Len(t, st.ModesMastered, 3)
}

func openSQLite(t *testing.T) *store.Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := store.Open(context.Background(), "file:"+name+"_"+uuid.NewString()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// failingHistory makes AppendGraduationHistory fail inside a transaction.
type failingHistory struct {
	*store.Store
}

func (f failingHistory) WithTx(ctx context.Context, fn func(store.ProgressStore) error) error {
	return f.Store.WithTx(ctx, func(ps store.ProgressStore) error {
		return fn(historyFails{ps})
	})
}

type historyFails struct {
	store.ProgressStore
}

func (historyFails) AppendGraduationHistory(context.Context, store.GraduationHistoryEntry) error {
	return &store.OpError{Op: "append graduation history", Err: errors.New("disk full")}
}

func TestApprove_TransactionalRollsBack(t *testing.T) {
	db := openSQLite(t)
	ctx := context.Background()
	require.NoError(t, db.SetUserAge(ctx, "ava", 5))

	w := newTestWorkflow(failingHistory{db})
	_, err := w.Request(ctx, "ava", 5, eligibleTier5())
	require.NoError(t, err)

	_, err = w.Approve(ctx, "ava", 5)
	require.Error(t, err)
	var perr *PartialApprovalError
	assert.False(t, errors.As(err, &perr), "transactional approval is all-or-nothing")

	age, err := db.GetUserAge(ctx, "ava")
	require.NoError(t, err)
	assert.Equal(t, 5, age)

	st, err := db.GetMasteryState(ctx, "ava", 5)
	require.NoError(t, err)
	assert.Equal(t, string(mastery.StatusPendingApproval), st.Status)
}

func TestApprove_TransactionalCommits(t *testing.T) {
	db := openSQLite(t)
	ctx := context.Background()
	w := newTestWorkflow(db)

	_, err := w.Request(ctx, "ava", 5, eligibleTier5())
	require.NoError(t, err)
	_, err = w.Approve(ctx, "ava", 5)
	require.NoError(t, err)

	age, err := db.GetUserAge(ctx, "ava")
	require.NoError(t, err)
	assert.Equal(t, 6, age)

	hist, err := db.ListGraduationHistory(ctx, "ava")
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, "req-1", hist[0].ID)

	st6, err := db.GetMasteryState(ctx, "ava", 6)
	require.NoError(t, err)
	assert.Equal(t, string(mastery.StatusInProgress), st6.Status)
}
