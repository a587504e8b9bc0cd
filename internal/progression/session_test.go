package progression

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/countup/internal/difficulty"
	"github.com/abhisek/countup/internal/performance"
)

func TestSession_PlayLevel(t *testing.T) {
	e, s := newTestEngine(t)
	ctx := context.Background()
	require.NoError(t, e.SetAge(ctx, "ava", 6))

	sess, err := e.NewSession(ctx, "ava")
	require.NoError(t, err)
	assert.Equal(t, 6, sess.Age())
	assert.Equal(t, 1, sess.NextLevel("counting-basic"))

	params, err := sess.StartLevel("counting-basic", 1)
	require.NoError(t, err)

	// Ten fast correct answers earn a big step up.
	var step Step
	for range 10 {
		step, err = sess.RecordAttempt(performance.Attempt{IsCorrect: true, TimeSpentSeconds: 3})
		require.NoError(t, err)
	}
	assert.Equal(t, 10, step.Metrics.StreakLength)
	assert.Equal(t, difficulty.ActionIncrease, step.Adjustment.Action)
	assert.Equal(t, difficulty.MagnitudeLarge, step.Adjustment.Magnitude)

	next, adj := sess.NextBatch()
	assert.Equal(t, step.Adjustment, adj)
	assert.Greater(t, next.MaxNumber, params.MaxNumber)

	out, err := sess.CompleteLevel(ctx)
	require.NoError(t, err)
	assert.True(t, out.Passed)
	assert.Equal(t, 1, out.Record.CurrentLevel)
	assert.Equal(t, 10, out.Record.ProblemsSolved)

	cached, ok := sess.Record("counting-basic")
	require.True(t, ok)
	assert.Equal(t, out.Record, cached)
	assert.Equal(t, 2, sess.NextLevel("counting-basic"))

	stored, err := s.GetModeProgress(ctx, "ava", "counting-basic")
	require.NoError(t, err)
	assert.Equal(t, 1, stored.CurrentLevel)
}

func TestSession_WarmUpHolds(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()
	require.NoError(t, e.SetAge(ctx, "ava", 4))

	sess, err := e.NewSession(ctx, "ava")
	require.NoError(t, err)
	params, err := sess.StartLevel("shapes", 2)
	require.NoError(t, err)

	for range 3 {
		_, err := sess.RecordAttempt(performance.Attempt{IsCorrect: true, TimeSpentSeconds: 1})
		require.NoError(t, err)
	}
	next, adj := sess.NextBatch()
	assert.Equal(t, difficulty.ActionHold, adj.Action)
	assert.Equal(t, params, next)
}

func TestSession_StartLockedLevel(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()
	require.NoError(t, e.SetAge(ctx, "ava", 3))

	sess, err := e.NewSession(ctx, "ava")
	require.NoError(t, err)

	_, err = sess.StartLevel("counting-objects", 1)
	assert.ErrorIs(t, err, ErrLocked)

	_, err = sess.StartLevel("shapes", 20)
	assert.ErrorIs(t, err, ErrInvalidResult)
}

func TestSession_RequiresStartedLevel(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()
	require.NoError(t, e.SetAge(ctx, "ava", 3))

	sess, err := e.NewSession(ctx, "ava")
	require.NoError(t, err)

	_, err = sess.RecordAttempt(performance.Attempt{IsCorrect: true})
	assert.ErrorIs(t, err, ErrInvalidResult)
	_, err = sess.CompleteLevel(ctx)
	assert.ErrorIs(t, err, ErrInvalidResult)
}

func TestSession_EligibilityAndRequest(t *testing.T) {
	e, s := newTestEngine(t)
	ctx := context.Background()
	seedTier5(t, s)

	sess, err := e.NewSession(ctx, "ava")
	require.NoError(t, err)

	res, err := sess.CheckEligibility()
	require.NoError(t, err)
	assert.True(t, res.IsEligible)

	req, err := sess.RequestGraduation(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, req.CurrentAge)
	assert.Equal(t, 6, req.TargetAge)
}

func TestSession_UnlockedModes(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()
	require.NoError(t, e.SetAge(ctx, "ava", 3))

	sess, err := e.NewSession(ctx, "ava")
	require.NoError(t, err)

	var ids []string
	for _, m := range sess.UnlockedModes() {
		ids = append(ids, m.ID)
	}
	assert.ElementsMatch(t, []string{"counting-basic", "number-recognition", "shapes"}, ids)
}

func TestSession_NextBatchDoesNotCompound(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()
	require.NoError(t, e.SetAge(ctx, "ava", 6))

	sess, err := e.NewSession(ctx, "ava")
	require.NoError(t, err)
	_, err = sess.StartLevel("counting-basic", 1)
	require.NoError(t, err)

	for range 10 {
		_, err := sess.RecordAttempt(performance.Attempt{IsCorrect: true, TimeSpentSeconds: 3})
		require.NoError(t, err)
	}

	m := sess.Metrics()
	want, err := e.DifficultyConfig("counting-basic", 1, 6, &m)
	require.NoError(t, err)

	first, _ := sess.NextBatch()
	second, _ := sess.NextBatch()
	assert.Equal(t, first, second)
	assert.Equal(t, want.Params, first)
}

func TestSession_RepeatedDecreaseKeepsTimeLimit(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()
	require.NoError(t, e.SetAge(ctx, "ava", 8))

	sess, err := e.NewSession(ctx, "ava")
	require.NoError(t, err)
	params, err := sess.StartLevel("counting-basic", 6)
	require.NoError(t, err)
	require.True(t, params.HasTimeLimit())

	for range 10 {
		_, err := sess.RecordAttempt(performance.Attempt{IsCorrect: false, TimeSpentSeconds: 30})
		require.NoError(t, err)
	}

	first, adj := sess.NextBatch()
	require.Equal(t, difficulty.ActionDecrease, adj.Action)
	for range 3 {
		next, _ := sess.NextBatch()
		assert.Equal(t, first.TimeLimitSecs, next.TimeLimitSecs)
		assert.Equal(t, first.MaxNumber, next.MaxNumber)
	}
}
