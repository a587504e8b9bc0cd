package progression

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/abhisek/countup/internal/store"
)

func TestLevelResult_StarsAndPass(t *testing.T) {
	tests := []struct {
		correct, total int
		stars          int
		passed         bool
	}{
		{10, 10, 3, true},
		{9, 10, 3, true},
		{8, 10, 2, true},
		{3, 4, 2, true},
		{7, 10, 1, true},
		{6, 10, 1, false},
		{5, 10, 1, false},
		{4, 10, 0, false},
		{0, 10, 0, false},
	}
	for _, tt := range tests {
		r := LevelResult{ModeID: "shapes", Level: 1, Correct: tt.correct, Total: tt.total}
		assert.Equal(t, tt.stars, r.Stars(), "%d/%d stars", tt.correct, tt.total)
		assert.Equal(t, tt.passed, r.Passed(), "%d/%d passed", tt.correct, tt.total)
	}
}

func TestMerge_FirstAttempt(t *testing.T) {
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	got := Merge(store.ModeProgress{UserID: "ava"}, LevelResult{ModeID: "shapes", Level: 1, Correct: 9, Total: 10}, now)

	assert.Equal(t, "ava", got.UserID)
	assert.Equal(t, "shapes", got.ModeID)
	assert.Equal(t, 1, got.CurrentLevel)
	assert.Equal(t, 1, got.HighestLevelReached)
	assert.Equal(t, 10, got.ProblemsSolved)
	assert.InDelta(t, 90.0, got.Accuracy, 1e-9)
	assert.Equal(t, 3, got.StarsEarned)
	assert.Equal(t, now, got.LastPlayedAt)
}

func TestMerge_FailedAttemptKeepsLevel(t *testing.T) {
	prev := store.ModeProgress{UserID: "ava", ModeID: "shapes", CurrentLevel: 3, HighestLevelReached: 3, ProblemsSolved: 30, Accuracy: 90, StarsEarned: 8}
	got := Merge(prev, LevelResult{ModeID: "shapes", Level: 4, Correct: 2, Total: 10}, time.Now())

	assert.Equal(t, 3, got.CurrentLevel)
	assert.Equal(t, 4, got.HighestLevelReached)
	assert.Equal(t, 40, got.ProblemsSolved)
	assert.InDelta(t, 72.5, got.Accuracy, 1e-9)
	assert.Equal(t, 8, got.StarsEarned)
}

func TestMerge_ReplayingLowerLevelNeverDecreases(t *testing.T) {
	prev := store.ModeProgress{ModeID: "shapes", CurrentLevel: 5, HighestLevelReached: 6, ProblemsSolved: 50, Accuracy: 80, StarsEarned: 10}
	got := Merge(prev, LevelResult{ModeID: "shapes", Level: 2, Correct: 10, Total: 10}, time.Now())

	assert.Equal(t, 5, got.CurrentLevel)
	assert.Equal(t, 6, got.HighestLevelReached)
	assert.Equal(t, 10, got.StarsEarned, "replays do not add stars")
}

func TestMerge_SkippingAheadCompletesLevel(t *testing.T) {
	prev := store.ModeProgress{ModeID: "shapes", CurrentLevel: 2, HighestLevelReached: 2}
	got := Merge(prev, LevelResult{ModeID: "shapes", Level: 4, Correct: 8, Total: 10}, time.Now())
	assert.Equal(t, 4, got.CurrentLevel)
	assert.Equal(t, 4, got.HighestLevelReached)
}

func TestToProgress(t *testing.T) {
	p := ToProgress([]store.ModeProgress{
		{ModeID: "shapes", CurrentLevel: 3, Accuracy: 80},
		{ModeID: "counting-basic", CurrentLevel: 5, Accuracy: 95},
	})
	assert.Equal(t, 3, p.Of("shapes").Level)
	assert.Equal(t, 95.0, p.Of("counting-basic").Accuracy)
	assert.Zero(t, p.Of("patterns").Level)
}
