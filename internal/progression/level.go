package progression

import (
	"fmt"
	"time"

	"github.com/abhisek/countup/internal/catalog"
	"github.com/abhisek/countup/internal/store"
)

const (
	// PassAccuracy is the accuracy needed to complete a level.
	PassAccuracy = 70.0

	threeStarAccuracy = 90.0
	twoStarAccuracy   = 75.0
	oneStarAccuracy   = 50.0
)

// LevelResult is the outcome of one attempt at a level.
type LevelResult struct {
	ModeID  string
	Level   int
	Correct int
	Total   int
}

// Accuracy returns the attempt's accuracy from 0 to 100.
func (r LevelResult) Accuracy() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Correct) / float64(r.Total) * 100
}

// Passed reports whether the attempt completes the level.
func (r LevelResult) Passed() bool {
	return r.Accuracy() >= PassAccuracy
}

// Stars returns 0-3 stars for the attempt.
func (r LevelResult) Stars() int {
	acc := r.Accuracy()
	switch {
	case acc >= threeStarAccuracy:
		return 3
	case acc >= twoStarAccuracy:
		return 2
	case acc >= oneStarAccuracy:
		return 1
	default:
		return 0
	}
}

func (r LevelResult) validate(m catalog.Mode) error {
	if r.Level < 1 || r.Level > m.TotalLevels {
		return fmt.Errorf("%w: level %d outside 1-%d for %s", ErrInvalidResult, r.Level, m.TotalLevels, m.ID)
	}
	if r.Total <= 0 {
		return fmt.Errorf("%w: no problems answered", ErrInvalidResult)
	}
	if r.Correct < 0 || r.Correct > r.Total {
		return fmt.Errorf("%w: %d correct out of %d", ErrInvalidResult, r.Correct, r.Total)
	}
	return nil
}

// Merge folds a level result into the previous record. It is pure:
// CurrentLevel never decreases, accuracy is weighted by problems
// answered, and stars are added the first time a level is passed.
func Merge(prev store.ModeProgress, r LevelResult, now time.Time) store.ModeProgress {
	next := prev
	next.ModeID = r.ModeID

	answered := prev.ProblemsSolved + r.Total
	if answered > 0 {
		next.Accuracy = (prev.Accuracy*float64(prev.ProblemsSolved) + float64(r.Correct)*100) / float64(answered)
	}
	next.ProblemsSolved = answered

	if r.Passed() && r.Level > prev.CurrentLevel {
		next.CurrentLevel = r.Level
		next.StarsEarned += r.Stars()
	}
	next.HighestLevelReached = max(prev.HighestLevelReached, r.Level, next.CurrentLevel)
	next.LastPlayedAt = now
	return next
}

// ToProgress converts stored records into the standing map used by the
// resolver and the evaluator.
func ToProgress(recs []store.ModeProgress) catalog.Progress {
	p := make(catalog.Progress, len(recs))
	for _, r := range recs {
		p[r.ModeID] = catalog.Standing{Level: r.CurrentLevel, Accuracy: r.Accuracy}
	}
	return p
}
