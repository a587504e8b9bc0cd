package performance

import (
	"slices"
	"time"
)

const (
	// DefaultHistoryWindow is the number of attempts retained per session.
	DefaultHistoryWindow = 50

	// DefaultMetricsWindow is the number of most recent attempts used for
	// accuracy, time and hint metrics.
	DefaultMetricsWindow = 10

	neutralAccuracy = 50.0
	neutralTime     = 15.0
)

// Attempt is a single answered problem.
type Attempt struct {
	IsCorrect        bool      `json:"is_correct"`
	TimeSpentSeconds float64   `json:"time_spent_seconds"`
	HintUsed         bool      `json:"hint_used"`
	Timestamp        time.Time `json:"timestamp"`
}

// Metrics summarises recent performance. It is derived on demand and never
// persisted.
type Metrics struct {
	RecentAccuracy        float64 // 0-100 over the metrics window
	AverageTimePerProblem float64 // seconds
	HintsUsedPercent      float64 // 0-100 over the metrics window
	StreakLength          int     // consecutive correct answers ending at the latest attempt
	TotalProblems         int
}

// NeutralMetrics is what a tracker reports before any attempt is recorded.
func NeutralMetrics() Metrics {
	return Metrics{
		RecentAccuracy:        neutralAccuracy,
		AverageTimePerProblem: neutralTime,
	}
}

// Tracker keeps a bounded rolling window of attempts for one session.
// It is owned by a single session and is not safe for concurrent use.
type Tracker struct {
	attempts      []Attempt
	total         int
	historyWindow int
	metricsWindow int
	now           func() time.Time
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock sets the clock used to stamp attempts.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithWindows overrides the history and metrics window sizes.
func WithWindows(history, metrics int) Option {
	return func(t *Tracker) {
		if history > 0 {
			t.historyWindow = history
		}
		if metrics > 0 {
			t.metricsWindow = metrics
		}
	}
}

// NewTracker creates an empty tracker.
func NewTracker(opts ...Option) *Tracker {
	t := &Tracker{
		historyWindow: DefaultHistoryWindow,
		metricsWindow: DefaultMetricsWindow,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Record appends an attempt stamped with the tracker's clock, dropping the
// oldest attempts beyond the history window.
func (t *Tracker) Record(a Attempt) Attempt {
	a.Timestamp = t.now()
	if a.TimeSpentSeconds < 0 {
		a.TimeSpentSeconds = 0
	}
	t.attempts = append(t.attempts, a)
	t.total++
	if len(t.attempts) > t.historyWindow {
		t.attempts = t.attempts[len(t.attempts)-t.historyWindow:]
	}
	return a
}

// Attempts returns a copy of the retained history, oldest first.
func (t *Tracker) Attempts() []Attempt {
	return slices.Clone(t.attempts)
}

// Len returns the number of retained attempts.
func (t *Tracker) Len() int {
	return len(t.attempts)
}

// Reset discards all history.
func (t *Tracker) Reset() {
	t.attempts = nil
	t.total = 0
}

// Metrics derives performance metrics from the retained history.
// TotalProblems counts every attempt recorded since the last reset, including
// ones that have rolled out of the history window.
func (t *Tracker) Metrics() Metrics {
	m := Compute(t.attempts, t.metricsWindow)
	if len(t.attempts) > 0 {
		m.TotalProblems = t.total
	}
	return m
}

// Compute derives metrics from an attempt history (oldest first). Accuracy,
// time and hints use the last window attempts; the streak scans the whole
// history.
func Compute(attempts []Attempt, window int) Metrics {
	if len(attempts) == 0 {
		return NeutralMetrics()
	}
	if window <= 0 {
		window = DefaultMetricsWindow
	}

	recent := attempts
	if len(recent) > window {
		recent = recent[len(recent)-window:]
	}

	var correct, hints int
	var totalTime float64
	for _, a := range recent {
		if a.IsCorrect {
			correct++
		}
		if a.HintUsed {
			hints++
		}
		totalTime += a.TimeSpentSeconds
	}
	n := float64(len(recent))

	streak := 0
	for i := len(attempts) - 1; i >= 0; i-- {
		if !attempts[i].IsCorrect {
			break
		}
		streak++
	}

	return Metrics{
		RecentAccuracy:        float64(correct) / n * 100,
		AverageTimePerProblem: totalTime / n,
		HintsUsedPercent:      float64(hints) / n * 100,
		StreakLength:          streak,
		TotalProblems:         len(attempts),
	}
}
