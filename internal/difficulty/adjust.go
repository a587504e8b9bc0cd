// Package difficulty sizes problems for a child: initial parameters from
// age and level, and real-time adjustments from rolling performance.
package difficulty

import (
	"github.com/abhisek/countup/internal/catalog"
	"github.com/abhisek/countup/internal/performance"
)

// Action is the direction of a difficulty adjustment.
type Action string

const (
	ActionIncrease Action = "increase"
	ActionDecrease Action = "decrease"
	ActionHold     Action = "hold"
)

// Magnitude is the size of a difficulty adjustment.
type Magnitude string

const (
	MagnitudeSmall  Magnitude = "small"
	MagnitudeMedium Magnitude = "medium"
	MagnitudeLarge  Magnitude = "large"
)

// MinProblemsForAdjustment is the number of attempts needed before any
// adjustment other than hold is made.
const MinProblemsForAdjustment = 5

// Adjustment is a one-shot decision for the next batch of problems.
type Adjustment struct {
	Action    Action    `json:"action"`
	Magnitude Magnitude `json:"magnitude"`
	Reason    string    `json:"reason"`
}

// targetSeconds is the expected time per problem for ages 3 through 8.
var targetSeconds = [catalog.MaxAge - catalog.MinAge + 1]float64{30, 25, 20, 15, 12, 10}

// TargetTime returns the expected seconds per problem for an age. Ages
// outside the tier range use the nearest tier.
func TargetTime(age int) float64 {
	return targetSeconds[catalog.ClampAge(age)-catalog.MinAge]
}

// rule is one step of the decision cascade.
type rule struct {
	when   func(m performance.Metrics, target float64) bool
	result Adjustment
}

// rules is evaluated top to bottom and the first match wins. Conditions
// overlap, so the order is part of the behaviour.
var rules = []rule{
	{
		when: func(m performance.Metrics, _ float64) bool {
			return m.TotalProblems < MinProblemsForAdjustment
		},
		result: Adjustment{ActionHold, MagnitudeSmall, "Warming up: not enough answers yet"},
	},
	{
		when: func(m performance.Metrics, target float64) bool {
			return m.RecentAccuracy >= 95 &&
				m.AverageTimePerProblem < 0.6*target &&
				m.HintsUsedPercent == 0 &&
				m.StreakLength >= 8
		},
		result: Adjustment{ActionIncrease, MagnitudeLarge, "Fast, accurate and no hints: big step up"},
	},
	{
		when: func(m performance.Metrics, target float64) bool {
			return m.RecentAccuracy >= 90 &&
				m.AverageTimePerProblem < 0.8*target &&
				m.HintsUsedPercent <= 5 &&
				m.StreakLength >= 5
		},
		result: Adjustment{ActionIncrease, MagnitudeMedium, "Quick and confident: step up"},
	},
	{
		when: func(m performance.Metrics, _ float64) bool {
			return m.RecentAccuracy >= 80 && m.HintsUsedPercent <= 10
		},
		result: Adjustment{ActionIncrease, MagnitudeSmall, "Doing well: a little harder"},
	},
	{
		when: func(m performance.Metrics, _ float64) bool {
			return m.RecentAccuracy < 40 || m.HintsUsedPercent > 70
		},
		result: Adjustment{ActionDecrease, MagnitudeLarge, "Struggling: make it much easier"},
	},
	{
		when: func(m performance.Metrics, _ float64) bool {
			return m.RecentAccuracy < 50 || m.HintsUsedPercent > 50
		},
		result: Adjustment{ActionDecrease, MagnitudeMedium, "Finding it hard: make it easier"},
	},
	{
		when: func(m performance.Metrics, _ float64) bool {
			return m.RecentAccuracy < 60 || m.HintsUsedPercent > 30
		},
		result: Adjustment{ActionDecrease, MagnitudeSmall, "A bit tricky: ease off slightly"},
	},
}

var optimalZone = Adjustment{ActionHold, MagnitudeSmall, "In the sweet spot: keep going"}

// Adjust decides how the next batch should change given recent metrics.
func Adjust(m performance.Metrics, age int) Adjustment {
	target := TargetTime(age)
	for _, r := range rules {
		if r.when(m, target) {
			return r.result
		}
	}
	return optimalZone
}
