package difficulty

import (
	"math"
	"slices"
)

const (
	minMaxNumber  = 3
	minOperandMax = 2

	// decreaseTimeFactor stretches a time limit whenever difficulty drops.
	decreaseTimeFactor = 1.5
)

// Params is what the problem generator needs to build a batch.
type Params struct {
	MaxNumber      int      `json:"max_number"`
	OperandMax     int      `json:"operand_max"`
	IncludeVisuals bool     `json:"include_visuals"`
	TimeLimitSecs  int      `json:"time_limit_secs,omitempty"` // 0 = untimed
	ProblemTypes   []string `json:"problem_types"`
}

// HasTimeLimit reports whether problems are timed.
func (p Params) HasTimeLimit() bool {
	return p.TimeLimitSecs > 0
}

var factors = map[Action]map[Magnitude]float64{
	ActionIncrease: {MagnitudeSmall: 1.15, MagnitudeMedium: 1.3, MagnitudeLarge: 1.5},
	ActionDecrease: {MagnitudeSmall: 0.85, MagnitudeMedium: 0.7, MagnitudeLarge: 0.5},
}

// Factor returns the multiplier applied to number ranges for an adjustment.
func Factor(adj Adjustment) float64 {
	if f, ok := factors[adj.Action][adj.Magnitude]; ok {
		return f
	}
	return 1
}

// Apply scales base parameters by an adjustment. Number ranges never drop
// below 3 (numbers) or 2 (operands). A decrease turns visuals back on and
// stretches any time limit; nothing ever shortens a time limit.
func Apply(base Params, adj Adjustment) Params {
	f := Factor(adj)
	out := Params{
		MaxNumber:      max(minMaxNumber, int(math.Round(float64(base.MaxNumber)*f))),
		OperandMax:     max(minOperandMax, int(math.Round(float64(base.OperandMax)*f))),
		IncludeVisuals: base.IncludeVisuals,
		TimeLimitSecs:  base.TimeLimitSecs,
		ProblemTypes:   slices.Clone(base.ProblemTypes),
	}
	if adj.Action == ActionDecrease {
		out.IncludeVisuals = true
		if out.TimeLimitSecs > 0 {
			out.TimeLimitSecs = int(math.Round(float64(out.TimeLimitSecs) * decreaseTimeFactor))
		}
	}
	return out
}
