package difficulty

import (
	"fmt"

	"github.com/abhisek/countup/internal/catalog"
)

const (
	// Visuals are mandatory at or below these thresholds.
	visualAgeThreshold   = 5
	visualLevelThreshold = 3

	// Problems become timed from this age and level upward.
	timedFromAge   = 6
	timedFromLevel = 5
	timeLimitScale = 3
)

type ageRow [catalog.MaxAge - catalog.MinAge + 1]int

// typeBand introduces problem types from a level onward.
type typeBand struct {
	fromLevel int
	types     []string
}

// domainTable holds the base ranges of one domain. Ranges grow by
// levelStep/operandStep for every level above 1.
type domainTable struct {
	baseMax      ageRow
	levelStep    int
	operandBase  ageRow
	operandStep  int
	alwaysVisual bool
	bands        []typeBand
}

var tables = map[catalog.Domain]domainTable{
	catalog.DomainCounting: {
		baseMax: ageRow{5, 10, 15, 20, 30, 50}, levelStep: 2,
		operandBase: ageRow{3, 5, 5, 10, 10, 10}, operandStep: 1,
		bands: []typeBand{
			{1, []string{"count-forward"}},
			{3, []string{"count-objects"}},
			{6, []string{"count-backward"}},
			{8, []string{"missing-number"}},
		},
	},
	catalog.DomainRecognition: {
		baseMax: ageRow{5, 10, 20, 50, 100, 100}, levelStep: 3,
		operandBase: ageRow{3, 5, 5, 10, 10, 10}, operandStep: 1,
		bands: []typeBand{
			{1, []string{"match-numeral"}},
			{4, []string{"numeral-to-word"}},
			{7, []string{"order-numbers"}},
		},
	},
	catalog.DomainComparison: {
		baseMax: ageRow{5, 10, 20, 50, 100, 100}, levelStep: 3,
		operandBase: ageRow{5, 10, 10, 20, 50, 50}, operandStep: 2,
		bands: []typeBand{
			{1, []string{"more-fewer"}},
			{4, []string{"greater-less"}},
			{7, []string{"order-three"}},
		},
	},
	catalog.DomainShapes: {
		baseMax: ageRow{4, 6, 8, 10, 12, 12}, levelStep: 1,
		operandBase: ageRow{2, 3, 3, 4, 4, 5},
		alwaysVisual: true,
		bands: []typeBand{
			{1, []string{"name-shape"}},
			{3, []string{"count-sides"}},
			{6, []string{"sort-shapes"}},
		},
	},
	catalog.DomainPatterns: {
		baseMax: ageRow{4, 6, 8, 10, 12, 15}, levelStep: 1,
		operandBase: ageRow{2, 2, 3, 3, 4, 4},
		alwaysVisual: true,
		bands: []typeBand{
			{1, []string{"ab-pattern"}},
			{3, []string{"abc-pattern"}},
			{6, []string{"growing-pattern"}},
		},
	},
	catalog.DomainAddition: {
		baseMax: ageRow{5, 10, 10, 20, 50, 100}, levelStep: 2,
		operandBase: ageRow{3, 5, 5, 10, 25, 50}, operandStep: 1,
		bands: []typeBand{
			{1, []string{"add-pictures"}},
			{3, []string{"add-within-10"}},
			{6, []string{"add-within-20"}},
			{9, []string{"add-tens"}},
		},
	},
	catalog.DomainSubtraction: {
		baseMax: ageRow{5, 10, 10, 20, 50, 100}, levelStep: 2,
		operandBase: ageRow{3, 5, 5, 10, 25, 50}, operandStep: 1,
		bands: []typeBand{
			{1, []string{"take-away-pictures"}},
			{3, []string{"subtract-within-10"}},
			{6, []string{"subtract-within-20"}},
			{9, []string{"subtract-tens"}},
		},
	},
	catalog.DomainSkipCounting: {
		baseMax: ageRow{10, 20, 30, 50, 100, 100}, levelStep: 5,
		operandBase: ageRow{2, 2, 2, 5, 5, 10}, operandStep: 1,
		bands: []typeBand{
			{1, []string{"count-by-2"}},
			{4, []string{"count-by-5"}},
			{7, []string{"count-by-10"}},
		},
	},
	catalog.DomainPlaceValue: {
		baseMax: ageRow{20, 50, 99, 99, 999, 999}, levelStep: 10,
		operandBase: ageRow{10, 10, 10, 10, 100, 100},
		bands: []typeBand{
			{1, []string{"tens-and-ones"}},
			{4, []string{"expanded-form"}},
			{7, []string{"hundreds"}},
		},
	},
	catalog.DomainMultiplication: {
		baseMax: ageRow{10, 10, 20, 30, 50, 100}, levelStep: 5,
		operandBase: ageRow{2, 2, 3, 5, 5, 10}, operandStep: 1,
		bands: []typeBand{
			{1, []string{"equal-groups"}},
			{3, []string{"arrays"}},
			{6, []string{"times-tables"}},
		},
	},
	catalog.DomainDivision: {
		baseMax: ageRow{10, 10, 20, 30, 50, 100}, levelStep: 5,
		operandBase: ageRow{2, 2, 3, 5, 5, 10}, operandStep: 1,
		bands: []typeBand{
			{1, []string{"sharing"}},
			{3, []string{"grouping"}},
			{6, []string{"division-facts"}},
		},
	},
	catalog.DomainTime: {
		baseMax:     ageRow{12, 12, 12, 12, 12, 12},
		operandBase: ageRow{2, 2, 2, 2, 4, 4},
		bands: []typeBand{
			{1, []string{"o-clock"}},
			{3, []string{"half-past"}},
			{5, []string{"quarter-past"}},
			{7, []string{"five-minutes"}},
		},
	},
	catalog.DomainMoney: {
		baseMax: ageRow{10, 10, 20, 50, 100, 100}, levelStep: 5,
		operandBase: ageRow{2, 2, 5, 5, 10, 25}, operandStep: 1,
		bands: []typeBand{
			{1, []string{"count-coins"}},
			{3, []string{"make-amount"}},
			{6, []string{"make-change"}},
		},
	},
	catalog.DomainFractions: {
		baseMax: ageRow{3, 3, 4, 4, 4, 8}, levelStep: 1,
		operandBase: ageRow{2, 2, 2, 2, 3, 4},
		bands: []typeBand{
			{1, []string{"halves"}},
			{3, []string{"thirds-quarters"}},
			{6, []string{"fraction-of-group"}},
		},
	},
	catalog.DomainWordProblems: {
		baseMax: ageRow{5, 10, 10, 20, 50, 100}, levelStep: 3,
		operandBase: ageRow{3, 5, 5, 10, 20, 50}, operandStep: 2,
		bands: []typeBand{
			{1, []string{"one-step-add"}},
			{3, []string{"one-step-subtract"}},
			{6, []string{"two-step"}},
		},
	},
}

// Initial returns the starting parameters for a domain, level and age
// before any attempts exist. It never looks at performance metrics.
func Initial(domain catalog.Domain, level, age int) (Params, error) {
	t, ok := tables[domain]
	if !ok {
		return Params{}, fmt.Errorf("no difficulty table for domain %q", domain)
	}
	if level < 1 {
		level = 1
	}
	idx := catalog.ClampAge(age) - catalog.MinAge

	maxNumber := t.baseMax[idx] + (level-1)*t.levelStep
	operandMax := t.operandBase[idx] + (level-1)*t.operandStep
	if operandMax > maxNumber {
		operandMax = maxNumber
	}

	p := Params{
		MaxNumber:      max(minMaxNumber, maxNumber),
		OperandMax:     max(minOperandMax, operandMax),
		IncludeVisuals: t.alwaysVisual || age <= visualAgeThreshold || level <= visualLevelThreshold,
		ProblemTypes:   problemTypes(t.bands, level),
	}
	if age >= timedFromAge && level >= timedFromLevel {
		p.TimeLimitSecs = int(TargetTime(age)) * timeLimitScale
	}
	return p, nil
}

func problemTypes(bands []typeBand, level int) []string {
	var types []string
	for _, b := range bands {
		if b.fromLevel <= level {
			types = append(types, b.types...)
		}
	}
	return types
}
