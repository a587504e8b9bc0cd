// Package mastery decides whether a child has met every requirement of an
// age tier and tracks the tier's graduation status.
package mastery

import (
	"errors"
	"fmt"

	"github.com/abhisek/countup/internal/catalog"
)

// ErrUnknownTier is returned when no mastery table exists for an age.
var ErrUnknownTier = errors.New("unknown age tier")

// Requirement is one required mode of a tier alongside the child's
// current standing in it.
type Requirement struct {
	ModeID    string
	ModeName  string
	Threshold catalog.Threshold
	Standing  catalog.Standing
}

// Met reports whether the standing reaches both the level and the
// accuracy threshold.
func (r Requirement) Met() bool {
	return r.Standing.Level >= r.Threshold.MinLevel &&
		r.Standing.Accuracy >= r.Threshold.MinAccuracy
}

// LevelsToGo is the number of levels still needed, or 0.
func (r Requirement) LevelsToGo() int {
	return max(0, r.Threshold.MinLevel-r.Standing.Level)
}

// AccuracyGap is the accuracy points still needed, or 0.
func (r Requirement) AccuracyGap() float64 {
	return max(0, r.Threshold.MinAccuracy-r.Standing.Accuracy)
}

// Result is the outcome of evaluating one tier.
type Result struct {
	Tier            int
	IsEligible      bool
	Met             []Requirement
	Unmet           []Requirement
	OverallProgress float64 // 0-100, unweighted share of requirements met
}

// MetModeIDs returns the IDs of the requirements already met.
func (r Result) MetModeIDs() []string {
	ids := make([]string, len(r.Met))
	for i, req := range r.Met {
		ids[i] = req.ModeID
	}
	return ids
}

// Evaluator checks progress against the catalog's tier tables.
type Evaluator struct {
	catalog *catalog.Catalog
}

// NewEvaluator creates an evaluator over a catalog.
func NewEvaluator(c *catalog.Catalog) *Evaluator {
	return &Evaluator{catalog: c}
}

// Evaluate compares progress against every required mode of a tier. Modes
// missing from progress count as level 0 with 0% accuracy.
func (e *Evaluator) Evaluate(tier int, progress catalog.Progress) (Result, error) {
	cfg, ok := e.catalog.Tier(tier)
	if !ok {
		return Result{}, fmt.Errorf("evaluate tier %d: %w", tier, ErrUnknownTier)
	}

	res := Result{Tier: tier}
	ids := e.catalog.RequiredModeIDs(tier)
	for _, id := range ids {
		req := Requirement{
			ModeID:    id,
			Threshold: cfg.RequiredModes[id],
			Standing:  progress.Of(id),
		}
		if m, err := e.catalog.Mode(id); err == nil {
			req.ModeName = m.Name
		}
		if req.Met() {
			res.Met = append(res.Met, req)
		} else {
			res.Unmet = append(res.Unmet, req)
		}
	}

	if len(ids) == 0 {
		res.OverallProgress = 100
	} else {
		res.OverallProgress = float64(len(res.Met)) / float64(len(ids)) * 100
	}
	res.IsEligible = len(res.Unmet) == 0
	return res, nil
}
