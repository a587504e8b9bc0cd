// Package unlock decides whether a child may open a learning mode.
package unlock

import (
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/countup/internal/catalog"
)

// ErrUnknownMode is returned when the requested mode is not in the catalog.
var ErrUnknownMode = errors.New("unknown mode")

// Result is the outcome of resolving a mode. Reason is empty when the mode
// is unlocked.
type Result struct {
	ModeID   string
	Unlocked bool
	Reason   string
}

// Resolver evaluates catalog unlock requirements against a child's progress.
type Resolver struct {
	catalog *catalog.Catalog
}

// NewResolver creates a Resolver over the given catalog.
func NewResolver(c *catalog.Catalog) *Resolver {
	return &Resolver{catalog: c}
}

// Resolve reports whether modeID is open for a child of the given age with
// the given progress. Missing progress counts as level 0.
func (r *Resolver) Resolve(modeID string, progress catalog.Progress, age int) (Result, error) {
	mode, err := r.catalog.Mode(modeID)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownMode, modeID)
	}

	if age < mode.AgeRange.Min {
		return locked(modeID, fmt.Sprintf("Available from age %d", mode.AgeRange.Min)), nil
	}

	for _, req := range mode.UnlockRequirements {
		if ok, reason := r.check(req, progress, age); !ok {
			return locked(modeID, reason), nil
		}
	}
	return Result{ModeID: modeID, Unlocked: true}, nil
}

// UnlockedModes returns every mode open to the child, in topological order.
func (r *Resolver) UnlockedModes(progress catalog.Progress, age int) []catalog.Mode {
	var result []catalog.Mode
	for _, m := range r.catalog.TopologicalOrder() {
		res, err := r.Resolve(m.ID, progress, age)
		if err == nil && res.Unlocked {
			result = append(result, m)
		}
	}
	return result
}

func locked(modeID, reason string) Result {
	return Result{ModeID: modeID, Unlocked: false, Reason: reason}
}

// check evaluates a single requirement and returns the reason it failed.
func (r *Resolver) check(req catalog.Requirement, progress catalog.Progress, age int) (bool, string) {
	switch req := req.(type) {
	case catalog.LevelComplete:
		if progress.Of(req.ModeID).Level >= req.Level {
			return true, ""
		}
		return false, r.describe(req)

	case catalog.AgeGate:
		if age >= req.MinAge {
			return true, ""
		}
		return false, r.describe(req)

	case catalog.MultiMode:
		return r.checkMulti(req, progress, age)

	default:
		return false, fmt.Sprintf("unsupported requirement %T", req)
	}
}

// checkMulti passes on the first group whose requirements all hold. When
// none does, the group closest to completion decides the reason: if it
// misses exactly one requirement that requirement's own reason is used,
// otherwise the alternatives are listed.
func (r *Resolver) checkMulti(req catalog.MultiMode, progress catalog.Progress, age int) (bool, string) {
	if len(req.Groups) == 0 {
		return false, "No way to unlock this mode yet"
	}

	bestMisses := -1
	var bestReasons []string
	for _, group := range req.Groups {
		var reasons []string
		for _, sub := range group {
			if ok, reason := r.check(sub, progress, age); !ok {
				reasons = append(reasons, reason)
			}
		}
		if len(reasons) == 0 {
			return true, ""
		}
		if bestMisses < 0 || len(reasons) < bestMisses {
			bestMisses = len(reasons)
			bestReasons = reasons
		}
	}

	if bestMisses == 1 {
		return false, bestReasons[0]
	}
	return false, r.describe(req)
}

// describe renders a requirement as a child-facing instruction.
func (r *Resolver) describe(req catalog.Requirement) string {
	switch req := req.(type) {
	case catalog.LevelComplete:
		name := req.ModeID
		if m, err := r.catalog.Mode(req.ModeID); err == nil {
			name = m.Name
		}
		return fmt.Sprintf("Complete level %d of %s", req.Level, name)

	case catalog.AgeGate:
		return fmt.Sprintf("Available from age %d", req.MinAge)

	case catalog.MultiMode:
		alts := make([]string, 0, len(req.Groups))
		for _, group := range req.Groups {
			parts := make([]string, 0, len(group))
			for _, sub := range group {
				parts = append(parts, lowerFirst(r.describe(sub)))
			}
			alts = append(alts, strings.Join(parts, " and "))
		}
		return "Unlock by doing one of: " + strings.Join(alts, "; or ")

	default:
		return fmt.Sprintf("%T", req)
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
