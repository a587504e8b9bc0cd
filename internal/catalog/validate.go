package catalog

import (
	"fmt"
	"sort"
	"strings"
)

// ConfigError reports every structural problem found in a catalog
// definition. It is fatal at startup.
type ConfigError struct {
	Problems []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("mode catalog validation failed:\n  %s", strings.Join(e.Problems, "\n  "))
}

// validate performs all structural checks on the given modes and tiers.
// Returns a *ConfigError describing all problems found, or nil if valid.
func validate(modes []Mode, tiers []TierConfig) error {
	var errs []string

	byID := make(map[string]*Mode, len(modes))
	for i := range modes {
		m := &modes[i]
		if m.ID == "" {
			errs = append(errs, fmt.Sprintf("mode at index %d has an empty ID", i))
			continue
		}
		if _, dup := byID[m.ID]; dup {
			errs = append(errs, fmt.Sprintf("duplicate mode ID: %q", m.ID))
		}
		byID[m.ID] = m
	}

	for i := range modes {
		m := &modes[i]
		if m.TotalLevels <= 0 {
			errs = append(errs, fmt.Sprintf("mode %q: TotalLevels must be > 0, got %d", m.ID, m.TotalLevels))
		}
		if m.AgeRange.Min < MinAge || m.AgeRange.Max > MaxAge || m.AgeRange.Min > m.AgeRange.Max {
			errs = append(errs, fmt.Sprintf("mode %q: invalid age range [%d,%d]", m.ID, m.AgeRange.Min, m.AgeRange.Max))
		}
		for _, req := range m.UnlockRequirements {
			errs = append(errs, checkRequirement(m.ID, req, byID)...)
		}
	}

	if cycle := findCycle(modes, byID); len(cycle) > 0 {
		errs = append(errs, fmt.Sprintf("cycle detected involving modes: %s", strings.Join(cycle, ", ")))
	}

	seenTier := make(map[int]bool, len(tiers))
	for _, t := range tiers {
		if t.Age < MinAge || t.Age > MaxAge {
			errs = append(errs, fmt.Sprintf("tier %d: age outside [%d,%d]", t.Age, MinAge, MaxAge))
		}
		if seenTier[t.Age] {
			errs = append(errs, fmt.Sprintf("duplicate tier for age %d", t.Age))
		}
		seenTier[t.Age] = true
		if len(t.RequiredModes) == 0 {
			errs = append(errs, fmt.Sprintf("tier %d has no required modes", t.Age))
		}

		ids := make([]string, 0, len(t.RequiredModes))
		for id := range t.RequiredModes {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			th := t.RequiredModes[id]
			m, ok := byID[id]
			if !ok {
				errs = append(errs, fmt.Sprintf("tier %d references nonexistent mode %q", t.Age, id))
				continue
			}
			if th.MinLevel <= 0 || th.MinLevel > m.TotalLevels {
				errs = append(errs, fmt.Sprintf("tier %d mode %q: MinLevel must be in [1,%d], got %d", t.Age, id, m.TotalLevels, th.MinLevel))
			}
			if th.MinAccuracy < 0 || th.MinAccuracy > 100 {
				errs = append(errs, fmt.Sprintf("tier %d mode %q: MinAccuracy must be in [0,100], got %g", t.Age, id, th.MinAccuracy))
			}
			if m.AgeRange.Min > t.Age {
				errs = append(errs, fmt.Sprintf("tier %d requires mode %q which is only available from age %d", t.Age, id, m.AgeRange.Min))
			}
		}
	}

	if len(errs) > 0 {
		return &ConfigError{Problems: errs}
	}
	return nil
}

// checkRequirement validates one requirement, recursing into groups.
func checkRequirement(owner string, req Requirement, byID map[string]*Mode) []string {
	var errs []string
	switch r := req.(type) {
	case LevelComplete:
		target, ok := byID[r.ModeID]
		if !ok {
			return []string{fmt.Sprintf("mode %q references nonexistent mode %q", owner, r.ModeID)}
		}
		if r.ModeID == owner {
			errs = append(errs, fmt.Sprintf("mode %q requires itself", owner))
		}
		if r.Level <= 0 || r.Level > target.TotalLevels {
			errs = append(errs, fmt.Sprintf("mode %q requires level %d of %q, which has %d levels", owner, r.Level, r.ModeID, target.TotalLevels))
		}
	case AgeGate:
		if r.MinAge < MinAge || r.MinAge > MaxAge {
			errs = append(errs, fmt.Sprintf("mode %q: age gate %d outside [%d,%d]", owner, r.MinAge, MinAge, MaxAge))
		}
	case MultiMode:
		for _, group := range r.Groups {
			for _, sub := range group {
				errs = append(errs, checkRequirement(owner, sub, byID)...)
			}
		}
	case nil:
		errs = append(errs, fmt.Sprintf("mode %q has a nil requirement", owner))
	default:
		errs = append(errs, fmt.Sprintf("mode %q has unknown requirement type %T", owner, req))
	}
	return errs
}

// findCycle runs Kahn's algorithm over the reference graph and returns the
// sorted IDs of modes left on a cycle, or nil if the graph is acyclic.
// Dangling references are ignored here; they are reported separately.
func findCycle(modes []Mode, byID map[string]*Mode) []string {
	inDegree := make(map[string]int, len(modes))
	adj := make(map[string][]string)
	for i := range modes {
		m := &modes[i]
		if _, ok := inDegree[m.ID]; !ok {
			inDegree[m.ID] = 0
		}
		for _, ref := range uniqueRefs(m) {
			if _, ok := byID[ref]; !ok {
				continue
			}
			inDegree[m.ID]++
			adj[ref] = append(adj[ref], m.ID)
		}
	}

	var queue []string
	for id, deg := range inDegree {
		if deg == 0 {
			queue = append(queue, id)
		}
	}

	visited := 0
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		visited++
		for _, depID := range adj[id] {
			inDegree[depID]--
			if inDegree[depID] == 0 {
				queue = append(queue, depID)
			}
		}
	}

	if visited == len(inDegree) {
		return nil
	}
	var cycle []string
	for id, deg := range inDegree {
		if deg > 0 {
			cycle = append(cycle, id)
		}
	}
	sort.Strings(cycle)
	return cycle
}
