package catalog

import (
	"fmt"
	"slices"
	"sort"
)

// Catalog holds the mode DAG and tier tables with precomputed indices.
type Catalog struct {
	modes      []Mode
	byID       map[string]*Mode
	byDomain   map[Domain][]Mode
	dependents map[string][]string
	topoOrder  []Mode
	topoIndex  map[string]int
	tiers      map[int]TierConfig
}

// New validates the given modes and tier tables and builds a Catalog.
// Any structural problem is reported as a *ConfigError.
func New(modes []Mode, tiers []TierConfig) (*Catalog, error) {
	if err := validate(modes, tiers); err != nil {
		return nil, err
	}
	return build(modes, tiers), nil
}

// MustNew is like New but panics on a configuration error. It is meant
// for catalogs defined in code and loaded at startup.
func MustNew(modes []Mode, tiers []TierConfig) *Catalog {
	c, err := New(modes, tiers)
	if err != nil {
		panic(err)
	}
	return c
}

// build constructs the indices, including topological order (Kahn's
// algorithm). The input must already be validated.
func build(modes []Mode, tiers []TierConfig) *Catalog {
	c := &Catalog{
		modes:      slices.Clone(modes),
		byID:       make(map[string]*Mode, len(modes)),
		byDomain:   make(map[Domain][]Mode),
		dependents: make(map[string][]string),
		topoIndex:  make(map[string]int, len(modes)),
		tiers:      make(map[int]TierConfig, len(tiers)),
	}

	for i := range c.modes {
		c.byID[c.modes[i].ID] = &c.modes[i]
	}

	// Reverse edges, one per distinct referenced mode.
	inDegree := make(map[string]int, len(c.modes))
	for i := range c.modes {
		m := &c.modes[i]
		refs := uniqueRefs(m)
		inDegree[m.ID] = len(refs)
		for _, ref := range refs {
			c.dependents[ref] = append(c.dependents[ref], m.ID)
		}
	}

	var queue []string
	for id, deg := range inDegree {
		if deg == 0 {
			queue = append(queue, id)
		}
	}
	sort.Strings(queue)

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		c.topoOrder = append(c.topoOrder, *c.byID[id])

		deps := slices.Clone(c.dependents[id])
		sort.Strings(deps)
		for _, depID := range deps {
			inDegree[depID]--
			if inDegree[depID] == 0 {
				queue = append(queue, depID)
			}
		}
	}
	for i, m := range c.topoOrder {
		c.topoIndex[m.ID] = i
	}

	for _, m := range c.topoOrder {
		c.byDomain[m.Domain] = append(c.byDomain[m.Domain], m)
	}

	for _, t := range tiers {
		c.tiers[t.Age] = t
	}
	return c
}

// uniqueRefs returns the distinct modes referenced by a mode's requirements.
func uniqueRefs(m *Mode) []string {
	seen := make(map[string]bool)
	var refs []string
	for _, req := range m.UnlockRequirements {
		for _, id := range ReferencedModes(req) {
			if !seen[id] {
				seen[id] = true
				refs = append(refs, id)
			}
		}
	}
	return refs
}

// Mode returns a mode by ID, or error if not found.
func (c *Catalog) Mode(id string) (Mode, error) {
	m, ok := c.byID[id]
	if !ok {
		return Mode{}, fmt.Errorf("mode not found: %q", id)
	}
	return *m, nil
}

// Has reports whether the catalog defines a mode with the given ID.
func (c *Catalog) Has(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// Modes returns all modes in definition order.
func (c *Catalog) Modes() []Mode {
	return slices.Clone(c.modes)
}

// ByDomain returns the modes of a domain in topological order.
func (c *Catalog) ByDomain(d Domain) []Mode {
	return slices.Clone(c.byDomain[d])
}

// ForAge returns the modes whose age range includes age, in topological order.
func (c *Catalog) ForAge(age int) []Mode {
	var result []Mode
	for _, m := range c.topoOrder {
		if m.AgeRange.Contains(age) {
			result = append(result, m)
		}
	}
	return result
}

// Dependents returns the modes that directly reference the given mode in
// their unlock requirements.
func (c *Catalog) Dependents(id string) []Mode {
	depIDs := c.dependents[id]
	result := make([]Mode, 0, len(depIDs))
	for _, depID := range depIDs {
		if m, ok := c.byID[depID]; ok {
			result = append(result, *m)
		}
	}
	return result
}

// TopologicalOrder returns all modes so that every mode appears after the
// modes it references.
func (c *Catalog) TopologicalOrder() []Mode {
	return slices.Clone(c.topoOrder)
}

// Tier returns the mastery configuration for an age tier.
func (c *Catalog) Tier(age int) (TierConfig, bool) {
	t, ok := c.tiers[age]
	return t, ok
}

// Tiers returns all tier configurations ordered by age.
func (c *Catalog) Tiers() []TierConfig {
	result := make([]TierConfig, 0, len(c.tiers))
	for _, t := range c.tiers {
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Age < result[j].Age })
	return result
}
