package catalog

import "slices"

const (
	// MinAge is the youngest age tier.
	MinAge = 3
	// MaxAge is the oldest age tier. Children at this tier cannot graduate further.
	MaxAge = 8
)

// Threshold is the level and accuracy a child must reach in a mode to
// count it toward an age tier's mastery.
type Threshold struct {
	MinLevel    int
	MinAccuracy float64
}

// Certificate is awarded when a child graduates from a tier.
type Certificate struct {
	Title       string
	Description string
}

// TierConfig holds the static mastery requirements for one age tier.
type TierConfig struct {
	Age           int
	RequiredModes map[string]Threshold
	FocusAreas    []string
	Certificate   Certificate
}

// RequiredModeIDs returns the tier's required mode IDs in catalog
// topological order so callers get a stable listing.
func (c *Catalog) RequiredModeIDs(age int) []string {
	tier, ok := c.tiers[age]
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(tier.RequiredModes))
	for id := range tier.RequiredModes {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b string) int {
		return c.topoIndex[a] - c.topoIndex[b]
	})
	return ids
}

// ClampAge returns age limited to the supported tier range.
func ClampAge(age int) int {
	if age < MinAge {
		return MinAge
	}
	if age > MaxAge {
		return MaxAge
	}
	return age
}
