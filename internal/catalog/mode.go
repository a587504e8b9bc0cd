package catalog

// Domain is the arithmetic area a mode practices. It selects the
// difficulty tables used to size problems.
type Domain string

const (
	DomainCounting       Domain = "counting"
	DomainRecognition    Domain = "number-recognition"
	DomainComparison     Domain = "comparison"
	DomainShapes         Domain = "shapes"
	DomainPatterns       Domain = "patterns"
	DomainAddition       Domain = "addition"
	DomainSubtraction    Domain = "subtraction"
	DomainSkipCounting   Domain = "skip-counting"
	DomainPlaceValue     Domain = "place-value"
	DomainMultiplication Domain = "multiplication"
	DomainDivision       Domain = "division"
	DomainTime           Domain = "time"
	DomainMoney          Domain = "money"
	DomainFractions      Domain = "fractions"
	DomainWordProblems   Domain = "word-problems"
)

// AllDomains returns all domains in display order.
func AllDomains() []Domain {
	return []Domain{
		DomainCounting,
		DomainRecognition,
		DomainComparison,
		DomainShapes,
		DomainPatterns,
		DomainAddition,
		DomainSubtraction,
		DomainSkipCounting,
		DomainPlaceValue,
		DomainMultiplication,
		DomainDivision,
		DomainTime,
		DomainMoney,
		DomainFractions,
		DomainWordProblems,
	}
}

// DomainDisplayName returns a human-readable name for a domain.
func DomainDisplayName(d Domain) string {
	switch d {
	case DomainCounting:
		return "Counting"
	case DomainRecognition:
		return "Number Recognition"
	case DomainComparison:
		return "More or Less"
	case DomainShapes:
		return "Shapes"
	case DomainPatterns:
		return "Patterns"
	case DomainAddition:
		return "Addition"
	case DomainSubtraction:
		return "Subtraction"
	case DomainSkipCounting:
		return "Skip Counting"
	case DomainPlaceValue:
		return "Place Value"
	case DomainMultiplication:
		return "Multiplication"
	case DomainDivision:
		return "Division"
	case DomainTime:
		return "Telling Time"
	case DomainMoney:
		return "Money"
	case DomainFractions:
		return "Fractions"
	case DomainWordProblems:
		return "Word Problems"
	default:
		return string(d)
	}
}

// AgeRange is the inclusive range of ages a mode is designed for.
type AgeRange struct {
	Min int
	Max int
}

// Contains reports whether age falls inside the range.
func (r AgeRange) Contains(age int) bool {
	return age >= r.Min && age <= r.Max
}

// Mode is a single learning activity. Modes are defined once at startup
// and never mutated.
type Mode struct {
	ID                 string
	Name               string
	Description        string
	Emoji              string
	Domain             Domain
	AgeRange           AgeRange
	TotalLevels        int
	UnlockRequirements []Requirement
}

// Requirement is a precondition gating access to a mode. The concrete
// types are LevelComplete, AgeGate and MultiMode.
type Requirement interface {
	isRequirement()
}

// LevelComplete requires the child to have completed Level of ModeID.
type LevelComplete struct {
	ModeID string
	Level  int
}

// AgeGate requires the child to be at least MinAge years old.
type AgeGate struct {
	MinAge int
}

// MultiMode is satisfied when every requirement of at least one group
// is satisfied.
type MultiMode struct {
	Groups [][]Requirement
}

func (LevelComplete) isRequirement() {}
func (AgeGate) isRequirement()       {}
func (MultiMode) isRequirement()     {}

// ReferencedModes returns the IDs of every mode a requirement depends on,
// walking nested groups.
func ReferencedModes(req Requirement) []string {
	switch r := req.(type) {
	case LevelComplete:
		return []string{r.ModeID}
	case MultiMode:
		var ids []string
		for _, group := range r.Groups {
			for _, sub := range group {
				ids = append(ids, ReferencedModes(sub)...)
			}
		}
		return ids
	default:
		return nil
	}
}

// Standing is a child's position in a single mode: the highest completed
// level and the accuracy (0-100) recorded for it.
type Standing struct {
	Level    int
	Accuracy float64
}

// Progress maps mode IDs to the child's standing in that mode.
type Progress map[string]Standing

// Of returns the standing for a mode. Modes the child has never played
// report level 0 and accuracy 0.
func (p Progress) Of(modeID string) Standing {
	if p == nil {
		return Standing{}
	}
	return p[modeID]
}

// Clone returns a copy that is safe to modify. It is never nil.
func (p Progress) Clone() Progress {
	out := make(Progress, len(p))
	for id, s := range p {
		out[id] = s
	}
	return out
}
