package catalog

// defaultCatalog is the built-in catalog, validated at package init.
var defaultCatalog *Catalog

func init() {
	defaultCatalog = MustNew(seedModes(), seedTiers())
}

// Default returns the built-in catalog.
func Default() *Catalog {
	return defaultCatalog
}

func seedModes() []Mode {
	return []Mode{
		{
			ID: "counting-basic", Name: "Counting Basics", Emoji: "🔢",
			Description: "Count forwards from 1 and say what comes next",
			Domain:      DomainCounting, AgeRange: AgeRange{3, 8}, TotalLevels: 10,
		},
		{
			ID: "number-recognition", Name: "Number Spotting", Emoji: "👀",
			Description: "Match numerals to their names and quantities",
			Domain:      DomainRecognition, AgeRange: AgeRange{3, 8}, TotalLevels: 10,
		},
		{
			ID: "shapes", Name: "Shape Safari", Emoji: "🔺",
			Description: "Name and sort circles, squares, triangles and friends",
			Domain:      DomainShapes, AgeRange: AgeRange{3, 8}, TotalLevels: 8,
		},
		{
			ID: "counting-objects", Name: "Count the Critters", Emoji: "🐞",
			Description: "Count groups of pictures one by one",
			Domain:      DomainCounting, AgeRange: AgeRange{3, 8}, TotalLevels: 10,
			UnlockRequirements: []Requirement{
				LevelComplete{ModeID: "counting-basic", Level: 3},
			},
		},
		{
			ID: "more-or-less", Name: "More or Less", Emoji: "⚖️",
			Description: "Compare two groups or numbers",
			Domain:      DomainComparison, AgeRange: AgeRange{4, 8}, TotalLevels: 10,
			UnlockRequirements: []Requirement{
				LevelComplete{ModeID: "counting-objects", Level: 3},
			},
		},
		{
			ID: "patterns", Name: "Pattern Parade", Emoji: "🎨",
			Description: "Continue repeating colour and shape patterns",
			Domain:      DomainPatterns, AgeRange: AgeRange{4, 8}, TotalLevels: 8,
			UnlockRequirements: []Requirement{
				LevelComplete{ModeID: "shapes", Level: 3},
			},
		},
		{
			ID: "addition-basic", Name: "Adding Up", Emoji: "➕",
			Description: "Put two small groups together",
			Domain:      DomainAddition, AgeRange: AgeRange{4, 8}, TotalLevels: 12,
			UnlockRequirements: []Requirement{
				LevelComplete{ModeID: "counting-objects", Level: 5},
			},
		},
		{
			ID: "subtraction-basic", Name: "Taking Away", Emoji: "➖",
			Description: "Take some away and count what is left",
			Domain:      DomainSubtraction, AgeRange: AgeRange{5, 8}, TotalLevels: 12,
			UnlockRequirements: []Requirement{
				LevelComplete{ModeID: "addition-basic", Level: 4},
			},
		},
		{
			ID: "skip-counting", Name: "Hop Along", Emoji: "🐸",
			Description: "Count by twos, fives and tens",
			Domain:      DomainSkipCounting, AgeRange: AgeRange{5, 8}, TotalLevels: 10,
			UnlockRequirements: []Requirement{
				LevelComplete{ModeID: "counting-basic", Level: 8},
			},
		},
		{
			ID: "place-value", Name: "Tens and Ones", Emoji: "🧱",
			Description: "Build numbers from tens and ones",
			Domain:      DomainPlaceValue, AgeRange: AgeRange{6, 8}, TotalLevels: 10,
			UnlockRequirements: []Requirement{
				LevelComplete{ModeID: "number-recognition", Level: 8},
			},
		},
		{
			ID: "addition-advanced", Name: "Big Sums", Emoji: "🚀",
			Description: "Add two-digit numbers",
			Domain:      DomainAddition, AgeRange: AgeRange{6, 8}, TotalLevels: 12,
			UnlockRequirements: []Requirement{
				MultiMode{Groups: [][]Requirement{
					{LevelComplete{ModeID: "addition-basic", Level: 10}},
					{
						LevelComplete{ModeID: "addition-basic", Level: 6},
						LevelComplete{ModeID: "place-value", Level: 3},
					},
				}},
			},
		},
		{
			ID: "subtraction-advanced", Name: "Big Differences", Emoji: "🛸",
			Description: "Subtract two-digit numbers",
			Domain:      DomainSubtraction, AgeRange: AgeRange{6, 8}, TotalLevels: 12,
			UnlockRequirements: []Requirement{
				LevelComplete{ModeID: "subtraction-basic", Level: 8},
				LevelComplete{ModeID: "place-value", Level: 3},
			},
		},
		{
			ID: "time-telling", Name: "Clock Work", Emoji: "⏰",
			Description: "Read hours, half hours and quarter hours",
			Domain:      DomainTime, AgeRange: AgeRange{6, 8}, TotalLevels: 8,
			UnlockRequirements: []Requirement{
				LevelComplete{ModeID: "skip-counting", Level: 5},
			},
		},
		{
			ID: "multiplication-intro", Name: "Groups Of", Emoji: "✖️",
			Description: "Multiply with equal groups and arrays",
			Domain:      DomainMultiplication, AgeRange: AgeRange{7, 8}, TotalLevels: 10,
			UnlockRequirements: []Requirement{
				MultiMode{Groups: [][]Requirement{
					{LevelComplete{ModeID: "skip-counting", Level: 8}},
					{LevelComplete{ModeID: "addition-advanced", Level: 6}},
				}},
			},
		},
		{
			ID: "money", Name: "Piggy Bank", Emoji: "🪙",
			Description: "Count coins and make change",
			Domain:      DomainMoney, AgeRange: AgeRange{7, 8}, TotalLevels: 8,
			UnlockRequirements: []Requirement{
				MultiMode{Groups: [][]Requirement{
					{
						LevelComplete{ModeID: "addition-advanced", Level: 4},
						LevelComplete{ModeID: "skip-counting", Level: 6},
					},
					{LevelComplete{ModeID: "subtraction-advanced", Level: 4}},
				}},
			},
		},
		{
			ID: "division-intro", Name: "Fair Shares", Emoji: "➗",
			Description: "Share things out equally",
			Domain:      DomainDivision, AgeRange: AgeRange{7, 8}, TotalLevels: 10,
			UnlockRequirements: []Requirement{
				LevelComplete{ModeID: "multiplication-intro", Level: 5},
			},
		},
		{
			ID: "word-problems", Name: "Story Sums", Emoji: "📖",
			Description: "Solve short stories with numbers in them",
			Domain:      DomainWordProblems, AgeRange: AgeRange{6, 8}, TotalLevels: 10,
			UnlockRequirements: []Requirement{
				AgeGate{MinAge: 7},
				LevelComplete{ModeID: "addition-advanced", Level: 4},
				LevelComplete{ModeID: "subtraction-basic", Level: 6},
			},
		},
		{
			ID: "fractions-intro", Name: "Pizza Parts", Emoji: "🍕",
			Description: "Halves, thirds and quarters of shapes and groups",
			Domain:      DomainFractions, AgeRange: AgeRange{8, 8}, TotalLevels: 8,
			UnlockRequirements: []Requirement{
				LevelComplete{ModeID: "division-intro", Level: 3},
			},
		},
	}
}

func seedTiers() []TierConfig {
	return []TierConfig{
		{
			Age: 3,
			RequiredModes: map[string]Threshold{
				"counting-basic":     {MinLevel: 5, MinAccuracy: 70},
				"number-recognition": {MinLevel: 5, MinAccuracy: 70},
				"shapes":             {MinLevel: 3, MinAccuracy: 70},
				"counting-objects":   {MinLevel: 3, MinAccuracy: 70},
			},
			FocusAreas:  []string{"Counting to 10", "Recognising numerals", "Basic shapes"},
			Certificate: Certificate{Title: "Little Counter", Description: "Counts to ten and knows the basic shapes"},
		},
		{
			Age: 4,
			RequiredModes: map[string]Threshold{
				"counting-basic":   {MinLevel: 8, MinAccuracy: 75},
				"counting-objects": {MinLevel: 6, MinAccuracy: 75},
				"more-or-less":     {MinLevel: 4, MinAccuracy: 70},
				"addition-basic":   {MinLevel: 3, MinAccuracy: 70},
				"patterns":         {MinLevel: 3, MinAccuracy: 70},
			},
			FocusAreas:  []string{"Counting to 20", "Comparing groups", "First sums"},
			Certificate: Certificate{Title: "Number Explorer", Description: "Compares groups and adds small numbers"},
		},
		{
			Age: 5,
			RequiredModes: map[string]Threshold{
				"addition-basic":    {MinLevel: 8, MinAccuracy: 75},
				"subtraction-basic": {MinLevel: 5, MinAccuracy: 70},
				"skip-counting":     {MinLevel: 5, MinAccuracy: 75},
				"more-or-less":      {MinLevel: 8, MinAccuracy: 80},
			},
			FocusAreas:  []string{"Addition within 20", "Taking away", "Counting by 2s, 5s and 10s"},
			Certificate: Certificate{Title: "Sum Starter", Description: "Adds and subtracts within 20"},
		},
		{
			Age: 6,
			RequiredModes: map[string]Threshold{
				"addition-advanced":    {MinLevel: 6, MinAccuracy: 80},
				"subtraction-advanced": {MinLevel: 5, MinAccuracy: 75},
				"place-value":          {MinLevel: 6, MinAccuracy: 80},
				"time-telling":         {MinLevel: 4, MinAccuracy: 75},
			},
			FocusAreas:  []string{"Two-digit sums", "Tens and ones", "Telling time"},
			Certificate: Certificate{Title: "Place Value Pro", Description: "Works with tens and ones and reads a clock"},
		},
		{
			Age: 7,
			RequiredModes: map[string]Threshold{
				"multiplication-intro": {MinLevel: 6, MinAccuracy: 80},
				"division-intro":       {MinLevel: 4, MinAccuracy: 75},
				"money":                {MinLevel: 5, MinAccuracy: 80},
				"word-problems":        {MinLevel: 4, MinAccuracy: 75},
			},
			FocusAreas:  []string{"Equal groups", "Sharing", "Counting money"},
			Certificate: Certificate{Title: "Problem Solver", Description: "Multiplies, shares and solves story problems"},
		},
		{
			Age: 8,
			RequiredModes: map[string]Threshold{
				"multiplication-intro": {MinLevel: 10, MinAccuracy: 85},
				"division-intro":       {MinLevel: 8, MinAccuracy: 80},
				"fractions-intro":      {MinLevel: 6, MinAccuracy: 80},
				"word-problems":        {MinLevel: 8, MinAccuracy: 80},
			},
			FocusAreas:  []string{"Times tables", "Fractions of shapes", "Multi-step stories"},
			Certificate: Certificate{Title: "Math Champion", Description: "Ready for grade-school math"},
		},
	}
}
