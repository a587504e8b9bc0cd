package unlock

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/countup/internal/catalog"
)

func mode(id string, minAge int, reqs ...catalog.Requirement) catalog.Mode {
	return catalog.Mode{
		ID: id, Name: "Mode " + id, Domain: catalog.DomainCounting,
		AgeRange: catalog.AgeRange{Min: minAge, Max: 8}, TotalLevels: 10,
		UnlockRequirements: reqs,
	}
}

func testResolver(t *testing.T, extra ...catalog.Mode) *Resolver {
	t.Helper()
	modes := []catalog.Mode{
		mode("A", 3),
		mode("B", 3),
		mode("C", 3),
		mode("target", 3, catalog.MultiMode{Groups: [][]catalog.Requirement{
			{catalog.LevelComplete{ModeID: "A", Level: 5}},
			{catalog.LevelComplete{ModeID: "B", Level: 3}, catalog.LevelComplete{ModeID: "C", Level: 2}},
		}}),
	}
	modes = append(modes, extra...)
	c, err := catalog.New(modes, nil)
	require.NoError(t, err)
	return NewResolver(c)
}

func TestResolve_MultiModeTruthTable(t *testing.T) {
	r := testResolver(t)

	tests := []struct {
		name     string
		progress catalog.Progress
		want     bool
	}{
		{"neither group", catalog.Progress{"A": {Level: 4}, "B": {Level: 3}, "C": {Level: 1}}, false},
		{"first group only", catalog.Progress{"A": {Level: 5}, "B": {Level: 0}}, true},
		{"second group only", catalog.Progress{"A": {Level: 1}, "B": {Level: 3}, "C": {Level: 2}}, true},
		{"both groups", catalog.Progress{"A": {Level: 9}, "B": {Level: 4}, "C": {Level: 7}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := r.Resolve("target", tt.progress, 5)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Unlocked)
			if tt.want {
				assert.Empty(t, res.Reason)
			} else {
				assert.NotEmpty(t, res.Reason)
			}
		})
	}
}

func TestResolve_AgeGatePrecedence(t *testing.T) {
	r := testResolver(t, mode("grown-up", 6, catalog.LevelComplete{ModeID: "A", Level: 1}))
	progress := catalog.Progress{"A": {Level: 10, Accuracy: 100}}

	res, err := r.Resolve("grown-up", progress, 5)
	require.NoError(t, err)
	assert.False(t, res.Unlocked)
	assert.Equal(t, "Available from age 6", res.Reason)

	res, err = r.Resolve("grown-up", progress, 6)
	require.NoError(t, err)
	assert.True(t, res.Unlocked)
}

func TestResolve_NoRequirements(t *testing.T) {
	r := testResolver(t)
	res, err := r.Resolve("A", nil, 3)
	require.NoError(t, err)
	assert.True(t, res.Unlocked)
}

func TestResolve_MissingProgressIsLevelZero(t *testing.T) {
	r := testResolver(t, mode("after-a", 3, catalog.LevelComplete{ModeID: "A", Level: 1}))
	res, err := r.Resolve("after-a", nil, 4)
	require.NoError(t, err)
	assert.False(t, res.Unlocked)
	assert.Equal(t, "Complete level 1 of Mode A", res.Reason)
}

func TestResolve_AgeGateRequirement(t *testing.T) {
	r := testResolver(t, mode("readers", 3, catalog.AgeGate{MinAge: 7}))

	res, err := r.Resolve("readers", nil, 6)
	require.NoError(t, err)
	assert.False(t, res.Unlocked)
	assert.Equal(t, "Available from age 7", res.Reason)

	res, err = r.Resolve("readers", nil, 7)
	require.NoError(t, err)
	assert.True(t, res.Unlocked)
}

func TestResolve_FirstFailingRequirementReported(t *testing.T) {
	r := testResolver(t, mode("both", 3,
		catalog.LevelComplete{ModeID: "A", Level: 2},
		catalog.LevelComplete{ModeID: "B", Level: 2},
	))
	res, err := r.Resolve("both", catalog.Progress{"A": {Level: 2}}, 5)
	require.NoError(t, err)
	assert.False(t, res.Unlocked)
	assert.Equal(t, "Complete level 2 of Mode B", res.Reason)
}

func TestResolve_MultiModePrefersSpecificReason(t *testing.T) {
	r := testResolver(t, mode("closest", 3, catalog.MultiMode{Groups: [][]catalog.Requirement{
		{catalog.LevelComplete{ModeID: "A", Level: 2}, catalog.LevelComplete{ModeID: "B", Level: 2}},
		{catalog.LevelComplete{ModeID: "C", Level: 1}},
	}}))

	// Second group misses one requirement, the first misses two.
	res, err := r.Resolve("closest", nil, 5)
	require.NoError(t, err)
	assert.False(t, res.Unlocked)
	assert.Equal(t, "Complete level 1 of Mode C", res.Reason)

	// Both groups miss one requirement; the first group wins the tie.
	res, err = r.Resolve("target", catalog.Progress{"B": {Level: 3}}, 5)
	require.NoError(t, err)
	assert.Equal(t, "Complete level 5 of Mode A", res.Reason)
}

func TestResolve_MultiModeGenericReason(t *testing.T) {
	r := testResolver(t, mode("pairs", 3, catalog.MultiMode{Groups: [][]catalog.Requirement{
		{catalog.LevelComplete{ModeID: "A", Level: 2}, catalog.LevelComplete{ModeID: "B", Level: 2}},
		{catalog.LevelComplete{ModeID: "B", Level: 4}, catalog.LevelComplete{ModeID: "C", Level: 4}},
	}}))
	res, err := r.Resolve("pairs", nil, 5)
	require.NoError(t, err)
	assert.False(t, res.Unlocked)
	assert.Equal(t,
		"Unlock by doing one of: complete level 2 of Mode A and complete level 2 of Mode B; or complete level 4 of Mode B and complete level 4 of Mode C",
		res.Reason)
}

func TestResolve_ZeroGroupsFails(t *testing.T) {
	r := testResolver(t, mode("never", 3, catalog.MultiMode{}))
	res, err := r.Resolve("never", catalog.Progress{"A": {Level: 10}}, 8)
	require.NoError(t, err)
	assert.False(t, res.Unlocked)
}

func TestResolve_NestedMultiMode(t *testing.T) {
	nested := catalog.MultiMode{Groups: [][]catalog.Requirement{
		{catalog.LevelComplete{ModeID: "A", Level: 3}},
		{catalog.MultiMode{Groups: [][]catalog.Requirement{
			{catalog.LevelComplete{ModeID: "B", Level: 1}},
			{catalog.LevelComplete{ModeID: "C", Level: 1}},
		}}, catalog.AgeGate{MinAge: 5}},
	}}
	r := testResolver(t, mode("deep", 3, nested))

	res, err := r.Resolve("deep", catalog.Progress{"C": {Level: 1}}, 5)
	require.NoError(t, err)
	assert.True(t, res.Unlocked)

	res, err = r.Resolve("deep", catalog.Progress{"C": {Level: 1}, "A": {Level: 1}}, 4)
	require.NoError(t, err)
	assert.False(t, res.Unlocked)
	assert.Equal(t, "Complete level 3 of Mode A", res.Reason)
}

func TestResolve_UnknownMode(t *testing.T) {
	r := testResolver(t)
	_, err := r.Resolve("nope", nil, 5)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownMode))
}

func TestResolve_SeedCatalog(t *testing.T) {
	r := NewResolver(catalog.Default())

	progress := catalog.Progress{
		"addition-advanced": {Level: 4, Accuracy: 85},
		"subtraction-basic": {Level: 6, Accuracy: 80},
	}
	res, err := r.Resolve("word-problems", progress, 6)
	require.NoError(t, err)
	assert.False(t, res.Unlocked)
	assert.Equal(t, "Available from age 7", res.Reason)

	res, err = r.Resolve("word-problems", progress, 7)
	require.NoError(t, err)
	assert.True(t, res.Unlocked)
}

func TestUnlockedModes_FreshChild(t *testing.T) {
	r := NewResolver(catalog.Default())
	ids := []string{}
	for _, m := range r.UnlockedModes(nil, 3) {
		ids = append(ids, m.ID)
	}
	assert.ElementsMatch(t, []string{"counting-basic", "number-recognition", "shapes"}, ids)
}
