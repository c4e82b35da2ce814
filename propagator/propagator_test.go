package propagator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tileatlas/wfc/atlas"
	"github.com/tileatlas/wfc/transform"
)

func buildRotatableAtlas(t *testing.T) *atlas.Atlas {
	t.Helper()
	a := atlas.New(atlas.WithSettings(atlas.Settings{AutoPropagateRotations: true}))
	_, err := a.AddBaseTile(atlas.BaseTile{ID: "path", Width: 16, Height: 16})
	require.NoError(t, err)
	_, err = a.AddBaseTile(atlas.BaseTile{ID: "grass", Width: 16, Height: 16})
	require.NoError(t, err)
	for _, rot := range []int{90, 180, 270} {
		_, err = a.AddVariant("path", transform.Transform{Rotation: rot})
		require.NoError(t, err)
		_, err = a.AddVariant("grass", transform.Transform{Rotation: rot})
		require.NoError(t, err)
	}
	return a
}

func TestPropagateRule_GeneratesSiblingRules(t *testing.T) {
	a := buildRotatableAtlas(t)

	rule, err := a.AddRule("path", transform.Top, "grass", 100, false)
	require.NoError(t, err)

	created, err := PropagateRule(a, *rule)
	require.NoError(t, err)
	// 3 other rotations of "path" should each get a derived rule.
	require.Len(t, created, 3)
	for _, r := range created {
		assert.True(t, r.AutoGenerated, "expected propagated rule to be auto-generated: %+v", r)
	}

	// The path rotated 90 degrees must now allow grass on its rotated Top
	// side (Top rotated 90 degrees is Right).
	got := a.GetRule("path_r90", transform.Right, "grass_r90")
	require.NotNil(t, got, "rules=%+v", a.Rules())
	assert.Equal(t, 100.0, got.Weight)
}

func TestPropagateRule_UnknownEndpointIsNoop(t *testing.T) {
	a := atlas.New()
	_, err := a.AddBaseTile(atlas.BaseTile{ID: "path", Width: 16, Height: 16})
	require.NoError(t, err)
	rule := atlas.Rule{TileID: "path", Side: transform.Top, NeighborID: "ghost", Weight: 1}
	created, err := PropagateRule(a, rule)
	require.NoError(t, err)
	assert.Nil(t, created, "expected nil for a rule with a missing endpoint")
}

func TestPropagateAll_DropsStaleAutoRulesFirst(t *testing.T) {
	a := buildRotatableAtlas(t)
	manualRule, err := a.AddRule("path", transform.Top, "grass", 100, false)
	require.NoError(t, err)
	_, err = PropagateRule(a, *manualRule)
	require.NoError(t, err)

	// Add a stray auto rule that propagation should discard before redoing
	// its work, so no doubled-up rules survive.
	_, err = a.AddRule("grass_r180", transform.Bottom, "path_r180", 1, true)
	require.NoError(t, err)

	total, err := PropagateAll(a)
	require.NoError(t, err)
	assert.Equal(t, 3, total, "expected 3 rules recreated from the one manual rule")
	assert.Nil(t, a.GetRule("grass_r180", transform.Bottom, "path_r180"), "expected the stray auto rule to have been dropped")
}

func TestEnsureVariantsForRule_CreatesMissingRotations(t *testing.T) {
	a := atlas.New(atlas.WithSettings(atlas.Settings{AutoPropagateRotations: true}))
	_, err := a.AddBaseTile(atlas.BaseTile{ID: "path", Width: 16, Height: 16})
	require.NoError(t, err)
	_, err = a.AddBaseTile(atlas.BaseTile{ID: "grass", Width: 16, Height: 16})
	require.NoError(t, err)
	rule := atlas.Rule{TileID: "path", Side: transform.Top, NeighborID: "grass"}

	created, err := EnsureVariantsForRule(a, rule)
	require.NoError(t, err)
	// 3 rotations (90/180/270) for each of the 2 base tiles.
	assert.Len(t, created, 6)
	assert.Len(t, a.VariantsForBase("path"), 4, "expected identity + 3 rotations")

	// Calling again must be idempotent.
	second, err := EnsureVariantsForRule(a, rule)
	require.NoError(t, err)
	assert.Empty(t, second, "expected no new variants on second call")
}
