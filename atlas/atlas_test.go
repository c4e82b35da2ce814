package atlas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tileatlas/wfc/transform"
)

func newGrassAtlas(t *testing.T) (*Atlas, *Variant) {
	t.Helper()
	a := New()
	id, err := a.AddBaseTile(BaseTile{ID: "grass", Width: 16, Height: 16})
	require.NoError(t, err)
	require.Equal(t, "grass", id.ID)
	require.True(t, id.IsIdentity())
	return a, id
}

func TestAddBaseTile_Duplicate(t *testing.T) {
	a, _ := newGrassAtlas(t)
	_, err := a.AddBaseTile(BaseTile{ID: "grass", Width: 16, Height: 16})
	assert.ErrorIs(t, err, ErrDuplicateBaseTile)
}

func TestAddBaseTile_NonSquare(t *testing.T) {
	a := New()
	_, err := a.AddBaseTile(BaseTile{ID: "plank", Width: 16, Height: 32})
	assert.ErrorIs(t, err, ErrNonSquareImage)
}

func TestAddVariant_IdempotentByNormalizedTransform(t *testing.T) {
	a, _ := newGrassAtlas(t)

	r90, err := a.AddVariant("grass", transform.Transform{Rotation: 90})
	require.NoError(t, err)

	again, err := a.AddVariant("grass", transform.Transform{Rotation: 90})
	require.NoError(t, err)
	assert.Equal(t, r90.ID, again.ID, "expected idempotent id")
	assert.Len(t, a.VariantsForBase("grass"), 2, "expected identity + r90")

	// flip_y at 0 degrees normalizes to rotation 180, flip_x true — should
	// collide with a variant created directly in canonical form.
	viaFlipY, err := a.AddVariant("grass", transform.Transform{FlipY: true})
	require.NoError(t, err)
	viaCanonical, err := a.AddVariant("grass", transform.Transform{Rotation: 180, FlipX: true})
	require.NoError(t, err)
	assert.Equal(t, viaCanonical.ID, viaFlipY.ID, "expected flip_y to normalize onto the same variant as rotation=180,flip_x=true")
}

func TestAddVariant_UnknownBase(t *testing.T) {
	a := New()
	_, err := a.AddVariant("nope", transform.Identity)
	assert.ErrorIs(t, err, ErrUnknownBaseTile)
}

func TestRemoveVariant_RefusesIdentity(t *testing.T) {
	a, identity := newGrassAtlas(t)
	err := a.RemoveVariant(identity.ID)
	assert.ErrorIs(t, err, ErrIdentityVariantRemove)
}

func TestRemoveVariant_CascadesRules(t *testing.T) {
	a, _ := newGrassAtlas(t)
	r90, err := a.AddVariant("grass", transform.Transform{Rotation: 90})
	require.NoError(t, err)
	_, err = a.AddRule("grass", transform.Top, r90.ID, 100, false)
	require.NoError(t, err)
	_, err = a.AddRule(r90.ID, transform.Bottom, "grass", 100, false)
	require.NoError(t, err)

	require.NoError(t, a.RemoveVariant(r90.ID))
	assert.Nil(t, a.GetRule("grass", transform.Top, r90.ID), "rule referencing removed variant should be gone")
	assert.Nil(t, a.GetRule(r90.ID, transform.Bottom, "grass"), "rule sourced from removed variant should be gone")
	assert.Nil(t, a.AllowedNeighbors("grass", transform.Top), "index entry should be rebuilt away")
}

func TestRemoveBaseTile_CascadesEverything(t *testing.T) {
	a, _ := newGrassAtlas(t)
	_, err := a.AddBaseTile(BaseTile{ID: "water", Width: 16, Height: 16})
	require.NoError(t, err)
	r90, err := a.AddVariant("grass", transform.Transform{Rotation: 90})
	require.NoError(t, err)
	_, err = a.AddRule("grass", transform.Top, "water", 100, false)
	require.NoError(t, err)
	_, err = a.AddRule(r90.ID, transform.Right, "water", 100, false)
	require.NoError(t, err)

	require.NoError(t, a.RemoveBaseTile("grass"))
	assert.Nil(t, a.GetBaseTile("grass"))
	assert.Nil(t, a.GetVariant("grass"))
	assert.Nil(t, a.GetVariant(r90.ID))
	assert.Empty(t, a.Rules())
	// water itself must survive untouched.
	assert.NotNil(t, a.GetBaseTile("water"))
}

func TestRemoveBaseTile_Unknown(t *testing.T) {
	a := New()
	err := a.RemoveBaseTile("nope")
	assert.ErrorIs(t, err, ErrUnknownBaseTile)
}

func TestAddRule_UpsertByTripleKey(t *testing.T) {
	a, _ := newGrassAtlas(t)
	_, err := a.AddBaseTile(BaseTile{ID: "water", Width: 16, Height: 16})
	require.NoError(t, err)

	_, err = a.AddRule("grass", transform.Top, "water", 50, false)
	require.NoError(t, err)
	assert.Len(t, a.Rules(), 1)

	_, err = a.AddRule("grass", transform.Top, "water", 200, true)
	require.NoError(t, err)
	assert.Len(t, a.Rules(), 1, "expected upsert to keep rule count at 1")

	got := a.GetRule("grass", transform.Top, "water")
	require.NotNil(t, got)
	assert.Equal(t, 200.0, got.Weight)
	assert.True(t, got.AutoGenerated)
}

func TestAddRule_UnknownVariant(t *testing.T) {
	a, _ := newGrassAtlas(t)
	_, err := a.AddRule("grass", transform.Top, "nope", 100, false)
	assert.ErrorIs(t, err, ErrUnknownVariant)
	_, err = a.AddRule("nope", transform.Top, "grass", 100, false)
	assert.ErrorIs(t, err, ErrUnknownVariant)
}

func TestRemoveAutoRules(t *testing.T) {
	a, _ := newGrassAtlas(t)
	_, err := a.AddBaseTile(BaseTile{ID: "water", Width: 16, Height: 16})
	require.NoError(t, err)
	_, err = a.AddRule("grass", transform.Top, "water", 100, false)
	require.NoError(t, err)
	_, err = a.AddRule("water", transform.Bottom, "grass", 100, true)
	require.NoError(t, err)

	removed := a.RemoveAutoRules()
	assert.Equal(t, 1, removed)
	assert.Len(t, a.Rules(), 1, "expected 1 manual rule left")
	assert.Equal(t, 0, a.RemoveAutoRules(), "expected second RemoveAutoRules call to be a no-op")
}

func TestAllowedNeighborsAndTilesAllowing(t *testing.T) {
	a, _ := newGrassAtlas(t)
	_, err := a.AddBaseTile(BaseTile{ID: "water", Width: 16, Height: 16})
	require.NoError(t, err)
	_, err = a.AddRule("grass", transform.Top, "water", 75, false)
	require.NoError(t, err)

	allowed := a.AllowedNeighbors("grass", transform.Top)
	assert.Equal(t, 75.0, allowed["water"])

	tiles := a.TilesAllowing(transform.Top, "water")
	_, ok := tiles["grass"]
	assert.True(t, ok, "expected TilesAllowing(Top, water) to include grass, got %+v", tiles)
}

func TestCloneIsIndependent(t *testing.T) {
	a, _ := newGrassAtlas(t)
	_, err := a.AddBaseTile(BaseTile{ID: "water", Width: 16, Height: 16})
	require.NoError(t, err)
	_, err = a.AddRule("grass", transform.Top, "water", 100, false)
	require.NoError(t, err)

	clone := a.Clone()
	require.NoError(t, a.RemoveBaseTile("water"))

	assert.NotNil(t, clone.GetBaseTile("water"), "expected clone to retain water after the original removed it")
	assert.Len(t, clone.Rules(), 1)
}

func TestSnapshotRoundTrip(t *testing.T) {
	a, _ := newGrassAtlas(t)
	_, err := a.AddBaseTile(BaseTile{ID: "water", Width: 16, Height: 16})
	require.NoError(t, err)
	r90, err := a.AddVariant("grass", transform.Transform{Rotation: 90})
	require.NoError(t, err)
	require.NoError(t, a.SetVariantEnabled(r90.ID, false))
	_, err = a.AddRule("grass", transform.Top, "water", 42, true)
	require.NoError(t, err)

	snap := a.ToSnapshot()
	restored, err := FromSnapshot(snap)
	require.NoError(t, err)

	assert.Len(t, restored.BaseTiles(), len(a.BaseTiles()))
	assert.Len(t, restored.Variants(), len(a.Variants()))

	v := restored.GetVariant(r90.ID)
	require.NotNil(t, v)
	assert.False(t, v.Enabled, "expected restored r90 variant to stay disabled")

	got := restored.GetRule("grass", transform.Top, "water")
	require.NotNil(t, got)
	assert.Equal(t, 42.0, got.Weight)
	assert.True(t, got.AutoGenerated)
	assert.False(t, restored.Modified(), "expected FromSnapshot result to start unmodified")
}
