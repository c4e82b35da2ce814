package transform_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tileatlas/wfc/transform"
)

func mustNew(t *testing.T, rotation int, fx, fy bool) transform.Transform {
	t.Helper()
	tr, err := transform.New(rotation, fx, fy)
	require.NoError(t, err, "transform.New(%d,%v,%v)", rotation, fx, fy)
	return tr
}

// TestCompose_S1 reproduces spec scenario S1.
func TestCompose_S1(t *testing.T) {
	r90 := mustNew(t, 90, false, false)
	got := r90.Compose(r90)
	want := mustNew(t, 180, false, false)
	assert.Equal(t, want, got, "r90.Compose(r90)")

	fx := mustNew(t, 0, true, false)
	got2 := fx.Compose(r90)
	want2 := mustNew(t, 270, true, false)
	assert.Equal(t, want2, got2, "fx.Compose(r90)")
}

// TestApplyToSide_S2 reproduces spec scenario S2.
func TestApplyToSide_S2(t *testing.T) {
	cases := []struct {
		tr   transform.Transform
		side transform.Side
		want transform.Side
	}{
		{mustNew(t, 90, false, false), transform.Top, transform.Right},
		{mustNew(t, 270, false, false), transform.Top, transform.Left},
		{mustNew(t, 0, true, false), transform.Left, transform.Right},
	}
	for _, c := range cases {
		got, err := c.tr.ApplyToSide(c.side)
		require.NoError(t, err)
		assert.Equal(t, c.want, got, "%+v.ApplyToSide(%v)", c.tr, c.side)
	}
}

// TestGroupLaws checks the group-theoretic contracts Compose/Inverse
// must satisfy for each of the 8 canonical transforms: the identity and
// inverse laws, and that InverseSide undoes ApplyToSide on every side.
func TestGroupLaws(t *testing.T) {
	all := transform.All()
	require.Len(t, all, 8, "All()")

	for _, tr := range all {
		id := tr.Compose(tr.Inverse())
		assert.True(t, id.Equal(transform.Identity), "%+v.Compose(Inverse()) = %+v; want identity", tr, id)
		assert.True(t, tr.Compose(transform.Identity).Equal(tr), "%+v does not compose with identity as a no-op", tr)
		assert.True(t, transform.Identity.Compose(tr).Equal(tr), "identity.Compose(%+v) is not a no-op", tr)

		for _, s := range []transform.Side{transform.Top, transform.Right, transform.Bottom, transform.Left} {
			mapped, err := tr.ApplyToSide(s)
			require.NoError(t, err)
			back, err := tr.InverseSide(mapped)
			require.NoError(t, err)
			assert.Equal(t, s, back, "%+v: InverseSide(ApplyToSide(%v))", tr, s)
		}
	}
}

// TestNormalizeIsCanonical verifies exactly 8 distinct canonical values
// exist across all 16 raw (rotation, flip_x, flip_y) combinations, and
// that Normalize is idempotent.
func TestNormalizeIsCanonical(t *testing.T) {
	seen := make(map[transform.Transform]bool)
	for _, r := range []int{0, 90, 180, 270} {
		for _, fx := range []bool{false, true} {
			for _, fy := range []bool{false, true} {
				raw := mustNew(t, r, fx, fy)
				norm := raw.Normalize()
				assert.False(t, norm.FlipY, "Normalize(%+v) = %+v still has FlipY set", raw, norm)
				again := norm.Normalize()
				assert.Equal(t, norm, again, "Normalize not idempotent for %+v", raw)
				seen[norm] = true
			}
		}
	}
	assert.Len(t, seen, 8, "distinct canonical transforms")
}

func TestOpposite(t *testing.T) {
	cases := map[transform.Side]transform.Side{
		transform.Top:    transform.Bottom,
		transform.Bottom: transform.Top,
		transform.Left:   transform.Right,
		transform.Right:  transform.Left,
	}
	for side, want := range cases {
		got, err := transform.Opposite(side)
		assert.NoError(t, err)
		assert.Equal(t, want, got, "Opposite(%v)", side)
	}
	_, err := transform.Opposite(transform.Side(99))
	assert.Error(t, err, "Opposite(invalid side) should error")
}

func TestSuffix(t *testing.T) {
	cases := []struct {
		tr   transform.Transform
		want string
	}{
		{transform.Identity, ""},
		{mustNew(t, 90, false, false), "r90"},
		{mustNew(t, 0, true, false), "fx"},
		{mustNew(t, 180, true, false), "r180_fx"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.tr.Suffix())
	}
}
