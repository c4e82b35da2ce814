package transform

import (
	"errors"
	"fmt"
)

// Side names one of the four edges of a square tile.
type Side int

const (
	Top Side = iota
	Right
	Bottom
	Left
)

func (s Side) String() string {
	switch s {
	case Top:
		return "top"
	case Right:
		return "right"
	case Bottom:
		return "bottom"
	case Left:
		return "left"
	default:
		return fmt.Sprintf("transform.Side(%d)", int(s))
	}
}

// ErrInvalidSide is returned when a Side value outside {Top, Right,
// Bottom, Left} reaches a function that must permute it.
var ErrInvalidSide = errors.New("transform: invalid side")

// ErrInvalidRotation is returned when a rotation is not one of
// {0, 90, 180, 270}.
var ErrInvalidRotation = errors.New("transform: rotation must be 0, 90, 180 or 270")

// Opposite returns the side across the tile from s.
func Opposite(s Side) (Side, error) {
	switch s {
	case Top:
		return Bottom, nil
	case Bottom:
		return Top, nil
	case Left:
		return Right, nil
	case Right:
		return Left, nil
	default:
		return 0, fmt.Errorf("Opposite(%v): %w", s, ErrInvalidSide)
	}
}

// sides is the fixed enumeration order used wherever all four sides
// must be walked deterministically (suffix building, validation).
var sides = [4]Side{Top, Right, Bottom, Left}

// Sides returns the four sides in a fixed, deterministic order.
func Sides() [4]Side {
	return sides
}

// ParseSide is the inverse of Side.String, for decoding the lowercase
// side names used in .tr/.tm JSON manifests.
func ParseSide(s string) (Side, error) {
	switch s {
	case "top":
		return Top, nil
	case "right":
		return Right, nil
	case "bottom":
		return Bottom, nil
	case "left":
		return Left, nil
	default:
		return 0, fmt.Errorf("ParseSide(%q): %w", s, ErrInvalidSide)
	}
}

// rotationMap[r][s] is the side s becomes after a clockwise rotation of
// r degrees. Index 0 corresponds to the identity (r=0).
var rotationMap = map[int][4]Side{
	0:   {Top, Right, Bottom, Left},
	90:  {Right, Bottom, Left, Top},
	180: {Bottom, Left, Top, Right},
	270: {Left, Top, Right, Bottom},
}

func rotateSide(s Side, degrees int) (Side, error) {
	row, ok := rotationMap[((degrees%360)+360)%360]
	if !ok {
		return 0, fmt.Errorf("rotateSide(%d): %w", degrees, ErrInvalidRotation)
	}
	switch s {
	case Top:
		return row[0], nil
	case Right:
		return row[1], nil
	case Bottom:
		return row[2], nil
	case Left:
		return row[3], nil
	default:
		return 0, fmt.Errorf("rotateSide: %w", ErrInvalidSide)
	}
}

func flipXSide(s Side) (Side, error) {
	switch s {
	case Top:
		return Top, nil
	case Bottom:
		return Bottom, nil
	case Left:
		return Right, nil
	case Right:
		return Left, nil
	default:
		return 0, fmt.Errorf("flipXSide: %w", ErrInvalidSide)
	}
}

func flipYSide(s Side) (Side, error) {
	switch s {
	case Left:
		return Left, nil
	case Right:
		return Right, nil
	case Top:
		return Bottom, nil
	case Bottom:
		return Top, nil
	default:
		return 0, fmt.Errorf("flipYSide: %w", ErrInvalidSide)
	}
}

// Transform represents "rotate clockwise by Rotation degrees, then flip
// horizontally if FlipX, then flip vertically if FlipY" applied to a
// square tile. The zero value is the identity transform.
//
// The group has order 8. Flip_y alone, and flip_x+flip_y together, both
// reduce to a rotation plus (at most) flip_x under Normalize — see
// Normalize for the exact equivalences. A Transform is never required
// to be pre-normalized by its caller; every method here normalizes its
// own result where the contract calls for it.
type Transform struct {
	Rotation int
	FlipX    bool
	FlipY    bool
}

// Identity is the no-op transform.
var Identity = Transform{}

// New constructs a Transform, validating the rotation up front so that
// bad input fails at the boundary rather than deep inside Compose.
func New(rotation int, flipX, flipY bool) (Transform, error) {
	rotation = ((rotation % 360) + 360) % 360
	if _, ok := rotationMap[rotation]; !ok {
		return Transform{}, fmt.Errorf("transform.New(%d): %w", rotation, ErrInvalidRotation)
	}
	return Transform{Rotation: rotation, FlipX: flipX, FlipY: flipY}, nil
}

// IsIdentity reports whether t has no visible effect on a tile.
func (t Transform) IsIdentity() bool {
	return t.Rotation == 0 && !t.FlipX && !t.FlipY
}

// Suffix returns the canonical tile-id suffix for t: the join of
// nonempty parts among {"r{rotation}", "fx", "fy"} by "_", or the empty
// string for the identity. Callers normally pass a Normalize()d
// Transform in here since FlipY never survives normalization, but
// Suffix itself does not normalize — it renders exactly what it is
// given, which lets propagator intermediate math stay honest about
// which frame it is in.
func (t Transform) Suffix() string {
	parts := make([]string, 0, 3)
	if t.Rotation != 0 {
		parts = append(parts, fmt.Sprintf("r%d", t.Rotation))
	}
	if t.FlipX {
		parts = append(parts, "fx")
	}
	if t.FlipY {
		parts = append(parts, "fy")
	}
	if len(parts) == 0 {
		return ""
	}
	out := parts[0]
	for _, p := range parts[1:] {
		out += "_" + p
	}
	return out
}

// ApplyToSide computes which side s maps to after t: rotation first,
// then flip_x, then flip_y.
func (t Transform) ApplyToSide(s Side) (Side, error) {
	out, err := rotateSide(s, t.Rotation)
	if err != nil {
		return 0, fmt.Errorf("ApplyToSide: %w", err)
	}
	if t.FlipX {
		if out, err = flipXSide(out); err != nil {
			return 0, fmt.Errorf("ApplyToSide: %w", err)
		}
	}
	if t.FlipY {
		if out, err = flipYSide(out); err != nil {
			return 0, fmt.Errorf("ApplyToSide: %w", err)
		}
	}
	return out, nil
}

// InverseSide returns the unique original side that ApplyToSide maps to
// s — i.e. the side o such that t.ApplyToSide(o) == s.
func (t Transform) InverseSide(s Side) (Side, error) {
	for _, candidate := range sides {
		mapped, err := t.ApplyToSide(candidate)
		if err != nil {
			return 0, err
		}
		if mapped == s {
			return candidate, nil
		}
	}
	return 0, fmt.Errorf("InverseSide(%v): %w", s, ErrInvalidSide)
}

// flipAxisSwapsAt reports whether passing a flip through a rotation of
// degrees swaps which axis (x vs y) that flip acts on: flip_x past r90
// becomes flip_y and vice versa; past r180 both flips are invariant;
// past r270 they swap again.
func flipAxisSwapsAt(degrees int) bool {
	return degrees == 90 || degrees == 270
}

// Inverse returns the transform that undoes t, in canonical form.
func (t Transform) Inverse() Transform {
	invRotation := (360 - t.Rotation) % 360

	newFlipX, newFlipY := t.FlipX, t.FlipY
	if flipAxisSwapsAt(invRotation) {
		newFlipX, newFlipY = t.FlipY, t.FlipX
	}
	return Transform{Rotation: invRotation, FlipX: newFlipX, FlipY: newFlipY}.Normalize()
}

// Compose returns "t first, then other", in canonical form.
func (t Transform) Compose(other Transform) Transform {
	fx1, fy1 := t.FlipX, t.FlipY
	if flipAxisSwapsAt(other.Rotation) {
		fx1, fy1 = fy1, fx1
	}

	newRotation := (t.Rotation + other.Rotation) % 360
	newFlipX := fx1 != other.FlipX
	newFlipY := fy1 != other.FlipY

	return Transform{Rotation: newRotation, FlipX: newFlipX, FlipY: newFlipY}.Normalize()
}

// Normalize collapses FlipY into an equivalent (rotation, flip_x) form:
//
//	flip_y alone          == rotation+180, flip_x
//	flip_x and flip_y both == rotation+180 (pure rotation)
//
// Normalize is idempotent and yields exactly 8 distinct values across
// the whole group.
func (t Transform) Normalize() Transform {
	if !t.FlipY {
		return t
	}
	rotation := (t.Rotation + 180) % 360
	if t.FlipX {
		return Transform{Rotation: rotation}
	}
	return Transform{Rotation: rotation, FlipX: true}
}

// All returns the 8 canonical transforms in a fixed, deterministic
// order (rotation 0,90,180,270 × flip_x false,true), suitable for
// enumerating every sibling variant of a base tile.
func All() []Transform {
	out := make([]Transform, 0, 8)
	for _, r := range [4]int{0, 90, 180, 270} {
		for _, fx := range [2]bool{false, true} {
			out = append(out, Transform{Rotation: r, FlipX: fx})
		}
	}
	return out
}

// Equal reports whether t and other denote the same canonical
// transform once both are normalized.
func (t Transform) Equal(other Transform) bool {
	a, b := t.Normalize(), other.Normalize()
	return a.Rotation == b.Rotation && a.FlipX == b.FlipX && a.FlipY == b.FlipY
}
