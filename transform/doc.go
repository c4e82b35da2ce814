// Package transform implements the eight-element symmetry group of a
// square tile: the four clockwise rotations combined with an optional
// horizontal and vertical mirror.
//
// A Transform is a small, immutable value — construct one, call its
// methods, discard it. The group is closed under Compose and every
// element has an Inverse; Normalize collapses the sixteen raw
// (rotation, flip_x, flip_y) combinations down to the eight that are
// actually distinct, using flip_x alone as the canonical mirror axis.
package transform
