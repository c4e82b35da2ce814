// Package propagator auto-generates adjacency rules across a base
// tile's symmetric variants. Given one manually authored rule between
// two variants, it derives the equivalent rule for every other sibling
// pair related by the same relative transform, so an author only ever
// has to describe adjacency once per base-tile pair rather than once
// per variant pair.
package propagator
