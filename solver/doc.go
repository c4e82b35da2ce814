// Package solver implements the Wave Function Collapse stepping engine:
// a grid of cells, each holding the set of variant ids still possible
// at that position, collapsed one cell at a time by picking the lowest-
// entropy cell and narrowing it to a single variant, then propagating
// that choice outward with a breadth-first queue until no more cells
// change or a contradiction (an empty possibility set) is reached.
//
// Engine is single-threaded and cooperative: Start/Pause/Step/Reset
// never run concurrently with each other — callers drive stepping from
// their own timer or loop. A RunID correlates one Engine's log lines
// for the lifetime of a single Initialize call; it carries no solving
// semantics of its own.
package solver
