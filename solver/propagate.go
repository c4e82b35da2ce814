// File: propagate.go
// Role: the collapse step and its breadth-first constraint propagation,
// implemented as a queue-of-positions walker over the grid.
package solver

import (
	"github.com/tileatlas/wfc/transform"
)

// stepLocked picks the lowest-entropy uncollapsed cell, narrows it to a
// single variant, and propagates. Caller holds e.mu.
func (e *Engine) stepLocked() {
	minEntropy := -1
	var candidates []Position

	for pos, cell := range e.cells {
		if cell.IsCollapsed() {
			continue
		}
		entropy := cell.Entropy()
		if entropy == 0 {
			e.fail(pos.X, pos.Y)
			return
		}
		switch {
		case minEntropy == -1 || entropy < minEntropy:
			minEntropy = entropy
			candidates = []Position{pos}
		case entropy == minEntropy:
			candidates = append(candidates, pos)
		}
	}

	if len(candidates) == 0 {
		e.setState(Finished)
		e.opts.onFinished(true)
		e.logger.Debug().Str("run_id", e.runID.String()).Msg("grid finished")
		return
	}

	pos := candidates[e.rng.Intn(len(candidates))]

	validNow := e.validPossibilitiesLocked(pos.X, pos.Y)
	if len(validNow) == 0 {
		e.fail(pos.X, pos.Y)
		return
	}

	tile := e.selectTile(validNow, pos.X, pos.Y)
	e.collapseCellLocked(pos.X, pos.Y, tile)
	e.propagateLocked(pos.X, pos.Y)
}

// fail marks the engine Contradiction at (x, y) and fires the
// contradiction/finished hooks once.
func (e *Engine) fail(x, y int) {
	e.setState(Contradiction)
	e.opts.onContradiction(x, y)
	e.opts.onFinished(false)
	e.logger.Warn().Str("run_id", e.runID.String()).Int("x", x).Int("y", y).Msg("contradiction")
}

func (e *Engine) collapseCellLocked(x, y int, tile string) {
	cell := e.cells[Position{X: x, Y: y}]
	cell.Collapsed = tile
	cell.Possibilities = map[string]struct{}{tile: {}}
	e.collapsedCount++
	e.opts.onCellCollapsed(x, y, tile)
	e.opts.onProgress(e.collapsedCount, e.totalCells)
}

// propagateLocked narrows every uncollapsed cell reachable from (x, y)
// through the grid, breadth-first, until no possibility set changes.
// Caller holds e.mu.
func (e *Engine) propagateLocked(x, y int) {
	queue := make([]Position, 0, 4)
	for _, n := range e.neighborPositions(x, y) {
		if cell := e.cells[n]; cell != nil && !cell.IsCollapsed() {
			queue = append(queue, n)
		}
	}

	for len(queue) > 0 {
		pos := queue[0]
		queue = queue[1:]

		cell := e.cells[pos]
		if cell == nil || cell.IsCollapsed() {
			continue
		}

		valid := e.validPossibilitiesLocked(pos.X, pos.Y)
		if setsEqual(valid, cell.Possibilities) {
			continue
		}
		cell.Possibilities = valid

		switch len(valid) {
		case 0:
			e.fail(pos.X, pos.Y)
			return
		case 1:
			var only string
			for id := range valid {
				only = id
			}
			e.collapseCellLocked(pos.X, pos.Y, only)
			queue = append(queue, e.uncollapsedNeighbors(pos.X, pos.Y)...)
		default:
			e.opts.onCellUpdated(pos.X, pos.Y)
			queue = append(queue, e.uncollapsedNeighbors(pos.X, pos.Y)...)
		}
	}
}

func (e *Engine) uncollapsedNeighbors(x, y int) []Position {
	var out []Position
	for _, n := range e.neighborPositions(x, y) {
		if cell := e.cells[n]; cell != nil && !cell.IsCollapsed() {
			out = append(out, n)
		}
	}
	return out
}

// validPossibilitiesLocked recomputes, from scratch, which variant ids
// are consistent with (x, y)'s already-collapsed neighbors: for each
// such neighbor N on side S, a candidate T must be allowed by N on
// opposite(S), and T must itself allow N on S.
func (e *Engine) validPossibilitiesLocked(x, y int) map[string]struct{} {
	valid := cloneSet(e.atl.EnabledVariantIDs())

	for side, n := range e.neighborsWithSides(x, y) {
		neighbor := e.cells[n]
		if neighbor == nil || !neighbor.IsCollapsed() {
			continue
		}
		opposite, err := transform.Opposite(side)
		if err != nil {
			continue
		}
		neighborAllows := e.atl.AllowedNeighbors(neighbor.Collapsed, opposite)
		iAllow := e.atl.TilesAllowing(side, neighbor.Collapsed)
		valid = intersectWithWeights(valid, neighborAllows)
		valid = intersectWithSet(valid, iAllow)
	}
	return valid
}

func setsEqual(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

func intersectWithWeights(s map[string]struct{}, weights map[string]float64) map[string]struct{} {
	out := make(map[string]struct{}, len(s))
	for id := range s {
		if _, ok := weights[id]; ok {
			out[id] = struct{}{}
		}
	}
	return out
}

func intersectWithSet(s, other map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(s))
	for id := range s {
		if _, ok := other[id]; ok {
			out[id] = struct{}{}
		}
	}
	return out
}
