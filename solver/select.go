// File: select.go
// Role: tile selection among a cell's remaining possibilities. Uniform
// random selection is the default; WithWeightedSelection switches to
// rule-weight-proportional selection instead.
package solver

import (
	"sort"

	"github.com/tileatlas/wfc/transform"
)

// selectTile picks one variant id from possibilities for the cell at
// (x, y). Caller holds e.mu and guarantees possibilities is non-empty.
func (e *Engine) selectTile(possibilities map[string]struct{}, x, y int) string {
	ids := sortedKeys(possibilities)
	if !e.opts.weightedSelection {
		return ids[e.rng.Intn(len(ids))]
	}

	weights := make([]float64, len(ids))
	total := 0.0
	for i, id := range ids {
		w := e.candidateWeight(id, x, y)
		weights[i] = w
		total += w
	}
	if total <= 0 {
		return ids[e.rng.Intn(len(ids))]
	}

	target := e.rng.Float64() * total
	acc := 0.0
	for i, w := range weights {
		acc += w
		if target < acc {
			return ids[i]
		}
	}
	return ids[len(ids)-1]
}

// candidateWeight sums the rule weight each already-collapsed neighbor
// contributes toward allowing candidate at (x, y). A cell with no
// collapsed neighbors yet (e.g. the first cell of a solve) weighs every
// candidate equally.
func (e *Engine) candidateWeight(candidate string, x, y int) float64 {
	total := 0.0
	seenAny := false

	for side, n := range e.neighborsWithSides(x, y) {
		neighbor := e.cells[n]
		if neighbor == nil || !neighbor.IsCollapsed() {
			continue
		}
		opposite, err := transform.Opposite(side)
		if err != nil {
			continue
		}
		if w, ok := e.atl.AllowedNeighbors(neighbor.Collapsed, opposite)[candidate]; ok {
			total += w
			seenAny = true
		}
	}

	if !seenAny {
		return 1.0
	}
	return total
}

func sortedKeys(s map[string]struct{}) []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
