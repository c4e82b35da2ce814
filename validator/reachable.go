// File: reachable.go
// Role: reachability diagnostic, a natural companion to Validate: a tile
// can be individually complete and still be unplaceable if no chain of
// rules ever reaches it from a chosen starting variant.
package validator

import (
	"fmt"

	"github.com/tileatlas/wfc/atlas"
	"github.com/tileatlas/wfc/transform"
)

// ReachableFrom walks the directed rule graph breadth-first from
// startVariantID and returns the set of every variant id reachable by
// following one or more rules (in the "tile allows neighbor on side"
// direction). startVariantID itself is always included. Complexity:
// O(V + R) where V is the atlas's variant count and R its rule count.
func ReachableFrom(a *atlas.Atlas, startVariantID string) (map[string]struct{}, error) {
	if a.GetVariant(startVariantID) == nil {
		return nil, fmt.Errorf("validator: ReachableFrom: unknown variant %q", startVariantID)
	}

	visited := map[string]struct{}{startVariantID: {}}
	queue := []string{startVariantID}
	sides := transform.Sides()

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, side := range sides {
			for neighbor := range a.AllowedNeighbors(current, side) {
				if _, seen := visited[neighbor]; seen {
					continue
				}
				visited[neighbor] = struct{}{}
				queue = append(queue, neighbor)
			}
		}
	}

	return visited, nil
}
