// File: basetiles.go
// Role: BaseTile CRUD with cascade semantics.
package atlas

import (
	"fmt"

	"github.com/tileatlas/wfc/transform"
)

// AddBaseTile registers bt and creates its identity variant. Fails with
// ErrDuplicateBaseTile if bt.ID already exists, or ErrNonSquareImage if
// Width != Height. Complexity: O(1) amortized.
func (a *Atlas) AddBaseTile(bt BaseTile) (*Variant, error) {
	if bt.ID == "" {
		return nil, fmt.Errorf("AddBaseTile: %w", ErrEmptyID)
	}
	if bt.Width != bt.Height {
		return nil, fmt.Errorf("AddBaseTile(%s): %dx%d: %w", bt.ID, bt.Width, bt.Height, ErrNonSquareImage)
	}

	a.muMeta.Lock()
	if _, exists := a.baseTileIdx[bt.ID]; exists {
		a.muMeta.Unlock()
		return nil, fmt.Errorf("AddBaseTile(%s): %w", bt.ID, ErrDuplicateBaseTile)
	}
	stored := bt
	a.baseTileIdx[bt.ID] = len(a.baseTiles)
	a.baseTiles = append(a.baseTiles, &stored)
	a.modified = true
	a.muMeta.Unlock()

	// Creating the identity variant touches variant/rule state, which is
	// under muRules — addVariant takes care of its own locking.
	return a.addVariant(bt.ID, transform.Identity)
}

// GetBaseTile returns the base tile with the given id, or nil.
func (a *Atlas) GetBaseTile(id string) *BaseTile {
	a.muMeta.RLock()
	defer a.muMeta.RUnlock()
	idx, ok := a.baseTileIdx[id]
	if !ok {
		return nil
	}
	bt := *a.baseTiles[idx]
	return &bt
}

// BaseTiles returns a snapshot slice of every base tile, in insertion
// order.
func (a *Atlas) BaseTiles() []BaseTile {
	a.muMeta.RLock()
	defer a.muMeta.RUnlock()
	out := make([]BaseTile, len(a.baseTiles))
	for i, bt := range a.baseTiles {
		out[i] = *bt
	}
	return out
}

// RemoveBaseTile removes the base tile, every one of its variants, and
// every rule that touches any removed variant. Returns
// ErrUnknownBaseTile if id does not exist. Complexity: O(V+R) where V is
// the atlas's variant count and R its rule count.
func (a *Atlas) RemoveBaseTile(id string) error {
	a.muMeta.Lock()
	idx, ok := a.baseTileIdx[id]
	if !ok {
		a.muMeta.Unlock()
		return fmt.Errorf("RemoveBaseTile(%s): %w", id, ErrUnknownBaseTile)
	}
	a.baseTiles = append(a.baseTiles[:idx], a.baseTiles[idx+1:]...)
	delete(a.baseTileIdx, id)
	for i := idx; i < len(a.baseTiles); i++ {
		a.baseTileIdx[a.baseTiles[i].ID] = i
	}
	a.modified = true
	a.muMeta.Unlock()

	a.muRules.Lock()
	defer a.muRules.Unlock()

	toRemove := make(map[string]struct{})
	for _, vid := range a.variantsByBase[id] {
		toRemove[vid] = struct{}{}
	}
	delete(a.variantsByBase, id)

	a.removeVariantsLocked(toRemove)
	a.removeRulesTouchingLocked(toRemove)
	a.rebuildIndicesLocked()

	return nil
}
