// File: rules.go
// Role: Rule CRUD (upsert-by-triple semantics) and the precomputed
// lookup indices the solver and validator query. Indices are rebuilt
// eagerly on every mutating call rather than lazily, trading a little
// write-side cost for simple, always-consistent reads.
package atlas

import (
	"fmt"

	"github.com/tileatlas/wfc/transform"
)

// AddRule upserts a rule by the (tile, side, neighbor) triple: if one
// already exists its Weight and AutoGenerated are overwritten, otherwise
// a new Rule is appended. Both tile and neighbor must already name an
// existing variant. Complexity: O(1) amortized plus O(R) index rebuild.
func (a *Atlas) AddRule(tile string, side transform.Side, neighbor string, weight float64, auto bool) (*Rule, error) {
	a.muRules.Lock()
	defer a.muRules.Unlock()

	if _, ok := a.variantIdx[tile]; !ok {
		return nil, fmt.Errorf("AddRule: tile %s: %w", tile, ErrUnknownVariant)
	}
	if _, ok := a.variantIdx[neighbor]; !ok {
		return nil, fmt.Errorf("AddRule: neighbor %s: %w", neighbor, ErrUnknownVariant)
	}

	key := ruleKey{tile: tile, side: side, neighbor: neighbor}
	if idx, ok := a.ruleIdx[key]; ok {
		a.rules[idx].Weight = weight
		a.rules[idx].AutoGenerated = auto
		a.modified = true
		a.rebuildIndicesLocked()
		out := *a.rules[idx]
		return &out, nil
	}

	r := &Rule{TileID: tile, Side: side, NeighborID: neighbor, Weight: weight, AutoGenerated: auto}
	a.ruleIdx[key] = len(a.rules)
	a.rules = append(a.rules, r)
	a.modified = true
	a.rebuildIndicesLocked()

	out := *r
	return &out, nil
}

// GetRule returns the rule matching the triple, or nil.
func (a *Atlas) GetRule(tile string, side transform.Side, neighbor string) *Rule {
	a.muRules.RLock()
	defer a.muRules.RUnlock()
	idx, ok := a.ruleIdx[ruleKey{tile: tile, side: side, neighbor: neighbor}]
	if !ok {
		return nil
	}
	r := *a.rules[idx]
	return &r
}

// RemoveRule deletes the rule matching the triple, if any. It is not an
// error to remove a rule that does not exist.
func (a *Atlas) RemoveRule(tile string, side transform.Side, neighbor string) {
	a.muRules.Lock()
	defer a.muRules.Unlock()
	key := ruleKey{tile: tile, side: side, neighbor: neighbor}
	idx, ok := a.ruleIdx[key]
	if !ok {
		return
	}
	a.removeRuleAtLocked(idx)
	a.rebuildIndicesLocked()
	a.modified = true
}

// RemoveAutoRules deletes every rule with AutoGenerated set and returns
// the count removed. Idempotent: calling it twice in a row removes 0 the
// second time.
func (a *Atlas) RemoveAutoRules() int {
	a.muRules.Lock()
	defer a.muRules.Unlock()

	kept := a.rules[:0:0]
	removed := 0
	for _, r := range a.rules {
		if r.AutoGenerated {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	a.rules = kept
	a.ruleIdx = make(map[ruleKey]int, len(a.rules))
	for i, r := range a.rules {
		a.ruleIdx[r.key()] = i
	}
	if removed > 0 {
		a.modified = true
	}
	a.rebuildIndicesLocked()
	return removed
}

// GetRulesForTile returns every rule whose TileID is tile, optionally
// filtered to one side. side == nil means "all sides".
func (a *Atlas) GetRulesForTile(tile string, side *transform.Side) []Rule {
	a.muRules.RLock()
	defer a.muRules.RUnlock()
	out := make([]Rule, 0)
	for _, r := range a.rules {
		if r.TileID != tile {
			continue
		}
		if side != nil && r.Side != *side {
			continue
		}
		out = append(out, *r)
	}
	return out
}

// Rules returns a snapshot slice of every rule, in insertion order.
func (a *Atlas) Rules() []Rule {
	a.muRules.RLock()
	defer a.muRules.RUnlock()
	out := make([]Rule, len(a.rules))
	for i, r := range a.rules {
		out[i] = *r
	}
	return out
}

// AllowedNeighbors returns {neighborID: weight} for every rule with
// TileID==tile and Side==side — the set of variants the solver may
// place on that side of tile.
func (a *Atlas) AllowedNeighbors(tile string, side transform.Side) map[string]float64 {
	a.muRules.RLock()
	defer a.muRules.RUnlock()
	bySide, ok := a.bySideNeighborWeight[tile]
	if !ok {
		return nil
	}
	byNeighbor, ok := bySide[side]
	if !ok {
		return nil
	}
	out := make(map[string]float64, len(byNeighbor))
	for k, v := range byNeighbor {
		out[k] = v
	}
	return out
}

// TilesAllowing returns the set of tile ids T such that a rule
// (T, side, neighbor) exists — the reverse lookup AllowedNeighbors
// needs when propagation walks a constraint from the other side.
func (a *Atlas) TilesAllowing(side transform.Side, neighbor string) map[string]struct{} {
	a.muRules.RLock()
	defer a.muRules.RUnlock()
	bySide, ok := a.tilesAllowingOnSide[side]
	if !ok {
		return nil
	}
	tiles, ok := bySide[neighbor]
	if !ok {
		return nil
	}
	out := make(map[string]struct{}, len(tiles))
	for k := range tiles {
		out[k] = struct{}{}
	}
	return out
}

// removeRuleAtLocked removes the rule at rules[idx] and keeps ruleIdx in
// sync for every rule shifted by the deletion. Caller holds muRules.
func (a *Atlas) removeRuleAtLocked(idx int) {
	removedKey := a.rules[idx].key()
	a.rules = append(a.rules[:idx], a.rules[idx+1:]...)
	delete(a.ruleIdx, removedKey)
	for i := idx; i < len(a.rules); i++ {
		a.ruleIdx[a.rules[i].key()] = i
	}
}

// removeRulesTouchingLocked deletes every rule whose TileID or
// NeighborID is in ids. Caller holds muRules.
func (a *Atlas) removeRulesTouchingLocked(ids map[string]struct{}) {
	kept := a.rules[:0:0]
	for _, r := range a.rules {
		_, dropTile := ids[r.TileID]
		_, dropNeighbor := ids[r.NeighborID]
		if dropTile || dropNeighbor {
			continue
		}
		kept = append(kept, r)
	}
	a.rules = kept
	a.ruleIdx = make(map[ruleKey]int, len(a.rules))
	for i, r := range a.rules {
		a.ruleIdx[r.key()] = i
	}
	a.modified = true
}

// rebuildIndicesLocked recomputes bySideNeighborWeight and
// tilesAllowingOnSide from a.rules. Caller holds muRules.
// Complexity: O(R).
func (a *Atlas) rebuildIndicesLocked() {
	a.bySideNeighborWeight = make(map[string]map[transform.Side]map[string]float64)
	a.tilesAllowingOnSide = make(map[transform.Side]map[string]map[string]struct{})

	for _, r := range a.rules {
		bySide, ok := a.bySideNeighborWeight[r.TileID]
		if !ok {
			bySide = make(map[transform.Side]map[string]float64)
			a.bySideNeighborWeight[r.TileID] = bySide
		}
		byNeighbor, ok := bySide[r.Side]
		if !ok {
			byNeighbor = make(map[string]float64)
			bySide[r.Side] = byNeighbor
		}
		byNeighbor[r.NeighborID] = r.Weight

		bySideRev, ok := a.tilesAllowingOnSide[r.Side]
		if !ok {
			bySideRev = make(map[string]map[string]struct{})
			a.tilesAllowingOnSide[r.Side] = bySideRev
		}
		tiles, ok := bySideRev[r.NeighborID]
		if !ok {
			tiles = make(map[string]struct{})
			bySideRev[r.NeighborID] = tiles
		}
		tiles[r.TileID] = struct{}{}
	}
}
