// File: variants.go
// Role: Variant (Tile) CRUD — creation is idempotent, deduplicated by id;
// removal cascades to rules and refuses the identity variant.
package atlas

import (
	"fmt"

	"github.com/tileatlas/wfc/transform"
)

// variantID returns base_id + t.Normalize().Suffix(), e.g. "grass" or
// "grass_r90_fx".
func variantID(baseID string, t transform.Transform) string {
	norm := t.Normalize()
	suffix := norm.Suffix()
	if suffix == "" {
		return baseID
	}
	return baseID + "_" + suffix
}

// AddVariant is idempotent: it returns the existing variant sharing
// (baseID, t.Normalize()) if one exists, or creates one. Complexity:
// O(1) amortized.
func (a *Atlas) AddVariant(baseID string, t transform.Transform) (*Variant, error) {
	if a.GetBaseTile(baseID) == nil {
		return nil, fmt.Errorf("AddVariant(%s): %w", baseID, ErrUnknownBaseTile)
	}
	return a.addVariant(baseID, t)
}

// addVariant is the unlocked-at-the-basetile-level entry point used both
// by the public AddVariant and by AddBaseTile (which has already
// released muMeta by the time it calls here).
func (a *Atlas) addVariant(baseID string, t transform.Transform) (*Variant, error) {
	norm := t.Normalize()
	id := variantID(baseID, norm)

	a.muRules.Lock()
	defer a.muRules.Unlock()

	if idx, ok := a.variantIdx[id]; ok {
		existing := *a.variants[idx]
		return &existing, nil
	}

	v := &Variant{ID: id, BaseTileID: baseID, Transform: norm, Enabled: true}
	a.variantIdx[id] = len(a.variants)
	a.variants = append(a.variants, v)
	a.variantsByBase[baseID] = append(a.variantsByBase[baseID], id)

	out := *v
	return &out, nil
}

// GetVariant returns the variant with the given id, or nil.
func (a *Atlas) GetVariant(id string) *Variant {
	a.muRules.RLock()
	defer a.muRules.RUnlock()
	idx, ok := a.variantIdx[id]
	if !ok {
		return nil
	}
	v := *a.variants[idx]
	return &v
}

// SetVariantEnabled flips a variant's Enabled flag. Returns
// ErrUnknownVariant if id does not exist.
func (a *Atlas) SetVariantEnabled(id string, enabled bool) error {
	a.muRules.Lock()
	defer a.muRules.Unlock()
	idx, ok := a.variantIdx[id]
	if !ok {
		return fmt.Errorf("SetVariantEnabled(%s): %w", id, ErrUnknownVariant)
	}
	a.variants[idx].Enabled = enabled
	a.modified = true
	return nil
}

// Variants returns a snapshot slice of every variant, in creation order.
func (a *Atlas) Variants() []Variant {
	a.muRules.RLock()
	defer a.muRules.RUnlock()
	out := make([]Variant, len(a.variants))
	for i, v := range a.variants {
		out[i] = *v
	}
	return out
}

// EnabledVariantIDs returns the id set of every enabled variant. This is
// exactly the possibility set solver.Initialize seeds every cell with.
func (a *Atlas) EnabledVariantIDs() map[string]struct{} {
	a.muRules.RLock()
	defer a.muRules.RUnlock()
	out := make(map[string]struct{}, len(a.variants))
	for _, v := range a.variants {
		if v.Enabled {
			out[v.ID] = struct{}{}
		}
	}
	return out
}

// VariantsForBase returns every variant sharing baseID, in creation
// order — the sibling set propagator.go iterates over.
func (a *Atlas) VariantsForBase(baseID string) []Variant {
	a.muRules.RLock()
	defer a.muRules.RUnlock()
	ids := a.variantsByBase[baseID]
	out := make([]Variant, 0, len(ids))
	for _, id := range ids {
		out = append(out, *a.variants[a.variantIdx[id]])
	}
	return out
}

// RemoveVariant removes a non-identity variant and every rule touching
// it. Returns ErrIdentityVariantRemove for the identity variant (remove
// the base tile instead) and ErrUnknownVariant if id does not exist.
func (a *Atlas) RemoveVariant(id string) error {
	a.muRules.Lock()
	defer a.muRules.Unlock()

	idx, ok := a.variantIdx[id]
	if !ok {
		return fmt.Errorf("RemoveVariant(%s): %w", id, ErrUnknownVariant)
	}
	if a.variants[idx].IsIdentity() {
		return fmt.Errorf("RemoveVariant(%s): %w", id, ErrIdentityVariantRemove)
	}

	toRemove := map[string]struct{}{id: {}}
	a.removeVariantsLocked(toRemove)
	a.removeRulesTouchingLocked(toRemove)
	a.rebuildIndicesLocked()
	return nil
}

// removeVariantsLocked deletes every variant whose id is in ids.
// Caller must hold muRules.
func (a *Atlas) removeVariantsLocked(ids map[string]struct{}) {
	if len(ids) == 0 {
		return
	}
	kept := a.variants[:0:0]
	for _, v := range a.variants {
		if _, drop := ids[v.ID]; drop {
			continue
		}
		kept = append(kept, v)
	}
	a.variants = kept
	a.variantIdx = make(map[string]int, len(a.variants))
	for i, v := range a.variants {
		a.variantIdx[v.ID] = i
	}
	for base, list := range a.variantsByBase {
		filtered := list[:0:0]
		for _, id := range list {
			if _, drop := ids[id]; !drop {
				filtered = append(filtered, id)
			}
		}
		if len(filtered) == 0 {
			delete(a.variantsByBase, base)
		} else {
			a.variantsByBase[base] = filtered
		}
	}
	a.modified = true
}
