// File: snapshot.go
// Role: deep-copy construction for the two places that need an
// independent atlas: the solver embeds a copy so a running solve is
// immune to later edits, and envelope round-trips through the same
// shape when saving/loading a .tr archive.
package atlas

// Clone returns a deep copy of a: mutating the clone never affects a,
// and vice versa.
func (a *Atlas) Clone() *Atlas {
	a.muMeta.RLock()
	a.muRules.RLock()
	defer a.muRules.RUnlock()
	defer a.muMeta.RUnlock()

	out := New(WithVersion(a.version), WithSettings(a.settings))
	out.filePath = a.filePath
	out.modified = a.modified

	out.baseTiles = make([]*BaseTile, len(a.baseTiles))
	for i, bt := range a.baseTiles {
		cp := *bt
		out.baseTiles[i] = &cp
		out.baseTileIdx[cp.ID] = i
	}

	out.variants = make([]*Variant, len(a.variants))
	for i, v := range a.variants {
		cp := *v
		out.variants[i] = &cp
		out.variantIdx[cp.ID] = i
	}
	for base, ids := range a.variantsByBase {
		cp := make([]string, len(ids))
		copy(cp, ids)
		out.variantsByBase[base] = cp
	}

	out.rules = make([]*Rule, len(a.rules))
	for i, r := range a.rules {
		cp := *r
		out.rules[i] = &cp
		out.ruleIdx[cp.key()] = i
	}

	out.rebuildIndicesLocked()
	return out
}

// Snapshot is the envelope-facing read-only view of an atlas: the same
// shape the .tr JSON manifest serializes. It is produced by value, never
// aliasing the Atlas's internal slices, so callers may hold it past the
// atlas's lifetime.
type Snapshot struct {
	Version   string
	Settings  Settings
	BaseTiles []BaseTile
	Variants  []Variant
	Rules     []Rule
}

// ToSnapshot captures a's current state as a Snapshot.
func (a *Atlas) ToSnapshot() Snapshot {
	return Snapshot{
		Version:   a.Version(),
		Settings:  a.Settings(),
		BaseTiles: a.BaseTiles(),
		Variants:  a.Variants(),
		Rules:     a.Rules(),
	}
}

// FromSnapshot rebuilds a fresh Atlas from a Snapshot produced by
// ToSnapshot or decoded from a .tr manifest. Base tiles are inserted
// first (each bringing its own identity variant via AddBaseTile), then
// every non-identity variant, then variant Enabled flags are reapplied
// since AddVariant always creates variants enabled, then every rule.
func FromSnapshot(s Snapshot) (*Atlas, error) {
	a := New(WithVersion(s.Version), WithSettings(s.Settings))

	for _, bt := range s.BaseTiles {
		if _, err := a.AddBaseTile(bt); err != nil {
			return nil, err
		}
	}
	for _, v := range s.Variants {
		if v.IsIdentity() {
			continue
		}
		if _, err := a.AddVariant(v.BaseTileID, v.Transform); err != nil {
			return nil, err
		}
	}
	for _, v := range s.Variants {
		if err := a.SetVariantEnabled(v.ID, v.Enabled); err != nil {
			return nil, err
		}
	}
	for _, r := range s.Rules {
		if _, err := a.AddRule(r.TileID, r.Side, r.NeighborID, r.Weight, r.AutoGenerated); err != nil {
			return nil, err
		}
	}

	a.ClearModified()
	return a, nil
}
