// File: types.go
// Role: core data types, sentinel errors, and functional construction
// options for package atlas. No CRUD logic lives here — see variants.go,
// rules.go, basetiles.go for that; this file only declares shape.
package atlas

import (
	"errors"
	"sync"

	"github.com/tileatlas/wfc/transform"
)

// Sentinel errors. Callers branch with errors.Is, never string matching.
var (
	ErrDuplicateBaseTile     = errors.New("atlas: base tile already exists")
	ErrUnknownBaseTile       = errors.New("atlas: unknown base tile")
	ErrNonSquareImage        = errors.New("atlas: base tile image is not square")
	ErrUnknownVariant        = errors.New("atlas: unknown variant")
	ErrIdentityVariantRemove = errors.New("atlas: cannot remove the identity variant")
	ErrEmptyID               = errors.New("atlas: id must not be empty")
)

// BaseTile is an immutable record of one imported square image.
type BaseTile struct {
	ID     string
	Source string
	Width  int
	Height int
}

// Variant is one of the 8 symmetric renderings of a BaseTile.
type Variant struct {
	ID         string
	BaseTileID string
	Transform  transform.Transform
	Enabled    bool
}

// IsIdentity reports whether v is the untransformed rendering of its
// base tile — the one created automatically by AddBaseTile and the only
// one RemoveVariant refuses to remove on its own.
func (v *Variant) IsIdentity() bool {
	return v.Transform.IsIdentity()
}

// Rule is a directed adjacency fact: tile may sit with neighbor on
// tile's Side. Identity is the triple (TileID, Side, NeighborID);
// AddRule upserts by that key.
type Rule struct {
	TileID        string
	Side          transform.Side
	NeighborID    string
	Weight        float64
	AutoGenerated bool
}

type ruleKey struct {
	tile     string
	side     transform.Side
	neighbor string
}

func (r *Rule) key() ruleKey {
	return ruleKey{tile: r.TileID, side: r.Side, neighbor: r.NeighborID}
}

// Settings holds the editor-facing propagation toggles referenced by
// EnsureVariantsForRule (propagator.go). The solver and Atlas CRUD never
// consult these directly — they are advisory input to propagation only.
type Settings struct {
	AutoPropagateRotations bool
	AutoPropagateMirrors   bool
}

// Atlas is the root container for base tiles, variants and rules.
//
// muMeta guards Version/Settings/base tile storage; muRules guards
// variant and rule storage plus the derived indices. The two locks are
// kept separate because base-tile metadata changes far less often than
// the rule set does and editors frequently want to read one while
// mutating the other.
type Atlas struct {
	muMeta  sync.RWMutex
	muRules sync.RWMutex

	version  string
	settings Settings

	baseTiles   []*BaseTile
	baseTileIdx map[string]int

	variants   []*Variant
	variantIdx map[string]int
	// variantsByBase[baseID] lists variant IDs sharing that base, in
	// creation order — this is what propagator.go walks as "siblings".
	variantsByBase map[string][]string

	rules   []*Rule
	ruleIdx map[ruleKey]int

	// Precomputed indices, rebuilt on every rule mutation rather than
	// computed on read:
	//   bySideNeighborWeight[tileID][side][neighborID] = weight
	//   tilesAllowingOnSide[side][neighborID] = {tileID set}
	bySideNeighborWeight map[string]map[transform.Side]map[string]float64
	tilesAllowingOnSide  map[transform.Side]map[string]map[string]struct{}

	filePath string
	modified bool
}

// Option configures a new Atlas. Option constructors validate and panic
// on a meaningless argument — algorithms themselves never panic.
type Option func(*Atlas)

// WithVersion sets the format version string stamped into a new Atlas.
// Panics if version is empty.
func WithVersion(version string) Option {
	if version == "" {
		panic("atlas: WithVersion(\"\")")
	}
	return func(a *Atlas) { a.version = version }
}

// WithSettings sets the propagation toggles of a new Atlas.
func WithSettings(s Settings) Option {
	return func(a *Atlas) { a.settings = s }
}

// New creates an empty Atlas with version "1.0" and both propagation
// toggles off, then applies opts left to right.
func New(opts ...Option) *Atlas {
	a := &Atlas{
		version:              "1.0",
		baseTileIdx:          make(map[string]int),
		variantIdx:           make(map[string]int),
		variantsByBase:       make(map[string][]string),
		ruleIdx:              make(map[ruleKey]int),
		bySideNeighborWeight: make(map[string]map[transform.Side]map[string]float64),
		tilesAllowingOnSide:  make(map[transform.Side]map[string]map[string]struct{}),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Version returns the atlas format version.
func (a *Atlas) Version() string {
	a.muMeta.RLock()
	defer a.muMeta.RUnlock()
	return a.version
}

// Settings returns a copy of the atlas's propagation toggles.
func (a *Atlas) Settings() Settings {
	a.muMeta.RLock()
	defer a.muMeta.RUnlock()
	return a.settings
}

// SetSettings replaces the atlas's propagation toggles.
func (a *Atlas) SetSettings(s Settings) {
	a.muMeta.Lock()
	defer a.muMeta.Unlock()
	a.settings = s
	a.modified = true
}

// Modified reports whether the atlas has unsaved changes.
func (a *Atlas) Modified() bool {
	a.muMeta.RLock()
	defer a.muMeta.RUnlock()
	return a.modified
}

// ClearModified resets the modified flag, typically called by envelope
// after a successful save.
func (a *Atlas) ClearModified() {
	a.muMeta.Lock()
	defer a.muMeta.Unlock()
	a.modified = false
}

// FilePath returns the path the atlas was last loaded from or saved to,
// or "" if it has never been persisted.
func (a *Atlas) FilePath() string {
	a.muMeta.RLock()
	defer a.muMeta.RUnlock()
	return a.filePath
}

// SetFilePath records where the atlas was loaded from or saved to.
func (a *Atlas) SetFilePath(path string) {
	a.muMeta.Lock()
	defer a.muMeta.Unlock()
	a.filePath = path
}
