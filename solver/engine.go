// File: engine.go
// Role: the WFC stepping engine's public surface — construction,
// initialization, cell locking, and the run/pause/step/reset state
// machine.
package solver

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tileatlas/wfc/atlas"
	"github.com/tileatlas/wfc/transform"
	"github.com/tileatlas/wfc/wfclog"
)

// Engine runs Wave Function Collapse over a rectangular grid. It owns a
// private clone of the atlas it is given, so atlas edits made after
// Initialize never affect a run already in progress.
//
// Engine is not safe for concurrent Start/Pause/Step/Reset calls from
// multiple goroutines at once — it is meant to be driven by one caller
// at a time — but its mutex still protects state reads (GetCell, State)
// made from another goroutine while a step is in flight.
type Engine struct {
	mu sync.Mutex

	opts engineOptions
	rng  *rand.Rand

	atl    *atlas.Atlas
	width  int
	height int
	cells  map[Position]*Cell

	state          State
	collapsedCount int
	totalCells     int

	runID  uuid.UUID
	logger wfclog.Logger
}

// New constructs an Engine with opts applied. The engine is Idle and
// empty until Initialize is called.
func New(opts ...Option) *Engine {
	o := defaultEngineOptions()
	for _, opt := range opts {
		opt(&o)
	}

	var rng *rand.Rand
	switch {
	case o.rng != nil:
		rng = o.rng
	case o.seedSet:
		rng = rand.New(rand.NewSource(o.seed))
	default:
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	logger := wfclog.Default
	if o.loggerSet {
		logger = o.logger
	}

	return &Engine{
		opts:   o,
		rng:    rng,
		state:  Idle,
		logger: logger,
	}
}

// State returns the engine's current run state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// RunID identifies the current Initialize call for log correlation. It
// carries no solving semantics.
func (e *Engine) RunID() uuid.UUID {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.runID
}

func (e *Engine) setState(s State) {
	if e.state == s {
		return
	}
	e.state = s
	e.opts.onStateChanged(s)
}

// Initialize (re)creates the grid at width x height, seeding every cell
// with the atlas's enabled variant ids, and clones atl so later atlas
// mutations cannot affect this run.
func (e *Engine) Initialize(atl *atlas.Atlas, width, height int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.initializeLocked(atl, width, height)
}

func (e *Engine) initializeLocked(atl *atlas.Atlas, width, height int) {
	e.atl = atl.Clone()
	e.width = width
	e.height = height
	e.cells = make(map[Position]*Cell, width*height)
	e.collapsedCount = 0
	e.totalCells = width * height
	e.runID = uuid.New()

	enabled := e.atl.EnabledVariantIDs()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			e.cells[Position{X: x, Y: y}] = &Cell{X: x, Y: y, Possibilities: cloneSet(enabled)}
		}
	}

	e.setState(Idle)
	e.opts.onProgress(0, e.totalCells)
	e.logger.Debug().Str("run_id", e.runID.String()).Int("width", width).Int("height", height).Msg("grid initialized")
}

// GetCell returns a copy of the cell at (x, y), or nil if out of bounds
// or the engine has not been initialized.
func (e *Engine) GetCell(x, y int) *Cell {
	e.mu.Lock()
	defer e.mu.Unlock()
	cell, ok := e.cells[Position{X: x, Y: y}]
	if !ok {
		return nil
	}
	cp := *cell
	cp.Possibilities = cloneSet(cell.Possibilities)
	return &cp
}

// LockCell forces (x, y) to tileID as a user-placed constraint and
// propagates the resulting narrowing to its neighbors. Returns
// ErrNotInitialized or ErrOutOfBounds.
func (e *Engine) LockCell(x, y int, tileID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	cell, err := e.cellAtLocked(x, y)
	if err != nil {
		return err
	}

	wasCollapsed := cell.IsCollapsed()
	cell.Collapsed = tileID
	cell.Locked = true
	cell.Possibilities = map[string]struct{}{tileID: {}}

	if !wasCollapsed || cell.Collapsed != tileID {
		e.collapsedCount++
	}

	e.opts.onCellCollapsed(x, y, tileID)
	e.opts.onProgress(e.collapsedCount, e.totalCells)

	e.propagateLocked(x, y)
	return nil
}

// UnlockCell releases a previously locked cell back to the full
// possibility set and re-propagates from its collapsed neighbors, which
// can narrow or collapse the released cell again straight away. Returns
// ErrNotInitialized or ErrOutOfBounds.
func (e *Engine) UnlockCell(x, y int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	cell, err := e.cellAtLocked(x, y)
	if err != nil {
		return err
	}

	wasCollapsed := cell.IsCollapsed()
	wasContradiction := len(cell.Possibilities) == 0

	cell.Locked = false
	cell.Collapsed = ""
	cell.Possibilities = cloneSet(e.atl.EnabledVariantIDs())

	if wasCollapsed {
		e.collapsedCount--
	}
	if (wasCollapsed || wasContradiction) && (e.state == Finished || e.state == Contradiction) {
		e.setState(Idle)
	}

	e.opts.onCellUpdated(x, y)
	e.opts.onProgress(e.collapsedCount, e.totalCells)

	// Only collapsed neighbors re-propagate here, on purpose: a neighbor
	// that emptied out in the same contradiction is left alone rather
	// than reset to its full possibility set. It still recovers — the
	// next propagation that reaches it from a collapsed neighbor rebuilds
	// its possibilities from scratch — but that recovery happens lazily,
	// not as part of this unlock.
	for _, n := range e.neighborPositions(x, y) {
		if nc := e.cells[n]; nc != nil && nc.IsCollapsed() {
			e.propagateLocked(n.X, n.Y)
		}
	}
	return nil
}

// Start transitions the engine to Running. It is a no-op once the grid
// has Finished or hit a Contradiction — Reset, ClearAll, or an
// UnlockCell that releases a collapsed cell returns it to Idle. Start
// does not itself drive steps; callers loop calling Step, pausing
// WithStepDelay between calls (or ignoring it for a tight batch solve).
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == Finished || e.state == Contradiction {
		return
	}
	e.setState(Running)
}

// Pause transitions a Running engine to Paused; a no-op otherwise.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == Running {
		e.setState(Paused)
	}
}

// StepDelay returns the delay a driving loop should wait between Step
// calls, as configured by WithStepDelay.
func (e *Engine) StepDelay() time.Duration {
	return e.opts.stepDelay
}

// Step performs one collapse iteration: it picks the lowest-entropy
// uncollapsed cell, narrows it to a single variant consistent with its
// already-collapsed neighbors, and propagates that choice. It is a
// no-op once Finished or in Contradiction. Returns ErrNotInitialized if
// Initialize has not been called.
func (e *Engine) Step() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cells == nil {
		return ErrNotInitialized
	}
	if e.state == Finished || e.state == Contradiction {
		return nil
	}
	e.stepLocked()
	return nil
}

// Reset re-initializes the grid at its current size, keeping every
// locked cell's placement. A no-op if Initialize has not been called.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cells == nil {
		return
	}

	locked := make(map[Position]string)
	for pos, cell := range e.cells {
		if cell.Locked {
			locked[pos] = cell.Collapsed
		}
	}

	e.initializeLocked(e.atl, e.width, e.height)

	for pos, tileID := range locked {
		cell, err := e.cellAtLocked(pos.X, pos.Y)
		if err != nil {
			continue
		}
		cell.Collapsed = tileID
		cell.Locked = true
		cell.Possibilities = map[string]struct{}{tileID: {}}
		e.collapsedCount++
		e.opts.onCellCollapsed(pos.X, pos.Y, tileID)
		e.opts.onProgress(e.collapsedCount, e.totalCells)
		e.propagateLocked(pos.X, pos.Y)
	}
}

// ClearAll re-initializes the grid at its current size, dropping every
// locked cell too. A no-op if Initialize has not been called.
func (e *Engine) ClearAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cells == nil {
		return
	}
	e.initializeLocked(e.atl, e.width, e.height)
}

// GetValidTilesForCell returns the variant ids consistent with (x, y)'s
// already-collapsed neighbors, regardless of that cell's own current
// possibility set. Returns nil if out of bounds or uninitialized.
func (e *Engine) GetValidTilesForCell(x, y int) map[string]struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cells == nil {
		return nil
	}
	if _, ok := e.cells[Position{X: x, Y: y}]; !ok {
		return nil
	}
	return e.validPossibilitiesLocked(x, y)
}

// ValidateGrid checks every already-collapsed adjacency in the grid
// against the atlas's rules and returns one message per violation.
func (e *Engine) ValidateGrid() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	var errs []string
	if e.cells == nil {
		return []string{"solver: grid not initialized"}
	}

	for y := 0; y < e.height; y++ {
		for x := 0; x < e.width; x++ {
			cell := e.cells[Position{X: x, Y: y}]
			if cell == nil || !cell.IsCollapsed() {
				continue
			}
			for side, n := range e.neighborsWithSides(x, y) {
				neighbor := e.cells[n]
				if neighbor == nil || !neighbor.IsCollapsed() {
					continue
				}
				allowed := e.atl.AllowedNeighbors(cell.Collapsed, side)
				if _, ok := allowed[neighbor.Collapsed]; !ok {
					errs = append(errs, fmt.Sprintf("(%d,%d) %q does not allow %q on %s", x, y, cell.Collapsed, neighbor.Collapsed, side))
				}
			}
		}
	}
	return errs
}

func (e *Engine) cellAtLocked(x, y int) (*Cell, error) {
	if e.cells == nil {
		return nil, ErrNotInitialized
	}
	cell, ok := e.cells[Position{X: x, Y: y}]
	if !ok {
		return nil, ErrOutOfBounds
	}
	return cell, nil
}

func (e *Engine) neighborPositions(x, y int) []Position {
	out := make([]Position, 0, 4)
	for _, side := range transform.Sides() {
		off := neighborOffsets[side]
		nx, ny := x+off[0], y+off[1]
		if nx < 0 || nx >= e.width || ny < 0 || ny >= e.height {
			continue
		}
		out = append(out, Position{X: nx, Y: ny})
	}
	return out
}

func (e *Engine) neighborsWithSides(x, y int) map[transform.Side]Position {
	out := make(map[transform.Side]Position, 4)
	for _, side := range transform.Sides() {
		off := neighborOffsets[side]
		nx, ny := x+off[0], y+off[1]
		if nx < 0 || nx >= e.width || ny < 0 || ny >= e.height {
			continue
		}
		out[side] = Position{X: nx, Y: ny}
	}
	return out
}

func cloneSet(s map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(s))
	for k := range s {
		out[k] = struct{}{}
	}
	return out
}
