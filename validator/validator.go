// File: validator.go
// Role: atlas completeness checks.
package validator

import (
	"fmt"
	"math"
	"sort"

	"github.com/tileatlas/wfc/atlas"
	"github.com/tileatlas/wfc/transform"
)

// weightTolerance is how far a side's summed weight may drift from 100
// before it is flagged incomplete, absorbing floating point accumulation
// error.
const weightTolerance = 0.01

// TileValidation is the per-tile result of Validate.
type TileValidation struct {
	TileID          string
	MissingSides    []transform.Side
	IncompleteSides map[transform.Side]float64 // side -> total weight, only present when != 100
}

// IsValid reports whether the tile has no missing and no incomplete
// sides.
func (tv TileValidation) IsValid() bool {
	return len(tv.MissingSides) == 0 && len(tv.IncompleteSides) == 0
}

// HasWarnings reports whether the tile has any incomplete (but not
// missing) side.
func (tv TileValidation) HasWarnings() bool {
	return len(tv.IncompleteSides) > 0
}

// HasErrors reports whether the tile has any side with zero rules.
func (tv TileValidation) HasErrors() bool {
	return len(tv.MissingSides) > 0
}

// Result is the overall outcome of Validate.
type Result struct {
	TileResults map[string]TileValidation
	OrphanTiles []string // tiles with no rules on any side

	// Unreachable holds every checked tile id that ReachableFrom could
	// not reach. It is nil unless Validate was called with a non-empty
	// startVariantID.
	Unreachable []string
}

// IsValid reports whether every tile result is valid, there are no
// orphans, and (if reachability was checked) no unreachable tiles.
func (r Result) IsValid() bool {
	for _, tr := range r.TileResults {
		if !tr.IsValid() {
			return false
		}
	}
	return len(r.OrphanTiles) == 0 && len(r.Unreachable) == 0
}

// ErrorCount sums orphan tiles, unreachable tiles, and every missing
// side across all tile results.
func (r Result) ErrorCount() int {
	count := len(r.OrphanTiles) + len(r.Unreachable)
	for _, tr := range r.TileResults {
		count += len(tr.MissingSides)
	}
	return count
}

// WarningCount sums every incomplete side across all tile results.
func (r Result) WarningCount() int {
	count := 0
	for _, tr := range r.TileResults {
		count += len(tr.IncompleteSides)
	}
	return count
}

// TilesWithIssues returns, in sorted order, the id of every tile that
// is an orphan, unreachable, or individually invalid.
func (r Result) TilesWithIssues() []string {
	issues := make(map[string]struct{})
	for _, id := range r.OrphanTiles {
		issues[id] = struct{}{}
	}
	for _, id := range r.Unreachable {
		issues[id] = struct{}{}
	}
	for id, tr := range r.TileResults {
		if !tr.IsValid() {
			issues[id] = struct{}{}
		}
	}
	out := make([]string, 0, len(issues))
	for id := range issues {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Validate checks every variant in a (or only the enabled ones, when
// enabledOnly is true) for completeness: each side must have at least
// one rule, and a side's rule weights should sum to 100 within
// weightTolerance. When startVariantID is non-empty, Result.Unreachable
// is additionally populated via ReachableFrom.
func Validate(a *atlas.Atlas, enabledOnly bool, startVariantID string) (Result, error) {
	result := Result{TileResults: make(map[string]TileValidation)}

	var toCheck []atlas.Variant
	for _, v := range a.Variants() {
		if enabledOnly && !v.Enabled {
			continue
		}
		toCheck = append(toCheck, v)
	}

	for _, v := range toCheck {
		tr := TileValidation{TileID: v.ID}
		hasAnyRule := false

		for _, side := range transform.Sides() {
			rules := a.GetRulesForTile(v.ID, &side)
			if len(rules) == 0 {
				tr.MissingSides = append(tr.MissingSides, side)
				continue
			}
			hasAnyRule = true
			total := sumWeights(rules)
			if math.Abs(total-100.0) > weightTolerance {
				if tr.IncompleteSides == nil {
					tr.IncompleteSides = make(map[transform.Side]float64)
				}
				tr.IncompleteSides[side] = total
			}
		}

		if !hasAnyRule {
			result.OrphanTiles = append(result.OrphanTiles, v.ID)
		}
		result.TileResults[v.ID] = tr
	}

	if startVariantID != "" {
		reachable, err := ReachableFrom(a, startVariantID)
		if err != nil {
			return result, err
		}
		for _, v := range toCheck {
			if _, ok := reachable[v.ID]; !ok {
				result.Unreachable = append(result.Unreachable, v.ID)
			}
		}
		sort.Strings(result.Unreachable)
	}

	return result, nil
}

// GetSideWeightTotal returns the summed weight of every rule with
// TileID==tileID and the given side.
func GetSideWeightTotal(a *atlas.Atlas, tileID string, side transform.Side) float64 {
	return sumWeights(a.GetRulesForTile(tileID, &side))
}

// NormalizeSideWeights rescales every rule on tileID's side so the
// weights sum to exactly 100. A side with no rules, or whose rules sum
// to zero or less, is left untouched.
func NormalizeSideWeights(a *atlas.Atlas, tileID string, side transform.Side) error {
	rules := a.GetRulesForTile(tileID, &side)
	if len(rules) == 0 {
		return nil
	}
	total := sumWeights(rules)
	if total <= 0 {
		return nil
	}
	scale := 100.0 / total
	for _, r := range rules {
		if _, err := a.AddRule(r.TileID, r.Side, r.NeighborID, r.Weight*scale, r.AutoGenerated); err != nil {
			return fmt.Errorf("NormalizeSideWeights: %w", err)
		}
	}
	return nil
}

func sumWeights(rules []atlas.Rule) float64 {
	total := 0.0
	for _, r := range rules {
		total += r.Weight
	}
	return total
}
