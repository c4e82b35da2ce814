// File: propagator.go
// Role: rule propagation across symmetric variants.
package propagator

import (
	"github.com/tileatlas/wfc/atlas"
	"github.com/tileatlas/wfc/transform"
)

// PropagateRule derives the equivalent rule for every sibling pair of
// rule.TileID/rule.NeighborID's base tiles that share rule's relative
// transform, and adds each as an auto-generated rule. It returns the
// newly created rules (not including the original) and nil if either
// endpoint of rule no longer exists.
func PropagateRule(a *atlas.Atlas, rule atlas.Rule) ([]atlas.Rule, error) {
	source := a.GetVariant(rule.TileID)
	target := a.GetVariant(rule.NeighborID)
	if source == nil || target == nil {
		return nil, nil
	}

	sourceVariants := a.VariantsForBase(source.BaseTileID)
	targetVariants := a.VariantsForBase(target.BaseTileID)

	var newRules []atlas.Rule
	for _, srcVariant := range sourceVariants {
		if srcVariant.ID == rule.TileID {
			continue
		}

		// relativeTransform is "what transform takes source to srcVariant".
		relativeTransform := source.Transform.Inverse().Compose(srcVariant.Transform)

		newSide, err := transformSideBetween(rule.Side, source.Transform, srcVariant.Transform)
		if err != nil {
			return newRules, err
		}

		targetVarTransform := target.Transform.Compose(relativeTransform)

		var targetVariant *atlas.Variant
		for i := range targetVariants {
			if targetVariants[i].Transform.Equal(targetVarTransform) {
				targetVariant = &targetVariants[i]
				break
			}
		}
		if targetVariant == nil {
			continue
		}

		created, err := a.AddRule(srcVariant.ID, newSide, targetVariant.ID, rule.Weight, true)
		if err != nil {
			return newRules, err
		}
		newRules = append(newRules, *created)
	}

	return newRules, nil
}

// PropagateAll drops every auto-generated rule, then re-propagates each
// remaining manual rule from scratch. It returns the count of rules
// (re)created by propagation.
func PropagateAll(a *atlas.Atlas) (int, error) {
	manual := make([]atlas.Rule, 0)
	for _, r := range a.Rules() {
		if !r.AutoGenerated {
			manual = append(manual, r)
		}
	}
	a.RemoveAutoRules()

	total := 0
	for _, rule := range manual {
		created, err := PropagateRule(a, rule)
		if err != nil {
			return total, err
		}
		total += len(created)
	}
	return total, nil
}

// EnsureVariantsForRule creates whatever variants are missing for
// rule's two base tiles according to the atlas's propagation settings,
// so a subsequent PropagateRule call has somewhere to put the derived
// rules. It returns the newly created variants.
func EnsureVariantsForRule(a *atlas.Atlas, rule atlas.Rule) ([]atlas.Variant, error) {
	source := a.GetVariant(rule.TileID)
	target := a.GetVariant(rule.NeighborID)
	if source == nil || target == nil {
		return nil, nil
	}

	settings := a.Settings()
	var wanted []transform.Transform

	if settings.AutoPropagateRotations {
		wanted = append(wanted,
			transform.Transform{Rotation: 90},
			transform.Transform{Rotation: 180},
			transform.Transform{Rotation: 270},
		)
	}
	if settings.AutoPropagateMirrors {
		wanted = append(wanted,
			transform.Transform{FlipX: true},
			transform.Transform{FlipY: true},
		)
	}
	if settings.AutoPropagateRotations && settings.AutoPropagateMirrors {
		for _, rot := range []int{90, 180, 270} {
			wanted = append(wanted,
				transform.Transform{Rotation: rot, FlipX: true},
				transform.Transform{Rotation: rot, FlipY: true},
			)
		}
		wanted = append(wanted, transform.Transform{FlipX: true, FlipY: true})
		for _, rot := range []int{90, 180, 270} {
			wanted = append(wanted, transform.Transform{Rotation: rot, FlipX: true, FlipY: true})
		}
	}

	var created []atlas.Variant
	for _, baseID := range []string{source.BaseTileID, target.BaseTileID} {
		for _, t := range wanted {
			norm := t.Normalize()
			id := baseID
			if suffix := norm.Suffix(); suffix != "" {
				id = baseID + "_" + suffix
			}
			if a.GetVariant(id) != nil {
				continue
			}
			v, err := a.AddVariant(baseID, norm)
			if err != nil {
				return created, err
			}
			created = append(created, *v)
		}
	}

	return created, nil
}

// transformSideBetween reports which side in to's frame corresponds to
// side in from's frame, where both from and to describe transforms
// relative to the same base tile.
func transformSideBetween(side transform.Side, from, to transform.Transform) (transform.Side, error) {
	originalSide, err := from.InverseSide(side)
	if err != nil {
		return 0, err
	}
	return to.ApplyToSide(originalSide)
}
