// File: json.go
// Role: the atlas.json / source_atlas.json wire shape, including the
// base/base_tile_id field alias .tr and .tm manifests both still carry
// for backward compatibility with older authoring tools.
package envelope

import (
	"encoding/json"
	"fmt"

	"github.com/tileatlas/wfc/atlas"
	"github.com/tileatlas/wfc/transform"
)

type atlasDTO struct {
	Version   string        `json:"version"`
	Settings  settingsDTO   `json:"settings"`
	BaseTiles []baseTileDTO `json:"base_tiles"`
	Tiles     []variantDTO  `json:"tiles"`
	Rules     []ruleDTO     `json:"rules"`
}

type settingsDTO struct {
	AutoPropagateRotations bool `json:"auto_propagate_rotations"`
	AutoPropagateMirrors   bool `json:"auto_propagate_mirrors"`
}

type baseTileDTO struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type variantDTO struct {
	ID         string `json:"id"`
	BaseTileID string `json:"base"` // written as "base"; read from either "base" or "base_tile_id"
	Rotation   int    `json:"rotation"`
	FlipX      bool   `json:"flip_x"`
	FlipY      bool   `json:"flip_y"`
	Enabled    bool   `json:"enabled"`
}

// UnmarshalJSON accepts either "base" or "base_tile_id" for the base
// tile reference, preferring "base" when both are present.
func (v *variantDTO) UnmarshalJSON(data []byte) error {
	type alias variantDTO
	var withBoth struct {
		alias
		BaseTileIDAlt string `json:"base_tile_id"`
	}
	if err := json.Unmarshal(data, &withBoth); err != nil {
		return err
	}
	*v = variantDTO(withBoth.alias)
	if v.BaseTileID == "" {
		v.BaseTileID = withBoth.BaseTileIDAlt
	}
	return nil
}

type ruleDTO struct {
	TileID     string  `json:"tile"`
	Side       string  `json:"side"`
	NeighborID string  `json:"neighbor"`
	Weight     float64 `json:"weight"`
	Auto       bool    `json:"auto"`
}

func snapshotToDTO(s atlas.Snapshot) atlasDTO {
	dto := atlasDTO{
		Version: s.Version,
		Settings: settingsDTO{
			AutoPropagateRotations: s.Settings.AutoPropagateRotations,
			AutoPropagateMirrors:   s.Settings.AutoPropagateMirrors,
		},
		BaseTiles: make([]baseTileDTO, len(s.BaseTiles)),
		Tiles:     make([]variantDTO, len(s.Variants)),
		Rules:     make([]ruleDTO, len(s.Rules)),
	}
	for i, bt := range s.BaseTiles {
		dto.BaseTiles[i] = baseTileDTO{ID: bt.ID, Source: bt.Source, Width: bt.Width, Height: bt.Height}
	}
	for i, v := range s.Variants {
		dto.Tiles[i] = variantDTO{
			ID:         v.ID,
			BaseTileID: v.BaseTileID,
			Rotation:   v.Transform.Rotation,
			FlipX:      v.Transform.FlipX,
			FlipY:      v.Transform.FlipY,
			Enabled:    v.Enabled,
		}
	}
	for i, r := range s.Rules {
		dto.Rules[i] = ruleDTO{
			TileID:     r.TileID,
			Side:       r.Side.String(),
			NeighborID: r.NeighborID,
			Weight:     r.Weight,
			Auto:       r.AutoGenerated,
		}
	}
	return dto
}

func dtoToSnapshot(dto atlasDTO) (atlas.Snapshot, error) {
	s := atlas.Snapshot{
		Version: dto.Version,
		Settings: atlas.Settings{
			AutoPropagateRotations: dto.Settings.AutoPropagateRotations,
			AutoPropagateMirrors:   dto.Settings.AutoPropagateMirrors,
		},
		BaseTiles: make([]atlas.BaseTile, len(dto.BaseTiles)),
		Variants:  make([]atlas.Variant, len(dto.Tiles)),
		Rules:     make([]atlas.Rule, len(dto.Rules)),
	}
	if s.Version == "" {
		s.Version = "1.0"
	}
	for i, bt := range dto.BaseTiles {
		s.BaseTiles[i] = atlas.BaseTile{ID: bt.ID, Source: bt.Source, Width: bt.Width, Height: bt.Height}
	}
	for i, v := range dto.Tiles {
		s.Variants[i] = atlas.Variant{
			ID:         v.ID,
			BaseTileID: v.BaseTileID,
			Transform:  transform.Transform{Rotation: v.Rotation, FlipX: v.FlipX, FlipY: v.FlipY},
			Enabled:    v.Enabled,
		}
	}
	for i, r := range dto.Rules {
		side, err := transform.ParseSide(r.Side)
		if err != nil {
			return atlas.Snapshot{}, fmt.Errorf("envelope: rule %d: %w", i, err)
		}
		s.Rules[i] = atlas.Rule{TileID: r.TileID, Side: side, NeighborID: r.NeighborID, Weight: r.Weight, AutoGenerated: r.Auto}
	}
	return s, nil
}
