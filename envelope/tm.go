// File: tm.go
// Role: the .tm ("tile map") archive — a solved or partially solved
// grid plus the atlas it was solved against.
package envelope

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/tileatlas/wfc/atlas"
)

const (
	mapManifestName         = "map.json"
	sourceAtlasManifestName = "source_atlas.json"
)

// CellRecord is one collapsed grid cell.
type CellRecord struct {
	X, Y   int
	TileID string
	Locked bool
}

// UncollapsedRecord is one grid cell that has not yet settled on a
// single variant.
type UncollapsedRecord struct {
	X, Y          int
	Possibilities []string
}

// GridSnapshot is the persisted shape of a WFC grid: independent of any
// particular solver.Engine instance, so it can be produced and consumed
// without the engine package depending on envelope (or vice versa).
type GridSnapshot struct {
	Width, Height int
	SourceTR      string
	Cells         []CellRecord
	Uncollapsed   []UncollapsedRecord
}

type gridJSON struct {
	Version     string            `json:"version"`
	SourceTR    string            `json:"source_tr"`
	Grid        gridSizeJSON      `json:"grid"`
	Cells       []cellJSON        `json:"cells"`
	Uncollapsed []uncollapsedJSON `json:"uncollapsed"`
}

type gridSizeJSON struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type cellJSON struct {
	X      int    `json:"x"`
	Y      int    `json:"y"`
	TileID string `json:"tile_id"`
	Locked bool   `json:"locked"`
}

type uncollapsedJSON struct {
	X             int      `json:"x"`
	Y             int      `json:"y"`
	Possibilities []string `json:"possibilities"`
}

// SaveTM writes grid and the atlas it was solved against to path as a
// .tm archive. images has the same shape as SaveTR's.
func SaveTM(path string, grid GridSnapshot, a *atlas.Atlas, images map[string][]byte) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("envelope.SaveTM: %w", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	defer zw.Close()

	gj := gridJSON{
		Version:  "1.0",
		SourceTR: grid.SourceTR,
		Grid:     gridSizeJSON{Width: grid.Width, Height: grid.Height},
	}
	for _, c := range grid.Cells {
		gj.Cells = append(gj.Cells, cellJSON{X: c.X, Y: c.Y, TileID: c.TileID, Locked: c.Locked})
	}
	for _, u := range grid.Uncollapsed {
		poss := append([]string(nil), u.Possibilities...)
		sort.Strings(poss)
		gj.Uncollapsed = append(gj.Uncollapsed, uncollapsedJSON{X: u.X, Y: u.Y, Possibilities: poss})
	}

	mapManifest, err := json.MarshalIndent(gj, "", "  ")
	if err != nil {
		return fmt.Errorf("envelope.SaveTM: %w", err)
	}
	if err := writeZipFile(zw, mapManifestName, mapManifest); err != nil {
		return fmt.Errorf("envelope.SaveTM: %w", err)
	}

	atlasManifest, err := json.MarshalIndent(snapshotToDTO(a.ToSnapshot()), "", "  ")
	if err != nil {
		return fmt.Errorf("envelope.SaveTM: %w", err)
	}
	if err := writeZipFile(zw, sourceAtlasManifestName, atlasManifest); err != nil {
		return fmt.Errorf("envelope.SaveTM: %w", err)
	}

	for _, bt := range a.BaseTiles() {
		data, ok := images[bt.Source]
		if !ok {
			continue
		}
		if err := writeZipFile(zw, bt.Source, data); err != nil {
			return fmt.Errorf("envelope.SaveTM: writing %s: %w", bt.Source, err)
		}
	}

	return nil
}

// LoadTM reads a .tm archive and returns the grid snapshot, the atlas
// it was solved against, and every source image found in the archive.
func LoadTM(path string) (GridSnapshot, *atlas.Atlas, map[string][]byte, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return GridSnapshot{}, nil, nil, fmt.Errorf("envelope.LoadTM: %w", err)
	}
	defer zr.Close()

	mapManifest, err := readZipFile(&zr.Reader, mapManifestName)
	if err != nil {
		return GridSnapshot{}, nil, nil, fmt.Errorf("envelope.LoadTM(%s): %w", path, ErrMissingMapJSON)
	}
	var gj gridJSON
	if err := json.Unmarshal(mapManifest, &gj); err != nil {
		return GridSnapshot{}, nil, nil, fmt.Errorf("envelope.LoadTM: %w: %v", ErrMalformedJSON, err)
	}

	atlasManifest, err := readZipFile(&zr.Reader, sourceAtlasManifestName)
	if err != nil {
		return GridSnapshot{}, nil, nil, fmt.Errorf("envelope.LoadTM(%s): %w", path, ErrMissingAtlasJSON)
	}
	var dto atlasDTO
	if err := json.Unmarshal(atlasManifest, &dto); err != nil {
		return GridSnapshot{}, nil, nil, fmt.Errorf("envelope.LoadTM: %w: %v", ErrMalformedJSON, err)
	}
	snap, err := dtoToSnapshot(dto)
	if err != nil {
		return GridSnapshot{}, nil, nil, fmt.Errorf("envelope.LoadTM: %w", err)
	}
	a, err := atlas.FromSnapshot(snap)
	if err != nil {
		return GridSnapshot{}, nil, nil, fmt.Errorf("envelope.LoadTM: %w", err)
	}

	grid := GridSnapshot{Width: gj.Grid.Width, Height: gj.Grid.Height, SourceTR: gj.SourceTR}
	for _, c := range gj.Cells {
		grid.Cells = append(grid.Cells, CellRecord{X: c.X, Y: c.Y, TileID: c.TileID, Locked: c.Locked})
	}
	for _, u := range gj.Uncollapsed {
		grid.Uncollapsed = append(grid.Uncollapsed, UncollapsedRecord{X: u.X, Y: u.Y, Possibilities: u.Possibilities})
	}

	images := make(map[string][]byte)
	for _, bt := range a.BaseTiles() {
		data, err := readZipFile(&zr.Reader, bt.Source)
		if err != nil {
			continue
		}
		images[bt.Source] = data
	}

	a.SetFilePath(path)
	a.ClearModified()
	return grid, a, images, nil
}
