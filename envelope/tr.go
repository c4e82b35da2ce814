// File: tr.go
// Role: the .tr ("tile rules") archive — an atlas plus its source tile
// images.
package envelope

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"os"

	"github.com/tileatlas/wfc/atlas"
)

const atlasManifestName = "atlas.json"

// SaveTR writes a to path as a .tr archive. images maps each base
// tile's Source field to its raw file bytes; a base tile with no entry
// in images is recorded in atlas.json without an accompanying file.
func SaveTR(path string, a *atlas.Atlas, images map[string][]byte) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("envelope.SaveTR: %w", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	defer zw.Close()

	dto := snapshotToDTO(a.ToSnapshot())
	manifest, err := json.MarshalIndent(dto, "", "  ")
	if err != nil {
		return fmt.Errorf("envelope.SaveTR: %w", err)
	}
	if err := writeZipFile(zw, atlasManifestName, manifest); err != nil {
		return fmt.Errorf("envelope.SaveTR: %w", err)
	}

	for _, bt := range a.BaseTiles() {
		data, ok := images[bt.Source]
		if !ok {
			continue
		}
		if err := writeZipFile(zw, bt.Source, data); err != nil {
			return fmt.Errorf("envelope.SaveTR: writing %s: %w", bt.Source, err)
		}
	}

	return nil
}

// LoadTR reads a .tr archive and returns the reconstructed Atlas along
// with every source image found in the archive, keyed by its path
// inside the archive (the base tile's Source field).
func LoadTR(path string) (*atlas.Atlas, map[string][]byte, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, nil, fmt.Errorf("envelope.LoadTR: %w", err)
	}
	defer zr.Close()

	manifest, err := readZipFile(&zr.Reader, atlasManifestName)
	if err != nil {
		return nil, nil, fmt.Errorf("envelope.LoadTR(%s): %w", path, ErrMissingAtlasJSON)
	}

	var dto atlasDTO
	if err := json.Unmarshal(manifest, &dto); err != nil {
		return nil, nil, fmt.Errorf("envelope.LoadTR: %w: %v", ErrMalformedJSON, err)
	}
	snap, err := dtoToSnapshot(dto)
	if err != nil {
		return nil, nil, fmt.Errorf("envelope.LoadTR: %w", err)
	}

	a, err := atlas.FromSnapshot(snap)
	if err != nil {
		return nil, nil, fmt.Errorf("envelope.LoadTR: %w", err)
	}

	images := make(map[string][]byte)
	for _, bt := range a.BaseTiles() {
		data, err := readZipFile(&zr.Reader, bt.Source)
		if err != nil {
			continue // image missing from archive; not fatal
		}
		images[bt.Source] = data
	}

	a.SetFilePath(path)
	a.ClearModified()
	return a, images, nil
}

// PeekAtlasJSON extracts atlas.json from a .tr (or .tm's
// source_atlas.json-compatible) archive without reconstructing a full
// Atlas or reading any image data — useful for quick inspection
// tooling.
func PeekAtlasJSON(path string) (map[string]any, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("envelope.PeekAtlasJSON: %w", err)
	}
	defer zr.Close()

	manifest, err := readZipFile(&zr.Reader, atlasManifestName)
	if err != nil {
		manifest, err = readZipFile(&zr.Reader, sourceAtlasManifestName)
		if err != nil {
			return nil, fmt.Errorf("envelope.PeekAtlasJSON(%s): %w", path, ErrMissingAtlasJSON)
		}
	}

	var out map[string]any
	if err := json.Unmarshal(manifest, &out); err != nil {
		return nil, fmt.Errorf("envelope.PeekAtlasJSON: %w: %v", ErrMalformedJSON, err)
	}
	return out, nil
}
