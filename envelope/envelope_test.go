package envelope

import (
	"archive/zip"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tileatlas/wfc/atlas"
	"github.com/tileatlas/wfc/transform"
)

func buildSampleAtlas(t *testing.T) *atlas.Atlas {
	t.Helper()
	a := atlas.New(atlas.WithVersion("1.0"))
	_, err := a.AddBaseTile(atlas.BaseTile{ID: "grass", Source: "grass.png", Width: 16, Height: 16})
	require.NoError(t, err)
	_, err = a.AddBaseTile(atlas.BaseTile{ID: "water", Source: "water.png", Width: 16, Height: 16})
	require.NoError(t, err)
	_, err = a.AddVariant("grass", transform.Transform{Rotation: 90})
	require.NoError(t, err)
	_, err = a.AddRule("grass", transform.Top, "water", 100, false)
	require.NoError(t, err)
	return a
}

func TestSaveLoadTR_RoundTrip(t *testing.T) {
	a := buildSampleAtlas(t)
	images := map[string][]byte{
		"grass.png": []byte("not really a png, just bytes"),
		"water.png": []byte("also just bytes"),
	}

	path := filepath.Join(t.TempDir(), "sample.tr")
	require.NoError(t, SaveTR(path, a, images))

	loaded, loadedImages, err := LoadTR(path)
	require.NoError(t, err)

	assert.Equal(t, "1.0", loaded.Version())
	assert.Len(t, loaded.BaseTiles(), 2)
	assert.Len(t, loaded.Variants(), 3, "expected 2 identities + 1 rotation")

	got := loaded.GetRule("grass", transform.Top, "water")
	require.NotNil(t, got)
	assert.Equal(t, 100.0, got.Weight)
	assert.Equal(t, "not really a png, just bytes", string(loadedImages["grass.png"]))
	assert.False(t, loaded.Modified(), "expected a freshly loaded atlas to be unmodified")
	assert.Equal(t, path, loaded.FilePath())
}

func TestLoadTR_MissingManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.tr")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	require.NoError(t, zw.Close())
	f.Close()

	_, _, err = LoadTR(path)
	assert.ErrorIs(t, err, ErrMissingAtlasJSON)
}

func TestLoadTR_BaseTileIDAlias(t *testing.T) {
	// Hand-write an archive using the older "base_tile_id" field name
	// instead of "base", to exercise the alias decode path directly.
	path := filepath.Join(t.TempDir(), "legacy.tr")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)

	manifest := map[string]any{
		"version":  "1.0",
		"settings": map[string]any{},
		"base_tiles": []map[string]any{
			{"id": "grass", "source": "grass.png", "width": 16, "height": 16},
		},
		"tiles": []map[string]any{
			{"id": "grass", "base_tile_id": "grass", "rotation": 0, "flip_x": false, "flip_y": false, "enabled": true},
		},
		"rules": []map[string]any{},
	}
	data, err := json.Marshal(manifest)
	require.NoError(t, err)
	require.NoError(t, writeZipFile(zw, atlasManifestName, data))
	require.NoError(t, zw.Close())
	f.Close()

	loaded, _, err := LoadTR(path)
	require.NoError(t, err)
	v := loaded.GetVariant("grass")
	require.NotNil(t, v)
	assert.Equal(t, "grass", v.BaseTileID, "expected base_tile_id alias to resolve")
}

func TestSaveLoadTM_RoundTrip(t *testing.T) {
	a := buildSampleAtlas(t)
	grid := GridSnapshot{
		Width: 2, Height: 1,
		SourceTR: "sample.tr",
		Cells: []CellRecord{
			{X: 0, Y: 0, TileID: "grass", Locked: true},
		},
		Uncollapsed: []UncollapsedRecord{
			{X: 1, Y: 0, Possibilities: []string{"water", "grass"}},
		},
	}

	path := filepath.Join(t.TempDir(), "sample.tm")
	require.NoError(t, SaveTM(path, grid, a, nil))

	loadedGrid, loadedAtlas, _, err := LoadTM(path)
	require.NoError(t, err)
	assert.Equal(t, 2, loadedGrid.Width)
	assert.Equal(t, 1, loadedGrid.Height)
	assert.Equal(t, "sample.tr", loadedGrid.SourceTR)

	require.Len(t, loadedGrid.Cells, 1)
	assert.Equal(t, "grass", loadedGrid.Cells[0].TileID)
	assert.True(t, loadedGrid.Cells[0].Locked)

	require.Len(t, loadedGrid.Uncollapsed, 1)
	assert.Len(t, loadedGrid.Uncollapsed[0].Possibilities, 2)

	assert.Len(t, loadedAtlas.BaseTiles(), 2, "expected the embedded atlas to round-trip")
}

func TestPeekAtlasJSON(t *testing.T) {
	a := buildSampleAtlas(t)
	path := filepath.Join(t.TempDir(), "sample.tr")
	require.NoError(t, SaveTR(path, a, nil))

	peeked, err := PeekAtlasJSON(path)
	require.NoError(t, err)
	assert.Equal(t, "1.0", peeked["version"])
}
