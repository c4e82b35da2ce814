// Command wfcdemo builds a small tile atlas, lets the propagator spin
// its symmetric sibling rules, validates it, solves a grid against it,
// and writes the atlas and the result to a .tr/.tm archive pair. It is a
// runnable tour of every package in this module, not a library.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tileatlas/wfc/atlas"
	"github.com/tileatlas/wfc/envelope"
	"github.com/tileatlas/wfc/propagator"
	"github.com/tileatlas/wfc/solver"
	"github.com/tileatlas/wfc/transform"
	"github.com/tileatlas/wfc/validator"
	"github.com/tileatlas/wfc/wfclog"
)

func main() {
	log := wfclog.Default

	a := buildAtlas(log)

	n, err := propagator.PropagateAll(a)
	if err != nil {
		log.Fatal().Err(err).Msg("propagate all")
	}
	log.Info().Int("generated", n).Msg("auto rules propagated")

	result, err := validator.Validate(a, true, "grass")
	if err != nil {
		log.Fatal().Err(err).Msg("validate")
	}
	if !result.IsValid() {
		log.Warn().Strs("tiles_with_issues", result.TilesWithIssues()).Msg("atlas has validation issues")
	} else {
		log.Info().Msg("atlas is fully valid")
	}

	const width, height = 6, 4
	eng := solver.New(
		solver.WithSeed(42),
		solver.WithLogger(log),
		solver.WithOnFinished(func(success bool) {
			log.Info().Bool("success", success).Msg("solve finished")
		}),
	)
	eng.Initialize(a, width, height)
	if err := eng.LockCell(0, 0, "grass"); err != nil {
		log.Fatal().Err(err).Msg("lock starting cell")
	}

	eng.Start()
	for eng.State() == solver.Running {
		if err := eng.Step(); err != nil {
			log.Fatal().Err(err).Msg("step")
		}
	}
	printGrid(eng, width, height)

	if problems := eng.ValidateGrid(); len(problems) > 0 {
		log.Warn().Strs("problems", problems).Msg("solved grid has adjacency problems")
	}

	dir, err := os.MkdirTemp("", "wfcdemo")
	if err != nil {
		log.Fatal().Err(err).Msg("mkdir temp")
	}
	trPath := filepath.Join(dir, "demo.tr")
	if err := envelope.SaveTR(trPath, a, nil); err != nil {
		log.Fatal().Err(err).Msg("save .tr")
	}

	grid := envelope.GridSnapshot{Width: width, Height: height, SourceTR: "demo.tr"}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			cell := eng.GetCell(x, y)
			if cell.IsCollapsed() {
				grid.Cells = append(grid.Cells, envelope.CellRecord{X: x, Y: y, TileID: cell.Collapsed, Locked: cell.Locked})
			}
		}
	}
	tmPath := filepath.Join(dir, "demo.tm")
	if err := envelope.SaveTM(tmPath, grid, a, nil); err != nil {
		log.Fatal().Err(err).Msg("save .tm")
	}
	log.Info().Str("tr", trPath).Str("tm", tmPath).Msg("archives written")
}

func buildAtlas(log wfclog.Logger) *atlas.Atlas {
	a := atlas.New(
		atlas.WithVersion("1.0"),
		atlas.WithSettings(atlas.Settings{AutoPropagateRotations: true}),
	)

	if _, err := a.AddBaseTile(atlas.BaseTile{ID: "grass", Source: "grass.png", Width: 16, Height: 16}); err != nil {
		log.Fatal().Err(err).Msg("add grass")
	}
	if _, err := a.AddBaseTile(atlas.BaseTile{ID: "path", Source: "path.png", Width: 16, Height: 16}); err != nil {
		log.Fatal().Err(err).Msg("add path")
	}
	if _, err := a.AddBaseTile(atlas.BaseTile{ID: "water", Source: "water.png", Width: 16, Height: 16}); err != nil {
		log.Fatal().Err(err).Msg("add water")
	}

	for _, rot := range []int{90, 180, 270} {
		if _, err := a.AddVariant("path", transform.Transform{Rotation: rot}); err != nil {
			log.Fatal().Err(err).Msg("add path rotation")
		}
	}

	rules := []struct {
		tile, neighbor string
		side           transform.Side
		weight         float64
	}{
		{"grass", "grass", transform.Top, 100},
		{"grass", "water", transform.Top, 40},
		{"grass", "path", transform.Top, 60},
		{"path", "path", transform.Right, 100},
		{"path", "grass", transform.Right, 50},
	}
	for _, r := range rules {
		if _, err := a.AddRule(r.tile, r.side, r.neighbor, r.weight, false); err != nil {
			log.Fatal().Err(err).Msg("add rule")
		}
	}

	return a
}

func printGrid(eng *solver.Engine, width, height int) {
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			cell := eng.GetCell(x, y)
			if cell == nil || !cell.IsCollapsed() {
				fmt.Print(". ")
				continue
			}
			fmt.Printf("%.1s ", cell.Collapsed)
		}
		fmt.Println()
	}
}
