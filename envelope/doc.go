// Package envelope reads and writes the two on-disk archive formats
// this module exchanges atlases and solved grids in: .tr ("tile
// rules", an atlas plus its source images) and .tm ("tile map", a
// solved or partially solved grid plus the atlas it was solved
// against). Both are ordinary ZIP archives holding JSON manifests
// alongside PNG tile images.
package envelope
