// Package script runs named image commands against a current image.
//
// A Session holds one raster.Buffer and maps command lines onto engine
// operations:
//
//	load wiz.tga
//	gray
//	dither-fs
//	save wiz-fs.tga
//	compare expected/dither-fs.tga
//
// Commands that take a second image (comp-over, comp-in, comp-out,
// comp-atop, comp-xor, diff, compare) read it from a file. Relative paths
// are resolved against the session's base directory when one is set.
//
// Randomized commands draw from the session's generator; create the session
// WithSeed to make their output repeatable.
package script
