// Package raster provides the shared image plumbing used by the filter tools.
//
// It covers file I/O (format detection by extension, decode registration for
// the common interchange formats plus Radiance HDR), conversion between
// image.Image and the float64 working planes the numeric kernels operate on,
// color parsing, fuzz-tolerant flood fill, and content-box scanning.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with the origin at the top-left corner:
// X increases rightward, Y increases downward. Working planes are indexed
// plane[y][x].
//
// # Working Planes
//
// Numeric kernels operate on [][]float64 planes with samples normalized to
// [0, 1]. Split and Merge convert between image.Image and per-channel planes;
// ToGray produces a single luminance plane using ITU-R BT.601 weights.
//
// # Fuzz Tolerance
//
// Fuzz values are percentages (0-100). Two colors match under a fuzz
// tolerance when their CIE Lab distance is at most fuzz/100, computed with
// go-colorful. A fuzz of 0 requires exact 8-bit equality.
package raster
