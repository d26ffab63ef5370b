package raster

import (
	"image"
	"image/color"
	"image/draw"
)

// FloodFill grows a region from seed over pixels whose color matches the seed
// color within the percentage fuzz tolerance.
//
// The fill uses 4-connectivity and an explicit stack (not recursion) so large
// regions cannot overflow the call stack. The returned mask is indexed
// mask[y][x] relative to the image bounds and is true for every pixel reached
// from the seed.
//
// Returns a nil mask if the seed lies outside the image bounds.
func FloodFill(img image.Image, seed image.Point, fuzz float64) [][]bool {
	bounds := img.Bounds()
	if !seed.In(bounds) {
		return nil
	}
	width := bounds.Dx()
	height := bounds.Dy()

	ref := img.At(seed.X, seed.Y)
	mask := make([][]bool, height)
	for y := range mask {
		mask[y] = make([]bool, width)
	}

	stack := []image.Point{{X: seed.X - bounds.Min.X, Y: seed.Y - bounds.Min.Y}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.X < 0 || p.X >= width || p.Y < 0 || p.Y >= height {
			continue
		}
		if mask[p.Y][p.X] {
			continue
		}
		if !WithinFuzz(img.At(p.X+bounds.Min.X, p.Y+bounds.Min.Y), ref, fuzz) {
			continue
		}
		mask[p.Y][p.X] = true

		stack = append(stack,
			image.Point{X: p.X + 1, Y: p.Y},
			image.Point{X: p.X - 1, Y: p.Y},
			image.Point{X: p.X, Y: p.Y + 1},
			image.Point{X: p.X, Y: p.Y - 1},
		)
	}
	return mask
}

// ContentBox returns the tight bounding box of the true pixels in a mask.
//
// The scan works on 1-D projections: the first and last rows containing any
// foreground pixel and likewise for columns. Returns the zero rectangle when
// the mask has no foreground at all.
func ContentBox(mask [][]bool) image.Rectangle {
	height := len(mask)
	if height == 0 {
		return image.Rectangle{}
	}
	width := len(mask[0])

	minX, minY := width, height
	maxX, maxY := -1, -1
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !mask[y][x] {
				continue
			}
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}
	if maxX < 0 {
		return image.Rectangle{}
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}

// InvertMask flips every cell of a boolean mask in place and returns it.
func InvertMask(mask [][]bool) [][]bool {
	for y := range mask {
		for x := range mask[y] {
			mask[y][x] = !mask[y][x]
		}
	}
	return mask
}

// PadBorder surrounds an image with px pixels of a solid color on every side.
func PadBorder(img image.Image, px int, c color.Color) *image.NRGBA {
	bounds := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, bounds.Dx()+2*px, bounds.Dy()+2*px))
	draw.Draw(out, out.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	draw.Draw(out, image.Rect(px, px, px+bounds.Dx(), px+bounds.Dy()), img, bounds.Min, draw.Src)
	return out
}
