package raster

import (
	"image"
	"image/color"
)

// NewPlane allocates a zeroed height x width float plane.
func NewPlane(width, height int) [][]float64 {
	p := make([][]float64, height)
	for y := range p {
		p[y] = make([]float64, width)
	}
	return p
}

// ToGray converts an image to a single luminance plane in [0, 1].
//
// Luminance uses the ITU-R BT.601 weights (0.299*R + 0.587*G + 0.114*B).
func ToGray(img image.Image) [][]float64 {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	gray := make([][]float64, height)
	for y := 0; y < height; y++ {
		gray[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			rf := float64(r>>8) / 255.0
			gf := float64(g>>8) / 255.0
			bf := float64(b>>8) / 255.0
			gray[y][x] = 0.299*rf + 0.587*gf + 0.114*bf
		}
	}
	return gray
}

// Split decomposes an image into R, G, B and A planes in [0, 1].
//
// Alpha is non-premultiplied: color channels are divided back out for
// translucent pixels so kernels see the straight color values.
func Split(img image.Image) (r, g, b, a [][]float64) {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	r = NewPlane(width, height)
	g = NewPlane(width, height)
	b = NewPlane(width, height)
	a = NewPlane(width, height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := color.NRGBAModel.Convert(img.At(x+bounds.Min.X, y+bounds.Min.Y)).(color.NRGBA)
			r[y][x] = float64(c.R) / 255.0
			g[y][x] = float64(c.G) / 255.0
			b[y][x] = float64(c.B) / 255.0
			a[y][x] = float64(c.A) / 255.0
		}
	}
	return r, g, b, a
}

// Merge recombines R, G, B and A planes into an NRGBA image.
//
// Samples are clamped to [0, 1] before quantization, so kernels may produce
// transient out-of-range values without wrapping artifacts. A nil alpha plane
// yields a fully opaque image.
func Merge(r, g, b, a [][]float64) *image.NRGBA {
	height := len(r)
	width := 0
	if height > 0 {
		width = len(r[0])
	}

	out := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			alpha := 1.0
			if a != nil {
				alpha = a[y][x]
			}
			out.SetNRGBA(x, y, color.NRGBA{
				R: quantize(r[y][x]),
				G: quantize(g[y][x]),
				B: quantize(b[y][x]),
				A: quantize(alpha),
			})
		}
	}
	return out
}

// MergeGray converts a single luminance plane into a grayscale image,
// clamping samples to [0, 1].
func MergeGray(p [][]float64) *image.Gray {
	height := len(p)
	width := 0
	if height > 0 {
		width = len(p[0])
	}

	out := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			out.SetGray(x, y, color.Gray{Y: quantize(p[y][x])})
		}
	}
	return out
}

// quantize maps a [0, 1] sample to an 8-bit value with rounding.
func quantize(v float64) uint8 {
	v = Clamp01(v)
	return uint8(v*255.0 + 0.5)
}

// Clamp01 constrains a float sample to the range [0, 1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Clamp constrains an integer value to the range [min, max].
// Used for boundary handling in convolution and scanning loops.
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Normalize stretches a plane so its extremes span [0, 1].
//
// A constant plane is returned unchanged; there is no contrast to stretch.
func Normalize(p [][]float64) [][]float64 {
	lo, hi := planeRange(p)
	if hi <= lo {
		return p
	}

	out := NewPlane(len(p[0]), len(p))
	scale := 1.0 / (hi - lo)
	for y := range p {
		for x := range p[y] {
			out[y][x] = (p[y][x] - lo) * scale
		}
	}
	return out
}

// planeRange returns the minimum and maximum samples of a plane.
func planeRange(p [][]float64) (lo, hi float64) {
	lo, hi = p[0][0], p[0][0]
	for y := range p {
		for x := range p[y] {
			v := p[y][x]
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	return lo, hi
}
