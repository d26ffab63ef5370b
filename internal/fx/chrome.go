package fx

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/blur"

	"github.com/imagefx/filters/internal/raster"
)

// Background treatments when a background color is selected.
const (
	BackgroundFlatten     = "flatten"
	BackgroundTransparent = "transparent"
)

// ChromeOptions configures the chrome relief effect.
type ChromeOptions struct {
	// Intensity weights the linear ramp against the sinusoidal wave in the
	// chrome lookup curve; higher values flatten the metallic banding.
	Intensity float64

	// Cycles is the number of periods of the sinusoidal component.
	Cycles float64

	// Smoothing is the Gaussian sigma applied before relief shading.
	Smoothing float64

	// Azimuth and Elevation position the light source, in degrees.
	Azimuth   float64
	Elevation float64

	// Tint, when non-nil, recolors the result through a black-to-tint
	// gradient map.
	Tint *color.NRGBA

	// Background, when non-nil, selects the background region of the shaded
	// image by flood fill under Fuzz and applies BackgroundMode to it.
	Background     *color.NRGBA
	Fuzz           float64
	BackgroundMode string
}

// Validate checks option ranges before any image is loaded.
func (o *ChromeOptions) Validate() error {
	if o.Intensity < 0 {
		return fmt.Errorf("intensity must be non-negative, got %g", o.Intensity)
	}
	if o.Cycles <= 0 {
		return fmt.Errorf("cycles must be positive, got %g", o.Cycles)
	}
	if o.Smoothing < 0 {
		return fmt.Errorf("smoothing must be non-negative, got %g", o.Smoothing)
	}
	if o.Azimuth < 0 || o.Azimuth >= 360 {
		return fmt.Errorf("azimuth must be in [0, 360), got %g", o.Azimuth)
	}
	if o.Elevation < 0 || o.Elevation > 90 {
		return fmt.Errorf("elevation must be in [0, 90], got %g", o.Elevation)
	}
	if o.Fuzz < 0 || o.Fuzz > 100 {
		return fmt.Errorf("fuzz must be in [0, 100], got %g", o.Fuzz)
	}
	switch o.BackgroundMode {
	case BackgroundFlatten, BackgroundTransparent:
	default:
		return fmt.Errorf("bgmode must be %q or %q, got %q", BackgroundFlatten, BackgroundTransparent, o.BackgroundMode)
	}
	return nil
}

// Chrome renders a relief-shaded metallic version of an image.
//
// The source is converted to grayscale, smoothed, shaded as a height field
// lit from (azimuth, elevation), contrast-normalized, and remapped through
// the cyclic chrome lookup curve. An optional tint recolors the result and an
// optional background color is flood-selected on the shaded image and either
// flattened over the background color or made transparent.
func Chrome(img image.Image, o ChromeOptions) (image.Image, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	var smoothed image.Image = raster.MergeGray(raster.ToGray(img))
	if o.Smoothing > 0 {
		smoothed = blur.Gaussian(smoothed, o.Smoothing)
	}

	shaded := raster.Normalize(shade(raster.ToGray(smoothed), o.Azimuth, o.Elevation))

	curve := chromeCurve(o.Intensity, o.Cycles)
	height := len(shaded)
	width := len(shaded[0])
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			shaded[y][x] = curve[int(raster.Clamp01(shaded[y][x])*255+0.5)]
		}
	}

	var out *image.NRGBA
	if o.Tint != nil {
		r := raster.NewPlane(width, height)
		g := raster.NewPlane(width, height)
		b := raster.NewPlane(width, height)
		tr := float64(o.Tint.R) / 255.0
		tg := float64(o.Tint.G) / 255.0
		tb := float64(o.Tint.B) / 255.0
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				v := shaded[y][x]
				r[y][x] = v * tr
				g[y][x] = v * tg
				b[y][x] = v * tb
			}
		}
		out = raster.Merge(r, g, b, nil)
	} else {
		out = raster.Merge(shaded, shaded, shaded, nil)
	}

	if o.Background != nil {
		applyBackground(out, o)
	}
	return out, nil
}

// chromeCurve builds the 256-entry cyclic lookup curve: a sinusoid with the
// requested number of periods blended with a linear ramp weighted by
// intensity/(intensity+1). Remapping happens by table lookup per pixel, not
// by evaluating the formula at apply time.
func chromeCurve(intensity, cycles float64) [256]float64 {
	w := intensity / (intensity + 1)
	var curve [256]float64
	for i := range curve {
		t := float64(i) / 255.0
		wave := (1 - math.Cos(2*math.Pi*cycles*t)) / 2
		curve[i] = w*t + (1-w)*wave
	}
	return curve
}

// shade applies bump-map style directional shading to a height field.
//
// Surface normals come from central differences; the shade value is the dot
// product of the unit normal with the unit light vector derived from azimuth
// and elevation. A flat field shades to the constant sin(elevation).
func shade(heights [][]float64, azimuth, elevation float64) [][]float64 {
	height := len(heights)
	width := len(heights[0])

	az := azimuth * math.Pi / 180.0
	el := elevation * math.Pi / 180.0
	lx := math.Cos(az) * math.Cos(el)
	ly := math.Sin(az) * math.Cos(el)
	lz := math.Sin(el)

	out := raster.NewPlane(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			xm := raster.Clamp(x-1, 0, width-1)
			xp := raster.Clamp(x+1, 0, width-1)
			ym := raster.Clamp(y-1, 0, height-1)
			yp := raster.Clamp(y+1, 0, height-1)

			dzdx := (heights[y][xp] - heights[y][xm]) / 2
			dzdy := (heights[yp][x] - heights[ym][x]) / 2

			nx := -dzdx * reliefScale
			ny := -dzdy * reliefScale
			nz := 1.0
			norm := math.Sqrt(nx*nx + ny*ny + nz*nz)

			v := (nx*lx + ny*ly + nz*lz) / norm
			if v < 0 {
				v = 0
			}
			out[y][x] = v
		}
	}
	return out
}

// reliefScale converts height-field slope to normal steepness. Tunable.
const reliefScale = 4.0

// applyBackground flood-selects the background region from the corner nearest
// in color to the requested background and applies the background treatment.
func applyBackground(img *image.NRGBA, o ChromeOptions) {
	bounds := img.Bounds()
	seed := bestBackgroundCorner(img, *o.Background)
	mask := raster.FloodFill(img, seed, o.Fuzz)
	if mask == nil {
		return
	}

	bg := color.NRGBA{R: o.Background.R, G: o.Background.G, B: o.Background.B, A: 255}
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			if !mask[y][x] {
				continue
			}
			if o.BackgroundMode == BackgroundFlatten {
				img.SetNRGBA(x, y, bg)
			} else {
				c := img.NRGBAAt(x, y)
				c.A = 0
				img.SetNRGBA(x, y, c)
			}
		}
	}
}

// bestBackgroundCorner picks the corner pixel closest in color to the
// requested background as the flood-fill seed.
func bestBackgroundCorner(img *image.NRGBA, bg color.NRGBA) image.Point {
	bounds := img.Bounds()
	corners := []image.Point{
		{X: bounds.Min.X, Y: bounds.Min.Y},
		{X: bounds.Max.X - 1, Y: bounds.Min.Y},
		{X: bounds.Min.X, Y: bounds.Max.Y - 1},
		{X: bounds.Max.X - 1, Y: bounds.Max.Y - 1},
	}

	best := corners[0]
	bestDist := math.Inf(1)
	for _, c := range corners {
		d := raster.ColorDistance(img.At(c.X, c.Y), bg)
		if d < bestDist {
			bestDist = d
			best = c
		}
	}
	return best
}
