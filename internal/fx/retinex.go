package fx

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"

	"github.com/anthonynsimon/bild/blur"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/imagefx/filters/internal/raster"
)

// Processing color models for retinex.
const (
	ModelRGB = "RGB"
	ModelHSL = "HSL"
)

// retinexEpsilon floors the blur divisor so the log ratio never divides by
// zero on black regions.
const retinexEpsilon = 1e-6

// RetinexOptions configures multiscale retinex enhancement.
type RetinexOptions struct {
	// ColorModel selects the channels processed: ModelRGB enhances each
	// channel independently, ModelHSL enhances lightness only and recombines
	// it with the original hue and saturation.
	ColorModel string

	// Boost blends in a color-restored variant, 0-100 percent.
	Boost float64

	// Gamma is the contrast exponent applied after enhancement.
	Gamma float64

	// Brightness and Saturation are multiplicative gains applied last.
	Brightness float64
	Saturation float64

	// Scales are the three Gaussian blur sigmas defining the retinex
	// surround resolutions.
	Scales [3]float64
}

// Validate checks option ranges before any image is loaded.
func (o *RetinexOptions) Validate() error {
	switch o.ColorModel {
	case ModelRGB, ModelHSL:
	default:
		return fmt.Errorf("colormodel must be %q or %q, got %q", ModelRGB, ModelHSL, o.ColorModel)
	}
	if o.Boost < 0 || o.Boost > 100 {
		return fmt.Errorf("boost must be in [0, 100], got %g", o.Boost)
	}
	if o.Gamma <= 0 {
		return fmt.Errorf("gamma must be positive, got %g", o.Gamma)
	}
	if o.Brightness <= 0 {
		return fmt.Errorf("brightness must be positive, got %g", o.Brightness)
	}
	if o.Saturation < 0 {
		return fmt.Errorf("saturation must be non-negative, got %g", o.Saturation)
	}
	for _, s := range o.Scales {
		if s <= 0 {
			return fmt.Errorf("scales must be positive, got %g", s)
		}
	}
	return nil
}

// Retinex applies multiscale retinex detail and color enhancement.
//
// For each scale the per-pixel reflectance log(orig/blur + 1) is computed
// with the divisor floored at a small epsilon; the three reflectance planes
// are averaged and renormalized to the full dynamic range. A plane with no
// dynamic range at all (a flat region against its own blur) falls back to the
// original samples, so a uniform image passes through unchanged.
func Retinex(img image.Image, o RetinexOptions) (image.Image, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	// HSL mode enhances only the lightness channel, and lightness is not
	// linear in RGB, so the surrounds must blur the lightness plane itself
	// rather than the color image.
	blurSrc := img
	if o.ColorModel == ModelHSL {
		blurSrc = lightnessImage(img)
	}

	// The three surround blurs are independent; compute them concurrently.
	var blurred [3]image.Image
	var wg sync.WaitGroup
	for i, sigma := range o.Scales {
		wg.Add(1)
		go func(i int, sigma float64) {
			defer wg.Done()
			blurred[i] = blur.Gaussian(blurSrc, sigma)
		}(i, sigma)
	}
	wg.Wait()

	var r, g, b, a [][]float64
	if o.ColorModel == ModelHSL {
		r, g, b, a = retinexHSL(img, blurred)
	} else {
		r, g, b, a = retinexRGB(img, blurred)
	}

	if o.Boost > 0 {
		boostColor(img, r, g, b, o.Boost)
	}

	invGamma := 1.0 / o.Gamma
	gray := 0.0
	for y := range r {
		for x := range r[y] {
			rv := math.Pow(raster.Clamp01(r[y][x]), invGamma) * o.Brightness
			gv := math.Pow(raster.Clamp01(g[y][x]), invGamma) * o.Brightness
			bv := math.Pow(raster.Clamp01(b[y][x]), invGamma) * o.Brightness

			gray = 0.299*rv + 0.587*gv + 0.114*bv
			r[y][x] = gray + (rv-gray)*o.Saturation
			g[y][x] = gray + (gv-gray)*o.Saturation
			b[y][x] = gray + (bv-gray)*o.Saturation
		}
	}

	return raster.Merge(r, g, b, a), nil
}

// retinexRGB enhances each color channel independently.
func retinexRGB(img image.Image, blurred [3]image.Image) (r, g, b, a [][]float64) {
	r, g, b, a = raster.Split(img)

	var br, bg, bb [3][][]float64
	for i, bl := range blurred {
		br[i], bg[i], bb[i], _ = raster.Split(bl)
	}

	r = reflectance(r, br)
	g = reflectance(g, bg)
	b = reflectance(b, bb)
	return r, g, b, a
}

// retinexHSL enhances the lightness channel only, recombining with the
// original hue and saturation.
func retinexHSL(img image.Image, blurred [3]image.Image) (r, g, b, a [][]float64) {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	hue := raster.NewPlane(width, height)
	sat := raster.NewPlane(width, height)
	light := raster.NewPlane(width, height)
	_, _, _, a = raster.Split(img)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c, _ := colorful.MakeColor(img.At(bounds.Min.X+x, bounds.Min.Y+y))
			h, s, l := c.Hsl()
			hue[y][x] = h
			sat[y][x] = s
			light[y][x] = l
		}
	}

	var blurLight [3][][]float64
	for i, bl := range blurred {
		blurLight[i] = raster.NewPlane(width, height)
		bb := bl.Bounds()
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				c, _ := colorful.MakeColor(bl.At(bb.Min.X+x, bb.Min.Y+y))
				_, _, l := c.Hsl()
				blurLight[i][y][x] = l
			}
		}
	}

	light = reflectance(light, blurLight)

	r = raster.NewPlane(width, height)
	g = raster.NewPlane(width, height)
	b = raster.NewPlane(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := colorful.Hsl(hue[y][x], sat[y][x], raster.Clamp01(light[y][x]))
			r[y][x] = c.R
			g[y][x] = c.G
			b[y][x] = c.B
		}
	}
	return r, g, b, a
}

// lightnessImage renders the HSL lightness plane of img as grayscale so the
// surround blurs can smooth the channel the enhancement operates on.
func lightnessImage(img image.Image) *image.Gray {
	bounds := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			c, _ := colorful.MakeColor(img.At(bounds.Min.X+x, bounds.Min.Y+y))
			_, _, l := c.Hsl()
			out.SetGray(x, y, color.Gray{Y: uint8(raster.Clamp01(l)*255 + 0.5)})
		}
	}
	return out
}

// reflectance averages log(orig/blur + 1) over the three scales and
// renormalizes. When the averaged plane carries no dynamic range the original
// plane is returned instead; there is no detail to redistribute.
func reflectance(orig [][]float64, blurs [3][][]float64) [][]float64 {
	height := len(orig)
	width := len(orig[0])

	avg := raster.NewPlane(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var sum float64
			for i := 0; i < 3; i++ {
				d := blurs[i][y][x]
				if d < retinexEpsilon {
					d = retinexEpsilon
				}
				sum += math.Log(orig[y][x]/d + 1)
			}
			avg[y][x] = sum / 3
		}
	}

	lo, hi := avg[0][0], avg[0][0]
	for y := range avg {
		for x := range avg[y] {
			if avg[y][x] < lo {
				lo = avg[y][x]
			}
			if avg[y][x] > hi {
				hi = avg[y][x]
			}
		}
	}
	if hi-lo < 1e-9 {
		return orig
	}

	scale := 1.0 / (hi - lo)
	for y := range avg {
		for x := range avg[y] {
			avg[y][x] = (avg[y][x] - lo) * scale
		}
	}
	return avg
}

// boostColor blends a color-restored variant into the reflectance planes.
//
// The restored variant multiplies each channel by the renormalized
// log(orig/gray + 1) chroma ratio of the source image.
func boostColor(img image.Image, r, g, b [][]float64, boost float64) {
	or, og, ob, _ := raster.Split(img)
	gray := raster.ToGray(img)

	height := len(r)
	width := len(r[0])
	frac := boost / 100.0

	ratio := func(o [][]float64) [][]float64 {
		out := raster.NewPlane(width, height)
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				d := gray[y][x]
				if d < retinexEpsilon {
					d = retinexEpsilon
				}
				out[y][x] = math.Log(o[y][x]/d + 1)
			}
		}
		return raster.Normalize(out)
	}

	rr := ratio(or)
	rg := ratio(og)
	rb := ratio(ob)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r[y][x] = (1-frac)*r[y][x] + frac*r[y][x]*rr[y][x]
			g[y][x] = (1-frac)*g[y][x] + frac*g[y][x]*rg[y][x]
			b[y][x] = (1-frac)*b[y][x] + frac*b[y][x]*rb[y][x]
		}
	}
}
