package fx

import (
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/draw"
	"math"
	"math/rand"

	"github.com/anthonynsimon/bild/blur"
	"github.com/disintegration/imaging"
	"github.com/teerapap/riemersma"

	"github.com/imagefx/filters/internal/raster"
)

// BorderMethods lists the accepted border fill strategies.
var BorderMethods = []string{
	"edge", "mirror", "tile", "random", "dither", "magnify", "average",
}

// ValidBorderMethod reports whether method is one of BorderMethods.
func ValidBorderMethod(method string) bool {
	for _, m := range BorderMethods {
		if m == method {
			return true
		}
	}
	return false
}

// BorderOptions configures extended-border synthesis.
type BorderOptions struct {
	// Width and Height are the border thickness in pixels on each side.
	// Negative values select the default of 10% of the smaller image
	// dimension.
	Width  int
	Height int

	// Blur is the Gaussian sigma applied to the synthesized border canvas.
	Blur float64

	// Color, when non-nil, is blended into the border at ColorPct percent.
	Color    *color.NRGBA
	ColorPct float64

	// RimColor and RimThickness draw a solid frame around the original image
	// at the seam. A thickness of 0 disables the rim.
	RimColor     *color.NRGBA
	RimThickness int

	// Method is the border fill strategy, one of BorderMethods.
	Method string
}

// Validate checks option ranges before any image is loaded.
func (o *BorderOptions) Validate() error {
	if !ValidBorderMethod(o.Method) {
		return fmt.Errorf("unknown border method %q", o.Method)
	}
	if o.Blur < 0 {
		return fmt.Errorf("blur must be non-negative, got %g", o.Blur)
	}
	if o.ColorPct < 0 || o.ColorPct > 100 {
		return fmt.Errorf("colorpct must be in [0, 100], got %g", o.ColorPct)
	}
	if o.RimThickness < 0 {
		return fmt.Errorf("rimthickness must be non-negative, got %d", o.RimThickness)
	}
	return nil
}

// ExtendBorder grows an image by a synthesized border while leaving the
// original pixels untouched and centered.
//
// The border canvas is built by the selected fill strategy, blurred and
// color-blended (blur before colorization, except for the noise-like random
// and dither fills where blurring first would erase the pattern), then the
// original is composited in the center and the optional rim frame is drawn
// around it at the seam.
func ExtendBorder(img image.Image, o BorderOptions) (image.Image, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()

	bw := o.Width
	bh := o.Height
	if bw < 0 || bh < 0 {
		def := min(w, h) / 10
		if bw < 0 {
			bw = def
		}
		if bh < 0 {
			bh = def
		}
	}

	canvas := borderCanvas(img, bw, bh, o.Method)

	noisy := o.Method == "random" || o.Method == "dither"
	if !noisy && o.Blur > 0 {
		canvas = toNRGBA(blur.Gaussian(canvas, o.Blur))
	}
	if o.Color != nil && o.ColorPct > 0 {
		colorize(canvas, *o.Color, o.ColorPct)
	}
	if noisy && o.Blur > 0 {
		canvas = toNRGBA(blur.Gaussian(canvas, o.Blur))
	}

	// Original pixels go on top, untouched.
	draw.Draw(canvas, image.Rect(bw, bh, bw+w, bh+h), img, bounds.Min, draw.Src)

	if o.RimColor != nil && o.RimThickness > 0 {
		drawRim(canvas, image.Rect(bw, bh, bw+w, bh+h), *o.RimColor, o.RimThickness)
	}
	return canvas, nil
}

// borderCanvas synthesizes the full extended canvas for the chosen strategy.
// The center region is filled too; it is overwritten by the original later.
func borderCanvas(img image.Image, bw, bh int, method string) *image.NRGBA {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	W := w + 2*bw
	H := h + 2*bh

	canvas := image.NewNRGBA(image.Rect(0, 0, W, H))

	switch method {
	case "edge":
		for y := 0; y < H; y++ {
			sy := raster.Clamp(y-bh, 0, h-1)
			for x := 0; x < W; x++ {
				sx := raster.Clamp(x-bw, 0, w-1)
				canvas.Set(x, y, img.At(bounds.Min.X+sx, bounds.Min.Y+sy))
			}
		}
	case "mirror":
		for y := 0; y < H; y++ {
			sy := reflectIndex(y-bh, h)
			for x := 0; x < W; x++ {
				sx := reflectIndex(x-bw, w)
				canvas.Set(x, y, img.At(bounds.Min.X+sx, bounds.Min.Y+sy))
			}
		}
	case "tile":
		for y := 0; y < H; y++ {
			sy := ((y-bh)%h + h) % h
			for x := 0; x < W; x++ {
				sx := ((x-bw)%w + w) % w
				canvas.Set(x, y, img.At(bounds.Min.X+sx, bounds.Min.Y+sy))
			}
		}
	case "random":
		for y := 0; y < H; y++ {
			for x := 0; x < W; x++ {
				canvas.SetNRGBA(x, y, color.NRGBA{
					R: uint8(rand.Intn(256)),
					G: uint8(rand.Intn(256)),
					B: uint8(rand.Intn(256)),
					A: 255,
				})
			}
		}
	case "dither":
		// Riemersma dither of the edge-extended canvas over the web-safe
		// palette. A fixed, documented pattern; see DESIGN.md.
		extended := borderCanvas(img, bw, bh, "edge")
		dst := image.NewPaletted(extended.Bounds(), color.Palette(palette.WebSafe))
		op := riemersma.NewOperation(16, 16.0)
		op.Draw(dst, dst.Bounds(), extended, extended.Bounds().Min)
		draw.Draw(canvas, canvas.Bounds(), dst, dst.Bounds().Min, draw.Src)
	case "magnify":
		// Uniform scale factor covering the extended canvas, center
		// cropped, so the backdrop keeps the source aspect ratio and
		// stays aligned with the centered original.
		scale := math.Max(float64(W)/float64(w), float64(H)/float64(h))
		sw := int(math.Ceil(float64(w) * scale))
		sh := int(math.Ceil(float64(h) * scale))
		scaled := imaging.CropCenter(imaging.Resize(img, sw, sh, imaging.Lanczos), W, H)
		draw.Draw(canvas, canvas.Bounds(), scaled, scaled.Bounds().Min, draw.Src)
	case "average":
		draw.Draw(canvas, canvas.Bounds(), image.NewUniform(meanColor(img)), image.Point{}, draw.Src)
	}
	return canvas
}

// reflectIndex folds an index into [0, size) by mirror reflection.
func reflectIndex(i, size int) int {
	period := 2 * size
	i = ((i % period) + period) % period
	if i >= size {
		return period - 1 - i
	}
	return i
}

// meanColor returns the flat mean color of the whole image.
func meanColor(img image.Image) color.NRGBA {
	bounds := img.Bounds()
	var r, g, b uint64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			r += uint64(c.R)
			g += uint64(c.G)
			b += uint64(c.B)
		}
	}
	n := uint64(bounds.Dx() * bounds.Dy())
	if n == 0 {
		return color.NRGBA{A: 255}
	}
	return color.NRGBA{
		R: uint8(r / n),
		G: uint8(g / n),
		B: uint8(b / n),
		A: 255,
	}
}

// colorize blends a color into every canvas pixel at pct percent.
func colorize(canvas *image.NRGBA, c color.NRGBA, pct float64) {
	p := pct / 100.0
	bounds := canvas.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			px := canvas.NRGBAAt(x, y)
			px.R = uint8(float64(px.R)*(1-p) + float64(c.R)*p + 0.5)
			px.G = uint8(float64(px.G)*(1-p) + float64(c.G)*p + 0.5)
			px.B = uint8(float64(px.B)*(1-p) + float64(c.B)*p + 0.5)
			canvas.SetNRGBA(x, y, px)
		}
	}
}

// drawRim draws a solid frame of the given thickness just outside rect.
func drawRim(canvas *image.NRGBA, rect image.Rectangle, c color.NRGBA, thickness int) {
	outer := rect.Inset(-thickness).Intersect(canvas.Bounds())
	uniform := image.NewUniform(c)
	draw.Draw(canvas, image.Rect(outer.Min.X, outer.Min.Y, outer.Max.X, rect.Min.Y), uniform, image.Point{}, draw.Src)
	draw.Draw(canvas, image.Rect(outer.Min.X, rect.Max.Y, outer.Max.X, outer.Max.Y), uniform, image.Point{}, draw.Src)
	draw.Draw(canvas, image.Rect(outer.Min.X, rect.Min.Y, rect.Min.X, rect.Max.Y), uniform, image.Point{}, draw.Src)
	draw.Draw(canvas, image.Rect(rect.Max.X, rect.Min.Y, outer.Max.X, rect.Max.Y), uniform, image.Point{}, draw.Src)
}

// toNRGBA converts any image to NRGBA, reusing it when already that type.
func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok {
		return n
	}
	bounds := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(out, out.Bounds(), img, bounds.Min, draw.Src)
	return out
}
