package fx

import (
	"fmt"
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"

	"github.com/imagefx/filters/internal/raster"
)

// CartoonOptions configures cartoon stylization.
type CartoonOptions struct {
	// Method selects the color reduction: 1 posterizes each channel
	// independently, 2 remaps all channels through a single quantized step
	// lookup table.
	Method int

	// NumColors is the number of quantization levels per channel.
	NumColors int

	// MedianColor is the median filter radius applied before quantization;
	// 0 disables it.
	MedianColor int

	// MedianEdge is the median filter radius applied before edge detection;
	// 0 disables it.
	MedianEdge int

	// PctEdges thresholds the squared gradient at this percent of full range
	// to build the edge mask. 0 skips the edge overlay entirely.
	PctEdges float64

	// Blur is the Gaussian sigma applied after quantization; 0 disables it.
	Blur float64
}

// Validate checks option ranges before any image is loaded.
func (o *CartoonOptions) Validate() error {
	if o.Method != 1 && o.Method != 2 {
		return fmt.Errorf("method must be 1 or 2, got %d", o.Method)
	}
	if o.NumColors < 2 {
		return fmt.Errorf("numcolors must be at least 2, got %d", o.NumColors)
	}
	if o.MedianColor < 0 || o.MedianEdge < 0 {
		return fmt.Errorf("median radii must be non-negative")
	}
	if o.PctEdges < 0 || o.PctEdges > 100 {
		return fmt.Errorf("pctedges must be in [0, 100], got %g", o.PctEdges)
	}
	if o.Blur < 0 {
		return fmt.Errorf("blur must be non-negative, got %g", o.Blur)
	}
	return nil
}

// Cartoonize reduces an image to flat color regions and overlays dark edges.
//
// Color reduction runs on the (optionally median-filtered) source, followed by
// an optional Gaussian blur. The edge mask comes from a separately
// median-filtered grayscale copy: horizontal and vertical 3x3 gradient
// responses are squared in gamma space, summed, and thresholded at PctEdges
// percent of full range; the binary mask is then multiply-composited over the
// color-reduced image. With PctEdges of 0 the overlay step is skipped and the
// output is exactly the color-reduced image.
func Cartoonize(img image.Image, o CartoonOptions) (image.Image, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	base := img
	if o.MedianColor > 0 {
		base = effect.Median(base, float64(o.MedianColor))
	}

	var reduced *image.NRGBA
	if o.Method == 1 {
		reduced = posterizeChannels(base, o.NumColors)
	} else {
		reduced = applyLUT(base, stepLUT(o.NumColors))
	}

	var colored image.Image = reduced
	if o.Blur > 0 {
		colored = blur.Gaussian(colored, o.Blur)
	}

	if o.PctEdges == 0 {
		return colored, nil
	}

	mask := edgeMask(img, o.MedianEdge, o.PctEdges)
	return multiplyMask(colored, mask), nil
}

// stepLUT builds a 256-entry monotonic step table with the given number of
// levels, used as a uniform color lookup.
func stepLUT(levels int) [256]uint8 {
	var lut [256]uint8
	for i := 0; i < 256; i++ {
		idx := i * levels / 256
		if idx > levels-1 {
			idx = levels - 1
		}
		lut[i] = uint8(idx * 255 / (levels - 1))
	}
	return lut
}

// posterizeLUT quantizes by rounding to the nearest of the evenly spaced
// levels, the per-channel posterization used by method 1.
func posterizeLUT(levels int) [256]uint8 {
	var lut [256]uint8
	for i := 0; i < 256; i++ {
		idx := (i*(levels-1) + 127) / 255
		lut[i] = uint8(idx * 255 / (levels - 1))
	}
	return lut
}

// posterizeChannels applies an independent posterization per channel.
func posterizeChannels(img image.Image, levels int) *image.NRGBA {
	return applyLUT(img, posterizeLUT(levels))
}

// applyLUT remaps every color channel of an image through a 256-entry table.
// Alpha passes through unchanged.
func applyLUT(img image.Image, lut [256]uint8) *image.NRGBA {
	bounds := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			out.SetNRGBA(x-bounds.Min.X, y-bounds.Min.Y, color.NRGBA{
				R: lut[c.R],
				G: lut[c.G],
				B: lut[c.B],
				A: c.A,
			})
		}
	}
	return out
}

// edgeMask builds the binary edge factor plane: 0 on edges, 1 elsewhere.
//
// Gradients come from the two directional 3x3 kernels on a grayscale copy of
// the (optionally median-filtered) source; the responses are squared in the
// encoded gamma space and summed before thresholding.
func edgeMask(img image.Image, medianRadius int, pctEdges float64) [][]float64 {
	src := img
	if medianRadius > 0 {
		src = effect.Median(src, float64(medianRadius))
	}

	gray := raster.ToGray(src)
	gx := convolve3x3(gray, kernelGradX)
	gy := convolve3x3(gray, kernelGradY)

	threshold := pctEdges / 100.0
	height := len(gray)
	width := len(gray[0])

	mask := make([][]float64, height)
	for y := 0; y < height; y++ {
		mask[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			m := gx[y][x]*gx[y][x] + gy[y][x]*gy[y][x]
			if m >= threshold {
				mask[y][x] = 0
			} else {
				mask[y][x] = 1
			}
		}
	}
	return mask
}

// multiplyMask multiply-composites a binary factor plane over an image.
func multiplyMask(img image.Image, mask [][]float64) *image.NRGBA {
	bounds := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			f := mask[y-bounds.Min.Y][x-bounds.Min.X]
			out.SetNRGBA(x-bounds.Min.X, y-bounds.Min.Y, color.NRGBA{
				R: uint8(float64(c.R)*f + 0.5),
				G: uint8(float64(c.G)*f + 0.5),
				B: uint8(float64(c.B)*f + 0.5),
				A: c.A,
			})
		}
	}
	return out
}
