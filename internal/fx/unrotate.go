package fx

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"

	"github.com/imagefx/filters/internal/raster"
)

// Named anchor positions for sampling the border color.
var UnrotateAnchors = []string{
	"topleft", "topright", "bottomleft", "bottomright",
	"top", "bottom", "left", "right",
}

// rotationCorrection is the empirical offset in degrees added to the raw
// slope estimate. Carried as a tunable constant, not a derived value.
const rotationCorrection = -0.2

// unrotatePad is the padding in pixels added around the image before the
// outside flood fill, guaranteeing a connected background region.
const unrotatePad = 2

// UnrotateOptions configures rotation estimation and correction.
type UnrotateOptions struct {
	// Fuzz is the percentage color tolerance for border matching.
	Fuzz float64

	// Coords, when non-nil, is the pixel at which the border color is
	// sampled. It takes precedence over Anchor.
	Coords *image.Point

	// Anchor names a border position to sample when Coords is nil.
	Anchor string

	// TrimLeft, TrimRight, TrimTop and TrimBottom adjust the final crop by
	// the given number of pixels per edge. Positive values cut further in.
	TrimLeft, TrimRight, TrimTop, TrimBottom int

	// Angle, when non-nil, overrides the estimated rotation for correction.
	Angle *float64
}

// Validate checks option ranges before any image is loaded.
func (o *UnrotateOptions) Validate() error {
	if o.Fuzz < 0 || o.Fuzz > 100 {
		return fmt.Errorf("fuzz must be in [0, 100], got %g", o.Fuzz)
	}
	if o.Coords == nil {
		ok := false
		for _, a := range UnrotateAnchors {
			if a == o.Anchor {
				ok = true
				break
			}
		}
		if !ok {
			return fmt.Errorf("unknown anchor %q", o.Anchor)
		}
	}
	if o.Angle != nil && (*o.Angle <= -45 || *o.Angle > 45) {
		return fmt.Errorf("angle must be in (-45, 45], got %g", *o.Angle)
	}
	return nil
}

// UnrotateResult reports the estimated rotation and the sampled border color.
type UnrotateResult struct {
	// Angle is the estimated rotation in degrees, normalized to (-45, 45].
	// Positive means the content is tilted counter-clockwise.
	//
	// The estimate cannot distinguish +45 from -45 degrees, and a content
	// rotation of t and t-90 produce the same value; callers needing the
	// true orientation may have to apply an extra 90/180/270 degree turn.
	Angle float64

	// Border is the border color sampled at the configured coordinate.
	Border color.NRGBA
}

// EstimateRotation estimates the rotation of a sub-region surrounded by a
// roughly uniform border color.
//
// The border color is sampled at the configured coordinate or anchor. The
// image is padded with that color and flood-filled from the padded corner
// under the fuzz tolerance; the complement is the inside mask. The mask is
// cropped to its content box by row/column projection scanning, and the
// rotation angle follows from the slope between the first inside pixel of
// the leftmost column and of the topmost row, inverted for image-coordinate
// y. Raw angles above 45 degrees are normalized by subtracting 90, and the
// empirical correction offset is added.
func EstimateRotation(img image.Image, o UnrotateOptions) (*UnrotateResult, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	border, err := sampleBorder(img, o)
	if err != nil {
		return nil, err
	}

	inside, err := insideMask(img, border, o.Fuzz)
	if err != nil {
		return nil, err
	}

	box := raster.ContentBox(inside)
	if box.Empty() {
		return nil, fmt.Errorf("no content found inside border color %v", border)
	}

	// Crop the mask to the content box, with a 1px false frame so the first
	// inside pixel per edge is well defined even when content touches the
	// box edge.
	cw := box.Dx() + 2
	ch := box.Dy() + 2
	cropped := make([][]bool, ch)
	for y := range cropped {
		cropped[y] = make([]bool, cw)
	}
	for y := box.Min.Y; y < box.Max.Y; y++ {
		for x := box.Min.X; x < box.Max.X; x++ {
			cropped[y-box.Min.Y+1][x-box.Min.X+1] = inside[y][x]
		}
	}

	// First inside pixel down the leftmost content column and across the
	// topmost content row.
	leftY := -1
	for y := 0; y < ch; y++ {
		if cropped[y][1] {
			leftY = y - 1
			break
		}
	}
	topX := -1
	for x := 0; x < cw; x++ {
		if cropped[1][x] {
			topX = x - 1
			break
		}
	}
	if leftY < 0 || topX < 0 {
		return nil, fmt.Errorf("could not locate content corners")
	}

	angle := 0.0
	if topX > 0 || leftY > 0 {
		// Slope of the edge between the topmost and leftmost content
		// pixels; y grows downward, hence the inversion.
		angle = math.Atan2(float64(leftY), float64(topX)) * 180 / math.Pi
	}
	if angle > 45 {
		angle -= 90
	}
	if angle != 0 {
		angle += rotationCorrection
	}

	return &UnrotateResult{Angle: angle, Border: border}, nil
}

// Unrotate corrects the rotation of a bordered sub-region and trims the
// result to its upright content.
//
// The rotation is the manual override when given, otherwise the estimate
// from EstimateRotation. The image is rotated by the negative angle with the
// sampled border color as fill, the content box is recomputed on the upright
// result, and the manual per-edge trim adjustments are applied before
// cropping.
func Unrotate(img image.Image, o UnrotateOptions) (image.Image, *UnrotateResult, error) {
	res, err := EstimateRotation(img, o)
	if err != nil {
		return nil, nil, err
	}

	angle := res.Angle
	if o.Angle != nil {
		angle = *o.Angle
	}

	upright := imaging.Rotate(img, -angle, res.Border)

	inside, err := insideMask(upright, res.Border, o.Fuzz)
	if err != nil {
		return nil, nil, err
	}
	box := raster.ContentBox(inside)
	if box.Empty() {
		return nil, nil, fmt.Errorf("no content found after rotation")
	}

	box.Min.X = raster.Clamp(box.Min.X+o.TrimLeft, 0, upright.Bounds().Dx())
	box.Max.X = raster.Clamp(box.Max.X-o.TrimRight, box.Min.X, upright.Bounds().Dx())
	box.Min.Y = raster.Clamp(box.Min.Y+o.TrimTop, 0, upright.Bounds().Dy())
	box.Max.Y = raster.Clamp(box.Max.Y-o.TrimBottom, box.Min.Y, upright.Bounds().Dy())

	return imaging.Crop(upright, box), res, nil
}

// insideMask pads the image with the border color, flood fills the outside
// from the padded corner, and returns the complement cropped back to the
// original geometry.
func insideMask(img image.Image, border color.NRGBA, fuzz float64) ([][]bool, error) {
	padded := raster.PadBorder(img, unrotatePad, border)
	outside := raster.FloodFill(padded, image.Point{X: 0, Y: 0}, fuzz)
	if outside == nil {
		return nil, fmt.Errorf("flood fill failed")
	}

	bounds := img.Bounds()
	inside := make([][]bool, bounds.Dy())
	for y := range inside {
		inside[y] = make([]bool, bounds.Dx())
		for x := range inside[y] {
			inside[y][x] = !outside[y+unrotatePad][x+unrotatePad]
		}
	}
	return inside, nil
}

// sampleBorder returns the color at the configured sample coordinate.
func sampleBorder(img image.Image, o UnrotateOptions) (color.NRGBA, error) {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()

	var p image.Point
	if o.Coords != nil {
		p = *o.Coords
		if p.X < 0 || p.X >= w || p.Y < 0 || p.Y >= h {
			return color.NRGBA{}, fmt.Errorf("sample coordinate (%d,%d) outside image bounds %dx%d", p.X, p.Y, w, h)
		}
	} else {
		switch o.Anchor {
		case "topleft":
			p = image.Point{X: 1, Y: 1}
		case "topright":
			p = image.Point{X: w - 2, Y: 1}
		case "bottomleft":
			p = image.Point{X: 1, Y: h - 2}
		case "bottomright":
			p = image.Point{X: w - 2, Y: h - 2}
		case "top":
			p = image.Point{X: w / 2, Y: 1}
		case "bottom":
			p = image.Point{X: w / 2, Y: h - 2}
		case "left":
			p = image.Point{X: 1, Y: h / 2}
		case "right":
			p = image.Point{X: w - 2, Y: h / 2}
		}
	}

	c := color.NRGBAModel.Convert(img.At(bounds.Min.X+p.X, bounds.Min.Y+p.Y)).(color.NRGBA)
	return c, nil
}
