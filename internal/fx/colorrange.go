package fx

import (
	"fmt"
	"image"
	"image/color"
)

// Range combination modes.
const (
	RangeAnd = "and"
	RangeOr  = "or"
)

// LocateOptions describes an axis-aligned box in RGB space by two corner
// colors and the way the per-channel range tests combine.
type LocateOptions struct {
	Begin color.NRGBA
	End   color.NRGBA

	// Mode is RangeAnd (intersection of the per-channel ranges) or RangeOr
	// (union).
	Mode string
}

// Validate checks the combination mode.
func (o *LocateOptions) Validate() error {
	switch o.Mode {
	case RangeAnd, RangeOr:
		return nil
	default:
		return fmt.Errorf("mode must be %q or %q, got %q", RangeAnd, RangeOr, o.Mode)
	}
}

// LocateResult reports how many pixels fell inside the color range.
type LocateResult struct {
	Matched int     `json:"matched"`
	Total   int     `json:"total"`
	Percent float64 `json:"percent"`
}

// channelRange is a per-channel in-range test with sorted bounds.
type channelRange struct {
	lo, hi uint8
}

func newChannelRange(a, b uint8) channelRange {
	if a > b {
		a, b = b, a
	}
	return channelRange{lo: a, hi: b}
}

// matches implements the three-way test: a full [0,255] range always matches,
// equal bounds match only that exact value, and anything else is an inclusive
// two-threshold in-range test.
func (r channelRange) matches(v uint8) bool {
	if r.lo == 0 && r.hi == 255 {
		return true
	}
	if r.lo == r.hi {
		return v == r.lo
	}
	return v >= r.lo && v <= r.hi
}

// LocateColorRange masks the pixels of an image that fall inside the RGB box
// spanned by the two corner colors.
//
// The returned image is the source with non-matching pixels made fully
// transparent; the result reports the matching pixel count and percentage.
// Combining is pixel-wise: RangeAnd requires all three channel tests to pass
// (multiplicative), RangeOr any one of them (saturating add).
func LocateColorRange(img image.Image, o LocateOptions) (image.Image, *LocateResult, error) {
	if err := o.Validate(); err != nil {
		return nil, nil, err
	}

	rRange := newChannelRange(o.Begin.R, o.End.R)
	gRange := newChannelRange(o.Begin.G, o.End.G)
	bRange := newChannelRange(o.Begin.B, o.End.B)

	bounds := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	matched := 0

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)

			inR := rRange.matches(c.R)
			inG := gRange.matches(c.G)
			inB := bRange.matches(c.B)

			var in bool
			if o.Mode == RangeAnd {
				in = inR && inG && inB
			} else {
				in = inR || inG || inB
			}

			if in {
				matched++
			} else {
				c.A = 0
			}
			out.SetNRGBA(x-bounds.Min.X, y-bounds.Min.Y, c)
		}
	}

	total := bounds.Dx() * bounds.Dy()
	res := &LocateResult{Matched: matched, Total: total}
	if total > 0 {
		res.Percent = float64(matched) / float64(total) * 100
	}
	return out, res, nil
}
