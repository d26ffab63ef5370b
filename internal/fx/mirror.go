package fx

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/disintegration/imaging"
)

// MirrorRegions lists the accepted region selectors: the four half selectors
// and the four quadrant selectors.
var MirrorRegions = []string{
	"north", "south", "east", "west",
	"northwest", "northeast", "southwest", "southeast",
}

// ValidMirrorRegion reports whether region is one of MirrorRegions.
func ValidMirrorRegion(region string) bool {
	for _, r := range MirrorRegions {
		if r == region {
			return true
		}
	}
	return false
}

// Mirror reflects the selected half or quadrant of an image into the
// complementary region(s).
//
// Halves split at floor(dimension/2); the selected half is flipped across the
// split axis and concatenated with itself, so an odd dimension loses one
// pixel. Quadrant selectors assemble the quadrant together with its
// horizontal flip, vertical flip and 180 degree rotation in the layout that
// mirrors consistently around the chosen corner.
//
// All assembly is pure pixel copying; no interpolation is involved.
func Mirror(img image.Image, region string) (image.Image, error) {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	mx := w / 2
	my := h / 2

	crop := func(x0, y0, x1, y1 int) *image.NRGBA {
		return imaging.Crop(img, image.Rect(bounds.Min.X+x0, bounds.Min.Y+y0, bounds.Min.X+x1, bounds.Min.Y+y1))
	}

	switch region {
	case "west":
		half := crop(0, 0, mx, h)
		return assemble(2*mx, h, placement{half, 0, 0}, placement{imaging.FlipH(half), mx, 0}), nil
	case "east":
		half := crop(w-mx, 0, w, h)
		return assemble(2*mx, h, placement{imaging.FlipH(half), 0, 0}, placement{half, mx, 0}), nil
	case "north":
		half := crop(0, 0, w, my)
		return assemble(w, 2*my, placement{half, 0, 0}, placement{imaging.FlipV(half), 0, my}), nil
	case "south":
		half := crop(0, h-my, w, h)
		return assemble(w, 2*my, placement{imaging.FlipV(half), 0, 0}, placement{half, 0, my}), nil
	case "northwest":
		q := crop(0, 0, mx, my)
		return assemble(2*mx, 2*my,
			placement{q, 0, 0}, placement{imaging.FlipH(q), mx, 0},
			placement{imaging.FlipV(q), 0, my}, placement{imaging.Rotate180(q), mx, my}), nil
	case "northeast":
		q := crop(w-mx, 0, w, my)
		return assemble(2*mx, 2*my,
			placement{imaging.FlipH(q), 0, 0}, placement{q, mx, 0},
			placement{imaging.Rotate180(q), 0, my}, placement{imaging.FlipV(q), mx, my}), nil
	case "southwest":
		q := crop(0, h-my, mx, h)
		return assemble(2*mx, 2*my,
			placement{imaging.FlipV(q), 0, 0}, placement{imaging.Rotate180(q), mx, 0},
			placement{q, 0, my}, placement{imaging.FlipH(q), mx, my}), nil
	case "southeast":
		q := crop(w-mx, h-my, w, h)
		return assemble(2*mx, 2*my,
			placement{imaging.Rotate180(q), 0, 0}, placement{imaging.FlipV(q), mx, 0},
			placement{imaging.FlipH(q), 0, my}, placement{q, mx, my}), nil
	default:
		return nil, fmt.Errorf("unknown region %q", region)
	}
}

// placement positions a piece at an offset in the assembled output.
type placement struct {
	img  image.Image
	x, y int
}

// assemble draws the pieces onto a fresh canvas of the given size.
func assemble(w, h int, pieces ...placement) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for _, p := range pieces {
		b := p.img.Bounds()
		draw.Draw(out, image.Rect(p.x, p.y, p.x+b.Dx(), p.y+b.Dy()), p.img, b.Min, draw.Src)
	}
	return out
}
