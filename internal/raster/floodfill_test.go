package raster

import (
	"image"
	"image/color"
	"testing"
)

// halvesImage creates an image with the left half one color and the right
// half another.
func halvesImage(width, height int, left, right color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x < width/2 {
				img.SetNRGBA(x, y, left)
			} else {
				img.SetNRGBA(x, y, right)
			}
		}
	}
	return img
}

func TestFloodFill_Uniform(t *testing.T) {
	img := fillImage(10, 8, color.NRGBA{50, 50, 50, 255})
	mask := FloodFill(img, image.Pt(0, 0), 0)

	for y := 0; y < 8; y++ {
		for x := 0; x < 10; x++ {
			if !mask[y][x] {
				t.Fatalf("uniform image should fill entirely, (%d,%d) unreached", x, y)
			}
		}
	}
}

func TestFloodFill_StopsAtBoundary(t *testing.T) {
	white := color.NRGBA{255, 255, 255, 255}
	black := color.NRGBA{0, 0, 0, 255}
	img := halvesImage(10, 6, white, black)

	mask := FloodFill(img, image.Pt(0, 0), 0)

	for y := 0; y < 6; y++ {
		for x := 0; x < 10; x++ {
			want := x < 5
			if mask[y][x] != want {
				t.Fatalf("mask at (%d,%d): got %v, want %v", x, y, mask[y][x], want)
			}
		}
	}
}

func TestFloodFill_Fuzz(t *testing.T) {
	// Two nearly identical halves merge under a generous fuzz.
	a := color.NRGBA{100, 100, 100, 255}
	b := color.NRGBA{103, 100, 100, 255}
	img := halvesImage(10, 6, a, b)

	mask := FloodFill(img, image.Pt(0, 0), 10)
	if !mask[3][8] {
		t.Error("fuzzy fill should cross a small color step")
	}

	mask = FloodFill(img, image.Pt(0, 0), 0)
	if mask[3][8] {
		t.Error("exact fill should stop at any color step")
	}
}

func TestContentBox(t *testing.T) {
	mask := make([][]bool, 10)
	for y := range mask {
		mask[y] = make([]bool, 12)
	}
	mask[2][3] = true
	mask[7][9] = true
	mask[4][5] = true

	box := ContentBox(mask)
	want := image.Rect(3, 2, 10, 8)
	if box != want {
		t.Errorf("content box: got %v, want %v", box, want)
	}
}

func TestContentBox_Empty(t *testing.T) {
	mask := make([][]bool, 5)
	for y := range mask {
		mask[y] = make([]bool, 5)
	}
	if box := ContentBox(mask); !box.Empty() {
		t.Errorf("empty mask should give an empty box, got %v", box)
	}
}

func TestInvertMask(t *testing.T) {
	mask := [][]bool{{true, false}, {false, true}}
	inv := InvertMask(mask)
	if inv[0][0] || !inv[0][1] || !inv[1][0] || inv[1][1] {
		t.Errorf("inverted mask wrong: %v", inv)
	}
	// Original untouched.
	if !mask[0][0] {
		t.Error("InvertMask should not modify its input")
	}
}

func TestPadBorder(t *testing.T) {
	inner := color.NRGBA{200, 10, 10, 255}
	pad := color.NRGBA{0, 0, 255, 255}
	img := fillImage(4, 3, inner)

	out := PadBorder(img, 2, pad)

	if got := out.Bounds(); got.Dx() != 8 || got.Dy() != 7 {
		t.Fatalf("padded size: got %dx%d, want 8x7", got.Dx(), got.Dy())
	}
	if got := out.NRGBAAt(0, 0); got != pad {
		t.Errorf("corner should be padding color, got %v", got)
	}
	if got := out.NRGBAAt(2, 2); got != inner {
		t.Errorf("offset original pixel: got %v, want %v", got, inner)
	}
}
