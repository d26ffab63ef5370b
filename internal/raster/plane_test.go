package raster

import (
	"image"
	"image/color"
	"math"
	"testing"
)

// fillImage creates a uniformly colored test image.
func fillImage(width, height int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestToGray_Weights(t *testing.T) {
	tests := []struct {
		name string
		c    color.NRGBA
		want float64
	}{
		{"red", color.NRGBA{255, 0, 0, 255}, 0.299},
		{"green", color.NRGBA{0, 255, 0, 255}, 0.587},
		{"blue", color.NRGBA{0, 0, 255, 255}, 0.114},
		{"white", color.NRGBA{255, 255, 255, 255}, 1.0},
		{"black", color.NRGBA{0, 0, 0, 255}, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ToGray(fillImage(4, 4, tt.c))
			if got := p[2][2]; math.Abs(got-tt.want) > 0.01 {
				t.Errorf("gray value: got %g, want %g", got, tt.want)
			}
		})
	}
}

func TestSplitMerge_RoundTrip(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 5, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 5; x++ {
			src.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 50), G: uint8(y * 80), B: uint8(x*y + 10), A: uint8(200 + x),
			})
		}
	}

	r, g, b, a := Split(src)
	out := Merge(r, g, b, a)

	if out.Bounds() != src.Bounds() {
		t.Fatalf("bounds: got %v, want %v", out.Bounds(), src.Bounds())
	}
	for y := 0; y < 3; y++ {
		for x := 0; x < 5; x++ {
			if out.NRGBAAt(x, y) != src.NRGBAAt(x, y) {
				t.Fatalf("pixel (%d,%d): got %v, want %v", x, y, out.NRGBAAt(x, y), src.NRGBAAt(x, y))
			}
		}
	}
}

func TestMerge_NilAlpha(t *testing.T) {
	p := NewPlane(3, 3)
	out := Merge(p, p, p, nil)
	if got := out.NRGBAAt(1, 1).A; got != 255 {
		t.Errorf("alpha with nil plane: got %d, want 255", got)
	}
}

func TestMerge_Clamps(t *testing.T) {
	p := NewPlane(2, 2)
	p[0][0] = -0.5
	p[0][1] = 1.5
	out := Merge(p, p, p, nil)
	if got := out.NRGBAAt(0, 0).R; got != 0 {
		t.Errorf("negative sample: got %d, want 0", got)
	}
	if got := out.NRGBAAt(1, 0).R; got != 255 {
		t.Errorf("overflowing sample: got %d, want 255", got)
	}
}

func TestNormalize(t *testing.T) {
	p := NewPlane(2, 2)
	p[0][0] = 0.2
	p[0][1] = 0.4
	p[1][0] = 0.6
	p[1][1] = 0.6

	n := Normalize(p)
	if math.Abs(n[0][0]) > 1e-9 {
		t.Errorf("minimum should map to 0, got %g", n[0][0])
	}
	if math.Abs(n[1][0]-1) > 1e-9 {
		t.Errorf("maximum should map to 1, got %g", n[1][0])
	}
	if math.Abs(n[0][1]-0.5) > 1e-9 {
		t.Errorf("midpoint should map to 0.5, got %g", n[0][1])
	}
}

func TestNormalize_ConstantPlane(t *testing.T) {
	p := NewPlane(3, 3)
	for y := range p {
		for x := range p[y] {
			p[y][x] = 0.42
		}
	}
	n := Normalize(p)
	if n[1][1] != 0.42 {
		t.Errorf("constant plane should pass through, got %g", n[1][1])
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, want int
	}{
		{5, 0, 10, 5},
		{-3, 0, 10, 0},
		{15, 0, 10, 10},
		{0, 0, 10, 0},
		{10, 0, 10, 10},
	}
	for _, tt := range tests {
		if got := Clamp(tt.val, tt.min, tt.max); got != tt.want {
			t.Errorf("Clamp(%d, %d, %d): got %d, want %d", tt.val, tt.min, tt.max, got, tt.want)
		}
	}
}

func TestClamp01(t *testing.T) {
	if got := Clamp01(-0.1); got != 0 {
		t.Errorf("Clamp01(-0.1): got %g, want 0", got)
	}
	if got := Clamp01(1.1); got != 1 {
		t.Errorf("Clamp01(1.1): got %g, want 1", got)
	}
	if got := Clamp01(0.5); got != 0.5 {
		t.Errorf("Clamp01(0.5): got %g, want 0.5", got)
	}
}
