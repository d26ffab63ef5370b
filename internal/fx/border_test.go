package fx

import (
	"image/color"
	"testing"
)

func TestExtendBorder_Dimensions(t *testing.T) {
	src := patternImage(20, 10)
	for _, method := range BorderMethods {
		t.Run(method, func(t *testing.T) {
			out, err := ExtendBorder(src, BorderOptions{Width: 5, Height: 3, Method: method})
			if err != nil {
				t.Fatalf("ExtendBorder failed: %v", err)
			}
			if b := out.Bounds(); b.Dx() != 30 || b.Dy() != 16 {
				t.Errorf("size: got %dx%d, want 30x16", b.Dx(), b.Dy())
			}
		})
	}
}

func TestExtendBorder_OriginalCentered(t *testing.T) {
	src := patternImage(8, 6)
	out, err := ExtendBorder(src, BorderOptions{Width: 4, Height: 4, Method: "edge"})
	if err != nil {
		t.Fatalf("ExtendBorder failed: %v", err)
	}

	for y := 0; y < 6; y++ {
		for x := 0; x < 8; x++ {
			if pix(out, 4+x, 4+y) != pix(src, x, y) {
				t.Fatalf("original pixel (%d,%d) changed", x, y)
			}
		}
	}
}

func TestExtendBorder_EdgeReplicates(t *testing.T) {
	src := patternImage(8, 6)
	out, err := ExtendBorder(src, BorderOptions{Width: 3, Height: 3, Method: "edge"})
	if err != nil {
		t.Fatalf("ExtendBorder failed: %v", err)
	}

	// The corner of the border repeats the nearest original corner pixel.
	if got, want := pix(out, 0, 0), pix(src, 0, 0); got != want {
		t.Errorf("border corner: got %v, want %v", got, want)
	}
	if got, want := pix(out, 13, 11), pix(src, 7, 5); got != want {
		t.Errorf("opposite border corner: got %v, want %v", got, want)
	}
}

func TestExtendBorder_AutoSize(t *testing.T) {
	src := uniformImage(100, 50, color.NRGBA{10, 20, 30, 255})
	out, err := ExtendBorder(src, BorderOptions{Width: -1, Height: -1, Method: "edge"})
	if err != nil {
		t.Fatalf("ExtendBorder failed: %v", err)
	}
	// Default border is 10% of the smaller dimension on every side.
	if b := out.Bounds(); b.Dx() != 110 || b.Dy() != 60 {
		t.Errorf("size: got %dx%d, want 110x60", b.Dx(), b.Dy())
	}
}

func TestExtendBorder_AverageFill(t *testing.T) {
	c := color.NRGBA{40, 90, 160, 255}
	src := uniformImage(10, 10, c)
	out, err := ExtendBorder(src, BorderOptions{Width: 5, Height: 5, Method: "average"})
	if err != nil {
		t.Fatalf("ExtendBorder failed: %v", err)
	}
	// The mean of a uniform image is that color.
	if got := pix(out, 1, 1); got != c {
		t.Errorf("average border: got %v, want %v", got, c)
	}
}

func TestExtendBorder_MagnifyScalesUniformly(t *testing.T) {
	// A square marker on a non-square source must stay square in the
	// magnified backdrop even though the border widens the two dimensions
	// by different ratios.
	src := uniformImage(200, 100, color.NRGBA{0, 0, 0, 255})
	for y := 30; y < 70; y++ {
		for x := 80; x < 120; x++ {
			src.SetNRGBA(x, y, color.NRGBA{255, 255, 255, 255})
		}
	}

	canvas := borderCanvas(src, 10, 10, "magnify")
	if b := canvas.Bounds(); b.Dx() != 220 || b.Dy() != 120 {
		t.Fatalf("canvas size: got %dx%d, want 220x120", b.Dx(), b.Dy())
	}

	minX, minY := 220, 120
	maxX, maxY := -1, -1
	for y := 0; y < 120; y++ {
		for x := 0; x < 220; x++ {
			if canvas.NRGBAAt(x, y).R > 128 {
				if x < minX {
					minX = x
				}
				if y < minY {
					minY = y
				}
				if x > maxX {
					maxX = x
				}
				if y > maxY {
					maxY = y
				}
			}
		}
	}
	if maxX < 0 {
		t.Fatal("marker not found in magnified backdrop")
	}

	mw := maxX - minX + 1
	mh := maxY - minY + 1
	if diff := mw - mh; diff < -2 || diff > 2 {
		t.Errorf("marker distorted: %dx%d, want square", mw, mh)
	}
	// The covering factor is max(220/200, 120/100) = 1.2, so the 40px
	// marker lands near 48px.
	if mw < 45 || mw > 51 {
		t.Errorf("marker width: got %d, want about 48", mw)
	}
}

func TestExtendBorder_Colorize(t *testing.T) {
	src := uniformImage(10, 10, color.NRGBA{0, 0, 0, 255})
	red := color.NRGBA{255, 0, 0, 255}
	out, err := ExtendBorder(src, BorderOptions{
		Width: 4, Height: 4, Method: "edge", Color: &red, ColorPct: 100,
	})
	if err != nil {
		t.Fatalf("ExtendBorder failed: %v", err)
	}
	if got := pix(out, 0, 0); got != red {
		t.Errorf("fully colorized border: got %v, want %v", got, red)
	}
	// The original stays untouched.
	if got := pix(out, 9, 9); (got != color.NRGBA{0, 0, 0, 255}) {
		t.Errorf("original pixel changed: %v", got)
	}
}

func TestExtendBorder_Rim(t *testing.T) {
	src := uniformImage(10, 10, color.NRGBA{200, 200, 200, 255})
	blue := color.NRGBA{0, 0, 255, 255}
	out, err := ExtendBorder(src, BorderOptions{
		Width: 5, Height: 5, Method: "edge", RimColor: &blue, RimThickness: 2,
	})
	if err != nil {
		t.Fatalf("ExtendBorder failed: %v", err)
	}

	// The rim sits just outside the original rectangle.
	if got := pix(out, 4, 10); got != blue {
		t.Errorf("rim pixel: got %v, want %v", got, blue)
	}
	if got := pix(out, 10, 4); got != blue {
		t.Errorf("rim pixel above: got %v, want %v", got, blue)
	}
	// Inside the original there is no rim.
	if got := pix(out, 10, 10); got == blue {
		t.Error("rim leaked into the original region")
	}
}

func TestBorderOptions_Validate(t *testing.T) {
	tests := []struct {
		name string
		o    BorderOptions
	}{
		{"unknown method", BorderOptions{Method: "spiral"}},
		{"negative blur", BorderOptions{Method: "edge", Blur: -1}},
		{"colorpct over 100", BorderOptions{Method: "edge", ColorPct: 150}},
		{"negative rim", BorderOptions{Method: "edge", RimThickness: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.o.Validate(); err == nil {
				t.Error("Validate should fail")
			}
		})
	}

	ok := BorderOptions{Width: 5, Height: 5, Method: "mirror"}
	if err := ok.Validate(); err != nil {
		t.Errorf("valid options rejected: %v", err)
	}
}
