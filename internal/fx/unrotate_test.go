package fx

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/disintegration/imaging"
)

// rectOnCanvas creates a white canvas with a centered black rectangle, the
// kind of scan the rotation estimate is designed for.
func rectOnCanvas(canvasW, canvasH, rectW, rectH int) *image.NRGBA {
	img := uniformImage(canvasW, canvasH, color.NRGBA{255, 255, 255, 255})
	x0 := (canvasW - rectW) / 2
	y0 := (canvasH - rectH) / 2
	for y := y0; y < y0+rectH; y++ {
		for x := x0; x < x0+rectW; x++ {
			img.SetNRGBA(x, y, color.NRGBA{0, 0, 0, 255})
		}
	}
	return img
}

func TestEstimateRotation_Straight(t *testing.T) {
	img := rectOnCanvas(200, 200, 120, 60)
	res, err := EstimateRotation(img, UnrotateOptions{Fuzz: 10, Anchor: "topleft"})
	if err != nil {
		t.Fatalf("EstimateRotation failed: %v", err)
	}
	if res.Angle != 0 {
		t.Errorf("straight content: got %g degrees, want 0", res.Angle)
	}
	if res.Border != (color.NRGBA{255, 255, 255, 255}) {
		t.Errorf("border color: got %v, want white", res.Border)
	}
}

func TestEstimateRotation_TiltedRect(t *testing.T) {
	img := rectOnCanvas(200, 200, 120, 60)
	tilted := imaging.Rotate(img, 10, color.NRGBA{255, 255, 255, 255})

	res, err := EstimateRotation(tilted, UnrotateOptions{Fuzz: 10, Anchor: "topleft"})
	if err != nil {
		t.Fatalf("EstimateRotation failed: %v", err)
	}
	if math.Abs(res.Angle-10) > 1.0 {
		t.Errorf("angle: got %g, want about 10", res.Angle)
	}
}

func TestEstimateRotation_QuarterTurnAmbiguity(t *testing.T) {
	// Tilts of t and t-90 are indistinguishable; both report the same
	// magnitude.
	img := rectOnCanvas(200, 200, 120, 60)
	white := color.NRGBA{255, 255, 255, 255}

	a, err := EstimateRotation(imaging.Rotate(img, 10, white), UnrotateOptions{Fuzz: 10, Anchor: "topleft"})
	if err != nil {
		t.Fatalf("EstimateRotation failed: %v", err)
	}
	b, err := EstimateRotation(imaging.Rotate(img, -80, white), UnrotateOptions{Fuzz: 10, Anchor: "topleft"})
	if err != nil {
		t.Fatalf("EstimateRotation failed: %v", err)
	}
	if math.Abs(math.Abs(a.Angle)-math.Abs(b.Angle)) > 1.0 {
		t.Errorf("ambiguous tilts should report equal magnitude: %g vs %g", a.Angle, b.Angle)
	}
}

func TestUnrotate_RecoversContent(t *testing.T) {
	img := rectOnCanvas(220, 220, 120, 60)
	tilted := imaging.Rotate(img, 10, color.NRGBA{255, 255, 255, 255})

	out, res, err := Unrotate(tilted, UnrotateOptions{Fuzz: 10, Anchor: "topleft"})
	if err != nil {
		t.Fatalf("Unrotate failed: %v", err)
	}
	if math.Abs(res.Angle-10) > 1.0 {
		t.Errorf("angle: got %g, want about 10", res.Angle)
	}

	// The upright crop closes in on the original rectangle.
	b := out.Bounds()
	if math.Abs(float64(b.Dx()-120)) > 8 || math.Abs(float64(b.Dy()-60)) > 8 {
		t.Errorf("cropped size: got %dx%d, want about 120x60", b.Dx(), b.Dy())
	}
}

func TestUnrotate_AngleOverride(t *testing.T) {
	img := rectOnCanvas(200, 200, 120, 60)
	zero := 0.0

	out, _, err := Unrotate(img, UnrotateOptions{Fuzz: 10, Anchor: "topleft", Angle: &zero})
	if err != nil {
		t.Fatalf("Unrotate failed: %v", err)
	}
	if b := out.Bounds(); b.Dx() != 120 || b.Dy() != 60 {
		t.Errorf("cropped size: got %dx%d, want 120x60", b.Dx(), b.Dy())
	}
	// Straight content cropped without rotation keeps its exact pixels.
	if got := pix(out, 0, 0); got != (color.NRGBA{0, 0, 0, 255}) {
		t.Errorf("content corner: got %v, want black", got)
	}
}

func TestUnrotate_Trim(t *testing.T) {
	img := rectOnCanvas(200, 200, 120, 60)
	zero := 0.0

	out, _, err := Unrotate(img, UnrotateOptions{
		Fuzz: 10, Anchor: "topleft", Angle: &zero,
		TrimLeft: 5, TrimRight: 3, TrimTop: 2, TrimBottom: 1,
	})
	if err != nil {
		t.Fatalf("Unrotate failed: %v", err)
	}
	if b := out.Bounds(); b.Dx() != 112 || b.Dy() != 57 {
		t.Errorf("trimmed size: got %dx%d, want 112x57", b.Dx(), b.Dy())
	}
}

func TestEstimateRotation_CoordsSample(t *testing.T) {
	img := rectOnCanvas(200, 200, 120, 60)
	pt := image.Pt(5, 5)

	res, err := EstimateRotation(img, UnrotateOptions{Fuzz: 10, Coords: &pt})
	if err != nil {
		t.Fatalf("EstimateRotation failed: %v", err)
	}
	if res.Border != (color.NRGBA{255, 255, 255, 255}) {
		t.Errorf("border color: got %v, want white", res.Border)
	}
}

func TestEstimateRotation_CoordsOutOfBounds(t *testing.T) {
	img := rectOnCanvas(50, 50, 20, 10)
	pt := image.Pt(50, 10)
	if _, err := EstimateRotation(img, UnrotateOptions{Fuzz: 10, Coords: &pt}); err == nil {
		t.Error("out-of-bounds sample coordinate should fail")
	}
}

func TestEstimateRotation_NoContent(t *testing.T) {
	img := uniformImage(50, 50, color.NRGBA{255, 255, 255, 255})
	if _, err := EstimateRotation(img, UnrotateOptions{Fuzz: 10, Anchor: "topleft"}); err == nil {
		t.Error("an image with no content should fail")
	}
}

func TestUnrotateOptions_Validate(t *testing.T) {
	bad := 60.0
	tests := []struct {
		name string
		o    UnrotateOptions
	}{
		{"unknown anchor", UnrotateOptions{Anchor: "middle"}},
		{"fuzz out of range", UnrotateOptions{Anchor: "top", Fuzz: 101}},
		{"angle out of range", UnrotateOptions{Anchor: "top", Angle: &bad}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.o.Validate(); err == nil {
				t.Error("Validate should fail")
			}
		})
	}

	ok := UnrotateOptions{Anchor: "bottomright", Fuzz: 15}
	if err := ok.Validate(); err != nil {
		t.Errorf("valid options rejected: %v", err)
	}
}
