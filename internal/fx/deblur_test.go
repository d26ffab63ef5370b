package fx

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/imagefx/filters/internal/raster"
)

func TestSinc(t *testing.T) {
	if got := sinc(0); got != 1 {
		t.Errorf("sinc(0): got %g, want 1", got)
	}
	if got := sinc(math.Pi); math.Abs(got) > 1e-12 {
		t.Errorf("sinc(pi): got %g, want 0", got)
	}
	if got := sinc(math.Pi / 2); math.Abs(got-2/math.Pi) > 1e-12 {
		t.Errorf("sinc(pi/2): got %g, want %g", got, 2/math.Pi)
	}
}

func TestJinc(t *testing.T) {
	if got := jinc(0); got != 1 {
		t.Errorf("jinc(0): got %g, want 1", got)
	}
	// jinc decays from its peak at the origin.
	if got := jinc(2); got >= 1 || got <= 0 {
		t.Errorf("jinc(2): got %g, want a value in (0, 1)", got)
	}
}

func TestBesselJ1(t *testing.T) {
	// Reference values from tabulated J1.
	tests := []struct {
		z, want float64
	}{
		{0.0, 0.0},
		{1.0, 0.4400505857},
		{2.0, 0.5767248078},
		{3.0, 0.3390589585},
		{5.0, -0.3275791376},
		{10.0, 0.0434727462},
	}
	for _, tt := range tests {
		if got := besselJ1(tt.z); math.Abs(got-tt.want) > 1e-5 {
			t.Errorf("J1(%g): got %g, want %g", tt.z, got, tt.want)
		}
	}
}

func TestSignedFreq(t *testing.T) {
	tests := []struct {
		i, n int
		want float64
	}{
		{0, 8, 0},
		{1, 8, 0.125},
		{4, 8, 0.5},
		{5, 8, -0.375},
		{7, 8, -0.125},
	}
	for _, tt := range tests {
		if got := signedFreq(tt.i, tt.n); got != tt.want {
			t.Errorf("signedFreq(%d, %d): got %g, want %g", tt.i, tt.n, got, tt.want)
		}
	}
}

func TestMotionFilter_FastMatchesSlow(t *testing.T) {
	for _, rotation := range []float64{0, 37, 90, -90, 180} {
		slow := motionFilter(16, 3, rotation, MethodSlow)
		fast := motionFilter(16, 3, rotation, MethodFast)
		for y := range slow {
			for x := range slow[y] {
				if diff := math.Abs(slow[y][x] - fast[y][x]); diff > 1e-12 {
					t.Fatalf("rotation %g: filters differ at (%d,%d) by %g", rotation, x, y, diff)
				}
			}
		}
	}
}

func TestDefocusFilter_FastApproximatesSlow(t *testing.T) {
	slow := defocusFilter(32, 4, MethodSlow)
	fast := defocusFilter(32, 4, MethodFast)
	for y := range slow {
		for x := range slow[y] {
			if diff := math.Abs(slow[y][x] - fast[y][x]); diff > 0.05 {
				t.Fatalf("filters differ at (%d,%d) by %g", x, y, diff)
			}
		}
	}
}

// TestDeblurPlane_RoundTrip blurs a plane in the frequency domain and checks
// that zero-noise deconvolution with the same filter restores it. The motion
// length stays below 2 so the filter has no nulls inside the frequency band.
func TestDeblurPlane_RoundTrip(t *testing.T) {
	const n = 16
	orig := raster.NewPlane(n, n)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			orig[y][x] = 0.5 + 0.3*math.Sin(float64(x)*0.7) + 0.2*math.Cos(float64(y)*1.1)
		}
	}

	filter := motionFilter(n, 1.5, 0, MethodSlow)

	blurred := raster.NewPlane(n, n)
	grid := make([][]complex128, n)
	for y := 0; y < n; y++ {
		grid[y] = make([]complex128, n)
		for x := 0; x < n; x++ {
			grid[y][x] = complex(orig[y][x], 0)
		}
	}
	fft2(grid)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			grid[y][x] *= complex(filter[y][x], 0)
		}
	}
	ifft2(grid)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			blurred[y][x] = real(grid[y][x])
		}
	}

	deblurPlane(blurred, filter, n, 0)

	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			if diff := math.Abs(blurred[y][x] - orig[y][x]); diff > 1e-9 {
				t.Fatalf("restored plane differs at (%d,%d) by %g", x, y, diff)
			}
		}
	}
}

func TestDeblur_PreservesShapeAndAlpha(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 20, 14))
	for y := 0; y < 14; y++ {
		for x := 0; x < 20; x++ {
			src.SetNRGBA(x, y, color.NRGBA{uint8(x * 12), uint8(y * 18), 60, 255})
		}
	}

	out, err := Deblur(src, DeblurOptions{
		Type: BlurMotion, Amount: 2, Rotation: 30, Noise: 0.01, Method: MethodFast,
	})
	if err != nil {
		t.Fatalf("Deblur failed: %v", err)
	}
	if b := out.Bounds(); b.Dx() != 20 || b.Dy() != 14 {
		t.Errorf("size: got %dx%d, want 20x14", b.Dx(), b.Dy())
	}
	if got := pix(out, 10, 7).A; got != 255 {
		t.Errorf("alpha should pass through, got %d", got)
	}
}

func TestDeblur_FastDefocusRequiresSquare(t *testing.T) {
	src := uniformImage(20, 10, color.NRGBA{128, 128, 128, 255})
	_, err := Deblur(src, DeblurOptions{
		Type: BlurDefocus, Amount: 3, Noise: 0.01, Method: MethodFast,
	})
	if err == nil {
		t.Error("fast defocus should reject a non-square image")
	}

	// The slow path has no such restriction.
	if _, err := Deblur(src, DeblurOptions{
		Type: BlurDefocus, Amount: 3, Noise: 0.01, Method: MethodSlow,
	}); err != nil {
		t.Errorf("slow defocus on a non-square image failed: %v", err)
	}
}

func TestDeblurOptions_Validate(t *testing.T) {
	valid := DeblurOptions{Type: BlurMotion, Amount: 5, Rotation: 45, Noise: 0.01, Method: MethodFast}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid options rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*DeblurOptions)
	}{
		{"unknown type", func(o *DeblurOptions) { o.Type = "zoom" }},
		{"zero amount", func(o *DeblurOptions) { o.Amount = 0 }},
		{"negative amount", func(o *DeblurOptions) { o.Amount = -1 }},
		{"rotation out of range", func(o *DeblurOptions) { o.Rotation = 400 }},
		{"negative noise", func(o *DeblurOptions) { o.Noise = -0.1 }},
		{"unknown method", func(o *DeblurOptions) { o.Method = "medium" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := valid
			tt.mutate(&o)
			if err := o.Validate(); err == nil {
				t.Error("Validate should fail")
			}
		})
	}
}
