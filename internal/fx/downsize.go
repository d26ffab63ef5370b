package fx

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"math"
	"os"

	"github.com/nfnt/resize"

	"github.com/imagefx/filters/internal/raster"
)

// Copy-through policies for sources that already fit the size target.
const (
	CopyAuto  = "auto"
	CopyForce = "force"
	CopyOff   = "off"
)

// downsizeMaxIterations caps the rescale/re-encode loop. The ratio-based
// rescaling normally converges within 2-3 iterations, but codec behavior is
// not guaranteed monotonic.
const downsizeMaxIterations = 10

// DownsizeOptions configures iterative size-targeted resizing.
type DownsizeOptions struct {
	// TargetKB is the desired output size in kilobytes.
	TargetKB int

	// TolerancePct allows the result to exceed the target by this percentage.
	TolerancePct float64

	// CopyMode gates copy-through when the source already fits the target:
	// CopyAuto copies the original bytes only when the output format matches
	// the input format (re-encoding otherwise), CopyForce always copies, and
	// CopyOff always re-encodes.
	CopyMode string
}

// Validate checks option ranges before any file I/O.
func (o *DownsizeOptions) Validate() error {
	if o.TargetKB <= 0 {
		return fmt.Errorf("size must be positive, got %d KB", o.TargetKB)
	}
	if o.TolerancePct < 0 {
		return fmt.Errorf("tolerance must be non-negative, got %g", o.TolerancePct)
	}
	switch o.CopyMode {
	case CopyAuto, CopyForce, CopyOff:
	default:
		return fmt.Errorf("copy mode must be %q, %q or %q, got %q", CopyAuto, CopyForce, CopyOff, o.CopyMode)
	}
	return nil
}

// DownsizeResult reports how the size target was reached.
type DownsizeResult struct {
	// Converged is false when the iteration cap was hit before reaching the
	// tolerance; the smallest attempt is still written as a best effort.
	Converged bool

	// Iterations is the number of rescale/re-encode passes performed.
	Iterations int

	// FinalBytes is the size of the written output.
	FinalBytes int64

	// Copied is true when the original file bytes were copied through
	// unchanged instead of re-encoded.
	Copied bool
}

// Downsize resizes img until its encoded size fits targetKB (plus tolerance)
// and writes the result to dstPath in the format implied by that path.
//
// The source is first re-encoded to the output format and measured, since
// compression ratio depends on the codec. While over the limit, the image is
// rescaled by the uniform factor sqrt(target/current) and re-measured, up to
// downsizeMaxIterations passes. A source that already fits is handled by the
// copy policy (see DownsizeOptions.CopyMode): copy-through reuses the bytes
// of srcPath without decoding loss.
func Downsize(img image.Image, srcPath, dstPath string, o DownsizeOptions) (*DownsizeResult, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	outFormat, err := raster.FormatForPath(dstPath)
	if err != nil {
		return nil, err
	}

	target := int64(o.TargetKB) * 1024
	limit := int64(float64(target) * (1 + o.TolerancePct/100))

	encoded, err := encodeToBuffer(img, outFormat)
	if err != nil {
		return nil, err
	}

	if int64(len(encoded)) <= limit {
		copied, err := copyThrough(srcPath, dstPath, outFormat, o.CopyMode)
		if err != nil {
			return nil, err
		}
		if copied {
			stat, err := os.Stat(dstPath)
			if err != nil {
				return nil, fmt.Errorf("failed to stat output: %w", err)
			}
			return &DownsizeResult{Converged: true, FinalBytes: stat.Size(), Copied: true}, nil
		}
		if err := os.WriteFile(dstPath, encoded, 0o644); err != nil {
			return nil, fmt.Errorf("failed to write output: %w", err)
		}
		return &DownsizeResult{Converged: true, FinalBytes: int64(len(encoded))}, nil
	}

	current := img
	best := encoded
	res := &DownsizeResult{}

	for res.Iterations < downsizeMaxIterations {
		res.Iterations++

		scale := math.Sqrt(float64(target) / float64(len(encoded)))
		w := int(float64(current.Bounds().Dx())*scale + 0.5)
		h := int(float64(current.Bounds().Dy())*scale + 0.5)
		if w < 1 {
			w = 1
		}
		if h < 1 {
			h = 1
		}

		current = resize.Resize(uint(w), uint(h), current, resize.Lanczos3)
		encoded, err = encodeToBuffer(current, outFormat)
		if err != nil {
			return nil, err
		}
		if len(encoded) < len(best) {
			best = encoded
		}
		if int64(len(encoded)) <= limit {
			res.Converged = true
			break
		}
	}

	if err := os.WriteFile(dstPath, best, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write output: %w", err)
	}
	res.FinalBytes = int64(len(best))
	return res, nil
}

// copyThrough decides whether the original file bytes can be reused and, if
// so, copies srcPath to dstPath verbatim.
func copyThrough(srcPath, dstPath, outFormat, mode string) (bool, error) {
	if mode == CopyOff {
		return false, nil
	}
	if mode == CopyAuto {
		inFormat, err := raster.FormatForPath(srcPath)
		if err != nil || inFormat != outFormat {
			return false, nil
		}
	}

	src, err := os.Open(srcPath)
	if err != nil {
		return false, fmt.Errorf("failed to open source for copy: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(dstPath)
	if err != nil {
		return false, fmt.Errorf("failed to create output file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return false, fmt.Errorf("failed to copy: %w", err)
	}
	return true, nil
}

// encodeToBuffer encodes an image to memory so the byte size can be measured.
func encodeToBuffer(img image.Image, format string) ([]byte, error) {
	var buf bytes.Buffer
	if err := raster.Encode(&buf, img, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
