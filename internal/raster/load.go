package raster

import (
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mdouchement/hdr"
	"github.com/mdouchement/hdr/codec/rgbe"
	"github.com/mdouchement/hdr/hdrcolor"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	_ "golang.org/x/image/webp" // Register WebP format decoder (decode only)
)

// jpegQuality is the encoding quality used for JPEG output.
const jpegQuality = 92

// Load reads and decodes an image file.
//
// Supported input formats are PNG, JPEG, GIF, TIFF, BMP, WebP and Radiance
// HDR. The format is detected from the file contents, not the extension.
//
// Returns an error if the file does not exist, is empty, or cannot be decoded.
func Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat image: %w", err)
	}
	if stat.Size() == 0 {
		return nil, fmt.Errorf("image file %s is empty", path)
	}

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// FormatForPath maps a file extension to its canonical format name.
//
// Matching is case-insensitive and common aliases collapse to one name
// ("jpg" -> "jpeg", "tif" -> "tiff"). Returns an error for extensions that
// no encoder is registered for.
func FormatForPath(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".png":
		return "png", nil
	case ".jpg", ".jpeg":
		return "jpeg", nil
	case ".gif":
		return "gif", nil
	case ".tif", ".tiff":
		return "tiff", nil
	case ".bmp":
		return "bmp", nil
	case ".hdr":
		return "hdr", nil
	default:
		return "", fmt.Errorf("unsupported output extension %q", ext)
	}
}

// Save encodes an image to the format implied by the destination extension.
//
// See FormatForPath for the recognized extensions. WebP is decode-only and is
// rejected as an output format.
func Save(path string, img image.Image) error {
	format, err := FormatForPath(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if err := Encode(f, img, format); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return nil
}

// Encode writes an image to w in the named format.
//
// The format name follows the canonical names returned by FormatForPath.
func Encode(w io.Writer, img image.Image, format string) error {
	switch format {
	case "png":
		return png.Encode(w, img)
	case "jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: jpegQuality})
	case "gif":
		return gif.Encode(w, img, nil)
	case "tiff":
		return tiff.Encode(w, img, nil)
	case "bmp":
		return bmp.Encode(w, img)
	case "hdr":
		return rgbe.Encode(w, toHDR(img))
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// toHDR converts an image to a float Radiance buffer for RGBE encoding.
func toHDR(img image.Image) hdr.Image {
	bounds := img.Bounds()
	out := hdr.NewRGB(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			out.Set(x, y, hdrcolor.RGB{
				R: float64(r) / 65535.0,
				G: float64(g) / 65535.0,
				B: float64(b) / 65535.0,
			})
		}
	}
	return out
}
