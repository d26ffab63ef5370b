package raster

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// ParseColor parses a user-supplied color specification.
//
// Accepted forms:
//   - "#RRGGBB" or "RRGGBB" hex
//   - "#RRGGBBAA" or "RRGGBBAA" hex with alpha
//   - "r,g,b" decimal components, each 0-255
//
// Returns an error for anything else.
func ParseColor(spec string) (color.NRGBA, error) {
	if spec == "" {
		return color.NRGBA{}, fmt.Errorf("empty color string")
	}

	if strings.Contains(spec, ",") {
		parts := strings.Split(spec, ",")
		if len(parts) != 3 {
			return color.NRGBA{}, fmt.Errorf("color %q: want r,g,b", spec)
		}
		var comp [3]uint8
		for i, p := range parts {
			v, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil || v < 0 || v > 255 {
				return color.NRGBA{}, fmt.Errorf("color %q: component %q out of range 0-255", spec, p)
			}
			comp[i] = uint8(v)
		}
		return color.NRGBA{R: comp[0], G: comp[1], B: comp[2], A: 255}, nil
	}

	return parseHexColor(spec)
}

// parseHexColor parses a hex color string like "#FF0000" or "#FF000080".
func parseHexColor(hex string) (color.NRGBA, error) {
	if hex[0] == '#' {
		hex = hex[1:]
	}

	var r, g, b, a uint8 = 0, 0, 0, 255

	switch len(hex) {
	case 6:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid hex color %q", hex)
		}
		r = uint8(val >> 16)
		g = uint8(val >> 8)
		b = uint8(val)
	case 8:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid hex color %q", hex)
		}
		r = uint8(val >> 24)
		g = uint8(val >> 16)
		b = uint8(val >> 8)
		a = uint8(val)
	default:
		return color.NRGBA{}, fmt.Errorf("invalid hex color length in %q", hex)
	}

	return color.NRGBA{R: r, G: g, B: b, A: a}, nil
}

// ColorDistance returns the perceptual distance between two colors as a CIE
// Lab delta-E fraction in [0, ~1.5].
//
// Fully transparent pixels carry no color information, so two of them are at
// distance 0 and a transparent pixel is at maximum distance from any opaque
// one.
//
// Fuzz tolerances compare against ColorDistance(a, b) <= fuzz/100.
func ColorDistance(a, b color.Color) float64 {
	ca, aok := colorful.MakeColor(a)
	cb, bok := colorful.MakeColor(b)
	if !aok || !bok {
		if aok == bok {
			return 0
		}
		return 1
	}
	return ca.DistanceLab(cb)
}

// WithinFuzz reports whether two colors match under a percentage fuzz
// tolerance. Fuzz 0 requires exact 8-bit equality.
func WithinFuzz(a, b color.Color, fuzz float64) bool {
	if fuzz <= 0 {
		ar, ag, ab, aa := a.RGBA()
		br, bg, bb, ba := b.RGBA()
		return ar>>8 == br>>8 && ag>>8 == bg>>8 && ab>>8 == bb>>8 && aa>>8 == ba>>8
	}
	return ColorDistance(a, b) <= fuzz/100.0
}
