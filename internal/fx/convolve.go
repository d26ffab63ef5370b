package fx

import (
	"github.com/imagefx/filters/internal/raster"
)

// Directional 3x3 gradient kernels (Sobel operators). The horizontal kernel
// responds to vertical edges and vice versa.
var (
	kernelGradX = [3][3]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	kernelGradY = [3][3]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}
)

// convolve3x3 applies a 3x3 kernel to a float plane with clamped (replicated)
// borders and returns a new plane of the same dimensions.
func convolve3x3(p [][]float64, kernel [3][3]float64) [][]float64 {
	height := len(p)
	if height == 0 {
		return nil
	}
	width := len(p[0])

	out := raster.NewPlane(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var sum float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					py := raster.Clamp(y+ky, 0, height-1)
					px := raster.Clamp(x+kx, 0, width-1)
					sum += p[py][px] * kernel[ky+1][kx+1]
				}
			}
			out[y][x] = sum
		}
	}
	return out
}
