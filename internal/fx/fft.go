package fx

import (
	"gonum.org/v1/gonum/dsp/fourier"
)

// fft2 computes the forward 2-D DFT of an n x n complex grid in place,
// transforming rows first and then columns.
func fft2(grid [][]complex128) {
	n := len(grid)
	fft := fourier.NewCmplxFFT(n)

	for y := 0; y < n; y++ {
		fft.Coefficients(grid[y], grid[y])
	}

	col := make([]complex128, n)
	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			col[y] = grid[y][x]
		}
		fft.Coefficients(col, col)
		for y := 0; y < n; y++ {
			grid[y][x] = col[y]
		}
	}
}

// ifft2 computes the inverse 2-D DFT of an n x n complex grid in place,
// including the 1/n^2 normalization so fft2 followed by ifft2 is the
// identity up to floating-point error.
func ifft2(grid [][]complex128) {
	n := len(grid)
	fft := fourier.NewCmplxFFT(n)

	for y := 0; y < n; y++ {
		fft.Sequence(grid[y], grid[y])
	}

	col := make([]complex128, n)
	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			col[y] = grid[y][x]
		}
		fft.Sequence(col, col)
		for y := 0; y < n; y++ {
			grid[y][x] = col[y]
		}
	}

	scale := complex(1.0/float64(n*n), 0)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			grid[y][x] *= scale
		}
	}
}
