package pixel

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// BlockSize is the inferred size, in pixels, of one logical art pixel.
// It is computed once per detection pass and never modified afterwards.
type BlockSize struct {
	Width, Height int
}

// DetectBlockSize estimates the dominant block size of a grid by measuring
// every maximal run of identical colors along each row and each column and
// rounding the mean run length of each direction.
//
// An image with no internal color variation yields the full image
// dimensions, which is degenerate but valid; callers that would rather not
// collapse such an image to a single cell must guard against it themselves.
func DetectBlockSize(g *Grid) (BlockSize, error) {
	if err := g.check(); err != nil {
		return BlockSize{}, err
	}

	horizontal := make([]float64, 0, g.height)
	for y := 0; y < g.height; y++ {
		row := g.pix[y*g.width : (y+1)*g.width]
		horizontal = appendRunLengths(horizontal, g.width, func(i int) Color { return row[i] })
	}

	vertical := make([]float64, 0, g.width)
	for x := 0; x < g.width; x++ {
		vertical = appendRunLengths(vertical, g.height, func(i int) Color { return g.pix[i*g.width+x] })
	}

	return BlockSize{
		Width:  roundLength(stat.Mean(horizontal, nil)),
		Height: roundLength(stat.Mean(vertical, nil)),
	}, nil
}

// appendRunLengths scans one line of n pixels and appends the length of
// every maximal run of identical colors to samples. A run ends when the
// color changes or the line does.
func appendRunLengths(samples []float64, n int, at func(int) Color) []float64 {
	run := 1
	last := at(0)
	for i := 1; i < n; i++ {
		if c := at(i); c != last {
			samples = append(samples, float64(run))
			run = 1
			last = c
		} else {
			run++
		}
	}
	return append(samples, float64(run))
}

func roundLength(mean float64) int {
	if n := int(math.Round(mean)); n > 1 {
		return n
	}
	return 1
}
