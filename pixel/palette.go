package pixel

import (
	"fmt"
	"image/color"

	"github.com/ericpauley/go-quantize/quantize"
)

// SnapToPalette replaces stray colors with the nearest reference color.
// A pixel is replaced when it sits outside the per-channel tolerance of
// every reference color and its distance from the neighbourhood mean is at
// least minDiscrepancy; the replacement is the reference color closest to
// that mean, so anti-aliased edges snap towards what surrounds them.
//
// Reference colors are matched on the RGB channels only.
func SnapToPalette(g *Grid, refs []Color, tolerance int, minDiscrepancy float64) (*Grid, error) {
	if len(refs) == 0 {
		return nil, fmt.Errorf("pixel: reference palette is empty: %w", ErrInvalidParameter)
	}
	if tolerance < 0 {
		return nil, fmt.Errorf("pixel: tolerance %d: %w", tolerance, ErrInvalidParameter)
	}
	if minDiscrepancy < 0 {
		return nil, fmt.Errorf("pixel: minimum discrepancy %v: %w", minDiscrepancy, ErrInvalidParameter)
	}
	if err := g.check(); err != nil {
		return nil, err
	}

	out := g.Clone()
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			c := g.pix[y*g.width+x]
			if withinTolerance(c, refs, tolerance) {
				continue
			}
			avg, ok := neighbourMean(g, x, y)
			if !ok {
				continue
			}
			if distance(c, avg) < minDiscrepancy {
				continue
			}
			out.pix[y*g.width+x] = nearestReference(avg, refs)
		}
	}
	return out, nil
}

// PaletteFromImage derives up to colors reference colors from the grid by
// median-cut quantization, for use when the caller has no palette of its
// own to snap to.
func PaletteFromImage(g *Grid, colors int) ([]Color, error) {
	if colors < 1 {
		return nil, fmt.Errorf("pixel: palette size %d: %w", colors, ErrInvalidParameter)
	}
	if err := g.check(); err != nil {
		return nil, err
	}

	q := quantize.MedianCutQuantizer{}
	p := q.Quantize(make(color.Palette, 0, colors), g.Image())

	refs := make([]Color, len(p))
	for i, c := range p {
		nc := color.NRGBAModel.Convert(c).(color.NRGBA)
		refs[i] = Color{nc.R, nc.G, nc.B, nc.A}
	}
	return refs, nil
}

func withinTolerance(c Color, refs []Color, tolerance int) bool {
	for _, r := range refs {
		if absDiff(c.R, r.R) <= tolerance && absDiff(c.G, r.G) <= tolerance && absDiff(c.B, r.B) <= tolerance {
			return true
		}
	}
	return false
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

// nearestReference returns the reference color with the smallest squared
// RGB distance to the mean.
func nearestReference(m channels, refs []Color) Color {
	best := refs[0]
	bestSum := sqDistRGB(m, refs[0])
	for _, r := range refs[1:] {
		if sum := sqDistRGB(m, r); sum < bestSum {
			best, bestSum = r, sum
		}
	}
	return best
}

func sqDistRGB(m channels, r Color) float64 {
	dr := m[0] - float64(r.R)
	dg := m[1] - float64(r.G)
	db := m[2] - float64(r.B)
	return dr*dr + dg*dg + db*db
}
