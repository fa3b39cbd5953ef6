package pixel

import (
	"fmt"
	"math"
)

// Tolerance configures outlier correction. Tolerance is the maximum
// allowed distance between a pixel and its neighbourhood mean before the
// pixel counts as an outlier; MinDiscrepancy is the additional margin the
// distance must exceed tolerance by before a correction is applied, so
// pixels only marginally outside tolerance are left alone.
//
// Both values are Euclidean distances over all four 8-bit channels, so the
// largest possible distance is 510.
type Tolerance struct {
	Tolerance      float64
	MinDiscrepancy float64
}

func (t Tolerance) check() error {
	if t.Tolerance < 0 {
		return fmt.Errorf("pixel: tolerance %v: %w", t.Tolerance, ErrInvalidParameter)
	}
	if t.MinDiscrepancy < 0 {
		return fmt.Errorf("pixel: minimum discrepancy %v: %w", t.MinDiscrepancy, ErrInvalidParameter)
	}
	return nil
}

// Correct replaces every pixel whose color diverges anomalously from the
// mean of its 8-connected neighbours with that mean, rounded back to 8-bit
// channels. Border pixels simply have fewer neighbours.
//
// Neighbour means are always computed from the original grid: g is only
// read and a fresh grid is returned, so corrections never cascade within a
// pass.
func Correct(g *Grid, tol Tolerance) (*Grid, error) {
	if err := tol.check(); err != nil {
		return nil, err
	}
	if err := g.check(); err != nil {
		return nil, err
	}

	out := g.Clone()
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			avg, ok := neighbourMean(g, x, y)
			if !ok {
				continue
			}
			d := distance(g.pix[y*g.width+x], avg)
			if d > tol.Tolerance && d-tol.Tolerance >= tol.MinDiscrepancy {
				out.pix[y*g.width+x] = roundColor(avg)
			}
		}
	}
	return out, nil
}

// channels holds one fractional value per color channel, in R, G, B, A
// order.
type channels [4]float64

// neighbourMean returns the channel-wise mean of the existing 8-connected
// neighbours of (x, y). ok is false only when the pixel has no neighbours
// at all, which happens on a 1x1 grid.
func neighbourMean(g *Grid, x, y int) (channels, bool) {
	var sum channels
	n := 0
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := x+dx, y+dy
			if nx < 0 || ny < 0 || nx >= g.width || ny >= g.height {
				continue
			}
			c := g.pix[ny*g.width+nx]
			sum[0] += float64(c.R)
			sum[1] += float64(c.G)
			sum[2] += float64(c.B)
			sum[3] += float64(c.A)
			n++
		}
	}
	if n == 0 {
		return sum, false
	}
	for i := range sum {
		sum[i] /= float64(n)
	}
	return sum, true
}

// distance is the Euclidean distance between a color and a fractional
// mean, taken over all four channels.
func distance(c Color, m channels) float64 {
	dr := float64(c.R) - m[0]
	dg := float64(c.G) - m[1]
	db := float64(c.B) - m[2]
	da := float64(c.A) - m[3]
	return math.Sqrt(dr*dr + dg*dg + db*db + da*da)
}

func roundColor(m channels) Color {
	return Color{
		R: uint8(math.Round(m[0])),
		G: uint8(math.Round(m[1])),
		B: uint8(math.Round(m[2])),
		A: uint8(math.Round(m[3])),
	}
}
