/*
Package pixel implements the core algorithms for restoring corrupted pixel
art: estimating the logical block size of an image whose grid no longer
aligns to uniform rectangles, resampling the image back onto that grid
without blurring, and repairing individual outlier pixels against their
neighbourhood.

All operations are pure; each takes a grid by reference for reading and
returns a fresh grid, so pipeline stages never alias each other's buffers.
*/
package pixel

import (
	"fmt"
	"image"
	"image/color"
)

// Color is a single pixel sample with 8-bit red, green, blue and alpha
// channels. Two colors are equal only if every channel matches exactly.
type Color struct {
	R, G, B, A uint8
}

// Grid is a rectangular raster of colors stored in row-major order with
// the origin at the top-left corner. Use FromImage or FromRows to build
// one; the zero value is empty and rejected by every operation.
type Grid struct {
	width, height int
	pix           []Color
}

func newGrid(width, height int) *Grid {
	return &Grid{
		width:  width,
		height: height,
		pix:    make([]Color, width*height),
	}
}

// FromImage copies m into a new grid, converting every pixel to
// non-premultiplied 8-bit RGBA.
func FromImage(m image.Image) (*Grid, error) {
	if m == nil {
		return nil, fmt.Errorf("pixel: nil image: %w", ErrInvalidInput)
	}

	b := m.Bounds()
	if b.Dx() < 1 || b.Dy() < 1 {
		return nil, fmt.Errorf("pixel: image has no pixels: %w", ErrInvalidInput)
	}

	g := newGrid(b.Dx(), b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(m.At(x, y)).(color.NRGBA)
			g.pix[(y-b.Min.Y)*g.width+(x-b.Min.X)] = Color{c.R, c.G, c.B, c.A}
		}
	}
	return g, nil
}

// FromRows builds a grid from rows of colors. Every row must have the same
// non-zero length.
func FromRows(rows [][]Color) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("pixel: grid has no pixels: %w", ErrInvalidInput)
	}

	width := len(rows[0])
	for i, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("pixel: ragged grid, row %d has %d pixels, want %d: %w", i, len(row), width, ErrInvalidInput)
		}
	}

	g := newGrid(width, len(rows))
	for y, row := range rows {
		copy(g.pix[y*width:(y+1)*width], row)
	}
	return g, nil
}

// Width returns the number of columns in the grid.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows in the grid.
func (g *Grid) Height() int { return g.height }

// At returns the color at column x, row y.
func (g *Grid) At(x, y int) Color {
	return g.pix[y*g.width+x]
}

// Set overwrites the color at column x, row y.
func (g *Grid) Set(x, y int, c Color) {
	g.pix[y*g.width+x] = c
}

// Clone returns a deep copy sharing no storage with g.
func (g *Grid) Clone() *Grid {
	dup := newGrid(g.width, g.height)
	copy(dup.pix, g.pix)
	return dup
}

// Equal reports whether g and other have identical dimensions and pixels.
func (g *Grid) Equal(other *Grid) bool {
	if g.width != other.width || g.height != other.height {
		return false
	}
	for i, c := range g.pix {
		if c != other.pix[i] {
			return false
		}
	}
	return true
}

// Image converts the grid back to a stdlib image for encoding.
func (g *Grid) Image() *image.NRGBA {
	m := image.NewNRGBA(image.Rect(0, 0, g.width, g.height))
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			c := g.pix[y*g.width+x]
			m.SetNRGBA(x, y, color.NRGBA{c.R, c.G, c.B, c.A})
		}
	}
	return m
}

// check re-validates the grid so operations fail fast when handed the zero
// value or a corrupted grid rather than a constructor result.
func (g *Grid) check() error {
	if g == nil || g.width < 1 || g.height < 1 {
		return fmt.Errorf("pixel: grid has no pixels: %w", ErrInvalidInput)
	}
	if len(g.pix) != g.width*g.height {
		return fmt.Errorf("pixel: grid storage is %d pixels, want %d: %w", len(g.pix), g.width*g.height, ErrInvalidInput)
	}
	return nil
}
