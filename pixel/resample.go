package pixel

import "fmt"

func checkBlockSize(bs BlockSize) error {
	if bs.Width < 1 || bs.Height < 1 {
		return fmt.Errorf("pixel: block size %dx%d: %w", bs.Width, bs.Height, ErrInvalidParameter)
	}
	return nil
}

func checkFactor(name string, factor int) error {
	if factor < 1 {
		return fmt.Errorf("pixel: %s %d: %w", name, factor, ErrInvalidParameter)
	}
	return nil
}

// Reduce collapses every bs.Width by bs.Height block of g down to a single
// pixel, point-sampled from the block's top-left corner. Trailing partial
// blocks still contribute one pixel each, so the result is
// ceil(width/bs.Width) by ceil(height/bs.Height). Point sampling rather
// than averaging keeps the output palette a subset of the input palette.
func Reduce(g *Grid, bs BlockSize) (*Grid, error) {
	if err := checkBlockSize(bs); err != nil {
		return nil, err
	}
	if err := g.check(); err != nil {
		return nil, err
	}

	width := (g.width + bs.Width - 1) / bs.Width
	height := (g.height + bs.Height - 1) / bs.Height

	out := newGrid(width, height)
	for ry := 0; ry < height; ry++ {
		for rx := 0; rx < width; rx++ {
			out.pix[ry*width+rx] = g.pix[ry*bs.Height*g.width+rx*bs.Width]
		}
	}
	return out, nil
}

// Expand replicates every pixel of g out to a bs.Width by bs.Height block,
// producing a grid of the requested dimensions. Output pixels beyond the
// last source block clamp to the nearest edge cell.
func Expand(g *Grid, bs BlockSize, width, height int) (*Grid, error) {
	if err := checkBlockSize(bs); err != nil {
		return nil, err
	}
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("pixel: output size %dx%d: %w", width, height, ErrInvalidParameter)
	}
	if err := g.check(); err != nil {
		return nil, err
	}

	out := newGrid(width, height)
	for y := 0; y < height; y++ {
		ry := min(y/bs.Height, g.height-1)
		for x := 0; x < width; x++ {
			rx := min(x/bs.Width, g.width-1)
			out.pix[y*width+x] = g.pix[ry*g.width+rx]
		}
	}
	return out, nil
}

// Resample realigns g to the given block grid by reducing each block to
// its representative pixel and expanding straight back out. The result has
// the same dimensions as g and every bs.Width by bs.Height axis-aligned
// tile in it is a single solid color.
func Resample(g *Grid, bs BlockSize) (*Grid, error) {
	reduced, err := Reduce(g, bs)
	if err != nil {
		return nil, err
	}
	return Expand(reduced, bs, g.width, g.height)
}

// Grow scales g up by an exact integer factor using nearest-neighbour
// replication.
func Grow(g *Grid, factor int) (*Grid, error) {
	if err := checkFactor("growth factor", factor); err != nil {
		return nil, err
	}
	if err := g.check(); err != nil {
		return nil, err
	}
	return Expand(g, BlockSize{Width: factor, Height: factor}, g.width*factor, g.height*factor)
}

// Shrink scales g down by an exact integer factor using strided
// subsampling. A factor that would leave either dimension empty fails with
// ErrInvalidParameter.
func Shrink(g *Grid, factor int) (*Grid, error) {
	if err := checkFactor("reduction factor", factor); err != nil {
		return nil, err
	}
	if err := g.check(); err != nil {
		return nil, err
	}

	width := g.width / factor
	height := g.height / factor
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("pixel: reduction factor %d leaves no pixels of %dx%d: %w", factor, g.width, g.height, ErrInvalidParameter)
	}

	out := newGrid(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			out.pix[y*width+x] = g.pix[y*factor*g.width+x*factor]
		}
	}
	return out, nil
}

// Pixelize is the whole restoration pass: detect the block size, realign
// the image to it, then shrink and re-expand by factor so each restored
// block lands on a clean factor-aligned footprint. The result has the same
// dimensions as g.
func Pixelize(g *Grid, factor int) (*Grid, error) {
	if err := checkFactor("reduction factor", factor); err != nil {
		return nil, err
	}

	bs, err := DetectBlockSize(g)
	if err != nil {
		return nil, err
	}

	aligned, err := Resample(g, bs)
	if err != nil {
		return nil, err
	}
	if factor == 1 {
		return aligned, nil
	}

	shrunk, err := Shrink(aligned, factor)
	if err != nil {
		return nil, err
	}
	return Expand(shrunk, BlockSize{Width: factor, Height: factor}, g.width, g.height)
}
