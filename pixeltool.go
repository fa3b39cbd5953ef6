/*
Package pixeltool is a library for restoring corrupted pixel art. It wraps
the algorithms in the pixel package with file handling, a scan-result
database and logging, for use by the pixeltool command.
*/
package pixeltool

import (
	"fmt"
	"log"

	"github.com/bodgit/pixeltool/pixel"
)

// PixelTool ties the restoration operations to an optional result
// database and a logger.
type PixelTool struct {
	db     *ResultDB
	logger *log.Logger
}

// New returns a PixelTool. db may be nil for operations that do not
// record results.
func New(db *ResultDB, logger *log.Logger) *PixelTool {
	return &PixelTool{
		db:     db,
		logger: logger,
	}
}

// detect estimates the block size of a grid, optionally capping the
// estimate so a low-variation image cannot collapse to a single cell.
func (m *PixelTool) detect(g *pixel.Grid, maxBlock int) (pixel.BlockSize, error) {
	bs, err := pixel.DetectBlockSize(g)
	if err != nil {
		return pixel.BlockSize{}, err
	}
	if maxBlock > 0 {
		if bs.Width > maxBlock {
			bs.Width = maxBlock
		}
		if bs.Height > maxBlock {
			bs.Height = maxBlock
		}
	}
	m.logger.Printf("detected %dx%d pixel blocks\n", bs.Width, bs.Height)
	return bs, nil
}

// Pixelize restores the image at in to a clean block-aligned rendition and
// writes it to out as PNG. A factor greater than one additionally snaps
// the restored blocks onto a factor-aligned footprint; maxBlock, if
// positive, caps the detected block size.
func (m *PixelTool) Pixelize(in, out string, factor, maxBlock int) error {
	if factor < 1 {
		return fmt.Errorf("pixeltool: reduction factor %d: %w", factor, pixel.ErrInvalidParameter)
	}

	g, err := decodeGrid(in)
	if err != nil {
		return err
	}

	bs, err := m.detect(g, maxBlock)
	if err != nil {
		return err
	}

	result, err := pixel.Resample(g, bs)
	if err != nil {
		return err
	}

	if factor > 1 {
		shrunk, err := pixel.Shrink(result, factor)
		if err != nil {
			return err
		}
		if result, err = pixel.Expand(shrunk, pixel.BlockSize{Width: factor, Height: factor}, g.Width(), g.Height()); err != nil {
			return err
		}
	}

	return encodePNG(result, out)
}

// Shrink scales the image at in down by an exact integer factor.
func (m *PixelTool) Shrink(in, out string, factor int) error {
	g, err := decodeGrid(in)
	if err != nil {
		return err
	}

	result, err := pixel.Shrink(g, factor)
	if err != nil {
		return err
	}

	return encodePNG(result, out)
}

// Grow scales the image at in up by an exact integer factor.
func (m *PixelTool) Grow(in, out string, factor int) error {
	g, err := decodeGrid(in)
	if err != nil {
		return err
	}

	result, err := pixel.Grow(g, factor)
	if err != nil {
		return err
	}

	return encodePNG(result, out)
}

// Clean corrects outlier pixels against their neighbourhood and writes
// the result to out as PNG.
func (m *PixelTool) Clean(in, out string, tol pixel.Tolerance) error {
	g, err := decodeGrid(in)
	if err != nil {
		return err
	}

	result, err := pixel.Correct(g, tol)
	if err != nil {
		return err
	}

	return encodePNG(result, out)
}

// Snap replaces stray colors in the image at in with the nearest color
// from refs. A nil refs derives a palette of up to colors entries from the
// image itself.
func (m *PixelTool) Snap(in, out string, refs []pixel.Color, colors, tolerance int, minDiscrepancy float64) error {
	g, err := decodeGrid(in)
	if err != nil {
		return err
	}

	if refs == nil {
		if refs, err = pixel.PaletteFromImage(g, colors); err != nil {
			return err
		}
		m.logger.Printf("derived a %d color reference palette\n", len(refs))
	}

	result, err := pixel.SnapToPalette(g, refs, tolerance, minDiscrepancy)
	if err != nil {
		return err
	}

	return encodePNG(result, out)
}

// Census tallies the colors of the image at in.
func (m *PixelTool) Census(in string) (pixel.Report, error) {
	g, err := decodeGrid(in)
	if err != nil {
		return pixel.Report{}, err
	}
	return pixel.Census(g)
}
