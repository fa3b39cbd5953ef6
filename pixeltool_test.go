package pixeltool

import (
	"io"
	"log"
	"path/filepath"
	"testing"

	"github.com/bodgit/pixeltool/pixel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// checkerGrid builds a grid of block by block checkerboard tiles.
func checkerGrid(t *testing.T, width, height, block int) *pixel.Grid {
	t.Helper()

	white := pixel.Color{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	black := pixel.Color{R: 0x00, G: 0x00, B: 0x00, A: 0xff}

	rows := make([][]pixel.Color, height)
	for y := range rows {
		rows[y] = make([]pixel.Color, width)
		for x := range rows[y] {
			if (x/block+y/block)%2 == 0 {
				rows[y][x] = white
			} else {
				rows[y][x] = black
			}
		}
	}

	g, err := pixel.FromRows(rows)
	require.NoError(t, err)
	return g
}

func TestPixelizeFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	out := filepath.Join(dir, "out.png")

	g := checkerGrid(t, 8, 8, 2)
	require.NoError(t, encodePNG(g, in))

	m := New(nil, testLogger())
	require.NoError(t, m.Pixelize(in, out, 1, 0))

	// The checkerboard is already block aligned so the restoration must
	// be a fixed point.
	result, err := decodeGrid(out)
	require.NoError(t, err)
	assert.True(t, g.Equal(result))
}

func TestPixelizeFactorValidation(t *testing.T) {
	t.Parallel()

	m := New(nil, testLogger())
	err := m.Pixelize("in.png", "out.png", 0, 0)
	assert.ErrorIs(t, err, pixel.ErrInvalidParameter)
}

func TestGrowShrinkFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	big := filepath.Join(dir, "big.png")
	back := filepath.Join(dir, "back.png")

	g := checkerGrid(t, 4, 4, 1)
	require.NoError(t, encodePNG(g, in))

	m := New(nil, testLogger())
	require.NoError(t, m.Grow(in, big, 3))
	require.NoError(t, m.Shrink(big, back, 3))

	result, err := decodeGrid(back)
	require.NoError(t, err)
	assert.True(t, g.Equal(result))
}

func TestCensusFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	require.NoError(t, encodePNG(checkerGrid(t, 4, 4, 2), in))

	m := New(nil, testLogger())
	report, err := m.Census(in)
	require.NoError(t, err)
	require.Len(t, report.Entries, 2)
	assert.Equal(t, 8, report.Entries[0].Count)
	assert.Equal(t, 8, report.Entries[1].Count)
}

func TestScan(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := filepath.Join(dir, "sprite.png")
	require.NoError(t, encodePNG(checkerGrid(t, 8, 8, 2), in))

	db := testDB(t)
	m := New(db, testLogger())
	require.NoError(t, m.Scan(dir))

	crc, err := crcFile(in)
	require.NoError(t, err)

	found, err := db.FindBlockSizeByCRC(crc)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, pixel.BlockSize{Width: 2, Height: 2}, *found)

	// A second scan is a no-op thanks to the CRC cache.
	require.NoError(t, m.Scan(dir))
}

func TestScanWithoutDB(t *testing.T) {
	t.Parallel()

	m := New(nil, testLogger())
	assert.Error(t, m.Scan(t.TempDir()))
}
