package pixel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapToPalette(t *testing.T) {
	t.Parallel()

	refs := []Color{black, white}

	t.Run("stray color snaps to the nearest reference", func(t *testing.T) {
		t.Parallel()
		g := uniformGrid(5, 5, white)
		g.Set(2, 2, Color{0xff, 0x00, 0x00, 0xff})

		out, err := SnapToPalette(g, refs, 0, 0)
		require.NoError(t, err)
		// The neighbourhood mean is white-ish, so white wins over
		// black.
		assert.Equal(t, white, out.At(2, 2))
	})

	t.Run("reference colors are left alone", func(t *testing.T) {
		t.Parallel()
		g := uniformGrid(4, 4, white)
		g.Set(0, 0, black)
		g.Set(3, 3, black)

		out, err := SnapToPalette(g, refs, 0, 0)
		require.NoError(t, err)
		assert.True(t, g.Equal(out))
	})

	t.Run("per-channel tolerance admits near misses", func(t *testing.T) {
		t.Parallel()
		g := uniformGrid(3, 3, white)
		g.Set(1, 1, Color{0xf8, 0xfa, 0xff, 0xff})

		out, err := SnapToPalette(g, refs, 8, 0)
		require.NoError(t, err)
		assert.True(t, g.Equal(out))
	})

	t.Run("discrepancy below the threshold is kept", func(t *testing.T) {
		t.Parallel()
		g := uniformGrid(3, 3, white)
		g.Set(1, 1, Color{0xf0, 0xf0, 0xf0, 0xff}) // distance 26 from the mean

		out, err := SnapToPalette(g, refs, 0, 100)
		require.NoError(t, err)
		assert.True(t, g.Equal(out))
	})

	t.Run("empty palette fails", func(t *testing.T) {
		t.Parallel()
		_, err := SnapToPalette(uniformGrid(2, 2, white), nil, 0, 0)
		assert.ErrorIs(t, err, ErrInvalidParameter)
	})

	t.Run("negative parameters fail", func(t *testing.T) {
		t.Parallel()
		g := uniformGrid(2, 2, white)
		_, err := SnapToPalette(g, refs, -1, 0)
		assert.ErrorIs(t, err, ErrInvalidParameter)
		_, err = SnapToPalette(g, refs, 0, -0.5)
		assert.ErrorIs(t, err, ErrInvalidParameter)
	})
}

func TestPaletteFromImage(t *testing.T) {
	t.Parallel()

	t.Run("derives a bounded palette", func(t *testing.T) {
		t.Parallel()
		g := tileGrid(4, 4, 2)
		refs, err := PaletteFromImage(g, 8)
		require.NoError(t, err)
		assert.NotEmpty(t, refs)
		assert.LessOrEqual(t, len(refs), 8)
	})

	t.Run("non-positive size fails", func(t *testing.T) {
		t.Parallel()
		_, err := PaletteFromImage(uniformGrid(2, 2, white), 0)
		assert.ErrorIs(t, err, ErrInvalidParameter)
	})
}

func TestWithinTolerance(t *testing.T) {
	t.Parallel()

	refs := []Color{{10, 20, 30, 0xff}}
	assert.True(t, withinTolerance(Color{12, 18, 33, 0xff}, refs, 3))
	assert.False(t, withinTolerance(Color{12, 18, 34, 0xff}, refs, 3))
}

func TestNearestReference(t *testing.T) {
	t.Parallel()

	refs := []Color{black, white, {0xff, 0x00, 0x00, 0xff}}
	assert.Equal(t, white, nearestReference(channels{200, 200, 200, 255}, refs))
	assert.Equal(t, black, nearestReference(channels{10, 20, 30, 255}, refs))
	assert.Equal(t, refs[2], nearestReference(channels{220, 30, 40, 255}, refs))
}
