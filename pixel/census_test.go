package pixel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCensus(t *testing.T) {
	t.Parallel()

	t.Run("counts sort most frequent first", func(t *testing.T) {
		t.Parallel()
		red := Color{0xff, 0x00, 0x00, 0xff}
		g := uniformGrid(3, 3, white)
		g.Set(0, 0, red)
		g.Set(1, 0, red)
		g.Set(2, 0, black)

		report, err := Census(g)
		require.NoError(t, err)
		assert.Equal(t, []CensusEntry{
			{Color: white, Count: 6},
			{Color: red, Count: 2},
			{Color: black, Count: 1},
		}, report.Entries)
	})

	t.Run("ties break on hex value", func(t *testing.T) {
		t.Parallel()
		g := uniformGrid(2, 1, white)
		g.Set(0, 0, black)

		report, err := Census(g)
		require.NoError(t, err)
		require.Len(t, report.Entries, 2)
		assert.Equal(t, black, report.Entries[0].Color)
		assert.Equal(t, white, report.Entries[1].Color)
	})

	t.Run("empty grid fails", func(t *testing.T) {
		t.Parallel()
		_, err := Census(&Grid{})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestReportMarshalText(t *testing.T) {
	t.Parallel()

	g := uniformGrid(2, 2, white)
	g.Set(1, 1, black)

	report, err := Census(g)
	require.NoError(t, err)

	b, err := report.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "2 distinct colors\n#FFFFFF x 3\n#000000 x 1\n", string(b))
}

func TestHex(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "#0A1B2C", Color{0x0a, 0x1b, 0x2c, 0xff}.Hex())
	assert.Equal(t, "#FFFFFF", white.Hex())
}

func TestParseHex(t *testing.T) {
	t.Parallel()

	t.Run("round trips", func(t *testing.T) {
		t.Parallel()
		c, err := ParseHex("#0A1B2C")
		require.NoError(t, err)
		assert.Equal(t, Color{0x0a, 0x1b, 0x2c, 0xff}, c)
		assert.Equal(t, "#0A1B2C", c.Hex())
	})

	t.Run("leading hash is optional", func(t *testing.T) {
		t.Parallel()
		c, err := ParseHex("ff00ff")
		require.NoError(t, err)
		assert.Equal(t, Color{0xff, 0x00, 0xff, 0xff}, c)
	})

	t.Run("malformed input fails", func(t *testing.T) {
		t.Parallel()
		for _, s := range []string{"", "#fff", "#gggggg", "#00112233"} {
			_, err := ParseHex(s)
			assert.ErrorIs(t, err, ErrInvalidParameter, s)
		}
	})
}
