package pixel

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// A CensusEntry records how many times one color occurs in a grid.
type CensusEntry struct {
	Color Color
	Count int
}

// Report is a color census, sorted by decreasing count with ties broken by
// hex value. It implements encoding.TextMarshaler.
type Report struct {
	Entries []CensusEntry
}

// Census tallies every distinct color in the grid.
func Census(g *Grid) (Report, error) {
	if err := g.check(); err != nil {
		return Report{}, err
	}

	counts := make(map[Color]int)
	for _, c := range g.pix {
		counts[c]++
	}

	entries := make([]CensusEntry, 0, len(counts))
	for c, n := range counts {
		entries = append(entries, CensusEntry{Color: c, Count: n})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Color.Hex() < entries[j].Color.Hex()
	})

	return Report{Entries: entries}, nil
}

// MarshalText renders the report as one line per color, most frequent
// first.
func (r Report) MarshalText() ([]byte, error) {
	b := new(bytes.Buffer)
	fmt.Fprintf(b, "%d distinct colors\n", len(r.Entries))
	for _, e := range r.Entries {
		fmt.Fprintf(b, "%s x %d\n", e.Color.Hex(), e.Count)
	}
	return b.Bytes(), nil
}

// Hex returns the color as an upper-case #RRGGBB string. Alpha is not
// represented.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// ParseHex parses an #RRGGBB string, with or without the leading #, into
// a fully opaque color.
func ParseHex(s string) (Color, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(s, "#"))
	if err != nil || len(b) != 3 {
		return Color{}, fmt.Errorf("pixel: %q is not an RRGGBB color: %w", s, ErrInvalidParameter)
	}
	return Color{R: b[0], G: b[1], B: b[2], A: 0xff}, nil
}
