package pixeltool

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"

	"github.com/bodgit/pixeltool/pixel"
)

func decodeGrid(file string) (*pixel.Grid, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}

	return pixel.FromImage(m)
}

func encodePNG(g *pixel.Grid, file string) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	defer f.Close()

	return png.Encode(f, g.Image())
}
