package pixeltool

import (
	"fmt"
	"hash/crc32"
	"io"
	"os"
)

// crcFile fingerprints a file so the scan pipeline can skip images it has
// already recorded.
func crcFile(file string) (string, error) {
	f, err := os.Open(file)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := crc32.NewIEEE()
	if _, err = io.Copy(h, f); err != nil {
		return "", err
	}

	return fmt.Sprintf("%.*X", crc32.Size<<1, h.Sum(nil)), nil
}
