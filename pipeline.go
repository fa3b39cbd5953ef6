package pixeltool

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bodgit/pixeltool/pixel"
)

const scanWorkers = 10

func isRaster(file string) bool {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".png", ".gif", ".jpg", ".jpeg":
		return true
	}
	return false
}

func (m *PixelTool) findImages(ctx context.Context, base string) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories, otherwise we end up fighting with things like Spotlight, etc.
			if info.Name()[0] == '.' {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if !info.Mode().IsRegular() || !isRaster(file) {
				return nil
			}

			// Ignore any file greater than 64 MB; the whole grid
			// plus a working copy has to fit in memory
			if info.Size() > 64<<(10*2) {
				return nil
			}

			select {
			case out <- file:
			case <-ctx.Done():
				return errors.New("walk cancelled")
			}

			return nil
		})
	}()
	return out, errc, nil
}

func (m *PixelTool) imageWorker(ctx context.Context, in <-chan string) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for file := range in {
			crc, err := crcFile(file)
			if err != nil {
				errc <- err
				return
			}

			known, err := m.db.FindBlockSizeByCRC(crc)
			if err != nil {
				errc <- err
				return
			}
			if known != nil {
				m.logger.Printf("\"%s\" already scanned, %dx%d blocks\n", file, known.Width, known.Height)
				continue
			}

			g, err := decodeGrid(file)
			if err != nil {
				m.logger.Printf("Cannot decode \"%s\": %v\n", file, err)
				continue
			}

			bs, err := pixel.DetectBlockSize(g)
			if err != nil {
				errc <- err
				return
			}

			report, err := pixel.Census(g)
			if err != nil {
				errc <- err
				return
			}

			if err := m.db.AddResult(crc, file, bs, report); err != nil {
				errc <- err
				return
			}

			m.logger.Printf("\"%s\": %dx%d blocks, %d distinct colors\n", file, bs.Width, bs.Height, len(report.Entries))
		}
	}()
	return errc, nil
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Scan walks every raster image below path, detecting block sizes and
// tallying colors, and records the results in the database. Files whose
// CRC is already recorded are skipped.
func (m *PixelTool) Scan(path string) error {
	if m.db == nil {
		return errors.New("pixeltool: scan requires a result database")
	}

	dir, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	var errcList []<-chan error

	files, errc, err := m.findImages(ctx, dir)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	for i := 0; i < scanWorkers; i++ {
		errc, err := m.imageWorker(ctx, files)
		if err != nil {
			return err
		}
		errcList = append(errcList, errc)
	}

	return waitForPipeline(errcList...)
}
