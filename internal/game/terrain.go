package game

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"go.uber.org/zap"
)

type terrainResult struct {
	gen    uint64
	path   string
	img    image.Image
	format string
	err    error
}

// DecodeTerrain decodes a png, jpeg, gif, bmp or webp image
func DecodeTerrain(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("decoding terrain: %w", err)
	}
	return img, format, nil
}

func decodeTerrainFile(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("opening terrain: %w", err)
	}
	defer f.Close()
	return DecodeTerrain(f)
}

// LoadTerrain decodes the background image in the background. The scheduler
// shows the loading placeholder until Update picks up the result. A newer
// load supersedes an older one still in flight.
func (s *State) LoadTerrain(path string) {
	s.terrainGen++
	gen := s.terrainGen
	s.Scheduler.SetLoading(true)
	s.log.Info("loading terrain", zap.String("path", path))

	go func() {
		img, format, err := decodeTerrainFile(path)
		res := terrainResult{gen: gen, path: path, img: img, format: format, err: err}
		// Keep only the newest result in the single slot
		for {
			select {
			case s.terrain <- res:
				return
			default:
			}
			select {
			case old := <-s.terrain:
				if old.gen > res.gen {
					res = old
				}
			default:
			}
		}
	}()
}

// pollTerrain applies a finished terrain load, if any
func (s *State) pollTerrain() {
	var res terrainResult
	select {
	case res = <-s.terrain:
	default:
		return
	}
	if res.gen != s.terrainGen {
		return
	}

	if res.err != nil {
		s.log.Error("terrain load failed", zap.String("path", res.path), zap.Error(res.err))
		s.Scheduler.SetLoading(false)
		return
	}

	s.Terrain = res.img
	b := res.img.Bounds()
	s.log.Info("terrain loaded",
		zap.String("path", res.path),
		zap.String("format", res.format),
		zap.Int("width", b.Dx()),
		zap.Int("height", b.Dy()))

	s.Transform.SetZoom(1)
	s.resizeGrid()
	s.Scheduler.SetLoading(false)
}

// TerrainLoading reports whether a terrain load is in flight
func (s *State) TerrainLoading() bool {
	return s.Scheduler.Loading()
}
