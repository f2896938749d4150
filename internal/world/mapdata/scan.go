package mapdata

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// terrainExts are the image types a terrain file may have
var terrainExts = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".webp"}

// Entry is a map file found in a data directory
type Entry struct {
	Name    string // file name without extension
	Path    string
	Terrain string // sibling image with the same base name, empty if none
}

// Scan lists the map files in dir, sorted by name. Hidden files and
// subdirectories are skipped.
func Scan(dir string) ([]Entry, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read map directory: %w", err)
	}

	var maps []Entry
	for _, f := range files {
		name := f.Name()
		if f.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		if !strings.EqualFold(filepath.Ext(name), ".json") {
			continue
		}
		path := filepath.Join(dir, name)
		maps = append(maps, Entry{
			Name:    strings.TrimSuffix(name, filepath.Ext(name)),
			Path:    path,
			Terrain: siblingTerrain(path),
		})
	}

	slices.SortFunc(maps, func(a, b Entry) int { return strings.Compare(a.Name, b.Name) })
	return maps, nil
}

// TerrainPath picks the terrain image for a map loaded from mapPath: the
// map's own background image, resolved against the map's directory, or a
// sibling image sharing the map's base name.
func (m *MapData) TerrainPath(mapPath string) string {
	if m != nil && m.BackgroundImage != "" {
		if filepath.IsAbs(m.BackgroundImage) {
			return m.BackgroundImage
		}
		return filepath.Join(filepath.Dir(mapPath), m.BackgroundImage)
	}
	return siblingTerrain(mapPath)
}

func siblingTerrain(mapPath string) string {
	base := strings.TrimSuffix(mapPath, filepath.Ext(mapPath))
	for _, ext := range terrainExts {
		if info, err := os.Stat(base + ext); err == nil && !info.IsDir() {
			return base + ext
		}
	}
	return ""
}
