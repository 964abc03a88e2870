package gui

import (
	"fmt"
	"image/color"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// defaultBackground is tried when a level has no image of its own.
const defaultBackground = "default.png"

// fallbackColors fill the window when no image could be loaded, one per
// background index. Indices past the end reuse the last colour.
var fallbackColors = []color.RGBA{
	{R: 70, G: 110, B: 170, A: 255},
	{R: 40, G: 80, B: 150, A: 255},
	{R: 55, G: 60, B: 75, A: 255},
	{R: 15, G: 20, B: 55, A: 255},
	{R: 10, G: 5, B: 25, A: 255},
}

// imageLoader reads an image file from disk.
type imageLoader func(path string) (*ebiten.Image, error)

func loadImageFile(path string) (*ebiten.Image, error) {
	img, _, err := ebitenutil.NewImageFromFile(path)
	return img, err
}

// Backgrounds resolves level backgrounds from an asset directory.
// Each index tries level<N>.png, then default.png; when both fail the
// caller fills with FallbackColor. Results are cached, failures included.
type Backgrounds struct {
	dir    string
	load   imageLoader
	logger *log.Logger
	cache  map[int]*ebiten.Image
}

// NewBackgrounds creates a loader for dir. An empty dir disables images.
func NewBackgrounds(dir string, logger *log.Logger) *Backgrounds {
	return &Backgrounds{
		dir:    dir,
		load:   loadImageFile,
		logger: logger,
		cache:  make(map[int]*ebiten.Image),
	}
}

// backgroundPaths lists the files tried for background index i, best first.
func backgroundPaths(dir string, i int) []string {
	if dir == "" {
		return nil
	}
	return []string{
		filepath.Join(dir, fmt.Sprintf("level%d.png", i+1)),
		filepath.Join(dir, defaultBackground),
	}
}

// Image returns the background for index i, or nil when the solid
// fallback colour should be used.
func (b *Backgrounds) Image(i int) *ebiten.Image {
	if img, ok := b.cache[i]; ok {
		return img
	}

	var img *ebiten.Image
	for _, path := range backgroundPaths(b.dir, i) {
		loaded, err := b.load(path)
		if err != nil {
			b.logger.Debug("background unavailable", "path", path, "error", err)
			continue
		}
		img = loaded
		break
	}
	if img == nil && b.dir != "" {
		b.logger.Warn("no background image, using solid colour", "level", i+1)
	}
	b.cache[i] = img
	return img
}

// FallbackColor returns the solid colour for background index i.
func FallbackColor(i int) color.RGBA {
	return fallbackColors[max(0, min(i, len(fallbackColors)-1))]
}
