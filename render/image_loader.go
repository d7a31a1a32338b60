package render

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/dwell/assets"
)

// LoadTexture loads the image at path and registers it in the arena.
func LoadTexture(textures *Textures, path string) (int, error) {
	img, err := LoadImage(path)
	if err != nil {
		return 0, err
	}
	return textures.Register(img), nil
}

// LoadImage loads an image from the working directory, falling back to the
// embedded assets.
func LoadImage(path string) (*ebiten.Image, error) {
	if path == "" {
		return nil, fmt.Errorf("render: empty image path")
	}
	if b, err := os.ReadFile(path); err == nil {
		im, _, err := image.Decode(bytes.NewReader(b))
		if err != nil {
			return nil, fmt.Errorf("render: decode %s: %w", path, err)
		}
		return ebiten.NewImageFromImage(im), nil
	}
	img, err := assets.LoadImage(path)
	if err != nil {
		return nil, fmt.Errorf("render: load %s: %w", path, err)
	}
	return img, nil
}
