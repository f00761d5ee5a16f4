package loaders

import (
	"fmt"

	"github.com/disintegration/imaging"

	"github.com/df07/go-pathtracer/pkg/material"
)

// LoadImageTexture decodes a PNG, JPEG, GIF, TIFF or BMP file into a texture.
// EXIF orientation is honoured.
func LoadImageTexture(filename string) (*material.ImageTexture, error) {
	img, err := imaging.Open(filename, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to load texture %s: %w", filename, err)
	}
	return material.NewImageTextureFromImage(img), nil
}
