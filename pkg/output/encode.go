package output

import (
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// jpegQuality is used for every JPEG the renderer writes
const jpegQuality = 95

var contentTypes = map[imaging.Format]string{
	imaging.JPEG: "image/jpeg",
	imaging.PNG:  "image/png",
	imaging.GIF:  "image/gif",
	imaging.TIFF: "image/tiff",
	imaging.BMP:  "image/bmp",
}

// ParseFormat maps a format name such as "png" or "jpg" to an image format
func ParseFormat(name string) (imaging.Format, error) {
	if name == "" {
		return imaging.PNG, nil
	}
	return imaging.FormatFromExtension(strings.TrimPrefix(name, "."))
}

// FormatFromPath picks the format from a file name's extension
func FormatFromPath(path string) (imaging.Format, error) {
	format, err := imaging.FormatFromFilename(path)
	if err != nil {
		return format, fmt.Errorf("output %s: %w", filepath.Base(path), err)
	}
	return format, nil
}

// ContentType returns the MIME type for an image format
func ContentType(format imaging.Format) string {
	if ct, ok := contentTypes[format]; ok {
		return ct
	}
	return "application/octet-stream"
}

// Extension returns the canonical file extension for a format, without the dot
func Extension(format imaging.Format) string {
	if format == imaging.JPEG {
		return "jpg"
	}
	return strings.ToLower(format.String())
}

// Encode writes img to w in the given format
func Encode(w io.Writer, img image.Image, format imaging.Format) error {
	if err := imaging.Encode(w, img, format, imaging.JPEGQuality(jpegQuality)); err != nil {
		return fmt.Errorf("failed to encode %s: %w", format, err)
	}
	return nil
}
