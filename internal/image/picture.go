// Package image provides image loading for the viewer: decoding of the
// supported raster formats and the Picture shown on the canvas.
package image

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrUnsupportedFormat is returned when no registered decoder recognises
// the data.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// maxDimension bounds the width and height the text codecs accept.
const maxDimension = 1 << 16

// Picture is a decoded image ready for display.
type Picture struct {
	Path   string      // Source file path, empty for in-memory images
	Format string      // Format name reported by the decoder
	Image  image.Image // Decoded pixels
}

// Load opens and decodes the image at path.
func Load(path string) (*Picture, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	pic, err := Decode(file, path)
	if err != nil {
		return nil, err
	}
	return pic, nil
}

// Decode decodes an image from r. name is recorded as the Picture path and
// used in error messages.
func Decode(r io.Reader, name string) (*Picture, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, fmt.Errorf("%s: %w", filepath.Base(name), ErrUnsupportedFormat)
		}
		return nil, fmt.Errorf("failed to decode image %s: %w", filepath.Base(name), err)
	}
	if b := img.Bounds(); b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("image %s has no pixels", filepath.Base(name))
	}

	return &Picture{
		Path:   name,
		Format: format,
		Image:  img,
	}, nil
}

// Bounds returns the pixel bounds, or an empty rectangle for a nil image.
func (p *Picture) Bounds() image.Rectangle {
	if p == nil || p.Image == nil {
		return image.Rectangle{}
	}
	return p.Image.Bounds()
}

// Width returns the image width in pixels.
func (p *Picture) Width() int {
	return p.Bounds().Dx()
}

// Height returns the image height in pixels.
func (p *Picture) Height() int {
	return p.Bounds().Dy()
}

// Name returns the file name of the picture, or "untitled".
func (p *Picture) Name() string {
	if p == nil || p.Path == "" {
		return "untitled"
	}
	return filepath.Base(p.Path)
}

// SupportedFormats returns the file extensions offered in the open dialog.
func SupportedFormats() []string {
	return []string{
		".bmp", ".gif", ".jpg", ".jpeg", ".png",
		".pbm", ".pgm", ".ppm",
		".tif", ".tiff", ".webp",
		".xbm", ".xpm",
	}
}

// IsSupportedFormat checks if the given path has a supported image format.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}
