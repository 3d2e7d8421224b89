package image

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"gocv.io/x/gocv"
)

// Netpbm images are decoded by OpenCV's imgcodecs, always as 8-bit BGR so
// Mat.ToImage yields an *image.RGBA.
func init() {
	for _, magic := range []struct{ name, prefix string }{
		{"pbm", "P1"}, {"pbm", "P4"},
		{"pgm", "P2"}, {"pgm", "P5"},
		{"ppm", "P3"}, {"ppm", "P6"},
	} {
		image.RegisterFormat(magic.name, magic.prefix, decodePNM, decodePNMConfig)
	}
}

func decodePNMMat(r io.Reader) (gocv.Mat, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("pnm: read: %w", err)
	}
	mat, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("pnm: %w", err)
	}
	if mat.Empty() {
		mat.Close()
		return gocv.Mat{}, fmt.Errorf("pnm: opencv could not decode data")
	}
	return mat, nil
}

func decodePNM(r io.Reader) (image.Image, error) {
	mat, err := decodePNMMat(r)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	img, err := mat.ToImage()
	if err != nil {
		return nil, fmt.Errorf("pnm: convert: %w", err)
	}
	return img, nil
}

func decodePNMConfig(r io.Reader) (image.Config, error) {
	mat, err := decodePNMMat(r)
	if err != nil {
		return image.Config{}, err
	}
	defer mat.Close()

	return image.Config{
		ColorModel: color.RGBAModel,
		Width:      mat.Cols(),
		Height:     mat.Rows(),
	}, nil
}
