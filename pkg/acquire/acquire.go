// Package acquire loads image files and binarizes them into rasters.
//
// This is the acquisition side of the pipeline: decode, convert to
// grayscale, threshold. The vectorizer itself only ever sees the
// resulting binary raster.
package acquire

import (
	"fmt"
	"image"
	"image/draw"
	"io"
	"os"

	"rembot-host/pkg/raster"

	// Stdlib decoders.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	// Extended decoders.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Options controls binarization.
type Options struct {
	// Threshold is the luminance cutoff: pixels at or below it are
	// "on" (the pen draws dark source pixels). Default 128.
	Threshold uint8

	// Invert draws light pixels instead of dark ones.
	Invert bool
}

// DefaultOptions returns the default binarization settings.
func DefaultOptions() Options {
	return Options{Threshold: 128}
}

// LoadFile decodes the image at path and binarizes it.
func LoadFile(path string, opts Options) (*raster.Raster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("acquire: open %s: %w", path, err)
	}
	defer f.Close()

	r, err := Decode(f, opts)
	if err != nil {
		return nil, fmt.Errorf("acquire: %s: %w", path, err)
	}
	return r, nil
}

// Decode decodes an image stream and binarizes it. The format is
// detected from the stream (PNG, JPEG, GIF, BMP, TIFF, WebP).
func Decode(rd io.Reader, opts Options) (*raster.Raster, error) {
	img, format, err := image.Decode(rd)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	r, err := Binarize(img, opts)
	if err != nil {
		return nil, fmt.Errorf("binarize %s image: %w", format, err)
	}
	return r, nil
}

// Binarize converts an image to grayscale and thresholds it into a
// raster. Rows map to Y, columns to X.
func Binarize(img image.Image, opts Options) (*raster.Raster, error) {
	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	draw.Draw(gray, bounds, img, bounds.Min, draw.Src)

	r, err := raster.New(bounds.Dy(), bounds.Dx())
	if err != nil {
		return nil, err
	}
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			lum := gray.GrayAt(bounds.Min.X+x, bounds.Min.Y+y).Y
			on := lum <= opts.Threshold
			if opts.Invert {
				on = !on
			}
			r.Set(y, x, on)
		}
	}
	return r, nil
}
