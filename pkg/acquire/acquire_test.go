package acquire

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
)

func grayImage(pixels [][]uint8) *image.Gray {
	rows := len(pixels)
	cols := len(pixels[0])
	img := image.NewGray(image.Rect(0, 0, cols, rows))
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			img.SetGray(x, y, color.Gray{Y: pixels[y][x]})
		}
	}
	return img
}

func TestBinarize(t *testing.T) {
	img := grayImage([][]uint8{
		{0, 128, 129},
		{255, 10, 200},
	})
	r, err := Binarize(img, DefaultOptions())
	if err != nil {
		t.Fatalf("Binarize: %v", err)
	}
	if r.Rows() != 2 || r.Cols() != 3 {
		t.Fatalf("expected 2x3, got %dx%d", r.Rows(), r.Cols())
	}

	// Dark pixels (<= threshold) draw.
	want := [][]bool{
		{true, true, false},
		{false, true, false},
	}
	for y := range want {
		for x := range want[y] {
			if r.On(y, x) != want[y][x] {
				t.Errorf("pixel (%d,%d): expected %v", y, x, want[y][x])
			}
		}
	}
}

func TestBinarizeInvert(t *testing.T) {
	img := grayImage([][]uint8{{0, 255}})
	opts := DefaultOptions()
	opts.Invert = true
	r, err := Binarize(img, opts)
	if err != nil {
		t.Fatalf("Binarize: %v", err)
	}
	if r.On(0, 0) {
		t.Error("expected dark pixel off with invert")
	}
	if !r.On(0, 1) {
		t.Error("expected light pixel on with invert")
	}
}

func TestBinarizeCustomThreshold(t *testing.T) {
	img := grayImage([][]uint8{{63, 64, 65}})
	r, err := Binarize(img, Options{Threshold: 64})
	if err != nil {
		t.Fatalf("Binarize: %v", err)
	}
	if !r.On(0, 0) || !r.On(0, 1) {
		t.Error("expected pixels at or below the threshold on")
	}
	if r.On(0, 2) {
		t.Error("expected pixel above the threshold off")
	}
}

func TestBinarizeOffsetBounds(t *testing.T) {
	// Images whose bounds do not start at the origin still map to
	// row 0, column 0 in the raster.
	img := image.NewGray(image.Rect(5, 7, 8, 9))
	img.SetGray(5, 7, color.Gray{Y: 0})
	img.SetGray(7, 8, color.Gray{Y: 0})
	for _, p := range []image.Point{{6, 7}, {7, 7}, {5, 8}, {6, 8}} {
		img.SetGray(p.X, p.Y, color.Gray{Y: 255})
	}

	r, err := Binarize(img, DefaultOptions())
	if err != nil {
		t.Fatalf("Binarize: %v", err)
	}
	if r.Rows() != 2 || r.Cols() != 3 {
		t.Fatalf("expected 2x3, got %dx%d", r.Rows(), r.Cols())
	}
	if !r.On(0, 0) || !r.On(1, 2) {
		t.Error("expected corners on after translation")
	}
	if r.On(0, 1) || r.On(1, 0) {
		t.Error("expected interior pixels off")
	}
}

func TestBinarizeColorLuminance(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{R: 10, G: 10, B: 10, A: 255})
	img.Set(1, 0, color.RGBA{R: 250, G: 250, B: 250, A: 255})

	r, err := Binarize(img, DefaultOptions())
	if err != nil {
		t.Fatalf("Binarize: %v", err)
	}
	if !r.On(0, 0) {
		t.Error("expected near-black color pixel on")
	}
	if r.On(0, 1) {
		t.Error("expected near-white color pixel off")
	}
}

func TestDecodePNG(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, grayImage([][]uint8{{0, 255}})); err != nil {
		t.Fatalf("encode: %v", err)
	}

	r, err := Decode(&buf, DefaultOptions())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !r.On(0, 0) || r.On(0, 1) {
		t.Error("unexpected binarization of decoded image")
	}
}

func TestDecodeGarbage(t *testing.T) {
	_, err := Decode(strings.NewReader("not an image"), DefaultOptions())
	if err == nil {
		t.Fatal("expected decode error")
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile("/nonexistent/input.png", DefaultOptions()); err == nil {
		t.Fatal("expected error for missing file")
	}
}
