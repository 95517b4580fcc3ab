// Package raster provides the binary raster grid consumed by the
// scanline vectorizer. A raster is a rectangular rows x cols grid of
// on/off samples; the package only validates and stores it, callers
// own the pixel data.
package raster

import "fmt"

// Raster is a rectangular grid of binary samples. It is created once
// and read-only afterwards; the vectorizer never mutates it.
type Raster struct {
	rows int
	cols int
	data []bool
}

// New creates an all-off raster with the given dimensions.
func New(rows, cols int) (*Raster, error) {
	if rows <= 0 || cols <= 0 {
		return nil, &MalformedInputError{
			Reason: fmt.Sprintf("raster dimensions must be positive, got %dx%d", rows, cols),
		}
	}
	return &Raster{
		rows: rows,
		cols: cols,
		data: make([]bool, rows*cols),
	}, nil
}

// FromBytes builds a raster from row-major byte samples. Any nonzero
// sample is treated as "on" (the upstream binarizer writes 0 or 255).
// The input must be rectangular with at least one row and one column.
func FromBytes(pixels [][]byte) (*Raster, error) {
	if len(pixels) == 0 || len(pixels[0]) == 0 {
		return nil, &MalformedInputError{Reason: "raster has zero rows or columns"}
	}
	cols := len(pixels[0])
	for i, row := range pixels {
		if len(row) != cols {
			return nil, &MalformedInputError{
				Reason: fmt.Sprintf("row has %d columns, expected %d", len(row), cols),
				Row:    i,
			}
		}
	}
	r, err := New(len(pixels), cols)
	if err != nil {
		return nil, err
	}
	for i, row := range pixels {
		for j, v := range row {
			if v != 0 {
				r.data[i*cols+j] = true
			}
		}
	}
	return r, nil
}

// FromBools builds a raster from row-major boolean samples.
func FromBools(pixels [][]bool) (*Raster, error) {
	if len(pixels) == 0 || len(pixels[0]) == 0 {
		return nil, &MalformedInputError{Reason: "raster has zero rows or columns"}
	}
	cols := len(pixels[0])
	for i, row := range pixels {
		if len(row) != cols {
			return nil, &MalformedInputError{
				Reason: fmt.Sprintf("row has %d columns, expected %d", len(row), cols),
				Row:    i,
			}
		}
	}
	r, err := New(len(pixels), cols)
	if err != nil {
		return nil, err
	}
	for i, row := range pixels {
		copy(r.data[i*cols:(i+1)*cols], row)
	}
	return r, nil
}

// Rows returns the number of rows.
func (r *Raster) Rows() int {
	return r.rows
}

// Cols returns the number of columns.
func (r *Raster) Cols() int {
	return r.cols
}

// On reports whether the sample at (row, col) is on.
// Out-of-range coordinates report off, so lookahead past the end of a
// row never faults.
func (r *Raster) On(row, col int) bool {
	if row < 0 || row >= r.rows || col < 0 || col >= r.cols {
		return false
	}
	return r.data[row*r.cols+col]
}

// Set turns the sample at (row, col) on or off. It is intended for
// raster construction and tests; coordinates must be in range.
func (r *Raster) Set(row, col int, on bool) {
	r.data[row*r.cols+col] = on
}
