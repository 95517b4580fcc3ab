package raster

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	r, err := New(2, 3)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if r.Rows() != 2 || r.Cols() != 3 {
		t.Errorf("expected 2x3, got %dx%d", r.Rows(), r.Cols())
	}
	// New rasters start all-off.
	for row := 0; row < 2; row++ {
		for col := 0; col < 3; col++ {
			if r.On(row, col) {
				t.Errorf("expected (%d,%d) off", row, col)
			}
		}
	}
}

func TestNewRejectsZeroDimensions(t *testing.T) {
	cases := []struct {
		name       string
		rows, cols int
	}{
		{"zero rows", 0, 5},
		{"zero cols", 5, 0},
		{"both zero", 0, 0},
		{"negative", -1, 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.rows, tc.cols)
			if err == nil {
				t.Fatal("expected error")
			}
			var malformed *MalformedInputError
			if !errors.As(err, &malformed) {
				t.Errorf("expected MalformedInputError, got %T", err)
			}
		})
	}
}

func TestFromBytes(t *testing.T) {
	r, err := FromBytes([][]byte{
		{0, 255, 255, 0},
		{0, 0, 0, 0},
	})
	if err != nil {
		t.Fatalf("FromBytes failed: %v", err)
	}
	if r.Rows() != 2 || r.Cols() != 4 {
		t.Fatalf("expected 2x4, got %dx%d", r.Rows(), r.Cols())
	}
	if !r.On(0, 1) || !r.On(0, 2) {
		t.Error("expected (0,1) and (0,2) on")
	}
	if r.On(0, 0) || r.On(0, 3) || r.On(1, 0) {
		t.Error("expected off pixels to stay off")
	}
}

func TestFromBytesRaggedInput(t *testing.T) {
	_, err := FromBytes([][]byte{
		{0, 255, 0},
		{0, 255},
	})
	if err == nil {
		t.Fatal("expected error for ragged input")
	}
	var malformed *MalformedInputError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedInputError, got %T", err)
	}
	if malformed.Row != 1 {
		t.Errorf("expected offending row 1, got %d", malformed.Row)
	}
}

func TestFromBytesEmpty(t *testing.T) {
	if _, err := FromBytes(nil); err == nil {
		t.Error("expected error for nil input")
	}
	if _, err := FromBytes([][]byte{{}}); err == nil {
		t.Error("expected error for zero-column input")
	}
}

func TestFromBools(t *testing.T) {
	r, err := FromBools([][]bool{
		{true, false},
		{false, true},
	})
	if err != nil {
		t.Fatalf("FromBools failed: %v", err)
	}
	if !r.On(0, 0) || !r.On(1, 1) {
		t.Error("expected diagonal on")
	}
	if r.On(0, 1) || r.On(1, 0) {
		t.Error("expected anti-diagonal off")
	}
}

func TestOnOutOfRange(t *testing.T) {
	r, _ := New(2, 2)
	r.Set(0, 1, true)

	// Lookahead past any edge must report off, never fault.
	for _, pos := range [][2]int{{0, 2}, {0, -1}, {2, 0}, {-1, 0}, {5, 5}} {
		if r.On(pos[0], pos[1]) {
			t.Errorf("expected On(%d,%d) to be false", pos[0], pos[1])
		}
	}
}
