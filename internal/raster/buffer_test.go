package raster

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

// newFilled creates a buffer with every pixel set to c
func newFilled(t *testing.T, width, height int, c color.RGBA) *Buffer {
	t.Helper()
	b, err := New(width, height)
	if err != nil {
		t.Fatalf("New(%d, %d) failed: %v", width, height, err)
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			b.Set(x, y, c)
		}
	}
	return b
}

// newChecker creates an opaque black and white checkerboard, white at (0,0)
func newChecker(t *testing.T, width, height int) *Buffer {
	t.Helper()
	b := newFilled(t, width, height, color.RGBA{0, 0, 0, 255})
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if (x+y)%2 == 0 {
				b.Set(x, y, color.RGBA{255, 255, 255, 255})
			}
		}
	}
	return b
}

// newGray creates an opaque buffer from a grid of gray levels
func newGray(t *testing.T, rows [][]byte) *Buffer {
	t.Helper()
	b := newFilled(t, len(rows[0]), len(rows), color.RGBA{})
	for y, row := range rows {
		for x, v := range row {
			b.Set(x, y, color.RGBA{v, v, v, 255})
		}
	}
	return b
}

// grayRows returns the red channel of every pixel as a grid
func grayRows(b *Buffer) [][]byte {
	rows := make([][]byte, b.Height())
	for y := range rows {
		rows[y] = make([]byte, b.Width())
		for x := range rows[y] {
			rows[y][x] = b.At(x, y).R
		}
	}
	return rows
}

func assertGrayRows(t *testing.T, b *Buffer, want [][]byte) {
	t.Helper()
	got := grayRows(b)
	if len(got) != len(want) {
		t.Fatalf("rows: got %d, want %d", len(got), len(want))
	}
	for y := range want {
		for x := range want[y] {
			if got[y][x] != want[y][x] {
				t.Errorf("pixel (%d,%d): got %d, want %d", x, y, got[y][x], want[y][x])
			}
		}
	}
}

func TestNew(t *testing.T) {
	b, err := New(3, 2)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if b.Width() != 3 || b.Height() != 2 {
		t.Errorf("dimensions: got %dx%d, want 3x2", b.Width(), b.Height())
	}
	if len(b.Pix()) != 3*2*4 {
		t.Errorf("pix length: got %d, want %d", len(b.Pix()), 3*2*4)
	}
	for i, v := range b.Pix() {
		if v != 0 {
			t.Fatalf("byte %d: got %d, want 0", i, v)
		}
	}
}

func TestNew_NegativeDimensions(t *testing.T) {
	tests := []struct {
		name string
		w, h int
	}{
		{"negative width", -1, 4},
		{"negative height", 4, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.w, tt.h)
			if !errors.Is(err, ErrInvalidSize) {
				t.Errorf("error: got %v, want ErrInvalidSize", err)
			}
		})
	}
}

func TestFromBytes(t *testing.T) {
	src := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	b, err := FromBytes(2, 1, src)
	if err != nil {
		t.Fatalf("FromBytes failed: %v", err)
	}

	src[0] = 99
	if b.Pix()[0] != 1 {
		t.Error("FromBytes must copy the source bytes")
	}
	if got := b.At(1, 0); got != (color.RGBA{5, 6, 7, 8}) {
		t.Errorf("At(1,0): got %v, want {5 6 7 8}", got)
	}
}

func TestFromBytes_LengthMismatch(t *testing.T) {
	tests := []struct {
		name string
		n    int
	}{
		{"too short", 7},
		{"too long", 9},
		{"empty", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromBytes(2, 1, make([]byte, tt.n))
			if !errors.Is(err, ErrInvalidSize) {
				t.Errorf("error: got %v, want ErrInvalidSize", err)
			}
		})
	}
}

func TestCopy_IsDeep(t *testing.T) {
	b := newChecker(t, 3, 3)
	c := b.Copy()

	if !b.Equal(c) {
		t.Fatal("copy should equal its source")
	}

	c.Pix()[5] ^= 0xFF
	if b.Equal(c) {
		t.Error("mutating the copy must not affect the source")
	}
}

func TestEmpty(t *testing.T) {
	var zero Buffer
	if !zero.Empty() {
		t.Error("zero value should be empty")
	}
	b := newFilled(t, 1, 1, color.RGBA{})
	if b.Empty() {
		t.Error("1x1 buffer should not be empty")
	}
}

func TestClearToBlack(t *testing.T) {
	b := newFilled(t, 2, 2, color.RGBA{10, 20, 30, 40})
	b.ClearToBlack()
	for i, v := range b.Pix() {
		if v != 0 {
			t.Fatalf("byte %d: got %d, want 0", i, v)
		}
	}
	if b.Width() != 2 || b.Height() != 2 {
		t.Error("ClearToBlack must not change dimensions")
	}
}

func TestToRGB(t *testing.T) {
	tests := []struct {
		name string
		in   color.RGBA
		want [3]byte
	}{
		{"opaque", color.RGBA{10, 20, 30, 255}, [3]byte{10, 20, 30}},
		{"transparent", color.RGBA{10, 20, 30, 0}, [3]byte{0, 0, 0}},
		{"half alpha", color.RGBA{100, 50, 0, 128}, [3]byte{199, 99, 0}},
		{"overflow clamps", color.RGBA{200, 0, 0, 100}, [3]byte{255, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newFilled(t, 1, 1, tt.in)
			rgb := b.ToRGB()
			if len(rgb) != 3 {
				t.Fatalf("length: got %d, want 3", len(rgb))
			}
			if [3]byte{rgb[0], rgb[1], rgb[2]} != tt.want {
				t.Errorf("got %v, want %v", rgb, tt.want)
			}
		})
	}
}

func TestImage_SharesBytes(t *testing.T) {
	b := newFilled(t, 2, 2, color.RGBA{})
	img := b.Image()
	img.SetRGBA(1, 1, color.RGBA{1, 2, 3, 4})

	if got := b.At(1, 1); got != (color.RGBA{1, 2, 3, 4}) {
		t.Errorf("At(1,1): got %v, want {1 2 3 4}", got)
	}
}

func TestFromImage(t *testing.T) {
	src := image.NewNRGBA(image.Rect(5, 5, 7, 6))
	src.SetNRGBA(5, 5, color.NRGBA{255, 0, 0, 255})
	src.SetNRGBA(6, 5, color.NRGBA{0, 0, 255, 255})

	b := FromImage(src)
	if b.Width() != 2 || b.Height() != 1 {
		t.Fatalf("dimensions: got %dx%d, want 2x1", b.Width(), b.Height())
	}
	if got := b.At(0, 0); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("At(0,0): got %v", got)
	}
	if got := b.At(1, 0); got != (color.RGBA{0, 0, 255, 255}) {
		t.Errorf("At(1,0): got %v", got)
	}

	if !FromImage(b.Image()).Equal(b) {
		t.Error("FromImage(Image()) should reproduce the buffer")
	}
}

func TestEqual(t *testing.T) {
	a := newChecker(t, 4, 4)

	if !a.Equal(a.Copy()) {
		t.Error("buffer should equal its deep copy")
	}
	if a.Equal(nil) {
		t.Error("buffer should not equal nil")
	}
	if a.Equal(newChecker(t, 4, 2)) {
		t.Error("buffers of different sizes should not be equal")
	}

	c := a.Copy()
	c.Pix()[len(c.Pix())-1]--
	if a.Equal(c) {
		t.Error("a single differing byte should make buffers unequal")
	}
}
