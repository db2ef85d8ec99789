package codec

import (
	"bytes"
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/ironsheep/raster-tools-mcp/internal/raster"
)

// newOpaqueBuffer creates an opaque buffer with a quadrant pattern
func newOpaqueBuffer(t *testing.T, width, height int) *raster.Buffer {
	t.Helper()
	b, err := raster.New(width, height)
	if err != nil {
		t.Fatalf("raster.New failed: %v", err)
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var c color.RGBA
			if x < width/2 && y < height/2 {
				c = color.RGBA{255, 0, 0, 255} // Red
			} else if x >= width/2 && y < height/2 {
				c = color.RGBA{0, 255, 0, 255} // Green
			} else if x < width/2 && y >= height/2 {
				c = color.RGBA{0, 0, 255, 255} // Blue
			} else {
				c = color.RGBA{255, 255, 255, 255} // White
			}
			b.Set(x, y, c)
		}
	}
	return b
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"wiz.tga", FormatTarga},
		{"WIZ.TGA", FormatTarga},
		{"a/b/c.targa", FormatTarga},
		{"out.png", FormatPNG},
		{"out.bmp", FormatBMP},
		{"out.tif", FormatTIFF},
		{"out.tiff", FormatTIFF},
		{"snap.rgbz", FormatSnapshot},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			if err != nil {
				t.Fatalf("FormatFromPath failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatFromPath_Unsupported(t *testing.T) {
	for _, path := range []string{"photo.jpg", "noext", "anim.gif"} {
		_, err := FormatFromPath(path)
		if !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("%s: got %v, want ErrUnsupportedFormat", path, err)
		}
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	src := newOpaqueBuffer(t, 6, 4)

	for _, format := range Formats {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Encode(&buf, src, format); err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			got, err := Decode(&buf, format)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if !got.Equal(src) {
				t.Error("round trip changed the buffer")
			}
		})
	}
}

func TestSnapshot_PreservesPremultipliedBytes(t *testing.T) {
	src := newTestBuffer(t, 7, 5)
	src.Set(3, 3, color.RGBA{200, 10, 10, 0})

	var buf bytes.Buffer
	if err := EncodeSnapshot(&buf, src); err != nil {
		t.Fatalf("EncodeSnapshot failed: %v", err)
	}
	got, err := DecodeSnapshot(&buf)
	if err != nil {
		t.Fatalf("DecodeSnapshot failed: %v", err)
	}
	if !got.Equal(src) {
		t.Error("snapshot round trip changed the buffer")
	}
}

func TestDecodeSnapshot_Errors(t *testing.T) {
	var valid bytes.Buffer
	if err := EncodeSnapshot(&valid, newTestBuffer(t, 4, 4)); err != nil {
		t.Fatalf("EncodeSnapshot failed: %v", err)
	}
	data := valid.Bytes()

	badMagic := append([]byte("XXXX"), data[4:]...)
	badVersion := append([]byte{}, data...)
	badVersion[4] = 9

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"bad magic", badMagic},
		{"bad version", badVersion},
		{"truncated", data[:len(data)-6]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeSnapshot(bytes.NewReader(tt.data))
			if !errors.Is(err, ErrDecode) {
				t.Errorf("error: got %v, want ErrDecode", err)
			}
		})
	}
}

func TestDecode_InvalidData(t *testing.T) {
	for _, format := range []Format{FormatPNG, FormatBMP, FormatTIFF} {
		_, err := Decode(bytes.NewReader([]byte("not an image")), format)
		if !errors.Is(err, ErrDecode) {
			t.Errorf("%s: got %v, want ErrDecode", format, err)
		}
	}
}

func TestEncode_UnknownFormat(t *testing.T) {
	err := Encode(&bytes.Buffer{}, newOpaqueBuffer(t, 2, 2), Format("jpeg"))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("got %v, want ErrUnsupportedFormat", err)
	}
}

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	src := newTestBuffer(t, 5, 5)

	for _, name := range []string{"out.tga", "out.rgbz"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := Save(path, src); err != nil {
				t.Fatalf("Save failed: %v", err)
			}
			got, err := Load(path)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if !got.Equal(src) {
				t.Error("Save/Load changed the buffer")
			}
		})
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("directory should hold only the saved files, got %d entries", len(entries))
	}
}

func TestSave_Errors(t *testing.T) {
	src := newTestBuffer(t, 2, 2)

	if err := Save(filepath.Join(t.TempDir(), "out.jpg"), src); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("unsupported extension: got %v", err)
	}
	if err := Save("/nonexistent/dir/out.tga", src); err == nil {
		t.Error("Save should fail for a missing directory")
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load("/nonexistent/path/to/image.tga"); err == nil {
		t.Error("Load should fail for non-existent file")
	}

	path := filepath.Join(t.TempDir(), "bad.tga")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if _, err := Load(path); !errors.Is(err, ErrDecode) {
		t.Errorf("invalid data: got %v, want ErrDecode", err)
	}
}
