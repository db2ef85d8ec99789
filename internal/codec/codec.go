package codec

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/ironsheep/raster-tools-mcp/internal/raster"
)

var (
	// ErrDecode is returned when a file cannot be parsed as its format.
	ErrDecode = errors.New("decode failed")

	// ErrEncode is returned when a buffer cannot be written in a format.
	ErrEncode = errors.New("encode failed")

	// ErrUnsupportedFormat is returned for file extensions the codec does not know.
	ErrUnsupportedFormat = errors.New("unsupported image format")
)

// Format identifies an on-disk image format.
type Format string

const (
	FormatTarga    Format = "tga"
	FormatPNG      Format = "png"
	FormatBMP      Format = "bmp"
	FormatTIFF     Format = "tiff"
	FormatSnapshot Format = "rgbz"
)

// Formats lists every supported format in the order tools report them.
var Formats = []Format{FormatTarga, FormatPNG, FormatBMP, FormatTIFF, FormatSnapshot}

// FormatFromPath selects a format from the file extension, case-insensitively.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tga", ".targa":
		return FormatTarga, nil
	case ".png":
		return FormatPNG, nil
	case ".bmp":
		return FormatBMP, nil
	case ".tif", ".tiff":
		return FormatTIFF, nil
	case ".rgbz":
		return FormatSnapshot, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// Decode reads one image of the given format into a new buffer.
//
// PNG, BMP and TIFF images are converted through raster.FromImage, so their
// colors end up alpha-premultiplied. Targa and snapshot bytes are stored as
// read.
func Decode(r io.Reader, format Format) (*raster.Buffer, error) {
	switch format {
	case FormatTarga:
		return DecodeTarga(r)
	case FormatSnapshot:
		return DecodeSnapshot(r)
	}

	var (
		img image.Image
		err error
	)
	switch format {
	case FormatPNG:
		img, err = png.Decode(r)
	case FormatBMP:
		img, err = bmp.Decode(r)
	case FormatTIFF:
		img, err = tiff.Decode(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, format, err)
	}
	if err := checkDimensions(img.Bounds().Dx(), img.Bounds().Dy()); err != nil {
		return nil, err
	}
	return raster.FromImage(img), nil
}

// Encode writes buf in the given format.
func Encode(w io.Writer, buf *raster.Buffer, format Format) error {
	var err error
	switch format {
	case FormatTarga:
		return EncodeTarga(w, buf)
	case FormatSnapshot:
		return EncodeSnapshot(w, buf)
	case FormatPNG:
		err = png.Encode(w, buf.Image())
	case FormatBMP:
		err = bmp.Encode(w, buf.Image())
	case FormatTIFF:
		err = tiff.Encode(w, buf.Image(), &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrEncode, format, err)
	}
	return nil
}

// Load reads the image at path, choosing the format from its extension.
func Load(path string) (*raster.Buffer, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	buf, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return buf, nil
}

// Save writes buf to path, choosing the format from its extension. The file
// is written to a temporary name in the same directory and renamed into
// place, so a failed save never leaves a truncated image behind.
func Save(path string, buf *raster.Buffer) (err error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("could not create temporary file in %q: %w", dir, err)
	}
	defer func() {
		if err != nil {
			if rmErr := os.Remove(tmp.Name()); rmErr != nil {
				slog.Debug("could not remove temporary file", "name", tmp.Name(), "error", rmErr)
			}
		}
	}()

	if err = tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("could not set mode of %q: %w", tmp.Name(), err)
	}
	if err = Encode(tmp, buf, format); err != nil {
		tmp.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("could not close %q: %w", tmp.Name(), err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("could not rename %q to %q: %w", tmp.Name(), path, err)
	}
	return nil
}

func checkDimensions(width, height int) error {
	if width < 0 || height < 0 || int64(width)*int64(height) > raster.MaxPixels {
		return fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrDecode, width, height, raster.MaxPixels)
	}
	return nil
}
