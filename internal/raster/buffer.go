package raster

import (
	"fmt"
	"image"
	"image/color"
)

// Buffer is an owned RGBA raster.
//
// Pixels are stored row-major, four bytes per pixel in R, G, B, A order,
// with row 0 at the top of the image. The length of the pixel slice is always
// width*height*4. The zero value is an empty 0x0 buffer.
type Buffer struct {
	width  int
	height int
	pix    []byte
}

// New allocates a zero-filled buffer of the given dimensions.
//
// Every pixel of the new buffer is (0, 0, 0, 0).
func New(width, height int) (*Buffer, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	return &Buffer{
		width:  width,
		height: height,
		pix:    make([]byte, width*height*4),
	}, nil
}

// FromBytes creates a buffer whose initial content is a copy of pix.
//
// The length of pix must be exactly width*height*4; otherwise ErrInvalidSize
// is returned and nothing is allocated.
func FromBytes(width, height int, pix []byte) (*Buffer, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	if len(pix) != width*height*4 {
		return nil, fmt.Errorf("%w: %dx%d needs %d bytes, got %d",
			ErrInvalidSize, width, height, width*height*4, len(pix))
	}
	data := make([]byte, len(pix))
	copy(data, pix)
	return &Buffer{width: width, height: height, pix: data}, nil
}

// FromImage copies any image.Image into a new buffer.
//
// The source is converted through color.RGBAModel, so the stored bytes are
// alpha-premultiplied and the image origin is moved to (0, 0).
func FromImage(img image.Image) *Buffer {
	bounds := img.Bounds()
	b := &Buffer{
		width:  bounds.Dx(),
		height: bounds.Dy(),
		pix:    make([]byte, bounds.Dx()*bounds.Dy()*4),
	}
	if src, ok := img.(*image.RGBA); ok {
		for y := 0; y < b.height; y++ {
			start := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			copy(b.pix[y*b.width*4:(y+1)*b.width*4], src.Pix[start:start+b.width*4])
		}
		return b
	}
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			c := color.RGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.RGBA)
			b.Set(x, y, c)
		}
	}
	return b
}

// Width returns the buffer width in pixels.
func (b *Buffer) Width() int { return b.width }

// Height returns the buffer height in pixels.
func (b *Buffer) Height() int { return b.height }

// Pix returns the underlying pixel bytes. The slice is shared with the buffer.
func (b *Buffer) Pix() []byte { return b.pix }

// Empty reports whether the buffer holds no pixel data.
func (b *Buffer) Empty() bool { return len(b.pix) == 0 }

// Bounds returns the buffer rectangle with its origin at (0, 0).
func (b *Buffer) Bounds() image.Rectangle { return image.Rect(0, 0, b.width, b.height) }

// Copy returns a deep duplicate of the buffer.
func (b *Buffer) Copy() *Buffer {
	data := make([]byte, len(b.pix))
	copy(data, b.pix)
	return &Buffer{width: b.width, height: b.height, pix: data}
}

// At returns the stored bytes of the pixel at (x, y).
// The coordinates must lie inside the buffer.
func (b *Buffer) At(x, y int) color.RGBA {
	i := b.offset(x, y)
	return color.RGBA{R: b.pix[i], G: b.pix[i+1], B: b.pix[i+2], A: b.pix[i+3]}
}

// Set stores c at (x, y). The coordinates must lie inside the buffer.
func (b *Buffer) Set(x, y int, c color.RGBA) {
	i := b.offset(x, y)
	b.pix[i], b.pix[i+1], b.pix[i+2], b.pix[i+3] = c.R, c.G, c.B, c.A
}

// Image returns an *image.RGBA view that shares the buffer's bytes.
//
// Writes through the view are visible in the buffer until the next
// operation that replaces the pixel slice.
func (b *Buffer) Image() *image.RGBA {
	return &image.RGBA{
		Pix:    b.pix,
		Stride: b.width * 4,
		Rect:   b.Bounds(),
	}
}

// ClearToBlack sets every byte of the buffer to zero.
func (b *Buffer) ClearToBlack() {
	clear(b.pix)
}

// ToRGB composites every pixel over a black background and returns the
// resulting 3-channel bytes, row-major, width*height*3 long.
func (b *Buffer) ToRGB() []byte {
	rgb := make([]byte, b.width*b.height*3)
	for i, o := 0, 0; i < len(b.pix); i, o = i+4, o+3 {
		r, g, bl := flatten(b.pix[i : i+4])
		rgb[o], rgb[o+1], rgb[o+2] = r, g, bl
	}
	return rgb
}

// replace swaps in a new pixel slice and dimensions.
func (b *Buffer) replace(width, height int, pix []byte) {
	b.width = width
	b.height = height
	b.pix = pix
}

func (b *Buffer) offset(x, y int) int {
	return (y*b.width + x) * 4
}

func (b *Buffer) sameSize(other *Buffer) error {
	if other == nil {
		return ErrNilImage
	}
	if b.width != other.width || b.height != other.height {
		return fmt.Errorf("%w: %dx%d vs %dx%d",
			ErrSizeMismatch, b.width, b.height, other.width, other.height)
	}
	return nil
}

// flatten divides alpha out of one RGBA pixel, compositing it over black.
func flatten(px []byte) (r, g, b byte) {
	alpha := px[3]
	if alpha == 0 {
		return 0, 0, 0
	}
	a := int(alpha)
	return clampByte(int(px[0]) * 255 / a),
		clampByte(int(px[1]) * 255 / a),
		clampByte(int(px[2]) * 255 / a)
}

// clamp constrains an integer value to the range [min, max].
// Used for boundary handling in convolution operations.
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

func clampByte(v int) byte {
	return byte(clamp(v, 0, 255))
}
