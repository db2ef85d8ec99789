package codec

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ironsheep/raster-tools-mcp/internal/raster"
)

// Targa image types handled by the codec.
const (
	tgaTrueColor    = 2
	tgaTrueColorRLE = 10
)

// Image descriptor bits.
const (
	tgaAlphaBits   = 0x0F
	tgaRightToLeft = 0x10
	tgaTopToBottom = 0x20
)

// tgaHeader is the fixed 18-byte Targa file header, little-endian.
type tgaHeader struct {
	IDLength      uint8
	ColorMapType  uint8
	ImageType     uint8
	ColorMapFirst uint16
	ColorMapLen   uint16
	ColorMapDepth uint8
	XOrigin       uint16
	YOrigin       uint16
	Width         uint16
	Height        uint16
	PixelDepth    uint8
	Descriptor    uint8
}

// DecodeTarga reads an uncompressed (type 2) or run-length encoded (type 10)
// true-color Targa image at 24 or 32 bits per pixel.
//
// The stored channel bytes are copied as they are. 24-bit images get an
// alpha of 255. The image descriptor's origin bits are honored, so the
// returned buffer always has row 0 at the top.
func DecodeTarga(r io.Reader) (*raster.Buffer, error) {
	br := bufio.NewReader(r)

	var h tgaHeader
	if err := binary.Read(br, binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("%w: targa header: %v", ErrDecode, err)
	}
	if h.ColorMapType != 0 {
		return nil, fmt.Errorf("%w: targa color-mapped images are not supported", ErrDecode)
	}
	if h.ImageType != tgaTrueColor && h.ImageType != tgaTrueColorRLE {
		return nil, fmt.Errorf("%w: targa image type %d is not supported", ErrDecode, h.ImageType)
	}
	if h.PixelDepth != 24 && h.PixelDepth != 32 {
		return nil, fmt.Errorf("%w: targa pixel depth %d is not supported", ErrDecode, h.PixelDepth)
	}

	if _, err := io.CopyN(io.Discard, br, int64(h.IDLength)); err != nil {
		return nil, fmt.Errorf("%w: targa image id: %v", ErrDecode, err)
	}

	width, height := int(h.Width), int(h.Height)
	if err := checkDimensions(width, height); err != nil {
		return nil, err
	}
	bpp := int(h.PixelDepth) / 8
	raw := make([]byte, width*height*bpp)

	var err error
	if h.ImageType == tgaTrueColorRLE {
		err = readRLE(br, raw, bpp)
	} else {
		_, err = io.ReadFull(br, raw)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: targa pixel data: %v", ErrDecode, err)
	}

	pix := make([]byte, width*height*4)
	for y := 0; y < height; y++ {
		dy := height - 1 - y
		if h.Descriptor&tgaTopToBottom != 0 {
			dy = y
		}
		for x := 0; x < width; x++ {
			dx := x
			if h.Descriptor&tgaRightToLeft != 0 {
				dx = width - 1 - x
			}
			s := (y*width + x) * bpp
			d := (dy*width + dx) * 4
			pix[d], pix[d+1], pix[d+2], pix[d+3] = raw[s+2], raw[s+1], raw[s], 255
			if bpp == 4 {
				pix[d+3] = raw[s+3]
			}
		}
	}

	return raster.FromBytes(width, height, pix)
}

// readRLE expands run-length packets into dst. Packets may span scanlines.
func readRLE(r *bufio.Reader, dst []byte, bpp int) error {
	px := make([]byte, bpp)
	for i := 0; i < len(dst); {
		head, err := r.ReadByte()
		if err != nil {
			return err
		}
		n := int(head&0x7F) + 1
		if i+n*bpp > len(dst) {
			return fmt.Errorf("run of %d pixels overflows image", n)
		}

		if head&0x80 != 0 {
			if _, err := io.ReadFull(r, px); err != nil {
				return err
			}
			for k := 0; k < n; k++ {
				copy(dst[i:], px)
				i += bpp
			}
			continue
		}

		if _, err := io.ReadFull(r, dst[i:i+n*bpp]); err != nil {
			return err
		}
		i += n * bpp
	}
	return nil
}

// EncodeTarga writes buf as an uncompressed 32-bit Targa image with 8 alpha
// bits and a bottom-left origin.
func EncodeTarga(w io.Writer, buf *raster.Buffer) error {
	width, height := buf.Width(), buf.Height()
	if width > 0xFFFF || height > 0xFFFF {
		return fmt.Errorf("%w: %dx%d exceeds the targa size limit", ErrEncode, width, height)
	}

	bw := bufio.NewWriter(w)
	h := tgaHeader{
		ImageType:  tgaTrueColor,
		Width:      uint16(width),
		Height:     uint16(height),
		PixelDepth: 32,
		Descriptor: 8 & tgaAlphaBits,
	}
	if err := binary.Write(bw, binary.LittleEndian, &h); err != nil {
		return fmt.Errorf("%w: targa header: %v", ErrEncode, err)
	}

	pix := buf.Pix()
	row := make([]byte, width*4)
	for y := height - 1; y >= 0; y-- {
		src := pix[y*width*4 : (y+1)*width*4]
		for i := 0; i < len(row); i += 4 {
			row[i], row[i+1], row[i+2], row[i+3] = src[i+2], src[i+1], src[i], src[i+3]
		}
		if _, err := bw.Write(row); err != nil {
			return fmt.Errorf("%w: targa pixel data: %v", ErrEncode, err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return nil
}
