package codec

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/ironsheep/raster-tools-mcp/internal/raster"
)

// snapshotMagic opens every .rgbz file.
var snapshotMagic = [4]byte{'R', 'G', 'B', 'Z'}

const snapshotVersion = 1

// snapshotHeader precedes the zstd frame holding the raw pixel bytes.
type snapshotHeader struct {
	Magic   [4]byte
	Version uint8
	_       [3]byte
	Width   uint32
	Height  uint32
}

// EncodeSnapshot writes buf as an .rgbz snapshot: a small header followed by
// the stored RGBA bytes compressed with zstd. Unlike the image formats, a
// snapshot reproduces the buffer byte for byte, premultiplied colors included.
func EncodeSnapshot(w io.Writer, buf *raster.Buffer) error {
	bw := bufio.NewWriter(w)
	h := snapshotHeader{
		Magic:   snapshotMagic,
		Version: snapshotVersion,
		Width:   uint32(buf.Width()),
		Height:  uint32(buf.Height()),
	}
	if err := binary.Write(bw, binary.LittleEndian, &h); err != nil {
		return fmt.Errorf("%w: snapshot header: %v", ErrEncode, err)
	}

	enc, err := zstd.NewWriter(bw,
		zstd.WithEncoderConcurrency(1),
		zstd.WithEncoderLevel(zstd.SpeedBetterCompression),
	)
	if err != nil {
		return fmt.Errorf("%w: zstd encoder: %v", ErrEncode, err)
	}
	if _, err := io.Copy(enc, bytes.NewReader(buf.Pix())); err != nil {
		enc.Close()
		return fmt.Errorf("%w: zstd encode: %v", ErrEncode, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("%w: zstd encode: %v", ErrEncode, err)
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return nil
}

// DecodeSnapshot reads an .rgbz snapshot written by EncodeSnapshot.
func DecodeSnapshot(r io.Reader) (*raster.Buffer, error) {
	var h snapshotHeader
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("%w: snapshot header: %v", ErrDecode, err)
	}
	if h.Magic != snapshotMagic {
		return nil, fmt.Errorf("%w: not a snapshot (magic %q)", ErrDecode, h.Magic[:])
	}
	if h.Version != snapshotVersion {
		return nil, fmt.Errorf("%w: snapshot version %d is not supported", ErrDecode, h.Version)
	}

	if err := checkDimensions(int(h.Width), int(h.Height)); err != nil {
		return nil, err
	}

	dec, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, fmt.Errorf("%w: zstd decoder: %v", ErrDecode, err)
	}
	defer dec.Close()

	pix := make([]byte, int(h.Width)*int(h.Height)*4)
	if _, err := io.ReadFull(dec, pix); err != nil {
		return nil, fmt.Errorf("%w: zstd decode: %v", ErrDecode, err)
	}

	return raster.FromBytes(int(h.Width), int(h.Height), pix)
}
