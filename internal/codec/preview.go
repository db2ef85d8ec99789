package codec

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/raster-tools-mcp/internal/raster"
)

// PreviewResult is an inline PNG rendering of a buffer.
type PreviewResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Preview encodes buf as a base64 PNG, first shrinking it to fit within
// maxSize x maxSize when either side is larger. A maxSize of 0 disables
// the shrink.
func Preview(buf *raster.Buffer, maxSize int) (*PreviewResult, error) {
	if buf.Empty() {
		return nil, fmt.Errorf("%w: empty image", ErrEncode)
	}

	var img image.Image = buf.Image()
	if maxSize > 0 && (buf.Width() > maxSize || buf.Height() > maxSize) {
		img = imaging.Fit(img, maxSize, maxSize, imaging.Lanczos)
	}

	var out bytes.Buffer
	if err := png.Encode(&out, img); err != nil {
		return nil, fmt.Errorf("%w: preview: %v", ErrEncode, err)
	}

	return &PreviewResult{
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(out.Bytes()),
		MimeType:    "image/png",
	}, nil
}
