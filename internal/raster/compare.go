package raster

// CompareResult describes how two buffers differ.
type CompareResult struct {
	Equal           bool `json:"equal"`
	SameSize        bool `json:"same_size"`
	PixelsDifferent int  `json:"pixels_different"`
	TotalPixels     int  `json:"total_pixels"`
	MaxChannelDiff  int  `json:"max_channel_diff"`
}

// Compare reports the exact byte-level differences between the buffer and
// other. A pixel counts as different when any of its four bytes differs.
// Buffers of different sizes are never equal and their pixels are not
// compared.
func (b *Buffer) Compare(other *Buffer) (*CompareResult, error) {
	if other == nil {
		return nil, ErrNilImage
	}

	result := &CompareResult{
		SameSize:    b.width == other.width && b.height == other.height,
		TotalPixels: b.width * b.height,
	}
	if !result.SameSize {
		return result, nil
	}

	for i := 0; i < len(b.pix); i += 4 {
		differs := false
		for c := 0; c < 4; c++ {
			d := int(absDiff(b.pix[i+c], other.pix[i+c]))
			if d > 0 {
				differs = true
				result.MaxChannelDiff = max(result.MaxChannelDiff, d)
			}
		}
		if differs {
			result.PixelsDifferent++
		}
	}
	result.Equal = result.PixelsDifferent == 0
	return result, nil
}
