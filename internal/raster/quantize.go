package raster

import "sort"

// maxPaletteSize is the number of colors populosity quantization keeps.
const maxPaletteSize = 256

// luma returns floor(0.299R + 0.587G + 0.114B).
func luma(r, g, b byte) byte {
	return byte((299*int(r) + 587*int(g) + 114*int(b)) / 1000)
}

// lumaMilli returns 1000 times the exact luma of a pixel.
func lumaMilli(r, g, b byte) int {
	return 299*int(r) + 587*int(g) + 114*int(b)
}

// Grayscale replaces the red, green and blue channels of every pixel with its
// luma. Alpha is left unchanged. Applying it twice gives the same result as
// applying it once.
func (b *Buffer) Grayscale() {
	for i := 0; i < len(b.pix); i += 4 {
		y := luma(b.pix[i], b.pix[i+1], b.pix[i+2])
		b.pix[i], b.pix[i+1], b.pix[i+2] = y, y, y
	}
}

// QuantizeUniform reduces the image to 8 bits per pixel: 3 bits of red,
// 3 bits of green and 2 bits of blue. Alpha is left unchanged.
func (b *Buffer) QuantizeUniform() {
	for i := 0; i < len(b.pix); i += 4 {
		b.pix[i] &= 0xE0
		b.pix[i+1] &= 0xE0
		b.pix[i+2] &= 0xC0
	}
}

// PaletteEntry is one color of a populosity histogram.
//
// The color is the 5-bit-per-channel bucket reconstructed to 8 bits
// (value << 3).
type PaletteEntry struct {
	R, G, B byte
	Count   int
}

// histogram counts pixels per 5-bit-per-channel color bucket and returns the
// buckets ordered by descending count. Buckets are enumerated in ascending
// packed-key order before a stable sort, so equal counts keep that order.
func (b *Buffer) histogram() []PaletteEntry {
	counts := make([]int, 1<<15)
	for i := 0; i < len(b.pix); i += 4 {
		counts[packColor(b.pix[i], b.pix[i+1], b.pix[i+2])]++
	}

	entries := make([]PaletteEntry, 0, maxPaletteSize)
	for key, n := range counts {
		if n == 0 {
			continue
		}
		entries = append(entries, PaletteEntry{
			R:     byte((key >> 10) & 0x1F << 3),
			G:     byte((key >> 5) & 0x1F << 3),
			B:     byte(key & 0x1F << 3),
			Count: n,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	return entries
}

func packColor(r, g, b byte) int {
	return int(r>>3)<<10 | int(g>>3)<<5 | int(b>>3)
}

// QuantizePopulosity reduces the image to the (at most) 256 most common
// colors after bucketing each channel to 5 bits. Every pixel is replaced by
// the palette color at the smallest squared RGB distance; the first color in
// popularity order wins ties. Alpha is left unchanged.
func (b *Buffer) QuantizePopulosity() {
	palette := b.histogram()
	if len(palette) > maxPaletteSize {
		palette = palette[:maxPaletteSize]
	}
	if len(palette) == 0 {
		return
	}

	// Pixels sharing a bucket do not share a nearest color, so cache by exact RGB.
	nearest := make(map[[3]byte]PaletteEntry)
	for i := 0; i < len(b.pix); i += 4 {
		key := [3]byte{b.pix[i], b.pix[i+1], b.pix[i+2]}
		best, ok := nearest[key]
		if !ok {
			best = nearestEntry(palette, key[0], key[1], key[2])
			nearest[key] = best
		}
		b.pix[i], b.pix[i+1], b.pix[i+2] = best.R, best.G, best.B
	}
}

func nearestEntry(palette []PaletteEntry, r, g, b byte) PaletteEntry {
	best := palette[0]
	bestDist := -1
	for _, p := range palette {
		dr := int(p.R) - int(r)
		dg := int(p.G) - int(g)
		db := int(p.B) - int(b)
		d := dr*dr + dg*dg + db*db
		if bestDist < 0 || d < bestDist {
			best, bestDist = p, d
		}
	}
	return best
}
