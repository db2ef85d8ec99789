package raster

import (
	"fmt"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// RGBAColor represents an RGBA color with 8-bit components including alpha.
//
// The alpha component represents opacity:
//   - 0 = fully transparent
//   - 255 = fully opaque
type RGBAColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
	A uint8 `json:"a"` // Alpha/opacity component (0-255)
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorResult contains a pixel value in multiple representations.
//
// RGBA holds the stored bytes. Hex, RGB and HSL describe the pixel after it
// has been composited over black, the same rule ToRGB uses.
type ColorResult struct {
	Hex  string    `json:"hex"`  // Hex format "#RRGGBB" (no alpha)
	RGB  RGBColor  `json:"rgb"`  // Opaque RGB components
	RGBA RGBAColor `json:"rgba"` // Stored RGBA components
	HSL  HSLColor  `json:"hsl"`  // HSL representation
}

// SampleColor returns the pixel at (x, y) in multiple formats.
//
// Coordinates are 0-based with origin at top-left. ErrOutOfBounds is
// returned when (x, y) lies outside the buffer.
func (b *Buffer) SampleColor(x, y int) (*ColorResult, error) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return nil, fmt.Errorf("%w: (%d,%d)", ErrOutOfBounds, x, y)
	}

	i := b.offset(x, y)
	r, g, bl := flatten(b.pix[i : i+4])

	return &ColorResult{
		Hex:  fmt.Sprintf("#%02X%02X%02X", r, g, bl),
		RGB:  RGBColor{R: r, G: g, B: bl},
		RGBA: RGBAColor{R: b.pix[i], G: b.pix[i+1], B: b.pix[i+2], A: b.pix[i+3]},
		HSL:  rgbToHSL(r, g, bl),
	}, nil
}

// rgbToHSL converts 8-bit RGB values to HSL, scaled to degrees and percent.
func rgbToHSL(r, g, b uint8) HSLColor {
	c := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	h, s, l := c.Hsl()
	if math.IsNaN(h) {
		h = 0
	}
	return HSLColor{
		H: int(h),
		S: int(s * 100),
		L: int(l * 100),
	}
}

// ColorFrequency represents a palette color and its share of the image.
type ColorFrequency struct {
	Hex        string   `json:"hex"`        // Hex color "#RRGGBB" (5-bit buckets)
	Percentage float64  `json:"percentage"` // Percentage of pixels in this bucket (0-100)
	Count      int      `json:"count"`      // Number of pixels in this bucket
	RGB        RGBColor `json:"rgb"`        // Bucket color
}

// PaletteResult lists the most common colors of a buffer, most common first.
type PaletteResult struct {
	Colors      []ColorFrequency `json:"colors"`
	TotalColors int              `json:"total_colors"` // Distinct buckets in the image
}

// Palette returns the count most common colors as used by QuantizePopulosity.
//
// Colors are bucketed to 5 bits per channel, so nearby shades are grouped.
// If the image has fewer buckets, fewer colors are returned.
func (b *Buffer) Palette(count int) *PaletteResult {
	entries := b.histogram()
	total := b.width * b.height

	result := &PaletteResult{TotalColors: len(entries)}
	if count < len(entries) {
		entries = entries[:max(count, 0)]
	}
	result.Colors = make([]ColorFrequency, 0, len(entries))
	for _, e := range entries {
		result.Colors = append(result.Colors, ColorFrequency{
			Hex:        fmt.Sprintf("#%02X%02X%02X", e.R, e.G, e.B),
			Percentage: math.Round(float64(e.Count)/float64(total)*10000) / 100,
			Count:      e.Count,
			RGB:        RGBColor{R: e.R, G: e.G, B: e.B},
		})
	}
	return result
}
