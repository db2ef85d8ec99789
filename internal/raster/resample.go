package raster

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

// rotateKernel pre-smooths the source before rotation, taps -2..1.
var rotateKernel = separable(1, 3, 3, 1)

// HalveSize shrinks the image to half its width and height.
//
// Output pixel (x, y) is the 3x3 {1,2,1} binomial average of the input
// around (2x, 2y), using clamped accumulation. Its alpha is copied from the
// last in-bounds tap of that window. Odd dimensions are rounded down, so the
// last row or column of an odd-sized image only contributes as a neighbor.
func (b *Buffer) HalveSize() {
	w, h := b.width/2, b.height/2
	out := make([]byte, w*h*4)
	k := halfKernel

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var r, g, bl, total int64
			o := (y*w + x) * 4
			for m := 0; m < k.size; m++ {
				sy := 2*y + m - 1
				if sy < 0 || sy >= b.height {
					continue
				}
				for n := 0; n < k.size; n++ {
					sx := 2*x + n - 1
					if sx < 0 || sx >= b.width {
						continue
					}
					wt := k.weights[m*k.size+n]
					i := b.offset(sx, sy)
					r += int64(b.pix[i]) * wt
					g += int64(b.pix[i+1]) * wt
					bl += int64(b.pix[i+2]) * wt
					out[o+3] = b.pix[i+3]
					total += wt
				}
			}
			out[o] = byte(r / total)
			out[o+1] = byte(g / total)
			out[o+2] = byte(bl / total)
		}
	}

	b.replace(w, h, out)
}

// MaxPixels is the largest width*height a resampled image, or a decoded
// file, may have.
const MaxPixels = 1 << 26

// DoubleSize doubles the width and height with bilinear interpolation.
// ErrInvalidScale is returned, and the image left as it was, when the result
// would exceed MaxPixels.
func (b *Buffer) DoubleSize() error {
	return b.resample(b.width*2, b.height*2)
}

// Resize scales both dimensions by scale with bilinear interpolation. The new
// dimensions are floor(width*scale) and floor(height*scale); results larger
// than MaxPixels fail with ErrInvalidScale.
func (b *Buffer) Resize(scale float64) error {
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidScale, scale)
	}
	w, h := math.Floor(float64(b.width)*scale), math.Floor(float64(b.height)*scale)
	if w*h > MaxPixels || w > MaxPixels || h > MaxPixels {
		return fmt.Errorf("%w: %v gives %.0fx%.0f, over %d pixels", ErrInvalidScale, scale, w, h, MaxPixels)
	}
	return b.resample(int(w), int(h))
}

func (b *Buffer) resample(width, height int) error {
	if width > MaxPixels || height > MaxPixels || int64(width)*int64(height) > MaxPixels {
		return fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrInvalidScale, width, height, MaxPixels)
	}
	if width == 0 || height == 0 || b.Empty() {
		b.replace(width, height, make([]byte, width*height*4))
		return nil
	}

	scaled := imaging.Resize(b.Image(), width, height, imaging.Linear)

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), scaled, scaled.Bounds().Min, draw.Src)
	b.replace(width, height, dst.Pix)
	return nil
}

// Rotate turns the image clockwise by angleDegrees about its center without
// changing its dimensions.
//
// The source is first smoothed with a 4x4 {1,3,3,1} kernel on all four
// channels. Each destination pixel is then inverse-mapped into the smoothed
// source and the nearest lower integer sample is copied. Destinations that
// map outside the image are left as (0, 0, 0, 0).
func (b *Buffer) Rotate(angleDegrees float64) {
	w, h := b.width, b.height
	smoothed := convolve(b.pix, w, h, rotateKernel, 4)
	out := make([]byte, len(b.pix))

	theta := -angleDegrees * math.Pi / 180
	cos, sin := math.Cos(theta), math.Sin(theta)
	cy, cx := h/2, w/2

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dy := float64(y - cy)
			dx := float64(x - cx)
			sy := int(cos*dy + sin*dx + float64(cy))
			sx := int(cos*dx - sin*dy + float64(cx))
			if sy < 0 || sx < 0 || sy >= h || sx >= w {
				continue
			}
			copy(out[(y*w+x)*4:(y*w+x)*4+4], smoothed[(sy*w+sx)*4:(sy*w+sx)*4+4])
		}
	}

	b.replace(w, h, out)
}
