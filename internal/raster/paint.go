package raster

import (
	"image/color"
	"math/rand/v2"
	"time"

	"github.com/anthonynsimon/bild/blur"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Stroke is a single painterly dab: a filled circle of one color.
type Stroke struct {
	Radius     uint
	X, Y       uint
	R, G, B, A uint8
}

// PaintStroke rasterizes s onto the buffer.
//
// Pixels whose squared distance from the center is at most Radius² take the
// stroke color. Pixels at exactly Radius²+1 are averaged 50/50 with the
// existing content on all four channels. Pixels outside the image are skipped.
func (b *Buffer) PaintStroke(s Stroke) {
	radius := int(s.Radius)
	r2 := radius * radius
	for dx := -radius; dx <= radius; dx++ {
		for dy := -radius; dy <= radius; dy++ {
			x, y := int(s.X)+dx, int(s.Y)+dy
			if x < 0 || x >= b.width || y < 0 || y >= b.height {
				continue
			}
			d2 := dx*dx + dy*dy
			i := b.offset(x, y)
			switch {
			case d2 <= r2:
				b.pix[i], b.pix[i+1], b.pix[i+2], b.pix[i+3] = s.R, s.G, s.B, s.A
			case d2 == r2+1:
				b.pix[i] = byte((int(b.pix[i]) + int(s.R)) / 2)
				b.pix[i+1] = byte((int(b.pix[i+1]) + int(s.G)) / 2)
				b.pix[i+2] = byte((int(b.pix[i+2]) + int(s.B)) / 2)
				b.pix[i+3] = byte((int(b.pix[i+3]) + int(s.A)) / 2)
			}
		}
	}
}

// PainterlyOptions controls PaintPainterly.
type PainterlyOptions struct {
	// Radii are the brush radii, one layer each, painted in order.
	// Use decreasing values so fine strokes refine coarse ones.
	Radii []int

	// Threshold is the mean per-pixel color error (0-441, Euclidean RGB
	// distance in 8-bit units) above which a grid cell receives a stroke.
	Threshold float64

	// BlurFactor scales the Gaussian blur applied to the reference image of
	// each layer: sigma = BlurFactor * radius.
	BlurFactor float64
}

// DefaultPainterlyOptions returns the brush set used by the npr-paint command.
func DefaultPainterlyOptions() PainterlyOptions {
	return PainterlyOptions{
		Radii:      []int{7, 3, 1},
		Threshold:  25,
		BlurFactor: 0.5,
	}
}

// PaintPainterly re-renders the image as layers of circular brush strokes.
//
// For each radius a blurred reference of the original is built and the canvas
// is divided into radius-sized cells. A cell whose mean error against the
// reference exceeds the threshold receives one stroke, placed on its
// worst pixel and colored from the reference there. Unpainted canvas counts
// as infinite error, so the first layer covers the whole image. Strokes
// within a layer are painted in an order shuffled by rng; a nil rng is
// seeded from the wall clock. Radii below 1 are skipped, and options with no
// usable radius fall back to DefaultPainterlyOptions.
func (b *Buffer) PaintPainterly(rng *rand.Rand, opts PainterlyOptions) {
	if rng == nil {
		now := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(now, now>>32))
	}
	radii := make([]int, 0, len(opts.Radii))
	for _, r := range opts.Radii {
		if r >= 1 {
			radii = append(radii, r)
		}
	}
	if len(radii) == 0 {
		opts = DefaultPainterlyOptions()
		radii = opts.Radii
	}

	canvas := &Buffer{width: b.width, height: b.height, pix: make([]byte, len(b.pix))}
	painted := make([]bool, b.width*b.height)
	source := b.Image()

	for _, radius := range radii {
		reference := FromImage(blur.Gaussian(source, opts.BlurFactor*float64(radius)))

		strokes := canvas.layerStrokes(reference, painted, radius, opts.Threshold)
		rng.Shuffle(len(strokes), func(i, j int) {
			strokes[i], strokes[j] = strokes[j], strokes[i]
		})
		for _, s := range strokes {
			canvas.PaintStroke(s)
			canvas.markDisk(painted, s)
		}
	}

	b.replace(canvas.width, canvas.height, canvas.pix)
}

// layerStrokes plans the strokes of one layer against reference.
func (b *Buffer) layerStrokes(reference *Buffer, painted []bool, radius int, threshold float64) []Stroke {
	var strokes []Stroke
	for cy := 0; cy < b.height; cy += radius {
		for cx := 0; cx < b.width; cx += radius {
			x1, y1 := min(cx+radius, b.width), min(cy+radius, b.height)

			var sum, worst float64
			wx, wy := cx, cy
			blank := false
			for y := cy; y < y1 && !blank; y++ {
				for x := cx; x < x1; x++ {
					if !painted[y*b.width+x] {
						blank = true
						break
					}
					d := colorError(b.At(x, y), reference.At(x, y))
					sum += d
					if d > worst {
						worst, wx, wy = d, x, y
					}
				}
			}

			if blank {
				wx, wy = (cx+x1-1)/2, (cy+y1-1)/2
			} else if sum/float64((x1-cx)*(y1-cy)) <= threshold {
				continue
			}

			c := reference.At(wx, wy)
			strokes = append(strokes, Stroke{
				Radius: uint(radius),
				X:      uint(wx),
				Y:      uint(wy),
				R:      c.R, G: c.G, B: c.B, A: c.A,
			})
		}
	}
	return strokes
}

// markDisk records the pixels a stroke fully covers.
func (b *Buffer) markDisk(painted []bool, s Stroke) {
	radius := int(s.Radius)
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			x, y := int(s.X)+dx, int(s.Y)+dy
			if x < 0 || x >= b.width || y < 0 || y >= b.height || dx*dx+dy*dy > radius*radius {
				continue
			}
			painted[y*b.width+x] = true
		}
	}
}

// colorError is the Euclidean RGB distance between two pixels in 8-bit units.
func colorError(a, b color.Color) float64 {
	ca, _ := colorful.MakeColor(a)
	cb, _ := colorful.MakeColor(b)
	return ca.DistanceRgb(cb) * 255
}
