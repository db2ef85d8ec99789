package raster

import (
	"math"
	"math/rand/v2"
	"time"
)

// randomOffset bounds the noise DitherRandom adds to each luma value.
const randomOffset = 51

// clusterMask is the 4x4 clustered-dot threshold pattern, indexed [row&3][col&3].
var clusterMask = [4][4]int{
	{180, 90, 150, 60},
	{15, 240, 210, 105},
	{120, 195, 225, 30},
	{45, 135, 75, 165},
}

// bayerMask is the 4x4 Bayer ordered-dither matrix scaled to 0-255 thresholds.
var bayerMask = [4][4]int{
	{8, 136, 40, 168},
	{200, 72, 232, 104},
	{56, 184, 24, 152},
	{248, 120, 216, 88},
}

// DitherThreshold converts the image to black and white with a fixed
// threshold of 128. Alpha is left unchanged.
func (b *Buffer) DitherThreshold() {
	for i := 0; i < len(b.pix); i += 4 {
		b.setGray(i, binary(int(luma(b.pix[i], b.pix[i+1], b.pix[i+2])) >= 128))
	}
}

// DitherRandom adds uniform noise in [-51, 51] to each pixel's luma and then
// applies DitherBright. A nil rng is replaced by a generator seeded from the
// wall clock, which makes the result unrepeatable.
func (b *Buffer) DitherRandom(rng *rand.Rand) {
	if rng == nil {
		now := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(now, now>>32))
	}
	for i := 0; i < len(b.pix); i += 4 {
		y := int(luma(b.pix[i], b.pix[i+1], b.pix[i+2]))
		y += rng.IntN(2*randomOffset+1) - randomOffset
		b.setGray(i, clampByte(y))
	}
	b.DitherBright()
}

// DitherFS applies Floyd-Steinberg error diffusion to the grayscale image.
//
// Rows are scanned top to bottom in serpentine order: even rows left to
// right, odd rows right to left. Each pixel's residual goes 7/16 to the next
// pixel in scan order, and 3/16, 5/16 and 1/16 to the pixels behind, below
// and ahead in the next row. Contributions that fall outside the image are
// dropped.
func (b *Buffer) DitherFS() {
	w, h := b.width, b.height
	acc := make([]float64, w*h)
	for p := range acc {
		i := p * 4
		acc[p] = float64(luma(b.pix[i], b.pix[i+1], b.pix[i+2]))
	}

	out := make([]byte, len(b.pix))
	copy(out, b.pix)

	spread := func(x, y int, amount float64) {
		if x < 0 || x >= w || y >= h {
			return
		}
		acc[y*w+x] += amount
	}

	for y := 0; y < h; y++ {
		x, end, dir := 0, w, 1
		if y%2 == 1 {
			x, end, dir = w-1, -1, -1
		}
		for ; x != end; x += dir {
			p := y*w + x
			var v byte
			if acc[p] >= 128 {
				v = 255
			}
			out[p*4], out[p*4+1], out[p*4+2] = v, v, v

			residual := acc[p] - float64(v)
			spread(x+dir, y, residual*7/16)
			spread(x-dir, y+1, residual*3/16)
			spread(x, y+1, residual*5/16)
			spread(x+dir, y+1, residual*1/16)
		}
	}

	b.replace(w, h, out)
}

// DitherBright thresholds the grayscale image at the level that keeps the
// total brightness of the result at least as large as the original's.
//
// Thresholds are tried from 255 downwards, accumulating 255 for every pixel
// at or above the candidate, until the accumulated brightness reaches the
// sum of the original lumas.
func (b *Buffer) DitherBright() {
	var counts [256]int
	var sum int // in thousandths of a luma step
	for i := 0; i < len(b.pix); i += 4 {
		m := lumaMilli(b.pix[i], b.pix[i+1], b.pix[i+2])
		sum += m
		counts[m/1000]++
		b.setGray(i, byte(m/1000))
	}

	threshold := 255
	accumulated := 0
	for ; threshold >= 0; threshold-- {
		accumulated += counts[threshold] * 255 * 1000
		if accumulated >= sum {
			break
		}
	}

	for i := 0; i < len(b.pix); i += 4 {
		b.setGray(i, binary(int(b.pix[i]) >= threshold))
	}
}

// DitherCluster applies ordered dithering with a 4x4 clustered-dot mask.
func (b *Buffer) DitherCluster() {
	b.orderedDither(&clusterMask)
}

// DitherPattern applies ordered dithering with the 4x4 Bayer matrix.
func (b *Buffer) DitherPattern() {
	b.orderedDither(&bayerMask)
}

func (b *Buffer) orderedDither(mask *[4][4]int) {
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			i := b.offset(x, y)
			v := int(luma(b.pix[i], b.pix[i+1], b.pix[i+2]))
			b.setGray(i, binary(v >= mask[y&3][x&3]))
		}
	}
}

// DitherColor reduces the image to the uniform 8-8-4 level palette (3 bits of
// red, 3 of green, 2 of blue) with per-channel Floyd-Steinberg error
// diffusion. Red and green levels are i*255/7, blue levels i*255/3. Alpha is
// left unchanged.
func (b *Buffer) DitherColor() {
	w, h := b.width, b.height
	levels := [3]int{7, 7, 3}

	acc := make([]float64, len(b.pix))
	for i, v := range b.pix {
		acc[i] = float64(v)
	}

	out := make([]byte, len(b.pix))
	copy(out, b.pix)

	spread := func(x, y, c int, amount float64) {
		if x < 0 || x >= w || y >= h {
			return
		}
		acc[(y*w+x)*4+c] += amount
	}

	for y := 0; y < h; y++ {
		x, end, dir := 0, w, 1
		if y%2 == 1 {
			x, end, dir = w-1, -1, -1
		}
		for ; x != end; x += dir {
			i := (y*w + x) * 4
			for c := 0; c < 3; c++ {
				v := nearestLevel(acc[i+c], levels[c])
				out[i+c] = v

				residual := acc[i+c] - float64(v)
				spread(x+dir, y, c, residual*7/16)
				spread(x-dir, y+1, c, residual*3/16)
				spread(x, y+1, c, residual*5/16)
				spread(x+dir, y+1, c, residual*1/16)
			}
		}
	}

	b.replace(w, h, out)
}

// nearestLevel snaps v to the closest of steps+1 evenly spaced levels in [0, 255].
func nearestLevel(v float64, steps int) byte {
	k := clamp(int(math.Round(v*float64(steps)/255)), 0, steps)
	return byte(k * 255 / steps)
}

func (b *Buffer) setGray(i int, v byte) {
	b.pix[i], b.pix[i+1], b.pix[i+2] = v, v, v
}

func binary(on bool) byte {
	if on {
		return 255
	}
	return 0
}
