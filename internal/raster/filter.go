package raster

import "fmt"

// MaxGaussianN is the largest kernel size FilterGaussianN accepts. Beyond it
// the binomial weights no longer fit the integer accumulator.
const MaxGaussianN = 21

// kernel is a square convolution kernel with integer weights.
//
// Taps run from -size/2 to size-1-size/2 around the output pixel, so odd
// kernels are centered and even kernels lean towards negative offsets.
type kernel struct {
	size    int
	weights []int64 // size*size, row-major
}

// separable builds a kernel as the outer product of row with itself.
func separable(row ...int64) kernel {
	n := len(row)
	k := kernel{size: n, weights: make([]int64, n*n)}
	for m := 0; m < n; m++ {
		for j := 0; j < n; j++ {
			k.weights[m*n+j] = row[m] * row[j]
		}
	}
	return k
}

var (
	boxKernel      = separable(1, 1, 1, 1, 1)
	bartlettKernel = separable(1, 3, 5, 3, 1)

	// gaussianKernel is the fixed 5x5 approximation (sigma ≈ 1.4), total 273.
	gaussianKernel = kernel{size: 5, weights: []int64{
		1, 4, 7, 4, 1,
		4, 16, 26, 16, 4,
		7, 26, 41, 26, 7,
		4, 16, 26, 16, 4,
		1, 4, 7, 4, 1,
	}}

	halfKernel = separable(1, 2, 1)
)

// Binomial computes n choose s iteratively.
func Binomial(n, s int) float64 {
	res := 1.0
	for i := 1; i <= s; i++ {
		res = float64(n-i+1) * res / float64(i)
	}
	return res
}

// binomialKernel returns the n x n kernel built from row n-1 of Pascal's triangle.
func binomialKernel(n int) kernel {
	row := make([]int64, n)
	for k := range row {
		row[k] = int64(Binomial(n-1, k))
	}
	return separable(row...)
}

// convolve filters src with k using clamped accumulation and returns a new
// pixel slice. The first channels channels are filtered; any remaining
// channel (alpha, when channels is 3) is copied from src.
func convolve(src []byte, width, height int, k kernel, channels int) []byte {
	out := make([]byte, len(src))
	lo := -k.size / 2

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var sums [4]int64
			var total int64
			for m := 0; m < k.size; m++ {
				sy := y + lo + m
				if sy < 0 || sy >= height {
					continue
				}
				for n := 0; n < k.size; n++ {
					sx := x + lo + n
					if sx < 0 || sx >= width {
						continue
					}
					w := k.weights[m*k.size+n]
					i := (sy*width + sx) * 4
					for c := 0; c < channels; c++ {
						sums[c] += int64(src[i+c]) * w
					}
					total += w
				}
			}

			o := (y*width + x) * 4
			copy(out[o+channels:o+4], src[o+channels:o+4])
			if total == 0 {
				continue
			}
			for c := 0; c < channels; c++ {
				out[o+c] = byte(sums[c] / total)
			}
		}
	}
	return out
}

func (b *Buffer) applyKernel(k kernel) {
	b.replace(b.width, b.height, convolve(b.pix, b.width, b.height, k, 3))
}

// FilterBox applies a 5x5 box (mean) filter.
func (b *Buffer) FilterBox() {
	b.applyKernel(boxKernel)
}

// FilterBartlett applies a 5x5 Bartlett (tent) filter.
func (b *Buffer) FilterBartlett() {
	b.applyKernel(bartlettKernel)
}

// FilterGaussian applies the fixed 5x5 Gaussian filter.
func (b *Buffer) FilterGaussian() {
	b.applyKernel(gaussianKernel)
}

// FilterGaussianN applies an n x n Gaussian filter whose weights are the
// outer product of row n-1 of Pascal's triangle. n must be in [1, MaxGaussianN].
func (b *Buffer) FilterGaussianN(n int) error {
	if n < 1 || n > MaxGaussianN {
		return fmt.Errorf("%w: %d (want 1-%d)", ErrInvalidKernel, n, MaxGaussianN)
	}
	b.applyKernel(binomialKernel(n))
	return nil
}

// FilterEdge keeps the high frequencies of the image: each color channel
// becomes the original minus its 5x5 Gaussian blur, clamped to [0, 255].
func (b *Buffer) FilterEdge() {
	b.highPass(0)
}

// FilterEnhance sharpens the image by adding the edge signal back to the
// original: 2*original - blur, clamped to [0, 255].
func (b *Buffer) FilterEnhance() {
	b.highPass(1)
}

// highPass computes base*original + (original - blur) per color channel.
func (b *Buffer) highPass(base int) {
	blurred := convolve(b.pix, b.width, b.height, gaussianKernel, 3)
	out := make([]byte, len(b.pix))
	for i := 0; i < len(b.pix); i += 4 {
		for c := 0; c < 3; c++ {
			orig := int(b.pix[i+c])
			out[i+c] = clampByte(base*orig + orig - int(blurred[i+c]))
		}
		out[i+3] = b.pix[i+3]
	}
	b.replace(b.width, b.height, out)
}
