// Package raster implements the pixel-buffer transform engine.
//
// A Buffer owns a contiguous RGBA byte grid, row-major with row 0 at the top.
// Every transform reads and rewrites that grid: grayscale and color
// quantization, dithering, convolution filters, resampling, Porter-Duff
// compositing and painterly stroke rendering.
//
// # Numeric Policy
//
// Each family of operations has a fixed rounding and boundary rule:
//   - Luma is floor(0.299R + 0.587G + 0.114B), computed in integer arithmetic
//     so that gray pixels map to themselves.
//   - Convolution uses clamped accumulation: taps that fall outside the image
//     are dropped from both the weighted sum and the weight total, and the
//     result is floor(sum / weights used).
//   - Color bytes are treated as alpha-premultiplied. ToRGB divides alpha out;
//     compositing combines the stored values directly.
//
// # Replacement Semantics
//
// Transforms that need scratch space build a complete new pixel slice and
// swap it in when done, so a Buffer is never observed half-transformed.
// Operations that change dimensions replace the width, height and slice
// together. Binary operators only read their argument.
//
// # Thread Safety
//
// A Buffer is not safe for concurrent mutation. Distinct buffers share no
// state, except that Image returns a view over the same bytes.
//
// DoubleSize and Resize hand the interpolation to the imaging package, which
// splits it across goroutines internally. The calls are still synchronous
// and their output does not depend on scheduling.
//
// # Error Handling
//
// Failures are reported through the sentinel errors in this package
// (ErrInvalidSize, ErrSizeMismatch, ErrNilImage, ...), wrapped with context.
// A failed operation never modifies its receiver.
package raster
