package script

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ironsheep/raster-tools-mcp/internal/raster"
)

// Operation is one named command of the interpreter.
type Operation struct {
	Name        string   `json:"name"`
	Args        []string `json:"args,omitempty"`
	Category    string   `json:"category"`
	Description string   `json:"description"`

	needsImage bool
	run        func(s *Session, args []string) (*Result, error)
}

// Usage returns the command with its argument placeholders, e.g. "scale FACTOR".
func (op Operation) Usage() string {
	return strings.Join(append([]string{op.Name}, op.Args...), " ")
}

var operations = []Operation{
	// File
	{Name: "load", Args: []string{"PATH"}, Category: "file",
		Description: "Load an image file and make it the current image.",
		run:         runLoad},
	{Name: "save", Args: []string{"PATH"}, Category: "file", needsImage: true,
		Description: "Save the current image; the format follows the file extension.",
		run:         runSave},
	{Name: "compare", Args: []string{"PATH"}, Category: "file", needsImage: true,
		Description: "Compare the current image byte for byte with an image file.",
		run:         runCompare},
	{Name: "clear", Category: "file", needsImage: true,
		Description: "Set every pixel of the current image to transparent black.",
		run:         unary((*raster.Buffer).ClearToBlack)},

	// Color
	{Name: "gray", Category: "color", needsImage: true,
		Description: "Convert to grayscale using 0.299R + 0.587G + 0.114B.",
		run:         unary((*raster.Buffer).Grayscale)},
	{Name: "quant-unif", Category: "color", needsImage: true,
		Description: "Uniform quantization to 3 bits red, 3 bits green, 2 bits blue.",
		run:         unary((*raster.Buffer).QuantizeUniform)},
	{Name: "quant-pop", Category: "color", needsImage: true,
		Description: "Populosity quantization to the 256 most common colors.",
		run:         unary((*raster.Buffer).QuantizePopulosity)},

	// Dither
	{Name: "dither-thresh", Category: "dither", needsImage: true,
		Description: "Black and white with a fixed threshold of 128.",
		run:         unary((*raster.Buffer).DitherThreshold)},
	{Name: "dither-rand", Category: "dither", needsImage: true,
		Description: "Add random noise to the luma, then brightness-preserving threshold.",
		run: func(s *Session, _ []string) (*Result, error) {
			s.current.DitherRandom(s.rng)
			return &Result{}, nil
		}},
	{Name: "dither-fs", Category: "dither", needsImage: true,
		Description: "Floyd-Steinberg error diffusion to black and white.",
		run:         unary((*raster.Buffer).DitherFS)},
	{Name: "dither-bright", Category: "dither", needsImage: true,
		Description: "Threshold that preserves the average brightness.",
		run:         unary((*raster.Buffer).DitherBright)},
	{Name: "dither-cluster", Category: "dither", needsImage: true,
		Description: "Ordered dither with a 4x4 clustered-dot mask.",
		run:         unary((*raster.Buffer).DitherCluster)},
	{Name: "dither-pattern", Category: "dither", needsImage: true,
		Description: "Ordered dither with the 4x4 Bayer matrix.",
		run:         unary((*raster.Buffer).DitherPattern)},
	{Name: "dither-color", Category: "dither", needsImage: true,
		Description: "Floyd-Steinberg error diffusion to the uniform 8-8-4 color palette.",
		run:         unary((*raster.Buffer).DitherColor)},

	// Filter
	{Name: "filter-box", Category: "filter", needsImage: true,
		Description: "5x5 box filter.",
		run:         unary((*raster.Buffer).FilterBox)},
	{Name: "filter-bartlett", Category: "filter", needsImage: true,
		Description: "5x5 Bartlett filter.",
		run:         unary((*raster.Buffer).FilterBartlett)},
	{Name: "filter-gauss", Category: "filter", needsImage: true,
		Description: "5x5 Gaussian filter.",
		run:         unary((*raster.Buffer).FilterGaussian)},
	{Name: "filter-gauss-n", Args: []string{"N"}, Category: "filter", needsImage: true,
		Description: fmt.Sprintf("NxN binomial Gaussian filter, N from 1 to %d.", raster.MaxGaussianN),
		run:         runGaussianN},
	{Name: "filter-edge", Category: "filter", needsImage: true,
		Description: "Edge detection: the image minus its Gaussian blur.",
		run:         unary((*raster.Buffer).FilterEdge)},
	{Name: "filter-enhance", Category: "filter", needsImage: true,
		Description: "Edge enhancement: the image plus its edge signal.",
		run:         unary((*raster.Buffer).FilterEnhance)},
	{Name: "npr-paint", Category: "filter", needsImage: true,
		Description: "Painterly rendering with brush radii 7, 3 and 1.",
		run: func(s *Session, _ []string) (*Result, error) {
			s.current.PaintPainterly(s.rng, raster.DefaultPainterlyOptions())
			return &Result{}, nil
		}},

	// Resize
	{Name: "half", Category: "resize", needsImage: true,
		Description: "Halve both dimensions with a 3x3 binomial prefilter.",
		run:         unary((*raster.Buffer).HalveSize)},
	{Name: "double", Category: "resize", needsImage: true,
		Description: "Double both dimensions with bilinear interpolation.",
		run:         checked((*raster.Buffer).DoubleSize)},
	{Name: "scale", Args: []string{"FACTOR"}, Category: "resize", needsImage: true,
		Description: "Scale both dimensions by FACTOR with bilinear interpolation.",
		run:         runScale},
	{Name: "rotate", Args: []string{"DEGREES"}, Category: "resize", needsImage: true,
		Description: "Rotate clockwise about the center, keeping the dimensions.",
		run:         runRotate},

	// Composite
	{Name: "comp-over", Args: []string{"PATH"}, Category: "composite", needsImage: true,
		Description: "Composite the current image over the file.",
		run:         binary((*raster.Buffer).CompOver)},
	{Name: "comp-in", Args: []string{"PATH"}, Category: "composite", needsImage: true,
		Description: "Keep the current image inside the file's coverage.",
		run:         binary((*raster.Buffer).CompIn)},
	{Name: "comp-out", Args: []string{"PATH"}, Category: "composite", needsImage: true,
		Description: "Keep the current image outside the file's coverage.",
		run:         binary((*raster.Buffer).CompOut)},
	{Name: "comp-atop", Args: []string{"PATH"}, Category: "composite", needsImage: true,
		Description: "Composite the current image over the file, inside its coverage.",
		run:         binary((*raster.Buffer).CompAtop)},
	{Name: "comp-xor", Args: []string{"PATH"}, Category: "composite", needsImage: true,
		Description: "Keep each image where the other is transparent.",
		run:         binary((*raster.Buffer).CompXor)},
	{Name: "diff", Args: []string{"PATH"}, Category: "composite", needsImage: true,
		Description: "Absolute per-channel difference with the file.",
		run:         binary((*raster.Buffer).Difference)},
}

var byName = func() map[string]Operation {
	m := make(map[string]Operation, len(operations))
	for _, op := range operations {
		m[op.Name] = op
	}
	return m
}()

// Lookup finds an operation by command name.
func Lookup(name string) (Operation, bool) {
	op, ok := byName[name]
	return op, ok
}

// Operations returns every command in display order.
func Operations() []Operation {
	out := make([]Operation, len(operations))
	copy(out, operations)
	return out
}

func unary(f func(*raster.Buffer)) func(*Session, []string) (*Result, error) {
	return func(s *Session, _ []string) (*Result, error) {
		f(s.current)
		return &Result{}, nil
	}
}

func checked(f func(*raster.Buffer) error) func(*Session, []string) (*Result, error) {
	return func(s *Session, _ []string) (*Result, error) {
		if err := f(s.current); err != nil {
			return nil, err
		}
		return &Result{}, nil
	}
}

func binary(f func(*raster.Buffer, *raster.Buffer) error) func(*Session, []string) (*Result, error) {
	return func(s *Session, args []string) (*Result, error) {
		other, err := s.loadOther(args[0])
		if err != nil {
			return nil, err
		}
		if err := f(s.current, other); err != nil {
			return nil, err
		}
		return &Result{}, nil
	}
}

func runLoad(s *Session, args []string) (*Result, error) {
	buf, err := s.cache.Load(s.resolve(args[0]))
	if err != nil {
		return nil, err
	}
	s.current = buf
	return &Result{Message: "loaded " + args[0]}, nil
}

func runSave(s *Session, args []string) (*Result, error) {
	if err := s.cache.Save(s.resolve(args[0]), s.current); err != nil {
		return nil, err
	}
	return &Result{Message: "saved " + args[0]}, nil
}

func runCompare(s *Session, args []string) (*Result, error) {
	other, err := s.loadOther(args[0])
	if err != nil {
		return nil, err
	}
	cmp, err := s.current.Compare(other)
	if err != nil {
		return nil, err
	}

	match := cmp.Equal
	msg := "images match"
	switch {
	case !cmp.SameSize:
		msg = fmt.Sprintf("images differ in size: %dx%d vs %dx%d",
			s.current.Width(), s.current.Height(), other.Width(), other.Height())
	case !cmp.Equal:
		msg = fmt.Sprintf("images differ: %d of %d pixels", cmp.PixelsDifferent, cmp.TotalPixels)
	}
	return &Result{Message: msg, Match: &match}, nil
}

func runGaussianN(s *Session, args []string) (*Result, error) {
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return nil, fmt.Errorf("%w: N must be an integer, got %q", ErrUsage, args[0])
	}
	if err := s.current.FilterGaussianN(n); err != nil {
		return nil, err
	}
	return &Result{}, nil
}

func runScale(s *Session, args []string) (*Result, error) {
	f, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return nil, fmt.Errorf("%w: FACTOR must be a number, got %q", ErrUsage, args[0])
	}
	if err := s.current.Resize(f); err != nil {
		return nil, err
	}
	return &Result{}, nil
}

func runRotate(s *Session, args []string) (*Result, error) {
	deg, err := strconv.ParseFloat(args[0], 64)
	if err != nil || math.IsNaN(deg) || math.IsInf(deg, 0) {
		return nil, fmt.Errorf("%w: DEGREES must be a number, got %q", ErrUsage, args[0])
	}
	s.current.Rotate(deg)
	return &Result{}, nil
}
