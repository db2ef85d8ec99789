package raster

import (
	"errors"
	"image/color"
	"testing"
)

// newSpot creates an opaque black 5x5 image with a single white center pixel
func newSpot(t *testing.T) *Buffer {
	t.Helper()
	b := newFilled(t, 5, 5, color.RGBA{0, 0, 0, 255})
	b.Set(2, 2, color.RGBA{255, 255, 255, 255})
	return b
}

func TestFilters_Checkerboard(t *testing.T) {
	tests := []struct {
		name  string
		apply func(*Buffer)
		want  [][]byte
	}{
		{
			name:  "box",
			apply: (*Buffer).FilterBox,
			want: [][]byte{
				{141, 127, 127, 113},
				{127, 127, 127, 127},
				{127, 127, 127, 127},
				{113, 127, 127, 141},
			},
		},
		{
			name:  "bartlett",
			apply: (*Buffer).FilterBartlett,
			want: [][]byte{
				{141, 127, 127, 113},
				{127, 127, 127, 127},
				{127, 127, 127, 127},
				{113, 127, 127, 141},
			},
		},
		{
			name:  "gaussian",
			apply: (*Buffer).FilterGaussian,
			want: [][]byte{
				{139, 128, 126, 115},
				{128, 127, 127, 126},
				{126, 127, 127, 128},
				{115, 126, 128, 139},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newChecker(t, 4, 4)
			tt.apply(b)
			assertGrayRows(t, b, tt.want)
		})
	}
}

func TestFilterGaussian_Spot(t *testing.T) {
	b := newSpot(t)
	b.FilterGaussian()
	assertGrayRows(t, b, [][]byte{
		{1, 5, 9, 5, 1},
		{5, 17, 25, 17, 5},
		{9, 25, 38, 25, 9},
		{5, 17, 25, 17, 5},
		{1, 5, 9, 5, 1},
	})
}

func TestFilters_KeepAlpha(t *testing.T) {
	b := newChecker(t, 4, 4)
	b.Set(1, 2, color.RGBA{0, 0, 0, 17})

	b.FilterBox()

	if got := b.At(1, 2).A; got != 17 {
		t.Errorf("alpha at (1,2): got %d, want 17", got)
	}
	if got := b.At(0, 0).A; got != 255 {
		t.Errorf("alpha at (0,0): got %d, want 255", got)
	}
}

func TestFilters_UniformIsFixedPoint(t *testing.T) {
	filters := map[string]func(*Buffer){
		"box":      (*Buffer).FilterBox,
		"bartlett": (*Buffer).FilterBartlett,
		"gaussian": (*Buffer).FilterGaussian,
	}

	for name, apply := range filters {
		t.Run(name, func(t *testing.T) {
			b := newFilled(t, 6, 3, color.RGBA{90, 180, 45, 255})
			want := b.Copy()
			apply(b)
			if !b.Equal(want) {
				t.Error("filtering a uniform image should not change it")
			}
		})
	}
}

func TestFilterGaussianN(t *testing.T) {
	t.Run("size 1 is identity", func(t *testing.T) {
		b := newChecker(t, 4, 4)
		want := b.Copy()
		if err := b.FilterGaussianN(1); err != nil {
			t.Fatalf("FilterGaussianN(1) failed: %v", err)
		}
		if !b.Equal(want) {
			t.Error("1x1 kernel should leave the image unchanged")
		}
	})

	t.Run("size 3 on spot", func(t *testing.T) {
		b := newSpot(t)
		if err := b.FilterGaussianN(3); err != nil {
			t.Fatalf("FilterGaussianN(3) failed: %v", err)
		}
		assertGrayRows(t, b, [][]byte{
			{0, 0, 0, 0, 0},
			{0, 15, 31, 15, 0},
			{0, 31, 63, 31, 0},
			{0, 15, 31, 15, 0},
			{0, 0, 0, 0, 0},
		})
	})
}

func TestFilterGaussianN_InvalidSize(t *testing.T) {
	for _, n := range []int{0, -3, MaxGaussianN + 1} {
		b := newChecker(t, 4, 4)
		want := b.Copy()
		err := b.FilterGaussianN(n)
		if !errors.Is(err, ErrInvalidKernel) {
			t.Errorf("n=%d: error got %v, want ErrInvalidKernel", n, err)
		}
		if !b.Equal(want) {
			t.Errorf("n=%d: image changed on error", n)
		}
	}
}

func TestFilterEdge_Spot(t *testing.T) {
	b := newSpot(t)
	b.FilterEdge()

	want := make([][]byte, 5)
	for y := range want {
		want[y] = make([]byte, 5)
	}
	want[2][2] = 217
	assertGrayRows(t, b, want)
}

func TestFilterEnhance_Spot(t *testing.T) {
	b := newSpot(t)
	b.FilterEnhance()

	want := make([][]byte, 5)
	for y := range want {
		want[y] = make([]byte, 5)
	}
	want[2][2] = 255
	assertGrayRows(t, b, want)
}

func TestBinomial(t *testing.T) {
	tests := []struct {
		n, s int
		want float64
	}{
		{4, 2, 6},
		{5, 0, 1},
		{10, 3, 120},
		{20, 10, 184756},
	}

	for _, tt := range tests {
		if got := Binomial(tt.n, tt.s); got != tt.want {
			t.Errorf("Binomial(%d, %d): got %v, want %v", tt.n, tt.s, got, tt.want)
		}
	}
}

func TestBinomialKernel(t *testing.T) {
	k := binomialKernel(5)
	row := []int64{1, 4, 6, 4, 1}

	var total int64
	for m := 0; m < k.size; m++ {
		for n := 0; n < k.size; n++ {
			w := k.weights[m*k.size+n]
			if w != row[m]*row[n] {
				t.Errorf("weight [%d][%d]: got %d, want %d", m, n, w, row[m]*row[n])
			}
			total += w
		}
	}
	if total != 256 {
		t.Errorf("total: got %d, want 256", total)
	}
}
