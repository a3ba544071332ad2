package kernel

import (
	"context"
	"fmt"
	"image"

	"github.com/makeworld-the-better-one/ditherlab/palette"
)

// bayerMatrices holds the threshold rank matrices for every supported size.
// They're built once and never written to again.
var bayerMatrices = map[int][][]int{}

func init() {
	for _, n := range []int{2, 4, 8, 16} {
		bayerMatrices[n] = buildBayer(n)
	}
}

// buildBayer builds an n×n Bayer matrix recursively from the 2×2 one. n must
// be a power of two, 2 or larger.
func buildBayer(n int) [][]int {
	if n == 2 {
		return [][]int{
			{0, 2},
			{3, 1},
		}
	}
	prev := buildBayer(n / 2)
	half := n / 2
	m := make([][]int, n)
	for i := range m {
		m[i] = make([]int, n)
	}
	for i := 0; i < half; i++ {
		for j := 0; j < half; j++ {
			v := 4 * prev[i][j]
			m[i][j] = v
			m[i][j+half] = v + 2
			m[i+half][j] = v + 3
			m[i+half][j+half] = v + 1
		}
	}
	return m
}

// BayerMatrix returns a copy of the n×n Bayer matrix, for n in {2, 4, 8, 16}.
// Every value in it is a distinct integer in [0, n²-1].
func BayerMatrix(n int) ([][]int, error) {
	m, ok := bayerMatrices[n]
	if !ok {
		return nil, fmt.Errorf("%w: no %dx%d Bayer matrix", ErrInvalidParams, n, n)
	}
	c := make([][]int, n)
	for i := range m {
		c[i] = append([]int(nil), m[i]...)
	}
	return c, nil
}

// Ordered is Bayer ordered dithering. Each pixel has a bias added to all its
// channels before it's quantized. The bias depends only on the pixel position
// modulo the matrix size, so the image size doesn't need to be a multiple of
// it.
type Ordered struct {
	// bias[x%n][y%n] is in channel units, and sums to zero over the matrix.
	bias    [][]float64
	workers int
}

// NewOrdered returns an ordered ditherer with an n×n Bayer matrix. strength
// scales the bias; 1 spreads it over the full channel range.
func NewOrdered(n int, strength float64, workers int) (*Ordered, error) {
	m, ok := bayerMatrices[n]
	if !ok {
		return nil, fmt.Errorf("%w: no %dx%d Bayer matrix", ErrInvalidParams, n, n)
	}
	cells := float64(n * n)
	bias := make([][]float64, n)
	for i := range m {
		bias[i] = make([]float64, n)
		for j, rank := range m[i] {
			bias[i][j] = ((float64(rank)+0.5)/cells - 0.5) * 255 * strength
		}
	}
	return &Ordered{bias: bias, workers: workers}, nil
}

// Size returns the edge length of the matrix.
func (o *Ordered) Size() int {
	return len(o.bias)
}

func (o *Ordered) Apply(ctx context.Context, src *image.NRGBA, p *palette.Palette) (*image.NRGBA, error) {
	dst := newOutput(src)
	w, h := dst.Rect.Dx(), dst.Rect.Dy()
	n := len(o.bias)
	qs := quantizers(p, o.workers)

	err := forRows(ctx, h, o.workers, func(worker, y int) {
		q := qs[worker]
		for x := 0; x < w; x++ {
			b := o.bias[x%n][y%n]
			c := pixel(src, x, y)
			c = palette.Color{
				R: clampByte(float64(c.R) + b),
				G: clampByte(float64(c.G) + b),
				B: clampByte(float64(c.B) + b),
			}
			_, c = q.Nearest(c)
			setPixel(dst, x, y, c)
		}
	})
	if err != nil {
		return nil, err
	}
	return dst, nil
}
