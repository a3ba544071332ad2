// Package kernel implements the dithering algorithms: plain nearest-color
// mapping, Bayer ordered dithering, error diffusion, and halftone dots.
//
// Every kernel reads a source *image.NRGBA without changing it, and returns a
// new, fully opaque *image.NRGBA of the same size whose origin is (0, 0).
// Source alpha is ignored. Kernels check their context once per row and
// return its error instead of a partial image when it's cancelled.
package kernel

import (
	"context"
	"errors"
	"fmt"
	"image"
	"runtime"
	"strings"

	"github.com/makeworld-the-better-one/ditherlab/palette"
)

// Algorithm identifies a dithering algorithm.
type Algorithm string

const (
	None           Algorithm = "none"
	Bayer2         Algorithm = "bayer-2"
	Bayer4         Algorithm = "bayer-4"
	Bayer8         Algorithm = "bayer-8"
	Bayer16        Algorithm = "bayer-16"
	FloydSteinberg Algorithm = "floyd-steinberg"
	Atkinson       Algorithm = "atkinson"
	Halftone       Algorithm = "halftone"
)

var algorithms = []Algorithm{None, Bayer2, Bayer4, Bayer8, Bayer16, FloydSteinberg, Atkinson, Halftone}

var (
	ErrUnknownAlgorithm = errors.New("unknown algorithm")
	ErrInvalidParams    = errors.New("invalid parameters")
)

// Algorithms returns every supported algorithm.
func Algorithms() []Algorithm {
	return append([]Algorithm(nil), algorithms...)
}

// ParseAlgorithm accepts an algorithm name, ignoring case and treating
// underscores as dashes.
func ParseAlgorithm(s string) (Algorithm, error) {
	a := Algorithm(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-"))
	for _, known := range algorithms {
		if a == known {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: '%s'", ErrUnknownAlgorithm, s)
}

// DefaultCellSize is the halftone cell size used when Params.CellSize is 0.
const DefaultCellSize = 8

// Params holds the knobs for an algorithm. The zero value picks defaults.
type Params struct {
	// CellSize is the edge length of a halftone cell, in pixels.
	CellSize int

	// Strength scales the ordered dithering pattern, in the range (0, 1].
	Strength float64

	// Workers is how many goroutines row-independent kernels use. Error
	// diffusion always runs on one. Defaults to GOMAXPROCS.
	Workers int
}

// Validate reports whether the params are usable. Zero values are valid.
func (p Params) Validate() error {
	if p.CellSize < 0 {
		return fmt.Errorf("%w: cell size %d is negative", ErrInvalidParams, p.CellSize)
	}
	if p.Strength < 0 || p.Strength > 1 {
		return fmt.Errorf("%w: strength %g is outside (0, 1]", ErrInvalidParams, p.Strength)
	}
	if p.Workers < 0 {
		return fmt.Errorf("%w: %d workers", ErrInvalidParams, p.Workers)
	}
	return nil
}

func (p Params) withDefaults() Params {
	if p.CellSize == 0 {
		p.CellSize = DefaultCellSize
	}
	if p.Strength == 0 {
		p.Strength = 1
	}
	if p.Workers == 0 {
		p.Workers = runtime.GOMAXPROCS(0)
	}
	return p
}

// Kernel dithers an image to a palette.
type Kernel interface {
	Apply(ctx context.Context, src *image.NRGBA, p *palette.Palette) (*image.NRGBA, error)
}

// New returns the kernel for a with the given params.
func New(a Algorithm, params Params) (Kernel, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	params = params.withDefaults()

	switch a {
	case None:
		return &Nearest{Workers: params.Workers}, nil
	case Bayer2, Bayer4, Bayer8, Bayer16:
		return NewOrdered(bayerSizes[a], params.Strength, params.Workers)
	case FloydSteinberg:
		d := FloydSteinbergDiffusion
		return &d, nil
	case Atkinson:
		d := AtkinsonDiffusion
		return &d, nil
	case Halftone:
		return &HalftoneScreen{CellSize: params.CellSize, Workers: params.Workers}, nil
	}
	return nil, fmt.Errorf("%w: '%s'", ErrUnknownAlgorithm, a)
}

var bayerSizes = map[Algorithm]int{
	Bayer2:  2,
	Bayer4:  4,
	Bayer8:  8,
	Bayer16: 16,
}

// Nearest maps every pixel straight to its nearest palette color, without
// dithering.
type Nearest struct {
	Workers int
}

func (n *Nearest) Apply(ctx context.Context, src *image.NRGBA, p *palette.Palette) (*image.NRGBA, error) {
	dst := newOutput(src)
	w, h := dst.Rect.Dx(), dst.Rect.Dy()
	qs := quantizers(p, n.Workers)

	err := forRows(ctx, h, n.Workers, func(worker, y int) {
		q := qs[worker]
		for x := 0; x < w; x++ {
			_, c := q.Nearest(pixel(src, x, y))
			setPixel(dst, x, y, c)
		}
	})
	if err != nil {
		return nil, err
	}
	return dst, nil
}
