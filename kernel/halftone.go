package kernel

import (
	"context"
	"image"
	"math"

	"github.com/makeworld-the-better-one/ditherlab/palette"
)

// HalftoneScreen draws one round dot per square cell. The darker the cell, the
// bigger the dot. Dots use the darkest palette color and everything else the
// lightest, so the order of the palette doesn't matter.
//
// Cells on the right and bottom edges are cut short by the image, and their
// dots are sized and centered for what's left.
type HalftoneScreen struct {
	CellSize int
	Workers  int
}

func (hs *HalftoneScreen) Apply(ctx context.Context, src *image.NRGBA, p *palette.Palette) (*image.NRGBA, error) {
	dst := newOutput(src)
	w, h := dst.Rect.Dx(), dst.Rect.Dy()
	size := hs.CellSize
	if size < 1 {
		size = DefaultCellSize
	}

	dark, light := p.Extremes()
	fg, bg := p.Colors[dark], p.Colors[light]

	cellRows := (h + size - 1) / size
	err := forRows(ctx, cellRows, hs.Workers, func(_, row int) {
		y0 := row * size
		ch := size
		if y0+ch > h {
			ch = h - y0
		}
		for x0 := 0; x0 < w; x0 += size {
			cw := size
			if x0+cw > w {
				cw = w - x0
			}
			hs.cell(src, dst, x0, y0, cw, ch, fg, bg)
		}
	})
	if err != nil {
		return nil, err
	}
	return dst, nil
}

// cell fills the cw×ch cell at (x0, y0).
func (hs *HalftoneScreen) cell(src, dst *image.NRGBA, x0, y0, cw, ch int, fg, bg palette.Color) {
	var sum float64
	for y := y0; y < y0+ch; y++ {
		for x := x0; x < x0+cw; x++ {
			sum += palette.Luminance(pixel(src, x, y))
		}
	}
	r := DotRadius(sum/float64(cw*ch), cw, ch)
	r2 := r * r

	cx := float64(x0) + float64(cw)/2
	cy := float64(y0) + float64(ch)/2
	for y := y0; y < y0+ch; y++ {
		dy := float64(y) + 0.5 - cy
		for x := x0; x < x0+cw; x++ {
			dx := float64(x) + 0.5 - cx
			if dx*dx+dy*dy < r2 {
				setPixel(dst, x, y, fg)
			} else {
				setPixel(dst, x, y, bg)
			}
		}
	}
}

// DotRadius maps the mean luminance of a cw×ch cell to a dot radius in
// pixels. White gives 0, and black gives half the cell diagonal, which covers
// the whole cell.
func DotRadius(luminance float64, cw, ch int) float64 {
	darkness := 1 - luminance/255
	if darkness < 0 {
		darkness = 0
	} else if darkness > 1 {
		darkness = 1
	}
	return darkness * math.Hypot(float64(cw), float64(ch)) / 2
}
