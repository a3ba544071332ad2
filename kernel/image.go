package kernel

import (
	"context"
	"image"

	"golang.org/x/sync/errgroup"

	"github.com/makeworld-the-better-one/ditherlab/palette"
	"github.com/makeworld-the-better-one/ditherlab/quantize"
)

// newOutput returns an image the size of src, at the origin.
func newOutput(src *image.NRGBA) *image.NRGBA {
	return image.NewNRGBA(image.Rect(0, 0, src.Rect.Dx(), src.Rect.Dy()))
}

// pixel returns the color at (x, y), relative to the top-left of src.
func pixel(src *image.NRGBA, x, y int) palette.Color {
	i := src.PixOffset(src.Rect.Min.X+x, src.Rect.Min.Y+y)
	s := src.Pix[i : i+3 : i+3]
	return palette.Color{R: s[0], G: s[1], B: s[2]}
}

// setPixel sets an opaque color on an image made by newOutput.
func setPixel(dst *image.NRGBA, x, y int, c palette.Color) {
	i := y*dst.Stride + x*4
	s := dst.Pix[i : i+4 : i+4]
	s[0] = c.R
	s[1] = c.G
	s[2] = c.B
	s[3] = 255
}

// clampByte rounds v to the nearest value in [0, 255].
func clampByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}

// quantizers returns one Quantizer per worker, as they can't be shared
// between goroutines.
func quantizers(p *palette.Palette, workers int) []*quantize.Quantizer {
	if workers < 1 {
		workers = 1
	}
	qs := make([]*quantize.Quantizer, workers)
	for i := range qs {
		qs[i] = quantize.New(p)
	}
	return qs
}

// forRows calls fn for every row in [0, rows), spread over the given number of
// workers. Worker w handles rows w, w+workers, w+2*workers... so fn always gets
// a worker index below workers. ctx is checked before each row.
func forRows(ctx context.Context, rows, workers int, fn func(worker, y int)) error {
	if workers < 1 {
		workers = 1
	}
	if workers > rows {
		workers = rows
	}
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		w := w
		g.Go(func() error {
			for y := w; y < rows; y += workers {
				if err := gctx.Err(); err != nil {
					return err
				}
				fn(w, y)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	// Catches a cancel that landed after the last row check
	return ctx.Err()
}
