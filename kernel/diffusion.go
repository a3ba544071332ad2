package kernel

import (
	"context"
	"image"
	"math"

	"github.com/makeworld-the-better-one/dither/v2"

	"github.com/makeworld-the-better-one/ditherlab/palette"
	"github.com/makeworld-the-better-one/ditherlab/quantize"
)

// Tap is one neighbor that receives quantization error: Weight/Divisor of it,
// at (DX, DY) from the current pixel. DY is never negative, and DX is
// positive when DY is 0, so taps only reach pixels that haven't been visited.
type Tap struct {
	DX, DY int
	Weight int
}

// Diffusion is an error diffusion kernel. The image is scanned left to right,
// top to bottom. Error that would land outside the image is dropped, as is
// whatever part of it the weights don't add up to.
type Diffusion struct {
	Name    string
	Taps    []Tap
	Divisor int
}

var (
	// FloydSteinbergDiffusion passes on all of the error.
	FloydSteinbergDiffusion = Diffusion{
		Name:    string(FloydSteinberg),
		Taps:    tapsFromMatrix(dither.FloydSteinberg, 16),
		Divisor: 16,
	}

	// AtkinsonDiffusion passes on 6/8 of the error. Losing the other 2/8 is
	// what gives Atkinson its high contrast.
	AtkinsonDiffusion = Diffusion{
		Name:    string(Atkinson),
		Taps:    tapsFromMatrix(dither.Atkinson, 8),
		Divisor: 8,
	}
)

// tapsFromMatrix converts a dither library matrix into taps with integer
// weights over divisor. The current pixel is the zero just before the first
// non-zero value of the top row.
func tapsFromMatrix(m dither.ErrorDiffusionMatrix, divisor int) []Tap {
	cur := len(m[0]) / 2
	for i, v := range m[0] {
		if v != 0 {
			cur = i - 1
			break
		}
	}
	var taps []Tap
	for dy, row := range m {
		for col, v := range row {
			if v == 0 {
				continue
			}
			taps = append(taps, Tap{
				DX:     col - cur,
				DY:     dy,
				Weight: int(math.Round(float64(v) * float64(divisor))),
			})
		}
	}
	return taps
}

// TotalWeight returns the sum of the tap weights. It's equal to Divisor when
// no error is dropped inside the image.
func (d *Diffusion) TotalWeight() int {
	total := 0
	for _, t := range d.Taps {
		total += t.Weight
	}
	return total
}

// Apply dithers src. It can't be split over goroutines without changing the
// output, so it runs on the calling one.
func (d *Diffusion) Apply(ctx context.Context, src *image.NRGBA, p *palette.Palette) (*image.NRGBA, error) {
	dst := newOutput(src)
	w, h := dst.Rect.Dx(), dst.Rect.Dy()

	// Scratch space for the error-adjusted colors, three channels per pixel.
	// It's owned by this call and dropped when it returns.
	buf := make([]float32, w*h*3)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := pixel(src, x, y)
			i := (y*w + x) * 3
			buf[i] = float32(c.R)
			buf[i+1] = float32(c.G)
			buf[i+2] = float32(c.B)
		}
	}

	q := quantize.New(p)
	for y := 0; y < h; y++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for x := 0; x < w; x++ {
			i := (y*w + x) * 3
			old := [3]float32{buf[i], buf[i+1], buf[i+2]}
			_, c := q.Nearest(palette.Color{
				R: clampByte(float64(old[0])),
				G: clampByte(float64(old[1])),
				B: clampByte(float64(old[2])),
			})
			setPixel(dst, x, y, c)

			d.spread(buf, w, h, x, y, [3]float32{
				old[0] - float32(c.R),
				old[1] - float32(c.G),
				old[2] - float32(c.B),
			})
		}
	}
	return dst, nil
}

// spread adds the error of pixel (x, y) to its neighbors in buf. Each channel
// it touches is kept within [0, 255].
func (d *Diffusion) spread(buf []float32, w, h, x, y int, e [3]float32) {
	div := float32(d.Divisor)
	for _, t := range d.Taps {
		nx, ny := x+t.DX, y+t.DY
		if nx < 0 || nx >= w || ny < 0 || ny >= h {
			continue
		}
		f := float32(t.Weight) / div
		j := (ny*w + nx) * 3
		for k := 0; k < 3; k++ {
			buf[j+k] = clamp32(buf[j+k] + e[k]*f)
		}
	}
}

func clamp32(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
