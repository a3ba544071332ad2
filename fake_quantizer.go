package main

import (
	"image"
	"image/color"
)

// fakeQuantizer implements draw.Quantizer. It ignores the provided image
// and just returns the provided palette each time. Dithered images only hold
// palette colors already, so the GIF encoder shouldn't pick its own.
type fakeQuantizer struct {
	p []color.Color
}

func (fq *fakeQuantizer) Quantize(p color.Palette, m image.Image) color.Palette {
	return append(p[:0], fq.p...)
}
