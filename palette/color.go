package palette

import (
	"fmt"
	"image/color"
)

// Color is an opaque 8-bit RGB color. It's a value type and never changes
// after creation.
type Color struct {
	R, G, B uint8
}

// RGBA implements color.Color. The color is always fully opaque.
func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	a = 0xffff
	return
}

// NRGBA returns the color as an opaque color.NRGBA.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{c.R, c.G, c.B, 255}
}

func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// FromColor converts any color.Color. Alpha is dropped, the channels are
// taken as non-premultiplied.
func FromColor(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color{n.R, n.G, n.B}
}

// Distance returns the squared Euclidean distance between a and b over the
// three channels. Channels are not weighted.
func Distance(a, b Color) int {
	dr := int(a.R) - int(b.R)
	dg := int(a.G) - int(b.G)
	db := int(a.B) - int(b.B)
	return dr*dr + dg*dg + db*db
}

// Luminance returns 0.299R + 0.587G + 0.114B, in the range [0, 255]. Grays
// come out exactly equal to their level.
func Luminance(c Color) float64 {
	return float64(299*int(c.R)+587*int(c.G)+114*int(c.B)) / 1000
}
