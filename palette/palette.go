// Package palette holds the color model and the named palettes that images
// are dithered to.
package palette

import (
	"errors"
	"fmt"
	"image/color"
)

var (
	// ErrInvalid is wrapped by errors for palettes that have fewer than two
	// colors, or that list a color more than once.
	ErrInvalid = errors.New("invalid palette")

	// ErrUnknown is wrapped by errors for palette names that aren't registered.
	ErrUnknown = errors.New("unknown palette")
)

// Palette is a named, ordered list of distinct colors. Palettes returned by
// this package own their color slice, so callers may keep them for as long
// as they like.
type Palette struct {
	Name   string
	Colors []Color
}

// New validates colors and returns a palette that holds a copy of them.
func New(name string, colors []Color) (*Palette, error) {
	if err := validate(colors); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return &Palette{
		Name:   name,
		Colors: append([]Color(nil), colors...),
	}, nil
}

func validate(colors []Color) error {
	if len(colors) < 2 {
		return fmt.Errorf("%w: need at least two colors, got %d", ErrInvalid, len(colors))
	}
	seen := make(map[Color]int, len(colors))
	for i, c := range colors {
		if j, ok := seen[c]; ok {
			return fmt.Errorf("%w: color %v is listed at %d and %d", ErrInvalid, c, j, i)
		}
		seen[c] = i
	}
	return nil
}

// Len returns the number of colors.
func (p *Palette) Len() int {
	return len(p.Colors)
}

// Extremes returns the indexes of the darkest and lightest colors, by
// Luminance. Ties go to the lowest index. The two indexes always differ, even
// if every color has the same luminance.
func (p *Palette) Extremes() (dark, light int) {
	minL, maxL := Luminance(p.Colors[0]), Luminance(p.Colors[0])
	for i, c := range p.Colors[1:] {
		l := Luminance(c)
		if l < minL {
			minL, dark = l, i+1
		}
		if l > maxL {
			maxL, light = l, i+1
		}
	}
	if dark == light {
		// All the same luminance
		light = 1
	}
	return dark, light
}

// ColorPalette returns the colors as a color.Palette, for encoders like
// image/gif.
func (p *Palette) ColorPalette() color.Palette {
	cp := make(color.Palette, len(p.Colors))
	for i, c := range p.Colors {
		cp[i] = c.NRGBA()
	}
	return cp
}

// Index returns the index of c in the palette, or -1 if it isn't a member.
func (p *Palette) Index(c Color) int {
	for i := range p.Colors {
		if p.Colors[i] == c {
			return i
		}
	}
	return -1
}
