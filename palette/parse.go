package palette

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// ParseColors turns user-supplied color strings into colors. Each string can be
// an RGB tuple like "25,200,150", a hex code like "#ff0080" or "f08", a single
// gray level 0-255, or an SVG color name.
func ParseColors(args []string) ([]Color, error) {
	colors := make([]Color, len(args))

	for i, arg := range args {
		// Try to parse as RGB numbers, then hex, then grayscale, then SVG colors, then fail

		if strings.Count(arg, ",") == 2 {
			c, err := rgbToColor(arg)
			if err != nil {
				return nil, fmt.Errorf("%s is not a valid RGB tuple. Example: 25,200,150", arg)
			}
			colors[i] = c
			continue
		}

		if c, err := hexToColor(arg); err == nil {
			colors[i] = c
			continue
		}

		n, err := strconv.Atoi(arg)
		if err == nil {
			if n > 255 || n < 0 {
				return nil, fmt.Errorf("single numbers like %d must be in the range 0-255", n)
			}
			colors[i] = Color{uint8(n), uint8(n), uint8(n)}
			continue
		}

		htmlColor, ok := colornames.Map[strings.ToLower(arg)]
		if ok {
			colors[i] = FromColor(htmlColor)
			continue
		}

		return nil, fmt.Errorf("%s not recognized as an RGB tuple, hex code, number 0-255, or SVG color name", arg)
	}

	return colors, nil
}

func hexToColor(hex string) (Color, error) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 3 && len(hex) != 6 {
		return Color{}, fmt.Errorf("%s is not a hex color", hex)
	}
	// A plain gray level like "128" would also parse as #112288
	if _, err := strconv.Atoi(hex); err == nil && len(hex) == 3 {
		return Color{}, fmt.Errorf("%s is ambiguous, treating it as a number", hex)
	}
	c, err := colorful.Hex("#" + strings.ToLower(hex))
	if err != nil {
		return Color{}, err
	}
	r, g, b := c.RGB255()
	return Color{r, g, b}, nil
}

func rgbToColor(s string) (Color, error) {
	var r, g, b uint8
	n, err := fmt.Sscanf(s, "%d,%d,%d", &r, &g, &b)
	if err != nil {
		return Color{}, err
	}
	if n != 3 {
		return Color{}, fmt.Errorf("%s is not an RGB tuple", s)
	}
	return Color{r, g, b}, nil
}
