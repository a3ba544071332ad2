// Package quantize maps arbitrary colors to their nearest palette color.
package quantize

import (
	"github.com/makeworld-the-better-one/ditherlab/palette"
)

// maxCacheEntries caps how much a single Quantizer will memoize. Photos can
// have millions of distinct colors; past this point lookups are just computed.
const maxCacheEntries = 1 << 18

// Quantizer finds the nearest palette color, remembering previous answers.
//
// A Quantizer is not safe for concurrent use. It belongs to a single render
// job, or a single worker goroutine within one, and should be dropped when
// that finishes. Its cache is only valid for the palette it was created with.
type Quantizer struct {
	colors []palette.Color
	cache  map[palette.Color]int
}

// New returns a Quantizer for p. The palette's colors must not be modified
// while the Quantizer is in use.
func New(p *palette.Palette) *Quantizer {
	return &Quantizer{
		colors: p.Colors,
		cache:  make(map[palette.Color]int),
	}
}

// Nearest returns the index and value of the palette color closest to c.
// Ties go to the lowest index.
func (q *Quantizer) Nearest(c palette.Color) (int, palette.Color) {
	if i, ok := q.cache[c]; ok {
		return i, q.colors[i]
	}
	i, pc := Nearest(c, q.colors)
	if len(q.cache) < maxCacheEntries {
		q.cache[c] = i
	}
	return i, pc
}

// Nearest is the uncached search behind Quantizer.Nearest. colors must not be
// empty.
func Nearest(c palette.Color, colors []palette.Color) (int, palette.Color) {
	best := 0
	bestDist := palette.Distance(c, colors[0])
	for i := 1; i < len(colors); i++ {
		// Strictly less, so the first of equally close colors wins
		if d := palette.Distance(c, colors[i]); d < bestDist {
			best, bestDist = i, d
			if d == 0 {
				break
			}
		}
	}
	return best, colors[best]
}
