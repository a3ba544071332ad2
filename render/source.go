package render

import (
	"image"
	"io"

	"github.com/disintegration/imaging"
)

// Decode reads an image in any format imaging supports and converts it to
// NRGBA at the origin. If autoOrient is set the EXIF orientation tag is
// applied. Failures are *DecodeError.
func Decode(r io.Reader, autoOrient bool) (*image.NRGBA, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(autoOrient))
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	return toNRGBA(img), nil
}

// Open is like Decode, but for a file.
func Open(path string, autoOrient bool) (*image.NRGBA, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(autoOrient))
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	return toNRGBA(img), nil
}

func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	return imaging.Clone(img)
}
