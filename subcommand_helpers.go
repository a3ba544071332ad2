package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/makeworld-the-better-one/ditherlab/kernel"
	"github.com/makeworld-the-better-one/ditherlab/palette"
	"github.com/makeworld-the-better-one/ditherlab/render"
)

// parsePercentArg takes a string like "0.5" or "50%" and will return a float
// like 50 or 0.5, depending on the second argument. An empty string returns 0.
//
// If `maxOne` is true, then "50%" will return 0.5. Otherwise it will return 50.
func parsePercentArg(arg string, maxOne bool) (float64, error) {
	if arg == "" {
		return 0, nil
	}
	if strings.HasSuffix(arg, "%") {
		arg = arg[:len(arg)-1]
		f64, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return 0, err
		}
		if maxOne {
			f64 /= 100.0
		}
		return f64, nil
	}
	f64, err := strconv.ParseFloat(arg, 64)
	if !maxOne {
		f64 *= 100.0
	}
	return f64, err
}

// parseArgs takes arguments and splits them using the provided split characters.
func parseArgs(args []string, splitRunes string) []string {
	finalArgs := make([]string, 0)
	for _, arg := range args {
		finalArgs = append(finalArgs, strings.FieldsFunc(arg, func(c rune) bool {
			for _, c2 := range splitRunes {
				if c == c2 {
					return true
				}
			}
			return false
		})...)
	}
	return finalArgs
}

// getInputImage takes an input image arg and returns an image that has
// modifications applied.
func getInputImage(arg string) (*image.NRGBA, error) {
	var img *image.NRGBA
	var err error

	if arg == "-" {
		img, err = render.Decode(os.Stdin, autoOrientation)
	} else {
		img, err = render.Open(arg, autoOrientation)
	}
	if err != nil {
		return nil, err
	}

	if width != 0 || height != 0 {
		// Box sampling is quick and fast, and better then others at downscaling
		// Downscaling will be a much more common use case for pre-dither scaling
		// then upscaling
		// https://pkg.go.dev/github.com/disintegration/imaging#ResampleFilter
		img = imaging.Resize(img, width, height, imaging.Box)
	}

	if grayscale {
		img = imaging.Grayscale(img)
	}
	if saturation != 0 {
		img = imaging.AdjustSaturation(img, saturation)
	}
	if contrast != 0 {
		img = imaging.AdjustContrast(img, contrast)
	}
	if brightness != 0 {
		img = imaging.AdjustBrightness(img, brightness)
	}

	return img, nil
}

// recolor will recolor the image pixels if necessary. It should be called
// before writing any image, and only be given a dithered image. The image is
// changed in place.
func recolor(img *image.NRGBA, p *palette.Palette) *image.NRGBA {
	if len(recolorPalette) == 0 {
		return img
	}

	// Rendered images are opaque, so only RGB needs to be matched. The
	// recolor color itself may have alpha.
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			i := p.Index(palette.FromColor(img.NRGBAAt(x, y)))
			if i < 0 {
				// Halftone only uses palette colors too, so this should never happen
				i = 0
			}
			img.Set(x, y, recolorPalette[i])
		}
	}
	return img
}

// postProcImage post-processes the image, applying recolor and upscaling.
func postProcImage(img *image.NRGBA, p *palette.Palette) *image.NRGBA {
	img = recolor(img, p)

	if upscale == 1 {
		return img
	}
	return imaging.Resize(
		img,
		img.Bounds().Dx()*upscale,
		0,
		imaging.NearestNeighbor,
	)
}

// outputColors returns the colors a finished image can contain, for the GIF
// encoder.
func outputColors(p *palette.Palette) []color.Color {
	if len(recolorPalette) != 0 {
		return recolorPalette
	}
	return p.ColorPalette()
}

// renderImage dithers one image through the controller and returns what was
// committed for it.
func renderImage(img *image.NRGBA, a kernel.Algorithm, params kernel.Params) (render.Output, error) {
	job, err := controller.Submit(render.Request{
		Image:     img,
		Palette:   pal.Name,
		Algorithm: string(a),
		Params:    params,
	})
	if err != nil {
		return render.Output{}, err
	}
	if _, err := job.Wait(context.Background()); err != nil {
		return render.Output{}, err
	}
	out, ok := sink.Output()
	if !ok || out.Generation != job.Generation {
		// Only one job runs at a time here, so nothing can supersede it
		return render.Output{}, errors.New("rendered image was not delivered")
	}
	return out, nil
}

// processImages dithers all the input images and writes them.
// It handles all image I/O.
func processImages(a kernel.Algorithm, params kernel.Params) error {
	for _, inputPath := range inputImages {
		img, err := getInputImage(inputPath)
		if err != nil {
			return fmt.Errorf("error loading '%s': %w", inputPath, err)
		}

		out, err := renderImage(img, a, params)
		if err != nil {
			return fmt.Errorf("'%s': %w", inputPath, err)
		}

		if err := writeImage(inputPath, postProcImage(out.Image, out.Palette), out.Palette); err != nil {
			return err
		}
	}
	return nil
}

// writeImage writes a finished image to wherever the output flag points.
func writeImage(inputPath string, img *image.NRGBA, p *palette.Palette) error {
	var file io.WriteCloser
	var path string
	var err error

	if outPath == "-" {
		file = os.Stdout
		path = "stdout"
	} else {
		if outIsDir {
			// Inside output directory
			// Same name as input file but potentially different extension
			path = filepath.Join(
				outPath,
				strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))+"."+outFormat,
			)
		} else {
			// Output file path
			path = outPath
		}

		file, err = os.OpenFile(path, outFileFlags, 0644)
		if err != nil {
			return fmt.Errorf("'%s': %w", path, err)
		}
	}

	if outFormat == "png" {
		err = (&png.Encoder{CompressionLevel: compLevel}).Encode(file, img)
		if err != nil {
			defer file.Close() // Keep (possibly stdout) open to write error messages then close
			return fmt.Errorf("error writing PNG to '%s': %w", path, err)
		}
		return file.Close()
	}

	// Output static GIF
	// Every pixel is already a palette color, so drawing with draw.Src onto the
	// fixed palette changes nothing.
	colors := outputColors(p)
	err = gif.Encode(
		file, img,
		&gif.Options{
			NumColors: len(colors),
			Quantizer: &fakeQuantizer{colors},
			Drawer:    draw.Src,
		},
	)
	if err != nil {
		defer file.Close()
		return fmt.Errorf("error writing GIF to '%s': %w", path, err)
	}
	return file.Close()
}
