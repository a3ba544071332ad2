package main

import (
	"errors"
	"fmt"
	"image/color"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/makeworld-the-better-one/ditherlab/kernel"
	"github.com/makeworld-the-better-one/ditherlab/palette"
	"github.com/makeworld-the-better-one/ditherlab/render"
)

const (
	unsupportedFormat string = "'%s' is an unsupported format, only 'png' or 'gif' are accepted"
)

var (
	// store holds the built-in palettes, and the custom one if the user gave one.
	store *palette.Store

	// pal is the palette images are dithered to. It's set after pre-processing.
	pal *palette.Palette

	// recolorPalette stores the recolor palette colors. It's set after pre-processing.
	// Guaranteed to only hold color.NRGBA.
	recolorPalette []color.Color

	grayscale bool

	// Range -100,100

	saturation float64
	brightness float64
	contrast   float64

	autoOrientation bool

	inputImages []string
	outPath     string // File, directory, or "-" for stdout
	outFormat   string // "png" or "gif"
	outIsDir    bool

	compLevel png.CompressionLevel

	outFileFlags int // For os.OpenFile

	width  int
	height int
	// upscale will always be 1 or above
	upscale int

	threads int

	// range (0, 1]
	strength float64

	controller *render.Controller
	sink       *render.Latest
)

// customPalette is the store name for a palette given as a list of colors.
const customPalette = "custom"

// preProcess is automatically called by the app before anything else.
// It's run in the global context.
func preProcess(c *cli.Context) error {
	threads = int(c.Uint("threads"))
	runtime.GOMAXPROCS(threads)

	var err error

	grayscale = false
	saturation, err = parsePercentArg(c.String("saturation"), false)
	if err != nil {
		return fmt.Errorf("saturation: %w", err)
	}
	if saturation <= -100 {
		grayscale = true
		saturation = 0
	}
	brightness, err = parsePercentArg(c.String("brightness"), false)
	if err != nil {
		return fmt.Errorf("brightness: %w", err)
	}
	contrast, err = parsePercentArg(c.String("contrast"), false)
	if err != nil {
		return fmt.Errorf("contrast: %w", err)
	}

	autoOrientation = !c.Bool("no-exif-rotation")

	inputImages = make([]string, 0)
	for _, path := range c.StringSlice("in") {
		if strings.Contains(path, "*") {
			// Parse as glob
			paths, err := filepath.Glob(path)
			if err != nil {
				return fmt.Errorf("bad glob pattern '%s': %w", path, err)
			}
			inputImages = append(inputImages, paths...)
		} else {
			inputImages = append(inputImages, path)
		}
	}

	store = palette.NewStore()
	pal, err = loadPalette(c.String("palette"))
	if err != nil {
		return err
	}

	recolorPalette = nil
	if c.String("recolor") != "" {
		colors, err := palette.ParseColors(parseArgs([]string{c.String("recolor")}, " "))
		if err != nil {
			return fmt.Errorf("recolor: %w", err)
		}
		if len(colors) != pal.Len() {
			return errors.New("recolor palette must have the same number of colors as the initial palette")
		}
		recolorPalette = make([]color.Color, len(colors))
		for i := range colors {
			recolorPalette[i] = colors[i].NRGBA()
		}
	}

	// Check if palette is grayscale and make image grayscale
	// Or if the user forces it

	if !grayscale {
		grayscale = true
		if !c.Bool("grayscale") {
			// Grayscale isn't specified by the user
			// So check to see if palette is grayscale
			for _, pc := range pal.Colors {
				if pc.R != pc.G || pc.G != pc.B {
					grayscale = false
					break
				}
			}
		}
	}

	formatVal := c.String("format")
	if formatVal != "png" && formatVal != "gif" {
		return fmt.Errorf(unsupportedFormat, formatVal)
	}

	// Figure out output format

	outVal := c.String("out")
	outPath = outVal
	outIsDir = false

	if outVal == "-" {
		// Outputting to stdout, so just use whatever the flag is
		outFormat = formatVal
	} else {
		// Outputting to dir or file

		outFI, err := os.Stat(outVal)

		if err == nil && outFI.IsDir() {
			// Exists and is a directory
			// Just use what the flag is
			outFormat = formatVal
			outIsDir = true

		} else {
			// Outputting to file, that already exists
			// Or something that doesn't exist - assumed to be a file

			if !c.IsSet("format") {
				// Format wasn't set, so ignore default value of "png"
				// Try to figure out format from output filename
				ext := strings.TrimPrefix(filepath.Ext(outVal), ".")
				if ext == "png" || ext == "gif" {
					// Acceptable extension
					outFormat = ext
				} else if ext == "" {
					// No extension, use default format
					outFormat = "png"
				} else {
					// Unsupported extension and no format flag override
					return fmt.Errorf(unsupportedFormat, ext)
				}
			} else {
				// Format flag was set, so ignore what the file looks like
				outFormat = formatVal
			}
		}

	}

	// Multiple input images are only valid if the output points to a directory.
	if len(inputImages) > 1 && !outIsDir {
		return fmt.Errorf("multiple input images are only allowed if the output is an existing directory")
	}

	if outFormat == "gif" && pal.Len() > 256 {
		return errors.New("the GIF format only supports 256 colors or less in the palette")
	}

	// Set PNG compression type

	switch c.String("compression") {
	case "default":
		compLevel = png.DefaultCompression
	case "no":
		compLevel = png.NoCompression
	case "speed":
		compLevel = png.BestSpeed
	case "size":
		compLevel = png.BestCompression
	default:
		return fmt.Errorf("invalid compression type '%s'", c.String("compression"))
	}

	if c.Bool("no-overwrite") {
		outFileFlags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	} else {
		outFileFlags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}

	// Set here for convenience
	width = int(c.Uint("width"))
	height = int(c.Uint("height"))
	upscale = int(c.Uint("upscale"))
	if upscale == 0 {
		// Invalid
		upscale = 1
	}

	strength, err = parsePercentArg(c.String("strength"), true)
	if err != nil {
		return fmt.Errorf("strength: %w", err)
	}
	if strength == 0 {
		// Ignore
		strength = 1
	}
	if strength < 0 || strength > 1 {
		return errors.New("strength must be in the range (0, 1], or 0%-100%")
	}

	sink = &render.Latest{}
	var opts []render.Option
	if c.Bool("verbose") {
		opts = append(opts, render.WithListener(func(e render.Event) {
			log.Printf("render %d: %s", e.Generation, e.State)
		}))
	}
	controller = render.NewController(store, sink, opts...)

	return nil
}

// loadPalette takes the palette flag, which is either the name of a built-in
// palette or a list of colors. A list of colors is registered in the store
// as the custom palette.
func loadPalette(arg string) (*palette.Palette, error) {
	args := parseArgs([]string{arg}, " ")
	if len(args) == 1 {
		if p, err := store.Get(strings.ToLower(args[0])); err == nil {
			return p, nil
		}
	}

	colors, err := palette.ParseColors(args)
	if err != nil {
		return nil, fmt.Errorf("palette: %w", err)
	}
	if len(colors) < 2 {
		return nil, errors.New("the palette must be a built-in palette name, or at least two colors")
	}
	if err := store.Register(customPalette, colors); err != nil {
		return nil, fmt.Errorf("palette: %w", err)
	}
	return store.Get(customPalette)
}

// params returns the kernel parameters from the global flags.
func params() kernel.Params {
	return kernel.Params{
		Strength: strength,
		Workers:  threads,
	}
}

func none(c *cli.Context) error {
	if c.Args().Len() != 0 {
		return errors.New("none doesn't take any arguments")
	}
	return processImages(kernel.None, params())
}

var bayerAlgorithm = map[uint]kernel.Algorithm{
	2:  kernel.Bayer2,
	4:  kernel.Bayer4,
	8:  kernel.Bayer8,
	16: kernel.Bayer16,
}

func bayer(c *cli.Context) error {
	args := parseArgs(c.Args().Slice(), " ,x")

	if len(args) != 1 && len(args) != 2 {
		return errors.New("bayer needs the matrix size. Example: 4 or 4x4")
	}

	uintArgs := make([]uint, len(args))
	for i, arg := range args {
		u64, err := strconv.ParseUint(arg, 10, 0)
		if err != nil {
			return err
		}
		uintArgs[i] = uint(u64)
	}

	if len(uintArgs) == 2 && uintArgs[0] != uintArgs[1] {
		return errors.New("bayer matrices must be square")
	}
	a, ok := bayerAlgorithm[uintArgs[0]]
	if !ok {
		return errors.New("the matrix size must be 2, 4, 8, or 16")
	}

	return processImages(a, params())
}

var edmName = map[string]kernel.Algorithm{
	"floydsteinberg":  kernel.FloydSteinberg,
	"floyd-steinberg": kernel.FloydSteinberg,
	"fs":              kernel.FloydSteinberg,
	"atkinson":        kernel.Atkinson,
}

func edm(c *cli.Context) error {
	args := c.Args().Slice()

	if len(args) != 1 {
		return errors.New("edm only accepts one argument")
	}

	a, ok := edmName[strings.ReplaceAll(strings.ToLower(args[0]), "_", "-")]
	if !ok {
		return fmt.Errorf("'%s' is not a supported matrix, use floyd-steinberg or atkinson", args[0])
	}

	return processImages(a, params())
}

func halftone(c *cli.Context) error {
	if c.Args().Len() != 0 {
		return errors.New("halftone doesn't take any arguments, use --cell for the cell size")
	}
	cell := c.Uint("cell")
	if cell == 0 {
		return errors.New("the cell size can't be 0")
	}

	p := params()
	p.CellSize = int(cell)
	return processImages(kernel.Halftone, p)
}
