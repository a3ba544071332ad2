package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/makeworld-the-better-one/ditherlab/kernel"
	"github.com/makeworld-the-better-one/ditherlab/palette"
)

// Set by compiler, see Makefile
var (
	version = "v0.1.0"
	commit  = "unknown"
	builtBy = "unknown"
)

func newApp() *cli.App {
	return &cli.App{
		Name:                   "ditherlab",
		Usage:                  "dither images to a palette with ordered, error diffusion, or halftone dithering.",
		Description:            "ditherlab reduces images to a fixed palette.\n\nRun `ditherlab palettes` to see the built-in palettes.",
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "strength",
				Aliases: []string{"s"},
			},
			&cli.UintFlag{
				Name:    "threads",
				Aliases: []string{"j"},
			},
			&cli.StringFlag{
				Name:     "palette",
				Aliases:  []string{"p"},
				Required: true,
			},
			&cli.BoolFlag{
				Name:    "grayscale",
				Aliases: []string{"g"},
			},
			&cli.StringFlag{
				Name: "saturation",
			},
			&cli.StringFlag{
				Name: "brightness",
			},
			&cli.StringFlag{
				Name: "contrast",
			},
			&cli.StringFlag{
				Name:    "recolor",
				Aliases: []string{"r"},
			},
			&cli.BoolFlag{
				Name: "no-exif-rotation",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "png",
			},
			&cli.StringFlag{
				Name:     "out",
				Aliases:  []string{"o"},
				Required: true,
			},
			&cli.StringSliceFlag{
				Name:     "in",
				Aliases:  []string{"i"},
				Required: true,
			},
			&cli.BoolFlag{
				Name: "no-overwrite",
			},
			&cli.StringFlag{
				Name:    "compression",
				Aliases: []string{"c"},
				Value:   "default",
			},
			&cli.UintFlag{
				Name:    "width",
				Aliases: []string{"x"},
			},
			&cli.UintFlag{
				Name:    "height",
				Aliases: []string{"y"},
			},
			&cli.UintFlag{
				Name:    "upscale",
				Aliases: []string{"u"},
				Value:   1,
			},
			&cli.BoolFlag{
				Name: "verbose",
			},
			&cli.BoolFlag{
				Name:    "version",
				Aliases: []string{"v"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:                   "none",
				Usage:                  "map each pixel to the nearest palette color, without dithering",
				UseShortOptionHandling: true,
				Action:                 none,
			},
			{
				Name:                   "bayer",
				Usage:                  "Bayer matrix ordered dithering, with a 2, 4, 8, or 16 sized matrix",
				UseShortOptionHandling: true,
				Action:                 bayer,
			},
			{
				Name:                   "edm",
				Usage:                  "error diffusion dithering: floyd-steinberg or atkinson",
				UseShortOptionHandling: true,
				Action:                 edm,
			},
			{
				Name:  "halftone",
				Usage: "halftone dots in the darkest and lightest palette colors",
				Flags: []cli.Flag{
					&cli.UintFlag{
						Name:    "cell",
						Aliases: []string{"c"},
						Value:   kernel.DefaultCellSize,
					},
				},
				UseShortOptionHandling: true,
				Action:                 halftone,
			},
		},
		Before: preProcess,
		Action: func(c *cli.Context) error {
			return errors.New("no command specified")
		},
	}
}

// printPalettes lists the built-in palettes and their colors.
func printPalettes() {
	s := palette.NewStore()
	for _, name := range s.Names() {
		p, _ := s.Get(name)
		hexes := make([]string, len(p.Colors))
		for i, c := range p.Colors {
			hexes[i] = c.String()
		}
		if len(hexes) > 16 {
			fmt.Printf("%s (%d colors)\n", name, len(hexes))
			continue
		}
		fmt.Printf("%s: %s\n", name, strings.Join(hexes, " "))
	}
}

func main() {
	app := newApp()

	// Handle version flag
	if len(os.Args) == 2 && (os.Args[1] == "-v" || os.Args[1] == "--version") {
		fmt.Println("ditherlab", version)
		fmt.Println("Commit:", commit)
		fmt.Println("Built by:", builtBy)
		return
	}

	// Listing palettes doesn't need the required flags
	if len(os.Args) == 2 && os.Args[1] == "palettes" {
		printPalettes()
		return
	}

	// Hack around issue where required flags are still required even for help
	// https://github.com/urfave/cli/issues/1247
	if len(os.Args) == 3 {
		if os.Args[1] == "h" || os.Args[1] == "help" {
			// Like: ditherlab help bayer
			for _, c := range app.Commands {
				if c.Name == os.Args[2] {
					cli.HelpPrinter(os.Stdout, cli.CommandHelpTemplate, c)
					return
				}
			}
			fmt.Println("no command with that name")
			os.Exit(1)
		} else if os.Args[len(os.Args)-1] == "-h" || os.Args[len(os.Args)-1] == "--help" {
			// Like: ditherlab bayer --help
			for _, c := range app.Commands {
				if c.Name == os.Args[1] {
					cli.HelpPrinter(os.Stdout, cli.CommandHelpTemplate, c)
					return
				}
			}
			fmt.Println("no command with that name")
			os.Exit(1)
		}
	}

	err := app.Run(os.Args)
	if err != nil {
		if len(os.Args) == 1 {
			// Just ran the command with no flags
			return
		}
		fmt.Println(err)
		os.Exit(1)
	}
}
