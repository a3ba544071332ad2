package main

import (
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/makeworld-the-better-one/ditherlab/palette"
)

func TestParsePercentArg(t *testing.T) {
	tests := []struct {
		arg    string
		maxOne bool
		want   float64
	}{
		{"", true, 0},
		{"50%", true, 0.5},
		{"50%", false, 50},
		{"0.25", true, 0.25},
		{"0.25", false, 25},
		{"-100%", false, -100},
	}
	for _, tt := range tests {
		got, err := parsePercentArg(tt.arg, tt.maxOne)
		if err != nil {
			t.Errorf("%q: %v", tt.arg, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%q (maxOne %v) = %g, want %g", tt.arg, tt.maxOne, got, tt.want)
		}
	}

	for _, arg := range []string{"x", "x%", "%"} {
		if _, err := parsePercentArg(arg, true); err == nil {
			t.Errorf("%q parsed without error", arg)
		}
	}
}

func TestParseArgs(t *testing.T) {
	got := parseArgs([]string{"4x4", "8, 8"}, " ,x")
	if diff := cmp.Diff([]string{"4", "4", "8", "8"}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if got := parseArgs([]string{""}, " "); len(got) != 0 {
		t.Errorf("empty arg gave %q", got)
	}
}

func TestLoadPalette(t *testing.T) {
	store = palette.NewStore()

	p, err := loadPalette("GameBoy")
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "gameboy" {
		t.Errorf("got palette %q", p.Name)
	}

	p, err = loadPalette("red  0,0,255 #00ff00")
	if err != nil {
		t.Fatal(err)
	}
	want := []palette.Color{{R: 255, G: 0, B: 0}, {R: 0, G: 0, B: 255}, {R: 0, G: 255, B: 0}}
	if p.Name != customPalette {
		t.Errorf("got palette %q", p.Name)
	}
	if diff := cmp.Diff(want, p.Colors); diff != "" {
		t.Errorf("colors mismatch (-want +got):\n%s", diff)
	}

	for _, arg := range []string{"red", "red red", "nopalette"} {
		if _, err := loadPalette(arg); err == nil {
			t.Errorf("%q loaded without error", arg)
		}
	}
}

func TestRecolor(t *testing.T) {
	p, err := palette.New("two", []palette.Color{{R: 0, G: 0, B: 0}, {R: 255, G: 255, B: 255}})
	if err != nil {
		t.Fatal(err)
	}
	recolorPalette = []color.Color{
		color.NRGBA{255, 0, 0, 255},
		color.NRGBA{0, 0, 255, 255},
	}
	defer func() { recolorPalette = nil }()

	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	copy(img.Pix, []uint8{0, 0, 0, 255, 255, 255, 255, 255})
	recolor(img, p)

	want := []uint8{255, 0, 0, 255, 0, 0, 255, 255}
	if diff := cmp.Diff(want, img.Pix); diff != "" {
		t.Errorf("pixels mismatch (-want +got):\n%s", diff)
	}
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func grayImage(w, h int, level uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = level
		img.Pix[i+1] = level
		img.Pix[i+2] = level
		img.Pix[i+3] = 255
	}
	return img
}

func TestBayerCommand(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	out := filepath.Join(dir, "out.png")
	writePNG(t, in, grayImage(4, 4, 128))

	err := newApp().Run([]string{"ditherlab", "-p", "bw", "-i", in, "-o", out, "bayer", "2x2"})
	if err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds() != image.Rect(0, 0, 4, 4) {
		t.Fatalf("bounds %v", img.Bounds())
	}

	var got []string
	for y := 0; y < 4; y++ {
		row := ""
		for x := 0; x < 4; x++ {
			if r, _, _, _ := img.At(x, y).RGBA(); r == 0 {
				row += "B"
			} else {
				row += "W"
			}
		}
		got = append(got, row)
	}
	want := []string{"BWBW", "WBWB", "BWBW", "WBWB"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestHalftoneCommandGIF(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	out := filepath.Join(dir, "out.gif")
	writePNG(t, in, grayImage(8, 8, 255))

	err := newApp().Run([]string{
		"ditherlab", "-p", "black white", "-r", "navy yellow", "-u", "2",
		"-i", in, "-o", out, "halftone", "--cell", "4",
	})
	if err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := gif.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds() != image.Rect(0, 0, 16, 16) {
		t.Fatalf("bounds %v", img.Bounds())
	}
	// White has no dots, so everything is the recolored light color
	yellow := color.NRGBA{255, 255, 0, 255}
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			if c := color.NRGBAModel.Convert(img.At(x, y)); c != yellow {
				t.Fatalf("pixel (%d, %d) is %v", x, y, c)
			}
		}
	}
}

func TestCommandErrors(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	writePNG(t, in, grayImage(2, 2, 0))

	tests := [][]string{
		{"-p", "bw", "-i", in, "-o", filepath.Join(dir, "a.png"), "bayer", "3"},
		{"-p", "bw", "-i", in, "-o", filepath.Join(dir, "b.png"), "bayer", "4x8"},
		{"-p", "bw", "-i", in, "-o", filepath.Join(dir, "c.png"), "edm", "sierra"},
		{"-p", "bw", "-i", in, "-o", filepath.Join(dir, "d.jpg"), "none"},
		{"-p", "bw", "-s", "150%", "-i", in, "-o", filepath.Join(dir, "e.png"), "none"},
		{"-p", "bw", "-r", "red", "-i", in, "-o", filepath.Join(dir, "f.png"), "none"},
		{"-p", "bw", "-i", filepath.Join(dir, "missing.png"), "-o", filepath.Join(dir, "g.png"), "none"},
	}
	for _, args := range tests {
		if err := newApp().Run(append([]string{"ditherlab"}, args...)); err == nil {
			t.Errorf("%q ran without error", args)
		}
	}
}
