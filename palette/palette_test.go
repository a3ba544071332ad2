package palette

import (
	"errors"
	"image/color"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		a, b Color
		want int
	}{
		{Color{0, 0, 0}, Color{0, 0, 0}, 0},
		{Color{0, 0, 0}, Color{255, 255, 255}, 3 * 255 * 255},
		{Color{10, 20, 30}, Color{13, 16, 30}, 9 + 16},
		{Color{200, 0, 0}, Color{0, 0, 0}, 200 * 200},
	}
	for _, tt := range tests {
		if got := Distance(tt.a, tt.b); got != tt.want {
			t.Errorf("Distance(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
		if got := Distance(tt.b, tt.a); got != tt.want {
			t.Errorf("Distance(%v, %v) = %d, want %d", tt.b, tt.a, got, tt.want)
		}
	}
}

func TestLuminance(t *testing.T) {
	if l := Luminance(Color{0, 0, 0}); l != 0 {
		t.Errorf("black luminance = %f", l)
	}
	if l := Luminance(Color{255, 255, 255}); l != 255 {
		t.Errorf("white luminance = %f", l)
	}
	if l := Luminance(Color{64, 64, 64}); l != 64 {
		t.Errorf("gray luminance = %f", l)
	}
	if Luminance(Color{0, 255, 0}) <= Luminance(Color{255, 0, 0}) {
		t.Error("green should be brighter than red")
	}
}

func TestColorRGBA(t *testing.T) {
	c := Color{0x12, 0x80, 0xff}
	r, g, b, a := c.RGBA()
	if r != 0x1212 || g != 0x8080 || b != 0xffff || a != 0xffff {
		t.Errorf("RGBA() = %x %x %x %x", r, g, b, a)
	}
	if got := FromColor(color.NRGBA{0x12, 0x80, 0xff, 10}); got != c {
		t.Errorf("FromColor dropped channels: %v", got)
	}
	if c.String() != "#1280ff" {
		t.Errorf("String() = %s", c.String())
	}
}

func TestNewRejects(t *testing.T) {
	tests := map[string][]Color{
		"empty":     nil,
		"one color": {{1, 2, 3}},
		"duplicate": {{0, 0, 0}, {255, 255, 255}, {0, 0, 0}},
	}
	for name, colors := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := New("test", colors)
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("got %v, want ErrInvalid", err)
			}
		})
	}
}

func TestNewCopies(t *testing.T) {
	colors := []Color{{0, 0, 0}, {255, 255, 255}}
	p, err := New("bw", colors)
	if err != nil {
		t.Fatal(err)
	}
	colors[0] = Color{1, 1, 1}
	if p.Colors[0] != (Color{0, 0, 0}) {
		t.Error("palette shares the caller's slice")
	}
}

func TestExtremes(t *testing.T) {
	tests := []struct {
		name        string
		colors      []Color
		dark, light int
	}{
		{"bw", []Color{{0, 0, 0}, {255, 255, 255}}, 0, 1},
		{"reversed", []Color{{255, 255, 255}, {0, 0, 0}}, 1, 0},
		{"gameboy", presets["gameboy"], 0, 3},
		{"same luminance", []Color{{10, 10, 10}, {10, 10, 10}}, 0, 1},
	}
	for _, tt := range tests {
		p := &Palette{Name: tt.name, Colors: tt.colors}
		dark, light := p.Extremes()
		if dark != tt.dark || light != tt.light {
			t.Errorf("%s: Extremes() = %d, %d, want %d, %d", tt.name, dark, light, tt.dark, tt.light)
		}
	}
}

func TestPresetsValid(t *testing.T) {
	for name, colors := range presets {
		if _, err := New(name, colors); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
	}
	if n := len(presets["ega"]); n != 16 {
		t.Errorf("ega has %d colors", n)
	}
	if n := len(presets["web"]); n != 216 {
		t.Errorf("web has %d colors", n)
	}
}

func TestStoreGet(t *testing.T) {
	s := NewStore()
	p, err := s.Get("gray-4")
	if err != nil {
		t.Fatal(err)
	}
	want := []Color{{0, 0, 0}, {85, 85, 85}, {170, 170, 170}, {255, 255, 255}}
	if diff := cmp.Diff(want, p.Colors); diff != "" {
		t.Errorf("gray-4 mismatch (-want +got):\n%s", diff)
	}

	_, err = s.Get("nope")
	if !errors.Is(err, ErrUnknown) {
		t.Errorf("got %v, want ErrUnknown", err)
	}
}

func TestStoreGetIsIndependent(t *testing.T) {
	s := NewEmptyStore()
	if err := s.Register("custom", []Color{{1, 1, 1}, {2, 2, 2}}); err != nil {
		t.Fatal(err)
	}
	captured, err := s.Get("custom")
	if err != nil {
		t.Fatal(err)
	}

	// Mutating a returned palette doesn't reach the store
	captured.Colors[0] = Color{9, 9, 9}
	again, _ := s.Get("custom")
	if again.Colors[0] != (Color{1, 1, 1}) {
		t.Error("store was changed through a returned palette")
	}

	// Replacing the palette doesn't reach a captured copy
	if err := s.Register("custom", []Color{{3, 3, 3}, {4, 4, 4}, {5, 5, 5}}); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]Color{{1, 1, 1}, {2, 2, 2}}, again.Colors); diff != "" {
		t.Errorf("captured palette changed (-want +got):\n%s", diff)
	}
}

func TestStoreRegisterRejects(t *testing.T) {
	s := NewStore()
	err := s.Register("bw", []Color{{0, 0, 0}})
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("got %v, want ErrInvalid", err)
	}
	// The old palette is still there
	p, err := s.Get("bw")
	if err != nil || p.Len() != 2 {
		t.Errorf("bw changed after a failed Register: %v %v", p, err)
	}
}

func TestStoreConcurrent(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if i == 0 {
					_ = s.Register("custom", []Color{{0, 0, 0}, {uint8(j), 1, 1}})
					continue
				}
				if _, err := s.Get("ega"); err != nil {
					t.Error(err)
					return
				}
			}
		}(i)
	}
	wg.Wait()
}

func TestNames(t *testing.T) {
	names := NewStore().Names()
	if len(names) != len(presets) {
		t.Fatalf("got %d names, want %d", len(names), len(presets))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("names not sorted: %v", names)
		}
	}
}
