package palette

// Default is the palette used when none is picked.
const Default = "bw"

// presets are registered by NewStore.
var presets = map[string][]Color{
	"bw": {{0, 0, 0}, {255, 255, 255}},

	"gray-4": {{0, 0, 0}, {85, 85, 85}, {170, 170, 170}, {255, 255, 255}},
	"gray-8": {
		{0, 0, 0}, {36, 36, 36}, {73, 73, 73}, {109, 109, 109},
		{146, 146, 146}, {182, 182, 182}, {219, 219, 219}, {255, 255, 255},
	},

	"gameboy": {{15, 56, 15}, {48, 98, 48}, {139, 172, 15}, {155, 188, 15}},

	"cga":   {{0, 0, 0}, {85, 255, 255}, {255, 85, 255}, {255, 255, 255}},
	"cga-2": {{0, 0, 0}, {0, 255, 0}, {255, 0, 0}, {255, 255, 0}},

	// The 16 color console palette
	"ega": {
		{0, 0, 0}, {0, 0, 170}, {0, 170, 0}, {0, 170, 170},
		{170, 0, 0}, {170, 0, 170}, {170, 85, 0}, {170, 170, 170},
		{85, 85, 85}, {85, 85, 255}, {85, 255, 85}, {85, 255, 255},
		{255, 85, 85}, {255, 85, 255}, {255, 255, 85}, {255, 255, 255},
	},

	"c64": {
		{0, 0, 0}, {255, 255, 255}, {136, 0, 0}, {170, 255, 238},
		{204, 68, 204}, {0, 204, 85}, {0, 0, 170}, {238, 238, 119},
		{221, 136, 85}, {102, 68, 0}, {255, 119, 119}, {51, 51, 51},
		{119, 119, 119}, {170, 255, 102}, {0, 136, 255}, {187, 187, 187},
	},

	// Bright black is the same as black, so it's only listed once
	"zx-spectrum": {
		{0, 0, 0}, {0, 0, 215}, {215, 0, 0}, {215, 0, 215},
		{0, 215, 0}, {0, 215, 215}, {215, 215, 0}, {215, 215, 215},
		{0, 0, 255}, {255, 0, 0}, {255, 0, 255},
		{0, 255, 0}, {0, 255, 255}, {255, 255, 0}, {255, 255, 255},
	},

	// The two grays are identical, so there's only one
	"apple-ii": {
		{0, 0, 0}, {144, 23, 64}, {64, 44, 83}, {255, 44, 255},
		{0, 165, 0}, {128, 128, 128}, {64, 76, 255}, {255, 83, 255},
		{0, 69, 0}, {255, 89, 0}, {255, 138, 206},
		{0, 255, 0}, {144, 255, 0}, {64, 191, 255}, {255, 255, 255},
	},

	"pico-8": {
		{0, 0, 0}, {29, 43, 83}, {126, 37, 83}, {0, 135, 81},
		{171, 82, 54}, {95, 87, 79}, {194, 195, 199}, {255, 241, 232},
		{255, 0, 77}, {255, 163, 0}, {255, 236, 39}, {0, 228, 54},
		{41, 173, 255}, {131, 118, 156}, {255, 119, 168}, {255, 204, 170},
	},

	"web": webSafe(),
}

// webSafe returns the 216 web-safe colors.
func webSafe() []Color {
	colors := make([]Color, 0, 216)
	for r := 0; r < 6; r++ {
		for g := 0; g < 6; g++ {
			for b := 0; b < 6; b++ {
				colors = append(colors, Color{uint8(r * 51), uint8(g * 51), uint8(b * 51)})
			}
		}
	}
	return colors
}
