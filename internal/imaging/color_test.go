package imaging

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

// createInMemoryImage creates an in-memory test image
func createInMemoryImage(width, height int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// createPatternImage creates an image with different colors in each quadrant
func createPatternImage(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var c color.Color
			if x < width/2 && y < height/2 {
				c = color.NRGBA{255, 0, 0, 255} // Red top-left
			} else if x >= width/2 && y < height/2 {
				c = color.NRGBA{0, 255, 0, 255} // Green top-right
			} else if x < width/2 && y >= height/2 {
				c = color.NRGBA{0, 0, 255, 255} // Blue bottom-left
			} else {
				c = color.NRGBA{255, 255, 255, 255} // White bottom-right
			}
			img.Set(x, y, c)
		}
	}
	return img
}

func TestNormalize_Hex(t *testing.T) {
	tests := []struct {
		name string
		spec string
		want Color
	}{
		{"short with hash", "#FFF", Color{255, 255, 255, 0}},
		{"long with hash", "#FFFFFF", Color{255, 255, 255, 0}},
		{"short without hash", "f80", Color{255, 136, 0, 0}},
		{"long lowercase", "ff8040", Color{255, 128, 64, 0}},
		{"black", "#000", Color{0, 0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.spec)
			if err != nil {
				t.Fatalf("Normalize(%q) failed: %v", tt.spec, err)
			}
			if got != tt.want {
				t.Errorf("Normalize(%q) = %+v, want %+v", tt.spec, got, tt.want)
			}
		})
	}
}

func TestNormalize_ShortAndLongHexMatch(t *testing.T) {
	short := MustNormalize("#FFF")
	long := MustNormalize("#FFFFFF")
	if short != long {
		t.Errorf("#FFF = %+v, #FFFFFF = %+v", short, long)
	}
}

func TestNormalize_Components(t *testing.T) {
	tests := []struct {
		name string
		spec any
		want Color
	}{
		{"positional triple", []int{10, 20, 30}, Color{10, 20, 30, 0}},
		{"positional quad", []int{0, 0, 0, 64}, Color{0, 0, 0, 64}},
		{"alpha clamped", []int{0, 0, 0, 200}, Color{0, 0, 0, 127}},
		{"negative clamped", []int{-5, 300, 0}, Color{0, 255, 0, 0}},
		{"float positional", []float64{12.9, 0, 255.5}, Color{12, 0, 255, 0}},
		{"any positional", []any{1, 2.0, 3}, Color{1, 2, 3, 0}},
		{"named int", map[string]int{"r": 1, "g": 2, "b": 3, "a": 4}, Color{1, 2, 3, 4}},
		{"named float", map[string]float64{"r": 255, "g": 0, "b": 0}, Color{255, 0, 0, 0}},
		{"named any", map[string]any{"r": 9, "g": 8.0, "b": 7}, Color{9, 8, 7, 0}},
		{"Color passthrough", Color{1, 2, 3, 127}, Color{1, 2, 3, 127}},
		{"color.NRGBA opaque", color.NRGBA{1, 2, 3, 255}, Color{1, 2, 3, 0}},
		{"color.NRGBA transparent", color.NRGBA{0, 0, 0, 0}, Color{0, 0, 0, 127}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.spec)
			if err != nil {
				t.Fatalf("Normalize failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNormalize_Invalid(t *testing.T) {
	tests := []struct {
		name string
		spec any
	}{
		{"empty string", ""},
		{"four digits", "#FFFF"},
		{"five digits", "12345"},
		{"not hex", "#GGG"},
		{"too few components", []int{1, 2}},
		{"too many components", []int{1, 2, 3, 4, 5}},
		{"missing key", map[string]int{"r": 1, "g": 2}},
		{"non-numeric component", []any{"a", 2, 3}},
		{"unsupported type", 42},
		{"nil", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.spec)
			if !errors.Is(err, ErrInvalidColor) {
				t.Errorf("expected ErrInvalidColor, got %v", err)
			}
		})
	}
}

func TestNormalizeAll(t *testing.T) {
	tests := []struct {
		name string
		spec any
		want []Color
	}{
		{"single hex", "#F00", []Color{{255, 0, 0, 0}}},
		{"numeric list is one color", []any{0, 255, 0}, []Color{{0, 255, 0, 0}}},
		{"list of hex", []string{"#F00", "#00F"}, []Color{{255, 0, 0, 0}, {0, 0, 255, 0}}},
		{"mixed list", []any{"#FFF", []any{1, 2, 3}}, []Color{{255, 255, 255, 0}, {1, 2, 3, 0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeAll(tt.spec)
			if err != nil {
				t.Fatalf("NormalizeAll failed: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d colors, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("color %d: got %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestColor_AlphaConversion(t *testing.T) {
	tests := []struct {
		alpha uint8
		want  uint8
	}{
		{0, 255},
		{127, 0},
		{64, 126},
	}

	for _, tt := range tests {
		got := Color{A: tt.alpha}.NRGBA().A
		if got != tt.want {
			t.Errorf("alpha %d -> NRGBA %d, want %d", tt.alpha, got, tt.want)
		}
		if back := FromNRGBA(color.NRGBA{A: got}).A; back != tt.alpha {
			t.Errorf("round trip of alpha %d gave %d", tt.alpha, back)
		}
	}
}

func TestColor_Hex(t *testing.T) {
	if got := (Color{R: 255, G: 128, B: 64}).Hex(); got != "#FF8040" {
		t.Errorf("Hex: got %s, want #FF8040", got)
	}
}

func TestSampleColor(t *testing.T) {
	img := createInMemoryImage(100, 100, color.RGBA{255, 128, 64, 255})

	result, err := SampleColor(img, 50, 50)
	if err != nil {
		t.Fatalf("SampleColor failed: %v", err)
	}

	if result.Hex != "#FF8040" {
		t.Errorf("Hex: got %s, want #FF8040", result.Hex)
	}

	if result.RGB.R != 255 || result.RGB.G != 128 || result.RGB.B != 64 {
		t.Errorf("RGB: got (%d,%d,%d), want (255,128,64)", result.RGB.R, result.RGB.G, result.RGB.B)
	}

	if result.Color.A != 0 {
		t.Errorf("Color.A: got %d, want 0 (opaque)", result.Color.A)
	}
}

func TestSampleColor_KnownColors(t *testing.T) {
	tests := []struct {
		name    string
		color   color.RGBA
		wantHex string
		wantHue int // approximate
	}{
		{"pure red", color.RGBA{255, 0, 0, 255}, "#FF0000", 0},
		{"pure green", color.RGBA{0, 255, 0, 255}, "#00FF00", 120},
		{"pure blue", color.RGBA{0, 0, 255, 255}, "#0000FF", 240},
		{"white", color.RGBA{255, 255, 255, 255}, "#FFFFFF", 0},
		{"black", color.RGBA{0, 0, 0, 255}, "#000000", 0},
		{"gray", color.RGBA{128, 128, 128, 255}, "#808080", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := createInMemoryImage(10, 10, tt.color)
			result, err := SampleColor(img, 5, 5)
			if err != nil {
				t.Fatalf("SampleColor failed: %v", err)
			}

			if result.Hex != tt.wantHex {
				t.Errorf("Hex: got %s, want %s", result.Hex, tt.wantHex)
			}
			if abs(result.HSL.H-tt.wantHue) > 1 {
				t.Errorf("Hue: got %d, want %d", result.HSL.H, tt.wantHue)
			}
		})
	}
}

func TestSampleColor_OutOfBounds(t *testing.T) {
	img := createInMemoryImage(100, 100, color.RGBA{255, 0, 0, 255})

	tests := []struct {
		name string
		x, y int
	}{
		{"negative x", -1, 50},
		{"negative y", 50, -1},
		{"x too large", 100, 50},
		{"y too large", 50, 100},
		{"both too large", 100, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SampleColor(img, tt.x, tt.y)
			if err == nil {
				t.Error("SampleColor should fail for out-of-bounds coordinates")
			}
		})
	}
}

func TestDominantColors(t *testing.T) {
	// Mostly red, some green
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			if x < 80 {
				img.Set(x, y, color.RGBA{255, 0, 0, 255})
			} else {
				img.Set(x, y, color.RGBA{0, 255, 0, 255})
			}
		}
	}

	result, err := DominantColors(img, 5, nil)
	if err != nil {
		t.Fatalf("DominantColors failed: %v", err)
	}

	if len(result.Colors) != 2 {
		t.Fatalf("expected 2 colors, got %d", len(result.Colors))
	}
	if result.Colors[0].Percentage != 80 {
		t.Errorf("dominant color percentage: got %f, want 80", result.Colors[0].Percentage)
	}
	// Components are quantized to multiples of 16.
	if result.Colors[0].Hex != "#F00000" {
		t.Errorf("dominant color: got %s, want #F00000", result.Colors[0].Hex)
	}
}

func TestDominantColors_WithRegion(t *testing.T) {
	img := createPatternImage(100, 100)

	region := &RegionRect{Left: 0, Top: 0, Right: 50, Bottom: 50}
	result, err := DominantColors(img, 5, region)
	if err != nil {
		t.Fatalf("DominantColors with region failed: %v", err)
	}

	if len(result.Colors) != 1 || result.Colors[0].Percentage != 100 {
		t.Errorf("expected only red in top-left region, got %+v", result.Colors)
	}
}

func TestDominantColors_SkipsTransparent(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	img.Set(0, 0, color.NRGBA{0, 0, 255, 255})

	result, err := DominantColors(img, 3, nil)
	if err != nil {
		t.Fatalf("DominantColors failed: %v", err)
	}
	if len(result.Colors) != 1 || result.Colors[0].Percentage != 100 {
		t.Errorf("expected the single opaque pixel to be 100%%, got %+v", result.Colors)
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
